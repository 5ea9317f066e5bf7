package game

import (
	"fmt"
	"log"

	"github.com/decker502/transmog/pkg/client"
	"github.com/decker502/transmog/pkg/components"
	"github.com/decker502/transmog/pkg/config"
	"github.com/decker502/transmog/pkg/systems"
	"github.com/decker502/transmog/pkg/types"
)

// ReplacerDeps Replacer 的协作者
// UI/Notifier/Panel/Settings 可以为 nil
type ReplacerDeps struct {
	Client        client.Client
	Gear          client.GearProvider
	Items         client.ItemMetadata
	AnimationSets *config.AnimationSetCatalog
	Casts         *config.ProjectileCastCatalog
	ItemData      *config.ItemDataConfig
	Store         *TransmogSetStore
	Settings      *SettingsManager

	SelectionUI SelectionUI
	Notifier    Notifier
	Panel       Panel
}

// Replacer 替换核心的编排者
//
// 持有规则集和当前的 ResolutionState，把宿主事件分发给各个系统。
// 所有方法都在宿主的逻辑线程上同步调用。
type Replacer struct {
	client        client.Client
	gear          client.GearProvider
	items         client.ItemMetadata
	animationSets *config.AnimationSetCatalog
	itemData      *config.ItemDataConfig
	store         *TransmogSetStore
	settings      *SettingsManager

	selectionUI SelectionUI
	notifier    Notifier
	panel       Panel

	resolver         *systems.TransmogResolver
	castInterception *systems.CastInterceptionSystem
	animationSwap    *systems.AnimationSwapSystem
	scythe           *systems.ScytheSwingSystem

	sets              []*components.TransmogSetComponent
	state             *systems.ResolutionState
	previewItem       int
	previewAnimations bool

	observers []func(*systems.ResolutionState)
}

// NewReplacer 创建 Replacer，调用 Start 后开始工作
func NewReplacer(deps ReplacerDeps) *Replacer {
	scythe := systems.NewScytheSwingSystem(deps.Client)
	return &Replacer{
		client:        deps.Client,
		gear:          deps.Gear,
		items:         deps.Items,
		animationSets: deps.AnimationSets,
		itemData:      deps.ItemData,
		store:         deps.Store,
		settings:      deps.Settings,
		selectionUI:   deps.SelectionUI,
		notifier:      deps.Notifier,
		panel:         deps.Panel,

		resolver:         systems.NewTransmogResolver(deps.AnimationSets, deps.Casts, deps.ItemData, deps.Items),
		castInterception: systems.NewCastInterceptionSystem(deps.Client),
		animationSwap:    systems.NewAnimationSwapSystem(deps.Client, deps.AnimationSets, scythe),
		scythe:           scythe,

		sets:        []*components.TransmogSetComponent{},
		state:       &systems.ResolutionState{Animations: systems.NewAnimationReplacements(nil)},
		previewItem: types.NoItem,
	}
}

// Observe 注册 ResolutionState 变化的观察者（如解析状态监视器）
func (r *Replacer) Observe(fn func(*systems.ResolutionState)) {
	r.observers = append(r.observers, fn)
}

// Start 加载规则集并记录玩家的原始外观
func (r *Replacer) Start() {
	if r.settings != nil {
		systems.Verbose = r.settings.GetSettings().Verbose
	}
	r.loadSets()

	r.castInterception.Reset()
	r.scythe.SetEffect(nil)
	r.previewItem = types.NoItem
	r.previewAnimations = false

	if player, ok := r.client.LocalPlayer(); ok {
		r.OnPlayerChanged(player)
	} else {
		r.animationSwap.ClearNaturalPoses()
		r.Recompute()
	}

	if r.client.GameState() >= types.GameStateLoginScreen {
		r.showPanel()
	}
	log.Printf("[Replacer] Started with %d transmog sets", len(r.sets))
}

// Shutdown 移除全部替换并恢复原始姿态动画
func (r *Replacer) Shutdown() {
	if r.panel != nil {
		r.panel.SetVisible(false)
	}
	if player, ok := r.client.LocalPlayer(); ok {
		r.client.SetKitOverrides(player, nil)
	}
	r.animationSwap.RestoreNaturalPoses()
	r.castInterception.Reset()
	r.scythe.SetEffect(nil)
	r.sets = []*components.TransmogSetComponent{}
	log.Printf("[Replacer] Shut down")
}

// loadSets 从存储读取规则集，损坏的数据记录日志并使用空列表
func (r *Replacer) loadSets() {
	if r.store == nil {
		return
	}
	sets, err := r.store.Load()
	if err != nil {
		log.Printf("[Replacer] Failed to load transmog sets: %v", err)
	}
	r.sets = sets
}

// ReloadSets 重新读取规则集（切换配置档案时调用）
func (r *Replacer) ReloadSets() {
	r.loadSets()
	if _, ok := r.client.LocalPlayer(); ok {
		r.HandleTransmogSetChange()
	}
	if r.panel != nil {
		r.panel.Rebuild()
	}
}

// Recompute 从规则和当前装备完整重新计算 ResolutionState 并应用
func (r *Replacer) Recompute() {
	var equipped []int
	if r.gear != nil {
		equipped = r.canonicalItems(r.gear.EquippedItems())
	}

	state := r.resolver.Resolve(systems.ResolveInput{
		Sets:              r.sets,
		Equipped:          equipped,
		PreviewItem:       r.previewItem,
		PreviewAnimations: r.previewAnimations,
	})
	r.state = state

	r.castInterception.SetProjectileSwaps(state.ProjectileSwaps)
	r.scythe.SetEffect(state.ScytheSwing)
	r.animationSwap.SetAnimations(state.Animations)

	r.applyKits()
	r.animationSwap.ApplyPoses()

	if systems.Verbose {
		log.Printf("[Replacer] Resolved %d model swaps, %d animations, %d projectile swaps",
			len(state.ModelSwaps), state.Animations.Len(), len(state.ProjectileSwaps))
	}
	for _, fn := range r.observers {
		fn(state)
	}
}

// canonicalItems 把票据/占位形态的装备 ID 映射回原物品，保留空槽
func (r *Replacer) canonicalItems(items []int) []int {
	if r.items == nil {
		return items
	}
	canonical := make([]int, len(items))
	for i, item := range items {
		if item < 0 {
			canonical[i] = item
			continue
		}
		canonical[i] = r.items.Canonicalize(item)
	}
	return canonical
}

// applyKits 把当前的外观替换写入玩家
func (r *Replacer) applyKits() {
	player, ok := r.client.LocalPlayer()
	if !ok {
		return
	}
	r.client.SetKitOverrides(player, r.state.ModelSwaps)
}

// State 当前的 ResolutionState
func (r *Replacer) State() *systems.ResolutionState {
	return r.state
}

// ---------- 宿主事件 ----------

// OnPlayerChanged 玩家外观变化：记录原始姿态后重新计算
func (r *Replacer) OnPlayerChanged(actor types.ActorID) {
	player, ok := r.client.LocalPlayer()
	if !ok || actor != player {
		return
	}
	r.animationSwap.RecordNaturalPoses()
	r.Recompute()
}

// OnAnimationChanged 先记录真实动画供法术拦截使用，再替换动画
func (r *Replacer) OnAnimationChanged(actor types.ActorID) {
	r.castInterception.OnAnimationChanged(actor)
	r.animationSwap.OnAnimationChanged(actor)
}

// OnProjectileMoved 投射物移动事件
func (r *Replacer) OnProjectileMoved(p client.Projectile) {
	r.castInterception.OnProjectileMoved(p)
}

// OnClientTick 每个客户端周期调用一次
func (r *Replacer) OnClientTick() {
	r.castInterception.Update()
	r.scythe.Update()
}

// OnGameStateChanged 登录界面显示面板；登录完成后重新应用外观（传送后外观会被重置）
func (r *Replacer) OnGameStateChanged(state types.GameState) {
	switch state {
	case types.GameStateLoginScreen:
		r.showPanel()
	case types.GameStateLoggedIn:
		if _, ok := r.client.LocalPlayer(); ok {
			r.applyKits()
		}
	}
}

func (r *Replacer) showPanel() {
	if r.panel == nil {
		return
	}
	hide := r.settings != nil && r.settings.GetSettings().HideSidePanel
	r.panel.SetVisible(!hide)
}

// ---------- 规则集管理 ----------

// Sets 当前的规则集（调用方修改后需调用 HandleTransmogSetChange）
func (r *Replacer) Sets() []*components.TransmogSetComponent {
	return r.sets
}

// HandleTransmogSetChange 保存规则集并重新计算
func (r *Replacer) HandleTransmogSetChange() {
	r.saveSets()
	r.Recompute()
}

func (r *Replacer) saveSets() {
	if r.store == nil {
		return
	}
	if err := r.store.Save(r.sets); err != nil {
		log.Printf("[Replacer] Failed to save transmog sets: %v", err)
	}
}

func (r *Replacer) rebuildPanel() {
	if r.panel != nil {
		r.panel.Rebuild()
	}
}

// AddTransmogSet 在 index 处插入模板规则集
func (r *Replacer) AddTransmogSet(index int) error {
	if index < 0 || index > len(r.sets) {
		return fmt.Errorf("add transmog set: index %d out of range [0, %d]", index, len(r.sets))
	}
	r.sets = append(r.sets, nil)
	copy(r.sets[index+1:], r.sets[index:])
	r.sets[index] = components.NewTemplateTransmogSet()

	r.rebuildPanel()
	r.HandleTransmogSetChange()
	return nil
}

// MoveTransmogSet 上移/下移规则集，已在边缘时不做任何事
func (r *Replacer) MoveTransmogSet(index int, up bool) error {
	if index < 0 || index >= len(r.sets) {
		return fmt.Errorf("move transmog set: index %d out of range", index)
	}
	if (up && index == 0) || (!up && index == len(r.sets)-1) {
		return nil
	}
	target := index + 1
	if up {
		target = index - 1
	}
	r.sets[index], r.sets[target] = r.sets[target], r.sets[index]

	r.rebuildPanel()
	r.HandleTransmogSetChange()
	return nil
}

// DeleteTransmogSet 经确认后删除规则集
// 返回是否真的删除了
func (r *Replacer) DeleteTransmogSet(index int) (bool, error) {
	if index < 0 || index >= len(r.sets) {
		return false, fmt.Errorf("delete transmog set: index %d out of range", index)
	}
	if r.notifier != nil && !r.notifier.Confirm("Delete?", "Are you sure you want to delete that?") {
		return false, nil
	}
	r.sets = append(r.sets[:index], r.sets[index+1:]...)

	r.rebuildPanel()
	r.HandleTransmogSetChange()
	return true, nil
}

// SetTransmogSetEnabled 启用/禁用规则集
func (r *Replacer) SetTransmogSetEnabled(index int, enabled bool) error {
	if index < 0 || index >= len(r.sets) {
		return fmt.Errorf("toggle transmog set: index %d out of range", index)
	}
	r.sets[index].Enabled = enabled
	r.HandleTransmogSetChange()
	return nil
}

// ---------- 预览 ----------

// SetPreviewItem 设置悬停预览的物品，-1 清除预览
// previewAnimations 为 true 时同时预览物品自带的动画集
func (r *Replacer) SetPreviewItem(itemID int, previewAnimations bool) {
	r.previewItem = itemID
	r.previewAnimations = previewAnimations && itemID != types.NoItem
	r.Recompute()
}

// ClearPreview 清除预览
func (r *Replacer) ClearPreview() {
	r.SetPreviewItem(types.NoItem, false)
}

// PreviewItem 当前预览的物品
func (r *Replacer) PreviewItem() int {
	return r.previewItem
}

// DemoAnimation 播放一个动画（面板中的动画预览按钮）
func (r *Replacer) DemoAnimation(animationID int) {
	r.animationSwap.DemoAnimation(animationID)
}

// ---------- 物品名称 ----------

// ItemDisplayName 面板中显示的物品名称
func (r *Replacer) ItemDisplayName(itemID int) string {
	if itemID < 0 {
		negative := types.MapNegativeID(itemID)
		switch negative.Kind {
		case types.NegativeHideSlot:
			return "Hide " + negative.Slot.String()
		case types.NegativeShowSlot:
			return "Show " + negative.Slot.String()
		}
		return fmt.Sprintf("%d", itemID)
	}

	fallback := fmt.Sprintf("%d", itemID)
	if r.items != nil {
		if name, ok := r.items.Name(itemID); ok {
			fallback = name
		}
	}
	return r.itemData.Name(itemID, fallback)
}
