package app

import (
	"errors"
	"log"

	"github.com/decker502/transmog/internal/sim"
	"github.com/decker502/transmog/pkg/components"
	"github.com/decker502/transmog/pkg/game"
	"github.com/decker502/transmog/pkg/systems"
	"github.com/decker502/transmog/pkg/types"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	// unarmedAttack 空手攻击动画
	unarmedAttack = 422

	// 法术投射物飞行时间：基础周期 + 每格周期
	projectileBaseCycles    = 30
	projectileCyclesPerTile = 6
)

// orientations 方向键对应的朝向（0 南、512 西、1024 北、1536 东）
var orientations = map[ebiten.Key]struct {
	dx, dy, orientation int
}{
	ebiten.KeyArrowDown:  {0, -1, 0},
	ebiten.KeyArrowLeft:  {-1, 0, 512},
	ebiten.KeyArrowUp:    {0, 1, 1024},
	ebiten.KeyArrowRight: {1, 0, 1536},
}

// handleInput 处理键盘输入
func (a *App) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	if a.selection.Active() {
		a.handleSelectionInput()
		return
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		a.toggleLogin()
	}
	if _, ok := a.host.LocalPlayer(); ok {
		a.handlePlayerInput()
	}
	a.handleSetInput()
}

func (a *App) toggleFullscreen() {
	if ebiten.IsFullscreen() {
		ebiten.SetFullscreen(false)
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		return
	}
	ebiten.SetFullscreen(true)
}

func (a *App) handleSelectionInput() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		a.selection.Move(-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		a.selection.Move(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		a.selection.Confirm()
	case inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		a.selection.Delete()
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		a.selection.Cancel()
	}
}

func (a *App) toggleLogin() {
	if a.host.GameState() == types.GameStateLoggedIn {
		a.host.SetGameState(types.GameStateLoginScreen)
		return
	}
	a.host.SetGameState(types.GameStateLoading)
	a.host.SetGameState(types.GameStateLoggedIn)
}

func (a *App) handlePlayerInput() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyE):
		a.cycleWeapon()
	case inpututil.IsKeyJustPressed(ebiten.KeyA):
		a.attack()
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		a.cast()
	case inpututil.IsKeyJustPressed(ebiten.KeyX):
		a.castIndex++
	case inpututil.IsKeyJustPressed(ebiten.KeyT):
		a.target = (a.target + 1) % (len(a.targets) + 1)
		a.host.SetInteracting(a.player, a.currentTarget())
	}

	for key, move := range orientations {
		if !inpututil.IsKeyJustPressed(key) {
			continue
		}
		loc := a.host.WorldLocation(a.player)
		a.host.SetOrientation(a.player, move.orientation)
		a.host.MoveTo(a.player, loc.X+move.dx, loc.Y+move.dy)
	}
}

// currentTarget 当前交互目标，0 表示没有
func (a *App) currentTarget() types.ActorID {
	if a.target >= len(a.targets) {
		return 0
	}
	return a.targets[a.target]
}

// cycleWeapon 依次装备每把武器，最后回到空手
// 武器自带动画集时同时更换原始姿态动画
func (a *App) cycleWeapon() {
	weapons := a.items.ItemsForSlot(types.KitWeapon)
	a.weaponIndex = (a.weaponIndex + 1) % (len(weapons) + 1)

	weapon := types.NoItem
	if a.weaponIndex > 0 {
		weapon = weapons[a.weaponIndex-1]
	}

	poses := sim.UnarmedPoses
	if set, ok := a.sets.ForItem(weapon); ok {
		for _, slot := range types.AllPoseSlots() {
			if id := set.Animation(slot.Category()); id != types.NoAnimation {
				poses[slot] = id
			}
		}
	}
	a.host.SetNaturalPoses(poses)
	a.host.Equip(types.KitWeapon, weapon)
}

// attack 播放当前武器的默认攻击动画
func (a *App) attack() {
	animation := unarmedAttack
	weapon := a.host.EquippedItems()[types.KitWeapon]
	if set, ok := a.sets.ForItem(weapon); ok {
		if id := set.DefaultAttack(); id != types.NoAnimation {
			animation = id
		}
	}
	a.host.PlayAnimation(a.player, animation)
}

// cast 按宿主客户端的顺序施放当前法术：动画、施法图形、投射物，命中图形稍后出现
func (a *App) cast() {
	replaceable := a.casts.Replaceable()
	if len(replaceable) == 0 {
		return
	}
	cast := replaceable[a.castIndex%len(replaceable)]
	target := a.currentTarget()

	a.host.PlayAnimation(a.player, cast.CastAnimation)
	if cast.CastGfx != types.NoGraphic {
		a.host.ShowGraphic(a.player, cast.CastGfx)
	}
	if target == 0 {
		return
	}

	distance := systems.ChebyshevDistance(a.host, a.player, target, cast.Barrage)
	duration := projectileBaseCycles + projectileCyclesPerTile*distance
	if cast.HasProjectile() {
		a.host.FireProjectile(a.player, cast.ProjectileID, cast.StartMovement, duration)
	}
	if cast.HitGfx != types.NoGraphic {
		a.pendingHits = append(a.pendingHits, pendingHit{
			cycle:   a.host.GameCycle() + cast.StartMovement + duration,
			target:  target,
			graphic: cast.HitGfx,
		})
	}
	log.Printf("[App] Cast %s at distance %d", cast.Name, distance)
}

// handleSetInput 规则集管理：Tab 选择、空格启用、N 新建、Delete 删除、PageUp/PageDown 移动
func (a *App) handleSetInput() {
	sets := a.replacer.Sets()
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)

	// 按下其他键取消待确认的删除
	if len(inpututil.AppendJustPressedKeys(nil)) > 0 && !inpututil.IsKeyJustPressed(ebiten.KeyDelete) {
		a.confirmDelete = false
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyTab) && len(sets) > 0:
		if shift {
			a.setCursor = (a.setCursor - 1 + len(sets)) % len(sets)
		} else {
			a.setCursor = (a.setCursor + 1) % len(sets)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeySpace) && a.setCursor < len(sets):
		a.report(a.replacer.SetTransmogSetEnabled(a.setCursor, !sets[a.setCursor].Enabled))
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		index := min(a.setCursor+1, len(sets))
		if a.report(a.replacer.AddTransmogSet(index)) {
			a.setCursor = index
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyDelete) && a.setCursor < len(sets):
		if !a.confirmDelete {
			a.confirmDelete = true
			a.notifier.message = "Press Delete again to delete " + sets[a.setCursor].Name
			return
		}
		a.confirmDelete = false
		deleted, err := a.replacer.DeleteTransmogSet(a.setCursor)
		if a.report(err) && deleted && a.setCursor > 0 && a.setCursor >= len(a.replacer.Sets()) {
			a.setCursor--
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyPageUp) && a.setCursor < len(sets):
		if a.report(a.replacer.MoveTransmogSet(a.setCursor, true)) && a.setCursor > 0 {
			a.setCursor--
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyPageDown) && a.setCursor < len(sets):
		if a.report(a.replacer.MoveTransmogSet(a.setCursor, false)) && a.setCursor < len(sets)-1 {
			a.setCursor++
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		a.replacer.ReloadSets()
		a.setCursor = 0
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		a.settings.SetHideSidePanel(!a.settings.GetSettings().HideSidePanel)
		a.panel.SetVisible(!a.settings.GetSettings().HideSidePanel)
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		a.searchModelSwap()
	case inpututil.IsKeyJustPressed(ebiten.KeyI):
		a.searchTriggerItem()
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		a.searchSpellReplacement()
	}
}

// report 记录错误，返回是否成功
func (a *App) report(err error) bool {
	if err != nil {
		a.notifier.message = err.Error()
		log.Printf("[App] %v", err)
		return false
	}
	return true
}

// reportSearch 未登录的提示已经由 Notifier 显示
func (a *App) reportSearch(err error) {
	if errors.Is(err, game.ErrNotLoggedIn) {
		return
	}
	a.report(err)
}

// editedSwap 光标所在规则集的第一条规则，没有时新建
func (a *App) editedSwap() (*components.SwapComponent, bool) {
	sets := a.replacer.Sets()
	if a.setCursor >= len(sets) {
		return nil, false
	}
	set := sets[a.setCursor]
	if len(set.Swaps) == 0 {
		set.Swaps = append(set.Swaps, components.NewTemplateSwap())
	}
	return set.Swaps[0], true
}

// searchModelSwap 为规则选择外观物品，放在物品所属的槽位上
func (a *App) searchModelSwap() {
	swap, ok := a.editedSwap()
	if !ok {
		return
	}
	a.reportSearch(a.replacer.DoItemSearch(game.SearchModelSwap, swap, func(result game.SelectionResult) {
		swap.ModelSwaps = appendModelSwap(swap.ModelSwaps, result.ItemID)
		a.replacer.HandleTransmogSetChange()
	}, func() {
		swap.ModelSwaps = []int{types.WildcardItemID}
		a.replacer.HandleTransmogSetChange()
	}))
}

// appendModelSwap 添加外观物品，已存在时不重复添加
func appendModelSwap(modelSwaps []int, itemID int) []int {
	kept := modelSwaps[:0:0]
	for _, id := range modelSwaps {
		if id == itemID {
			return modelSwaps
		}
		if id != types.WildcardItemID {
			kept = append(kept, id)
		}
	}
	if len(kept) >= types.KitSlotCount {
		return modelSwaps
	}
	return append(kept, itemID)
}

// searchTriggerItem 替换规则的触发物品
func (a *App) searchTriggerItem() {
	swap, ok := a.editedSwap()
	if !ok {
		return
	}
	a.reportSearch(a.replacer.DoItemSearch(game.SearchTriggerItem, swap, func(result game.SelectionResult) {
		swap.ItemRestrictions = []int{result.ItemID}
		a.replacer.HandleTransmogSetChange()
	}, nil))
}

// searchSpellReplacement 把当前法术替换为选择的法术
func (a *App) searchSpellReplacement() {
	swap, ok := a.editedSwap()
	if !ok {
		return
	}
	replaceable := a.casts.Replaceable()
	if len(replaceable) == 0 {
		return
	}
	original := replaceable[a.castIndex%len(replaceable)]
	a.reportSearch(a.replacer.DoItemSearch(game.SearchSpellRight, swap, func(result game.SelectionResult) {
		if result.Cast == nil {
			return
		}
		swap.ProjectileSwaps = append(swap.ProjectileSwaps, components.ProjectileSwapRef{
			ToReplace:     original.Name,
			ToReplaceWith: result.Cast.Name,
		})
		a.replacer.HandleTransmogSetChange()
	}, func() {
		swap.ProjectileSwaps = nil
		a.replacer.HandleTransmogSetChange()
	}))
}
