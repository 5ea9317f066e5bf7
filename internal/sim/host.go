// Package sim 提供一个基于 ECS 的模拟宿主客户端
//
// Host 实现 client.Client、client.GearProvider，按真实客户端的顺序
// 同步派发事件：外观变化、动画变化、投射物移动、客户端 tick。
// 测试和预览程序通过它驱动完整的替换流程。
package sim

import (
	"log"

	"github.com/decker502/transmog/pkg/client"
	"github.com/decker502/transmog/pkg/components"
	"github.com/decker502/transmog/pkg/ecs"
	"github.com/decker502/transmog/pkg/systems"
	"github.com/decker502/transmog/pkg/types"
)

// effectObjectLifetime 独立动画物体的存活周期
const effectObjectLifetime = 60

// UnarmedPoses 空手时的姿态动画
var UnarmedPoses = [types.PoseSlotCount]int{
	types.PoseIdle:            808,
	types.PoseIdleRotateLeft:  823,
	types.PoseIdleRotateRight: 823,
	types.PoseWalk:            819,
	types.PoseWalkRotate180:   820,
	types.PoseWalkRotateLeft:  821,
	types.PoseWalkRotateRight: 822,
	types.PoseRun:             824,
}

// Listener 接收宿主事件（通常是 game.Replacer）
type Listener interface {
	OnGameStateChanged(state types.GameState)
	OnPlayerChanged(actor types.ActorID)
	OnAnimationChanged(actor types.ActorID)
	OnProjectileMoved(p client.Projectile)
	OnClientTick()
}

// Host 模拟宿主客户端
type Host struct {
	em       *ecs.EntityManager
	cycle    int
	state    types.GameState
	player   ecs.EntityID
	listener Listener
	lifetime *systems.LifetimeSystem
}

// NewHost 创建模拟宿主
func NewHost() *Host {
	em := ecs.NewEntityManager()
	return &Host{
		em:       em,
		state:    types.GameStateLoginScreen,
		lifetime: systems.NewLifetimeSystem(em),
	}
}

// SetListener 设置事件接收者，nil 表示不派发
func (h *Host) SetListener(l Listener) {
	h.listener = l
}

// EntityManager 返回底层 ECS 存储
func (h *Host) EntityManager() *ecs.EntityManager {
	return h.em
}

// ---------- 驱动接口 ----------

// SpawnPlayer 创建本地玩家
func (h *Host) SpawnPlayer(name string, x, y int) types.ActorID {
	id := h.spawnActor(&components.ActorComponent{Name: name, Size: 1}, x, y)
	equipment := &components.EquipmentComponent{Overrides: map[types.KitSlot]int{}}
	for i := range equipment.Items {
		equipment.Items[i] = types.NoItem
	}
	ecs.Add(h.em, id, equipment)

	ecs.Add(h.em, id, &components.PoseComponent{
		Animations: UnarmedPoses,
		Natural:    UnarmedPoses,
	})

	h.player = id
	return types.ActorID(id)
}

// SpawnNPC 创建 NPC，(x, y) 为西南角地块
func (h *Host) SpawnNPC(name string, x, y, size int) types.ActorID {
	return types.ActorID(h.spawnActor(&components.ActorComponent{Name: name, IsNPC: true, Size: size}, x, y))
}

func (h *Host) spawnActor(actor *components.ActorComponent, x, y int) ecs.EntityID {
	id := h.em.Create()
	ecs.Add(h.em, id, actor)
	ecs.Add(h.em, id, &components.LocationComponent{X: x, Y: y, TrueX: x, TrueY: y})
	ecs.Add(h.em, id, &components.AppearanceComponent{
		Animation: types.NoAnimation,
		Graphic:   types.NoGraphic,
	})
	return id
}

// SetGameState 切换会话状态并派发事件
// 进入已登录状态时玩家外观随之加载，再派发一次外观变化事件
func (h *Host) SetGameState(state types.GameState) {
	previous := h.state
	h.state = state
	if h.listener != nil {
		h.listener.OnGameStateChanged(state)
	}
	if state == types.GameStateLoggedIn && previous != types.GameStateLoggedIn && h.player != 0 {
		h.notifyPlayerChanged()
	}
}

// Equip 更换装备并派发外观变化事件
func (h *Host) Equip(slot types.KitSlot, itemID int) {
	equipment, ok := ecs.Get[*components.EquipmentComponent](h.em, h.player)
	if !ok || !slot.Valid() {
		return
	}
	equipment.Items[slot] = itemID
	h.notifyPlayerChanged()
}

// SetNaturalPoses 设置玩家的原始姿态动画并派发外观变化事件
func (h *Host) SetNaturalPoses(poses [types.PoseSlotCount]int) {
	pose, ok := ecs.Get[*components.PoseComponent](h.em, h.player)
	if !ok {
		return
	}
	pose.Natural = poses
	h.notifyPlayerChanged()
}

// notifyPlayerChanged 按装备重新计算姿态动画，再派发外观变化事件
func (h *Host) notifyPlayerChanged() {
	if pose, ok := ecs.Get[*components.PoseComponent](h.em, h.player); ok {
		pose.Animations = pose.Natural
	}
	if h.listener != nil {
		h.listener.OnPlayerChanged(types.ActorID(h.player))
	}
}

// PlayAnimation 角色开始播放动画，派发动画变化事件
func (h *Host) PlayAnimation(actor types.ActorID, animationID int) {
	h.SetAnimation(actor, animationID)
	h.SetAnimationFrame(actor, 0)
	if h.listener != nil {
		h.listener.OnAnimationChanged(actor)
	}
}

// ShowGraphic 在角色身上显示图形（不经过替换逻辑）
func (h *Host) ShowGraphic(actor types.ActorID, graphicID int) {
	h.SetGraphic(actor, graphicID)
	h.SetGraphicFrame(actor, 0)
}

// SetInteracting 设置角色的交互目标，0 表示清除
func (h *Host) SetInteracting(actor, target types.ActorID) {
	if a, ok := ecs.Get[*components.ActorComponent](h.em, ecs.EntityID(actor)); ok {
		a.Interacting = target
	}
}

// SetOrientation 设置角色朝向
func (h *Host) SetOrientation(actor types.ActorID, orientation int) {
	if a, ok := ecs.Get[*components.ActorComponent](h.em, ecs.EntityID(actor)); ok {
		a.Orientation = orientation
	}
}

// MoveTo 移动角色（显示位置与服务器位置一致）
func (h *Host) MoveTo(actor types.ActorID, x, y int) {
	if loc, ok := ecs.Get[*components.LocationComponent](h.em, ecs.EntityID(actor)); ok {
		loc.X, loc.Y, loc.TrueX, loc.TrueY = x, y, x, y
	}
}

// FireProjectile 从角色服务器位置向其交互目标发射投射物
// delay/duration 以客户端周期计
func (h *Host) FireProjectile(actor types.ActorID, projectileID, delay, duration int) types.ProjectileHandle {
	target, _ := h.Interacting(actor)
	return h.CreateProjectile(client.Projectile{
		ID:          projectileID,
		Plane:       h.WorldLocation(actor).Plane,
		Start:       h.TrueLocalLocation(actor),
		Height:      43,
		StartCycle:  h.cycle + delay,
		EndCycle:    h.cycle + delay + duration,
		Slope:       16,
		StartHeight: 43,
		EndHeight:   31,
		Interacting: target,
		Target:      h.LocalLocation(target),
	})
}

// Tick 推进一个客户端周期：派发 tick 事件，清理结束的投射物与物体
func (h *Host) Tick() {
	h.cycle++
	if h.listener != nil {
		h.listener.OnClientTick()
	}

	for _, id := range ecs.Query[*components.ProjectileComponent](h.em) {
		p, _ := ecs.Get[*components.ProjectileComponent](h.em, id)
		if h.cycle >= p.EndCycle {
			h.em.Destroy(id)
		}
	}
	h.lifetime.Update(h.cycle)
	h.em.Flush()
}

// Projectiles 返回所有存活的投射物
func (h *Host) Projectiles() []client.Projectile {
	var result []client.Projectile
	for _, id := range ecs.Query[*components.ProjectileComponent](h.em) {
		p, _ := ecs.Get[*components.ProjectileComponent](h.em, id)
		result = append(result, projectileFromComponent(id, p))
	}
	return result
}

// EffectObjects 返回所有存活的独立动画物体
func (h *Host) EffectObjects() []client.EffectObject {
	var result []client.EffectObject
	for _, id := range ecs.Query[*components.EffectObjectComponent](h.em) {
		obj, _ := ecs.Get[*components.EffectObjectComponent](h.em, id)
		result = append(result, client.EffectObject{
			Model:     obj.Model,
			Animation: obj.Animation,
			Location:  client.WorldPoint{X: obj.X, Y: obj.Y, Plane: obj.Plane},
			Recolor:   obj.Recolor,
		})
	}
	return result
}

// Kits 返回玩家当前显示的外观：覆盖优先，ShowSlotKit 显示原装备
func (h *Host) Kits() [types.KitSlotCount]int {
	var kits [types.KitSlotCount]int
	equipment, ok := ecs.Get[*components.EquipmentComponent](h.em, h.player)
	if !ok {
		return kits
	}
	kits = equipment.Items
	for slot, kit := range equipment.Overrides {
		if kit != types.ShowSlotKit {
			kits[slot] = kit
		}
	}
	return kits
}

// ---------- client.GearProvider ----------

// EquippedItems 按槽位索引的装备
func (h *Host) EquippedItems() []int {
	equipment, ok := ecs.Get[*components.EquipmentComponent](h.em, h.player)
	if !ok {
		return nil
	}
	items := make([]int, 0, types.KitSlotCount)
	for _, item := range equipment.Items {
		items = append(items, item)
	}
	return items
}

// ---------- client.World ----------

func (h *Host) GameState() types.GameState { return h.state }
func (h *Host) GameCycle() int             { return h.cycle }

// LocalPlayer 未登录或没有玩家时返回 false
func (h *Host) LocalPlayer() (types.ActorID, bool) {
	if h.state != types.GameStateLoggedIn || h.player == 0 {
		return 0, false
	}
	return types.ActorID(h.player), true
}

func (h *Host) actor(actor types.ActorID) *components.ActorComponent {
	if a, ok := ecs.Get[*components.ActorComponent](h.em, ecs.EntityID(actor)); ok {
		return a
	}
	return &components.ActorComponent{Size: 1}
}

func (h *Host) location(actor types.ActorID) *components.LocationComponent {
	if loc, ok := ecs.Get[*components.LocationComponent](h.em, ecs.EntityID(actor)); ok {
		return loc
	}
	return &components.LocationComponent{}
}

func (h *Host) appearance(actor types.ActorID) *components.AppearanceComponent {
	if a, ok := ecs.Get[*components.AppearanceComponent](h.em, ecs.EntityID(actor)); ok {
		return a
	}
	return &components.AppearanceComponent{Animation: types.NoAnimation, Graphic: types.NoGraphic}
}

func (h *Host) Interacting(actor types.ActorID) (types.ActorID, bool) {
	target := h.actor(actor).Interacting
	return target, target != 0 && h.em.Exists(ecs.EntityID(target))
}

func (h *Host) IsNPC(actor types.ActorID) bool      { return h.actor(actor).IsNPC }
func (h *Host) Size(actor types.ActorID) int        { return max(h.actor(actor).Size, 1) }
func (h *Host) Orientation(actor types.ActorID) int { return h.actor(actor).Orientation }

// LocalLocation 角色中心的本地坐标
func (h *Host) LocalLocation(actor types.ActorID) client.LocalPoint {
	loc := h.location(actor)
	size := h.Size(actor)
	return client.LocalPoint{
		X: loc.X*client.TileSize + size*client.TileSize/2,
		Y: loc.Y*client.TileSize + size*client.TileSize/2,
	}
}

func (h *Host) WorldLocation(actor types.ActorID) client.WorldPoint {
	loc := h.location(actor)
	return client.WorldPoint{X: loc.X, Y: loc.Y, Plane: loc.Plane}
}

func (h *Host) TrueLocalLocation(actor types.ActorID) client.LocalPoint {
	loc := h.location(actor)
	return client.LocalPointFromTile(loc.TrueX, loc.TrueY)
}

func (h *Host) Animation(actor types.ActorID) int { return h.appearance(actor).Animation }
func (h *Host) Graphic(actor types.ActorID) int   { return h.appearance(actor).Graphic }

// GraphicHeight 当前图形高度
func (h *Host) GraphicHeight(actor types.ActorID) int { return h.appearance(actor).GraphicHeight }

func (h *Host) PoseAnimation(actor types.ActorID, slot types.PoseSlot) int {
	if pose, ok := ecs.Get[*components.PoseComponent](h.em, ecs.EntityID(actor)); ok {
		return pose.Animations[slot]
	}
	return types.NoAnimation
}

// ---------- client.Actuator ----------

func (h *Host) SetAnimation(actor types.ActorID, animationID int) {
	h.appearance(actor).Animation = animationID
}

func (h *Host) SetAnimationFrame(actor types.ActorID, frame int) {
	h.appearance(actor).AnimationFrame = frame
}

func (h *Host) SetGraphic(actor types.ActorID, graphicID int) {
	h.appearance(actor).Graphic = graphicID
}

func (h *Host) SetGraphicFrame(actor types.ActorID, frame int) {
	h.appearance(actor).GraphicFrame = frame
}

func (h *Host) SetGraphicHeight(actor types.ActorID, height int) {
	h.appearance(actor).GraphicHeight = height
}

func (h *Host) SetPoseAnimation(actor types.ActorID, slot types.PoseSlot, animationID int) {
	if pose, ok := ecs.Get[*components.PoseComponent](h.em, ecs.EntityID(actor)); ok {
		pose.Animations[slot] = animationID
	}
}

func (h *Host) SetKitOverrides(actor types.ActorID, kits map[types.KitSlot]int) {
	equipment, ok := ecs.Get[*components.EquipmentComponent](h.em, ecs.EntityID(actor))
	if !ok {
		return
	}
	equipment.Overrides = make(map[types.KitSlot]int, len(kits))
	for slot, kit := range kits {
		equipment.Overrides[slot] = kit
	}
}

// CreateProjectile 登记投射物，并在返回前同步派发一次移动事件
func (h *Host) CreateProjectile(p client.Projectile) types.ProjectileHandle {
	id := h.em.Create()
	ecs.Add(h.em, id, &components.ProjectileComponent{
		ID:          p.ID,
		Plane:       p.Plane,
		StartX:      p.Start.X,
		StartY:      p.Start.Y,
		Height:      p.Height,
		StartCycle:  p.StartCycle,
		EndCycle:    p.EndCycle,
		Slope:       p.Slope,
		StartHeight: p.StartHeight,
		EndHeight:   p.EndHeight,
		Interacting: p.Interacting,
		TargetX:     p.Target.X,
		TargetY:     p.Target.Y,
	})
	p.Handle = types.ProjectileHandle(id)

	if h.listener != nil {
		h.listener.OnProjectileMoved(p)
	}
	return p.Handle
}

func (h *Host) SetProjectileEndCycle(handle types.ProjectileHandle, cycle int) {
	p, ok := ecs.Get[*components.ProjectileComponent](h.em, ecs.EntityID(handle))
	if !ok {
		log.Printf("[SimHost] unknown projectile handle %d", handle)
		return
	}
	p.EndCycle = cycle
}

func (h *Host) SpawnEffectObject(obj client.EffectObject) {
	id := h.em.Create()
	ecs.Add(h.em, id, &components.EffectObjectComponent{
		Model:     obj.Model,
		Animation: obj.Animation,
		X:         obj.Location.X,
		Y:         obj.Location.Y,
		Plane:     obj.Location.Plane,
		Recolor:   obj.Recolor,
	})
	ecs.Add(h.em, id, &components.LifetimeComponent{ExpireCycle: h.cycle + effectObjectLifetime})
}

func projectileFromComponent(id ecs.EntityID, p *components.ProjectileComponent) client.Projectile {
	return client.Projectile{
		Handle:      types.ProjectileHandle(id),
		ID:          p.ID,
		Plane:       p.Plane,
		Start:       client.LocalPoint{X: p.StartX, Y: p.StartY},
		Height:      p.Height,
		StartCycle:  p.StartCycle,
		EndCycle:    p.EndCycle,
		Slope:       p.Slope,
		StartHeight: p.StartHeight,
		EndHeight:   p.EndHeight,
		Interacting: p.Interacting,
		Target:      client.LocalPoint{X: p.TargetX, Y: p.TargetY},
	}
}
