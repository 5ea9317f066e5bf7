package systems

import (
	"github.com/decker502/transmog/pkg/client"
	"github.com/decker502/transmog/pkg/components"
)

const (
	// scytheSwingDelay 攻击动画开始后多少个客户端 tick 生成挥砍效果
	scytheSwingDelay = 20
	// scytheSwingAnimation 挥砍物体的动画
	scytheSwingAnimation = 1204
	// orientationTolerance 朝向判断的容差
	orientationTolerance = 70
)

// 挥砍模型，按挥砍方向区分
const (
	scytheModelEast  = 4003
	scytheModelNorth = 4004
	scytheModelSouth = 4005
	scytheModelWest  = 4006
)

// ScytheSwingSystem 镰刀挥砍效果
// 攻击动画触发倒计时，倒计时结束时在玩家前方一格生成挥砍物体
type ScytheSwingSystem struct {
	client    client.Client
	effect    *components.GraphicEffect
	countdown int
}

// NewScytheSwingSystem 创建挥砍效果系统
func NewScytheSwingSystem(c client.Client) *ScytheSwingSystem {
	return &ScytheSwingSystem{client: c, countdown: -1}
}

// SetEffect 设置当前生效的挥砍效果，nil 表示没有
func (s *ScytheSwingSystem) SetEffect(effect *components.GraphicEffect) {
	s.effect = effect
	if effect == nil {
		s.countdown = -1
	}
}

// Effect 当前生效的挥砍效果
func (s *ScytheSwingSystem) Effect() *components.GraphicEffect {
	return s.effect
}

// Arm 开始倒计时（没有生效的效果时忽略）
func (s *ScytheSwingSystem) Arm() {
	if s.effect != nil {
		s.countdown = scytheSwingDelay
	}
}

// Armed 是否正在倒计时
func (s *ScytheSwingSystem) Armed() bool {
	return s.countdown >= 0
}

// Update 每个客户端 tick 调用一次
func (s *ScytheSwingSystem) Update() {
	switch {
	case s.countdown == 0:
		s.countdown = -1
		s.spawn()
	case s.countdown > 0:
		s.countdown--
	}
}

func (s *ScytheSwingSystem) spawn() {
	player, ok := s.client.LocalPlayer()
	if !ok {
		return
	}
	point := s.client.WorldLocation(player)

	var dx, dy, model int
	if target, ok := s.client.Interacting(player); ok && s.client.IsNPC(target) {
		dx, dy, model = swingTowardsNPC(point, s.client.WorldLocation(target), s.client.Size(target))
	} else {
		// 没有目标或目标不是 NPC（如训练假人）时按朝向决定
		dx, dy, model = swingFromOrientation(s.client.Orientation(player))
	}

	obj := client.EffectObject{
		Model:     model,
		Animation: scytheSwingAnimation,
		Location:  client.WorldPoint{X: point.X + dx, Y: point.Y + dy, Plane: point.Plane},
	}
	if s.effect != nil {
		if c, ok := s.effect.RGB(); ok {
			obj.Recolor = &c
		}
	}
	s.client.SpawnEffectObject(obj)
}

// swingFromOrientation 朝向 512 为西，1536 为东
func swingFromOrientation(orientation int) (dx, dy, model int) {
	switch {
	case orientation > 512-orientationTolerance && orientation < 512+orientationTolerance:
		return -1, 0, scytheModelWest
	case orientation > 1536-orientationTolerance && orientation < 1536+orientationTolerance:
		return 1, 0, scytheModelEast
	case orientation > 512 && orientation < 1536:
		return 0, 1, scytheModelNorth
	default:
		return 0, -1, scytheModelSouth
	}
}

// swingTowardsNPC 根据玩家相对 NPC 占地的位置决定方向
// npc 为 NPC 的西南角地块
func swingTowardsNPC(player, npc client.WorldPoint, size int) (dx, dy, model int) {
	half := (size - 1) / 2
	west := npc.X
	east := npc.X + size - 1
	south := npc.Y
	centreRow := south + half

	switch {
	case player.X == west-1 && player.Y == centreRow:
		return 1, 0, scytheModelEast
	case player.X == east+1 && player.Y == centreRow:
		return -1, 0, scytheModelWest
	case player.Y >= centreRow:
		return 0, -1, scytheModelSouth
	default:
		return 0, 1, scytheModelNorth
	}
}
