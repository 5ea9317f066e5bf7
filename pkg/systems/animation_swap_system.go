package systems

import (
	"log"

	"github.com/decker502/transmog/pkg/client"
	"github.com/decker502/transmog/pkg/config"
	"github.com/decker502/transmog/pkg/types"
)

// AnimationSwapSystem 动画替换与姿态动画
//
// 本地玩家每次动画变化时，按动画所属的分类查替换表；
// 姿态动画（站立/行走/奔跑等）在外观变化时整体重新设置。
type AnimationSwapSystem struct {
	client     client.Client
	catalog    *config.AnimationSetCatalog
	scythe     *ScytheSwingSystem
	animations *AnimationReplacements

	// naturalPoses 未替换时的姿态动画，外观变化时记录
	naturalPoses    [types.PoseSlotCount]int
	hasNaturalPoses bool
}

// NewAnimationSwapSystem 创建动画替换系统
// scythe 可以为 nil
func NewAnimationSwapSystem(c client.Client, catalog *config.AnimationSetCatalog, scythe *ScytheSwingSystem) *AnimationSwapSystem {
	return &AnimationSwapSystem{
		client:  c,
		catalog: catalog,
		scythe:  scythe,
	}
}

// SetAnimations 设置当前生效的替换表
func (s *AnimationSwapSystem) SetAnimations(a *AnimationReplacements) {
	s.animations = a
}

// OnAnimationChanged 替换本地玩家当前播放的动画
func (s *AnimationSwapSystem) OnAnimationChanged(actor types.ActorID) {
	player, ok := s.client.LocalPlayer()
	if !ok || actor != player {
		return
	}

	current := s.client.Animation(player)
	if current == types.NoAnimation {
		return
	}
	category, ok := s.catalog.CategoryOf(current)
	if !ok {
		return
	}

	if replacement, ok := s.animations.Animation(category); ok {
		if Verbose {
			log.Printf("[AnimationSwap] replacing animation %d (%s) with %d", current, category, replacement)
		}
		s.client.SetAnimation(player, replacement)
	}

	if s.scythe != nil && types.AnimAttack.AppliesTo(category) {
		s.scythe.Arm()
	}
}

// RecordNaturalPoses 记录本地玩家未替换的姿态动画
func (s *AnimationSwapSystem) RecordNaturalPoses() {
	player, ok := s.client.LocalPlayer()
	if !ok {
		s.hasNaturalPoses = false
		return
	}
	for _, slot := range types.AllPoseSlots() {
		s.naturalPoses[slot] = s.client.PoseAnimation(player, slot)
	}
	s.hasNaturalPoses = true
}

// NaturalPose 记录的姿态动画
func (s *AnimationSwapSystem) NaturalPose(slot types.PoseSlot) (int, bool) {
	if !s.hasNaturalPoses {
		return types.NoAnimation, false
	}
	return s.naturalPoses[slot], true
}

// ApplyPoses 按替换表设置姿态动画，没有替换的槽位恢复原样
// 原本的站立动画在"不替换"名单中时保持不动
func (s *AnimationSwapSystem) ApplyPoses() {
	player, ok := s.client.LocalPlayer()
	if !ok || !s.hasNaturalPoses {
		return
	}
	if s.catalog.DoNotReplaceIdle(s.naturalPoses[types.PoseIdle]) {
		return
	}

	for _, slot := range types.AllPoseSlots() {
		id, ok := s.animations.Animation(slot.Category())
		if !ok {
			id = s.naturalPoses[slot]
		}
		s.client.SetPoseAnimation(player, slot, id)
	}
}

// RestoreNaturalPoses 恢复记录的姿态动画
func (s *AnimationSwapSystem) RestoreNaturalPoses() {
	player, ok := s.client.LocalPlayer()
	if !ok || !s.hasNaturalPoses {
		return
	}
	for _, slot := range types.AllPoseSlots() {
		s.client.SetPoseAnimation(player, slot, s.naturalPoses[slot])
	}
}

// ClearNaturalPoses 丢弃记录（登出后调用）
func (s *AnimationSwapSystem) ClearNaturalPoses() {
	s.hasNaturalPoses = false
}

// DemoAnimation 面板中预览动画：直接播放并触发挥砍效果
func (s *AnimationSwapSystem) DemoAnimation(animationID int) {
	player, ok := s.client.LocalPlayer()
	if !ok {
		return
	}
	s.client.SetAnimation(player, animationID)
	s.client.SetAnimationFrame(player, 0)
	if s.scythe != nil {
		s.scythe.Arm()
	}
}
