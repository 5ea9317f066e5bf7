package systems

import (
	"log"

	"github.com/decker502/transmog/pkg/client"
	"github.com/decker502/transmog/pkg/config"
	"github.com/decker502/transmog/pkg/types"
)

// legacySplashGraphic 法术溅射（未命中）时目标身上显示的图形
const legacySplashGraphic = 85

// deferredHitHeight 延迟命中图形应用时的高度
const deferredHitHeight = 124

// castState 法术拦截状态
type castState int

const (
	castIdle castState = iota
	// castPendingNoProjectileCheck 刚播放了歧义施法动画，下一个 tick 尝试匹配无投射物法术
	castPendingNoProjectileCheck
)

// DeferredGraphic 等待在指定周期应用到目标身上的命中图形
type DeferredGraphic struct {
	Target  types.ActorID
	Graphic int
	Cycle   int
}

// recursionGuard 创建投射物会同步重新触发投射物事件，持有期间丢弃这些事件
type recursionGuard struct {
	held bool
}

// acquire 获取守卫，返回的函数必须在所有退出路径上调用（defer）
func (g *recursionGuard) acquire() func() {
	g.held = true
	return func() { g.held = false }
}

// CastInterceptionSystem 法术拦截状态机
//
// 观察本地玩家的动画变化与投射物创建事件，按当前生效的法术替换
// 立即替换施法表现，或安排一个延迟的命中图形。
type CastInterceptionSystem struct {
	client client.Client

	swaps             []ProjectileSwap
	state             castState
	lastRealAnimation int
	deferred          *DeferredGraphic
	guard             recursionGuard
}

// NewCastInterceptionSystem 创建法术拦截系统
func NewCastInterceptionSystem(c client.Client) *CastInterceptionSystem {
	return &CastInterceptionSystem{
		client:            c,
		lastRealAnimation: types.NoAnimation,
	}
}

// SetProjectileSwaps 替换当前生效的法术替换列表（来自 ResolutionState）
func (s *CastInterceptionSystem) SetProjectileSwaps(swaps []ProjectileSwap) {
	s.swaps = swaps
}

// Reset 清空全部状态
func (s *CastInterceptionSystem) Reset() {
	s.state = castIdle
	s.lastRealAnimation = types.NoAnimation
	s.deferred = nil
	s.guard = recursionGuard{}
}

// LastRealAnimation 最近一次观察到的（未被替换的）本地玩家动画
func (s *CastInterceptionSystem) LastRealAnimation() int {
	return s.lastRealAnimation
}

// PendingNoProjectileCheck 是否在等待下一个 tick 检查无投射物法术
func (s *CastInterceptionSystem) PendingNoProjectileCheck() bool {
	return s.state == castPendingNoProjectileCheck
}

// Deferred 当前等待中的延迟命中图形
func (s *CastInterceptionSystem) Deferred() (DeferredGraphic, bool) {
	if s.deferred == nil {
		return DeferredGraphic{}, false
	}
	return *s.deferred, true
}

// OnAnimationChanged 处理动画变化事件，只关心本地玩家
func (s *CastInterceptionSystem) OnAnimationChanged(actor types.ActorID) {
	player, ok := s.client.LocalPlayer()
	if !ok || actor != player {
		return
	}

	s.lastRealAnimation = s.client.Animation(player)
	if IsAmbiguousCastAnimation(s.lastRealAnimation) {
		s.state = castPendingNoProjectileCheck
	}
}

// Update 每个客户端 tick 调用一次
func (s *CastInterceptionSystem) Update() {
	if s.state == castPendingNoProjectileCheck {
		s.state = castIdle
		s.replaceNoProjectileSpell()
	}

	if s.deferred != nil && s.client.GameCycle() == s.deferred.Cycle {
		d := s.deferred
		s.deferred = nil
		s.client.SetGraphic(d.Target, d.Graphic)
		s.client.SetGraphicFrame(d.Target, 0)
		s.client.SetGraphicHeight(d.Target, deferredHitHeight)
	}
}

// replaceNoProjectileSpell 匹配没有投射物的法术，并用估计的时间完成替换
func (s *CastInterceptionSystem) replaceNoProjectileSpell() {
	player, ok := s.client.LocalPlayer()
	if !ok {
		return
	}
	target, ok := s.client.Interacting(player)
	if !ok {
		return
	}

	for i := range s.swaps {
		swap := &s.swaps[i]
		toReplace := swap.ToReplace
		if toReplace.CastAnimation != s.lastRealAnimation || toReplace.HasProjectile() {
			continue
		}
		if toReplace.CastGfx != types.NoGraphic && toReplace.CastGfx != s.client.Graphic(player) {
			continue
		}

		distance := ChebyshevDistance(s.client, player, target, toReplace.Barrage)
		timing, ok := EstimateCastTiming(toReplace.CastAnimation, distance, swap.ToReplaceWith)
		if !ok {
			return
		}
		now := s.client.GameCycle()
		endCycle := timing.EndCycle(now, swap.ToReplaceWith)

		if Verbose {
			log.Printf("[CastInterception] no-projectile spell %s -> %s, distance %d, end cycle %d (now %d)",
				toReplace.Name, swap.ToReplaceWith.Name, distance, endCycle, now)
		}

		s.replaceSpell(swap, player, castOrigin{
			plane:       s.client.WorldLocation(player).Plane,
			start:       s.client.TrueLocalLocation(player),
			startHeight: syntheticStartHeight,
			endCycle:    endCycle,
			interacting: target,
			target:      s.client.LocalLocation(target),
		})
		return
	}
}

// OnProjectileMoved 处理投射物事件
func (s *CastInterceptionSystem) OnProjectileMoved(p client.Projectile) {
	if s.guard.held {
		return
	}
	// 已经处理过的投射物
	if s.client.GameCycle() >= p.StartCycle {
		return
	}

	player, ok := s.client.LocalPlayer()
	if !ok {
		return
	}
	origin := s.client.TrueLocalLocation(player)
	if p.Start != origin {
		return
	}

	castAnimation := NormalizeCastAnimation(s.lastRealAnimation)
	if castAnimation == types.NoAnimation {
		return
	}
	playerGraphic := s.client.Graphic(player)

	for i := range s.swaps {
		swap := &s.swaps[i]
		toReplace := swap.ToReplace
		if toReplace.CastAnimation != castAnimation || toReplace.ProjectileID != p.ID {
			continue
		}
		if toReplace.CastGfx != types.NoGraphic && toReplace.CastGfx != playerGraphic {
			continue
		}

		s.state = castIdle

		if Verbose {
			log.Printf("[CastInterception] projectile %d matched %s -> %s at cycle %d",
				p.ID, toReplace.Name, swap.ToReplaceWith.Name, s.client.GameCycle())
		}

		s.replaceSpell(swap, player, castOrigin{
			plane:       s.client.WorldLocation(player).Plane,
			start:       origin,
			startHeight: p.Height,
			endCycle:    p.EndCycle,
			interacting: p.Interacting,
			target:      p.Target,
		})
		s.client.SetProjectileEndCycle(p.Handle, 0)
		return
	}
}

// castOrigin 替换投射物的位置与时间窗口
type castOrigin struct {
	plane       int
	start       client.LocalPoint
	startHeight int
	endCycle    int
	interacting types.ActorID
	target      client.LocalPoint
}

// replaceSpell 替换施法动画、投射物、施法图形和命中图形
func (s *CastInterceptionSystem) replaceSpell(swap *ProjectileSwap, player types.ActorID, o castOrigin) {
	toReplace, with := swap.ToReplace, swap.ToReplaceWith

	s.client.SetAnimation(player, with.CastAnimation)

	if with.HasProjectile() {
		s.createProjectile(with, o)
	}

	s.client.SetGraphic(player, with.CastGfx)
	s.client.SetGraphicFrame(player, 0)

	target, ok := s.client.Interacting(player)
	if !ok {
		return
	}

	if toReplace.HitGfx != types.NoGraphic {
		graphic := s.client.Graphic(target)
		if graphic == toReplace.HitGfx || graphic == legacySplashGraphic {
			s.client.SetGraphic(target, with.HitGfx)
			s.client.SetGraphicHeight(target, with.EndHeight)
			return
		}
	}

	s.client.SetGraphicHeight(target, with.EndHeight)
	s.deferred = &DeferredGraphic{Target: target, Graphic: with.HitGfx, Cycle: o.endCycle}
}

// createProjectile 在守卫保护下创建替换投射物
func (s *CastInterceptionSystem) createProjectile(with *config.ProjectileCast, o castOrigin) types.ProjectileHandle {
	release := s.guard.acquire()
	defer release()

	return s.client.CreateProjectile(client.Projectile{
		ID:          with.ProjectileID,
		Plane:       o.plane,
		Start:       o.start,
		Height:      o.startHeight,
		StartCycle:  s.client.GameCycle() + with.StartMovement,
		EndCycle:    o.endCycle,
		Slope:       with.Slope,
		StartHeight: with.StartHeight,
		EndHeight:   with.EndHeight,
		Interacting: o.interacting,
		Target:      o.target,
	})
}
