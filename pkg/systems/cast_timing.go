package systems

import (
	"github.com/decker502/transmog/pkg/client"
	"github.com/decker502/transmog/pkg/config"
	"github.com/decker502/transmog/pkg/types"
)

// 没有投射物可识别的施法动画
const (
	animGodSpell        = 811
	animAncientSpell    = 1978
	animAncientSpellAlt = 1979
	animArceuusSpellA   = 8972
	animArceuusSpellB   = 8974
	animArceuusSpellC   = 8977
)

// syntheticStartHeight 无投射物法术的合成投射物起始高度
const syntheticStartHeight = -412

// IsAmbiguousCastAnimation 施法动画本身无法区分具体法术，需要在下一个 tick 检查
func IsAmbiguousCastAnimation(animationID int) bool {
	switch animationID {
	case animGodSpell, animAncientSpell, animAncientSpellAlt,
		animArceuusSpellA, animArceuusSpellB, animArceuusSpellC:
		return true
	}
	return false
}

// standardSpellRemap 标准法术书中随武器类别变化的施法动画 -> 规范动画
var standardSpellRemap = map[int]int{
	711: 1162,
	716: 1163,
	717: 1164,
	718: 1165,
	724: 1166,
	727: 1167,
	728: 1168,
}

// NormalizeCastAnimation 把 711..729 范围内的施法动画映射到规范动画
// 范围内未列出的 ID 都对应 1169，范围外原样返回
func NormalizeCastAnimation(animationID int) int {
	if animationID < 711 || animationID > 729 {
		return animationID
	}
	if canonical, ok := standardSpellRemap[animationID]; ok {
		return canonical
	}
	return 1169
}

// ChebyshevDistance 计算施法者与目标之间的格子距离
//
// 多格 NPC 在非群体法术下从最近的边缘计算；
// 群体法术（barrage）以及单格目标从西南角地块计算。
func ChebyshevDistance(w client.World, caster, target types.ActorID, barrage bool) int {
	p := w.WorldLocation(caster)
	t := w.WorldLocation(target)

	if w.IsNPC(target) && !barrage {
		if size := w.Size(target); size > 1 {
			north := p.Y - (t.Y + size - 1)
			south := t.Y - p.Y
			west := t.X - p.X
			east := p.X - (t.X + size - 1)
			return max(max(north, south), max(west, east))
		}
	}

	return max(abs(t.X-p.X), abs(t.Y-p.Y))
}

// CastTiming 无投射物法术的时间估计（单位：客户端周期）
type CastTiming struct {
	ProjectileTravel int
	GraphicDelay     int
}

// EstimateCastTiming 按施法动画查表估计投射物飞行时间和命中图形延迟
// 非歧义动画返回 false
func EstimateCastTiming(castAnimation, distance int, replacement *config.ProjectileCast) (CastTiming, bool) {
	switch castAnimation {
	case animGodSpell:
		return CastTiming{
			ProjectileTravel: 120 - replacement.StartMovement,
			GraphicDelay:     48 + 10*distance,
		}, true
	case animAncientSpell, animAncientSpellAlt:
		return CastTiming{
			ProjectileTravel: -5 + 10*distance,
			GraphicDelay:     48 + 10*distance,
		}, true
	case animArceuusSpellA, animArceuusSpellB, animArceuusSpellC:
		// 两个 tick
		return CastTiming{ProjectileTravel: 60, GraphicDelay: 60}, true
	}
	return CastTiming{}, false
}

// EndCycle 替换投射物的结束周期
func (t CastTiming) EndCycle(now int, replacement *config.ProjectileCast) int {
	return now + replacement.StartMovement + t.ProjectileTravel
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
