package systems

import (
	"sort"

	"github.com/decker502/transmog/pkg/components"
	"github.com/decker502/transmog/pkg/config"
	"github.com/decker502/transmog/pkg/types"
)

// ResolvedReplacement 来源动画集已解析的动画替换条目
type ResolvedReplacement struct {
	Set         *config.AnimationSet
	ToReplace   types.AnimationCategory
	Replacement *types.AnimationCategory // nil 表示与 ToReplace 相同
	Priority    int
}

// AnimationReplacements 叶子分类 -> 动画 ID 的替换表
// 构建完成后只读
type AnimationReplacements struct {
	replacements map[types.AnimationCategory]int
}

// NewAnimationReplacements 按逆序应用条目（后写覆盖先写），
// 因此列表中靠前的条目最终生效
func NewAnimationReplacements(entries []ResolvedReplacement) *AnimationReplacements {
	a := &AnimationReplacements{replacements: make(map[types.AnimationCategory]int)}
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		a.replace(e.Set, e.ToReplace, e.Replacement)
	}
	return a
}

func (a *AnimationReplacements) replace(set *config.AnimationSet, toReplace types.AnimationCategory, replacement *types.AnimationCategory) {
	switch {
	case toReplace == types.AnimAttack:
		defaultAttack := set.DefaultAttack()
		for _, leaf := range types.AttackStyles() {
			source := leaf
			if replacement != nil {
				source = *replacement
			}
			id := set.Animation(source)
			if id == types.NoAnimation {
				id = defaultAttack
			}
			if id != types.NoAnimation {
				a.replacements[leaf] = id
			}
		}
	case toReplace.IsLeaf():
		source := toReplace
		if replacement != nil {
			source = *replacement
		}
		if id := set.Animation(source); id != types.NoAnimation {
			a.replacements[toReplace] = id
		}
	default:
		for _, child := range toReplace.Children() {
			a.replace(set, child, replacement)
		}
	}
}

// Animation 返回叶子分类的替换动画
func (a *AnimationReplacements) Animation(c types.AnimationCategory) (int, bool) {
	if a == nil {
		return 0, false
	}
	id, ok := a.replacements[c]
	return id, ok
}

// Len 已替换的叶子分类数量
func (a *AnimationReplacements) Len() int {
	if a == nil {
		return 0
	}
	return len(a.replacements)
}

// Map 返回替换表的副本
func (a *AnimationReplacements) Map() map[types.AnimationCategory]int {
	m := make(map[types.AnimationCategory]int, a.Len())
	if a != nil {
		for c, id := range a.replacements {
			m[c] = id
		}
	}
	return m
}

// ResolveAnimationReplacements 汇总所有适用规则的动画替换
//
// 条目按 Priority 升序稳定排序（同优先级时层级更深的分类在前），
// 然后逆序写入同一张表：数值最小的优先级最终生效。
// 引用了未知动画集的条目回退到目录中的第一个动画集。
func ResolveAnimationReplacements(swaps []*components.SwapComponent, catalog *config.AnimationSetCatalog) *AnimationReplacements {
	var entries []ResolvedReplacement
	for _, swap := range swaps {
		for _, r := range swap.AnimationReplacements {
			entries = append(entries, ResolvedReplacement{
				Set:         catalog.Resolve(r.AnimationSet),
				ToReplace:   r.AnimationTypeToReplace,
				Replacement: r.AnimationTypeReplacement,
				Priority:    r.Priority,
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Priority != entries[j].Priority {
			return entries[i].Priority < entries[j].Priority
		}
		return entries[i].ToReplace.Depth() > entries[j].ToReplace.Depth()
	})

	return NewAnimationReplacements(entries)
}
