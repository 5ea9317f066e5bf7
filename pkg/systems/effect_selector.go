package systems

import "github.com/decker502/transmog/pkg/components"

// SelectGraphicEffect 从适用规则中选出一个指定类型的图形效果
// 按规则顺序取第一个（靠前的套装优先），没有时返回 nil
// 返回的是副本，之后编辑规则不影响已解析的结果
func SelectGraphicEffect(swaps []*components.SwapComponent, t components.GraphicEffectType) *components.GraphicEffect {
	for _, swap := range swaps {
		if effect := swap.GraphicEffect(t); effect != nil {
			selected := *effect
			return &selected
		}
	}
	return nil
}
