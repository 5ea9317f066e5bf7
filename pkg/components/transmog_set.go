package components

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/decker502/transmog/pkg/types"
)

// TransmogSetComponent 规则组（"变装套装"）
// 用户排序、可启用/禁用的规则集合，独占其中的 Swaps
type TransmogSetComponent struct {
	Name      string           `yaml:"name" json:"name" jsonschema:"required"`
	Enabled   bool             `yaml:"enabled" json:"enabled"`
	Minimized bool             `yaml:"minimized,omitempty" json:"minimized,omitempty"` // 仅面板使用
	Swaps     []*SwapComponent `yaml:"swaps" json:"swaps"`
}

// SwapComponent 单条规则
// 触发物品 -> 外观物品、动画替换、图形效果、法术替换
type SwapComponent struct {
	// ItemRestrictions 触发物品 ID；-1 为通配符，永不为空
	ItemRestrictions []int `yaml:"itemRestrictions" json:"itemRestrictions" jsonschema:"required,minItems=1"`
	// ModelSwaps 外观物品 ID，可包含负数特殊 ID；-1 为空位
	ModelSwaps            []int                  `yaml:"modelSwaps,omitempty" json:"modelSwaps,omitempty" jsonschema:"maxItems=12"`
	AnimationReplacements []AnimationReplacement `yaml:"animationReplacements,omitempty" json:"animationReplacements,omitempty"`
	GraphicEffects        []GraphicEffect        `yaml:"graphicEffects,omitempty" json:"graphicEffects,omitempty"`
	ProjectileSwaps       []ProjectileSwapRef    `yaml:"projectileSwaps,omitempty" json:"projectileSwaps,omitempty"`
	// SlotOverrides 物品 ID -> 槽位，修正上报槽位错误的物品
	SlotOverrides map[int]types.KitSlot `yaml:"slotOverrides,omitempty" json:"slotOverrides,omitempty"`
}

// AnimationReplacement 动画替换条目
type AnimationReplacement struct {
	// AnimationSet 来源动画集名称
	AnimationSet string `yaml:"animationSet" json:"animationSet" jsonschema:"required"`
	// AnimationTypeToReplace 被替换的分类（可以是内部节点）
	AnimationTypeToReplace types.AnimationCategory `yaml:"animationTypeToReplace" json:"animationTypeToReplace" jsonschema:"required"`
	// AnimationTypeReplacement 从来源集合的哪个分类取值，nil 表示与被替换分类相同
	AnimationTypeReplacement *types.AnimationCategory `yaml:"animationTypeReplacement,omitempty" json:"animationTypeReplacement,omitempty"`
	// Priority 数值越小优先级越高
	Priority int `yaml:"priority,omitempty" json:"priority,omitempty"`
}

// SourceCategory 返回取值分类
func (r AnimationReplacement) SourceCategory() types.AnimationCategory {
	if r.AnimationTypeReplacement != nil {
		return *r.AnimationTypeReplacement
	}
	return r.AnimationTypeToReplace
}

// GraphicEffectType 特殊图形效果类型
type GraphicEffectType string

const (
	// GraphicEffectScytheSwing 近战攻击时的镰刀挥砍效果
	GraphicEffectScytheSwing GraphicEffectType = "SCYTHE_SWING"
)

// GraphicEffect 特殊图形效果
type GraphicEffect struct {
	Type  GraphicEffectType `yaml:"type" json:"type" jsonschema:"required,enum=SCYTHE_SWING"`
	Color string            `yaml:"color,omitempty" json:"color,omitempty" jsonschema:"pattern=^#[0-9a-fA-F]{6}$"` // "#rrggbb"，空表示不染色
}

// RGB 解析效果颜色
// 返回：颜色和是否设置了合法颜色
func (e *GraphicEffect) RGB() (color.RGBA, bool) {
	hex := strings.TrimPrefix(e.Color, "#")
	if len(hex) != 6 {
		return color.RGBA{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, true
}

// ProjectileSwapRef 法术替换配置：按目录名称引用两个法术
type ProjectileSwapRef struct {
	ToReplace     string `yaml:"toReplace" json:"toReplace" jsonschema:"required"`
	ToReplaceWith string `yaml:"toReplaceWith" json:"toReplaceWith" jsonschema:"required"`
}

// NewTemplateTransmogSet 面板"添加"按钮使用的模板套装（一条空的通配规则）
func NewTemplateTransmogSet() *TransmogSetComponent {
	return &TransmogSetComponent{
		Name:    "New Transmog Set",
		Enabled: true,
		Swaps:   []*SwapComponent{NewTemplateSwap()},
	}
}

// NewTemplateSwap 空的通配规则
func NewTemplateSwap() *SwapComponent {
	return &SwapComponent{
		ItemRestrictions: []int{types.WildcardItemID},
		ModelSwaps:       []int{-1},
	}
}

// IsWildcard 是否为通配规则
func (s *SwapComponent) IsWildcard() bool {
	for _, id := range s.ItemRestrictions {
		if id == types.WildcardItemID {
			return true
		}
	}
	return false
}

// AppliesSpecifically 触发物品是否与当前装备相交
func (s *SwapComponent) AppliesSpecifically(equipped []int) bool {
	for _, id := range s.ItemRestrictions {
		if id == types.WildcardItemID {
			continue
		}
		for _, e := range equipped {
			if id == e {
				return true
			}
		}
	}
	return false
}

// AppliesTo 规则是否适用：通配，或与当前装备相交
func (s *SwapComponent) AppliesTo(equipped []int) bool {
	return s.IsWildcard() || s.AppliesSpecifically(equipped)
}

// SlotOverride 规则自带的槽位修正
func (s *SwapComponent) SlotOverride(itemID int) (types.KitSlot, bool) {
	slot, ok := s.SlotOverrides[itemID]
	return slot, ok
}

// GraphicEffect 返回指定类型的第一个效果
func (s *SwapComponent) GraphicEffect(t GraphicEffectType) *GraphicEffect {
	for i := range s.GraphicEffects {
		if s.GraphicEffects[i].Type == t {
			return &s.GraphicEffects[i]
		}
	}
	return nil
}

// Validate 校验规则的结构不变量
func (s *SwapComponent) Validate() error {
	if len(s.ItemRestrictions) == 0 {
		return fmt.Errorf("itemRestrictions cannot be empty")
	}
	if len(s.ModelSwaps) > types.KitSlotCount {
		return fmt.Errorf("too many model swaps: %d (max %d)", len(s.ModelSwaps), types.KitSlotCount)
	}
	for item, slot := range s.SlotOverrides {
		if !slot.Valid() {
			return fmt.Errorf("slot override for item %d out of range: %d", item, int(slot))
		}
	}
	for i, r := range s.AnimationReplacements {
		if r.AnimationSet == "" {
			return fmt.Errorf("animation replacement #%d: animationSet is required", i)
		}
	}
	for i, e := range s.GraphicEffects {
		if e.Type != GraphicEffectScytheSwing {
			return fmt.Errorf("graphic effect #%d: unknown type %q", i, e.Type)
		}
		if e.Color != "" {
			if _, ok := e.RGB(); !ok {
				return fmt.Errorf("graphic effect #%d: invalid color %q", i, e.Color)
			}
		}
	}
	return nil
}

// Validate 校验套装及其全部规则
func (t *TransmogSetComponent) Validate() error {
	for i, swap := range t.Swaps {
		if swap == nil {
			return fmt.Errorf("%s: swap #%d is nil", t.Name, i)
		}
		if err := swap.Validate(); err != nil {
			return fmt.Errorf("%s: swap #%d: %w", t.Name, i, err)
		}
	}
	return nil
}
