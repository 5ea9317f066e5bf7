package systems

import (
	"log"

	"github.com/decker502/transmog/pkg/client"
	"github.com/decker502/transmog/pkg/components"
	"github.com/decker502/transmog/pkg/config"
	"github.com/decker502/transmog/pkg/types"
)

// Verbose 打开后输出解析与法术拦截的调试日志
var Verbose = false

// ProjectileSwap 一对已解析的法术：被替换方 -> 替换方
type ProjectileSwap struct {
	ToReplace     *config.ProjectileCast
	ToReplaceWith *config.ProjectileCast
}

// ResolutionState 当前生效的全部替换的快照
// 每次重新计算都整体重建，永不局部修改
type ResolutionState struct {
	Equipped        []int
	ModelSwaps      map[types.KitSlot]int
	Animations      *AnimationReplacements
	ProjectileSwaps []ProjectileSwap
	ScytheSwing     *components.GraphicEffect
}

// ResolveInput 一次重新计算的输入
type ResolveInput struct {
	Sets     []*components.TransmogSetComponent
	Equipped []int
	// PreviewItem 面板中鼠标悬停预览的物品，-1 表示没有
	PreviewItem int
	// PreviewAnimations 为 true 时用预览物品的动画集整体替换动画表
	PreviewAnimations bool
}

// TransmogResolver 规则匹配引擎
type TransmogResolver struct {
	animationSets *config.AnimationSetCatalog
	casts         *config.ProjectileCastCatalog
	itemData      *config.ItemDataConfig
	items         client.ItemMetadata
}

// NewTransmogResolver 创建规则匹配引擎
// itemData 可以为 nil（没有全局槽位修正）
func NewTransmogResolver(
	animationSets *config.AnimationSetCatalog,
	casts *config.ProjectileCastCatalog,
	itemData *config.ItemDataConfig,
	items client.ItemMetadata,
) *TransmogResolver {
	return &TransmogResolver{
		animationSets: animationSets,
		casts:         casts,
		itemData:      itemData,
		items:         items,
	}
}

// Resolve 从规则和装备快照完整计算 ResolutionState
func (r *TransmogResolver) Resolve(in ResolveInput) *ResolutionState {
	swaps := ApplicableSwaps(in.Sets, in.Equipped)

	state := &ResolutionState{
		Equipped:        append([]int(nil), in.Equipped...),
		ModelSwaps:      r.ResolveModelSwaps(swaps, in.Equipped, in.PreviewItem),
		ProjectileSwaps: ResolveProjectileSwaps(swaps, r.casts),
		ScytheSwing:     SelectGraphicEffect(swaps, components.GraphicEffectScytheSwing),
	}

	if previewSet, ok := r.previewAnimationSet(in); ok {
		state.Animations = NewAnimationReplacements([]ResolvedReplacement{{Set: previewSet, ToReplace: types.AnimAll}})
	} else {
		state.Animations = ResolveAnimationReplacements(swaps, r.animationSets)
	}

	if Verbose {
		log.Printf("[TransmogResolver] %d applicable swaps, %d slots, %d animations, %d projectile swaps",
			len(swaps), len(state.ModelSwaps), state.Animations.Len(), len(state.ProjectileSwaps))
	}
	return state
}

func (r *TransmogResolver) previewAnimationSet(in ResolveInput) (*config.AnimationSet, bool) {
	if in.PreviewItem == types.NoItem || !in.PreviewAnimations {
		return nil, false
	}
	return r.animationSets.ForItem(in.PreviewItem)
}

// ApplicableSwaps 按存储顺序返回适用的规则
// 只考虑启用的套装；规则适用当且仅当它是通配规则或触发物品与装备相交
func ApplicableSwaps(sets []*components.TransmogSetComponent, equipped []int) []*components.SwapComponent {
	var swaps []*components.SwapComponent
	for _, set := range sets {
		if !set.Enabled {
			continue
		}
		for _, swap := range set.Swaps {
			if swap.AppliesTo(equipped) {
				swaps = append(swaps, swap)
			}
		}
	}
	return swaps
}

// ResolveModelSwaps 计算槽位 -> kit 映射
//
// 通配规则与具体规则各自填充一张表（每张表内先占先得），
// 具体规则覆盖通配规则，最后预览物品无条件覆盖其所在槽位。
func (r *TransmogResolver) ResolveModelSwaps(swaps []*components.SwapComponent, equipped []int, previewItem int) map[types.KitSlot]int {
	generic := make(map[types.KitSlot]int)
	specific := make(map[types.KitSlot]int)

	for _, swap := range swaps {
		target := generic
		if swap.AppliesSpecifically(equipped) {
			target = specific
		}
		for _, item := range swap.ModelSwaps {
			slot, kit, ok := r.SlotAndKit(item, swap)
			if !ok {
				continue
			}
			if _, claimed := target[slot]; !claimed {
				target[slot] = kit
			}
		}
	}

	for slot, kit := range specific {
		generic[slot] = kit
	}

	if previewItem != types.NoItem {
		if slot, kit, ok := r.SlotAndKit(previewItem, nil); ok {
			generic[slot] = kit
		}
	}
	return generic
}

// SlotAndKit 解析外观物品要占用的槽位和写入的 kit
//
// 负数特殊 ID 解码为隐藏/强制显示；普通物品依次查找规则自带的槽位修正、
// 全局槽位修正、物品元数据声明的槽位，都没有时使用武器槽。
// 元数据未知的物品不占用任何槽位。写入的 kit 总是规范化后的 ID。swap 可以为 nil。
func (r *TransmogResolver) SlotAndKit(itemID int, swap *components.SwapComponent) (types.KitSlot, int, bool) {
	if itemID < 0 {
		neg := types.MapNegativeID(itemID)
		kit, ok := neg.Kit()
		return neg.Slot, kit, ok
	}
	if r.items != nil {
		itemID = r.items.Canonicalize(itemID)
	}

	if swap != nil {
		if slot, ok := swap.SlotOverride(itemID); ok {
			return slot, itemID, true
		}
	}
	if slot, ok := r.itemData.SlotOverride(itemID); ok {
		return slot, itemID, true
	}
	if r.items == nil {
		return types.KitWeapon, itemID, true
	}
	if _, known := r.items.Name(itemID); !known {
		return 0, 0, false
	}
	if slot, ok := r.items.EquipmentSlot(itemID); ok {
		return slot, itemID, true
	}
	return types.KitWeapon, itemID, true
}

// ResolveProjectileSwaps 按规则顺序收集法术替换，丢弃引用了未知法术的条目
func ResolveProjectileSwaps(swaps []*components.SwapComponent, casts *config.ProjectileCastCatalog) []ProjectileSwap {
	var result []ProjectileSwap
	if casts == nil {
		return result
	}
	for _, swap := range swaps {
		for _, ref := range swap.ProjectileSwaps {
			toReplace, ok1 := casts.Get(ref.ToReplace)
			toReplaceWith, ok2 := casts.Get(ref.ToReplaceWith)
			if !ok1 || !ok2 {
				if Verbose {
					log.Printf("[TransmogResolver] skipping projectile swap %q -> %q: unknown spell", ref.ToReplace, ref.ToReplaceWith)
				}
				continue
			}
			result = append(result, ProjectileSwap{ToReplace: toReplace, ToReplaceWith: toReplaceWith})
		}
	}
	return result
}
