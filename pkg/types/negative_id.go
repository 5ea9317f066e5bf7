package types

// 负数物品 ID 用于在 ModelSwaps 中编码特殊操作，
// 使"隐藏槽位"/"强制显示槽位"与普通物品替换走同一套槽位映射。
//
//	-100 - slot : 隐藏该槽位（kit 0）
//	-200 - slot : 强制显示该槽位（ShowSlotKit）
const (
	hideSlotBase = -100
	showSlotBase = -200

	// HiddenKit 隐藏槽位时写入的 kit ID
	HiddenKit = 0
	// ShowSlotKit 强制显示槽位时写入的保留 kit ID
	ShowSlotKit = -2
)

// NegativeIDKind 负数 ID 的类别
type NegativeIDKind int

const (
	// NegativeNone 不是已知的特殊 ID（包括通配符 -1）
	NegativeNone NegativeIDKind = iota
	// NegativeHideSlot 隐藏槽位
	NegativeHideSlot
	// NegativeShowSlot 强制显示槽位
	NegativeShowSlot
)

// NegativeID 解码后的特殊 ID
type NegativeID struct {
	Kind NegativeIDKind
	Slot KitSlot
}

// HideSlotItem 返回"隐藏 slot"对应的特殊物品 ID
func HideSlotItem(slot KitSlot) int {
	return hideSlotBase - int(slot)
}

// ShowSlotItem 返回"强制显示 slot"对应的特殊物品 ID
func ShowSlotItem(slot KitSlot) int {
	return showSlotBase - int(slot)
}

// MapNegativeID 解码负数物品 ID
func MapNegativeID(id int) NegativeID {
	if id <= hideSlotBase && id > hideSlotBase-KitSlotCount {
		return NegativeID{Kind: NegativeHideSlot, Slot: KitSlot(hideSlotBase - id)}
	}
	if id <= showSlotBase && id > showSlotBase-KitSlotCount {
		return NegativeID{Kind: NegativeShowSlot, Slot: KitSlot(showSlotBase - id)}
	}
	return NegativeID{Kind: NegativeNone}
}

// Kit 返回该特殊 ID 应写入槽位的 kit ID
func (n NegativeID) Kit() (int, bool) {
	switch n.Kind {
	case NegativeHideSlot:
		return HiddenKit, true
	case NegativeShowSlot:
		return ShowSlotKit, true
	default:
		return 0, false
	}
}
