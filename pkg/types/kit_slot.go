package types

import (
	"fmt"
	"strings"
)

// KitSlot 装备外观槽位（与宿主客户端的 kit 索引一致）
type KitSlot int

const (
	KitHead KitSlot = iota
	KitCape
	KitAmulet
	KitWeapon
	KitTorso
	KitShield
	KitArms
	KitLegs
	KitHair
	KitHands
	KitBoots
	KitJaw
)

// KitSlotCount 槽位总数，也是单条规则 ModelSwaps 的长度上限
const KitSlotCount = 12

var kitSlotNames = [KitSlotCount]string{
	"Head", "Cape", "Amulet", "Weapon", "Torso", "Shield",
	"Arms", "Legs", "Hair", "Hands", "Boots", "Jaw",
}

// Valid 判断槽位是否在合法范围内
func (s KitSlot) Valid() bool {
	return s >= 0 && s < KitSlotCount
}

// String 返回槽位名称
func (s KitSlot) String() string {
	if !s.Valid() {
		return fmt.Sprintf("KitSlot(%d)", int(s))
	}
	return kitSlotNames[s]
}

// ParseKitSlot 按名称（不区分大小写）解析槽位
func ParseKitSlot(name string) (KitSlot, error) {
	for i, n := range kitSlotNames {
		if strings.EqualFold(n, name) {
			return KitSlot(i), nil
		}
	}
	return 0, fmt.Errorf("unknown kit slot %q", name)
}

// AllKitSlots 按索引顺序返回所有槽位
func AllKitSlots() []KitSlot {
	slots := make([]KitSlot, KitSlotCount)
	for i := range slots {
		slots[i] = KitSlot(i)
	}
	return slots
}
