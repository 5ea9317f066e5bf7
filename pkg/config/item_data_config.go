package config

import (
	"fmt"

	"github.com/decker502/transmog/pkg/embedded"
	"github.com/decker502/transmog/pkg/types"
	"gopkg.in/yaml.v3"
)

// ItemDataPath 物品附加数据的嵌入路径
const ItemDataPath = "data/item_data.yaml"

// ItemDataConfig 物品附加数据
//
// 一些物品上报的装备槽位不正确或有歧义，这里给出全局槽位修正；
// 同时提供显示名称覆盖（同名物品的区分）。
type ItemDataConfig struct {
	// SlotOverrides 物品 ID -> 槽位；-1 表示"保留条目但仍使用物品元数据的槽位"
	SlotOverrides map[int]int `yaml:"slotOverrides"`
	// Names 物品 ID -> 显示名称
	Names map[int]string `yaml:"names"`
}

// LoadItemData 从嵌入的 YAML 文件加载物品附加数据
func LoadItemData(path string) (*ItemDataConfig, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read item data file %s: %w", path, err)
	}
	cfg, err := ParseItemData(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseItemData 解析物品附加数据
func ParseItemData(data []byte) (*ItemDataConfig, error) {
	var cfg ItemDataConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse item data YAML: %w", err)
	}
	if cfg.SlotOverrides == nil {
		cfg.SlotOverrides = map[int]int{}
	}
	if cfg.Names == nil {
		cfg.Names = map[int]string{}
	}

	for item, slot := range cfg.SlotOverrides {
		if slot != -1 && !types.KitSlot(slot).Valid() {
			return nil, fmt.Errorf("item %d: slot override %d out of range", item, slot)
		}
	}
	return &cfg, nil
}

// SlotOverride 返回物品的全局槽位修正；-1 条目视为没有修正
func (c *ItemDataConfig) SlotOverride(itemID int) (types.KitSlot, bool) {
	if c == nil {
		return 0, false
	}
	slot, ok := c.SlotOverrides[itemID]
	if !ok || slot == -1 {
		return 0, false
	}
	return types.KitSlot(slot), true
}

// Name 返回物品显示名称覆盖，没有覆盖时返回 fallback
func (c *ItemDataConfig) Name(itemID int, fallback string) string {
	if c != nil {
		if name, ok := c.Names[itemID]; ok {
			return name
		}
	}
	return fallback
}
