package sim

import (
	"fmt"
	"sort"

	"github.com/decker502/transmog/pkg/embedded"
	"github.com/decker502/transmog/pkg/types"
	"gopkg.in/yaml.v3"
)

// ItemsPath 模拟物品元数据的嵌入路径
const ItemsPath = "data/items.yaml"

// itemEntry 物品在 YAML 中的结构
type itemEntry struct {
	ID            int    `yaml:"id"`
	Name          string `yaml:"name"`
	Slot          string `yaml:"slot"`
	NotedID       int    `yaml:"notedId"`
	PlaceholderID int    `yaml:"placeholderId"`
}

type itemDef struct {
	name      string
	slot      types.KitSlot
	equipable bool
}

// ItemTable 实现 client.ItemMetadata
type ItemTable struct {
	items     map[int]itemDef
	canonical map[int]int
}

// LoadItemTable 从嵌入的 YAML 文件加载物品元数据
func LoadItemTable(path string) (*ItemTable, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read items file %s: %w", path, err)
	}
	table, err := ParseItemTable(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// ParseItemTable 解析物品元数据
func ParseItemTable(data []byte) (*ItemTable, error) {
	var file struct {
		Items []itemEntry `yaml:"items"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse items YAML: %w", err)
	}

	table := &ItemTable{
		items:     make(map[int]itemDef, len(file.Items)),
		canonical: make(map[int]int),
	}
	for _, e := range file.Items {
		if e.ID <= 0 {
			return nil, fmt.Errorf("item %q: id must be positive, got %d", e.Name, e.ID)
		}
		if _, dup := table.items[e.ID]; dup {
			return nil, fmt.Errorf("duplicate item id %d", e.ID)
		}
		def := itemDef{name: e.Name}
		if e.Slot != "" {
			slot, err := types.ParseKitSlot(e.Slot)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", e.ID, err)
			}
			def.slot, def.equipable = slot, true
		}
		table.items[e.ID] = def
		for _, alias := range []int{e.NotedID, e.PlaceholderID} {
			if alias > 0 {
				table.canonical[alias] = e.ID
			}
		}
	}
	return table, nil
}

// Canonicalize 票据/占位形态映射回原物品
func (t *ItemTable) Canonicalize(itemID int) int {
	if id, ok := t.canonical[itemID]; ok {
		return id
	}
	return itemID
}

func (t *ItemTable) EquipmentSlot(itemID int) (types.KitSlot, bool) {
	def, ok := t.items[t.Canonicalize(itemID)]
	if !ok || !def.equipable {
		return 0, false
	}
	return def.slot, true
}

func (t *ItemTable) Name(itemID int) (string, bool) {
	def, ok := t.items[t.Canonicalize(itemID)]
	if !ok {
		return "", false
	}
	return def.name, true
}

// ItemsForSlot 按 ID 升序返回可以装备到该槽位的物品
func (t *ItemTable) ItemsForSlot(slot types.KitSlot) []int {
	var ids []int
	for id, def := range t.items {
		if def.equipable && def.slot == slot {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}
