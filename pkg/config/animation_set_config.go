package config

import (
	"fmt"

	"github.com/decker502/transmog/pkg/embedded"
	"github.com/decker502/transmog/pkg/types"
	"gopkg.in/yaml.v3"
)

// AnimationSetsPath 动画集配置文件的嵌入路径
const AnimationSetsPath = "data/animation_sets.yaml"

// AnimationSet 命名的动画集：叶子分类 -> 原始动画 ID
// 从静态数据加载，运行期不可修改
type AnimationSet struct {
	Name       string
	Items      []int
	animations map[types.AnimationCategory]int
}

// AnimationSetEntry 动画集在 YAML 中的结构
type AnimationSetEntry struct {
	Name       string         `yaml:"name" json:"name" jsonschema:"required,minLength=1"`
	Items      []int          `yaml:"items" json:"items" jsonschema:"description=Items whose own animations this set describes (used for previews)"`
	Animations map[string]int `yaml:"animations" json:"animations" jsonschema:"description=Leaf category name -> animation id; -1 or missing means no override"`
}

// AnimationSetsFile 动画集配置文件结构
type AnimationSetsFile struct {
	Renames           map[string]string   `yaml:"renames" json:"renames,omitempty" jsonschema:"description=Old set name -> current set name"`
	DoNotReplaceIdles []int               `yaml:"doNotReplaceIdles" json:"doNotReplaceIdles,omitempty" jsonschema:"description=Idle animations that leave pose animations untouched"`
	Sets              []AnimationSetEntry `yaml:"sets" json:"sets" jsonschema:"required,minItems=1"`
}

// NewAnimationSet 创建动画集（主要供测试和工具使用）
func NewAnimationSet(name string, animations map[types.AnimationCategory]int, items ...int) *AnimationSet {
	copied := make(map[types.AnimationCategory]int, len(animations))
	for c, id := range animations {
		copied[c] = id
	}
	return &AnimationSet{Name: name, Items: items, animations: copied}
}

// Animation 返回分类对应的动画 ID，缺失时返回 types.NoAnimation
func (s *AnimationSet) Animation(c types.AnimationCategory) int {
	if id, ok := s.animations[c]; ok {
		return id
	}
	return types.NoAnimation
}

// DefaultAttack 按固定的攻击风格顺序返回第一个存在的攻击动画
func (s *AnimationSet) DefaultAttack() int {
	for _, style := range types.AttackStyles() {
		if id := s.Animation(style); id != types.NoAnimation {
			return id
		}
	}
	return types.NoAnimation
}

// CategoryOf 返回动画 ID 在本集合中所属的叶子分类
// 按分类声明顺序查找，保证结果确定
func (s *AnimationSet) CategoryOf(animationID int) (types.AnimationCategory, bool) {
	if animationID == types.NoAnimation {
		return 0, false
	}
	for _, c := range types.AnimAll.Expand() {
		if id, ok := s.animations[c]; ok && id == animationID {
			return c, true
		}
	}
	return 0, false
}

// AnimationSetCatalog 全部动画集
type AnimationSetCatalog struct {
	sets              []*AnimationSet
	byName            map[string]*AnimationSet
	byItem            map[int]*AnimationSet
	renames           map[string]string
	doNotReplaceIdles map[int]bool
}

// LoadAnimationSets 从嵌入的 YAML 文件加载动画集
// 参数：
//
//	path - 嵌入路径（如 AnimationSetsPath）
//
// 返回：
//
//	*AnimationSetCatalog - 解析后的目录
//	error - 如果文件读取、解析或校验失败，返回错误信息
func LoadAnimationSets(path string) (*AnimationSetCatalog, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read animation sets file %s: %w", path, err)
	}
	catalog, err := ParseAnimationSets(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return catalog, nil
}

// ParseAnimationSets 解析动画集 YAML 数据
func ParseAnimationSets(data []byte) (*AnimationSetCatalog, error) {
	var file AnimationSetsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse animation sets YAML: %w", err)
	}

	catalog := &AnimationSetCatalog{
		byName:            make(map[string]*AnimationSet, len(file.Sets)),
		byItem:            make(map[int]*AnimationSet),
		renames:           file.Renames,
		doNotReplaceIdles: make(map[int]bool, len(file.DoNotReplaceIdles)),
	}
	if catalog.renames == nil {
		catalog.renames = map[string]string{}
	}
	for _, id := range file.DoNotReplaceIdles {
		catalog.doNotReplaceIdles[id] = true
	}

	for i, entry := range file.Sets {
		set, err := entry.build()
		if err != nil {
			return nil, fmt.Errorf("animation set #%d: %w", i, err)
		}
		if _, dup := catalog.byName[set.Name]; dup {
			return nil, fmt.Errorf("duplicate animation set %q", set.Name)
		}
		catalog.sets = append(catalog.sets, set)
		catalog.byName[set.Name] = set
		for _, item := range set.Items {
			// 同一物品出现在多个集合中时，以第一个为准
			if _, exists := catalog.byItem[item]; !exists {
				catalog.byItem[item] = set
			}
		}
	}

	if len(catalog.sets) == 0 {
		return nil, fmt.Errorf("at least one animation set is required")
	}
	for from, to := range catalog.renames {
		if _, ok := catalog.byName[to]; !ok {
			return nil, fmt.Errorf("rename %q -> %q targets an unknown animation set", from, to)
		}
	}

	return catalog, nil
}

// build 校验并转换单个动画集条目
func (e AnimationSetEntry) build() (*AnimationSet, error) {
	if e.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	animations := make(map[types.AnimationCategory]int, len(e.Animations))
	for name, id := range e.Animations {
		c, err := types.ParseAnimationCategory(name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name, err)
		}
		if !c.IsLeaf() {
			return nil, fmt.Errorf("%s: %s is not a leaf category", e.Name, c)
		}
		if id < types.NoAnimation {
			return nil, fmt.Errorf("%s: invalid animation id %d for %s", e.Name, id, c)
		}
		if id == types.NoAnimation {
			continue
		}
		animations[c] = id
	}
	return &AnimationSet{Name: e.Name, Items: e.Items, animations: animations}, nil
}

// Sets 按文件顺序返回全部动画集
func (c *AnimationSetCatalog) Sets() []*AnimationSet {
	return c.sets
}

// Get 按名称查找（先经过重命名表）
func (c *AnimationSetCatalog) Get(name string) (*AnimationSet, bool) {
	if renamed, ok := c.renames[name]; ok {
		name = renamed
	}
	set, ok := c.byName[name]
	return set, ok
}

// Resolve 按名称查找，未知名称回退到第一个动画集
func (c *AnimationSetCatalog) Resolve(name string) *AnimationSet {
	if set, ok := c.Get(name); ok {
		return set
	}
	return c.sets[0]
}

// ForItem 返回物品自带的动画集（用于预览）
func (c *AnimationSetCatalog) ForItem(itemID int) (*AnimationSet, bool) {
	set, ok := c.byItem[itemID]
	return set, ok
}

// CategoryOf 在所有动画集中查找动画 ID 的分类，返回第一个命中
func (c *AnimationSetCatalog) CategoryOf(animationID int) (types.AnimationCategory, bool) {
	for _, set := range c.sets {
		if category, ok := set.CategoryOf(animationID); ok {
			return category, true
		}
	}
	return 0, false
}

// DoNotReplaceIdle 站立动画是否在"不替换姿态"名单中
func (c *AnimationSetCatalog) DoNotReplaceIdle(animationID int) bool {
	return c.doNotReplaceIdles[animationID]
}
