package types

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// AnimationCategory 动画分类树中的一个节点
//
// 分类集合在编译期固定：叶子节点对应一个具体动画槽（站立/行走/劈砍攻击…），
// 内部节点（ALL、STAND_PLUS_MOVEMENT、MOVEMENT、ATTACK）只用于分组。
// 父子关系由下面的查找表给出，不使用任何动态分派。
type AnimationCategory int

const (
	AnimAll AnimationCategory = iota
	AnimStandPlusMovement
	AnimStand
	AnimMovement
	AnimWalk
	AnimRun
	AnimWalkBackward
	AnimShuffleLeft
	AnimShuffleRight
	AnimRotate
	AnimAttack
	AnimAttackStab
	AnimAttackSlash
	AnimAttackSlash2
	AnimAttackCrush
	AnimAttackCrush2
	AnimAttackMagic
	AnimAttackRanged
	AnimAttackSpec
	AnimDefend

	animationCategoryCount
)

type categoryNode struct {
	name     string
	label    string
	parent   AnimationCategory
	children []AnimationCategory
}

// noParent 根节点的父节点标记
const noParent AnimationCategory = -1

var categoryTree = [animationCategoryCount]categoryNode{
	AnimAll:               {"ALL", "All", noParent, []AnimationCategory{AnimStandPlusMovement, AnimAttack, AnimDefend}},
	AnimStandPlusMovement: {"STAND_PLUS_MOVEMENT", "Stand + movement", AnimAll, []AnimationCategory{AnimStand, AnimMovement}},
	AnimStand:             {"STAND", "Stand", AnimStandPlusMovement, nil},
	AnimMovement:          {"MOVEMENT", "Movement", AnimStandPlusMovement, []AnimationCategory{AnimWalk, AnimRun, AnimWalkBackward, AnimShuffleLeft, AnimShuffleRight, AnimRotate}},
	AnimWalk:              {"WALK", "Walk", AnimMovement, nil},
	AnimRun:               {"RUN", "Run", AnimMovement, nil},
	AnimWalkBackward:      {"WALK_BACKWARD", "Walk backwards", AnimMovement, nil},
	AnimShuffleLeft:       {"SHUFFLE_LEFT", "Shuffle left", AnimMovement, nil},
	AnimShuffleRight:      {"SHUFFLE_RIGHT", "Shuffle right", AnimMovement, nil},
	AnimRotate:            {"ROTATE", "Rotate", AnimMovement, nil},
	AnimAttack:            {"ATTACK", "Attack", AnimAll, []AnimationCategory{AnimAttackStab, AnimAttackSlash, AnimAttackSlash2, AnimAttackCrush, AnimAttackCrush2, AnimAttackMagic, AnimAttackRanged, AnimAttackSpec}},
	AnimAttackStab:        {"ATTACK_STAB", "Stab", AnimAttack, nil},
	AnimAttackSlash:       {"ATTACK_SLASH", "Slash", AnimAttack, nil},
	AnimAttackSlash2:      {"ATTACK_SLASH2", "Slash 2", AnimAttack, nil},
	AnimAttackCrush:       {"ATTACK_CRUSH", "Crush", AnimAttack, nil},
	AnimAttackCrush2:      {"ATTACK_CRUSH2", "Crush 2", AnimAttack, nil},
	AnimAttackMagic:       {"ATTACK_MAGIC", "Magic", AnimAttack, nil},
	AnimAttackRanged:      {"ATTACK_RANGED", "Ranged", AnimAttack, nil},
	AnimAttackSpec:        {"ATTACK_SPEC", "Special attack", AnimAttack, nil},
	AnimDefend:            {"DEFEND", "Defend", AnimAll, nil},
}

var categoryByName = func() map[string]AnimationCategory {
	m := make(map[string]AnimationCategory, animationCategoryCount)
	for i, node := range categoryTree {
		m[node.name] = AnimationCategory(i)
	}
	return m
}()

// node 查找分类节点，越界属于编程错误，直接 panic
func (c AnimationCategory) node() *categoryNode {
	if c < 0 || c >= animationCategoryCount {
		panic(fmt.Sprintf("types: unknown animation category %d", int(c)))
	}
	return &categoryTree[c]
}

// String 返回分类的持久化名称（如 "ATTACK_SLASH"）
func (c AnimationCategory) String() string {
	if c < 0 || c >= animationCategoryCount {
		return fmt.Sprintf("AnimationCategory(%d)", int(c))
	}
	return categoryTree[c].name
}

// Label 返回分类的显示名称
func (c AnimationCategory) Label() string {
	return c.node().label
}

// IsLeaf 判断是否为叶子分类
func (c AnimationCategory) IsLeaf() bool {
	return len(c.node().children) == 0
}

// Children 返回直接子分类（叶子返回 nil）
func (c AnimationCategory) Children() []AnimationCategory {
	return c.node().children
}

// Parent 返回父分类；根节点返回 false
func (c AnimationCategory) Parent() (AnimationCategory, bool) {
	p := c.node().parent
	return p, p != noParent
}

// Depth 返回节点深度（ALL 为 0）
func (c AnimationCategory) Depth() int {
	depth := 0
	for p, ok := c.Parent(); ok; p, ok = p.Parent() {
		depth++
	}
	return depth
}

// Expand 展开为叶子分类序列
// 叶子返回自身；内部节点按表顺序深度优先返回其下所有叶子
func (c AnimationCategory) Expand() []AnimationCategory {
	if c.IsLeaf() {
		return []AnimationCategory{c}
	}
	leaves := make([]AnimationCategory, 0, 8)
	for _, child := range c.Children() {
		leaves = append(leaves, child.Expand()...)
	}
	return leaves
}

// AppliesTo 判断 other 是否为 c 本身或其后代
func (c AnimationCategory) AppliesTo(other AnimationCategory) bool {
	for cur, ok := other, true; ok; cur, ok = cur.Parent() {
		if cur == c {
			return true
		}
	}
	return false
}

// AttackStyles 返回攻击风格叶子，顺序固定（用于计算默认攻击动画）
func AttackStyles() []AnimationCategory {
	return AnimAttack.Children()
}

// AllAnimationCategories 按声明顺序返回全部分类
func AllAnimationCategories() []AnimationCategory {
	all := make([]AnimationCategory, animationCategoryCount)
	for i := range all {
		all[i] = AnimationCategory(i)
	}
	return all
}

// AnimationCategoryNames 按声明顺序返回全部分类名称
func AnimationCategoryNames() []string {
	names := make([]string, animationCategoryCount)
	for i, node := range categoryTree {
		names[i] = node.name
	}
	return names
}

// ParseAnimationCategory 按持久化名称解析分类
func ParseAnimationCategory(name string) (AnimationCategory, error) {
	if c, ok := categoryByName[name]; ok {
		return c, nil
	}
	return 0, fmt.Errorf("unknown animation category %q", name)
}

// MarshalText 以名称编码（JSON 与 map key 使用）
func (c AnimationCategory) MarshalText() ([]byte, error) {
	if c < 0 || c >= animationCategoryCount {
		return nil, fmt.Errorf("unknown animation category %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText 按名称解码
func (c *AnimationCategory) UnmarshalText(text []byte) error {
	parsed, err := ParseAnimationCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalYAML 以名称编码
func (c AnimationCategory) MarshalYAML() (interface{}, error) {
	text, err := c.MarshalText()
	if err != nil {
		return nil, err
	}
	return string(text), nil
}

// UnmarshalYAML 按名称解码
// 兼容旧格式：早期存档中这里是一个 {type: NAME, id: ...} 对象
func (c *AnimationCategory) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.MappingNode {
		var legacy struct {
			Type string `yaml:"type"`
		}
		if err := value.Decode(&legacy); err != nil {
			return err
		}
		return c.UnmarshalText([]byte(legacy.Type))
	}
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	return c.UnmarshalText([]byte(name))
}
