package config

import (
	"fmt"

	"github.com/decker502/transmog/pkg/embedded"
	"github.com/decker502/transmog/pkg/types"
	"gopkg.in/yaml.v3"
)

// ProjectileCastsPath 法术表现目录的嵌入路径
const ProjectileCastsPath = "data/projectile_casts.yaml"

// ProjectileCast 一个法术的可观察表现（施法动画、施法/命中图形、投射物及其运动参数）
// 目录条目，加载后不可修改
type ProjectileCast struct {
	Name          string `yaml:"name" json:"name" jsonschema:"required,minLength=1,description=Spell name shown in the spell picker"`
	ItemIcon      int    `yaml:"itemIcon,omitempty" json:"itemIcon,omitempty" jsonschema:"description=Item id used as icon (when no sprite icon)"`
	SpriteIcon    int    `yaml:"spriteIcon,omitempty" json:"spriteIcon,omitempty" jsonschema:"description=Sprite id used as icon"`
	CastAnimation int    `yaml:"castAnimation" json:"castAnimation" jsonschema:"required,description=Caster animation id"`
	CastGfx       int    `yaml:"castGfx" json:"castGfx" jsonschema:"description=Caster graphic id; -1 for none"`
	ProjectileID  int    `yaml:"projectile" json:"projectile" jsonschema:"description=Projectile id; -1 for spells without a projectile"`
	HitGfx        int    `yaml:"hitGfx" json:"hitGfx" jsonschema:"description=Graphic shown on the target; -1 for none"`
	StartMovement int    `yaml:"startMovement" json:"startMovement" jsonschema:"description=Client cycles between cast and projectile movement"`
	StartHeight   int    `yaml:"startHeight" json:"startHeight"`
	EndHeight     int    `yaml:"endHeight" json:"endHeight"`
	Slope         int    `yaml:"slope" json:"slope"`
	Barrage       bool   `yaml:"barrage,omitempty" json:"barrage,omitempty" jsonschema:"description=Area cast; hit delay is measured to the target's south-west tile"`
	Artificial    bool   `yaml:"artificial,omitempty" json:"artificial,omitempty" jsonschema:"description=Only usable as a replacement, never matched against real casts"`
}

// UnmarshalYAML 缺省的图形/投射物字段为 -1 而不是 0
func (p *ProjectileCast) UnmarshalYAML(value *yaml.Node) error {
	type plain ProjectileCast
	decoded := plain{
		CastGfx:      types.NoGraphic,
		ProjectileID: types.NoProjectile,
		HitGfx:       types.NoGraphic,
		ItemIcon:     -1,
		SpriteIcon:   -1,
	}
	if err := value.Decode(&decoded); err != nil {
		return err
	}
	*p = ProjectileCast(decoded)
	return nil
}

// HasProjectile 是否带投射物
func (p *ProjectileCast) HasProjectile() bool {
	return p.ProjectileID != types.NoProjectile
}

// ProjectileCastsFile 法术目录文件结构（供 schema 生成器反射）
type ProjectileCastsFile struct {
	Casts []ProjectileCast `yaml:"casts" json:"casts" jsonschema:"required"`
}

// ProjectileCastCatalog 法术表现目录
type ProjectileCastCatalog struct {
	casts  []*ProjectileCast
	byName map[string]*ProjectileCast
}

// LoadProjectileCasts 从嵌入的 YAML 文件加载法术目录
func LoadProjectileCasts(path string) (*ProjectileCastCatalog, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read projectile casts file %s: %w", path, err)
	}
	catalog, err := ParseProjectileCasts(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return catalog, nil
}

// ParseProjectileCasts 解析法术目录 YAML 数据
func ParseProjectileCasts(data []byte) (*ProjectileCastCatalog, error) {
	var file ProjectileCastsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse projectile casts YAML: %w", err)
	}
	return NewProjectileCastCatalog(file.Casts)
}

// NewProjectileCastCatalog 校验并构建目录
func NewProjectileCastCatalog(casts []ProjectileCast) (*ProjectileCastCatalog, error) {
	catalog := &ProjectileCastCatalog{
		byName: make(map[string]*ProjectileCast, len(casts)),
	}
	for i := range casts {
		cast := casts[i]
		if err := validateProjectileCast(&cast); err != nil {
			return nil, fmt.Errorf("projectile cast #%d: %w", i, err)
		}
		if _, dup := catalog.byName[cast.Name]; dup {
			return nil, fmt.Errorf("duplicate projectile cast %q", cast.Name)
		}
		catalog.casts = append(catalog.casts, &cast)
		catalog.byName[cast.Name] = &cast
	}
	return catalog, nil
}

// validateProjectileCast 验证单个条目的合法性
func validateProjectileCast(p *ProjectileCast) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.CastAnimation < 0 {
		return fmt.Errorf("%s: castAnimation must be >= 0, got %d", p.Name, p.CastAnimation)
	}
	if p.CastGfx < types.NoGraphic || p.HitGfx < types.NoGraphic {
		return fmt.Errorf("%s: graphic ids must be >= -1", p.Name)
	}
	if p.ProjectileID < types.NoProjectile {
		return fmt.Errorf("%s: projectile must be >= -1, got %d", p.Name, p.ProjectileID)
	}
	if p.StartMovement < 0 {
		return fmt.Errorf("%s: startMovement cannot be negative, got %d", p.Name, p.StartMovement)
	}
	return nil
}

// Get 按名称查找
func (c *ProjectileCastCatalog) Get(name string) (*ProjectileCast, bool) {
	cast, ok := c.byName[name]
	return cast, ok
}

// All 按文件顺序返回全部条目
func (c *ProjectileCastCatalog) All() []*ProjectileCast {
	return c.casts
}

// Replaceable 可以作为"被替换方"的条目（排除人工条目）
func (c *ProjectileCastCatalog) Replaceable() []*ProjectileCast {
	result := make([]*ProjectileCast, 0, len(c.casts))
	for _, cast := range c.casts {
		if !cast.Artificial {
			result = append(result, cast)
		}
	}
	return result
}
