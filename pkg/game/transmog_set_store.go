package game

import (
	"fmt"
	"log"

	"github.com/decker502/transmog/pkg/components"
	"github.com/decker502/transmog/pkg/config"
	"github.com/decker502/transmog/pkg/embedded"
	"github.com/decker502/transmog/pkg/types"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// 存储路径常量
const (
	transmogObject       = "transmog"
	transmogSetsProperty = "sets"
)

// DefaultTransmogSetsPath 默认规则集的嵌入路径
const DefaultTransmogSetsPath = "data/default_transmog_sets.yaml"

// TransmogSetsVersion 当前存储格式版本
//
//	1 - 替换分类允许任意分类
//	2 - 替换分类只对攻击分类有意义
//	3 - 增加法术替换与规则槽位修正
const TransmogSetsVersion = 3

// TransmogSetsFile 存储的规则集结构
type TransmogSetsFile struct {
	Version      int                                `yaml:"version" json:"version"`
	TransmogSets []*components.TransmogSetComponent `yaml:"transmogSets" json:"transmogSets"`
}

// TransmogSetStore 规则集持久化
//
// 规则集以带版本号的 YAML 保存在 gdata 中；gdataManager 为 nil 时
// 只保存在内存中（降级模式）。
type TransmogSetStore struct {
	gdataManager *gdata.Manager
	catalog      *config.AnimationSetCatalog

	memory []byte // 降级模式下的存储
}

// NewTransmogSetStore 创建规则集存储
// catalog 用于规范化动画集名称，可以为 nil
func NewTransmogSetStore(gdataManager *gdata.Manager, catalog *config.AnimationSetCatalog) *TransmogSetStore {
	return &TransmogSetStore{
		gdataManager: gdataManager,
		catalog:      catalog,
	}
}

// Load 读取规则集
//
// 没有保存过任何规则时返回默认规则集；
// 数据损坏时返回空列表和错误（调用方记录日志后继续运行）
func (s *TransmogSetStore) Load() ([]*components.TransmogSetComponent, error) {
	data, ok, err := s.read()
	if err != nil {
		return []*components.TransmogSetComponent{}, err
	}
	if !ok {
		log.Printf("[TransmogSetStore] No stored transmog sets, using defaults")
		return DefaultTransmogSets(s.catalog)
	}

	sets, err := ParseTransmogSets(data, s.catalog)
	if err != nil {
		return []*components.TransmogSetComponent{}, err
	}
	return sets, nil
}

// Save 保存规则集
func (s *TransmogSetStore) Save(sets []*components.TransmogSetComponent) error {
	data, err := MarshalTransmogSets(sets)
	if err != nil {
		return err
	}

	if s.gdataManager == nil {
		s.memory = data
		return nil
	}
	if err := s.gdataManager.SaveObjectProp(transmogObject, transmogSetsProperty, data); err != nil {
		return fmt.Errorf("failed to save transmog sets: %w", err)
	}
	return nil
}

// read 读取原始数据，ok 为 false 表示没有保存过
func (s *TransmogSetStore) read() ([]byte, bool, error) {
	if s.gdataManager == nil {
		return s.memory, s.memory != nil, nil
	}
	if !s.gdataManager.ObjectPropExists(transmogObject, transmogSetsProperty) {
		return nil, false, nil
	}
	data, err := s.gdataManager.LoadObjectProp(transmogObject, transmogSetsProperty)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load transmog sets: %w", err)
	}
	return data, true, nil
}

// DefaultTransmogSets 读取嵌入的默认规则集
func DefaultTransmogSets(catalog *config.AnimationSetCatalog) ([]*components.TransmogSetComponent, error) {
	data, err := embedded.ReadFile(DefaultTransmogSetsPath)
	if err != nil {
		return []*components.TransmogSetComponent{}, fmt.Errorf("failed to read default transmog sets: %w", err)
	}
	sets, err := ParseTransmogSets(data, catalog)
	if err != nil {
		return []*components.TransmogSetComponent{}, fmt.Errorf("%s: %w", DefaultTransmogSetsPath, err)
	}
	return sets, nil
}

// ParseTransmogSets 解析、迁移并校验规则集
func ParseTransmogSets(data []byte, catalog *config.AnimationSetCatalog) ([]*components.TransmogSetComponent, error) {
	var file TransmogSetsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse transmog sets YAML: %w", err)
	}
	if file.Version > TransmogSetsVersion {
		return nil, fmt.Errorf("transmog sets version %d is newer than supported version %d", file.Version, TransmogSetsVersion)
	}

	sets := make([]*components.TransmogSetComponent, 0, len(file.TransmogSets))
	for i, set := range file.TransmogSets {
		if set == nil {
			return nil, fmt.Errorf("transmog set #%d is empty", i)
		}
		migrateTransmogSet(set, file.Version)
		if err := set.Validate(); err != nil {
			return nil, fmt.Errorf("transmog set #%d: %w", i, err)
		}
		normalizeAnimationSetNames(set, catalog)
		sets = append(sets, set)
	}
	return sets, nil
}

// MarshalTransmogSets 以当前版本序列化规则集
func MarshalTransmogSets(sets []*components.TransmogSetComponent) ([]byte, error) {
	data, err := yaml.Marshal(TransmogSetsFile{
		Version:      TransmogSetsVersion,
		TransmogSets: sets,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transmog sets: %w", err)
	}
	return data, nil
}

// migrateTransmogSet 把旧版本的数据升级到当前版本
func migrateTransmogSet(set *components.TransmogSetComponent, version int) {
	if version >= 2 {
		return
	}
	// 版本 1 中自动生成的替换分类可能不是攻击分类，这种值没有意义
	for _, swap := range set.Swaps {
		if swap == nil {
			continue
		}
		for i := range swap.AnimationReplacements {
			r := &swap.AnimationReplacements[i]
			if r.AnimationTypeReplacement != nil && !types.AnimAttack.AppliesTo(*r.AnimationTypeReplacement) {
				r.AnimationTypeReplacement = nil
			}
		}
	}
}

// normalizeAnimationSetNames 旧名称改为当前名称，未知名称保持原样
func normalizeAnimationSetNames(set *components.TransmogSetComponent, catalog *config.AnimationSetCatalog) {
	if catalog == nil {
		return
	}
	for _, swap := range set.Swaps {
		for i := range swap.AnimationReplacements {
			r := &swap.AnimationReplacements[i]
			if animationSet, ok := catalog.Get(r.AnimationSet); ok {
				r.AnimationSet = animationSet.Name
			}
		}
	}
}
