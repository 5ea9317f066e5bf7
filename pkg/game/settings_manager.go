package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// ReplacerSettings 全局设置
type ReplacerSettings struct {
	// 面板设置
	HideSidePanel bool `yaml:"hideSidePanel"` // 隐藏规则面板

	// 调试设置
	Verbose       bool   `yaml:"verbose"`       // 输出解析与法术拦截的调试日志
	InspectorAddr string `yaml:"inspectorAddr"` // 解析状态 websocket 监听地址，空表示关闭
}

// DefaultSettings 返回默认设置
func DefaultSettings() *ReplacerSettings {
	return &ReplacerSettings{
		HideSidePanel: false,
		Verbose:       false,
		InspectorAddr: "",
	}
}

// SettingsManager 设置管理器
// 负责设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager    // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *ReplacerSettings // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "global"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
//   - error: 如果加载设置失败返回错误（不影响创建）
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	// 加载失败不是致命错误，使用默认设置
	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm, nil
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *ReplacerSettings {
	return sm.settings
}

// SetHideSidePanel 设置是否隐藏规则面板
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetHideSidePanel(hide bool) {
	sm.settings.HideSidePanel = hide
}

// SetVerbose 设置调试日志开关
func (sm *SettingsManager) SetVerbose(verbose bool) {
	sm.settings.Verbose = verbose
}

// SetInspectorAddr 设置解析状态监听地址，空字符串关闭
func (sm *SettingsManager) SetInspectorAddr(addr string) {
	sm.settings.InspectorAddr = addr
}
