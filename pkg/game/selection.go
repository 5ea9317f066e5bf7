package game

import (
	"errors"

	"github.com/decker502/transmog/pkg/components"
	"github.com/decker502/transmog/pkg/config"
	"github.com/decker502/transmog/pkg/types"
)

// ErrNotLoggedIn 未登录时不能打开物品/法术选择器
var ErrNotLoggedIn = errors.New("item search requires a logged-in session")

// SearchType 选择器用途
type SearchType int

const (
	// SearchTriggerItem 选择触发物品
	SearchTriggerItem SearchType = iota
	// SearchModelSwap 选择外观物品（悬停时预览）
	SearchModelSwap
	// SearchSpellLeft 选择被替换的法术
	SearchSpellLeft
	// SearchSpellRight 选择替换成的法术
	SearchSpellRight
)

// String 返回选择器用途的字符串表示
func (t SearchType) String() string {
	switch t {
	case SearchTriggerItem:
		return "TriggerItem"
	case SearchModelSwap:
		return "ModelSwap"
	case SearchSpellLeft:
		return "SpellLeft"
	case SearchSpellRight:
		return "SpellRight"
	default:
		return "Unknown"
	}
}

// SelectionResult 选择结果：物品 ID 或法术
type SelectionResult struct {
	ItemID int
	Cast   *config.ProjectileCast
}

// SelectionRequest 打开选择器的请求
type SelectionRequest struct {
	Type SearchType
	// Swap 正在编辑的规则，可以为 nil
	Swap *components.SwapComponent

	OnSelected func(SelectionResult)
	OnDeleted  func()
	// OnHover 仅外观物品选择器设置，物品 ID 为 -1 表示离开
	OnHover func(itemID int)
}

// SelectionUI 宿主的物品/法术选择器
type SelectionUI interface {
	Open(req SelectionRequest)
}

// Notifier 对话框
type Notifier interface {
	ShowError(title, message string)
	// Confirm 返回用户是否确认
	Confirm(title, message string) bool
}

// Panel 规则编辑面板
type Panel interface {
	Rebuild()
	SetVisible(visible bool)
}

// DoItemSearch 打开选择器
//
// 未登录时弹出错误并返回 ErrNotLoggedIn。外观物品选择器在悬停时
// 预览物品；正在编辑的规则没有动画替换时同时预览物品自带的动画集。
func (r *Replacer) DoItemSearch(searchType SearchType, swap *components.SwapComponent, onSelected func(SelectionResult), onDeleted func()) error {
	if r.client.GameState() != types.GameStateLoggedIn {
		if r.notifier != nil {
			r.notifier.ShowError("Log in to choose items",
				"This uses the in-game item search panel; you must be logged in to use this.")
		}
		return ErrNotLoggedIn
	}
	if r.selectionUI == nil {
		return nil
	}

	if onDeleted == nil {
		onDeleted = func() {}
	}
	req := SelectionRequest{
		Type:       searchType,
		Swap:       swap,
		OnSelected: onSelected,
		OnDeleted:  onDeleted,
	}
	if searchType == SearchModelSwap {
		// 只有规则尚无任何动画替换时才连同动画一起预览。
		// 规则数据不区分自动生成与手动添加的动画替换，因此有一条替换时也不预览动画。
		previewAnimations := swap != nil && len(swap.AnimationReplacements) == 0
		req.OnHover = func(itemID int) {
			r.SetPreviewItem(itemID, previewAnimations)
		}
	}
	r.selectionUI.Open(req)
	return nil
}
