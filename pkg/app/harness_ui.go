package app

import (
	"log"

	"github.com/decker502/transmog/internal/sim"
	"github.com/decker502/transmog/pkg/config"
	"github.com/decker502/transmog/pkg/game"
	"github.com/decker502/transmog/pkg/types"
)

// harnessSelection 键盘驱动的物品/法术选择器
// 左右方向键移动光标（外观物品选择器同时触发悬停预览），回车确认，Esc 取消
type harnessSelection struct {
	items *sim.ItemTable
	casts *config.ProjectileCastCatalog

	request    *game.SelectionRequest
	candidates []game.SelectionResult
	cursor     int
}

func newHarnessSelection(items *sim.ItemTable, casts *config.ProjectileCastCatalog) *harnessSelection {
	return &harnessSelection{items: items, casts: casts}
}

// Open 实现 game.SelectionUI
func (s *harnessSelection) Open(req game.SelectionRequest) {
	s.request = &req
	s.cursor = 0
	s.candidates = s.candidates[:0]

	switch req.Type {
	case game.SearchSpellLeft:
		for _, cast := range s.casts.Replaceable() {
			s.candidates = append(s.candidates, game.SelectionResult{ItemID: types.NoItem, Cast: cast})
		}
	case game.SearchSpellRight:
		for _, cast := range s.casts.All() {
			s.candidates = append(s.candidates, game.SelectionResult{ItemID: types.NoItem, Cast: cast})
		}
	default:
		if req.Type == game.SearchTriggerItem {
			s.candidates = append(s.candidates, game.SelectionResult{ItemID: types.WildcardItemID})
		}
		for _, slot := range types.AllKitSlots() {
			for _, id := range s.items.ItemsForSlot(slot) {
				s.candidates = append(s.candidates, game.SelectionResult{ItemID: id})
			}
			if req.Type == game.SearchModelSwap {
				s.candidates = append(s.candidates,
					game.SelectionResult{ItemID: types.HideSlotItem(slot)},
					game.SelectionResult{ItemID: types.ShowSlotItem(slot)})
			}
		}
	}
	log.Printf("[Selection] Opened %s search with %d candidates", req.Type, len(s.candidates))
	s.hover()
}

// Active 选择器是否打开
func (s *harnessSelection) Active() bool {
	return s.request != nil
}

// Current 光标处的候选项
func (s *harnessSelection) Current() (game.SelectionResult, bool) {
	if s.request == nil || len(s.candidates) == 0 {
		return game.SelectionResult{}, false
	}
	return s.candidates[s.cursor], true
}

// Move 移动光标，循环滚动
func (s *harnessSelection) Move(delta int) {
	if s.request == nil || len(s.candidates) == 0 {
		return
	}
	s.cursor = (s.cursor + delta + len(s.candidates)) % len(s.candidates)
	s.hover()
}

func (s *harnessSelection) hover() {
	if s.request.OnHover == nil {
		return
	}
	current, ok := s.Current()
	if !ok || current.ItemID < 0 {
		s.request.OnHover(types.NoItem)
		return
	}
	s.request.OnHover(current.ItemID)
}

// Confirm 选中光标处的候选项并关闭
func (s *harnessSelection) Confirm() {
	current, ok := s.Current()
	req := s.close()
	if ok && req != nil && req.OnSelected != nil {
		req.OnSelected(current)
	}
}

// Delete 清除正在编辑的值并关闭
func (s *harnessSelection) Delete() {
	if req := s.close(); req != nil && req.OnDeleted != nil {
		req.OnDeleted()
	}
}

// Cancel 关闭选择器
func (s *harnessSelection) Cancel() {
	s.close()
}

func (s *harnessSelection) close() *game.SelectionRequest {
	req := s.request
	s.request = nil
	if req != nil && req.OnHover != nil {
		req.OnHover(types.NoItem)
	}
	return req
}

// harnessNotifier 把对话框显示为屏幕底部的一行提示
// 删除确认由预览程序的"再按一次"完成，因此 Confirm 总是同意
type harnessNotifier struct {
	message string
}

func (n *harnessNotifier) ShowError(title, message string) {
	n.message = title + ": " + message
	log.Printf("[Notifier] %s", n.message)
}

func (n *harnessNotifier) Confirm(title, message string) bool {
	n.message = title + " " + message
	return true
}

// harnessPanel 规则集列表始终绘制在调试信息中，这里只记录可见性
type harnessPanel struct {
	visible  bool
	rebuilds int
}

func (p *harnessPanel) Rebuild() {
	p.rebuilds++
}

func (p *harnessPanel) SetVisible(visible bool) {
	p.visible = visible
}
