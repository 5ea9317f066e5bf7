package app

import (
	"fmt"
	"image"
	"image/color"
	"sort"
	"strings"

	"github.com/decker502/transmog/pkg/client"
	"github.com/decker502/transmog/pkg/types"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const (
	// 场景视图：以玩家为中心的地块网格
	viewTiles    = 13
	tilePixels   = 24
	viewOriginX  = 16
	viewOriginY  = 300
	panelOriginX = 360
	lineHeight   = 16
)

var (
	backgroundColor = color.RGBA{R: 24, G: 28, B: 36, A: 255}
	gridColor       = color.RGBA{R: 40, G: 46, B: 58, A: 255}
	playerColor     = color.RGBA{R: 90, G: 170, B: 255, A: 255}
	npcColor        = color.RGBA{R: 200, G: 80, B: 80, A: 255}
	targetColor     = color.RGBA{R: 255, G: 200, B: 60, A: 255}
	projectileColor = color.RGBA{R: 240, G: 240, B: 240, A: 255}
	effectColor     = color.RGBA{R: 160, G: 120, B: 220, A: 255}
)

const helpText = `E weapon  A attack  C cast  X next spell  T target  arrows move  L login
Tab set  Space toggle  N add  Del delete  PgUp/PgDn move  R reload  H panel
M model swap  I trigger item  S spell swap  F11 fullscreen`

// Draw 绘制调试信息与场景视图
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	ebitenutil.DebugPrintAt(screen, helpText, 16, 8)
	ebitenutil.DebugPrintAt(screen, a.statusText(), 16, 64)
	a.drawWorld(screen)

	if a.panel.visible {
		ebitenutil.DebugPrintAt(screen, a.setsText(), panelOriginX, 64)
	}
	if a.selection.Active() {
		ebitenutil.DebugPrintAt(screen, a.selectionText(), panelOriginX, WindowHeight-4*lineHeight)
	}
	if a.notifier.message != "" {
		ebitenutil.DebugPrintAt(screen, a.notifier.message, 16, WindowHeight-lineHeight-4)
	}
}

// statusText 会话、装备、外观、动画与替换状态
func (a *App) statusText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cycle %d  state %s  TPS %.0f\n", a.host.GameCycle(), a.host.GameState(), ebiten.ActualTPS())

	weapon := a.host.EquippedItems()[types.KitWeapon]
	fmt.Fprintf(&b, "weapon: %s\n", a.itemName(weapon))

	kits := a.host.Kits()
	fmt.Fprintf(&b, "shown weapon: %s  shield: %s\n", a.itemName(kits[types.KitWeapon]), a.itemName(kits[types.KitShield]))

	fmt.Fprintf(&b, "animation %d  graphic %d\n", a.host.Animation(a.player), a.host.Graphic(a.player))
	fmt.Fprintf(&b, "idle %d  walk %d  run %d\n",
		a.host.PoseAnimation(a.player, types.PoseIdle),
		a.host.PoseAnimation(a.player, types.PoseWalk),
		a.host.PoseAnimation(a.player, types.PoseRun))

	replaceable := a.casts.Replaceable()
	if len(replaceable) > 0 {
		fmt.Fprintf(&b, "spell: %s\n", replaceable[a.castIndex%len(replaceable)].Name)
	}
	if target := a.currentTarget(); target != 0 {
		fmt.Fprintf(&b, "target graphic %d\n", a.host.Graphic(target))
	}

	state := a.replacer.State()
	animations := state.Animations.Map()
	categories := make([]types.AnimationCategory, 0, len(animations))
	for c := range animations {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })
	for _, c := range categories {
		fmt.Fprintf(&b, "  %s -> %d\n", c.Label(), animations[c])
	}
	for _, swap := range state.ProjectileSwaps {
		fmt.Fprintf(&b, "  %s => %s\n", swap.ToReplace.Name, swap.ToReplaceWith.Name)
	}
	if state.ScytheSwing != nil {
		fmt.Fprintf(&b, "  scythe swing %s\n", state.ScytheSwing.Color)
	}
	if preview := a.replacer.PreviewItem(); preview != types.NoItem {
		fmt.Fprintf(&b, "preview: %s\n", a.itemName(preview))
	}
	return b.String()
}

func (a *App) itemName(itemID int) string {
	if itemID == types.NoItem {
		return "-"
	}
	return a.replacer.ItemDisplayName(itemID)
}

// setsText 规则集面板
func (a *App) setsText() string {
	var b strings.Builder
	b.WriteString("Transmog sets\n")
	for i, set := range a.replacer.Sets() {
		cursor := " "
		if i == a.setCursor {
			cursor = ">"
		}
		enabled := " "
		if set.Enabled {
			enabled = "x"
		}
		fmt.Fprintf(&b, "%s[%s] %s\n", cursor, enabled, set.Name)
		if i != a.setCursor {
			continue
		}
		for _, swap := range set.Swaps {
			triggers := make([]string, 0, len(swap.ItemRestrictions))
			for _, id := range swap.ItemRestrictions {
				if id == types.WildcardItemID {
					triggers = append(triggers, "any")
					continue
				}
				triggers = append(triggers, a.itemName(id))
			}
			models := make([]string, 0, len(swap.ModelSwaps))
			for _, id := range swap.ModelSwaps {
				if id != types.WildcardItemID {
					models = append(models, a.itemName(id))
				}
			}
			fmt.Fprintf(&b, "    when %s\n", strings.Join(triggers, ", "))
			if len(models) > 0 {
				fmt.Fprintf(&b, "      show %s\n", strings.Join(models, ", "))
			}
			for _, r := range swap.AnimationReplacements {
				fmt.Fprintf(&b, "      %s from %s (%s)\n", r.AnimationTypeToReplace, r.AnimationSet, r.SourceCategory())
			}
			for _, p := range swap.ProjectileSwaps {
				fmt.Fprintf(&b, "      %s => %s\n", p.ToReplace, p.ToReplaceWith)
			}
		}
	}
	return b.String()
}

// selectionText 选择器当前候选项
func (a *App) selectionText() string {
	current, ok := a.selection.Current()
	if !ok {
		return "(nothing to choose)  Esc cancel"
	}
	name := a.itemName(current.ItemID)
	if current.Cast != nil {
		name = current.Cast.Name
	} else if current.ItemID == types.WildcardItemID {
		name = "any item"
	}
	return fmt.Sprintf("%s search: < %s >\nEnter select  Backspace clear  Esc cancel",
		a.selection.request.Type, name)
}

// drawWorld 以玩家为中心绘制地块网格、角色、投射物与独立动画物体
func (a *App) drawWorld(screen *ebiten.Image) {
	center := a.host.WorldLocation(a.player)
	minX := center.X - viewTiles/2
	minY := center.Y - viewTiles/2

	for x := 0; x < viewTiles; x++ {
		for y := 0; y < viewTiles; y++ {
			fillRect(screen, viewOriginX+x*tilePixels+1, viewOriginY+y*tilePixels+1, tilePixels-2, tilePixels-2, gridColor)
		}
	}

	// 地块坐标 y 向北增长，屏幕 y 向下增长
	tileRect := func(tx, ty, size int) (int, int, int) {
		px := viewOriginX + (tx-minX)*tilePixels
		py := viewOriginY + (viewTiles-1-(ty-minY)-(size-1))*tilePixels
		return px, py, size * tilePixels
	}

	target := a.currentTarget()
	for _, npc := range a.targets {
		loc := a.host.WorldLocation(npc)
		size := a.host.Size(npc)
		px, py, side := tileRect(loc.X, loc.Y, size)
		c := npcColor
		if npc == target {
			c = targetColor
		}
		fillRect(screen, px+2, py+2, side-4, side-4, c)
	}

	px, py, side := tileRect(center.X, center.Y, 1)
	fillRect(screen, px+4, py+4, side-8, side-8, playerColor)

	for _, obj := range a.host.EffectObjects() {
		ox, oy, oside := tileRect(obj.Location.X, obj.Location.Y, 1)
		c := effectColor
		if obj.Recolor != nil {
			c = *obj.Recolor
		}
		fillRect(screen, ox+7, oy+7, oside-14, oside-14, c)
	}

	cycle := a.host.GameCycle()
	for _, p := range a.host.Projectiles() {
		if cycle < p.StartCycle {
			continue
		}
		pos := projectilePosition(p, cycle)
		x := viewOriginX + (pos.X-minX*client.TileSize)*tilePixels/client.TileSize
		y := viewOriginY + (viewTiles*client.TileSize-(pos.Y-minY*client.TileSize))*tilePixels/client.TileSize
		fillRect(screen, x-3, y-3, 6, 6, projectileColor)
	}
}

// projectilePosition 按周期线性插值的投射物位置
func projectilePosition(p client.Projectile, cycle int) client.LocalPoint {
	span := p.EndCycle - p.StartCycle
	if span <= 0 {
		return p.Target
	}
	progress := min(cycle-p.StartCycle, span)
	return client.LocalPoint{
		X: p.Start.X + (p.Target.X-p.Start.X)*progress/span,
		Y: p.Start.Y + (p.Target.Y-p.Start.Y)*progress/span,
	}
}

func fillRect(screen *ebiten.Image, x, y, w, h int, c color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	screen.SubImage(image.Rect(x, y, x+w, y+h)).(*ebiten.Image).Fill(c)
}
