package game

import (
	"testing"

	"github.com/decker502/transmog/internal/sim"
	"github.com/decker502/transmog/pkg/components"
	"github.com/decker502/transmog/pkg/config"
	"github.com/decker502/transmog/pkg/types"
	"gopkg.in/yaml.v3"
)

const testAnimationSets = `
renames:
  scythe: Scythe of Vitur
doNotReplaceIdles: [5160]
sets:
  - name: Unarmed
    items: []
    animations: {STAND: 808, WALK: 819, RUN: 824, ROTATE: 823, ATTACK_CRUSH: 422, ATTACK_CRUSH2: 423, DEFEND: 424}
  - name: Abyssal whip
    items: [4151]
    animations: {STAND: 808, WALK: 1660, RUN: 1661, ATTACK_SLASH: 1658, DEFEND: 1659}
  - name: Elder maul
    items: [21003]
    animations: {STAND: 7518, WALK: 7520, RUN: 7519, ROTATE: 823, ATTACK_CRUSH: 7516, DEFEND: 7517}
  - name: Scythe of Vitur
    items: [22325]
    animations: {STAND: 8057, WALK: 8011, RUN: 8070, ATTACK_SLASH: 8056, ATTACK_CRUSH: 8056, DEFEND: 4177}
`

const testProjectileCasts = `
casts:
  - {name: Fire Strike, castAnimation: 1162, castGfx: 99, projectile: 100, hitGfx: 101, startMovement: 51, startHeight: 43, endHeight: 31, slope: 16}
  - {name: Saradomin Strike, castAnimation: 811, hitGfx: 76, endHeight: 0}
  - {name: Sanguinesti Staff, castAnimation: 1167, castGfx: 1540, projectile: 1539, hitGfx: 1541, startMovement: 51, startHeight: 43, endHeight: 31, slope: 16, artificial: true}
`

const testItems = `
items:
  - {id: 4151, name: Abyssal whip, slot: Weapon, notedId: 4152, placeholderId: 14389}
  - {id: 21003, name: Elder maul, slot: Weapon}
  - {id: 22325, name: Scythe of vitur, slot: Weapon}
  - {id: 11826, name: Armadyl helmet, slot: Head}
  - {id: 20368, name: Armadyl godsword, slot: Weapon}
`

const testDefaultSets = `
version: 3
transmogSets:
  - name: Monkey run
    enabled: false
    swaps:
      - itemRestrictions: [-1]
        animationReplacements:
          - {animationSet: Elder maul, animationTypeToReplace: ALL}
`

// testEnv 基于模拟宿主的完整环境
type testEnv struct {
	host     *sim.Host
	player   types.ActorID
	replacer *Replacer
	store    *TransmogSetStore
	ui       *fakeSelectionUI
	notifier *fakeNotifier
	panel    *fakePanel
}

func mustCatalogs(t *testing.T) (*config.AnimationSetCatalog, *config.ProjectileCastCatalog, *sim.ItemTable) {
	t.Helper()
	animationSets, err := config.ParseAnimationSets([]byte(testAnimationSets))
	if err != nil {
		t.Fatalf("ParseAnimationSets failed: %v", err)
	}
	casts, err := config.ParseProjectileCasts([]byte(testProjectileCasts))
	if err != nil {
		t.Fatalf("ParseProjectileCasts failed: %v", err)
	}
	items, err := sim.ParseItemTable([]byte(testItems))
	if err != nil {
		t.Fatalf("ParseItemTable failed: %v", err)
	}
	return animationSets, casts, items
}

// mustSets 解析 YAML 形式的规则集列表
func mustSets(t *testing.T, data string) []*components.TransmogSetComponent {
	t.Helper()
	var sets []*components.TransmogSetComponent
	if err := yaml.Unmarshal([]byte(data), &sets); err != nil {
		t.Fatalf("invalid test sets: %v", err)
	}
	return sets
}

// newTestEnv 创建已登录的环境，sets 预先保存到内存存储中
func newTestEnv(t *testing.T, sets []*components.TransmogSetComponent) *testEnv {
	t.Helper()
	animationSets, casts, items := mustCatalogs(t)

	env := &testEnv{
		host:     sim.NewHost(),
		store:    NewTransmogSetStore(nil, animationSets),
		ui:       &fakeSelectionUI{},
		notifier: &fakeNotifier{confirm: true},
		panel:    &fakePanel{},
	}
	if err := env.store.Save(sets); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	env.player = env.host.SpawnPlayer("tester", 10, 10)
	env.host.SetGameState(types.GameStateLoggedIn)

	env.replacer = NewReplacer(ReplacerDeps{
		Client:        env.host,
		Gear:          env.host,
		Items:         items,
		AnimationSets: animationSets,
		Casts:         casts,
		Store:         env.store,
		SelectionUI:   env.ui,
		Notifier:      env.notifier,
		Panel:         env.panel,
	})
	env.host.SetListener(env.replacer)
	env.replacer.Start()
	return env
}

func (e *testEnv) ticks(n int) {
	for i := 0; i < n; i++ {
		e.host.Tick()
	}
}

type fakeSelectionUI struct {
	requests []SelectionRequest
}

func (u *fakeSelectionUI) Open(req SelectionRequest) {
	u.requests = append(u.requests, req)
}

type fakeNotifier struct {
	confirm  bool
	errors   []string
	confirms int
}

func (n *fakeNotifier) ShowError(title, message string) {
	n.errors = append(n.errors, title)
}

func (n *fakeNotifier) Confirm(title, message string) bool {
	n.confirms++
	return n.confirm
}

type fakePanel struct {
	rebuilds int
	visible  bool
}

func (p *fakePanel) Rebuild()                { p.rebuilds++ }
func (p *fakePanel) SetVisible(visible bool) { p.visible = visible }
