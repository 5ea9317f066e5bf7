package game

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/decker502/transmog/pkg/embedded"
	"github.com/decker502/transmog/pkg/types"
)

func initDefaultSets(t *testing.T, data string) {
	t.Helper()
	embedded.Init(fstest.MapFS{DefaultTransmogSetsPath: {Data: []byte(data)}})
	t.Cleanup(func() { embedded.Init(nil) })
}

func TestTransmogSetStoreDefaults(t *testing.T) {
	initDefaultSets(t, testDefaultSets)
	animationSets, _, _ := mustCatalogs(t)
	store := NewTransmogSetStore(nil, animationSets)

	sets, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(sets) != 1 || sets[0].Name != "Monkey run" || sets[0].Enabled {
		t.Fatalf("unexpected default sets: %d", len(sets))
	}
}

func TestTransmogSetStoreRoundTrip(t *testing.T) {
	animationSets, _, _ := mustCatalogs(t)
	store := NewTransmogSetStore(nil, animationSets)

	if err := store.Save(mustSets(t, elderMaulScythe)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	sets, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(sets) != 1 {
		t.Fatalf("expected 1 set, got %d", len(sets))
	}
	swap := sets[0].Swaps[0]
	if swap.ModelSwaps[0] != 22325 {
		t.Errorf("model swap = %d, want 22325", swap.ModelSwaps[0])
	}
	// 旧名称在加载时规范化
	if got := swap.AnimationReplacements[1].AnimationSet; got != "Scythe of Vitur" {
		t.Errorf("animation set = %q, want renamed", got)
	}
	if r := swap.AnimationReplacements[1].AnimationTypeReplacement; r == nil || *r != types.AnimAttackSlash {
		t.Errorf("replacement category = %v, want ATTACK_SLASH", r)
	}
	if swap.GraphicEffects[0].Color != "#c27e81" {
		t.Errorf("effect color = %q", swap.GraphicEffects[0].Color)
	}
}

func TestParseTransmogSets(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{"空列表", "version: 3\ntransmogSets: []\n", false},
		{"无效 YAML", "version: [\n", true},
		{"未来版本", "version: 99\ntransmogSets: []\n", true},
		{"空触发物品", "version: 3\ntransmogSets:\n  - name: a\n    swaps:\n      - itemRestrictions: []\n", true},
		{"未知效果", "version: 3\ntransmogSets:\n  - name: a\n    swaps:\n      - itemRestrictions: [-1]\n        graphicEffects: [{type: SPARKLE}]\n", true},
		{"未知分类", "version: 3\ntransmogSets:\n  - name: a\n    swaps:\n      - itemRestrictions: [-1]\n        animationReplacements: [{animationSet: x, animationTypeToReplace: DANCE}]\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTransmogSets([]byte(tt.data), nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseTransmogSets() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseTransmogSetsMigratesVersion1(t *testing.T) {
	legacy := `
version: 1
transmogSets:
  - name: legacy
    enabled: true
    swaps:
      - itemRestrictions: [-1]
        animationReplacements:
          - animationSet: Elder maul
            animationTypeToReplace: ALL
            animationTypeReplacement: {type: ALL, id: 7516}
          - animationSet: Elder maul
            animationTypeToReplace: ATTACK
            animationTypeReplacement: {type: ATTACK_CRUSH, id: 7516}
`
	sets, err := ParseTransmogSets([]byte(legacy), nil)
	if err != nil {
		t.Fatalf("ParseTransmogSets failed: %v", err)
	}
	replacements := sets[0].Swaps[0].AnimationReplacements
	if replacements[0].AnimationTypeReplacement != nil {
		t.Error("non-attack replacement category should be dropped")
	}
	if r := replacements[1].AnimationTypeReplacement; r == nil || *r != types.AnimAttackCrush {
		t.Error("attack replacement category should be kept")
	}
}

func TestMarshalTransmogSetsWritesCurrentVersion(t *testing.T) {
	data, err := MarshalTransmogSets(mustSets(t, elderMaulScythe))
	if err != nil {
		t.Fatalf("MarshalTransmogSets failed: %v", err)
	}
	if !strings.HasPrefix(string(data), "version: 3\n") {
		t.Errorf("unexpected header: %q", strings.SplitN(string(data), "\n", 2)[0])
	}
}

func TestReplacerCorruptedStoreStartsEmpty(t *testing.T) {
	env := newTestEnv(t, nil)
	env.store.memory = []byte("transmogSets: {\n")

	env.replacer.ReloadSets()
	if sets := env.replacer.Sets(); sets == nil || len(sets) != 0 {
		t.Errorf("corrupted store should yield an empty set list, got %v", sets)
	}
}

func TestTransmogSetStoreGdata(t *testing.T) {
	gdataManager := openTestGdata(t, "test_transmog_sets")
	initDefaultSets(t, testDefaultSets)
	animationSets, _, _ := mustCatalogs(t)

	store := NewTransmogSetStore(gdataManager, animationSets)
	sets, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(sets) != 1 || sets[0].Name != "Monkey run" {
		t.Fatal("expected defaults from an empty store")
	}

	sets[0].Enabled = true
	if err := store.Save(sets); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, err := NewTransmogSetStore(gdataManager, animationSets).Load()
	if err != nil {
		t.Fatalf("Load after save failed: %v", err)
	}
	if len(reloaded) != 1 || !reloaded[0].Enabled {
		t.Error("saved sets should survive a reload")
	}
}
