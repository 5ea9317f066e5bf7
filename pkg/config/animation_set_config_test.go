package config

import (
	"testing"
	"testing/fstest"

	"github.com/decker502/transmog/pkg/embedded"
	"github.com/decker502/transmog/pkg/types"
)

const testAnimationSetsYAML = `
renames:
  Godsword: Godsword (Armadyl)
doNotReplaceIdles: [5160]
sets:
  - name: Unarmed
    animations:
      STAND: 808
      WALK: 819
      ATTACK_CRUSH: 422
  - name: Godsword (Armadyl)
    items: [11802]
    animations:
      STAND: 7053
      ATTACK_SLASH: 7045
      ATTACK_CRUSH: 7054
  - name: Whip
    items: [4151]
    animations:
      STAND: 808
      ATTACK_SLASH: 1658
`

func TestParseAnimationSets(t *testing.T) {
	catalog, err := ParseAnimationSets([]byte(testAnimationSetsYAML))
	if err != nil {
		t.Fatalf("ParseAnimationSets failed: %v", err)
	}

	if len(catalog.Sets()) != 3 {
		t.Fatalf("Expected 3 sets, got %d", len(catalog.Sets()))
	}

	t.Run("按名称查找与重命名", func(t *testing.T) {
		gs, ok := catalog.Get("Godsword")
		if !ok {
			t.Fatal("renamed set not found")
		}
		if gs.Name != "Godsword (Armadyl)" {
			t.Errorf("Get(Godsword).Name = %q", gs.Name)
		}
		if catalog.Resolve("no such set").Name != "Unarmed" {
			t.Error("unknown names should fall back to the first set")
		}
	})

	t.Run("动画查询", func(t *testing.T) {
		gs, _ := catalog.Get("Godsword (Armadyl)")
		if got := gs.Animation(types.AnimAttackSlash); got != 7045 {
			t.Errorf("ATTACK_SLASH = %d, want 7045", got)
		}
		if got := gs.Animation(types.AnimWalk); got != types.NoAnimation {
			t.Errorf("missing WALK = %d, want -1", got)
		}
		if got := gs.DefaultAttack(); got != 7045 {
			t.Errorf("DefaultAttack = %d, want 7045 (slash precedes crush)", got)
		}
	})

	t.Run("动画分类反查", func(t *testing.T) {
		c, ok := catalog.CategoryOf(1658)
		if !ok || c != types.AnimAttackSlash {
			t.Errorf("CategoryOf(1658) = %s, %v", c, ok)
		}
		// 808 同时出现在多个集合中，取第一个集合的分类
		c, ok = catalog.CategoryOf(808)
		if !ok || c != types.AnimStand {
			t.Errorf("CategoryOf(808) = %s, %v", c, ok)
		}
		if _, ok := catalog.CategoryOf(-1); ok {
			t.Error("-1 must never be classified")
		}
	})

	t.Run("物品动画集", func(t *testing.T) {
		set, ok := catalog.ForItem(4151)
		if !ok || set.Name != "Whip" {
			t.Errorf("ForItem(4151) = %v, %v", set, ok)
		}
		if _, ok := catalog.ForItem(1); ok {
			t.Error("item 1 has no animation set")
		}
	})

	if !catalog.DoNotReplaceIdle(5160) || catalog.DoNotReplaceIdle(808) {
		t.Error("doNotReplaceIdles lookup mismatch")
	}
}

func TestParseAnimationSetsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"空目录", "sets: []\n"},
		{"非叶子分类", "sets:\n  - name: A\n    animations:\n      ATTACK: 1\n"},
		{"未知分类", "sets:\n  - name: A\n    animations:\n      DANCE: 1\n"},
		{"重复名称", "sets:\n  - name: A\n  - name: A\n"},
		{"缺少名称", "sets:\n  - animations:\n      STAND: 1\n"},
		{"重命名目标不存在", "renames:\n  old: missing\nsets:\n  - name: A\n"},
		{"非法动画 ID", "sets:\n  - name: A\n    animations:\n      STAND: -5\n"},
		{"YAML 格式错误", "sets: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseAnimationSets([]byte(tt.yaml)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadAnimationSetsFromEmbedded(t *testing.T) {
	embedded.Init(fstest.MapFS{
		AnimationSetsPath: {Data: []byte(testAnimationSetsYAML)},
	})
	defer embedded.Init(nil)

	catalog, err := LoadAnimationSets(AnimationSetsPath)
	if err != nil {
		t.Fatalf("LoadAnimationSets failed: %v", err)
	}
	if len(catalog.Sets()) != 3 {
		t.Errorf("Expected 3 sets, got %d", len(catalog.Sets()))
	}

	if _, err := LoadAnimationSets("data/missing.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}
