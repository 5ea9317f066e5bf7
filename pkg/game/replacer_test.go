package game

import (
	"testing"

	"github.com/decker502/transmog/internal/sim"
	"github.com/decker502/transmog/pkg/systems"
	"github.com/decker502/transmog/pkg/types"
)

const elderMaulScythe = `
- name: Elder Maul Scythe
  enabled: true
  swaps:
    - itemRestrictions: [4151]
      modelSwaps: [22325]
      animationReplacements:
        - {animationSet: Elder maul, animationTypeToReplace: ALL, priority: 1}
        - {animationSet: scythe, animationTypeToReplace: ATTACK, animationTypeReplacement: ATTACK_SLASH}
      graphicEffects:
        - {type: SCYTHE_SWING, color: "#c27e81"}
`

func TestReplacerGearChangeAppliesModelsAndPoses(t *testing.T) {
	env := newTestEnv(t, mustSets(t, elderMaulScythe))

	env.host.Equip(types.KitWeapon, 4151)

	if got := env.host.Kits()[types.KitWeapon]; got != 22325 {
		t.Errorf("weapon kit = %d, want 22325", got)
	}
	if got := env.host.PoseAnimation(env.player, types.PoseIdle); got != 7518 {
		t.Errorf("idle pose = %d, want 7518", got)
	}
	if got := env.host.PoseAnimation(env.player, types.PoseRun); got != 7519 {
		t.Errorf("run pose = %d, want 7519", got)
	}

	// 卸下触发物品后恢复原样
	env.host.Equip(types.KitWeapon, types.NoItem)
	if got := env.host.Kits()[types.KitWeapon]; got != types.NoItem {
		t.Errorf("weapon kit after unequip = %d, want none", got)
	}
	if got := env.host.PoseAnimation(env.player, types.PoseIdle); got != sim.UnarmedPoses[types.PoseIdle] {
		t.Errorf("idle pose after unequip = %d, want natural", got)
	}
}

func TestReplacerAttackAnimationAndScytheSwing(t *testing.T) {
	env := newTestEnv(t, mustSets(t, elderMaulScythe))
	npc := env.host.SpawnNPC("goblin", 11, 10, 1)
	env.host.SetInteracting(env.player, npc)
	env.host.Equip(types.KitWeapon, 4151)

	env.host.PlayAnimation(env.player, 1658)
	if got := env.host.Animation(env.player); got != 8056 {
		t.Errorf("attack animation = %d, want 8056", got)
	}

	env.ticks(20)
	if len(env.host.EffectObjects()) != 0 {
		t.Fatal("scythe swing spawned too early")
	}
	env.ticks(1)
	objects := env.host.EffectObjects()
	if len(objects) != 1 {
		t.Fatalf("expected one scythe swing, got %d", len(objects))
	}
	if objects[0].Recolor == nil || objects[0].Recolor.R != 0xc2 {
		t.Errorf("scythe swing recolor = %v, want #c27e81", objects[0].Recolor)
	}
	if objects[0].Location.X != 11 || objects[0].Location.Y != 10 {
		t.Errorf("scythe swing at %+v, want one tile east", objects[0].Location)
	}
}

func TestReplacerCanonicalizesItemAliases(t *testing.T) {
	t.Run("占位形态触发规则", func(t *testing.T) {
		env := newTestEnv(t, mustSets(t, elderMaulScythe))
		env.host.Equip(types.KitWeapon, 14389)

		if got := env.replacer.State().Equipped[types.KitWeapon]; got != 4151 {
			t.Errorf("resolved weapon = %d, want canonical 4151", got)
		}
		if got := env.host.Kits()[types.KitWeapon]; got != 22325 {
			t.Errorf("weapon kit = %d, want 22325", got)
		}
		if got := env.host.PoseAnimation(env.player, types.PoseIdle); got != 7518 {
			t.Errorf("idle pose = %d, want 7518", got)
		}
	})

	t.Run("外观物品写入规范化 ID", func(t *testing.T) {
		env := newTestEnv(t, mustSets(t, `
- name: Any whip
  enabled: true
  swaps:
    - itemRestrictions: [-1]
      modelSwaps: [14389]
`))
		if got := env.host.Kits()[types.KitWeapon]; got != 4151 {
			t.Errorf("weapon kit = %d, want canonical 4151", got)
		}
	})
}

func TestReplacerDisabledSetDoesNothing(t *testing.T) {
	sets := mustSets(t, elderMaulScythe)
	sets[0].Enabled = false
	env := newTestEnv(t, sets)

	env.host.Equip(types.KitWeapon, 4151)
	if got := env.host.Kits()[types.KitWeapon]; got != 4151 {
		t.Errorf("weapon kit = %d, want the equipped whip", got)
	}
	env.host.PlayAnimation(env.player, 1658)
	if got := env.host.Animation(env.player); got != 1658 {
		t.Errorf("animation = %d, want unchanged 1658", got)
	}
}

func TestReplacerProjectileSpellReplacement(t *testing.T) {
	env := newTestEnv(t, mustSets(t, `
- name: Sang
  enabled: true
  swaps:
    - itemRestrictions: [-1]
      projectileSwaps:
        - {toReplace: Fire Strike, toReplaceWith: Sanguinesti Staff}
`))
	npc := env.host.SpawnNPC("goblin", 14, 10, 1)
	env.host.SetInteracting(env.player, npc)

	env.host.PlayAnimation(env.player, 1162)
	env.host.ShowGraphic(env.player, 99)
	handle := env.host.FireProjectile(env.player, 100, 51, 60)

	if got := env.host.Animation(env.player); got != 1167 {
		t.Errorf("cast animation = %d, want 1167", got)
	}
	if got := env.host.Graphic(env.player); got != 1540 {
		t.Errorf("cast graphic = %d, want 1540", got)
	}

	projectiles := env.host.Projectiles()
	var replacement, original bool
	for _, p := range projectiles {
		switch {
		case p.Handle == handle:
			original = true
			if p.EndCycle != 0 {
				t.Errorf("original projectile end cycle = %d, want 0", p.EndCycle)
			}
		case p.ID == 1539:
			replacement = true
			if p.EndCycle != 111 || p.StartCycle != 51 {
				t.Errorf("replacement window = [%d, %d], want [51, 111]", p.StartCycle, p.EndCycle)
			}
		}
	}
	if !original || !replacement {
		t.Fatalf("projectiles = %+v", projectiles)
	}

	env.ticks(1)
	if len(env.host.Projectiles()) != 1 {
		t.Errorf("original projectile should be gone after one tick, have %d", len(env.host.Projectiles()))
	}

	env.ticks(109)
	if got := env.host.Graphic(npc); got != types.NoGraphic {
		t.Errorf("hit graphic applied early: %d", got)
	}
	env.ticks(1)
	if got := env.host.Graphic(npc); got != 1541 {
		t.Errorf("hit graphic = %d, want 1541", got)
	}
	if got := env.host.GraphicHeight(npc); got != 124 {
		t.Errorf("hit graphic height = %d, want 124", got)
	}
}

func TestReplacerPreviewItem(t *testing.T) {
	env := newTestEnv(t, nil)
	env.host.Equip(types.KitWeapon, 4151)

	env.replacer.SetPreviewItem(21003, true)
	if got := env.host.Kits()[types.KitWeapon]; got != 21003 {
		t.Errorf("weapon kit during preview = %d, want 21003", got)
	}
	if got := env.host.PoseAnimation(env.player, types.PoseIdle); got != 7518 {
		t.Errorf("idle pose during preview = %d, want 7518", got)
	}

	env.replacer.ClearPreview()
	if got := env.host.Kits()[types.KitWeapon]; got != 4151 {
		t.Errorf("weapon kit after preview = %d, want 4151", got)
	}
	if env.replacer.PreviewItem() != types.NoItem {
		t.Error("preview item should be cleared")
	}
}

func TestReplacerSetManagement(t *testing.T) {
	env := newTestEnv(t, mustSets(t, elderMaulScythe))

	t.Run("添加", func(t *testing.T) {
		if err := env.replacer.AddTransmogSet(0); err != nil {
			t.Fatalf("AddTransmogSet failed: %v", err)
		}
		sets := env.replacer.Sets()
		if len(sets) != 2 || sets[0].Name != "New Transmog Set" {
			t.Fatalf("unexpected sets after add: %d", len(sets))
		}
		if err := env.replacer.AddTransmogSet(5); err == nil {
			t.Error("expected error for out of range index")
		}
	})

	t.Run("移动", func(t *testing.T) {
		if err := env.replacer.MoveTransmogSet(0, true); err != nil {
			t.Fatalf("MoveTransmogSet failed: %v", err)
		}
		if env.replacer.Sets()[0].Name != "New Transmog Set" {
			t.Error("moving the first set up should be a no-op")
		}
		if err := env.replacer.MoveTransmogSet(0, false); err != nil {
			t.Fatalf("MoveTransmogSet failed: %v", err)
		}
		if env.replacer.Sets()[0].Name != "Elder Maul Scythe" {
			t.Error("set should move down")
		}
	})

	t.Run("删除需要确认", func(t *testing.T) {
		env.notifier.confirm = false
		deleted, err := env.replacer.DeleteTransmogSet(1)
		if err != nil || deleted {
			t.Fatalf("cancelled delete = %v, %v", deleted, err)
		}
		env.notifier.confirm = true
		deleted, err = env.replacer.DeleteTransmogSet(1)
		if err != nil || !deleted {
			t.Fatalf("confirmed delete = %v, %v", deleted, err)
		}
		if len(env.replacer.Sets()) != 1 {
			t.Errorf("expected 1 set after delete, got %d", len(env.replacer.Sets()))
		}
		if env.notifier.confirms != 2 {
			t.Errorf("confirms = %d, want 2", env.notifier.confirms)
		}
	})

	t.Run("启用开关", func(t *testing.T) {
		env.host.Equip(types.KitWeapon, 4151)
		if err := env.replacer.SetTransmogSetEnabled(0, false); err != nil {
			t.Fatalf("SetTransmogSetEnabled failed: %v", err)
		}
		if got := env.host.Kits()[types.KitWeapon]; got != 4151 {
			t.Errorf("weapon kit after disable = %d, want 4151", got)
		}
		if err := env.replacer.SetTransmogSetEnabled(0, true); err != nil {
			t.Fatalf("SetTransmogSetEnabled failed: %v", err)
		}
		if got := env.host.Kits()[types.KitWeapon]; got != 22325 {
			t.Errorf("weapon kit after enable = %d, want 22325", got)
		}
	})

	t.Run("每次修改都保存", func(t *testing.T) {
		stored, err := env.store.Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if len(stored) != 1 || stored[0].Name != "Elder Maul Scythe" || !stored[0].Enabled {
			t.Errorf("stored sets out of date: %d", len(stored))
		}
		if env.panel.rebuilds == 0 {
			t.Error("panel should be rebuilt after structural edits")
		}
	})
}

func TestReplacerShutdownRestoresNaturalPoses(t *testing.T) {
	env := newTestEnv(t, mustSets(t, elderMaulScythe))
	env.host.Equip(types.KitWeapon, 4151)

	env.replacer.Shutdown()

	if got := env.host.PoseAnimation(env.player, types.PoseIdle); got != sim.UnarmedPoses[types.PoseIdle] {
		t.Errorf("idle pose after shutdown = %d, want natural", got)
	}
	if got := env.host.Kits()[types.KitWeapon]; got != 4151 {
		t.Errorf("weapon kit after shutdown = %d, want 4151", got)
	}
	if env.panel.visible {
		t.Error("panel should be hidden after shutdown")
	}
}

func TestReplacerReappliesAfterLogin(t *testing.T) {
	env := newTestEnv(t, mustSets(t, elderMaulScythe))
	env.host.Equip(types.KitWeapon, 4151)

	// 传送等情况下宿主会清除外观覆盖
	env.host.SetKitOverrides(env.player, nil)
	env.host.SetGameState(types.GameStateLoggedIn)

	if got := env.host.Kits()[types.KitWeapon]; got != 22325 {
		t.Errorf("weapon kit after login = %d, want 22325", got)
	}
}

func TestReplacerReloadSets(t *testing.T) {
	env := newTestEnv(t, nil)
	env.host.Equip(types.KitWeapon, 4151)

	if err := env.store.Save(mustSets(t, elderMaulScythe)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	env.replacer.ReloadSets()

	if len(env.replacer.Sets()) != 1 {
		t.Fatalf("expected reloaded sets, got %d", len(env.replacer.Sets()))
	}
	if got := env.host.Kits()[types.KitWeapon]; got != 22325 {
		t.Errorf("weapon kit after reload = %d, want 22325", got)
	}
}

func TestReplacerObserve(t *testing.T) {
	env := newTestEnv(t, mustSets(t, elderMaulScythe))
	calls := 0
	env.replacer.Observe(func(*systems.ResolutionState) { calls++ })

	env.host.Equip(types.KitWeapon, 4151)
	if calls != 1 {
		t.Errorf("observer calls = %d, want 1", calls)
	}
	if env.replacer.State().ModelSwaps[types.KitWeapon] != 22325 {
		t.Error("State() should reflect the latest resolution")
	}
}

func TestItemDisplayName(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := []struct {
		name string
		id   int
		want string
	}{
		{"隐藏槽位", types.HideSlotItem(types.KitHead), "Hide Head"},
		{"显示槽位", types.ShowSlotItem(types.KitCape), "Show Cape"},
		{"普通物品", 4151, "Abyssal whip"},
		{"票据", 4152, "Abyssal whip"},
		{"未知物品", 99999, "99999"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := env.replacer.ItemDisplayName(tt.id); got != tt.want {
				t.Errorf("ItemDisplayName(%d) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}
