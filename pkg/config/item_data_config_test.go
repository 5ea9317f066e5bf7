package config

import (
	"testing"

	"github.com/decker502/transmog/pkg/types"
)

func TestParseItemData(t *testing.T) {
	data := `
slotOverrides:
  11826: 0
  6570: -1
names:
  12773: Abyssal whip (volcanic)
`
	cfg, err := ParseItemData([]byte(data))
	if err != nil {
		t.Fatalf("ParseItemData failed: %v", err)
	}

	if slot, ok := cfg.SlotOverride(11826); !ok || slot != types.KitHead {
		t.Errorf("SlotOverride(11826) = %s, %v", slot, ok)
	}
	if _, ok := cfg.SlotOverride(6570); ok {
		t.Error("-1 override must be treated as no override")
	}
	if _, ok := cfg.SlotOverride(4151); ok {
		t.Error("4151 has no override")
	}

	if got := cfg.Name(12773, "Abyssal whip"); got != "Abyssal whip (volcanic)" {
		t.Errorf("Name(12773) = %q", got)
	}
	if got := cfg.Name(4151, "Abyssal whip"); got != "Abyssal whip" {
		t.Errorf("Name(4151) = %q", got)
	}

	if _, err := ParseItemData([]byte("slotOverrides:\n  1: 99\n")); err == nil {
		t.Error("expected error for out of range slot")
	}
}

func TestItemDataNilSafe(t *testing.T) {
	var cfg *ItemDataConfig
	if _, ok := cfg.SlotOverride(1); ok {
		t.Error("nil config has no overrides")
	}
	if got := cfg.Name(1, "fallback"); got != "fallback" {
		t.Errorf("nil config Name = %q", got)
	}
}
