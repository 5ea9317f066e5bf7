package systems

import (
	"testing"

	"github.com/decker502/transmog/pkg/client"
	"github.com/decker502/transmog/pkg/components"
)

func TestScytheSwingCountdown(t *testing.T) {
	c := newFakeClient()
	c.placeAt(c.player, 10, 10)
	s := NewScytheSwingSystem(c)

	s.Arm()
	if s.Armed() {
		t.Fatal("Arm without an effect must be ignored")
	}

	s.SetEffect(&components.GraphicEffect{Type: components.GraphicEffectScytheSwing, Color: "#c27e81"})
	s.Arm()
	for i := 0; i < scytheSwingDelay; i++ {
		s.Update()
	}
	if len(c.effects) != 0 {
		t.Fatalf("effect spawned after %d ticks, too early", scytheSwingDelay)
	}

	s.Update()
	if len(c.effects) != 1 {
		t.Fatalf("expected 1 effect, got %d", len(c.effects))
	}
	obj := c.effects[0]
	if obj.Animation != scytheSwingAnimation {
		t.Errorf("animation = %d, want %d", obj.Animation, scytheSwingAnimation)
	}
	if obj.Recolor == nil || obj.Recolor.R != 0xc2 {
		t.Errorf("recolor = %v", obj.Recolor)
	}

	for i := 0; i < 50; i++ {
		s.Update()
	}
	if len(c.effects) != 1 {
		t.Error("a single arm must spawn a single effect")
	}
}

func TestScytheSwingOrientation(t *testing.T) {
	tests := []struct {
		name        string
		orientation int
		wantModel   int
		wantAt      client.WorldPoint
	}{
		{"朝西", 512, scytheModelWest, client.WorldPoint{X: 9, Y: 10}},
		{"朝东", 1536, scytheModelEast, client.WorldPoint{X: 11, Y: 10}},
		{"朝北", 1024, scytheModelNorth, client.WorldPoint{X: 10, Y: 11}},
		{"朝南", 0, scytheModelSouth, client.WorldPoint{X: 10, Y: 9}},
		{"西侧容差边界", 512 + 69, scytheModelWest, client.WorldPoint{X: 9, Y: 10}},
		{"超出容差", 512 + 70, scytheModelNorth, client.WorldPoint{X: 10, Y: 11}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newFakeClient()
			c.placeAt(c.player, 10, 10)
			c.actors[c.player].orientation = tt.orientation
			s := NewScytheSwingSystem(c)
			s.SetEffect(&components.GraphicEffect{Type: components.GraphicEffectScytheSwing})
			s.Arm()
			for i := 0; i <= scytheSwingDelay; i++ {
				s.Update()
			}
			if len(c.effects) != 1 {
				t.Fatalf("expected 1 effect, got %d", len(c.effects))
			}
			if c.effects[0].Model != tt.wantModel || c.effects[0].Location != tt.wantAt {
				t.Errorf("effect = model %d at %+v, want %d at %+v",
					c.effects[0].Model, c.effects[0].Location, tt.wantModel, tt.wantAt)
			}
			if c.effects[0].Recolor != nil {
				t.Error("no colour configured, no recolour expected")
			}
		})
	}
}

func TestScytheSwingTowardsNPC(t *testing.T) {
	// 3x3 NPC 西南角在 (10,10)，中间一行 y=11
	tests := []struct {
		name      string
		px, py    int
		wantModel int
	}{
		{"正西", 9, 11, scytheModelEast},
		{"正东", 13, 11, scytheModelWest},
		{"北侧", 11, 13, scytheModelSouth},
		{"南侧", 11, 9, scytheModelNorth},
		{"西侧但不在中间行", 9, 10, scytheModelNorth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dx, dy, model := swingTowardsNPC(client.WorldPoint{X: tt.px, Y: tt.py}, client.WorldPoint{X: 10, Y: 10}, 3)
			if model != tt.wantModel {
				t.Errorf("model = %d, want %d", model, tt.wantModel)
			}
			if abs(dx)+abs(dy) != 1 {
				t.Errorf("offset (%d,%d) must be one tile", dx, dy)
			}
		})
	}
}

func TestScytheSwingClearedEffectDisarms(t *testing.T) {
	c := newFakeClient()
	s := NewScytheSwingSystem(c)
	s.SetEffect(&components.GraphicEffect{Type: components.GraphicEffectScytheSwing})
	s.Arm()
	s.SetEffect(nil)
	for i := 0; i <= scytheSwingDelay; i++ {
		s.Update()
	}
	if len(c.effects) != 0 {
		t.Error("clearing the effect must cancel the pending swing")
	}
}
