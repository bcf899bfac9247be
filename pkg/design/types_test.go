package design

import (
	"encoding/json"
	"testing"
)

func TestMethodNormalize(t *testing.T) {
	tests := []struct {
		in   Method
		want Method
	}{
		{MethodGeometric, MethodGeometric},
		{MethodGenerative, MethodGenerative},
		{MethodHybrid, MethodHybrid},
		{"", MethodGeometric},
		{"DIFFUSION", MethodGeometric},
		{"geometric", MethodGeometric}, // case-sensitive
	}

	for _, tt := range tests {
		if got := tt.in.Normalize(); got != tt.want {
			t.Errorf("Method(%q).Normalize() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMethodGenerative(t *testing.T) {
	if MethodGeometric.Generative() {
		t.Error("GEOMETRIC should not be generative")
	}
	if !MethodGenerative.Generative() || !MethodHybrid.Generative() {
		t.Error("GENERATIVE and HYBRID should be generative")
	}
}

func TestLayoutModeNormalize(t *testing.T) {
	tests := []struct {
		in        LayoutMode
		want      LayoutMode
		wantKnown bool
	}{
		{"", LayoutNone, true},
		{LayoutNone, LayoutNone, true},
		{LayoutGrid, LayoutGrid, true},
		{LayoutDistributeHorizontal, LayoutDistributeHorizontal, true},
		{LayoutDistributeVertical, LayoutDistributeVertical, true},
		{"MASONRY", LayoutNone, false},
	}

	for _, tt := range tests {
		if got := tt.in.Normalize(); got != tt.want {
			t.Errorf("LayoutMode(%q).Normalize() = %q, want %q", tt.in, got, tt.want)
		}
		if got := tt.in.Known(); got != tt.wantKnown {
			t.Errorf("LayoutMode(%q).Known() = %v, want %v", tt.in, got, tt.wantKnown)
		}
	}
}

func TestPreventOverlap(t *testing.T) {
	var nilStrategy *Strategy
	if nilStrategy.PreventOverlap() {
		t.Error("nil strategy should not prevent overlap")
	}
	if (&Strategy{}).PreventOverlap() {
		t.Error("strategy without physics rules should not prevent overlap")
	}
	s := &Strategy{PhysicsRules: &PhysicsRules{PreventOverlap: true}}
	if !s.PreventOverlap() {
		t.Error("PreventOverlap() = false, want true")
	}
}

func TestOverrideZeroSurvivesJSON(t *testing.T) {
	data := []byte(`{"layerId":"a","xOffset":0,"individualScale":1.5}`)

	var o Override
	if err := json.Unmarshal(data, &o); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if o.XOffset == nil || *o.XOffset != 0 {
		t.Errorf("XOffset = %v, want explicit 0", o.XOffset)
	}
	if o.YOffset != nil {
		t.Errorf("YOffset = %v, want nil", *o.YOffset)
	}
	if o.IndividualScale == nil || *o.IndividualScale != 1.5 {
		t.Errorf("IndividualScale = %v, want 1.5", o.IndividualScale)
	}
}

func TestCountAndWalk(t *testing.T) {
	layers := []Layer{
		{ID: "a", Children: []Layer{{ID: "a1"}, {ID: "a2", Children: []Layer{{ID: "a2x"}}}}},
		{ID: "b"},
	}

	if got := CountLayers(layers); got != 5 {
		t.Errorf("CountLayers() = %d, want 5", got)
	}

	var order []string
	var depths []int
	Walk(layers, func(l *Layer, depth int) bool {
		order = append(order, l.ID)
		depths = append(depths, depth)
		return l.ID != "a2"
	})

	wantOrder := []string{"a", "a1", "a2", "b"}
	if len(order) != len(wantOrder) {
		t.Fatalf("Walk visited %v, want %v", order, wantOrder)
	}
	for i := range wantOrder {
		if order[i] != wantOrder[i] {
			t.Errorf("Walk order[%d] = %q, want %q", i, order[i], wantOrder[i])
		}
	}
	if depths[1] != 1 || depths[3] != 0 {
		t.Errorf("Walk depths = %v", depths)
	}
}
