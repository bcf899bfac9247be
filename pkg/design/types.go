package design

import (
	"encoding/json"

	"github.com/matzehuels/refit/pkg/geom"
)

// =============================================================================
// Enums
// =============================================================================

// Method is how a strategy intends to realize the target layout.
type Method string

// Strategy methods.
const (
	MethodGeometric  Method = "GEOMETRIC"
	MethodGenerative Method = "GENERATIVE"
	MethodHybrid     Method = "HYBRID"
)

// Known reports whether m is one of the recognized methods.
func (m Method) Known() bool {
	switch m {
	case MethodGeometric, MethodGenerative, MethodHybrid:
		return true
	}
	return false
}

// Normalize maps unknown values to MethodGeometric so newer hosts can
// send values this engine does not understand.
func (m Method) Normalize() Method {
	if m.Known() {
		return m
	}
	return MethodGeometric
}

// Generative reports whether the method asks for generated content.
func (m Method) Generative() bool {
	return m == MethodGenerative || m == MethodHybrid
}

// LayoutMode selects the flow layout pass.
type LayoutMode string

// Layout modes.
const (
	LayoutNone                 LayoutMode = "NONE"
	LayoutGrid                 LayoutMode = "GRID"
	LayoutDistributeHorizontal LayoutMode = "DISTRIBUTE_HORIZONTAL"
	LayoutDistributeVertical   LayoutMode = "DISTRIBUTE_VERTICAL"
)

// Known reports whether mode is recognized. The empty mode counts as
// known; it means "unset".
func (mode LayoutMode) Known() bool {
	switch mode {
	case "", LayoutNone, LayoutGrid, LayoutDistributeHorizontal, LayoutDistributeVertical:
		return true
	}
	return false
}

// Normalize maps unset and unknown values to LayoutNone.
func (mode LayoutMode) Normalize() LayoutMode {
	if mode == "" || !mode.Known() {
		return LayoutNone
	}
	return mode
}

// RoleFlow is the reserved layout role marking a layer as flow-eligible.
const RoleFlow = "flow"

// TypeGenerative is the layer type assigned to a layer marked for
// generative replacement.
const TypeGenerative = "generative"

// =============================================================================
// Input
// =============================================================================

// Layer is a node of a design layer tree, positioned in the coordinate
// space of the container it was authored in.
type Layer struct {
	ID             string    `json:"id"`
	Type           string    `json:"type,omitempty"`
	Name           string    `json:"name,omitempty"`
	Coords         geom.Rect `json:"coords"`
	Children       []Layer   `json:"children,omitempty"`
	LayoutRole     string    `json:"layoutRole,omitempty"`
	LinkedAnchorID string    `json:"linkedAnchorId,omitempty"`
	CitedRule      string    `json:"citedRule,omitempty"`
}

// Container is a named coordinate frame.
type Container struct {
	Name   string    `json:"name"`
	Bounds geom.Rect `json:"bounds"`
}

// Override is a per-layer adjustment. Nil numeric fields are absent,
// which is distinct from an explicit zero.
type Override struct {
	LayerID         string   `json:"layerId"`
	XOffset         *float64 `json:"xOffset,omitempty"`
	YOffset         *float64 `json:"yOffset,omitempty"`
	IndividualScale *float64 `json:"individualScale,omitempty"`
	Rotation        *float64 `json:"rotation,omitempty"`
	LayoutRole      string   `json:"layoutRole,omitempty"`
	LinkedAnchorID  string   `json:"linkedAnchorId,omitempty"`
	CitedRule       string   `json:"citedRule,omitempty"`
}

// PhysicsRules holds solver switches carried on a strategy.
type PhysicsRules struct {
	PreventOverlap bool `json:"preventOverlap,omitempty"`
}

// Strategy is an automatically suggested plan for a source to target
// mapping. The engine only consumes it.
type Strategy struct {
	Method           Method          `json:"method"`
	SuggestedScale   *float64        `json:"suggestedScale,omitempty"`
	LayoutMode       LayoutMode      `json:"layoutMode,omitempty"`
	Overrides        []Override      `json:"overrides,omitempty"`
	ReplaceLayerID   string          `json:"replaceLayerId,omitempty"`
	GenerativePrompt string          `json:"generativePrompt,omitempty"`
	PhysicsRules     *PhysicsRules   `json:"physicsRules,omitempty"`
	SourceReference  string          `json:"sourceReference,omitempty"`
	Triangulation    json.RawMessage `json:"triangulation,omitempty"`
	Timestamp        int64           `json:"timestamp,omitempty"`
	IsExplicitIntent bool            `json:"isExplicitIntent,omitempty"`
}

// PreventOverlap reports whether the collision sweep is requested.
func (s *Strategy) PreventOverlap() bool {
	return s != nil && s.PhysicsRules != nil && s.PhysicsRules.PreventOverlap
}

// Feedback holds reviewer corrections. Its overrides always outrank the
// strategy's for the same layer.
type Feedback struct {
	Overrides   []Override `json:"overrides,omitempty"`
	IsCommitted bool       `json:"isCommitted,omitempty"`
}

// Source is the resolved source object a host hands to the engine.
type Source struct {
	Container  Container `json:"container"`
	Layers     []Layer   `json:"layers"`
	AIStrategy *Strategy `json:"aiStrategy,omitempty"`
	PreviewURL string    `json:"previewUrl,omitempty"`
}

// =============================================================================
// Output
// =============================================================================

// Transform is the resolved transform of one layer in target space.
type Transform struct {
	ScaleX   float64 `json:"scaleX"`
	ScaleY   float64 `json:"scaleY"`
	OffsetX  float64 `json:"offsetX"`
	OffsetY  float64 `json:"offsetY"`
	Rotation float64 `json:"rotation"`
}

// TransformedLayer is a layer mapped into target space. Its children
// mirror the input tree and are owned exclusively by this node.
type TransformedLayer struct {
	ID               string             `json:"id"`
	Type             string             `json:"type,omitempty"`
	Name             string             `json:"name,omitempty"`
	Coords           geom.Rect          `json:"coords"`
	Transform        Transform          `json:"transform"`
	Children         []TransformedLayer `json:"children,omitempty"`
	LayoutRole       string             `json:"layoutRole,omitempty"`
	LinkedAnchorID   string             `json:"linkedAnchorId,omitempty"`
	CitedRule        string             `json:"citedRule,omitempty"`
	GenerativePrompt string             `json:"generativePrompt,omitempty"`
}

// Size is a width and height pair.
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Metrics describes the source and target frame sizes.
type Metrics struct {
	Source Size `json:"source"`
	Target Size `json:"target"`
}

// StatusSuccess is the only status the engine emits; failures surface as
// errors instead of payloads.
const StatusSuccess = "success"

// Payload is the engine's sole output. It is built fresh on every call
// and never mutated afterwards.
type Payload struct {
	Status             string             `json:"status"`
	SourceContainer    string             `json:"sourceContainer"`
	TargetContainer    string             `json:"targetContainer"`
	Layers             []TransformedLayer `json:"layers"`
	ScaleFactor        float64            `json:"scaleFactor"`
	Metrics            Metrics            `json:"metrics"`
	TargetBounds       geom.Rect          `json:"targetBounds"`
	IsConfirmed        bool               `json:"isConfirmed"`
	RequiresGeneration bool               `json:"requiresGeneration"`
	PreviewURL         string             `json:"previewUrl,omitempty"`
	SourceReference    string             `json:"sourceReference,omitempty"`
	GenerationID       string             `json:"generationId"`
	Triangulation      json.RawMessage    `json:"triangulation,omitempty"`
}

// LayerCount returns the number of layers in the payload tree.
func (p *Payload) LayerCount() int {
	return CountTransformed(p.Layers)
}

// CountLayers returns the number of nodes in a layer forest.
func CountLayers(layers []Layer) int {
	n := 0
	for i := range layers {
		n += 1 + CountLayers(layers[i].Children)
	}
	return n
}

// CountTransformed returns the number of nodes in a transformed forest.
func CountTransformed(layers []TransformedLayer) int {
	n := 0
	for i := range layers {
		n += 1 + CountTransformed(layers[i].Children)
	}
	return n
}

// Walk visits every layer depth-first, parent before children. Returning
// false from fn skips the layer's children.
func Walk(layers []Layer, fn func(l *Layer, depth int) bool) {
	walk(layers, 0, fn)
}

func walk(layers []Layer, depth int, fn func(*Layer, int) bool) {
	for i := range layers {
		if fn(&layers[i], depth) {
			walk(layers[i].Children, depth+1, fn)
		}
	}
}
