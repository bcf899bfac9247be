package remap

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/matzehuels/refit/pkg/design"
	errs "github.com/matzehuels/refit/pkg/errors"
	"github.com/matzehuels/refit/pkg/geom"
)

// Input is everything one remap call consumes. A nil Source or Target
// means the host has not resolved that input yet.
type Input struct {
	Source   *design.Source    `json:"source,omitempty"`
	Target   *design.Container `json:"target,omitempty"`
	Feedback *design.Feedback  `json:"feedback,omitempty"`
}

func (in Input) strategy() *design.Strategy {
	if in.Source == nil {
		return nil
	}
	return in.Source.AIStrategy
}

// Ready reports whether both required inputs are present.
func (in Input) Ready() bool {
	return in.Source != nil && in.Target != nil
}

// Options tunes the flow layout pass.
type Options struct {
	// FlowMargin is the fraction of the target width (or height) reserved
	// on each side before slots are assigned.
	FlowMargin float64 `json:"flow_margin" toml:"flow_margin"`

	// CollisionPadding is the minimum gap kept by the collision sweep.
	CollisionPadding float64 `json:"collision_padding" toml:"collision_padding"`
}

// DefaultOptions returns the standard engine options.
func DefaultOptions() Options {
	return Options{
		FlowMargin:       DefaultFlowMargin,
		CollisionPadding: DefaultCollisionPadding,
	}
}

// Validate checks that the options describe a usable layout.
func (o Options) Validate() error {
	if math.IsNaN(o.FlowMargin) || o.FlowMargin < 0 || o.FlowMargin >= 0.5 {
		return errs.New(errs.ErrCodeInvalidConfig, "flow margin must be in [0, 0.5), got %g", o.FlowMargin)
	}
	if math.IsNaN(o.CollisionPadding) || math.IsInf(o.CollisionPadding, 0) || o.CollisionPadding < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "collision padding must be a non-negative number, got %g", o.CollisionPadding)
	}
	return nil
}

// Diagnostic is a non-fatal observation made while remapping.
type Diagnostic struct {
	Code    errs.Code `json:"code"`
	LayerID string    `json:"layerId,omitempty"`
	Message string    `json:"message"`
}

// Result is the outcome of a successful remap.
type Result struct {
	Payload     design.Payload `json:"payload"`
	Diagnostics []Diagnostic   `json:"diagnostics,omitempty"`
}

// Remap runs one full pass: override resolution, geometric mapping, the
// flow layout pass, and payload assembly.
//
// When the source or target is missing Remap returns (nil, nil): the host
// is not connected yet and nothing is emitted. Degenerate frames fail with
// DEGENERATE_CONTAINER; malformed layers fail with INVALID_LAYER. Unknown
// override targets and unrecognized strategy values are reported as
// diagnostics and never abort the pass.
//
// Remap is a pure function of its arguments. It does not modify in and is
// safe to call concurrently with disjoint or shared read-only inputs.
func Remap(in Input, opts Options) (*Result, error) {
	if !in.Ready() {
		return nil, nil
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var diags []Diagnostic
	in, diags = sanitize(in, diags)

	if err := validate(in); err != nil {
		return nil, err
	}
	diags = checkTree(in, diags)

	st := in.strategy()
	layers, scale, err := MapLayers(in.Source.Layers, in.Source.Container, *in.Target, st, in.Feedback)
	if err != nil {
		return nil, err
	}
	SolveFlow(layers, in.Target.Bounds, st, in.Feedback, opts)
	if err := checkOutput(layers, scale); err != nil {
		return nil, err
	}

	return &Result{
		Payload:     Assemble(in, layers, scale),
		Diagnostics: diags,
	}, nil
}

// sanitize returns a copy of in whose strategy has unrecognized values
// replaced by their neutral defaults.
func sanitize(in Input, diags []Diagnostic) (Input, []Diagnostic) {
	st := in.strategy()
	if st == nil {
		return in, diags
	}
	clean := *st

	if !clean.Method.Known() {
		diags = append(diags, Diagnostic{
			Code:    errs.ErrCodeMalformedStrategy,
			Message: fmt.Sprintf("unknown method %q treated as %s", clean.Method, design.MethodGeometric),
		})
		clean.Method = design.MethodGeometric
	}
	if !clean.LayoutMode.Known() {
		diags = append(diags, Diagnostic{
			Code:    errs.ErrCodeMalformedStrategy,
			Message: fmt.Sprintf("unknown layout mode %q treated as %s", clean.LayoutMode, design.LayoutNone),
		})
		clean.LayoutMode = design.LayoutNone
	}
	if len(clean.Triangulation) > 0 && !json.Valid(clean.Triangulation) {
		diags = append(diags, Diagnostic{
			Code:    errs.ErrCodeMalformedStrategy,
			Message: "triangulation is not valid JSON and was dropped",
		})
		clean.Triangulation = nil
	}
	if clean.SuggestedScale != nil && !validScale(clean.SuggestedScale) {
		diags = append(diags, Diagnostic{
			Code:    errs.ErrCodeMalformedStrategy,
			Message: fmt.Sprintf("suggested scale %g ignored", *clean.SuggestedScale),
		})
		clean.SuggestedScale = nil
	}

	src := *in.Source
	src.AIStrategy = &clean
	in.Source = &src
	return in, diags
}

// validate rejects inputs that would produce non-finite or inverted
// geometry.
func validate(in Input) error {
	if err := errs.ValidateContainerName(in.Source.Container.Name); err != nil {
		return err
	}
	if err := errs.ValidateContainerName(in.Target.Name); err != nil {
		return err
	}
	if in.Source.Container.Bounds.Degenerate() {
		b := in.Source.Container.Bounds
		return errs.New(errs.ErrCodeDegenerateContainer,
			"source container %q has degenerate bounds %gx%g", in.Source.Container.Name, b.W, b.H)
	}
	if in.Target.Bounds.Degenerate() {
		b := in.Target.Bounds
		return errs.New(errs.ErrCodeDegenerateContainer,
			"target container %q has degenerate bounds %gx%g", in.Target.Name, b.W, b.H)
	}

	var err error
	design.Walk(in.Source.Layers, func(l *design.Layer, _ int) bool {
		if err != nil {
			return false
		}
		if e := errs.ValidateLayerID(l.ID); e != nil {
			err = e
			return false
		}
		if !l.Coords.Finite() {
			err = errs.New(errs.ErrCodeInvalidLayer, "layer %q has non-finite coordinates", l.ID)
			return false
		}
		if l.Coords.W < 0 || l.Coords.H < 0 {
			err = errs.New(errs.ErrCodeInvalidLayer, "layer %q has negative size %gx%g", l.ID, l.Coords.W, l.Coords.H)
			return false
		}
		return true
	})
	if err != nil {
		return err
	}

	if err := validateOverrides("feedback", feedbackOverrides(in.Feedback)); err != nil {
		return err
	}
	if st := in.strategy(); st != nil {
		return validateOverrides("strategy", st.Overrides)
	}
	return nil
}

func feedbackOverrides(fb *design.Feedback) []design.Override {
	if fb == nil {
		return nil
	}
	return fb.Overrides
}

func validateOverrides(origin string, overrides []design.Override) error {
	for _, o := range overrides {
		for _, v := range []*float64{o.XOffset, o.YOffset, o.IndividualScale, o.Rotation} {
			if v != nil && !finite(v) {
				return errs.New(errs.ErrCodeInvalidInput, "%s override for %q has a non-finite value", origin, o.LayerID)
			}
		}
		if o.IndividualScale != nil && *o.IndividualScale < 0 {
			return errs.New(errs.ErrCodeInvalidInput, "%s override for %q has negative scale %g", origin, o.LayerID, *o.IndividualScale)
		}
	}
	return nil
}

// checkTree reports duplicate layer ids and overrides that reference
// layers absent from the tree.
func checkTree(in Input, diags []Diagnostic) []Diagnostic {
	seen := make(map[string]bool, design.CountLayers(in.Source.Layers))
	design.Walk(in.Source.Layers, func(l *design.Layer, _ int) bool {
		if seen[l.ID] {
			diags = append(diags, Diagnostic{
				Code:    errs.ErrCodeDuplicateLayer,
				LayerID: l.ID,
				Message: fmt.Sprintf("layer id %q appears more than once", l.ID),
			})
		}
		seen[l.ID] = true
		return true
	})

	unknown := func(origin string, overrides []design.Override) {
		for _, o := range overrides {
			if !seen[o.LayerID] {
				diags = append(diags, Diagnostic{
					Code:    errs.ErrCodeUnknownOverrideTarget,
					LayerID: o.LayerID,
					Message: fmt.Sprintf("%s override targets unknown layer %q", origin, o.LayerID),
				})
			}
		}
	}
	unknown("feedback", feedbackOverrides(in.Feedback))
	if st := in.strategy(); st != nil {
		unknown("strategy", st.Overrides)
		if st.ReplaceLayerID != "" && !seen[st.ReplaceLayerID] {
			diags = append(diags, Diagnostic{
				Code:    errs.ErrCodeUnknownOverrideTarget,
				LayerID: st.ReplaceLayerID,
				Message: fmt.Sprintf("replacement targets unknown layer %q", st.ReplaceLayerID),
			})
		}
	}
	return diags
}

// checkOutput rejects passes whose finite inputs overflowed during
// mapping, so no NaN or Inf ever reaches a payload.
func checkOutput(layers []design.TransformedLayer, scale float64) error {
	if !finite(&scale) {
		return errs.New(errs.ErrCodeDegenerateContainer, "scale factor %g is not finite", scale)
	}
	for i := range layers {
		l := &layers[i]
		t := l.Transform
		if !l.Coords.Finite() || !geom.Finite(t.ScaleX, t.ScaleY, t.OffsetX, t.OffsetY, t.Rotation) {
			return errs.New(errs.ErrCodeInvalidInput, "layer %q overflows the target frame", l.ID)
		}
		if err := checkOutput(l.Children, scale); err != nil {
			return err
		}
	}
	return nil
}
