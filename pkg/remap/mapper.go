package remap

import (
	"math"

	"github.com/matzehuels/refit/pkg/design"
	errs "github.com/matzehuels/refit/pkg/errors"
	"github.com/matzehuels/refit/pkg/geom"
)

// BaseScale computes the uniform scale used for a whole mapping pass.
//
// The fit is "contain": min(dst.W/src.W, dst.H/src.H), so the entire
// source frame fits inside the target without clipping. A positive,
// finite strategy suggestedScale multiplies that fit; any other value is
// ignored.
func BaseScale(src, dst geom.Rect, st *design.Strategy) (float64, error) {
	if src.Degenerate() {
		return 0, errs.New(errs.ErrCodeDegenerateContainer,
			"source bounds %gx%g cannot be scaled", src.W, src.H)
	}
	if dst.Degenerate() {
		return 0, errs.New(errs.ErrCodeDegenerateContainer,
			"target bounds %gx%g cannot be scaled", dst.W, dst.H)
	}

	scale := math.Min(dst.W/src.W, dst.H/src.H)
	if st != nil && validScale(st.SuggestedScale) {
		scale *= *st.SuggestedScale
	}
	return scale, nil
}

func validScale(s *float64) bool {
	return s != nil && *s > 0 && !math.IsInf(*s, 0) && !math.IsNaN(*s)
}

// mapper carries the invariants of one mapping pass. Every layer in the
// tree is mapped with the same base scale and centering offset.
type mapper struct {
	src, dst         geom.Rect
	scale            float64
	offsetX, offsetY float64
	strategy         *design.Strategy
	feedback         *design.Feedback
	replaceID        string
	prompt           string
}

func newMapper(src, dst geom.Rect, st *design.Strategy, fb *design.Feedback) (*mapper, error) {
	scale, err := BaseScale(src, dst, st)
	if err != nil {
		return nil, err
	}
	m := &mapper{
		src:      src,
		dst:      dst,
		scale:    scale,
		offsetX:  (dst.W - src.W*scale) / 2,
		offsetY:  (dst.H - src.H*scale) / 2,
		strategy: st,
		feedback: fb,
	}
	if st != nil && st.Method.Normalize().Generative() {
		m.replaceID = st.ReplaceLayerID
		m.prompt = st.GenerativePrompt
	}
	return m, nil
}

// MapLayers maps a layer forest from the source container's space into
// the target container's space. It returns the transformed forest and
// the base scale applied to it.
//
// Layers are mapped depth-first, parent before children. Children use
// the same base scale and frames as their parent; they are not refitted
// to the parent's box.
func MapLayers(layers []design.Layer, src, dst design.Container, st *design.Strategy, fb *design.Feedback) ([]design.TransformedLayer, float64, error) {
	m, err := newMapper(src.Bounds, dst.Bounds, st, fb)
	if err != nil {
		return nil, 0, err
	}
	return m.mapAll(layers), m.scale, nil
}

func (m *mapper) mapAll(layers []design.Layer) []design.TransformedLayer {
	if len(layers) == 0 {
		return nil
	}
	out := make([]design.TransformedLayer, len(layers))
	for i := range layers {
		m.mapLayer(&layers[i], &out[i])
	}
	return out
}

func (m *mapper) mapLayer(l *design.Layer, out *design.TransformedLayer) {
	relX := l.Coords.X - m.src.X
	relY := l.Coords.Y - m.src.Y

	r := geom.Rect{
		X: relX*m.scale + m.offsetX + m.dst.X,
		Y: relY*m.scale + m.offsetY + m.dst.Y,
		W: l.Coords.W * m.scale,
		H: l.Coords.H * m.scale,
	}

	*out = design.TransformedLayer{
		ID:             l.ID,
		Type:           l.Type,
		Name:           l.Name,
		LayoutRole:     l.LayoutRole,
		LinkedAnchorID: l.LinkedAnchorID,
		CitedRule:      l.CitedRule,
	}

	individual, rotation := 1.0, 0.0
	if o := Resolve(l.ID, m.feedback, m.strategy); o != nil {
		var dx, dy float64
		if finite(o.XOffset) {
			dx = *o.XOffset
		}
		if finite(o.YOffset) {
			dy = *o.YOffset
		}
		r = r.Translate(dx, dy)
		if finite(o.IndividualScale) && *o.IndividualScale >= 0 {
			individual = *o.IndividualScale
			r = r.ScaleAboutCenter(individual)
		}
		if finite(o.Rotation) {
			rotation = *o.Rotation
		}
		if o.LayoutRole != "" {
			out.LayoutRole = o.LayoutRole
		}
		if o.LinkedAnchorID != "" {
			out.LinkedAnchorID = o.LinkedAnchorID
		}
		if o.CitedRule != "" {
			out.CitedRule = o.CitedRule
		}
	}

	out.Coords = r
	out.Transform = design.Transform{
		ScaleX:   m.scale * individual,
		ScaleY:   m.scale * individual,
		OffsetX:  r.X,
		OffsetY:  r.Y,
		Rotation: rotation,
	}

	if m.replaceID != "" && l.ID == m.replaceID {
		out.Type = design.TypeGenerative
		out.GenerativePrompt = m.prompt
	}

	out.Children = m.mapAll(l.Children)
}

func finite(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}
