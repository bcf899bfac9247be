package remap

import (
	"sort"

	"github.com/matzehuels/refit/pkg/design"
	"github.com/matzehuels/refit/pkg/geom"
)

const (
	// DefaultFlowMargin is the fraction of the target extent left empty on
	// each side when distributing flow layers.
	DefaultFlowMargin = 0.05

	// DefaultCollisionPadding is the minimum gap the collision sweep keeps
	// between neighbouring flow layers.
	DefaultCollisionPadding = 10.0
)

// FlowCandidates returns the indices of the depth-0 layers eligible for
// the flow pass, in encounter order. A layer is eligible when it has no
// resolved override and its layout role is unset or "flow".
func FlowCandidates(layers []design.TransformedLayer, st *design.Strategy, fb *design.Feedback) []int {
	var idx []int
	for i := range layers {
		if Locked(layers[i].ID, fb, st) {
			continue
		}
		if role := layers[i].LayoutRole; role != "" && role != design.RoleFlow {
			continue
		}
		idx = append(idx, i)
	}
	return idx
}

// SolveFlow repositions flow candidates among the top-level layers in
// place. Nested children are never touched, and locked layers never move.
//
// The strategy's layout mode selects slot distribution along one axis
// (GRID distributes horizontally). When the strategy asks to prevent
// overlap, a left-to-right collision sweep runs after distribution.
//
// The sweep only compares flow candidates with each other. A locked layer
// between two flow layers is not treated as an obstacle, so a flow layer
// can still end up overlapping a locked one.
func SolveFlow(layers []design.TransformedLayer, target geom.Rect, st *design.Strategy, fb *design.Feedback, opts Options) {
	if st == nil {
		return
	}
	candidates := FlowCandidates(layers, st, fb)
	if len(candidates) == 0 {
		return
	}

	switch st.LayoutMode.Normalize() {
	case design.LayoutDistributeHorizontal, design.LayoutGrid:
		distributeX(layers, candidates, target, opts.FlowMargin)
	case design.LayoutDistributeVertical:
		distributeY(layers, candidates, target, opts.FlowMargin)
	}

	if st.PreventOverlap() {
		sweepX(layers, candidates, opts.CollisionPadding)
	}
}

// SlotCenter returns the center of slot i when an extent of length size
// starting at origin is split into n equal slots after reserving
// margin*size on both ends.
func SlotCenter(origin, size, margin float64, i, n int) float64 {
	m := margin * size
	step := (size - 2*m) / float64(n)
	return origin + m + step*float64(i) + step/2
}

func distributeX(layers []design.TransformedLayer, candidates []int, target geom.Rect, margin float64) {
	n := len(candidates)
	for i, idx := range candidates {
		l := &layers[idx]
		x := SlotCenter(target.X, target.W, margin, i, n) - l.Coords.W/2
		l.Coords.X = x
		l.Transform.OffsetX = x
	}
}

func distributeY(layers []design.TransformedLayer, candidates []int, target geom.Rect, margin float64) {
	n := len(candidates)
	for i, idx := range candidates {
		l := &layers[idx]
		y := SlotCenter(target.Y, target.H, margin, i, n) - l.Coords.H/2
		l.Coords.Y = y
		l.Transform.OffsetY = y
	}
}

func sweepX(layers []design.TransformedLayer, candidates []int, padding float64) {
	order := make([]int, len(candidates))
	copy(order, candidates)
	sort.SliceStable(order, func(a, b int) bool {
		return layers[order[a]].Coords.X < layers[order[b]].Coords.X
	})

	for k := 1; k < len(order); k++ {
		prev := &layers[order[k-1]]
		curr := &layers[order[k]]
		limit := prev.Coords.Right() + padding
		if curr.Coords.X < limit {
			diff := limit - curr.Coords.X
			curr.Coords.X += diff
			curr.Transform.OffsetX += diff
		}
	}
}
