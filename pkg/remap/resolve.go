package remap

import "github.com/matzehuels/refit/pkg/design"

// Resolve returns the highest-priority override for layerID: a feedback
// override beats a strategy override, which beats none. Within one list
// the first matching entry wins.
//
// The returned override is a copy; callers may modify it freely. Resolve
// keeps no state and must be called fresh for every layer on every pass.
func Resolve(layerID string, fb *design.Feedback, st *design.Strategy) *design.Override {
	if fb != nil {
		if o := find(fb.Overrides, layerID); o != nil {
			return o
		}
	}
	if st != nil {
		if o := find(st.Overrides, layerID); o != nil {
			return o
		}
	}
	return nil
}

func find(overrides []design.Override, layerID string) *design.Override {
	for i := range overrides {
		if overrides[i].LayerID == layerID {
			o := overrides[i]
			return &o
		}
	}
	return nil
}

// Locked reports whether layerID has any resolved override. Locked layers
// are exempt from the flow layout pass.
func Locked(layerID string, fb *design.Feedback, st *design.Strategy) bool {
	return Resolve(layerID, fb, st) != nil
}
