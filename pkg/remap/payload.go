package remap

import (
	"encoding/json"
	"strconv"

	"github.com/google/uuid"

	"github.com/matzehuels/refit/pkg/design"
)

// generationSpace namespaces content-derived generation ids.
var generationSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/matzehuels/refit/generation"))

// GenerationID returns the version stamp for a payload. The strategy's
// own timestamp is preferred. Without one, the id is a name-based UUID
// derived from the inputs, so recomputing unchanged input yields the
// same stamp.
func GenerationID(in Input) string {
	if st := in.strategy(); st != nil && st.Timestamp != 0 {
		return strconv.FormatInt(st.Timestamp, 10)
	}
	data, err := json.Marshal(in)
	if err != nil {
		// Inputs are validated before assembly; this only guards callers
		// that bypass Remap.
		return uuid.Nil.String()
	}
	return uuid.NewSHA1(generationSpace, data).String()
}

// Assemble packages a solved layer forest into a payload. It does not
// modify its arguments other than taking ownership of layers.
func Assemble(in Input, layers []design.TransformedLayer, scale float64) design.Payload {
	src, dst := in.Source, in.Target
	st := in.strategy()

	p := design.Payload{
		Status:          design.StatusSuccess,
		SourceContainer: src.Container.Name,
		TargetContainer: dst.Name,
		Layers:          layers,
		ScaleFactor:     scale,
		Metrics: design.Metrics{
			Source: design.Size{W: src.Container.Bounds.W, H: src.Container.Bounds.H},
			Target: design.Size{W: dst.Bounds.W, H: dst.Bounds.H},
		},
		TargetBounds: dst.Bounds,
		PreviewURL:   src.PreviewURL,
		GenerationID: GenerationID(in),
	}
	if p.Layers == nil {
		p.Layers = []design.TransformedLayer{}
	}

	switch {
	case in.Feedback != nil:
		p.IsConfirmed = in.Feedback.IsCommitted
	case st != nil:
		p.IsConfirmed = st.IsExplicitIntent
	}

	if st != nil {
		p.RequiresGeneration = st.Method.Normalize().Generative()
		p.SourceReference = st.SourceReference
		if len(st.Triangulation) > 0 && json.Valid(st.Triangulation) {
			p.Triangulation = append(json.RawMessage(nil), st.Triangulation...)
		}
	}
	return p
}
