package io

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/refit/pkg/design"
	errs "github.com/matzehuels/refit/pkg/errors"
	"github.com/matzehuels/refit/pkg/geom"
	"github.com/matzehuels/refit/pkg/remap"
)

const jsonRequest = `{
  "source": {
    "container": {"name": "Feed Post", "bounds": {"x": 0, "y": 0, "w": 100, "h": 100}},
    "layers": [
      {"id": "logo", "coords": {"x": 10, "y": 10, "w": 50, "h": 50}}
    ],
    "aiStrategy": {"method": "HYBRID", "replaceLayerId": "logo", "triangulation": {"score": 1}}
  },
  "target": {"name": "Banner", "bounds": {"x": 0, "y": 0, "w": 200, "h": 200}},
  "feedback": {"overrides": [{"layerId": "logo", "xOffset": 0}], "isCommitted": true}
}`

const yamlRequest = `
source:
  container:
    name: Feed Post
    bounds: {x: 0, y: 0, w: 100, h: 100}
  layers:
    - id: logo
      coords: {x: 10, y: 10, w: 50, h: 50}
  aiStrategy:
    method: HYBRID
    replaceLayerId: logo
    triangulation:
      score: 1
target:
  name: Banner
  bounds: {x: 0, y: 0, w: 200, h: 200}
feedback:
  overrides:
    - layerId: logo
      xOffset: 0
  isCommitted: true
`

func wantRequest() remap.Input {
	zero := 0.0
	return remap.Input{
		Source: &design.Source{
			Container: design.Container{Name: "Feed Post", Bounds: geom.Rect{W: 100, H: 100}},
			Layers: []design.Layer{
				{ID: "logo", Coords: geom.Rect{X: 10, Y: 10, W: 50, H: 50}},
			},
			AIStrategy: &design.Strategy{
				Method:         design.MethodHybrid,
				ReplaceLayerID: "logo",
				Triangulation:  json.RawMessage(`{"score":1}`),
			},
		},
		Target: &design.Container{Name: "Banner", Bounds: geom.Rect{W: 200, H: 200}},
		Feedback: &design.Feedback{
			Overrides:   []design.Override{{LayerID: "logo", XOffset: &zero}},
			IsCommitted: true,
		},
	}
}

// compactTriangulation normalizes raw JSON whitespace for comparison.
func compactTriangulation(t *testing.T, in *remap.Input) {
	t.Helper()
	st := in.Source.AIStrategy
	if st == nil || len(st.Triangulation) == 0 {
		return
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, st.Triangulation); err != nil {
		t.Fatal(err)
	}
	st.Triangulation = buf.Bytes()
}

func TestDecodeRequest(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		format Format
	}{
		{"json", jsonRequest, FormatJSON},
		{"yaml", yamlRequest, FormatYAML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeRequest(strings.NewReader(tt.body), tt.format)
			if err != nil {
				t.Fatalf("DecodeRequest() error: %v", err)
			}
			compactTriangulation(t, &got)
			if diff := cmp.Diff(wantRequest(), got); diff != "" {
				t.Errorf("DecodeRequest() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeRequestErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		format Format
		code   errs.Code
	}{
		{"malformed json", `{"source":`, FormatJSON, errs.ErrCodeInvalidRequest},
		{"unknown field", `{"sauce": {}}`, FormatJSON, errs.ErrCodeInvalidRequest},
		{"trailing data", `{} {}`, FormatJSON, errs.ErrCodeInvalidRequest},
		{"malformed yaml", "source: [", FormatYAML, errs.ErrCodeInvalidRequest},
		{"empty yaml", "", FormatYAML, errs.ErrCodeInvalidRequest},
		{"non-string yaml keys", "1: 2\n", FormatYAML, errs.ErrCodeInvalidRequest},
		{"unknown format", `{}`, Format("xml"), errs.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRequest(strings.NewReader(tt.body), tt.format)
			if !errs.Is(err, tt.code) {
				t.Errorf("DecodeRequest() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestDecodeRequestIdle(t *testing.T) {
	in, err := DecodeRequest(strings.NewReader(`{"target": {"name": "Story", "bounds": {"w": 1, "h": 1}}}`), FormatJSON)
	if err != nil {
		t.Fatalf("DecodeRequest() error: %v", err)
	}
	if in.Ready() {
		t.Error("request without source should not be ready")
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"req.json", FormatJSON},
		{"req.yaml", FormatYAML},
		{"REQ.YML", FormatYAML},
		{"req", FormatJSON},
	}
	for _, tt := range tests {
		if got := FormatFromPath(tt.path); got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestReadRequest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "req.yml")
	if err := os.WriteFile(path, []byte(yamlRequest), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadRequest(path)
	if err != nil {
		t.Fatalf("ReadRequest() error: %v", err)
	}
	if got.Target == nil || got.Target.Name != "Banner" {
		t.Errorf("ReadRequest() target = %+v", got.Target)
	}

	_, err = ReadRequest(filepath.Join(dir, "missing.json"))
	if !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("ReadRequest(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestWriteResult(t *testing.T) {
	in, err := DecodeRequest(strings.NewReader(jsonRequest), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	res, err := remap.Remap(in, remap.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteResult(&buf, res); err != nil {
		t.Fatalf("WriteResult() error: %v", err)
	}

	var back remap.Result
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if back.Payload.TargetContainer != "Banner" || back.Payload.ScaleFactor != 2 {
		t.Errorf("unexpected payload: %+v", back.Payload)
	}
}

func TestWriteResultIdle(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteResult(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(buf.String()); got != "null" {
		t.Errorf("WriteResult(nil) = %q, want null", got)
	}
}

func TestExportResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := ExportResult(&remap.Result{Payload: design.Payload{Status: design.StatusSuccess}}, path); err != nil {
		t.Fatalf("ExportResult() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"status": "success"`) {
		t.Errorf("exported file missing status: %s", data)
	}
}

func TestSampleRequests(t *testing.T) {
	tests := []struct {
		file       string
		target     string
		layers     int
		generative bool
	}{
		{"story.json", "Story", 5, true},
		{"banner.yaml", "Leaderboard", 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			in, err := ReadRequest(filepath.Join("..", "..", "examples", "requests", tt.file))
			if err != nil {
				t.Fatalf("ReadRequest() error: %v", err)
			}
			res, err := remap.Remap(in, remap.DefaultOptions())
			if err != nil {
				t.Fatalf("Remap() error: %v", err)
			}
			if res == nil {
				t.Fatal("sample request should be ready")
			}
			p := res.Payload
			if p.TargetContainer != tt.target {
				t.Errorf("TargetContainer = %q, want %q", p.TargetContainer, tt.target)
			}
			if got := p.LayerCount(); got != tt.layers {
				t.Errorf("LayerCount() = %d, want %d", got, tt.layers)
			}
			if p.RequiresGeneration != tt.generative {
				t.Errorf("RequiresGeneration = %v, want %v", p.RequiresGeneration, tt.generative)
			}
			if len(res.Diagnostics) != 0 {
				t.Errorf("unexpected diagnostics: %+v", res.Diagnostics)
			}
		})
	}
}
