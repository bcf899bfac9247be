package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/refit/pkg/errors"
	"github.com/matzehuels/refit/pkg/remap"
)

// Format is a request document encoding.
type Format string

// Supported request formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension. Anything that is
// not .yaml or .yml is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ReadRequest reads and decodes the request document at path. A path of
// "-" reads standard input as JSON.
func ReadRequest(path string) (remap.Input, error) {
	if path == "-" {
		return DecodeRequest(os.Stdin, FormatJSON)
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return remap.Input{}, errs.Wrap(errs.ErrCodeFileNotFound, err, "request %s", path)
	}
	if err != nil {
		return remap.Input{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	in, err := DecodeRequest(f, FormatFromPath(path))
	if err != nil {
		return remap.Input{}, fmt.Errorf("%s: %w", path, err)
	}
	return in, nil
}

// DecodeRequest decodes one request document from r. Unknown fields are
// rejected. DecodeRequest does not close r.
func DecodeRequest(r io.Reader, format Format) (remap.Input, error) {
	var data []byte
	switch format {
	case FormatJSON:
		raw, err := io.ReadAll(r)
		if err != nil {
			return remap.Input{}, fmt.Errorf("read request: %w", err)
		}
		data = raw
	case FormatYAML:
		raw, err := yamlToJSON(r)
		if err != nil {
			return remap.Input{}, err
		}
		data = raw
	default:
		return remap.Input{}, errs.New(errs.ErrCodeInvalidFormat, "unsupported request format %q", format)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var in remap.Input
	if err := dec.Decode(&in); err != nil {
		return remap.Input{}, errs.Wrap(errs.ErrCodeInvalidRequest, err, "decode request")
	}
	if dec.More() {
		return remap.Input{}, errs.New(errs.ErrCodeInvalidRequest, "decode request: trailing data after document")
	}
	return in, nil
}

// yamlToJSON re-encodes a YAML document as JSON.
func yamlToJSON(r io.Reader) ([]byte, error) {
	var tree any
	if err := yaml.NewDecoder(r).Decode(&tree); err != nil {
		if err == io.EOF {
			return nil, errs.New(errs.ErrCodeInvalidRequest, "decode request: empty document")
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidRequest, err, "decode request")
	}
	data, err := json.Marshal(tree)
	if err != nil {
		// Non-string mapping keys have no JSON form.
		return nil, errs.Wrap(errs.ErrCodeInvalidRequest, err, "decode request")
	}
	return data, nil
}

// WriteResult encodes res as indented JSON. A nil result, the outcome of
// an idle request, is written as null.
func WriteResult(w io.Writer, res *remap.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}

// ExportResult writes res to the file at path.
func ExportResult(res *remap.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteResult(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
