// Package io reads remap requests and writes remap results.
//
// # Request Format
//
// A request document pairs one resolved source with one target frame and
// optional reviewer feedback:
//
//	{
//	  "source": {
//	    "container": {"name": "Feed Post", "bounds": {"x": 0, "y": 0, "w": 1080, "h": 1080}},
//	    "layers": [
//	      {"id": "title", "coords": {"x": 90, "y": 100, "w": 900, "h": 120}}
//	    ],
//	    "aiStrategy": {"method": "GEOMETRIC", "layoutMode": "DISTRIBUTE_VERTICAL"}
//	  },
//	  "target": {"name": "Story", "bounds": {"x": 0, "y": 0, "w": 1080, "h": 1920}},
//	  "feedback": {"overrides": [{"layerId": "title", "yOffset": -20}]}
//	}
//
// The same document may be written in YAML. YAML is converted to a plain
// tree first and then decoded with the JSON field names, so both formats
// accept exactly the same keys and an explicit zero survives in either.
//
// # Result Format
//
// [WriteResult] emits the [remap.Result] as indented JSON: the payload
// under "payload" and any diagnostics under "diagnostics".
//
// [remap.Result]: github.com/matzehuels/refit/pkg/remap.Result
package io
