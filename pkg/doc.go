// Package pkg provides the core libraries for refit design remapping.
//
// # Overview
//
// Refit takes a layered design authored in one frame (a square social post,
// say) and maps every layer onto a frame of a different size and aspect
// ratio (a vertical story, a wide banner). Suggested strategies and reviewer
// corrections steer the mapping; the output is a payload a renderer can
// draw directly. The pkg directory is organized into three areas:
//
//  1. Domain: [geom], [design], and the [remap] engine
//  2. Infrastructure: [cache], [config], [io], [errors], [observability], [buildinfo]
//  3. Orchestration: [pipeline], shared by the CLI and the HTTP server
//
// # Architecture
//
// The data flow of one remap pass:
//
//	request document (JSON or YAML)
//	         ↓
//	    [io] package (decode into remap.Input)
//	         ↓
//	    [pipeline] package (cache lookup, logging, hooks)
//	         ↓
//	    [remap] package (resolve overrides, map geometry, flow layout, assemble)
//	         ↓
//	    design.Payload
//
// # Quick Start
//
//	in, err := io.ReadRequest("request.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := remap.Remap(in, remap.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if res == nil {
//	    // source or target not resolved yet
//	}
//	fmt.Println(res.Payload.ScaleFactor)
//
// The engine is a pure function: it never mutates its input and keeps no
// state between calls, so one Input can be remapped concurrently.
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/refit/pkg/geom
// [design]: https://pkg.go.dev/github.com/matzehuels/refit/pkg/design
// [remap]: https://pkg.go.dev/github.com/matzehuels/refit/pkg/remap
// [cache]: https://pkg.go.dev/github.com/matzehuels/refit/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/refit/pkg/config
// [io]: https://pkg.go.dev/github.com/matzehuels/refit/pkg/io
// [errors]: https://pkg.go.dev/github.com/matzehuels/refit/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/refit/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/refit/pkg/buildinfo
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/refit/pkg/pipeline
package pkg
