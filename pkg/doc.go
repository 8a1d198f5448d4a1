// Package pkg provides the core libraries for mindcanvas mind map layout.
//
// # Overview
//
// Mindcanvas places the ideas of a mind map radially around a root on an
// infinite canvas, fits the result to a screen, routes the connections
// between ideas and renders frames as SVG, DOT, PNG or JSON. The pkg
// directory is organized into four areas:
//
//  1. Geometry and structure ([geom], [tree], [errors])
//  2. Canvas engines ([layout], [viewport], [route], [virtual], [focus], [rtl])
//  3. Output ([frame], [render])
//  4. Orchestration and infrastructure ([pipeline], [cache], [config], [observability])
//
// # Architecture
//
// The typical data flow:
//
//	Snapshot JSON (or tree.Generate)
//	         ↓
//	    [tree] package (index, warnings, subtree pruning)
//	         ↓
//	    [layout] package (radial positions)
//	         ↓
//	    [viewport] + [route] + [focus] + [virtual] (screen fit, paths, emphasis, culling)
//	         ↓
//	    [frame] package (everything a renderer needs)
//	         ↓
//	    [render] package → SVG/DOT/PNG/JSON
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/mindcanvas/pkg/pipeline"
//	)
//
//	t, _ := pipeline.Load(pipeline.Source{Path: "plan.json"})
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, _ := runner.Execute(ctx, t, pipeline.Options{Formats: []string{"svg"}})
//	os.WriteFile("plan.svg", result.Artifacts["svg"], 0o644)
//
// # Package Organization
//
// ## Structure
//
// [tree] - Nodes with parent and child links, the validated [tree.Index]
// built from them, snapshot files and random demo maps. Missing roots and
// cycles are errors; orphans and dangling links are warnings.
//
// [layout] - Radial placement. Children share their parent's angular wedge
// and fan out away from the root; pinned nodes keep their position.
//
// ## Canvas
//
// [viewport] - Canvas to screen transforms: fit, pan, zoom about an anchor
// and the inverse window used for culling.
//
// [route] - Connection paths between a parent and a child in straight,
// curved or organic style.
//
// [virtual] - Spatial culling of nodes outside the visible window, plus the
// bounded buffer pool reused by renderers.
//
// [focus] - Emphasis of the focused node, its ancestor path and the dimmed
// remainder.
//
// [rtl] - Right-to-left mirroring of positions, swipes and connection
// directions.
//
// ## Output
//
// [frame] - The serializable result of one layout pass.
//
// [render] - SVG drawn directly; DOT, and PNG through Graphviz.
//
// ## Infrastructure
//
// [pipeline] - Load → layout → render used by every command. The [pipeline.Runner]
// caches frames and artifacts and collapses duplicate concurrent requests.
//
// [cache] - File, redis and null backends behind one interface.
//
// [config] - TOML settings with validated defaults.
//
// [observability] - Hooks for pipeline stages and cache traffic, with an
// OpenTelemetry implementation.
//
// # Testing
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/layout/...     # Specific package
//	go test -run Example ./...   # Examples only
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/mindcanvas/pkg/geom
// [tree]: https://pkg.go.dev/github.com/matzehuels/mindcanvas/pkg/tree
// [tree.Index]: https://pkg.go.dev/github.com/matzehuels/mindcanvas/pkg/tree#Index
// [errors]: https://pkg.go.dev/github.com/matzehuels/mindcanvas/pkg/errors
// [layout]: https://pkg.go.dev/github.com/matzehuels/mindcanvas/pkg/layout
// [viewport]: https://pkg.go.dev/github.com/matzehuels/mindcanvas/pkg/viewport
// [route]: https://pkg.go.dev/github.com/matzehuels/mindcanvas/pkg/route
// [virtual]: https://pkg.go.dev/github.com/matzehuels/mindcanvas/pkg/virtual
// [focus]: https://pkg.go.dev/github.com/matzehuels/mindcanvas/pkg/focus
// [rtl]: https://pkg.go.dev/github.com/matzehuels/mindcanvas/pkg/rtl
// [frame]: https://pkg.go.dev/github.com/matzehuels/mindcanvas/pkg/frame
// [render]: https://pkg.go.dev/github.com/matzehuels/mindcanvas/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/mindcanvas/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/mindcanvas/pkg/pipeline#Runner
// [cache]: https://pkg.go.dev/github.com/matzehuels/mindcanvas/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/mindcanvas/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/mindcanvas/pkg/observability
package pkg
