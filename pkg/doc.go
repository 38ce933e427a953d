// Package pkg holds the public libraries of masonry, a first-fit grid layout
// engine.
//
// # Overview
//
// Masonry places the children of a container on a grid of fixed-size cells.
// Each item is measured, converted to a span in cells and put at the first
// free position, scanning rows top to bottom and columns left to right. The
// container width snaps to whole columns and its height grows to the last
// occupied row.
//
// The packages are organized in layers:
//
//  1. [grid] - The occupancy grid and first-fit placement
//  2. [host] - The element, document and viewport abstraction a coordinator
//     measures and styles, with an in-memory implementation in host/memory
//  3. [masonry] - The coordinator: configuration, passes, resize handling
//  4. [scene] - Offline scene files (TOML, YAML, JSON) built into memory hosts
//  5. [render] - JSON, DOT, SVG, PNG, PDF and terminal output of a layout
//  6. [pipeline] - Cached scene → layout → render orchestration
//  7. [cache] - File, Redis and null caches with content-addressed keys
//
// Cross-cutting: [errors] for coded errors, [observability] for hooks and
// [buildinfo] for version information.
//
// # Data Flow
//
//	scene file
//	     ↓
//	[scene] package (decode, validate, build host)
//	     ↓
//	[masonry] package (measure, pack with [grid], apply styles)
//	     ↓
//	[render] package (SVG/PNG/PDF/DOT/JSON/text)
//
// # Quick Start
//
//	s, err := scene.Load("gallery.toml")
//	if err != nil {
//	    return err
//	}
//	h := s.Build()
//	m, err := masonry.New(h.Document, s.Config(), masonry.WithViewport(h.Viewport))
//	if err != nil {
//	    return err
//	}
//	defer m.Close()
//	svg, err := render.Render(render.FormatSVG, m.Layout())
//
// The command-line interface in cmd/masonry wraps these steps with caching,
// file watching, a terminal preview and an HTTP server.
package pkg
