// Package ggedit is the editing engine behind a layered image editor.
//
// # Overview
//
// ggedit turns raw pointer input and per-layer state into a deterministic
// scene that can be shown as a vector document or flattened into a PNG.
// Bitmaps are imported as independent layers, moved, rotated and filtered,
// and freehand strokes are drawn on top of them.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/ggedit"
//	    "github.com/gogpu/ggedit/imageio"
//	    _ "github.com/gogpu/ggedit/rasterizer/software"
//	)
//
//	s := ggedit.NewSession()
//	s.SetSurface(ggedit.Rect{Width: 640, Height: 480}, 1)
//	_, err := s.Import(ctx, imageio.File{Name: "a.png", Type: "image/png", Data: data})
//
//	s.SetTool(ggedit.ToolBrush)
//	s.Dispatch(ggedit.PointerEvent{Kind: ggedit.PointerDown, X: 10, Y: 10, OnSurface: true})
//	s.Dispatch(ggedit.PointerEvent{Kind: ggedit.PointerMove, X: 80, Y: 40})
//	s.Dispatch(ggedit.PointerEvent{Kind: ggedit.PointerUp})
//
//	png, err := s.Export(ctx)
//
// # Coordinate System
//
// Interaction and stroke geometry live in a normalized space where (0,0) is
// the top-left corner of the canvas and (1,1) the bottom-right corner.
// Conversion to canvas pixels is a plain scale; translation and rotation are
// applied separately per layer by [ComposeTransform].
//
// # Architecture
//
// The package is organized leaf-first:
//   - Coordinate model: Point, Rect, Size
//   - Pointer tracker: PointerTracker
//   - Stroke accumulator: Accumulate, StrokeState
//   - Transform composer: ComposeTransform, Affine, Matrix
//   - Filter pipeline: Filters, BuildFilter, FilterDescriptor
//   - Layer compositor: RenderScene, Scene, Export
//
// Rasterizers are plugged in through a registry, following the database/sql
// driver pattern. The built-in CPU rasterizer lives in rasterizer/software.
package ggedit
