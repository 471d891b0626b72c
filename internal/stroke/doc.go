// Package stroke expands freehand polylines into fillable outlines.
//
// A stroke of width w over points p0..pn is drawn with round caps and round
// joins, the way an SVG path with stroke-linecap="round" and
// stroke-linejoin="round" renders. The outline is returned as a set of
// simple polygons whose union is the stroked area:
//   - one rectangle of width w per segment
//   - one disc of diameter w per vertex
//
// Every polygon has the same winding, so a nonzero-coverage rasterizer
// such as golang.org/x/image/vector fills their union without gaps.
//
// # Usage
//
//	polys := stroke.Outline(points, 10, stroke.DefaultTolerance)
//	for _, poly := range polys {
//	    z.MoveTo(float32(poly[0].X), float32(poly[0].Y))
//	    for _, p := range poly[1:] {
//	        z.LineTo(float32(p.X), float32(p.Y))
//	    }
//	    z.ClosePath()
//	}
package stroke
