package ggedit

import "slices"

// PrecisionFactor scales the minimum sampling distance of the stroke
// accumulator. It is multiplied by the device pixel ratio.
const PrecisionFactor = 3.0

// StrokeState is an immutable snapshot of a layer's strokes.
//
// Accumulate never modifies the state it is given: it returns a new
// snapshot whose PointGroups slice is freshly allocated. Point slices of
// untouched groups are shared between snapshots and must be treated as
// read-only.
type StrokeState struct {
	PointGroups []PointGroup

	// ActiveIndex is the most recent group. It keeps pointing at a finished
	// stroke until the next one starts, so Restyle can still change it.
	ActiveIndex int

	// Drawing is true between StrokeBegin and StrokeEnd.
	Drawing bool
}

// Active returns the group at ActiveIndex.
func (s StrokeState) Active() (PointGroup, bool) {
	if s.ActiveIndex < 0 || s.ActiveIndex >= len(s.PointGroups) {
		return PointGroup{}, false
	}
	return s.PointGroups[s.ActiveIndex], true
}

// StrokeEventKind identifies a stroke accumulator input.
type StrokeEventKind int

const (
	// StrokeBegin starts a new group at the pointer position.
	StrokeBegin StrokeEventKind = iota
	// StrokeExtend offers a new pointer sample to the active group.
	StrokeExtend
	// StrokeEnd freezes the active group.
	StrokeEnd
)

// StrokeEvent is one input to Accumulate.
type StrokeEvent struct {
	Kind StrokeEventKind

	// Point is the pointer sample in normalized canvas space.
	Point Point

	// Offset is the owning layer's position; points are stored relative to it.
	Offset Point

	Color     string
	BrushSize float64

	// MinDistance is the sampling threshold, see MinDistance.
	MinDistance float64
}

// MinDistance returns the smallest normalized distance between two stored
// samples:
//
//	brushSize / min(canvas.Width, canvas.Height) / (PrecisionFactor * pixelRatio)
//
// A zero canvas or non-positive pixel ratio yields 0, which accepts every sample.
func MinDistance(brushSize float64, canvas Size, pixelRatio float64) float64 {
	if canvas.IsZero() || pixelRatio <= 0 {
		return 0
	}
	return brushSize / float64(canvas.Min()) / (PrecisionFactor * pixelRatio)
}

// Accumulate applies ev to s and returns the resulting snapshot.
//
// StrokeBegin appends a group seeded with two coincident points so a single
// tap still renders a dot. StrokeExtend appends the sample unless it lies
// closer than MinDistance to the group's last point; an accepted sample
// also refreshes the group color. StrokeEnd freezes the group but leaves
// ActiveIndex alone.
func Accumulate(s StrokeState, ev StrokeEvent) StrokeState {
	switch ev.Kind {
	case StrokeBegin:
		p := ev.Point.Sub(ev.Offset)
		groups := slices.Clip(s.PointGroups)
		groups = append(groups, PointGroup{
			Color:       ev.Color,
			StrokeWidth: ev.BrushSize,
			Points:      []Point{p, p},
		})
		return StrokeState{
			PointGroups: groups,
			ActiveIndex: len(groups) - 1,
			Drawing:     true,
		}

	case StrokeExtend:
		g, ok := s.Active()
		if !s.Drawing || !ok {
			return s
		}
		p := ev.Point.Sub(ev.Offset)
		if n := len(g.Points); n > 0 && g.Points[n-1].Distance(p) < ev.MinDistance {
			Logger().Debug("ggedit: stroke sample discarded",
				"distance", g.Points[n-1].Distance(p), "min", ev.MinDistance)
			return s
		}
		g.Color = ev.Color
		g.Points = append(slices.Clip(g.Points), p)
		return s.replace(g)

	case StrokeEnd:
		s.Drawing = false
		return s
	}
	return s
}

// Restyle changes the color and width of the active group, even after the
// stroke has ended. A zero width keeps the current width.
func Restyle(s StrokeState, color string, width float64) StrokeState {
	g, ok := s.Active()
	if !ok {
		return s
	}
	g.Color = color
	if width > 0 {
		g.StrokeWidth = width
	}
	return s.replace(g)
}

// replace returns a copy of s with the active group swapped for g.
func (s StrokeState) replace(g PointGroup) StrokeState {
	groups := slices.Clone(s.PointGroups)
	groups[s.ActiveIndex] = g
	s.PointGroups = groups
	return s
}
