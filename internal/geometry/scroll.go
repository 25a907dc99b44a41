package geometry

import "math"

// ScrollDelta returns the smallest scroll that moves target towards the
// center of viewport, clamped so the scroll position stays within
// [0, limit]. pos is the current scroll position and limit the largest
// reachable one.
func ScrollDelta(target Point, viewport Rect, pos, limit Point) Point {
	center := viewport.Center()
	return Point{
		X: clampAxis(target.X-center.X, pos.X, limit.X),
		Y: clampAxis(target.Y-center.Y, pos.Y, limit.Y),
	}
}

func clampAxis(want, pos, limit float64) float64 {
	return math.Min(limit-pos, math.Max(-pos, want))
}

// EdgeScroll returns the per-frame scroll speed for a pointer near the edge
// of viewport. Within threshold*size of an edge the speed ramps linearly
// from 0 up to speed at the edge itself; it is negative towards the leading
// edge. Pointers in the interior yield the zero point.
func EdgeScroll(p Point, viewport Rect, threshold, speed float64) Point {
	w := threshold * viewport.Width
	h := threshold * viewport.Height

	var out Point

	if w > 0 {
		switch {
		case p.X > viewport.Right()-w:
			out.X = (p.X - viewport.Right() + w) / w * speed
		case p.X < viewport.Left()+w:
			out.X = (p.X - viewport.Left() - w) / w * speed
		}
	}

	if h > 0 {
		switch {
		case p.Y > viewport.Bottom()-h:
			out.Y = (p.Y - viewport.Bottom() + h) / h * speed
		case p.Y < viewport.Top()+h:
			out.Y = (p.Y - viewport.Top() - h) / h * speed
		}
	}

	return out
}
