package strategy

import "github.com/1broseidon/sortable/internal/geometry"

// RectSorting handles items laid out in any 2D arrangement, such as a grid.
// Each item takes the slot it would occupy if the active item were moved to
// overIndex, so only resulting corner positions matter.
func RectSorting(rects []geometry.Rect, activeIndex, overIndex, index int) (geometry.Point, bool) {
	if !inRange(len(rects), activeIndex, overIndex, index) {
		return geometry.Point{}, false
	}

	// Shuffling the slots from overIndex to activeIndex tells each item which
	// slot it lands in after the active item moves from activeIndex to
	// overIndex.
	slots := arrayMove(rects, overIndex, activeIndex)

	return slots[index].Origin().Sub(rects[index].Origin()), true
}

// arrayMove returns a copy of s with the element at from moved to to.
func arrayMove[T any](s []T, from, to int) []T {
	out := make([]T, 0, len(s))
	out = append(out, s[:from]...)
	out = append(out, s[from+1:]...)

	moved := s[from]
	out = append(out[:to], append([]T{moved}, out[to:]...)...)
	return out
}
