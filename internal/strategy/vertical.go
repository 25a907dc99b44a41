package strategy

import "github.com/1broseidon/sortable/internal/geometry"

// VerticalListSorting handles single-column lists. The active item lands
// flush against its new neighbour and the items it passes shift by one
// item height plus the local gap.
func VerticalListSorting(rects []geometry.Rect, activeIndex, overIndex, index int) (geometry.Point, bool) {
	if !inRange(len(rects), activeIndex, overIndex, index) {
		return geometry.Point{}, false
	}

	activeRect := rects[activeIndex]

	if index == activeIndex {
		overRect := rects[overIndex]
		if activeIndex < overIndex {
			return geometry.Point{Y: overRect.Bottom() - activeRect.Bottom()}, true
		}
		return geometry.Point{Y: overRect.Top() - activeRect.Top()}, true
	}

	gap := itemGap(rects, index, activeIndex)

	if index > activeIndex && index <= overIndex {
		return geometry.Point{Y: -activeRect.Height - gap}, true
	}
	if index < activeIndex && index >= overIndex {
		return geometry.Point{Y: activeRect.Height + gap}, true
	}

	return geometry.Point{}, true
}

// itemGap measures the space between rects[index] and the neighbour on the
// side the active item comes from, falling back to the other side at the
// ends of the list.
func itemGap(rects []geometry.Rect, index, activeIndex int) float64 {
	current := rects[index]

	before := func() (float64, bool) {
		if index == 0 {
			return 0, false
		}
		return current.Top() - rects[index-1].Bottom(), true
	}
	after := func() (float64, bool) {
		if index+1 >= len(rects) {
			return 0, false
		}
		return rects[index+1].Top() - current.Bottom(), true
	}

	first, second := after, before
	if activeIndex < index {
		first, second = before, after
	}

	if gap, ok := first(); ok {
		return gap
	}
	if gap, ok := second(); ok {
		return gap
	}
	return 0
}
