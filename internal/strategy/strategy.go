// Package strategy computes the visual offset each item takes while the
// active item hovers over another position. Strategies never reorder
// anything; the session applies their result as a translation.
package strategy

import "github.com/1broseidon/sortable/internal/geometry"

// Strategy returns the translation for the item at index when the item at
// activeIndex is shown at overIndex. rects is the container's current order.
// ok=false means the item is unaffected.
type Strategy func(rects []geometry.Rect, activeIndex, overIndex, index int) (geometry.Point, bool)

// Names of the built-in strategies, as used in configuration.
const (
	NameRect         = "rect"
	NameVerticalList = "vertical-list"
)

// ByName returns the built-in strategy registered under name.
func ByName(name string) (Strategy, bool) {
	switch name {
	case NameRect:
		return RectSorting, true
	case NameVerticalList:
		return VerticalListSorting, true
	default:
		return nil, false
	}
}

func inRange(n int, idx ...int) bool {
	for _, i := range idx {
		if i < 0 || i >= n {
			return false
		}
	}
	return true
}
