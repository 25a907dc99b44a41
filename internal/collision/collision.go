// Package collision picks the current drop target from candidate rects.
package collision

import (
	"github.com/1broseidon/sortable/internal/geometry"
	"github.com/1broseidon/sortable/internal/ids"
)

// Entry is one candidate drop target.
type Entry struct {
	ID   ids.ID
	Rect geometry.Rect
}

// Detector selects the best candidate for query. It returns ok=false when
// there is nothing to choose from. Candidates are ordered; detectors that
// tie break must do so by that order.
type Detector func(query geometry.Rect, candidates []Entry) (ids.ID, bool)

// ClosestCenter selects the candidate whose center is nearest to the center
// of query. Equal distances resolve to the earliest candidate.
func ClosestCenter(query geometry.Rect, candidates []Entry) (ids.ID, bool) {
	if len(candidates) == 0 {
		return ids.None, false
	}

	point := query.Center()

	bestIdx := 0
	bestDist := geometry.Distance(point, candidates[0].Rect.Center())

	for i := 1; i < len(candidates); i++ {
		dist := geometry.Distance(point, candidates[i].Rect.Center())
		if dist < bestDist {
			bestDist = dist
			bestIdx = i
		}
	}

	return candidates[bestIdx].ID, true
}

// Names of the built-in detectors, as used in configuration.
const (
	NameClosestCenter = "closest-center"
)

// ByName returns the built-in detector registered under name.
func ByName(name string) (Detector, bool) {
	switch name {
	case NameClosestCenter:
		return ClosestCenter, true
	default:
		return nil, false
	}
}
