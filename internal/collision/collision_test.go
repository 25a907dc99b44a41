package collision

import (
	"math/rand"
	"testing"

	"github.com/1broseidon/sortable/internal/geometry"
	"github.com/1broseidon/sortable/internal/ids"
)

func square(x, y float64) geometry.Rect {
	return geometry.Rect{X: x, Y: y, Width: 10, Height: 10}
}

func TestClosestCenterEmpty(t *testing.T) {
	if id, ok := ClosestCenter(square(0, 0), nil); ok || id != ids.None {
		t.Fatalf("expected no result for empty candidates, got %q %v", id, ok)
	}
}

func TestClosestCenterPicksNearest(t *testing.T) {
	candidates := []Entry{
		{ID: "far", Rect: square(100, 100)},
		{ID: "near", Rect: square(12, 0)},
		{ID: "mid", Rect: square(40, 0)},
	}

	id, ok := ClosestCenter(square(0, 0), candidates)
	if !ok || id != "near" {
		t.Fatalf("ClosestCenter = %q (ok=%v), want near", id, ok)
	}
}

func TestClosestCenterTieResolvesToFirst(t *testing.T) {
	// Both candidates are 20 away from the query center.
	candidates := []Entry{
		{ID: "right", Rect: square(20, 0)},
		{ID: "left", Rect: square(-20, 0)},
	}

	id, _ := ClosestCenter(square(0, 0), candidates)
	if id != "right" {
		t.Fatalf("tie resolved to %q, want first candidate", id)
	}

	candidates[0], candidates[1] = candidates[1], candidates[0]
	id, _ = ClosestCenter(square(0, 0), candidates)
	if id != "left" {
		t.Fatalf("tie resolved to %q after reorder, want first candidate", id)
	}
}

func TestClosestCenterIsMinimal(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for iter := 0; iter < 200; iter++ {
		query := square(rng.Float64()*500, rng.Float64()*500)
		n := 1 + rng.Intn(12)
		candidates := make([]Entry, n)
		for i := range candidates {
			candidates[i] = Entry{ID: ids.New(), Rect: square(rng.Float64()*500, rng.Float64()*500)}
		}

		id, ok := ClosestCenter(query, candidates)
		if !ok {
			t.Fatalf("iteration %d: expected a result", iter)
		}

		var chosen geometry.Rect
		for _, c := range candidates {
			if c.ID == id {
				chosen = c.Rect
			}
		}
		best := geometry.Distance(query.Center(), chosen.Center())
		for _, c := range candidates {
			if d := geometry.Distance(query.Center(), c.Rect.Center()); d < best {
				t.Fatalf("iteration %d: candidate %s at %v is closer than chosen %v", iter, c.ID, d, best)
			}
		}
	}
}

func TestByName(t *testing.T) {
	if _, ok := ByName(NameClosestCenter); !ok {
		t.Fatalf("expected %q to resolve", NameClosestCenter)
	}
	if _, ok := ByName("closest-corner"); ok {
		t.Fatalf("expected unknown detector to fail")
	}
}
