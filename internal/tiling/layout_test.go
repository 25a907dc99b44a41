package tiling

import (
	"testing"

	"github.com/1broseidon/sortable/internal/geometry"
)

func TestCalculateGrid(t *testing.T) {
	tests := []struct {
		n, maxCols int
		rows, cols int
	}{
		{0, 0, 0, 0},
		{1, 0, 1, 1},
		{4, 0, 2, 2},
		{5, 0, 2, 3},
		{5, 2, 3, 2},
		{2, 4, 1, 2},
	}
	for _, tt := range tests {
		rows, cols := CalculateGrid(tt.n, tt.maxCols)
		if rows != tt.rows || cols != tt.cols {
			t.Fatalf("CalculateGrid(%d, %d) = %dx%d, want %dx%d", tt.n, tt.maxCols, rows, cols, tt.rows, tt.cols)
		}
	}
}

func TestSlots_VerticalStacksWithGap(t *testing.T) {
	l := Layout{Mode: ModeVertical, SlotWidth: 100, SlotHeight: 50, Gap: 10, Padding: 5}

	slots, err := Slots(3, geometry.Point{X: 20, Y: 0}, l)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(slots))
	}

	// y = padding + i*(height+gap)
	for i, want := range []float64{5, 65, 125} {
		if slots[i].Y != want || slots[i].X != 25 {
			t.Fatalf("slot %d: expected (25,%g), got (%g,%g)", i, want, slots[i].X, slots[i].Y)
		}
	}
}

func TestSlots_GridWrapsRows(t *testing.T) {
	l := Layout{Mode: ModeGrid, SlotWidth: 50, SlotHeight: 50, Cols: 3}

	slots, err := Slots(4, geometry.Point{}, l)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := slots[3]
	if last.X != 0 || last.Y != 50 {
		t.Fatalf("expected fourth slot at (0,50), got (%g,%g)", last.X, last.Y)
	}
}

func TestSlots_RejectsInvalidInput(t *testing.T) {
	if _, err := Slots(2, geometry.Point{}, Layout{Mode: ModeVertical}); err == nil {
		t.Fatalf("expected error for zero slot size")
	}
	if _, err := Slots(2, geometry.Point{}, Layout{Mode: "diagonal", SlotWidth: 1, SlotHeight: 1}); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestBounds_EmptyContainerKeepsOneSlot(t *testing.T) {
	l := Layout{Mode: ModeVertical, SlotWidth: 100, SlotHeight: 50, Gap: 10, Padding: 5}

	empty, err := Bounds(0, geometry.Point{}, l)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if empty.Width != 110 || empty.Height != 60 {
		t.Fatalf("expected 110x60, got %gx%g", empty.Width, empty.Height)
	}

	full, _ := Bounds(3, geometry.Point{}, l)
	if full.Height != 5+50+10+50+10+50+5 {
		t.Fatalf("unexpected height %g", full.Height)
	}
}

func TestColumns_ErrorsWhenInsufficientSpace(t *testing.T) {
	if _, err := Columns(2, geometry.Rect{Width: 20, Height: 10}, 20); err == nil {
		t.Fatalf("expected error for insufficient space")
	}

	cols, err := Columns(2, geometry.Rect{Width: 210, Height: 100}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// width = (210-30)/2 = 90
	if cols[1].X != 110 || cols[1].Width != 90 || cols[1].Height != 80 {
		t.Fatalf("unexpected second column %+v", cols[1])
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode(""); err != nil || m != ModeVertical {
		t.Fatalf("expected empty mode to default to vertical, got %q %v", m, err)
	}
	if _, err := ParseMode("master-stack"); err == nil {
		t.Fatalf("expected error")
	}
}
