package tiling

import (
	"fmt"
	"math"

	"github.com/1broseidon/sortable/internal/geometry"
)

// Mode selects how slots are arranged inside a container.
type Mode string

const (
	ModeVertical   Mode = "vertical"
	ModeHorizontal Mode = "horizontal"
	ModeGrid       Mode = "grid"
)

// ParseMode accepts the names used in configuration files.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeVertical, ModeHorizontal, ModeGrid:
		return Mode(s), nil
	case "":
		return ModeVertical, nil
	default:
		return "", fmt.Errorf("unsupported layout mode: %q", s)
	}
}

// Layout describes fixed-size slots separated by a gap. Padding is the
// space between the container edge and the outer slots.
type Layout struct {
	Mode       Mode
	SlotWidth  float64
	SlotHeight float64
	Gap        float64
	Padding    float64
	// Cols caps the grid width. Zero picks a near-square grid.
	Cols int
}

// CalculateGrid determines the grid dimensions for n slots. A positive
// maxCols fixes the column count.
func CalculateGrid(n, maxCols int) (rows, cols int) {
	if n == 0 {
		return 0, 0
	}

	if maxCols > 0 {
		cols = maxCols
	} else {
		cols = int(math.Ceil(math.Sqrt(float64(n))))
	}
	if cols > n {
		cols = n
	}

	rows = int(math.Ceil(float64(n) / float64(cols)))
	return rows, cols
}

func (l Layout) dimensions(n int) (rows, cols int, err error) {
	switch l.Mode {
	case ModeVertical, "":
		return n, 1, nil
	case ModeHorizontal:
		return 1, n, nil
	case ModeGrid:
		rows, cols = CalculateGrid(n, l.Cols)
		return rows, cols, nil
	default:
		return 0, 0, fmt.Errorf("unsupported layout mode: %q", l.Mode)
	}
}

// Slots computes the rect of each of n slots for a container whose top-left
// corner is at origin.
func Slots(n int, origin geometry.Point, l Layout) ([]geometry.Rect, error) {
	if n == 0 {
		return nil, nil
	}
	if l.SlotWidth <= 0 || l.SlotHeight <= 0 {
		return nil, fmt.Errorf("invalid slot size: %gx%g", l.SlotWidth, l.SlotHeight)
	}

	_, cols, err := l.dimensions(n)
	if err != nil {
		return nil, err
	}

	positions := make([]geometry.Rect, n)
	for i := 0; i < n; i++ {
		row := i / cols
		col := i % cols

		positions[i] = geometry.Rect{
			X:      origin.X + l.Padding + float64(col)*(l.SlotWidth+l.Gap),
			Y:      origin.Y + l.Padding + float64(row)*(l.SlotHeight+l.Gap),
			Width:  l.SlotWidth,
			Height: l.SlotHeight,
		}
	}

	return positions, nil
}

// Bounds returns the container rect that holds n slots. An empty container
// keeps room for one slot so it can still be hit by a pointer.
func Bounds(n int, origin geometry.Point, l Layout) (geometry.Rect, error) {
	if n == 0 {
		n = 1
	}
	rows, cols, err := l.dimensions(n)
	if err != nil {
		return geometry.Rect{}, err
	}

	return geometry.Rect{
		X:      origin.X,
		Y:      origin.Y,
		Width:  2*l.Padding + float64(cols)*l.SlotWidth + float64(cols-1)*l.Gap,
		Height: 2*l.Padding + float64(rows)*l.SlotHeight + float64(rows-1)*l.Gap,
	}, nil
}

// Columns splits area into n equally wide columns separated by gap, with a
// gap before the first and after the last column.
func Columns(n int, area geometry.Rect, gap float64) ([]geometry.Rect, error) {
	if n == 0 {
		return nil, nil
	}

	width := (area.Width - float64(n+1)*gap) / float64(n)
	height := area.Height - 2*gap
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf(
			"insufficient space for %d columns: area=%gx%g gap=%g",
			n, area.Width, area.Height, gap,
		)
	}

	columns := make([]geometry.Rect, n)
	for i := range columns {
		columns[i] = geometry.Rect{
			X:      area.X + gap + float64(i)*(width+gap),
			Y:      area.Y + gap,
			Width:  width,
			Height: height,
		}
	}
	return columns, nil
}
