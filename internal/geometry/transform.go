package geometry

import (
	"strconv"
	"strings"
)

// Transform is the translate/scale part of a 2D or 3D affine matrix.
type Transform struct {
	X      float64
	Y      float64
	ScaleX float64
	ScaleY float64
}

// Translation is a pure translation by p.
func Translation(p Point) Transform {
	return Transform{X: p.X, Y: p.Y, ScaleX: 1, ScaleY: 1}
}

// Offset returns the translation part of t.
func (t Transform) Offset() Point { return Point{X: t.X, Y: t.Y} }

// Apply places rect as it renders with t applied around origin, where
// origin is relative to the element. It is the inverse of InverseTransform.
func (t Transform) Apply(rect Rect, origin Point) Rect {
	return Rect{
		X:      rect.Left() + t.X + (1-t.ScaleX)*origin.X,
		Y:      rect.Top() + t.Y + (1-t.ScaleY)*origin.Y,
		Width:  rect.Width * t.ScaleX,
		Height: rect.Height * t.ScaleY,
	}
}

// String formats t as a 2D matrix that ParseTransform reads back.
func (t Transform) String() string {
	return "matrix(" + strings.Join([]string{
		formatFloat(t.ScaleX), "0", "0", formatFloat(t.ScaleY), formatFloat(t.X), formatFloat(t.Y),
	}, ", ") + ")"
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

// ParseTransform reads a computed CSS-style transform string of the form
// "matrix(a, b, c, d, e, f)" or "matrix3d(...16 values...)". Anything else,
// including "none", returns ok=false.
func ParseTransform(s string) (Transform, bool) {
	s = strings.TrimSpace(s)

	switch {
	case strings.HasPrefix(s, "matrix3d(") && strings.HasSuffix(s, ")"):
		v, ok := parseMatrixValues(s[len("matrix3d("):len(s)-1], 16)
		if !ok {
			return Transform{}, false
		}
		return Transform{X: v[12], Y: v[13], ScaleX: v[0], ScaleY: v[5]}, true

	case strings.HasPrefix(s, "matrix(") && strings.HasSuffix(s, ")"):
		v, ok := parseMatrixValues(s[len("matrix("):len(s)-1], 6)
		if !ok {
			return Transform{}, false
		}
		return Transform{X: v[4], Y: v[5], ScaleX: v[0], ScaleY: v[3]}, true
	}

	return Transform{}, false
}

func parseMatrixValues(body string, want int) ([]float64, bool) {
	parts := strings.Split(body, ",")
	if len(parts) != want {
		return nil, false
	}
	out := make([]float64, want)
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}

// InverseTransform undoes t on a bounding rect measured with t applied,
// given the transform origin relative to the element. The result is where
// the element would sit without any visual translation or scale.
func InverseTransform(rect Rect, t Transform, origin Point) Rect {
	w := rect.Width
	if t.ScaleX != 0 {
		w = rect.Width / t.ScaleX
	}
	h := rect.Height
	if t.ScaleY != 0 {
		h = rect.Height / t.ScaleY
	}

	return Rect{
		X:      rect.Left() - t.X - (1-t.ScaleX)*origin.X,
		Y:      rect.Top() - t.Y - (1-t.ScaleY)*origin.Y,
		Width:  w,
		Height: h,
	}
}

// UntransformedRect is InverseTransform driven by the raw transform string.
// Unparseable transforms leave rect untouched.
func UntransformedRect(rect Rect, transform string, origin Point) Rect {
	t, ok := ParseTransform(transform)
	if !ok {
		return rect
	}
	return InverseTransform(rect, t, origin)
}
