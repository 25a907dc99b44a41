package sensor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/sortable/internal/geometry"
	"github.com/1broseidon/sortable/internal/sensor"
	"github.com/1broseidon/sortable/internal/sortable"
	"github.com/1broseidon/sortable/internal/sortable/sortabletest"
)

func newPointerList(t *testing.T, opts ...sensor.PointerOption) (*sortabletest.Host, *sortable.Registry, *sensor.Pointer, *sortabletest.Container) {
	t.Helper()

	host := sortabletest.New()
	host.Scroll = &sortabletest.ScrollArea{
		View: geometry.Rect{Width: 600, Height: 100},
		Max:  geometry.Point{Y: 200},
	}
	list := host.AddContainer("list", geometry.Point{}, sortabletest.VerticalLayout(100, 50, 0), "p1", "p2", "p3")

	opts = append([]sensor.PointerOption{
		sensor.WithScrollAreas(func(geometry.Point) []sortable.ScrollArea {
			return []sortable.ScrollArea{host.Scroll}
		}),
	}, opts...)
	ptr := sensor.NewPointer(opts...)

	registry := sortable.New(host, sortable.WithSensors(ptr))
	registry.AddContainer(list)
	return host, registry, ptr, list
}

func TestPointer_DragAndDrop(t *testing.T) {
	host, registry, ptr, list := newPointerList(t)
	p1 := host.Item("p1")

	require.True(t, ptr.PointerDown(p1, geometry.Point{X: 10, Y: 10}, sensor.ButtonPrimary))
	s := ptr.Session()
	require.NotNil(t, s)
	assert.Equal(t, geometry.Point{X: 10, Y: 10}, s.Pointer())

	ptr.PointerMove(geometry.Point{X: 10, Y: 60})
	assert.True(t, host.Overlay.Immediate)
	assert.Equal(t, geometry.Rect{Y: 50, Width: 100, Height: 50}, host.Overlay.Rect)

	ptr.PointerMove(geometry.Point{X: 10, Y: 110})
	ptr.PointerUp(geometry.Point{X: 10, Y: 110})

	assert.Equal(t, []string{"p2", "p3", "p1"}, list.Names())
	assert.Nil(t, ptr.Session())
	assert.Nil(t, registry.Active())
}

func TestPointer_OnlyPrimaryButtonStarts(t *testing.T) {
	host, registry, ptr, _ := newPointerList(t)

	assert.False(t, ptr.PointerDown(host.Item("p1"), geometry.Point{}, sensor.ButtonSecondary))
	assert.False(t, ptr.PointerDown(&sortabletest.Item{Name: "stray"}, geometry.Point{}, sensor.ButtonPrimary))
	assert.Nil(t, registry.Active())

	// Events without a session are ignored.
	ptr.PointerMove(geometry.Point{X: 10, Y: 60})
	ptr.PointerUp(geometry.Point{})
	ptr.Tick()
	assert.Zero(t, host.Overlays)
}

func TestPointer_EdgeAutoScroll(t *testing.T) {
	host, _, ptr, _ := newPointerList(t)
	require.True(t, ptr.PointerDown(host.Item("p1"), geometry.Point{X: 250, Y: 25}, sensor.ButtonPrimary))

	// Threshold band is 20 high; 15 into it at y=95.
	ptr.PointerMove(geometry.Point{X: 250, Y: 95})
	require.True(t, ptr.Scrolling())

	ptr.Tick()
	ptr.Tick()
	assert.Equal(t, []geometry.Point{{Y: 15}, {Y: 15}}, host.Scroll.Scrolled)

	r, ok := ptr.Session().Rect(ptr.Session().ActiveItem())
	require.True(t, ok)
	assert.Equal(t, -30.0, r.Y)

	ptr.PointerMove(geometry.Point{X: 250, Y: 50})
	assert.False(t, ptr.Scrolling())
}

func TestPointer_CustomSpeedAndDeactivate(t *testing.T) {
	host, _, ptr, _ := newPointerList(t,
		sensor.WithScrollThreshold(0.5),
		sensor.WithScrollSpeed(10),
	)
	require.True(t, ptr.PointerDown(host.Item("p1"), geometry.Point{X: 250, Y: 25}, sensor.ButtonPrimary))

	// Leading band is 50 high: (0 - 0 - 50) / 50 * 10.
	ptr.PointerMove(geometry.Point{X: 300, Y: 0})
	ptr.Tick()
	assert.Equal(t, []geometry.Point{{Y: -10}}, host.Scroll.Scrolled)

	ptr.Deactivate()
	assert.False(t, ptr.Scrolling())
	assert.Nil(t, ptr.Session())
}
