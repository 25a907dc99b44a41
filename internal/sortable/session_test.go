package sortable_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/sortable/internal/geometry"
	"github.com/1broseidon/sortable/internal/ids"
	"github.com/1broseidon/sortable/internal/sortable"
	"github.com/1broseidon/sortable/internal/sortable/sortabletest"
	"github.com/1broseidon/sortable/internal/strategy"
)

type board struct {
	host      *sortabletest.Host
	registry  *sortable.Registry
	announced *sortabletest.Announcements
	a, b, c   *sortabletest.Container
}

// newBoard lays out three columns of 100x50 slots: a = a1 a2 a3 at x=0,
// b = b1 b2 at x=200 and an empty c at x=400.
func newBoard(t *testing.T, opts ...sortable.Option) *board {
	t.Helper()

	host := sortabletest.New()
	layout := sortabletest.VerticalLayout(100, 50, 0)
	b := &board{
		host:      host,
		announced: &sortabletest.Announcements{},
		a:         host.AddContainer("a", geometry.Point{X: 0}, layout, "a1", "a2", "a3"),
		b:         host.AddContainer("b", geometry.Point{X: 200}, layout, "b1", "b2"),
		c:         host.AddContainer("c", geometry.Point{X: 400}, layout),
	}

	opts = append([]sortable.Option{sortable.WithAnnouncer(b.announced)}, opts...)
	b.registry = sortable.New(host, opts...)
	b.registry.AddContainer(b.a)
	b.registry.AddContainer(b.b)
	b.registry.AddContainer(b.c)
	return b
}

func (b *board) start(t *testing.T, name string) *sortable.Session {
	t.Helper()
	item := b.host.Item(name)
	require.NotNil(t, item, "unknown item %s", name)
	s := b.registry.StartSession(item, item, nil)
	require.NotNil(t, s)
	return s
}

func (b *board) id(name string) ids.ID {
	return b.registry.ID(b.host.Item(name))
}

func (b *board) recordEvents() *[]sortable.EventType {
	var seen []sortable.EventType
	for _, et := range []sortable.EventType{
		sortable.EventStart, sortable.EventMove, sortable.EventOver,
		sortable.EventDrop, sortable.EventCancel, sortable.EventEnd,
	} {
		b.registry.On(et, sortable.Observe(func(e sortable.Event) {
			seen = append(seen, e.Type)
		}))
	}
	return &seen
}

func TestSessionStart_PointerDefaultsToCenter(t *testing.T) {
	b := newBoard(t)
	s := b.start(t, "a2")

	assert.Equal(t, sortable.PhaseActive, s.Phase())
	assert.Equal(t, geometry.Point{X: 50, Y: 75}, s.Pointer())
	assert.Equal(t, 1, s.ActiveIndex())
	assert.Equal(t, b.registry.ID(b.a), s.Container())
	assert.False(t, s.OverItem().Valid())
	assert.Equal(t, 1, b.host.Overlays)
	assert.Equal(t, "Picked up item 2", b.announced.Last())
}

func TestSessionStart_VetoLeavesNoSideEffects(t *testing.T) {
	b := newBoard(t)
	b.registry.On(sortable.EventStart, func(sortable.Event) sortable.Decision { return sortable.Veto })

	item := b.host.Item("a1")
	assert.Nil(t, b.registry.StartSession(item, item, nil))
	assert.Nil(t, b.registry.Active())
	assert.Zero(t, b.host.Overlays)
	assert.Empty(t, b.announced.Texts)
}

func TestStartMutualExclusion(t *testing.T) {
	b := newBoard(t)

	first := b.start(t, "a1")
	second := b.registry.StartSession(b.host.Item("b1"), b.host.Item("b1"), nil)

	assert.Nil(t, second)
	assert.Same(t, first, b.registry.Active())
}

func TestSessionStart_UntrackedItem(t *testing.T) {
	b := newBoard(t)
	stray := &sortabletest.Item{Name: "stray"}

	assert.Nil(t, b.registry.StartSession(stray, stray, nil))
}

func TestOnMove_ThreeStackedVerticalScenario(t *testing.T) {
	b := newBoard(t, sortable.WithStrategy(strategy.VerticalListSorting))
	s := b.start(t, "a1")

	s.OnMove(geometry.Point{X: 50, Y: 75}, true)

	assert.Equal(t, b.id("a2"), s.OverItem())
	assert.Equal(t, 1, s.OverIndex())
	assert.Equal(t, geometry.Point{Y: 50}, b.host.Offset(b.host.Item("a1")))
	assert.Equal(t, geometry.Point{Y: -50}, b.host.Offset(b.host.Item("a2")))
	assert.Equal(t, geometry.Point{}, b.host.Offset(b.host.Item("a3")))

	// Offsets are visual only.
	assert.Equal(t, []string{"a1", "a2", "a3"}, b.a.Names())
	assert.True(t, b.host.Overlay.Immediate)
	assert.Equal(t, geometry.Rect{X: 0, Y: 50, Width: 100, Height: 50}, s.Position())
}

func TestOnMove_OverVetoKeepsTarget(t *testing.T) {
	b := newBoard(t)
	s := b.start(t, "a1")

	s.OnMove(geometry.Point{X: 50, Y: 75}, false)
	require.Equal(t, b.id("a2"), s.OverItem())

	var proposed ids.ID
	b.registry.On(sortable.EventOver, func(e sortable.Event) sortable.Decision {
		proposed = e.Snapshot.ProposedOver
		return sortable.Veto
	})

	s.OnMove(geometry.Point{X: 50, Y: 125}, false)
	assert.Equal(t, b.id("a3"), proposed)
	assert.Equal(t, b.id("a2"), s.OverItem())
}

func TestOnMove_MigratesIntoOtherContainer(t *testing.T) {
	b := newBoard(t)
	s := b.start(t, "a2")

	s.OnMove(geometry.Point{X: 250, Y: 25}, false)

	assert.Equal(t, b.id("b1"), s.OverItem())
	assert.Equal(t, b.registry.ID(b.b), s.Container())
	assert.Equal(t, []string{"b1", "b2", "a2"}, b.b.Names())
	assert.Equal(t, []string{"a1", "a3"}, b.a.Names())
	assert.Equal(t, 2, s.ActiveIndex())
}

func TestOnMove_EmptyContainerOffersItself(t *testing.T) {
	b := newBoard(t)
	s := b.start(t, "a1")

	s.OnMove(geometry.Point{X: 450, Y: 25}, false)

	assert.Equal(t, b.registry.ID(b.c), s.OverItem())
	assert.Equal(t, []string{"a1"}, b.c.Names())

	s.OnDrop()
	assert.Equal(t, []string{"a1"}, b.c.Names())
	assert.Equal(t, []string{"a2", "a3"}, b.a.Names())
}

func TestMigrationExclusivity(t *testing.T) {
	b := newBoard(t, sortable.WithStrategy(strategy.VerticalListSorting))
	s := b.start(t, "a1")

	path := []geometry.Point{
		{X: 50, Y: 75}, {X: 250, Y: 25}, {X: 450, Y: 25},
		{X: 250, Y: 75}, {X: 50, Y: 125}, {X: 900, Y: 900},
	}
	for _, p := range path {
		s.OnMove(p, false)

		n := 0
		for _, view := range s.Containers() {
			for _, id := range view.Items {
				if id == s.ActiveItem() {
					n++
				}
			}
		}
		require.Equal(t, 1, n, "after move to %+v", p)
	}
}

func TestCancelRestoresOrigin(t *testing.T) {
	b := newBoard(t)
	events := b.recordEvents()
	s := b.start(t, "a2")

	s.OnMove(geometry.Point{X: 250, Y: 25}, false)
	s.OnMove(geometry.Point{X: 450, Y: 25}, false)
	s.OnMove(geometry.Point{X: 250, Y: 75}, false)
	require.Equal(t, []string{"a1", "a3"}, b.a.Names())

	s.OnCancel()

	assert.Equal(t, map[string][]string{
		"a": {"a1", "a2", "a3"},
		"b": {"b1", "b2"},
		"c": {},
	}, b.host.Order())
	assert.Equal(t, sortable.PhaseEnded, s.Phase())
	assert.Equal(t, []sortable.Handle{b.host.Item("a2")}, b.host.Focused)
	assert.Equal(t, "Sorting was cancelled. item 2 was dropped.", b.announced.Last())

	// Teardown waits for the scheduler.
	assert.Same(t, s, b.registry.Active())
	assert.NotContains(t, *events, sortable.EventEnd)

	b.registry.Flush()
	assert.Nil(t, b.registry.Active())
	assert.Equal(t, sortable.EventEnd, (*events)[len(*events)-1])
	for _, name := range []string{"a1", "a2", "a3", "b1", "b2"} {
		assert.Equal(t, geometry.Point{}, b.host.Offset(b.host.Item(name)), name)
	}
}

func TestCancel_LastItemIsAppended(t *testing.T) {
	b := newBoard(t)
	s := b.start(t, "a3")

	s.OnMove(geometry.Point{X: 250, Y: 25}, false)
	s.OnCancel()
	b.registry.Flush()

	assert.Equal(t, []string{"a1", "a2", "a3"}, b.a.Names())
	assert.Equal(t, []string{"b1", "b2"}, b.b.Names())
}

func TestDropWithoutTargetIsNoop(t *testing.T) {
	b := newBoard(t)
	events := b.recordEvents()
	s := b.start(t, "a1")
	before := b.host.Order()

	s.OnDrop()

	assert.Equal(t, before, b.host.Order())
	assert.Empty(t, b.host.Moves)
	assert.NotContains(t, *events, sortable.EventDrop)
	assert.Contains(t, *events, sortable.EventEnd)
	assert.Nil(t, b.registry.Active())
}

func TestDrop_VetoSkipsCommit(t *testing.T) {
	b := newBoard(t)
	b.registry.On(sortable.EventDrop, func(sortable.Event) sortable.Decision { return sortable.Veto })
	s := b.start(t, "a1")

	s.OnMove(geometry.Point{X: 50, Y: 125}, false)
	s.OnDrop()

	assert.Equal(t, []string{"a1", "a2", "a3"}, b.a.Names())
	assert.Nil(t, b.registry.Active())
}

func TestDrop_AfterLaterSibling(t *testing.T) {
	b := newBoard(t)
	b.host.Item("a1").Label = "Alpha"
	s := b.start(t, "a1")

	s.OnMove(geometry.Point{X: 50, Y: 125}, false)
	s.OnDrop()

	assert.Equal(t, []string{"a2", "a3", "a1"}, b.a.Names())
	assert.Equal(t, []string{
		"Picked up Alpha",
		"Alpha was moved to position 3",
		"Alpha was dropped in position 3",
	}, b.announced.Texts)
}

func TestDrop_BeforeEarlierSibling(t *testing.T) {
	b := newBoard(t)
	s := b.start(t, "a3")

	s.OnMove(geometry.Point{X: 50, Y: 25}, false)
	require.Equal(t, b.id("a1"), s.OverItem())
	s.OnDrop()

	assert.Equal(t, []string{"a3", "a1", "a2"}, b.a.Names())
}

func TestDrop_IntoOtherContainer(t *testing.T) {
	b := newBoard(t)
	s := b.start(t, "a2")

	s.OnMove(geometry.Point{X: 250, Y: 25}, false)
	s.OnDrop()

	assert.Equal(t, []string{"a2", "b1", "b2"}, b.b.Names())
	assert.Equal(t, []string{"a1", "a3"}, b.a.Names())
}

func TestEnd_WaitsForOverlaySettle(t *testing.T) {
	b := newBoard(t)
	b.host.HoldRelease = true
	events := b.recordEvents()
	s := b.start(t, "a1")

	s.OnDrop()
	assert.True(t, b.host.Overlay.Released)
	assert.NotContains(t, *events, sortable.EventEnd)

	b.host.Settle()
	assert.Contains(t, *events, sortable.EventEnd)
}

func TestOperationsAfterEndAreIgnored(t *testing.T) {
	b := newBoard(t)
	s := b.start(t, "a1")
	s.OnDrop()
	moves := len(b.host.Moves)

	s.OnMove(geometry.Point{X: 50, Y: 125}, false)
	s.OnDrop()
	s.OnCancel()

	assert.Len(t, b.host.Moves, moves)
	assert.False(t, s.OverItem().Valid())
}

func TestHandleKey_CancelKeys(t *testing.T) {
	b := newBoard(t, sortable.WithCancelKeys(sortable.KeyEscape, sortable.KeySpace))
	s := b.start(t, "a1")

	assert.False(t, s.HandleKey(sortable.KeyUp))
	assert.Equal(t, sortable.PhaseActive, s.Phase())

	assert.True(t, s.HandleKey(sortable.KeySpace))
	assert.Equal(t, sortable.PhaseEnded, s.Phase())
}

func TestOnScroll_RefreshesRects(t *testing.T) {
	b := newBoard(t)
	b.host.Scroll = &sortabletest.ScrollArea{View: geometry.Rect{Width: 600, Height: 100}, Max: geometry.Point{Y: 100}}
	s := b.start(t, "a1")

	b.host.Scroll.ScrollBy(geometry.Point{Y: 50})
	s.OnScroll()

	r, ok := s.Rect(b.id("a2"))
	require.True(t, ok)
	assert.Equal(t, 0.0, r.Y)
	// The pointer did not move, but a2 now sits under it.
	assert.Equal(t, b.id("a2"), s.OverItem())
}
