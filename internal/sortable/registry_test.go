package sortable_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/sortable/internal/geometry"
	"github.com/1broseidon/sortable/internal/sortable"
	"github.com/1broseidon/sortable/internal/sortable/sortabletest"
)

// countingSensor records attach and detach calls and keeps the start funcs.
type countingSensor struct {
	attached    map[sortable.Handle]sortable.StartFunc
	detached    int
	deactivated int
	destroyed   bool
}

func newCountingSensor() *countingSensor {
	return &countingSensor{attached: make(map[sortable.Handle]sortable.StartFunc)}
}

func (c *countingSensor) Attach(activator sortable.Handle, onStart sortable.StartFunc) sortable.Detacher {
	c.attached[activator] = onStart
	return func() {
		delete(c.attached, activator)
		c.detached++
	}
}

func (c *countingSensor) Deactivate() { c.deactivated++ }
func (c *countingSensor) Destroy()    { c.destroyed = true }

func TestRegistry_AttachesEveryItem(t *testing.T) {
	sensor := newCountingSensor()
	b := newBoard(t, sortable.WithSensors(sensor))

	assert.Len(t, sensor.attached, 5)
	for _, name := range []string{"a1", "a2", "a3", "b1", "b2"} {
		assert.True(t, b.id(name).Valid(), name)
	}
	assert.True(t, b.registry.IsContainer(b.registry.ID(b.c)))
	assert.Len(t, b.registry.Containers(), 3)
}

func TestRegistry_SensorStartBindsSensor(t *testing.T) {
	sensor := newCountingSensor()
	b := newBoard(t, sortable.WithSensors(sensor))

	p := geometry.Point{X: 10, Y: 60}
	s := sensor.attached[b.host.Item("a2")](&p)
	require.NotNil(t, s)
	assert.Equal(t, p, s.Pointer())

	s.OnDrop()
	assert.Equal(t, 1, sensor.deactivated)
}

func TestRegistry_FilterAndActivator(t *testing.T) {
	sensor := newCountingSensor()
	b := newBoard(t,
		sortable.WithSensors(sensor),
		sortable.WithFilter(func(h sortable.Handle) bool {
			return h.(*sortabletest.Item).Name != "a2"
		}),
		sortable.WithActivator(func(h sortable.Handle) sortable.Handle {
			if h.(*sortabletest.Item).Name == "b2" {
				return nil
			}
			return h
		}),
	)

	assert.False(t, b.id("a2").Valid())
	assert.NotContains(t, sensor.attached, sortable.Handle(b.host.Item("a2")))
	assert.NotContains(t, sensor.attached, sortable.Handle(b.host.Item("b2")))
	assert.Len(t, sensor.attached, 3)

	// Filtered items are invisible to the session too.
	s := b.start(t, "a1")
	assert.Len(t, s.Containers()[0].Items, 2)
}

func TestRegistry_ItemsChangedDefersAdditions(t *testing.T) {
	sensor := newCountingSensor()
	b := newBoard(t, sortable.WithSensors(sensor))

	item := b.host.Item("a1")
	b.host.Move(item, b.b, nil)
	b.registry.ItemsChanged(b.a, nil, []sortable.Handle{item})
	b.registry.ItemsChanged(b.b, []sortable.Handle{item}, nil)

	assert.Equal(t, 1, sensor.detached)
	assert.NotContains(t, sensor.attached, sortable.Handle(item))
	assert.False(t, b.id("a1").Valid())

	b.registry.Flush()
	assert.Contains(t, sensor.attached, sortable.Handle(item))
	assert.True(t, b.id("a1").Valid())
}

func TestRegistry_ItemsChangedKeepsSessionIDs(t *testing.T) {
	b := newBoard(t)
	b.host.Observer = b.registry.ItemsChanged
	s := b.start(t, "a2")
	active := s.ActiveItem()

	s.OnMove(geometry.Point{X: 250, Y: 25}, false)
	assert.Equal(t, active, b.id("a2"))

	b.registry.Flush()
	s.OnDrop()
	assert.Equal(t, []string{"a2", "b1", "b2"}, b.b.Names())
	assert.Equal(t, active, b.id("a2"))
}

func TestRegistry_ForgetsItemsRemovedDuringSession(t *testing.T) {
	b := newBoard(t)
	s := b.start(t, "a2")
	a1 := b.host.Item("a1")

	b.registry.ItemsChanged(b.a, nil, []sortable.Handle{a1})
	assert.True(t, b.id("a1").Valid())

	s.OnDrop()
	b.registry.Flush()
	assert.False(t, b.id("a1").Valid())
	assert.True(t, b.id("a2").Valid())
	assert.True(t, b.id("a3").Valid())
}

func TestRegistry_ItemsChangedIgnoresUnknownContainer(t *testing.T) {
	sensor := newCountingSensor()
	b := newBoard(t, sortable.WithSensors(sensor))
	other := &sortabletest.Container{Name: "other"}

	b.registry.ItemsChanged(other, []sortable.Handle{&sortabletest.Item{Name: "x"}}, nil)
	b.registry.Flush()

	assert.Len(t, sensor.attached, 5)
}

func TestRegistry_RemoveContainer(t *testing.T) {
	sensor := newCountingSensor()
	b := newBoard(t, sortable.WithSensors(sensor))

	b.registry.RemoveContainer(b.b)

	assert.Len(t, sensor.attached, 3)
	assert.False(t, b.id("b1").Valid())
	assert.False(t, b.registry.ID(b.b).Valid())
	assert.Len(t, b.registry.Containers(), 2)
}

func TestRegistry_DestroyCancelsSession(t *testing.T) {
	sensor := newCountingSensor()
	b := newBoard(t, sortable.WithSensors(sensor))
	s := b.start(t, "a2")
	s.OnMove(geometry.Point{X: 250, Y: 25}, false)

	b.registry.Destroy()

	assert.Equal(t, sortable.PhaseEnded, s.Phase())
	assert.Nil(t, b.registry.Active())
	assert.Equal(t, []string{"a1", "a2", "a3"}, b.a.Names())
	assert.Empty(t, sensor.attached)
	assert.True(t, sensor.destroyed)
	assert.Empty(t, b.registry.Containers())

	item := b.host.Item("a1")
	assert.Nil(t, b.registry.StartSession(item, item, nil))
}

func TestRegistry_UnsubscribeAndVetoDelivery(t *testing.T) {
	b := newBoard(t)

	var calls []string
	b.registry.On(sortable.EventStart, func(sortable.Event) sortable.Decision {
		calls = append(calls, "veto")
		return sortable.Veto
	})
	b.registry.On(sortable.EventStart, sortable.Observe(func(sortable.Event) {
		calls = append(calls, "observe")
	}))
	unsubscribe := b.registry.On(sortable.EventStart, sortable.Observe(func(sortable.Event) {
		calls = append(calls, "removed")
	}))
	unsubscribe()

	item := b.host.Item("a1")
	assert.Nil(t, b.registry.StartSession(item, item, nil))
	assert.Equal(t, []string{"veto", "observe"}, calls)
}

func TestRegistry_VetoOnNonCancelableIsIgnored(t *testing.T) {
	b := newBoard(t)
	b.registry.On(sortable.EventCancel, func(sortable.Event) sortable.Decision { return sortable.Veto })
	s := b.start(t, "a1")

	s.OnCancel()
	b.registry.Flush()

	assert.Nil(t, b.registry.Active())
	assert.Equal(t, sortable.PhaseEnded, s.Phase())
}

func TestOptions_DefaultsAreNotShared(t *testing.T) {
	first := sortable.New(sortabletest.New(), sortable.WithCancelKeys(sortable.KeySpace))
	second := sortable.New(sortabletest.New())

	assert.Equal(t, []sortable.Key{sortable.KeySpace}, first.Options().CancelKeys)
	assert.Equal(t, []sortable.Key{sortable.KeyEscape}, second.Options().CancelKeys)

	opts := first.Options()
	opts.CancelKeys[0] = sortable.KeyEnter
	assert.Equal(t, []sortable.Key{sortable.KeySpace}, first.Options().CancelKeys)
}

func TestTaskQueue_RunsNestedTasksInOrder(t *testing.T) {
	var q sortable.TaskQueue
	var order []int

	q.Defer(func() {
		order = append(order, 1)
		q.Defer(func() { order = append(order, 3) })
	})
	q.Defer(func() { order = append(order, 2) })
	require.Equal(t, 2, q.Len())

	q.Flush()
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Zero(t, q.Len())
}

func TestRegistry_OnOutcomeReportsDecisions(t *testing.T) {
	b := newBoard(t)

	var vetoed, accepted []sortable.EventType
	b.registry.OnOutcome(func(e sortable.Event, proceed bool) {
		if proceed {
			accepted = append(accepted, e.Type)
		} else {
			vetoed = append(vetoed, e.Type)
		}
	})
	b.registry.On(sortable.EventDrop, func(sortable.Event) sortable.Decision { return sortable.Veto })
	b.registry.On(sortable.EventCancel, func(sortable.Event) sortable.Decision { return sortable.Veto })

	s := b.start(t, "a1")
	s.OnMove(geometry.Point{X: 50, Y: 125}, false)
	s.OnDrop()

	s = b.start(t, "a1")
	s.OnCancel()

	assert.Equal(t, []sortable.EventType{sortable.EventDrop}, vetoed)
	assert.Equal(t, []sortable.EventType{sortable.EventStart, sortable.EventOver, sortable.EventStart}, accepted)
}
