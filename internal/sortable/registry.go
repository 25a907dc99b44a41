// Package sortable owns drag sessions: the registry that tracks containers
// and gates session creation, and the session state machine that runs
// collision detection and sorting strategies on every update.
package sortable

import (
	"log/slog"

	"github.com/1broseidon/sortable/internal/geometry"
	"github.com/1broseidon/sortable/internal/ids"
)

// Registry tracks containers and their items and allows at most one live
// session at a time.
type Registry struct {
	host   Host
	opts   Options
	logger *slog.Logger
	tasks  Scheduler
	events dispatcher

	containers []ids.ID
	handles    map[ids.ID]Handle
	byHandle   map[Handle]ids.ID
	isCont     map[ids.ID]bool
	detachers  map[ids.ID][]Detacher

	session          *Session
	lastAnnouncement string
	destroyed        bool
}

// New creates a registry bound to host. Options are applied to a fresh copy
// of DefaultOptions.
func New(host Host, opts ...Option) *Registry {
	o := resolveOptions(opts)

	tasks := o.Scheduler
	if tasks == nil {
		tasks = &TaskQueue{}
	}

	return &Registry{
		host:      host,
		opts:      o,
		logger:    o.Logger,
		tasks:     tasks,
		handles:   make(map[ids.ID]Handle),
		byHandle:  make(map[Handle]ids.ID),
		isCont:    make(map[ids.ID]bool),
		detachers: make(map[ids.ID][]Detacher),
	}
}

// Options returns a copy of the resolved options.
func (r *Registry) Options() Options {
	o := r.opts
	o.Sensors = append([]Sensor(nil), o.Sensors...)
	o.CancelKeys = append([]Key(nil), o.CancelKeys...)
	return o
}

// On subscribes l to events of type t. The returned func unsubscribes.
func (r *Registry) On(t EventType, l Listener) func() {
	return r.events.on(t, l)
}

// OnOutcome subscribes fn to the decision taken for every cancelable
// event, after all listeners answered. The returned func unsubscribes.
func (r *Registry) OnOutcome(fn func(e Event, proceed bool)) func() {
	return r.events.onOutcome(fn)
}

// Active returns the live session, or nil.
func (r *Registry) Active() *Session {
	return r.session
}

// ID returns the identifier issued for h, or ids.None when h is untracked.
func (r *Registry) ID(h Handle) ids.ID {
	return r.byHandle[h]
}

// Handle returns the host handle for id, or nil.
func (r *Registry) Handle(id ids.ID) Handle {
	return r.handles[id]
}

// IsContainer reports whether id names a registered container.
func (r *Registry) IsContainer(id ids.ID) bool {
	return r.isCont[id]
}

// Containers returns container handles in registration order.
func (r *Registry) Containers() []Handle {
	out := make([]Handle, 0, len(r.containers))
	for _, id := range r.containers {
		out = append(out, r.handles[id])
	}
	return out
}

// Flush runs deferred work when the registry owns its scheduler. Hosts
// call it at the end of each input event.
func (r *Registry) Flush() {
	if q, ok := r.tasks.(interface{ Flush() }); ok {
		q.Flush()
	}
}

// AddContainer starts tracking container and attaches its current items.
func (r *Registry) AddContainer(container Handle) ids.ID {
	if id, ok := r.byHandle[container]; ok && r.isCont[id] {
		return id
	}

	id := r.issue(container)
	r.isCont[id] = true
	r.containers = append(r.containers, id)

	for _, item := range r.host.Children(container) {
		r.attachItem(item)
	}

	r.logger.Debug("container added", "container", id.Short())
	return id
}

// RemoveContainer stops tracking container and detaches its items.
func (r *Registry) RemoveContainer(container Handle) {
	id, ok := r.byHandle[container]
	if !ok || !r.isCont[id] {
		return
	}

	for i, existing := range r.containers {
		if existing == id {
			r.containers = append(r.containers[:i:i], r.containers[i+1:]...)
			break
		}
	}

	for _, item := range r.host.Children(container) {
		r.detachItem(item)
	}

	delete(r.isCont, id)
	r.forget(id)
	r.logger.Debug("container removed", "container", id.Short())
}

// ItemsChanged is the membership observer entry point. Removals detach
// right away; additions attach through the scheduler so that an item moved
// between containers in one batch is detached before it is re-attached.
func (r *Registry) ItemsChanged(container Handle, added, removed []Handle) {
	if id, ok := r.byHandle[container]; !ok || !r.isCont[id] {
		return
	}

	for _, item := range removed {
		r.detachItem(item)
	}

	for _, item := range added {
		item := item
		r.tasks.Defer(func() { r.attachItem(item) })
	}
}

// StartSession begins a session for item without a sensor. It returns nil
// when a session is already live or a listener vetoes the start.
func (r *Registry) StartSession(item, activator Handle, pointer *geometry.Point) *Session {
	return r.start(nil, item, activator, pointer)
}

// Destroy cancels any live session and releases every container and
// sensor.
func (r *Registry) Destroy() {
	if r.destroyed {
		return
	}

	if r.session != nil {
		r.session.OnCancel()
		r.Flush()
	}
	r.destroyed = true

	for len(r.containers) > 0 {
		r.RemoveContainer(r.handles[r.containers[0]])
	}

	for _, sensor := range r.opts.Sensors {
		sensor.Destroy()
	}
}

func (r *Registry) start(sensor Sensor, item, activator Handle, pointer *geometry.Point) *Session {
	if r.session != nil || r.destroyed {
		return nil
	}

	s := newSession(r, sensor, item, activator, pointer)
	if s == nil {
		r.logger.Warn("start ignored: item is not in a tracked container")
		return nil
	}

	if !r.dispatch(EventStart, s.snapshot()) {
		r.logger.Debug("start vetoed", "active", s.activeItem.Short())
		return nil
	}

	r.session = s
	s.activate()
	return s
}

func (r *Registry) finish(s *Session) {
	if r.session == s {
		r.session = nil
	}
	// Runs after any attach the session's moves queued.
	r.tasks.Defer(func() { r.forgetDetached(s) })
}

// forgetDetached drops ids that s kept alive after their items were
// detached and that nothing re-attached since.
func (r *Registry) forgetDetached(s *Session) {
	for id := range s.handles {
		if r.isCont[id] {
			continue
		}
		if _, attached := r.detachers[id]; attached {
			continue
		}
		if r.session != nil && r.session.tracks(id) {
			continue
		}
		r.forget(id)
	}
}

func (r *Registry) dispatch(t EventType, snap Snapshot) bool {
	return r.events.dispatch(Event{Type: t, Snapshot: snap})
}

func (r *Registry) announce(text string) {
	if text == "" || text == r.lastAnnouncement {
		return
	}
	r.lastAnnouncement = text
	if r.opts.Announcer != nil {
		r.opts.Announcer.Announce(text)
	}
}

func (r *Registry) attachItem(item Handle) {
	if r.destroyed || !r.opts.Filter(item) {
		return
	}
	if id, ok := r.byHandle[item]; ok {
		if _, attached := r.detachers[id]; attached {
			return
		}
	}

	id := r.issue(item)

	var detachers []Detacher
	for _, sensor := range r.opts.Sensors {
		activator := r.opts.Activator(item)
		if activator == nil {
			continue
		}
		sensor := sensor
		detachers = append(detachers, sensor.Attach(activator, func(p *geometry.Point) *Session {
			return r.start(sensor, item, activator, p)
		}))
	}
	r.detachers[id] = detachers
}

func (r *Registry) detachItem(item Handle) {
	id, ok := r.byHandle[item]
	if !ok || r.isCont[id] {
		return
	}
	for _, detach := range r.detachers[id] {
		detach()
	}
	delete(r.detachers, id)

	// A live session keeps referring to its items while they migrate.
	if r.session != nil && r.session.tracks(id) {
		return
	}
	r.forget(id)
}

func (r *Registry) issue(h Handle) ids.ID {
	if id, ok := r.byHandle[h]; ok {
		return id
	}
	id := ids.New()
	r.handles[id] = h
	r.byHandle[h] = id
	return id
}

func (r *Registry) forget(id ids.ID) {
	if h, ok := r.handles[id]; ok {
		delete(r.byHandle, h)
	}
	delete(r.handles, id)
}
