package sortable

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/sortable/internal/collision"
	"github.com/1broseidon/sortable/internal/geometry"
	"github.com/1broseidon/sortable/internal/ids"
	"github.com/1broseidon/sortable/internal/strategy"
)

// ContainerView is a read-only view of one container's item order as the
// session currently sees it.
type ContainerView struct {
	ID    ids.ID
	Items []ids.ID
}

// Session owns one drag operation. All methods must be called from the
// host's input event handlers; none of them block.
type Session struct {
	registry *Registry
	host     Host
	sensor   Sensor
	logger   *slog.Logger

	phase    Phase
	tornDown bool

	activeItem        ids.ID
	activator         Handle
	originalContainer ids.ID
	originalIndex     int

	pointer       geometry.Point
	pointerOffset geometry.Point
	position      geometry.Rect
	overItem      ids.ID

	containers []ids.ID
	items      map[ids.ID][]ids.ID
	handles    map[ids.ID]Handle

	rects     map[ids.ID]geometry.Rect
	rectOrder []ids.ID
}

func newSession(r *Registry, sensor Sensor, item, activator Handle, pointer *geometry.Point) *Session {
	s := &Session{
		registry:      r,
		host:          r.host,
		sensor:        sensor,
		logger:        r.logger,
		activator:     activator,
		originalIndex: -1,
		items:         make(map[ids.ID][]ids.ID),
		handles:       make(map[ids.ID]Handle),
		rects:         make(map[ids.ID]geometry.Rect),
	}

	for _, cid := range r.containers {
		container := r.handles[cid]
		s.containers = append(s.containers, cid)
		s.handles[cid] = container

		var list []ids.ID
		for _, child := range r.host.Children(container) {
			if !r.opts.Filter(child) {
				continue
			}
			id := r.issue(child)
			s.handles[id] = child
			if child == item {
				s.activeItem = id
				s.originalContainer = cid
				s.originalIndex = len(list)
			}
			list = append(list, id)
		}
		s.items[cid] = list
	}

	if !s.activeItem.Valid() {
		return nil
	}

	s.updateRects()

	s.position = s.rects[s.activeItem]
	if pointer != nil {
		s.pointer = *pointer
	} else {
		s.pointer = s.position.Center()
	}
	s.pointerOffset = s.position.Origin().Sub(s.pointer)

	return s
}

// activate runs once the start notification was accepted.
func (s *Session) activate() {
	s.phase = PhaseActive
	s.host.PlaceOverlay(s.handles[s.activeItem], s.position, true)
	s.registry.announce(s.registry.opts.Announcements.DragStart(s.announcementContext(s.ActiveIndex())))
	s.logger.Info("drag start",
		"active", s.activeItem.Short(),
		"container", s.originalContainer.Short(),
		"index", s.originalIndex,
	)
}

// Phase returns the lifecycle phase.
func (s *Session) Phase() Phase { return s.phase }

// ActiveItem returns the dragged item.
func (s *Session) ActiveItem() ids.ID { return s.activeItem }

// Activator returns the handle that started the session.
func (s *Session) Activator() Handle { return s.activator }

// OverItem returns the current drop target, if any.
func (s *Session) OverItem() ids.ID { return s.overItem }

// Pointer returns the last pointer position.
func (s *Session) Pointer() geometry.Point { return s.pointer }

// Position returns the simulated rect of the active item.
func (s *Session) Position() geometry.Rect { return s.position }

// OriginalContainer and OriginalIndex are where the item started.
func (s *Session) OriginalContainer() ids.ID { return s.originalContainer }
func (s *Session) OriginalIndex() int { return s.originalIndex }

// Rect returns the snapshot rect of an item or container.
func (s *Session) Rect(id ids.ID) (geometry.Rect, bool) {
	r, ok := s.rects[id]
	return r, ok
}

// Handle returns the host handle of a tracked id.
func (s *Session) Handle(id ids.ID) Handle { return s.handles[id] }

// CollisionDetection and Strategy expose the registry's algorithms to
// sensors.
func (s *Session) CollisionDetection() collision.Detector { return s.registry.opts.CollisionDetection }
func (s *Session) Strategy() strategy.Strategy { return s.registry.opts.Strategy }

// ScrollAreas lists the scroll areas around the active item, nearest first.
func (s *Session) ScrollAreas() []ScrollArea {
	return s.host.ScrollableAncestors(s.handles[s.activeItem])
}

// Containers returns a copy of every container's current order.
func (s *Session) Containers() []ContainerView {
	out := make([]ContainerView, 0, len(s.containers))
	for _, cid := range s.containers {
		out = append(out, ContainerView{ID: cid, Items: append([]ids.ID(nil), s.items[cid]...)})
	}
	return out
}

// Container returns the container currently listing the active item.
func (s *Session) Container() ids.ID {
	for _, cid := range s.containers {
		if indexOf(s.items[cid], s.activeItem) >= 0 {
			return cid
		}
	}
	if len(s.containers) > 0 {
		return s.containers[0]
	}
	return ids.None
}

// ActiveIndex is the position of the active item in its container.
func (s *Session) ActiveIndex() int {
	for _, cid := range s.containers {
		if i := indexOf(s.items[cid], s.activeItem); i >= 0 {
			return i
		}
	}
	return -1
}

// OverIndex is the position of the drop target in its container, or -1.
func (s *Session) OverIndex() int {
	if !s.overItem.Valid() {
		return -1
	}
	for _, cid := range s.containers {
		if i := indexOf(s.items[cid], s.overItem); i >= 0 {
			return i
		}
	}
	return -1
}

// OnMove moves the pointer to p and recomputes the drop target, container
// membership and every item's visual offset. immediate is passed to the
// overlay so hosts can skip transitions for direct pointer tracking.
func (s *Session) OnMove(p geometry.Point, immediate bool) {
	if s.phase != PhaseActive {
		return
	}

	s.pointer = p
	s.position = s.position.MoveTo(p.Add(s.pointerOffset))

	s.logger.Debug("move", "active", s.activeItem.Short(), "x", p.X, "y", p.Y)
	s.registry.dispatch(EventMove, s.snapshot())
	s.host.PlaceOverlay(s.handles[s.activeItem], s.position, immediate)

	newOver, _ := s.registry.opts.CollisionDetection(s.position, s.candidates(p))

	if newOver != s.overItem {
		snap := s.snapshot()
		snap.ProposedOver = newOver
		if s.registry.dispatch(EventOver, snap) {
			s.logger.Debug("drag over", "active", s.activeItem.Short(), "over", newOver.Short())
			s.overItem = newOver
			s.migrate()
			s.registry.announce(s.registry.opts.Announcements.DragOver(s.announcementContext(s.OverIndex())))
		} else {
			s.logger.Debug("over vetoed", "active", s.activeItem.Short(), "over", newOver.Short())
		}
	} else {
		s.migrate()
	}

	s.applyOffsets()
	s.checkMembership()
}

// OnScroll refreshes the rect snapshot after the host scrolled and replays
// the last pointer position.
func (s *Session) OnScroll() {
	if s.phase != PhaseActive {
		return
	}
	s.updateRects()
	s.OnMove(s.pointer, false)
}

// RefreshRects re-reads the rect snapshot from the host without replaying
// the pointer. Callers that scroll and then move the pointer themselves use
// it in place of OnScroll.
func (s *Session) RefreshRects() {
	if s.phase != PhaseActive {
		return
	}
	s.updateRects()
}

// HandleKey cancels the session on a configured cancel key. It reports
// whether the key was consumed.
func (s *Session) HandleKey(k Key) bool {
	if s.phase != PhaseActive || !containsKey(s.registry.opts.CancelKeys, k) {
		return false
	}
	s.OnCancel()
	return true
}

// OnDrop commits the reorder when there is a target and no listener vetoes
// it, then tears the session down.
func (s *Session) OnDrop() {
	if s.phase != PhaseActive {
		return
	}

	if s.activeItem.Valid() && s.overItem.Valid() {
		if s.registry.dispatch(EventDrop, s.snapshot()) {
			s.commit()
			s.registry.announce(s.registry.opts.Announcements.Drop(s.announcementContext(s.OverIndex())))
			s.logger.Info("drop",
				"active", s.activeItem.Short(),
				"over", s.overItem.Short(),
				"container", s.Container().Short(),
				"index", s.OverIndex(),
			)
		} else {
			s.logger.Info("drop vetoed", "active", s.activeItem.Short())
		}
	} else {
		s.logger.Info("drop without target", "active", s.activeItem.Short())
	}

	s.phase = PhaseEnded
	s.teardown()
}

// OnCancel puts the active item back where it started, restores focus to
// the activator and schedules teardown.
func (s *Session) OnCancel() {
	if s.phase != PhaseActive {
		return
	}

	if s.originalContainer.Valid() && s.originalIndex >= 0 {
		container := s.handles[s.originalContainer]
		s.host.Move(s.handles[s.activeItem], container, s.restoreBefore(container))
	}

	s.phase = PhaseEnded
	s.registry.dispatch(EventCancel, s.snapshot())
	s.registry.announce(s.registry.opts.Announcements.DragCancel(s.announcementContext(s.ActiveIndex())))
	s.host.Focus(s.activator)
	s.logger.Info("drag cancel", "active", s.activeItem.Short(), "container", s.originalContainer.Short(), "index", s.originalIndex)

	// Let the host settle focus and scroll before resources go away.
	s.registry.tasks.Defer(s.teardown)
}

// restoreBefore finds the sortable sibling that should follow the active
// item once it is back at its original index.
func (s *Session) restoreBefore(container Handle) Handle {
	active := s.handles[s.activeItem]
	n := 0
	for _, child := range s.host.Children(container) {
		if child == active || !s.registry.opts.Filter(child) {
			continue
		}
		if n == s.originalIndex {
			return child
		}
		n++
	}
	return nil
}

func (s *Session) teardown() {
	if s.tornDown {
		return
	}
	s.tornDown = true
	s.phase = PhaseEnded

	if s.sensor != nil {
		s.sensor.Deactivate()
	}

	for _, cid := range s.containers {
		for _, id := range s.items[cid] {
			s.host.SetOffset(s.handles[id], geometry.Point{})
		}
	}

	active := s.handles[s.activeItem]
	snap := s.snapshot()
	s.host.ReleaseOverlay(active, s.host.BoundingRect(active), func() {
		s.registry.dispatch(EventEnd, snap)
	})

	s.registry.finish(s)
}

// candidates narrows collision detection to the container under the
// pointer. An empty container offers itself so it can receive the item.
func (s *Session) candidates(p geometry.Point) []collision.Entry {
	var out []collision.Entry

	for _, cid := range s.containers {
		if !s.rects[cid].ContainsStrict(p) {
			continue
		}
		items := s.items[cid]
		if len(items) == 0 {
			out = append(out, collision.Entry{ID: cid, Rect: s.rects[cid]})
			continue
		}
		for _, id := range items {
			out = append(out, collision.Entry{ID: id, Rect: s.rects[id]})
		}
	}

	if len(out) > 0 {
		return out
	}

	out = make([]collision.Entry, 0, len(s.rectOrder))
	for _, id := range s.rectOrder {
		out = append(out, collision.Entry{ID: id, Rect: s.rects[id]})
	}
	return out
}

// migrate moves the active item's membership to the container holding the
// drop target. Migration always appends; the strategy pass places it.
func (s *Session) migrate() {
	if !s.overItem.Valid() {
		return
	}

	migrated := false
	for _, cid := range s.containers {
		list := s.items[cid]
		hasActive := indexOf(list, s.activeItem) >= 0
		hasOver := cid == s.overItem || indexOf(list, s.overItem) >= 0

		switch {
		case hasActive && !hasOver:
			s.items[cid] = remove(list, s.activeItem)
		case hasOver && !hasActive:
			s.items[cid] = append(list, s.activeItem)
			s.host.Move(s.handles[s.activeItem], s.handles[cid], nil)
			migrated = true
			s.logger.Debug("migrate", "active", s.activeItem.Short(), "container", cid.Short())
		}
	}

	if migrated {
		s.updateRects()
	}
}

// applyOffsets runs the strategy for every tracked item. Only visual
// offsets change; the order is committed on drop.
func (s *Session) applyOffsets() {
	sorting := s.registry.opts.Strategy

	for _, cid := range s.containers {
		list := s.items[cid]
		activeIndex := indexOf(list, s.activeItem)
		overIndex := indexOf(list, s.overItem)

		rects := make([]geometry.Rect, len(list))
		for i, id := range list {
			rects[i] = s.rects[id]
		}

		for i, id := range list {
			var offset geometry.Point
			if overIndex >= 0 {
				if o, ok := sorting(rects, activeIndex, overIndex, i); ok {
					offset = o.Round()
				}
			}
			s.host.SetOffset(s.handles[id], offset)
		}
	}
}

// commit performs the real reorder on the host.
func (s *Session) commit() {
	active := s.handles[s.activeItem]
	over := s.handles[s.overItem]

	if s.registry.IsContainer(s.overItem) {
		s.host.Move(active, over, nil)
		return
	}

	cid, ok := s.containerOf(s.overItem)
	if !ok {
		return
	}
	container := s.handles[cid]

	if s.precedes(s.overItem, s.activeItem) {
		s.host.Move(active, container, over)
		return
	}

	// Insert after over: before whatever follows it.
	children := s.host.Children(container)
	for i, child := range children {
		if child == over {
			var next Handle
			if i+1 < len(children) {
				next = children[i+1]
			}
			s.host.Move(active, container, next)
			return
		}
	}
	s.host.Move(active, container, nil)
}

// precedes reports whether a comes before b in presentation order.
// Containers are ordered by registration.
func (s *Session) precedes(a, b ids.ID) bool {
	ca, ia := s.presentationPosition(a)
	cb, ib := s.presentationPosition(b)
	if ca != cb {
		return ca < cb
	}
	return ia < ib
}

func (s *Session) presentationPosition(id ids.ID) (int, int) {
	h := s.handles[id]
	for ci, cid := range s.containers {
		if indexOf(s.items[cid], id) < 0 {
			continue
		}
		for i, child := range s.host.Children(s.handles[cid]) {
			if child == h {
				return ci, i
			}
		}
		return ci, -1
	}
	return -1, -1
}

func (s *Session) containerOf(id ids.ID) (ids.ID, bool) {
	for _, cid := range s.containers {
		if indexOf(s.items[cid], id) >= 0 {
			return cid, true
		}
	}
	return ids.None, false
}

// checkMembership enforces that the active item is listed by exactly one
// container. A violation means the host's membership view went out of sync.
func (s *Session) checkMembership() {
	n := 0
	for _, cid := range s.containers {
		if indexOf(s.items[cid], s.activeItem) >= 0 {
			n++
		}
	}
	if n != 1 {
		panic(fmt.Sprintf("sortable: active item %s is listed by %d containers", s.activeItem, n))
	}
}

func (s *Session) updateRects() {
	clear(s.rects)
	s.rectOrder = s.rectOrder[:0]

	for _, cid := range s.containers {
		s.setRect(cid)
		for _, id := range s.items[cid] {
			s.setRect(id)
		}
	}
}

func (s *Session) setRect(id ids.ID) {
	s.rects[id] = s.host.BoundingRect(s.handles[id])
	s.rectOrder = append(s.rectOrder, id)
}

func (s *Session) tracks(id ids.ID) bool {
	_, ok := s.handles[id]
	return ok
}

func (s *Session) snapshot() Snapshot {
	return Snapshot{
		ActiveItem:  s.activeItem,
		ActiveIndex: s.ActiveIndex(),
		OverItem:    s.overItem,
		OverIndex:   s.OverIndex(),
		Container:   s.Container(),
		Pointer:     s.pointer,
	}
}

// announcementContext describes the active item at index. A negative index
// means the target is a container, so the item's own position is used.
func (s *Session) announcementContext(index int) AnnouncementContext {
	if index < 0 {
		index = s.ActiveIndex()
	}
	label := s.host.Label(s.handles[s.activeItem])
	if label == "" {
		label = fmt.Sprintf("item %d", s.originalIndex+1)
	}
	return AnnouncementContext{
		ActiveLabel:    label,
		ContainerLabel: s.host.Label(s.handles[s.Container()]),
		Position:       index + 1,
	}
}

func indexOf(list []ids.ID, id ids.ID) int {
	if !id.Valid() {
		return -1
	}
	for i, candidate := range list {
		if candidate == id {
			return i
		}
	}
	return -1
}

func remove(list []ids.ID, id ids.ID) []ids.ID {
	out := make([]ids.ID, 0, len(list))
	for _, candidate := range list {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}
