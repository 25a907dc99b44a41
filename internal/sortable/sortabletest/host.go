// Package sortabletest provides an in-memory Host for exercising the
// engine without a renderer. Items are laid out with internal/tiling.
package sortabletest

import (
	"fmt"

	"github.com/1broseidon/sortable/internal/geometry"
	"github.com/1broseidon/sortable/internal/sortable"
	"github.com/1broseidon/sortable/internal/tiling"
)

// Item is a sortable element. Pointer identity makes it a valid Handle.
type Item struct {
	Name   string
	Label  string
	parent *Container
}

func (i *Item) String() string { return i.Name }

// Parent returns the container currently holding the item.
func (i *Item) Parent() *Container { return i.parent }

// Container holds items laid out by Layout starting at Origin.
type Container struct {
	Name   string
	Label  string
	Origin geometry.Point
	Layout tiling.Layout
	items  []*Item
}

func (c *Container) String() string { return c.Name }

// Items returns the current order.
func (c *Container) Items() []*Item {
	return append([]*Item(nil), c.items...)
}

// Names returns item names in order.
func (c *Container) Names() []string {
	out := make([]string, len(c.items))
	for i, item := range c.items {
		out[i] = item.Name
	}
	return out
}

func (c *Container) index(item *Item) int {
	for i, candidate := range c.items {
		if candidate == item {
			return i
		}
	}
	return -1
}

// Move is one Host.Move call.
type Move struct {
	Item      string
	Container string
	Before    string
}

// Overlay records the last overlay placement.
type Overlay struct {
	Item      string
	Rect      geometry.Rect
	Immediate bool
	Released  bool
}

// Host is a fake sortable.Host. The zero value is not usable; call New.
type Host struct {
	containers []*Container
	offsets    map[*Item]geometry.Point
	labels     map[sortable.Handle]string

	// Scroll is returned as the only ancestor of every item when set.
	Scroll *ScrollArea

	// HoldRelease keeps ReleaseOverlay callbacks until Settle is called.
	HoldRelease bool
	pending     []func()

	// Observer is told about membership changes caused by Move.
	Observer func(container sortable.Handle, added, removed []sortable.Handle)

	Moves    []Move
	Focused  []sortable.Handle
	Overlay  Overlay
	Overlays int
}

// New returns an empty host.
func New() *Host {
	return &Host{
		offsets: make(map[*Item]geometry.Point),
		labels:  make(map[sortable.Handle]string),
	}
}

// VerticalLayout stacks slots of the given size with gap between them.
func VerticalLayout(width, height, gap float64) tiling.Layout {
	return tiling.Layout{Mode: tiling.ModeVertical, SlotWidth: width, SlotHeight: height, Gap: gap}
}

// AddContainer creates a container with items named by names.
func (h *Host) AddContainer(name string, origin geometry.Point, layout tiling.Layout, names ...string) *Container {
	c := &Container{Name: name, Origin: origin, Layout: layout}
	for _, n := range names {
		c.items = append(c.items, &Item{Name: n, parent: c})
	}
	h.containers = append(h.containers, c)
	return c
}

// Item finds an item by name in any container.
func (h *Host) Item(name string) *Item {
	for _, c := range h.containers {
		for _, item := range c.items {
			if item.Name == name {
				return item
			}
		}
	}
	return nil
}

// Offset returns the last offset applied to item.
func (h *Host) Offset(item *Item) geometry.Point {
	return h.offsets[item]
}

// Transform returns item's live offset as a computed matrix string.
func (h *Host) Transform(item *Item) string {
	return geometry.Translation(h.offsets[item]).String()
}

// Settle runs held ReleaseOverlay callbacks.
func (h *Host) Settle() {
	pending := h.pending
	h.pending = nil
	for _, fn := range pending {
		fn()
	}
}

// Order returns every container's item names, keyed by container name.
func (h *Host) Order() map[string][]string {
	out := make(map[string][]string, len(h.containers))
	for _, c := range h.containers {
		out[c.Name] = c.Names()
	}
	return out
}

func (h *Host) Children(container sortable.Handle) []sortable.Handle {
	c, ok := container.(*Container)
	if !ok {
		return nil
	}
	out := make([]sortable.Handle, len(c.items))
	for i, item := range c.items {
		out[i] = item
	}
	return out
}

func (h *Host) BoundingRect(handle sortable.Handle) geometry.Rect {
	var scroll geometry.Point
	if h.Scroll != nil {
		scroll = h.Scroll.Position
	}

	switch v := handle.(type) {
	case *Container:
		r, err := tiling.Bounds(len(v.items), v.Origin, v.Layout)
		if err != nil {
			panic(err)
		}
		return r.Translate(geometry.Point{X: -scroll.X, Y: -scroll.Y})
	case *Item:
		c := v.parent
		slots, err := tiling.Slots(len(c.items), c.Origin, c.Layout)
		if err != nil {
			panic(err)
		}
		// Items are measured as rendered, offset included, and the
		// transform is undone to recover the layout slot.
		rendered := slots[c.index(v)].Translate(h.offsets[v].Sub(scroll))
		return geometry.UntransformedRect(rendered, h.Transform(v), geometry.Point{})
	default:
		return geometry.Rect{}
	}
}

func (h *Host) Move(item, container, before sortable.Handle) {
	it, ok := item.(*Item)
	if !ok {
		return
	}
	dst, ok := container.(*Container)
	if !ok {
		return
	}

	m := Move{Item: it.Name, Container: dst.Name}
	if b, ok := before.(*Item); ok {
		m.Before = b.Name
	}
	h.Moves = append(h.Moves, m)

	if before == item {
		return
	}

	src := it.parent
	if i := src.index(it); i >= 0 {
		src.items = append(src.items[:i:i], src.items[i+1:]...)
	}

	at := len(dst.items)
	if b, ok := before.(*Item); ok {
		if i := dst.index(b); i >= 0 {
			at = i
		}
	}
	dst.items = append(dst.items[:at], append([]*Item{it}, dst.items[at:]...)...)
	it.parent = dst

	if h.Observer != nil && src != dst {
		h.Observer(src, nil, []sortable.Handle{it})
		h.Observer(dst, []sortable.Handle{it}, nil)
	}
}

func (h *Host) SetOffset(item sortable.Handle, offset geometry.Point) {
	if it, ok := item.(*Item); ok {
		h.offsets[it] = offset
	}
}

func (h *Host) PlaceOverlay(item sortable.Handle, rect geometry.Rect, immediate bool) {
	h.Overlay = Overlay{Item: fmt.Sprint(item), Rect: rect, Immediate: immediate}
	h.Overlays++
}

func (h *Host) ReleaseOverlay(item sortable.Handle, rect geometry.Rect, settled func()) {
	h.Overlay = Overlay{Item: fmt.Sprint(item), Rect: rect, Released: true}
	if h.HoldRelease {
		h.pending = append(h.pending, settled)
		return
	}
	settled()
}

func (h *Host) Focus(handle sortable.Handle) {
	h.Focused = append(h.Focused, handle)
}

func (h *Host) Label(handle sortable.Handle) string {
	switch v := handle.(type) {
	case *Item:
		return v.Label
	case *Container:
		return v.Label
	default:
		return ""
	}
}

func (h *Host) ScrollableAncestors(sortable.Handle) []sortable.ScrollArea {
	if h.Scroll == nil {
		return nil
	}
	return []sortable.ScrollArea{h.Scroll}
}

// ScrollArea is a fake scroll container. Scrolling shifts every rect the
// host reports.
type ScrollArea struct {
	View     geometry.Rect
	Position geometry.Point
	Max      geometry.Point
	Scrolled []geometry.Point
}

func (s *ScrollArea) Viewport() geometry.Rect { return s.View }
func (s *ScrollArea) ScrollPosition() geometry.Point { return s.Position }
func (s *ScrollArea) MaxScroll() geometry.Point { return s.Max }

func (s *ScrollArea) ScrollBy(delta geometry.Point) {
	s.Position = s.Position.Add(delta)
	s.Scrolled = append(s.Scrolled, delta)
}

// Announcements collects announced text.
type Announcements struct {
	Texts []string
}

func (a *Announcements) Announce(text string) { a.Texts = append(a.Texts, text) }

// Last returns the most recent text, or "".
func (a *Announcements) Last() string {
	if len(a.Texts) == 0 {
		return ""
	}
	return a.Texts[len(a.Texts)-1]
}
