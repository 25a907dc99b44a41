// Package sensor turns input devices into drag session operations. The
// keyboard sensor implements spatial arrow-key navigation; the pointer
// sensor tracks a pressed pointer and scrolls areas near their edges.
package sensor

import (
	"io"
	"log/slog"

	"github.com/1broseidon/sortable/internal/collision"
	"github.com/1broseidon/sortable/internal/geometry"
	"github.com/1broseidon/sortable/internal/ids"
	"github.com/1broseidon/sortable/internal/sortable"
)

// DefaultInstructions is read to users when an activator gains focus.
const DefaultInstructions = "To pick up a sortable item, press space or enter. " +
	"While dragging, use the arrow keys to move the item. " +
	"Press space or enter again to drop the item in its new position, or press escape to cancel."

// Direction represents an arrow key direction
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// String returns the string representation of the direction
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// DirectionForKey maps arrow keys to directions.
func DirectionForKey(k sortable.Key) (Direction, bool) {
	switch k {
	case sortable.KeyUp:
		return DirUp, true
	case sortable.KeyDown:
		return DirDown, true
	case sortable.KeyLeft:
		return DirLeft, true
	case sortable.KeyRight:
		return DirRight, true
	default:
		return 0, false
	}
}

// ahead reports whether r lies strictly on the side of p that d advances
// toward.
func (d Direction) ahead(r geometry.Rect, p geometry.Point) bool {
	switch d {
	case DirUp:
		return r.Bottom() < p.Y
	case DirDown:
		return r.Top() > p.Y
	case DirLeft:
		return r.Right() < p.X
	case DirRight:
		return r.Left() > p.X
	default:
		return false
	}
}

func (d Direction) backward() bool {
	return d == DirUp || d == DirLeft
}

// Focuser moves input focus. sortable.Host satisfies it.
type Focuser interface {
	Focus(h sortable.Handle)
}

// KeyboardOption configures a Keyboard.
type KeyboardOption func(*Keyboard)

// WithPickupKeys replaces the keys that pick up and drop an item.
func WithPickupKeys(keys ...sortable.Key) KeyboardOption {
	return func(k *Keyboard) { k.pickupKeys = append([]sortable.Key(nil), keys...) }
}

// WithInstructions replaces the screen reader instructions. An empty string
// disables them.
func WithInstructions(text string) KeyboardOption {
	return func(k *Keyboard) { k.instructions = text }
}

// WithKeyboardLogger sets the logger.
func WithKeyboardLogger(logger *slog.Logger) KeyboardOption {
	return func(k *Keyboard) {
		if logger != nil {
			k.logger = logger
		}
	}
}

// Keyboard is the keyboard sensor. The host forwards key presses together
// with the handle that currently has focus.
type Keyboard struct {
	focus        Focuser
	pickupKeys   []sortable.Key
	instructions string
	logger       *slog.Logger

	bindings  map[sortable.Handle]sortable.StartFunc
	session   *sortable.Session
	destroyed bool
}

var _ sortable.Sensor = (*Keyboard)(nil)

// NewKeyboard creates a keyboard sensor that restores focus through focus.
func NewKeyboard(focus Focuser, opts ...KeyboardOption) *Keyboard {
	k := &Keyboard{
		focus:        focus,
		pickupKeys:   []sortable.Key{sortable.KeyEnter, sortable.KeySpace},
		instructions: DefaultInstructions,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		bindings:     make(map[sortable.Handle]sortable.StartFunc),
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Instructions returns the text describing keyboard controls.
func (k *Keyboard) Instructions() string {
	if k.destroyed {
		return ""
	}
	return k.instructions
}

// Attached reports whether activator can start a session.
func (k *Keyboard) Attached(activator sortable.Handle) bool {
	_, ok := k.bindings[activator]
	return ok
}

// Session returns the session bound to this sensor, or nil.
func (k *Keyboard) Session() *sortable.Session {
	return k.session
}

func (k *Keyboard) Attach(activator sortable.Handle, onStart sortable.StartFunc) sortable.Detacher {
	k.bindings[activator] = onStart
	return func() {
		delete(k.bindings, activator)
	}
}

func (k *Keyboard) Deactivate() {
	k.session = nil
}

func (k *Keyboard) Destroy() {
	k.destroyed = true
	k.session = nil
	clear(k.bindings)
}

// HandleKey processes one key press. It reports whether the key was
// consumed.
func (k *Keyboard) HandleKey(focused sortable.Handle, key sortable.Key) bool {
	if k.session != nil && k.session.Phase() != sortable.PhaseActive {
		k.session = nil
	}

	if k.session == nil {
		return k.pickup(focused, key)
	}

	s := k.session

	if containsKey(k.pickupKeys, key) {
		activator := s.Activator()
		s.OnDrop()
		if k.focus != nil {
			k.focus.Focus(activator)
		}
		return true
	}

	if dir, ok := DirectionForKey(key); ok {
		moved := Navigate(s, dir)
		k.logger.Debug("keyboard navigate", "direction", dir.String(), "moved", moved)
		return true
	}

	return s.HandleKey(key)
}

func (k *Keyboard) pickup(focused sortable.Handle, key sortable.Key) bool {
	if !containsKey(k.pickupKeys, key) {
		return false
	}
	onStart, ok := k.bindings[focused]
	if !ok {
		return false
	}

	s := onStart(nil)
	if s == nil {
		return false
	}
	k.session = s
	return true
}

// Navigate moves the active item of s one step in dir. It reports whether
// a target was found.
func Navigate(s *sortable.Session, dir Direction) bool {
	pointer := s.Pointer()
	views := s.Containers()

	var candidates []collision.Entry
	for _, view := range views {
		targets := view.Items
		if len(targets) == 0 {
			targets = []ids.ID{view.ID}
		}
		for _, id := range targets {
			r, ok := s.Rect(id)
			if ok && dir.ahead(r, pointer) {
				candidates = append(candidates, collision.Entry{ID: id, Rect: r})
			}
		}
	}

	over, ok := s.CollisionDetection()(s.Position(), candidates)
	if !ok {
		return false
	}

	target, _ := s.Rect(over)
	previous := s.Container()
	s.OnMove(target.Center(), false)

	migrated := s.Container() != previous
	point := correctedPoint(s, over, dir, migrated)

	var scrolled geometry.Point
	for _, area := range s.ScrollAreas() {
		delta := geometry.ScrollDelta(point, area.Viewport(), area.ScrollPosition(), area.MaxScroll())
		if !delta.IsZero() {
			area.ScrollBy(delta)
		}
		scrolled = scrolled.Add(delta)
	}
	if !scrolled.IsZero() {
		s.RefreshRects()
	}

	s.OnMove(point.Sub(scrolled), false)
	return true
}

// correctedPoint is where the pointer must sit so the active item lands on
// its simulated slot after the strategy re-ran.
func correctedPoint(s *sortable.Session, over ids.ID, dir Direction, migrated bool) geometry.Point {
	active := s.ActiveItem()
	activeRect, _ := s.Rect(active)
	point := activeRect.Center()

	sorting := s.Strategy()

	for _, view := range s.Containers() {
		activeIndex := indexOf(view.Items, active)
		if activeIndex < 0 {
			continue
		}

		overIndex := indexOf(view.Items, over)
		switch {
		case overIndex < 0:
			overIndex = activeIndex
		case migrated && dir.backward():
			// Migration appended the item, so the target resolved one
			// slot short.
			overIndex = min(overIndex+1, len(view.Items)-1)
		}

		rects := make([]geometry.Rect, len(view.Items))
		for i, id := range view.Items {
			rects[i], _ = s.Rect(id)
		}

		if offset, ok := sorting(rects, activeIndex, overIndex, activeIndex); ok {
			point = point.Add(offset)
		}
	}

	return point
}

func indexOf(list []ids.ID, id ids.ID) int {
	for i, candidate := range list {
		if candidate == id {
			return i
		}
	}
	return -1
}

func containsKey(keys []sortable.Key, k sortable.Key) bool {
	for _, candidate := range keys {
		if candidate == k {
			return true
		}
	}
	return false
}
