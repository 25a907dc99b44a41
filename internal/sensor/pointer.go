package sensor

import (
	"io"
	"log/slog"

	"github.com/1broseidon/sortable/internal/geometry"
	"github.com/1broseidon/sortable/internal/sortable"
)

const (
	DefaultScrollThreshold = 0.2
	// DefaultScrollSpeed is in host units per Tick.
	DefaultScrollSpeed = 20.0
)

// Button identifies a pointer button. Only the primary button starts a
// session.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonMiddle
	ButtonSecondary
)

// AreaFinder returns the scroll areas under a point.
type AreaFinder func(p geometry.Point) []sortable.ScrollArea

// PointerOption configures a Pointer.
type PointerOption func(*Pointer)

// WithScrollThreshold sets the fraction of a viewport's size, measured from
// each edge, that triggers auto-scroll.
func WithScrollThreshold(threshold float64) PointerOption {
	return func(p *Pointer) { p.threshold = threshold }
}

// WithScrollSpeed sets the auto-scroll speed reached at a viewport's edge.
func WithScrollSpeed(speed float64) PointerOption {
	return func(p *Pointer) { p.speed = speed }
}

// WithScrollAreas enables edge auto-scroll over the areas find returns.
func WithScrollAreas(find AreaFinder) PointerOption {
	return func(p *Pointer) { p.areasAt = find }
}

// WithPointerLogger sets the logger.
func WithPointerLogger(logger *slog.Logger) PointerOption {
	return func(p *Pointer) {
		if logger != nil {
			p.logger = logger
		}
	}
}

type scrollAmount struct {
	area  sortable.ScrollArea
	delta geometry.Point
}

// Pointer is the pointer sensor. The host forwards press, motion and
// release events, and calls Tick once per frame while Scrolling is true.
type Pointer struct {
	threshold float64
	speed     float64
	areasAt   AreaFinder
	logger    *slog.Logger

	bindings map[sortable.Handle]sortable.StartFunc
	session  *sortable.Session
	amounts  []scrollAmount
}

var _ sortable.Sensor = (*Pointer)(nil)

// NewPointer creates a pointer sensor.
func NewPointer(opts ...PointerOption) *Pointer {
	p := &Pointer{
		threshold: DefaultScrollThreshold,
		speed:     DefaultScrollSpeed,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		bindings:  make(map[sortable.Handle]sortable.StartFunc),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pointer) Attach(activator sortable.Handle, onStart sortable.StartFunc) sortable.Detacher {
	p.bindings[activator] = onStart
	return func() {
		delete(p.bindings, activator)
	}
}

func (p *Pointer) Deactivate() {
	p.session = nil
	p.amounts = nil
}

func (p *Pointer) Destroy() {
	p.Deactivate()
	clear(p.bindings)
}

// Session returns the session bound to this sensor, or nil.
func (p *Pointer) Session() *sortable.Session {
	return p.session
}

// Scrolling reports whether Tick has work to do.
func (p *Pointer) Scrolling() bool {
	return len(p.amounts) > 0
}

// PointerDown starts a session when activator is attached and button is
// the primary one. It reports whether a session started.
func (p *Pointer) PointerDown(activator sortable.Handle, at geometry.Point, button Button) bool {
	if button != ButtonPrimary || p.session != nil {
		return false
	}
	onStart, ok := p.bindings[activator]
	if !ok {
		return false
	}

	s := onStart(&at)
	if s == nil {
		return false
	}
	p.session = s
	return true
}

// PointerMove follows the pointer and recomputes edge auto-scroll.
func (p *Pointer) PointerMove(at geometry.Point) {
	if p.session == nil {
		return
	}
	p.session.OnMove(at, true)

	p.amounts = p.amounts[:0]
	if p.areasAt == nil {
		return
	}
	for _, area := range p.areasAt(at) {
		delta := geometry.EdgeScroll(at, area.Viewport(), p.threshold, p.speed)
		if !delta.IsZero() {
			p.amounts = append(p.amounts, scrollAmount{area: area, delta: delta})
		}
	}
}

// PointerUp drops the active item.
func (p *Pointer) PointerUp(geometry.Point) {
	if p.session == nil {
		return
	}
	s := p.session
	p.amounts = nil
	s.OnDrop()
}

// Tick applies one frame of auto-scroll and lets the session refresh its
// geometry.
func (p *Pointer) Tick() {
	if p.session == nil || len(p.amounts) == 0 {
		return
	}
	for _, amount := range p.amounts {
		amount.area.ScrollBy(amount.delta)
	}
	p.logger.Debug("auto-scroll", "areas", len(p.amounts))
	p.session.OnScroll()
}
