package sortable

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"text/template"

	"github.com/1broseidon/sortable/internal/collision"
	"github.com/1broseidon/sortable/internal/config"
	"github.com/1broseidon/sortable/internal/strategy"
)

// AnnouncementContext is what announcement templates are rendered with.
type AnnouncementContext struct {
	ActiveLabel    string
	ContainerLabel string
	// Position is the 1-based target position.
	Position int
}

// Announcements renders the four screen reader messages.
type Announcements struct {
	DragStart  func(AnnouncementContext) string
	DragOver   func(AnnouncementContext) string
	Drop       func(AnnouncementContext) string
	DragCancel func(AnnouncementContext) string
}

// Options configures a Registry. Build one with DefaultOptions and Option
// values; a Registry keeps its own copy.
type Options struct {
	// Filter decides whether a container child is sortable.
	Filter func(item Handle) bool
	// Activator returns the focusable surface that starts a session for
	// item, or nil to skip the item.
	Activator          func(item Handle) Handle
	Sensors            []Sensor
	CollisionDetection collision.Detector
	Strategy           strategy.Strategy
	Announcements      Announcements
	Announcer          Announcer
	CancelKeys         []Key
	Scheduler          Scheduler
	Logger             *slog.Logger
}

// Option overrides part of the default options.
type Option func(*Options)

// DefaultOptions returns a fresh default configuration.
func DefaultOptions() Options {
	return Options{
		Filter:             func(Handle) bool { return true },
		Activator:          func(item Handle) Handle { return item },
		CollisionDetection: collision.ClosestCenter,
		Strategy:           strategy.RectSorting,
		Announcements:      DefaultAnnouncements(),
		CancelKeys:         []Key{KeyEscape},
		Logger:             slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func resolveOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	// Copy slices so callers cannot mutate a live registry's options.
	o.Sensors = append([]Sensor(nil), o.Sensors...)
	o.CancelKeys = append([]Key(nil), o.CancelKeys...)
	return o
}

// WithFilter excludes items for which filter returns false.
func WithFilter(filter func(item Handle) bool) Option {
	return func(o *Options) { o.Filter = filter }
}

// WithActivator maps an item to the handle sensors attach to. A nil result
// leaves the item without sensors.
func WithActivator(activator func(item Handle) Handle) Option {
	return func(o *Options) { o.Activator = activator }
}

// WithSensors sets the sensors attached to every item.
func WithSensors(sensors ...Sensor) Option {
	return func(o *Options) { o.Sensors = sensors }
}

// WithCollisionDetection sets the detector that picks the over target.
func WithCollisionDetection(d collision.Detector) Option {
	return func(o *Options) { o.CollisionDetection = d }
}

// WithStrategy sets how displaced items are offset.
func WithStrategy(s strategy.Strategy) Option {
	return func(o *Options) { o.Strategy = s }
}

// WithAnnouncements replaces the announcement messages.
func WithAnnouncements(a Announcements) Option {
	return func(o *Options) { o.Announcements = a }
}

// WithAnnouncer sets where announcements are delivered.
func WithAnnouncer(a Announcer) Option {
	return func(o *Options) { o.Announcer = a }
}

// WithCancelKeys sets the keys that cancel a live session.
func WithCancelKeys(keys ...Key) Option {
	return func(o *Options) { o.CancelKeys = keys }
}

// WithScheduler sets where deferred work is queued. The default is a
// TaskQueue drained by Registry.Flush.
func WithScheduler(s Scheduler) Option {
	return func(o *Options) { o.Scheduler = s }
}

// WithLogger sets the logger. A nil logger keeps the default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// DefaultAnnouncements returns the built-in English messages.
func DefaultAnnouncements() Announcements {
	in := func(c AnnouncementContext) string {
		if c.ContainerLabel == "" {
			return ""
		}
		return " in " + c.ContainerLabel
	}

	return Announcements{
		DragStart: func(c AnnouncementContext) string {
			return "Picked up " + c.ActiveLabel + in(c)
		},
		DragOver: func(c AnnouncementContext) string {
			return fmt.Sprintf("%s was moved to position %d%s", c.ActiveLabel, c.Position, in(c))
		},
		Drop: func(c AnnouncementContext) string {
			return fmt.Sprintf("%s was dropped in position %d%s", c.ActiveLabel, c.Position, in(c))
		},
		DragCancel: func(c AnnouncementContext) string {
			return "Sorting was cancelled. " + c.ActiveLabel + " was dropped."
		},
	}
}

// TemplateAnnouncements builds announcements from text/template sources.
// Empty sources keep the built-in message. A template that fails to execute
// falls back to the built-in message and logs a warning.
func TemplateAnnouncements(src config.Announcements, logger *slog.Logger) (Announcements, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	defaults := DefaultAnnouncements()

	build := func(name, text string, fallback func(AnnouncementContext) string) (func(AnnouncementContext) string, error) {
		if text == "" {
			return fallback, nil
		}
		tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("announcements.%s: %w", name, err)
		}
		return func(c AnnouncementContext) string {
			var buf bytes.Buffer
			if err := tmpl.Execute(&buf, c); err != nil {
				logger.Warn("announcement template failed", "template", name, "error", err)
				return fallback(c)
			}
			return buf.String()
		}, nil
	}

	var (
		out Announcements
		err error
	)
	if out.DragStart, err = build("drag_start", src.DragStart, defaults.DragStart); err != nil {
		return Announcements{}, err
	}
	if out.DragOver, err = build("drag_over", src.DragOver, defaults.DragOver); err != nil {
		return Announcements{}, err
	}
	if out.Drop, err = build("drop", src.Drop, defaults.Drop); err != nil {
		return Announcements{}, err
	}
	if out.DragCancel, err = build("drag_cancel", src.DragCancel, defaults.DragCancel); err != nil {
		return Announcements{}, err
	}
	return out, nil
}

// FromConfig maps a loaded configuration onto engine options.
func FromConfig(cfg *config.Config, logger *slog.Logger) ([]Option, error) {
	if cfg == nil {
		return nil, nil
	}

	detector, ok := collision.ByName(cfg.CollisionDetection)
	if !ok {
		return nil, fmt.Errorf("unknown collision detection %q", cfg.CollisionDetection)
	}
	sorting, ok := strategy.ByName(cfg.Strategy)
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q", cfg.Strategy)
	}

	cancelKeys := make([]Key, 0, len(cfg.Keyboard.CancelKeys))
	for _, name := range cfg.Keyboard.CancelKeys {
		k, ok := ParseKey(name)
		if !ok {
			return nil, fmt.Errorf("unknown cancel key %q", name)
		}
		cancelKeys = append(cancelKeys, k)
	}

	announcements, err := TemplateAnnouncements(cfg.Announcements, logger)
	if err != nil {
		return nil, err
	}

	return []Option{
		WithCollisionDetection(detector),
		WithStrategy(sorting),
		WithCancelKeys(cancelKeys...),
		WithAnnouncements(announcements),
		WithLogger(logger),
	}, nil
}
