// Package metrics exports session lifecycle counters to prometheus.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/1broseidon/sortable/internal/sortable"
)

// Collector counts session outcomes. Attach it to one or more registries.
type Collector struct {
	sessionsStarted prometheus.Counter
	drops           *prometheus.CounterVec
	cancels         prometheus.Counter
	overChanges     prometheus.Counter
	vetoes          *prometheus.CounterVec
	duration        prometheus.Histogram

	now       func() time.Time
	started   time.Time
	committed bool
	cancelled bool
}

// New creates a collector and registers it with reg.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		sessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sortable_sessions_started_total",
			Help: "Total number of drag sessions that started",
		}),
		drops: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sortable_drops_total",
				Help: "Total number of drops, by whether the reorder was committed",
			},
			[]string{"committed"},
		),
		cancels: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sortable_cancels_total",
			Help: "Total number of cancelled sessions",
		}),
		overChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sortable_over_changes_total",
			Help: "Total number of accepted drop target changes",
		}),
		vetoes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sortable_vetoes_total",
				Help: "Total number of vetoed notifications",
			},
			[]string{"event"},
		),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sortable_session_duration_seconds",
			Help:    "Duration of drag sessions from start to end",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		now: time.Now,
	}

	for _, collector := range []prometheus.Collector{
		c.sessionsStarted, c.drops, c.cancels, c.overChanges, c.vetoes, c.duration,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Attach subscribes the collector to r. The returned func detaches it.
func (c *Collector) Attach(r *sortable.Registry) func() {
	unsubscribe := []func(){
		r.OnOutcome(c.onOutcome),
		r.On(sortable.EventCancel, sortable.Observe(c.onCancel)),
		r.On(sortable.EventEnd, sortable.Observe(c.onEnd)),
	}
	return func() {
		for _, fn := range unsubscribe {
			fn()
		}
	}
}

func (c *Collector) onOutcome(e sortable.Event, proceed bool) {
	if !proceed {
		c.vetoes.WithLabelValues(e.Type.String()).Inc()
		return
	}

	switch e.Type {
	case sortable.EventStart:
		c.sessionsStarted.Inc()
		c.started = c.now()
		c.committed = false
		c.cancelled = false
	case sortable.EventOver:
		c.overChanges.Inc()
	case sortable.EventDrop:
		c.committed = true
	}
}

func (c *Collector) onCancel(sortable.Event) {
	c.cancelled = true
	c.cancels.Inc()
}

func (c *Collector) onEnd(sortable.Event) {
	if c.started.IsZero() {
		return
	}
	c.duration.Observe(c.now().Sub(c.started).Seconds())
	if !c.cancelled {
		c.drops.WithLabelValues(strconv.FormatBool(c.committed)).Inc()
	}
	c.started = time.Time{}
}
