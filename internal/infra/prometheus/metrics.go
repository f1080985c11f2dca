package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "shortlink"

// Collision reasons.
const (
	CollisionConflict = "conflict"
	CollisionFilter   = "filter"
)

// Resolution results.
const (
	ResolveHit   = "hit"
	ResolveMiss  = "miss"
	ResolveError = "error"
)

// LinkMetrics holds the counters the link service updates.
type LinkMetrics struct {
	Created        prometheus.Counter
	Collisions     *prometheus.CounterVec
	CreateFailures *prometheus.CounterVec
	Resolutions    *prometheus.CounterVec
}

// NewLinkMetrics registers the link collectors on reg.
func NewLinkMetrics(reg prometheus.Registerer) *LinkMetrics {
	factory := promauto.With(reg)
	return &LinkMetrics{
		Created: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "links_created_total",
			Help:      "Short links persisted.",
		}),
		Collisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "code_collisions_total",
			Help:      "Candidate codes discarded during allocation.",
		}, []string{"reason"}),
		CreateFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "create_failures_total",
			Help:      "Link creations that returned an error.",
		}, []string{"reason"}),
		Resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Short code lookups by outcome.",
		}, []string{"result"}),
	}
}
