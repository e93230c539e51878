package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gramotor/lilv-go/pkg/lilv"
)

const namespace = "lilv"

// Prometheus counts lifecycle events with Prometheus collectors.
type Prometheus struct {
	WorldsCreated   prometheus.Counter
	WorldsDestroyed prometheus.Counter
	LiveWorlds      prometheus.Gauge
	NodesReleased   prometheus.Counter
	Materialized    *prometheus.CounterVec
	CacheHits       *prometheus.CounterVec
	Failures        *prometheus.CounterVec
}

var _ lilv.Observer = (*Prometheus)(nil)

// NewPrometheus builds the collectors and registers them on reg. A nil reg
// leaves them unregistered.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	p := &Prometheus{
		WorldsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worlds_created_total",
			Help:      "Total number of native worlds created.",
		}),
		WorldsDestroyed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worlds_destroyed_total",
			Help:      "Total number of native worlds destroyed.",
		}),
		LiveWorlds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "worlds_live",
			Help:      "Number of worlds currently alive.",
		}),
		NodesReleased: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_released_total",
			Help:      "Total number of cached nodes freed during world teardown.",
		}),
		Materialized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_materialized_total",
			Help:      "Total number of nodes materialized, by identifier.",
		}, []string{"identifier"}),
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "node_cache_hits_total",
			Help:      "Total number of node lookups served from the cache, by identifier.",
		}, []string{"identifier"}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "node_resolution_failures_total",
			Help:      "Total number of failed node materializations, by identifier.",
		}, []string{"identifier"}),
	}

	if reg == nil {
		return p, nil
	}
	for _, c := range p.collectors() {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Prometheus) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		p.WorldsCreated, p.WorldsDestroyed, p.LiveWorlds, p.NodesReleased,
		p.Materialized, p.CacheHits, p.Failures,
	}
}

func (p *Prometheus) WorldCreated() {
	p.WorldsCreated.Inc()
	p.LiveWorlds.Inc()
}

func (p *Prometheus) WorldDestroyed(nodes int) {
	p.WorldsDestroyed.Inc()
	p.LiveWorlds.Dec()
	p.NodesReleased.Add(float64(nodes))
}

func (p *Prometheus) NodeMaterialized(id lilv.Identifier) {
	p.Materialized.WithLabelValues(id.String()).Inc()
}

func (p *Prometheus) NodeCacheHit(id lilv.Identifier) {
	p.CacheHits.WithLabelValues(id.String()).Inc()
}

func (p *Prometheus) NodeResolutionFailed(id lilv.Identifier) {
	p.Failures.WithLabelValues(id.String()).Inc()
}
