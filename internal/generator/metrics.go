package generator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "lobbygen"

// Metrics counts what the generator did during a run. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	GroupsGenerated  prometheus.Counter
	PlayersGenerated prometheus.Counter
	IDCollisions     prometheus.Counter
	QuotaRejections  prometheus.Counter
	UsageResets      prometheus.Counter
	ShortGroups      prometheus.Counter
	GroupSize        prometheus.Histogram
}

// NewMetrics creates the generator metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		GroupsGenerated: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "groups_generated_total",
			Help:      "Groups generated.",
		}),
		PlayersGenerated: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "players_generated_total",
			Help:      "Players generated into pools.",
		}),
		IDCollisions: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "id_collisions_total",
			Help:      "Identifier draws rejected because the identifier was taken.",
		}),
		QuotaRejections: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "quota_rejections_total",
			Help:      "Role quota draws rejected for violating the per-role minimum.",
		}),
		UsageResets: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "usage_resets_total",
			Help:      "Times the used-player set was cleared.",
		}),
		ShortGroups: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "short_groups_total",
			Help:      "Groups that got fewer members than drawn because too few players qualified.",
		}),
		GroupSize: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "group_size",
			Help:      "Members per generated group, leader included.",
			Buckets:   prometheus.LinearBuckets(1, 1, DefaultGroupSize),
		}),
	}
}

func (m *Metrics) groupGenerated(size int) {
	if m == nil {
		return
	}
	m.GroupsGenerated.Inc()
	m.GroupSize.Observe(float64(size))
}

func (m *Metrics) playersGenerated(n int) {
	if m == nil {
		return
	}
	m.PlayersGenerated.Add(float64(n))
}

func (m *Metrics) idCollision() {
	if m == nil {
		return
	}
	m.IDCollisions.Inc()
}

func (m *Metrics) quotaRejection() {
	if m == nil {
		return
	}
	m.QuotaRejections.Inc()
}

func (m *Metrics) usageReset() {
	if m == nil {
		return
	}
	m.UsageResets.Inc()
}

func (m *Metrics) shortGroup() {
	if m == nil {
		return
	}
	m.ShortGroups.Inc()
}
