package extraction

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Group outcome label values.
const (
	outcomeAccepted = "accepted"
	outcomeDropped  = "dropped"
)

// Metrics counts analyzer activity. A nil *Metrics records nothing.
type Metrics struct {
	// ConversationsTotal counts conversations scanned.
	ConversationsTotal prometheus.Counter

	// MatchesTotal counts pattern hits located.
	MatchesTotal prometheus.Counter

	// GroupsTotal counts match groups by outcome.
	// Labels: outcome (accepted, dropped)
	GroupsTotal *prometheus.CounterVec

	// ProjectsTotal counts unfinished projects produced.
	ProjectsTotal prometheus.Counter

	// Confidence tracks the confidence of every scored group.
	Confidence prometheus.Histogram
}

// NewMetrics registers the analyzer metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ConversationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "aihistory",
			Subsystem: "extraction",
			Name:      "conversations_total",
			Help:      "Total number of conversations analyzed",
		}),
		MatchesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "aihistory",
			Subsystem: "extraction",
			Name:      "matches_total",
			Help:      "Total number of pattern matches located",
		}),
		GroupsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aihistory",
			Subsystem: "extraction",
			Name:      "groups_total",
			Help:      "Total number of match groups by outcome",
		}, []string{"outcome"}),
		ProjectsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "aihistory",
			Subsystem: "extraction",
			Name:      "projects_total",
			Help:      "Total number of unfinished projects detected",
		}),
		Confidence: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "aihistory",
			Subsystem: "extraction",
			Name:      "group_confidence",
			Help:      "Confidence of scored match groups",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
		}),
	}
}

func (m *Metrics) recordConversation(matches int) {
	if m == nil {
		return
	}
	m.ConversationsTotal.Inc()
	m.MatchesTotal.Add(float64(matches))
}

func (m *Metrics) recordGroup(confidence float64, accepted bool) {
	if m == nil {
		return
	}
	m.Confidence.Observe(confidence)
	if accepted {
		m.GroupsTotal.WithLabelValues(outcomeAccepted).Inc()
		m.ProjectsTotal.Inc()
	} else {
		m.GroupsTotal.WithLabelValues(outcomeDropped).Inc()
	}
}
