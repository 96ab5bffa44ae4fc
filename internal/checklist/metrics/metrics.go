package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the checklist module.
type Metrics struct {
	ChecklistsProvisioned prometheus.Counter
	Updates               *prometheus.CounterVec
}

// New registers the checklist metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ChecklistsProvisioned: factory.NewCounter(prometheus.CounterOpts{
			Name: "reratrack_checklists_provisioned_total",
			Help: "Total number of document checklists provisioned for new clients",
		}),
		Updates: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "reratrack_checklist_updates_total",
			Help: "Checklist mutations by operation (set_status, add_item)",
		}, []string{"op"}),
	}
}

func (m *Metrics) IncrementProvisioned() {
	m.ChecklistsProvisioned.Inc()
}

func (m *Metrics) IncrementUpdate(op string) {
	m.Updates.WithLabelValues(op).Inc()
}
