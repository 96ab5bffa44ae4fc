package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// Metrics provides observability for the payment ledger.
type Metrics struct {
	InvoicesCreated  prometheus.Counter
	PaymentsRecorded prometheus.Counter
	AmountRecorded   prometheus.Counter
	PaymentsRejected *prometheus.CounterVec
	PaymentsDeleted  prometheus.Counter
}

// New registers the ledger metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		InvoicesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "reratrack_invoices_created_total",
			Help: "Total number of invoices created",
		}),
		PaymentsRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "reratrack_payments_recorded_total",
			Help: "Total number of partial payments recorded",
		}),
		AmountRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "reratrack_payment_amount_recorded_total",
			Help: "Sum of recorded payment amounts",
		}),
		PaymentsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "reratrack_payments_rejected_total",
			Help: "Payment receipts rejected, by reason (invalid_amount, exceeds_balance, not_found)",
		}, []string{"reason"}),
		PaymentsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "reratrack_payments_deleted_total",
			Help: "Total number of settled invoices deleted",
		}),
	}
}

func (m *Metrics) IncrementInvoicesCreated() {
	m.InvoicesCreated.Inc()
}

func (m *Metrics) ObservePaymentRecorded(amount decimal.Decimal) {
	m.PaymentsRecorded.Inc()
	m.AmountRecorded.Add(amount.InexactFloat64())
}

func (m *Metrics) IncrementRejected(reason string) {
	m.PaymentsRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncrementDeleted() {
	m.PaymentsDeleted.Inc()
}
