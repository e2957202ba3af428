package services

import "github.com/prometheus/client_golang/prometheus"

var (
	paymentsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "recharge_payments_created_total",
		Help: "Payments accepted by the create endpoint.",
	})

	paymentStatusUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recharge_payment_status_updates_total",
			Help: "Payment status updates by new status.",
		},
		[]string{"status"},
	)

	upiLinksGenerated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "recharge_upi_links_generated_total",
		Help: "UPI deep links built for payments.",
	})
)

func init() {
	prometheus.MustRegister(paymentsCreated, paymentStatusUpdates, upiLinksGenerated)
}
