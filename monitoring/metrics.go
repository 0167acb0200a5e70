// Package monitoring exposes Prometheus metrics for the service.
package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SyncAttempts counts outbound marketing sync calls by operation and outcome
	SyncAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "directory_marketing_sync_total",
		Help: "Outbound marketing platform sync attempts by operation and outcome.",
	}, []string{"operation", "outcome"})

	// WebhookEvents counts inbound webhook events by type and result
	WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "directory_webhook_events_total",
		Help: "Inbound marketing webhook events by type and result.",
	}, []string{"type", "result"})

	// NotificationsSent counts operator notification emails by outcome
	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "directory_notifications_total",
		Help: "Operator notification emails by outcome.",
	}, []string{"outcome"})
)

// Handler returns the HTTP handler serving the metrics endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}
