// Package metrics holds the per-run Prometheus registry. The counters feed
// the optional /metrics listener used when supervising long runs.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	AccountsProcessed  prometheus.Counter
	AccountsFailed     prometheus.Counter
	ClaimsSubmitted    prometheus.Counter
	ClaimsSucceeded    prometheus.Counter
	ClaimsFailed       prometheus.Counter
	CompletionsFetched prometheus.Counter
	EntriesDropped     prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		AccountsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "claimd_accounts_processed_total",
			Help: "Accounts whose pipeline ran to completion.",
		}),
		AccountsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "claimd_accounts_failed_total",
			Help: "Accounts abandoned after a pipeline error.",
		}),
		ClaimsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "claimd_claims_submitted_total",
			Help: "Claim requests sent to the mission service.",
		}),
		ClaimsSucceeded: factory.NewCounter(prometheus.CounterOpts{
			Name: "claimd_claims_succeeded_total",
			Help: "Claim requests acknowledged by the mission service.",
		}),
		ClaimsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "claimd_claims_failed_total",
			Help: "Claim requests rejected or failed in transit.",
		}),
		CompletionsFetched: factory.NewCounter(prometheus.CounterOpts{
			Name: "claimd_completions_fetched_total",
			Help: "Completion entries returned by the mission service.",
		}),
		EntriesDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "claimd_completion_entries_dropped_total",
			Help: "Completion entries lacking a numeric mission id.",
		}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
