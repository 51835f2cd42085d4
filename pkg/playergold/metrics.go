package playergold

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "playergold_client",
			Name:      "requests_total",
			Help:      "API requests by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	authenticationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "playergold_client",
			Name:      "authentications_total",
			Help:      "Token requests by outcome.",
		},
		[]string{"outcome"},
	)
)

const (
	outcomeSuccess   = "success"
	outcomeTransport = "transport_error"
	outcomeDecode    = "decode_error"

	// the operation's own request was never sent
	outcomeAuth = "auth_error"
)

func observe(op string, err error) {
	outcome := outcomeSuccess
	switch {
	case err == nil:
	case IsDecode(err):
		outcome = outcomeDecode
	default:
		outcome = outcomeTransport
	}
	observeOutcome(op, outcome)
}

func observeOutcome(op, outcome string) {
	if op == opAuthenticate {
		authenticationsTotal.WithLabelValues(outcome).Inc()
		return
	}
	requestsTotal.WithLabelValues(op, outcome).Inc()
}
