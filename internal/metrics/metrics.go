package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "autosign"

// Reasons a signature submission is rejected.
const (
	RejectAlreadySigned = "already_signed"
	RejectNotFound      = "not_found"
	RejectInvalidInput  = "invalid_input"
	RejectForbidden     = "forbidden"
	RejectInternal      = "internal"
)

var (
	signaturesSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signatures_submitted_total",
		Help:      "Signatures accepted into the ledger.",
	})

	signaturesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signatures_rejected_total",
		Help:      "Signature submissions that were rejected, by reason.",
	}, []string{"reason"})

	contractsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "contracts_created_total",
		Help:      "Contracts created with their signers provisioned.",
	})

	contractsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "contracts_completed_total",
		Help:      "Contracts that reached the completed state.",
	})

	notificationsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_failed_total",
		Help:      "Signer invitations that could not be handed to the mail channel.",
	})
)

func IncSignatureSubmitted() {
	signaturesSubmitted.Inc()
}

func IncSignatureRejected(reason string) {
	signaturesRejected.WithLabelValues(reason).Inc()
}

func IncContractCreated() {
	contractsCreated.Inc()
}

func IncContractCompleted() {
	contractsCompleted.Inc()
}

func IncNotificationFailed() {
	notificationsFailed.Inc()
}

// Handler exposes the default registry in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
