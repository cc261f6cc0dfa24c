package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/custodia-labs/credentials-core/internal/core/domain"
)

const (
	outcomeSuccess            = "success"
	outcomeDuplicateAccount   = "duplicate_account"
	outcomeUserNotFound       = "user_not_found"
	outcomeInvalidCredentials = "invalid_credentials"
	outcomeError              = "error"
)

var (
	// authRequests counts register and login calls by outcome.
	authRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "credentials_auth_requests_total",
		Help: "Total number of register and login calls by outcome",
	}, []string{"operation", "outcome"})

	// passwordHashDuration tracks bcrypt latency at the configured cost.
	passwordHashDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "credentials_password_hash_duration_seconds",
		Help:    "Histogram of password hashing latency in seconds",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
	})
)

func recordOutcome(op, outcome string) {
	authRequests.WithLabelValues(op, outcome).Inc()
}

func outcomeOf(err error) string {
	switch err {
	case domain.ErrDuplicateAccount:
		return outcomeDuplicateAccount
	case domain.ErrUserNotFound:
		return outcomeUserNotFound
	case domain.ErrInvalidCredentials:
		return outcomeInvalidCredentials
	default:
		return outcomeError
	}
}
