package mail

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// WithMetrics counts send outcomes on the given counter, labelled
// result=sent|failed.
func WithMetrics(inner Mailer, sends *prometheus.CounterVec) Mailer {
	return &countingMailer{inner: inner, sends: sends}
}

type countingMailer struct {
	inner Mailer
	sends *prometheus.CounterVec
}

func (m *countingMailer) Send(ctx context.Context, msg Message) error {
	err := m.inner.Send(ctx, msg)

	result := "sent"
	if err != nil {
		result = "failed"
	}
	m.sends.WithLabelValues(result).Inc()

	return err
}
