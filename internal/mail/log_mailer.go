package mail

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// LogMailer stands in for a real provider in dev and tests: it logs
// the message instead of delivering it.
type LogMailer struct {
	log *slog.Logger
}

func NewLogMailer(log *slog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	// Optional: simulate provider outage
	if os.Getenv("MAILER_FAIL") == "1" {
		return fmt.Errorf("provider down (simulated)")
	}

	m.log.InfoContext(ctx, "mail.send",
		"to", msg.To,
		"subject", msg.Subject,
	)
	return nil
}
