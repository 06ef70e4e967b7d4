package noop

import (
	"context"
	"log"

	"docrecon/internal/email"
	"docrecon/internal/port"
)

type noopSender struct {
	frontendURL string
}

// NewNoopSender creates a no-op EmailSender that logs notices to stdout.
func NewNoopSender(frontendURL string) port.EmailSender {
	return &noopSender{frontendURL: frontendURL}
}

func (s *noopSender) SendFinalizedEmail(_ context.Context, toEmail string, notice port.FinalizedNotice) error {
	msg := email.FinalizedMessage(notice, s.frontendURL)
	log.Printf("[NOOP EMAIL] %s to %s: %s", msg.Subject, toEmail, msg.Link)
	return nil
}
