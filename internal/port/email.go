package port

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FinalizedNotice describes a document whose corrections were finalized.
type FinalizedNotice struct {
	DocumentID   uuid.UUID
	DocumentName string
	PageCount    int
	Corrected    int
	FinalizedAt  time.Time
}

// EmailSender defines the contract for sending emails.
type EmailSender interface {
	SendFinalizedEmail(ctx context.Context, toEmail string, notice FinalizedNotice) error
}
