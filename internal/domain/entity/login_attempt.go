package entity

import (
	"time"

	"github.com/google/uuid"
)

// LoginAttempt is one row of the append-only authentication audit log. Rows
// are never updated or deleted by normal operation; they feed the login
// history view and the per-IP rate limiter.
type LoginAttempt struct {
	ID          uuid.UUID    // The unique ID for this attempt record.
	UserID      uuid.UUID    // The targeted user, when known. uuid.Nil until the email lookup succeeds.
	Provider    ProviderType // Which sign-in method was attempted.
	IPAddress   string       // Source IP of the request, as reported by the delivery layer.
	UserAgent   string       // The client's User-Agent header.
	Successful  bool         // Whether the attempt resulted in issued tokens.
	AttemptedAt time.Time    // When the attempt happened.
}
