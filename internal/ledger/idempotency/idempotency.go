// Package idempotency remembers Idempotency-Key headers so a retried payment
// receipt is recorded once.
package idempotency

import (
	"strings"
	"time"

	id "reratrack/pkg/domain"
	dErrors "reratrack/pkg/domain-errors"
)

// State is what Reserve found for a key.
type State int

const (
	// Reserved means the caller now holds the key and must Complete or
	// Release it.
	Reserved State = iota
	// InProgress means another request holds the key and has not finished.
	InProgress
	// Completed means a request with this key already succeeded.
	Completed
)

func (s State) String() string {
	switch s {
	case Reserved:
		return "reserved"
	case InProgress:
		return "in_progress"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// MaxKeyLength bounds client-supplied keys.
const MaxKeyLength = 128

// DefaultTTL is how long a key is remembered when none is configured.
const DefaultTTL = 24 * time.Hour

// Key scopes a client-supplied key to the owner and payment it was used on,
// so the same header value on a different invoice is a different request.
func Key(ownerID id.UserID, paymentID id.PaymentID, raw string) string {
	return ownerID.String() + ":" + paymentID.String() + ":" + raw
}

// ValidateKey trims raw and rejects keys that are too long or contain
// whitespace. An empty key means the request is not idempotent.
func ValidateKey(raw string) (string, error) {
	key := strings.TrimSpace(raw)
	if len(key) > MaxKeyLength {
		return "", dErrors.New(dErrors.CodeValidation, "Idempotency-Key is too long")
	}
	if strings.ContainsAny(key, " \t\r\n") {
		return "", dErrors.New(dErrors.CodeValidation, "Idempotency-Key must not contain whitespace")
	}
	return key, nil
}
