package domain

import (
	"strings"

	"github.com/google/uuid"
)

// NewBookingReference returns a token of the form BK-XXXXXXXX (8 uppercase
// alphanumeric characters). The source is opaque but not collision-free, so
// the persistence layer must retry on a duplicate.
func NewBookingReference() string {
	return "BK-" + randomToken(8)
}

// NewTransactionID returns a token of the form TXN-XXXXXXXXXXXX assigned to
// successful payments.
func NewTransactionID() string {
	return "TXN-" + randomToken(12)
}

func randomToken(n int) string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return raw[:n]
}
