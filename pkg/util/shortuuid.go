package util

import (
	"github.com/google/uuid"
	"github.com/mr-tron/base58"
)

// NewShortID returns a new base58 encoded random UUID.
func NewShortID() string {
	return ShortID(uuid.New())
}

// ShortID base58 encodes the 16 raw bytes of id.
func ShortID(id uuid.UUID) string {
	return base58.Encode(id[:])
}
