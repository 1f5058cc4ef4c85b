package models

import "time"

// Binding maps a bearer token to its currently valid opaque key.
type Binding struct {
	Token     string
	Key       string
	ExpiresAt time.Time
}

// Expired reports whether the key has passed its expiry at now.
func (b *Binding) Expired(now time.Time) bool {
	return now.After(b.ExpiresAt)
}
