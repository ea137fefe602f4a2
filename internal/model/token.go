package model

import "time"

const (
	GrantStateIssued   = "issued"
	GrantStateConsumed = "consumed"
)

// DownloadGrant is the stored side of a download token: one row per
// issued token, keyed by the token's jti. Every field except State is
// immutable after creation; State moves issued -> consumed exactly
// once, enforced by the repository's conditional update. Expiry is a
// validity check at exchange time, not a stored transition.
type DownloadGrant struct {
	ID         string
	FileID     string
	IssuedTo   string
	IssuedAt   time.Time
	ExpiresAt  time.Time
	State      string
	ConsumedAt *time.Time
}

// DownloadClaims are the verified contents of a presented download
// token, before the grant row has been consulted.
type DownloadClaims struct {
	TokenID   string
	FileID    string
	IssuedTo  string
	ExpiresAt time.Time
}
