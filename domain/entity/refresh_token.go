package entity

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is keyed by UserID: a user owns at most one row.
type RefreshToken struct {
	UserID    uuid.UUID `json:"user_id"`
	Token     uuid.UUID `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

func NewRefreshToken(userID uuid.UUID, now time.Time, ttl time.Duration) *RefreshToken {
	return &RefreshToken{
		UserID:    userID,
		Token:     uuid.New(),
		ExpiresAt: now.Add(ttl).UTC(),
	}
}

func (rt *RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(rt.ExpiresAt)
}
