package valueobject

import "time"

const TokenTypeBearer = "bearer"

// TokenPair is the result of a sign-in or refresh. The access token goes to the
// response body, the refresh token to an HTTP-only cookie.
type TokenPair struct {
	AccessToken      string
	TokenType        string
	ExpiresIn        int
	RefreshToken     string
	RefreshExpiresAt time.Time
}

func NewTokenPair(accessToken string, expiresIn time.Duration, refreshToken string, refreshExpiresAt time.Time) *TokenPair {
	return &TokenPair{
		AccessToken:      accessToken,
		TokenType:        TokenTypeBearer,
		ExpiresIn:        int(expiresIn.Seconds()),
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExpiresAt,
	}
}
