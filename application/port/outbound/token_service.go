package outbound

import (
	"time"

	"github.com/pizzastore/pizzastore/domain/valueobject"
)

type TokenService interface {
	Encode(payload map[string]interface{}, ttl time.Duration) (string, error)
	Decode(token string) (map[string]interface{}, error)
	IssueForUser(user valueobject.UserSnapshot) (string, error)
	ValidateAccessToken(token string) (*valueobject.UserSnapshot, error)
	AccessTokenTTL() time.Duration
}
