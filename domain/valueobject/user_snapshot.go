package valueobject

import (
	"github.com/google/uuid"

	"github.com/pizzastore/pizzastore/domain/entity"
)

// UserSnapshot is the copy of a user embedded in an access token. It is
// trusted on signature and not re-read from storage until the token expires.
type UserSnapshot struct {
	ID       uuid.UUID   `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     entity.Role `json:"role"`
}

func SnapshotOf(u *entity.User) UserSnapshot {
	return UserSnapshot{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}
