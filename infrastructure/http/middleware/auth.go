package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/pizzastore/pizzastore/application/port/inbound"
	"github.com/pizzastore/pizzastore/domain/permission"
	"github.com/pizzastore/pizzastore/domain/valueobject"
	"github.com/pizzastore/pizzastore/infrastructure/http/response"
)

type currentUserKey struct{}

// AuthMiddleware resolves the bearer token of a request into the user it was
// issued for and gates handlers on that user's permissions.
type AuthMiddleware struct {
	authUseCase inbound.AuthUseCase
}

func NewAuthMiddleware(authUseCase inbound.AuthUseCase) *AuthMiddleware {
	return &AuthMiddleware{
		authUseCase: authUseCase,
	}
}

// RequirePermissions rejects the request unless it carries a valid access
// token whose role grants every permission in perms. With no perms only a
// valid token is required.
func (m *AuthMiddleware) RequirePermissions(perms ...permission.Permission) func(http.Handler) http.Handler {
	required := permission.NewSet(perms...)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := m.authUseCase.CurrentUser(r.Context(), bearerToken(r), required)
			if err != nil {
				response.Fail(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithCurrentUser(r.Context(), *user)))
		})
	}
}

// bearerToken returns the token of an "Authorization: Bearer <token>" header,
// or "" when the header is absent or uses another scheme.
func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func WithCurrentUser(ctx context.Context, user valueobject.UserSnapshot) context.Context {
	return context.WithValue(ctx, currentUserKey{}, user)
}

// GetCurrentUser returns the user stored by RequirePermissions.
func GetCurrentUser(ctx context.Context) (valueobject.UserSnapshot, bool) {
	user, ok := ctx.Value(currentUserKey{}).(valueobject.UserSnapshot)
	return user, ok
}
