package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pizzastore/pizzastore/application/port/inbound"
	"github.com/pizzastore/pizzastore/application/usecase"
	"github.com/pizzastore/pizzastore/application/usecase/catalog"
	"github.com/pizzastore/pizzastore/application/usecase/user_management"
	"github.com/pizzastore/pizzastore/domain/entity"
	"github.com/pizzastore/pizzastore/domain/permission"
	"github.com/pizzastore/pizzastore/infrastructure/adapter/filestore"
	"github.com/pizzastore/pizzastore/infrastructure/adapter/memory"
	"github.com/pizzastore/pizzastore/infrastructure/http/handler"
	"github.com/pizzastore/pizzastore/infrastructure/http/middleware"
	"github.com/pizzastore/pizzastore/infrastructure/http/validator"
	"github.com/pizzastore/pizzastore/infrastructure/service/jwt"
	"github.com/pizzastore/pizzastore/infrastructure/service/logger"
	"github.com/pizzastore/pizzastore/infrastructure/service/metrics"
	"github.com/pizzastore/pizzastore/infrastructure/service/password"
	"github.com/pizzastore/pizzastore/infrastructure/service/ratelimit"
)

const refreshTTL = time.Hour

type app struct {
	t       *testing.T
	handler http.Handler
	users   inbound.UserManagementUseCase
	now     time.Time
}

func newApp(t *testing.T) *app {
	t.Helper()
	a := &app{t: t, now: time.Now().UTC()}
	clock := func() time.Time { return a.now }
	log := logger.NewNopLogger()

	tokens := memory.NewRefreshTokenRepository()
	users := memory.NewUserRepository(tokens)
	store := memory.NewCatalog()
	imageDir := t.TempDir()
	images, err := filestore.NewImageStore(imageDir, "static/img")
	require.NoError(t, err)

	tokenService, err := jwt.NewJWTService("integration-secret", "HS256", 15*time.Minute, jwt.WithClock(clock))
	require.NoError(t, err)
	hasher := password.NewBcryptPasswordService(bcrypt.MinCost)
	table := permission.DefaultTable()
	m := metrics.New()

	auth := usecase.NewAuthUseCase(users, tokens, tokenService, hasher, table, refreshTTL, log,
		usecase.WithClock(clock), usecase.WithEventRecorder(m))
	a.users = user_management.NewUserManagementUseCase(users, tokens, hasher, table)
	v := validator.New()

	a.handler = NewRouter(RouterConfig{
		AuthHandler:     handler.NewAuthHandler(auth, v, handler.CookieConfig{MaxAge: refreshTTL}, log),
		CategoryHandler: handler.NewCategoryHandler(catalog.NewCategoryUseCase(store.Categories()), v, log),
		ProductHandler:  handler.NewProductHandler(catalog.NewProductUseCase(store.Products(), images), v, 1<<20, log),
		UserHandler:     handler.NewUserHandler(a.users, log),
		AuthMiddleware:  middleware.NewAuthMiddleware(auth),
		RateLimit: middleware.NewRateLimitMiddleware(
			ratelimit.NewLocalRateLimitService(1000, log),
			middleware.RateLimitConfig{Attempts: 20, Window: time.Minute, BlockDuration: time.Minute},
			log,
		),
		Metrics:  m,
		ImageDir: imageDir,
		Logger:   log,
	})
	return a
}

func (a *app) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *app) signUp(username, email, pw string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]string{"username": username, "email": email, "password": pw})
	return a.do(httptest.NewRequest(http.MethodPost, "/auth/sign-up", bytes.NewReader(body)))
}

func (a *app) signIn(username, pw string) *httptest.ResponseRecorder {
	form := url.Values{"username": {username}, "password": {pw}}
	req := httptest.NewRequest(http.MethodPost, "/auth/sign-in", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req)
}

func (a *app) refresh(cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/auth/refresh", nil)
	if cookie != nil {
		req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	}
	return a.do(req)
}

func (a *app) authed(method, target, token string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func accessToken(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body handler.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.AccessToken)
	return body.AccessToken
}

func refreshCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == handler.RefreshCookieName {
			return c
		}
	}
	t.Fatal("refresh cookie not set")
	return nil
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Status)
	return body.Message
}

func TestSignUpAndSignIn(t *testing.T) {
	a := newApp(t)

	rec := a.signUp("john", "john@x.io", "pizza")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = a.signUp("john", "other@x.io", "pizza")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "User already exists", message(t, rec))

	rec = a.signIn("john", "pizza")
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := refreshCookie(t, rec)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/auth", cookie.Path)

	rec = a.signIn("john@x.io", "pizza")
	assert.Equal(t, http.StatusOK, rec.Code, "email works as identifier")

	wrongPassword := a.signIn("john", "calzone")
	unknownUser := a.signIn("nobody", "pizza")
	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownUser.Code)
	assert.Equal(t, message(t, wrongPassword), message(t, unknownUser))
}

func TestSignUp_PasswordByteLimit(t *testing.T) {
	a := newApp(t)

	rec := a.signUp("multi", "multi@x.com", strings.Repeat("é", 40))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "password must be at most 72 bytes", message(t, rec))

	pw := strings.Repeat("é", 36)
	require.Equal(t, http.StatusCreated, a.signUp("multi", "multi@x.com", pw).Code)
	assert.Equal(t, http.StatusOK, a.signIn("multi", pw).Code)
}

func TestRefreshRotation(t *testing.T) {
	a := newApp(t)
	require.Equal(t, http.StatusCreated, a.signUp("john", "john@x.io", "pizza").Code)
	first := refreshCookie(t, a.signIn("john", "pizza"))

	rec := a.refresh(first)
	require.Equal(t, http.StatusOK, rec.Code)
	second := refreshCookie(t, rec)
	assert.NotEqual(t, first.Value, second.Value)

	rec = a.refresh(first)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "rotated token is dead")

	rec = a.refresh(nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Missing refresh token", message(t, rec))

	a.now = a.now.Add(refreshTTL + time.Second)
	rec = a.refresh(second)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Refresh token is expired or does not exist", message(t, rec))
}

func TestPermissions(t *testing.T) {
	a := newApp(t)
	ctx := context.Background()

	require.Equal(t, http.StatusCreated, a.signUp("john", "john@x.io", "pizza").Code)
	userToken := accessToken(t, a.signIn("john", "pizza"))

	_, err := a.users.CreateUser(ctx, inbound.CreateUserRequest{Username: "root", Email: "root@x.io", Password: "secret", Role: entity.RoleAdmin})
	require.NoError(t, err)
	adminToken := accessToken(t, a.signIn("root", "secret"))

	rec := a.do(httptest.NewRequest(http.MethodPost, "/category", strings.NewReader(`{"name":"Pizza"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(a.authed(http.MethodPost, "/category", "not-a-jwt", strings.NewReader(`{"name":"Pizza"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(a.authed(http.MethodPost, "/category", userToken, strings.NewReader(`{"name":"Pizza"}`)))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = a.do(a.authed(http.MethodPost, "/category", adminToken, strings.NewReader(`{"name":"Pizza"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)
	var pizza entity.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pizza))

	rec = a.do(httptest.NewRequest(http.MethodGet, "/category", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"name":"Pizza"}]`, rec.Body.String())

	rec = a.do(a.authed(http.MethodGet, "/auth/me", userToken, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"user"`)

	t.Run("product upload is served back", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("name", "Margherita"))
		require.NoError(t, mw.WriteField("category_id", "1"))
		require.NoError(t, mw.WriteField("weight", "450"))
		require.NoError(t, mw.WriteField("price", "500"))
		fw, err := mw.CreateFormFile("image", "margherita.png")
		require.NoError(t, err)
		_, _ = fw.Write([]byte("png bytes"))
		require.NoError(t, mw.Close())

		req := a.authed(http.MethodPost, "/product", adminToken, &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := a.do(req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var product entity.Product
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &product))
		rec = a.do(httptest.NewRequest(http.MethodGet, "/"+product.Image, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "png bytes", rec.Body.String())

		rec = a.do(a.authed(http.MethodDelete, "/category/1", adminToken, nil))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("deleted user cannot refresh", func(t *testing.T) {
		signIn := a.signIn("john", "pizza")
		cookie := refreshCookie(t, signIn)
		me := entityID(t, a.do(a.authed(http.MethodGet, "/auth/me", accessToken(t, signIn), nil)))

		rec := a.do(a.authed(http.MethodDelete, "/users/"+me, userToken, nil))
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = a.do(a.authed(http.MethodDelete, "/users/"+me, adminToken, nil))
		require.Equal(t, http.StatusNoContent, rec.Code)

		assert.Equal(t, http.StatusUnauthorized, a.refresh(cookie).Code)
	})
}

func entityID(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.ID
}

func TestSignOut(t *testing.T) {
	a := newApp(t)
	require.Equal(t, http.StatusCreated, a.signUp("john", "john@x.io", "pizza").Code)
	signIn := a.signIn("john", "pizza")
	cookie := refreshCookie(t, signIn)

	rec := a.do(a.authed(http.MethodPost, "/auth/sign-out", accessToken(t, signIn), nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	assert.Equal(t, http.StatusUnauthorized, a.refresh(cookie).Code)
}

func TestOperationalEndpoints(t *testing.T) {
	a := newApp(t)
	a.signIn("nobody", "pw")

	rec := a.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(middleware.CorrelationIDHeader))

	rec = a.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `pizzastore_auth_events_total{event="sign_in",outcome="failure"} 1`)

	rec = a.do(httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found", message(t, rec))

	rec = a.do(httptest.NewRequest(http.MethodPut, "/category", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = a.do(httptest.NewRequest(http.MethodGet, "/static/img/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSignInRateLimit(t *testing.T) {
	a := newApp(t)
	for i := 0; i < 20; i++ {
		require.Equal(t, http.StatusUnauthorized, a.signIn("nobody", "pw").Code)
	}
	rec := a.signIn("nobody", "pw")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestSignInRateLimit_SpoofedForwardedFor(t *testing.T) {
	a := newApp(t)
	codes := map[int]int{}
	for i := 0; i < 30; i++ {
		form := url.Values{"username": {"nobody"}, "password": {"pw"}}
		req := httptest.NewRequest(http.MethodPost, "/auth/sign-in", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		codes[a.do(req).Code]++
	}
	assert.Equal(t, 20, codes[http.StatusUnauthorized])
	assert.Equal(t, 10, codes[http.StatusTooManyRequests])
}
