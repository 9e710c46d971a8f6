package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pizzastore/pizzastore/application/port/inbound"
	"github.com/pizzastore/pizzastore/domain/apperror"
	"github.com/pizzastore/pizzastore/domain/valueobject"
	"github.com/pizzastore/pizzastore/infrastructure/http/middleware"
	"github.com/pizzastore/pizzastore/infrastructure/http/response"
	"github.com/pizzastore/pizzastore/infrastructure/http/validator"
	"github.com/pizzastore/pizzastore/infrastructure/service/logger"
)

const (
	RefreshCookieName = "refresh_token"
	RefreshCookiePath = "/auth"
)

type CookieConfig struct {
	MaxAge time.Duration
	Secure bool
}

type AuthHandler struct {
	authUseCase inbound.AuthUseCase
	validator   *validator.Validator
	cookie      CookieConfig
	logger      logger.Logger
}

func NewAuthHandler(authUseCase inbound.AuthUseCase, v *validator.Validator, cookie CookieConfig, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
		validator:   v,
		cookie:      cookie,
		logger:      log,
	}
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req inbound.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, apperror.Validation("Invalid request body", err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.Fail(w, err)
		return
	}

	user, err := h.authUseCase.SignUp(r.Context(), req)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusCreated, user)
}

// SignIn takes form fields username and password; username may hold an email.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		response.Fail(w, apperror.Validation("Invalid form body", err))
		return
	}
	req := inbound.SignInRequest{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	}
	if err := h.validator.Struct(req); err != nil {
		response.Fail(w, err)
		return
	}

	pair, err := h.authUseCase.SignIn(r.Context(), req)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	h.writeTokens(w, pair)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var token string
	if cookie, err := r.Cookie(RefreshCookieName); err == nil {
		token = cookie.Value
	}

	pair, err := h.authUseCase.Refresh(r.Context(), inbound.RefreshRequest{RefreshToken: token})
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	h.writeTokens(w, pair)
}

func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetCurrentUser(r.Context())
	if !ok {
		response.Fail(w, apperror.Unauthorized("Not authenticated"))
		return
	}
	if err := h.authUseCase.SignOut(r.Context(), user); err != nil {
		fail(w, r, h.logger, err)
		return
	}

	http.SetCookie(w, h.refreshCookie("", -1))
	response.NoContent(w)
}

// Me returns the user embedded in the access token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetCurrentUser(r.Context())
	if !ok {
		response.Fail(w, apperror.Unauthorized("Not authenticated"))
		return
	}
	response.JSON(w, http.StatusOK, user)
}

func (h *AuthHandler) writeTokens(w http.ResponseWriter, pair *valueobject.TokenPair) {
	http.SetCookie(w, h.refreshCookie(pair.RefreshToken, int(h.cookie.MaxAge.Seconds())))
	w.Header().Set("Cache-Control", "no-store")
	response.JSON(w, http.StatusOK, TokenResponse{
		AccessToken: pair.AccessToken,
		TokenType:   pair.TokenType,
		ExpiresIn:   pair.ExpiresIn,
	})
}

func (h *AuthHandler) refreshCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     RefreshCookieName,
		Value:    value,
		Path:     RefreshCookiePath,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	}
}
