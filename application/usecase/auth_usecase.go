package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pizzastore/pizzastore/application/port/inbound"
	"github.com/pizzastore/pizzastore/application/port/outbound"
	"github.com/pizzastore/pizzastore/domain/apperror"
	"github.com/pizzastore/pizzastore/domain/entity"
	"github.com/pizzastore/pizzastore/domain/permission"
	"github.com/pizzastore/pizzastore/domain/valueobject"
	"github.com/pizzastore/pizzastore/infrastructure/service/logger"
)

const (
	msgUserExists         = "User already exists"
	msgMissingRefresh     = "Missing refresh token"
	msgInvalidRefresh     = "Invalid refresh token"
	msgRefreshExpired     = "Refresh token is expired or does not exist"
	msgMissingAccessToken = "Not authenticated"
	eventSignUp           = "sign_up"
	eventSignIn           = "sign_in"
	eventRefresh          = "refresh"
	eventSignOut          = "sign_out"
	securityOrphanedToken = "refresh_token_without_user"
	securityRefreshReplay = "refresh_token_reused"
	severityHigh          = "HIGH"
	severityMedium        = "MEDIUM"
)

type AuthUseCase struct {
	userRepo         outbound.UserRepository
	refreshTokenRepo outbound.RefreshTokenRepository
	tokenService     outbound.TokenService
	passwordService  outbound.PasswordService
	permissions      *permission.Table
	refreshTokenTTL  time.Duration
	logger           logger.Logger
	events           inbound.AuthEventRecorder
	now              func() time.Time
}

type AuthOption func(*AuthUseCase)

func WithClock(now func() time.Time) AuthOption {
	return func(uc *AuthUseCase) {
		uc.now = now
	}
}

func WithEventRecorder(recorder inbound.AuthEventRecorder) AuthOption {
	return func(uc *AuthUseCase) {
		uc.events = recorder
	}
}

func NewAuthUseCase(
	userRepo outbound.UserRepository,
	refreshTokenRepo outbound.RefreshTokenRepository,
	tokenService outbound.TokenService,
	passwordService outbound.PasswordService,
	permissions *permission.Table,
	refreshTokenTTL time.Duration,
	log logger.Logger,
	opts ...AuthOption,
) *AuthUseCase {
	uc := &AuthUseCase{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		tokenService:     tokenService,
		passwordService:  passwordService,
		permissions:      permissions,
		refreshTokenTTL:  refreshTokenTTL,
		logger:           log,
		events:           noopRecorder{},
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *AuthUseCase) SignUp(ctx context.Context, req inbound.SignUpRequest) (*entity.User, error) {
	credentials, err := valueobject.NewCredentials(req.Username, req.Email, req.Password)
	if err != nil {
		return nil, apperror.Validation(err.Error(), err)
	}

	hash, err := uc.passwordService.HashPassword(credentials.Password())
	if err != nil {
		return nil, apperror.Internal("hash password", err)
	}

	user := entity.NewUser(credentials.Username(), credentials.Email(), hash)
	if err := uc.userRepo.Create(ctx, user); err != nil {
		uc.record(ctx, eventSignUp, "", false)
		if errors.Is(err, outbound.ErrUserAlreadyExists) {
			return nil, apperror.Conflict(msgUserExists, err)
		}
		return nil, apperror.Internal("create user", err)
	}

	uc.record(ctx, eventSignUp, user.ID.String(), true)
	return user, nil
}

// SignIn accepts an email or a username. Unknown identifiers and wrong
// passwords fail the same way.
func (uc *AuthUseCase) SignIn(ctx context.Context, req inbound.SignInRequest) (*valueobject.TokenPair, error) {
	if req.Username == "" || req.Password == "" {
		uc.record(ctx, eventSignIn, "", false)
		return nil, apperror.InvalidCredentials()
	}

	user, err := uc.findByIdentifier(ctx, req.Username)
	if err != nil {
		if errors.Is(err, outbound.ErrUserNotFound) {
			uc.record(ctx, eventSignIn, "", false)
			return nil, apperror.InvalidCredentials()
		}
		return nil, apperror.Internal("load user", err)
	}

	ok, err := uc.passwordService.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !ok {
		if err != nil {
			uc.logger.Warn(ctx, "Password verification failed", map[string]interface{}{
				"user_id": user.ID.String(),
				"error":   err.Error(),
			})
		}
		uc.record(ctx, eventSignIn, user.ID.String(), false)
		return nil, apperror.InvalidCredentials()
	}

	accessToken, err := uc.tokenService.IssueForUser(valueobject.SnapshotOf(user))
	if err != nil {
		return nil, apperror.Internal("issue access token", err)
	}

	refreshToken := entity.NewRefreshToken(user.ID, uc.now(), uc.refreshTokenTTL)
	if err := uc.refreshTokenRepo.Replace(ctx, refreshToken); err != nil {
		return nil, apperror.Internal("store refresh token", err)
	}

	uc.record(ctx, eventSignIn, user.ID.String(), true)
	return uc.tokenPair(accessToken, refreshToken), nil
}

func (uc *AuthUseCase) findByIdentifier(ctx context.Context, identifier string) (*entity.User, error) {
	user, err := uc.userRepo.FindByEmail(ctx, identifier)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, outbound.ErrUserNotFound) {
		return nil, err
	}
	return uc.userRepo.FindByUsername(ctx, identifier)
}

// Refresh trades a live refresh token for a new access token and rotates the
// refresh token. A token that lost a concurrent rotation is rejected.
func (uc *AuthUseCase) Refresh(ctx context.Context, req inbound.RefreshRequest) (*valueobject.TokenPair, error) {
	if req.RefreshToken == "" {
		uc.record(ctx, eventRefresh, "", false)
		return nil, apperror.Unauthorized(msgMissingRefresh)
	}
	presented, err := uuid.Parse(req.RefreshToken)
	if err != nil {
		uc.record(ctx, eventRefresh, "", false)
		return nil, apperror.Unauthorized(msgInvalidRefresh)
	}

	stored, err := uc.refreshTokenRepo.FindByToken(ctx, presented)
	if err != nil {
		if errors.Is(err, outbound.ErrRefreshTokenNotFound) {
			uc.record(ctx, eventRefresh, "", false)
			return nil, apperror.Unauthorized(msgRefreshExpired)
		}
		return nil, apperror.Internal("load refresh token", err)
	}
	if stored.IsExpired(uc.now()) {
		uc.record(ctx, eventRefresh, stored.UserID.String(), false)
		return nil, apperror.Unauthorized(msgRefreshExpired)
	}

	user, err := uc.userRepo.FindByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, outbound.ErrUserNotFound) {
			logger.LogSecurityEvent(ctx, uc.logger, securityOrphanedToken, severityHigh, map[string]interface{}{
				"user_id": stored.UserID.String(),
			})
			return nil, apperror.InvariantViolation(fmt.Sprintf("refresh token owner %s does not exist", stored.UserID), err)
		}
		return nil, apperror.Internal("load user", err)
	}

	accessToken, err := uc.tokenService.IssueForUser(valueobject.SnapshotOf(user))
	if err != nil {
		return nil, apperror.Internal("issue access token", err)
	}

	next := entity.NewRefreshToken(user.ID, uc.now(), uc.refreshTokenTTL)
	if err := uc.refreshTokenRepo.Rotate(ctx, presented, next); err != nil {
		if errors.Is(err, outbound.ErrRefreshTokenNotFound) {
			logger.LogSecurityEvent(ctx, uc.logger, securityRefreshReplay, severityMedium, map[string]interface{}{
				"user_id": user.ID.String(),
			})
			uc.record(ctx, eventRefresh, user.ID.String(), false)
			return nil, apperror.Unauthorized(msgRefreshExpired)
		}
		return nil, apperror.Internal("rotate refresh token", err)
	}

	uc.record(ctx, eventRefresh, user.ID.String(), true)
	return uc.tokenPair(accessToken, next), nil
}

// SignOut drops the caller's refresh token. Signing out twice is not an error.
func (uc *AuthUseCase) SignOut(ctx context.Context, user valueobject.UserSnapshot) error {
	err := uc.refreshTokenRepo.DeleteByUserID(ctx, user.ID)
	if err != nil && !errors.Is(err, outbound.ErrRefreshTokenNotFound) {
		return apperror.Internal("delete refresh token", err)
	}
	uc.record(ctx, eventSignOut, user.ID.String(), true)
	return nil
}

// CurrentUser trusts the snapshot embedded in the token; storage is not read.
func (uc *AuthUseCase) CurrentUser(ctx context.Context, bearerToken string, required permission.Set) (*valueobject.UserSnapshot, error) {
	if bearerToken == "" {
		return nil, apperror.Unauthorized(msgMissingAccessToken)
	}

	user, err := uc.tokenService.ValidateAccessToken(bearerToken)
	if err != nil {
		if errors.Is(err, apperror.ErrInvalidToken) {
			return nil, err
		}
		return nil, apperror.InvalidToken(err)
	}

	if err := permission.Check(uc.permissions.Granted(user.Role), required); err != nil {
		uc.logger.Warn(ctx, "Permission denied", map[string]interface{}{
			"user_id": user.ID.String(),
			"role":    string(user.Role),
			"reason":  err.Error(),
		})
		return nil, err
	}
	return user, nil
}

func (uc *AuthUseCase) tokenPair(accessToken string, refreshToken *entity.RefreshToken) *valueobject.TokenPair {
	return valueobject.NewTokenPair(
		accessToken,
		uc.tokenService.AccessTokenTTL(),
		refreshToken.Token.String(),
		refreshToken.ExpiresAt,
	)
}

func (uc *AuthUseCase) record(ctx context.Context, event, userID string, success bool) {
	uc.events.RecordAuthEvent(event, success)
	logger.LogAuthEvent(ctx, uc.logger, event, userID, "", success, nil)
}

type noopRecorder struct{}

func (noopRecorder) RecordAuthEvent(string, bool) {}
