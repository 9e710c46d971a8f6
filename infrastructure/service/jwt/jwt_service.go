package jwt

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pizzastore/pizzastore/domain/apperror"
	"github.com/pizzastore/pizzastore/domain/valueobject"
)

var ErrUnsupportedAlgorithm = errors.New("unsupported JWT algorithm")

var signingMethods = map[string]jwt.SigningMethod{
	"HS256": jwt.SigningMethodHS256,
	"HS384": jwt.SigningMethodHS384,
	"HS512": jwt.SigningMethodHS512,
}

// JWTService signs and verifies HMAC tokens carrying an arbitrary JSON
// payload plus the iat and exp claims.
type JWTService struct {
	secret    []byte
	method    jwt.SigningMethod
	accessTTL time.Duration
	now       func() time.Time
}

type Option func(*JWTService)

// WithClock replaces time.Now for issuing and verifying tokens.
func WithClock(now func() time.Time) Option {
	return func(s *JWTService) {
		s.now = now
	}
}

func NewJWTService(secret, algorithm string, accessTTL time.Duration, opts ...Option) (*JWTService, error) {
	method, ok := signingMethods[algorithm]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, algorithm)
	}
	if secret == "" {
		return nil, errors.New("JWT secret cannot be empty")
	}

	service := &JWTService{
		secret:    []byte(secret),
		method:    method,
		accessTTL: accessTTL,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

func (s *JWTService) AccessTokenTTL() time.Duration {
	return s.accessTTL
}

// Encode copies payload, stamps iat and exp, and signs the result. The
// caller's map is left untouched.
func (s *JWTService) Encode(payload map[string]interface{}, ttl time.Duration) (string, error) {
	now := s.now()
	claims := make(jwt.MapClaims, len(payload)+2)
	for k, v := range payload {
		claims[k] = v
	}
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(ttl).Unix()

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies signature, algorithm and expiry. Every failure is reported
// as an invalid token; the underlying reason is kept as the cause.
func (s *JWTService) Decode(tokenString string) (map[string]interface{}, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)

	claims := jwt.MapClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, apperror.InvalidToken(err)
	}
	if !token.Valid {
		return nil, apperror.InvalidToken(nil)
	}
	return map[string]interface{}(claims), nil
}

func (s *JWTService) IssueForUser(user valueobject.UserSnapshot) (string, error) {
	return s.Encode(map[string]interface{}{
		"sub":  user.ID.String(),
		"user": user,
	}, s.accessTTL)
}

// ValidateAccessToken decodes the token and returns the embedded user.
func (s *JWTService) ValidateAccessToken(tokenString string) (*valueobject.UserSnapshot, error) {
	payload, err := s.Decode(tokenString)
	if err != nil {
		return nil, err
	}

	raw, ok := payload["user"]
	if !ok {
		return nil, apperror.InvalidToken(errors.New("missing user claim"))
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, apperror.InvalidToken(err)
	}
	var user valueobject.UserSnapshot
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, apperror.InvalidToken(err)
	}
	if user.ID == uuid.Nil || user.Role == "" {
		return nil, apperror.InvalidToken(errors.New("incomplete user claim"))
	}
	return &user, nil
}
