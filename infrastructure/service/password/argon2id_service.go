package password

import (
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"
)

type Argon2idPasswordService struct {
	params *argon2id.Params
}

func NewArgon2idPasswordService(params *argon2id.Params) *Argon2idPasswordService {
	if params == nil {
		params = argon2id.DefaultParams
	}
	return &Argon2idPasswordService{params: params}
}

func (s *Argon2idPasswordService) HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	hash, err := argon2id.CreateHash(password, s.params)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

func (s *Argon2idPasswordService) VerifyPassword(password, hash string) (bool, error) {
	if hash == "" || password == "" {
		return false, ErrEmptyPassword
	}
	match, err := argon2id.ComparePasswordAndHash(password, hash)
	if err != nil {
		return false, fmt.Errorf("failed to compare passwords: %w", err)
	}
	return match, nil
}

// MultiPasswordService hashes with primary and verifies any hash produced by
// bcrypt or argon2id, so switching PASSWORD_HASHER keeps old hashes valid.
type MultiPasswordService struct {
	primary  hasher
	bcrypt   *BcryptPasswordService
	argon2id *Argon2idPasswordService
}

type hasher interface {
	HashPassword(password string) (string, error)
	VerifyPassword(password, hash string) (bool, error)
}

func NewMultiPasswordService(algorithm string, bcryptCost int) (*MultiPasswordService, error) {
	s := &MultiPasswordService{
		bcrypt:   NewBcryptPasswordService(bcryptCost),
		argon2id: NewArgon2idPasswordService(nil),
	}
	switch algorithm {
	case "bcrypt":
		s.primary = s.bcrypt
	case "argon2id":
		s.primary = s.argon2id
	default:
		return nil, fmt.Errorf("unsupported password hasher: %s", algorithm)
	}
	return s, nil
}

func (s *MultiPasswordService) HashPassword(password string) (string, error) {
	return s.primary.HashPassword(password)
}

func (s *MultiPasswordService) VerifyPassword(password, hash string) (bool, error) {
	if strings.HasPrefix(hash, "$argon2id$") {
		return s.argon2id.VerifyPassword(password, hash)
	}
	return s.bcrypt.VerifyPassword(password, hash)
}
