package valueobject

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

var (
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrInvalidUsername  = errors.New("username must be 1-30 characters")
	ErrUsernameHasAt    = errors.New("username cannot contain @")
	ErrPasswordRequired = errors.New("password is required")
	ErrPasswordTooLong  = errors.New("password must be at most 72 bytes")
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Credentials is a sign-up triple that passed basic shape checks.
type Credentials struct {
	username string
	email    string
	password string
}

func NewCredentials(username, email, password string) (*Credentials, error) {
	username = strings.TrimSpace(username)
	if username == "" || utf8.RuneCountInString(username) > 30 {
		return nil, ErrInvalidUsername
	}
	// Sign-in tries the identifier as an email first.
	if strings.Contains(username, "@") {
		return nil, ErrUsernameHasAt
	}
	email = strings.TrimSpace(email)
	if !emailRegex.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}
	if len(password) > MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}
	return &Credentials{
		username: username,
		email:    email,
		password: password,
	}, nil
}

func (c *Credentials) Username() string {
	return c.username
}

func (c *Credentials) Email() string {
	return c.email
}

func (c *Credentials) Password() string {
	return c.password
}
