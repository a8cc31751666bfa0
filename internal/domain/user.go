package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default age assigned at registration when the caller omits one.
const DefaultAge = 18

// Common validation errors for User.
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyName           = errors.New("name cannot be empty")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrInvalidAge          = errors.New("age must be a positive number")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 6 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrPasswordDenied      = errors.New("password may not contain the word \"password\"")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// User represents a registered account. The plaintext Password field is only
// populated transiently during registration or a profile update; persistence
// always goes through HashedPassword.
type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Age            int       `json:"age"`
	Password       string    `json:"-"` // Plaintext, never stored
	HashedPassword string    `json:"-"` // Never expose the hash in JSON
	Avatar         []byte    `json:"-"` // Binary avatar image, served separately
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a User from registration input. The email is normalized to
// lowercase and surrounding whitespace is trimmed from name, email, and
// password. A non-positive age selects DefaultAge only when it is zero;
// negative ages are rejected by validation.
//
// The caller is responsible for hashing the password before storing the user.
func NewUser(name, email, password string, age int) (*User, error) {
	if age == 0 {
		age = DefaultAge
	}

	user := &User{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Age:       age,
		Password:  strings.TrimSpace(password),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns the first violated constraint as an error.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Name == "" {
		return ErrEmptyName
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !ValidEmail(u.Email) {
		return ErrInvalidEmail
	}

	if u.Age <= 0 {
		return ErrInvalidAge
	}

	if u.Password != "" {
		if err := ValidatePassword(u.Password); err != nil {
			return err
		}
	} else if u.HashedPassword == "" {
		// An existing user loaded from the store carries only the hash.
		return ErrEmptyPassword
	}

	return nil
}

// ValidEmail reports whether the address looks like a deliverable email:
// a non-empty local part, an @, and a domain containing an interior dot.
func ValidEmail(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}
	if strings.ContainsAny(email, " \t") {
		return false
	}

	domain := email[at+1:]
	dot := strings.IndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}

// ValidatePassword checks the plaintext password rules: 6-72 characters and
// it may not contain the literal substring "password" in any case.
func ValidatePassword(password string) error {
	switch {
	case len(password) < 6:
		return ErrPasswordTooShort
	case len(password) > 72: // bcrypt input limit
		return ErrPasswordTooLong
	case strings.Contains(strings.ToLower(password), "password"):
		return ErrPasswordDenied
	}
	return nil
}
