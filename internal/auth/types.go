package auth

import (
	"errors"
	"net/mail"
	"strings"
	"unicode"
)

// User represents a registered account.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	PasswordHash string `json:"-"` // never serialised
	RefreshToken string `json:"-"` // disclosed once, at registration
	Disabled     bool   `json:"disabled"`
}

// NewUser is the registration response. It is the only place the refresh
// token is ever disclosed; subsequent logins return access tokens only.
type NewUser struct {
	Email        string `json:"email"`
	Username     string `json:"username"`
	FullName     string `json:"full_name"`
	RefreshToken string `json:"refresh_token"`
	AccessToken  string `json:"access_token"`
}

// TokenTypeBearer is the token_type value for every issued access token.
const TokenTypeBearer = "Bearer"

// Token is the access token response returned by login and refresh.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Sentinel errors for auth operations. The HTTP layer maps each to a
// distinct status without string inspection.
var (
	ErrInvalidInput       = errors.New("invalid user input")
	ErrDuplicateUser      = errors.New("duplicate user")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token has expired")
	ErrUserDisabled       = errors.New("user disabled, please re-authenticate for a new token")
)

// containsWhitespace reports whether s contains any whitespace character.
// Usernames and passwords must be whitespace-free.
func containsWhitespace(s string) bool {
	return strings.ContainsFunc(s, unicode.IsSpace)
}

// normalizeEmail trims surrounding whitespace and lowercases an address.
// The normalised form is what gets validated, checked for uniqueness,
// and stored.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// isValidEmail performs structural validation of an already-normalised
// address. Deliverability is not checked.
func isValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	// Reject display-name forms like "John <j@example.com>"; the stored
	// value must be the bare address.
	return addr.Address == email
}
