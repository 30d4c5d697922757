package auth

import (
	"context"
	"errors"
	"fmt"
)

// Service implements the authentication flows: registration, password
// login, refresh-token exchange, and bearer session resolution.
type Service struct {
	directory UserDirectory
	codec     *TokenCodec
}

// NewService creates an auth service backed by the given directory and
// token codec.
func NewService(directory UserDirectory, codec *TokenCodec) *Service {
	return &Service{directory: directory, codec: codec}
}

// Register validates and creates a new account, returning its public
// fields together with a freshly minted access token and the account's
// long-lived refresh token.
//
// Validation and uniqueness checks run strictly before the insert, so no
// partial write survives a failure. Concurrent registrations racing on the
// same field can both pass the pre-checks; the UNIQUE constraints on the
// users table are the authoritative backstop and still surface as
// ErrDuplicateUser.
func (s *Service) Register(ctx context.Context, username, password, email, fullName string) (*NewUser, error) {
	if username == "" || password == "" || email == "" || fullName == "" {
		return nil, fmt.Errorf("%w: all fields are required", ErrInvalidInput)
	}
	if containsWhitespace(username) {
		return nil, fmt.Errorf("%w: username must not contain whitespace", ErrInvalidInput)
	}
	if containsWhitespace(password) {
		return nil, fmt.Errorf("%w: password must not contain whitespace", ErrInvalidInput)
	}

	email = normalizeEmail(email)
	if !isValidEmail(email) {
		return nil, fmt.Errorf("%w: malformed email address", ErrInvalidInput)
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	if err := s.checkUniqueness(ctx, username, email, passwordHash); err != nil {
		return nil, err
	}

	// The refresh token is itself a password-style digest of the account's
	// identifying fields, minted once here and never rotated. It is
	// disclosed in this response only.
	refreshToken, err := HashPassword(username + email + passwordHash)
	if err != nil {
		return nil, fmt.Errorf("deriving refresh token: %w", err)
	}

	user := &User{
		Username:     username,
		Email:        email,
		FullName:     fullName,
		PasswordHash: passwordHash,
		RefreshToken: refreshToken,
	}
	if err := s.directory.Insert(ctx, user); err != nil {
		return nil, err
	}

	// Login is the single code path that mints access tokens; delegating
	// keeps TTL and claim handling in one place.
	token, err := s.Login(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("issuing initial token: %w", err)
	}

	return &NewUser{
		Email:        user.Email,
		Username:     user.Username,
		FullName:     user.FullName,
		RefreshToken: user.RefreshToken,
		AccessToken:  token.AccessToken,
	}, nil
}

// checkUniqueness rejects registration if the username, email, or password
// digest is already present, naming the colliding field.
func (s *Service) checkUniqueness(ctx context.Context, username, email, passwordHash string) error {
	checks := []struct {
		field  string
		lookup func() (*User, error)
	}{
		{"username", func() (*User, error) { return s.directory.FindByUsername(ctx, username) }},
		{"email", func() (*User, error) { return s.directory.FindByEmail(ctx, email) }},
		{"password", func() (*User, error) { return s.directory.FindByPasswordHash(ctx, passwordHash) }},
	}

	for _, c := range checks {
		_, err := c.lookup()
		switch {
		case err == nil:
			return fmt.Errorf("%w: %s already registered", ErrDuplicateUser, c.field)
		case errors.Is(err, ErrUserNotFound):
			// free to use
		default:
			return fmt.Errorf("checking %s uniqueness: %w", c.field, err)
		}
	}
	return nil
}

// Login verifies a username/password pair and issues a fresh access token.
//
// An unknown username yields ErrUserNotFound and a wrong password yields
// ErrInvalidCredentials. Callers that must not reveal which of the two
// failed should collapse both before responding.
func (s *Service) Login(ctx context.Context, username, password string) (*Token, error) {
	user, err := s.directory.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.codec.Issue(user.Username)
	if err != nil {
		return nil, err
	}

	return &Token{AccessToken: accessToken, TokenType: TokenTypeBearer}, nil
}

// Refresh exchanges a stored refresh token for a new access token. The
// refresh token is not rotated; the same value remains valid for repeated
// exchanges.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Token, error) {
	user, err := s.directory.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("looking up refresh token: %w", err)
	}

	accessToken, err := s.codec.Issue(user.Username)
	if err != nil {
		return nil, err
	}

	return &Token{AccessToken: accessToken, TokenType: TokenTypeBearer}, nil
}

// ResolveCurrentUser decodes a bearer access token, resolves the account it
// names, and enforces the active-account invariant. Every protected
// operation calls this before touching any owned resource.
//
// An expired token resolves to ErrUserDisabled: both conditions mean the
// caller must re-authenticate, and they share one externally visible error.
func (s *Service) ResolveCurrentUser(ctx context.Context, accessToken string) (*User, error) {
	claims, err := s.codec.Decode(accessToken)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return nil, ErrUserDisabled
		}
		return nil, ErrTokenInvalid
	}

	user, err := s.directory.FindByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("resolving user: %w", err)
	}

	if user.Disabled {
		return nil, ErrUserDisabled
	}

	return user, nil
}
