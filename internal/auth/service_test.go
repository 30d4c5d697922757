package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRegister(t *testing.T) {
	svc := testService(t)

	nu := registerTestUser(t, svc, "johndoe", "secret", "johndoe@gmail.com", "John Doe")

	if nu.Username != "johndoe" || nu.Email != "johndoe@gmail.com" || nu.FullName != "John Doe" {
		t.Errorf("unexpected registration response: %+v", nu)
	}
	if nu.AccessToken == "" {
		t.Error("registration returned empty access token")
	}
	if nu.RefreshToken == "" {
		t.Error("registration returned empty refresh token")
	}

	claims, err := svc.codec.Decode(nu.AccessToken)
	if err != nil {
		t.Fatalf("decoding registration access token: %v", err)
	}
	if claims.Subject != "johndoe" {
		t.Errorf("access token subject = %q, want johndoe", claims.Subject)
	}

	// Fresh registration must immediately support a password login.
	token, err := svc.Login(context.Background(), "johndoe", "secret")
	if err != nil {
		t.Fatalf("login after registration: %v", err)
	}
	if token.TokenType != TokenTypeBearer {
		t.Errorf("token type = %q, want %q", token.TokenType, TokenTypeBearer)
	}
}

func TestRegisterNormalizesEmail(t *testing.T) {
	svc := testService(t)

	nu := registerTestUser(t, svc, "johndoe", "secret", "  John.Doe@GMAIL.com ", "John Doe")
	if nu.Email != "john.doe@gmail.com" {
		t.Errorf("email = %q, want normalised john.doe@gmail.com", nu.Email)
	}
}

func TestRegisterInvalidInput(t *testing.T) {
	svc := testService(t)

	tests := []struct {
		name     string
		username string
		password string
		email    string
		fullName string
	}{
		{"empty username", "", "secret", "a@b.com", "A B"},
		{"empty password", "johndoe", "", "a@b.com", "A B"},
		{"empty email", "johndoe", "secret", "", "A B"},
		{"empty full name", "johndoe", "secret", "a@b.com", ""},
		{"whitespace in username", "john doe", "secret", "a@b.com", "A B"},
		{"tab in username", "john\tdoe", "secret", "a@b.com", "A B"},
		{"whitespace in password", "johndoe", "sec ret", "a@b.com", "A B"},
		{"malformed email", "johndoe", "secret", "not-an-email", "A B"},
		{"display name email", "johndoe", "secret", "John <j@example.com>", "A B"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.username, tt.password, tt.email, tt.fullName)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestRegisterDuplicateUser(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	registerTestUser(t, svc, "johndoe", "secret", "johndoe@gmail.com", "John Doe")

	// Same username, different everything else.
	_, err := svc.Register(ctx, "johndoe", "other-pass", "jd@example.com", "J D")
	if !errors.Is(err, ErrDuplicateUser) {
		t.Errorf("duplicate username: expected ErrDuplicateUser, got %v", err)
	}

	// Same email.
	_, err = svc.Register(ctx, "janedoe", "other-pass", "johndoe@gmail.com", "Jane Doe")
	if !errors.Is(err, ErrDuplicateUser) {
		t.Errorf("duplicate email: expected ErrDuplicateUser, got %v", err)
	}

	// Same plaintext password does not collide: salts differ per hash, so
	// the digest uniqueness check passes.
	if _, err := svc.Register(ctx, "janedoe", "secret", "janedoe@gmail.com", "Jane Doe"); err != nil {
		t.Errorf("same plaintext password for second account: %v", err)
	}
}

func TestRegisterDuplicateLeavesNoRow(t *testing.T) {
	db := testDB(t)
	svc := NewService(NewUserDirectory(db), NewTokenCodec(testSigningSecret, 15*time.Minute))

	registerTestUser(t, svc, "johndoe", "secret", "johndoe@gmail.com", "John Doe")

	if _, err := svc.Register(context.Background(), "johndoe", "p2", "other@x.com", "X"); !errors.Is(err, ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		t.Fatalf("counting users: %v", err)
	}
	if count != 1 {
		t.Errorf("user count = %d after failed duplicate registration, want 1", count)
	}
}

func TestLogin(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	registerTestUser(t, svc, "johndoe", "secret", "johndoe@gmail.com", "John Doe")

	token, err := svc.Login(ctx, "johndoe", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := svc.codec.Decode(token.AccessToken)
	if err != nil {
		t.Fatalf("decoding token: %v", err)
	}
	if claims.Subject != "johndoe" {
		t.Errorf("subject = %q, want johndoe", claims.Subject)
	}

	if _, err := svc.Login(ctx, "johndoe", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "nouser", "x"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown user: expected ErrUserNotFound, got %v", err)
	}
}

func TestRefreshRepeatable(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	nu := registerTestUser(t, svc, "johndoe", "secret", "johndoe@gmail.com", "John Doe")

	// The refresh token is not single-use; exchanges repeat indefinitely.
	for i := 0; i < 3; i++ {
		token, err := svc.Refresh(ctx, nu.RefreshToken)
		if err != nil {
			t.Fatalf("Refresh round %d: %v", i, err)
		}
		claims, err := svc.codec.Decode(token.AccessToken)
		if err != nil {
			t.Fatalf("decoding refreshed token: %v", err)
		}
		if claims.Subject != "johndoe" {
			t.Errorf("round %d subject = %q, want johndoe", i, claims.Subject)
		}
	}

	if _, err := svc.Refresh(ctx, "no-such-token"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown refresh token: expected ErrUserNotFound, got %v", err)
	}
}

func TestResolveCurrentUser(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	registerTestUser(t, svc, "johndoe", "secret", "johndoe@gmail.com", "John Doe")
	token, err := svc.Login(ctx, "johndoe", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	user, err := svc.ResolveCurrentUser(ctx, token.AccessToken)
	if err != nil {
		t.Fatalf("ResolveCurrentUser: %v", err)
	}
	if user.Username != "johndoe" {
		t.Errorf("resolved username = %q, want johndoe", user.Username)
	}

	if _, err := svc.ResolveCurrentUser(ctx, "not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("broken token: expected ErrTokenInvalid, got %v", err)
	}
}

func TestResolveCurrentUserExpired(t *testing.T) {
	db := testDB(t)
	dir := NewUserDirectory(db)
	expiring := NewService(dir, NewTokenCodec(testSigningSecret, -time.Minute))

	registerTestUser(t, NewService(dir, NewTokenCodec(testSigningSecret, 15*time.Minute)),
		"johndoe", "secret", "johndoe@gmail.com", "John Doe")

	token, err := expiring.Login(context.Background(), "johndoe", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if _, err := expiring.ResolveCurrentUser(context.Background(), token.AccessToken); !errors.Is(err, ErrUserDisabled) {
		t.Errorf("expired token: expected ErrUserDisabled, got %v", err)
	}
}

func TestResolveCurrentUserDisabled(t *testing.T) {
	db := testDB(t)
	svc := NewService(NewUserDirectory(db), NewTokenCodec(testSigningSecret, 15*time.Minute))
	ctx := context.Background()

	registerTestUser(t, svc, "johndoe", "secret", "johndoe@gmail.com", "John Doe")
	token, err := svc.Login(ctx, "johndoe", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if _, err := db.Exec("UPDATE users SET disabled = 1 WHERE username = ?", "johndoe"); err != nil {
		t.Fatalf("disabling user: %v", err)
	}

	if _, err := svc.ResolveCurrentUser(ctx, token.AccessToken); !errors.Is(err, ErrUserDisabled) {
		t.Errorf("disabled account: expected ErrUserDisabled, got %v", err)
	}
}

func TestResolveCurrentUserVanished(t *testing.T) {
	db := testDB(t)
	svc := NewService(NewUserDirectory(db), NewTokenCodec(testSigningSecret, 15*time.Minute))
	ctx := context.Background()

	registerTestUser(t, svc, "johndoe", "secret", "johndoe@gmail.com", "John Doe")
	token, err := svc.Login(ctx, "johndoe", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if _, err := db.Exec("DELETE FROM users WHERE username = ?", "johndoe"); err != nil {
		t.Fatalf("deleting user: %v", err)
	}

	if _, err := svc.ResolveCurrentUser(ctx, token.AccessToken); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("vanished account: expected ErrUserNotFound, got %v", err)
	}
}

func TestTwoRegistrationsDistinctTokens(t *testing.T) {
	svc := testService(t)

	a := registerTestUser(t, svc, "alice", "alicepw", "alice@example.com", "Alice A")
	b := registerTestUser(t, svc, "bob", "bobpw", "bob@example.com", "Bob B")

	if a.AccessToken == b.AccessToken {
		t.Error("two registrations produced identical access tokens")
	}
	if a.RefreshToken == b.RefreshToken {
		t.Error("two registrations produced identical refresh tokens")
	}

	ca, err := svc.codec.Decode(a.AccessToken)
	if err != nil {
		t.Fatalf("decoding alice token: %v", err)
	}
	cb, err := svc.codec.Decode(b.AccessToken)
	if err != nil {
		t.Fatalf("decoding bob token: %v", err)
	}
	if ca.Subject == cb.Subject {
		t.Error("decoded subjects are identical for distinct registrations")
	}
}
