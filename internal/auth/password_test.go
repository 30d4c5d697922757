package auth

import (
	"strings"
	"testing"
)

func TestHashPasswordFormat(t *testing.T) {
	hash, err := HashPassword("secret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Errorf("hash has wrong prefix: %s", hash)
	}
	if parts := strings.Split(hash, "$"); len(parts) != 6 {
		t.Errorf("expected 6 PHC parts, got %d: %s", len(parts), hash)
	}
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	h1, err := HashPassword("secret")
	if err != nil {
		t.Fatalf("first hash: %v", err)
	}
	h2, err := HashPassword("secret")
	if err != nil {
		t.Fatalf("second hash: %v", err)
	}

	if h1 == h2 {
		t.Error("hashing the same plaintext twice produced identical digests")
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if !VerifyPassword("correct-horse", hash) {
		t.Error("correct password failed verification")
	}
	if VerifyPassword("wrong-horse", hash) {
		t.Error("wrong password passed verification")
	}
}

func TestVerifyPasswordMalformedDigest(t *testing.T) {
	tests := []struct {
		name   string
		digest string
	}{
		{"empty", ""},
		{"not phc", "plaintext-stored-by-mistake"},
		{"wrong algorithm", "$bcrypt$v=19$m=65536,t=3,p=1$c2FsdA$aGFzaA"},
		{"truncated", "$argon2id$v=19$m=65536,t=3,p=1$c2FsdA"},
		{"bad salt encoding", "$argon2id$v=19$m=65536,t=3,p=1$!!!!$aGFzaA"},
		{"bad hash encoding", "$argon2id$v=19$m=65536,t=3,p=1$c2FsdA$!!!!"},
		{"bad params", "$argon2id$v=19$m=abc,t=3,p=1$c2FsdA$aGFzaA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if VerifyPassword("anything", tt.digest) {
				t.Errorf("malformed digest %q verified as true", tt.digest)
			}
		})
	}
}
