package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signIdentity(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return s
}

func TestTokenVerifier_Valid(t *testing.T) {
	v := NewTokenVerifier([]byte("secret"), "https://id.example.org")

	token := signIdentity(t, "secret", jwt.MapClaims{
		"sub":   "idp|123",
		"email": "jane@example.org",
		"name":  "Jane Doe",
		"mfa":   true,
		"iss":   "https://id.example.org",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	id, err := v.Verify(token)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if id.Subject != "idp|123" || id.FirstName != "Jane" || id.LastName != "Doe" || !id.MFA {
		t.Errorf("Unexpected identity %+v", id)
	}
}

func TestTokenVerifier_Rejects(t *testing.T) {
	v := NewTokenVerifier([]byte("secret"), "https://id.example.org")
	future := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name   string
		secret string
		claims jwt.MapClaims
	}{
		{"wrong key", "other", jwt.MapClaims{"sub": "a", "iss": "https://id.example.org", "exp": future}},
		{"expired", "secret", jwt.MapClaims{"sub": "a", "iss": "https://id.example.org", "exp": time.Now().Add(-time.Hour).Unix()}},
		{"no expiry", "secret", jwt.MapClaims{"sub": "a", "iss": "https://id.example.org"}},
		{"wrong issuer", "secret", jwt.MapClaims{"sub": "a", "iss": "https://evil.example.org", "exp": future}},
		{"no subject", "secret", jwt.MapClaims{"iss": "https://id.example.org", "exp": future}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := v.Verify(signIdentity(t, tt.secret, tt.claims)); err == nil {
				t.Error("Expected token to be rejected")
			}
		})
	}
}
