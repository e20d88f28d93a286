package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is what the identity provider asserts about the caller
type Identity struct {
	Subject   string
	Email     string
	FirstName string
	LastName  string
	MFA       bool
}

type identityTokenClaims struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	MFA        bool   `json:"mfa"`
	jwt.RegisteredClaims
}

// TokenVerifier checks session tokens issued by the identity provider
type TokenVerifier struct {
	secret []byte
	issuer string
}

func NewTokenVerifier(secret []byte, issuer string) *TokenVerifier {
	return &TokenVerifier{secret: secret, issuer: issuer}
}

// Verify validates signature, expiry and issuer and returns the identity
func (v *TokenVerifier) Verify(tokenString string) (*Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &identityTokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("missing sub claim")
	}

	first, last := claims.GivenName, claims.FamilyName
	if first == "" && last == "" && claims.Name != "" {
		first, last, _ = strings.Cut(claims.Name, " ")
	}

	return &Identity{
		Subject:   claims.Subject,
		Email:     claims.Email,
		FirstName: first,
		LastName:  last,
		MFA:       claims.MFA,
	}, nil
}
