package auth

import (
	"context"
)

type claimsKey struct{}

func SetUserClaims(ctx context.Context, claims UserClaims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// GetUserClaims returns whoever is calling, or nil on public routes
func GetUserClaims(ctx context.Context) UserClaims {
	if claims, ok := ctx.Value(claimsKey{}).(UserClaims); ok {
		return claims
	}
	return nil
}

// GetIdentityClaims returns the claims of a signed-in person. Machine
// callers holding an API key yield nil.
func GetIdentityClaims(ctx context.Context) *IdentityClaims {
	claims, _ := GetUserClaims(ctx).(*IdentityClaims)
	return claims
}
