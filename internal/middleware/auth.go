package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"policereserves/roster/internal/auth"
	"policereserves/roster/internal/common"
	"policereserves/roster/internal/constants"
	"policereserves/roster/internal/logging"
)

// IdentityResolver maps a verified identity onto local user claims
type IdentityResolver interface {
	Resolve(ctx context.Context, id *auth.Identity) (*auth.IdentityClaims, error)
}

// AuthMiddleware requires an identity-provider bearer token and stores the
// resolved claims in the request context
func AuthMiddleware(verifier *auth.TokenVerifier, users IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			log := logging.FromContext(r.Context())

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				common.RespondError(w, start, constants.MsgUnauthorized, http.StatusUnauthorized)
				return
			}

			identity, err := verifier.Verify(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				log.Infow("rejected bearer token", "error", err)
				common.RespondError(w, start, constants.MsgUnauthorized, http.StatusUnauthorized)
				return
			}

			claims, err := users.Resolve(r.Context(), identity)
			if err != nil {
				log.Errorw("failed to resolve identity", "subject", identity.Subject, "error", err)
				common.RespondError(w, start, constants.MsgInternal, http.StatusInternalServerError)
				return
			}

			ctx := auth.SetUserClaims(r.Context(), claims)
			ctx = logging.With(ctx, "user_id", claims.UserID())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
