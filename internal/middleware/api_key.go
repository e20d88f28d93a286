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
	"policereserves/roster/internal/models/entities"

	"golang.org/x/crypto/bcrypt"
)

// KeyLookup fetches an API key by its public id
type KeyLookup interface {
	GetByID(ctx context.Context, id string) (*entities.ApiKey, error)
}

// APIKeyMiddleware authenticates machine callers. The X-API-Key header
// carries "<id>.<secret>"; only the bcrypt hash of the secret is stored.
func APIKeyMiddleware(keys KeyLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			log := logging.FromContext(r.Context())

			id, secret, ok := strings.Cut(r.Header.Get("X-API-Key"), ".")
			if !ok || id == "" || secret == "" {
				common.RespondError(w, start, constants.MsgUnauthorized, http.StatusUnauthorized)
				return
			}

			key, err := keys.GetByID(r.Context(), id)
			if err != nil {
				log.Infow("unknown api key", "key_id", id, "error", err)
				common.RespondError(w, start, constants.MsgUnauthorized, http.StatusUnauthorized)
				return
			}
			if !key.Status {
				log.Infow("inactive api key", "key_id", id)
				common.RespondError(w, start, constants.MsgUnauthorized, http.StatusUnauthorized)
				return
			}
			if err := bcrypt.CompareHashAndPassword([]byte(key.SecretHash), []byte(secret)); err != nil {
				log.Warnw("api key secret mismatch", "key_id", id)
				common.RespondError(w, start, constants.MsgUnauthorized, http.StatusUnauthorized)
				return
			}

			ctx := auth.SetUserClaims(r.Context(), &auth.APIKeyClaims{KeyID: id})
			ctx = logging.With(ctx, "api_key_id", id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
