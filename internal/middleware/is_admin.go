package middleware

import (
	"net/http"
	"time"

	"policereserves/roster/internal/auth"
	"policereserves/roster/internal/common"
	"policereserves/roster/internal/constants"
)

// IsAdminMiddleware allows active admins only. With requireMFA the session must
// also have been MFA verified.
func IsAdminMiddleware(requireMFA bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := auth.GetUserClaims(r.Context())

			if claims == nil || claims.Role() != constants.RoleAdmin.String() {
				common.RespondError(w, time.Now(), constants.MsgForbidden, http.StatusForbidden)
				return
			}
			if !isActive(claims) {
				common.RespondError(w, time.Now(), constants.MsgAccountInactive, http.StatusForbidden)
				return
			}
			if requireMFA && !claims.MFAVerified() {
				common.RespondError(w, time.Now(), constants.MsgMFARequired, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
