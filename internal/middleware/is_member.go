package middleware

import (
	"net/http"
	"time"

	"policereserves/roster/internal/auth"
	"policereserves/roster/internal/common"
	"policereserves/roster/internal/constants"
)

// IsMemberMiddleware allows active members and admins
func IsMemberMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := auth.GetUserClaims(r.Context())

			if claims == nil {
				common.RespondError(w, time.Now(), constants.MsgUnauthorized, http.StatusUnauthorized)
				return
			}
			if !isActive(claims) {
				common.RespondError(w, time.Now(), constants.MsgAccountInactive, http.StatusForbidden)
				return
			}
			switch claims.Role() {
			case constants.RoleMember.String(), constants.RoleAdmin.String():
				next.ServeHTTP(w, r)
			default:
				common.RespondError(w, time.Now(), constants.MsgForbidden, http.StatusForbidden)
			}
		})
	}
}

// isActive reports whether a signed-in person may use role-gated routes.
// An inactive or denied user keeps their role but loses access.
func isActive(claims auth.UserClaims) bool {
	identity, ok := claims.(*auth.IdentityClaims)
	if !ok {
		return false
	}
	return identity.Status == constants.UserStatusActive
}
