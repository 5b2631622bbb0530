package middleware

import (
	"net/http"
	"time"

	"guard-collective/gatekeeper/internal/auth"
	"guard-collective/gatekeeper/internal/common"
	"guard-collective/gatekeeper/internal/constants"
)

// RequireOperation guards a route with the permission gate. The check runs
// against the policies loaded at the time of the request, so a config reload
// takes effect without restarting.
func RequireOperation(gate *auth.Gate, op constants.Operation) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			initTime := time.Now()

			claims := auth.GetUserClaims(r.Context())
			if claims == nil {
				common.RespondError(w, initTime, nil, constants.MsgMissingPermission, http.StatusUnauthorized)
				return
			}

			if !gate.Authorize(claims.ActorID(), claims.RoleIDs(), claims.GuildID(), op) {
				common.RespondError(w, initTime, nil, constants.MsgMissingPermission, http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
