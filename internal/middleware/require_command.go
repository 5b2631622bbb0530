package middleware

import (
	"net/http"
	"time"

	"guard-collective/gatekeeper/internal/common"
	"guard-collective/gatekeeper/internal/constants"
	"guard-collective/gatekeeper/internal/services"
)

// RequireCommand rejects requests for a command surface that has been
// unloaded through the registry. Management routes stay outside this guard so
// an unloaded command can always be loaded back.
func RequireCommand(registry *services.CommandRegistry, name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !registry.IsLoaded(name) {
				common.RespondError(w, time.Now(), nil, constants.MsgCommandUnloaded, http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
