package api

import (
	"net/http"
	"time"

	"guard-collective/gatekeeper/internal/auth"
	"guard-collective/gatekeeper/internal/common"
)

// ReloadConfigHandler handles POST /api/v1/admin/reload. The configuration
// document is re-read from disk and the permission gate swaps to the new
// policy snapshot. In-flight requests keep the snapshot they started with.
func (h *Handlers) ReloadConfigHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		if err := h.deps.Config.Reload(); err != nil {
			common.RespondError(w, initTime, err, "configuration reload failed")
			return
		}
		h.deps.Gate.Replace(auth.PolicySetFromConfig(h.deps.Config))

		common.RespondSuccess(w, initTime, "Configuration reloaded", nil)
	}
}
