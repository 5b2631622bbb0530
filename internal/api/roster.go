package api

import (
	"net/http"
	"time"

	"guard-collective/gatekeeper/internal/auth"
	"guard-collective/gatekeeper/internal/common"
	"guard-collective/gatekeeper/internal/constants"
)

// GetRosterHandler handles GET /api/v1/roster.
func (h *Handlers) GetRosterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		rows, err := h.deps.Services.Roster.Rows(r.Context())
		if err != nil {
			common.RespondError(w, initTime, err, constants.MsgGenericFailure, http.StatusBadGateway)
			return
		}
		common.RespondSuccess(w, initTime, "Roster fetched", rows)
	}
}

// PostRosterHandler handles POST /api/v1/roster/post, publishing the roster
// to the caller's guild announcement channel.
func (h *Handlers) PostRosterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims := auth.GetUserClaims(r.Context())

		if err := h.deps.Services.Roster.Post(r.Context(), claims.GuildID()); err != nil {
			common.RespondError(w, initTime, err, constants.MsgGenericFailure, http.StatusBadGateway)
			return
		}
		common.RespondSuccess(w, initTime, "Roster posted", nil)
	}
}
