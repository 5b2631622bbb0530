package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"gorm.io/gorm"

	"guard-collective/gatekeeper/internal/auth"
	"guard-collective/gatekeeper/internal/common"
	"guard-collective/gatekeeper/internal/constants"
	"guard-collective/gatekeeper/internal/models/dtos"
	"guard-collective/gatekeeper/internal/providers"
)

// RunCheckHandler handles POST /api/v1/checks. It runs the vetting pipeline
// for the submitted identity pair, publishes terminal verdicts to the guild's
// result channel, and returns the verdict to the front-end.
func (h *Handlers) RunCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims := auth.GetUserClaims(r.Context())

		var req dtos.CheckRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondError(w, initTime, err, "invalid request body", http.StatusBadRequest)
			return
		}
		if req.RobloxUsername == "" || req.DiscordID == "" {
			common.RespondError(w, initTime, nil, "roblox_username and discord_id are required", http.StatusBadRequest)
			return
		}

		verdict := h.deps.Services.Vetting.Run(r.Context(), claims.GuildID(), claims.ActorID(), req)

		// Aborted runs produce no public verdict; the diagnostic already went
		// to the operator channel.
		if verdict.Outcome == constants.OutcomeAborted {
			common.RespondError(w, initTime, nil, constants.MsgGenericFailure, http.StatusBadGateway)
			return
		}

		rendered, err := h.deps.Services.Publisher.Render(verdict, req.RobloxUsername)
		if err != nil {
			h.deps.Services.Reporter.Report(r.Context(), "warning", "verdict chart rendering failed: "+err.Error())
		}
		h.deps.Services.Publisher.Publish(r.Context(), claims.GuildID(), rendered)

		common.RespondSuccess(w, initTime, constants.MsgCheckCompleted, verdict)
	}
}

// CheckHistoryHandler handles GET /api/v1/checks/recent for the caller's
// guild.
func (h *Handlers) CheckHistoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims := auth.GetUserClaims(r.Context())

		limit := 20
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 || parsed > 100 {
				common.RespondError(w, initTime, nil, "limit must be between 1 and 100", http.StatusBadRequest)
				return
			}
			limit = parsed
		}

		records, err := h.deps.Repo.History.RecentByGuild(r.Context(), claims.GuildID(), limit)
		if err != nil {
			common.RespondError(w, initTime, err, "failed to load check history")
			return
		}

		common.RespondSuccess(w, initTime, "History fetched", records)
	}
}

// LastCheckHandler handles GET /api/v1/checks/last/{userID}. Moderators use
// it to see whether a member was already vetted before running a fresh check.
func (h *Handlers) LastCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		userID, err := providers.ParseUserID(pathParam(r, "userID"))
		if err != nil {
			common.RespondError(w, initTime, nil, constants.MsgInvalidDiscordID, http.StatusBadRequest)
			return
		}

		rec, err := h.deps.Repo.History.LastForDiscordUser(r.Context(), userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				common.RespondError(w, initTime, nil, "No checks on record for that member", http.StatusNotFound)
				return
			}
			common.RespondError(w, initTime, err, "failed to load check history")
			return
		}

		common.RespondSuccess(w, initTime, "Last check fetched", rec)
	}
}
