package api

import (
	"net/http"
	"time"

	"guard-collective/gatekeeper/internal/auth"
	"guard-collective/gatekeeper/internal/common"
	"guard-collective/gatekeeper/internal/constants"
	"guard-collective/gatekeeper/internal/providers"
)

// ClaimInviteHandler handles POST /api/v1/invites/claim on behalf of the
// requesting member.
func (h *Handlers) ClaimInviteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims := auth.GetUserClaims(r.Context())

		isOwner := h.deps.Gate.IsOwner(claims.ActorID())
		resp, err := h.deps.Services.Invites.Claim(r.Context(), claims.GuildID(), claims.ActorID(), claims.RoleIDs(), isOwner)
		if err != nil {
			common.RespondError(w, initTime, err, constants.MsgGenericFailure)
			return
		}

		if !resp.Eligible {
			common.RespondSuccess(w, initTime, resp.Reason, resp)
			return
		}
		common.RespondSuccess(w, initTime, "Invite issued", resp)
	}
}

// ResetInviteHandler handles POST /api/v1/invites/{userID}/reset, gated on
// the invite admin operation.
func (h *Handlers) ResetInviteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		targetID, err := providers.ParseUserID(pathParam(r, "userID"))
		if err != nil {
			common.RespondError(w, initTime, nil, constants.MsgInvalidDiscordID, http.StatusBadRequest)
			return
		}

		removed, err := h.deps.Services.Invites.Reset(r.Context(), targetID)
		if err != nil {
			common.RespondError(w, initTime, err, constants.MsgGenericFailure)
			return
		}
		if !removed {
			common.RespondSuccess(w, initTime, "No claim on record for that member", nil)
			return
		}
		common.RespondSuccess(w, initTime, "Invite claim cleared", nil)
	}
}

// ListInviteClaimsHandler handles GET /api/v1/invites/claims.
func (h *Handlers) ListInviteClaimsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		ids, err := h.deps.Services.Invites.Claimed(r.Context())
		if err != nil {
			common.RespondError(w, initTime, err, constants.MsgGenericFailure)
			return
		}
		common.RespondSuccess(w, initTime, "Claims fetched", ids)
	}
}

// MemberLeaveHandler handles POST /api/v1/members/{userID}/leave, the
// front-end's notification that a member left the guild.
func (h *Handlers) MemberLeaveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims := auth.GetUserClaims(r.Context())

		userID, err := providers.ParseUserID(pathParam(r, "userID"))
		if err != nil {
			common.RespondError(w, initTime, nil, constants.MsgInvalidDiscordID, http.StatusBadRequest)
			return
		}

		if err := h.deps.Services.Invites.HandleMemberLeave(r.Context(), claims.GuildID(), userID); err != nil {
			common.RespondError(w, initTime, err, constants.MsgGenericFailure)
			return
		}
		common.RespondSuccess(w, initTime, "Member departure processed", nil)
	}
}
