package routes

import (
	"github.com/go-chi/chi/v5"

	"guard-collective/gatekeeper/internal/api"
	"guard-collective/gatekeeper/internal/constants"
	"guard-collective/gatekeeper/internal/middleware"
)

// RegisterAPIRoutes registers all API v1 routes and handlers. Every route is
// authenticated; the per-operation permission gate is applied per group.
func RegisterAPIRoutes(r chi.Router, deps *api.Dependencies, handlers *api.Handlers) {
	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(middleware.AuthMiddleware(deps.Repo.Keys))

		// Vetting checks
		v1.Group(func(checks chi.Router) {
			checks.Use(middleware.RequireCommand(deps.Services.Registry, "check"))
			checks.Use(middleware.RequireOperation(deps.Gate, constants.OpFilterCheck))
			checks.Post("/checks", handlers.RunCheckHandler())
			checks.Get("/checks/recent", handlers.CheckHistoryHandler())
			checks.Get("/checks/last/{userID}", handlers.LastCheckHandler())
		})

		// Invite claims for ordinary members; the eligibility rules live in
		// the invite service, not the gate.
		v1.Group(func(invites chi.Router) {
			invites.Use(middleware.RequireCommand(deps.Services.Registry, "invite"))
			invites.Post("/invites/claim", handlers.ClaimInviteHandler())
			invites.Post("/members/{userID}/leave", handlers.MemberLeaveHandler())
		})

		// Invite administration
		v1.Group(func(inviteAdmin chi.Router) {
			inviteAdmin.Use(middleware.RequireCommand(deps.Services.Registry, "invite-reset"))
			inviteAdmin.Use(middleware.RequireOperation(deps.Gate, constants.OpInviteAdmin))
			inviteAdmin.Post("/invites/{userID}/reset", handlers.ResetInviteHandler())
			inviteAdmin.Get("/invites/claims", handlers.ListInviteClaimsHandler())
		})

		// Staff roster
		v1.Group(func(roster chi.Router) {
			roster.Use(middleware.RequireCommand(deps.Services.Registry, "roster"))
			roster.Use(middleware.RequireOperation(deps.Gate, constants.OpStaffRoster))
			roster.Get("/roster", handlers.GetRosterHandler())
			roster.Post("/roster/post", handlers.PostRosterHandler())
		})

		// Bot management
		v1.Group(func(mgmt chi.Router) {
			mgmt.Use(middleware.RequireOperation(deps.Gate, constants.OpBotManagement))
			mgmt.Get("/commands", handlers.ListCommandsHandler())
			mgmt.Post("/commands/{name}/{action}", handlers.CommandActionHandler())
			mgmt.Post("/admin/reload", handlers.ReloadConfigHandler())
		})
	})
}
