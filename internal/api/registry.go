package api

import (
	"errors"
	"net/http"
	"time"

	"guard-collective/gatekeeper/internal/common"
	"guard-collective/gatekeeper/internal/services"
)

// ListCommandsHandler handles GET /api/v1/commands.
func (h *Handlers) ListCommandsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		common.RespondSuccess(w, initTime, "Commands fetched", h.deps.Services.Registry.List())
	}
}

// CommandActionHandler handles POST /api/v1/commands/{name}/{action} where
// action is load, unload, or reload.
func (h *Handlers) CommandActionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		name := pathParam(r, "name")
		action := pathParam(r, "action")

		var err error
		switch action {
		case "load":
			err = h.deps.Services.Registry.Load(name)
		case "unload":
			err = h.deps.Services.Registry.Unload(name)
		case "reload":
			err = h.deps.Services.Registry.Reload(name)
		default:
			common.RespondError(w, initTime, nil, "action must be load, unload, or reload", http.StatusBadRequest)
			return
		}

		if err != nil {
			code := http.StatusConflict
			if errors.Is(err, services.ErrCommandUnknown) {
				code = http.StatusNotFound
			}
			common.RespondError(w, initTime, err, err.Error(), code)
			return
		}

		common.RespondSuccess(w, initTime, "Command "+action+" succeeded", nil)
	}
}
