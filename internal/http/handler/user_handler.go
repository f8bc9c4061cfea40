package handler

import (
	"net/http"

	"github.com/fawkesdbs/roadguard/internal/http/middleware"
	"github.com/fawkesdbs/roadguard/internal/http/response"
	"github.com/fawkesdbs/roadguard/internal/service"
)

type UserHandler struct {
	authSvc service.AuthServiceInterface
}

func NewUserHandler(authSvc service.AuthServiceInterface) *UserHandler {
	return &UserHandler{authSvc: authSvc}
}

// Me returns the profile row for the authenticated identity.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "missing auth context")
		return
	}
	profile, err := h.authSvc.GetProfileByID(r.Context(), identity.ID)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "failed to load profile")
		return
	}
	if profile == nil {
		response.Error(w, r, http.StatusNotFound, service.ErrProfileNotFound.Error())
		return
	}
	response.JSON(w, r, http.StatusOK, profile)
}
