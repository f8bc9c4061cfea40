package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/fawkesdbs/roadguard/internal/http/middleware"
	"github.com/fawkesdbs/roadguard/internal/http/response"
	"github.com/fawkesdbs/roadguard/internal/observability"
	"github.com/fawkesdbs/roadguard/internal/service"
)

type DashboardHandler struct {
	dashboardSvc service.DashboardServiceInterface
}

func NewDashboardHandler(dashboardSvc service.DashboardServiceInterface) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordDashboardRequestDuration(r.Context(), status, time.Since(start))
	}()

	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		status = "failure"
		response.Error(w, r, http.StatusUnauthorized, "missing auth context")
		return
	}

	overview, err := h.dashboardSvc.Overview(r.Context(), identity.ID)
	if err != nil {
		status = "failure"
		if errors.Is(err, service.ErrProfileNotFound) {
			response.Error(w, r, http.StatusNotFound, err.Error())
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	response.JSON(w, r, http.StatusOK, overview)
}
