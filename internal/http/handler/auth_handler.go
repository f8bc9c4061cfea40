package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/fawkesdbs/roadguard/internal/http/response"
	"github.com/fawkesdbs/roadguard/internal/observability"
	"github.com/fawkesdbs/roadguard/internal/service"
)

type AuthHandler struct {
	authSvc service.AuthServiceInterface
}

func NewAuthHandler(authSvc service.AuthServiceInterface) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "register", status, time.Since(start))
	}()

	var in service.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		status = "failure"
		observability.RecordAuthRegister(r.Context(), "failure")
		response.Error(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.authSvc.Register(r.Context(), in)
	if err != nil {
		status = "failure"
		observability.RecordAuthRegister(r.Context(), "failure")
		var identityErr *service.IdentityCreationError
		var profileErr *service.ProfileCreationError
		switch {
		case errors.As(err, &identityErr):
			observability.Audit(r, "auth.register.failed", "reason", "identity_rejected")
			response.Error(w, r, http.StatusBadRequest, identityErr.Error())
		case errors.As(err, &profileErr):
			observability.Audit(r, "auth.register.failed", "reason", "profile_insert")
			response.Error(w, r, http.StatusInternalServerError, profileErr.Error())
		default:
			observability.Audit(r, "auth.register.failed", "reason", "internal")
			response.Error(w, r, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	observability.Audit(r, "auth.register.success", "user_id", profile.ID)
	observability.RecordAuthRegister(r.Context(), "success")
	response.JSON(w, r, http.StatusOK, profile)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "login", status, time.Since(start))
	}()

	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		status = "failure"
		observability.RecordAuthLogin(r.Context(), "failure")
		response.Error(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.authSvc.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		status = "failure"
		observability.RecordAuthLogin(r.Context(), "failure")
		var credsErr *service.InvalidCredentialsError
		switch {
		case errors.As(err, &credsErr):
			observability.Audit(r, "auth.login.failed", "reason", "invalid_credentials")
			response.Error(w, r, http.StatusUnauthorized, credsErr.Error())
		case errors.Is(err, service.ErrSessionMissing):
			observability.Audit(r, "auth.login.failed", "reason", "session_missing")
			response.Error(w, r, http.StatusUnauthorized, err.Error())
		case errors.Is(err, service.ErrProfileNotFound):
			observability.Audit(r, "auth.login.failed", "reason", "profile_missing")
			response.Error(w, r, http.StatusNotFound, err.Error())
		default:
			observability.Audit(r, "auth.login.failed", "reason", "internal")
			response.Error(w, r, http.StatusInternalServerError, "login failed")
		}
		return
	}

	observability.Audit(r, "auth.login.success", "user_id", result.Profile.ID)
	observability.RecordAuthLogin(r.Context(), "success")
	response.JSON(w, r, http.StatusOK, result)
}
