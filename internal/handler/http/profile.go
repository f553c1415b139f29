package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/auth"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/user"
	"github.com/workmatrix/workmatrix-backend-go/internal/handler/http/response"
	"github.com/workmatrix/workmatrix-backend-go/internal/pkg/validator"
)

type ProfileHandler interface {
	Me(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	UpdateRole(w http.ResponseWriter, r *http.Request)
	SetActive(w http.ResponseWriter, r *http.Request)
}

type ProfileHandlerImpl struct {
	profileService user.ProfileService
}

func NewProfileHandler(profileService user.ProfileService) ProfileHandler {
	return &ProfileHandlerImpl{
		profileService: profileService,
	}
}

// getIntQueryParam gets an int query parameter with a default value
func getIntQueryParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

func (h *ProfileHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	profile, err := h.profileService.GetByID(r.Context(), session.ProfileID)
	if err != nil {
		slog.Error("Get profile service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, profile)
}

func (h *ProfileHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	filter := user.ListProfilesFilter{
		Page:  getIntQueryParam(r, "page", 1),
		Limit: getIntQueryParam(r, "limit", 20),
	}
	if role := r.URL.Query().Get("role"); role != "" {
		filter.Role = &role
	}
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	profiles, total, err := h.profileService.List(r.Context(), session.ProfileID, filter)
	if err != nil {
		slog.Error("List profiles service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, profiles, response.NewMeta(filter.Page, filter.Limit, total))
}

func (h *ProfileHandlerImpl) UpdateRole(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	var req user.UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update role decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	targetID := chi.URLParam(r, "id")
	if !validator.IsValidUUID(targetID) {
		response.BadRequest(w, "Invalid profile ID", nil)
		return
	}
	updated, err := h.profileService.UpdateRole(r.Context(), session.ProfileID, targetID, req)
	if err != nil {
		slog.Error("Update role service error", "target", targetID, "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Profile role changed", "target", targetID, "role", updated.Role, "actor", session.ProfileID)
	response.SuccessWithMessage(w, "Role updated successfully", updated)
}

func (h *ProfileHandlerImpl) SetActive(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	var req user.UpdateActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Set active decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	targetID := chi.URLParam(r, "id")
	if !validator.IsValidUUID(targetID) {
		response.BadRequest(w, "Invalid profile ID", nil)
		return
	}
	updated, err := h.profileService.SetActive(r.Context(), session.ProfileID, targetID, req)
	if err != nil {
		slog.Error("Set active service error", "target", targetID, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Profile updated successfully", updated)
}
