package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/adminrequest"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/auth"
	"github.com/workmatrix/workmatrix-backend-go/internal/handler/http/response"
	"github.com/workmatrix/workmatrix-backend-go/internal/pkg/validator"
)

type AdminRequestHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	Mine(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type AdminRequestHandlerImpl struct {
	requestService adminrequest.RequestService
}

func NewAdminRequestHandler(requestService adminrequest.RequestService) AdminRequestHandler {
	return &AdminRequestHandlerImpl{
		requestService: requestService,
	}
}

// decodeOptional decodes a JSON body that the client may leave empty.
func decodeOptional(r *http.Request, dst interface{}) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (h *AdminRequestHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	var req adminrequest.SubmitRequest
	if err := decodeOptional(r, &req); err != nil {
		slog.Error("Submit admin request decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := h.requestService.Submit(r.Context(), session.ProfileID, req.Notes)
	if err != nil {
		slog.Error("Submit admin request service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Admin access requested", "profile_id", session.ProfileID, "request_id", created.ID)
	response.Created(w, "Admin access request submitted", adminrequest.NewRequestResponse(created))
}

// Mine reports the status of the caller's latest request.
func (h *AdminRequestHandlerImpl) Mine(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	view, err := h.requestService.Query(r.Context(), session.ProfileID)
	if err != nil {
		slog.Error("Query admin request service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, view)
}

func (h *AdminRequestHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := adminrequest.ListFilter{
		Page:  getIntQueryParam(r, "page", 1),
		Limit: getIntQueryParam(r, "limit", 20),
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = &status
	}
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	requests, total, err := h.requestService.List(r.Context(), filter)
	if err != nil {
		slog.Error("List admin requests service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, requests, response.NewMeta(filter.Page, filter.Limit, total))
}

func (h *AdminRequestHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	requestID := chi.URLParam(r, "id")
	if !validator.IsValidUUID(requestID) {
		response.BadRequest(w, "Invalid request ID", nil)
		return
	}

	approved, err := h.requestService.Approve(r.Context(), requestID, session.ProfileID)
	if err != nil {
		slog.Error("Approve admin request service error", "request_id", requestID, "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Admin access approved", "request_id", requestID, "approver", session.ProfileID)
	response.SuccessWithMessage(w, "Admin access request approved", adminrequest.NewRequestResponse(approved))
}

func (h *AdminRequestHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	requestID := chi.URLParam(r, "id")
	if !validator.IsValidUUID(requestID) {
		response.BadRequest(w, "Invalid request ID", nil)
		return
	}

	var req adminrequest.DecideRequest
	if err := decodeOptional(r, &req); err != nil {
		slog.Error("Reject admin request decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	rejected, err := h.requestService.Reject(r.Context(), requestID, session.ProfileID, req.Notes)
	if err != nil {
		slog.Error("Reject admin request service error", "request_id", requestID, "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Admin access rejected", "request_id", requestID, "approver", session.ProfileID)
	response.SuccessWithMessage(w, "Admin access request rejected", adminrequest.NewRequestResponse(rejected))
}
