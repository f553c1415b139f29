package http

import (
	"log/slog"
	"net/http"

	"github.com/workmatrix/workmatrix-backend-go/internal/domain/access"
	"github.com/workmatrix/workmatrix-backend-go/internal/handler/http/middleware"
	"github.com/workmatrix/workmatrix-backend-go/internal/handler/http/response"
)

type AccessHandler interface {
	Check(w http.ResponseWriter, r *http.Request)
}

type AccessHandlerImpl struct {
	guard  access.Guard
	routes access.Routes
}

func NewAccessHandler(guard access.Guard, routes access.Routes) AccessHandler {
	return &AccessHandlerImpl{
		guard:  guard,
		routes: routes,
	}
}

// Check returns the guard decision for the requested area as data. Anonymous callers
// get a decision too, so the web client can route before signing in.
func (h *AccessHandlerImpl) Check(w http.ResponseWriter, r *http.Request) {
	area, err := access.ParseArea(r.URL.Query().Get("area"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	decision, err := h.guard.Check(r.Context(), middleware.IdentityFromRequest(r), area)
	if err != nil {
		slog.Error("Access check error", "area", area, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, access.NewCheckResponse(decision, h.routes))
}
