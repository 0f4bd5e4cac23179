package project

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/roomify/roomify-api/internal/domain/hosting"
	"github.com/roomify/roomify-api/internal/middleware"
	"github.com/roomify/roomify-api/internal/pkg/response"
	"github.com/roomify/roomify-api/internal/pkg/validator"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type saveRequest struct {
	Project    Project `json:"project"`
	Visibility string  `json:"visibility" validate:"visibility"`
}

type updateVisibilityRequest struct {
	ID         string `json:"id" validate:"required"`
	Visibility string `json:"visibility" validate:"required,visibility"`
}

type renderRequest struct {
	ID string `json:"id" validate:"required"`
}

// Save upserts a project after resolving its images to hosted URLs.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Auth failed")
		return
	}

	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.BadRequest(w, errs["visibility"])
		return
	}

	saved, err := h.svc.Save(r.Context(), userID, req.Project, Visibility(req.Visibility))
	if err != nil {
		h.writeError(w, err, "failed to save project")
		return
	}

	response.OK(w, map[string]interface{}{"project": saved})
}

// List enumerates the caller's projects, backend order.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Auth failed")
		return
	}

	projects, err := h.svc.List(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "Failed to list projects", err.Error())
		return
	}

	response.OK(w, map[string]interface{}{"projects": projects})
}

// Get fetches one project by the id query parameter.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Auth failed")
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		response.BadRequest(w, "Project id is required")
		return
	}

	project, err := h.svc.Get(r.Context(), userID, id)
	if err != nil {
		h.writeError(w, err, "Failed to get project")
		return
	}

	response.OK(w, map[string]interface{}{"project": project})
}

// UpdateVisibility flips an existing project between private and public.
func (h *Handler) UpdateVisibility(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Auth failed")
		return
	}

	var req updateVisibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		if _, ok := errs["id"]; ok {
			response.BadRequest(w, "Project id is required")
		} else {
			response.BadRequest(w, "Valid visibility (private/public) is required")
		}
		return
	}

	updated, err := h.svc.SetVisibility(r.Context(), userID, req.ID, Visibility(req.Visibility))
	if err != nil {
		h.writeError(w, err, "Failed to update project visibility")
		return
	}

	response.OK(w, map[string]interface{}{"project": updated})
}

// Render generates the 3D view for a project and re-saves it.
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Auth failed")
		return
	}

	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.BadRequest(w, "Project id is required")
		return
	}

	rendered, err := h.svc.Render(r.Context(), userID, req.ID)
	if err != nil {
		h.writeError(w, err, "Failed to render project")
		return
	}

	response.OK(w, map[string]interface{}{"project": rendered})
}

func (h *Handler) writeError(w http.ResponseWriter, err error, label string) {
	switch {
	case errors.Is(err, ErrMissingID), errors.Is(err, ErrMissingSourceImage):
		response.BadRequest(w, "Project id and source image both are required")
	case errors.Is(err, ErrInvalidVisibility):
		response.BadRequest(w, "Valid visibility (private/public) is required")
	case errors.Is(err, hosting.ErrInvalidImageData):
		response.BadRequest(w, "Source image must be inline image data or a hosted image URL")
	case errors.Is(err, ErrProjectNotFound):
		response.NotFound(w, "Project not found")
	case errors.Is(err, ErrSaveInFlight):
		response.Conflict(w, "A save for this project is already in flight")
	case errors.Is(err, ErrRenderUnavailable):
		response.Error(w, http.StatusServiceUnavailable, "Render provider is not configured")
	default:
		response.InternalError(w, label, err.Error())
	}
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Post("/save", h.Save)
	r.Get("/list", h.List)
	r.Get("/get", h.Get)
	r.Post("/update-visibility", h.UpdateVisibility)
	r.Post("/render", h.Render)
	return r
}
