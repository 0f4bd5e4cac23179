package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/roomify/roomify-api/internal/middleware"
	"github.com/roomify/roomify-api/internal/pkg/response"
)

// Handler exposes the identity boundary. Tokens are issued by the
// external identity provider; this only echoes the resolved identity.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// Me returns the authenticated caller's identity.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Auth failed")
		return
	}

	response.OK(w, map[string]interface{}{
		"user": map[string]string{"uuid": userID.String()},
	})
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Get("/me", h.Me)
	return r
}
