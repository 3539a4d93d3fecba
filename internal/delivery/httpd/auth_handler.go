package httpd

import (
	"net/http"

	"github.com/RubachokBoss/grade-tracker/internal/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !h.readJSON(w, r, &req) {
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeCreated(w, models.AuthResponse{User: user})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !h.readJSON(w, r, &req) {
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, models.AuthResponse{User: user})
}

func (h *Handler) StartGuestSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.guestService.StartSession(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeCreated(w, session)
}

func (h *Handler) ResetGuestSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.guestService.ResetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, session)
}
