package httpd

import (
	"net/http"

	"github.com/RubachokBoss/grade-tracker/internal/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.assignmentService.ListAssignments(r.Context(), owner(r), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"assignments": assignments,
		"total":       len(assignments),
	})
}

func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAssignmentRequest
	if !h.readJSON(w, r, &req) {
		return
	}

	assignment, err := h.assignmentService.CreateAssignment(r.Context(), owner(r), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeCreated(w, assignment)
}

func (h *Handler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateAssignmentRequest
	if !h.readJSON(w, r, &req) {
		return
	}

	assignment, err := h.assignmentService.UpdateAssignment(
		r.Context(),
		owner(r),
		chi.URLParam(r, "id"),
		chi.URLParam(r, "assignmentID"),
		&req,
	)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, assignment)
}

func (h *Handler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	err := h.assignmentService.DeleteAssignment(
		r.Context(),
		owner(r),
		chi.URLParam(r, "id"),
		chi.URLParam(r, "assignmentID"),
	)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"message": "Assignment deleted successfully",
	})
}
