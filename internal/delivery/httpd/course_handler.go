package httpd

import (
	"net/http"

	"github.com/RubachokBoss/grade-tracker/internal/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courseService.ListCourses(r.Context(), owner(r))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"courses": courses,
		"total":   len(courses),
	})
}

func (h *Handler) GetCourse(w http.ResponseWriter, r *http.Request) {
	course, err := h.courseService.GetCourse(r.Context(), owner(r), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, course)
}

func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCourseRequest
	if !h.readJSON(w, r, &req) {
		return
	}

	course, err := h.courseService.CreateCourse(r.Context(), owner(r), &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeCreated(w, course)
}

func (h *Handler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateCourseRequest
	if !h.readJSON(w, r, &req) {
		return
	}

	course, err := h.courseService.UpdateCourse(r.Context(), owner(r), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, course)
}

func (h *Handler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	if err := h.courseService.DeleteCourse(r.Context(), owner(r), chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"message": "Course deleted successfully",
	})
}

func (h *Handler) GetCourseSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.courseService.GetSummary(r.Context(), owner(r), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, summary)
}

func (h *Handler) WhatIf(w http.ResponseWriter, r *http.Request) {
	var req models.WhatIfRequest
	if !h.readJSON(w, r, &req) {
		return
	}

	result, err := h.courseService.WhatIf(r.Context(), owner(r), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, result)
}

func (h *Handler) ExportCourse(w http.ResponseWriter, r *http.Request) {
	buf, filename, err := h.exportService.ExportCourse(r.Context(), owner(r), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Description", "File Transfer")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
