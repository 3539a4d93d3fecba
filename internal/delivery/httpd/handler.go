package httpd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/RubachokBoss/grade-tracker/internal/middleware"
	"github.com/RubachokBoss/grade-tracker/internal/models"
	"github.com/RubachokBoss/grade-tracker/internal/service"
	"github.com/RubachokBoss/grade-tracker/internal/service/grading"
	"github.com/RubachokBoss/grade-tracker/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Handler struct {
	courseService     service.CourseService
	assignmentService service.AssignmentService
	userService       service.UserService
	guestService      service.GuestService
	exportService     service.ExportService
	checks            map[string]HealthCheck
	logger            zerolog.Logger
}

func NewHandler(
	courseService service.CourseService,
	assignmentService service.AssignmentService,
	userService service.UserService,
	guestService service.GuestService,
	exportService service.ExportService,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		courseService:     courseService,
		assignmentService: assignmentService,
		userService:       userService,
		guestService:      guestService,
		exportService:     exportService,
		checks:            make(map[string]HealthCheck),
		logger:            logger,
	}
}

// AddHealthCheck registers a dependency probed by GET /health.
func (h *Handler) AddHealthCheck(name string, check HealthCheck) {
	h.checks[name] = check
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.HealthCheck)

	router.Route("/api/v1", func(api chi.Router) {
		api.Get("/meta", h.GetMeta)

		api.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
		})

		api.Route("/guest/sessions", func(r chi.Router) {
			r.Post("/", h.StartGuestSession)
			r.Post("/{id}/reset", h.ResetGuestSession)
		})

		api.Group(func(r chi.Router) {
			r.Use(middleware.Owner)

			r.Route("/courses", func(r chi.Router) {
				r.Get("/", h.ListCourses)
				r.Post("/", h.CreateCourse)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.GetCourse)
					r.Put("/", h.UpdateCourse)
					r.Delete("/", h.DeleteCourse)
					r.Get("/summary", h.GetCourseSummary)
					r.Post("/what-if", h.WhatIf)
					r.Get("/export", h.ExportCourse)

					r.Get("/assignments", h.ListAssignments)
					r.Post("/assignments", h.CreateAssignment)
					r.Put("/assignments/{assignmentID}", h.UpdateAssignment)
					r.Delete("/assignments/{assignmentID}", h.DeleteAssignment)
				})
			})
		})
	})
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := "healthy"
	code := http.StatusOK
	deps := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.Warn().Err(err).Str("dependency", name).Msg("Health check failed")
			deps[name] = "unavailable"
			status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	writeJSON(w, code, map[string]interface{}{
		"status":       status,
		"service":      "grade-tracker",
		"dependencies": deps,
		"timestamp":    time.Now().UTC(),
	})
}

func (h *Handler) GetMeta(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, models.MetaResponse{
		GradeScale:      grading.Scale(),
		AssignmentTypes: models.AssignmentTypes(),
		CourseColors:    models.CourseColors(),
	})
}

func owner(r *http.Request) models.Owner {
	o, _ := middleware.OwnerFromContext(r.Context())
	return o
}

func (h *Handler) readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := utils.ReadJSON(w, r, dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// handleServiceError maps service and engine errors to HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		budgetErr     *grading.BudgetExceededError
		rangeErr      *grading.RangeError
		validationErr *service.ValidationError
	)

	switch {
	case errors.As(err, &budgetErr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":         http.StatusText(http.StatusUnprocessableEntity),
			"message":       budgetErr.Error(),
			"current_total": budgetErr.CurrentTotal,
			"available":     budgetErr.Available,
		})
	case errors.As(err, &rangeErr):
		writeFieldError(w, rangeErr.Field, rangeErr.Error())
	case errors.As(err, &validationErr):
		writeFieldError(w, validationErr.Field, validationErr.Message)
	case errors.Is(err, service.ErrCourseNotFound),
		errors.Is(err, service.ErrAssignmentNotFound),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, rootMessage(err))
	case errors.Is(err, service.ErrDuplicateCourseCode),
		errors.Is(err, service.ErrDuplicateUser),
		errors.Is(err, service.ErrConcurrentUpdate):
		writeError(w, http.StatusConflict, rootMessage(err))
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, service.ErrInvalidCredentials.Error())
	case errors.Is(err, service.ErrUnknownOwner):
		writeError(w, http.StatusUnauthorized, service.ErrUnknownOwner.Error())
	case errors.Is(err, service.ErrGuestModeDisabled):
		writeError(w, http.StatusServiceUnavailable, service.ErrGuestModeDisabled.Error())
	default:
		h.logger.Error().
			Err(err).
			Str("path", r.URL.Path).
			Str("request_id", chimw.GetReqID(r.Context())).
			Msg("Service error")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// rootMessage strips the "failed to ..." wrapping added by services.
func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	utils.WriteJSON(w, status, data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	utils.ErrorResponse(w, status, message)
}

func writeFieldError(w http.ResponseWriter, field, message string) {
	writeJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":   http.StatusText(http.StatusBadRequest),
		"message": message,
		"field":   field,
	})
}

func writeSuccess(w http.ResponseWriter, data interface{}) {
	utils.SuccessResponse(w, http.StatusOK, data)
}

func writeCreated(w http.ResponseWriter, data interface{}) {
	utils.SuccessResponse(w, http.StatusCreated, data)
}
