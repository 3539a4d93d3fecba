package service

import (
	"errors"
	"fmt"

	"github.com/RubachokBoss/grade-tracker/internal/repository"
)

var (
	ErrCourseNotFound      = repository.ErrCourseNotFound
	ErrAssignmentNotFound  = repository.ErrAssignmentNotFound
	ErrDuplicateCourseCode = repository.ErrDuplicateCode
	ErrDuplicateUser       = repository.ErrDuplicateUser
	ErrSessionNotFound     = repository.ErrSessionNotFound
	ErrGuestModeDisabled   = repository.ErrGuestModeDisabled
	ErrConcurrentUpdate    = repository.ErrConcurrentUpdate
	ErrUnknownOwner        = repository.ErrUnknownOwner

	ErrInvalidCredentials = errors.New("invalid username/email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrExportFailed       = errors.New("failed to generate spreadsheet")
)

// ValidationError reports a malformed request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
