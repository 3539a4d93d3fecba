package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

func TestValidIDs(t *testing.T) {
	id := uuid.New().String()

	if !validIDs(id, uuid.New().String()) {
		t.Error("UUIDs should be valid")
	}
	if validIDs(id, "course-1") || validIDs("") {
		t.Error("non-UUID ids must be rejected")
	}
}

func TestViolationCodes(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pq.Error{Code: pgUniqueViolation})
	fk := &pq.Error{Code: pgForeignKeyViolation}

	if !isUniqueViolation(unique) || isForeignKeyViolation(unique) {
		t.Error("wrapped unique violation not detected")
	}
	if !isForeignKeyViolation(fk) || isUniqueViolation(fk) {
		t.Error("foreign key violation not detected")
	}
	if isUniqueViolation(errors.New("boom")) || isUniqueViolation(nil) {
		t.Error("plain errors are not violations")
	}
}
