package domain

import (
	"errors"
	"strings"
)

var (
	ErrNotFound           = errors.New("project not found")
	ErrValidation         = errors.New("validation failed")
	ErrStorageFull        = errors.New("storage full")
	ErrCatalogReadOnly    = errors.New("catalog projects are not editable")
	ErrExportFailed       = errors.New("export failed")
	ErrTeamMemberNotFound = errors.New("team member not found")
	ErrInvalidStatus      = errors.New("invalid status")
)

// ValidationError lists the required fields that were empty.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
