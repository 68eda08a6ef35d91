package lead

import (
	"errors"
	"strings"
)

var (
	ErrLeadNotFound       = errors.New("lead not found")
	ErrEmailExists        = errors.New("lead with this email already exists")
	ErrValidation         = errors.New("validation failed")
	ErrStorageUnavailable = errors.New("lead storage unavailable")
)

// FieldMessage is a human-readable failure on one field.
type FieldMessage struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every failed field of a create or update.
type ValidationError struct {
	Fields []FieldMessage
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// StorageError wraps a failed call to the persistence layer.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return "lead " + e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() []error { return []error{ErrStorageUnavailable, e.Err} }

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
