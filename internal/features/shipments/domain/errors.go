package domain

import (
	"errors"
	"fmt"
)

const (
	MsgFieldsRequired       = "All fields are required"
	MsgInvalidStatus        = "Invalid status"
	MsgInvalidItemCondition = "Invalid item condition"
	MsgInvalidID            = "Invalid ID format"
)

var (
	// ErrNotFound is matched by every NotFoundError and returned by repositories for missing records.
	ErrNotFound = errors.New("not found")
)

// ValidationError is returned when caller input breaks a contract.
type ValidationError struct {
	Message string
	// Violations names the offending fields.
	Violations []string
}

// NewValidationError creates a ValidationError for the given fields.
func NewValidationError(message string, fields ...string) *ValidationError {
	return &ValidationError{Message: message, Violations: fields}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError is returned when a shipment cannot be located.
type NotFoundError struct {
	Resource string
	Key      string
	Value    string
}

// NewShipmentNotFound reports a shipment missing under the given key.
func NewShipmentNotFound(key, value string) *NotFoundError {
	return &NotFoundError{Resource: "Shipment", Key: key, Value: value}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with %s %s not found", e.Resource, e.Key, e.Value)
}

// Is makes errors.Is(err, ErrNotFound) hold.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// DependencyError wraps a failure of the store, waybill allocator or another collaborator.
type DependencyError struct {
	Dependency string
	Op         string
	Err        error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Dependency, e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}
