package services

import (
	"errors"
	"fmt"
	"strings"

	"go-storefront/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = repository.ErrNotFound
)

// MissingProductsError names the requested product ids that do not exist
type MissingProductsError struct {
	IDs []string
}

func (e *MissingProductsError) Error() string {
	return fmt.Sprintf("products not found: %s", strings.Join(e.IDs, ", "))
}

func (e *MissingProductsError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError carries the failing fields of an input
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, rule := range e.Fields {
		parts = append(parts, field+": "+rule)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func notFound(kind string, id primitive.ObjectID, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s with ID %s", ErrNotFound, kind, id.Hex())
	}
	return err
}

func conflict(err error, msg string) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return fmt.Errorf("%w: %s", ErrConflict, msg)
	}
	return err
}

// parseID turns a hex id from a request into an ObjectID
func parseID(kind, hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, &ValidationError{Fields: map[string]string{kind: "invalid id " + hex}}
	}
	return id, nil
}
