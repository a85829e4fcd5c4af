package models

import "errors"

var (
	// ErrNotFound is returned when an order, date or catalog key is absent
	ErrNotFound = errors.New("not found")

	// ErrPersistence is returned when a backing file cannot be read, parsed or written
	ErrPersistence = errors.New("persistence failure")

	// ErrValidation is returned when raw input violates a domain constraint
	ErrValidation = errors.New("validation failure")
)
