// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds the business logic behind the HTTP API.
package service

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/olegiv/ocms-api/internal/store"
)

var (
	// ErrNotFound means the addressed record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict means a unique value is already taken.
	ErrConflict = errors.New("conflict")
	// ErrDelivery means an outgoing email could not be delivered.
	ErrDelivery = errors.New("email delivery failed")
	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInactiveUser is returned when a deactivated account tries to log in.
	ErrInactiveUser = errors.New("account is deactivated")
)

// ValidationError collects field level problems with an input.
type ValidationError struct {
	Fields map[string]string
}

// Error implements error.
func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a problem with field. The first message per field wins.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// Err returns e when at least one field failed and nil otherwise.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// invalid returns a ValidationError for a single field.
func invalid(field, msg string) error {
	v := &ValidationError{}
	v.Add(field, msg)
	return v
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// storeErr translates storage errors into service errors.
func storeErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case store.IsNotFound(err):
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	case store.IsUniqueViolation(err):
		return fmt.Errorf("%s: %w", what, ErrConflict)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}

// affected turns a zero row count from a delete or update into ErrNotFound.
func affected(n int64, err error, what string) error {
	if err != nil {
		return storeErr(err, what)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
