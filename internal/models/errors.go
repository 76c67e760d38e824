package models

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrUnauthorized is returned when no caller identity is attached to a request.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is returned when a gig does not exist or is owned by another band.
	// The two cases are reported identically so callers cannot discover other
	// bands' records.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a band registers with an email already in use.
	ErrConflict = errors.New("email already registered")
)

// ValidationError lists the request fields that were missing or malformed.
type ValidationError struct {
	Missing []string          `json:"missing,omitempty"`
	Invalid map[string]string `json:"invalid,omitempty"`
}

func (v *ValidationError) AddMissing(field string) {
	v.Missing = append(v.Missing, field)
}

func (v *ValidationError) AddInvalid(field, reason string) {
	if v.Invalid == nil {
		v.Invalid = make(map[string]string)
	}
	v.Invalid[field] = reason
}

func (v *ValidationError) HasErrors() bool {
	return len(v.Missing) > 0 || len(v.Invalid) > 0
}

// Fields returns every offending field name, missing ones first.
func (v *ValidationError) Fields() []string {
	out := append([]string{}, v.Missing...)
	invalid := make([]string, 0, len(v.Invalid))
	for k := range v.Invalid {
		invalid = append(invalid, k)
	}
	sort.Strings(invalid)
	return append(out, invalid...)
}

func (v *ValidationError) Error() string {
	var parts []string
	if len(v.Missing) > 0 {
		parts = append(parts, "missing required fields: "+strings.Join(v.Missing, ", "))
	}
	if len(v.Invalid) > 0 {
		keys := make([]string, 0, len(v.Invalid))
		for k := range v.Invalid {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			parts = append(parts, k+": "+v.Invalid[k])
		}
	}
	if len(parts) == 0 {
		return "validation failed"
	}
	return strings.Join(parts, "; ")
}

// OrNil returns v when it holds errors and nil otherwise, so callers can
// return the result directly as an error.
func (v *ValidationError) OrNil() error {
	if v.HasErrors() {
		return v
	}
	return nil
}
