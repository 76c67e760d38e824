// Package geocode resolves free-text locations to coordinates and builds
// directions links. A missing provider degrades to text-only locations.
package geocode

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnavailable is returned by the Disabled adapter.
	ErrUnavailable = errors.New("geocoding is not configured")

	ErrExternalService = errors.New("geocoding service failed")
)

type Result struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
	PlaceName string  `json:"placeName"`
}

// Geocoder returns at most one best match. A query with no match yields a nil
// Result and a nil error.
type Geocoder interface {
	Forward(ctx context.Context, query string) (*Result, error)
	Reverse(ctx context.Context, lat, lng float64) (*Result, error)
}

// Disabled stands in when no provider token is configured.
type Disabled struct{}

func (Disabled) Forward(ctx context.Context, query string) (*Result, error) {
	return nil, ErrUnavailable
}

func (Disabled) Reverse(ctx context.Context, lat, lng float64) (*Result, error) {
	return nil, ErrUnavailable
}

// IsDegraded reports whether err means the caller should fall back to the
// typed text.
func IsDegraded(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrExternalService)
}

func ValidatePoint(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %v out of range", lat)
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude %v out of range", lng)
	}
	return nil
}
