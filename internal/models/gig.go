package models

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

const (
	GigsColName = "gigs"
	GigsTable   = "gigs"
)

// Coordinates is a WGS84 point as returned by the geocoder or a dropped map pin.
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Gig is a single scheduled, paid engagement owned by a band.
type Gig struct {
	ID           uuid.UUID `bson:"_id" json:"id"`
	Title        string    `bson:"title" json:"title" validate:"required"`
	Date         time.Time `bson:"date" json:"date"`
	Location     string    `bson:"location" json:"location" validate:"required"`
	Latitude     *float64  `bson:"latitude,omitempty" json:"latitude" validate:"omitempty,latitude"`
	Longitude    *float64  `bson:"longitude,omitempty" json:"longitude" validate:"omitempty,longitude"`
	PricePerHour float64   `bson:"price_per_hour" json:"pricePerHour" validate:"gte=0"`
	ContactPhone string    `bson:"contact_phone" json:"contactPhone" validate:"required"`
	Notes        *string   `bson:"notes,omitempty" json:"notes"`
	BandID       uuid.UUID `bson:"band_id" json:"bandId" validate:"required"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}

// Coordinates returns the gig's point, or nil when it was stored as text only.
func (g *Gig) Coordinates() *Coordinates {
	if g.Latitude == nil || g.Longitude == nil {
		return nil
	}
	return &Coordinates{Latitude: *g.Latitude, Longitude: *g.Longitude}
}

func (g *Gig) SetCoordinates(c *Coordinates) {
	if c == nil {
		g.Latitude, g.Longitude = nil, nil
		return
	}
	lat, lng := c.Latitude, c.Longitude
	g.Latitude, g.Longitude = &lat, &lng
}

// Clone returns a deep copy so stored records never alias caller memory.
func (g *Gig) Clone() *Gig {
	if g == nil {
		return nil
	}
	c := *g
	if g.Latitude != nil {
		v := *g.Latitude
		c.Latitude = &v
	}
	if g.Longitude != nil {
		v := *g.Longitude
		c.Longitude = &v
	}
	if g.Notes != nil {
		v := *g.Notes
		c.Notes = &v
	}
	return &c
}

// SortGigsByDate orders gigs ascending by date, keeping insertion order for ties.
func SortGigsByDate(gigs []*Gig) {
	sort.SliceStable(gigs, func(i, j int) bool {
		return gigs[i].Date.Before(gigs[j].Date)
	})
}

// GigInput is the body of a create or partial update request.
type GigInput struct {
	Title        Field[string] `json:"title,omitzero"`
	Date         Field[string] `json:"date,omitzero"`
	Location     Field[string] `json:"location,omitzero"`
	Latitude     Field[Number] `json:"latitude,omitzero"`
	Longitude    Field[Number] `json:"longitude,omitzero"`
	PricePerHour Field[Number] `json:"pricePerHour,omitzero"`
	ContactPhone Field[string] `json:"contactPhone,omitzero"`
	Notes        Field[string] `json:"notes,omitzero"`
}

// GigRepo is the record store for gigs. Every lookup is scoped by band so a
// record owned by someone else reads as ErrNotFound.
type GigRepo interface {
	ListGigsByBand(ctx context.Context, bandID uuid.UUID) ([]*Gig, error)
	InsertGig(ctx context.Context, gig *Gig) error
	FindGig(ctx context.Context, bandID, gigID uuid.UUID) (*Gig, error)
	ReplaceGig(ctx context.Context, gig *Gig) error
	DeleteGig(ctx context.Context, bandID, gigID uuid.UUID) error
}
