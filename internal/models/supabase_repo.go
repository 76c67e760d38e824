package models

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"
)

// gigRow mirrors the gigs table. PostgREST returns timestamps as strings, so
// the row is kept separate from Gig and converted on the way in and out.
type gigRow struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Date         time.Time `json:"date"`
	Location     string    `json:"location"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
	PricePerHour float64   `json:"price_per_hour"`
	ContactPhone string    `json:"contact_phone"`
	Notes        *string   `json:"notes"`
	BandID       uuid.UUID `json:"band_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func rowFromGig(g *Gig) gigRow {
	return gigRow{
		ID:           g.ID,
		Title:        g.Title,
		Date:         g.Date.UTC(),
		Location:     g.Location,
		Latitude:     g.Latitude,
		Longitude:    g.Longitude,
		PricePerHour: g.PricePerHour,
		ContactPhone: g.ContactPhone,
		Notes:        g.Notes,
		BandID:       g.BandID,
		CreatedAt:    g.CreatedAt.UTC(),
		UpdatedAt:    g.UpdatedAt.UTC(),
	}
}

func (r gigRow) toGig() *Gig {
	return &Gig{
		ID:           r.ID,
		Title:        r.Title,
		Date:         r.Date.UTC(),
		Location:     r.Location,
		Latitude:     r.Latitude,
		Longitude:    r.Longitude,
		PricePerHour: r.PricePerHour,
		ContactPhone: r.ContactPhone,
		Notes:        r.Notes,
		BandID:       r.BandID,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}

type bandRow struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func decodeGigRows(raw []byte) ([]*Gig, error) {
	var rows []gigRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal gig rows: %v", err)
	}
	gigs := make([]*Gig, 0, len(rows))
	for _, r := range rows {
		gigs = append(gigs, r.toGig())
	}
	return gigs, nil
}

func (su *SupabaseRepo) ListGigsByBand(ctx context.Context, bandID uuid.UUID) ([]*Gig, error) {
	raw, _, err := su.supabaseClient.From(GigsTable).
		Select("*", "", false).
		Eq("band_id", bandID.String()).
		Order("date", &postgrest.OrderOpts{Ascending: true}).
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list gigs: %v", err)
	}

	return decodeGigRows(raw)
}

func (su *SupabaseRepo) InsertGig(ctx context.Context, gig *Gig) error {
	_, _, err := su.supabaseClient.From(GigsTable).
		Insert(rowFromGig(gig), false, "", "representation", "exact").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to insert gig: %v", err)
	}
	return nil
}

func (su *SupabaseRepo) FindGig(ctx context.Context, bandID, gigID uuid.UUID) (*Gig, error) {
	raw, _, err := su.supabaseClient.From(GigsTable).
		Select("*", "", false).
		Eq("id", gigID.String()).
		Eq("band_id", bandID.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get gig: %v", err)
	}

	gigs, err := decodeGigRows(raw)
	if err != nil {
		return nil, err
	}
	if len(gigs) == 0 {
		return nil, ErrNotFound
	}
	return gigs[0], nil
}

func (su *SupabaseRepo) ReplaceGig(ctx context.Context, gig *Gig) error {
	row := rowFromGig(gig)
	// nil coordinates and notes must be written as explicit nulls so a cleared
	// value does not survive the update.
	update := map[string]interface{}{
		"title":          row.Title,
		"date":           row.Date,
		"location":       row.Location,
		"latitude":       row.Latitude,
		"longitude":      row.Longitude,
		"price_per_hour": row.PricePerHour,
		"contact_phone":  row.ContactPhone,
		"notes":          row.Notes,
		"updated_at":     row.UpdatedAt,
	}

	raw, _, err := su.supabaseClient.From(GigsTable).
		Update(update, "representation", "exact").
		Eq("id", gig.ID.String()).
		Eq("band_id", gig.BandID.String()).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to update gig: %v", err)
	}

	gigs, err := decodeGigRows(raw)
	if err != nil {
		return err
	}
	if len(gigs) == 0 {
		return ErrNotFound
	}
	return nil
}

func (su *SupabaseRepo) DeleteGig(ctx context.Context, bandID, gigID uuid.UUID) error {
	raw, _, err := su.supabaseClient.From(GigsTable).
		Delete("representation", "exact").
		Eq("id", gigID.String()).
		Eq("band_id", bandID.String()).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete gig: %v", err)
	}

	gigs, err := decodeGigRows(raw)
	if err != nil {
		return err
	}
	if len(gigs) == 0 {
		return ErrNotFound
	}
	return nil
}

func (su *SupabaseRepo) CreateBand(ctx context.Context, band *Band) error {
	row := bandRow{
		ID:           band.ID,
		Name:         band.Name,
		Email:        band.Email,
		PasswordHash: band.PasswordHash,
		CreatedAt:    band.CreatedAt.UTC(),
		UpdatedAt:    band.UpdatedAt.UTC(),
	}
	_, _, err := su.supabaseClient.From(BandsTable).
		Insert(row, false, "", "minimal", "exact").
		Execute()
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("failed to insert band: %v", err)
	}
	return nil
}

func (su *SupabaseRepo) FindBandByEmail(ctx context.Context, email string) (*Band, error) {
	return su.findBand("email", email)
}

func (su *SupabaseRepo) FindBandByID(ctx context.Context, id uuid.UUID) (*Band, error) {
	return su.findBand("id", id.String())
}

func (su *SupabaseRepo) findBand(column, value string) (*Band, error) {
	raw, _, err := su.supabaseClient.From(BandsTable).
		Select("*", "", false).
		Eq(column, value).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get band: %v", err)
	}

	var rows []bandRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal band rows: %v", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	r := rows[0]
	return &Band{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}, nil
}

// isUniqueViolation matches the Postgres unique_violation code as surfaced
// through PostgREST's error message.
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "23505") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}
