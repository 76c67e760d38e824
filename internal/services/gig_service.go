package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/gigbook/internal/helpers"
	"github.com/joshua-takyi/gigbook/internal/models"
)

// GigService mediates every access to gig records. Each call is scoped to the
// calling band; a gig owned by another band is reported as models.ErrNotFound.
type GigService struct {
	gigRepo models.GigRepo
	loc     *time.Location
	now     func() time.Time
}

func NewGigService(gigRepo models.GigRepo, loc *time.Location) *GigService {
	if loc == nil {
		loc = time.UTC
	}
	return &GigService{
		gigRepo: gigRepo,
		loc:     loc,
		now:     time.Now,
	}
}

func (gs *GigService) Location() *time.Location {
	return gs.loc
}

func (gs *GigService) List(ctx context.Context, owner uuid.UUID) ([]*models.Gig, error) {
	if owner == uuid.Nil {
		return nil, models.ErrUnauthorized
	}
	gigs, err := gs.gigRepo.ListGigsByBand(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list gigs: %w", err)
	}
	models.SortGigsByDate(gigs)
	return gigs, nil
}

func (gs *GigService) Create(ctx context.Context, owner uuid.UUID, in models.GigInput) (*models.Gig, error) {
	if owner == uuid.Nil {
		return nil, models.ErrUnauthorized
	}

	ve := &models.ValidationError{}
	title := requiredText(in.Title, "title", ve)
	dateText := requiredText(in.Date, "date", ve)
	location := requiredText(in.Location, "location", ve)
	price, priceOK := requiredNumber(in.PricePerHour, "pricePerHour", ve)
	contactPhone := requiredText(in.ContactPhone, "contactPhone", ve)

	var date time.Time
	if dateText != "" {
		d, err := helpers.ParseDate(dateText, gs.loc)
		if err != nil {
			ve.AddInvalid("date", err.Error())
		}
		date = d
	}
	if priceOK && price < 0 {
		ve.AddInvalid("pricePerHour", "must not be negative")
	}

	lat := optionalNumber(in.Latitude, "latitude", ve)
	lng := optionalNumber(in.Longitude, "longitude", ve)
	checkCoordinatePair(lat, lng, ve)

	if err := ve.OrNil(); err != nil {
		return nil, err
	}

	now := gs.now().UTC()
	gig := &models.Gig{
		ID:           uuid.New(),
		Title:        title,
		Date:         date,
		Location:     location,
		Latitude:     lat,
		Longitude:    lng,
		PricePerHour: price,
		ContactPhone: contactPhone,
		Notes:        optionalText(in.Notes),
		BandID:       owner,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := models.Validate.Struct(gig); err != nil {
		return nil, models.ValidationErrorFrom(err)
	}

	if err := gs.gigRepo.InsertGig(ctx, gig); err != nil {
		return nil, fmt.Errorf("failed to create gig: %w", err)
	}
	return gig, nil
}

func (gs *GigService) Get(ctx context.Context, owner, id uuid.UUID) (*models.Gig, error) {
	if owner == uuid.Nil {
		return nil, models.ErrUnauthorized
	}
	return gs.gigRepo.FindGig(ctx, owner, id)
}

// Update merges the supplied fields into the stored gig. Absent, null or blank
// required fields keep their stored value; null or blank coordinates and notes
// clear them.
func (gs *GigService) Update(ctx context.Context, owner, id uuid.UUID, in models.GigInput) (*models.Gig, error) {
	if owner == uuid.Nil {
		return nil, models.ErrUnauthorized
	}

	existing, err := gs.gigRepo.FindGig(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	ve := &models.ValidationError{}
	gig := existing.Clone()

	if v, ok := suppliedText(in.Title); ok {
		gig.Title = v
	}
	if v, ok := suppliedText(in.Location); ok {
		gig.Location = v
	}
	if v, ok := suppliedText(in.ContactPhone); ok {
		gig.ContactPhone = v
	}
	if v, ok := suppliedText(in.Date); ok {
		d, err := helpers.ParseDate(v, gs.loc)
		if err != nil {
			ve.AddInvalid("date", err.Error())
		} else {
			gig.Date = d
		}
	}
	if in.PricePerHour.Present() && !in.PricePerHour.Value.Blank() {
		p, err := in.PricePerHour.Value.Float64()
		switch {
		case err != nil:
			ve.AddInvalid("pricePerHour", err.Error())
		case p < 0:
			ve.AddInvalid("pricePerHour", "must not be negative")
		default:
			gig.PricePerHour = p
		}
	}
	if in.Latitude.Set {
		gig.Latitude = optionalNumber(in.Latitude, "latitude", ve)
	}
	if in.Longitude.Set {
		gig.Longitude = optionalNumber(in.Longitude, "longitude", ve)
	}
	if in.Notes.Set {
		gig.Notes = optionalText(in.Notes)
	}
	checkCoordinatePair(gig.Latitude, gig.Longitude, ve)

	if err := ve.OrNil(); err != nil {
		return nil, err
	}

	gig.ID = existing.ID
	gig.BandID = existing.BandID
	gig.CreatedAt = existing.CreatedAt
	gig.UpdatedAt = gs.now().UTC()

	if err := models.Validate.Struct(gig); err != nil {
		return nil, models.ValidationErrorFrom(err)
	}

	// last write wins
	if err := gs.gigRepo.ReplaceGig(ctx, gig); err != nil {
		return nil, err
	}
	return gig, nil
}

func (gs *GigService) Delete(ctx context.Context, owner, id uuid.UUID) error {
	if owner == uuid.Nil {
		return models.ErrUnauthorized
	}
	return gs.gigRepo.DeleteGig(ctx, owner, id)
}

func requiredText(f models.Field[string], name string, ve *models.ValidationError) string {
	v, ok := suppliedText(f)
	if !ok {
		ve.AddMissing(name)
	}
	return v
}

// suppliedText returns the trimmed value when it is present and non-blank.
func suppliedText(f models.Field[string]) (string, bool) {
	if !f.Present() {
		return "", false
	}
	v := strings.TrimSpace(f.Value)
	return v, v != ""
}

func optionalText(f models.Field[string]) *string {
	v, ok := suppliedText(f)
	if !ok {
		return nil
	}
	return &v
}

func requiredNumber(f models.Field[models.Number], name string, ve *models.ValidationError) (float64, bool) {
	if !f.Present() || f.Value.Blank() {
		ve.AddMissing(name)
		return 0, false
	}
	v, err := f.Value.Float64()
	if err != nil {
		ve.AddInvalid(name, err.Error())
		return 0, false
	}
	return v, true
}

// optionalNumber yields nil for absent, null or blank input.
func optionalNumber(f models.Field[models.Number], name string, ve *models.ValidationError) *float64 {
	if !f.Present() || f.Value.Blank() {
		return nil
	}
	v, err := f.Value.Float64()
	if err != nil {
		ve.AddInvalid(name, err.Error())
		return nil
	}
	return &v
}

func checkCoordinatePair(lat, lng *float64, ve *models.ValidationError) {
	if (lat == nil) == (lng == nil) {
		return
	}
	if lat == nil {
		if _, bad := ve.Invalid["latitude"]; !bad {
			ve.AddInvalid("latitude", "latitude and longitude must be set together")
		}
		return
	}
	if _, bad := ve.Invalid["longitude"]; !bad {
		ve.AddInvalid("longitude", "latitude and longitude must be set together")
	}
}
