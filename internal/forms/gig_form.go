// Package forms turns raw form input into gig payloads. It only shapes the
// draft; required fields and value ranges are enforced by the gig service.
package forms

import (
	"context"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/gigbook/internal/geocode"
	"github.com/joshua-takyi/gigbook/internal/helpers"
	"github.com/joshua-takyi/gigbook/internal/models"
)

const (
	FieldTitle        = "title"
	FieldDate         = "date"
	FieldLocation     = "location"
	FieldLatitude     = "latitude"
	FieldLongitude    = "longitude"
	FieldPricePerHour = "pricePerHour"
	FieldContactPhone = "contactPhone"
	FieldNotes        = "notes"
)

type GigDraft struct {
	Title        string              `json:"title"`
	Date         string              `json:"date"`
	Location     string              `json:"location"`
	Coordinates  *models.Coordinates `json:"coordinates"`
	PricePerHour float64             `json:"pricePerHour"`
	ContactPhone string              `json:"contactPhone"`
	Notes        string              `json:"notes"`
}

// GigSubmitter is the part of the gig service a form submits to.
type GigSubmitter interface {
	Create(ctx context.Context, owner uuid.UUID, in models.GigInput) (*models.Gig, error)
	Update(ctx context.Context, owner, id uuid.UUID, in models.GigInput) (*models.Gig, error)
}

type GigForm struct {
	draft GigDraft
	gigID uuid.UUID
	loc   *time.Location
}

func NewGigForm(loc *time.Location) *GigForm {
	if loc == nil {
		loc = time.UTC
	}
	return &GigForm{loc: loc}
}

// EditGigForm seeds the draft from gig, showing its date as local date-time
// input in loc.
func EditGigForm(gig *models.Gig, loc *time.Location) *GigForm {
	f := NewGigForm(loc)
	f.gigID = gig.ID
	f.draft = GigDraft{
		Title:        gig.Title,
		Date:         helpers.FormatLocalDateTime(gig.Date, f.loc),
		Location:     gig.Location,
		Coordinates:  gig.Coordinates(),
		PricePerHour: gig.PricePerHour,
		ContactPhone: gig.ContactPhone,
	}
	if gig.Notes != nil {
		f.draft.Notes = *gig.Notes
	}
	return f
}

func (f *GigForm) Editing() bool {
	return f.gigID != uuid.Nil
}

func (f *GigForm) GigID() uuid.UUID {
	return f.gigID
}

// Draft returns a copy of the working draft.
func (f *GigForm) Draft() GigDraft {
	d := f.draft
	if d.Coordinates != nil {
		c := *d.Coordinates
		d.Coordinates = &c
	}
	return d
}

// Set updates one text control. Unknown fields are ignored. Setting the
// location this way drops any coordinates.
func (f *GigForm) Set(field, value string) {
	switch field {
	case FieldTitle:
		f.draft.Title = value
	case FieldDate:
		f.draft.Date = value
	case FieldLocation:
		f.SetLocation(value, nil)
	case FieldPricePerHour:
		f.draft.PricePerHour = parsePrice(value)
	case FieldContactPhone:
		f.draft.ContactPhone = value
	case FieldNotes:
		f.draft.Notes = value
	}
}

// SetLocation replaces the location. A nil coords clears the pin.
func (f *GigForm) SetLocation(text string, coords *models.Coordinates) {
	f.draft.Location = text
	if coords == nil {
		f.draft.Coordinates = nil
		return
	}
	c := *coords
	f.draft.Coordinates = &c
}

// Apply copies submitted form values into the draft. Only keys present in
// values are touched. A location with both coordinates keeps the pin; a
// location on its own is plain text.
func (f *GigForm) Apply(values url.Values) {
	for _, field := range []string{FieldTitle, FieldDate, FieldPricePerHour, FieldContactPhone, FieldNotes} {
		if _, ok := values[field]; ok {
			f.Set(field, values.Get(field))
		}
	}

	_, hasLocation := values[FieldLocation]
	coords, hasCoords := parseCoordinates(values.Get(FieldLatitude), values.Get(FieldLongitude))
	switch {
	case hasLocation && hasCoords:
		f.SetLocation(values.Get(FieldLocation), coords)
	case hasLocation:
		f.SetLocation(values.Get(FieldLocation), nil)
	case hasCoords:
		f.SetLocation(f.draft.Location, coords)
	}
}

// SearchLocation asks g for the typed location. A hit replaces the text with
// the canonical place name and sets the pin. A miss or an error keeps the
// typed text with no pin; the error is returned for logging only.
func (f *GigForm) SearchLocation(ctx context.Context, g geocode.Geocoder) (*geocode.Result, error) {
	typed := f.draft.Location
	if g == nil {
		f.SetLocation(typed, nil)
		return nil, geocode.ErrUnavailable
	}
	res, err := g.Forward(ctx, typed)
	if err != nil || res == nil {
		f.SetLocation(typed, nil)
		return nil, err
	}
	name := res.PlaceName
	if strings.TrimSpace(name) == "" {
		name = typed
	}
	f.SetLocation(name, &models.Coordinates{Latitude: res.Latitude, Longitude: res.Longitude})
	return res, nil
}

// Payload forwards the whole draft. A cleared pin is sent as explicit nulls
// so an update removes stored coordinates.
func (f *GigForm) Payload() models.GigInput {
	in := models.GigInput{
		Title:        models.Some(f.draft.Title),
		Date:         models.Some(f.draft.Date),
		Location:     models.Some(f.draft.Location),
		PricePerHour: models.Some(models.NumberOf(f.draft.PricePerHour)),
		ContactPhone: models.Some(f.draft.ContactPhone),
		Notes:        models.Some(f.draft.Notes),
		Latitude:     models.Null[models.Number](),
		Longitude:    models.Null[models.Number](),
	}
	if c := f.draft.Coordinates; c != nil {
		in.Latitude = models.Some(models.NumberOf(c.Latitude))
		in.Longitude = models.Some(models.NumberOf(c.Longitude))
	}
	return in
}

// Submit creates or updates the gig. The draft is left as it was whether or
// not the call succeeds.
func (f *GigForm) Submit(ctx context.Context, svc GigSubmitter, owner uuid.UUID) (*models.Gig, error) {
	if f.Editing() {
		return svc.Update(ctx, owner, f.gigID, f.Payload())
	}
	return svc.Create(ctx, owner, f.Payload())
}

func parsePrice(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func parseCoordinates(lat, lng string) (*models.Coordinates, bool) {
	la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return nil, false
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if err != nil {
		return nil, false
	}
	return &models.Coordinates{Latitude: la, Longitude: lo}, true
}
