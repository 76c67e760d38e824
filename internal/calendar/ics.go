package calendar

import (
	"fmt"
	"strconv"
	"strings"

	ics "github.com/arran4/golang-ical"
	"github.com/joshua-takyi/gigbook/internal/models"
)

const ProductID = "-//gigbook//gigs//EN"

// ExportICS renders gigs as a VCALENDAR with one VEVENT per gig.
func ExportICS(gigs []*models.Gig, name string) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(ProductID)
	if name != "" {
		cal.SetName(name)
		cal.SetXWRCalName(name)
	}

	for _, g := range gigs {
		event := cal.AddEvent(g.ID.String() + "@gigbook")
		event.SetDtStampTime(g.UpdatedAt.UTC())
		event.SetCreatedTime(g.CreatedAt.UTC())
		event.SetModifiedAt(g.UpdatedAt.UTC())
		event.SetStartAt(g.Date.UTC())
		event.SetSummary(g.Title)
		event.SetLocation(g.Location)
		event.SetDescription(describe(g))
		if c := g.Coordinates(); c != nil {
			event.SetProperty(ics.ComponentPropertyGeo, formatGeo(c))
		}
	}
	return cal.Serialize()
}

func describe(g *models.Gig) string {
	lines := []string{
		fmt.Sprintf("Rate: %s/hour", strconv.FormatFloat(g.PricePerHour, 'f', 2, 64)),
		"Contact: " + g.ContactPhone,
	}
	if g.Notes != nil && *g.Notes != "" {
		lines = append(lines, *g.Notes)
	}
	return strings.Join(lines, "\n")
}

func formatGeo(c *models.Coordinates) string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + ";" + strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}
