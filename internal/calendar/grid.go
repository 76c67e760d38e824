// Package calendar lays gigs out on a Sunday-first month grid and exports
// them as an iCalendar feed.
package calendar

import (
	"time"

	"github.com/joshua-takyi/gigbook/internal/models"
)

// NavigationStep is how far Next and Previous move the reference date. It is
// a fixed day count, not a calendar month, so stepping from the 31st of a
// long month can land two months later.
const NavigationStep = 30

type View string

const (
	ViewMonth View = "month"
	ViewWeek  View = "week"
)

func ParseView(s string) View {
	if View(s) == ViewWeek {
		return ViewWeek
	}
	return ViewMonth
}

type DayCell struct {
	Date    time.Time     `json:"date"`
	InMonth bool          `json:"inMonth"`
	IsToday bool          `json:"isToday"`
	Gigs    []*models.Gig `json:"gigs"`
}

type Week [7]DayCell

type Grid struct {
	Reference time.Time `json:"reference"`
	View      View      `json:"view"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Weeks     []Week    `json:"weeks"`
	Previous  time.Time `json:"previous"`
	Next      time.Time `json:"next"`
}

// Builder carries the clock used to mark today's cell.
type Builder struct {
	Now func() time.Time
}

func NewBuilder() *Builder {
	return &Builder{Now: time.Now}
}

// BuildGrid returns every week that touches ref's month. Day boundaries and
// the today flag are evaluated in ref's location.
func (b *Builder) BuildGrid(ref time.Time, gigs []*models.Gig) Grid {
	loc := ref.Location()
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)

	start := startOfWeek(first)
	end := startOfWeek(last).AddDate(0, 0, 6)

	return b.build(ref, ViewMonth, start, end, gigs)
}

// BuildWeek returns the single Sunday-first week containing ref. Cells
// outside ref's month are flagged the same way the month grid flags them.
func (b *Builder) BuildWeek(ref time.Time, gigs []*models.Gig) Grid {
	start := startOfWeek(ref)
	return b.build(ref, ViewWeek, start, start.AddDate(0, 0, 6), gigs)
}

func (b *Builder) Build(ref time.Time, view View, gigs []*models.Gig) Grid {
	if view == ViewWeek {
		return b.BuildWeek(ref, gigs)
	}
	return b.BuildGrid(ref, gigs)
}

func (b *Builder) build(ref time.Time, view View, start, end time.Time, gigs []*models.Gig) Grid {
	loc := ref.Location()
	today := dayKey(b.now().In(loc))

	byDay := make(map[int][]*models.Gig)
	for _, g := range gigs {
		k := dayKey(g.Date.In(loc))
		byDay[k] = append(byDay[k], g)
	}

	grid := Grid{
		Reference: ref,
		View:      view,
		Start:     start,
		End:       end,
		Previous:  Previous(ref),
		Next:      Next(ref),
	}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 7) {
		var week Week
		for i := range week {
			d := day.AddDate(0, 0, i)
			k := dayKey(d)
			cellGigs := byDay[k]
			if cellGigs == nil {
				cellGigs = []*models.Gig{}
			}
			week[i] = DayCell{
				Date:    d,
				InMonth: d.Year() == ref.Year() && d.Month() == ref.Month(),
				IsToday: k == today,
				Gigs:    cellGigs,
			}
		}
		grid.Weeks = append(grid.Weeks, week)
	}
	return grid
}

func (b *Builder) now() time.Time {
	if b == nil || b.Now == nil {
		return time.Now()
	}
	return b.Now()
}

// BuildGrid is Builder.BuildGrid with the wall clock.
func BuildGrid(ref time.Time, gigs []*models.Gig) Grid {
	return NewBuilder().BuildGrid(ref, gigs)
}

func Next(ref time.Time) time.Time {
	return ref.AddDate(0, 0, NavigationStep)
}

func Previous(ref time.Time) time.Time {
	return ref.AddDate(0, 0, -NavigationStep)
}

// startOfWeek returns midnight of the Sunday on or before t.
func startOfWeek(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return d.AddDate(0, 0, -int(d.Weekday()))
}

func dayKey(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}
