package models

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGig(band uuid.UUID, title string, date time.Time) *Gig {
	return &Gig{
		ID:           uuid.New(),
		Title:        title,
		Date:         date,
		Location:     "Town Hall",
		PricePerHour: 100,
		ContactPhone: "555-0100",
		BandID:       band,
	}
}

func TestMemoryRepoScopesByBand(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	bandA, bandB := uuid.New(), uuid.New()

	gig := newTestGig(bandA, "Wedding", time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC))
	require.NoError(t, repo.InsertGig(ctx, gig))

	_, err := repo.FindGig(ctx, bandB, gig.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := repo.ListGigsByBand(ctx, bandB)
	require.NoError(t, err)
	assert.Empty(t, list)

	other := gig.Clone()
	other.BandID = bandB
	assert.ErrorIs(t, repo.ReplaceGig(ctx, other), ErrNotFound)
	assert.ErrorIs(t, repo.DeleteGig(ctx, bandB, gig.ID), ErrNotFound)

	found, err := repo.FindGig(ctx, bandA, gig.ID)
	require.NoError(t, err)
	assert.Equal(t, "Wedding", found.Title)
}

func TestMemoryRepoListsByDateWithStableTies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	band := uuid.New()

	same := time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC)
	require.NoError(t, repo.InsertGig(ctx, newTestGig(band, "late", time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, repo.InsertGig(ctx, newTestGig(band, "first tie", same)))
	require.NoError(t, repo.InsertGig(ctx, newTestGig(band, "second tie", same)))
	require.NoError(t, repo.InsertGig(ctx, newTestGig(band, "early", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))))

	list, err := repo.ListGigsByBand(ctx, band)
	require.NoError(t, err)

	titles := make([]string, 0, len(list))
	for _, g := range list {
		titles = append(titles, g.Title)
	}
	assert.Equal(t, []string{"early", "first tie", "second tie", "late"}, titles)
}

func TestMemoryRepoReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	band := uuid.New()

	gig := newTestGig(band, "Wedding", time.Now())
	gig.SetCoordinates(&Coordinates{Latitude: 1, Longitude: 2})
	require.NoError(t, repo.InsertGig(ctx, gig))

	gig.Title = "mutated"
	*gig.Latitude = 99

	found, err := repo.FindGig(ctx, band, gig.ID)
	require.NoError(t, err)
	assert.Equal(t, "Wedding", found.Title)
	assert.Equal(t, 1.0, *found.Latitude)
}

func TestMemoryRepoDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	band := uuid.New()

	gig := newTestGig(band, "Wedding", time.Now())
	require.NoError(t, repo.InsertGig(ctx, gig))
	require.NoError(t, repo.DeleteGig(ctx, band, gig.ID))

	_, err := repo.FindGig(ctx, band, gig.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.DeleteGig(ctx, band, gig.ID), ErrNotFound)
}

func TestMemoryRepoBandEmailIsUnique(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	first := &Band{ID: uuid.New(), Name: "The Tide", Email: "band@example.com"}
	require.NoError(t, repo.CreateBand(ctx, first))

	dup := &Band{ID: uuid.New(), Name: "Copycats", Email: "BAND@example.com"}
	assert.ErrorIs(t, repo.CreateBand(ctx, dup), ErrConflict)

	found, err := repo.FindBandByEmail(ctx, "band@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)

	byID, err := repo.FindBandByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "The Tide", byID.Name)

	_, err = repo.FindBandByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepoConcurrentInserts(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	band := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.InsertGig(ctx, newTestGig(band, "gig", time.Now()))
		}()
	}
	wg.Wait()

	list, err := repo.ListGigsByBand(ctx, band)
	require.NoError(t, err)
	assert.Len(t, list, 50)
}
