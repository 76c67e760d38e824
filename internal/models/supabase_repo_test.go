package models

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supabase-community/supabase-go"
)

// restRecorder stands in for PostgREST: it answers every request with rows
// and remembers the query of the last one.
type restRecorder struct {
	mu    sync.Mutex
	path  string
	query url.Values
	rows  []gigRow
}

func newSupabaseTestRepo(t *testing.T, rr *restRecorder) *SupabaseRepo {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rr.mu.Lock()
		rr.path = r.URL.Path
		rr.query = r.URL.Query()
		rows := rr.rows
		rr.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(rows)
	}))
	t.Cleanup(srv.Close)

	client, err := supabase.NewClient(srv.URL, "anon-key", nil)
	require.NoError(t, err)
	return SupabaseNewRepo(client)
}

func TestSupabaseListGigsOrdersOnServer(t *testing.T) {
	band := uuid.New()
	day := time.Date(2024, 7, 4, 18, 0, 0, 0, time.UTC)
	rr := &restRecorder{rows: []gigRow{
		{ID: uuid.New(), Title: "Early", Date: day, BandID: band},
		{ID: uuid.New(), Title: "Late", Date: day.Add(24 * time.Hour), BandID: band},
	}}
	repo := newSupabaseTestRepo(t, rr)

	gigs, err := repo.ListGigsByBand(context.Background(), band)
	require.NoError(t, err)
	require.Len(t, gigs, 2)
	assert.Equal(t, "Early", gigs[0].Title)

	assert.Equal(t, "/rest/v1/"+GigsTable, rr.path)
	assert.Equal(t, "eq."+band.String(), rr.query.Get("band_id"))
	order := rr.query.Get("order")
	assert.Regexp(t, `^date\.asc`, order)
	assert.Contains(t, order, "created_at.asc")
}

func TestSupabaseFindGigEmptyIsNotFound(t *testing.T) {
	rr := &restRecorder{rows: []gigRow{}}
	repo := newSupabaseTestRepo(t, rr)

	band, gig := uuid.New(), uuid.New()
	_, err := repo.FindGig(context.Background(), band, gig)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "eq."+gig.String(), rr.query.Get("id"))
	assert.Equal(t, "eq."+band.String(), rr.query.Get("band_id"))
}
