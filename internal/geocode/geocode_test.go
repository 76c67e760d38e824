package geocode

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/joshua-takyi/gigbook/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapboxStub(t *testing.T, handler http.HandlerFunc) *MapboxClient {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return NewMapboxClient("pk.test", time.Second).WithBaseURL(ts.URL)
}

func TestMapboxForward(t *testing.T) {
	var gotPath string
	var gotQuery url.Values
	mc := mapboxStub(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotQuery = r.URL.Query()
		fmt.Fprint(w, `{"features":[{"center":[-74.006,40.7128],"place_name":"City Hall, New York, NY"},{"center":[0,0],"place_name":"ignored"}]}`)
	})

	res, err := mc.Forward(context.Background(), "City Hall")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 40.7128, res.Latitude)
	assert.Equal(t, -74.006, res.Longitude)
	assert.Equal(t, "City Hall, New York, NY", res.PlaceName)

	assert.Equal(t, "/City%20Hall.json", gotPath)
	assert.Equal(t, "pk.test", gotQuery.Get("access_token"))
	assert.Equal(t, "address,poi", gotQuery.Get("types"))
}

func TestMapboxReverseSendsLongitudeFirst(t *testing.T) {
	var gotPath string
	var gotTypes string
	mc := mapboxStub(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotTypes = r.URL.Query().Get("types")
		fmt.Fprint(w, `{"features":[{"center":[-0.1276,51.5072],"place_name":"10 Downing St, London"}]}`)
	})

	res, err := mc.Reverse(context.Background(), 51.5072, -0.1276)
	require.NoError(t, err)
	assert.Equal(t, "/-0.1276,51.5072.json", gotPath)
	assert.Equal(t, "address", gotTypes)
	assert.Equal(t, "10 Downing St, London", res.PlaceName)

	_, err = mc.Reverse(context.Background(), 91, 0)
	assert.Error(t, err)
}

func TestMapboxNoMatch(t *testing.T) {
	mc := mapboxStub(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"features":[]}`)
	})
	res, err := mc.Forward(context.Background(), "nowhere at all")
	assert.NoError(t, err)
	assert.Nil(t, res)

	res, err = mc.Forward(context.Background(), "   ")
	assert.NoError(t, err)
	assert.Nil(t, res)
}

func TestMapboxFailuresAreExternalServiceErrors(t *testing.T) {
	mc := mapboxStub(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Authorized - Invalid Token"}`, http.StatusUnauthorized)
	})
	_, err := mc.Forward(context.Background(), "City Hall")
	assert.ErrorIs(t, err, ErrExternalService)
	assert.True(t, IsDegraded(err))

	garbled := mapboxStub(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	})
	_, err = garbled.Forward(context.Background(), "City Hall")
	assert.ErrorIs(t, err, ErrExternalService)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close()
	down := NewMapboxClient("pk.test", time.Second).WithBaseURL(ts.URL)
	_, err = down.Forward(context.Background(), "City Hall")
	assert.ErrorIs(t, err, ErrExternalService)
}

func TestDisabled(t *testing.T) {
	var g Geocoder = Disabled{}
	_, err := g.Forward(context.Background(), "City Hall")
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = g.Reverse(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.True(t, IsDegraded(err))
	assert.False(t, IsDegraded(errors.New("boom")))
}

type countingGeocoder struct {
	calls int32
	res   *Result
	err   error
}

func (c *countingGeocoder) Forward(ctx context.Context, query string) (*Result, error) {
	atomic.AddInt32(&c.calls, 1)
	return c.res, c.err
}

func (c *countingGeocoder) Reverse(ctx context.Context, lat, lng float64) (*Result, error) {
	atomic.AddInt32(&c.calls, 1)
	return c.res, c.err
}

func TestCachedGeocoderReusesAnswers(t *testing.T) {
	inner := &countingGeocoder{res: &Result{Latitude: 1, Longitude: 2, PlaceName: "Hall"}}
	cg := NewCachedGeocoder(inner, NewMemoryCache(), time.Minute, nil)
	ctx := context.Background()

	first, err := cg.Forward(ctx, "City  Hall")
	require.NoError(t, err)
	second, err := cg.Forward(ctx, "city hall")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, inner.calls)

	_, err = cg.Reverse(ctx, 1, 2)
	require.NoError(t, err)
	_, err = cg.Reverse(ctx, 1.000001, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 2, inner.calls)
}

func TestCachedGeocoderCachesMissesButNotErrors(t *testing.T) {
	ctx := context.Background()

	miss := &countingGeocoder{}
	cg := NewCachedGeocoder(miss, NewMemoryCache(), time.Minute, nil)
	for i := 0; i < 3; i++ {
		res, err := cg.Forward(ctx, "nowhere")
		require.NoError(t, err)
		assert.Nil(t, res)
	}
	assert.EqualValues(t, 1, miss.calls)

	failing := &countingGeocoder{err: ErrExternalService}
	cg = NewCachedGeocoder(failing, NewMemoryCache(), time.Minute, nil)
	for i := 0; i < 3; i++ {
		_, err := cg.Forward(ctx, "City Hall")
		assert.ErrorIs(t, err, ErrExternalService)
	}
	assert.EqualValues(t, 3, failing.calls)
}

func TestMemoryCacheExpires(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mc.now = func() time.Time { return now }

	require.NoError(t, mc.Set(ctx, "k", []byte("v"), time.Minute))
	v, ok, err := mc.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), v)

	now = now.Add(2 * time.Minute)
	_, ok, err = mc.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCacheKeepsEntryRefreshedDuringExpiry(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	refreshing := false
	mc.now = func() time.Time {
		if refreshing {
			// another caller stores a fresh answer between the read and the delete
			refreshing = false
			require.NoError(t, mc.Set(ctx, "k", []byte("fresh"), time.Minute))
		}
		return now
	}

	require.NoError(t, mc.Set(ctx, "k", []byte("stale"), time.Minute))
	now = now.Add(2 * time.Minute)
	refreshing = true

	_, ok, err := mc.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	v, ok, err := mc.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("fresh"), v)
}

func TestPlatformFromUserAgent(t *testing.T) {
	assert.Equal(t, PlatformIOS, PlatformFromUserAgent("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)"))
	assert.Equal(t, PlatformAndroid, PlatformFromUserAgent("Mozilla/5.0 (Linux; Android 14; Pixel 8)"))
	assert.Equal(t, PlatformDesktop, PlatformFromUserAgent("Mozilla/5.0 (X11; Linux x86_64)"))
	assert.Equal(t, PlatformDesktop, PlatformFromUserAgent(""))
}

func TestDirectionsURL(t *testing.T) {
	to := &models.Coordinates{Latitude: 40.7128, Longitude: -74.006}
	from := &models.Coordinates{Latitude: 40.7, Longitude: -74}

	ios := DirectionsURL(PlatformIOS, from, to, "City Hall")
	assert.True(t, strings.HasPrefix(ios, "https://maps.apple.com/?"))
	q := parseQuery(t, ios)
	assert.Equal(t, "40.7,-74", q.Get("saddr"))
	assert.Equal(t, "40.7128,-74.006", q.Get("daddr"))

	android := parseQuery(t, DirectionsURL(PlatformAndroid, nil, to, "City Hall"))
	assert.Equal(t, "40.7128,-74.006", android.Get("daddr"))
	assert.False(t, android.Has("saddr"))

	desktop := DirectionsURL(PlatformDesktop, nil, to, "City Hall, New York")
	assert.True(t, strings.HasPrefix(desktop, "https://maps.google.com/maps?"))
	assert.Equal(t, "City Hall, New York", parseQuery(t, desktop).Get("daddr"))

	textOnly := parseQuery(t, DirectionsURL(PlatformIOS, nil, nil, "The Anchor"))
	assert.Equal(t, "The Anchor", textOnly.Get("daddr"))

	assert.Empty(t, DirectionsURL(PlatformDesktop, nil, nil, ""))
}

func parseQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u.Query()
}
