package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const DefaultMapboxURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"

type MapboxClient struct {
	token   string
	baseURL string
	client  *http.Client
}

func NewMapboxClient(token string, timeout time.Duration) *MapboxClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &MapboxClient{
		token:   token,
		baseURL: DefaultMapboxURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// WithBaseURL points the client at another Places endpoint.
func (mc *MapboxClient) WithBaseURL(u string) *MapboxClient {
	mc.baseURL = strings.TrimRight(u, "/")
	return mc
}

type placesResponse struct {
	Features []struct {
		Center    []float64 `json:"center"`
		PlaceName string    `json:"place_name"`
	} `json:"features"`
}

func (mc *MapboxClient) Forward(ctx context.Context, query string) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	return mc.lookup(ctx, url.PathEscape(query), "address,poi")
}

func (mc *MapboxClient) Reverse(ctx context.Context, lat, lng float64) (*Result, error) {
	if err := ValidatePoint(lat, lng); err != nil {
		return nil, err
	}
	// Mapbox takes longitude first
	q := strconv.FormatFloat(lng, 'f', -1, 64) + "," + strconv.FormatFloat(lat, 'f', -1, 64)
	return mc.lookup(ctx, q, "address")
}

func (mc *MapboxClient) lookup(ctx context.Context, escapedQuery, types string) (*Result, error) {
	params := url.Values{}
	params.Set("access_token", mc.token)
	params.Set("types", types)
	params.Set("limit", "1")
	endpoint := fmt.Sprintf("%s/%s.json?%s", mc.baseURL, escapedQuery, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalService, err)
	}
	resp, err := mc.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status=%d body=%s", ErrExternalService, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var places placesResponse
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrExternalService, err)
	}
	if len(places.Features) == 0 {
		return nil, nil
	}
	f := places.Features[0]
	if len(f.Center) < 2 {
		return nil, fmt.Errorf("%w: feature without center", ErrExternalService)
	}
	return &Result{
		Latitude:  f.Center[1],
		Longitude: f.Center[0],
		PlaceName: f.PlaceName,
	}, nil
}
