package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"

	"github.com/AnshRaj112/journeys-backend/internal/apperror"
	"github.com/AnshRaj112/journeys-backend/internal/metrics"
	"github.com/AnshRaj112/journeys-backend/internal/models"
)

// Geocoder turns a free-text address into coordinates.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (models.LatLng, error)
}

// ErrLocationNotFound is the signal returned when the provider has no match for an address.
var ErrLocationNotFound = apperror.New("Could not find location for the specified address.", http.StatusUnprocessableEntity)

// GoogleGeocoder queries a Google Geocoding API compatible endpoint.
type GoogleGeocoder struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
	Results      []struct {
		Geometry struct {
			Location models.LatLng `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

func NewGoogleGeocoder(baseURL, apiKey string, client *http.Client) *GoogleGeocoder {
	return &GoogleGeocoder{baseURL: baseURL, apiKey: apiKey, client: client}
}

// Resolve returns the first match for address. No match yields ErrLocationNotFound;
// any other failure is returned as an opaque error.
func (g *GoogleGeocoder) Resolve(ctx context.Context, address string) (models.LatLng, error) {
	start := time.Now()
	loc, err := g.lookup(ctx, address)
	metrics.GeocodeDuration.Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		metrics.GeocodeRequestsTotal.WithLabelValues("success").Inc()
	case errors.Is(err, ErrLocationNotFound):
		metrics.GeocodeRequestsTotal.WithLabelValues("not_found").Inc()
	default:
		metrics.GeocodeRequestsTotal.WithLabelValues("failure").Inc()
	}
	return loc, err
}

func (g *GoogleGeocoder) lookup(ctx context.Context, address string) (models.LatLng, error) {
	q := url.Values{}
	q.Set("address", address)
	q.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+q.Encode(), http.NoBody)
	if err != nil {
		return models.LatLng{}, fmt.Errorf("geocode: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := g.client.Do(req)
	if err != nil {
		return models.LatLng{}, fmt.Errorf("geocode: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return models.LatLng{}, fmt.Errorf("geocode: http %d", res.StatusCode)
	}

	var body geocodeResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return models.LatLng{}, fmt.Errorf("geocode: decode response: %w", err)
	}

	switch body.Status {
	case "OK":
		if len(body.Results) == 0 {
			return models.LatLng{}, ErrLocationNotFound
		}
		return body.Results[0].Geometry.Location, nil
	case "ZERO_RESULTS":
		return models.LatLng{}, ErrLocationNotFound
	default:
		return models.LatLng{}, fmt.Errorf("geocode: status %s: %s", body.Status, body.ErrorMessage)
	}
}
