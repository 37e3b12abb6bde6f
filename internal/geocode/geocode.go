// Package geocode resolves free-text place queries to locations.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/EPFL-Life/life-sub001/internal/model"
)

const userAgent = "epfl-life-backend"

type place struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Client queries a Nominatim-compatible search endpoint.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a Client for baseURL with a per-request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Search returns the locations matching query, in the order the service ranks them.
func (c *Client) Search(ctx context.Context, query string) ([]model.Location, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid geocoder url: %w", err)
	}

	q := u.Query()
	q.Set("q", query)
	q.Set("format", "json")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoder request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		slog.Warn("geocoder returned non-2xx",
			slog.Int("status", res.StatusCode),
			slog.String("body", string(body)),
		)

		return nil, fmt.Errorf("geocoder returned status %d", res.StatusCode)
	}

	var places []place
	if err := json.NewDecoder(res.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("failed to decode geocoder response: %w", err)
	}

	locations := make([]model.Location, 0, len(places))
	for _, p := range places {
		loc, err := p.location()
		if err != nil {
			return nil, err
		}

		locations = append(locations, loc)
	}

	return locations, nil
}

func (p place) location() (model.Location, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return model.Location{}, fmt.Errorf("%w: latitude %q", model.ErrInvalidLocation, p.Lat)
	}

	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return model.Location{}, fmt.Errorf("%w: longitude %q", model.ErrInvalidLocation, p.Lon)
	}

	return model.NewLocation(lat, lon, p.DisplayName)
}
