package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Place is the location detail extracted from a place lookup
type Place struct {
	Latitude         float64
	Longitude        float64
	FormattedAddress string
	City             string
	Country          string
}

// Geocoder resolves a Google place id into coordinates and address parts
type Geocoder interface {
	Lookup(ctx context.Context, placeID string) (*Place, error)
}

// PlacesClient is a thin client for the Google Places API (v1)
type PlacesClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewPlacesClient(apiKey string) *PlacesClient {
	return &PlacesClient{
		apiKey:  apiKey,
		baseURL: "https://places.googleapis.com/v1",
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type placeResponse struct {
	Location struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
	FormattedAddress  string `json:"formattedAddress"`
	AddressComponents []struct {
		LongText string   `json:"longText"`
		Types    []string `json:"types"`
	} `json:"addressComponents"`
}

// Lookup fetches place details by id
func (c *PlacesClient) Lookup(ctx context.Context, placeID string) (*Place, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("places API key is not configured")
	}

	url := fmt.Sprintf("%s/places/%s", c.baseURL, placeID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build places request: %w", err)
	}
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", "location,formattedAddress,addressComponents")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("places API returned %d: %s", resp.StatusCode, string(data))
	}

	var raw placeResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode places response: %w", err)
	}

	place := &Place{
		Latitude:         raw.Location.Latitude,
		Longitude:        raw.Location.Longitude,
		FormattedAddress: raw.FormattedAddress,
	}
	for _, comp := range raw.AddressComponents {
		for _, t := range comp.Types {
			switch t {
			case "locality", "postal_town":
				if place.City == "" {
					place.City = comp.LongText
				}
			case "country":
				place.Country = comp.LongText
			}
		}
	}
	return place, nil
}
