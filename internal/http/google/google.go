package googlemaps

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/roamark/roamark_api/internal/model"
	"github.com/roamark/roamark_api/util"
)

// GoogleMapsClient resolves place details for the create-save path.
type GoogleMapsClient struct {
	APIKey string
	Client *http.Client
}

func NewGoogleMapsClient(apiKey string) *GoogleMapsClient {
	if apiKey == "" {
		log.Println("Warning: Google Maps API Key is empty.")
	}
	return &GoogleMapsClient{
		APIKey: apiKey,
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

type placeDetailsResponse struct {
	Result placeDetailsResult `json:"result"`
	Status string             `json:"status"` // e.g., "OK", "ZERO_RESULTS", "REQUEST_DENIED"
}

type placeDetailsResult struct {
	AddressComponents []addressComponent `json:"address_components"`
	FormattedAddress  string             `json:"formatted_address"`
	Geometry          geometry           `json:"geometry"`
	Name              string             `json:"name"`
	PlaceID           string             `json:"place_id"`
	Rating            float64            `json:"rating"`
	Types             []string           `json:"types"`
}

type addressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

type geometry struct {
	Location latLng `json:"location"`
}

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ResolvePlace fetches details for a place ID and maps the address
// components onto the location fields the lifecycle core stores.
func (c *GoogleMapsClient) ResolvePlace(ctx context.Context, placeID string) (*model.PlaceDetails, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("key", c.APIKey)
	params.Set("fields", "name,formatted_address,address_components,geometry,rating,types")

	fullURL := fmt.Sprintf("https://maps.googleapis.com/maps/api/place/details/json?%s", params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("place details API error: status %d", resp.StatusCode)
	}

	var detailsResp placeDetailsResponse
	if err := json.NewDecoder(resp.Body).Decode(&detailsResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if detailsResp.Status != "OK" {
		return nil, fmt.Errorf("place details status: %s", detailsResp.Status)
	}

	result := detailsResp.Result
	details := &model.PlaceDetails{
		Name:      result.Name,
		Address:   result.FormattedAddress,
		Latitude:  result.Geometry.Location.Lat,
		Longitude: result.Geometry.Location.Lng,
	}
	if result.Rating > 0 {
		details.Rating = util.Float64Ptr(result.Rating)
	}
	if len(result.Types) > 0 {
		details.Category = result.Types[0]
	}

	for _, component := range result.AddressComponents {
		for _, t := range component.Types {
			switch t {
			case "route":
				details.Street = component.LongName
			case "street_number":
				details.StreetNumber = component.LongName
			case "locality", "postal_town":
				details.City = component.LongName
			case "administrative_area_level_1":
				details.State = component.ShortName
			case "postal_code":
				details.Zipcode = component.LongName
			}
		}
	}
	return details, nil
}
