package restaurants

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"

	"github.com/angelmondragon/shoppingcart/pkg/types"
	"github.com/angelmondragon/shoppingcart/pkg/upstream"
)

const (
	latLngPath = "/api/restaurants/%d/latlng"
	resumePath = "/api/restaurants/resume"
)

// Resume is the short restaurant card shown next to a cart.
type Resume struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	LogoURL string `json:"logoUrl"`
}

// Client reads restaurant data from the restaurant service.
type Client struct {
	http *upstream.Client
}

func NewClient(baseURL string, opts ...upstream.Option) (*Client, error) {
	c, err := upstream.New("restaurants", baseURL, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{http: c}, nil
}

// GetLatLng returns the restaurant position, or nil when the restaurant
// service does not know it.
func (c *Client) GetLatLng(ctx context.Context, restaurantTmplID int) (*types.GeographyPoint, error) {
	var payload struct {
		Latitude  json.RawMessage `json:"latitude"`
		Longitude json.RawMessage `json:"longitude"`
	}
	if err := c.http.GetJSON(ctx, fmt.Sprintf(latLngPath, restaurantTmplID), nil, &payload); err != nil {
		return nil, err
	}
	return types.PointFromJSON(payload.Latitude, payload.Longitude), nil
}

// GetResumes fetches resumes for the given restaurants. Unknown ids are
// simply absent from the result.
func (c *Client) GetResumes(ctx context.Context, ids []int) ([]Resume, error) {
	if len(ids) == 0 {
		return []Resume{}, nil
	}
	sorted := append([]int(nil), ids...)
	sort.Ints(sorted)

	var resumes []Resume
	if err := c.http.GetJSON(ctx, resumePath, url.Values{"ids": {upstream.JoinIDs(sorted)}}, &resumes); err != nil {
		return nil, err
	}
	return resumes, nil
}
