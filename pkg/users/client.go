package users

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/angelmondragon/shoppingcart/pkg/types"
	"github.com/angelmondragon/shoppingcart/pkg/upstream"
)

const (
	defaultAddressPath = "/api/users/me/addresses/default"
	addressPath        = "/api/users/me/addresses/%d"
)

// Address is a saved delivery address of the current user.
type Address struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	AddressType string `json:"addressType"`
}

// DefaultAddress is the user's default address with its position. Location is
// nil when the user service has no coordinates for it.
type DefaultAddress struct {
	Address
	Location *types.GeographyPoint
}

// Client reads the current user's addresses. Requests act on behalf of the
// bearer token carried in the context.
type Client struct {
	http *upstream.Client
}

func NewClient(baseURL string, opts ...upstream.Option) (*Client, error) {
	c, err := upstream.New("users", baseURL, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{http: c}, nil
}

// GetAddress fetches one of the user's saved addresses.
func (c *Client) GetAddress(ctx context.Context, addressID int) (*Address, error) {
	var address Address
	if err := c.http.GetJSON(ctx, fmt.Sprintf(addressPath, addressID), nil, &address); err != nil {
		return nil, err
	}
	if address.ID == 0 {
		address.ID = addressID
	}
	return &address, nil
}

// GetDefaultAddress returns the user's default address, or nil when the user
// has none.
func (c *Client) GetDefaultAddress(ctx context.Context) (*DefaultAddress, error) {
	var payload struct {
		Exists    bool            `json:"exists"`
		Latitude  json.RawMessage `json:"latitude"`
		Longitude json.RawMessage `json:"longitude"`
		Data      *Address        `json:"data"`
	}
	if err := c.http.GetJSON(ctx, defaultAddressPath, nil, &payload); err != nil {
		return nil, err
	}
	if !payload.Exists || payload.Data == nil {
		return nil, nil
	}
	return &DefaultAddress{
		Address:  *payload.Data,
		Location: types.PointFromJSON(payload.Latitude, payload.Longitude),
	}, nil
}
