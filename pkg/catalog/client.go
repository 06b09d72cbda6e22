package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"

	pkgerrors "github.com/angelmondragon/shoppingcart/pkg/errors"
	"github.com/angelmondragon/shoppingcart/pkg/upstream"
	"github.com/shopspring/decimal"
)

const (
	pricesPath    = "/api/products/prices"
	candidatePath = "/api/products/%d/candidate"
)

// AttributeValue is one selectable option of a product attribute.
type AttributeValue struct {
	ID         int64            `json:"attrValueId"`
	Name       string           `json:"name"`
	ExtraPrice *decimal.Decimal `json:"extraPrice"`
}

// Attribute groups related values ("Size", "Extras").
type Attribute struct {
	Name   string           `json:"name"`
	Values []AttributeValue `json:"values"`
}

// ProductPrice is the pricing view of a product template.
type ProductPrice struct {
	ProductTmplID int              `json:"productTmplId"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	PictureURL    string           `json:"pictureUrl"`
	ListPrice     *decimal.Decimal `json:"listPrice"`
	Attributes    []Attribute      `json:"attributes"`
}

// BasePrice returns the list price, treating a missing one as zero.
func (p ProductPrice) BasePrice() decimal.Decimal {
	if p.ListPrice == nil {
		return decimal.Zero
	}
	return *p.ListPrice
}

// Candidate describes a product that is about to be added to a cart.
type Candidate struct {
	ProductTmplID    int                  `json:"productTmplId"`
	RestaurantTmplID int                  `json:"restaurantTmplId"`
	AttrValues       []CandidateAttrValue `json:"attrValues"`
}

// CandidateAttrValue is an attribute value the product accepts.
type CandidateAttrValue struct {
	ID int64 `json:"attrValueId"`
}

// AllowsAttrValues reports whether every id belongs to the product.
func (c Candidate) AllowsAttrValues(ids []int64) bool {
	allowed := make(map[int64]struct{}, len(c.AttrValues))
	for _, v := range c.AttrValues {
		allowed[v.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := allowed[id]; !ok {
			return false
		}
	}
	return true
}

// Client reads product data from the catalog service.
type Client struct {
	http *upstream.Client
}

func NewClient(baseURL string, opts ...upstream.Option) (*Client, error) {
	c, err := upstream.New("products", baseURL, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{http: c}, nil
}

// GetPrices fetches prices for the given product ids. A degraded answer from
// the catalog surfaces as upstream.ErrPartialContent.
func (c *Client) GetPrices(ctx context.Context, ids []int) ([]ProductPrice, error) {
	if len(ids) == 0 {
		return []ProductPrice{}, nil
	}
	sorted := append([]int(nil), ids...)
	sort.Ints(sorted)

	var prices []ProductPrice
	if err := c.http.GetJSON(ctx, pricesPath, url.Values{"ids": {upstream.JoinIDs(sorted)}}, &prices); err != nil {
		return nil, err
	}
	return prices, nil
}

// GetCandidate fetches the product with the attribute values it accepts.
func (c *Client) GetCandidate(ctx context.Context, productTmplID int) (*Candidate, error) {
	var candidate Candidate
	err := c.http.GetJSON(ctx, fmt.Sprintf(candidatePath, productTmplID), nil, &candidate)
	switch {
	case err == nil:
		return &candidate, nil
	case errors.Is(err, upstream.ErrNotFound):
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, fmt.Sprintf("product %d does not exist in the catalog", productTmplID))
	case pkgerrors.As(err) != nil:
		return nil, err
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "product service returned an unexpected answer")
	}
}
