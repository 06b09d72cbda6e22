package shoppingcart

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/angelmondragon/shoppingcart/pkg/catalog"
	"github.com/angelmondragon/shoppingcart/pkg/db/models"
	"github.com/angelmondragon/shoppingcart/pkg/enums"
	pkgerrors "github.com/angelmondragon/shoppingcart/pkg/errors"
	"github.com/angelmondragon/shoppingcart/pkg/logger"
	"github.com/angelmondragon/shoppingcart/pkg/metrics"
	"github.com/angelmondragon/shoppingcart/pkg/upstream"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Service prices shopping carts for their owners.
type Service interface {
	FindByID(ctx context.Context, userID, cartID uuid.UUID) (*PricedCart, error)
	CartsAvailable(ctx context.Context, userID uuid.UUID) ([]AvailableCart, error)
}

// ServiceParams bundles the dependencies required to build a cart pricing service.
type ServiceParams struct {
	Carts       CartRepository
	Lines       LineRepository
	Tx          txRunner
	Prices      PriceLookup
	Restaurants RestaurantDirectory
	Addresses   AddressBook
	Distance    DistanceCalculator
	Shipping    *ShippingEstimator
	Metrics     *metrics.CartMetrics
	Logger      *logger.Logger
}

type service struct {
	carts       CartRepository
	lines       LineRepository
	tx          txRunner
	prices      PriceLookup
	restaurants RestaurantDirectory
	delivery    *deliveryResolver
	metrics     *metrics.CartMetrics
	logg        *logger.Logger
}

// NewService constructs a cart pricing service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Carts == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.Lines == nil {
		return nil, fmt.Errorf("line repository is required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.Prices == nil {
		return nil, fmt.Errorf("price lookup is required")
	}
	if params.Restaurants == nil {
		return nil, fmt.Errorf("restaurant directory is required")
	}
	if params.Addresses == nil {
		return nil, fmt.Errorf("address book is required")
	}
	if params.Distance == nil {
		return nil, fmt.Errorf("distance calculator is required")
	}
	if params.Shipping == nil {
		return nil, fmt.Errorf("shipping estimator is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		carts:       params.Carts,
		lines:       params.Lines,
		tx:          params.Tx,
		prices:      params.Prices,
		restaurants: params.Restaurants,
		delivery: &deliveryResolver{
			addresses:   params.Addresses,
			restaurants: params.Restaurants,
			distance:    params.Distance,
			shipping:    params.Shipping,
		},
		metrics: params.Metrics,
		logg:    logg,
	}, nil
}

// FindByID prices the cart. The cart row stays locked while peers are queried
// so a first view that appends the shipping charge is applied exactly once.
func (s *service) FindByID(ctx context.Context, userID, cartID uuid.UUID) (*PricedCart, error) {
	started := time.Now()
	ctx = s.logg.WithCartID(ctx, cartID.String())

	var priced *PricedCart
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		carts := s.carts.WithTx(tx)
		cart, err := carts.FindByIDForUpdate(ctx, cartID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "shopping cart not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load shopping cart")
		}
		if cart.UserID != userID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "shopping cart not found")
		}

		lines, err := s.lines.WithTx(tx).ListByCart(ctx, cart.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load shopping cart lines")
		}

		var (
			prices []catalog.ProductPrice
			lookup *deliveryLookup
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var fetchErr error
			prices, fetchErr = s.fetchPrices(gctx, lines)
			return fetchErr
		})
		g.Go(func() error {
			var fetchErr error
			lookup, fetchErr = s.delivery.fetch(gctx, cart)
			if fetchErr != nil {
				s.metrics.IncUpstreamFailure(failedDependency(fetchErr))
			}
			return fetchErr
		})
		if err := g.Wait(); err != nil {
			return err
		}

		resolution, err := s.delivery.resolve(ctx, cart, lookup)
		if err != nil {
			return err
		}
		if resolution.mutated {
			if err := carts.SaveDeliveryResolution(ctx, cart); err != nil {
				if pkgerrors.As(err) != nil {
					return err
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save shipping adjustment")
			}
			s.metrics.IncShippingApplied()
			s.logg.Info(s.logg.WithFields(ctx, map[string]any{
				"user_address_id": *cart.UserAddressID,
				"adjustments":     len(cart.Adjustments),
			}), "shipping charge applied")
		}

		priced = buildPricedCart(cart, lines, prices, resolution)
		return nil
	})

	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = metrics.OutcomeError
		if typed := pkgerrors.As(err); typed != nil {
			outcome = string(typed.Code())
		}
	}
	s.metrics.ObserveView(outcome, time.Since(started))
	if err != nil {
		return nil, err
	}
	return priced, nil
}

// CartsAvailable lists the user's carts with their restaurant card. Carts whose
// restaurant is no longer known to the directory are left out.
func (s *service) CartsAvailable(ctx context.Context, userID uuid.UUID) ([]AvailableCart, error) {
	carts, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list shopping carts")
	}
	if len(carts) == 0 {
		return []AvailableCart{}, nil
	}

	seen := make(map[int]struct{}, len(carts))
	ids := make([]int, 0, len(carts))
	for _, cart := range carts {
		if _, ok := seen[cart.RestaurantTmplID]; ok {
			continue
		}
		seen[cart.RestaurantTmplID] = struct{}{}
		ids = append(ids, cart.RestaurantTmplID)
	}

	resumes, err := s.restaurants.GetResumes(ctx, ids)
	if err != nil {
		s.metrics.IncUpstreamFailure("restaurants")
		return nil, dependencyError(err, "restaurant lookup failed")
	}
	byID := make(map[int]int, len(resumes))
	for i, r := range resumes {
		byID[r.ID] = i
	}

	out := make([]AvailableCart, 0, len(carts))
	for _, cart := range carts {
		idx, ok := byID[cart.RestaurantTmplID]
		if !ok {
			continue
		}
		out = append(out, AvailableCart{
			ID:             cart.ID,
			RestaurantName: resumes[idx].Name,
			RestaurantLogo: resumes[idx].LogoURL,
			LineCount:      cart.LineCount,
		})
	}
	return out, nil
}

func (s *service) fetchPrices(ctx context.Context, lines []models.ShoppingCartLine) ([]catalog.ProductPrice, error) {
	ids := distinctProductIDs(lines)
	if len(ids) == 0 {
		return nil, nil
	}
	prices, err := s.prices.GetPrices(ctx, ids)
	if err != nil {
		s.metrics.IncUpstreamFailure("products")
		if errors.Is(err, upstream.ErrPartialContent) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeBadPrices, err, "Can't get product prices")
		}
		return nil, dependencyError(err, "product price lookup failed")
	}
	return prices, nil
}

func buildPricedCart(cart *models.ShoppingCart, lines []models.ShoppingCartLine, prices []catalog.ProductPrice, resolution deliveryResult) *PricedCart {
	byProduct := make(map[int]catalog.ProductPrice, len(prices))
	for _, p := range prices {
		byProduct[p.ProductTmplID] = p
	}

	out := &PricedCart{
		ID:                 cart.ID,
		HasDeliveryAddress: resolution.address != nil,
		DeliveryAddress:    resolution.address,
		Lines:              make([]PricedLine, 0, len(lines)),
		Charges:            make([]Charge, 0, len(cart.Adjustments)),
		Subtotal:           decimal.Zero,
	}

	for _, line := range lines {
		product, ok := byProduct[line.ProductTmplID]
		if !ok {
			continue
		}
		qty := int(line.Qty)
		attrs := ResolveAttributes(line.AttrValueIDs, qty, product.Attributes)
		total := product.BasePrice().Mul(decimal.NewFromInt(int64(qty))).Add(attrs.ExtraPrice)
		out.Subtotal = out.Subtotal.Add(total)
		out.Lines = append(out.Lines, PricedLine{
			ID:            line.ID,
			ProductTmplID: line.ProductTmplID,
			Name:          product.Name,
			Description:   product.Description,
			PictureURL:    product.PictureURL,
			Qty:           qty,
			Total:         total,
			AttrsAdded:    attrs.AttrsAdded,
		})
	}

	total := out.Subtotal
	for _, adj := range cart.Adjustments {
		out.Charges = append(out.Charges, Charge{Key: adj.Key, Type: adj.Type, Name: adj.Name, Amount: adj.Amount})
		total = total.Add(adj.Amount)
		if adj.Type == enums.AdjustmentTypeDiscount {
			out.HasPromApplied = true
		}
	}
	out.Total = total
	return out
}

func distinctProductIDs(lines []models.ShoppingCartLine) []int {
	seen := make(map[int]struct{}, len(lines))
	ids := make([]int, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.ProductTmplID]; ok {
			continue
		}
		seen[line.ProductTmplID] = struct{}{}
		ids = append(ids, line.ProductTmplID)
	}
	sort.Ints(ids)
	return ids
}

func failedDependency(err error) string {
	switch {
	case pkgerrors.IsCode(err, pkgerrors.CodeBadRestaurantLatLng):
		return "restaurants"
	case pkgerrors.IsCode(err, pkgerrors.CodeBadUserAddress):
		return "users"
	default:
		return "delivery"
	}
}
