package line

import (
	"context"
	"fmt"
	"math"

	"github.com/angelmondragon/shoppingcart/internal/shoppingcart"
	"github.com/angelmondragon/shoppingcart/pkg/catalog"
	"github.com/angelmondragon/shoppingcart/pkg/db/models"
	pkgerrors "github.com/angelmondragon/shoppingcart/pkg/errors"
	"github.com/angelmondragon/shoppingcart/pkg/logger"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type candidateLookup interface {
	GetCandidate(ctx context.Context, productTmplID int) (*catalog.Candidate, error)
}

// Service manages the lines of a user's shopping carts.
type Service interface {
	AddLine(ctx context.Context, userID uuid.UUID, input AddLineInput) (*models.ShoppingCartLine, error)
}

// AddLineInput is a product selection to append to the cart of its restaurant.
type AddLineInput struct {
	ProductTmplID int
	Qty           int
	AttrValues    []int64
}

type service struct {
	carts      shoppingcart.CartRepository
	lines      shoppingcart.LineRepository
	tx         txRunner
	candidates candidateLookup
	logg       *logger.Logger
}

// NewService builds a line service backed by the provided stack.
func NewService(carts shoppingcart.CartRepository, lines shoppingcart.LineRepository, tx txRunner, candidates candidateLookup, logg *logger.Logger) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if lines == nil {
		return nil, fmt.Errorf("line repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if candidates == nil {
		return nil, fmt.Errorf("candidate lookup required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		carts:      carts,
		lines:      lines,
		tx:         tx,
		candidates: candidates,
		logg:       logg,
	}, nil
}

// AddLine appends a line to the user's cart for the product's restaurant,
// creating the cart on first use.
func (s *service) AddLine(ctx context.Context, userID uuid.UUID, input AddLineInput) (*models.ShoppingCartLine, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user id is required")
	}
	if input.ProductTmplID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_tmpl_id is required")
	}
	if input.Qty < 1 || input.Qty > math.MaxInt16 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "qty out of range").
			WithDetails(map[string]any{"qty": input.Qty})
	}

	candidate, err := s.candidates.GetCandidate(ctx, input.ProductTmplID)
	if err != nil {
		return nil, err
	}
	if !candidate.AllowsAttrValues(input.AttrValues) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "attribute values do not belong to the product").
			WithDetails(map[string]any{"product_tmpl_id": input.ProductTmplID, "attr_values": input.AttrValues})
	}

	var created *models.ShoppingCartLine
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cart, err := s.carts.WithTx(tx).FindOrCreate(ctx, userID, candidate.RestaurantTmplID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find or create shopping cart")
		}

		line := &models.ShoppingCartLine{
			ShoppingCartID: cart.ID,
			ProductTmplID:  input.ProductTmplID,
			Qty:            int16(input.Qty),
		}
		if len(input.AttrValues) > 0 {
			line.AttrValueIDs = pq.Int64Array(input.AttrValues)
		}
		created, err = s.lines.WithTx(tx).Create(ctx, line)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create shopping cart line")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"shopping_cart_id": created.ShoppingCartID.String(),
		"product_tmpl_id":  created.ProductTmplID,
	}), "shopping cart line added")
	return created, nil
}
