package line

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/shoppingcart/internal/shoppingcart"
	"github.com/angelmondragon/shoppingcart/pkg/catalog"
	"github.com/angelmondragon/shoppingcart/pkg/db/models"
	pkgerrors "github.com/angelmondragon/shoppingcart/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestAddLineCreatesCartAndLine(t *testing.T) {
	t.Parallel()

	carts := &stubCarts{}
	lines := &stubLines{}
	svc := newTestService(t, carts, lines, &stubCandidates{candidate: candidateWith(40, 21, 22)})
	userID := uuid.New()

	got, err := svc.AddLine(context.Background(), userID, AddLineInput{ProductTmplID: 5, Qty: 2, AttrValues: []int64{22}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if carts.userID != userID || carts.restaurantTmplID != 40 {
		t.Fatalf("expected cart lookup for user and product restaurant, got %v/%d", carts.userID, carts.restaurantTmplID)
	}
	if got.ShoppingCartID != carts.cart.ID || got.Qty != 2 || got.ProductTmplID != 5 {
		t.Fatalf("unexpected line %+v", got)
	}
	if len(got.AttrValueIDs) != 1 || got.AttrValueIDs[0] != 22 {
		t.Fatalf("unexpected attribute values %v", got.AttrValueIDs)
	}
	if len(lines.created) != 1 {
		t.Fatalf("expected one stored line, got %d", len(lines.created))
	}
}

func TestAddLineWithoutAttributesStoresNull(t *testing.T) {
	t.Parallel()

	lines := &stubLines{}
	svc := newTestService(t, &stubCarts{}, lines, &stubCandidates{candidate: candidateWith(40)})

	got, err := svc.AddLine(context.Background(), uuid.New(), AddLineInput{ProductTmplID: 5, Qty: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AttrValueIDs != nil {
		t.Fatalf("expected nil attribute values, got %v", got.AttrValueIDs)
	}
}

func TestAddLineRejectsForeignAttributeValues(t *testing.T) {
	t.Parallel()

	lines := &stubLines{}
	svc := newTestService(t, &stubCarts{}, lines, &stubCandidates{candidate: candidateWith(40, 21)})

	_, err := svc.AddLine(context.Background(), uuid.New(), AddLineInput{ProductTmplID: 5, Qty: 1, AttrValues: []int64{21, 99}})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(lines.created) != 0 {
		t.Fatal("no line should be stored")
	}
}

func TestAddLineValidatesInput(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubCarts{}, &stubLines{}, &stubCandidates{candidate: candidateWith(40)})
	cases := []struct {
		name  string
		user  uuid.UUID
		input AddLineInput
		want  pkgerrors.Code
	}{
		{name: "missing user", user: uuid.Nil, input: AddLineInput{ProductTmplID: 1, Qty: 1}, want: pkgerrors.CodeUnauthorized},
		{name: "missing product", user: uuid.New(), input: AddLineInput{Qty: 1}, want: pkgerrors.CodeValidation},
		{name: "zero qty", user: uuid.New(), input: AddLineInput{ProductTmplID: 1}, want: pkgerrors.CodeValidation},
		{name: "qty overflow", user: uuid.New(), input: AddLineInput{ProductTmplID: 1, Qty: 40000}, want: pkgerrors.CodeValidation},
	}
	for _, tc := range cases {
		if _, err := svc.AddLine(context.Background(), tc.user, tc.input); !pkgerrors.IsCode(err, tc.want) {
			t.Fatalf("%s: expected %s, got %v", tc.name, tc.want, err)
		}
	}
}

func TestAddLinePropagatesCandidateErrors(t *testing.T) {
	t.Parallel()

	notFound := pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	svc := newTestService(t, &stubCarts{}, &stubLines{}, &stubCandidates{err: notFound})

	if _, err := svc.AddLine(context.Background(), uuid.New(), AddLineInput{ProductTmplID: 1, Qty: 1}); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddLineWrapsStorageErrors(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubCarts{err: errors.New("db down")}, &stubLines{}, &stubCandidates{candidate: candidateWith(40)})

	if _, err := svc.AddLine(context.Background(), uuid.New(), AddLineInput{ProductTmplID: 1, Qty: 1}); !pkgerrors.IsCode(err, pkgerrors.CodeInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func newTestService(t *testing.T, carts *stubCarts, lines *stubLines, candidates *stubCandidates) Service {
	t.Helper()
	svc, err := NewService(carts, lines, stubTx{}, candidates, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc
}

func candidateWith(restaurantTmplID int, attrValueIDs ...int64) *catalog.Candidate {
	c := &catalog.Candidate{ProductTmplID: 5, RestaurantTmplID: restaurantTmplID}
	for _, id := range attrValueIDs {
		c.AttrValues = append(c.AttrValues, catalog.CandidateAttrValue{ID: id})
	}
	return c
}

type stubTx struct{}

func (stubTx) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubCandidates struct {
	candidate *catalog.Candidate
	err       error
}

func (s *stubCandidates) GetCandidate(context.Context, int) (*catalog.Candidate, error) {
	return s.candidate, s.err
}

type stubCarts struct {
	cart             *models.ShoppingCart
	err              error
	userID           uuid.UUID
	restaurantTmplID int
}

func (s *stubCarts) WithTx(*gorm.DB) shoppingcart.CartRepository { return s }

func (s *stubCarts) FindByIDForUpdate(context.Context, uuid.UUID) (*models.ShoppingCart, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCarts) FindByUser(context.Context, uuid.UUID) ([]models.ShoppingCart, error) {
	return nil, nil
}

func (s *stubCarts) FindByUserAndRestaurant(context.Context, uuid.UUID, int) (*models.ShoppingCart, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCarts) FindOrCreate(_ context.Context, userID uuid.UUID, restaurantTmplID int) (*models.ShoppingCart, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.userID = userID
	s.restaurantTmplID = restaurantTmplID
	s.cart = &models.ShoppingCart{ID: uuid.New(), UserID: userID, RestaurantTmplID: restaurantTmplID}
	return s.cart, nil
}

func (s *stubCarts) SaveDeliveryResolution(context.Context, *models.ShoppingCart) error {
	return nil
}

type stubLines struct {
	created []models.ShoppingCartLine
}

func (s *stubLines) WithTx(*gorm.DB) shoppingcart.LineRepository { return s }

func (s *stubLines) ListByCart(context.Context, uuid.UUID) ([]models.ShoppingCartLine, error) {
	return s.created, nil
}

func (s *stubLines) Create(_ context.Context, line *models.ShoppingCartLine) (*models.ShoppingCartLine, error) {
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	s.created = append(s.created, *line)
	return line, nil
}
