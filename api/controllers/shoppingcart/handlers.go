package shoppingcart

import (
	"net/http"

	"github.com/google/uuid"

	shoppingcartdto "github.com/angelmondragon/shoppingcart/api/controllers/shoppingcart/dto"
	"github.com/angelmondragon/shoppingcart/api/middleware"
	"github.com/angelmondragon/shoppingcart/api/responses"
	"github.com/angelmondragon/shoppingcart/api/validators"
	"github.com/angelmondragon/shoppingcart/internal/line"
	cartsvc "github.com/angelmondragon/shoppingcart/internal/shoppingcart"
	pkgerrors "github.com/angelmondragon/shoppingcart/pkg/errors"
	"github.com/angelmondragon/shoppingcart/pkg/logger"
)

// CartsAvailable lists the caller's carts, one per restaurant.
func CartsAvailable(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shopping cart service unavailable"))
			return
		}

		userID, err := userIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		carts, err := svc.CartsAvailable(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newAvailableCarts(carts))
	}
}

// CartFindByID returns the priced view of one of the caller's carts.
func CartFindByID(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shopping cart service unavailable"))
			return
		}

		userID, err := userIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cartID, err := validators.ParseUUIDParam(r, "shoppingCartId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		priced, err := svc.FindByID(r.Context(), userID, cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newPricedCart(priced))
	}
}

// CartAddLine appends a product to the caller's cart for its restaurant.
func CartAddLine(svc line.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "line service unavailable"))
			return
		}

		userID, err := userIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload shoppingcartdto.AddLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.AddLine(r.Context(), userID, line.AddLineInput{
			ProductTmplID: payload.ProductTmplID,
			Qty:           payload.Qty,
			AttrValues:    payload.AttrValues,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, shoppingcartdto.AddLineResponse{
			ID:             created.ID,
			ShoppingCartID: created.ShoppingCartID,
		})
	}
}

func userIDFromContext(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return userID, nil
}
