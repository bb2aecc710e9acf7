package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/decantly/decantly-backend/api/responses"
	"github.com/decantly/decantly-backend/api/validators"
	cartsvc "github.com/decantly/decantly-backend/internal/cart"
	pkgerrors "github.com/decantly/decantly-backend/pkg/errors"
	"github.com/decantly/decantly-backend/pkg/logger"
)

type addCartItemRequest struct {
	UserID       int64 `json:"user_id" validate:"required"`
	FragranceID  int64 `json:"fragrance_id"`
	DecantSizeID int64 `json:"decant_size_id"`
	Quantity     int   `json:"quantity"`
}

// CartAdd adds an item to a user's cart, incrementing quantity when the same
// fragrance and size is already present.
func CartAdd(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		line, err := svc.AddLine(ctx, cartsvc.AddLineInput{
			UserID:       payload.UserID,
			FragranceID:  payload.FragranceID,
			DecantSizeID: payload.DecantSizeID,
			Quantity:     payload.Quantity,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, line)
	}
}

// CartGet returns the user's cart with per-line and aggregate totals.
func CartGet(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id"))
			return
		}

		cart, err := svc.GetCart(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, cart)
	}
}

type updateCartItemRequest struct {
	UserID     int64 `json:"user_id" validate:"required"`
	CartItemID int64 `json:"cart_item_id" validate:"required"`
	Quantity   int   `json:"quantity"`
}

// CartUpdate sets a line's quantity; zero or below removes the line. The line
// must belong to the requesting user.
func CartUpdate(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		line, err := svc.UpdateLine(ctx, payload.UserID, payload.CartItemID, payload.Quantity)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if line == nil {
			responses.WriteSuccess(w, statusResponse{Success: true, Message: "Item removed from cart"})
			return
		}

		responses.WriteSuccess(w, line)
	}
}

// CartRemove deletes a cart line scoped to its owner. Removing a line that
// does not exist or belongs to another user is a silent no-op.
func CartRemove(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := parseQueryID(r, "user_id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		cartItemID, err := parseQueryID(r, "cart_item_id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.RemoveLine(ctx, userID, cartItemID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, statusResponse{Success: true, Message: "Item removed from cart"})
	}
}

func parseQueryID(r *http.Request, key string) (int64, error) {
	value, err := strconv.ParseInt(r.URL.Query().Get(key), 10, 64)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	return value, nil
}
