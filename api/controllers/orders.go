package controllers

import (
	"net/http"

	"github.com/decantly/decantly-backend/api/responses"
	"github.com/decantly/decantly-backend/api/validators"
	ordersvc "github.com/decantly/decantly-backend/internal/orders"
	pkgerrors "github.com/decantly/decantly-backend/pkg/errors"
	"github.com/decantly/decantly-backend/pkg/logger"
)

type createOrderRequest struct {
	UserID int64 `json:"user_id" validate:"required"`
}

// OrderCreate checks the user's cart out into an order, snapshotting prices
// and clearing the cart atomically.
func OrderCreate(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := svc.CreateFromCart(ctx, payload.UserID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
