package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/decantly/decantly-backend/api/responses"
	"github.com/decantly/decantly-backend/api/validators"
	"github.com/decantly/decantly-backend/internal/guestorders"
	pkgerrors "github.com/decantly/decantly-backend/pkg/errors"
	"github.com/decantly/decantly-backend/pkg/logger"
)

type createGuestOrderRequest struct {
	SessionID             string                  `json:"session_id"`
	Email                 string                  `json:"email"`
	AddressLine1          string                  `json:"address_line1"`
	AddressLine2          *string                 `json:"address_line2"`
	City                  string                  `json:"city"`
	StateProvince         string                  `json:"state_province"`
	PostalCode            string                  `json:"postal_code"`
	Country               string                  `json:"country"`
	Phone                 *string                 `json:"phone"`
	SaveDetailsForAccount bool                    `json:"save_details_for_account"`
	Items                 []guestorders.ItemInput `json:"items"`
}

// GuestOrderCreate places a guest order from the submitted items and clears
// the session's cart in the same transaction.
func GuestOrderCreate(svc guestorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "guest orders service unavailable"))
			return
		}

		var payload createGuestOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := svc.Create(ctx, guestorders.CreateInput{
			SessionID:             payload.SessionID,
			Email:                 payload.Email,
			AddressLine1:          payload.AddressLine1,
			AddressLine2:          payload.AddressLine2,
			City:                  payload.City,
			StateProvince:         payload.StateProvince,
			PostalCode:            payload.PostalCode,
			Country:               payload.Country,
			Phone:                 payload.Phone,
			SaveDetailsForAccount: payload.SaveDetailsForAccount,
			Items:                 payload.Items,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// GuestOrderGet returns one guest order with its snapshot line items.
func GuestOrderGet(svc guestorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "guest orders service unavailable"))
			return
		}

		orderID, err := strconv.ParseInt(chi.URLParam(r, "orderId"), 10, 64)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		order, err := svc.Get(ctx, orderID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

type updateGuestOrderStatusRequest struct {
	Status string `json:"status"`
}

// GuestOrderUpdateStatus transitions a guest order between fulfilment states.
func GuestOrderUpdateStatus(svc guestorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "guest orders service unavailable"))
			return
		}

		orderID, err := strconv.ParseInt(chi.URLParam(r, "orderId"), 10, 64)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		var payload updateGuestOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		status, err := svc.UpdateStatus(ctx, orderID, payload.Status)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, statusResponse{Success: true, Message: fmt.Sprintf("Order status updated to %s", status)})
	}
}
