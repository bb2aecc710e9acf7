package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/decantly/decantly-backend/api/responses"
	"github.com/decantly/decantly-backend/api/validators"
	"github.com/decantly/decantly-backend/internal/guestcart"
	pkgerrors "github.com/decantly/decantly-backend/pkg/errors"
	"github.com/decantly/decantly-backend/pkg/logger"
)

type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type addGuestCartItemRequest struct {
	SessionID    string `json:"session_id"`
	FragranceID  int64  `json:"fragrance_id"`
	DecantSizeID int64  `json:"decant_size_id"`
	Quantity     int    `json:"quantity"`
}

// GuestCartAdd adds an item to a session's cart, incrementing quantity when
// the same fragrance and size is already present.
func GuestCartAdd(svc guestcart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "guest cart service unavailable"))
			return
		}

		var payload addGuestCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		line, err := svc.AddLine(ctx, guestcart.AddLineInput{
			SessionID:    payload.SessionID,
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

// GuestCartGet returns the session's cart with per-line and aggregate totals.
func GuestCartGet(svc guestcart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "guest cart service unavailable"))
			return
		}

		sessionID := strings.TrimSpace(r.URL.Query().Get("session_id"))
		if sessionID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Session ID is required"))
			return
		}

		cart, err := svc.GetCart(ctx, sessionID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, cart)
	}
}

type updateGuestCartItemRequest struct {
	ID       int64 `json:"id" validate:"required"`
	Quantity int   `json:"quantity"`
}

// GuestCartUpdate sets a line's quantity; zero or below removes the line.
func GuestCartUpdate(svc guestcart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "guest cart service unavailable"))
			return
		}

		var payload updateGuestCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		line, err := svc.UpdateLine(ctx, payload.ID, payload.Quantity)
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

// GuestCartRemove deletes a cart line by id.
func GuestCartRemove(svc guestcart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "guest cart service unavailable"))
			return
		}

		itemID, err := strconv.ParseInt(chi.URLParam(r, "itemId"), 10, 64)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cart item id"))
			return
		}

		if err := svc.RemoveLine(ctx, itemID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, statusResponse{Success: true, Message: "Item removed from cart"})
	}
}
