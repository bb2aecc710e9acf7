package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decantly/decantly-backend/internal/guestorders"
	"github.com/decantly/decantly-backend/pkg/enums"
	pkgerrors "github.com/decantly/decantly-backend/pkg/errors"
)

type stubGuestOrdersService struct {
	view   *guestorders.View
	status enums.GuestOrderStatus
	err    error
}

func (s *stubGuestOrdersService) Create(ctx context.Context, input guestorders.CreateInput) (*guestorders.View, error) {
	return s.view, s.err
}

func (s *stubGuestOrdersService) Get(ctx context.Context, id int64) (*guestorders.View, error) {
	return s.view, s.err
}

func (s *stubGuestOrdersService) UpdateStatus(ctx context.Context, id int64, status string) (enums.GuestOrderStatus, error) {
	return s.status, s.err
}

func TestGuestOrderUpdateStatusMessage(t *testing.T) {
	svc := &stubGuestOrdersService{status: enums.GuestOrderStatusShipped}
	router := chi.NewRouter()
	router.Put("/guest-orders/{orderId}/status", GuestOrderUpdateStatus(svc, nil))

	body := bytes.NewBufferString(`{"status":"shipped"}`)
	req := httptest.NewRequest(http.MethodPut, "/guest-orders/9/status", body)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data statusResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	assert.True(t, envelope.Data.Success)
	assert.Equal(t, "Order status updated to shipped", envelope.Data.Message)
}

func TestGuestOrderUpdateStatusTerminalConflict(t *testing.T) {
	svc := &stubGuestOrdersService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "Order status can no longer change after account promotion")}
	router := chi.NewRouter()
	router.Put("/guest-orders/{orderId}/status", GuestOrderUpdateStatus(svc, nil))

	body := bytes.NewBufferString(`{"status":"shipped"}`)
	req := httptest.NewRequest(http.MethodPut, "/guest-orders/9/status", body)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	assert.Equal(t, "Order status can no longer change after account promotion", envelope.Error.Message)
}

func TestGuestOrderGetInvalidID(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/guest-orders/{orderId}", GuestOrderGet(&stubGuestOrdersService{}, nil))

	req := httptest.NewRequest(http.MethodGet, "/guest-orders/not-a-number", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
