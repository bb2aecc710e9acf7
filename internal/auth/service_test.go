package auth

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/decantly/decantly-backend/internal/guestorders"
	"github.com/decantly/decantly-backend/internal/orders"
	"github.com/decantly/decantly-backend/internal/users"
	pkgauth "github.com/decantly/decantly-backend/pkg/auth"
	"github.com/decantly/decantly-backend/pkg/config"
	"github.com/decantly/decantly-backend/pkg/db/models"
	"github.com/decantly/decantly-backend/pkg/enums"
	pkgerrors "github.com/decantly/decantly-backend/pkg/errors"
	"github.com/decantly/decantly-backend/pkg/security"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubUserRepo struct {
	byEmail map[string]*models.User
	created *models.User
	nextID  int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byEmail: make(map[string]*models.User), nextID: 1}
}

func (s *stubUserRepo) WithTx(tx *gorm.DB) users.Repository { return s }

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = s.nextID
	s.nextID++
	copied := *user
	s.byEmail[user.Email] = &copied
	s.created = &copied
	return nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	for _, user := range s.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type stubGuestOrderRepo struct {
	order         *models.GuestOrder
	items         []models.GuestOrderItem
	updatedStatus enums.GuestOrderStatus
}

func (s *stubGuestOrderRepo) WithTx(tx *gorm.DB) guestorders.Repository { return s }

func (s *stubGuestOrderRepo) Create(ctx context.Context, order *models.GuestOrder) error {
	return nil
}

func (s *stubGuestOrderRepo) CreateItems(ctx context.Context, items []models.GuestOrderItem) error {
	return nil
}

func (s *stubGuestOrderRepo) FindByID(ctx context.Context, id int64) (*models.GuestOrder, error) {
	if s.order != nil && s.order.ID == id {
		return s.order, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubGuestOrderRepo) ListItemViews(ctx context.Context, guestOrderID int64) ([]guestorders.ItemView, error) {
	return nil, nil
}

func (s *stubGuestOrderRepo) ListItems(ctx context.Context, guestOrderID int64) ([]models.GuestOrderItem, error) {
	return s.items, nil
}

func (s *stubGuestOrderRepo) UpdateStatus(ctx context.Context, id int64, status enums.GuestOrderStatus) error {
	s.updatedStatus = status
	if s.order != nil && s.order.ID == id {
		s.order.Status = status
	}
	return nil
}

type stubOrderRepo struct {
	order *models.Order
	items []models.OrderItem
}

func (s *stubOrderRepo) WithTx(tx *gorm.DB) orders.Repository { return s }

func (s *stubOrderRepo) Create(ctx context.Context, order *models.Order) error {
	order.ID = 77
	copied := *order
	s.order = &copied
	return nil
}

func (s *stubOrderRepo) CreateItems(ctx context.Context, items []models.OrderItem) error {
	s.items = append(s.items, items...)
	return nil
}

func (s *stubOrderRepo) FindByID(ctx context.Context, id int64) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "decantly", ExpirationMinutes: 60}
}

func newAuthService(t *testing.T, usersRepo users.Repository, guestRepo guestorders.Repository, orderRepo orders.Repository) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Users:          usersRepo,
		GuestOrders:    guestRepo,
		Orders:         orderRepo,
		Tx:             stubTxRunner{},
		JWTConfig:      testJWTConfig(),
		PasswordConfig: config.PasswordConfig{},
	})
	require.NoError(t, err)
	return svc
}

func optedInGuestOrder() *models.GuestOrder {
	phone := "555-0100"
	return &models.GuestOrder{
		ID:                    9,
		SessionID:             "s1",
		Email:                 "buyer@example.com",
		AddressLine1:          "1 Perfume Way",
		City:                  "Portland",
		StateProvince:         "OR",
		PostalCode:            "97201",
		Country:               "US",
		Phone:                 &phone,
		TotalAmount:           decimal.RequireFromString("67.97"),
		Status:                enums.GuestOrderStatusPending,
		SaveDetailsForAccount: true,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	usersRepo := newStubUserRepo()
	svc := newAuthService(t, usersRepo, &stubGuestOrderRepo{}, &stubOrderRepo{})
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterRequest{Email: "Buyer@Example.com", Name: "Buyer", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", registered.User.Email)
	assert.NotEmpty(t, registered.Token)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), registered.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)

	// Stored hash is Argon2id, never the plaintext.
	assert.NotEqual(t, "hunter22", usersRepo.created.PasswordHash)
	ok, err := security.VerifyPassword("hunter22", usersRepo.created.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	loggedIn, err := svc.Login(ctx, LoginRequest{Email: "buyer@example.com", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	usersRepo := newStubUserRepo()
	svc := newAuthService(t, usersRepo, &stubGuestOrderRepo{}, &stubOrderRepo{})
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Email: "buyer@example.com", Name: "Buyer", Password: "hunter22"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Email: "buyer@example.com", Name: "Other", Password: "hunter23"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
	assert.Equal(t, "User with this email already exists", typed.Message())
}

func TestRegisterShortPassword(t *testing.T) {
	svc := newAuthService(t, newStubUserRepo(), &stubGuestOrderRepo{}, &stubOrderRepo{})

	_, err := svc.Register(context.Background(), RegisterRequest{Email: "buyer@example.com", Name: "Buyer", Password: "short"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, "Password must be at least 6 characters long", typed.Message())
}

func TestLoginSharedFailureMessage(t *testing.T) {
	usersRepo := newStubUserRepo()
	svc := newAuthService(t, usersRepo, &stubGuestOrderRepo{}, &stubOrderRepo{})
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Email: "buyer@example.com", Name: "Buyer", Password: "hunter22"})
	require.NoError(t, err)

	_, unknownErr := svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "hunter22"})
	_, badPassErr := svc.Login(ctx, LoginRequest{Email: "buyer@example.com", Password: "wrong-pass"})

	for _, err := range []error{unknownErr, badPassErr} {
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
		assert.Equal(t, "Invalid email or password", typed.Message())
	}
}

func TestCreateFromGuest(t *testing.T) {
	usersRepo := newStubUserRepo()
	guestRepo := &stubGuestOrderRepo{
		order: optedInGuestOrder(),
		items: []models.GuestOrderItem{
			{GuestOrderID: 9, FragranceID: 5, DecantSizeID: 1, Quantity: 2, PricePerItem: decimal.RequireFromString("13.99")},
			{GuestOrderID: 9, FragranceID: 6, DecantSizeID: 2, Quantity: 1, PricePerItem: decimal.RequireFromString("39.99")},
		},
	}
	orderRepo := &stubOrderRepo{}
	svc := newAuthService(t, usersRepo, guestRepo, orderRepo)

	resp, err := svc.CreateFromGuest(context.Background(), CreateFromGuestRequest{GuestOrderID: 9, Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", resp.Email)
	assert.Equal(t, "Account created successfully! You can now sign in with your email and password.", resp.Message)

	// Display name is the email local part; address fields carry over.
	require.NotNil(t, usersRepo.created)
	assert.Equal(t, "buyer", usersRepo.created.Name)
	require.NotNil(t, usersRepo.created.AddressLine1)
	assert.Equal(t, "1 Perfume Way", *usersRepo.created.AddressLine1)

	// Cloned order keeps the snapshotted total, prices, and quantities.
	require.NotNil(t, orderRepo.order)
	assert.Equal(t, enums.OrderStatusConfirmed, orderRepo.order.Status)
	assert.True(t, orderRepo.order.TotalAmount.Equal(decimal.RequireFromString("67.97")))
	require.Len(t, orderRepo.items, 2)
	assert.True(t, orderRepo.items[0].PricePerItem.Equal(decimal.RequireFromString("13.99")))

	// One-way flip to the terminal marker.
	assert.Equal(t, enums.GuestOrderStatusAccountCreated, guestRepo.updatedStatus)
}

func TestCreateFromGuestUnknownOrder(t *testing.T) {
	svc := newAuthService(t, newStubUserRepo(), &stubGuestOrderRepo{}, &stubOrderRepo{})

	_, err := svc.CreateFromGuest(context.Background(), CreateFromGuestRequest{GuestOrderID: 404, Password: "hunter22"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Equal(t, "Guest order not found", typed.Message())
}

func TestCreateFromGuestWithoutOptIn(t *testing.T) {
	usersRepo := newStubUserRepo()
	order := optedInGuestOrder()
	order.SaveDetailsForAccount = false
	svc := newAuthService(t, usersRepo, &stubGuestOrderRepo{order: order}, &stubOrderRepo{})

	_, err := svc.CreateFromGuest(context.Background(), CreateFromGuestRequest{GuestOrderID: 9, Password: "hunter22"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, "Guest did not opt to save details for account creation", typed.Message())
	assert.Nil(t, usersRepo.created, "no user may be created without opt-in")
}

func TestCreateFromGuestAtMostOnce(t *testing.T) {
	usersRepo := newStubUserRepo()
	guestRepo := &stubGuestOrderRepo{order: optedInGuestOrder()}
	svc := newAuthService(t, usersRepo, guestRepo, &stubOrderRepo{})
	ctx := context.Background()

	_, err := svc.CreateFromGuest(ctx, CreateFromGuestRequest{GuestOrderID: 9, Password: "hunter22"})
	require.NoError(t, err)

	_, err = svc.CreateFromGuest(ctx, CreateFromGuestRequest{GuestOrderID: 9, Password: "hunter22"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreateFromGuestEmailAlreadyRegistered(t *testing.T) {
	usersRepo := newStubUserRepo()
	guestRepo := &stubGuestOrderRepo{order: optedInGuestOrder()}
	svc := newAuthService(t, usersRepo, guestRepo, &stubOrderRepo{})
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Email: "buyer@example.com", Name: "Buyer", Password: "hunter22"})
	require.NoError(t, err)

	_, err = svc.CreateFromGuest(ctx, CreateFromGuestRequest{GuestOrderID: 9, Password: "hunter22"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, "User with this email already exists", typed.Message())

	// The guest order keeps its status; the terminal marker is never set on
	// a failed promotion.
	assert.Equal(t, enums.GuestOrderStatusPending, guestRepo.order.Status)
}

func TestCreateFromGuestShortPassword(t *testing.T) {
	svc := newAuthService(t, newStubUserRepo(), &stubGuestOrderRepo{}, &stubOrderRepo{})

	_, err := svc.CreateFromGuest(context.Background(), CreateFromGuestRequest{GuestOrderID: 9, Password: "abc"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
