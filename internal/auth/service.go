package auth

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/decantly/decantly-backend/internal/guestorders"
	"github.com/decantly/decantly-backend/internal/orders"
	"github.com/decantly/decantly-backend/internal/users"
	pkgauth "github.com/decantly/decantly-backend/pkg/auth"
	"github.com/decantly/decantly-backend/pkg/config"
	"github.com/decantly/decantly-backend/pkg/db"
	"github.com/decantly/decantly-backend/pkg/db/models"
	"github.com/decantly/decantly-backend/pkg/enums"
	pkgerrors "github.com/decantly/decantly-backend/pkg/errors"
	"github.com/decantly/decantly-backend/pkg/security"
)

const (
	invalidCredentialsMessage = "Invalid email or password"
	passwordTooShortMessage   = "Password must be at least 6 characters long"
	emailTakenMessage         = "User with this email already exists"
	accountCreatedMessage     = "Account created successfully! You can now sign in with your email and password."
	minPasswordLength         = 6
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines the behavior needed by the auth controller.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	CreateFromGuest(ctx context.Context, req CreateFromGuestRequest) (*CreateFromGuestResponse, error)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Users          users.Repository
	GuestOrders    guestorders.Repository
	Orders         orders.Repository
	Tx             txRunner
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
}

type service struct {
	users       users.Repository
	guestOrders guestorders.Repository
	orders      orders.Repository
	tx          txRunner
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	now         func() time.Time
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if params.GuestOrders == nil {
		return nil, fmt.Errorf("guest orders repository required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		users:       params.Users,
		guestOrders: params.GuestOrders,
		orders:      params.Orders,
		tx:          params.Tx,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
		now:         time.Now,
	}, nil
}

// Register creates an account directly from an email, name, and password.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Email is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Name is required")
	}
	if len(req.Password) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, passwordTooShortMessage)
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, emailTakenMessage)
	} else if !stdErrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check user email")
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := models.User{
		Email:        email,
		Name:         req.Name,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, emailTakenMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	return s.authResponse(&user)
}

// Login authenticates an existing account. Unknown email and wrong password
// share one message so the response does not leak which half failed.
func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	ok, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	return s.authResponse(user)
}

// CreateFromGuest promotes an opted-in guest order into a registered account
// plus a cloned user order. The whole sequence commits atomically: user
// creation, order cloning with the guest lines' snapshotted prices, and the
// one-way flip of the guest order to its terminal account_created status. A
// second promotion attempt fails inside the transaction, either on the
// terminal status or the now-taken email.
func (s *service) CreateFromGuest(ctx context.Context, req CreateFromGuestRequest) (*CreateFromGuestResponse, error) {
	if len(req.Password) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, passwordTooShortMessage)
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var response CreateFromGuestResponse
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		guestRepo := s.guestOrders.WithTx(tx)
		userRepo := s.users.WithTx(tx)
		orderRepo := s.orders.WithTx(tx)

		guestOrder, err := guestRepo.FindByID(ctx, req.GuestOrderID)
		if err != nil {
			if stdErrors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "Guest order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load guest order")
		}

		if !guestOrder.SaveDetailsForAccount {
			return pkgerrors.New(pkgerrors.CodeValidation, "Guest did not opt to save details for account creation")
		}
		if guestOrder.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeValidation, "Guest order has already been promoted to an account")
		}

		if _, err := userRepo.FindByEmail(ctx, guestOrder.Email); err == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, emailTakenMessage)
		} else if !stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check user email")
		}

		user := models.User{
			Email:         guestOrder.Email,
			Name:          nameFromEmail(guestOrder.Email),
			PasswordHash:  hash,
			AddressLine1:  &guestOrder.AddressLine1,
			AddressLine2:  guestOrder.AddressLine2,
			City:          &guestOrder.City,
			StateProvince: &guestOrder.StateProvince,
			PostalCode:    &guestOrder.PostalCode,
			Country:       &guestOrder.Country,
			Phone:         guestOrder.Phone,
		}
		if err := userRepo.Create(ctx, &user); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
		}

		guestItems, err := guestRepo.ListItems(ctx, guestOrder.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load guest order items")
		}

		order := models.Order{
			UserID:      user.ID,
			TotalAmount: guestOrder.TotalAmount,
			Status:      enums.OrderStatusConfirmed,
		}
		if err := orderRepo.Create(ctx, &order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		// Carry the snapshotted prices over verbatim; nothing is re-resolved
		// against the live price table.
		items := make([]models.OrderItem, 0, len(guestItems))
		for _, guestItem := range guestItems {
			items = append(items, models.OrderItem{
				OrderID:      order.ID,
				FragranceID:  guestItem.FragranceID,
				DecantSizeID: guestItem.DecantSizeID,
				Quantity:     guestItem.Quantity,
				PricePerItem: guestItem.PricePerItem,
			})
		}
		if err := orderRepo.CreateItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}

		if err := guestRepo.UpdateStatus(ctx, guestOrder.ID, enums.GuestOrderStatusAccountCreated); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark guest order promoted")
		}

		response = CreateFromGuestResponse{
			UserID:  user.ID,
			Email:   user.Email,
			Message: accountCreatedMessage,
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "promote guest order")
	}
	return &response, nil
}

func (s *service) authResponse(user *models.User) (*AuthResponse, error) {
	token, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	return &AuthResponse{
		User: UserView{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
		},
		Token: token,
	}, nil
}

// nameFromEmail derives the default display name from the email local part.
// Deliberately naive; users can change it later.
func nameFromEmail(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
