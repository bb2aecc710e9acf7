package auth

// RegisterRequest contains the payload for direct account creation.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest contains the credentials for an existing account.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserView is the account shape embedded in auth responses.
type UserView struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AuthResponse pairs the account with a signed access token.
type AuthResponse struct {
	User  UserView `json:"user"`
	Token string   `json:"token"`
}

// CreateFromGuestRequest promotes a guest order into a registered account.
type CreateFromGuestRequest struct {
	GuestOrderID int64  `json:"guest_order_id" validate:"required"`
	Password     string `json:"password" validate:"required"`
}

// CreateFromGuestResponse reports the created account.
type CreateFromGuestResponse struct {
	UserID  int64  `json:"user_id"`
	Email   string `json:"email"`
	Message string `json:"message"`
}
