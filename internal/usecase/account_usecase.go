// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"sharegarden/internal/domain/entity"
	"sharegarden/internal/domain/service"
)

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Address  string
	Phone    string
}

// LoginInput carries the credentials for a login attempt. Login accepts
// either the username or the email address.
type LoginInput struct {
	Login    string
	Password string
}

// UpdateProfileInput updates an account's own profile. Nil fields are
// left untouched.
type UpdateProfileInput struct {
	Email    *string
	Address  *string
	Phone    *string
	Password *string
}

// TokenOutput returns the token pair issued after login or refresh.
type TokenOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// AccountUsecase defines the account-facing business operations. This is
// the contract the delivery layer depends on.
type AccountUsecase interface {
	Register(ctx context.Context, input RegisterInput) (*entity.User, error)
	Login(ctx context.Context, input LoginInput) (*TokenOutput, error)
	// Refresh re-issues a token pair for the given subject, failing if
	// the account no longer exists.
	Refresh(ctx context.Context, userID uint) (*TokenOutput, error)
	Profile(ctx context.Context, actor *service.Principal, targetID uint) (*entity.User, error)
	UpdateProfile(ctx context.Context, actor *service.Principal, targetID uint, input UpdateProfileInput) (*entity.User, error)
	// DeleteAccount removes the account and all items it owns.
	DeleteAccount(ctx context.Context, actor *service.Principal, targetID uint) error
}
