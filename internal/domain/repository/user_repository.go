// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"sharegarden/internal/domain/entity"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// ErrDuplicateUser is returned when a username or email is already taken.
var ErrDuplicateUser = errors.New("username or email already exists")

// UserFilter narrows List results. Zero values mean "no constraint".
type UserFilter struct {
	Status  entity.UserStatus // Exact status match.
	Keyword string            // Substring match over username, email and phone.
}

// UserRepository defines the standard operations for user persistence.
// The application layer will depend on this interface, not the concrete implementation.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// FindByLogin retrieves a single user whose username or email equals
	// the given identifier. Used by login and duplicate checks.
	FindByLogin(ctx context.Context, usernameOrEmail string) (*entity.User, error)

	// Create persists a new user entity and assigns its ID.
	Create(ctx context.Context, user *entity.User) error

	// Update modifies an existing user entity in the storage.
	Update(ctx context.Context, user *entity.User) error

	// Delete removes the user row. Cascading item deletion is the caller's
	// responsibility and must run in the same transaction.
	Delete(ctx context.Context, id uint) error

	// List returns users matching the filter.
	List(ctx context.Context, filter UserFilter) ([]*entity.User, error)
}
