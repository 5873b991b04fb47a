package repository

import (
	"context"
	"errors"

	"sharegarden/internal/domain/entity"
)

// ErrItemTypeNotFound is returned when an item type id does not resolve.
var ErrItemTypeNotFound = errors.New("item type not found")

// ErrDuplicateItemType is returned when an item type name is already taken.
var ErrDuplicateItemType = errors.New("item type name already exists")

// ItemTypeRepository defines the operations for item type persistence.
type ItemTypeRepository interface {
	// FindByID retrieves a single item type by its unique ID.
	FindByID(ctx context.Context, id uint) (*entity.ItemType, error)

	// List returns all item types.
	List(ctx context.Context) ([]*entity.ItemType, error)

	// Create persists a new item type and assigns its ID.
	Create(ctx context.Context, itemType *entity.ItemType) error

	// Update modifies an existing item type.
	Update(ctx context.Context, itemType *entity.ItemType) error

	// Delete removes the item type row. Referential checks against items
	// are the caller's responsibility.
	Delete(ctx context.Context, id uint) error
}
