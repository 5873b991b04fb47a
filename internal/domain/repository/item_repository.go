package repository

import (
	"context"
	"errors"

	"sharegarden/internal/domain/entity"
)

// ErrItemNotFound is returned when an item id does not resolve.
var ErrItemNotFound = errors.New("item not found")

// ItemFilter narrows List results. Nil pointers and zero values mean
// "no constraint".
type ItemFilter struct {
	TypeID  *uint
	OwnerID *uint
	Status  entity.ItemStatus
	Keyword string // Substring match over name, description and address.
}

// ItemRepository defines the operations for item persistence.
type ItemRepository interface {
	// FindByID retrieves a single item by its unique ID.
	FindByID(ctx context.Context, id uint) (*entity.Item, error)

	// List returns items matching the filter, newest first, with the type
	// name and owner username populated.
	List(ctx context.Context, filter ItemFilter) ([]*entity.Item, error)

	// Create persists a new item and assigns its ID and creation time.
	Create(ctx context.Context, item *entity.Item) error

	// Update replaces the stored row with the given entity. Partial update
	// semantics are applied by the caller on a freshly loaded entity.
	Update(ctx context.Context, item *entity.Item) error

	// Delete removes the item row.
	Delete(ctx context.Context, id uint) error

	// DeleteByOwner removes every item owned by the given user. Used by the
	// cascading account deletion inside one transaction.
	DeleteByOwner(ctx context.Context, ownerID uint) error

	// CountByType reports how many items reference the given item type.
	CountByType(ctx context.Context, typeID uint) (int64, error)
}
