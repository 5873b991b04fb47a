package usecase

import (
	"context"

	"sharegarden/internal/domain/entity"
	"sharegarden/internal/domain/service"
)

// CreateItemInput defines a new listing. Contact fields left empty are
// filled from the owner's profile.
type CreateItemInput struct {
	TypeID      uint
	Name        string
	Description string
	Address     string
	Phone       string
	Email       string
	Image       string
	Attributes  map[string]any
}

// UpdateItemInput mutates only the fields that are present. A nil
// Attributes map leaves the stored attributes untouched; a non-nil map
// replaces them wholesale.
type UpdateItemInput struct {
	Name        *string
	Description *string
	Address     *string
	Phone       *string
	Email       *string
	Image       *string
	Status      *string
	Attributes  map[string]any
}

// ListItemsInput filters the public item listing.
type ListItemsInput struct {
	TypeID  *uint
	OwnerID *uint
	Status  string
	Keyword string
}

// ItemUsecase defines the listing-related business operations.
type ItemUsecase interface {
	ListItems(ctx context.Context, input ListItemsInput) ([]*entity.Item, error)
	GetItem(ctx context.Context, id uint) (*entity.Item, error)
	CreateItem(ctx context.Context, actor *service.Principal, input CreateItemInput) (*entity.Item, error)
	UpdateItem(ctx context.Context, actor *service.Principal, id uint, input UpdateItemInput) (*entity.Item, error)
	DeleteItem(ctx context.Context, actor *service.Principal, id uint) error
}
