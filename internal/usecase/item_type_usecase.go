package usecase

import (
	"context"

	"sharegarden/internal/domain/entity"
)

// ItemTypeInput defines a category and its attribute schema. The schema
// is advisory: it tells the front-end which extra fields to render, it is
// never enforced against item attribute values.
type ItemTypeInput struct {
	Name       string
	Attributes []entity.AttributeField
}

// ItemTypeUsecase manages the item categories. Mutations are admin-only;
// the gate lives in the delivery layer.
type ItemTypeUsecase interface {
	ListTypes(ctx context.Context) ([]*entity.ItemType, error)
	CreateType(ctx context.Context, input ItemTypeInput) (*entity.ItemType, error)
	UpdateType(ctx context.Context, id uint, input ItemTypeInput) (*entity.ItemType, error)
	// DeleteType refuses to remove a category that still has items.
	DeleteType(ctx context.Context, id uint) error
}
