package impl

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/fx"

	"sharegarden/internal/domain/entity"
	domainerrors "sharegarden/internal/domain/errors"
	"sharegarden/internal/domain/repository"
	"sharegarden/internal/domain/service"
	"sharegarden/internal/usecase"
)

// itemService implements the ItemUsecase interface.
type itemService struct {
	txManager repository.TransactionManager
	itemRepo  repository.ItemRepository
	logger    *slog.Logger
}

// ItemServiceParams holds dependencies for itemService, injected by Fx.
type ItemServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	ItemRepo  repository.ItemRepository
	Logger    *slog.Logger
}

// NewItemService is the constructor for itemService.
func NewItemService(params ItemServiceParams) usecase.ItemUsecase {
	return &itemService{
		txManager: params.TxManager,
		itemRepo:  params.ItemRepo,
		logger:    params.Logger,
	}
}

func (s *itemService) ListItems(ctx context.Context, input usecase.ListItemsInput) ([]*entity.Item, error) {
	items, err := s.itemRepo.List(ctx, repository.ItemFilter{
		TypeID:  input.TypeID,
		OwnerID: input.OwnerID,
		Status:  entity.ItemStatus(input.Status),
		Keyword: input.Keyword,
	})
	if err != nil {
		return nil, errors.Wrap(err, "list items")
	}

	return items, nil
}

func (s *itemService) GetItem(ctx context.Context, id uint) (*entity.Item, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, domainerrors.ErrNotFound
		}

		return nil, errors.Wrap(err, "find item")
	}

	return item, nil
}

// CreateItem publishes a new listing owned by the actor. Contact fields
// left blank fall back to the owner's profile so a lister doesn't retype
// their address for every item.
func (s *itemService) CreateItem(ctx context.Context, actor *service.Principal, input usecase.CreateItemInput) (*entity.Item, error) {
	var created *entity.Item
	err := s.txManager.Execute(ctx, func(f repository.RepositoryFactory) error {
		if _, err := f.ItemTypeRepo().FindByID(ctx, input.TypeID); err != nil {
			if errors.Is(err, repository.ErrItemTypeNotFound) {
				return domainerrors.ErrValidation.WithDetails("unknown item type")
			}

			return errors.Wrap(err, "find item type")
		}

		owner, err := f.UserRepo().FindByID(ctx, actor.UserID)
		if err != nil {
			return errors.Wrap(err, "find item owner")
		}

		item := &entity.Item{
			TypeID:      input.TypeID,
			OwnerID:     owner.ID,
			Name:        input.Name,
			Description: input.Description,
			Address:     fallback(input.Address, owner.Address),
			Phone:       fallback(input.Phone, owner.Phone),
			Email:       fallback(input.Email, owner.Email),
			Image:       input.Image,
			Status:      entity.ItemAvailable,
			Attributes:  input.Attributes,
			CreatedAt:   time.Now(),
		}
		if item.Attributes == nil {
			item.Attributes = map[string]any{}
		}

		if err := f.ItemRepo().Create(ctx, item); err != nil {
			return errors.Wrap(err, "create item")
		}

		created = item

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("item listed",
		slog.Uint64("itemID", uint64(created.ID)),
		slog.Uint64("ownerID", uint64(actor.UserID)))

	return created, nil
}

// UpdateItem applies the present fields to an existing listing. Only the
// owner or an admin may edit it.
func (s *itemService) UpdateItem(ctx context.Context, actor *service.Principal, id uint, input usecase.UpdateItemInput) (*entity.Item, error) {
	if input.Status != nil && !entity.ItemStatus(*input.Status).IsValid() {
		return nil, domainerrors.ErrValidation.WithDetails("status must be available or taken")
	}

	var updated *entity.Item
	err := s.txManager.Execute(ctx, func(f repository.RepositoryFactory) error {
		item, err := f.ItemRepo().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrItemNotFound) {
				return domainerrors.ErrNotFound
			}

			return errors.Wrap(err, "find item for update")
		}

		if item.OwnerID != actor.UserID && !actor.IsAdmin() {
			return domainerrors.ErrForbidden
		}

		if input.Name != nil {
			item.Name = *input.Name
		}
		if input.Description != nil {
			item.Description = *input.Description
		}
		if input.Address != nil {
			item.Address = *input.Address
		}
		if input.Phone != nil {
			item.Phone = *input.Phone
		}
		if input.Email != nil {
			item.Email = *input.Email
		}
		if input.Image != nil {
			item.Image = *input.Image
		}
		if input.Status != nil {
			item.Status = entity.ItemStatus(*input.Status)
		}
		if input.Attributes != nil {
			item.Attributes = input.Attributes
		}

		if err := f.ItemRepo().Update(ctx, item); err != nil {
			return errors.Wrap(err, "update item")
		}

		updated = item

		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteItem removes a listing, owner-or-admin gated like UpdateItem.
func (s *itemService) DeleteItem(ctx context.Context, actor *service.Principal, id uint) error {
	return s.txManager.Execute(ctx, func(f repository.RepositoryFactory) error {
		item, err := f.ItemRepo().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrItemNotFound) {
				return domainerrors.ErrNotFound
			}

			return errors.Wrap(err, "find item for delete")
		}

		if item.OwnerID != actor.UserID && !actor.IsAdmin() {
			return domainerrors.ErrForbidden
		}

		if err := f.ItemRepo().Delete(ctx, id); err != nil {
			return errors.Wrap(err, "delete item")
		}

		s.logger.Info("item deleted",
			slog.Uint64("itemID", uint64(id)),
			slog.Uint64("actorID", uint64(actor.UserID)))

		return nil
	})
}

// fallback returns value if non-empty, otherwise def.
func fallback(value, def string) string {
	if value != "" {
		return value
	}

	return def
}
