package impl

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"go.uber.org/fx"

	"sharegarden/internal/domain/entity"
	domainerrors "sharegarden/internal/domain/errors"
	"sharegarden/internal/domain/repository"
	"sharegarden/internal/usecase"
)

// itemTypeService implements the ItemTypeUsecase interface.
type itemTypeService struct {
	txManager    repository.TransactionManager
	itemTypeRepo repository.ItemTypeRepository
	logger       *slog.Logger
}

// ItemTypeServiceParams holds dependencies for itemTypeService, injected by Fx.
type ItemTypeServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	ItemTypeRepo repository.ItemTypeRepository
	Logger       *slog.Logger
}

// NewItemTypeService is the constructor for itemTypeService.
func NewItemTypeService(params ItemTypeServiceParams) usecase.ItemTypeUsecase {
	return &itemTypeService{
		txManager:    params.TxManager,
		itemTypeRepo: params.ItemTypeRepo,
		logger:       params.Logger,
	}
}

func (s *itemTypeService) ListTypes(ctx context.Context) ([]*entity.ItemType, error) {
	types, err := s.itemTypeRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list item types")
	}

	return types, nil
}

func (s *itemTypeService) CreateType(ctx context.Context, input usecase.ItemTypeInput) (*entity.ItemType, error) {
	itemType := &entity.ItemType{
		Name:       input.Name,
		Attributes: input.Attributes,
	}
	if itemType.Attributes == nil {
		itemType.Attributes = []entity.AttributeField{}
	}

	if err := s.itemTypeRepo.Create(ctx, itemType); err != nil {
		if errors.Is(err, repository.ErrDuplicateItemType) {
			return nil, domainerrors.ErrConflict.WithDetails("item type name already exists")
		}

		return nil, errors.Wrap(err, "create item type")
	}

	s.logger.Info("item type created",
		slog.Uint64("typeID", uint64(itemType.ID)),
		slog.String("name", itemType.Name))

	return itemType, nil
}

// UpdateType replaces the name and schema wholesale. Existing items keep
// whatever attribute keys they were stored with; the schema only guides
// the front-end form.
func (s *itemTypeService) UpdateType(ctx context.Context, id uint, input usecase.ItemTypeInput) (*entity.ItemType, error) {
	var updated *entity.ItemType
	err := s.txManager.Execute(ctx, func(f repository.RepositoryFactory) error {
		itemType, err := f.ItemTypeRepo().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrItemTypeNotFound) {
				return domainerrors.ErrNotFound
			}

			return errors.Wrap(err, "find item type")
		}

		if input.Name != "" {
			itemType.Name = input.Name
		}
		if input.Attributes != nil {
			itemType.Attributes = input.Attributes
		}

		if err := f.ItemTypeRepo().Update(ctx, itemType); err != nil {
			if errors.Is(err, repository.ErrDuplicateItemType) {
				return domainerrors.ErrConflict.WithDetails("item type name already exists")
			}

			return errors.Wrap(err, "update item type")
		}

		updated = itemType

		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteType removes a category, unless items still reference it. The
// existence check and the reference count run in one transaction so a
// concurrent item creation cannot orphan itself.
func (s *itemTypeService) DeleteType(ctx context.Context, id uint) error {
	return s.txManager.Execute(ctx, func(f repository.RepositoryFactory) error {
		if _, err := f.ItemTypeRepo().FindByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrItemTypeNotFound) {
				return domainerrors.ErrNotFound
			}

			return errors.Wrap(err, "find item type")
		}

		count, err := f.ItemRepo().CountByType(ctx, id)
		if err != nil {
			return errors.Wrap(err, "count items of type")
		}
		if count > 0 {
			return domainerrors.ErrTypeInUse
		}

		if err := f.ItemTypeRepo().Delete(ctx, id); err != nil {
			return errors.Wrap(err, "delete item type")
		}

		s.logger.Info("item type deleted", slog.Uint64("typeID", uint64(id)))

		return nil
	})
}
