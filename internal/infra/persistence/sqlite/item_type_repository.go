package sqlite

import (
	"context"

	"sharegarden/internal/domain/entity"
	"sharegarden/internal/domain/repository"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// itemTypeRepository implements the domain.ItemTypeRepository interface using GORM.
type itemTypeRepository struct {
	db *gorm.DB
}

// NewItemTypeRepository is the constructor for itemTypeRepository.
func NewItemTypeRepository(db *gorm.DB) repository.ItemTypeRepository {
	return &itemTypeRepository{db: db}
}

// FindByID retrieves a single item type by its unique ID.
func (repo *itemTypeRepository) FindByID(ctx context.Context, id uint) (*entity.ItemType, error) {
	var m ItemTypeModel
	if err := repo.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrItemTypeNotFound
		}

		return nil, errors.Wrap(err, "failed to find item type by id")
	}

	return toItemTypeDomain(&m), nil
}

// List returns all item types ordered by id.
func (repo *itemTypeRepository) List(ctx context.Context) ([]*entity.ItemType, error) {
	var models []ItemTypeModel
	if err := repo.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list item types")
	}

	types := make([]*entity.ItemType, len(models))
	for i := range models {
		types[i] = toItemTypeDomain(&models[i])
	}

	return types, nil
}

// Create persists a new item type and assigns its generated ID.
func (repo *itemTypeRepository) Create(ctx context.Context, itemType *entity.ItemType) error {
	m := fromItemTypeDomain(itemType)

	if err := repo.db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateItemType
		}

		return errors.Wrap(err, "failed to create item type")
	}

	itemType.ID = m.ID

	return nil
}

// Update replaces the name and schema of an existing item type.
func (repo *itemTypeRepository) Update(ctx context.Context, itemType *entity.ItemType) error {
	m := fromItemTypeDomain(itemType)

	result := repo.db.WithContext(ctx).Model(&ItemTypeModel{ID: m.ID}).Updates(map[string]any{
		"name":       m.Name,
		"attributes": m.Attributes,
	})
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return repository.ErrDuplicateItemType
		}

		return errors.Wrap(result.Error, "failed to update item type")
	}
	if result.RowsAffected == 0 {
		return repository.ErrItemTypeNotFound
	}

	return nil
}

// Delete removes the item type row.
func (repo *itemTypeRepository) Delete(ctx context.Context, id uint) error {
	result := repo.db.WithContext(ctx).Delete(&ItemTypeModel{}, id)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete item type")
	}
	if result.RowsAffected == 0 {
		return repository.ErrItemTypeNotFound
	}

	return nil
}
