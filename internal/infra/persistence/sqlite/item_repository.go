package sqlite

import (
	"context"

	"sharegarden/internal/domain/entity"
	"sharegarden/internal/domain/repository"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// itemRepository implements the domain.ItemRepository interface using GORM.
type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository is the constructor for itemRepository.
func NewItemRepository(db *gorm.DB) repository.ItemRepository {
	return &itemRepository{db: db}
}

// itemRow carries an item joined with its type name and owner username for
// listings.
type itemRow struct {
	ItemModel
	TypeName      string
	OwnerUsername string
}

// FindByID retrieves a single item by its unique ID.
func (repo *itemRepository) FindByID(ctx context.Context, id uint) (*entity.Item, error) {
	var m ItemModel
	if err := repo.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrItemNotFound
		}

		return nil, errors.Wrap(err, "failed to find item by id")
	}

	return toItemDomain(&m), nil
}

// List returns items matching the filter, newest first, joined with the
// type name and owner username the listings embed.
func (repo *itemRepository) List(ctx context.Context, filter repository.ItemFilter) ([]*entity.Item, error) {
	query := repo.db.WithContext(ctx).Model(&ItemModel{}).
		Select("items.*, item_types.name AS type_name, users.username AS owner_username").
		Joins("JOIN item_types ON item_types.id = items.type_id").
		Joins("JOIN users ON users.id = items.owner_id")

	if filter.TypeID != nil {
		query = query.Where("items.type_id = ?", *filter.TypeID)
	}
	if filter.OwnerID != nil {
		query = query.Where("items.owner_id = ?", *filter.OwnerID)
	}
	if filter.Status != "" {
		query = query.Where("items.status = ?", filter.Status.String())
	}
	if filter.Keyword != "" {
		pattern := "%" + filter.Keyword + "%"
		query = query.Where(
			"items.name LIKE ? OR items.description LIKE ? OR items.address LIKE ?",
			pattern, pattern, pattern,
		)
	}

	var rows []itemRow
	if err := query.Order("items.created_at DESC, items.id DESC").Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list items")
	}

	items := make([]*entity.Item, len(rows))
	for i := range rows {
		item := toItemDomain(&rows[i].ItemModel)
		item.TypeName = rows[i].TypeName
		item.OwnerUsername = rows[i].OwnerUsername
		items[i] = item
	}

	return items, nil
}

// Create persists a new item and assigns its generated ID and timestamp.
func (repo *itemRepository) Create(ctx context.Context, item *entity.Item) error {
	m := fromItemDomain(item)

	if err := repo.db.WithContext(ctx).Create(m).Error; err != nil {
		return errors.Wrap(err, "failed to create item")
	}

	item.ID = m.ID
	item.CreatedAt = m.CreatedAt

	return nil
}

// Update replaces the stored row with the given entity.
func (repo *itemRepository) Update(ctx context.Context, item *entity.Item) error {
	m := fromItemDomain(item)

	result := repo.db.WithContext(ctx).Model(&ItemModel{ID: m.ID}).Updates(map[string]any{
		"type_id":     m.TypeID,
		"name":        m.Name,
		"description": m.Description,
		"address":     m.Address,
		"phone":       m.Phone,
		"email":       m.Email,
		"image":       m.Image,
		"attributes":  m.Attributes,
		"status":      m.Status,
	})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update item")
	}
	if result.RowsAffected == 0 {
		return repository.ErrItemNotFound
	}

	return nil
}

// Delete removes the item row.
func (repo *itemRepository) Delete(ctx context.Context, id uint) error {
	result := repo.db.WithContext(ctx).Delete(&ItemModel{}, id)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete item")
	}
	if result.RowsAffected == 0 {
		return repository.ErrItemNotFound
	}

	return nil
}

// DeleteByOwner removes every item owned by the given user.
func (repo *itemRepository) DeleteByOwner(ctx context.Context, ownerID uint) error {
	err := repo.db.WithContext(ctx).Where("owner_id = ?", ownerID).Delete(&ItemModel{}).Error

	return errors.Wrap(err, "failed to delete items by owner")
}

// CountByType reports how many items reference the given item type.
func (repo *itemRepository) CountByType(ctx context.Context, typeID uint) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&ItemModel{}).Where("type_id = ?", typeID).Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to count items by type")
	}

	return count, nil
}
