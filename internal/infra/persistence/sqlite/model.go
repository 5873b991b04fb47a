package sqlite

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"sharegarden/internal/domain/entity"
	"sharegarden/internal/errors"
)

// AttributeSchema stores an item type's ordered attribute descriptors as a
// JSON text column, preserving order.
type AttributeSchema []entity.AttributeField

// Value implements driver.Valuer.
func (a AttributeSchema) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal attribute schema")
	}

	return string(raw), nil
}

// Scan implements sql.Scanner.
func (a *AttributeSchema) Scan(src any) error {
	raw, err := jsonBytes(src)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		*a = nil

		return nil
	}

	return errors.Wrap(json.Unmarshal(raw, a), "failed to unmarshal attribute schema")
}

// AttributeValues stores an item's open key/value attribute mapping as a
// JSON text column. Values are never interpreted by the store.
type AttributeValues map[string]any

// Value implements driver.Valuer.
func (v AttributeValues) Value() (driver.Value, error) {
	if v == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal attribute values")
	}

	return string(raw), nil
}

// Scan implements sql.Scanner.
func (v *AttributeValues) Scan(src any) error {
	raw, err := jsonBytes(src)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		*v = nil

		return nil
	}

	return errors.Wrap(json.Unmarshal(raw, v), "failed to unmarshal attribute values")
}

func jsonBytes(src any) ([]byte, error) {
	switch value := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		return value, nil
	case string:
		return []byte(value), nil
	default:
		return nil, errors.Errorf("unsupported column type %T for JSON payload", src)
	}
}

// UserModel is the GORM persistence model for users.
type UserModel struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	Username     string    `gorm:"size:80;uniqueIndex;not null"`
	Email        string    `gorm:"size:120;uniqueIndex;not null"`
	PasswordHash string    `gorm:"size:200;not null"`
	Address      string    `gorm:"size:200"`
	Phone        string    `gorm:"size:20"`
	Role         string    `gorm:"size:20;not null;default:user"`
	Status       string    `gorm:"size:20;not null;default:pending"`
	CreatedAt    time.Time `gorm:"not null"`
}

// TableName sets the table name for UserModel.
func (UserModel) TableName() string { return "users" }

// ItemTypeModel is the GORM persistence model for item types.
type ItemTypeModel struct {
	ID         uint            `gorm:"primaryKey;autoIncrement"`
	Name       string          `gorm:"size:50;uniqueIndex;not null"`
	Attributes AttributeSchema `gorm:"type:text;not null"`
}

// TableName sets the table name for ItemTypeModel.
func (ItemTypeModel) TableName() string { return "item_types" }

// ItemModel is the GORM persistence model for items.
type ItemModel struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	TypeID      uint   `gorm:"index;not null"`
	OwnerID     uint   `gorm:"index;not null"`
	Name        string `gorm:"size:100;not null"`
	Description string `gorm:"type:text"`
	Address     string `gorm:"size:200"`
	Phone       string `gorm:"size:20"`
	Email       string `gorm:"size:120"`
	Image       string `gorm:"size:200"`
	Attributes  AttributeValues `gorm:"type:text"`
	Status      string          `gorm:"size:20;not null;default:available"`
	CreatedAt   time.Time       `gorm:"index;not null"`
}

// TableName sets the table name for ItemModel.
func (ItemModel) TableName() string { return "items" }

// --- domain mapping ---

func toUserDomain(m *UserModel) *entity.User {
	return &entity.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Address:      m.Address,
		Phone:        m.Phone,
		Role:         entity.Role(m.Role),
		Status:       entity.UserStatus(m.Status),
		CreatedAt:    m.CreatedAt,
	}
}

func fromUserDomain(u *entity.User) *UserModel {
	return &UserModel{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Address:      u.Address,
		Phone:        u.Phone,
		Role:         u.Role.String(),
		Status:       u.Status.String(),
		CreatedAt:    u.CreatedAt,
	}
}

func toItemTypeDomain(m *ItemTypeModel) *entity.ItemType {
	return &entity.ItemType{
		ID:         m.ID,
		Name:       m.Name,
		Attributes: []entity.AttributeField(m.Attributes),
	}
}

func fromItemTypeDomain(t *entity.ItemType) *ItemTypeModel {
	return &ItemTypeModel{
		ID:         t.ID,
		Name:       t.Name,
		Attributes: AttributeSchema(t.Attributes),
	}
}

func toItemDomain(m *ItemModel) *entity.Item {
	return &entity.Item{
		ID:          m.ID,
		TypeID:      m.TypeID,
		OwnerID:     m.OwnerID,
		Name:        m.Name,
		Description: m.Description,
		Address:     m.Address,
		Phone:       m.Phone,
		Email:       m.Email,
		Image:       m.Image,
		Attributes:  map[string]any(m.Attributes),
		Status:      entity.ItemStatus(m.Status),
		CreatedAt:   m.CreatedAt,
	}
}

func fromItemDomain(i *entity.Item) *ItemModel {
	return &ItemModel{
		ID:          i.ID,
		TypeID:      i.TypeID,
		OwnerID:     i.OwnerID,
		Name:        i.Name,
		Description: i.Description,
		Address:     i.Address,
		Phone:       i.Phone,
		Email:       i.Email,
		Image:       i.Image,
		Attributes:  AttributeValues(i.Attributes),
		Status:      i.Status.String(),
		CreatedAt:   i.CreatedAt,
	}
}
