package sqlite

import (
	"context"
	"time"

	"sharegarden/config"
	"sharegarden/internal/domain/entity"
	"sharegarden/internal/domain/repository"
	"sharegarden/internal/errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed bootstraps an empty store with the distinguished superuser and the
// two starter item types. It is idempotent: an existing admin row means the
// store has already been seeded.
func Seed(db *gorm.DB, cfg *config.Config) error {
	admin := adminConfig(cfg)

	var count int64
	if err := db.Model(&UserModel{}).Where("username = ?", admin.Username).Count(&count).Error; err != nil {
		return errors.Wrap(err, "failed to probe for the admin user")
	}
	if count > 0 {
		return nil
	}

	cost := bcrypt.DefaultCost
	if cfg.Auth != nil && cfg.Auth.BcryptCost > 0 {
		cost = cfg.Auth.BcryptCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), cost)
	if err != nil {
		return errors.Wrap(err, "failed to hash the admin password")
	}

	adminRow := &UserModel{
		Username:     admin.Username,
		Email:        admin.Email,
		PasswordHash: string(hash),
		Role:         entity.RoleAdmin.String(),
		Status:       entity.StatusApproved.String(),
		CreatedAt:    time.Now(),
	}
	if err := db.Create(adminRow).Error; err != nil {
		return errors.Wrap(err, "failed to create the admin user")
	}

	starterTypes := []ItemTypeModel{
		{
			Name: "食品",
			Attributes: AttributeSchema{
				{Key: "expiry_date", Label: "保质期", Type: "date"},
				{Key: "quantity", Label: "数量", Type: "number"},
			},
		},
		{
			Name: "书籍",
			Attributes: AttributeSchema{
				{Key: "author", Label: "作者", Type: "text"},
				{Key: "isbn", Label: "ISBN", Type: "text"},
			},
		},
	}
	for i := range starterTypes {
		if err := db.Create(&starterTypes[i]).Error; err != nil {
			return errors.Wrap(err, "failed to create a starter item type")
		}
	}

	return nil
}

func adminConfig(cfg *config.Config) config.AdminConfig {
	admin := config.AdminConfig{
		Username: "admin",
		Password: "admin123",
		Email:    "admin@sharegarden.local",
	}
	if cfg.Admin != nil {
		if cfg.Admin.Username != "" {
			admin.Username = cfg.Admin.Username
		}
		if cfg.Admin.Password != "" {
			admin.Password = cfg.Admin.Password
		}
		if cfg.Admin.Email != "" {
			admin.Email = cfg.Admin.Email
		}
	}

	return admin
}

// maintainer implements repository.Maintainer on top of the live database.
type maintainer struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewMaintainer is the constructor for the store maintainer.
func NewMaintainer(db *gorm.DB, cfg *config.Config) repository.Maintainer {
	return &maintainer{db: db, cfg: cfg}
}

// Reset drops every table, remigrates the schema and reseeds the store.
func (m *maintainer) Reset(ctx context.Context) error {
	db := m.db.WithContext(ctx)

	if err := db.Migrator().DropTable(&ItemModel{}, &ItemTypeModel{}, &UserModel{}); err != nil {
		return errors.Wrap(err, "failed to drop tables")
	}
	if err := Migrate(db); err != nil {
		return err
	}

	return Seed(db, m.cfg)
}
