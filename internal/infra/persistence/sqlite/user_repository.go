package sqlite

import (
	"context"

	"sharegarden/internal/domain/entity"
	"sharegarden/internal/domain/repository"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// userRepository implements the domain.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a domain interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindByID retrieves a single user by their unique ID.
func (repo *userRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	var m UserModel
	if err := repo.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	return toUserDomain(&m), nil
}

// FindByLogin retrieves a single user whose username or email matches the
// given identifier.
func (repo *userRepository) FindByLogin(ctx context.Context, usernameOrEmail string) (*entity.User, error) {
	var m UserModel
	err := repo.db.WithContext(ctx).
		Where("username = ? OR email = ?", usernameOrEmail, usernameOrEmail).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by login")
	}

	return toUserDomain(&m), nil
}

// Create persists a new user entity and assigns its generated ID.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	m := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateUser
		}

		return errors.Wrap(err, "failed to create user")
	}

	user.ID = m.ID
	user.CreatedAt = m.CreatedAt

	return nil
}

// Update replaces the stored row with the given entity.
func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	m := fromUserDomain(user)

	result := repo.db.WithContext(ctx).Model(&UserModel{ID: m.ID}).Updates(map[string]any{
		"username":      m.Username,
		"email":         m.Email,
		"password_hash": m.PasswordHash,
		"address":       m.Address,
		"phone":         m.Phone,
		"role":          m.Role,
		"status":        m.Status,
	})
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return repository.ErrDuplicateUser
		}

		return errors.Wrap(result.Error, "failed to update user")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// Delete removes the user row.
func (repo *userRepository) Delete(ctx context.Context, id uint) error {
	result := repo.db.WithContext(ctx).Delete(&UserModel{}, id)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete user")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// List returns users matching the filter, oldest first.
func (repo *userRepository) List(ctx context.Context, filter repository.UserFilter) ([]*entity.User, error) {
	query := repo.db.WithContext(ctx).Model(&UserModel{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.Keyword != "" {
		pattern := "%" + filter.Keyword + "%"
		query = query.Where("username LIKE ? OR email LIKE ? OR phone LIKE ?", pattern, pattern, pattern)
	}

	var models []UserModel
	if err := query.Order("id").Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	users := make([]*entity.User, len(models))
	for i := range models {
		users[i] = toUserDomain(&models[i])
	}

	return users, nil
}
