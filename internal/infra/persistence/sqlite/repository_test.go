package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"sharegarden/config"
	"sharegarden/internal/domain/entity"
	"sharegarden/internal/domain/repository"
	"sharegarden/internal/errors"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// An in-memory database exists per connection; keep the pool at one.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Migrate(db))

	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string, role entity.Role, status entity.UserStatus) *entity.User {
	t.Helper()

	user := &entity.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Phone:        "555-0101",
		Role:         role,
		Status:       status,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))

	return user
}

func seedType(t *testing.T, db *gorm.DB, name string) *entity.ItemType {
	t.Helper()

	itemType := &entity.ItemType{
		Name: name,
		Attributes: []entity.AttributeField{
			{Key: "author", Label: "作者", Type: "text"},
		},
	}
	require.NoError(t, NewItemTypeRepository(db).Create(context.Background(), itemType))

	return itemType
}

func TestUserRepository_DuplicateUsernameOrEmail(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	seedUser(t, db, "willow", entity.RoleUser, entity.StatusPending)

	err := repo.Create(ctx, &entity.User{
		Username: "willow",
		Email:    "other@example.com",
		Role:     entity.RoleUser,
		Status:   entity.StatusPending,
	})
	assert.True(t, errors.Is(err, repository.ErrDuplicateUser))

	err = repo.Create(ctx, &entity.User{
		Username: "someone-else",
		Email:    "willow@example.com",
		Role:     entity.RoleUser,
		Status:   entity.StatusPending,
	})
	assert.True(t, errors.Is(err, repository.ErrDuplicateUser))

	// The store is unchanged: exactly one row survived.
	users, err := repo.List(ctx, repository.UserFilter{})
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUserRepository_FindByLogin(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	created := seedUser(t, db, "willow", entity.RoleUser, entity.StatusApproved)

	byName, err := repo.FindByLogin(ctx, "willow")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	byEmail, err := repo.FindByLogin(ctx, "willow@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = repo.FindByLogin(ctx, "nobody")
	assert.True(t, errors.Is(err, repository.ErrUserNotFound))
}

func TestUserRepository_ListFilters(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	seedUser(t, db, "pending-user", entity.RoleUser, entity.StatusPending)
	seedUser(t, db, "approved-user", entity.RoleUser, entity.StatusApproved)

	pending, err := repo.List(ctx, repository.UserFilter{Status: entity.StatusPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "pending-user", pending[0].Username)

	matched, err := repo.List(ctx, repository.UserFilter{Keyword: "approved"})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "approved-user", matched[0].Username)
}

func TestItemTypeRepository_DuplicateName(t *testing.T) {
	db := openTestDB(t)
	repo := NewItemTypeRepository(db)
	ctx := context.Background()

	seedType(t, db, "书籍")
	other := seedType(t, db, "食品")

	err := repo.Create(ctx, &entity.ItemType{Name: "书籍"})
	assert.True(t, errors.Is(err, repository.ErrDuplicateItemType))

	// Rename collision hits the same unique index.
	other.Name = "书籍"
	err = repo.Update(ctx, other)
	assert.True(t, errors.Is(err, repository.ErrDuplicateItemType))
}

func TestItemTypeRepository_SchemaOrderSurvivesRoundTrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewItemTypeRepository(db)
	ctx := context.Background()

	created := &entity.ItemType{
		Name: "食品",
		Attributes: []entity.AttributeField{
			{Key: "expiry_date", Label: "保质期", Type: "date"},
			{Key: "quantity", Label: "数量", Type: "number"},
			{Key: "origin", Label: "产地", Type: "a-custom-tag"},
		},
	}
	require.NoError(t, repo.Create(ctx, created))

	loaded, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Attributes, 3)
	assert.Equal(t, "expiry_date", loaded.Attributes[0].Key)
	assert.Equal(t, "quantity", loaded.Attributes[1].Key)
	// Unknown type tags are stored verbatim, not rejected.
	assert.Equal(t, "a-custom-tag", loaded.Attributes[2].Type)
}

func TestItemRepository_ListFiltersAndOrder(t *testing.T) {
	db := openTestDB(t)
	repo := NewItemRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "willow", entity.RoleUser, entity.StatusApproved)
	bookType := seedType(t, db, "书籍")

	older := &entity.Item{
		TypeID: bookType.ID, OwnerID: owner.ID,
		Name: "Dune", Description: "paperback", Address: "Old Mill Road",
		Status: entity.ItemAvailable, CreatedAt: time.Now().Add(-time.Hour),
		Attributes: map[string]any{"author": "Frank Herbert"},
	}
	newer := &entity.Item{
		TypeID: bookType.ID, OwnerID: owner.ID,
		Name: "Hyperion", Status: entity.ItemTaken, CreatedAt: time.Now(),
	}
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	all, err := repo.List(ctx, repository.ItemFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Newest first, with the joined columns populated.
	assert.Equal(t, "Hyperion", all[0].Name)
	assert.Equal(t, "书籍", all[0].TypeName)
	assert.Equal(t, "willow", all[0].OwnerUsername)

	available, err := repo.List(ctx, repository.ItemFilter{Status: entity.ItemAvailable})
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "Dune", available[0].Name)
	assert.Equal(t, "Frank Herbert", available[0].Attributes["author"])

	byKeyword, err := repo.List(ctx, repository.ItemFilter{Keyword: "Mill"})
	require.NoError(t, err)
	require.Len(t, byKeyword, 1)
	assert.Equal(t, "Dune", byKeyword[0].Name)

	byOwner, err := repo.List(ctx, repository.ItemFilter{OwnerID: &owner.ID})
	require.NoError(t, err)
	assert.Len(t, byOwner, 2)
}

func TestItemRepository_CountByType(t *testing.T) {
	db := openTestDB(t)
	repo := NewItemRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "willow", entity.RoleUser, entity.StatusApproved)
	bookType := seedType(t, db, "书籍")
	emptyType := seedType(t, db, "食品")

	require.NoError(t, repo.Create(ctx, &entity.Item{
		TypeID: bookType.ID, OwnerID: owner.ID, Name: "Dune",
		Status: entity.ItemAvailable, CreatedAt: time.Now(),
	}))

	used, err := repo.CountByType(ctx, bookType.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), used)

	unused, err := repo.CountByType(ctx, emptyType.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unused)
}

func TestTransactionManager_RollsBackCascadingDelete(t *testing.T) {
	db := openTestDB(t)
	tm := NewTransactionManager(db)
	ctx := context.Background()

	owner := seedUser(t, db, "willow", entity.RoleUser, entity.StatusApproved)
	bookType := seedType(t, db, "书籍")
	require.NoError(t, NewItemRepository(db).Create(ctx, &entity.Item{
		TypeID: bookType.ID, OwnerID: owner.ID, Name: "Dune",
		Status: entity.ItemAvailable, CreatedAt: time.Now(),
	}))

	boom := errors.New("boom")
	err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
		if err := f.ItemRepo().DeleteByOwner(ctx, owner.ID); err != nil {
			return err
		}
		if err := f.UserRepo().Delete(ctx, owner.ID); err != nil {
			return err
		}

		return boom
	})
	assert.True(t, errors.Is(err, boom))

	// Both deletions rolled back together.
	_, err = NewUserRepository(db).FindByID(ctx, owner.ID)
	assert.NoError(t, err)
	items, err := NewItemRepository(db).List(ctx, repository.ItemFilter{OwnerID: &owner.ID})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestTransactionManager_CommitsCascadingDelete(t *testing.T) {
	db := openTestDB(t)
	tm := NewTransactionManager(db)
	ctx := context.Background()

	owner := seedUser(t, db, "willow", entity.RoleUser, entity.StatusApproved)
	bookType := seedType(t, db, "书籍")
	require.NoError(t, NewItemRepository(db).Create(ctx, &entity.Item{
		TypeID: bookType.ID, OwnerID: owner.ID, Name: "Dune",
		Status: entity.ItemAvailable, CreatedAt: time.Now(),
	}))

	err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
		if err := f.ItemRepo().DeleteByOwner(ctx, owner.ID); err != nil {
			return err
		}

		return f.UserRepo().Delete(ctx, owner.ID)
	})
	require.NoError(t, err)

	_, err = NewUserRepository(db).FindByID(ctx, owner.ID)
	assert.True(t, errors.Is(err, repository.ErrUserNotFound))
	items, err := NewItemRepository(db).List(ctx, repository.ItemFilter{})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSeed_IdempotentAndReset(t *testing.T) {
	db := openTestDB(t)
	cfg := &config.Config{}
	ctx := context.Background()

	require.NoError(t, Seed(db, cfg))
	require.NoError(t, Seed(db, cfg))

	users, err := NewUserRepository(db).List(ctx, repository.UserFilter{})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "admin", users[0].Username)
	assert.Equal(t, entity.RoleAdmin, users[0].Role)
	assert.Equal(t, entity.StatusApproved, users[0].Status)

	types, err := NewItemTypeRepository(db).List(ctx)
	require.NoError(t, err)
	assert.Len(t, types, 2)

	// Reset wipes user data but leaves a freshly seeded store behind.
	seedUser(t, db, "willow", entity.RoleUser, entity.StatusApproved)
	require.NoError(t, NewMaintainer(db, cfg).Reset(ctx))

	users, err = NewUserRepository(db).List(ctx, repository.UserFilter{})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "admin", users[0].Username)
}
