package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	glebarez "github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"sharegarden/config"
	"sharegarden/internal/domain/entity"
	"sharegarden/internal/domain/repository"
	"sharegarden/internal/domain/service"
	"sharegarden/internal/infra/auth"
	"sharegarden/internal/infra/persistence/sqlite"
	"sharegarden/internal/usecase"
)

// fixture wires the services against a real in-memory store so the tests
// exercise the same SQL paths production uses.
type fixture struct {
	db       *gorm.DB
	accounts usecase.AccountUsecase
	items    usecase.ItemUsecase
	types    usecase.ItemTypeUsecase
	admin    usecase.AdminUsecase
	uploads  *fakeUploadStore
	hasher   service.PasswordHasher
	tokens   service.TokenService
}

type fakeUploadStore struct {
	wiped int
}

func (f *fakeUploadStore) Save(_ context.Context, filename string, _ io.Reader) (string, error) {
	return "/uploads/" + filename, nil
}

func (f *fakeUploadStore) Wipe(context.Context) error {
	f.wiped++

	return nil
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(glebarez.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// An in-memory database exists per connection; keep the pool at one.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, sqlite.Migrate(db))

	cfg := &config.Config{}
	cfg.SecretKey.Access = "test-access-secret"
	cfg.SecretKey.Refresh = "test-refresh-secret"
	cfg.Auth = &config.AuthConfig{
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
	}
	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hasher := auth.NewBcryptHasherWithCost(bcrypt.MinCost)
	txManager := sqlite.NewTransactionManager(db)
	userRepo := sqlite.NewUserRepository(db)
	uploads := &fakeUploadStore{}

	return &fixture{
		db: db,
		accounts: NewAccountService(AccountServiceParams{
			TxManager:    txManager,
			UserRepo:     userRepo,
			Hasher:       hasher,
			TokenService: tokens,
			Logger:       logger,
		}),
		items: NewItemService(ItemServiceParams{
			TxManager: txManager,
			ItemRepo:  sqlite.NewItemRepository(db),
			Logger:    logger,
		}),
		types: NewItemTypeService(ItemTypeServiceParams{
			TxManager:    txManager,
			ItemTypeRepo: sqlite.NewItemTypeRepository(db),
			Logger:       logger,
		}),
		admin: NewAdminService(AdminServiceParams{
			TxManager:  txManager,
			UserRepo:   userRepo,
			Maintainer: sqlite.NewMaintainer(db, cfg),
			Uploads:    uploads,
			Logger:     logger,
		}),
		uploads: uploads,
		hasher:  hasher,
		tokens:  tokens,
	}
}

// addUser inserts a user directly, bypassing registration, so tests can
// control role and status.
func (f *fixture) addUser(t *testing.T, username string, role entity.Role, status entity.UserStatus) *entity.User {
	t.Helper()

	hash, err := f.hasher.Hash("secret123")
	require.NoError(t, err)

	user := &entity.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		Address:      "1 Green Lane",
		Phone:        "555-0100",
		Role:         role,
		Status:       status,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, sqlite.NewUserRepository(f.db).Create(context.Background(), user))

	return user
}

func (f *fixture) addType(t *testing.T, name string) *entity.ItemType {
	t.Helper()

	itemType, err := f.types.CreateType(context.Background(), usecase.ItemTypeInput{
		Name: name,
		Attributes: []entity.AttributeField{
			{Key: "author", Label: "作者", Type: "text"},
		},
	})
	require.NoError(t, err)

	return itemType
}

func principalOf(user *entity.User) *service.Principal {
	return &service.Principal{UserID: user.ID, Role: user.Role, Username: user.Username}
}

func countItems(t *testing.T, f *fixture, ownerID uint) int {
	t.Helper()

	items, err := sqlite.NewItemRepository(f.db).List(context.Background(), repository.ItemFilter{OwnerID: &ownerID})
	require.NoError(t, err)

	return len(items)
}
