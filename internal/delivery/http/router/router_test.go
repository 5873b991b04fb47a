package router

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	glebarez "github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"sharegarden/config"
	"sharegarden/internal/delivery/http/middleware"
	"sharegarden/internal/delivery/http/router/handler"
	"sharegarden/internal/delivery/http/validator"
	"sharegarden/internal/infra/auth"
	"sharegarden/internal/infra/persistence/sqlite"
	"sharegarden/internal/lifecycle"
	"sharegarden/internal/usecase/impl"
)

type nullUploadStore struct{}

func (nullUploadStore) Save(_ context.Context, filename string, _ io.Reader) (string, error) {
	return "/uploads/" + filename, nil
}

func (nullUploadStore) Wipe(context.Context) error { return nil }

type api struct {
	echo       *echo.Echo
	supervisor *lifecycle.Supervisor
}

// newAPI assembles the full request path against an in-memory seeded
// store, exactly as the composition root wires it minus the listener.
func newAPI(t *testing.T) *api {
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
		BcryptCost:      bcrypt.MinCost,
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
	}
	cfg.Supervisor = &config.SupervisorConfig{
		TickInterval: time.Second,
		StartupGrace: time.Minute,
		SoftWindow:   20 * time.Second,
		HardTimeout:  5 * time.Minute,
	}
	require.NoError(t, sqlite.Seed(db, cfg))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)
	hasher := auth.NewBcryptHasher(cfg)
	txManager := sqlite.NewTransactionManager(db)
	userRepo := sqlite.NewUserRepository(db)

	accounts := impl.NewAccountService(impl.AccountServiceParams{
		TxManager: txManager, UserRepo: userRepo,
		Hasher: hasher, TokenService: tokens, Logger: logger,
	})
	items := impl.NewItemService(impl.ItemServiceParams{
		TxManager: txManager, ItemRepo: sqlite.NewItemRepository(db), Logger: logger,
	})
	types := impl.NewItemTypeService(impl.ItemTypeServiceParams{
		TxManager: txManager, ItemTypeRepo: sqlite.NewItemTypeRepository(db), Logger: logger,
	})
	admin := impl.NewAdminService(impl.AdminServiceParams{
		TxManager: txManager, UserRepo: userRepo,
		Maintainer: sqlite.NewMaintainer(db, cfg),
		Uploads:    nullUploadStore{}, Logger: logger,
	})

	authMw := middleware.NewAuthMiddleware(tokens)
	supervisor := lifecycle.NewSupervisor(cfg)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(logger).HandleHTTPError

	NewRouter(RouterParams{
		AccountHandler:  handler.NewAccountHandler(accounts, authMw, logger),
		ItemHandler:     handler.NewItemHandler(items, logger),
		ItemTypeHandler: handler.NewItemTypeHandler(types, logger),
		AdminHandler:    handler.NewAdminHandler(admin, logger),
		UploadHandler:   handler.NewUploadHandler(nullUploadStore{}, logger),
		SystemHandler:   handler.NewSystemHandler(supervisor),
		AuthMiddleware:  authMw,
	}).RegisterRoutes(e)

	return &api{echo: e, supervisor: supervisor}
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Details string `json:"details"`
	} `json:"error"`
}

func (a *api) do(t *testing.T, method, path, token, body string) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.echo.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}

	return rec.Code, env
}

// login returns the token pair for seeded or registered accounts.
func (a *api) login(t *testing.T, username, password string) (access, refresh string) {
	t.Helper()

	code, env := a.do(t, http.MethodPost, "/login", "",
		`{"username":`+strconv.Quote(username)+`,"password":`+strconv.Quote(password)+`}`)
	require.Equal(t, http.StatusOK, code, "login failed: %s", env.Message)

	var out struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))

	return out.AccessToken, out.RefreshToken
}

// registerAndApprove walks a fresh account through the admin approval
// flow and returns its access token.
func (a *api) registerAndApprove(t *testing.T, username string) string {
	t.Helper()

	code, env := a.do(t, http.MethodPost, "/register", "",
		`{"username":`+strconv.Quote(username)+`,"email":"`+username+`@example.com","password":"secret123"}`)
	require.Equal(t, http.StatusCreated, code)

	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	adminAccess, _ := a.login(t, "admin", "admin123")
	code, _ = a.do(t, http.MethodPost, "/admin/approve/"+strconv.Itoa(int(created.ID)), adminAccess,
		`{"action":"approve"}`)
	require.Equal(t, http.StatusOK, code)

	access, _ := a.login(t, username, "secret123")

	return access
}

func TestRegistrationApprovalFlow(t *testing.T) {
	a := newAPI(t)

	code, env := a.do(t, http.MethodPost, "/register", "",
		`{"username":"willow","email":"willow@example.com","password":"secret123"}`)
	require.Equal(t, http.StatusCreated, code)
	assert.True(t, env.Success)

	// Pending accounts cannot log in yet.
	code, env = a.do(t, http.MethodPost, "/login", "",
		`{"username":"willow","password":"secret123"}`)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "ACCOUNT_NOT_APPROVED", env.Error.Code)

	a.registerAndApprove(t, "rowan")
}

func TestRegisterValidationAndDuplicates(t *testing.T) {
	a := newAPI(t)

	code, env := a.do(t, http.MethodPost, "/register", "",
		`{"username":"willow","email":"not-an-email","password":"secret123"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)

	code, _ = a.do(t, http.MethodPost, "/register", "",
		`{"username":"willow","email":"willow@example.com","password":"secret123"}`)
	require.Equal(t, http.StatusCreated, code)

	// The seeded admin's name is taken too.
	code, env = a.do(t, http.MethodPost, "/register", "",
		`{"username":"admin","email":"second@example.com","password":"secret123"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	// A fresh username cannot reuse a registered email.
	code, env = a.do(t, http.MethodPost, "/register", "",
		`{"username":"aspen","email":"willow@example.com","password":"secret123"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	// The conflict created nothing, so the name is still free.
	code, _ = a.do(t, http.MethodPost, "/register", "",
		`{"username":"aspen","email":"aspen@example.com","password":"secret123"}`)
	require.Equal(t, http.StatusCreated, code)
}

func TestRefreshTokenFlow(t *testing.T) {
	a := newAPI(t)

	access, refresh := a.login(t, "admin", "admin123")

	// The refresh endpoint takes the refresh token, not the access token.
	code, env := a.do(t, http.MethodPost, "/refresh", access, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "TOKEN_INVALID", env.Error.Code)

	code, env = a.do(t, http.MethodPost, "/refresh", refresh, "")
	require.Equal(t, http.StatusOK, code)
	var out struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.NotEmpty(t, out.AccessToken)
}

func TestItemTypeAdministration(t *testing.T) {
	a := newAPI(t)

	// Browsing types is public and includes the seeded starters.
	code, env := a.do(t, http.MethodGet, "/types", "", "")
	require.Equal(t, http.StatusOK, code)
	var types []struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &types))
	assert.Len(t, types, 2)

	// Creating one requires the admin role.
	userAccess := a.registerAndApprove(t, "willow")
	code, _ = a.do(t, http.MethodPost, "/types", userAccess, `{"name":"工具"}`)
	assert.Equal(t, http.StatusForbidden, code)

	adminAccess, _ := a.login(t, "admin", "admin123")
	code, env = a.do(t, http.MethodPost, "/types", adminAccess,
		`{"name":"工具","attributes":[{"key":"brand","label":"品牌","type":"text"}]}`)
	require.Equal(t, http.StatusCreated, code)

	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	// Duplicate names conflict.
	code, env = a.do(t, http.MethodPost, "/types", adminAccess, `{"name":"工具"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	// Unused types can be deleted.
	code, _ = a.do(t, http.MethodDelete, "/types/"+strconv.Itoa(int(created.ID)), adminAccess, "")
	assert.Equal(t, http.StatusOK, code)
}

func TestItemLifecycleOverHTTP(t *testing.T) {
	a := newAPI(t)

	ownerAccess := a.registerAndApprove(t, "willow")
	strangerAccess := a.registerAndApprove(t, "mallory")

	code, env := a.do(t, http.MethodGet, "/types", "", "")
	require.Equal(t, http.StatusOK, code)
	var types []struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &types))

	// Creating an item requires authentication.
	code, _ = a.do(t, http.MethodPost, "/items", "", `{"type_id":1,"name":"Dune"}`)
	assert.Equal(t, http.StatusUnauthorized, code)

	body := `{"type_id":` + strconv.Itoa(int(types[0].ID)) + `,"name":"Dune","attributes":{"author":"Frank Herbert"}}`
	code, env = a.do(t, http.MethodPost, "/items", ownerAccess, body)
	require.Equal(t, http.StatusCreated, code)

	var item struct {
		ID         uint           `json:"id"`
		Status     string         `json:"status"`
		Attributes map[string]any `json:"attributes"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &item))
	assert.Equal(t, "available", item.Status)
	assert.Equal(t, "Frank Herbert", item.Attributes["author"])

	itemPath := "/items/" + strconv.Itoa(int(item.ID))

	// Listing is public and embeds the owner and type names.
	code, env = a.do(t, http.MethodGet, "/items", "", "")
	require.Equal(t, http.StatusOK, code)
	var listed []struct {
		OwnerUsername string `json:"owner_username"`
		TypeName      string `json:"type_name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "willow", listed[0].OwnerUsername)
	assert.NotEmpty(t, listed[0].TypeName)

	// A stranger cannot edit someone else's listing.
	code, _ = a.do(t, http.MethodPut, itemPath, strangerAccess, `{"status":"taken"}`)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = a.do(t, http.MethodPut, itemPath, ownerAccess, `{"status":"taken"}`)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &item))
	assert.Equal(t, "taken", item.Status)

	code, _ = a.do(t, http.MethodDelete, itemPath, ownerAccess, "")
	assert.Equal(t, http.StatusOK, code)

	code, _ = a.do(t, http.MethodGet, itemPath, "", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAdminUserModeration(t *testing.T) {
	a := newAPI(t)

	a.registerAndApprove(t, "willow")
	adminAccess, _ := a.login(t, "admin", "admin123")

	code, env := a.do(t, http.MethodGet, "/admin/users?keyword=willow", adminAccess, "")
	require.Equal(t, http.StatusOK, code)
	var users []struct {
		ID   uint   `json:"id"`
		Role string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &users))
	require.Len(t, users, 1)
	target := users[0].ID

	targetPath := strconv.Itoa(int(target))
	code, env = a.do(t, http.MethodPost, "/admin/promote/"+targetPath, adminAccess, "")
	require.Equal(t, http.StatusOK, code)

	code, env = a.do(t, http.MethodPost, "/admin/promote/"+targetPath, adminAccess, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	code, _ = a.do(t, http.MethodPost, "/admin/demote/"+targetPath, adminAccess, "")
	assert.Equal(t, http.StatusOK, code)

	code, _ = a.do(t, http.MethodDelete, "/admin/users/"+targetPath, adminAccess, "")
	assert.Equal(t, http.StatusOK, code)

	// Admins cannot delete themselves through moderation.
	code, env = a.do(t, http.MethodGet, "/admin/users?keyword=admin", adminAccess, "")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &users))
	require.Len(t, users, 1)
	code, _ = a.do(t, http.MethodDelete, "/admin/users/"+strconv.Itoa(int(users[0].ID)), adminAccess, "")
	assert.Equal(t, http.StatusForbidden, code)
}

func TestResetDatabaseRequiresSuperuser(t *testing.T) {
	a := newAPI(t)

	// Promote a regular user to admin; they still cannot reset.
	a.registerAndApprove(t, "deputy")
	adminAccess, _ := a.login(t, "admin", "admin123")

	code, env := a.do(t, http.MethodGet, "/admin/users?keyword=deputy", adminAccess, "")
	require.Equal(t, http.StatusOK, code)
	var users []struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &users))
	code, _ = a.do(t, http.MethodPost, "/admin/promote/"+strconv.Itoa(int(users[0].ID)), adminAccess, "")
	require.Equal(t, http.StatusOK, code)

	deputyAccess, _ := a.login(t, "deputy", "secret123")
	code, _ = a.do(t, http.MethodPost, "/admin/reset-db", deputyAccess, "")
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = a.do(t, http.MethodPost, "/admin/reset-db", adminAccess, "")
	assert.Equal(t, http.StatusOK, code)

	// Everything but the seed is gone.
	code, env = a.do(t, http.MethodGet, "/admin/users", adminAccess, "")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &users))
	assert.Len(t, users, 1)
}

func TestLivenessEndpoints(t *testing.T) {
	a := newAPI(t)

	code, _ := a.do(t, http.MethodPost, "/heartbeat", "", "")
	assert.Equal(t, http.StatusNoContent, code)
	assert.Equal(t, lifecycle.StateRunning, a.supervisor.State())

	code, _ = a.do(t, http.MethodPost, "/shutdown", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, lifecycle.StateShutdownPending, a.supervisor.State())

	// A reload's heartbeat cancels the pending shutdown.
	code, _ = a.do(t, http.MethodPost, "/heartbeat", "", "")
	assert.Equal(t, http.StatusNoContent, code)
	assert.Equal(t, lifecycle.StateRunning, a.supervisor.State())

	code, env := a.do(t, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, code)
	var health map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &health))
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "running", health["liveness"])
}

func TestProfileAccessControl(t *testing.T) {
	a := newAPI(t)

	a.registerAndApprove(t, "willow")
	willowAccess, _ := a.login(t, "willow", "secret123")
	strangerAccess := a.registerAndApprove(t, "mallory")
	adminAccess, _ := a.login(t, "admin", "admin123")

	code, env := a.do(t, http.MethodGet, "/admin/users?keyword=willow", adminAccess, "")
	require.Equal(t, http.StatusOK, code)
	var users []struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &users))
	willowPath := "/users/" + strconv.Itoa(int(users[0].ID))

	code, _ = a.do(t, http.MethodGet, willowPath, willowAccess, "")
	assert.Equal(t, http.StatusOK, code)
	code, _ = a.do(t, http.MethodGet, willowPath, adminAccess, "")
	assert.Equal(t, http.StatusOK, code)
	code, _ = a.do(t, http.MethodGet, willowPath, strangerAccess, "")
	assert.Equal(t, http.StatusForbidden, code)

	// Partial profile update touches only the supplied field.
	code, env = a.do(t, http.MethodPut, willowPath, willowAccess, `{"phone":"555-0123"}`)
	require.Equal(t, http.StatusOK, code)
	var profile struct {
		Phone string `json:"phone"`
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "555-0123", profile.Phone)
	assert.Equal(t, "willow@example.com", profile.Email)
}
