// Package impl contains the implementation of the application's business logic.
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

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
}

// AccountServiceParams holds dependencies for accountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewAccountService is the constructor for accountService.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

// Register creates a new account in the pending state. The account cannot
// log in until an admin approves it.
func (s *accountService) Register(ctx context.Context, input usecase.RegisterInput) (*entity.User, error) {
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	user := &entity.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Address:      input.Address,
		Phone:        input.Phone,
		Role:         entity.RoleUser,
		Status:       entity.StatusPending,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, domainerrors.ErrConflict
		}

		return nil, errors.Wrap(err, "create user")
	}

	s.logger.Info("account registered, awaiting approval",
		slog.Uint64("userID", uint64(user.ID)),
		slog.String("username", user.Username))

	return user, nil
}

// Login verifies the credentials against either the username or the email
// address. Credential failures and unknown accounts are indistinguishable
// to the caller.
func (s *accountService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.TokenOutput, error) {
	user, err := s.userRepo.FindByLogin(ctx, input.Login)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, errors.Wrap(err, "find user for login")
	}

	if !s.hasher.Check(input.Password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	if !user.IsApproved() {
		return nil, domainerrors.ErrNotApproved
	}

	return s.issueTokens(user)
}

// Refresh re-issues a token pair. The account is re-read so the new access
// token carries the current role, not the one captured at login.
func (s *accountService) Refresh(ctx context.Context, userID uint) (*usecase.TokenOutput, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrNotFound
		}

		return nil, errors.Wrap(err, "find user for refresh")
	}

	return s.issueTokens(user)
}

func (s *accountService) issueTokens(user *entity.User) (*usecase.TokenOutput, error) {
	access, err := s.tokenService.IssueAccessToken(user)
	if err != nil {
		return nil, errors.Wrap(err, "issue access token")
	}
	refresh, err := s.tokenService.IssueRefreshToken(user)
	if err != nil {
		return nil, errors.Wrap(err, "issue refresh token")
	}

	return &usecase.TokenOutput{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         user,
	}, nil
}

// Profile returns the target account, readable by the account itself or
// any admin.
func (s *accountService) Profile(ctx context.Context, actor *service.Principal, targetID uint) (*entity.User, error) {
	if actor.UserID != targetID && !actor.IsAdmin() {
		return nil, domainerrors.ErrForbidden
	}

	user, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrNotFound
		}

		return nil, errors.Wrap(err, "find user profile")
	}

	return user, nil
}

// UpdateProfile applies the supplied fields to the actor's own account.
// Admins cannot edit other users' profiles; they can only moderate them.
func (s *accountService) UpdateProfile(ctx context.Context, actor *service.Principal, targetID uint, input usecase.UpdateProfileInput) (*entity.User, error) {
	if actor.UserID != targetID {
		return nil, domainerrors.ErrForbidden
	}

	var updated *entity.User
	err := s.txManager.Execute(ctx, func(f repository.RepositoryFactory) error {
		user, err := f.UserRepo().FindByID(ctx, targetID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrNotFound
			}

			return errors.Wrap(err, "find user for update")
		}

		if input.Email != nil {
			user.Email = *input.Email
		}
		if input.Address != nil {
			user.Address = *input.Address
		}
		if input.Phone != nil {
			user.Phone = *input.Phone
		}
		if input.Password != nil {
			hash, err := s.hasher.Hash(*input.Password)
			if err != nil {
				return errors.Wrap(err, "hash new password")
			}
			user.PasswordHash = hash
		}

		if err := f.UserRepo().Update(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicateUser) {
				return domainerrors.ErrConflict
			}

			return errors.Wrap(err, "update user")
		}

		updated = user

		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteAccount removes the account together with every item it owns, in
// one transaction. The account itself or an admin may delete it.
func (s *accountService) DeleteAccount(ctx context.Context, actor *service.Principal, targetID uint) error {
	if actor.UserID != targetID && !actor.IsAdmin() {
		return domainerrors.ErrForbidden
	}

	return s.txManager.Execute(ctx, func(f repository.RepositoryFactory) error {
		if err := f.ItemRepo().DeleteByOwner(ctx, targetID); err != nil {
			return errors.Wrap(err, "delete owned items")
		}

		if err := f.UserRepo().Delete(ctx, targetID); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrNotFound
			}

			return errors.Wrap(err, "delete user")
		}

		s.logger.Info("account deleted",
			slog.Uint64("userID", uint64(targetID)),
			slog.Uint64("actorID", uint64(actor.UserID)))

		return nil
	})
}
