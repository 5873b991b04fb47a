package impl

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"go.uber.org/fx"

	"sharegarden/internal/domain/entity"
	domainerrors "sharegarden/internal/domain/errors"
	"sharegarden/internal/domain/repository"
	"sharegarden/internal/domain/service"
	"sharegarden/internal/usecase"
)

// superuserName is the seeded account allowed to reset the database.
const superuserName = "admin"

// adminService implements the AdminUsecase interface.
type adminService struct {
	txManager  repository.TransactionManager
	userRepo   repository.UserRepository
	maintainer repository.Maintainer
	uploads    service.UploadStore
	logger     *slog.Logger
}

// AdminServiceParams holds dependencies for adminService, injected by Fx.
type AdminServiceParams struct {
	fx.In

	TxManager  repository.TransactionManager
	UserRepo   repository.UserRepository
	Maintainer repository.Maintainer
	Uploads    service.UploadStore
	Logger     *slog.Logger
}

// NewAdminService is the constructor for adminService.
func NewAdminService(params AdminServiceParams) usecase.AdminUsecase {
	return &adminService{
		txManager:  params.TxManager,
		userRepo:   params.UserRepo,
		maintainer: params.Maintainer,
		uploads:    params.Uploads,
		logger:     params.Logger,
	}
}

func (s *adminService) ListUsers(ctx context.Context, input usecase.ListUsersInput) ([]*entity.User, error) {
	if input.Status != "" && !entity.UserStatus(input.Status).IsValid() {
		return nil, domainerrors.ErrValidation.WithDetails("status must be pending, approved or rejected")
	}

	users, err := s.userRepo.List(ctx, repository.UserFilter{
		Status:  entity.UserStatus(input.Status),
		Keyword: input.Keyword,
	})
	if err != nil {
		return nil, errors.Wrap(err, "list users")
	}

	return users, nil
}

// ReviewUser settles a pending registration one way or the other. Already
// settled accounts can be re-reviewed; the last verdict wins.
func (s *adminService) ReviewUser(ctx context.Context, id uint, action usecase.ReviewAction) (*entity.User, error) {
	var status entity.UserStatus
	switch action {
	case usecase.ReviewApprove:
		status = entity.StatusApproved
	case usecase.ReviewReject:
		status = entity.StatusRejected
	default:
		return nil, domainerrors.ErrValidation.WithDetails("action must be approve or reject")
	}

	user, err := s.mutateUser(ctx, id, func(user *entity.User) error {
		user.Status = status

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("registration reviewed",
		slog.Uint64("userID", uint64(id)),
		slog.String("verdict", string(action)))

	return user, nil
}

func (s *adminService) PromoteUser(ctx context.Context, id uint) (*entity.User, error) {
	return s.mutateUser(ctx, id, func(user *entity.User) error {
		if user.IsAdmin() {
			return domainerrors.ErrConflict.WithDetails("user is already an admin")
		}
		user.Role = entity.RoleAdmin

		return nil
	})
}

// DemoteUser strips the admin role. Admins cannot demote themselves, so
// the system can never talk itself out of its last administrator.
func (s *adminService) DemoteUser(ctx context.Context, actor *service.Principal, id uint) (*entity.User, error) {
	if actor.UserID == id {
		return nil, domainerrors.ErrForbidden.WithDetails("cannot demote yourself")
	}

	return s.mutateUser(ctx, id, func(user *entity.User) error {
		user.Role = entity.RoleUser

		return nil
	})
}

// DeleteUser removes another account and everything it listed. Admins
// cannot delete themselves through the moderation endpoint.
func (s *adminService) DeleteUser(ctx context.Context, actor *service.Principal, id uint) error {
	if actor.UserID == id {
		return domainerrors.ErrForbidden.WithDetails("cannot delete yourself")
	}

	return s.txManager.Execute(ctx, func(f repository.RepositoryFactory) error {
		if err := f.ItemRepo().DeleteByOwner(ctx, id); err != nil {
			return errors.Wrap(err, "delete owned items")
		}

		if err := f.UserRepo().Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrNotFound
			}

			return errors.Wrap(err, "delete user")
		}

		s.logger.Info("user removed by admin",
			slog.Uint64("userID", uint64(id)),
			slog.Uint64("actorID", uint64(actor.UserID)))

		return nil
	})
}

// ResetDatabase restores the store to its freshly seeded state and wipes
// stored uploads. Only the seeded superuser account may do this; a merely
// promoted admin is not enough.
func (s *adminService) ResetDatabase(ctx context.Context, actor *service.Principal) error {
	if !actor.IsAdmin() || actor.Username != superuserName {
		return domainerrors.ErrForbidden.WithDetails("only the built-in admin may reset the database")
	}

	if err := s.maintainer.Reset(ctx); err != nil {
		return errors.Wrap(err, "reset store")
	}

	if err := s.uploads.Wipe(ctx); err != nil {
		// The store itself is already reset; report but do not fail.
		s.logger.Error("wipe uploads after reset", slog.Any("error", err))
	}

	s.logger.Warn("database reset", slog.String("actor", actor.Username))

	return nil
}

// mutateUser loads, mutates and saves one user inside a transaction.
func (s *adminService) mutateUser(ctx context.Context, id uint, mutate func(*entity.User) error) (*entity.User, error) {
	var updated *entity.User
	err := s.txManager.Execute(ctx, func(f repository.RepositoryFactory) error {
		user, err := f.UserRepo().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrNotFound
			}

			return errors.Wrap(err, "find user")
		}

		if err := mutate(user); err != nil {
			return err
		}

		if err := f.UserRepo().Update(ctx, user); err != nil {
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
