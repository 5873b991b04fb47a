package usecase

import (
	"context"

	"sharegarden/internal/domain/entity"
	"sharegarden/internal/domain/service"
)

// ListUsersInput filters the admin user listing.
type ListUsersInput struct {
	Status  string
	Keyword string
}

// ReviewAction is the verdict on a pending registration.
type ReviewAction string

const (
	ReviewApprove ReviewAction = "approve"
	ReviewReject  ReviewAction = "reject"
)

// AdminUsecase defines the moderation operations. All callers are
// already admin-gated by the delivery layer; the rules enforced here are
// the ones that depend on who the actor is (no self-demotion, no
// self-deletion) or on special privilege (database reset).
type AdminUsecase interface {
	ListUsers(ctx context.Context, input ListUsersInput) ([]*entity.User, error)
	ReviewUser(ctx context.Context, id uint, action ReviewAction) (*entity.User, error)
	PromoteUser(ctx context.Context, id uint) (*entity.User, error)
	DemoteUser(ctx context.Context, actor *service.Principal, id uint) (*entity.User, error)
	DeleteUser(ctx context.Context, actor *service.Principal, id uint) error
	// ResetDatabase restores the freshly seeded state and wipes uploads.
	// Only the built-in superuser account may call it.
	ResetDatabase(ctx context.Context, actor *service.Principal) error
}
