package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	deliverycontext "sharegarden/internal/delivery/context"
	"sharegarden/internal/delivery/http/response"
	"sharegarden/internal/usecase"
)

// AdminHandler holds dependencies for the moderation handlers. Every
// route using it sits behind the RequireAdmin middleware.
type AdminHandler struct {
	uc     usecase.AdminUsecase
	logger *slog.Logger
}

// NewAdminHandler is the constructor for AdminHandler, injected by Fx.
func NewAdminHandler(uc usecase.AdminUsecase, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{uc: uc, logger: logger}
}

// ListUsers returns accounts filtered by status and keyword.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.uc.ListUsers(c.Request().Context(), usecase.ListUsersInput{
		Status:  c.QueryParam("status"),
		Keyword: c.QueryParam("keyword"),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserListJSON(users), "")
}

type reviewRequest struct {
	Action string `json:"action" validate:"required,oneof=approve reject"`
}

// ReviewUser approves or rejects a registration.
func (h *AdminHandler) ReviewUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req reviewRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid review input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.uc.ReviewUser(c.Request().Context(), id, usecase.ReviewAction(req.Action))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserJSON(user), "Registration reviewed")
}

// PromoteUser grants the admin role.
func (h *AdminHandler) PromoteUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	user, err := h.uc.PromoteUser(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserJSON(user), "User promoted")
}

// DemoteUser strips the admin role from another admin.
func (h *AdminHandler) DemoteUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	user, err := h.uc.DemoteUser(c.Request().Context(), deliverycontext.GetPrincipal(c), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserJSON(user), "User demoted")
}

// DeleteUser removes another account and everything it listed.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.uc.DeleteUser(c.Request().Context(), deliverycontext.GetPrincipal(c), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "User deleted")
}

// ResetDatabase restores the freshly seeded state. Superuser only; the
// usecase enforces that beyond the admin gate.
func (h *AdminHandler) ResetDatabase(c echo.Context) error {
	if err := h.uc.ResetDatabase(c.Request().Context(), deliverycontext.GetPrincipal(c)); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Database reset")
}
