package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	deliverycontext "sharegarden/internal/delivery/context"
	"sharegarden/internal/delivery/http/middleware"
	"sharegarden/internal/delivery/http/response"
	domainerrors "sharegarden/internal/domain/errors"
	"sharegarden/internal/usecase"
)

// AccountHandler holds dependencies for account-related handlers.
type AccountHandler struct {
	uc     usecase.AccountUsecase
	auth   *middleware.AuthMiddleware
	logger *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(uc usecase.AccountUsecase, auth *middleware.AuthMiddleware, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{uc: uc, auth: auth, logger: logger}
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=2,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
}

// Register handles the account registration request.
func (h *AccountHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid registration input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.uc.Register(c.Request().Context(), usecase.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.Address,
		Phone:    req.Phone,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toUserJSON(user), "Registered, awaiting approval")
}

type loginRequest struct {
	// Username also accepts the account's email address.
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login handles the login request.
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	out, err := h.uc.Login(c.Request().Context(), usecase.LoginInput{
		Login:    req.Username,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, tokenJSON{
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
		User:         toUserJSON(out.User),
	}, "Login successful")
}

// Refresh exchanges a refresh token for a fresh token pair.
func (h *AccountHandler) Refresh(c echo.Context) error {
	userID, err := h.auth.RefreshSubject(c)
	if err != nil {
		return errors.WithStack(err)
	}

	out, err := h.uc.Refresh(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, tokenJSON{
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
		User:         toUserJSON(out.User),
	}, "Token refreshed")
}

// GetProfile returns the target account, self-or-admin gated.
func (h *AccountHandler) GetProfile(c echo.Context) error {
	targetID, err := pathID(c)
	if err != nil {
		return err
	}

	user, err := h.uc.Profile(c.Request().Context(), deliverycontext.GetPrincipal(c), targetID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserJSON(user), "")
}

type updateProfileRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
	Password *string `json:"password" validate:"omitempty,min=6"`
}

// UpdateProfile applies the supplied fields to the caller's own account.
func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	targetID, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid profile input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.uc.UpdateProfile(c.Request().Context(), deliverycontext.GetPrincipal(c), targetID,
		usecase.UpdateProfileInput{
			Email:    req.Email,
			Address:  req.Address,
			Phone:    req.Phone,
			Password: req.Password,
		})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserJSON(user), "Profile updated")
}

// DeleteAccount removes the target account, self-or-admin gated.
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	targetID, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.uc.DeleteAccount(c.Request().Context(), deliverycontext.GetPrincipal(c), targetID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Account deleted")
}

// pathID parses the numeric :id path parameter.
func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, domainerrors.ErrValidation.WithDetails("id must be a positive integer")
	}

	return uint(id), nil
}
