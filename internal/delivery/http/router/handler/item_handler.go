package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	deliverycontext "sharegarden/internal/delivery/context"
	"sharegarden/internal/delivery/http/response"
	domainerrors "sharegarden/internal/domain/errors"
	"sharegarden/internal/usecase"
)

// ItemHandler holds dependencies for listing-related handlers.
type ItemHandler struct {
	uc     usecase.ItemUsecase
	logger *slog.Logger
}

// NewItemHandler is the constructor for ItemHandler, injected by Fx.
func NewItemHandler(uc usecase.ItemUsecase, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{uc: uc, logger: logger}
}

// ListItems returns listings newest first, optionally filtered by
// type_id, owner_id, status and keyword. Public.
func (h *ItemHandler) ListItems(c echo.Context) error {
	input := usecase.ListItemsInput{
		Status:  c.QueryParam("status"),
		Keyword: c.QueryParam("keyword"),
	}

	typeID, err := queryID(c, "type_id")
	if err != nil {
		return err
	}
	input.TypeID = typeID

	ownerID, err := queryID(c, "owner_id")
	if err != nil {
		return err
	}
	input.OwnerID = ownerID

	items, err := h.uc.ListItems(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toItemListJSON(items), "")
}

// GetItem returns one listing. Public.
func (h *ItemHandler) GetItem(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	item, err := h.uc.GetItem(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toItemJSON(item), "")
}

type createItemRequest struct {
	TypeID      uint           `json:"type_id" validate:"required"`
	Name        string         `json:"name" validate:"required,max=128"`
	Description string         `json:"description"`
	Address     string         `json:"address"`
	Phone       string         `json:"phone"`
	Email       string         `json:"email" validate:"omitempty,email"`
	Image       string         `json:"image"`
	Attributes  map[string]any `json:"attributes"`
}

// CreateItem publishes a new listing owned by the caller.
func (h *ItemHandler) CreateItem(c echo.Context) error {
	var req createItemRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid item input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	item, err := h.uc.CreateItem(c.Request().Context(), deliverycontext.GetPrincipal(c), usecase.CreateItemInput{
		TypeID:      req.TypeID,
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Phone:       req.Phone,
		Email:       req.Email,
		Image:       req.Image,
		Attributes:  req.Attributes,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toItemJSON(item), "Item listed")
}

type updateItemRequest struct {
	Name        *string        `json:"name" validate:"omitempty,max=128"`
	Description *string        `json:"description"`
	Address     *string        `json:"address"`
	Phone       *string        `json:"phone"`
	Email       *string        `json:"email" validate:"omitempty,email"`
	Image       *string        `json:"image"`
	Status      *string        `json:"status"`
	Attributes  map[string]any `json:"attributes"`
}

// UpdateItem applies the present fields to a listing, owner-or-admin gated.
func (h *ItemHandler) UpdateItem(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateItemRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid item input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	item, err := h.uc.UpdateItem(c.Request().Context(), deliverycontext.GetPrincipal(c), id, usecase.UpdateItemInput{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Phone:       req.Phone,
		Email:       req.Email,
		Image:       req.Image,
		Status:      req.Status,
		Attributes:  req.Attributes,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toItemJSON(item), "Item updated")
}

// DeleteItem removes a listing, owner-or-admin gated.
func (h *ItemHandler) DeleteItem(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.uc.DeleteItem(c.Request().Context(), deliverycontext.GetPrincipal(c), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Item deleted")
}

// queryID parses an optional numeric query parameter.
func queryID(c echo.Context, name string) (*uint, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, domainerrors.ErrValidation.WithDetails(name + " must be a positive integer")
	}

	parsed := uint(id)

	return &parsed, nil
}
