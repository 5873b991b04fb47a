package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"sharegarden/internal/delivery/http/response"
	"sharegarden/internal/domain/entity"
	"sharegarden/internal/usecase"
)

// ItemTypeHandler holds dependencies for the category handlers.
type ItemTypeHandler struct {
	uc     usecase.ItemTypeUsecase
	logger *slog.Logger
}

// NewItemTypeHandler is the constructor for ItemTypeHandler, injected by Fx.
func NewItemTypeHandler(uc usecase.ItemTypeUsecase, logger *slog.Logger) *ItemTypeHandler {
	return &ItemTypeHandler{uc: uc, logger: logger}
}

// ListTypes returns every category with its attribute schema. Public.
func (h *ItemTypeHandler) ListTypes(c echo.Context) error {
	types, err := h.uc.ListTypes(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toItemTypeListJSON(types), "")
}

type attributeFieldRequest struct {
	Key   string `json:"key" validate:"required"`
	Label string `json:"label"`
	Type  string `json:"type" validate:"required"`
}

func toAttributeFields(reqs []attributeFieldRequest) []entity.AttributeField {
	if reqs == nil {
		return nil
	}

	fields := make([]entity.AttributeField, 0, len(reqs))
	for _, r := range reqs {
		fields = append(fields, entity.AttributeField{Key: r.Key, Label: r.Label, Type: r.Type})
	}

	return fields
}

type itemTypeRequest struct {
	Name       string                  `json:"name" validate:"required,max=64"`
	Attributes []attributeFieldRequest `json:"attributes" validate:"omitempty,dive"`
}

// CreateType adds a new category. Admin only.
func (h *ItemTypeHandler) CreateType(c echo.Context) error {
	var req itemTypeRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid item type input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	itemType, err := h.uc.CreateType(c.Request().Context(), usecase.ItemTypeInput{
		Name:       req.Name,
		Attributes: toAttributeFields(req.Attributes),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toItemTypeJSON(itemType), "Item type created")
}

type updateItemTypeRequest struct {
	Name       string                  `json:"name" validate:"omitempty,max=64"`
	Attributes []attributeFieldRequest `json:"attributes" validate:"omitempty,dive"`
}

// UpdateType renames a category or replaces its schema. Admin only.
func (h *ItemTypeHandler) UpdateType(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateItemTypeRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid item type input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	itemType, err := h.uc.UpdateType(c.Request().Context(), id, usecase.ItemTypeInput{
		Name:       req.Name,
		Attributes: toAttributeFields(req.Attributes),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toItemTypeJSON(itemType), "Item type updated")
}

// DeleteType removes a category with no remaining items. Admin only.
func (h *ItemTypeHandler) DeleteType(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.uc.DeleteType(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Item type deleted")
}
