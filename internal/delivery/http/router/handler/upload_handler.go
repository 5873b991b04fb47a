package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"sharegarden/internal/delivery/http/response"
	domainerrors "sharegarden/internal/domain/errors"
	"sharegarden/internal/domain/service"
)

// maxUploadBytes caps a single uploaded image.
const maxUploadBytes = 8 << 20

// UploadHandler stores user-submitted images.
type UploadHandler struct {
	store  service.UploadStore
	logger *slog.Logger
}

// NewUploadHandler is the constructor for UploadHandler, injected by Fx.
func NewUploadHandler(store service.UploadStore, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{store: store, logger: logger}
}

// Upload accepts one multipart file under the "file" field and returns
// the public path it was stored at.
func (h *UploadHandler) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return domainerrors.ErrValidation.WithDetails("multipart field 'file' is required")
	}
	if fileHeader.Size > maxUploadBytes {
		return domainerrors.ErrValidation.WithDetails("file exceeds the upload size limit")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return errors.Wrap(err, "open uploaded file")
	}
	defer src.Close()

	path, err := h.store.Save(c.Request().Context(), fileHeader.Filename, src)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, map[string]string{"path": path}, "File uploaded")
}
