package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/grievance-service/internal/api/dto"
	apperrors "github.com/spec-kit/grievance-service/pkg/util/errorutil"
)

// Uploader stores an attachment and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, userID, filename, contentType string, size int64, body io.Reader) (string, error)
}

// AttachmentsHandler accepts grievance file uploads.
type AttachmentsHandler struct {
	store Uploader
}

// NewAttachmentsHandler constructs handler.
func NewAttachmentsHandler(store Uploader) *AttachmentsHandler {
	return &AttachmentsHandler{store: store}
}

// Upload POST /grievances/attachments (multipart field "file").
func (h *AttachmentsHandler) Upload(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	header, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("file required", nil)
	}
	file, err := header.Open()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	defer file.Close()

	url, err := h.store.Upload(c.UserContext(), principal.Profile.ID, header.Filename,
		header.Header.Get(fiber.HeaderContentType), header.Size, file)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.AttachmentResponse{FileURL: url}})
}
