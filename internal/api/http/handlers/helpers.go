package handlers

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bug-tracker/internal/auth"
	"github.com/spec-kit/bug-tracker/internal/domain"
	apperrors "github.com/spec-kit/bug-tracker/pkg/util"
)

func requireActor(c *fiber.Ctx) (*domain.User, error) {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return actor, nil
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.Contains(c.Get(fiber.HeaderContentType), "multipart/form-data")
}

// parseImageFile reads an optional uploaded file into an ImageBlob. Returns
// nil when the field is absent; content validation happens in the service.
func parseImageFile(c *fiber.Ctx, field string) (*domain.ImageBlob, error) {
	if !isMultipart(c) {
		return nil, nil
	}
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, apperrors.NewValidationError("unreadable upload", map[string]any{"field": field})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, apperrors.NewValidationError("unreadable upload", map[string]any{"field": field})
	}
	return &domain.ImageBlob{
		Data:      data,
		MimeType:  fileHeader.Header.Get(fiber.HeaderContentType),
		SizeBytes: fileHeader.Size,
	}, nil
}

func parseIntQuery(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func paginationFromQuery(c *fiber.Ctx) (limit, offset int) {
	page := parseIntQuery(c.Query("page"), 1)
	pageSize := parseIntQuery(c.Query("page_size"), 20)
	return pageSize, (page - 1) * pageSize
}

// parseDeadline accepts RFC3339 timestamps.
func parseDeadline(val string) (*time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil, apperrors.NewValidationError("deadline must be RFC3339", map[string]any{"deadline": val})
	}
	return &parsed, nil
}
