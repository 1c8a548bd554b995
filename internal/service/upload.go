package service

import (
	"strings"

	"github.com/spec-kit/bug-tracker/internal/domain"
	apperrors "github.com/spec-kit/bug-tracker/pkg/util"
)

// ValidateImage checks an optional uploaded blob: images only, capped size.
func ValidateImage(blob *domain.ImageBlob) error {
	if blob == nil {
		return nil
	}
	if !strings.HasPrefix(blob.MimeType, "image/") {
		return apperrors.NewValidationError("only image uploads are allowed", map[string]any{
			"mime_type": blob.MimeType,
		})
	}
	if blob.SizeBytes > domain.MaxImageBytes {
		return apperrors.NewValidationError("image exceeds maximum size", map[string]any{
			"size_bytes": blob.SizeBytes,
			"max_bytes":  domain.MaxImageBytes,
		})
	}
	return nil
}
