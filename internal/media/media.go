// Package media validates uploaded images before they reach storage.
package media

import (
	"fmt"
	"io"

	apperrors "burst-backend/internal/errors"

	"github.com/gabriel-vasile/mimetype"
)

// MaxImageSize is the largest accepted image, 5 MiB
const MaxImageSize int64 = 5 << 20

// allowedImageTypes maps accepted MIME types to the extension used for storage keys
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Image is an uploaded image whose type was detected from its content
type Image struct {
	Data        []byte
	ContentType string
	Extension   string
}

// Size returns the image size in bytes
func (i *Image) Size() int64 {
	return int64(len(i.Data))
}

// ValidateImage checks a content type and size against the accepted image constraints
func ValidateImage(field, contentType string, size int64) error {
	if _, ok := allowedImageTypes[contentType]; !ok {
		return apperrors.NewValidationError(field, fmt.Sprintf("unsupported image format %q: use JPEG, PNG, GIF or WebP", contentType))
	}
	if size > MaxImageSize {
		return apperrors.NewValidationError(field, fmt.Sprintf("image is %d bytes, the limit is %d", size, MaxImageSize))
	}
	return nil
}

// ReadImage reads at most MaxImageSize+1 bytes from r, sniffs the format and validates it.
// The declared client content type is ignored.
func ReadImage(field string, r io.Reader) (*Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, apperrors.NewValidationError(field, "empty file")
	}

	contentType := mimetype.Detect(data).String()
	if err := ValidateImage(field, contentType, int64(len(data))); err != nil {
		return nil, err
	}

	return &Image{
		Data:        data,
		ContentType: contentType,
		Extension:   allowedImageTypes[contentType],
	}, nil
}
