package handlers

import (
	"mime/multipart"

	apperrors "burst-backend/internal/errors"

	"github.com/gin-gonic/gin"
)

// openUpload opens the multipart file sent in field
func openUpload(c *gin.Context, field string) (multipart.File, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, apperrors.NewValidationError(field, "a file is required")
	}
	file, err := header.Open()
	if err != nil {
		return nil, apperrors.NewValidationError(field, "unreadable upload")
	}
	return file, nil
}
