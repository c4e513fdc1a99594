package media

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	apperrors "burst-backend/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestReadImage_DetectsPNG(t *testing.T) {
	img, err := ReadImage("hero_image", bytes.NewReader(pngBytes(t)))

	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, ".png", img.Extension)
	assert.Positive(t, img.Size())
}

func TestReadImage_RejectsUnsupportedFormat(t *testing.T) {
	_, err := ReadImage("hero_image", strings.NewReader("%PDF-1.4 not an image"))

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestReadImage_RejectsEmpty(t *testing.T) {
	_, err := ReadImage("hero_image", bytes.NewReader(nil))

	assert.True(t, apperrors.IsValidation(err))
}

func TestReadImage_RejectsOversized(t *testing.T) {
	data := append(pngBytes(t), make([]byte, MaxImageSize)...)

	_, err := ReadImage("hero_image", bytes.NewReader(data))

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "limit")
}

func TestValidateImage(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		size        int64
		wantErr     bool
	}{
		{"jpeg at limit", "image/jpeg", MaxImageSize, false},
		{"gif", "image/gif", 10, false},
		{"webp", "image/webp", 10, false},
		{"one byte over", "image/png", MaxImageSize + 1, true},
		{"svg", "image/svg+xml", 10, true},
		{"bmp", "image/bmp", 10, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImage("cover_image", tt.contentType, tt.size)
			if tt.wantErr {
				assert.True(t, apperrors.IsValidation(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
