package service_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"burst-backend/internal/config"
	"burst-backend/internal/database/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{SiteURL: "burst.test", HTTPProtocol: "https"}
}

func newUser(role models.Role, publisherID *uuid.UUID) *models.User {
	id := uuid.New()
	return &models.User{
		BaseModel:   models.BaseModel{ID: id},
		Username:    string(role) + "_" + id.String()[:6],
		Email:       string(role) + "_" + id.String()[:6] + "@burst.test",
		FirstName:   "Test",
		LastName:    string(role),
		Role:        role,
		IsActive:    true,
		PublisherID: publisherID,
	}
}

func newArticle(author *models.User, status models.ContentStatus) *models.Article {
	return &models.Article{
		BaseModel: models.BaseModel{ID: uuid.New()},
		Editorial: models.Editorial{
			Title:       "Council votes on budget",
			Body:        "The council met on Tuesday.",
			AuthorID:    author.ID,
			Author:      author,
			PublisherID: *author.PublisherID,
			Status:      status,
			Version:     1,
		},
	}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
