package feed_test

import (
	"encoding/xml"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"burst-backend/internal/config"
	"burst-backend/internal/database/models"
	"burst-backend/internal/feed"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var site = &config.Config{SiteURL: "burst.test", HTTPProtocol: "https"}

func article(title, summary, body string, created time.Time) models.Article {
	return models.Article{
		BaseModel: models.BaseModel{ID: uuid.New(), CreatedAt: created, UpdatedAt: created.Add(time.Hour)},
		Editorial: models.Editorial{
			Title:  title,
			Body:   body,
			Status: models.StatusPublished,
			Author: &models.User{Username: "jimmy", FirstName: "Jimmy", LastName: "Olsen"},
		},
		Summary: summary,
	}
}

func TestRSS_ParsesAsFeed(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	articles := []models.Article{
		article("Harbour reopens", "Ships are back", "<p>long body</p>", now),
		article("Budget vote", "", "<p>The <b>council</b> voted.</p>", now.Add(-time.Hour)),
	}

	body, err := feed.RSS(site, articles)
	require.NoError(t, err)

	parsed, err := gofeed.NewParser().ParseString(string(body))
	require.NoError(t, err)

	assert.Equal(t, feed.ChannelTitle, parsed.Title)
	assert.Equal(t, "https://burst.test/", parsed.Link)
	require.Len(t, parsed.Items, 2)

	first := parsed.Items[0]
	assert.Equal(t, "Harbour reopens", first.Title)
	assert.Equal(t, "https://burst.test/articles/"+articles[0].ID.String()+"/", first.Link)
	assert.Equal(t, "Ships are back", first.Description)
	require.NotNil(t, first.PublishedParsed)
	assert.True(t, now.Equal(*first.PublishedParsed))

	assert.Equal(t, "The council voted.", parsed.Items[1].Description)
	assert.Contains(t, string(body), "<author>Jimmy Olsen</author>")
}

func TestRSS_Empty(t *testing.T) {
	body, err := feed.RSS(site, nil)
	require.NoError(t, err)

	parsed, err := gofeed.NewParser().ParseString(string(body))
	require.NoError(t, err)
	assert.Empty(t, parsed.Items)
}

func TestDescription(t *testing.T) {
	long := strings.Repeat("é", 600)

	tests := []struct {
		name    string
		summary string
		body    string
		want    string
	}{
		{"summary wins", "Short", "<p>ignored</p>", "Short"},
		{"markup stripped", "", "<h1>Title</h1>\n<p>some  text</p>", "Title some text"},
		{"cut at 500 runes", "", long, strings.Repeat("é", 500) + "..."},
		{"exactly 500 runes kept", "", strings.Repeat("a", 500), strings.Repeat("a", 500)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := article("t", tt.summary, tt.body, time.Now())
			assert.Equal(t, tt.want, feed.Description(&a))
		})
	}
}

func TestSitemap(t *testing.T) {
	updated := time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC)
	a := article("Harbour", "", "b", updated.Add(-time.Hour))

	body, err := feed.Sitemap(site, []models.Article{a})
	require.NoError(t, err)

	var set struct {
		URLs []struct {
			Loc        string `xml:"loc"`
			LastMod    string `xml:"lastmod"`
			ChangeFreq string `xml:"changefreq"`
			Priority   string `xml:"priority"`
		} `xml:"url"`
	}
	require.NoError(t, xml.Unmarshal(body, &set))

	var locs []string
	for _, u := range set.URLs {
		locs = append(locs, u.Loc)
	}
	want := []string{
		"https://burst.test/",
		"https://burst.test/articles/",
		"https://burst.test/search/",
		"https://burst.test/terms/",
		"https://burst.test/privacy/",
		"https://burst.test/login/",
		"https://burst.test/register/",
		"https://burst.test/articles/" + a.ID.String() + "/",
	}
	if diff := cmp.Diff(want, locs); diff != "" {
		t.Errorf("sitemap locations mismatch (-want +got):\n%s", diff)
	}

	last := set.URLs[len(set.URLs)-1]
	assert.Equal(t, "2026-05-02", last.LastMod)
	assert.Equal(t, "0.9", last.Priority)
	assert.Equal(t, "0.8", set.URLs[0].Priority)
	assert.Equal(t, "weekly", set.URLs[0].ChangeFreq)
}

type stubSource struct {
	articles []models.Article
	err      error
	limits   []int
}

func (s *stubSource) LatestPublished(limit int) ([]models.Article, error) {
	s.limits = append(s.limits, limit)
	return s.articles, s.err
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	src := &stubSource{articles: []models.Article{article("Harbour", "s", "b", time.Now())}}
	router := gin.New()
	h := feed.NewHandler(src, site)
	router.GET("/feed/", h.Feed)
	router.GET("/sitemap.xml", h.Sitemap)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/feed/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/rss+xml")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, []int{feed.FeedSize, -1}, src.limits)

	src.err = errors.New("db down")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/feed/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
