// Package feed renders the RSS channel of published articles and the sitemap.
package feed

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"burst-backend/internal/database/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
)

const (
	// ChannelTitle is the title of the RSS channel
	ChannelTitle       = "Burst - Latest News"
	channelDescription = "Latest news from Burst publishers"

	// FeedSize is the number of articles in the channel
	FeedSize       = 50
	descriptionCut = 500
)

// URLBuilder turns a site path into an absolute URL
type URLBuilder interface {
	AbsoluteURL(path string) string
}

type rss struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	Channel channel  `xml:"channel"`
}

type channel struct {
	Title         string `xml:"title"`
	Link          string `xml:"link"`
	Description   string `xml:"description"`
	LastBuildDate string `xml:"lastBuildDate,omitempty"`
	Items         []item `xml:"item"`
}

type item struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	Description string `xml:"description"`
	Author      string `xml:"author,omitempty"`
	PubDate     string `xml:"pubDate"`
}

// ArticlePath is the site path of an article page
func ArticlePath(id uuid.UUID) string {
	return fmt.Sprintf("/articles/%s/", id)
}

// RSS renders articles as an RSS 2.0 document
func RSS(urls URLBuilder, articles []models.Article) ([]byte, error) {
	doc := rss{
		Version: "2.0",
		Channel: channel{
			Title:       ChannelTitle,
			Link:        urls.AbsoluteURL("/"),
			Description: channelDescription,
			Items:       make([]item, 0, len(articles)),
		},
	}
	if len(articles) > 0 {
		doc.Channel.LastBuildDate = articles[0].CreatedAt.UTC().Format(time.RFC1123Z)
	}

	for i := range articles {
		a := &articles[i]
		link := urls.AbsoluteURL(ArticlePath(a.ID))
		doc.Channel.Items = append(doc.Channel.Items, item{
			Title:       a.Title,
			Link:        link,
			GUID:        link,
			Description: Description(a),
			Author:      authorName(a.Author),
			PubDate:     a.CreatedAt.UTC().Format(time.RFC1123Z),
		})
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode rss: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

// Description is the summary of an article, or its body without markup cut to 500 characters
func Description(a *models.Article) string {
	if s := strings.TrimSpace(a.Summary); s != "" {
		return s
	}
	return Truncate(StripHTML(a.Body), descriptionCut)
}

// StripHTML returns the text content of an HTML fragment
func StripHTML(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Truncate cuts s to n runes and appends "..." when anything was removed
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

func authorName(u *models.User) string {
	if u == nil {
		return ""
	}
	return u.FullName()
}
