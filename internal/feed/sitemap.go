package feed

import (
	"encoding/xml"
	"fmt"

	"burst-backend/internal/database/models"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

// StaticPages are listed in the sitemap with weekly frequency
var StaticPages = []string{"/", "/articles/", "/search/", "/terms/", "/privacy/", "/login/", "/register/"}

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// Sitemap renders the static pages followed by every published article
func Sitemap(urls URLBuilder, articles []models.Article) ([]byte, error) {
	set := urlset{XMLNS: sitemapNS, URLs: make([]sitemapURL, 0, len(StaticPages)+len(articles))}
	for _, page := range StaticPages {
		set.URLs = append(set.URLs, sitemapURL{Loc: urls.AbsoluteURL(page), ChangeFreq: "weekly", Priority: "0.8"})
	}
	for i := range articles {
		a := &articles[i]
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        urls.AbsoluteURL(ArticlePath(a.ID)),
			LastMod:    a.UpdatedAt.UTC().Format("2006-01-02"),
			ChangeFreq: "weekly",
			Priority:   "0.9",
		})
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode sitemap: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}
