package web

import (
	"net/http"
	"strings"

	"burst-backend/internal/access"
	"burst-backend/internal/auth"
	"burst-backend/internal/database/models"
	"burst-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	listPageSize       = 10
	homeNewsletters    = 5
	readerNewsletters  = 50
	defaultNewsletters = 20
)

// filters loads the category and publisher choices shown next to article lists
func (s *Site) filters() (*service.CategoryListResponse, *service.PublisherListResponse, error) {
	var (
		g          errgroup.Group
		categories *service.CategoryListResponse
		publishers *service.PublisherListResponse
	)
	g.Go(func() (err error) {
		categories, err = s.Categories.GetAll(1, 1000)
		return err
	})
	g.Go(func() (err error) {
		publishers, err = s.Publishers.GetAll(1, 200)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return categories, publishers, nil
}

// Home handles GET /
func (s *Site) Home(c *gin.Context) {
	actor := auth.CurrentUser(c)
	page := pageParam(c)
	category, publisher := c.Query("category"), c.Query("publisher")

	var (
		g           errgroup.Group
		articles    *service.ArticleListResponse
		newsletters *service.NewsletterListResponse
	)
	g.Go(func() (err error) {
		articles, err = s.Articles.List(actor, &service.ArticleListRequest{
			Page: page, PageSize: listPageSize, Status: string(models.StatusPublished),
			Category: category, Publisher: publisher,
		})
		return err
	})
	g.Go(func() (err error) {
		newsletters, err = s.Newsletters.List(actor, &service.NewsletterListRequest{
			PageSize: homeNewsletters, Status: string(models.StatusPublished),
		})
		return err
	})
	if err := g.Wait(); err != nil {
		s.fail(c, err)
		return
	}
	categories, publishers, err := s.filters()
	if err != nil {
		s.fail(c, err)
		return
	}

	s.render(c, http.StatusOK, "home.html", gin.H{
		"Title":            "Latest news",
		"Articles":         articles.Articles,
		"Pager":            newPager(articles.Page, articles.PageSize, articles.Total),
		"Newsletters":      newsletters.Newsletters,
		"Categories":       categories.Categories,
		"Publishers":       publishers.Publishers,
		"CurrentCategory":  category,
		"CurrentPublisher": publisher,
	})
}

// Search handles GET /search/
func (s *Site) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	category, publisher := c.Query("category"), c.Query("publisher")

	articles, err := s.Articles.List(auth.CurrentUser(c), &service.ArticleListRequest{
		Page: pageParam(c), PageSize: listPageSize, Status: string(models.StatusPublished),
		Query: query, Category: category, Publisher: publisher,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	categories, publishers, err := s.filters()
	if err != nil {
		s.fail(c, err)
		return
	}

	s.render(c, http.StatusOK, "search.html", gin.H{
		"Title":            "Search",
		"Query":            query,
		"Articles":         articles.Articles,
		"Total":            articles.Total,
		"Pager":            newPager(articles.Page, articles.PageSize, articles.Total),
		"Categories":       categories.Categories,
		"Publishers":       publishers.Publishers,
		"CurrentCategory":  category,
		"CurrentPublisher": publisher,
	})
}

// ArticleList handles GET /articles/ with the role-based view of the signed-in user
func (s *Site) ArticleList(c *gin.Context) {
	actor := auth.CurrentUser(c)
	articles, err := s.Articles.List(actor, &service.ArticleListRequest{Page: pageParam(c), PageSize: listPageSize})
	if err != nil {
		s.fail(c, err)
		return
	}
	s.render(c, http.StatusOK, "articles.html", gin.H{
		"Title":    "Articles",
		"Articles": articles.Articles,
		"Pager":    newPager(articles.Page, articles.PageSize, articles.Total),
	})
}

// ArticleDetail handles GET /articles/:id/
func (s *Site) ArticleDetail(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		s.NotFound(c)
		return
	}
	article, err := s.Articles.GetByID(auth.CurrentUser(c), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.render(c, http.StatusOK, "article.html", gin.H{
		"Title":     article.Title,
		"Article":   article,
		"CanFollow": isReader(auth.CurrentUser(c)),
	})
}

// NewsletterList handles GET /newsletters/. Journalists see their own, readers
// see their subscriptions, everyone else the most recent.
func (s *Site) NewsletterList(c *gin.Context) {
	actor := auth.CurrentUser(c)
	req := &service.NewsletterListRequest{Page: pageParam(c), PageSize: defaultNewsletters}
	switch {
	case actor == nil:
		req.Status = string(models.StatusPublished)
	case actor.Role == models.RoleReader:
		req.Subscribed = true
		req.PageSize = readerNewsletters
	}

	newsletters, err := s.Newsletters.List(actor, req)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.render(c, http.StatusOK, "newsletters.html", gin.H{
		"Title":       "Newsletters",
		"Newsletters": newsletters.Newsletters,
		"Pager":       newPager(newsletters.Page, newsletters.PageSize, newsletters.Total),
		"CanCreate":   access.CanCreate(actor),
	})
}

// NewsletterDetail handles GET /newsletters/:id/
func (s *Site) NewsletterDetail(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		s.NotFound(c)
		return
	}
	newsletter, err := s.Newsletters.GetByID(auth.CurrentUser(c), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	title := newsletter.ShareTitle
	if title == "" {
		title = newsletter.Title
	}
	s.render(c, http.StatusOK, "newsletter.html", gin.H{
		"Title":      title,
		"Newsletter": newsletter,
	})
}

// NewsletterForm handles GET /newsletters/create/
func (s *Site) NewsletterForm(c *gin.Context) {
	if !access.CanCreate(auth.CurrentUser(c)) {
		s.redirect(c, "/", "Only journalists can create newsletters.")
		return
	}
	s.render(c, http.StatusOK, "newsletter_form.html", gin.H{"Title": "New newsletter"})
}

// CreateNewsletter handles POST /newsletters/create/. The optional cover is
// attached after the draft is saved.
func (s *Site) CreateNewsletter(c *gin.Context) {
	actor := auth.CurrentUser(c)
	req := &service.CreateNewsletterRequest{
		Title:            strings.TrimSpace(c.PostForm("title")),
		Body:             c.PostForm("body"),
		ShareTitle:       strings.TrimSpace(c.PostForm("share_title")),
		ShareDescription: strings.TrimSpace(c.PostForm("share_description")),
	}

	newsletter, err := s.Newsletters.Create(actor, req)
	if err != nil {
		if msg := formError(err); msg != "" {
			s.render(c, http.StatusBadRequest, "newsletter_form.html", gin.H{
				"Title": "New newsletter", "Error": msg, "Form": req,
			})
			return
		}
		if isDenied(err) {
			s.redirect(c, "/", "Only journalists can create newsletters.")
			return
		}
		s.fail(c, err)
		return
	}

	target := "/newsletters/" + newsletter.ID.String() + "/"
	if header, ferr := c.FormFile("cover"); ferr == nil {
		file, err := header.Open()
		if err == nil {
			defer file.Close()
			_, err = s.Newsletters.AttachImage(c.Request.Context(), actor, newsletter.ID, file)
		}
		if err != nil {
			s.redirect(c, target, "Newsletter saved, but the cover was not accepted: "+err.Error())
			return
		}
	}
	s.redirect(c, target, "Newsletter created successfully.")
}

func isReader(u *models.User) bool {
	return u != nil && u.Role == models.RoleReader
}
