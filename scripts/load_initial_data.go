package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"burst-backend/internal/config"
	"burst-backend/internal/database"
	"burst-backend/internal/database/models"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type PublisherData struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Website     string `yaml:"website"`
	Owner       string `yaml:"owner,omitempty"`
}

type UserData struct {
	Username  string `yaml:"username"`
	Email     string `yaml:"email"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Password  string `yaml:"password"`
	Role      string `yaml:"role"`
	IsStaff   bool   `yaml:"is_staff"`
	Publisher string `yaml:"publisher,omitempty"`
}

type CategoryData struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type ContentData struct {
	Title    string `yaml:"title"`
	Summary  string `yaml:"summary,omitempty"`
	Body     string `yaml:"body"`
	Author   string `yaml:"author"`
	Category string `yaml:"category,omitempty"`
	Status   string `yaml:"status"`
}

// FixtureFile is the layout of every YAML file under the data directory; sections may be omitted
type FixtureFile struct {
	Publishers  []PublisherData `yaml:"publishers"`
	Users       []UserData      `yaml:"users"`
	Categories  []CategoryData  `yaml:"categories"`
	Articles    []ContentData   `yaml:"articles"`
	Newsletters []ContentData   `yaml:"newsletters"`
}

func main() {
	log.Println("🚀 Loading initial data from YAML files...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database with retry (for dockerized Postgres startup)
	db, err := connectWithRetry(cfg.DatabaseURL, 60, time.Second)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	dataDir := "scripts/data"
	if len(os.Args) > 1 {
		dataDir = os.Args[1]
	}

	fixtures, err := readFixtures(dataDir)
	if err != nil {
		log.Fatalf("Failed to read fixtures: %v", err)
	}

	if err := db.Transaction(func(tx *gorm.DB) error { return load(tx, fixtures) }); err != nil {
		log.Fatalf("Failed to load data: %v", err)
	}

	log.Println("✅ Initial data loaded successfully!")
}

// connectWithRetry attempts to initialize the DB with retries to wait for Postgres readiness.
func connectWithRetry(dsn string, maxAttempts int, delay time.Duration) (*gorm.DB, error) {
	opts := &database.Options{LogLevel: logger.Silent}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		db, err := database.Initialize(dsn, opts)
		if err == nil {
			return db, nil
		}
		// Only log every 10 attempts to reduce noise
		if attempt%10 == 0 || attempt == maxAttempts {
			log.Printf("Database not ready (%d/%d): %v", attempt, maxAttempts, err)
		}
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("database not ready after %d attempts", maxAttempts)
}

func readFixtures(dataDir string) (*FixtureFile, error) {
	var all FixtureFile

	err := filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !(strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml")) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		var file FixtureFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		all.Publishers = append(all.Publishers, file.Publishers...)
		all.Users = append(all.Users, file.Users...)
		all.Categories = append(all.Categories, file.Categories...)
		all.Articles = append(all.Articles, file.Articles...)
		all.Newsletters = append(all.Newsletters, file.Newsletters...)
		return nil
	})

	return &all, err
}

func load(db *gorm.DB, f *FixtureFile) error {
	publishers := map[string]*models.Publisher{}
	for _, p := range f.Publishers {
		publisher := models.Publisher{Name: p.Name, Description: p.Description, Website: p.Website}
		if err := db.Where("lower(name) = lower(?)", p.Name).FirstOrCreate(&publisher).Error; err != nil {
			return fmt.Errorf("publisher %q: %w", p.Name, err)
		}
		publishers[p.Name] = &publisher
	}
	log.Printf("📋 Publishers: %d", len(publishers))

	users := map[string]*models.User{}
	for _, u := range f.Users {
		role := models.Role(u.Role)
		if !role.IsValid() {
			return fmt.Errorf("user %q: unknown role %q", u.Username, u.Role)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("user %q: %w", u.Username, err)
		}
		user := models.User{
			Username:     u.Username,
			Email:        u.Email,
			FirstName:    u.FirstName,
			LastName:     u.LastName,
			PasswordHash: string(hash),
			Role:         role,
			IsStaff:      u.IsStaff,
			IsActive:     true,
		}
		if u.Publisher != "" {
			p, ok := publishers[u.Publisher]
			if !ok {
				return fmt.Errorf("user %q: unknown publisher %q", u.Username, u.Publisher)
			}
			user.PublisherID = &p.ID
		}
		if err := db.Where("username = ?", u.Username).FirstOrCreate(&user).Error; err != nil {
			return fmt.Errorf("user %q: %w", u.Username, err)
		}
		users[u.Username] = &user
	}
	log.Printf("📋 Users: %d", len(users))

	for _, p := range f.Publishers {
		if p.Owner == "" {
			continue
		}
		owner, ok := users[p.Owner]
		if !ok {
			return fmt.Errorf("publisher %q: unknown owner %q", p.Name, p.Owner)
		}
		if err := db.Model(publishers[p.Name]).Update("owner_id", owner.ID).Error; err != nil {
			return fmt.Errorf("publisher %q owner: %w", p.Name, err)
		}
	}

	categories := map[string]*models.Category{}
	for _, c := range f.Categories {
		category := models.Category{Name: c.Name, Slug: database.Slugify(c.Name), Description: c.Description}
		if err := db.Where("slug = ?", category.Slug).FirstOrCreate(&category).Error; err != nil {
			return fmt.Errorf("category %q: %w", c.Name, err)
		}
		categories[c.Name] = &category
	}
	log.Printf("📋 Categories: %d", len(categories))

	for _, a := range f.Articles {
		core, err := editorial(a, users)
		if err != nil {
			return fmt.Errorf("article %q: %w", a.Title, err)
		}
		article := models.Article{Editorial: core, Summary: a.Summary}
		if a.Category != "" {
			c, ok := categories[a.Category]
			if !ok {
				return fmt.Errorf("article %q: unknown category %q", a.Title, a.Category)
			}
			article.CategoryID = &c.ID
		}
		if err := db.Where("title = ? AND author_id = ?", a.Title, core.AuthorID).FirstOrCreate(&article).Error; err != nil {
			return fmt.Errorf("article %q: %w", a.Title, err)
		}
	}
	log.Printf("📋 Articles: %d", len(f.Articles))

	for _, n := range f.Newsletters {
		core, err := editorial(n, users)
		if err != nil {
			return fmt.Errorf("newsletter %q: %w", n.Title, err)
		}
		newsletter := models.Newsletter{Editorial: core}
		if err := db.Where("title = ? AND author_id = ?", n.Title, core.AuthorID).FirstOrCreate(&newsletter).Error; err != nil {
			return fmt.Errorf("newsletter %q: %w", n.Title, err)
		}
	}
	log.Printf("📋 Newsletters: %d", len(f.Newsletters))

	return nil
}

// editorial resolves the author and derives the publisher from the author's membership
func editorial(c ContentData, users map[string]*models.User) (models.Editorial, error) {
	author, ok := users[c.Author]
	if !ok {
		return models.Editorial{}, fmt.Errorf("unknown author %q", c.Author)
	}
	if author.PublisherID == nil {
		return models.Editorial{}, errors.New("author has no publisher")
	}
	status := models.ContentStatus(c.Status)
	if c.Status == "" {
		status = models.StatusDraft
	}
	if !status.IsValid() {
		return models.Editorial{}, fmt.Errorf("unknown status %q", c.Status)
	}

	core := models.Editorial{
		Title:       c.Title,
		Body:        c.Body,
		PublisherID: *author.PublisherID,
		AuthorID:    author.ID,
		Status:      status,
		Version:     1,
	}
	if status == models.StatusPublished {
		now := time.Now()
		core.PublishedAt = &now
	}
	return core, nil
}
