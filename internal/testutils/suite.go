package testutils

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"burst-backend/internal/config"
	"burst-backend/internal/database"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for the readiness probe
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

const (
	pgImage    = "postgres"
	pgTag      = "16-alpine"
	pgUser     = "burst"
	pgPassword = "burst-test"
	pgDatabase = "burst_test"
)

// pgContainer is the Postgres instance shared by every integration suite of a test binary
type pgContainer struct {
	pool     *dockertest.Pool
	resource *dockertest.Resource
	db       *gorm.DB
	config   *config.Config
	tables   []string
}

var (
	sharedOnce sync.Once
	shared     *pgContainer
	sharedErr  error
)

// BaseTestSuite gives a suite access to the shared database
type BaseTestSuite struct {
	suite.Suite
	DB     *gorm.DB
	Config *config.Config
	tables []string
}

// SetupTestSuite starts the shared Postgres container on first use and migrates the schema.
func SetupTestSuite(t *testing.T) *BaseTestSuite {
	sharedOnce.Do(func() { shared, sharedErr = startPostgres() })
	if sharedErr != nil {
		t.Fatalf("failed to start test database: %v", sharedErr)
	}
	return &BaseTestSuite{DB: shared.db, Config: shared.config, tables: shared.tables}
}

// CleanupSharedContainer closes the connection pool and purges the container.
// Call it from TestMain once every suite has run.
func CleanupSharedContainer() {
	if shared == nil {
		return
	}
	if sqlDB, err := shared.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if err := shared.pool.Purge(shared.resource); err != nil {
		logrus.WithError(err).Warn("could not purge test database container")
	} else {
		logrus.Infof("purged test database container %s", shared.resource.Container.Name)
	}
	shared = nil
}

func (s *BaseTestSuite) SetupTest()    { s.CleanTestDB() }
func (s *BaseTestSuite) TearDownTest() { s.CleanTestDB() }

// TeardownTestSuite empties the tables; the container lives until CleanupSharedContainer.
func (s *BaseTestSuite) TeardownTestSuite() { s.CleanTestDB() }

// CleanTestDB truncates every migrated table
func (s *BaseTestSuite) CleanTestDB() {
	if s.DB == nil || len(s.tables) == 0 {
		return
	}
	quoted := make([]string, len(s.tables))
	for i, t := range s.tables {
		quoted[i] = `"` + t + `"`
	}
	stmt := "TRUNCATE TABLE " + strings.Join(quoted, ", ") + " RESTART IDENTITY CASCADE"
	if err := s.DB.Exec(stmt).Error; err != nil {
		logrus.WithError(err).Warn("failed to truncate test tables")
	}
}

func startPostgres() (*pgContainer, error) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("could not connect to docker: %w", err)
	}
	pool.MaxWait = 2 * time.Minute

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: pgImage,
		Tag:        pgTag,
		Env: []string{
			"POSTGRES_USER=" + pgUser,
			"POSTGRES_PASSWORD=" + pgPassword,
			"POSTGRES_DB=" + pgDatabase,
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return nil, fmt.Errorf("could not start postgres: %w", err)
	}
	// Kill the container even if the test binary crashes
	_ = resource.Expire(600)

	port := resource.GetPort("5432/tcp")
	dsn := fmt.Sprintf("postgres://%s:%s@127.0.0.1:%s/%s?sslmode=disable", pgUser, pgPassword, port, pgDatabase)

	if err := pool.Retry(func() error {
		probe, err := sql.Open("pgx", dsn)
		if err != nil {
			return err
		}
		defer probe.Close()
		return probe.Ping()
	}); err != nil {
		_ = pool.Purge(resource)
		return nil, fmt.Errorf("postgres never became ready: %w", err)
	}

	db, err := database.Initialize(dsn, nil)
	if err != nil {
		_ = pool.Purge(resource)
		return nil, fmt.Errorf("could not migrate test database: %w", err)
	}

	tables, err := migratedTables(db)
	if err != nil {
		_ = pool.Purge(resource)
		return nil, err
	}

	logrus.WithField("port", port).Infof("test database ready with tables %v", tables)
	return &pgContainer{
		pool:     pool,
		resource: resource,
		db:       db,
		tables:   tables,
		config: &config.Config{
			Environment:   "test",
			LogLevel:      "debug",
			DatabaseURL:   dsn,
			SecretKey:     "test-secret",
			SiteURL:       "localhost:8000",
			HTTPProtocol:  "http",
			MediaBackend:  "local",
			NotifyBackend: "inline",
		},
	}, nil
}

// migratedTables resolves the table name of every model Initialize migrates
func migratedTables(db *gorm.DB) ([]string, error) {
	models := database.Models()
	tables := make([]string, 0, len(models))
	for _, m := range models {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(m); err != nil {
			return nil, fmt.Errorf("parse model %T: %w", m, err)
		}
		tables = append(tables, stmt.Schema.Table)
	}
	return tables, nil
}
