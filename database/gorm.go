package database

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sahilchouksey/course-hub/config"
	"github.com/sahilchouksey/course-hub/model"
)

type GORMStore struct {
	db *gorm.DB
}

// Open connects to the database selected by DB_DRIVER
func Open(env *config.EnvironmentVariable) (*GORMStore, error) {
	if env.DB_DRIVER == "sqlite" {
		return OpenSQLite(env.SQLITE_PATH, gormLogger(env))
	}
	return StartGORM(env)
}

// StartGORM initializes a GORM connection to PostgreSQL
func StartGORM(env *config.EnvironmentVariable) (*GORMStore, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		env.DB_HOST,
		env.DB_USER_NAME,
		env.DB_PASSWORD,
		env.DB_NAME,
		env.DB_PORT,
		env.DB_SSL_MODE,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:      gormLogger(env),
		PrepareStmt: true,
	})
	if err != nil {
		log.Errorw("unable to connect to PostgreSQL", "host", env.DB_HOST, "error", err)
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Infow("connected to PostgreSQL", "host", env.DB_HOST, "database", env.DB_NAME)

	return &GORMStore{db: db}, nil
}

// OpenSQLite opens a SQLite database. ":memory:" gives a private database
// that lives as long as the store. A nil gormLog silences GORM.
func OpenSQLite(path string, gormLog logger.Interface) (*GORMStore, error) {
	if gormLog == nil {
		gormLog = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// One connection keeps an in-memory database alive and serializes writers.
	sqlDB.SetMaxOpenConns(1)

	return &GORMStore{db: db}, nil
}

func gormLogger(env *config.EnvironmentVariable) logger.Interface {
	if env.GO_ENV == "production" {
		return logger.Default.LogMode(logger.Error)
	}
	return logger.Default.LogMode(logger.Warn)
}

// Models lists every table of the REST backend in migration order
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Course{},
		&model.Enrollment{},
		&model.Topic{},
		&model.Note{},
		&model.NoteLike{},
		&model.Comment{},
	}
}

// Init runs the AutoMigrate to create/update tables
func (s *GORMStore) Init() error {
	if err := s.db.AutoMigrate(Models()...); err != nil {
		log.Errorw("AutoMigrate failed", "error", err)
		return err
	}
	log.Info("database schema is up to date")
	return nil
}

// Close closes the database connection
func (s *GORMStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DB returns the GORM handle
func (s *GORMStore) DB() *gorm.DB {
	return s.db
}

// HealthCheck verifies the database connection is alive
func (s *GORMStore) HealthCheck() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
