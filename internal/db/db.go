package db

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"buslink/internal/config"
	"buslink/internal/models"
	"buslink/internal/utils"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects using the configured driver and migrates the schema.
func Open(cfg *config.Config) (*gorm.DB, error) {
	var (
		conn *gorm.DB
		err  error
	)
	switch cfg.DBDriver {
	case "postgres":
		conn, err = gorm.Open(postgres.Open(cfg.DatabaseURL), gormConfig())
	case "sqlite":
		conn, err = OpenSQLite(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	log.Printf("[db] connection established (%s)", cfg.DBDriver)

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := Migrate(conn); err != nil {
		return nil, err
	}

	if cfg.SeedDemo {
		seedDemoUser(conn)
	}
	return conn, nil
}

// OpenSQLite opens a sqlite database file. Used for local runs and tests.
func OpenSQLite(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(path+"?_foreign_keys=on"), gormConfig())
}

func gormConfig() *gorm.Config {
	return newGormConfig(os.Stdout)
}

// newGormConfig maps unique violations to gorm.ErrDuplicatedKey.
// 时间统一存 UTC，sqlite 按文本比较 created_at
func newGormConfig(w io.Writer) *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         newLogger(w),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// newLogger keeps slow query and error logs but drops "record not found",
// which every existence check hits on the normal path.
func newLogger(w io.Writer) logger.Interface {
	return logger.New(
		log.New(w, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

func Migrate(conn *gorm.DB) error {
	err := conn.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Like{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	log.Println("[db] migration completed")
	return nil
}

func Close(conn *gorm.DB) {
	if conn == nil {
		return
	}
	sqlDB, err := conn.DB()
	if err != nil {
		log.Printf("[db] error getting underlying *sql.DB to close: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("[db] error closing database connection: %v", err)
	}
}

func seedDemoUser(conn *gorm.DB) {
	var existing models.User
	err := conn.Where("username = ?", "busfan").First(&existing).Error
	if err == nil {
		log.Println("[db] demo user already seeded, skipping")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[db] failed to check demo user: %v", err)
		return
	}

	hash, err := utils.HashPassword("busfan123")
	if err != nil {
		log.Printf("[db] failed to hash demo password: %v", err)
		return
	}
	user := models.User{
		ID:       uuid.NewString(),
		Username: "busfan",
		Email:    "busfan@example.com",
		Password: hash,
		ImageURL: utils.DefaultAvatarURL("busfan"),
	}
	if err := conn.Create(&user).Error; err != nil {
		log.Printf("[db] failed to create demo user: %v", err)
		return
	}
	log.Println("[db] demo user created (busfan@example.com / busfan123)")
}
