package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/onlygrow/identity/internal/logger"
	"github.com/onlygrow/identity/internal/password"
)

// GormStore implements Store on top of GORM.
type GormStore struct {
	db     *gorm.DB
	hasher password.Hasher
	log    *logger.Logger
}

// Open connects to the configured database and returns a ready store.
// With AutoMigrate enabled the accounts table is created on startup.
func Open(ctx context.Context, cfg Config, hasher password.Hasher, log *logger.Logger) (*GormStore, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("account store config: %w", err)
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		dialector = sqlite.Open(cfg.DSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("account store: open %s: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("account store: underlying sql.DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("account store: ping: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	if lifetime, parseErr := time.ParseDuration(cfg.ConnMaxLifetime); parseErr == nil {
		sqlDB.SetConnMaxLifetime(lifetime)
	}

	if cfg.AutoMigrate {
		if err := db.AutoMigrate(&Account{}); err != nil {
			return nil, fmt.Errorf("account store: migrate: %w", err)
		}
	}

	log.Info("account store ready", logger.Fields("driver", cfg.Driver))
	return NewGormStore(db, hasher, log), nil
}

// NewGormStore wraps an existing GORM handle. Callers owning the connection
// lifecycle (tests, migrations) use this directly.
func NewGormStore(db *gorm.DB, hasher password.Hasher, log *logger.Logger) *GormStore {
	return &GormStore{
		db:     db,
		hasher: hasher,
		log:    log.WithComponent("account"),
	}
}

func (s *GormStore) FindByEmail(ctx context.Context, email string) (*Account, error) {
	var a Account
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("account: find by email: %w", err)
	}
	return &a, nil
}

func (s *GormStore) FindByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	var a Account
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("account: find by id: %w", err)
	}
	return &a, nil
}

func (s *GormStore) Create(ctx context.Context, a *Account) error {
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("account: create: %w", err)
	}
	return nil
}

func (s *GormStore) Save(ctx context.Context, a *Account) error {
	if err := s.db.WithContext(ctx).Save(a).Error; err != nil {
		return fmt.Errorf("account: save: %w", err)
	}
	return nil
}

func (s *GormStore) SetPassword(ctx context.Context, a *Account, plaintext string) error {
	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return s.Save(ctx, a)
}

// Close releases the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// compile-time interface check
var _ Store = (*GormStore)(nil)
