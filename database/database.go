package database

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"imaginify/internal/apperror"
	"imaginify/internal/domain/billing"
	"imaginify/internal/domain/media"
	"imaginify/internal/domain/users"

	"golang.org/x/sync/singleflight"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connector hands out the shared database handle.
type Connector interface {
	Connect(ctx context.Context) (*gorm.DB, error)
}

// Opener establishes a new handle for dsn.
type Opener func(dsn string) (*gorm.DB, error)

// Models lists every table the application owns.
func Models() []any {
	return []any{
		&users.User{},
		&media.Image{},
		&billing.Transaction{},
	}
}

// Manager opens the database lazily on first use and keeps the handle for
// the life of the process. Concurrent first calls share one open.
type Manager struct {
	dsn    string
	open   Opener
	logger *slog.Logger

	mu sync.RWMutex
	db *gorm.DB

	group singleflight.Group
}

type Option func(*Manager)

func WithOpener(open Opener) Option {
	return func(m *Manager) { m.open = open }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

func NewManager(dsn string, opts ...Option) *Manager {
	m := &Manager{dsn: dsn, logger: slog.Default()}
	m.open = m.openPostgres
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Connect returns the cached handle, opening it if needed. A caller whose
// ctx ends stops waiting; the shared open keeps running for the others.
// A failed open is not cached.
func (m *Manager) Connect(ctx context.Context) (*gorm.DB, error) {
	if db := m.cached(); db != nil {
		return db, nil
	}
	if m.dsn == "" {
		return nil, apperror.Configuration("DB_URL")
	}

	ch := m.group.DoChan("connect", func() (any, error) {
		if db := m.cached(); db != nil {
			return db, nil
		}
		db, err := m.open(m.dsn)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.db = db
		m.mu.Unlock()
		m.logger.Info("database connected")
		return db, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("connect database: %w", res.Err)
		}
		return res.Val.(*gorm.DB), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *Manager) cached() *gorm.DB {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.db
}

// Close releases the pool if one was opened.
func (m *Manager) Close() error {
	m.mu.Lock()
	db := m.db
	m.db = nil
	m.mu.Unlock()
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (m *Manager) openPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	if err := db.AutoMigrate(Models()...); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	return db, nil
}
