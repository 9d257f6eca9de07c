// Package migration owns schema changes: versioned goose scripts for mysql and postgres,
// gorm AutoMigrate for sqlite.
package migration

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"campusdesk/internal/shared/logger"
)

// ErrUnversioned is returned for rollback and status requests on a strategy without versions.
var ErrUnversioned = errors.New("migration strategy does not track versions")

// Manager handles database migrations with different strategies
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks the strategy for a database driver.
func NewManager(driver string, log logger.Interface) (*Manager, error) {
	var strategy Strategy
	switch driver {
	case "sqlite":
		strategy = NewGormAutoMigrateStrategy(log)
	case "mysql", "postgres":
		gs, err := NewGooseStrategy(driver, log)
		if err != nil {
			return nil, err
		}
		strategy = gs
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	return NewManagerWithStrategy(strategy, log), nil
}

// NewManagerWithStrategy creates a new migration manager with a specific strategy
func NewManagerWithStrategy(strategy Strategy, log logger.Interface) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   log.With("component", "migration.manager"),
	}
}

// Up executes the configured migration strategy
func (m *Manager) Up(db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.GetName())

	if err := m.strategy.Migrate(db); err != nil {
		m.logger.Errorw("migration failed", "strategy", m.strategy.GetName(), "error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}

	m.logger.Infow("database migration completed successfully", "strategy", m.strategy.GetName())
	return nil
}

func (m *Manager) Down(db *gorm.DB, steps int) error {
	v, ok := m.strategy.(VersionedStrategy)
	if !ok {
		return fmt.Errorf("%s: %w", m.strategy.GetName(), ErrUnversioned)
	}
	return v.MigrateDown(db, steps)
}

func (m *Manager) Version(db *gorm.DB) (int64, error) {
	v, ok := m.strategy.(VersionedStrategy)
	if !ok {
		return 0, fmt.Errorf("%s: %w", m.strategy.GetName(), ErrUnversioned)
	}
	return v.GetVersion(db)
}

func (m *Manager) Status(db *gorm.DB) error {
	v, ok := m.strategy.(VersionedStrategy)
	if !ok {
		return fmt.Errorf("%s: %w", m.strategy.GetName(), ErrUnversioned)
	}
	return v.Status(db)
}

// GetStrategy returns the current migration strategy
func (m *Manager) GetStrategy() Strategy {
	return m.strategy
}
