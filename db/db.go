// Package db is the GORM-backed SQLite persistence layer: connection setup,
// schema, demo seed data and one store per aggregate.
package db

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dattatraygorde/Order-Taking-System/model"
	"github.com/dattatraygorde/Order-Taking-System/tracker"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open opens the SQLite database at path with foreign keys enforced.
func Open(path string, logger *zap.Logger) (*gorm.DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("database path is required")
	}
	dsn := "file:" + filepath.Clean(path) + "?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL"

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         NewGormLogger(logger),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite pool: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return gdb, nil
}

// Close releases the connection pool behind gdb.
func Close(gdb *gorm.DB) error {
	if gdb == nil {
		return nil
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// schema is applied in order on every start. SQLite cannot add foreign keys to
// an existing table, so the tables are declared here rather than auto-migrated.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		first_name VARCHAR(255)  NOT NULL,
		last_name  VARCHAR(255)  NOT NULL,
		email      VARCHAR(255)  NOT NULL,
		address    VARCHAR(1000) NOT NULL,
		created_at DATETIME      NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_customers_email ON customers (email)`,
	`CREATE TABLE IF NOT EXISTS vegetables (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		name     VARCHAR(100) NOT NULL,
		name_key VARCHAR(100) NOT NULL
	)`,
	`DROP INDEX IF EXISTS idx_vegetables_name`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_vegetables_name_key ON vegetables (name_key)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		customer_id INTEGER     NOT NULL REFERENCES customers (id) ON DELETE RESTRICT,
		order_date  VARCHAR(10) NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_customer_id ON orders (customer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_order_date ON orders (order_date)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		order_id     INTEGER NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
		vegetable_id INTEGER NOT NULL REFERENCES vegetables (id) ON DELETE RESTRICT,
		quantity     INTEGER NOT NULL CHECK (quantity >= 1)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items (order_id)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_vegetable_id ON order_items (vegetable_id)`,
}

// Migrate creates the schema if it does not exist yet. A vegetables table
// from before name_key existed gets the column added and filled first.
func Migrate(ctx context.Context, gdb *gorm.DB) error {
	uow := tracker.New(gdb)

	m := gdb.WithContext(ctx).Migrator()
	if m.HasTable("vegetables") && !m.HasColumn(&model.Vegetable{}, "name_key") {
		var rows []model.Vegetable
		if err := gdb.WithContext(ctx).Select("id", "name").Find(&rows).Error; err != nil {
			return fmt.Errorf("migrate: read vegetables: %w", err)
		}
		uow.Do(func(tx tracker.Tx) error {
			if err := tx.Exec(`ALTER TABLE vegetables ADD COLUMN name_key VARCHAR(100) NOT NULL DEFAULT ''`); err != nil {
				return err
			}
			for _, v := range rows {
				if err := tx.Exec(`UPDATE vegetables SET name_key = ? WHERE id = ?`, model.FoldName(v.Name), v.ID); err != nil {
					return err
				}
			}
			return nil
		})
	}

	uow.Do(func(tx tracker.Tx) error {
		for _, stmt := range schema {
			if err := tx.Exec(stmt); err != nil {
				return err
			}
		}
		return nil
	})
	if err := uow.Commit(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
