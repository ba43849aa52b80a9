/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// Migration records an applied step in the migrations table.
type Migration struct {
	bun.BaseModel `bun:"table:migrations"`

	Version     string    `bun:"version,pk"`
	Name        string    `bun:"name"`
	AppliedAt   time.Time `bun:"applied_at"`
	Description string    `bun:"description"`
}

// MigrationFunc runs inside the transaction that records the step.
type MigrationFunc func(ctx context.Context, db bun.IDB) error

type MigrationItem struct {
	Version     string
	Name        string
	Description string
	Up          MigrationFunc
}

// Seeder inserts size sample rows.
type Seeder func(ctx context.Context, db bun.IDB, size int) error

type namedSeeder struct {
	name string
	fn   Seeder
}

var seeders struct {
	sync.RWMutex
	list []namedSeeder
}

// RegisterSeeder adds fn to the seed step and to InitData.
func RegisterSeeder(name string, fn Seeder) {
	seeders.Lock()
	defer seeders.Unlock()
	seeders.list = append(seeders.list, namedSeeder{name: name, fn: fn})
}

func seederSnapshot() []namedSeeder {
	seeders.RLock()
	defer seeders.RUnlock()
	return append([]namedSeeder(nil), seeders.list...)
}

// MigrationManager applies each enabled step at most once.
type MigrationManager struct {
	db     *bun.DB
	logger Logger
	config *Config
}

func NewMigrationManager(db *bun.DB, logger Logger, config *Config) *MigrationManager {
	if config == nil {
		config = &Config{}
	}
	return &MigrationManager{db: db, logger: logger, config: config}
}

// Migrations lists the steps the configuration enables, by version.
func (mm *MigrationManager) Migrations() []MigrationItem {
	all := []struct {
		enabled bool
		item    MigrationItem
	}{
		{true, MigrationItem{"001", "create_base_tables", "Create tables for registered models", mm.createTables}},
		// sqlite has no ALTER TABLE ... ADD CONSTRAINT
		{mm.config.DataMigrateConfig.EnableForeignKey && mm.db.Dialect().Name() != dialect.SQLite,
			MigrationItem{"002", "add_foreign_keys", "Add foreign key constraints", mm.addForeignKeys}},
		{mm.config.DataInitConfig.SeedSampleMembers,
			MigrationItem{"003", "seed_sample_members", "Insert sample members", mm.seed}},
	}
	var items []MigrationItem
	for _, m := range all {
		if m.enabled {
			items = append(items, m.item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Version < items[j].Version })
	return items
}

// RunMigrations applies pending steps. Query logging is muted unless
// BUNDEBUG_MIGRATION is set.
func (mm *MigrationManager) RunMigrations(ctx context.Context) error {
	if mm.db == nil {
		return ErrNotInitialized
	}
	if _, verbose := os.LookupEnv("BUNDEBUG_MIGRATION"); !verbose {
		EnableQuerySilent(true)
		defer EnableQuerySilent(false)
	}

	if _, err := mm.db.NewCreateTable().Model((*Migration)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}
	applied := 0
	for _, item := range mm.Migrations() {
		ran, err := mm.apply(ctx, item)
		if err != nil {
			return fmt.Errorf("migration %s (%s): %w", item.Version, item.Name, err)
		}
		if ran {
			applied++
		}
	}
	mm.info("Migrations up to date", "applied", applied)
	return nil
}

func (mm *MigrationManager) apply(ctx context.Context, item MigrationItem) (bool, error) {
	done, err := mm.db.NewSelect().Model((*Migration)(nil)).Where("version = ?", item.Version).Exists(ctx)
	if err != nil || done {
		return false, err
	}
	err = mm.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := item.Up(ctx, tx); err != nil {
			return err
		}
		record := &Migration{Version: item.Version, Name: item.Name, Description: item.Description, AppliedAt: time.Now()}
		_, err := tx.NewInsert().Model(record).Exec(ctx)
		return err
	})
	if err != nil {
		return false, err
	}
	mm.info("Applied migration", "version", item.Version, "name", item.Name)
	return true, nil
}

func (mm *MigrationManager) createTables(ctx context.Context, db bun.IDB) error {
	for _, model := range RegisteredModelInstances() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}
	return nil
}

func (mm *MigrationManager) addForeignKeys(ctx context.Context, db bun.IDB) error {
	keys := ResolveForeignKeys(mm.config.DataMigrateConfig.ForeignKeyFile, mm.logger)
	if err := keys.Validate(); err != nil {
		return fmt.Errorf("invalid foreign keys: %w", err)
	}
	keys.Apply(ctx, db, mm.logger)
	return nil
}

// InitData runs every seeder in one transaction without recording a
// migration, so each call inserts another batch.
func (mm *MigrationManager) InitData(ctx context.Context) error {
	if mm.db == nil {
		return ErrNotInitialized
	}
	return mm.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return mm.seed(ctx, tx)
	})
}

func (mm *MigrationManager) seed(ctx context.Context, db bun.IDB) error {
	size := mm.config.DataInitConfig.SampleSize
	if size <= 0 {
		size = 100
	}
	for _, s := range seederSnapshot() {
		if err := s.fn(ctx, db, size); err != nil {
			return fmt.Errorf("seed %s: %w", s.name, err)
		}
		mm.info("Seeded sample rows", "seeder", s.name, "size", size)
	}
	return nil
}

// AppliedMigrations returns the recorded steps by version.
func (mm *MigrationManager) AppliedMigrations(ctx context.Context) ([]Migration, error) {
	var records []Migration
	err := mm.db.NewSelect().Model(&records).Order("version ASC").Scan(ctx)
	return records, err
}

func (mm *MigrationManager) info(msg string, fields ...interface{}) {
	if mm.logger != nil {
		mm.logger.Info(msg, fields...)
	}
}
