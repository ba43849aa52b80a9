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
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/uptrace/bun"
)

// ErrNotInitialized is returned by the package level helpers before InitDB.
var ErrNotInitialized = errors.New("database not initialized")

var supportedTypes = []string{"mysql", "postgres", "postgresql", "sqlite", "sqlite3"}

// The process wide database is either owned by a manager (InitDB) or
// borrowed from the caller (UseDB).
var global struct {
	sync.RWMutex
	manager AbstractDatabaseManager
	db      *bun.DB
}

// GetDB returns the process wide database, or nil before InitDB or UseDB.
// A database opened by InitDB is read from its manager.
func GetDB() *bun.DB {
	global.RLock()
	defer global.RUnlock()
	if global.manager != nil {
		return global.manager.GetDB()
	}
	return global.db
}

// UseDB installs an already opened database as the global one. The caller
// keeps ownership: CloseDB will not close it.
func UseDB(db *bun.DB) {
	global.Lock()
	defer global.Unlock()
	global.manager, global.db = nil, db
}

// GetDatabaseManager returns the manager created by InitDB, if any.
func GetDatabaseManager() AbstractDatabaseManager {
	global.RLock()
	defer global.RUnlock()
	return global.manager
}

// ValidateType reports an error for database types no dialect exists for.
func ValidateType(t string) error {
	_, err := backendFor(t)
	return err
}

// InitDB connects the global database, running migrations when
// EnableMigrateOnStartup is set.
func InitDB(ctx context.Context, cfg *Config) (*bun.DB, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration cannot be empty")
	}
	return InitDatabaseWithOptions(ctx, cfg, cfg.DataMigrateConfig.EnableMigrateOnStartup)
}

func InitDatabaseWithOptions(ctx context.Context, cfg *Config, runMigrations bool) (*bun.DB, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration cannot be empty")
	}
	if err := ValidateType(cfg.ConnectionConfig.Type); err != nil {
		return nil, err
	}
	manager := NewDatabaseManager(cfg)
	if err := manager.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if runMigrations {
		if err := manager.RunMigrations(ctx); err != nil {
			_ = manager.Disconnect()
			return nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
	}
	GetLogger().Info("Database initialization completed", "type", cfg.ConnectionConfig.Type, "migrated", runMigrations)

	global.Lock()
	defer global.Unlock()
	if global.manager != nil {
		_ = global.manager.Disconnect()
	}
	global.manager, global.db = manager, manager.GetDB()
	return global.db, nil
}

// CloseDB disconnects a database opened by InitDB and forgets the global
// database either way.
func CloseDB() error {
	global.Lock()
	defer global.Unlock()
	manager := global.manager
	global.manager, global.db = nil, nil
	if manager != nil {
		return manager.Disconnect()
	}
	return nil
}

func GetHealthStatus(ctx context.Context) *HealthStatus {
	global.RLock()
	manager, db := global.manager, global.db
	global.RUnlock()
	switch {
	case manager != nil:
		return manager.HealthCheck(ctx)
	case db != nil:
		start := time.Now()
		status := &HealthStatus{Connected: true, Healthy: true, LastCheckTime: start}
		if err := db.PingContext(ctx); err != nil {
			status.Healthy, status.Connected, status.LastError = false, false, err.Error()
		}
		status.ResponseTime = time.Since(start)
		return status
	default:
		return &HealthStatus{LastError: ErrNotInitialized.Error(), LastCheckTime: time.Now()}
	}
}

func GetDatabaseStats() *DBStats {
	if manager := GetDatabaseManager(); manager != nil {
		return manager.GetStats()
	}
	return &DBStats{}
}

func RunMigrations(ctx context.Context) error {
	manager := GetDatabaseManager()
	if manager == nil {
		return ErrNotInitialized
	}
	return manager.RunMigrations(ctx)
}

// InitData runs the registered seeders against the global database.
func InitData(ctx context.Context) error {
	manager := GetDatabaseManager()
	if manager == nil {
		return ErrNotInitialized
	}
	return manager.InitData(ctx)
}
