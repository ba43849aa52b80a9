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
	"database/sql"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/extra/bundebug"
)

const pingTimeout = 5 * time.Second

type defaultDatabaseManager struct {
	config *Config
	logger Logger

	mu     sync.RWMutex
	db     *bun.DB
	sqlDB  *sql.DB
	status *HealthStatus

	// stopHealth cancels the background health loop; nil while it is not running.
	stopHealth context.CancelFunc
}

// NewDatabaseManager returns a bun-backed manager. A nil config falls back
// to DefaultConnectionConfig with an in-memory sqlite database.
func NewDatabaseManager(config *Config) AbstractDatabaseManager {
	if config == nil {
		config = &Config{ConnectionConfig: *DefaultConnectionConfig()}
		config.ConnectionConfig.Type = "sqlite"
		config.ConnectionConfig.DBName = ":memory:"
	}
	return &defaultDatabaseManager{
		config: config,
		logger: GetLogger(),
		status: &HealthStatus{},
	}
}

func (dm *defaultDatabaseManager) settings() *ConnectionConfig {
	return &dm.config.ConnectionConfig
}

func (dm *defaultDatabaseManager) Connect(ctx context.Context) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.db != nil {
		return nil
	}
	if err := dm.openLocked(ctx); err != nil {
		return err
	}
	cfg := dm.settings()
	if cfg.HealthCheckInterval > 0 && dm.stopHealth == nil {
		loopCtx, cancel := context.WithCancel(context.Background())
		dm.stopHealth = cancel
		go dm.healthLoop(loopCtx, cfg.HealthCheckInterval)
	}
	dm.logger.Info("Connected to database", "type", cfg.Type, "host", cfg.Host, "dbname", cfg.DBName)
	return nil
}

// openLocked opens, sizes and pings a new pool. dm.mu must be held.
func (dm *defaultDatabaseManager) openLocked(ctx context.Context) error {
	cfg := dm.settings()
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 30 * time.Second
	}
	b, err := backendFor(cfg.Type)
	if err != nil {
		return err
	}
	sqlDB, db, err := b.open(cfg)
	if err != nil {
		return fmt.Errorf("open %s database: %w", cfg.Type, err)
	}
	dm.addHooks(db)
	sizePool(sqlDB, cfg)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping %s database: %w", cfg.Type, err)
	}

	db.RegisterModel(RegisteredModelInstances()...)
	dm.db, dm.sqlDB = db, sqlDB
	return nil
}

func (dm *defaultDatabaseManager) addHooks(db *bun.DB) {
	for _, h := range queryHooks(dm.settings(), dm.logger) {
		db.AddQueryHook(h)
	}
}

// queryHooks prints SQL through QueryHook when query logging is on. With it
// off, setting BUNDEBUG (1 failed, 2 all) turns on bun's own debug hook.
func queryHooks(cfg *ConnectionConfig, logger Logger) []bun.QueryHook {
	var hooks []bun.QueryHook
	if cfg.EnableQueryLog {
		hooks = append(hooks, NewQueryHook(WithVerbose(true), WithQueryEnv("DB_QUERY_LOG")))
	} else if _, ok := os.LookupEnv("BUNDEBUG"); ok {
		hooks = append(hooks, bundebug.NewQueryHook(bundebug.FromEnv("BUNDEBUG")))
	}
	if cfg.SlowQueryTime > 0 {
		hooks = append(hooks, NewSlowQueryHook(cfg.SlowQueryTime, logger))
	}
	return hooks
}

func sizePool(sqlDB *sql.DB, cfg *ConnectionConfig) {
	if isMemorySQLite(cfg) {
		// a second connection would open a second, empty database
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
		sqlDB.SetConnMaxIdleTime(0)
		return
	}
	sqlDB.SetMaxIdleConns(idleConns(cfg))
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
}

// idleConns falls back to the database/sql default of 2.
func idleConns(cfg *ConnectionConfig) int {
	if cfg.MaxIdleConns > 0 {
		return cfg.MaxIdleConns
	}
	return 2
}

// closeLocked releases the pool. dm.mu must be held.
func (dm *defaultDatabaseManager) closeLocked() error {
	if dm.db == nil {
		return nil
	}
	err := dm.db.Close()
	dm.db, dm.sqlDB = nil, nil
	return err
}

func (dm *defaultDatabaseManager) Disconnect() error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.stopHealth != nil {
		dm.stopHealth()
		dm.stopHealth = nil
	}
	err := dm.closeLocked()
	if err != nil {
		dm.logger.Error("Closing database failed", "error", err)
		return err
	}
	dm.logger.Info("Database closed")
	return nil
}

// Reconnect revalidates the pool in place. The *bun.DB handle stays the
// same, so repositories built on it keep working; idle connections are
// dropped so the next queries dial again. A closed manager opens a new pool.
func (dm *defaultDatabaseManager) Reconnect(ctx context.Context) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.db == nil {
		return dm.openLocked(ctx)
	}
	cfg := dm.settings()
	// the only connection of an in-memory sqlite database holds its data
	if !isMemorySQLite(cfg) {
		dm.sqlDB.SetMaxIdleConns(0)
		dm.sqlDB.SetMaxIdleConns(idleConns(cfg))
	}
	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	return dm.db.PingContext(pingCtx)
}

func (dm *defaultDatabaseManager) Ping(ctx context.Context) error {
	db := dm.GetDB()
	if db == nil {
		return ErrNotInitialized
	}
	return db.PingContext(ctx)
}

func (dm *defaultDatabaseManager) GetDB() *bun.DB {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.db
}

func (dm *defaultDatabaseManager) GetSQLDB() *sql.DB {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.sqlDB
}

func (dm *defaultDatabaseManager) HealthCheck(ctx context.Context) *HealthStatus {
	dm.mu.RLock()
	db, sqlDB := dm.db, dm.sqlDB
	dm.mu.RUnlock()

	start := time.Now()
	status := &HealthStatus{LastCheckTime: start}
	if db == nil {
		status.LastError = ErrNotInitialized.Error()
	} else {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		err := db.PingContext(pingCtx)
		cancel()
		status.ResponseTime = time.Since(start)
		if err != nil {
			status.LastError = err.Error()
		} else {
			status.Healthy = true
			status.Connected = true
		}
		stats := sqlDB.Stats()
		status.ActiveConns = stats.InUse
		status.IdleConns = stats.Idle
		status.MaxOpenConns = stats.MaxOpenConnections
	}

	dm.mu.Lock()
	dm.status = status
	dm.mu.Unlock()
	return status
}

func (dm *defaultDatabaseManager) healthLoop(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if dm.HealthCheck(ctx).Healthy || !dm.settings().EnableReconnect {
			continue
		}
		dm.reconnectWithRetry(ctx)
	}
}

// reconnectWithRetry tries up to MaxReconnectTries times, waiting
// ReconnectInterval before each attempt. It gives up when ctx is cancelled.
func (dm *defaultDatabaseManager) reconnectWithRetry(ctx context.Context) {
	cfg := dm.settings()
	for try := 1; try <= cfg.MaxReconnectTries; try++ {
		select {
		case <-ctx.Done():
			return
		case <-time.After(cfg.ReconnectInterval):
		}
		attemptCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
		err := dm.Reconnect(attemptCtx)
		cancel()
		if err == nil {
			dm.logger.Info("Database reconnected", "try", try)
			return
		}
		dm.logger.Warn("Database reconnect failed", "try", try, "error", err)
	}
	dm.logger.Error("Giving up on database reconnect until next health check", "tries", cfg.MaxReconnectTries)
}

func (dm *defaultDatabaseManager) GetStats() *DBStats {
	sqlDB := dm.GetSQLDB()
	if sqlDB == nil {
		return &DBStats{}
	}
	s := sqlDB.Stats()
	return &DBStats{
		MaxOpenConns:      s.MaxOpenConnections,
		OpenConns:         s.OpenConnections,
		InUse:             s.InUse,
		Idle:              s.Idle,
		WaitCount:         s.WaitCount,
		WaitDuration:      s.WaitDuration,
		MaxIdleClosed:     s.MaxIdleClosed,
		MaxIdleTimeClosed: s.MaxIdleTimeClosed,
		MaxLifetimeClosed: s.MaxLifetimeClosed,
	}
}

func (dm *defaultDatabaseManager) migrator() (*MigrationManager, error) {
	db := dm.GetDB()
	if db == nil {
		return nil, ErrNotInitialized
	}
	return NewMigrationManager(db, dm.logger, dm.config), nil
}

func (dm *defaultDatabaseManager) RunMigrations(ctx context.Context) error {
	m, err := dm.migrator()
	if err != nil {
		return err
	}
	return m.RunMigrations(ctx)
}

func (dm *defaultDatabaseManager) InitData(ctx context.Context) error {
	m, err := dm.migrator()
	if err != nil {
		return err
	}
	return m.InitData(ctx)
}

func (dm *defaultDatabaseManager) SetLogger(logger Logger) {
	if logger == nil {
		return
	}
	dm.mu.Lock()
	defer dm.mu.Unlock()
	dm.logger = logger
}
