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

// Package dbtest opens migrated in-memory sqlite databases for tests.
package dbtest

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tomoncle/datajpa/database"
	"github.com/uptrace/bun"
)

// Option adjusts the configuration before the database is opened.
type Option func(*database.Config)

// WithSampleMembers seeds size rows through the registered seeders.
func WithSampleMembers(size int) Option {
	return func(cfg *database.Config) {
		cfg.DataInitConfig.SeedSampleMembers = true
		cfg.DataInitConfig.SampleSize = size
	}
}

// WithQueryLog prints every statement the test runs.
func WithQueryLog() Option {
	return func(cfg *database.Config) {
		cfg.ConnectionConfig.EnableQueryLog = true
	}
}

// Config returns the configuration Open uses for t.
func Config(t testing.TB, opts ...Option) *database.Config {
	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	cfg := &database.Config{ConnectionConfig: *database.DefaultConnectionConfig()}
	cfg.ConnectionConfig.Type = "sqlite"
	cfg.ConnectionConfig.DBName = "file:" + name + "?mode=memory&cache=shared"
	cfg.ConnectionConfig.HealthCheckInterval = 0
	cfg.ConnectionConfig.SlowQueryTime = 0
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Open returns a database private to t with every registered model
// migrated. It is closed when the test ends.
func Open(t testing.TB, opts ...Option) *bun.DB {
	t.Helper()
	ctx := context.Background()
	manager := database.NewDatabaseManager(Config(t, opts...))
	require.NoError(t, manager.Connect(ctx))
	t.Cleanup(func() { _ = manager.Disconnect() })
	require.NoError(t, manager.RunMigrations(ctx))
	return manager.GetDB()
}
