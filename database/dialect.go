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
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/schema"
)

// backend pairs a database/sql driver with its bun dialect.
type backend struct {
	driver  string
	dsn     func(*ConnectionConfig) string
	dialect func() schema.Dialect
}

var (
	mysqlBackend = backend{
		driver:  "mysql",
		dsn:     MySQLDSN,
		dialect: func() schema.Dialect { return mysqldialect.New() },
	}
	postgresBackend = backend{
		driver:  "postgres",
		dsn:     PostgresDSN,
		dialect: func() schema.Dialect { return pgdialect.New() },
	}
	sqliteBackend = backend{
		driver:  sqliteshim.ShimName,
		dsn:     SQLiteDSN,
		dialect: func() schema.Dialect { return sqlitedialect.New() },
	}
)

// backends is keyed by the lower-cased ConnectionConfig.Type.
var backends = map[string]backend{
	"mysql":      mysqlBackend,
	"postgres":   postgresBackend,
	"postgresql": postgresBackend,
	"sqlite":     sqliteBackend,
	"sqlite3":    sqliteBackend,
}

func backendFor(t string) (backend, error) {
	b, ok := backends[strings.ToLower(t)]
	if !ok {
		return backend{}, fmt.Errorf("unsupported database type: %q, supported types: %v", t, supportedTypes)
	}
	return b, nil
}

func (b backend) open(cfg *ConnectionConfig) (*sql.DB, *bun.DB, error) {
	sqlDB, err := sql.Open(b.driver, b.dsn(cfg))
	if err != nil {
		return nil, nil, err
	}
	return sqlDB, bun.NewDB(sqlDB, b.dialect()), nil
}

// MySQLDSN builds a go-sql-driver/mysql DSN that parses DATETIME columns
// into time.Time.
func MySQLDSN(cfg *ConnectionConfig) string {
	charset := cfg.Charset
	if charset == "" {
		charset = "utf8mb4"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local&timeout=%s&readTimeout=%s&writeTimeout=%s",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.DBName, charset,
		cfg.ConnectTimeout, cfg.ReadTimeout, cfg.WriteTimeout)
}

// PostgresDSN builds a lib/pq URL; sslmode defaults to disable.
func PostgresDSN(cfg *ConnectionConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s&connect_timeout=%d",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.DBName, sslMode,
		int(cfg.ConnectTimeout.Seconds()))
}

// SQLiteDSN keeps ":memory:" and "file:" names as they are and turns any
// other name into "<name>.db".
func SQLiteDSN(cfg *ConnectionConfig) string {
	name := cfg.DBName
	switch {
	case name == "":
		return ":memory:"
	case name == ":memory:", strings.HasPrefix(name, "file:"), strings.HasSuffix(name, ".db"):
		return name
	default:
		return name + ".db"
	}
}

// isMemorySQLite is true when every new connection would open its own
// empty database.
func isMemorySQLite(cfg *ConnectionConfig) bool {
	if b, err := backendFor(cfg.Type); err != nil || b.driver != sqliteshim.ShimName {
		return false
	}
	dsn := SQLiteDSN(cfg)
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory")
}
