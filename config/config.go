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

// Package config reads the service configuration from the environment,
// after loading an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/tomoncle/datajpa/database"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port            int           `env:"PORT" envDefault:"8080"`
		Origin          string        `env:"ORIGIN" envDefault:"*"`
		ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	}

	Log struct {
		Level  string `env:"LOG_LEVEL" envDefault:"info"`
		Format string `env:"CONSOLE_LOG_FORMAT" envDefault:"text"`
	}

	Database struct {
		Type                string        `env:"DB_TYPE" envDefault:"sqlite"`
		Host                string        `env:"DB_HOST" envDefault:"localhost"`
		Port                int           `env:"DB_PORT"`
		Username            string        `env:"DB_USERNAME"`
		Password            string        `env:"DB_PASSWORD"`
		Name                string        `env:"DB_NAME" envDefault:"datajpa"`
		SSLMode             string        `env:"DB_SSLMODE" envDefault:"disable"`
		Charset             string        `env:"DB_CHARSET" envDefault:"utf8mb4"`
		MaxIdleConns        int           `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
		MaxOpenConns        int           `env:"DB_MAX_OPEN_CONNS" envDefault:"100"`
		ConnMaxLifetime     time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"1h"`
		ConnMaxIdleTime     time.Duration `env:"DB_CONN_MAX_IDLE_TIME" envDefault:"30m"`
		ConnectTimeout      time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"10s"`
		ReadTimeout         time.Duration `env:"DB_READ_TIMEOUT" envDefault:"30s"`
		WriteTimeout        time.Duration `env:"DB_WRITE_TIMEOUT" envDefault:"30s"`
		EnableReconnect     bool          `env:"DB_ENABLE_RECONNECT" envDefault:"true"`
		ReconnectInterval   time.Duration `env:"DB_RECONNECT_INTERVAL" envDefault:"5s"`
		MaxReconnectTries   int           `env:"DB_MAX_RECONNECT_TRIES" envDefault:"3"`
		HealthCheckInterval time.Duration `env:"DB_HEALTH_CHECK_INTERVAL" envDefault:"5m"`
		QueryLog            bool          `env:"DB_QUERY_LOG" envDefault:"false"`
		SlowQueryTime       time.Duration `env:"DB_SLOW_QUERY_TIME" envDefault:"2s"`
	}

	Migration struct {
		OnStartup         bool   `env:"DB_MIGRATE_ON_STARTUP" envDefault:"true"`
		ForeignKeys       bool   `env:"DB_FOREIGN_KEYS" envDefault:"true"`
		ForeignKeyFile    string `env:"DB_FOREIGN_KEY_FILE" envDefault:"configs/foreign_keys.yaml"`
		SeedSampleMembers bool   `env:"DB_SEED_SAMPLE_MEMBERS" envDefault:"false"`
		SampleSize        int    `env:"DB_SAMPLE_SIZE" envDefault:"100"`
	}

	Paging struct {
		DefaultSize int  `env:"PAGE_DEFAULT_SIZE" envDefault:"10"`
		MaxSize     int  `env:"PAGE_MAX_SIZE" envDefault:"2000"`
		OneIndexed  bool `env:"PAGE_ONE_INDEXED" envDefault:"false"`
	}
}

// Load reads the given .env files, or .env when none are named, and then
// the process environment. Missing .env files are not an error; variables
// already set in the environment win over the files.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, cfg.validate()
}

// LoadFrom parses vars instead of the process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if err := database.ValidateType(c.Database.Type); err != nil {
		return fmt.Errorf("DB_TYPE: %w", err)
	}
	if c.Paging.DefaultSize < 1 || c.Paging.MaxSize < c.Paging.DefaultSize {
		return fmt.Errorf("invalid paging sizes: default %d, max %d", c.Paging.DefaultSize, c.Paging.MaxSize)
	}
	return nil
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// DatabaseConfig converts the database sections into database.Config.
func (c *Config) DatabaseConfig() *database.Config {
	d := c.Database
	port := d.Port
	if port == 0 {
		switch d.Type {
		case "mysql":
			port = 3306
		case "postgres", "postgresql":
			port = 5432
		}
	}
	return &database.Config{
		ConnectionConfig: database.ConnectionConfig{
			Type:                d.Type,
			Host:                d.Host,
			Port:                port,
			Username:            d.Username,
			Password:            d.Password,
			DBName:              d.Name,
			SSLMode:             d.SSLMode,
			Charset:             d.Charset,
			MaxIdleConns:        d.MaxIdleConns,
			MaxOpenConns:        d.MaxOpenConns,
			ConnMaxLifetime:     d.ConnMaxLifetime,
			ConnMaxIdleTime:     d.ConnMaxIdleTime,
			ConnectTimeout:      d.ConnectTimeout,
			ReadTimeout:         d.ReadTimeout,
			WriteTimeout:        d.WriteTimeout,
			EnableReconnect:     d.EnableReconnect,
			ReconnectInterval:   d.ReconnectInterval,
			MaxReconnectTries:   d.MaxReconnectTries,
			HealthCheckInterval: d.HealthCheckInterval,
			EnableQueryLog:      d.QueryLog,
			SlowQueryTime:       d.SlowQueryTime,
		},
		DataMigrateConfig: database.DataMigrateConfig{
			EnableMigrateOnStartup: c.Migration.OnStartup,
			EnableForeignKey:       c.Migration.ForeignKeys,
			ForeignKeyFile:         c.Migration.ForeignKeyFile,
		},
		DataInitConfig: database.DataInitConfig{
			SeedSampleMembers: c.Migration.SeedSampleMembers,
			SampleSize:        c.Migration.SampleSize,
		},
	}
}
