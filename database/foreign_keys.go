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
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/uptrace/bun"
	"gopkg.in/yaml.v3"
)

// ForeignKey is one "table.column -> reference_table.reference_column"
// constraint. The yaml tags match configs/foreign_keys.yaml.
type ForeignKey struct {
	Table           string `yaml:"table"`
	Column          string `yaml:"column"`
	ReferenceTable  string `yaml:"reference_table"`
	ReferenceColumn string `yaml:"reference_column"`
	OnDelete        string `yaml:"on_delete,omitempty"`
	OnUpdate        string `yaml:"on_update,omitempty"`
	Name            string `yaml:"constraint_name,omitempty"`
	Description     string `yaml:"description,omitempty"`
}

// ConstraintName defaults to fk_<table>_<column>.
func (fk ForeignKey) ConstraintName() string {
	if fk.Name != "" {
		return fk.Name
	}
	return "fk_" + fk.Table + "_" + fk.Column
}

// AlterSQL renders the ALTER TABLE statement adding the constraint.
func (fk ForeignKey) AlterSQL() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s(%s)",
		fk.Table, fk.ConstraintName(), fk.Column, fk.ReferenceTable, fk.ReferenceColumn)
	if fk.OnDelete != "" {
		b.WriteString(" ON DELETE " + fk.OnDelete)
	}
	if fk.OnUpdate != "" {
		b.WriteString(" ON UPDATE " + fk.OnUpdate)
	}
	return b.String()
}

func (fk ForeignKey) validate() error {
	var errs []error
	for field, v := range map[string]string{
		"table":            fk.Table,
		"column":           fk.Column,
		"reference_table":  fk.ReferenceTable,
		"reference_column": fk.ReferenceColumn,
	} {
		if v == "" {
			errs = append(errs, fmt.Errorf("%s: %s is required", fk.ConstraintName(), field))
		}
	}
	if !isReferentialAction(fk.OnDelete) {
		errs = append(errs, fmt.Errorf("%s: unknown on_delete action %q", fk.ConstraintName(), fk.OnDelete))
	}
	if !isReferentialAction(fk.OnUpdate) {
		errs = append(errs, fmt.Errorf("%s: unknown on_update action %q", fk.ConstraintName(), fk.OnUpdate))
	}
	return errors.Join(errs...)
}

func isReferentialAction(action string) bool {
	switch strings.ToUpper(action) {
	case "", "CASCADE", "RESTRICT", "SET NULL", "NO ACTION":
		return true
	}
	return false
}

// ForeignKeys is an ordered set of constraints.
type ForeignKeys []ForeignKey

// Validate joins every problem found in the set into one error.
func (s ForeignKeys) Validate() error {
	var errs []error
	for _, fk := range s {
		if err := fk.validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ForTable matches table names case-insensitively.
func (s ForeignKeys) ForTable(table string) ForeignKeys {
	var out ForeignKeys
	for _, fk := range s {
		if strings.EqualFold(fk.Table, table) {
			out = append(out, fk)
		}
	}
	return out
}

// Apply adds each constraint. Failures, usually an existing constraint,
// are logged and skipped.
func (s ForeignKeys) Apply(ctx context.Context, db bun.IDB, logger Logger) {
	for _, fk := range s {
		_, err := db.ExecContext(ctx, fk.AlterSQL())
		if logger == nil {
			continue
		}
		if err != nil {
			logger.Debug("Skipped foreign key", "constraint", fk.ConstraintName(), "error", err.Error())
		} else {
			logger.Debug("Added foreign key", "constraint", fk.ConstraintName())
		}
	}
}

type foreignKeyFile struct {
	ForeignKeys ForeignKeys `yaml:"foreign_keys"`
}

// LoadForeignKeys reads a foreign_keys YAML document.
func LoadForeignKeys(path string) (ForeignKeys, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read foreign keys: %w", err)
	}
	var doc foreignKeyFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse foreign keys %s: %w", path, err)
	}
	return doc.ForeignKeys, nil
}

// WriteForeignKeys writes s in the format LoadForeignKeys reads, filling in
// missing descriptions.
func WriteForeignKeys(path string, s ForeignKeys) error {
	out := make(ForeignKeys, len(s))
	for i, fk := range s {
		if fk.Description == "" {
			fk.Description = fmt.Sprintf("%s.%s -> %s.%s", fk.Table, fk.Column, fk.ReferenceTable, fk.ReferenceColumn)
		}
		out[i] = fk
	}
	data, err := yaml.Marshal(foreignKeyFile{ForeignKeys: out})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

var registeredForeignKeys struct {
	sync.RWMutex
	keys ForeignKeys
}

// RegisterForeignKey declares a constraint in code. Entity packages call it
// from init; the declarations apply when no YAML file can be loaded.
func RegisterForeignKey(fk ForeignKey) {
	registeredForeignKeys.Lock()
	defer registeredForeignKeys.Unlock()
	registeredForeignKeys.keys = append(registeredForeignKeys.keys, fk)
}

// RegisteredForeignKeys returns a copy of the code-declared constraints.
func RegisteredForeignKeys() ForeignKeys {
	registeredForeignKeys.RLock()
	defer registeredForeignKeys.RUnlock()
	return append(ForeignKeys(nil), registeredForeignKeys.keys...)
}

// ResolveForeignKeys prefers the YAML file at path and falls back to the
// registered constraints when path is empty or unreadable.
func ResolveForeignKeys(path string, logger Logger) ForeignKeys {
	if path != "" {
		keys, err := LoadForeignKeys(path)
		if err == nil {
			return keys
		}
		if logger != nil {
			logger.Debug("Falling back to registered foreign keys", "path", path, "error", err.Error())
		}
	}
	return RegisteredForeignKeys()
}
