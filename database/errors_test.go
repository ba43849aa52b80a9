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
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsSqlError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		is   bool
		kind SQLError
	}{
		{"nil", nil, false, UnknownErr},
		{"no rows", fmt.Errorf("find member: %w", sql.ErrNoRows), true, NoRowsErr},
		{"mysql duplicate", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, true, DuplicateKeyErr},
		{"mysql unknown number", &mysql.MySQLError{Number: 9999}, true, UnknownErr},
		{"postgres fk", &pq.Error{Code: "23503"}, true, ForeignKeyViolationErr},
		{"wrapped postgres unique", fmt.Errorf("save: %w", &pq.Error{Code: "23505"}), true, DuplicateKeyErr},
		{"sqlite unique", errors.New("constraint failed: UNIQUE constraint failed: member.member_id (1555)"), true, DuplicateKeyErr},
		{"sqlite not null", errors.New("NOT NULL constraint failed: team.name"), true, NotNullViolationErr},
		{"sqlite no table", errors.New("SQL logic error: no such table: member (1)"), true, NoTableErr},
		{"sqlite table exists", errors.New("table member already exists"), true, ExistTableErr},
		{"plain", errors.New("connection refused"), false, UnknownErr},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			is, kind := IsSqlError(tc.err)
			assert.Equal(t, tc.is, is)
			assert.Equal(t, tc.kind, kind, kind.String())
		})
	}
}

func TestSQLErrorString(t *testing.T) {
	assert.Equal(t, "duplicate_key", DuplicateKeyErr.String())
	assert.Equal(t, "unknown", SQLError(99).String())
}
