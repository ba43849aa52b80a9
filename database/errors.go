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
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// SQLError is a driver-independent error kind.
type SQLError int

const (
	UnknownErr SQLError = iota
	NoRowsErr
	NoIndexErr
	NoColumnErr
	ExistIndexErr
	ExistColumnErr
	NoTableErr
	ExistTableErr
	DuplicateKeyErr
	NotNullViolationErr
	ForeignKeyViolationErr
	CheckConstraintViolationErr
	DataTruncatedErr
	InvalidTypeCastErr
)

func (e SQLError) String() string {
	names := [...]string{
		"unknown", "no_rows", "no_index", "no_column", "exist_index", "exist_column",
		"no_table", "exist_table", "duplicate_key", "not_null_violation",
		"foreign_key_violation", "check_violation", "data_truncated", "invalid_type_cast",
	}
	if e < 0 || int(e) >= len(names) {
		return names[UnknownErr]
	}
	return names[e]
}

// mysql server error numbers
var mysqlKinds = map[uint16]SQLError{
	1048: NotNullViolationErr,
	1050: ExistTableErr,
	1054: NoColumnErr,
	1060: ExistColumnErr,
	1061: ExistIndexErr,
	1062: DuplicateKeyErr,
	1091: NoIndexErr,
	1146: NoTableErr,
	1216: ForeignKeyViolationErr,
	1217: ForeignKeyViolationErr,
	1265: DataTruncatedErr,
	1406: DataTruncatedErr,
	1451: ForeignKeyViolationErr,
	1452: ForeignKeyViolationErr,
	3819: CheckConstraintViolationErr,
}

// postgres SQLSTATE codes
var postgresKinds = map[pq.ErrorCode]SQLError{
	"22001": DataTruncatedErr,
	"23502": NotNullViolationErr,
	"23503": ForeignKeyViolationErr,
	"23505": DuplicateKeyErr,
	"23514": CheckConstraintViolationErr,
	"42701": ExistColumnErr,
	"42703": NoColumnErr,
	"42704": NoIndexErr,
	"42804": InvalidTypeCastErr,
	"42P01": NoTableErr,
	"42P07": ExistTableErr,
}

// messagePattern matches when the lower-cased message contains any of
// anyOf and, if set, one of alsoOneOf.
type messagePattern struct {
	kind      SQLError
	anyOf     []string
	alsoOneOf []string
}

// Checked in order; sqlite only reports errors as text.
var messagePatterns = []messagePattern{
	{kind: NoColumnErr, anyOf: []string{"sqlstate 42703", "undefined column", "no such column", "has no column named"}},
	{kind: NoIndexErr, anyOf: []string{"sqlstate 42704", "no such index"}},
	{kind: NoTableErr, anyOf: []string{"sqlstate 42p01", "undefined table", "no such table"}},
	{kind: ExistIndexErr, anyOf: []string{"already exists"}, alsoOneOf: []string{"index"}},
	{kind: ExistTableErr, anyOf: []string{"already exists"}, alsoOneOf: []string{"table", "relation"}},
	{kind: ExistColumnErr, anyOf: []string{"duplicate column name"}},
	{kind: DuplicateKeyErr, anyOf: []string{"duplicate key value", "unique constraint failed", "sqlstate 23505"}},
	{kind: NotNullViolationErr, anyOf: []string{"not-null constraint", "not null constraint failed", "sqlstate 23502"}},
	{kind: ForeignKeyViolationErr, anyOf: []string{"foreign key violation", "foreign key constraint failed", "sqlstate 23503"}},
	{kind: CheckConstraintViolationErr, anyOf: []string{"check constraint", "sqlstate 23514"}},
	{kind: DataTruncatedErr, anyOf: []string{"string data right truncation", "data truncated", "sqlstate 22001"}},
	{kind: InvalidTypeCastErr, anyOf: []string{"datatype mismatch", "sqlstate 42804"}},
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// IsSqlError classifies a driver error. The boolean is false when err is
// nil or does not look like a database error.
func IsSqlError(err error) (bool, SQLError) {
	if err == nil {
		return false, UnknownErr
	}
	if errors.Is(err, sql.ErrNoRows) {
		return true, NoRowsErr
	}
	if myErr := (*mysql.MySQLError)(nil); errors.As(err, &myErr) {
		return true, mysqlKinds[myErr.Number]
	}
	if pgErr := (*pq.Error)(nil); errors.As(err, &pgErr) {
		return true, postgresKinds[pgErr.Code]
	}
	msg := strings.ToLower(err.Error())
	for _, p := range messagePatterns {
		if containsAny(msg, p.anyOf) && (p.alsoOneOf == nil || containsAny(msg, p.alsoOneOf)) {
			return true, p.kind
		}
	}
	return false, UnknownErr
}
