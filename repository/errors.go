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

package repository

import (
	"errors"
	"fmt"

	"github.com/tomoncle/datajpa/database"
)

var (
	// ErrNotFound is returned when a lookup by id or by a unique key
	// matches no row.
	ErrNotFound = errors.New("entity not found")
	// ErrIncorrectResultSize is returned when a single-result query
	// matches more than one row.
	ErrIncorrectResultSize = errors.New("incorrect result size")
	ErrDuplicateKey        = errors.New("duplicate key")
	ErrInvalidSort         = errors.New("invalid sort property")
)

// TranslateError maps driver errors onto the repository sentinels while
// keeping the original error in the chain.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicateKey) {
		return err
	}
	if is, kind := database.IsSqlError(err); is {
		switch kind {
		case database.NoRowsErr:
			return fmt.Errorf("%w: %w", ErrNotFound, err)
		case database.DuplicateKeyErr:
			return fmt.Errorf("%w: %w", ErrDuplicateKey, err)
		}
	}
	return err
}
