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
	"context"

	"github.com/tomoncle/datajpa/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

// CrudRepository defines basic CRUD operations for a generic entity type.
type CrudRepository[T any] interface {
	// FindByID returns ErrNotFound when no row has the id.
	FindByID(ctx context.Context, id any) (*T, error)

	ExistsByID(ctx context.Context, id any) (bool, error)

	FindAll(ctx context.Context) ([]*T, error)

	FindAllSorted(ctx context.Context, sort types.Sort) ([]*T, error)

	FindAllByIDs(ctx context.Context, ids ...any) ([]*T, error)

	Count(ctx context.Context) (int64, error)

	List(ctx context.Context, filter *types.QueryFilter) ([]*T, error)

	Query(ctx context.Context, query string, args ...interface{}) ([]*T, error)

	// Save inserts a new entity and updates an existing one. An entity is
	// new when it implements entity.Persistable and says so, or else when
	// its primary key is the zero value.
	Save(ctx context.Context, entity *T) (*T, error)

	SaveAll(ctx context.Context, entities ...*T) ([]*T, error)

	Upsert(ctx context.Context, fields []string, duplicateKeys []string, entity ...*T) error

	Delete(ctx context.Context, entity *T) error

	DeleteByID(ctx context.Context, id any) error

	DeleteAll(ctx context.Context) error
}

// PagingRepository returns pages of entities.
type PagingRepository[T any] interface {
	FindPage(ctx context.Context, pageable *types.PageRequest) (*types.Page[T], error)
}

// SpecificationExecutor runs queries narrowed by a Specification.
type SpecificationExecutor[T any] interface {
	FindAllBySpec(ctx context.Context, spec Specification[T], sort types.Sort) ([]*T, error)
	FindPageBySpec(ctx context.Context, spec Specification[T], pageable *types.PageRequest) (*types.Page[T], error)
	CountBySpec(ctx context.Context, spec Specification[T]) (int64, error)
}

// TransactionRepository defines CRUD operations executed within a transaction.
type TransactionRepository[T any] interface {
	CreateWithTx(ctx context.Context, tx *bun.Tx, entity ...*T) error
	UpsertWithTx(ctx context.Context, tx *bun.Tx, fields []string, duplicateKeys []string, entity ...*T) error
	UpdateWithTx(ctx context.Context, tx *bun.Tx, entity *T) error
	DeleteWithTx(ctx context.Context, tx *bun.Tx, id any) error
	// RunInTx calls fn with a repository bound to a new transaction, which
	// is committed when fn returns nil and rolled back otherwise.
	RunInTx(ctx context.Context, fn func(ctx context.Context, repo Repository[T]) error) error
}

// Repository combines CRUD, paging, specification and transactional
// operations and exposes bun query builders for advanced use cases.
type Repository[T any] interface {
	CrudRepository[T]
	PagingRepository[T]
	SpecificationExecutor[T]
	TransactionRepository[T]
	DB() bun.IDB
	Table() *schema.Table
	Dialect() schema.Dialect
	NewSelect() *bun.SelectQuery
	NewInsert() *bun.InsertQuery
	NewUpdate() *bun.UpdateQuery
	NewDelete() *bun.DeleteQuery
}
