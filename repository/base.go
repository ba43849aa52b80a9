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
	"fmt"
	"reflect"
	"strings"

	"github.com/tomoncle/datajpa/entity"
	"github.com/tomoncle/datajpa/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/feature"
	"github.com/uptrace/bun/schema"
)

type baseRepositoryImpl[T any] struct {
	db    bun.IDB
	table *schema.Table
}

// NewRepository returns a generic repository for the bun model T. db may be
// a *bun.DB or a bun.Tx.
func NewRepository[T any](db bun.IDB) Repository[T] {
	return newBaseRepository[T](db)
}

func newBaseRepository[T any](db bun.IDB) *baseRepositoryImpl[T] {
	return &baseRepositoryImpl[T]{
		db:    db,
		table: db.Dialect().Tables().Get(reflect.TypeOf((*T)(nil)).Elem()),
	}
}

func (r *baseRepositoryImpl[T]) DB() bun.IDB { return r.db }

func (r *baseRepositoryImpl[T]) Table() *schema.Table { return r.table }

func (r *baseRepositoryImpl[T]) Dialect() schema.Dialect { return r.db.Dialect() }

func (r *baseRepositoryImpl[T]) NewSelect() *bun.SelectQuery { return r.db.NewSelect() }

func (r *baseRepositoryImpl[T]) NewInsert() *bun.InsertQuery { return r.db.NewInsert() }

func (r *baseRepositoryImpl[T]) NewUpdate() *bun.UpdateQuery { return r.db.NewUpdate() }

func (r *baseRepositoryImpl[T]) NewDelete() *bun.DeleteQuery { return r.db.NewDelete() }

func (r *baseRepositoryImpl[T]) pk() bun.Ident {
	return bun.Ident(r.table.PKs[0].Name)
}

func (r *baseRepositoryImpl[T]) isNew(e *T) bool {
	if p, ok := any(e).(entity.Persistable); ok {
		return p.IsNew()
	}
	v := reflect.ValueOf(e).Elem()
	for _, f := range r.table.PKs {
		if !f.Value(v).IsZero() {
			return false
		}
	}
	return true
}

func (r *baseRepositoryImpl[T]) auditExcludes() []string {
	var out []string
	for _, c := range entity.AuditColumns {
		if _, ok := r.table.FieldMap[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// hasUpdatableColumns is false for models whose only non-key columns are
// created audit columns; saving a stored one of those is a no-op.
func (r *baseRepositoryImpl[T]) hasUpdatableColumns() bool {
	return len(r.table.DataFields) > len(r.auditExcludes())
}

func (r *baseRepositoryImpl[T]) updateQuery(db bun.IDB, e *T) *bun.UpdateQuery {
	q := db.NewUpdate().Model(e).WherePK()
	if ex := r.auditExcludes(); len(ex) > 0 {
		q = q.ExcludeColumn(ex...)
	}
	return q
}

func (r *baseRepositoryImpl[T]) FindByID(ctx context.Context, id any) (*T, error) {
	e := new(T)
	err := r.db.NewSelect().Model(e).Where("?TableAlias.? = ?", r.pk(), id).Scan(ctx)
	if err != nil {
		return nil, TranslateError(err)
	}
	return e, nil
}

func (r *baseRepositoryImpl[T]) ExistsByID(ctx context.Context, id any) (bool, error) {
	ok, err := r.db.NewSelect().Model((*T)(nil)).Where("?TableAlias.? = ?", r.pk(), id).Exists(ctx)
	return ok, TranslateError(err)
}

func (r *baseRepositoryImpl[T]) FindAll(ctx context.Context) ([]*T, error) {
	return r.FindAllSorted(ctx, types.Unsorted())
}

func (r *baseRepositoryImpl[T]) FindAllSorted(ctx context.Context, sort types.Sort) ([]*T, error) {
	return r.FindAllBySpec(ctx, nil, sort)
}

func (r *baseRepositoryImpl[T]) FindAllByIDs(ctx context.Context, ids ...any) ([]*T, error) {
	entities := make([]*T, 0)
	if len(ids) == 0 {
		return entities, nil
	}
	err := r.db.NewSelect().Model(&entities).Where("?TableAlias.? IN (?)", r.pk(), bun.In(ids)).Scan(ctx)
	return entities, TranslateError(err)
}

func (r *baseRepositoryImpl[T]) Count(ctx context.Context) (int64, error) {
	return r.CountBySpec(ctx, nil)
}

func (r *baseRepositoryImpl[T]) List(ctx context.Context, filter *types.QueryFilter) ([]*T, error) {
	entities := make([]*T, 0)
	query := r.db.NewSelect().Model(&entities)
	if filter != nil {
		query = query.Where(filter.Schema, filter.Args...)
	}
	if err := query.Scan(ctx); err != nil {
		return nil, TranslateError(err)
	}
	return entities, nil
}

func (r *baseRepositoryImpl[T]) Query(ctx context.Context, query string, args ...interface{}) ([]*T, error) {
	return r.List(ctx, types.NewQueryFilter(query, args...))
}

func (r *baseRepositoryImpl[T]) FindPage(ctx context.Context, pageable *types.PageRequest) (*types.Page[T], error) {
	return r.FindPageBySpec(ctx, nil, pageable)
}

func (r *baseRepositoryImpl[T]) FindAllBySpec(ctx context.Context, spec Specification[T], sort types.Sort) ([]*T, error) {
	entities := make([]*T, 0)
	query, err := applySort(spec.Apply(r.db.NewSelect().Model(&entities)), r.table, sort)
	if err != nil {
		return nil, err
	}
	if err := query.Scan(ctx); err != nil {
		return nil, TranslateError(err)
	}
	return entities, nil
}

func (r *baseRepositoryImpl[T]) FindPageBySpec(ctx context.Context, spec Specification[T], pageable *types.PageRequest) (*types.Page[T], error) {
	entities := make([]*T, 0)
	query := spec.Apply(r.db.NewSelect().Model(&entities))
	if pageable != nil && pageable.GetFilter() != nil {
		query = query.Where(pageable.GetFilter().Schema, pageable.GetFilter().Args...)
	}
	return pageQuery(ctx, r.table, pageable, query, nil, &entities)
}

func (r *baseRepositoryImpl[T]) CountBySpec(ctx context.Context, spec Specification[T]) (int64, error) {
	n, err := spec.Apply(r.db.NewSelect().Model((*T)(nil))).Count(ctx)
	return int64(n), TranslateError(err)
}

func (r *baseRepositoryImpl[T]) Save(ctx context.Context, e *T) (*T, error) {
	return e, r.save(ctx, r.db, e)
}

func (r *baseRepositoryImpl[T]) save(ctx context.Context, db bun.IDB, e *T) error {
	var err error
	if r.isNew(e) {
		_, err = db.NewInsert().Model(e).Exec(ctx)
	} else if r.hasUpdatableColumns() {
		_, err = r.updateQuery(db, e).Exec(ctx)
	}
	return TranslateError(err)
}

// SaveAll saves the entities one by one inside a single transaction.
func (r *baseRepositoryImpl[T]) SaveAll(ctx context.Context, entities ...*T) ([]*T, error) {
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, e := range entities {
			if err := r.save(ctx, tx, e); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entities, nil
}

func (r *baseRepositoryImpl[T]) Upsert(ctx context.Context, fields []string, duplicateKeys []string, entity ...*T) error {
	return r.multipleUpsert(ctx, r.db, fields, duplicateKeys, entity...)
}

func (r *baseRepositoryImpl[T]) Delete(ctx context.Context, e *T) error {
	_, err := r.db.NewDelete().Model(e).WherePK().Exec(ctx)
	return TranslateError(err)
}

func (r *baseRepositoryImpl[T]) DeleteByID(ctx context.Context, id any) error {
	_, err := r.db.NewDelete().Model((*T)(nil)).Where("? = ?", r.pk(), id).Exec(ctx)
	return TranslateError(err)
}

func (r *baseRepositoryImpl[T]) DeleteAll(ctx context.Context) error {
	_, err := r.db.NewDelete().Model((*T)(nil)).Where("1 = 1").Exec(ctx)
	return TranslateError(err)
}

func (r *baseRepositoryImpl[T]) CreateWithTx(ctx context.Context, tx *bun.Tx, entity ...*T) error {
	entities := valsToSlice(entity...)
	_, err := tx.NewInsert().Model(&entities).Exec(ctx)
	return TranslateError(err)
}

func (r *baseRepositoryImpl[T]) UpsertWithTx(ctx context.Context, tx *bun.Tx, fields []string, duplicateKeys []string, entity ...*T) error {
	return r.multipleUpsert(ctx, tx, fields, duplicateKeys, entity...)
}

func (r *baseRepositoryImpl[T]) UpdateWithTx(ctx context.Context, tx *bun.Tx, e *T) error {
	_, err := r.updateQuery(tx, e).Exec(ctx)
	return TranslateError(err)
}

func (r *baseRepositoryImpl[T]) DeleteWithTx(ctx context.Context, tx *bun.Tx, id any) error {
	_, err := tx.NewDelete().Model((*T)(nil)).Where("? = ?", r.pk(), id).Exec(ctx)
	return TranslateError(err)
}

func (r *baseRepositoryImpl[T]) RunInTx(ctx context.Context, fn func(ctx context.Context, repo Repository[T]) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, &baseRepositoryImpl[T]{db: tx, table: r.table})
	})
}

func valsToSlice[T any](entity ...*T) []*T {
	entities := make([]*T, len(entity))
	copy(entities, entity)
	return entities
}

func (r *baseRepositoryImpl[T]) multipleUpsert(ctx context.Context, db bun.IDB, fields []string, duplicateKeys []string, entity ...*T) error {
	if len(fields) == 0 {
		return fmt.Errorf("fields cannot be empty")
	}
	if len(entity) == 0 {
		return nil
	}
	entities := valsToSlice(entity...)

	switch {
	case db.Dialect().Features().Has(feature.InsertOnConflict):
		return r.upsertOnConflict(ctx, db, fields, duplicateKeys, entities)
	case db.Dialect().Features().Has(feature.InsertOnDuplicateKey):
		return r.upsertOnDuplicateKey(ctx, db, fields, entities)
	default:
		return r.upsertFallback(ctx, db, entities)
	}
}

func (r *baseRepositoryImpl[T]) upsertOnDuplicateKey(ctx context.Context, db bun.IDB, fields []string, entities []*T) error {
	sets := make([]string, 0, len(fields))
	for _, field := range fields {
		sets = append(sets, fmt.Sprintf("%s = VALUES(%s)", field, field))
	}
	_, err := db.NewInsert().
		Model(&entities).
		On("DUPLICATE KEY UPDATE " + strings.Join(sets, ", ")).
		Exec(ctx)
	return TranslateError(err)
}

func (r *baseRepositoryImpl[T]) upsertOnConflict(ctx context.Context, db bun.IDB, fields []string, duplicateKeys []string, entities []*T) error {
	if len(duplicateKeys) == 0 {
		for _, f := range r.table.PKs {
			duplicateKeys = append(duplicateKeys, f.Name)
		}
	}
	sets := make([]string, 0, len(fields))
	for _, field := range fields {
		sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", field, field))
	}
	_, err := db.NewInsert().
		Model(&entities).
		On("CONFLICT (" + strings.Join(duplicateKeys, ", ") + ") DO UPDATE").
		Set(strings.Join(sets, ", ")).
		Exec(ctx)
	return TranslateError(err)
}

func (r *baseRepositoryImpl[T]) upsertFallback(ctx context.Context, db bun.IDB, entities []*T) error {
	for _, e := range entities {
		if _, err := db.NewInsert().Model(e).Exec(ctx); err != nil {
			if _, updateErr := r.updateQuery(db, e).Exec(ctx); updateErr != nil {
				return fmt.Errorf("upsert failed: insert error: %v, update error: %w", err, updateErr)
			}
		}
	}
	return nil
}

// pageQuery counts rows with countQuery, or with query when countQuery is
// nil, and loads the requested page with query.
func pageQuery[T any](ctx context.Context, table *schema.Table, pageable *types.PageRequest, query, countQuery *bun.SelectQuery, rows *[]*T) (*types.Page[T], error) {
	if pageable == nil {
		pageable = types.NewDefaultPageRequest(0, types.DefaultPageSize)
	}
	query, err := applySort(query, table, pageable.GetSort())
	if err != nil {
		return nil, err
	}
	if countQuery == nil {
		countQuery = query
	}
	total, err := countQuery.Count(ctx)
	if err != nil {
		return nil, TranslateError(err)
	}
	if total > 0 {
		err = query.Offset(pageable.GetOffset()).Limit(pageable.GetPageSize()).Scan(ctx)
		if err != nil {
			return nil, TranslateError(err)
		}
	}
	return types.NewPage(*rows, pageable, int64(total)), nil
}

// sliceQuery loads one extra row to learn whether a next page exists,
// without a count query.
func sliceQuery[T any](ctx context.Context, table *schema.Table, pageable *types.PageRequest, query *bun.SelectQuery, rows *[]*T) (*types.Slice[T], error) {
	if pageable == nil {
		pageable = types.NewDefaultPageRequest(0, types.DefaultPageSize)
	}
	query, err := applySort(query, table, pageable.GetSort())
	if err != nil {
		return nil, err
	}
	if err := query.Offset(pageable.GetOffset()).Limit(pageable.GetPageSize() + 1).Scan(ctx); err != nil {
		return nil, TranslateError(err)
	}
	return types.NewSlice(*rows, pageable), nil
}
