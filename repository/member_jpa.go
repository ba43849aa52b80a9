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
	"database/sql"
	"errors"

	"github.com/tomoncle/datajpa/entity"
	"github.com/uptrace/bun"
)

// MemberJpaRepository is the member store written directly on bun queries,
// without the generic repository.
type MemberJpaRepository struct {
	db bun.IDB
}

func NewMemberJpaRepository(db bun.IDB) *MemberJpaRepository {
	return &MemberJpaRepository{db: db}
}

func (r *MemberJpaRepository) Save(ctx context.Context, m *entity.Member) (*entity.Member, error) {
	if _, err := r.db.NewInsert().Model(m).Exec(ctx); err != nil {
		return nil, TranslateError(err)
	}
	return m, nil
}

// Update writes every column of m except the created audit columns.
func (r *MemberJpaRepository) Update(ctx context.Context, m *entity.Member) error {
	_, err := r.db.NewUpdate().Model(m).WherePK().ExcludeColumn(entity.AuditColumns...).Exec(ctx)
	return TranslateError(err)
}

// Find returns nil when no member has id.
func (r *MemberJpaRepository) Find(ctx context.Context, id int64) (*entity.Member, error) {
	m := new(entity.Member)
	err := r.db.NewSelect().Model(m).Where("?TableAlias.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, TranslateError(err)
	}
	return m, nil
}

func (r *MemberJpaRepository) FindByID(ctx context.Context, id int64) (*entity.Member, bool, error) {
	m, err := r.Find(ctx, id)
	return m, m != nil, err
}

func (r *MemberJpaRepository) Delete(ctx context.Context, m *entity.Member) error {
	_, err := r.db.NewDelete().Model(m).WherePK().Exec(ctx)
	return TranslateError(err)
}

func (r *MemberJpaRepository) FindAll(ctx context.Context) ([]*entity.Member, error) {
	members := make([]*entity.Member, 0)
	if err := r.db.NewSelect().Model(&members).OrderExpr("?TableAlias.id").Scan(ctx); err != nil {
		return nil, TranslateError(err)
	}
	return members, nil
}

func (r *MemberJpaRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.db.NewSelect().Model((*entity.Member)(nil)).Count(ctx)
	return int64(n), TranslateError(err)
}

func (r *MemberJpaRepository) FindByUsernameAndAgeGreaterThan(ctx context.Context, username string, age int) ([]*entity.Member, error) {
	members := make([]*entity.Member, 0)
	err := r.db.NewSelect().
		Model(&members).
		Where("?TableAlias.username = ?", username).
		Where("?TableAlias.age > ?", age).
		OrderExpr("?TableAlias.id").
		Scan(ctx)
	if err != nil {
		return nil, TranslateError(err)
	}
	return members, nil
}

// FindByUsername runs the MemberFindByUsername named query.
func (r *MemberJpaRepository) FindByUsername(ctx context.Context, username string) ([]*entity.Member, error) {
	members := make([]*entity.Member, 0)
	err := r.db.NewSelect().Model(&members).Where(MemberFindByUsername, username).OrderExpr("?TableAlias.id").Scan(ctx)
	if err != nil {
		return nil, TranslateError(err)
	}
	return members, nil
}

// FindByPage returns members of the given age ordered by username
// descending, skipping offset rows.
func (r *MemberJpaRepository) FindByPage(ctx context.Context, age, offset, limit int) ([]*entity.Member, error) {
	members := make([]*entity.Member, 0)
	err := r.db.NewSelect().
		Model(&members).
		Where("?TableAlias.age = ?", age).
		OrderExpr("?TableAlias.username DESC").
		Offset(offset).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, TranslateError(err)
	}
	return members, nil
}

func (r *MemberJpaRepository) TotalCount(ctx context.Context, age int) (int64, error) {
	n, err := r.db.NewSelect().Model((*entity.Member)(nil)).Where("?TableAlias.age = ?", age).Count(ctx)
	return int64(n), TranslateError(err)
}

// BulkAgePlus adds one to the age of members at least age years old.
func (r *MemberJpaRepository) BulkAgePlus(ctx context.Context, age int) (int, error) {
	res, err := r.db.NewUpdate().
		Model((*entity.Member)(nil)).
		Set("age = age + 1").
		Where("age >= ?", age).
		Exec(ctx)
	if err != nil {
		return 0, TranslateError(err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}
