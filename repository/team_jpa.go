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

type TeamJpaRepository struct {
	db bun.IDB
}

func NewTeamJpaRepository(db bun.IDB) *TeamJpaRepository {
	return &TeamJpaRepository{db: db}
}

func (r *TeamJpaRepository) Save(ctx context.Context, t *entity.Team) (*entity.Team, error) {
	if _, err := r.db.NewInsert().Model(t).Exec(ctx); err != nil {
		return nil, TranslateError(err)
	}
	return t, nil
}

func (r *TeamJpaRepository) Find(ctx context.Context, id int64) (*entity.Team, error) {
	t := new(entity.Team)
	err := r.db.NewSelect().Model(t).Where("?TableAlias.team_id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, TranslateError(err)
	}
	return t, nil
}

func (r *TeamJpaRepository) FindByID(ctx context.Context, id int64) (*entity.Team, bool, error) {
	t, err := r.Find(ctx, id)
	return t, t != nil, err
}

func (r *TeamJpaRepository) Delete(ctx context.Context, t *entity.Team) error {
	_, err := r.db.NewDelete().Model(t).WherePK().Exec(ctx)
	return TranslateError(err)
}

func (r *TeamJpaRepository) FindAll(ctx context.Context) ([]*entity.Team, error) {
	teams := make([]*entity.Team, 0)
	if err := r.db.NewSelect().Model(&teams).OrderExpr("?TableAlias.team_id").Scan(ctx); err != nil {
		return nil, TranslateError(err)
	}
	return teams, nil
}

func (r *TeamJpaRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.db.NewSelect().Model((*entity.Team)(nil)).Count(ctx)
	return int64(n), TranslateError(err)
}
