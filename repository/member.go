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

	"github.com/tomoncle/datajpa/dto"
	"github.com/tomoncle/datajpa/entity"
	"github.com/tomoncle/datajpa/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// Named queries kept apart from the methods that run them.
const (
	MemberFindByUsername = "?TableAlias.username = ?"
)

// MemberRepository is the member repository: the generic operations, the
// custom implementation and one method per member query.
type MemberRepository interface {
	Repository[entity.Member]
	MemberRepositoryCustom

	FindByUsernameAndAgeGreaterThan(ctx context.Context, username string, age int) ([]*entity.Member, error)
	// FindHelloBy returns every member.
	FindHelloBy(ctx context.Context) ([]*entity.Member, error)
	FindFirst2By(ctx context.Context) ([]*entity.Member, error)
	FindTop3By(ctx context.Context) ([]*entity.Member, error)
	FindByUsername(ctx context.Context, username string) ([]*entity.Member, error)
	FindUser(ctx context.Context, username string, age int) ([]*entity.Member, error)
	FindUsernameList(ctx context.Context) ([]string, error)
	// FindMemberDto inner joins team, so members without a team are left out.
	FindMemberDto(ctx context.Context) ([]*dto.MemberDto, error)
	FindByNames(ctx context.Context, names []string) ([]*entity.Member, error)

	// FindListByUsername never returns a nil slice.
	FindListByUsername(ctx context.Context, username string) ([]*entity.Member, error)
	// FindMemberByUsername returns nil without error when nothing matches and
	// ErrIncorrectResultSize when more than one member matches.
	FindMemberByUsername(ctx context.Context, username string) (*entity.Member, error)
	FindOptionalByUsername(ctx context.Context, username string) (*entity.Member, bool, error)

	FindPageByAge(ctx context.Context, age int, pageable *types.PageRequest) (*types.Page[entity.Member], error)
	FindSliceByAge(ctx context.Context, age int, pageable *types.PageRequest) (*types.Slice[entity.Member], error)
	FindListByAge(ctx context.Context, age int, pageable *types.PageRequest) ([]*entity.Member, error)
	// FindMemberAllCountBy loads the team with the page but counts without
	// the join.
	FindMemberAllCountBy(ctx context.Context, age int, pageable *types.PageRequest) (*types.Page[entity.Member], error)
	// BulkAgePlus adds one to the age of every member at least age years
	// old and returns the number of updated rows. Audit columns are left
	// untouched.
	BulkAgePlus(ctx context.Context, age int) (int, error)

	FindMembersFetchJoin(ctx context.Context) ([]*entity.Member, error)
	FindMembersEntityGraph(ctx context.Context) ([]*entity.Member, error)
	FindMembersEntityGraphByUsername(ctx context.Context, username string) ([]*entity.Member, error)
	FindMembersNamedEntityGraphByUsername(ctx context.Context, username string) ([]*entity.Member, error)

	FindReadOnlyByUsername(ctx context.Context, username string) (*entity.Member, error)
	// FindLockByUsername selects with FOR UPDATE on dialects that support
	// row locks. Use it with a repository bound to a transaction.
	FindLockByUsername(ctx context.Context, username string) ([]*entity.Member, error)

	FindProjectionsByUsername(ctx context.Context, username string) ([]*dto.UsernameAndAge, error)
	FindNestedProjectionsByUsername(ctx context.Context, username string) ([]*dto.NestedClosedProjection, error)
	FindUsernameAndAgeDtoByUsername(ctx context.Context, username string) ([]*dto.UsernameAndAgeDto, error)
}

type memberRepository struct {
	*baseRepositoryImpl[entity.Member]
	*memberRepositoryCustomImpl
}

// NewMemberRepository binds the member repository to db, which may be a
// transaction.
func NewMemberRepository(db bun.IDB) MemberRepository {
	return &memberRepository{
		baseRepositoryImpl:         newBaseRepository[entity.Member](db),
		memberRepositoryCustomImpl: &memberRepositoryCustomImpl{conn: db},
	}
}

func (r *memberRepository) list(ctx context.Context, fn func(q *bun.SelectQuery) *bun.SelectQuery) ([]*entity.Member, error) {
	members := make([]*entity.Member, 0)
	q := r.db.NewSelect().Model(&members)
	if fn != nil {
		q = fn(q)
	}
	if err := q.OrderExpr("?TableAlias.id ASC").Scan(ctx); err != nil {
		return nil, TranslateError(err)
	}
	return members, nil
}

// single loads at most two rows to tell a unique match from an ambiguous one.
func (r *memberRepository) single(ctx context.Context, fn func(q *bun.SelectQuery) *bun.SelectQuery) (*entity.Member, error) {
	members, err := r.list(ctx, func(q *bun.SelectQuery) *bun.SelectQuery { return fn(q).Limit(2) })
	if err != nil {
		return nil, err
	}
	switch len(members) {
	case 0:
		return nil, nil
	case 1:
		return members[0], nil
	default:
		return nil, ErrIncorrectResultSize
	}
}

func byUsername(username string) func(q *bun.SelectQuery) *bun.SelectQuery {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.username = ?", username)
	}
}

func withTeam(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Relation("Team")
}

func (r *memberRepository) FindByUsernameAndAgeGreaterThan(ctx context.Context, username string, age int) ([]*entity.Member, error) {
	return r.list(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.username = ?", username).Where("?TableAlias.age > ?", age)
	})
}

func (r *memberRepository) FindHelloBy(ctx context.Context) ([]*entity.Member, error) {
	return r.list(ctx, nil)
}

func (r *memberRepository) FindFirst2By(ctx context.Context) ([]*entity.Member, error) {
	return r.list(ctx, func(q *bun.SelectQuery) *bun.SelectQuery { return q.Limit(2) })
}

func (r *memberRepository) FindTop3By(ctx context.Context) ([]*entity.Member, error) {
	return r.list(ctx, func(q *bun.SelectQuery) *bun.SelectQuery { return q.Limit(3) })
}

func (r *memberRepository) FindByUsername(ctx context.Context, username string) ([]*entity.Member, error) {
	return r.list(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where(MemberFindByUsername, username)
	})
}

func (r *memberRepository) FindUser(ctx context.Context, username string, age int) ([]*entity.Member, error) {
	return r.list(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.username = ? AND ?TableAlias.age = ?", username, age)
	})
}

func (r *memberRepository) FindUsernameList(ctx context.Context) ([]string, error) {
	names := make([]string, 0)
	err := r.db.NewSelect().
		Model((*entity.Member)(nil)).
		Column("username").
		OrderExpr("?TableAlias.id ASC").
		Scan(ctx, &names)
	if err != nil {
		return nil, TranslateError(err)
	}
	return names, nil
}

func (r *memberRepository) FindMemberDto(ctx context.Context) ([]*dto.MemberDto, error) {
	dtos := make([]*dto.MemberDto, 0)
	err := r.db.NewSelect().
		Model((*entity.Member)(nil)).
		ColumnExpr("?TableAlias.id AS id, ?TableAlias.username AS username, t.name AS team_name").
		Join("JOIN team AS t ON t.team_id = ?TableAlias.team_id").
		OrderExpr("?TableAlias.id ASC").
		Scan(ctx, &dtos)
	if err != nil {
		return nil, TranslateError(err)
	}
	return dtos, nil
}

func (r *memberRepository) FindByNames(ctx context.Context, names []string) ([]*entity.Member, error) {
	if len(names) == 0 {
		return make([]*entity.Member, 0), nil
	}
	return r.list(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.username IN (?)", bun.In(names))
	})
}

func (r *memberRepository) FindListByUsername(ctx context.Context, username string) ([]*entity.Member, error) {
	return r.list(ctx, byUsername(username))
}

func (r *memberRepository) FindMemberByUsername(ctx context.Context, username string) (*entity.Member, error) {
	return r.single(ctx, byUsername(username))
}

func (r *memberRepository) FindOptionalByUsername(ctx context.Context, username string) (*entity.Member, bool, error) {
	m, err := r.single(ctx, byUsername(username))
	return m, m != nil, err
}

func (r *memberRepository) byAge(age int, rows *[]*entity.Member) *bun.SelectQuery {
	return r.db.NewSelect().Model(rows).Where("?TableAlias.age = ?", age)
}

func (r *memberRepository) FindPageByAge(ctx context.Context, age int, pageable *types.PageRequest) (*types.Page[entity.Member], error) {
	members := make([]*entity.Member, 0)
	return pageQuery(ctx, r.table, pageable, r.byAge(age, &members), nil, &members)
}

func (r *memberRepository) FindSliceByAge(ctx context.Context, age int, pageable *types.PageRequest) (*types.Slice[entity.Member], error) {
	members := make([]*entity.Member, 0)
	return sliceQuery(ctx, r.table, pageable, r.byAge(age, &members), &members)
}

func (r *memberRepository) FindListByAge(ctx context.Context, age int, pageable *types.PageRequest) ([]*entity.Member, error) {
	if pageable == nil {
		pageable = types.NewDefaultPageRequest(0, types.DefaultPageSize)
	}
	members := make([]*entity.Member, 0)
	q, err := applySort(r.byAge(age, &members), r.table, pageable.GetSort())
	if err != nil {
		return nil, err
	}
	if err := q.Offset(pageable.GetOffset()).Limit(pageable.GetPageSize()).Scan(ctx); err != nil {
		return nil, TranslateError(err)
	}
	return members, nil
}

func (r *memberRepository) FindMemberAllCountBy(ctx context.Context, age int, pageable *types.PageRequest) (*types.Page[entity.Member], error) {
	members := make([]*entity.Member, 0)
	query := withTeam(r.byAge(age, &members))
	count := r.db.NewSelect().Model((*entity.Member)(nil)).Where("?TableAlias.age = ?", age)
	return pageQuery(ctx, r.table, pageable, query, count, &members)
}

func (r *memberRepository) BulkAgePlus(ctx context.Context, age int) (int, error) {
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

func (r *memberRepository) FindMembersFetchJoin(ctx context.Context) ([]*entity.Member, error) {
	return r.list(ctx, withTeam)
}

// FindAll loads every member together with its team.
func (r *memberRepository) FindAll(ctx context.Context) ([]*entity.Member, error) {
	return r.list(ctx, withTeam)
}

func (r *memberRepository) FindMembersEntityGraph(ctx context.Context) ([]*entity.Member, error) {
	return r.list(ctx, withTeam)
}

func (r *memberRepository) FindMembersEntityGraphByUsername(ctx context.Context, username string) ([]*entity.Member, error) {
	return r.list(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return byUsername(username)(withTeam(q))
	})
}

// MemberAll is the named fetch plan that loads a member's team.
var MemberAll = []string{"Team"}

func (r *memberRepository) FindMembersNamedEntityGraphByUsername(ctx context.Context, username string) ([]*entity.Member, error) {
	return r.list(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		for _, rel := range MemberAll {
			q = q.Relation(rel)
		}
		return byUsername(username)(q)
	})
}

// FindReadOnlyByUsername returns a detached member; changing it has no
// effect until it is passed to Save.
func (r *memberRepository) FindReadOnlyByUsername(ctx context.Context, username string) (*entity.Member, error) {
	return r.single(ctx, byUsername(username))
}

func (r *memberRepository) FindLockByUsername(ctx context.Context, username string) ([]*entity.Member, error) {
	return r.list(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		q = byUsername(username)(q)
		if r.db.Dialect().Name() != dialect.SQLite {
			q = q.For("UPDATE")
		}
		return q
	})
}

func (r *memberRepository) FindProjectionsByUsername(ctx context.Context, username string) ([]*dto.UsernameAndAge, error) {
	return FindProjections[dto.UsernameAndAge](ctx, Repository[entity.Member](r), usernameSpec(username))
}

func (r *memberRepository) FindNestedProjectionsByUsername(ctx context.Context, username string) ([]*dto.NestedClosedProjection, error) {
	return FindProjections[dto.NestedClosedProjection](ctx, Repository[entity.Member](r), usernameSpec(username))
}

func (r *memberRepository) FindUsernameAndAgeDtoByUsername(ctx context.Context, username string) ([]*dto.UsernameAndAgeDto, error) {
	rows, err := r.FindProjectionsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.UsernameAndAgeDto, len(rows))
	for i, row := range rows {
		out[i] = dto.NewUsernameAndAgeDto(row.Username, row.Age)
	}
	return out, nil
}

func usernameSpec(username string) Specification[entity.Member] {
	return byUsername(username)
}
