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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/datajpa/database/dbtest"
	"github.com/tomoncle/datajpa/entity"
	"github.com/tomoncle/datajpa/types"
	"github.com/uptrace/bun"
)

func TestRepositoryCrud(t *testing.T) {
	ctx := context.Background()
	teams := NewTeamRepository(dbtest.Open(t))

	team, err := teams.Save(ctx, entity.NewTeam("teamA"))
	require.NoError(t, err)
	require.NotZero(t, team.ID)

	found, err := teams.FindByID(ctx, team.ID)
	require.NoError(t, err)
	assert.True(t, team.Equal(found))

	ok, err := teams.ExistsByID(ctx, team.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	team.Name = "renamed"
	_, err = teams.Save(ctx, team)
	require.NoError(t, err)
	found, err = teams.FindByID(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", found.Name)

	_, err = teams.SaveAll(ctx, entity.NewTeam("teamB"), entity.NewTeam("teamC"))
	require.NoError(t, err)
	n, err := teams.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	require.NoError(t, teams.Delete(ctx, team))
	_, err = teams.FindByID(ctx, team.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	ok, err = teams.ExistsByID(ctx, team.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	all, err := teams.FindAllSorted(ctx, types.By(types.DESC, "name"))
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "teamC", all[0].Name)

	require.NoError(t, teams.DeleteByID(ctx, all[0].ID))
	byIDs, err := teams.FindAllByIDs(ctx, all[0].ID, all[1].ID)
	require.NoError(t, err)
	require.Len(t, byIDs, 1)
	assert.Equal(t, "teamB", byIDs[0].Name)

	require.NoError(t, teams.DeleteAll(ctx))
	n, err = teams.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRepositoryQueries(t *testing.T) {
	f := newMemberFixture(t)
	ctx := context.Background()
	members := NewRepository[entity.Member](f.db)

	found, err := members.List(ctx, types.NewQueryFilter("age >= ?", 20))
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = members.Query(ctx, "username = ?", "usernameC")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.True(t, f.c.Equal(found[0]))

	page, err := members.FindPage(ctx, types.NewPageRequestWithFilter(0, 2, types.NewQueryFilter("age < ?", 30)).
		WithSort(types.By(types.DESC, "age")))
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalElements)
	assert.Equal(t, []string{"usernameB", "usernameA"}, usernames(page.Content))

	_, err = members.FindAllSorted(ctx, types.By(types.ASC, "createdDate"))
	assert.NoError(t, err, "camelCase properties map to columns")
	_, err = members.FindAllSorted(ctx, types.By(types.ASC, "missing"))
	assert.ErrorIs(t, err, ErrInvalidSort)
}

func TestRepositoryUpdateKeepsCreatedAudit(t *testing.T) {
	ctx := entity.WithAuditor(context.Background(), "alice")
	members := NewRepository[entity.Member](dbtest.Open(t))

	m, err := members.Save(ctx, entity.NewMember("member1", 10, nil))
	require.NoError(t, err)
	before, err := members.FindByID(ctx, m.ID)
	require.NoError(t, err)

	m.ChangeUsername("member2")
	_, err = members.Save(entity.WithAuditor(context.Background(), "bob"), m)
	require.NoError(t, err)

	found, err := members.FindByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "member2", found.Username)
	assert.Equal(t, "alice", found.CreatedBy)
	assert.Equal(t, "bob", found.LastModifiedBy)
	assert.True(t, before.CreatedDate.Equal(found.CreatedDate))
	assert.False(t, found.LastModifiedDate.IsZero())
}

func TestItemSaveUsesIsNew(t *testing.T) {
	ctx := context.Background()
	items := NewItemRepository(dbtest.Open(t))

	item := entity.NewItem("A")
	assert.True(t, item.IsNew())
	_, err := items.Save(ctx, item)
	require.NoError(t, err)
	assert.False(t, item.IsNew())

	_, err = items.Save(ctx, item)
	require.NoError(t, err, "a stored item is not inserted twice")

	n, err := items.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = items.Save(ctx, entity.NewItem("A"))
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestRepositoryUpsert(t *testing.T) {
	ctx := context.Background()
	teams := NewTeamRepository(dbtest.Open(t))

	team, err := teams.Save(ctx, entity.NewTeam("teamA"))
	require.NoError(t, err)

	err = teams.Upsert(ctx, []string{"name"}, nil, &entity.Team{ID: team.ID, Name: "teamA2"})
	require.NoError(t, err)
	found, err := teams.FindByID(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, "teamA2", found.Name)

	assert.Error(t, teams.Upsert(ctx, nil, nil, team))
	assert.NoError(t, teams.Upsert(ctx, []string{"name"}, nil))
}

func TestRepositoryTransactions(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	teams := NewTeamRepository(db)

	boom := errors.New("boom")
	err := teams.RunInTx(ctx, func(ctx context.Context, repo Repository[entity.Team]) error {
		if _, err := repo.Save(ctx, entity.NewTeam("rolled back")); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	n, err := teams.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	team := entity.NewTeam("teamA")
	err = db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := teams.CreateWithTx(ctx, &tx, team); err != nil {
			return err
		}
		team.Name = "teamB"
		return teams.UpdateWithTx(ctx, &tx, team)
	})
	require.NoError(t, err)
	found, err := teams.FindByID(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, "teamB", found.Name)

	err = db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return teams.DeleteWithTx(ctx, &tx, team.ID)
	})
	require.NoError(t, err)
	n, err = teams.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSpecificationComposition(t *testing.T) {
	f := newMemberFixture(t)
	ctx := context.Background()
	byName := func(name string) Specification[entity.Member] {
		return func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.username = ?", name)
		}
	}
	olderThan := func(age int) Specification[entity.Member] {
		return func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.age > ?", age)
		}
	}

	cases := []struct {
		name string
		spec Specification[entity.Member]
		want []string
	}{
		{"nil", nil, []string{"usernameA", "usernameB", "usernameC"}},
		{"and", byName("usernameB").And(olderThan(15)), []string{"usernameB"}},
		{"and nil", Where(byName("usernameA")).And(nil), []string{"usernameA"}},
		{"or", byName("usernameA").Or(byName("usernameC")), []string{"usernameA", "usernameC"}},
		{"or and", byName("usernameA").Or(byName("usernameC")).And(olderThan(15)), []string{"usernameC"}},
		{"not", Not(olderThan(15)), []string{"usernameA"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			found, err := f.members.FindAllBySpec(ctx, tc.spec, types.By(types.ASC, "id"))
			require.NoError(t, err)
			assert.Equal(t, tc.want, usernames(found))

			n, err := f.members.CountBySpec(ctx, tc.spec)
			require.NoError(t, err)
			assert.Equal(t, int64(len(tc.want)), n)
		})
	}

	page, err := f.members.FindPageBySpec(ctx, olderThan(5), types.NewPageRequest(0, 2, types.By(types.DESC, "age")))
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalElements)
	assert.Equal(t, []string{"usernameC", "usernameB"}, usernames(page.Content))
}
