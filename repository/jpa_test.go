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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/datajpa/database/dbtest"
	"github.com/tomoncle/datajpa/entity"
)

func TestMemberJpaRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemberJpaRepository(dbtest.Open(t))

	a, err := repo.Save(ctx, entity.NewMember("usernameA", 10, nil))
	require.NoError(t, err)
	b, err := repo.Save(ctx, entity.NewMember("usernameB", 20, nil))
	require.NoError(t, err)
	_, err = repo.Save(ctx, entity.NewMember("usernameC", 30, nil))
	require.NoError(t, err)

	found, err := repo.Find(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, a.Equal(found))

	_, ok, err := repo.FindByID(ctx, 100)
	require.NoError(t, err)
	assert.False(t, ok)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"usernameA", "usernameB", "usernameC"}, usernames(all))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	older, err := repo.FindByUsernameAndAgeGreaterThan(ctx, "usernameB", 15)
	require.NoError(t, err)
	require.Len(t, older, 1)
	assert.True(t, b.Equal(older[0]))

	b.ChangeUsername("usernameB2")
	require.NoError(t, repo.Update(ctx, b))
	named, err := repo.FindByUsername(ctx, "usernameB2")
	require.NoError(t, err)
	assert.Len(t, named, 1)

	require.NoError(t, repo.Delete(ctx, a))
	found, err = repo.Find(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestMemberJpaPaging(t *testing.T) {
	ctx := context.Background()
	repo := NewMemberJpaRepository(dbtest.Open(t))
	for _, name := range []string{"member1", "member2", "member3", "member4", "member5"} {
		_, err := repo.Save(ctx, entity.NewMember(name, 10, nil))
		require.NoError(t, err)
	}
	_, err := repo.Save(ctx, entity.NewMember("member6", 20, nil))
	require.NoError(t, err)

	page, err := repo.FindByPage(ctx, 10, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"member5", "member4", "member3"}, usernames(page))

	total, err := repo.TotalCount(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)

	n, err := repo.BulkAgePlus(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestTeamJpaRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewTeamJpaRepository(dbtest.Open(t))

	var saved []*entity.Team
	for _, name := range []string{"teamA", "teamB", "teamC"} {
		team, err := repo.Save(ctx, entity.NewTeam(name))
		require.NoError(t, err)
		saved = append(saved, team)
	}

	found, ok, err := repo.FindByID(ctx, saved[0].ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, saved[0].Equal(found))

	_, ok, err = repo.FindByID(ctx, 100)
	require.NoError(t, err)
	assert.False(t, ok)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i := range saved {
		assert.True(t, saved[i].Equal(all[i]))
	}

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	require.NoError(t, repo.Delete(ctx, saved[1]))
	gone, err := repo.Find(ctx, saved[1].ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
