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

package datajpa

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/datajpa/database"
	"github.com/tomoncle/datajpa/database/dbtest"
	"github.com/tomoncle/datajpa/entity"
	"github.com/tomoncle/datajpa/repository"
	"github.com/tomoncle/datajpa/types"
)

func TestServiceWithoutDatabase(t *testing.T) {
	database.UseDB(nil)
	svc := NewService[entity.Team]()
	_, err := svc.Get(context.Background(), 1)
	assert.ErrorIs(t, err, ErrDatabaseNotInitialized)
	_, err = svc.Save(context.Background(), entity.NewTeam("teamA"))
	assert.ErrorIs(t, err, ErrDatabaseNotInitialized)
	assert.ErrorIs(t, svc.SaveAll(context.Background(), entity.NewTeam("teamB")), ErrDatabaseNotInitialized)
}

func TestServiceOnGlobalDatabase(t *testing.T) {
	ctx := context.Background()
	database.UseDB(dbtest.Open(t))
	t.Cleanup(func() { database.UseDB(nil) })

	svc := NewService[entity.Member]()
	a := entity.NewMember("usernameA", 10, nil)
	b := entity.NewMember("usernameB", 20, nil)
	require.NoError(t, svc.SaveAll(ctx, a, b))
	c, err := svc.Save(ctx, entity.NewMember("usernameC", 30, nil))
	require.NoError(t, err)
	require.NotZero(t, c.ID)

	found, err := svc.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, a.Equal(found))

	_, err = svc.Get(ctx, int64(100))
	assert.ErrorIs(t, err, repository.ErrNotFound)

	ok, err := svc.Exists(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	page, err := svc.Page(ctx, types.NewPageRequest(0, 1, types.By(types.DESC, "age")))
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalElements)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "usernameC", page.Content[0].Username)

	list, err := svc.Query(ctx, "age > ?", 15)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, svc.DeleteByID(ctx, a.ID))
	require.NoError(t, svc.Delete(ctx, c))
	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
