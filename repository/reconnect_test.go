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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/datajpa/database"
	"github.com/tomoncle/datajpa/database/dbtest"
	"github.com/tomoncle/datajpa/entity"
)

func TestRepositorySurvivesReconnect(t *testing.T) {
	ctx := context.Background()
	cfg := dbtest.Config(t, dbtest.WithSampleMembers(3))
	cfg.ConnectionConfig.DBName = filepath.Join(t.TempDir(), "members.db")
	cfg.DataMigrateConfig.EnableMigrateOnStartup = true

	db, err := database.InitDB(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.CloseDB() })

	members := NewMemberRepository(db)
	require.NoError(t, database.GetDatabaseManager().Reconnect(ctx))

	count, err := members.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	saved, err := members.Save(ctx, entity.NewMember("afterReconnect", 40, nil))
	require.NoError(t, err)
	found, err := NewMemberRepository(database.GetDB()).FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "afterReconnect", found.Username)
}
