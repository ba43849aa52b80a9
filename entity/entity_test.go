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

package entity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/datajpa/database/dbtest"
)

func TestNewMemberJoinsTeam(t *testing.T) {
	team := NewTeam("teamA")
	m := NewMember("member1", 10, team)
	assert.Same(t, team, m.Team)
	assert.Nil(t, m.TeamID, "team without id leaves the column unset")
	require.Len(t, team.Members, 1)
	assert.Same(t, m, team.Members[0])

	team.ID = 7
	other := NewMember("member2", 20, team)
	require.NotNil(t, other.TeamID)
	assert.Equal(t, int64(7), *other.TeamID)
	assert.Len(t, team.Members, 2)
}

func TestMemberEqualIgnoresTeam(t *testing.T) {
	a := &Member{ID: 1, Username: "member1", Age: 10, Team: NewTeam("teamA")}
	b := &Member{ID: 1, Username: "member1", Age: 10}
	assert.True(t, a.Equal(b))
	b.Age = 11
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(nil))
	assert.Equal(t, "Member(id=1, username=member1, age=10)", a.String())
	assert.Equal(t, "Team(id=0, name=teamA)", a.Team.String())
}

func TestAuditColumns(t *testing.T) {
	db := dbtest.Open(t)
	ctx := WithAuditor(context.Background(), "alice")

	team := NewTeam("teamA")
	_, err := db.NewInsert().Model(team).Exec(ctx)
	require.NoError(t, err)

	m := NewMember("member1", 10, team)
	_, err = db.NewInsert().Model(m).Exec(ctx)
	require.NoError(t, err)
	require.NotNil(t, m.TeamID)
	assert.Equal(t, team.ID, *m.TeamID)
	assert.Equal(t, "alice", m.CreatedBy)
	assert.Equal(t, "alice", m.LastModifiedBy)
	assert.False(t, m.CreatedDate.IsZero())

	m.ChangeUsername("member2")
	m.CreatedBy = "mallory"
	_, err = db.NewUpdate().Model(m).WherePK().ExcludeColumn(AuditColumns...).
		Exec(WithAuditor(context.Background(), "bob"))
	require.NoError(t, err)

	found := new(Member)
	require.NoError(t, db.NewSelect().Model(found).Where("?TableAlias.id = ?", m.ID).Scan(ctx))
	assert.Equal(t, "member2", found.Username)
	assert.Equal(t, "alice", found.CreatedBy, "created columns are not updated")
	assert.Equal(t, "bob", found.LastModifiedBy)
	assert.False(t, found.LastModifiedDate.Before(found.CreatedDate))
}

func TestAuditorDefaultsToUUID(t *testing.T) {
	db := dbtest.Open(t)
	m := NewMember("member1", 10, nil)
	_, err := db.NewInsert().Model(m).Exec(context.Background())
	require.NoError(t, err)
	_, err = uuid.Parse(m.CreatedBy)
	assert.NoError(t, err)
}

func TestItemIsNewUntilInserted(t *testing.T) {
	db := dbtest.Open(t)
	item := NewItem("A")
	assert.True(t, item.IsNew())
	_, err := db.NewInsert().Model(item).Exec(context.Background())
	require.NoError(t, err)
	assert.False(t, item.IsNew())
}

func TestSeedMembers(t *testing.T) {
	db := dbtest.Open(t, dbtest.WithSampleMembers(100))
	ctx := context.Background()

	count, err := db.NewSelect().Model((*Member)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100, count)

	m := new(Member)
	require.NoError(t, db.NewSelect().Model(m).Where("username = ?", "username42").Scan(ctx))
	assert.Equal(t, 42, m.Age)
}
