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

package spec

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/datajpa/database/dbtest"
	"github.com/tomoncle/datajpa/entity"
	"github.com/tomoncle/datajpa/repository"
	"github.com/tomoncle/datajpa/types"
)

func TestMemberSpecifications(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	teams := repository.NewTeamRepository(db)
	members := repository.NewMemberRepository(db)

	teamA := entity.NewTeam("teamA")
	_, err := teams.Save(ctx, teamA)
	require.NoError(t, err)
	_, err = members.SaveAll(ctx,
		entity.NewMember("m1", 0, teamA),
		entity.NewMember("m2", 0, teamA),
		entity.NewMember("m3", 0, nil),
	)
	require.NoError(t, err)

	cases := []struct {
		name string
		spec repository.Specification[entity.Member]
		want []string
	}{
		{"username and team", Username("m1").And(TeamName("teamA")), []string{"m1"}},
		{"team", TeamName("teamA"), []string{"m1", "m2"}},
		{"empty team name", TeamName(""), []string{"m1", "m2", "m3"}},
		{"username and empty team name", Username("m3").And(TeamName("")), []string{"m3"}},
		{"not in team", repository.Not(TeamName("teamA")), []string{"m3"}},
		{"unknown team", TeamName("teamZ"), []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			found, err := members.FindAllBySpec(ctx, tc.spec, types.By(types.ASC, "id"))
			require.NoError(t, err)
			names := make([]string, 0, len(found))
			for _, m := range found {
				names = append(names, m.Username)
			}
			assert.Equal(t, tc.want, names)
		})
	}
}
