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
	"fmt"

	"github.com/uptrace/bun"
)

type Member struct {
	bun.BaseModel `bun:"table:member,alias:m"`
	BaseEntity

	ID       int64  `bun:"id,pk,autoincrement" json:"id"`
	Username string `bun:"username" json:"username"`
	Age      int    `bun:"age,notnull" json:"age"`
	TeamID   *int64 `bun:"team_id" json:"teamId,omitempty"`
	Team     *Team  `bun:"rel:belongs-to,join:team_id=team_id" json:"team,omitempty"`
}

// NewMember builds a member and, when team is not nil, joins it.
func NewMember(username string, age int, team *Team) *Member {
	m := &Member{Username: username, Age: age}
	if team != nil {
		m.ChangeTeam(team)
	}
	return m
}

// ChangeTeam moves the member to team and appends it to team.Members.
func (m *Member) ChangeTeam(team *Team) {
	m.Team = team
	if team.ID != 0 {
		id := team.ID
		m.TeamID = &id
	}
	team.Members = append(team.Members, m)
}

func (m *Member) ChangeUsername(username string) {
	m.Username = username
}

var _ bun.BeforeAppendModelHook = (*Member)(nil)

// BeforeAppendModel fills the audit columns and copies the id of a team
// saved after ChangeTeam was called.
func (m *Member) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if m.Team != nil && m.Team.ID != 0 {
		id := m.Team.ID
		m.TeamID = &id
	}
	return m.BaseEntity.BeforeAppendModel(ctx, query)
}

// Equal compares id, username and age; the team is left out.
func (m *Member) Equal(o *Member) bool {
	if m == nil || o == nil {
		return m == o
	}
	return m.ID == o.ID && m.Username == o.Username && m.Age == o.Age
}

func (m *Member) String() string {
	return fmt.Sprintf("Member(id=%d, username=%s, age=%d)", m.ID, m.Username, m.Age)
}
