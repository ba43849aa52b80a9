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

// Package spec holds reusable member specifications.
package spec

import (
	"github.com/tomoncle/datajpa/entity"
	"github.com/tomoncle/datajpa/repository"
	"github.com/uptrace/bun"
)

// Username matches members with exactly this username.
func Username(username string) repository.Specification[entity.Member] {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.username = ?", username)
	}
}

// TeamName inner joins team and matches members of the named team. An
// empty name adds no condition.
func TeamName(name string) repository.Specification[entity.Member] {
	if name == "" {
		return nil
	}
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Join("JOIN team AS spec_team ON spec_team.team_id = ?TableAlias.team_id").
			Where("spec_team.name = ?", name)
	}
}
