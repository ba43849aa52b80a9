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

package dto

// Projections are read-only views scanned straight from a member query.
// Their bun tags name the selected columns; see repository.FindProjections.

// UsernameAndAge is a closed projection over member columns.
type UsernameAndAge struct {
	Username string `bun:"username" json:"username"`
	Age      int    `bun:"age" json:"age"`
}

// UsernameAndAgeDto is built through its constructor, not by field name.
type UsernameAndAgeDto struct {
	username string
	age      int
}

func NewUsernameAndAgeDto(username string, age int) *UsernameAndAgeDto {
	return &UsernameAndAgeDto{username: username, age: age}
}

func (d *UsernameAndAgeDto) Username() string { return d.username }

func (d *UsernameAndAgeDto) Age() int { return d.age }

// TeamInfo is the team part of NestedClosedProjection.
type TeamInfo struct {
	Name string `bun:"name" json:"name"`
}

// NestedClosedProjection pulls the team name through a join; the team
// columns are selected as "team__<column>".
type NestedClosedProjection struct {
	Username string   `bun:"username" json:"username"`
	Team     TeamInfo `bun:"embed:team__" json:"team"`
}
