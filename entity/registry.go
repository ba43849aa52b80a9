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

	"github.com/tomoncle/datajpa/database"
	"github.com/uptrace/bun"
)

func init() {
	database.RegisterModel((*Team)(nil), 10)
	database.RegisterModel((*Item)(nil), 10)
	database.RegisterModel((*Member)(nil), 20)

	database.RegisterForeignKey(database.ForeignKey{
		Table:           "member",
		Column:          "team_id",
		ReferenceTable:  "team",
		ReferenceColumn: "team_id",
		OnDelete:        "SET NULL",
	})

	database.RegisterSeeder("member", SeedMembers)
}

// SeedMembers inserts members "username0" to "username<size-1>" whose age
// equals their index.
func SeedMembers(ctx context.Context, db bun.IDB, size int) error {
	members := make([]*Member, size)
	for i := range members {
		members[i] = NewMember(fmt.Sprintf("username%d", i), i, nil)
	}
	if len(members) == 0 {
		return nil
	}
	_, err := db.NewInsert().Model(&members).Exec(ctx)
	return err
}
