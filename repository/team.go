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
	"github.com/tomoncle/datajpa/entity"
	"github.com/uptrace/bun"
)

type TeamRepository interface {
	Repository[entity.Team]
}

func NewTeamRepository(db bun.IDB) TeamRepository {
	return newBaseRepository[entity.Team](db)
}

// ItemRepository stores items whose ids are assigned by the caller; Save
// relies on Item.IsNew to choose between insert and update.
type ItemRepository interface {
	Repository[entity.Item]
}

func NewItemRepository(db bun.IDB) ItemRepository {
	return newBaseRepository[entity.Item](db)
}
