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
	"reflect"

	"github.com/uptrace/bun"
)

// Specification adds joins and WHERE conditions for T to a select query.
// A nil Specification matches every row.
type Specification[T any] func(q *bun.SelectQuery) *bun.SelectQuery

// Where returns spec unchanged; it reads better at the start of a chain.
func Where[T any](spec Specification[T]) Specification[T] {
	return spec
}

func (s Specification[T]) Apply(q *bun.SelectQuery) *bun.SelectQuery {
	if s == nil {
		return q
	}
	return s(q)
}

// And matches rows matched by both specifications.
func (s Specification[T]) And(other Specification[T]) Specification[T] {
	if s == nil {
		return other
	}
	if other == nil {
		return s
	}
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return other.Apply(s.Apply(q))
		})
	}
}

// Or matches rows matched by either specification.
func (s Specification[T]) Or(other Specification[T]) Specification[T] {
	if s == nil {
		return other
	}
	if other == nil {
		return s
	}
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.WhereGroup(" AND ", s.Apply).WhereGroup(" OR ", other.Apply)
		})
	}
}

// Not matches the rows s does not match. It is written as a primary key
// NOT IN subquery so joins made by s stay inside the subquery.
func Not[T any](s Specification[T]) Specification[T] {
	if s == nil {
		return nil
	}
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		table := q.DB().Dialect().Tables().Get(reflect.TypeOf((*T)(nil)).Elem())
		pk := bun.Ident(table.PKs[0].Name)
		sub := s.Apply(q.DB().NewSelect().Model((*T)(nil)).ColumnExpr("?TableAlias.?", pk))
		return q.Where("?TableAlias.? NOT IN (?)", pk, sub)
	}
}
