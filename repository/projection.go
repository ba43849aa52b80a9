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
	"fmt"
	"reflect"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

// projectionShape lists the columns a projection type reads from the root
// table and, per relation prefix, the columns it reads from that relation.
type projectionShape struct {
	columns   []string
	relations map[string][]string
}

func projectionOf(typ reflect.Type) projectionShape {
	shape := projectionShape{relations: map[string][]string{}}
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("bun")
		if tag == "-" {
			continue
		}
		if prefix, ok := strings.CutPrefix(tag, "embed:"); ok && f.Type.Kind() == reflect.Struct {
			rel := strings.TrimSuffix(prefix, "__")
			shape.relations[rel] = append(shape.relations[rel], projectionOf(f.Type).columns...)
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if name == "" {
			name = toSnakeCase(f.Name)
		}
		shape.columns = append(shape.columns, name)
	}
	return shape
}

// FindProjections selects only the columns P declares from the rows spec
// matches. A struct field tagged bun:"embed:<relation>__" is read from the
// joined relation of that name.
func FindProjections[P any, T any](ctx context.Context, repo Repository[T], spec Specification[T]) ([]*P, error) {
	table := repo.Table()
	shape := projectionOf(reflect.TypeOf((*P)(nil)).Elem())

	q := spec.Apply(repo.NewSelect().Model((*T)(nil)))
	for _, col := range shape.columns {
		if _, ok := table.FieldMap[col]; !ok {
			return nil, fmt.Errorf("projection column %q not found in %s", col, table.Name)
		}
		q = q.ColumnExpr("?TableAlias.?", bun.Ident(col))
	}
	for prefix, cols := range shape.relations {
		rel := relationByName(table, prefix)
		if rel == nil {
			return nil, fmt.Errorf("projection relation %q not found in %s", prefix, table.Name)
		}
		cols := cols
		q = q.Relation(rel.Field.GoName, func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Column(cols...)
		})
	}

	out := make([]*P, 0)
	if err := q.OrderExpr("?TableAlias.? ASC", bun.Ident(table.PKs[0].Name)).Scan(ctx, &out); err != nil {
		return nil, TranslateError(err)
	}
	return out, nil
}

func relationByName(table *schema.Table, name string) *schema.Relation {
	for _, rel := range table.Relations {
		if rel.Field.Name == name || strings.EqualFold(rel.Field.GoName, name) {
			return rel
		}
	}
	return nil
}
