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
	"fmt"
	"strings"
	"unicode"

	"github.com/tomoncle/datajpa/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

// resolveColumn maps a sort property to a column of table. The property
// may be the column name, its camelCase form or the Go field name.
func resolveColumn(table *schema.Table, property string) (string, bool) {
	if f, ok := table.FieldMap[property]; ok {
		return f.Name, true
	}
	if f, ok := table.FieldMap[toSnakeCase(property)]; ok {
		return f.Name, true
	}
	for _, f := range table.Fields {
		if strings.EqualFold(f.GoName, property) {
			return f.Name, true
		}
	}
	return "", false
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// applySort appends ORDER BY terms for sort, qualified with the model's
// table alias.
func applySort(q *bun.SelectQuery, table *schema.Table, sort types.Sort) (*bun.SelectQuery, error) {
	for _, o := range sort.Orders {
		column, ok := resolveColumn(table, o.Property)
		if !ok {
			return q, fmt.Errorf("%w: %q on %s", ErrInvalidSort, o.Property, table.Name)
		}
		if o.Direction == types.DESC {
			q = q.OrderExpr("?TableAlias.? DESC", bun.Ident(column))
		} else {
			q = q.OrderExpr("?TableAlias.? ASC", bun.Ident(column))
		}
	}
	return q, nil
}
