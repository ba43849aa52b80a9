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

package controller

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tomoncle/datajpa/types"
)

// PagingConfig holds the service wide paging settings.
type PagingConfig struct {
	DefaultSize int
	MaxSize     int
	// OneIndexed makes page=1 the first page.
	OneIndexed bool
}

// PageableDefault is what a handler falls back to when the request leaves
// size or sort out.
type PageableDefault struct {
	Size int
	Sort types.Sort
}

// ParsePageable reads page, size and sort from the query string. With a
// qualifier the parameters are read as <qualifier>_page and so on first,
// then without the prefix. sort may repeat and has the form
// "property[,asc|desc]".
func ParsePageable(c *gin.Context, qualifier string, def PageableDefault, cfg PagingConfig) (*types.PageRequest, error) {
	page, err := intParam(c, qualifier, "page", 0)
	if err != nil {
		return nil, err
	}
	if cfg.OneIndexed {
		page--
	}
	if page < 0 {
		page = 0
	}

	defSize := def.Size
	if defSize < 1 {
		defSize = cfg.DefaultSize
	}
	size, err := intParam(c, qualifier, "size", defSize)
	if err != nil {
		return nil, err
	}
	if size < 1 {
		size = defSize
	}
	if cfg.MaxSize > 0 && size > cfg.MaxSize {
		size = cfg.MaxSize
	}

	sort := def.Sort
	if raw := queryArray(c, qualifier, "sort"); len(raw) > 0 {
		sort = types.Unsorted()
		for _, s := range raw {
			order, err := types.ParseOrder(s)
			if err != nil {
				return nil, fmt.Errorf("%w: sort %q: %v", errBadRequest, s, err)
			}
			sort.Orders = append(sort.Orders, order)
		}
	}
	return types.NewPageRequest(page, size, sort), nil
}

func paramNames(qualifier, name string) []string {
	if qualifier == "" {
		return []string{name}
	}
	return []string{qualifier + "_" + name, name}
}

func intParam(c *gin.Context, qualifier, name string, def int) (int, error) {
	for _, key := range paramNames(qualifier, name) {
		raw, ok := c.GetQuery(key)
		if !ok || raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("%w: %s must be a number", errBadRequest, key)
		}
		return n, nil
	}
	return def, nil
}

func queryArray(c *gin.Context, qualifier, name string) []string {
	for _, key := range paramNames(qualifier, name) {
		if values, ok := c.GetQueryArray(key); ok {
			return values
		}
	}
	return nil
}
