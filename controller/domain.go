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
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tomoncle/datajpa"
)

// BindEntity loads the T whose id is the path parameter param and stores
// it on the context under key. A missing entity ends the request with 404.
func BindEntity[T any](svc datajpa.Service[T], param, key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param(param), 10, 64)
		if err != nil {
			abortWithError(c, fmt.Errorf("%w: %s must be a number", errBadRequest, param))
			return
		}
		e, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.Set(key, e)
		c.Next()
	}
}

var errNotBound = errors.New("entity not bound")

// BoundEntity returns the entity BindEntity stored under key.
func BoundEntity[T any](c *gin.Context, key string) (*T, error) {
	v, ok := c.Get(key)
	if !ok {
		return nil, errNotBound
	}
	e, ok := v.(*T)
	if !ok {
		return nil, fmt.Errorf("%w: %s holds %T", errNotBound, key, v)
	}
	return e, nil
}
