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

package database

import (
	"reflect"
	"sort"
	"sync"
)

// ModelRegistry holds the entities the first migration creates tables for.
// Lower priorities come first, so referenced tables are created before the
// tables pointing at them.
type ModelRegistry struct {
	mu     sync.RWMutex
	models []registeredModel
}

type registeredModel struct {
	instance interface{}
	priority int
}

// Register ignores a second registration of the same Go type.
func (r *ModelRegistry) Register(instance interface{}, priority int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	typ := reflect.TypeOf(instance)
	for _, m := range r.models {
		if reflect.TypeOf(m.instance) == typ {
			return
		}
	}
	r.models = append(r.models, registeredModel{instance: instance, priority: priority})
}

// Instances are ordered by priority, ties by registration order.
func (r *ModelRegistry) Instances() []interface{} {
	r.mu.RLock()
	sorted := append([]registeredModel(nil), r.models...)
	r.mu.RUnlock()

	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].priority < sorted[j].priority })
	out := make([]interface{}, len(sorted))
	for i, m := range sorted {
		out[i] = m.instance
	}
	return out
}

var models ModelRegistry

// RegisterModel adds an entity pointer, e.g. (*entity.Team)(nil), to the
// package registry.
func RegisterModel(instance interface{}, priority int) {
	models.Register(instance, priority)
}

func RegisteredModelInstances() []interface{} {
	return models.Instances()
}
