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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registryParent struct{}
type registryChild struct{}
type registrySibling struct{}

func TestModelRegistryOrdersByPriority(t *testing.T) {
	var r ModelRegistry
	r.Register((*registryChild)(nil), 20)
	r.Register((*registryParent)(nil), 10)
	r.Register((*registrySibling)(nil), 20)
	r.Register((*registryParent)(nil), 1)

	instances := r.Instances()
	require.Len(t, instances, 3)
	assert.IsType(t, (*registryParent)(nil), instances[0])
	assert.IsType(t, (*registryChild)(nil), instances[1])
	assert.IsType(t, (*registrySibling)(nil), instances[2])
}
