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
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestKVFields(t *testing.T) {
	assert.Equal(t, logrus.Fields{"id": 1, "name": "team"}, kvFields([]interface{}{"id", 1, "name", "team"}))
	assert.Equal(t, logrus.Fields{"id": 1, "extra": "dangling"}, kvFields([]interface{}{"id", 1, "dangling"}))
	assert.Empty(t, kvFields(nil))
}

func TestLogrusLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	l.SetLevel(logrus.InfoLevel)

	logger := NewLogrusLogger(l)
	logger.Debug("hidden")
	logger.Warn("slow query", "duration", "3s")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `msg="slow query" duration=3s`)
}

func TestSetPackageLogger(t *testing.T) {
	t.Cleanup(func() { SetPackageLogger(nil) })
	custom := NewLogrusLogger(logrus.New())
	SetPackageLogger(custom)
	assert.Equal(t, custom, GetLogger())
	SetPackageLogger(nil)
	assert.NotNil(t, GetLogger())
}
