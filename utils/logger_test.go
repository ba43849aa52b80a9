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

package utils

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLogLevel("DEBUG"))
	assert.Equal(t, logrus.WarnLevel, ParseLogLevel("warning"))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel(""))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel("bogus"))
}

func TestLog4jColorFormatter(t *testing.T) {
	f := &Log4jColorFormatter{LoggerName: "REPOSITORY", NameWidth: 10, NoColor: true}
	entry := &logrus.Entry{
		Time:    time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local),
		Level:   logrus.InfoLevel,
		Message: "saved member",
		Data:    logrus.Fields{"id": 7, "age": 10},
	}
	out, err := f.Format(entry)
	require.NoError(t, err)
	line := string(out)
	assert.True(t, strings.HasPrefix(line, "2025-01-02 03:04:05.000    INFO"))
	assert.Contains(t, line, "REPOSITORY : saved member age=10 id=7\n")
}

func TestJSONLogFormatterLiftsHTTPFields(t *testing.T) {
	f := &JSONLogFormatter{LoggerName: "HTTP"}
	entry := &logrus.Entry{
		Time:    time.Now(),
		Level:   logrus.WarnLevel,
		Message: "request",
		Data: logrus.Fields{
			"method":      "GET",
			"path":        "/members",
			"status_code": 200,
			"request_id":  "abc",
			"error":       errors.New("boom"),
		},
	}
	out, err := f.Format(entry)
	require.NoError(t, err)

	var rec jsonLogRecord
	require.NoError(t, json.Unmarshal(out, &rec))
	assert.Equal(t, "warning", rec.Level)
	assert.Equal(t, "HTTP", rec.Model)
	assert.Equal(t, "GET", rec.Method)
	assert.Equal(t, "/members", rec.Path)
	assert.Equal(t, 200, rec.StatusCode)
	assert.Equal(t, "abc", rec.RequestID)
	assert.Equal(t, "boom", rec.Fields["error"])
}

func TestLoggerRegistry(t *testing.T) {
	lg := NewLogger("REGISTRY_TEST")
	assert.Same(t, lg, GetLogger("REGISTRY_TEST"))
	assert.True(t, SetLoggerLevel("REGISTRY_TEST", "error"))
	assert.Equal(t, logrus.ErrorLevel, lg.GetLevel())
	assert.False(t, SetLoggerLevel("MISSING_LOGGER", "error"))
}

func TestCallerPath(t *testing.T) {
	assert.Equal(t, "datajpa.repository.member.go:12", callerPath("/src/datajpa/repository/member.go", 12, 0))
	assert.Equal(t, "r.member.go:12", callerPath("/repository/member.go", 12, 14))
}
