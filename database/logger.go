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
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/tomoncle/datajpa/utils"
)

// Logger takes a message followed by alternating key/value pairs.
type Logger interface {
	Debug(msg string, kv ...interface{})
	Info(msg string, kv ...interface{})
	Warn(msg string, kv ...interface{})
	Error(msg string, kv ...interface{})
}

var pkgLogger struct {
	sync.Mutex
	l Logger
}

// SetPackageLogger replaces the logger used by managers created afterwards.
// A nil logger restores the default "DATABASE" logrus logger.
func SetPackageLogger(l Logger) {
	pkgLogger.Lock()
	defer pkgLogger.Unlock()
	pkgLogger.l = l
}

func GetLogger() Logger {
	pkgLogger.Lock()
	defer pkgLogger.Unlock()
	if pkgLogger.l == nil {
		pkgLogger.l = NewLogrusLogger(utils.GetLogger("DATABASE"))
	}
	return pkgLogger.l
}

type logrusLogger struct {
	entry *logrus.Logger
}

// NewLogrusLogger turns key/value pairs into logrus fields.
func NewLogrusLogger(l *logrus.Logger) Logger {
	return logrusLogger{entry: l}
}

func (l logrusLogger) Debug(msg string, kv ...interface{}) { l.log(logrus.DebugLevel, msg, kv) }
func (l logrusLogger) Info(msg string, kv ...interface{})  { l.log(logrus.InfoLevel, msg, kv) }
func (l logrusLogger) Warn(msg string, kv ...interface{})  { l.log(logrus.WarnLevel, msg, kv) }
func (l logrusLogger) Error(msg string, kv ...interface{}) { l.log(logrus.ErrorLevel, msg, kv) }

func (l logrusLogger) log(level logrus.Level, msg string, kv []interface{}) {
	if !l.entry.IsLevelEnabled(level) {
		return
	}
	l.entry.WithFields(kvFields(kv)).Log(level, msg)
}

// kvFields keeps an unpaired trailing key under "extra".
func kvFields(kv []interface{}) logrus.Fields {
	fields := logrus.Fields{}
	for i := 0; i < len(kv); i += 2 {
		if i == len(kv)-1 {
			fields["extra"] = kv[i]
			break
		}
		fields[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return fields
}
