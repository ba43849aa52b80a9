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
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type Logger = logrus.Logger

// loggers is the process-wide set of named loggers. Level and output
// changes apply to every member and to loggers created later.
var loggers = struct {
	sync.RWMutex
	byName map[string]*logrus.Logger
	level  logrus.Level
	json   bool
	out    io.Writer
}{
	byName: map[string]*logrus.Logger{},
	level:  ParseLogLevel(os.Getenv("LOG_LEVEL")),
	json:   strings.EqualFold(os.Getenv("CONSOLE_LOG_FORMAT"), "json"),
	out:    os.Stdout,
}

// ConfigureConsoleLogFormat picks "json" or, for any other value, the
// coloured text layout for loggers created afterwards.
func ConfigureConsoleLogFormat(format string) {
	loggers.Lock()
	defer loggers.Unlock()
	loggers.json = strings.EqualFold(strings.TrimSpace(format), "json")
}

// ConfigureOutput redirects every logger.
func ConfigureOutput(w io.Writer) {
	loggers.Lock()
	defer loggers.Unlock()
	loggers.out = w
	for _, l := range loggers.byName {
		l.SetOutput(w)
	}
}

// ConfigureLogLevel sets the level of every logger.
func ConfigureLogLevel(level string) {
	lvl := ParseLogLevel(level)
	loggers.Lock()
	defer loggers.Unlock()
	loggers.level = lvl
	for _, l := range loggers.byName {
		l.SetLevel(lvl)
	}
}

// ParseLogLevel accepts logrus level names case-insensitively and falls
// back to info.
func ParseLogLevel(s string) logrus.Level {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(s))
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// SetLoggerLevel reports false when no logger has that name.
func SetLoggerLevel(name string, level string) bool {
	loggers.RLock()
	l, ok := loggers.byName[name]
	loggers.RUnlock()
	if ok {
		l.SetLevel(ParseLogLevel(level))
	}
	return ok
}

// GetLogger returns the logger called name, creating it on first use.
func GetLogger(name string) *logrus.Logger {
	loggers.RLock()
	l, ok := loggers.byName[name]
	loggers.RUnlock()
	if ok {
		return l
	}
	return NewLogger(name)
}

// NewLogger creates a logger called name, replacing any earlier one.
func NewLogger(name string) *logrus.Logger {
	loggers.Lock()
	defer loggers.Unlock()

	l := logrus.New()
	l.SetReportCaller(true)
	l.SetOutput(loggers.out)
	l.SetLevel(loggers.level)
	if loggers.json {
		l.SetFormatter(&JSONLogFormatter{LoggerName: name})
	} else {
		l.SetFormatter(&Log4jColorFormatter{LoggerName: name, NameWidth: 10, CallerWidth: 25})
	}
	loggers.byName[name] = l
	return l
}

// Since renders the latency printed by access logs.
func Since(start time.Time) string {
	return time.Since(start).Round(time.Microsecond).String()
}
