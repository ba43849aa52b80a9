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
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

const timestampFormat = "2006-01-02 15:04:05.000"

var (
	pidColor    = color.New(color.FgMagenta)
	nameColor   = color.New(color.FgCyan)
	callerColor = color.New(color.Faint)
	levelColors = map[logrus.Level]*color.Color{
		logrus.PanicLevel: color.New(color.FgRed),
		logrus.FatalLevel: color.New(color.FgRed),
		logrus.ErrorLevel: color.New(color.FgRed),
		logrus.WarnLevel:  color.New(color.FgYellow),
		logrus.InfoLevel:  color.New(color.FgGreen),
		logrus.DebugLevel: color.New(color.FgBlue),
		logrus.TraceLevel: color.New(color.FgMagenta),
	}
)

// Log4jColorFormatter writes
// "time LEVEL pid - [main] name caller : message k=v ...".
type Log4jColorFormatter struct {
	LoggerName  string
	NameWidth   int
	CallerWidth int
	NoColor     bool
}

func (f *Log4jColorFormatter) paint(c *color.Color, s string) string {
	if f.NoColor {
		return s
	}
	return c.Sprint(s)
}

func (f *Log4jColorFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b strings.Builder
	b.WriteString(entry.Time.Format(timestampFormat))
	b.WriteByte(' ')
	b.WriteString(f.paint(levelColors[entry.Level], fmt.Sprintf("%7s", strings.ToUpper(entry.Level.String()))))
	b.WriteByte(' ')
	b.WriteString(f.paint(pidColor, fmt.Sprintf("%-6d", os.Getpid())))
	b.WriteString(" - [main] ")

	name := []rune(f.LoggerName)
	if len(name) > f.NameWidth {
		name = name[:f.NameWidth]
	}
	b.WriteString(f.paint(nameColor, fmt.Sprintf("%*s", f.NameWidth, string(name))))
	if entry.Caller != nil {
		caller := callerPath(entry.Caller.File, entry.Caller.Line, f.CallerWidth)
		b.WriteString(f.paint(callerColor, fmt.Sprintf(" %*s", f.CallerWidth, caller)))
	}
	b.WriteString(" : ")
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

// callerPath renders "dir.file.go:line", cutting directories to their
// first letter, leftmost first, until it fits width. Zero width never cuts.
func callerPath(file string, line int, width int) string {
	parts := strings.FieldsFunc(filepath.ToSlash(file), func(r rune) bool { return r == '/' })
	if len(parts) > 3 {
		parts = parts[len(parts)-3:]
	}
	render := func() string { return strings.Join(parts, ".") + ":" + strconv.Itoa(line) }
	out := render()
	for i := 0; width > 0 && i < len(parts)-1 && len(out) > width; i++ {
		parts[i] = string([]rune(parts[i])[:1])
		out = render()
	}
	return out
}

// JSONLogFormatter writes one object per line. Access log fields sit at
// the top level; other fields go under "fields".
type JSONLogFormatter struct {
	LoggerName string
}

type jsonLogRecord struct {
	Time        string                 `json:"time"`
	Level       string                 `json:"level"`
	Model       string                 `json:"model"`
	Caller      string                 `json:"caller,omitempty"`
	Message     string                 `json:"message"`
	RequestID   string                 `json:"request_id,omitempty"`
	ClientIP    string                 `json:"client_ip,omitempty"`
	Method      string                 `json:"method,omitempty"`
	Path        string                 `json:"path,omitempty"`
	StatusCode  int                    `json:"status_code,omitempty"`
	LatencyTime string                 `json:"latency_time,omitempty"`
	Fields      map[string]interface{} `json:"fields,omitempty"`
}

func (f *JSONLogFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	rec := jsonLogRecord{
		Time:    entry.Time.Format(timestampFormat),
		Level:   entry.Level.String(),
		Model:   f.LoggerName,
		Message: entry.Message,
	}
	if entry.Caller != nil {
		rec.Caller = filepath.Base(entry.Caller.File) + ":" + strconv.Itoa(entry.Caller.Line)
	}
	top := map[string]*string{
		"request_id":   &rec.RequestID,
		"client_ip":    &rec.ClientIP,
		"method":       &rec.Method,
		"path":         &rec.Path,
		"latency_time": &rec.LatencyTime,
	}
	for k, v := range entry.Data {
		if dst, ok := top[k]; ok {
			if s, ok := v.(string); ok {
				*dst = s
				continue
			}
		}
		if n, ok := v.(int); ok && k == "status_code" {
			rec.StatusCode = n
			continue
		}
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		if rec.Fields == nil {
			rec.Fields = map[string]interface{}{}
		}
		rec.Fields[k] = v
	}
	out, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
