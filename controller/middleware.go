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
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tomoncle/datajpa/entity"
	"github.com/tomoncle/datajpa/utils"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderUser      = "X-User"

	requestIDKey = "request_id"
)

// RequestID reuses the caller's X-Request-ID or generates one, and echoes
// it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(requestIDKey, requestID)
		c.Header(HeaderRequestID, requestID)
		c.Next()
	}
}

func getRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// Auditor records who is making the request so the audit columns of rows
// written while serving it name that caller. The X-User header wins over
// the request id.
func Auditor() gin.HandlerFunc {
	return func(c *gin.Context) {
		auditor := strings.TrimSpace(c.GetHeader(HeaderUser))
		if auditor == "" {
			auditor = getRequestID(c)
		}
		if auditor != "" {
			c.Request = c.Request.WithContext(entity.WithAuditor(c.Request.Context(), auditor))
		}
		c.Next()
	}
}

// Recovery turns a panic into a 500 ErrorResponse and logs the stack.
func Recovery(logger *logrus.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.WithFields(logrus.Fields{
			"request_id": getRequestID(c),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"panic":      fmt.Sprintf("%v", recovered),
		}).Error("Panic recovered\n" + string(debug.Stack()))
		writeError(c, http.StatusInternalServerError, "internal_error", "Internal server error")
	})
}

// AccessLog writes one entry per request through logger.
func AccessLog(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"request_id":   getRequestID(c),
			"client_ip":    c.ClientIP(),
			"method":       c.Request.Method,
			"path":         path,
			"status_code":  c.Writer.Status(),
			"latency_time": utils.Since(start),
		})
		if len(c.Errors) > 0 {
			entry = entry.WithField("error", c.Errors.String())
		}
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			entry.Error("Request processed")
		case status >= http.StatusBadRequest:
			entry.Warn("Request processed")
		default:
			entry.Info("Request processed")
		}
	}
}

// CORS allows origin, or every origin when it is "*" or empty.
func CORS(origin string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if origin == "" || origin == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = strings.Split(origin, ",")
	}
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", HeaderRequestID, HeaderUser}
	cfg.ExposeHeaders = []string{HeaderRequestID}
	return cors.New(cfg)
}
