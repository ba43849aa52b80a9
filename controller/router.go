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
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/tomoncle/datajpa/database"
	"github.com/tomoncle/datajpa/utils"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	Origin string
	Paging PagingConfig
	Logger *logrus.Logger
}

// NewRouter installs the middleware chain and mounts the member routes and
// the health check.
func NewRouter(members *MemberController, opts RouterOptions) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = utils.GetLogger("HTTP")
	}
	router := gin.New()
	router.Use(RequestID())
	router.Use(Recovery(opts.Logger))
	router.Use(AccessLog(opts.Logger))
	router.Use(CORS(opts.Origin))
	router.Use(Auditor())

	router.GET("/health", Health)
	members.Register(router)
	return router
}

// Health reports the database health; 503 when it is unhealthy.
func Health(c *gin.Context) {
	status := database.GetHealthStatus(c.Request.Context())
	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
