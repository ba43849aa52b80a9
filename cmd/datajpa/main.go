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

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tomoncle/datajpa"
	"github.com/tomoncle/datajpa/config"
	"github.com/tomoncle/datajpa/controller"
	"github.com/tomoncle/datajpa/database"
	"github.com/tomoncle/datajpa/entity"
	"github.com/tomoncle/datajpa/repository"
	"github.com/tomoncle/datajpa/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.GetLogger("MAIN").WithError(err).Fatal("Failed to load configuration")
	}
	utils.ConfigureConsoleLogFormat(cfg.Log.Format)
	utils.ConfigureLogLevel(cfg.Log.Level)
	logger := utils.GetLogger("MAIN")
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	db, err := database.InitDB(ctx, cfg.DatabaseConfig())
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer func() {
		if err := database.CloseDB(); err != nil {
			logger.WithError(err).Error("Failed to close database")
		}
	}()

	paging := controller.PagingConfig{
		DefaultSize: cfg.Paging.DefaultSize,
		MaxSize:     cfg.Paging.MaxSize,
		OneIndexed:  cfg.Paging.OneIndexed,
	}
	members := controller.NewMemberController(
		repository.NewMemberRepository(db),
		datajpa.NewService[entity.Member](),
		paging,
	)
	router := controller.NewRouter(members, controller.RouterOptions{
		Origin: cfg.Server.Origin,
		Paging: paging,
		Logger: utils.GetLogger("HTTP"),
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.WithField("addr", server.Addr).Info("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}
	logger.Info("Server exited")
}
