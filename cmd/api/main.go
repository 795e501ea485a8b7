package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"DietAPI/internal/auth"
	"DietAPI/internal/catalog"
	"DietAPI/internal/common"
	"DietAPI/internal/community"
	"DietAPI/internal/database"
	"DietAPI/internal/env"
	"DietAPI/internal/logger"
	"DietAPI/internal/mealplan"
	"DietAPI/internal/metrics"
	"DietAPI/internal/tracking"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func loadCatalog() (*catalog.Catalog, error) {
	if path := env.GetEnv(env.EnvCatalogPath, ""); path != "" {
		return catalog.LoadFile(path)
	}
	return catalog.Default()
}

func main() {
	envErr := godotenv.Load()
	environment := env.GetEnv(env.EnvEnvironment, "development")
	if err := logger.Init(environment); err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()
	if envErr != nil {
		logger.Info("no .env file found, using system environment variables")
	}
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	foods, err := loadCatalog()
	if err != nil {
		logger.Fatal("failed to load food catalog", zap.Error(err))
	}
	logger.Info("catalog loaded", zap.Int("foods", foods.FoodCount()), zap.Int("herbs", foods.HerbCount()))

	db, err := database.Open(env.GetEnv(env.EnvDatabasePath, env.DefaultDatabasePath))
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	m := metrics.New()

	// Initialize auth components
	authRepo := auth.NewRepository(db)
	oauthConfig := auth.NewOAuthConfig(
		auth.ProviderConfig{
			ClientID:     env.GetEnv(env.EnvGoogleClientID, ""),
			ClientSecret: env.GetEnv(env.EnvGoogleClientSecret, ""),
		},
		auth.ProviderConfig{
			ClientID:     env.GetEnv(env.EnvGitHubClientID, ""),
			ClientSecret: env.GetEnv(env.EnvGitHubClientSecret, ""),
		},
		env.GetEnv(env.EnvAuthCallbackBaseURL, "http://localhost:"+env.DefaultPort),
	)
	stateStore := auth.NewOAuthStateStore(authRepo)
	sessionStore := auth.NewSessionStore(
		authRepo,
		env.GetDuration(env.EnvSessionDuration, auth.DefaultSessionDuration),
		env.GetBool(env.EnvSecureCookies, false),
	)
	tokenStore := auth.NewTokenStore(authRepo)
	authHandler := auth.NewHandler(
		authRepo,
		oauthConfig,
		stateStore,
		sessionStore,
		tokenStore,
		env.GetInt(env.EnvMaxTokensPerUser, auth.DefaultMaxTokens),
	)
	adminHandler := auth.NewAdminHandler(authRepo, tokenStore, sessionStore)
	authMiddleware := auth.NewMiddleware(tokenStore, sessionStore)

	janitor := auth.NewJanitor(sessionStore, stateStore, env.GetDuration(env.EnvJanitorInterval, auth.JanitorInterval))
	janitor.Start(ctx)
	defer janitor.Stop()

	// Planner components
	plans := mealplan.NewService(mealplan.NewRepository(db), foods, m)
	hub := community.NewHub()
	defer hub.Close()
	shared := community.NewService(community.NewRepository(db), plans, hub, m)
	weights := tracking.NewService(tracking.NewRepository(db), plans, m)

	router := gin.New()
	router.Use(gin.Recovery(), common.RequestID(), m.Middleware())

	// Global routes
	global := router.Group("/api")
	metrics.RegisterRoutes(global, m)
	auth.RegisterRoutes(global, authHandler, adminHandler, authMiddleware)

	// v0 API routes
	v0Group := router.Group("/api/v0")
	{
		common.RegisterRoutes(v0Group, foods)
		catalog.RegisterRoutes(v0Group, catalog.NewHandler(foods))
		mealplan.RegisterRoutes(v0Group, mealplan.NewHandler(plans), authMiddleware)
		community.RegisterRoutes(v0Group, community.NewHandler(shared, hub), authMiddleware)
		tracking.RegisterRoutes(v0Group, tracking.NewHandler(weights), authMiddleware)
	}

	srv := &http.Server{
		Addr:              ":" + env.GetEnv(env.EnvPort, env.DefaultPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("env", environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

/*
This project is the backend API for the OpenSourceDUTH diet planner app.
API Copyright (C) 2025 OpenSourceDUTH
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
