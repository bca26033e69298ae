package main

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/vidtube/backend/internal/config"
	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/handler"
	"github.com/vidtube/backend/internal/service"
)

// @title vidtube API
// @version 1.0
// @description Video sharing platform backend.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not loaded, using environment variables")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()

	ctx := context.Background()
	pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	store := &db.Postgres{Pool: pool}
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}

	authService, err := service.NewAuthService(store, cfg.Auth)
	if err != nil {
		logger.Error("invalid auth configuration", "error", err)
		os.Exit(1)
	}
	if err := authService.EnsureAdmin(ctx, cfg.Auth); err != nil {
		logger.Error("failed to seed admin user", "error", err)
		os.Exit(1)
	}

	oidcService, err := service.NewOIDCService(ctx, cfg.OIDC, authService, store)
	if err != nil {
		logger.Error("invalid OIDC configuration", "error", err)
		os.Exit(1)
	}

	userService := service.NewUserService(store)
	videoService := service.NewVideoService(store)
	commentService := service.NewCommentService(store)
	likeService := service.NewLikeService(store)
	playlistService := service.NewPlaylistService(store)
	subscriptionService := service.NewSubscriptionService(store)
	tweetService := service.NewTweetService(store)
	dashboardService := service.NewDashboardService(store)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	videoHandler := handler.NewVideoHandler(videoService)
	commentHandler := handler.NewCommentHandler(commentService)
	likeHandler := handler.NewLikeHandler(likeService)
	playlistHandler := handler.NewPlaylistHandler(playlistService)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService)
	tweetHandler := handler.NewTweetHandler(tweetService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)

	authLimiter := handler.NewRateLimiter(20, time.Minute)
	defer authLimiter.Close()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(handler.RequestLogMiddleware(logger))
	if origins := strings.Split(cfg.CORS.AllowedOrigins, ","); cfg.CORS.AllowedOrigins != "" {
		router.Use(handler.CORSMiddleware(origins, true))
	}

	router.GET("/healthz", handler.Health(pool))
	router.GET("/api/v1/openapi.json", handler.OpenAPIDoc)

	requireAuth := handler.AuthMiddleware(authService)
	optionalAuth := handler.OptionalAuthMiddleware(authService)
	limited := handler.RateLimitMiddleware(authLimiter)

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", limited, authHandler.Register)
			auth.POST("/login", limited, authHandler.Login)
			auth.POST("/refresh", limited, authHandler.Refresh)
			auth.POST("/logout", optionalAuth, authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.Me)
			if oidcService != nil {
				oidcHandler := handler.NewOIDCHandler(oidcService, authService)
				auth.GET("/oidc/start", oidcHandler.Start)
				auth.GET("/oidc/callback", oidcHandler.Callback)
			}
		}

		users := api.Group("/users")
		{
			users.PATCH("/password", requireAuth, userHandler.ChangePassword)
			users.PATCH("/me", requireAuth, userHandler.UpdateAccount)
			users.GET("/history", requireAuth, userHandler.WatchHistory)
			users.GET("/channel/:username", optionalAuth, userHandler.ChannelProfile)
		}

		videos := api.Group("/videos")
		{
			videos.GET("", videoHandler.List)
			videos.POST("", requireAuth, videoHandler.Publish)
			videos.GET("/:id", optionalAuth, videoHandler.Get)
			videos.PATCH("/:id", requireAuth, videoHandler.Update)
			videos.PATCH("/:id/toggle-publish", requireAuth, videoHandler.TogglePublish)
			videos.DELETE("/:id", requireAuth, videoHandler.Delete)
		}

		api.POST("/videos/:id/comments", requireAuth, commentHandler.Add)
		api.GET("/videos/:id/comments", commentHandler.ListByVideo)
		api.PATCH("/comments/:id", requireAuth, commentHandler.Update)
		api.DELETE("/comments/:id", requireAuth, commentHandler.Delete)

		likes := api.Group("/likes", requireAuth)
		{
			likes.GET("/videos", likeHandler.LikedVideos)
			likes.POST("/:kind/:id", likeHandler.Toggle)
		}

		playlists := api.Group("/playlists")
		{
			playlists.POST("", requireAuth, playlistHandler.Create)
			playlists.GET("", requireAuth, playlistHandler.ListMine)
			playlists.GET("/:id", playlistHandler.Get)
			playlists.PATCH("/:id", requireAuth, playlistHandler.Update)
			playlists.DELETE("/:id", requireAuth, playlistHandler.Delete)
			playlists.POST("/:id/videos/:videoId", requireAuth, playlistHandler.AddVideo)
			playlists.DELETE("/:id/videos/:videoId", requireAuth, playlistHandler.RemoveVideo)
		}

		subs := api.Group("/subscriptions")
		{
			subs.GET("", requireAuth, subscriptionHandler.Subscribed)
			subs.POST("/:channelId", requireAuth, subscriptionHandler.Toggle)
			subs.GET("/:channelId/subscribers", subscriptionHandler.Subscribers)
		}

		tweets := api.Group("/tweets")
		{
			tweets.POST("", requireAuth, tweetHandler.Create)
			tweets.GET("/user/:userId", tweetHandler.ListByUser)
			tweets.PATCH("/:id", requireAuth, tweetHandler.Update)
			tweets.DELETE("/:id", requireAuth, tweetHandler.Delete)
		}

		dashboard := api.Group("/dashboard", requireAuth)
		{
			dashboard.GET("/stats", dashboardHandler.Stats)
			dashboard.GET("/videos", dashboardHandler.Videos)
		}
	}

	logger.Info("starting server", "addr", cfg.Server.Addr)
	if err := router.Run(cfg.Server.Addr); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}
