package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/victorivanov/guildgate/internal/api"
	"github.com/victorivanov/guildgate/internal/auth"
	"github.com/victorivanov/guildgate/internal/config"
	"github.com/victorivanov/guildgate/internal/database"
	"github.com/victorivanov/guildgate/internal/gateway"
	"github.com/victorivanov/guildgate/internal/redis"
	"github.com/victorivanov/guildgate/internal/service"
	"github.com/victorivanov/guildgate/internal/snowflake"
)

func main() {
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	pool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	rdb, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		slog.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()

	sf, err := snowflake.NewGenerator(cfg.NodeID)
	if err != nil {
		slog.Error("snowflake init failed", "error", err)
		os.Exit(1)
	}

	tokens := auth.NewTokenService(cfg.JWTSecret)

	// Repositories
	users := database.NewUserRepository(pool)
	guilds := database.NewGuildRepository(pool)
	channels := database.NewChannelRepository(pool)
	members := database.NewMemberRepository(pool)
	roles := database.NewRoleRepository(pool)
	bans := database.NewBanRepository(pool)
	invites := database.NewInviteRepository(pool)

	// WebSocket gateway
	gw := gateway.NewManager(tokens, guilds, members, roles, rdb)

	// Services
	perms := service.NewPermissionChecker(guilds, members, roles)
	authSvc := service.NewAuthService(users, tokens, rdb, sf)
	guildSvc := service.NewGuildService(guilds, channels, members, roles, sf, gw, perms)
	channelSvc := service.NewChannelService(channels, members, sf, gw, perms)
	memberSvc := service.NewMemberService(members, guilds, roles, gw, perms)
	inviteSvc := service.NewInviteService(invites, guilds, channels, members, bans, gw, perms)
	banSvc := service.NewBanService(guilds, members, bans, gw, perms)

	deps := &api.Dependencies{
		Auth:         api.NewAuthHandler(authSvc),
		Guilds:       api.NewGuildHandler(guildSvc),
		Channels:     api.NewChannelHandler(channelSvc),
		Members:      api.NewMemberHandler(memberSvc),
		Users:        api.NewUserHandler(users),
		Invites:      api.NewInviteHandler(inviteSvc),
		Bans:         api.NewBanHandler(banSvc),
		Gateway:      gw,
		TokenService: tokens,
		Redis:        rdb,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	api.SetupRouter(e, deps)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", cfg.ServerAddr)
		if err := e.Start(cfg.ServerAddr); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
