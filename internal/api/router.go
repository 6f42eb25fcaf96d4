package api

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/victorivanov/guildgate/internal/auth"
	"github.com/victorivanov/guildgate/internal/gateway"
	"github.com/victorivanov/guildgate/internal/redis"
)

// Dependencies holds all handler instances and middleware for route wiring.
type Dependencies struct {
	Auth     *AuthHandler
	Guilds   *GuildHandler
	Channels *ChannelHandler
	Members  *MemberHandler
	Users    *UserHandler
	Invites  *InviteHandler
	Bans     *BanHandler
	Gateway  *gateway.Manager

	TokenService *auth.TokenService
	Redis        *redis.Client
}

// SetupRouter registers all API routes on the Echo instance.
func SetupRouter(e *echo.Echo, deps *Dependencies) {
	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// WebSocket gateway
	e.GET("/gateway", deps.Gateway.HandleWebSocket)

	v1 := e.Group("/api/v1")

	// Auth routes — no auth middleware, stricter rate limit
	authGroup := v1.Group("/auth",
		RateLimitMiddleware(deps.Redis, 5, time.Minute),
	)
	authGroup.POST("/register", deps.Auth.Register)
	authGroup.POST("/login", deps.Auth.Login)
	authGroup.POST("/refresh", deps.Auth.Refresh)

	// Public invite info — no auth required, but throttled: link previews and
	// scrapers hit this endpoint hard.
	v1.GET("/invites/:code", deps.Invites.GetInvite,
		RateLimitMiddleware(deps.Redis, 20, time.Minute),
	)

	// Protected routes — require JWT auth + general rate limit
	authMw := deps.TokenService.Middleware()
	protected := v1.Group("", authMw,
		RateLimitMiddleware(deps.Redis, 50, time.Minute),
	)

	// Auth (protected)
	protected.POST("/auth/logout", deps.Auth.Logout)

	// Users
	protected.GET("/users/@me", deps.Users.GetMe)
	protected.PATCH("/users/@me", deps.Users.UpdateMe)
	protected.GET("/users/@me/guilds", deps.Guilds.ListMyGuilds)

	// Guilds
	protected.POST("/guilds", deps.Guilds.CreateGuild)
	protected.GET("/guilds/:id", deps.Guilds.GetGuild)
	protected.PATCH("/guilds/:id", deps.Guilds.UpdateGuild)
	protected.DELETE("/guilds/:id", deps.Guilds.DeleteGuild)

	// Channels
	protected.POST("/guilds/:id/channels", deps.Channels.CreateChannel)
	protected.GET("/guilds/:id/channels", deps.Channels.ListChannels)
	protected.DELETE("/channels/:id", deps.Channels.DeleteChannel)

	// Members
	protected.GET("/guilds/:id/members", deps.Members.ListMembers)
	protected.DELETE("/guilds/:id/members/:user_id", deps.Members.KickMember)
	protected.DELETE("/guilds/:id/members/@me", deps.Members.LeaveGuild)
	protected.PUT("/guilds/:id/members/:user_id/roles/:role_id", deps.Members.AssignRole)

	// Bans
	protected.GET("/guilds/:id/bans", deps.Bans.ListBans)
	protected.PUT("/guilds/:id/bans/:user_id", deps.Bans.BanMember)
	protected.DELETE("/guilds/:id/bans/:user_id", deps.Bans.UnbanMember)

	// Invites (protected)
	protected.POST("/guilds/:id/invites", deps.Invites.CreateInvite)
	protected.GET("/guilds/:id/invites", deps.Invites.ListInvites)
	protected.POST("/invites/:code", deps.Invites.AcceptInvite)
	protected.DELETE("/invites/:code", deps.Invites.RevokeInvite)
}
