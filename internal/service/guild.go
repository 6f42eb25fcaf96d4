package service

import (
	"context"
	"strconv"
	"time"

	"github.com/victorivanov/guildgate/internal/database"
	"github.com/victorivanov/guildgate/internal/gateway"
	"github.com/victorivanov/guildgate/internal/models"
	"github.com/victorivanov/guildgate/internal/permissions"
	"github.com/victorivanov/guildgate/internal/snowflake"
)

// GuildService handles guild business logic.
type GuildService struct {
	guilds    database.GuildRepository
	channels  database.ChannelRepository
	members   database.MemberRepository
	roles     database.RoleRepository
	snowflake *snowflake.Generator
	gateway   gateway.Dispatcher
	perms     *PermissionChecker
}

// NewGuildService creates a GuildService.
func NewGuildService(
	guilds database.GuildRepository,
	channels database.ChannelRepository,
	members database.MemberRepository,
	roles database.RoleRepository,
	sf *snowflake.Generator,
	gw gateway.Dispatcher,
	perms *PermissionChecker,
) *GuildService {
	return &GuildService{
		guilds:    guilds,
		channels:  channels,
		members:   members,
		roles:     roles,
		snowflake: sf,
		gateway:   gw,
		perms:     perms,
	}
}

// CreateGuild creates a guild with its default role, a starter channel, and
// the owner as first member.
func (s *GuildService) CreateGuild(ctx context.Context, userID int64, name string, description *string) (*models.Guild, error) {
	if len(name) < 2 || len(name) > 100 {
		return nil, BadRequest("INVALID_NAME", "guild name must be 2-100 characters")
	}

	now := time.Now()

	guild := &models.Guild{
		ID:          s.snowflake.Generate().Int64(),
		Name:        name,
		Description: description,
		OwnerID:     userID,
		CreatedAt:   now,
	}
	if err := s.guilds.Create(ctx, guild); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	everyone := &models.Role{
		ID:          s.snowflake.Generate().Int64(),
		GuildID:     guild.ID,
		Name:        "@everyone",
		Permissions: int64(permissions.DefaultEveryonePerms),
		Position:    0,
		IsDefault:   true,
	}
	if err := s.roles.Create(ctx, everyone); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	member := &models.Member{
		GuildID:  guild.ID,
		UserID:   userID,
		JoinedAt: now,
	}
	if err := s.members.Create(ctx, member); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	general := &models.Channel{
		ID:      s.snowflake.Generate().Int64(),
		GuildID: guild.ID,
		Name:    "general",
		Type:    models.ChannelTypeText,
	}
	if err := s.channels.Create(ctx, general); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	s.gateway.SubscribeToGuild(userID, guild.ID)
	s.gateway.DispatchToUser(userID, gateway.EventGuildCreate, guild)
	return guild, nil
}

// GetGuild returns a guild if the user is a member.
func (s *GuildService) GetGuild(ctx context.Context, guildID, userID int64) (*models.Guild, error) {
	member, err := s.members.GetByGuildAndUser(ctx, guildID, userID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if member == nil {
		return nil, NotFound("NOT_FOUND", "guild not found")
	}

	guild, err := s.guilds.GetByID(ctx, guildID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if guild == nil {
		return nil, NotFound("NOT_FOUND", "guild not found")
	}
	return guild, nil
}

// ListMyGuilds returns the guilds the user belongs to.
func (s *GuildService) ListMyGuilds(ctx context.Context, userID int64) ([]models.Guild, error) {
	guilds, err := s.guilds.GetByUserID(ctx, userID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if guilds == nil {
		guilds = []models.Guild{}
	}
	return guilds, nil
}

// UpdateGuild updates the guild's name and/or description (MANAGE_GUILD).
func (s *GuildService) UpdateGuild(ctx context.Context, guildID, userID int64, name *string, description *string) (*models.Guild, error) {
	if err := s.perms.RequireGuildPermission(ctx, guildID, userID, permissions.PermManageGuild); err != nil {
		return nil, err
	}

	guild, err := s.guilds.GetByID(ctx, guildID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if guild == nil {
		return nil, NotFound("NOT_FOUND", "guild not found")
	}

	if name != nil {
		if len(*name) < 2 || len(*name) > 100 {
			return nil, BadRequest("INVALID_NAME", "guild name must be 2-100 characters")
		}
		guild.Name = *name
	}
	if description != nil {
		guild.Description = description
	}

	if err := s.guilds.Update(ctx, guild); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	s.gateway.DispatchToGuild(guildID, gateway.EventGuildUpdate, guild)
	return guild, nil
}

// DeleteGuild deletes a guild. Owner only.
func (s *GuildService) DeleteGuild(ctx context.Context, guildID, userID int64) error {
	owner, err := s.perms.IsGuildOwner(ctx, guildID, userID)
	if err != nil {
		return err
	}
	if !owner {
		return Forbidden("NOT_OWNER", "only the guild owner can delete the guild")
	}

	if err := s.guilds.Delete(ctx, guildID); err != nil {
		return Internal("INTERNAL", "internal server error")
	}

	s.gateway.DispatchToGuild(guildID, gateway.EventGuildDelete, map[string]string{"id": strconv.FormatInt(guildID, 10)})
	return nil
}
