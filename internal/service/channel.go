package service

import (
	"context"

	"github.com/victorivanov/guildgate/internal/database"
	"github.com/victorivanov/guildgate/internal/gateway"
	"github.com/victorivanov/guildgate/internal/models"
	"github.com/victorivanov/guildgate/internal/permissions"
	"github.com/victorivanov/guildgate/internal/snowflake"
)

// ChannelService handles guild-channel business logic.
type ChannelService struct {
	channels  database.ChannelRepository
	members   database.MemberRepository
	snowflake *snowflake.Generator
	gateway   gateway.Dispatcher
	perms     *PermissionChecker
}

// NewChannelService creates a ChannelService.
func NewChannelService(
	channels database.ChannelRepository,
	members database.MemberRepository,
	sf *snowflake.Generator,
	gw gateway.Dispatcher,
	perms *PermissionChecker,
) *ChannelService {
	return &ChannelService{
		channels:  channels,
		members:   members,
		snowflake: sf,
		gateway:   gw,
		perms:     perms,
	}
}

// CreateChannel creates a channel in a guild (MANAGE_CHANNELS).
func (s *ChannelService) CreateChannel(ctx context.Context, guildID, userID int64, name string, chType models.ChannelType, topic *string) (*models.Channel, error) {
	if err := s.perms.RequireGuildPermission(ctx, guildID, userID, permissions.PermManageChannels); err != nil {
		return nil, err
	}
	if len(name) < 1 || len(name) > 100 {
		return nil, BadRequest("INVALID_NAME", "channel name must be 1-100 characters")
	}
	switch chType {
	case models.ChannelTypeText, models.ChannelTypeVoice, models.ChannelTypeCategory:
	default:
		return nil, BadRequest("INVALID_TYPE", "unknown channel type")
	}

	channel := &models.Channel{
		ID:      s.snowflake.Generate().Int64(),
		GuildID: guildID,
		Name:    name,
		Type:    chType,
		Topic:   topic,
	}
	if err := s.channels.Create(ctx, channel); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	s.gateway.DispatchToGuild(guildID, gateway.EventChannelCreate, channel)
	return channel, nil
}

// ListChannels returns a guild's channels for a member.
func (s *ChannelService) ListChannels(ctx context.Context, guildID, userID int64) ([]models.Channel, error) {
	member, err := s.members.GetByGuildAndUser(ctx, guildID, userID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if member == nil {
		return nil, NotFound("NOT_FOUND", "guild not found")
	}

	channels, err := s.channels.GetByGuildID(ctx, guildID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if channels == nil {
		channels = []models.Channel{}
	}
	return channels, nil
}

// DeleteChannel removes a channel (MANAGE_CHANNELS).
func (s *ChannelService) DeleteChannel(ctx context.Context, channelID, userID int64) error {
	channel, err := s.channels.GetByID(ctx, channelID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if channel == nil {
		return NotFound("NOT_FOUND", "channel not found")
	}

	if err := s.perms.RequireGuildPermission(ctx, channel.GuildID, userID, permissions.PermManageChannels); err != nil {
		return err
	}

	if err := s.channels.Delete(ctx, channelID); err != nil {
		return Internal("INTERNAL", "internal server error")
	}

	s.gateway.DispatchToGuild(channel.GuildID, gateway.EventChannelDelete, channel)
	return nil
}
