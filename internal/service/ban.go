package service

import (
	"context"
	"strconv"
	"time"

	"github.com/victorivanov/guildgate/internal/database"
	"github.com/victorivanov/guildgate/internal/gateway"
	"github.com/victorivanov/guildgate/internal/models"
	"github.com/victorivanov/guildgate/internal/permissions"
)

// BanService handles ban/unban business logic. A banned user cannot rejoin
// the guild, including through invites.
type BanService struct {
	guilds  database.GuildRepository
	members database.MemberRepository
	bans    database.BanRepository
	gateway gateway.Dispatcher
	perms   *PermissionChecker
}

// NewBanService creates a BanService.
func NewBanService(
	guilds database.GuildRepository,
	members database.MemberRepository,
	bans database.BanRepository,
	gw gateway.Dispatcher,
	perms *PermissionChecker,
) *BanService {
	return &BanService{
		guilds:  guilds,
		members: members,
		bans:    bans,
		gateway: gw,
		perms:   perms,
	}
}

// BanMember bans a user from a guild (BAN_MEMBERS) and removes any current
// membership.
func (s *BanService) BanMember(ctx context.Context, guildID, actorID, targetID int64, reason *string) error {
	if actorID == targetID {
		return BadRequest("CANNOT_BAN_SELF", "you cannot ban yourself")
	}

	if err := s.perms.RequireGuildPermission(ctx, guildID, actorID, permissions.PermBanMembers); err != nil {
		return err
	}

	guild, err := s.guilds.GetByID(ctx, guildID)
	if err != nil || guild == nil {
		return Internal("INTERNAL", "internal server error")
	}
	if guild.OwnerID == targetID {
		return Forbidden("CANNOT_BAN_OWNER", "the guild owner cannot be banned")
	}

	existing, err := s.bans.GetByGuildAndUser(ctx, guildID, targetID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if existing != nil {
		return Conflict("ALREADY_BANNED", "user is already banned")
	}

	ban := &models.Ban{
		GuildID:   guildID,
		UserID:    targetID,
		Reason:    reason,
		CreatedAt: time.Now(),
	}
	if err := s.bans.Create(ctx, ban); err != nil {
		return Internal("INTERNAL", "internal server error")
	}

	// Bans also eject; membership may or may not exist.
	member, err := s.members.GetByGuildAndUser(ctx, guildID, targetID)
	if err == nil && member != nil {
		if err := s.members.Delete(ctx, guildID, targetID); err != nil {
			return Internal("INTERNAL", "internal server error")
		}
		s.gateway.UnsubscribeFromGuild(targetID, guildID)
		s.gateway.DispatchToGuild(guildID, gateway.EventGuildMemberRemove, member)
	}

	s.gateway.DispatchToGuild(guildID, gateway.EventGuildBanAdd, ban)
	return nil
}

// UnbanMember lifts a ban (BAN_MEMBERS).
func (s *BanService) UnbanMember(ctx context.Context, guildID, actorID, targetID int64) error {
	if err := s.perms.RequireGuildPermission(ctx, guildID, actorID, permissions.PermBanMembers); err != nil {
		return err
	}

	ban, err := s.bans.GetByGuildAndUser(ctx, guildID, targetID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if ban == nil {
		return NotFound("NOT_FOUND", "ban not found")
	}

	if err := s.bans.Delete(ctx, guildID, targetID); err != nil {
		return Internal("INTERNAL", "internal server error")
	}

	s.gateway.DispatchToGuild(guildID, gateway.EventGuildBanRemove, map[string]string{
		"guild_id": strconv.FormatInt(guildID, 10),
		"user_id":  strconv.FormatInt(targetID, 10),
	})
	return nil
}

// ListBans returns all bans for a guild (BAN_MEMBERS).
func (s *BanService) ListBans(ctx context.Context, guildID, actorID int64) ([]models.Ban, error) {
	if err := s.perms.RequireGuildPermission(ctx, guildID, actorID, permissions.PermBanMembers); err != nil {
		return nil, err
	}

	bans, err := s.bans.GetByGuildID(ctx, guildID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if bans == nil {
		bans = []models.Ban{}
	}
	return bans, nil
}
