package service

import (
	"context"

	"github.com/victorivanov/guildgate/internal/database"
	"github.com/victorivanov/guildgate/internal/gateway"
	"github.com/victorivanov/guildgate/internal/models"
	"github.com/victorivanov/guildgate/internal/permissions"
)

// MemberService handles guild membership beyond invite redemption.
type MemberService struct {
	members database.MemberRepository
	guilds  database.GuildRepository
	roles   database.RoleRepository
	gateway gateway.Dispatcher
	perms   *PermissionChecker
}

// NewMemberService creates a MemberService.
func NewMemberService(
	members database.MemberRepository,
	guilds database.GuildRepository,
	roles database.RoleRepository,
	gw gateway.Dispatcher,
	perms *PermissionChecker,
) *MemberService {
	return &MemberService{
		members: members,
		guilds:  guilds,
		roles:   roles,
		gateway: gw,
		perms:   perms,
	}
}

// ListMembers returns a page of guild members, visible to any member.
func (s *MemberService) ListMembers(ctx context.Context, guildID, userID int64, limit, offset int) ([]models.Member, error) {
	self, err := s.members.GetByGuildAndUser(ctx, guildID, userID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if self == nil {
		return nil, NotFound("NOT_FOUND", "guild not found")
	}

	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	members, err := s.members.GetByGuildID(ctx, guildID, limit, offset)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if members == nil {
		members = []models.Member{}
	}
	return members, nil
}

// KickMember removes another member from the guild (KICK_MEMBERS).
func (s *MemberService) KickMember(ctx context.Context, guildID, actorID, targetID int64) error {
	if err := s.perms.RequireGuildPermission(ctx, guildID, actorID, permissions.PermKickMembers); err != nil {
		return err
	}

	guild, err := s.guilds.GetByID(ctx, guildID)
	if err != nil || guild == nil {
		return Internal("INTERNAL", "internal server error")
	}
	if targetID == guild.OwnerID {
		return Forbidden("CANNOT_KICK_OWNER", "the guild owner cannot be kicked")
	}

	member, err := s.members.GetByGuildAndUser(ctx, guildID, targetID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if member == nil {
		return NotFound("NOT_FOUND", "member not found")
	}

	if err := s.members.Delete(ctx, guildID, targetID); err != nil {
		return Internal("INTERNAL", "internal server error")
	}

	s.gateway.UnsubscribeFromGuild(targetID, guildID)
	s.gateway.DispatchToGuild(guildID, gateway.EventGuildMemberRemove, member)
	return nil
}

// LeaveGuild removes the caller's own membership. Owners must delete the
// guild instead.
func (s *MemberService) LeaveGuild(ctx context.Context, guildID, userID int64) error {
	guild, err := s.guilds.GetByID(ctx, guildID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if guild == nil {
		return NotFound("NOT_FOUND", "guild not found")
	}
	if guild.OwnerID == userID {
		return Forbidden("OWNER_CANNOT_LEAVE", "transfer or delete the guild instead")
	}

	member, err := s.members.GetByGuildAndUser(ctx, guildID, userID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if member == nil {
		return NotFound("NOT_FOUND", "you are not a member of this guild")
	}

	if err := s.members.Delete(ctx, guildID, userID); err != nil {
		return Internal("INTERNAL", "internal server error")
	}

	s.gateway.UnsubscribeFromGuild(userID, guildID)
	s.gateway.DispatchToGuild(guildID, gateway.EventGuildMemberRemove, member)
	return nil
}

// AssignRole grants a guild role to a member (MANAGE_ROLES). Granting a role
// also makes a temporary membership permanent.
func (s *MemberService) AssignRole(ctx context.Context, guildID, actorID, targetID, roleID int64) error {
	if err := s.perms.RequireGuildPermission(ctx, guildID, actorID, permissions.PermManageRoles); err != nil {
		return err
	}

	member, err := s.members.GetByGuildAndUser(ctx, guildID, targetID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if member == nil {
		return NotFound("NOT_FOUND", "member not found")
	}

	guildRoles, err := s.roles.GetByGuildID(ctx, guildID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	var role *models.Role
	for i := range guildRoles {
		if guildRoles[i].ID == roleID {
			role = &guildRoles[i]
			break
		}
	}
	if role == nil {
		return NotFound("NOT_FOUND", "role not found")
	}
	if role.IsDefault {
		return BadRequest("DEFAULT_ROLE", "the default role cannot be assigned explicitly")
	}

	if err := s.roles.AssignToMember(ctx, guildID, targetID, roleID); err != nil {
		return Internal("INTERNAL", "internal server error")
	}

	if member.Temporary {
		member.Temporary = false
		if err := s.members.Update(ctx, member); err != nil {
			return Internal("INTERNAL", "internal server error")
		}
	}

	s.gateway.DispatchToGuild(guildID, gateway.EventGuildMemberUpdate, member)
	return nil
}
