package service

import (
	"context"

	"github.com/victorivanov/guildgate/internal/database"
	"github.com/victorivanov/guildgate/internal/models"
	"github.com/victorivanov/guildgate/internal/permissions"
)

// PermissionChecker resolves guild-level permissions for members.
type PermissionChecker struct {
	guilds  database.GuildRepository
	members database.MemberRepository
	roles   database.RoleRepository
}

// NewPermissionChecker creates a PermissionChecker.
func NewPermissionChecker(
	guilds database.GuildRepository,
	members database.MemberRepository,
	roles database.RoleRepository,
) *PermissionChecker {
	return &PermissionChecker{
		guilds:  guilds,
		members: members,
		roles:   roles,
	}
}

// RequireGuildPermission checks that the user holds the given permission in a
// guild. Guild owners bypass all checks; ADMINISTRATOR widens to everything.
func (p *PermissionChecker) RequireGuildPermission(ctx context.Context, guildID, userID int64, perm permissions.Permission) error {
	guild, err := p.guilds.GetByID(ctx, guildID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if guild == nil {
		return NotFound("NOT_FOUND", "guild not found")
	}
	if guild.OwnerID == userID {
		return nil
	}

	member, err := p.members.GetByGuildAndUser(ctx, guildID, userID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if member == nil {
		return Forbidden("FORBIDDEN", "you are not a member of this guild")
	}

	computed, err := p.resolve(ctx, guildID, userID)
	if err != nil {
		return err
	}
	if !computed.Has(perm) {
		return Forbidden("MISSING_PERMISSIONS", "you do not have the required permissions")
	}
	return nil
}

// IsGuildOwner reports whether the user owns the guild.
func (p *PermissionChecker) IsGuildOwner(ctx context.Context, guildID, userID int64) (bool, error) {
	guild, err := p.guilds.GetByID(ctx, guildID)
	if err != nil {
		return false, Internal("INTERNAL", "internal server error")
	}
	if guild == nil {
		return false, nil
	}
	return guild.OwnerID == userID, nil
}

func (p *PermissionChecker) resolve(ctx context.Context, guildID, userID int64) (permissions.Permission, error) {
	memberRoles, err := p.roles.GetByMember(ctx, guildID, userID)
	if err != nil {
		return 0, Internal("INTERNAL", "internal server error")
	}

	allRoles, err := p.roles.GetByGuildID(ctx, guildID)
	if err != nil {
		return 0, Internal("INTERNAL", "internal server error")
	}

	var defaultRole models.Role
	for _, r := range allRoles {
		if r.IsDefault {
			defaultRole = r
			break
		}
	}

	rolePerms := make([]permissions.Permission, 0, len(memberRoles))
	for _, r := range memberRoles {
		rolePerms = append(rolePerms, permissions.Permission(r.Permissions))
	}

	return permissions.ComputeBasePermissions(permissions.Permission(defaultRole.Permissions), rolePerms), nil
}
