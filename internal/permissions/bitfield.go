package permissions

import (
	"sort"
	"strings"
)

// Permission is a bitfield representing a set of guild permissions.
type Permission int64

const (
	PermViewChannels   Permission = 1 << 0
	PermManageChannels Permission = 1 << 1
	PermManageGuild    Permission = 1 << 2
	PermManageRoles    Permission = 1 << 3
	PermKickMembers    Permission = 1 << 4
	PermBanMembers     Permission = 1 << 5
	PermCreateInvite   Permission = 1 << 6
	PermManageInvites  Permission = 1 << 7
	PermChangeNickname Permission = 1 << 8
	PermAdministrator  Permission = 1 << 31 // bypasses all checks

	PermAll = Permission(0x7FFFFFFFFFFFFFFF)
)

// DefaultEveryonePerms is the permission set for a guild's default role.
var DefaultEveryonePerms = PermViewChannels | PermCreateInvite | PermChangeNickname

// Has returns true if p contains all bits in perm.
func (p Permission) Has(perm Permission) bool { return p&perm == perm }

// Add returns p with the bits from perm set.
func (p Permission) Add(perm Permission) Permission { return p | perm }

// Remove returns p with the bits from perm cleared.
func (p Permission) Remove(perm Permission) Permission { return p &^ perm }

var permNames = map[Permission]string{
	PermViewChannels:   "VIEW_CHANNELS",
	PermManageChannels: "MANAGE_CHANNELS",
	PermManageGuild:    "MANAGE_GUILD",
	PermManageRoles:    "MANAGE_ROLES",
	PermKickMembers:    "KICK_MEMBERS",
	PermBanMembers:     "BAN_MEMBERS",
	PermCreateInvite:   "CREATE_INVITE",
	PermManageInvites:  "MANAGE_INVITES",
	PermChangeNickname: "CHANGE_NICKNAME",
	PermAdministrator:  "ADMINISTRATOR",
}

// String lists the set permission names separated by " | ".
func (p Permission) String() string {
	if p == 0 {
		return "NONE"
	}

	var names []string
	for bit, name := range permNames {
		if p.Has(bit) {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "UNKNOWN"
	}

	sort.Strings(names)
	return strings.Join(names, " | ")
}

// ComputeBasePermissions computes guild-level permissions for a member:
// the default role's permissions ORed with all assigned role permissions,
// widening to PermAll when ADMINISTRATOR is present.
func ComputeBasePermissions(defaultPerms Permission, rolePerms []Permission) Permission {
	perms := defaultPerms
	for _, rp := range rolePerms {
		perms = perms.Add(rp)
	}
	if perms.Has(PermAdministrator) {
		return PermAll
	}
	return perms
}
