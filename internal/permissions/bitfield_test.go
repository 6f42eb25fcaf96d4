package permissions

import (
	"strings"
	"testing"
)

func TestPermission_HasAddRemove(t *testing.T) {
	p := PermViewChannels | PermCreateInvite

	if !p.Has(PermViewChannels) {
		t.Error("should have VIEW_CHANNELS")
	}
	if !p.Has(PermCreateInvite) {
		t.Error("should have CREATE_INVITE")
	}
	if p.Has(PermManageGuild) {
		t.Error("should not have MANAGE_GUILD")
	}
	if !p.Has(PermViewChannels | PermCreateInvite) {
		t.Error("Has should check all bits together")
	}

	p = p.Add(PermManageGuild)
	if !p.Has(PermManageGuild) {
		t.Error("Add should set MANAGE_GUILD")
	}

	p = p.Remove(PermCreateInvite)
	if p.Has(PermCreateInvite) {
		t.Error("Remove should clear CREATE_INVITE")
	}
	if !p.Has(PermViewChannels) {
		t.Error("Remove should not clear other bits")
	}
}

func TestPermission_String(t *testing.T) {
	if got := Permission(0).String(); got != "NONE" {
		t.Errorf("String() = %q, want NONE", got)
	}

	s := (PermCreateInvite | PermManageGuild).String()
	if !strings.Contains(s, "CREATE_INVITE") || !strings.Contains(s, "MANAGE_GUILD") {
		t.Errorf("String() = %q, missing expected names", s)
	}
}

func TestComputeBasePermissions(t *testing.T) {
	base := ComputeBasePermissions(DefaultEveryonePerms, nil)
	if !base.Has(PermCreateInvite) {
		t.Error("default role should grant CREATE_INVITE")
	}
	if base.Has(PermManageGuild) {
		t.Error("default role should not grant MANAGE_GUILD")
	}

	withRole := ComputeBasePermissions(DefaultEveryonePerms, []Permission{PermManageInvites, PermKickMembers})
	if !withRole.Has(PermManageInvites | PermKickMembers) {
		t.Error("role permissions should be ORed in")
	}

	admin := ComputeBasePermissions(DefaultEveryonePerms, []Permission{PermAdministrator})
	if admin != PermAll {
		t.Errorf("ADMINISTRATOR should widen to PermAll, got %v", admin)
	}
}
