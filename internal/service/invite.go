package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/victorivanov/guildgate/internal/database"
	"github.com/victorivanov/guildgate/internal/gateway"
	"github.com/victorivanov/guildgate/internal/models"
	"github.com/victorivanov/guildgate/internal/permissions"
)

// Invite parameter bounds. A max_age of 0 never expires; a max_uses of 0 is
// unlimited.
const (
	maxInviteAge  = 7 * 24 * 60 * 60 // seconds
	maxInviteUses = 100

	inviteInfoTTL = 30 * time.Second
)

// InviteInfo is the public-facing invite information (no auth required).
type InviteInfo struct {
	Code        string     `json:"code"`
	GuildID     int64      `json:"guild_id,string"`
	GuildName   string     `json:"guild_name"`
	ChannelID   *int64     `json:"channel_id,string,omitempty"`
	InviterID   int64      `json:"inviter_id,string"`
	MemberCount int        `json:"member_count"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	Temporary   bool       `json:"temporary"`
}

// CreateInviteParams are the caller-supplied invite settings.
type CreateInviteParams struct {
	ChannelID *int64
	MaxAge    int
	MaxUses   int
	Temporary bool
}

// InviteService handles the invite lifecycle: minting, public lookup,
// redemption, and revocation.
type InviteService struct {
	invites  database.InviteRepository
	guilds   database.GuildRepository
	channels database.ChannelRepository
	members  database.MemberRepository
	bans     database.BanRepository
	gateway  gateway.Dispatcher
	perms    *PermissionChecker

	// The public lookup endpoint is unauthenticated and gets hammered by
	// link previews, so resolved info is cached briefly, keyed by the
	// invite's hash key.
	cacheMu sync.RWMutex
	cache   map[models.InviteKey]cachedInfo
}

type cachedInfo struct {
	info    *InviteInfo
	staleAt time.Time
}

// NewInviteService creates an InviteService.
func NewInviteService(
	invites database.InviteRepository,
	guilds database.GuildRepository,
	channels database.ChannelRepository,
	members database.MemberRepository,
	bans database.BanRepository,
	gw gateway.Dispatcher,
	perms *PermissionChecker,
) *InviteService {
	return &InviteService{
		invites:  invites,
		guilds:   guilds,
		channels: channels,
		members:  members,
		bans:     bans,
		gateway:  gw,
		perms:    perms,
		cache:    make(map[models.InviteKey]cachedInfo),
	}
}

// CreateInvite mints an invite for a guild, optionally targeting a channel.
func (s *InviteService) CreateInvite(ctx context.Context, guildID, userID int64, params CreateInviteParams) (*models.Invite, error) {
	if err := s.perms.RequireGuildPermission(ctx, guildID, userID, permissions.PermCreateInvite); err != nil {
		return nil, err
	}

	if params.MaxAge < 0 || params.MaxAge > maxInviteAge {
		return nil, BadRequest("INVALID_MAX_AGE", "max_age must be between 0 and 604800 seconds")
	}
	if params.MaxUses < 0 || params.MaxUses > maxInviteUses {
		return nil, BadRequest("INVALID_MAX_USES", "max_uses must be between 0 and 100")
	}

	if params.ChannelID != nil {
		channel, err := s.channels.GetByID(ctx, *params.ChannelID)
		if err != nil {
			return nil, Internal("INTERNAL", "internal server error")
		}
		if channel == nil || channel.GuildID != guildID {
			return nil, BadRequest("INVALID_CHANNEL", "channel does not belong to this guild")
		}
	}

	code, err := generateInviteCode()
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	invite := &models.Invite{
		Code:      code,
		GuildID:   guildID,
		ChannelID: params.ChannelID,
		InviterID: userID,
		CreatedAt: time.Now(),
		MaxAge:    params.MaxAge,
		MaxUses:   params.MaxUses,
		Temporary: params.Temporary,
	}

	if err := s.invites.Create(ctx, invite); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	s.gateway.DispatchToGuild(guildID, gateway.EventInviteCreate, invite)
	return invite, nil
}

// ListInvites returns all invites for a guild, revoked ones included.
func (s *InviteService) ListInvites(ctx context.Context, guildID, userID int64) ([]models.Invite, error) {
	if err := s.perms.RequireGuildPermission(ctx, guildID, userID, permissions.PermManageInvites); err != nil {
		return nil, err
	}

	invites, err := s.invites.GetByGuildID(ctx, guildID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if invites == nil {
		invites = []models.Invite{}
	}
	return invites, nil
}

// GetInvite resolves a code to public invite information (no auth).
func (s *InviteService) GetInvite(ctx context.Context, code string) (*InviteInfo, error) {
	key := models.InviteKey(code)
	if info, ok := s.cachedInfo(key); ok {
		return info, nil
	}

	invite, err := s.invites.GetByCode(ctx, code)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if invite == nil || invite.Revoked {
		// Revoked codes resolve exactly like unknown ones so a code's
		// history is not observable from the outside.
		return nil, NotFound("NOT_FOUND", "invite not found")
	}
	if invite.Expired(time.Now()) {
		return nil, Gone("EXPIRED", "invite has expired")
	}

	guild, err := s.guilds.GetByID(ctx, invite.GuildID)
	if err != nil || guild == nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	count, err := s.members.CountByGuildID(ctx, invite.GuildID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	info := &InviteInfo{
		Code:        invite.Code,
		GuildID:     guild.ID,
		GuildName:   guild.Name,
		ChannelID:   invite.ChannelID,
		InviterID:   invite.InviterID,
		MemberCount: count,
		ExpiresAt:   invite.ExpiresAt(),
		Temporary:   invite.Temporary,
	}
	s.storeInfo(invite.Key(), info)
	return info, nil
}

// AcceptInvite joins the user to the guild behind the code. Membership is
// temporary when the invite is.
func (s *InviteService) AcceptInvite(ctx context.Context, code string, userID int64) (*models.Guild, error) {
	invite, err := s.invites.GetByCode(ctx, code)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if invite == nil || invite.Revoked {
		return nil, NotFound("NOT_FOUND", "invite not found")
	}
	if invite.Expired(time.Now()) {
		return nil, Gone("EXPIRED", "invite has expired")
	}
	if invite.Exhausted() {
		return nil, Gone("MAX_USES", "invite has reached maximum uses")
	}

	existing, err := s.members.GetByGuildAndUser(ctx, invite.GuildID, userID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if existing != nil {
		return nil, Conflict("ALREADY_MEMBER", "you are already a member of this guild")
	}

	ban, err := s.bans.GetByGuildAndUser(ctx, invite.GuildID, userID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if ban != nil {
		return nil, Forbidden("BANNED", "you are banned from this guild")
	}

	member := &models.Member{
		GuildID:   invite.GuildID,
		UserID:    userID,
		Temporary: invite.Temporary,
		JoinedAt:  time.Now(),
	}
	if err := s.members.Create(ctx, member); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	if err := s.invites.IncrementUses(ctx, code); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	s.dropInfo(invite.Key())

	guild, err := s.guilds.GetByID(ctx, invite.GuildID)
	if err != nil || guild == nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	s.gateway.SubscribeToGuild(userID, invite.GuildID)
	s.gateway.DispatchToGuild(invite.GuildID, gateway.EventGuildMemberAdd, member)

	return guild, nil
}

// RevokeInvite invalidates an invite without deleting its row. The inviter
// can always revoke; anyone else needs MANAGE_INVITES.
func (s *InviteService) RevokeInvite(ctx context.Context, code string, userID int64) error {
	invite, err := s.invites.GetByCode(ctx, code)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if invite == nil {
		return NotFound("NOT_FOUND", "invite not found")
	}

	if invite.InviterID != userID {
		if err := s.perms.RequireGuildPermission(ctx, invite.GuildID, userID, permissions.PermManageInvites); err != nil {
			return err
		}
	}

	if invite.Revoked {
		// Revoking twice is a no-op.
		return nil
	}

	if err := s.invites.Revoke(ctx, code); err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	s.dropInfo(invite.Key())

	s.gateway.DispatchToGuild(invite.GuildID, gateway.EventInviteDelete, map[string]string{"code": code})
	return nil
}

func (s *InviteService) cachedInfo(key models.InviteKey) (*InviteInfo, bool) {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	entry, ok := s.cache[key]
	if !ok || time.Now().After(entry.staleAt) {
		return nil, false
	}
	return entry.info, true
}

func (s *InviteService) storeInfo(key models.InviteKey, info *InviteInfo) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.cache[key] = cachedInfo{info: info, staleAt: time.Now().Add(inviteInfoTTL)}
}

func (s *InviteService) dropInfo(key models.InviteKey) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	delete(s.cache, key)
}

func generateInviteCode() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
