package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/victorivanov/guildgate/internal/auth"
	"github.com/victorivanov/guildgate/internal/database"
	"github.com/victorivanov/guildgate/internal/redis"
)

const disconnectGrace = 10 * time.Second

// Manager manages all active WebSocket connections and event routing.
type Manager struct {
	mu            sync.RWMutex
	connections   map[int64]*Connection    // userID → connection
	subscriptions map[int64]map[int64]bool // guildID → set of userIDs
	sessions      map[string]*Connection   // sessionID → connection

	tokens  *auth.TokenService
	guilds  database.GuildRepository
	members database.MemberRepository
	roles   database.RoleRepository
	redis   *redis.Client
}

// NewManager creates a new gateway Manager.
func NewManager(
	tokens *auth.TokenService,
	guilds database.GuildRepository,
	members database.MemberRepository,
	roles database.RoleRepository,
	redisClient *redis.Client,
) *Manager {
	return &Manager{
		connections:   make(map[int64]*Connection),
		subscriptions: make(map[int64]map[int64]bool),
		sessions:      make(map[string]*Connection),
		tokens:        tokens,
		guilds:        guilds,
		members:       members,
		roles:         roles,
		redis:         redisClient,
	}
}

// register adds a connection to the manager.
func (m *Manager) register(c *Connection) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Disconnect existing connection for this user.
	if old, ok := m.connections[c.UserID]; ok {
		old.SendPayload(Payload{Op: OpReconnect})
		old.Close()
		delete(m.sessions, old.SessionID)
	}

	m.connections[c.UserID] = c
	m.sessions[c.SessionID] = c
}

// unregister removes a connection from the manager and cleans up subscriptions.
func (m *Manager) unregister(c *Connection) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.connections[c.UserID]; ok && existing == c {
		delete(m.connections, c.UserID)

		// Remove from all guild subscriptions.
		for guildID, members := range m.subscriptions {
			delete(members, c.UserID)
			if len(members) == 0 {
				delete(m.subscriptions, guildID)
			}
		}

		go m.handleDisconnect(c.UserID)
	}

	delete(m.sessions, c.SessionID)
}

// handleDisconnect waits out a grace period before marking the user offline
// and reaping their temporary guild memberships, allowing reconnection.
func (m *Manager) handleDisconnect(userID int64) {
	time.Sleep(disconnectGrace)

	m.mu.RLock()
	_, stillConnected := m.connections[userID]
	m.mu.RUnlock()

	if stillConnected {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	m.markOffline(ctx, userID)
	m.reapTemporaryMemberships(ctx, userID)
}

// markOffline clears the user's presence and notifies their guilds. The
// subscription sets no longer contain the user at this point, so the target
// guilds come from the membership table, not from broadcastPresence.
func (m *Manager) markOffline(ctx context.Context, userID int64) {
	if err := m.redis.DeletePresence(ctx, userID); err != nil {
		slog.Error("failed to clear presence", "userID", userID, "error", err)
	}

	guilds, err := m.guilds.GetByUserID(ctx, userID)
	if err != nil {
		slog.Error("failed to get guilds for offline broadcast", "userID", userID, "error", err)
		return
	}

	data := PresenceUpdateData{UserID: userID, Status: "offline"}
	for _, g := range guilds {
		m.DispatchToGuild(g.ID, EventPresenceUpdate, data)
	}
}

// reapTemporaryMemberships removes the user's temporary memberships in guilds
// where they were never granted a role.
func (m *Manager) reapTemporaryMemberships(ctx context.Context, userID int64) {
	memberships, err := m.members.GetTemporaryByUser(ctx, userID)
	if err != nil {
		slog.Error("failed to get temporary memberships", "userID", userID, "error", err)
		return
	}

	for _, membership := range memberships {
		roles, err := m.roles.GetByMember(ctx, membership.GuildID, userID)
		if err != nil {
			slog.Error("failed to get member roles", "guildID", membership.GuildID, "userID", userID, "error", err)
			continue
		}
		if len(roles) > 0 {
			// A role grant makes the membership permanent.
			continue
		}

		if err := m.members.Delete(ctx, membership.GuildID, userID); err != nil {
			slog.Error("failed to remove temporary member", "guildID", membership.GuildID, "userID", userID, "error", err)
			continue
		}

		slog.Info("removed temporary member", "guildID", membership.GuildID, "userID", userID)
		m.DispatchToGuild(membership.GuildID, EventGuildMemberRemove, map[string]string{
			"guild_id": strconv.FormatInt(membership.GuildID, 10),
			"user_id":  strconv.FormatInt(userID, 10),
		})
	}
}

// subscribe adds a user to a guild's event subscription.
func (m *Manager) subscribe(userID, guildID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.subscriptions[guildID] == nil {
		m.subscriptions[guildID] = make(map[int64]bool)
	}
	m.subscriptions[guildID][userID] = true
}

// SubscribeToGuild adds a user to a guild's event subscription.
func (m *Manager) SubscribeToGuild(userID, guildID int64) {
	m.subscribe(userID, guildID)
}

// UnsubscribeFromGuild removes a user from a guild's event subscription.
func (m *Manager) UnsubscribeFromGuild(userID, guildID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if members, ok := m.subscriptions[guildID]; ok {
		delete(members, userID)
		if len(members) == 0 {
			delete(m.subscriptions, guildID)
		}
	}
}

// DispatchToUser sends a dispatch event to a specific connected user.
func (m *Manager) DispatchToUser(userID int64, event string, data interface{}) {
	m.mu.RLock()
	c, ok := m.connections[userID]
	m.mu.RUnlock()

	if ok {
		c.SendEvent(event, data)
	}
}

// DispatchToGuild sends a dispatch event to all users subscribed to a guild.
func (m *Manager) DispatchToGuild(guildID int64, event string, data interface{}) {
	m.mu.RLock()
	members := m.subscriptions[guildID]
	conns := make([]*Connection, 0, len(members))
	for userID := range members {
		if c, ok := m.connections[userID]; ok {
			conns = append(conns, c)
		}
	}
	m.mu.RUnlock()

	for _, c := range conns {
		c.SendEvent(event, data)
	}
}

// handleIdentify processes an IDENTIFY payload from a client.
func (m *Manager) handleIdentify(c *Connection, data json.RawMessage) {
	var identify IdentifyData
	if err := json.Unmarshal(data, &identify); err != nil {
		slog.Error("invalid identify data", "error", err)
		c.Close()
		return
	}

	claims, err := m.tokens.ValidateAccessToken(identify.Token)
	if err != nil {
		slog.Warn("invalid token in identify", "error", err)
		c.Close()
		return
	}

	c.UserID = claims.UserID
	c.SessionID = uuid.NewString()

	// Get user's guilds and subscribe.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	guilds, err := m.guilds.GetByUserID(ctx, c.UserID)
	if err != nil {
		slog.Error("failed to get guilds for user", "userID", c.UserID, "error", err)
		c.Close()
		return
	}

	m.register(c)

	guildIDs := make([]int64, len(guilds))
	for i, g := range guilds {
		guildIDs[i] = g.ID
		m.subscribe(c.UserID, g.ID)
	}

	// Restore the previous status when reconnecting within the grace window,
	// otherwise come back online.
	status, err := m.redis.GetPresence(ctx, c.UserID)
	if err != nil || status == "" || status == "offline" {
		status = "online"
	}
	if err := m.redis.SetPresence(ctx, c.UserID, status); err != nil {
		slog.Error("failed to set presence", "userID", c.UserID, "error", err)
	}

	c.SendEvent(EventReady, ReadyData{
		SessionID: c.SessionID,
		UserID:    c.UserID,
		Guilds:    guildIDs,
	})

	// Broadcast presence to guild members.
	m.broadcastPresence(c.UserID, status)
}

// handlePresenceUpdate processes a client presence update.
func (m *Manager) handlePresenceUpdate(c *Connection, data json.RawMessage) {
	var update ClientPresenceUpdate
	if err := json.Unmarshal(data, &update); err != nil {
		return
	}

	switch update.Status {
	case "online", "idle", "dnd", "invisible":
		// valid
	default:
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	status := update.Status
	if status == "invisible" {
		status = "offline"
	}
	if err := m.redis.SetPresence(ctx, c.UserID, status); err != nil {
		slog.Error("failed to update presence", "userID", c.UserID, "error", err)
		return
	}

	m.broadcastPresence(c.UserID, status)
}

// broadcastPresence sends a PRESENCE_UPDATE event to all guilds the user is in.
func (m *Manager) broadcastPresence(userID int64, status string) {
	data := PresenceUpdateData{
		UserID: userID,
		Status: status,
	}

	m.mu.RLock()
	var guildIDs []int64
	for guildID, members := range m.subscriptions {
		if members[userID] {
			guildIDs = append(guildIDs, guildID)
		}
	}
	m.mu.RUnlock()

	for _, guildID := range guildIDs {
		m.DispatchToGuild(guildID, EventPresenceUpdate, data)
	}
}
