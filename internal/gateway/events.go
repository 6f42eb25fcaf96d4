package gateway

import "encoding/json"

// Op codes for gateway payloads.
const (
	OpDispatch       = 0
	OpHeartbeat      = 1
	OpIdentify       = 2
	OpPresenceUpdate = 3
	OpReconnect      = 7
	OpHello          = 10
	OpHeartbeatAck   = 11
)

// Event names for DISPATCH payloads.
const (
	EventReady             = "READY"
	EventGuildCreate       = "GUILD_CREATE"
	EventGuildUpdate       = "GUILD_UPDATE"
	EventGuildDelete       = "GUILD_DELETE"
	EventChannelCreate     = "CHANNEL_CREATE"
	EventChannelDelete     = "CHANNEL_DELETE"
	EventGuildMemberAdd    = "GUILD_MEMBER_ADD"
	EventGuildMemberUpdate = "GUILD_MEMBER_UPDATE"
	EventGuildMemberRemove = "GUILD_MEMBER_REMOVE"
	EventGuildBanAdd       = "GUILD_BAN_ADD"
	EventGuildBanRemove    = "GUILD_BAN_REMOVE"
	EventInviteCreate      = "INVITE_CREATE"
	EventInviteDelete      = "INVITE_DELETE"
	EventPresenceUpdate    = "PRESENCE_UPDATE"
)

// Payload is the envelope for all gateway messages.
type Payload struct {
	Op       int             `json:"op"`
	Data     json.RawMessage `json:"d,omitempty"`
	Sequence *int64          `json:"s,omitempty"`
	Event    *string         `json:"t,omitempty"`
}

// IdentifyData is sent by the client in an Op 2 IDENTIFY.
type IdentifyData struct {
	Token string `json:"token"`
}

// HelloData is sent by the server after WebSocket connect.
type HelloData struct {
	HeartbeatInterval int `json:"heartbeat_interval"`
}

// ReadyData is sent by the server after a successful IDENTIFY.
type ReadyData struct {
	SessionID string  `json:"session_id"`
	UserID    int64   `json:"user_id,string"`
	Guilds    []int64 `json:"guilds"`
}

// PresenceUpdateData is the payload for PRESENCE_UPDATE events.
type PresenceUpdateData struct {
	UserID int64  `json:"user_id,string"`
	Status string `json:"status"`
}

// ClientPresenceUpdate is sent by the client in an Op 3 PRESENCE_UPDATE.
type ClientPresenceUpdate struct {
	Status string `json:"status"`
}
