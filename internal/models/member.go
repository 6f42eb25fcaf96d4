package models

import "time"

// Member is a user's membership in a guild. Temporary is set when the
// membership was granted through a temporary invite; such members are removed
// when they disconnect without having been granted a role.
type Member struct {
	GuildID   int64     `json:"guild_id,string"`
	UserID    int64     `json:"user_id,string"`
	Nickname  *string   `json:"nickname,omitempty"`
	Temporary bool      `json:"temporary"`
	JoinedAt  time.Time `json:"joined_at"`
}
