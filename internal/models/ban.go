package models

import "time"

// Ban blocks a user from joining a guild, including through invites.
type Ban struct {
	GuildID   int64     `json:"guild_id,string"`
	UserID    int64     `json:"user_id,string"`
	Reason    *string   `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
