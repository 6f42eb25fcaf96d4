package models

// Role carries a permission bitfield within a guild. Every guild has a default
// role applied to all members.
type Role struct {
	ID          int64  `json:"id,string"`
	GuildID     int64  `json:"guild_id,string"`
	Name        string `json:"name"`
	Permissions int64  `json:"permissions,string"`
	Position    int    `json:"position"`
	IsDefault   bool   `json:"is_default"`
}
