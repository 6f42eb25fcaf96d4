package models

import "time"

// Invite is a token granting access to join a guild, optionally pointing at a
// specific channel. MaxAge is the lifetime in seconds from CreatedAt, with 0
// meaning the invite never expires. MaxUses caps redemptions, 0 meaning
// unlimited. A revoked invite keeps its row for auditing but can no longer be
// resolved or accepted.
type Invite struct {
	Code      string    `json:"code"`
	GuildID   int64     `json:"guild_id,string"`
	ChannelID *int64    `json:"channel_id,string,omitempty"`
	InviterID int64     `json:"inviter_id,string"`
	CreatedAt time.Time `json:"created_at"`
	MaxAge    int       `json:"max_age"`
	MaxUses   int       `json:"max_uses"`
	Uses      int       `json:"uses"`
	Temporary bool      `json:"temporary"`
	Revoked   bool      `json:"revoked"`
}

// InviteKey identifies an invite for use as a map or set key. Two invites are
// the same invite iff their keys compare equal.
type InviteKey string

// Key derives the invite's hash key. Identity is the code: the platform never
// reissues a code, so the code alone is sufficient.
func (i *Invite) Key() InviteKey {
	return InviteKey(i.Code)
}

// ExpiresAt returns the instant the invite expires, or nil if it never does.
func (i *Invite) ExpiresAt() *time.Time {
	if i.MaxAge <= 0 {
		return nil
	}
	t := i.CreatedAt.Add(time.Duration(i.MaxAge) * time.Second)
	return &t
}

// Expired reports whether the invite's age limit has passed at the given time.
func (i *Invite) Expired(now time.Time) bool {
	exp := i.ExpiresAt()
	return exp != nil && exp.Before(now)
}

// Exhausted reports whether the invite has reached its usage cap.
func (i *Invite) Exhausted() bool {
	return i.MaxUses > 0 && i.Uses >= i.MaxUses
}

// Usable reports whether the invite can still be redeemed at the given time.
func (i *Invite) Usable(now time.Time) bool {
	return !i.Revoked && !i.Expired(now) && !i.Exhausted()
}
