package models

import "time"

// Guild is a community on the platform. Members join it through invites.
type Guild struct {
	ID          int64     `json:"id,string"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	OwnerID     int64     `json:"owner_id,string"`
	CreatedAt   time.Time `json:"created_at"`
}
