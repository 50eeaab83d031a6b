package notification

import "time"

const (
	TypeFollow = "follow"
	TypeLike   = "like"
)

// FromUser is the compact projection of the notification's originator.
type FromUser struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	ProfileImg string `json:"profile_img"`
}

type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	From      *FromUser `json:"from"`
	To        string    `json:"to"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// Event is the payload pushed to live stream subscribers.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	From      string    `json:"from"`
	CreatedAt time.Time `json:"created_at"`
}
