package user

import "time"

type User struct {
	ID           string
	Username     string
	FullName     string
	Email        string
	PasswordHash string
	Bio          string
	Link         string
	ProfileImg   string
	CoverImg     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Public is the user projection returned to clients: every field except the
// password hash, with the follow and like sets resolved.
type Public struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	FullName   string    `json:"full_name"`
	Email      string    `json:"email"`
	Bio        string    `json:"bio"`
	Link       string    `json:"link"`
	ProfileImg string    `json:"profile_img"`
	CoverImg   string    `json:"cover_img"`
	Followers  []string  `json:"followers"`
	Following  []string  `json:"following"`
	LikedPosts []string  `json:"liked_posts"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Summary is the compact projection used where users are embedded in other
// resources (suggestions, post authors, comment authors).
type Summary struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	FullName   string `json:"full_name"`
	ProfileImg string `json:"profile_img"`
}

type UpdateProfileRequest struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Username        string `json:"username"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	Bio             string `json:"bio"`
	Link            string `json:"link"`
	ProfileImg      string `json:"profile_img"`
	CoverImg        string `json:"cover_img"`
}
