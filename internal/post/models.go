package post

import (
	"time"

	"github.com/Avi-17/Z/internal/user"
)

type Comment struct {
	ID        int64         `json:"id"`
	Text      string        `json:"text"`
	User      *user.Summary `json:"user"`
	CreatedAt time.Time     `json:"created_at"`
}

// Post is the wire shape of a post: author and comment authors resolved to
// compact projections, likes as the liker id set, comments in append order.
type Post struct {
	ID        string        `json:"id"`
	User      *user.Summary `json:"user"`
	Text      string        `json:"text"`
	Img       string        `json:"img"`
	Likes     []string      `json:"likes"`
	Comments  []Comment     `json:"comments"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type CreateRequest struct {
	Text string `json:"text"`
	Img  string `json:"img"`
}

type CommentRequest struct {
	Text string `json:"text"`
}
