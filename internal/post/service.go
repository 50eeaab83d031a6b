package post

import (
	"context"
	"errors"
	"log"

	"github.com/Avi-17/Z/internal/apperror"
	"github.com/Avi-17/Z/internal/db"
	"github.com/Avi-17/Z/internal/media"
	"github.com/Avi-17/Z/internal/notification"
	"github.com/Avi-17/Z/internal/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Service struct {
	db            db.Querier
	media         media.Store
	notifications *notification.Service
}

func NewService(dbq db.Querier, mediaStore media.Store, notifications *notification.Service) *Service {
	return &Service{db: dbq, media: mediaStore, notifications: notifications}
}

// Create uploads the image payload first (when present) so only a hosted URL
// is ever persisted.
func (s *Service) Create(ctx context.Context, actingID string, req CreateRequest) (Post, error) {
	author, err := user.ByID(ctx, s.db, actingID)
	if err != nil {
		return Post{}, err
	}

	if req.Text == "" && req.Img == "" {
		return Post{}, apperror.NewValidation("Post must have text or image")
	}

	img := req.Img
	if img != "" {
		url, err := s.media.Upload(ctx, img)
		if err != nil {
			return Post{}, err
		}
		img = url
	}

	p := Post{
		ID:   uuid.NewString(),
		Text: req.Text,
		Img:  img,
		User: &user.Summary{
			ID:         author.ID,
			Username:   author.Username,
			FullName:   author.FullName,
			ProfileImg: author.ProfileImg,
		},
		Likes:    []string{},
		Comments: []Comment{},
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO posts (id, user_id, text, img)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at, updated_at
	`, p.ID, actingID, p.Text, p.Img)
	if err := row.Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		return Post{}, err
	}
	return p, nil
}

// Delete removes an owned post. The stored image is deleted best-effort: a
// media store failure is logged and the post still goes away.
func (s *Service) Delete(ctx context.Context, actingID, postID string) error {
	ownerID, img, err := s.postMeta(ctx, postID)
	if err != nil {
		return err
	}
	if ownerID != actingID {
		return apperror.NewAuth("You can only delete your own posts")
	}

	if img != "" {
		if err := s.media.Delete(ctx, img); err != nil {
			log.Printf("media delete failed for post %s: %v", postID, err)
		}
	}

	_, err = s.db.Exec(ctx, `DELETE FROM posts WHERE id=$1`, postID)
	return err
}

// Comment appends to the post's comment list and returns the updated post.
func (s *Service) Comment(ctx context.Context, actingID, postID, text string) (Post, error) {
	if text == "" {
		return Post{}, apperror.NewValidation("Comment field is required")
	}

	if _, _, err := s.postMeta(ctx, postID); err != nil {
		return Post{}, err
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO comments (post_id, user_id, text)
		VALUES ($1,$2,$3)
	`, postID, actingID, text)
	if err != nil {
		return Post{}, err
	}

	return s.ByID(ctx, postID)
}

// LikeToggle likes the post when not yet liked, unlikes otherwise. A like
// notifies the post owner, self-likes included.
func (s *Service) LikeToggle(ctx context.Context, actingID, postID string) (bool, error) {
	ownerID, _, err := s.postMeta(ctx, postID)
	if err != nil {
		return false, err
	}

	liked, err := db.ToggleMembership(ctx, s.db,
		`SELECT EXISTS(SELECT 1 FROM post_likes WHERE post_id=$1 AND user_id=$2)`,
		`INSERT INTO post_likes (post_id, user_id) VALUES ($1,$2)`,
		`DELETE FROM post_likes WHERE post_id=$1 AND user_id=$2`,
		postID, actingID)
	if err != nil {
		return false, err
	}

	if liked {
		if err := s.notifications.Create(ctx, notification.TypeLike, actingID, ownerID); err != nil {
			return false, err
		}
	}
	return liked, nil
}

func (s *Service) All(ctx context.Context) ([]Post, error) {
	return s.queryPosts(ctx, `
		SELECT id, user_id, text, img, created_at, updated_at
		FROM posts
		ORDER BY created_at DESC
	`)
}

// Liked returns the posts a user has liked. The order is whatever the
// database hands back; callers have always seen it that way.
func (s *Service) Liked(ctx context.Context, userID string) ([]Post, error) {
	if _, err := user.ByID(ctx, s.db, userID); err != nil {
		return nil, err
	}
	return s.queryPosts(ctx, `
		SELECT id, user_id, text, img, created_at, updated_at
		FROM posts
		WHERE id IN (SELECT post_id FROM post_likes WHERE user_id=$1)
	`, userID)
}

func (s *Service) Following(ctx context.Context, actingID string) ([]Post, error) {
	if _, err := user.ByID(ctx, s.db, actingID); err != nil {
		return nil, err
	}
	return s.queryPosts(ctx, `
		SELECT id, user_id, text, img, created_at, updated_at
		FROM posts
		WHERE user_id IN (SELECT following_id FROM follows WHERE follower_id=$1)
		ORDER BY created_at DESC
	`, actingID)
}

func (s *Service) ByUsername(ctx context.Context, username string) ([]Post, error) {
	u, err := user.ByUsername(ctx, s.db, username)
	if err != nil {
		return nil, err
	}
	return s.queryPosts(ctx, `
		SELECT id, user_id, text, img, created_at, updated_at
		FROM posts
		WHERE user_id=$1
		ORDER BY created_at DESC
	`, u.ID)
}

func (s *Service) ByID(ctx context.Context, postID string) (Post, error) {
	posts, err := s.queryPosts(ctx, `
		SELECT id, user_id, text, img, created_at, updated_at
		FROM posts
		WHERE id=$1
	`, postID)
	if err != nil {
		return Post{}, err
	}
	if len(posts) == 0 {
		return Post{}, apperror.NewNotFound("Post not found")
	}
	return posts[0], nil
}

func (s *Service) postMeta(ctx context.Context, postID string) (ownerID, img string, err error) {
	row := s.db.QueryRow(ctx, `SELECT user_id, img FROM posts WHERE id=$1`, postID)
	if err := row.Scan(&ownerID, &img); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", apperror.NewNotFound("Post not found")
		}
		return "", "", err
	}
	return ownerID, img, nil
}

// queryPosts runs a post query and resolves likes, comments and author
// projections in batched follow-up queries. Authors deleted out-of-band
// resolve to a null user rather than failing the feed.
func (s *Service) queryPosts(ctx context.Context, sql string, args ...any) ([]Post, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []Post{}
	authorOf := map[string]string{}
	var ids []string
	for rows.Next() {
		var p Post
		var authorID string
		if err := rows.Scan(&p.ID, &authorID, &p.Text, &p.Img, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.Likes = []string{}
		p.Comments = []Comment{}
		authorOf[p.ID] = authorID
		ids = append(ids, p.ID)
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return posts, nil
	}

	likes, err := s.loadLikes(ctx, ids)
	if err != nil {
		return nil, err
	}

	comments, commentAuthors, err := s.loadComments(ctx, ids)
	if err != nil {
		return nil, err
	}

	userIDs := map[string]struct{}{}
	for _, id := range authorOf {
		userIDs[id] = struct{}{}
	}
	for _, id := range commentAuthors {
		userIDs[id] = struct{}{}
	}
	authors, err := s.loadAuthors(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	for i := range posts {
		p := &posts[i]
		if likers, ok := likes[p.ID]; ok {
			p.Likes = likers
		}
		if list, ok := comments[p.ID]; ok {
			for j := range list {
				if author, ok := authors[commentAuthors[list[j].ID]]; ok {
					c := author
					list[j].User = &c
				}
			}
			p.Comments = list
		}
		if author, ok := authors[authorOf[p.ID]]; ok {
			a := author
			p.User = &a
		}
	}
	return posts, nil
}

func (s *Service) loadLikes(ctx context.Context, postIDs []string) (map[string][]string, error) {
	rows, err := s.db.Query(ctx, `
		SELECT post_id, user_id
		FROM post_likes WHERE post_id = ANY($1)
	`, postIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	likes := map[string][]string{}
	for rows.Next() {
		var postID, userID string
		if err := rows.Scan(&postID, &userID); err != nil {
			return nil, err
		}
		likes[postID] = append(likes[postID], userID)
	}
	return likes, rows.Err()
}

// loadComments returns comments grouped by post plus a comment-id to
// author-id index used for projection resolution.
func (s *Service) loadComments(ctx context.Context, postIDs []string) (map[string][]Comment, map[int64]string, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, post_id, user_id, text, created_at
		FROM comments WHERE post_id = ANY($1)
		ORDER BY id
	`, postIDs)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	comments := map[string][]Comment{}
	authors := map[int64]string{}
	for rows.Next() {
		var c Comment
		var postID, userID string
		if err := rows.Scan(&c.ID, &postID, &userID, &c.Text, &c.CreatedAt); err != nil {
			return nil, nil, err
		}
		authors[c.ID] = userID
		comments[postID] = append(comments[postID], c)
	}
	return comments, authors, rows.Err()
}

func (s *Service) loadAuthors(ctx context.Context, userIDs map[string]struct{}) (map[string]user.Summary, error) {
	if len(userIDs) == 0 {
		return map[string]user.Summary{}, nil
	}
	ids := make([]string, 0, len(userIDs))
	for id := range userIDs {
		ids = append(ids, id)
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, username, full_name, profile_img
		FROM users WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	authors := map[string]user.Summary{}
	for rows.Next() {
		var u user.Summary
		if err := rows.Scan(&u.ID, &u.Username, &u.FullName, &u.ProfileImg); err != nil {
			return nil, err
		}
		authors[u.ID] = u
	}
	return authors, rows.Err()
}
