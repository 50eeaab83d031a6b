package user

import (
	"context"
	"errors"

	"github.com/Avi-17/Z/internal/apperror"
	"github.com/Avi-17/Z/internal/db"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, username, full_name, email, password_hash, bio, link, profile_img, cover_img, created_at, updated_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.FullName, &u.Email, &u.PasswordHash,
		&u.Bio, &u.Link, &u.ProfileImg, &u.CoverImg, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// ByUsername loads a full user row. Shared with the auth service, which is
// why these lookups are package functions over a Querier.
func ByUsername(ctx context.Context, q db.Querier, username string) (User, error) {
	row := q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username=$1`, username)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, apperror.NewNotFound("User not found")
	}
	return u, err
}

func ByID(ctx context.Context, q db.Querier, id string) (User, error) {
	row := q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, apperror.NewNotFound("User not found")
	}
	return u, err
}

// LoadSets resolves the follower, following and liked-post id sets.
func LoadSets(ctx context.Context, q db.Querier, userID string) (followers, following, liked []string, err error) {
	followers, err = idList(ctx, q, `SELECT follower_id FROM follows WHERE following_id=$1`, userID)
	if err != nil {
		return nil, nil, nil, err
	}
	following, err = idList(ctx, q, `SELECT following_id FROM follows WHERE follower_id=$1`, userID)
	if err != nil {
		return nil, nil, nil, err
	}
	liked, err = idList(ctx, q, `SELECT post_id FROM post_likes WHERE user_id=$1`, userID)
	if err != nil {
		return nil, nil, nil, err
	}
	return followers, following, liked, nil
}

// PublicOf strips the password hash and attaches the resolved sets.
func PublicOf(u User, followers, following, liked []string) Public {
	return Public{
		ID:         u.ID,
		Username:   u.Username,
		FullName:   u.FullName,
		Email:      u.Email,
		Bio:        u.Bio,
		Link:       u.Link,
		ProfileImg: u.ProfileImg,
		CoverImg:   u.CoverImg,
		Followers:  followers,
		Following:  following,
		LikedPosts: liked,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// LoadPublic is the common lookup-then-project path.
func LoadPublic(ctx context.Context, q db.Querier, u User) (Public, error) {
	followers, following, liked, err := LoadSets(ctx, q, u.ID)
	if err != nil {
		return Public{}, err
	}
	return PublicOf(u, followers, following, liked), nil
}

func idList(ctx context.Context, q db.Querier, sql, arg string) ([]string, error) {
	rows, err := q.Query(ctx, sql, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
