package user

import (
	"context"
	"errors"

	"github.com/Avi-17/Z/internal/apperror"
	"github.com/Avi-17/Z/internal/db"
	"github.com/Avi-17/Z/internal/media"
	"github.com/Avi-17/Z/internal/notification"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

const pgUniqueViolation = "23505"

type Service struct {
	db            db.Querier
	media         media.Store
	notifications *notification.Service
}

func NewService(dbq db.Querier, mediaStore media.Store, notifications *notification.Service) *Service {
	return &Service{db: dbq, media: mediaStore, notifications: notifications}
}

func (s *Service) Profile(ctx context.Context, username string) (Public, error) {
	u, err := ByUsername(ctx, s.db, username)
	if err != nil {
		return Public{}, err
	}
	return LoadPublic(ctx, s.db, u)
}

// FollowToggle follows the target when not yet followed, unfollows otherwise.
// A follow also records a notification; an unfollow does not.
func (s *Service) FollowToggle(ctx context.Context, actingID, targetID string) (bool, error) {
	if actingID == targetID {
		return false, apperror.NewValidation("You cannot follow or unfollow yourself.")
	}

	if _, err := ByID(ctx, s.db, targetID); err != nil {
		return false, err
	}
	if _, err := ByID(ctx, s.db, actingID); err != nil {
		return false, err
	}

	followed, err := db.ToggleMembership(ctx, s.db,
		`SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id=$1 AND following_id=$2)`,
		`INSERT INTO follows (follower_id, following_id) VALUES ($1,$2)`,
		`DELETE FROM follows WHERE follower_id=$1 AND following_id=$2`,
		actingID, targetID)
	if err != nil {
		return false, err
	}

	if followed {
		if err := s.notifications.Create(ctx, notification.TypeFollow, actingID, targetID); err != nil {
			return false, err
		}
	}
	return followed, nil
}

// Suggested samples 10 random users excluding the caller, drops the ones
// already followed and keeps at most the first 4. Best-effort by design; the
// result may be shorter or empty.
func (s *Service) Suggested(ctx context.Context, actingID string) ([]Summary, error) {
	following, err := idList(ctx, s.db, `SELECT following_id FROM follows WHERE follower_id=$1`, actingID)
	if err != nil {
		return nil, err
	}
	followedSet := map[string]struct{}{}
	for _, id := range following {
		followedSet[id] = struct{}{}
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, username, full_name, profile_img
		FROM users WHERE id<>$1
		ORDER BY random() LIMIT 10
	`, actingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	suggested := []Summary{}
	for rows.Next() {
		var u Summary
		if err := rows.Scan(&u.ID, &u.Username, &u.FullName, &u.ProfileImg); err != nil {
			return nil, err
		}
		if _, ok := followedSet[u.ID]; ok {
			continue
		}
		if len(suggested) < 4 {
			suggested = append(suggested, u)
		}
	}
	return suggested, rows.Err()
}

// UpdateProfile overwrites only the provided fields. Password changes need
// the current and new password together. Replacing an image deletes the old
// stored object first, then uploads the new payload; the two steps are not
// atomic (matching the upstream behavior this service preserves).
func (s *Service) UpdateProfile(ctx context.Context, actingID string, req UpdateProfileRequest) (Public, error) {
	u, err := ByID(ctx, s.db, actingID)
	if err != nil {
		return Public{}, err
	}

	if (req.NewPassword == "") != (req.CurrentPassword == "") {
		return Public{}, apperror.NewValidation("Both current and new passwords must be provided")
	}

	if req.CurrentPassword != "" && req.NewPassword != "" {
		if len(req.NewPassword) < 6 {
			return Public{}, apperror.NewValidation("Password must be at least 6 characters long")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)); err != nil {
			return Public{}, apperror.NewAuth("Invalid current password")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return Public{}, err
		}
		u.PasswordHash = string(hash)
	}

	if req.ProfileImg != "" {
		url, err := s.replaceImage(ctx, u.ProfileImg, req.ProfileImg)
		if err != nil {
			return Public{}, err
		}
		u.ProfileImg = url
	}
	if req.CoverImg != "" {
		url, err := s.replaceImage(ctx, u.CoverImg, req.CoverImg)
		if err != nil {
			return Public{}, err
		}
		u.CoverImg = url
	}

	if req.FullName != "" {
		u.FullName = req.FullName
	}
	if req.Email != "" {
		u.Email = req.Email
	}
	if req.Username != "" {
		u.Username = req.Username
	}
	if req.Bio != "" {
		u.Bio = req.Bio
	}
	if req.Link != "" {
		u.Link = req.Link
	}

	row := s.db.QueryRow(ctx, `
		UPDATE users
		SET username=$2, full_name=$3, email=$4, password_hash=$5, bio=$6, link=$7, profile_img=$8, cover_img=$9, updated_at=now()
		WHERE id=$1
		RETURNING updated_at
	`, u.ID, u.Username, u.FullName, u.Email, u.PasswordHash, u.Bio, u.Link, u.ProfileImg, u.CoverImg)
	if err := row.Scan(&u.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return Public{}, apperror.NewConflict("Username or email already taken")
		}
		return Public{}, err
	}

	return LoadPublic(ctx, s.db, u)
}

func (s *Service) replaceImage(ctx context.Context, oldURL, payload string) (string, error) {
	if oldURL != "" {
		if err := s.media.Delete(ctx, oldURL); err != nil {
			return "", err
		}
	}
	return s.media.Upload(ctx, payload)
}
