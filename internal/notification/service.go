package notification

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/Avi-17/Z/internal/apperror"
	"github.com/Avi-17/Z/internal/db"
	"github.com/Avi-17/Z/internal/stream"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Service struct {
	db  db.Querier
	hub *stream.Hub
}

func NewService(db db.Querier, hub *stream.Hub) *Service {
	return &Service{db: db, hub: hub}
}

// Create records a notification and pushes it to the target's live stream.
// Stream delivery is best-effort; the write is what matters.
func (s *Service) Create(ctx context.Context, typ, fromID, toID string) error {
	id := uuid.NewString()
	var createdAt time.Time
	row := s.db.QueryRow(ctx, `
		INSERT INTO notifications (id, type, from_user, to_user)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at
	`, id, typ, fromID, toID)
	if err := row.Scan(&createdAt); err != nil {
		return err
	}

	if s.hub != nil {
		payload, err := json.Marshal(Event{ID: id, Type: typ, From: fromID, CreatedAt: createdAt})
		if err != nil {
			log.Printf("notification event marshal error: %v", err)
			return nil
		}
		s.hub.Broadcast(toID, payload)
	}
	return nil
}

// List returns the user's notifications newest-first and marks them read.
func (s *Service) List(ctx context.Context, userID string) ([]Notification, error) {
	rows, err := s.db.Query(ctx, `
		SELECT n.id, n.type, n.from_user, u.username, u.profile_img, n.to_user, n.read, n.created_at
		FROM notifications n
		LEFT JOIN users u ON u.id = n.from_user
		WHERE n.to_user=$1
		ORDER BY n.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := []Notification{}
	for rows.Next() {
		var n Notification
		var fromID string
		var username, profileImg *string
		if err := rows.Scan(&n.ID, &n.Type, &fromID, &username, &profileImg, &n.To, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		if username != nil {
			from := FromUser{ID: fromID, Username: *username}
			if profileImg != nil {
				from.ProfileImg = *profileImg
			}
			n.From = &from
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	_, err = s.db.Exec(ctx, `
		UPDATE notifications SET read=TRUE WHERE to_user=$1 AND read=FALSE
	`, userID)
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (s *Service) DeleteAll(ctx context.Context, userID string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM notifications WHERE to_user=$1`, userID)
	return err
}

func (s *Service) DeleteOne(ctx context.Context, userID, id string) error {
	var toUser string
	row := s.db.QueryRow(ctx, `SELECT to_user FROM notifications WHERE id=$1`, id)
	if err := row.Scan(&toUser); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperror.NewNotFound("Notification not found")
		}
		return err
	}
	if toUser != userID {
		return apperror.NewAuth("You can only delete your own notifications")
	}

	_, err := s.db.Exec(ctx, `DELETE FROM notifications WHERE id=$1`, id)
	return err
}
