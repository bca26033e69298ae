package db

import (
	"context"

	"github.com/vidtube/backend/internal/model"
)

// ToggleSubscription subscribes the user to the channel, or unsubscribes when
// a subscription already exists, and reports the resulting state.
func (db *Postgres) ToggleSubscription(ctx context.Context, subscriberID, channelID string) (bool, error) {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2`,
		subscriberID, channelID)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	_, err = db.Pool.Exec(ctx,
		`INSERT INTO subscriptions (subscriber_id, channel_id, created_at) VALUES ($1, $2, NOW())
		 ON CONFLICT (subscriber_id, channel_id) DO NOTHING`,
		subscriberID, channelID)
	if err != nil {
		return false, err
	}
	return true, nil
}

func (db *Postgres) ListSubscribers(ctx context.Context, channelID string) ([]model.PublicUser, error) {
	query := `
		SELECT u.id, u.username, u.email, u.full_name, u.avatar, u.cover_image, u.role, u.created_at
		FROM subscriptions s
		JOIN users u ON u.id = s.subscriber_id
		WHERE s.channel_id = $1
		ORDER BY s.created_at DESC
	`
	return db.listPublicUsers(ctx, query, channelID)
}

func (db *Postgres) ListSubscribedChannels(ctx context.Context, subscriberID string) ([]model.PublicUser, error) {
	query := `
		SELECT u.id, u.username, u.email, u.full_name, u.avatar, u.cover_image, u.role, u.created_at
		FROM subscriptions s
		JOIN users u ON u.id = s.channel_id
		WHERE s.subscriber_id = $1
		ORDER BY s.created_at DESC
	`
	return db.listPublicUsers(ctx, query, subscriberID)
}

func (db *Postgres) listPublicUsers(ctx context.Context, query string, args ...any) ([]model.PublicUser, error) {
	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.PublicUser{}
	for rows.Next() {
		var u model.PublicUser
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.Avatar, &u.CoverImage, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
