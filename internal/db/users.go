package db

import (
	"context"

	"github.com/vidtube/backend/internal/model"
)

const userColumns = `
	id, username, email, full_name, password_hash, avatar, cover_image, role,
	refresh_token_hash, refresh_token_id, created_at, updated_at
`

func scanUser(row interface{ Scan(dest ...any) error }) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.FullName,
		&u.PasswordHash,
		&u.Avatar,
		&u.CoverImage,
		&u.Role,
		&u.RefreshTokenHash,
		&u.RefreshTokenID,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (db *Postgres) CreateUser(ctx context.Context, u *model.User) (*model.User, error) {
	query := `
		INSERT INTO users (id, username, email, full_name, password_hash, avatar, cover_image, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING ` + userColumns
	return scanUser(db.Pool.QueryRow(ctx, query,
		u.ID, u.Username, u.Email, u.FullName, u.PasswordHash, u.Avatar, u.CoverImage, u.Role))
}

// GetUserByIdentifier resolves a login identifier that may be a username or
// an email. Identifiers are stored normalized, so the match is exact.
func (db *Postgres) GetUserByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $1`
	return scanUser(db.Pool.QueryRow(ctx, query, identifier))
}

func (db *Postgres) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(db.Pool.QueryRow(ctx, query, id))
}

// EmailInUse reports whether another user already holds the email.
func (db *Postgres) EmailInUse(ctx context.Context, email, excludeID string) (bool, error) {
	var count int
	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE email = $1 AND id <> $2`, email, excludeID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SaveRefreshSlot overwrites the user's refresh session slot in one statement,
// which makes issue and rotate atomic: concurrent rotations of the same token
// race on this update and exactly one result persists.
func (db *Postgres) SaveRefreshSlot(ctx context.Context, userID, tokenHash, tokenID string) error {
	query := `
		UPDATE users
		SET refresh_token_hash = $2, refresh_token_id = $3, updated_at = NOW()
		WHERE id = $1
	`
	_, err := db.Pool.Exec(ctx, query, userID, tokenHash, tokenID)
	return err
}

// ClearRefreshSlot drops the refresh session slot. Clearing an already-clear
// slot is a no-op, which keeps logout idempotent.
func (db *Postgres) ClearRefreshSlot(ctx context.Context, userID string) error {
	query := `
		UPDATE users
		SET refresh_token_hash = NULL, refresh_token_id = NULL, updated_at = NOW()
		WHERE id = $1
	`
	_, err := db.Pool.Exec(ctx, query, userID)
	return err
}

func (db *Postgres) UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error {
	_, err := db.Pool.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, userID, passwordHash)
	return err
}

func (db *Postgres) UpdateAccountDetails(ctx context.Context, u *model.User) (*model.User, error) {
	query := `
		UPDATE users
		SET full_name = $2, email = $3, avatar = $4, cover_image = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	return scanUser(db.Pool.QueryRow(ctx, query, u.ID, u.FullName, u.Email, u.Avatar, u.CoverImage))
}

// GetChannelProfile returns the public channel view of a user together with
// subscription counts, and whether viewerID subscribes to it.
func (db *Postgres) GetChannelProfile(ctx context.Context, username, viewerID string) (*model.ChannelProfile, error) {
	query := `
		SELECT u.id, u.username, u.full_name, u.email, u.avatar, u.cover_image,
			(SELECT COUNT(*) FROM subscriptions WHERE channel_id = u.id),
			(SELECT COUNT(*) FROM subscriptions WHERE subscriber_id = u.id),
			EXISTS (SELECT 1 FROM subscriptions WHERE channel_id = u.id AND subscriber_id::text = $2)
		FROM users u
		WHERE u.username = $1
	`
	var p model.ChannelProfile
	err := db.Pool.QueryRow(ctx, query, username, viewerID).Scan(
		&p.ID,
		&p.Username,
		&p.FullName,
		&p.Email,
		&p.Avatar,
		&p.CoverImage,
		&p.SubscriberCount,
		&p.SubscribedCount,
		&p.IsSubscribed,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (db *Postgres) RecordWatch(ctx context.Context, userID, videoID string) error {
	query := `
		INSERT INTO watch_history (user_id, video_id, watched_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, video_id) DO UPDATE SET watched_at = NOW()
	`
	_, err := db.Pool.Exec(ctx, query, userID, videoID)
	return err
}

func (db *Postgres) GetWatchHistory(ctx context.Context, userID string, limit int) ([]model.WatchHistoryEntry, error) {
	query := `
		SELECT ` + videoColumns("v") + `, w.watched_at
		FROM watch_history w
		JOIN videos v ON v.id = w.video_id
		WHERE w.user_id = $1
		ORDER BY w.watched_at DESC
		LIMIT $2
	`
	rows, err := db.Pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := []model.WatchHistoryEntry{}
	for rows.Next() {
		var e model.WatchHistoryEntry
		if err := rows.Scan(
			&e.Video.ID, &e.Video.OwnerID, &e.Video.Title, &e.Video.Description,
			&e.Video.VideoURL, &e.Video.Thumbnail, &e.Video.Duration, &e.Video.Views,
			&e.Video.IsPublished, &e.Video.CreatedAt, &e.Video.UpdatedAt,
			&e.WatchedAt,
		); err != nil {
			return nil, err
		}
		history = append(history, e)
	}
	return history, rows.Err()
}
