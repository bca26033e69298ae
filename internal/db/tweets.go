package db

import (
	"context"

	"github.com/vidtube/backend/internal/model"
)

const tweetColumns = `id, owner_id, content, created_at, updated_at`

func scanTweet(row interface{ Scan(dest ...any) error }) (*model.Tweet, error) {
	var t model.Tweet
	err := row.Scan(&t.ID, &t.OwnerID, &t.Content, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (db *Postgres) CreateTweet(ctx context.Context, t *model.Tweet) (*model.Tweet, error) {
	query := `
		INSERT INTO tweets (id, owner_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING ` + tweetColumns
	return scanTweet(db.Pool.QueryRow(ctx, query, t.ID, t.OwnerID, t.Content))
}

func (db *Postgres) GetTweetByID(ctx context.Context, id string) (*model.Tweet, error) {
	return scanTweet(db.Pool.QueryRow(ctx, `SELECT `+tweetColumns+` FROM tweets WHERE id = $1`, id))
}

func (db *Postgres) ListTweetsByOwner(ctx context.Context, ownerID string) ([]model.Tweet, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+tweetColumns+` FROM tweets WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tweets := []model.Tweet{}
	for rows.Next() {
		t, err := scanTweet(rows)
		if err != nil {
			return nil, err
		}
		tweets = append(tweets, *t)
	}
	return tweets, rows.Err()
}

func (db *Postgres) UpdateTweet(ctx context.Context, id, content string) (*model.Tweet, error) {
	query := `
		UPDATE tweets SET content = $2, updated_at = NOW() WHERE id = $1
		RETURNING ` + tweetColumns
	return scanTweet(db.Pool.QueryRow(ctx, query, id, content))
}

func (db *Postgres) DeleteTweet(ctx context.Context, id string) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM tweets WHERE id = $1`, id)
	return err
}
