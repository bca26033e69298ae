package db

import (
	"context"

	"github.com/vidtube/backend/internal/model"
)

const commentColumns = `id, video_id, owner_id, content, created_at, updated_at`

func scanComment(row interface{ Scan(dest ...any) error }) (*model.Comment, error) {
	var c model.Comment
	err := row.Scan(&c.ID, &c.VideoID, &c.OwnerID, &c.Content, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (db *Postgres) CreateComment(ctx context.Context, c *model.Comment) (*model.Comment, error) {
	query := `
		INSERT INTO comments (id, video_id, owner_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING ` + commentColumns
	return scanComment(db.Pool.QueryRow(ctx, query, c.ID, c.VideoID, c.OwnerID, c.Content))
}

func (db *Postgres) GetCommentByID(ctx context.Context, id string) (*model.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`
	return scanComment(db.Pool.QueryRow(ctx, query, id))
}

func (db *Postgres) ListCommentsByVideo(ctx context.Context, videoID string, page, limit int) ([]model.Comment, int64, error) {
	var total int64
	if err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM comments WHERE video_id = $1`, videoID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE video_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := db.Pool.Query(ctx, query, videoID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, 0, err
		}
		comments = append(comments, *c)
	}
	return comments, total, rows.Err()
}

func (db *Postgres) UpdateComment(ctx context.Context, id, content string) (*model.Comment, error) {
	query := `
		UPDATE comments SET content = $2, updated_at = NOW() WHERE id = $1
		RETURNING ` + commentColumns
	return scanComment(db.Pool.QueryRow(ctx, query, id, content))
}

func (db *Postgres) DeleteComment(ctx context.Context, id string) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	return err
}
