package db

import (
	"context"

	"github.com/vidtube/backend/internal/model"
)

// ToggleLike inserts the like row, or removes it when already present, and
// reports the resulting state. The delete-then-check keeps it one round trip
// per branch without a read-modify-write.
func (db *Postgres) ToggleLike(ctx context.Context, userID, targetKind, targetID string) (bool, error) {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM likes WHERE user_id = $1 AND target_kind = $2 AND target_id = $3`,
		userID, targetKind, targetID)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	_, err = db.Pool.Exec(ctx,
		`INSERT INTO likes (user_id, target_kind, target_id, created_at) VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (user_id, target_kind, target_id) DO NOTHING`,
		userID, targetKind, targetID)
	if err != nil {
		return false, err
	}
	return true, nil
}

func (db *Postgres) ListLikedVideos(ctx context.Context, userID string) ([]model.Video, error) {
	query := `
		SELECT ` + videoColumns("v") + `
		FROM likes l
		JOIN videos v ON v.id = l.target_id
		WHERE l.user_id = $1 AND l.target_kind = $2 AND v.is_published = TRUE
		ORDER BY l.created_at DESC
	`
	rows, err := db.Pool.Query(ctx, query, userID, model.LikeTargetVideo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	videos := []model.Video{}
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, *v)
	}
	return videos, rows.Err()
}
