package db

import (
	"context"
	"fmt"

	"github.com/vidtube/backend/internal/model"
)

func videoColumns(alias string) string {
	return fmt.Sprintf(`%[1]s.id, %[1]s.owner_id, %[1]s.title, %[1]s.description, %[1]s.video_url,
		%[1]s.thumbnail, %[1]s.duration, %[1]s.views, %[1]s.is_published, %[1]s.created_at, %[1]s.updated_at`, alias)
}

func scanVideo(row interface{ Scan(dest ...any) error }) (*model.Video, error) {
	var v model.Video
	err := row.Scan(
		&v.ID, &v.OwnerID, &v.Title, &v.Description, &v.VideoURL,
		&v.Thumbnail, &v.Duration, &v.Views, &v.IsPublished, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (db *Postgres) CreateVideo(ctx context.Context, v *model.Video) (*model.Video, error) {
	query := `
		INSERT INTO videos (id, owner_id, title, description, video_url, thumbnail, duration, is_published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING ` + videoColumns("videos")
	return scanVideo(db.Pool.QueryRow(ctx, query,
		v.ID, v.OwnerID, v.Title, v.Description, v.VideoURL, v.Thumbnail, v.Duration, v.IsPublished))
}

func (db *Postgres) GetVideoByID(ctx context.Context, id string) (*model.Video, error) {
	query := `SELECT ` + videoColumns("videos") + ` FROM videos WHERE id = $1`
	return scanVideo(db.Pool.QueryRow(ctx, query, id))
}

// IncrementVideoViews bumps the view counter and returns the new value.
func (db *Postgres) IncrementVideoViews(ctx context.Context, id string) (int64, error) {
	var views int64
	err := db.Pool.QueryRow(ctx,
		`UPDATE videos SET views = views + 1 WHERE id = $1 RETURNING views`, id).Scan(&views)
	return views, err
}

func (db *Postgres) ListVideos(ctx context.Context, q model.VideoListQuery) ([]model.Video, int64, error) {
	where := `WHERE is_published = TRUE`
	args := []any{}
	if q.OwnerID != "" {
		args = append(args, q.OwnerID)
		where += fmt.Sprintf(` AND owner_id = $%d`, len(args))
	}
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		where += fmt.Sprintf(` AND (title ILIKE $%d OR description ILIKE $%d)`, len(args), len(args))
	}

	var total int64
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM videos `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, q.Limit, (q.Page-1)*q.Limit)
	query := fmt.Sprintf(`SELECT %s FROM videos %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		videoColumns("videos"), where, len(args)-1, len(args))

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	videos := []model.Video{}
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, 0, err
		}
		videos = append(videos, *v)
	}
	return videos, total, rows.Err()
}

// ListChannelVideos returns all of a channel's videos including unpublished
// ones, for the owner dashboard.
func (db *Postgres) ListChannelVideos(ctx context.Context, ownerID string) ([]model.Video, error) {
	query := `SELECT ` + videoColumns("videos") + ` FROM videos WHERE owner_id = $1 ORDER BY created_at DESC`
	rows, err := db.Pool.Query(ctx, query, ownerID)
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

func (db *Postgres) UpdateVideo(ctx context.Context, v *model.Video) (*model.Video, error) {
	query := `
		UPDATE videos
		SET title = $2, description = $3, thumbnail = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + videoColumns("videos")
	return scanVideo(db.Pool.QueryRow(ctx, query, v.ID, v.Title, v.Description, v.Thumbnail))
}

func (db *Postgres) SetVideoPublished(ctx context.Context, id string, published bool) error {
	_, err := db.Pool.Exec(ctx,
		`UPDATE videos SET is_published = $2, updated_at = NOW() WHERE id = $1`, id, published)
	return err
}

func (db *Postgres) DeleteVideo(ctx context.Context, id string) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	return err
}
