package db

import (
	"context"

	"github.com/vidtube/backend/internal/model"
)

const playlistColumns = `id, owner_id, name, description, created_at, updated_at`

func scanPlaylist(row interface{ Scan(dest ...any) error }) (*model.Playlist, error) {
	var p model.Playlist
	err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (db *Postgres) CreatePlaylist(ctx context.Context, p *model.Playlist) (*model.Playlist, error) {
	query := `
		INSERT INTO playlists (id, owner_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING ` + playlistColumns
	return scanPlaylist(db.Pool.QueryRow(ctx, query, p.ID, p.OwnerID, p.Name, p.Description))
}

func (db *Postgres) GetPlaylistByID(ctx context.Context, id string) (*model.Playlist, error) {
	p, err := scanPlaylist(db.Pool.QueryRow(ctx,
		`SELECT `+playlistColumns+` FROM playlists WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT video_id FROM playlist_videos WHERE playlist_id = $1 ORDER BY added_at`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	p.VideoIDs = []string{}
	for rows.Next() {
		var videoID string
		if err := rows.Scan(&videoID); err != nil {
			return nil, err
		}
		p.VideoIDs = append(p.VideoIDs, videoID)
	}
	return p, rows.Err()
}

func (db *Postgres) ListPlaylistsByOwner(ctx context.Context, ownerID string) ([]model.Playlist, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+playlistColumns+` FROM playlists WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	playlists := []model.Playlist{}
	for rows.Next() {
		p, err := scanPlaylist(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, *p)
	}
	return playlists, rows.Err()
}

func (db *Postgres) UpdatePlaylist(ctx context.Context, id, name, description string) (*model.Playlist, error) {
	query := `
		UPDATE playlists SET name = $2, description = $3, updated_at = NOW() WHERE id = $1
		RETURNING ` + playlistColumns
	return scanPlaylist(db.Pool.QueryRow(ctx, query, id, name, description))
}

func (db *Postgres) DeletePlaylist(ctx context.Context, id string) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	return err
}

func (db *Postgres) AddVideoToPlaylist(ctx context.Context, playlistID, videoID string) error {
	query := `
		INSERT INTO playlist_videos (playlist_id, video_id, added_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (playlist_id, video_id) DO NOTHING
	`
	_, err := db.Pool.Exec(ctx, query, playlistID, videoID)
	return err
}

func (db *Postgres) RemoveVideoFromPlaylist(ctx context.Context, playlistID, videoID string) error {
	_, err := db.Pool.Exec(ctx,
		`DELETE FROM playlist_videos WHERE playlist_id = $1 AND video_id = $2`, playlistID, videoID)
	return err
}
