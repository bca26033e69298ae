package db

import (
	"context"

	"github.com/vidtube/backend/internal/model"
)

// GetChannelStats aggregates a channel's dashboard numbers in one query.
func (db *Postgres) GetChannelStats(ctx context.Context, channelID string) (*model.ChannelStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM videos WHERE owner_id = $1),
			(SELECT COALESCE(SUM(views), 0) FROM videos WHERE owner_id = $1),
			(SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1),
			(SELECT COUNT(*) FROM likes l JOIN videos v ON v.id = l.target_id
				WHERE l.target_kind = 'video' AND v.owner_id = $1)
	`
	var stats model.ChannelStats
	err := db.Pool.QueryRow(ctx, query, channelID).Scan(
		&stats.TotalVideos,
		&stats.TotalViews,
		&stats.TotalSubscribers,
		&stats.TotalLikes,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
