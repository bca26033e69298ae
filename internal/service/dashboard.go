package service

import (
	"context"

	"github.com/vidtube/backend/internal/model"
)

type DashboardStore interface {
	GetChannelStats(ctx context.Context, channelID string) (*model.ChannelStats, error)
	ListChannelVideos(ctx context.Context, ownerID string) ([]model.Video, error)
}

type DashboardService struct {
	store DashboardStore
}

func NewDashboardService(store DashboardStore) *DashboardService {
	return &DashboardService{store: store}
}

func (s *DashboardService) ChannelStats(ctx context.Context, channelID string) (*model.ChannelStats, error) {
	return s.store.GetChannelStats(ctx, channelID)
}

// ChannelVideos lists a channel's videos including unpublished ones; routes
// restrict it to the channel owner.
func (s *DashboardService) ChannelVideos(ctx context.Context, ownerID string) ([]model.Video, error) {
	return s.store.ListChannelVideos(ctx, ownerID)
}
