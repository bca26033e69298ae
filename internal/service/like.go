package service

import (
	"context"

	"github.com/vidtube/backend/internal/model"
)

type LikeStore interface {
	ToggleLike(ctx context.Context, userID, targetKind, targetID string) (bool, error)
	ListLikedVideos(ctx context.Context, userID string) ([]model.Video, error)
}

type LikeService struct {
	store LikeStore
}

func NewLikeService(store LikeStore) *LikeService {
	return &LikeService{store: store}
}

func (s *LikeService) Toggle(ctx context.Context, userID, targetKind, targetID string) (bool, error) {
	switch targetKind {
	case model.LikeTargetVideo, model.LikeTargetComment, model.LikeTargetTweet:
	default:
		return false, ErrInvalidInput
	}
	if targetID == "" {
		return false, ErrInvalidInput
	}
	return s.store.ToggleLike(ctx, userID, targetKind, targetID)
}

func (s *LikeService) LikedVideos(ctx context.Context, userID string) ([]model.Video, error) {
	return s.store.ListLikedVideos(ctx, userID)
}
