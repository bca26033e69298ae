package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/model"
)

type VideoStore interface {
	CreateVideo(ctx context.Context, v *model.Video) (*model.Video, error)
	GetVideoByID(ctx context.Context, id string) (*model.Video, error)
	IncrementVideoViews(ctx context.Context, id string) (int64, error)
	ListVideos(ctx context.Context, q model.VideoListQuery) ([]model.Video, int64, error)
	UpdateVideo(ctx context.Context, v *model.Video) (*model.Video, error)
	SetVideoPublished(ctx context.Context, id string, published bool) error
	DeleteVideo(ctx context.Context, id string) error
	RecordWatch(ctx context.Context, userID, videoID string) error
}

type VideoService struct {
	store VideoStore
}

func NewVideoService(store VideoStore) *VideoService {
	return &VideoService{store: store}
}

func (s *VideoService) Publish(ctx context.Context, ownerID string, req model.PublishVideoRequest) (*model.Video, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" || strings.TrimSpace(req.VideoURL) == "" {
		return nil, ErrInvalidInput
	}

	return s.store.CreateVideo(ctx, &model.Video{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		VideoURL:    strings.TrimSpace(req.VideoURL),
		Thumbnail:   strings.TrimSpace(req.Thumbnail),
		Duration:    req.Duration,
		IsPublished: true,
	})
}

// Get returns the video, bumps its view counter, and records the viewer's
// watch history when a signed-in viewer is known. Unpublished videos are
// visible only to their owner.
func (s *VideoService) Get(ctx context.Context, id, viewerID string) (*model.Video, error) {
	video, err := s.store.GetVideoByID(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !video.IsPublished && video.OwnerID != viewerID {
		return nil, ErrNotFound
	}

	views, err := s.store.IncrementVideoViews(ctx, id)
	if err != nil {
		return nil, err
	}
	video.Views = views

	if viewerID != "" {
		if err := s.store.RecordWatch(ctx, viewerID, id); err != nil {
			return nil, err
		}
	}
	return video, nil
}

func (s *VideoService) List(ctx context.Context, q model.VideoListQuery) (*model.Page[model.Video], error) {
	q.Page, q.Limit = normalizePage(q.Page, q.Limit)
	videos, total, err := s.store.ListVideos(ctx, q)
	if err != nil {
		return nil, err
	}
	return &model.Page[model.Video]{Items: videos, Page: q.Page, Limit: q.Limit, TotalCount: total}, nil
}

func (s *VideoService) Update(ctx context.Context, id, actorID string, req model.UpdateVideoRequest) (*model.Video, error) {
	video, err := s.ownedVideo(ctx, id, actorID)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(req.Title); title != "" {
		video.Title = title
	}
	if desc := strings.TrimSpace(req.Description); desc != "" {
		video.Description = desc
	}
	if thumb := strings.TrimSpace(req.Thumbnail); thumb != "" {
		video.Thumbnail = thumb
	}
	return s.store.UpdateVideo(ctx, video)
}

func (s *VideoService) TogglePublish(ctx context.Context, id, actorID string) (*model.Video, error) {
	video, err := s.ownedVideo(ctx, id, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetVideoPublished(ctx, id, !video.IsPublished); err != nil {
		return nil, err
	}
	video.IsPublished = !video.IsPublished
	return video, nil
}

func (s *VideoService) Delete(ctx context.Context, id, actorID string, isAdmin bool) error {
	video, err := s.store.GetVideoByID(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return ErrNotFound
		}
		return err
	}
	if video.OwnerID != actorID && !isAdmin {
		return ErrForbidden
	}
	return s.store.DeleteVideo(ctx, id)
}

func (s *VideoService) ownedVideo(ctx context.Context, id, actorID string) (*model.Video, error) {
	video, err := s.store.GetVideoByID(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if video.OwnerID != actorID {
		return nil, ErrForbidden
	}
	return video, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
