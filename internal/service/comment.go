package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/model"
)

type CommentStore interface {
	CreateComment(ctx context.Context, c *model.Comment) (*model.Comment, error)
	GetCommentByID(ctx context.Context, id string) (*model.Comment, error)
	ListCommentsByVideo(ctx context.Context, videoID string, page, limit int) ([]model.Comment, int64, error)
	UpdateComment(ctx context.Context, id, content string) (*model.Comment, error)
	DeleteComment(ctx context.Context, id string) error
	GetVideoByID(ctx context.Context, id string) (*model.Video, error)
}

type CommentService struct {
	store CommentStore
}

func NewCommentService(store CommentStore) *CommentService {
	return &CommentService{store: store}
}

func (s *CommentService) Add(ctx context.Context, videoID, ownerID string, req model.CommentRequest) (*model.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrInvalidInput
	}

	if _, err := s.store.GetVideoByID(ctx, videoID); err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return s.store.CreateComment(ctx, &model.Comment{
		ID:      uuid.NewString(),
		VideoID: videoID,
		OwnerID: ownerID,
		Content: content,
	})
}

func (s *CommentService) ListByVideo(ctx context.Context, videoID string, page, limit int) (*model.Page[model.Comment], error) {
	page, limit = normalizePage(page, limit)
	comments, total, err := s.store.ListCommentsByVideo(ctx, videoID, page, limit)
	if err != nil {
		return nil, err
	}
	return &model.Page[model.Comment]{Items: comments, Page: page, Limit: limit, TotalCount: total}, nil
}

func (s *CommentService) Update(ctx context.Context, id, actorID string, req model.CommentRequest) (*model.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrInvalidInput
	}
	if _, err := s.owned(ctx, id, actorID, false); err != nil {
		return nil, err
	}
	return s.store.UpdateComment(ctx, id, content)
}

func (s *CommentService) Delete(ctx context.Context, id, actorID string, isAdmin bool) error {
	if _, err := s.owned(ctx, id, actorID, isAdmin); err != nil {
		return err
	}
	return s.store.DeleteComment(ctx, id)
}

func (s *CommentService) owned(ctx context.Context, id, actorID string, isAdmin bool) (*model.Comment, error) {
	comment, err := s.store.GetCommentByID(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if comment.OwnerID != actorID && !isAdmin {
		return nil, ErrForbidden
	}
	return comment, nil
}
