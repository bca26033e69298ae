package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/model"
)

// maxTweetLength is in runes, not bytes, so multibyte text is not
// short-changed.
const maxTweetLength = 500

type TweetStore interface {
	CreateTweet(ctx context.Context, t *model.Tweet) (*model.Tweet, error)
	GetTweetByID(ctx context.Context, id string) (*model.Tweet, error)
	ListTweetsByOwner(ctx context.Context, ownerID string) ([]model.Tweet, error)
	UpdateTweet(ctx context.Context, id, content string) (*model.Tweet, error)
	DeleteTweet(ctx context.Context, id string) error
}

type TweetService struct {
	store TweetStore
}

func NewTweetService(store TweetStore) *TweetService {
	return &TweetService{store: store}
}

func (s *TweetService) Create(ctx context.Context, ownerID string, req model.TweetRequest) (*model.Tweet, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" || utf8.RuneCountInString(content) > maxTweetLength {
		return nil, ErrInvalidInput
	}
	return s.store.CreateTweet(ctx, &model.Tweet{
		ID:      uuid.NewString(),
		OwnerID: ownerID,
		Content: content,
	})
}

func (s *TweetService) ListByOwner(ctx context.Context, ownerID string) ([]model.Tweet, error) {
	return s.store.ListTweetsByOwner(ctx, ownerID)
}

func (s *TweetService) Update(ctx context.Context, id, actorID string, req model.TweetRequest) (*model.Tweet, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" || utf8.RuneCountInString(content) > maxTweetLength {
		return nil, ErrInvalidInput
	}
	if err := s.owned(ctx, id, actorID, false); err != nil {
		return nil, err
	}
	return s.store.UpdateTweet(ctx, id, content)
}

func (s *TweetService) Delete(ctx context.Context, id, actorID string, isAdmin bool) error {
	if err := s.owned(ctx, id, actorID, isAdmin); err != nil {
		return err
	}
	return s.store.DeleteTweet(ctx, id)
}

func (s *TweetService) owned(ctx context.Context, id, actorID string, isAdmin bool) error {
	tweet, err := s.store.GetTweetByID(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return ErrNotFound
		}
		return err
	}
	if tweet.OwnerID != actorID && !isAdmin {
		return ErrForbidden
	}
	return nil
}
