package service

import (
	"context"

	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/model"
)

type SubscriptionStore interface {
	ToggleSubscription(ctx context.Context, subscriberID, channelID string) (bool, error)
	ListSubscribers(ctx context.Context, channelID string) ([]model.PublicUser, error)
	ListSubscribedChannels(ctx context.Context, subscriberID string) ([]model.PublicUser, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

type SubscriptionService struct {
	store SubscriptionStore
}

func NewSubscriptionService(store SubscriptionStore) *SubscriptionService {
	return &SubscriptionService{store: store}
}

func (s *SubscriptionService) Toggle(ctx context.Context, subscriberID, channelID string) (bool, error) {
	if subscriberID == channelID {
		return false, ErrInvalidInput
	}
	if _, err := s.store.GetUserByID(ctx, channelID); err != nil {
		if db.IsNoRows(err) {
			return false, ErrNotFound
		}
		return false, err
	}
	return s.store.ToggleSubscription(ctx, subscriberID, channelID)
}

func (s *SubscriptionService) Subscribers(ctx context.Context, channelID string) ([]model.PublicUser, error) {
	return s.store.ListSubscribers(ctx, channelID)
}

func (s *SubscriptionService) SubscribedChannels(ctx context.Context, subscriberID string) ([]model.PublicUser, error) {
	return s.store.ListSubscribedChannels(ctx, subscriberID)
}
