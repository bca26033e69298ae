package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/model"
)

type PlaylistStore interface {
	CreatePlaylist(ctx context.Context, p *model.Playlist) (*model.Playlist, error)
	GetPlaylistByID(ctx context.Context, id string) (*model.Playlist, error)
	ListPlaylistsByOwner(ctx context.Context, ownerID string) ([]model.Playlist, error)
	UpdatePlaylist(ctx context.Context, id, name, description string) (*model.Playlist, error)
	DeletePlaylist(ctx context.Context, id string) error
	AddVideoToPlaylist(ctx context.Context, playlistID, videoID string) error
	RemoveVideoFromPlaylist(ctx context.Context, playlistID, videoID string) error
	GetVideoByID(ctx context.Context, id string) (*model.Video, error)
}

type PlaylistService struct {
	store PlaylistStore
}

func NewPlaylistService(store PlaylistStore) *PlaylistService {
	return &PlaylistService{store: store}
}

func (s *PlaylistService) Create(ctx context.Context, ownerID string, req model.PlaylistRequest) (*model.Playlist, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	return s.store.CreatePlaylist(ctx, &model.Playlist{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
	})
}

func (s *PlaylistService) Get(ctx context.Context, id string) (*model.Playlist, error) {
	playlist, err := s.store.GetPlaylistByID(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return playlist, nil
}

func (s *PlaylistService) ListByOwner(ctx context.Context, ownerID string) ([]model.Playlist, error) {
	return s.store.ListPlaylistsByOwner(ctx, ownerID)
}

func (s *PlaylistService) Update(ctx context.Context, id, actorID string, req model.PlaylistRequest) (*model.Playlist, error) {
	playlist, err := s.owned(ctx, id, actorID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = playlist.Name
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = playlist.Description
	}
	return s.store.UpdatePlaylist(ctx, id, name, description)
}

func (s *PlaylistService) Delete(ctx context.Context, id, actorID string) error {
	if _, err := s.owned(ctx, id, actorID); err != nil {
		return err
	}
	return s.store.DeletePlaylist(ctx, id)
}

func (s *PlaylistService) AddVideo(ctx context.Context, playlistID, videoID, actorID string) error {
	if _, err := s.owned(ctx, playlistID, actorID); err != nil {
		return err
	}
	if _, err := s.store.GetVideoByID(ctx, videoID); err != nil {
		if db.IsNoRows(err) {
			return ErrNotFound
		}
		return err
	}
	return s.store.AddVideoToPlaylist(ctx, playlistID, videoID)
}

func (s *PlaylistService) RemoveVideo(ctx context.Context, playlistID, videoID, actorID string) error {
	if _, err := s.owned(ctx, playlistID, actorID); err != nil {
		return err
	}
	return s.store.RemoveVideoFromPlaylist(ctx, playlistID, videoID)
}

func (s *PlaylistService) owned(ctx context.Context, id, actorID string) (*model.Playlist, error) {
	playlist, err := s.store.GetPlaylistByID(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if playlist.OwnerID != actorID {
		return nil, ErrForbidden
	}
	return playlist, nil
}
