package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/vidtube/backend/internal/model"
)

type fakeVideoStore struct {
	videos  map[string]*model.Video
	watches map[string]int
	lastQ   model.VideoListQuery
}

func newFakeVideoStore() *fakeVideoStore {
	return &fakeVideoStore{videos: map[string]*model.Video{}, watches: map[string]int{}}
}

func (f *fakeVideoStore) CreateVideo(ctx context.Context, v *model.Video) (*model.Video, error) {
	f.videos[v.ID] = v
	return v, nil
}

func (f *fakeVideoStore) GetVideoByID(ctx context.Context, id string) (*model.Video, error) {
	v, ok := f.videos[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *v
	return &copied, nil
}

func (f *fakeVideoStore) IncrementVideoViews(ctx context.Context, id string) (int64, error) {
	v, ok := f.videos[id]
	if !ok {
		return 0, pgx.ErrNoRows
	}
	v.Views++
	return v.Views, nil
}

func (f *fakeVideoStore) ListVideos(ctx context.Context, q model.VideoListQuery) ([]model.Video, int64, error) {
	f.lastQ = q
	return nil, 0, nil
}

func (f *fakeVideoStore) UpdateVideo(ctx context.Context, v *model.Video) (*model.Video, error) {
	f.videos[v.ID] = v
	return v, nil
}

func (f *fakeVideoStore) SetVideoPublished(ctx context.Context, id string, published bool) error {
	v, ok := f.videos[id]
	if !ok {
		return pgx.ErrNoRows
	}
	v.IsPublished = published
	return nil
}

func (f *fakeVideoStore) DeleteVideo(ctx context.Context, id string) error {
	delete(f.videos, id)
	return nil
}

func (f *fakeVideoStore) RecordWatch(ctx context.Context, userID, videoID string) error {
	f.watches[userID+"/"+videoID]++
	return nil
}

func (f *fakeVideoStore) add(v model.Video) *model.Video {
	stored := v
	f.videos[v.ID] = &stored
	return &stored
}

func TestPublishValidatesInput(t *testing.T) {
	svc := NewVideoService(newFakeVideoStore())
	ctx := context.Background()

	if _, err := svc.Publish(ctx, "u-1", model.PublishVideoRequest{Title: " ", VideoURL: "https://cdn/x.mp4"}); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Publish(ctx, "u-1", model.PublishVideoRequest{Title: "Demo", VideoURL: ""}); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	v, err := svc.Publish(ctx, "u-1", model.PublishVideoRequest{Title: " Demo ", VideoURL: "https://cdn/x.mp4"})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if v.Title != "Demo" || !v.IsPublished || v.OwnerID != "u-1" {
		t.Fatalf("unexpected video: %+v", v)
	}
}

func TestGetBumpsViewsAndRecordsWatch(t *testing.T) {
	store := newFakeVideoStore()
	svc := NewVideoService(store)
	ctx := context.Background()
	store.add(model.Video{ID: "v-1", OwnerID: "u-1", Title: "Demo", IsPublished: true})

	v, err := svc.Get(ctx, "v-1", "viewer-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v.Views != 1 {
		t.Fatalf("expected 1 view, got %d", v.Views)
	}
	if store.watches["viewer-1/v-1"] != 1 {
		t.Fatalf("watch not recorded")
	}

	// Anonymous viewers bump views but leave no history.
	if _, err := svc.Get(ctx, "v-1", ""); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(store.watches) != 1 {
		t.Fatalf("anonymous view recorded history")
	}

	if _, err := svc.Get(ctx, "missing", ""); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetHidesUnpublishedFromNonOwners(t *testing.T) {
	store := newFakeVideoStore()
	svc := NewVideoService(store)
	ctx := context.Background()
	store.add(model.Video{ID: "v-1", OwnerID: "u-1", Title: "Draft", IsPublished: false})

	if _, err := svc.Get(ctx, "v-1", "someone-else"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for non-owner, got %v", err)
	}
	if _, err := svc.Get(ctx, "v-1", "u-1"); err != nil {
		t.Fatalf("owner should see draft: %v", err)
	}
}

func TestListClampsPagination(t *testing.T) {
	store := newFakeVideoStore()
	svc := NewVideoService(store)
	ctx := context.Background()

	if _, err := svc.List(ctx, model.VideoListQuery{Page: -3, Limit: 0}); err != nil {
		t.Fatalf("List: %v", err)
	}
	if store.lastQ.Page != 1 || store.lastQ.Limit != 10 {
		t.Fatalf("expected defaults 1/10, got %d/%d", store.lastQ.Page, store.lastQ.Limit)
	}

	if _, err := svc.List(ctx, model.VideoListQuery{Page: 2, Limit: 5000}); err != nil {
		t.Fatalf("List: %v", err)
	}
	if store.lastQ.Page != 2 || store.lastQ.Limit != 100 {
		t.Fatalf("expected clamp to 100, got %d/%d", store.lastQ.Page, store.lastQ.Limit)
	}
}

func TestUpdateAndTogglePublishRequireOwnership(t *testing.T) {
	store := newFakeVideoStore()
	svc := NewVideoService(store)
	ctx := context.Background()
	store.add(model.Video{ID: "v-1", OwnerID: "u-1", Title: "Demo", IsPublished: true})

	if _, err := svc.Update(ctx, "v-1", "intruder", model.UpdateVideoRequest{Title: "Hacked"}); err != ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	v, err := svc.Update(ctx, "v-1", "u-1", model.UpdateVideoRequest{Title: "Renamed"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if v.Title != "Renamed" {
		t.Fatalf("title not updated")
	}

	if _, err := svc.TogglePublish(ctx, "v-1", "intruder"); err != ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	v, err = svc.TogglePublish(ctx, "v-1", "u-1")
	if err != nil {
		t.Fatalf("TogglePublish: %v", err)
	}
	if v.IsPublished {
		t.Fatalf("expected unpublished after toggle")
	}
}

func TestDeleteAllowsOwnerAndAdmin(t *testing.T) {
	store := newFakeVideoStore()
	svc := NewVideoService(store)
	ctx := context.Background()

	store.add(model.Video{ID: "v-1", OwnerID: "u-1", IsPublished: true})
	store.add(model.Video{ID: "v-2", OwnerID: "u-1", IsPublished: true})

	if err := svc.Delete(ctx, "v-1", "intruder", false); err != ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, "v-1", "u-1", false); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if err := svc.Delete(ctx, "v-2", "moderator", true); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if err := svc.Delete(ctx, "v-1", "u-1", false); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
