package feed

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/mmeshcher/stellar-burgers-core/internal/model"
)

type stubAPI struct {
	snapshot model.FeedSnapshot
	err      error
}

func (s *stubAPI) GetFeed(ctx context.Context) (model.FeedSnapshot, error) {
	return s.snapshot, s.err
}

func TestRefreshFeed_ReplacesAllFieldsTogether(t *testing.T) {
	api := &stubAPI{snapshot: model.FeedSnapshot{
		Orders:     []model.Order{{Number: 2}, {Number: 1}},
		Total:      100,
		TotalToday: 10,
	}}
	store := NewStore(api, zap.NewNop())

	if _, ok := store.Snapshot(); ok {
		t.Fatalf("snapshot must be absent before first refresh")
	}

	if err := store.RefreshFeed(context.Background()); err != nil {
		t.Fatalf("RefreshFeed: %v", err)
	}

	snapshot, ok := store.Snapshot()
	if !ok {
		t.Fatalf("snapshot missing after refresh")
	}
	if len(snapshot.Orders) != 2 || snapshot.Total != 100 || snapshot.TotalToday != 10 {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}

	api.snapshot = model.FeedSnapshot{
		Orders:     []model.Order{{Number: 3}},
		Total:      101,
		TotalToday: 11,
	}
	if err := store.RefreshFeed(context.Background()); err != nil {
		t.Fatalf("RefreshFeed: %v", err)
	}

	snapshot, _ = store.Snapshot()
	if len(snapshot.Orders) != 1 || snapshot.Total != 101 || snapshot.TotalToday != 11 {
		t.Fatalf("fields not replaced together: %+v", snapshot)
	}
}

func TestRefreshFeed_FailureKeepsPreviousSnapshot(t *testing.T) {
	api := &stubAPI{snapshot: model.FeedSnapshot{
		Orders: []model.Order{{Number: 1}},
		Total:  1,
	}}
	store := NewStore(api, zap.NewNop())

	if err := store.RefreshFeed(context.Background()); err != nil {
		t.Fatalf("RefreshFeed: %v", err)
	}

	api.err = errors.New("feed unavailable")
	if err := store.RefreshFeed(context.Background()); err == nil {
		t.Fatalf("expected error")
	}

	snapshot, ok := store.Snapshot()
	if !ok || snapshot.Total != 1 {
		t.Fatalf("previous snapshot lost: %+v (%v)", snapshot, ok)
	}
	if store.Err() != "feed unavailable" {
		t.Fatalf("error = %q", store.Err())
	}
	if store.Loading() {
		t.Fatalf("loading flag stuck")
	}

	store.ClearError()
	if store.Err() != "" {
		t.Fatalf("ClearError did not reset message")
	}
}

func TestOrderByNumber(t *testing.T) {
	api := &stubAPI{snapshot: model.FeedSnapshot{
		Orders: []model.Order{{Number: 42, Name: "Бургер"}},
	}}
	store := NewStore(api, zap.NewNop())

	if _, ok := store.OrderByNumber(42); ok {
		t.Fatalf("lookup must fail before refresh")
	}

	if err := store.RefreshFeed(context.Background()); err != nil {
		t.Fatalf("RefreshFeed: %v", err)
	}

	order, ok := store.OrderByNumber(42)
	if !ok || order.Name != "Бургер" {
		t.Fatalf("OrderByNumber = %+v (%v)", order, ok)
	}
	if _, ok = store.OrderByNumber(43); ok {
		t.Fatalf("unknown number must not resolve")
	}
}
