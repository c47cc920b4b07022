package memory

import (
	"context"
	"testing"

	"prepquiz-service/internal/domain"
)

func TestAttemptStoreRecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewAttemptStore()
	for _, id := range []string{"a1", "a2", "a3"} {
		if err := store.Record(ctx, domain.Attempt{ID: id, Type: domain.AttemptSet}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	recent, _ := store.Recent(ctx, 2)
	if len(recent) != 2 || recent[0].ID != "a3" || recent[1].ID != "a2" {
		t.Fatalf("unexpected recent attempts %+v", recent)
	}
	all, _ := store.Recent(ctx, 0)
	if len(all) != 3 {
		t.Fatalf("expected all attempts, got %d", len(all))
	}
}
