package activity

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/krow6750/gearshare-backend/pkg/logger"
	"github.com/krow6750/gearshare-backend/pkg/pagination"
)

type fakeEntryStore struct {
	entries []Entry
	fail    error
}

func (f *fakeEntryStore) Append(_ context.Context, entry Entry) error {
	if f.fail != nil {
		return f.fail
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeEntryStore) ListRecent(_ context.Context, limit int, after *pagination.Cursor) ([]Entry, error) {
	sorted := make([]Entry, len(f.entries))
	copy(sorted, f.entries)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].OccurredAt.Equal(sorted[j].OccurredAt) {
			return sorted[i].OccurredAt.After(sorted[j].OccurredAt)
		}
		return sorted[i].ID > sorted[j].ID
	})

	start := 0
	if after != nil {
		for i, entry := range sorted {
			if entry.OccurredAt.Equal(after.OccurredAt) && entry.ID == after.ID {
				start = i + 1
				break
			}
		}
	}
	end := start + limit
	if end > len(sorted) {
		end = len(sorted)
	}
	return sorted[start:end], nil
}

func newTestService(store EntryStore) *Service {
	return NewService(store, logger.New(logger.Options{ServiceName: "activity-test", Level: logger.ParseLevel("error")}))
}

func TestRecordFillsDefaults(t *testing.T) {
	store := &fakeEntryStore{}
	svc := newTestService(store)

	svc.Record(context.Background(), Entry{
		Actor:      "staff@example.com",
		Action:     "repair.update",
		EntityType: "repair_ticket",
		EntityID:   "rec-1",
	})

	if len(store.entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(store.entries))
	}
	saved := store.entries[0]
	if saved.ID == "" {
		t.Fatal("expected generated id")
	}
	if saved.OccurredAt.IsZero() {
		t.Fatal("expected timestamp filled in")
	}
}

func TestRecordSkipsIncompleteEntries(t *testing.T) {
	store := &fakeEntryStore{}
	svc := newTestService(store)

	svc.Record(context.Background(), Entry{Actor: "someone"})
	if len(store.entries) != 0 {
		t.Fatalf("expected incomplete entry dropped, got %d", len(store.entries))
	}
}

func TestRecentPaginates(t *testing.T) {
	store := &fakeEntryStore{}
	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		store.entries = append(store.entries, Entry{
			ID:         string(rune('a' + i)),
			Action:     "repair.update",
			EntityType: "repair_ticket",
			OccurredAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	svc := newTestService(store)

	first, err := svc.Recent(context.Background(), pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(first.Entries))
	}
	if first.Entries[0].ID != "e" || first.Entries[1].ID != "d" {
		t.Fatalf("expected newest first, got %v", first.Entries)
	}
	if first.NextCursor == "" {
		t.Fatal("expected next cursor")
	}

	second, err := svc.Recent(context.Background(), pagination.Params{Limit: 2, Cursor: first.NextCursor})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(second.Entries) != 2 || second.Entries[0].ID != "c" {
		t.Fatalf("unexpected second page %v", second.Entries)
	}

	third, err := svc.Recent(context.Background(), pagination.Params{Limit: 2, Cursor: second.NextCursor})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(third.Entries) != 1 || third.NextCursor != "" {
		t.Fatalf("expected final page of 1 with no cursor, got %v %q", third.Entries, third.NextCursor)
	}
}

func TestRecentRejectsBadCursor(t *testing.T) {
	svc := newTestService(&fakeEntryStore{})

	if _, err := svc.Recent(context.Background(), pagination.Params{Cursor: "%%%"}); err == nil {
		t.Fatal("expected invalid cursor error")
	}
}
