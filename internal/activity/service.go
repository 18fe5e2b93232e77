package activity

import (
	"context"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/krow6750/gearshare-backend/pkg/errors"
	"github.com/krow6750/gearshare-backend/pkg/logger"
	"github.com/krow6750/gearshare-backend/pkg/pagination"
)

// test seam
var timeNowUTC = func() time.Time {
	return time.Now().UTC()
}

// Entry is one audit-trail event: who did what to which record.
type Entry struct {
	ID         string    `json:"id" firestore:"-"`
	Actor      string    `json:"actor" firestore:"actor"`
	ActorEmail string    `json:"actor_email,omitempty" firestore:"actor_email,omitempty"`
	Action     string    `json:"action" firestore:"action"`
	EntityType string    `json:"entity_type" firestore:"entity_type"`
	EntityID   string    `json:"entity_id,omitempty" firestore:"entity_id,omitempty"`
	Detail     string    `json:"detail,omitempty" firestore:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at" firestore:"occurred_at"`
}

// EntryStore is the persistence surface for activity entries.
type EntryStore interface {
	Append(ctx context.Context, entry Entry) error
	ListRecent(ctx context.Context, limit int, after *pagination.Cursor) ([]Entry, error)
}

// Page is one page of entries, newest first.
type Page struct {
	Entries    []Entry `json:"entries"`
	NextCursor string  `json:"next_cursor,omitempty"`
}

// Service records and lists audit-trail events.
type Service struct {
	store EntryStore
	logg  *logger.Logger
}

func NewService(store EntryStore, logg *logger.Logger) *Service {
	return &Service{store: store, logg: logg}
}

// Record appends one entry. Missing IDs and timestamps are filled in; a
// failed append is logged but never fails the caller's operation.
func (s *Service) Record(ctx context.Context, entry Entry) {
	if entry.Action == "" || entry.EntityType == "" {
		return
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = timeNowUTC()
	}

	if err := s.store.Append(ctx, entry); err != nil {
		logCtx := s.logg.WithField(ctx, "error", err.Error())
		s.logg.Warn(logCtx, "activity entry dropped")
	}
}

// Recent lists entries newest first with cursor pagination.
func (s *Service) Recent(ctx context.Context, params pagination.Params) (Page, error) {
	after, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return Page{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	entries, err := s.store.ListRecent(ctx, limit+1, after)
	if err != nil {
		return Page{}, err
	}

	page := Page{Entries: entries}
	if len(entries) > limit {
		page.Entries = entries[:limit]
		last := page.Entries[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			OccurredAt: last.OccurredAt,
			ID:         last.ID,
		})
	}
	return page, nil
}
