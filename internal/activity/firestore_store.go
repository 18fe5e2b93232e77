package activity

import (
	"context"

	cloudfirestore "cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/krow6750/gearshare-backend/pkg/config"
	pkgerrors "github.com/krow6750/gearshare-backend/pkg/errors"
	"github.com/krow6750/gearshare-backend/pkg/firestore"
	"github.com/krow6750/gearshare-backend/pkg/pagination"
)

// FirestoreStore persists activity entries in a document collection keyed
// by entry ID, ordered by occurrence time descending with the document ID
// as a tie-break.
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreStore(client *firestore.Client, cfg config.FirestoreConfig) *FirestoreStore {
	return &FirestoreStore{
		client:     client,
		collection: cfg.ActivityCollection,
	}
}

func (s *FirestoreStore) Append(ctx context.Context, entry Entry) error {
	_, err := s.client.Collection(s.collection).Doc(entry.ID).Set(ctx, entry)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "writing activity entry")
	}
	return nil
}

func (s *FirestoreStore) ListRecent(ctx context.Context, limit int, after *pagination.Cursor) ([]Entry, error) {
	query := s.client.Collection(s.collection).
		OrderBy("occurred_at", cloudfirestore.Desc).
		OrderBy(cloudfirestore.DocumentID, cloudfirestore.Desc).
		Limit(limit)
	if after != nil {
		query = query.StartAfter(after.OccurredAt, after.ID)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var entries []Entry
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading activity entries")
		}
		var entry Entry
		if err := doc.DataTo(&entry); err != nil {
			continue
		}
		entry.ID = doc.Ref.ID
		entries = append(entries, entry)
	}
	return entries, nil
}
