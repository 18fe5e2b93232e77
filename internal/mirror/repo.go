package mirror

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	pkgerrors "github.com/krow6750/gearshare-backend/pkg/errors"
)

// test seam
var timeNowUTC = func() time.Time {
	return time.Now().UTC()
}

// Repository persists mirrored upstream records.
type Repository interface {
	Replace(ctx context.Context, collection string, items map[string]any) error
	Load(ctx context.Context, collection string, dest any) (time.Time, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a mirror repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Replace swaps a collection's mirror with a freshly fetched record set,
// keyed by upstream record ID. The swap runs in one transaction so readers
// never observe a half-replaced collection.
func (r *repository) Replace(ctx context.Context, collection string, items map[string]any) error {
	fetchedAt := timeNowUTC()

	rows := make([]Record, 0, len(items))
	for id, item := range items {
		payload, err := json.Marshal(item)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding mirror record")
		}
		rows = append(rows, Record{
			Collection: collection,
			RecordID:   id,
			Payload:    payload,
			FetchedAt:  fetchedAt,
		})
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection = ?", collection).Delete(&Record{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection"}, {Name: "record_id"}},
			UpdateAll: true,
		}).Create(&rows).Error
	})
}

// Load decodes a collection's mirrored payloads into dest, which must be a
// pointer to a slice of the collection's canonical record type. It returns
// the fetch time of the mirrored data so callers can judge staleness.
func (r *repository) Load(ctx context.Context, collection string, dest any) (time.Time, error) {
	var rows []Record
	err := r.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("record_id").
		Find(&rows).Error
	if err != nil {
		return time.Time{}, err
	}
	if len(rows) == 0 {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeNotFound, "no mirrored records for collection")
	}

	payloads := make([]json.RawMessage, 0, len(rows))
	fetchedAt := rows[0].FetchedAt
	for _, row := range rows {
		payloads = append(payloads, json.RawMessage(row.Payload))
		if row.FetchedAt.Before(fetchedAt) {
			fetchedAt = row.FetchedAt
		}
	}

	combined, err := json.Marshal(payloads)
	if err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "combining mirror payloads")
	}
	if err := json.Unmarshal(combined, dest); err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decoding mirror payloads")
	}
	return fetchedAt, nil
}
