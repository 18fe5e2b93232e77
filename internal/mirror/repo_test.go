package mirror

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/krow6750/gearshare-backend/internal/records"
	"github.com/krow6750/gearshare-backend/pkg/enums"
	pkgerrors "github.com/krow6750/gearshare-backend/pkg/errors"
)

func setupMirrorTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS mirror_records (
  collection TEXT NOT NULL,
  record_id TEXT NOT NULL,
  payload TEXT NOT NULL,
  fetched_at DATETIME NOT NULL,
  PRIMARY KEY (collection, record_id)
);`
	require.NoError(t, db.Exec(schema).Error)

	t.Cleanup(func() {
		require.NoError(t, db.Exec("DELETE FROM mirror_records").Error)
	})
	return db
}

func fixedNow(t *testing.T, value time.Time) {
	t.Helper()
	prev := timeNowUTC
	timeNowUTC = func() time.Time { return value }
	t.Cleanup(func() { timeNowUTC = prev })
}

func TestReplaceAndLoadRoundTrip(t *testing.T) {
	db := setupMirrorTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	fetchTime := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	fixedNow(t, fetchTime)

	orders := map[string]any{
		"o1": records.Order{ID: "o1", Status: enums.RentalStatusPickedUp, PriceCents: 12500},
		"o2": records.Order{ID: "o2", Status: enums.RentalStatusReturned, PriceCents: 4000},
	}
	require.NoError(t, repo.Replace(ctx, CollectionOrders, orders))

	var loaded []records.Order
	fetchedAt, err := repo.Load(ctx, CollectionOrders, &loaded)
	require.NoError(t, err)

	assert.Len(t, loaded, 2)
	assert.True(t, fetchedAt.Equal(fetchTime), "expected fetch time %s, got %s", fetchTime, fetchedAt)

	byID := map[string]records.Order{}
	for _, order := range loaded {
		byID[order.ID] = order
	}
	assert.Equal(t, int64(12500), byID["o1"].PriceCents)
	assert.Equal(t, enums.RentalStatusReturned, byID["o2"].Status)
}

func TestReplaceDropsStaleRecords(t *testing.T) {
	db := setupMirrorTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Replace(ctx, CollectionCustomers, map[string]any{
		"c1": records.Customer{ID: "c1", Name: "Ada"},
		"c2": records.Customer{ID: "c2", Name: "Grace"},
	}))
	require.NoError(t, repo.Replace(ctx, CollectionCustomers, map[string]any{
		"c2": records.Customer{ID: "c2", Name: "Grace Hopper"},
	}))

	var loaded []records.Customer
	_, err := repo.Load(ctx, CollectionCustomers, &loaded)
	require.NoError(t, err)

	require.Len(t, loaded, 1)
	assert.Equal(t, "Grace Hopper", loaded[0].Name)
}

func TestReplaceIsolatesCollections(t *testing.T) {
	db := setupMirrorTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Replace(ctx, CollectionOrders, map[string]any{
		"o1": records.Order{ID: "o1"},
	}))
	require.NoError(t, repo.Replace(ctx, CollectionRepairs, map[string]any{
		"r1": records.RepairTicket{ID: "r1", Status: "In Repair"},
	}))

	var orders []records.Order
	_, err := repo.Load(ctx, CollectionOrders, &orders)
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	var repairs []records.RepairTicket
	_, err = repo.Load(ctx, CollectionRepairs, &repairs)
	require.NoError(t, err)
	assert.Len(t, repairs, 1)
}

func TestLoadEmptyCollection(t *testing.T) {
	db := setupMirrorTestDB(t)
	repo := NewRepository(db)

	var loaded []records.Order
	_, err := repo.Load(context.Background(), CollectionOrders, &loaded)
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}
