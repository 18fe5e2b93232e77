package refresh

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/krow6750/gearshare-backend/internal/mirror"
	"github.com/krow6750/gearshare-backend/internal/records"
	"github.com/krow6750/gearshare-backend/pkg/booqable"
	"github.com/krow6750/gearshare-backend/pkg/enums"
	"github.com/krow6750/gearshare-backend/pkg/logger"
)

type fakeBooking struct {
	orders    []booqable.Resource
	customers []booqable.Resource
	listing   booqable.ProductListing
	ordersErr error
}

func (f *fakeBooking) ListOrders(context.Context) ([]booqable.Resource, error) {
	if f.ordersErr != nil {
		return nil, f.ordersErr
	}
	return f.orders, nil
}

func (f *fakeBooking) ListCustomers(context.Context) ([]booqable.Resource, error) {
	return f.customers, nil
}

func (f *fakeBooking) ListProducts(context.Context) (booqable.ProductListing, error) {
	return f.listing, nil
}

type fakeRepairSource struct {
	tickets []records.RepairTicket
	err     error
}

func (f *fakeRepairSource) List(context.Context) ([]records.RepairTicket, error) {
	return f.tickets, f.err
}

type fakeMirror struct {
	stored map[string]map[string]any
}

func newFakeMirror() *fakeMirror {
	return &fakeMirror{stored: map[string]map[string]any{}}
}

func (f *fakeMirror) Replace(_ context.Context, collection string, items map[string]any) error {
	f.stored[collection] = items
	return nil
}

func (f *fakeMirror) Load(_ context.Context, collection string, dest any) (time.Time, error) {
	items, ok := f.stored[collection]
	if !ok || len(items) == 0 {
		return time.Time{}, errors.New("no mirrored records")
	}
	values := make([]any, 0, len(items))
	for _, item := range items {
		values = append(values, item)
	}
	payload, err := json.Marshal(values)
	if err != nil {
		return time.Time{}, err
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return time.Time{}, err
	}
	return time.Now().UTC().Add(-time.Hour), nil
}

func newTestFetcher(booking BookingSource, repairs RepairSource, store mirror.Repository) *Fetcher {
	return NewFetcher(FetcherParams{
		Booking: booking,
		Repairs: repairs,
		Mirror:  store,
		Logger:  logger.New(logger.Options{ServiceName: "refresh-test", Level: logger.ParseLevel("error")}),
		Timeout: time.Second,
	})
}

func TestFetchAllNormalizesAndMirrors(t *testing.T) {
	booking := &fakeBooking{
		orders: []booqable.Resource{
			{ID: "o1", Type: "orders", Attributes: map[string]any{"status": "started", "price_in_cents": float64(5000)}},
		},
		customers: []booqable.Resource{
			{ID: "c1", Type: "customers", Attributes: map[string]any{"name": "Ada"}},
		},
		listing: booqable.ProductListing{
			Products: []booqable.Resource{
				{ID: "p1", Type: "products", Attributes: map[string]any{"name": "Tent"}},
			},
			Included: []booqable.Resource{
				{ID: "s1", Type: "stock_items", Attributes: map[string]any{"product_id": "p1", "status": "available"}},
			},
		},
	}
	repairSrc := &fakeRepairSource{tickets: []records.RepairTicket{{ID: "r1", Status: "In Repair"}}}
	store := newFakeMirror()

	dataset, err := newTestFetcher(booking, repairSrc, store).FetchAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(dataset.Orders) != 1 || dataset.Orders[0].Status != enums.RentalStatusPickedUp {
		t.Fatalf("unexpected orders %+v", dataset.Orders)
	}
	if len(dataset.Equipment) != 1 || len(dataset.Equipment[0].StockItems) != 1 {
		t.Fatalf("expected stock items attached, got %+v", dataset.Equipment)
	}
	if len(dataset.Customers) != 1 || len(dataset.Repairs) != 1 {
		t.Fatalf("unexpected dataset %+v", dataset)
	}

	for _, collection := range []string{mirror.CollectionOrders, mirror.CollectionCustomers, mirror.CollectionEquipment, mirror.CollectionRepairs} {
		if len(store.stored[collection]) == 0 {
			t.Fatalf("expected %s mirrored", collection)
		}
	}
}

func TestFetchAllFallsBackToMirror(t *testing.T) {
	store := newFakeMirror()
	store.stored[mirror.CollectionOrders] = map[string]any{
		"o9": records.Order{ID: "o9", Status: enums.RentalStatusReserved, PriceCents: 900},
	}

	booking := &fakeBooking{ordersErr: errors.New("booking api down")}
	repairSrc := &fakeRepairSource{}

	dataset, err := newTestFetcher(booking, repairSrc, store).FetchAll(context.Background())
	if err != nil {
		t.Fatalf("expected mirror fallback, got %v", err)
	}
	if len(dataset.Orders) != 1 || dataset.Orders[0].ID != "o9" {
		t.Fatalf("expected mirrored order, got %+v", dataset.Orders)
	}
}

func TestFetchAllFailsWithoutMirror(t *testing.T) {
	booking := &fakeBooking{ordersErr: errors.New("booking api down")}
	repairSrc := &fakeRepairSource{}

	_, err := newTestFetcher(booking, repairSrc, newFakeMirror()).FetchAll(context.Background())
	if err == nil {
		t.Fatal("expected error when source is down and mirror is empty")
	}
}

func TestBuildSnapshotJoinsRecentRentals(t *testing.T) {
	startsAt := "2026-08-29T10:00:00Z"
	booking := &fakeBooking{
		orders: []booqable.Resource{
			{
				ID:   "o1",
				Type: "orders",
				Attributes: map[string]any{
					"status":         "started",
					"starts_at":      startsAt,
					"price_in_cents": float64(2500),
				},
				Relationships: map[string]booqable.Relationship{
					"customer": {Data: json.RawMessage(`{"type":"customers","id":"c1"}`)},
				},
			},
		},
		customers: []booqable.Resource{
			{ID: "c1", Type: "customers", Attributes: map[string]any{"name": "Ada Lovelace", "email": "ada@example.com"}},
		},
	}
	repairSrc := &fakeRepairSource{}

	snap, err := newTestFetcher(booking, repairSrc, newFakeMirror()).BuildSnapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.TotalRentals != 1 || snap.ActiveRentals != 1 {
		t.Fatalf("unexpected counts %+v", snap)
	}
	if len(snap.RecentRentals) != 1 || snap.RecentRentals[0].CustomerName != "Ada Lovelace" {
		t.Fatalf("expected joined recent rental, got %+v", snap.RecentRentals)
	}
}
