package refresh

import (
	"context"
	"sync"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/krow6750/gearshare-backend/internal/mirror"
	"github.com/krow6750/gearshare-backend/internal/records"
	"github.com/krow6750/gearshare-backend/internal/stats"
	"github.com/krow6750/gearshare-backend/pkg/booqable"
	pkgerrors "github.com/krow6750/gearshare-backend/pkg/errors"
	"github.com/krow6750/gearshare-backend/pkg/logger"
	"github.com/krow6750/gearshare-backend/pkg/metrics"
)

// BookingSource is the slice of the rental-booking client the fetcher needs.
type BookingSource interface {
	ListOrders(ctx context.Context) ([]booqable.Resource, error)
	ListCustomers(ctx context.Context) ([]booqable.Resource, error)
	ListProducts(ctx context.Context) (booqable.ProductListing, error)
}

// RepairSource lists repair tickets in canonical form.
type RepairSource interface {
	List(ctx context.Context) ([]records.RepairTicket, error)
}

// Dataset is one complete, joined pull of the three sources.
type Dataset struct {
	Orders    []records.Order
	Customers []records.Customer
	Equipment []records.EquipmentItem
	Repairs   []records.RepairTicket
}

// FetcherParams configure a Fetcher.
type FetcherParams struct {
	Booking BookingSource
	Repairs RepairSource
	Mirror  mirror.Repository
	Metrics *metrics.RefreshMetrics
	Logger  *logger.Logger
	Timeout time.Duration
}

// Fetcher pulls all three sources in parallel, falling back per source to
// the last mirrored copy when an upstream is down. A refresh run fails only
// when a source is unreachable and has no mirror.
type Fetcher struct {
	booking BookingSource
	repairs RepairSource
	mirror  mirror.Repository
	metrics *metrics.RefreshMetrics
	logg    *logger.Logger
	timeout time.Duration
}

func NewFetcher(params FetcherParams) *Fetcher {
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Fetcher{
		booking: params.Booking,
		repairs: params.Repairs,
		mirror:  params.Mirror,
		metrics: params.Metrics,
		logg:    params.Logger,
		timeout: timeout,
	}
}

// FetchAll pulls and joins the three sources. Each source degrades to its
// mirror independently, so one SaaS outage does not blank the dashboard.
func (f *Fetcher) FetchAll(ctx context.Context) (Dataset, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	var (
		dataset Dataset
		mu      sync.Mutex
		failed  error
	)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		orders, err := f.fetchOrders(groupCtx)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			failed = multierr.Append(failed, err)
			return nil
		}
		dataset.Orders = orders
		return nil
	})

	group.Go(func() error {
		customers, err := f.fetchCustomers(groupCtx)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			failed = multierr.Append(failed, err)
			return nil
		}
		dataset.Customers = customers
		return nil
	})

	group.Go(func() error {
		equipment, err := f.fetchEquipment(groupCtx)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			failed = multierr.Append(failed, err)
			return nil
		}
		dataset.Equipment = equipment
		return nil
	})

	group.Go(func() error {
		repairs, err := f.fetchRepairs(groupCtx)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			failed = multierr.Append(failed, err)
			return nil
		}
		dataset.Repairs = repairs
		return nil
	})

	if err := group.Wait(); err != nil {
		return Dataset{}, err
	}
	if failed != nil {
		return Dataset{}, pkgerrors.Wrap(pkgerrors.CodeDependency, failed, "fetching dashboard sources")
	}
	return dataset, nil
}

// BuildSnapshot implements stats.Builder: fetch, join, aggregate.
func (f *Fetcher) BuildSnapshot(ctx context.Context) (stats.Snapshot, error) {
	dataset, err := f.FetchAll(ctx)
	if err != nil {
		return stats.Snapshot{}, err
	}
	snap := stats.Compute(dataset.Orders, dataset.Equipment, dataset.Repairs)
	snap.RecentRentals = stats.RecentRentals(dataset.Orders, dataset.Customers)
	return snap, nil
}

func (f *Fetcher) fetchOrders(ctx context.Context) ([]records.Order, error) {
	raw, err := f.booking.ListOrders(ctx)
	if err != nil {
		var mirrored []records.Order
		if fallbackErr := f.fallback(ctx, mirror.CollectionOrders, err, &mirrored); fallbackErr != nil {
			return nil, fallbackErr
		}
		return mirrored, nil
	}

	orders := make([]records.Order, 0, len(raw))
	items := make(map[string]any, len(raw))
	for _, res := range raw {
		order := records.NormalizeOrder(res)
		orders = append(orders, order)
		items[order.ID] = order
	}
	f.storeMirror(ctx, mirror.CollectionOrders, items)
	return orders, nil
}

func (f *Fetcher) fetchCustomers(ctx context.Context) ([]records.Customer, error) {
	raw, err := f.booking.ListCustomers(ctx)
	if err != nil {
		var mirrored []records.Customer
		if fallbackErr := f.fallback(ctx, mirror.CollectionCustomers, err, &mirrored); fallbackErr != nil {
			return nil, fallbackErr
		}
		return mirrored, nil
	}

	customers := make([]records.Customer, 0, len(raw))
	items := make(map[string]any, len(raw))
	for _, res := range raw {
		customer := records.NormalizeCustomer(res)
		customers = append(customers, customer)
		items[customer.ID] = customer
	}
	f.storeMirror(ctx, mirror.CollectionCustomers, items)
	return customers, nil
}

func (f *Fetcher) fetchEquipment(ctx context.Context) ([]records.EquipmentItem, error) {
	listing, err := f.booking.ListProducts(ctx)
	if err != nil {
		var mirrored []records.EquipmentItem
		if fallbackErr := f.fallback(ctx, mirror.CollectionEquipment, err, &mirrored); fallbackErr != nil {
			return nil, fallbackErr
		}
		return mirrored, nil
	}

	equipment := make([]records.EquipmentItem, 0, len(listing.Products))
	for _, res := range listing.Products {
		equipment = append(equipment, records.NormalizeEquipment(res))
	}
	equipment = records.AttachStockItems(equipment, records.NormalizeStockItems(listing.Included))

	items := make(map[string]any, len(equipment))
	for _, item := range equipment {
		items[item.ID] = item
	}
	f.storeMirror(ctx, mirror.CollectionEquipment, items)
	return equipment, nil
}

func (f *Fetcher) fetchRepairs(ctx context.Context) ([]records.RepairTicket, error) {
	tickets, err := f.repairs.List(ctx)
	if err != nil {
		var mirrored []records.RepairTicket
		if fallbackErr := f.fallback(ctx, mirror.CollectionRepairs, err, &mirrored); fallbackErr != nil {
			return nil, fallbackErr
		}
		return mirrored, nil
	}

	items := make(map[string]any, len(tickets))
	for _, ticket := range tickets {
		items[ticket.ID] = ticket
	}
	f.storeMirror(ctx, mirror.CollectionRepairs, items)
	return tickets, nil
}

// fallback loads a collection's mirror after an upstream failure. The
// original fetch error is surfaced when no mirror exists.
func (f *Fetcher) fallback(ctx context.Context, collection string, fetchErr error, dest any) error {
	f.metrics.IncSourceFailure(collection)
	logCtx := f.logg.WithSource(ctx, collection)
	logCtx = f.logg.WithField(logCtx, "error", fetchErr.Error())
	f.logg.Warn(logCtx, "source fetch failed; trying mirror")

	fetchedAt, err := f.mirror.Load(ctx, collection, dest)
	if err != nil {
		return multierr.Append(fetchErr, err)
	}

	f.metrics.IncMirrorFallback(collection)
	logCtx = f.logg.WithField(logCtx, "mirror_age", time.Since(fetchedAt).String())
	f.logg.Warn(logCtx, "serving mirrored records")
	return nil
}

// storeMirror refreshes a collection's mirror. Mirror write failures are
// logged, not fatal: the live fetch already succeeded.
func (f *Fetcher) storeMirror(ctx context.Context, collection string, items map[string]any) {
	if err := f.mirror.Replace(ctx, collection, items); err != nil {
		logCtx := f.logg.WithSource(ctx, collection)
		logCtx = f.logg.WithField(logCtx, "error", err.Error())
		f.logg.Warn(logCtx, "mirror write failed")
	}
}
