package controllers

import (
	"context"
	"net/http"

	"github.com/krow6750/gearshare-backend/api/responses"
	"github.com/krow6750/gearshare-backend/internal/stats"
	"github.com/krow6750/gearshare-backend/pkg/logger"
)

// StatsProvider serves the current dashboard snapshot.
type StatsProvider interface {
	Current(ctx context.Context) (stats.Snapshot, error)
}

// DashboardStats returns the full snapshot: counts, revenue, distribution,
// buckets, and recent rentals.
func DashboardStats(svc StatsProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := svc.Current(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

// DashboardRevenue returns the seven-day revenue window as a chart payload.
func DashboardRevenue(svc StatsProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := svc.Current(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats.RevenueChart(snap.RevenueByDay))
	}
}

// DashboardStatusDistribution returns the repair status breakdown as a
// chart payload.
func DashboardStatusDistribution(svc StatsProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := svc.Current(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats.StatusChart(snap.StatusDistribution))
	}
}
