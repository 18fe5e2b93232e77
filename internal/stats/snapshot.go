package stats

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/krow6750/gearshare-backend/internal/records"
)

// test seam
var timeNowUTC = func() time.Time {
	return time.Now().UTC()
}

// Snapshot is one complete aggregation pass over the three sources. All
// counts derive from the canonical records; nothing here re-reads upstream.
type Snapshot struct {
	TotalRentals       int             `json:"total_rentals"`
	ActiveRentals      int             `json:"active_rentals"`
	TotalEquipment     int             `json:"total_equipment"`
	AvailableEquipment int             `json:"available_equipment"`
	ActiveRepairs      int             `json:"active_repairs"`
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	StatusDistribution []StatusCount   `json:"status_distribution"`
	RevenueByDay       []RevenueBucket `json:"revenue_by_day"`
	RecentRentals      []RentalSummary `json:"recent_rentals,omitempty"`
	GeneratedAt        time.Time       `json:"generated_at"`
}

// StatusCount is one slice of the repair status distribution. Order follows
// first appearance in the source so the chart is stable across refreshes of
// the same data.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// Compute aggregates canonical records into a snapshot. It is total: any
// slice may be nil or hold partially-defaulted records and the result is
// still well defined.
func Compute(orders []records.Order, equipment []records.EquipmentItem, repairs []records.RepairTicket) Snapshot {
	snap := Snapshot{
		TotalRentals: len(orders),
		TotalRevenue: decimal.Zero,
		GeneratedAt:  timeNowUTC(),
	}

	for _, order := range orders {
		if order.Status.IsActive() {
			snap.ActiveRentals++
		}
		if order.PriceCents > 0 {
			snap.TotalRevenue = snap.TotalRevenue.Add(centsToMajor(order.PriceCents))
		}
	}

	// Archived equipment is excluded from the count entirely.
	for _, item := range equipment {
		if item.Archived {
			continue
		}
		snap.TotalEquipment++
		if item.Available() {
			snap.AvailableEquipment++
		}
	}

	position := make(map[string]int, len(repairs))
	for _, ticket := range repairs {
		if ticket.ActiveRepair() {
			snap.ActiveRepairs++
		}
		snap.TotalRevenue = snap.TotalRevenue.Add(ticket.AmountPaid)

		idx, seen := position[ticket.Status]
		if !seen {
			idx = len(snap.StatusDistribution)
			position[ticket.Status] = idx
			snap.StatusDistribution = append(snap.StatusDistribution, StatusCount{Status: ticket.Status})
		}
		snap.StatusDistribution[idx].Count++
	}

	snap.RevenueByDay = RevenueByDay(orders, repairs, snap.GeneratedAt)
	return snap
}

func centsToMajor(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
