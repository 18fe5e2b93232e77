package stats

import (
	"sort"
	"time"

	"github.com/krow6750/gearshare-backend/internal/records"
)

// recentRentalLimit caps the dashboard's recent-rentals list.
const recentRentalLimit = 10

// RentalSummary is one row of the dashboard's recent rentals table: the
// order joined with its customer.
type RentalSummary struct {
	OrderID       string     `json:"order_id"`
	CustomerName  string     `json:"customer_name,omitempty"`
	CustomerEmail string     `json:"customer_email,omitempty"`
	Status        string     `json:"status"`
	StartsAt      *time.Time `json:"starts_at,omitempty"`
	PriceCents    int64      `json:"price_cents"`
}

// RecentRentals joins orders with customers and returns the most recently
// started ones, newest first. Orders without a start date sort last;
// dangling customer references leave the customer columns blank.
func RecentRentals(orders []records.Order, customers []records.Customer) []RentalSummary {
	index := records.BuildCustomerIndex(customers)

	sorted := make([]records.Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		left, right := sorted[i].StartsAt, sorted[j].StartsAt
		switch {
		case left == nil:
			return false
		case right == nil:
			return true
		default:
			return left.After(*right)
		}
	})

	limit := recentRentalLimit
	if len(sorted) < limit {
		limit = len(sorted)
	}

	summaries := make([]RentalSummary, 0, limit)
	for _, order := range sorted[:limit] {
		summary := RentalSummary{
			OrderID:    order.ID,
			Status:     order.Status.String(),
			StartsAt:   order.StartsAt,
			PriceCents: order.PriceCents,
		}
		if customer, ok := index.JoinOrderCustomer(order); ok {
			summary.CustomerName = customer.Name
			summary.CustomerEmail = customer.Email
		}
		summaries = append(summaries, summary)
	}
	return summaries
}
