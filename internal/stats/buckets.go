package stats

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/krow6750/gearshare-backend/internal/records"
)

// revenueWindowDays is the width of the trailing revenue window, reference
// day included.
const revenueWindowDays = 7

const bucketDateLayout = "2006-01-02"

// RevenueBucket is one calendar day of combined rental and repair revenue.
type RevenueBucket struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
}

// RevenueByDay buckets order and repair revenue into a dense trailing
// seven-day window ending on the reference instant's UTC calendar day.
// Orders bucket on their start date, repairs on their submission date;
// undated records are excluded. Days with no revenue still appear with a
// zero amount.
func RevenueByDay(orders []records.Order, repairs []records.RepairTicket, reference time.Time) []RevenueBucket {
	end := reference.UTC().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -(revenueWindowDays - 1))

	totals := make(map[string]decimal.Decimal, revenueWindowDays)

	add := func(at *time.Time, amount decimal.Decimal) {
		if at == nil || amount.IsZero() {
			return
		}
		day := at.UTC().Truncate(24 * time.Hour)
		if day.Before(start) || day.After(end) {
			return
		}
		key := day.Format(bucketDateLayout)
		totals[key] = totals[key].Add(amount)
	}

	for _, order := range orders {
		if order.PriceCents > 0 {
			add(order.StartsAt, centsToMajor(order.PriceCents))
		}
	}
	for _, ticket := range repairs {
		add(ticket.SubmittedOn, ticket.AmountPaid)
	}

	buckets := make([]RevenueBucket, 0, revenueWindowDays)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		key := day.Format(bucketDateLayout)
		revenue, ok := totals[key]
		if !ok {
			revenue = decimal.Zero
		}
		buckets = append(buckets, RevenueBucket{Date: key, Revenue: revenue})
	}
	return buckets
}
