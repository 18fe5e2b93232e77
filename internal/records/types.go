package records

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/krow6750/gearshare-backend/pkg/enums"
)

// Order is the canonical form of a rental transaction. Every field has a
// defined zero value so aggregation never has to branch on missing data.
type Order struct {
	ID         string             `json:"id"`
	CustomerID string             `json:"customer_id,omitempty"`
	Status     enums.RentalStatus `json:"status"`
	StartsAt   *time.Time         `json:"starts_at,omitempty"`
	StopsAt    *time.Time         `json:"stops_at,omitempty"`
	PriceCents int64              `json:"price_cents"`
}

// Customer is the canonical form of a booking-source customer.
type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RepairTicket is the canonical form of a spreadsheet repair row. Status
// stays a raw string on the read path so data-quality problems surface in
// the dashboard instead of being masked; writes are validated against the
// closed enums.RepairStatus set.
type RepairTicket struct {
	ID            string          `json:"id"`
	Status        string          `json:"status"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	SubmittedOn   *time.Time      `json:"submitted_on,omitempty"`
	CustomerName  string          `json:"customer_name,omitempty"`
	CustomerEmail string          `json:"customer_email,omitempty"`
	ItemSummary   string          `json:"item_summary,omitempty"`
}

// ActiveRepair reports whether the ticket's status is one of the in-flight
// workflow states. Unknown strings are never active.
func (r RepairTicket) ActiveRepair() bool {
	status, err := enums.ParseRepairStatus(r.Status)
	if err != nil {
		return false
	}
	return status.IsActive()
}

// StockItem is one trackable unit of an equipment product.
type StockItem struct {
	ID        string                `json:"id"`
	ProductID string                `json:"product_id,omitempty"`
	Status    enums.StockItemStatus `json:"status"`
	Archived  bool                  `json:"archived"`
}

// EquipmentItem is the canonical form of a rentable product together with
// its stock items.
type EquipmentItem struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Category   string      `json:"category"`
	Archived   bool        `json:"archived"`
	StockItems []StockItem `json:"stock_items,omitempty"`
}

// Available reports whether at least one non-archived stock item is free to
// rent. Archived equipment is never available.
func (e EquipmentItem) Available() bool {
	if e.Archived {
		return false
	}
	for _, item := range e.StockItems {
		if !item.Archived && item.Status == enums.StockItemStatusAvailable {
			return true
		}
	}
	return false
}
