package records

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/krow6750/gearshare-backend/pkg/airtable"
	"github.com/krow6750/gearshare-backend/pkg/booqable"
	"github.com/krow6750/gearshare-backend/pkg/enums"
)

func TestNormalizeOrder(t *testing.T) {
	raw := booqable.Resource{
		ID:   "ord-1",
		Type: "orders",
		Attributes: map[string]any{
			"status":         "started",
			"starts_at":      "2026-08-20T10:00:00Z",
			"stops_at":       "2026-08-27T10:00:00Z",
			"price_in_cents": float64(12550),
		},
		Relationships: map[string]booqable.Relationship{
			"customer": {Data: json.RawMessage(`{"type":"customers","id":"cus-9"}`)},
		},
	}

	order := NormalizeOrder(raw)
	if order.ID != "ord-1" {
		t.Fatalf("expected id ord-1, got %q", order.ID)
	}
	if order.Status != enums.RentalStatusPickedUp {
		t.Fatalf("expected picked_up, got %q", order.Status)
	}
	if order.CustomerID != "cus-9" {
		t.Fatalf("expected customer cus-9, got %q", order.CustomerID)
	}
	if order.PriceCents != 12550 {
		t.Fatalf("expected 12550 cents, got %d", order.PriceCents)
	}
	if order.StartsAt == nil || !order.StartsAt.Equal(time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected starts_at %v", order.StartsAt)
	}
}

func TestNormalizeOrderDefaultsOnMalformedInput(t *testing.T) {
	raw := booqable.Resource{
		ID:   "ord-2",
		Type: "orders",
		Attributes: map[string]any{
			"status":         "shipped",
			"starts_at":      "not-a-date",
			"price_in_cents": "oops",
		},
	}

	order := NormalizeOrder(raw)
	if order.Status != enums.RentalStatusUnknown {
		t.Fatalf("expected unknown status, got %q", order.Status)
	}
	if order.StartsAt != nil || order.StopsAt != nil {
		t.Fatalf("expected nil dates, got %v / %v", order.StartsAt, order.StopsAt)
	}
	if order.PriceCents != 0 {
		t.Fatalf("expected 0 cents, got %d", order.PriceCents)
	}
	if order.CustomerID != "" {
		t.Fatalf("expected empty customer id, got %q", order.CustomerID)
	}
}

func TestNormalizeOrderRentalStatuses(t *testing.T) {
	cases := map[string]enums.RentalStatus{
		"reserved": enums.RentalStatusReserved,
		"started":  enums.RentalStatusPickedUp,
		"stopped":  enums.RentalStatusReturned,
		"concept":  enums.RentalStatusUnknown,
		"archived": enums.RentalStatusUnknown,
		"":         enums.RentalStatusUnknown,
	}
	for raw, want := range cases {
		order := NormalizeOrder(booqable.Resource{
			ID:         "ord-s",
			Attributes: map[string]any{"status": raw},
		})
		if order.Status != want {
			t.Fatalf("status %q: expected %q, got %q", raw, want, order.Status)
		}
	}
}

func TestNormalizeOrderClampsNegativePrice(t *testing.T) {
	order := NormalizeOrder(booqable.Resource{
		ID:         "ord-3",
		Attributes: map[string]any{"price_in_cents": float64(-500)},
	})
	if order.PriceCents != 0 {
		t.Fatalf("expected negative price clamped to 0, got %d", order.PriceCents)
	}
}

func TestNormalizeOrderNilAttributes(t *testing.T) {
	order := NormalizeOrder(booqable.Resource{ID: "ord-4"})
	if order.ID != "ord-4" || order.Status != enums.RentalStatusUnknown {
		t.Fatalf("unexpected order from empty resource: %+v", order)
	}
}

func TestNormalizeStockItems(t *testing.T) {
	included := []booqable.Resource{
		{ID: "si-1", Type: "stock_items", Attributes: map[string]any{"product_id": "pr-1", "status": "available"}},
		{ID: "si-2", Type: "stock_items", Attributes: map[string]any{"product_id": "pr-1", "status": "rented", "archived": true}},
		{ID: "ph-1", Type: "photos"},
		{ID: "si-3", Type: "stock_items", Attributes: map[string]any{"product_id": "pr-2", "status": "lost"}},
	}

	items := NormalizeStockItems(included)
	if len(items) != 3 {
		t.Fatalf("expected 3 stock items, got %d", len(items))
	}
	if items[0].Status != enums.StockItemStatusAvailable {
		t.Fatalf("expected available, got %q", items[0].Status)
	}
	if !items[1].Archived {
		t.Fatal("expected second item archived")
	}
	if items[2].Status != enums.StockItemStatusUnknown {
		t.Fatalf("expected unrecognized status to map to unknown, got %q", items[2].Status)
	}
}

func TestNormalizeRepair(t *testing.T) {
	raw := airtable.Record{
		ID: "rec-1",
		Fields: map[string]any{
			"Status":         "In Repair",
			"Amount Paid":    "$1,234.50",
			"Submitted On":   "2026-08-25",
			"Customer Name":  "Ada Lovelace",
			"Customer Email": "ada@example.com",
			"Item":           "Canyon Spectral, rear mech",
		},
	}

	ticket := NormalizeRepair(raw)
	if ticket.Status != "In Repair" {
		t.Fatalf("expected status preserved, got %q", ticket.Status)
	}
	if !ticket.AmountPaid.Equal(decimal.RequireFromString("1234.50")) {
		t.Fatalf("expected 1234.50, got %s", ticket.AmountPaid)
	}
	if ticket.SubmittedOn == nil || ticket.SubmittedOn.Format("2006-01-02") != "2026-08-25" {
		t.Fatalf("unexpected submitted date %v", ticket.SubmittedOn)
	}
	if ticket.CustomerName != "Ada Lovelace" || ticket.CustomerEmail != "ada@example.com" {
		t.Fatalf("unexpected customer fields: %+v", ticket)
	}
}

func TestNormalizeRepairAmountDefaults(t *testing.T) {
	cases := []struct {
		name  string
		value any
	}{
		{"missing", nil},
		{"garbage string", "call us"},
		{"negative", float64(-10)},
		{"wrong type", []any{"x"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fields := map[string]any{}
			if tc.value != nil {
				fields["Amount Paid"] = tc.value
			}
			ticket := NormalizeRepair(airtable.Record{ID: "rec-x", Fields: fields})
			if !ticket.AmountPaid.IsZero() {
				t.Fatalf("expected zero amount, got %s", ticket.AmountPaid)
			}
		})
	}
}

func TestNormalizeRepairNumericAmount(t *testing.T) {
	ticket := NormalizeRepair(airtable.Record{
		ID:     "rec-n",
		Fields: map[string]any{"Amount Paid": float64(85.5)},
	})
	if !ticket.AmountPaid.Equal(decimal.RequireFromString("85.5")) {
		t.Fatalf("expected 85.5, got %s", ticket.AmountPaid)
	}
}

func TestNormalizeRepairMalformedDate(t *testing.T) {
	ticket := NormalizeRepair(airtable.Record{
		ID:     "rec-d",
		Fields: map[string]any{"Submitted On": "25/08/2026"},
	})
	if ticket.SubmittedOn != nil {
		t.Fatalf("expected nil date, got %v", ticket.SubmittedOn)
	}
}
