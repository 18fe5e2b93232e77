package records

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/krow6750/gearshare-backend/pkg/airtable"
	"github.com/krow6750/gearshare-backend/pkg/booqable"
	"github.com/krow6750/gearshare-backend/pkg/enums"
)

// Column headers of the repair ticket table. The spreadsheet source keys
// fields by these display names, not machine identifiers.
const (
	FieldStatus        = "Status"
	FieldAmountPaid    = "Amount Paid"
	FieldSubmittedOn   = "Submitted On"
	FieldCustomerName  = "Customer Name"
	FieldCustomerEmail = "Customer Email"
	FieldItemSummary   = "Item"
)

// NormalizeOrder coerces a raw booking-source order into canonical form.
// Malformed attributes resolve to defaults, never an error.
func NormalizeOrder(raw booqable.Resource) Order {
	order := Order{
		ID:         raw.ID,
		Status:     rentalStatus(stringAttr(raw.Attributes, "status")),
		StartsAt:   timeAttr(raw.Attributes, "starts_at"),
		StopsAt:    timeAttr(raw.Attributes, "stops_at"),
		PriceCents: centsAttr(raw.Attributes, "price_in_cents"),
	}
	if link, ok := raw.Relationships["customer"].One(); ok {
		order.CustomerID = link.ID
	}
	return order
}

// NormalizeCustomer coerces a raw booking-source customer.
func NormalizeCustomer(raw booqable.Resource) Customer {
	return Customer{
		ID:    raw.ID,
		Name:  stringAttr(raw.Attributes, "name"),
		Email: stringAttr(raw.Attributes, "email"),
	}
}

// NormalizeEquipment coerces a raw product without resolving stock items;
// use NormalizeStockItems plus AttachStockItems for the sideloaded units.
func NormalizeEquipment(raw booqable.Resource) EquipmentItem {
	return EquipmentItem{
		ID:       raw.ID,
		Name:     stringAttr(raw.Attributes, "name"),
		Category: stringAttr(raw.Attributes, "category"),
		Archived: boolAttr(raw.Attributes, "archived"),
	}
}

// NormalizeStockItems converts the JSON:API included side table into
// canonical stock items, dropping resources of other types.
func NormalizeStockItems(included []booqable.Resource) []StockItem {
	items := make([]StockItem, 0, len(included))
	for _, res := range included {
		if res.Type != "stock_items" {
			continue
		}
		items = append(items, StockItem{
			ID:        res.ID,
			ProductID: stringAttr(res.Attributes, "product_id"),
			Status:    stockItemStatus(stringAttr(res.Attributes, "status")),
			Archived:  boolAttr(res.Attributes, "archived"),
		})
	}
	return items
}

// NormalizeRepair coerces a raw spreadsheet row into canonical form. The
// status string passes through untouched; amounts strip currency formatting
// and clamp to zero on parse failure.
func NormalizeRepair(raw airtable.Record) RepairTicket {
	return RepairTicket{
		ID:            raw.ID,
		Status:        stringAttr(raw.Fields, FieldStatus),
		AmountPaid:    amountField(raw.Fields, FieldAmountPaid),
		SubmittedOn:   dateField(raw.Fields, FieldSubmittedOn),
		CustomerName:  stringAttr(raw.Fields, FieldCustomerName),
		CustomerEmail: stringAttr(raw.Fields, FieldCustomerEmail),
		ItemSummary:   stringAttr(raw.Fields, FieldItemSummary),
	}
}

func rentalStatus(raw string) enums.RentalStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "reserved":
		return enums.RentalStatusReserved
	case "started", "picked_up":
		return enums.RentalStatusPickedUp
	case "stopped", "returned":
		return enums.RentalStatusReturned
	default:
		return enums.RentalStatusUnknown
	}
}

func stockItemStatus(raw string) enums.StockItemStatus {
	status, err := enums.ParseStockItemStatus(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil {
		return enums.StockItemStatusUnknown
	}
	return status
}

func stringAttr(attrs map[string]any, key string) string {
	if attrs == nil {
		return ""
	}
	if value, ok := attrs[key].(string); ok {
		return strings.TrimSpace(value)
	}
	return ""
}

func boolAttr(attrs map[string]any, key string) bool {
	if attrs == nil {
		return false
	}
	if value, ok := attrs[key].(bool); ok {
		return value
	}
	return false
}

func timeAttr(attrs map[string]any, key string) *time.Time {
	raw := stringAttr(attrs, key)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return &parsed
		}
	}
	return nil
}

// centsAttr parses an integer minor-unit price, clamping negatives and
// anything unparseable to zero.
func centsAttr(attrs map[string]any, key string) int64 {
	value := numericValue(attrs, key)
	if value <= 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return int64(value)
}

// amountField parses a major-unit money value that may carry currency
// formatting ("$1,234.50"). Unparseable or negative values yield zero.
func amountField(fields map[string]any, key string) decimal.Decimal {
	if fields == nil {
		return decimal.Zero
	}
	var amount decimal.Decimal
	switch value := fields[key].(type) {
	case float64:
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return decimal.Zero
		}
		amount = decimal.NewFromFloat(value)
	case int:
		amount = decimal.NewFromInt(int64(value))
	case int64:
		amount = decimal.NewFromInt(value)
	case string:
		cleaned := strings.TrimSpace(value)
		cleaned = strings.ReplaceAll(cleaned, "$", "")
		cleaned = strings.ReplaceAll(cleaned, ",", "")
		parsed, err := decimal.NewFromString(cleaned)
		if err != nil {
			return decimal.Zero
		}
		amount = parsed
	default:
		return decimal.Zero
	}
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

func numericValue(fields map[string]any, key string) float64 {
	if fields == nil {
		return 0
	}
	switch value := fields[key].(type) {
	case float64:
		return value
	case int:
		return float64(value)
	case int64:
		return float64(value)
	case string:
		cleaned := strings.TrimSpace(value)
		cleaned = strings.ReplaceAll(cleaned, "$", "")
		cleaned = strings.ReplaceAll(cleaned, ",", "")
		parsed, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

// dateField parses a YYYY-MM-DD value; malformed dates resolve to nil.
func dateField(fields map[string]any, key string) *time.Time {
	raw := stringAttr(fields, key)
	if raw == "" {
		return nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &parsed
}
