package enums

import "fmt"

// StockItemStatus is the canonical availability state of a single trackable
// unit of an equipment product.
type StockItemStatus string

const (
	StockItemStatusAvailable   StockItemStatus = "available"
	StockItemStatusRented      StockItemStatus = "rented"
	StockItemStatusMaintenance StockItemStatus = "maintenance"
	StockItemStatusUnknown     StockItemStatus = "unknown"
)

var validStockItemStatuses = []StockItemStatus{
	StockItemStatusAvailable,
	StockItemStatusRented,
	StockItemStatusMaintenance,
	StockItemStatusUnknown,
}

// String implements fmt.Stringer.
func (s StockItemStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StockItemStatus.
func (s StockItemStatus) IsValid() bool {
	for _, candidate := range validStockItemStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStockItemStatus converts raw input into a StockItemStatus.
func ParseStockItemStatus(value string) (StockItemStatus, error) {
	for _, candidate := range validStockItemStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock item status %q", value)
}
