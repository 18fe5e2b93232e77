package enums

import "fmt"

// RentalStatus is the canonical lifecycle state of a rental order.
type RentalStatus string

const (
	RentalStatusReserved RentalStatus = "reserved"
	RentalStatusPickedUp RentalStatus = "picked_up"
	RentalStatusReturned RentalStatus = "returned"
	// RentalStatusUnknown is the catch-all bucket for raw statuses the
	// booking source sends that we do not recognize. Normalization never
	// fails on an unexpected status.
	RentalStatusUnknown RentalStatus = "unknown"
)

var validRentalStatuses = []RentalStatus{
	RentalStatusReserved,
	RentalStatusPickedUp,
	RentalStatusReturned,
	RentalStatusUnknown,
}

// String implements fmt.Stringer.
func (r RentalStatus) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RentalStatus.
func (r RentalStatus) IsValid() bool {
	for _, candidate := range validRentalStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsActive reports whether an order in this status ties up equipment.
func (r RentalStatus) IsActive() bool {
	return r == RentalStatusReserved || r == RentalStatusPickedUp
}

// ParseRentalStatus converts raw input into a RentalStatus.
func ParseRentalStatus(value string) (RentalStatus, error) {
	for _, candidate := range validRentalStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rental status %q", value)
}
