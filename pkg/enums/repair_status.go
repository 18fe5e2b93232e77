package enums

import "fmt"

// RepairStatus tracks the lifecycle of a repair ticket. The set mirrors the
// columns of the repair workflow board and is closed: writes with any other
// value are rejected, while reads tolerate unknown strings so legacy rows
// surface in the dashboard instead of crashing it.
type RepairStatus string

const (
	RepairStatusNew             RepairStatus = "New"
	RepairStatusContacted       RepairStatus = "Contacted, Awaiting Customer Response"
	RepairStatusAwaitingDropOff RepairStatus = "Awaiting Drop-Off"
	RepairStatusDroppedOff      RepairStatus = "Dropped Off, Awaiting Repair"
	RepairStatusInRepair        RepairStatus = "In Repair"
	RepairStatusAwaitingPickup  RepairStatus = "Repaired, Awaiting Pickup"
	RepairStatusPickedUp        RepairStatus = "Picked Up"
	RepairStatusCouldNotRepair  RepairStatus = "Could Not Repair"
)

var validRepairStatuses = []RepairStatus{
	RepairStatusNew,
	RepairStatusContacted,
	RepairStatusAwaitingDropOff,
	RepairStatusDroppedOff,
	RepairStatusInRepair,
	RepairStatusAwaitingPickup,
	RepairStatusPickedUp,
	RepairStatusCouldNotRepair,
}

// activeRepairStatuses are the statuses counted as in-flight work.
var activeRepairStatuses = map[RepairStatus]bool{
	RepairStatusContacted:       true,
	RepairStatusAwaitingDropOff: true,
	RepairStatusDroppedOff:      true,
	RepairStatusInRepair:        true,
}

// String implements fmt.Stringer.
func (r RepairStatus) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RepairStatus.
func (r RepairStatus) IsValid() bool {
	for _, candidate := range validRepairStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsActive reports whether a ticket in this status counts as active work.
func (r RepairStatus) IsActive() bool {
	return activeRepairStatuses[r]
}

// RepairStatuses returns the closed status set in workflow order.
func RepairStatuses() []RepairStatus {
	out := make([]RepairStatus, len(validRepairStatuses))
	copy(out, validRepairStatuses)
	return out
}

// ParseRepairStatus converts raw input into a RepairStatus.
func ParseRepairStatus(value string) (RepairStatus, error) {
	for _, candidate := range validRepairStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid repair status %q", value)
}
