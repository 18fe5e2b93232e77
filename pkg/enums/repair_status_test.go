package enums

import "testing"

func TestRepairStatusSetIsClosed(t *testing.T) {
	statuses := RepairStatuses()
	if len(statuses) != 8 {
		t.Fatalf("expected 8 repair statuses, got %d", len(statuses))
	}
	for _, status := range statuses {
		if !status.IsValid() {
			t.Fatalf("status %q should be valid", status)
		}
	}
}

func TestRepairStatusActiveSubset(t *testing.T) {
	active := []RepairStatus{
		RepairStatusContacted,
		RepairStatusAwaitingDropOff,
		RepairStatusDroppedOff,
		RepairStatusInRepair,
	}
	for _, status := range active {
		if !status.IsActive() {
			t.Fatalf("status %q should be active", status)
		}
	}

	inactive := []RepairStatus{
		RepairStatusNew,
		RepairStatusAwaitingPickup,
		RepairStatusPickedUp,
		RepairStatusCouldNotRepair,
	}
	for _, status := range inactive {
		if status.IsActive() {
			t.Fatalf("status %q should not be active", status)
		}
	}
}

func TestParseRepairStatusRejectsUnknown(t *testing.T) {
	if _, err := ParseRepairStatus("Waiting On Parts"); err == nil {
		t.Fatalf("expected parse error for unknown status")
	}
	status, err := ParseRepairStatus("In Repair")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != RepairStatusInRepair {
		t.Fatalf("unexpected status %q", status)
	}
}

func TestParseRentalStatusFallbackIsExplicit(t *testing.T) {
	if _, err := ParseRentalStatus("archived"); err == nil {
		t.Fatalf("expected parse error for unknown rental status")
	}
	if !RentalStatusReserved.IsActive() || !RentalStatusPickedUp.IsActive() {
		t.Fatalf("reserved and picked_up must count as active")
	}
	if RentalStatusReturned.IsActive() || RentalStatusUnknown.IsActive() {
		t.Fatalf("returned and unknown must not count as active")
	}
}
