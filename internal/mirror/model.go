package mirror

import "time"

// Collection names the upstream record sets the mirror holds.
const (
	CollectionOrders    = "orders"
	CollectionCustomers = "customers"
	CollectionEquipment = "equipment"
	CollectionRepairs   = "repairs"
)

// Record is the last successfully fetched copy of one upstream record.
// The mirror is a fallback read path for refresh runs when a source is
// down; it is never authoritative.
type Record struct {
	Collection string    `gorm:"primaryKey;size:64"`
	RecordID   string    `gorm:"primaryKey;size:128;column:record_id"`
	Payload    []byte    `gorm:"type:jsonb;not null"`
	FetchedAt  time.Time `gorm:"not null;index"`
}

// TableName overrides GORM's pluralization.
func (Record) TableName() string {
	return "mirror_records"
}
