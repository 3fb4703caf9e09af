package event

// Type identifies the type of domain event
type Type string

const (
	TypeStockSynced     Type = "stock.synced"
	TypeStockSyncFailed Type = "stock.sync_failed"
	TypeBillTotaled     Type = "bill.totaled"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeStockSynced, TypeStockSyncFailed, TypeBillTotaled:
		return true
	default:
		return false
	}
}
