package entity

// Status constants for SyncRun
const (
	SyncStatusRunning   = "RUNNING"
	SyncStatusCompleted = "COMPLETED"
	SyncStatusFailed    = "FAILED"
)

// Warning source constants for SyncWarning
const (
	WarningSourceGodown    = "GODOWN_REPORT"
	WarningSourcePriceList = "PRICE_LIST_REPORT"
	WarningSourceMerge     = "MERGE"
)

// Bill type constants
const (
	BillTypeGST    = "GST"
	BillTypeNonGST = "NON-GST"
)
