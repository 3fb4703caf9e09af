package entity

import "time"

// SyncRun records one stock synchronization attempt against the ledger system
type SyncRun struct {
	ID           string     `json:"id"`
	CompanyName  string     `json:"company"`
	Status       string     `json:"status"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	ItemCount    int        `json:"item_count"`
	WarningCount int        `json:"warning_count"`
	ErrorMessage string     `json:"error,omitempty"`
}

// IsFinished reports whether the run reached a terminal status
func (r *SyncRun) IsFinished() bool {
	return r.Status == SyncStatusCompleted || r.Status == SyncStatusFailed
}

// SyncWarning is a non-fatal irregularity found while reconciling a report
type SyncWarning struct {
	Source   string `json:"source"`
	Code     string `json:"code"`
	ItemName string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// StockSnapshot is the unified stock table produced by one completed run
type StockSnapshot struct {
	Run      SyncRun       `json:"run"`
	Items    []StockItem   `json:"items"`
	Warnings []SyncWarning `json:"warnings"`
}

// FindItem returns the first item with the exact given name
func (s *StockSnapshot) FindItem(name string) (StockItem, bool) {
	for _, item := range s.Items {
		if item.Name == name {
			return item, true
		}
	}
	return StockItem{}, false
}
