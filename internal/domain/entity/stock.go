package entity

import "github.com/shopspring/decimal"

// UnknownGodown labels a godown row whose name could not be paired
const UnknownGodown = "Unknown"

// GodownAllocation is the quantity of an item held in one godown
type GodownAllocation struct {
	GodownName string          `json:"name"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// StockItem is one reconciled stock record from the ledger system.
// Records have no identity beyond Name and are replaced wholesale on the
// next synchronization.
type StockItem struct {
	Name          string             `json:"itemName"`
	HSNCode       string             `json:"HSN,omitempty"`
	GSTPercentage decimal.Decimal    `json:"GST"`
	MRP           decimal.Decimal    `json:"MRP"`
	ExclusiveRate decimal.Decimal    `json:"rate"`
	RateAfterGST  decimal.Decimal    `json:"rateAfterGST"`
	TotalQuantity decimal.Decimal    `json:"totalQuantity"`
	Unit          string             `json:"unit,omitempty"`
	CompanyName   string             `json:"company"`
	Godowns       []GodownAllocation `json:"godown"`
	Priced        bool               `json:"priced"`
}

// AllocatedQuantity sums the per-godown quantities
func (s StockItem) AllocatedQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, g := range s.Godowns {
		total = total.Add(g.Quantity)
	}
	return total
}

// HasGST reports whether the item is billed with a non-zero GST rate
func (s StockItem) HasGST() bool {
	return s.GSTPercentage.IsPositive()
}

// ClearPricing returns a copy of the item with every pricing field zeroed
func (s StockItem) ClearPricing() StockItem {
	s.HSNCode = ""
	s.GSTPercentage = decimal.Zero
	s.MRP = decimal.Zero
	s.ExclusiveRate = decimal.Zero
	s.RateAfterGST = decimal.Zero
	s.Priced = false
	return s
}
