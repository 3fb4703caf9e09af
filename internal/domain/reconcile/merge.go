package reconcile

import "github.com/Harshit2783/tally-integrated-pos-system/internal/domain/entity"

// Merge left-joins godown records with price-list records on the exact item
// name. Quantities and allocations come from the godown side, pricing from
// the first price-list record with the same name. Godown records without a
// match carry no pricing; unmatched price-list records are dropped.
func Merge(godownRecords, priceListRecords []entity.StockItem) []entity.StockItem {
	prices := make(map[string]entity.StockItem, len(priceListRecords))
	for _, p := range priceListRecords {
		if _, seen := prices[p.Name]; !seen {
			prices[p.Name] = p
		}
	}

	merged := make([]entity.StockItem, 0, len(godownRecords))
	for _, g := range godownRecords {
		item := g.ClearPricing()
		if p, ok := prices[g.Name]; ok {
			item.HSNCode = p.HSNCode
			item.GSTPercentage = p.GSTPercentage
			item.MRP = p.MRP
			item.ExclusiveRate = p.ExclusiveRate
			item.RateAfterGST = p.RateAfterGST
			item.Priced = true
		}
		merged = append(merged, item)
	}
	return merged
}

// DuplicateNames returns every name that occurs more than once, in order of
// its second occurrence
func DuplicateNames(records []entity.StockItem) []string {
	seen := make(map[string]int, len(records))
	var dups []string
	for _, r := range records {
		seen[r.Name]++
		if seen[r.Name] == 2 {
			dups = append(dups, r.Name)
		}
	}
	return dups
}

// DuplicateWarnings turns repeated names into warnings
func DuplicateWarnings(records []entity.StockItem) []Warning {
	dups := DuplicateNames(records)
	warnings := make([]Warning, 0, len(dups))
	for _, name := range dups {
		warnings = append(warnings, Warning{
			Code:     WarningDuplicateName,
			ItemName: name,
			Message:  "item name is not unique; the first record wins when joining",
		})
	}
	return warnings
}
