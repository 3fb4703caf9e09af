package pricing

import "github.com/shopspring/decimal"

// Totals summarizes the lines of one bill
type Totals struct {
	LineCount      int             `json:"lineCount"`
	TotalQuantity  decimal.Decimal `json:"totalQuantity"`
	TotalExclusive decimal.Decimal `json:"totalExclusive"`
	TotalDiscount  decimal.Decimal `json:"totalDiscount"`
	TotalTaxable   decimal.Decimal `json:"totalTaxable"`
	TotalGST       decimal.Decimal `json:"totalGST"`
	RawTotal       decimal.Decimal `json:"rawTotal"`
	RoundOff       decimal.Decimal `json:"roundOff"`
	RoundedTotal   decimal.Decimal `json:"roundedTotal"`
	AmountInWords  string          `json:"amountInWords"`
}

// BillTotals sums full-precision line amounts and rounds the result once
// to whole rupees. RoundedTotal - RawTotal == RoundOff.
func BillTotals(lines []Line) Totals {
	t := Totals{
		LineCount:      len(lines),
		TotalQuantity:  decimal.Zero,
		TotalExclusive: decimal.Zero,
		TotalDiscount:  decimal.Zero,
		TotalTaxable:   decimal.Zero,
		TotalGST:       decimal.Zero,
		RawTotal:       decimal.Zero,
	}

	for _, l := range lines {
		t.TotalQuantity = t.TotalQuantity.Add(l.Quantity)
		t.TotalExclusive = t.TotalExclusive.Add(l.BaseAmount)
		t.TotalDiscount = t.TotalDiscount.Add(l.DiscountAmount)
		t.TotalTaxable = t.TotalTaxable.Add(l.TaxableAmount)
		t.TotalGST = t.TotalGST.Add(l.GSTAmount)
		t.RawTotal = t.RawTotal.Add(l.Total)
	}

	t.RoundedTotal = t.RawTotal.Round(0)
	t.RoundOff = t.RoundedTotal.Sub(t.RawTotal)
	t.AmountInWords = AmountInWords(t.RoundedTotal)
	return t
}

// CurrencyPlaces is the precision amounts are printed with
const CurrencyPlaces = 2

// ForDisplay returns the totals with every amount rounded to paise.
// RoundOff is recomputed from the rounded RawTotal so the printed figures
// still add up to RoundedTotal.
func (t Totals) ForDisplay() Totals {
	t.TotalQuantity = t.TotalQuantity.Round(CurrencyPlaces)
	t.TotalExclusive = t.TotalExclusive.Round(CurrencyPlaces)
	t.TotalDiscount = t.TotalDiscount.Round(CurrencyPlaces)
	t.TotalTaxable = t.TotalTaxable.Round(CurrencyPlaces)
	t.TotalGST = t.TotalGST.Round(CurrencyPlaces)
	t.RawTotal = t.RawTotal.Round(CurrencyPlaces)
	t.RoundOff = t.RoundedTotal.Sub(t.RawTotal)
	return t
}

// ForDisplay returns the line with its amounts rounded to paise
func (l Line) ForDisplay() Line {
	l.UnitExclusive = l.UnitExclusive.Round(CurrencyPlaces)
	l.BaseAmount = l.BaseAmount.Round(CurrencyPlaces)
	l.DiscountAmount = l.DiscountAmount.Round(CurrencyPlaces)
	l.DiscountPercentage = l.DiscountPercentage.Round(CurrencyPlaces)
	l.TaxableAmount = l.TaxableAmount.Round(CurrencyPlaces)
	l.GSTAmount = l.GSTAmount.Round(CurrencyPlaces)
	l.Total = l.Total.Round(CurrencyPlaces)
	return l
}
