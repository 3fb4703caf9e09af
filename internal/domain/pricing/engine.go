// Package pricing implements GST, MRP and discount arithmetic for sale lines
// and bills. Amounts are kept at full precision; rounding happens once, on
// the bill total.
package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Computation is the priced breakdown of one base amount
type Computation struct {
	BaseAmount         decimal.Decimal `json:"baseAmount"`
	DiscountAmount     decimal.Decimal `json:"discountAmount"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
	TaxableAmount      decimal.Decimal `json:"taxableAmount"`
	GSTAmount          decimal.Decimal `json:"gstAmount"`
	Total              decimal.Decimal `json:"total"`
}

// ExclusiveFromMRP strips GST from a tax-inclusive price
func ExclusiveFromMRP(mrp, gstRate decimal.Decimal) (decimal.Decimal, error) {
	if gstRate.IsNegative() {
		return decimal.Zero, invalid("gstRate", "must not be negative")
	}
	return mrp.Mul(hundred).Div(hundred.Add(gstRate)), nil
}

// MRPFromExclusive adds GST to a tax-exclusive cost
func MRPFromExclusive(cost, gstRate decimal.Decimal) (decimal.Decimal, error) {
	if gstRate.IsNegative() {
		return decimal.Zero, invalid("gstRate", "must not be negative")
	}
	return cost.Add(cost.Mul(gstRate).Div(hundred)), nil
}

// FinalPrice applies a discount to base and GST to what remains.
// A percentage discount is a share of base; otherwise discount is an amount.
func FinalPrice(base, gstRate, discount decimal.Decimal, isPercentage bool) (Computation, error) {
	switch {
	case base.IsNegative():
		return Computation{}, invalid("baseAmount", "must not be negative")
	case gstRate.IsNegative():
		return Computation{}, invalid("gstRate", "must not be negative")
	case discount.IsNegative():
		return Computation{}, invalid("discount", "must not be negative")
	case isPercentage && discount.GreaterThan(hundred):
		return Computation{}, invalid("discount", "percentage must not exceed 100")
	case !isPercentage && discount.GreaterThan(base):
		return Computation{}, invalid("discount", "amount must not exceed the base amount")
	}

	var discountAmount, discountPct decimal.Decimal
	if isPercentage {
		discountPct = discount
		discountAmount = base.Mul(discount).Div(hundred)
	} else {
		discountAmount = discount
		if base.IsPositive() {
			discountPct = discount.Div(base).Mul(hundred)
		}
	}

	taxable := base.Sub(discountAmount)
	gst := taxable.Mul(gstRate).Div(hundred)

	return Computation{
		BaseAmount:         base,
		DiscountAmount:     discountAmount,
		DiscountPercentage: discountPct,
		TaxableAmount:      taxable,
		GSTAmount:          gst,
		Total:              taxable.Add(gst),
	}, nil
}

// LineInput describes a sale line. ExclusiveRate wins over MRP when both
// are set.
type LineInput struct {
	ItemName             string          `json:"itemName"`
	Quantity             decimal.Decimal `json:"quantity"`
	MRP                  decimal.Decimal `json:"mrp"`
	ExclusiveRate        decimal.Decimal `json:"exclusiveRate"`
	GSTRate              decimal.Decimal `json:"gstRate"`
	Discount             decimal.Decimal `json:"discount"`
	DiscountIsPercentage bool            `json:"discountIsPercentage"`
}

// Line is a priced sale line
type Line struct {
	ItemName      string          `json:"itemName"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitExclusive decimal.Decimal `json:"unitExclusive"`
	GSTRate       decimal.Decimal `json:"gstRate"`
	Computation
}

// ComputeLine prices quantity units of an item
func ComputeLine(in LineInput) (Line, error) {
	if !in.Quantity.IsPositive() {
		return Line{}, invalid("quantity", "must be greater than zero")
	}
	if in.MRP.IsNegative() || in.ExclusiveRate.IsNegative() {
		return Line{}, invalid("rate", "must not be negative")
	}

	unit := in.ExclusiveRate
	if !unit.IsPositive() {
		if !in.MRP.IsPositive() {
			return Line{}, invalid("rate", "either MRP or exclusive rate is required")
		}
		var err error
		unit, err = ExclusiveFromMRP(in.MRP, in.GSTRate)
		if err != nil {
			return Line{}, err
		}
	}

	comp, err := FinalPrice(unit.Mul(in.Quantity), in.GSTRate, in.Discount, in.DiscountIsPercentage)
	if err != nil {
		return Line{}, err
	}

	return Line{
		ItemName:      in.ItemName,
		Quantity:      in.Quantity,
		UnitExclusive: unit,
		GSTRate:       in.GSTRate,
		Computation:   comp,
	}, nil
}
