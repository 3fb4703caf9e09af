package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Harshit2783/tally-integrated-pos-system/internal/domain/entity"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/domain/event"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/domain/pricing"
)

var (
	// ErrItemNotFound is returned when the item is not in the latest snapshot
	ErrItemNotFound = errors.New("item not found in stock")
	// ErrInsufficientStock is returned when a line asks for more than is held
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrMissingHSN is returned when a GST-billed item has no HSN code
	ErrMissingHSN = errors.New("GST item has no HSN code")
)

// LineRequest asks for one priced bill line. Nil overrides fall back to the
// item's synced values.
type LineRequest struct {
	ItemName             string           `json:"itemName" binding:"required"`
	Quantity             decimal.Decimal  `json:"quantity"`
	MRP                  *decimal.Decimal `json:"mrp,omitempty"`
	ExclusiveRate        *decimal.Decimal `json:"exclusiveRate,omitempty"`
	GSTRate              *decimal.Decimal `json:"gstRate,omitempty"`
	Discount             decimal.Decimal  `json:"discount"`
	DiscountIsPercentage bool             `json:"discountIsPercentage"`
}

// PricedLine is a bill line together with the stock it was priced from
type PricedLine struct {
	pricing.Line
	HSNCode   string          `json:"hsn,omitempty"`
	Available decimal.Decimal `json:"available"`
	BillType  string          `json:"billType"`
}

// BillingService prices sale lines against the synced stock
type BillingService interface {
	PriceLine(ctx context.Context, company string, req LineRequest) (*PricedLine, error)
	PriceBill(ctx context.Context, company string, reqs []LineRequest) ([]*PricedLine, error)
	Totals(ctx context.Context, company string, lines []pricing.Line) (pricing.Totals, error)
}

type billingServiceImpl struct {
	stock  StockSyncService
	events EventPublisher
	logger Logger
}

// NewBillingService creates a new BillingService
func NewBillingService(stock StockSyncService, events EventPublisher, logger Logger) BillingService {
	return &billingServiceImpl{
		stock:  stock,
		events: events,
		logger: logger,
	}
}

// PriceLine prices req.Quantity units of an item held in the latest snapshot
func (s *billingServiceImpl) PriceLine(ctx context.Context, company string, req LineRequest) (*PricedLine, error) {
	snapshot, err := s.stock.Latest(ctx, company)
	if err != nil {
		return nil, err
	}
	return priceItem(snapshot, req, decimal.Zero)
}

// PriceBill prices every line of one bill against a single snapshot.
// Repeated items draw on the same stock, so their quantities are summed
// before the availability check.
func (s *billingServiceImpl) PriceBill(ctx context.Context, company string, reqs []LineRequest) ([]*PricedLine, error) {
	if len(reqs) == 0 {
		return nil, &pricing.ValidationError{Field: "lines", Reason: "a bill needs at least one line"}
	}

	snapshot, err := s.stock.Latest(ctx, company)
	if err != nil {
		return nil, err
	}

	requested := make(map[string]decimal.Decimal, len(reqs))
	lines := make([]*PricedLine, 0, len(reqs))
	for i, req := range reqs {
		line, err := priceItem(snapshot, req, requested[req.ItemName])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		requested[req.ItemName] = requested[req.ItemName].Add(req.Quantity)
		lines = append(lines, line)
	}
	return lines, nil
}

// priceItem prices req on top of alreadyBilled units of the same item
func priceItem(snapshot *entity.StockSnapshot, req LineRequest, alreadyBilled decimal.Decimal) (*PricedLine, error) {
	item, ok := snapshot.FindItem(req.ItemName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrItemNotFound, req.ItemName)
	}
	if want := alreadyBilled.Add(req.Quantity); want.GreaterThan(item.TotalQuantity) {
		return nil, fmt.Errorf("%w: %q has %s, requested %s",
			ErrInsufficientStock, item.Name, item.TotalQuantity, want)
	}

	input := lineInput(item, req)
	gst := input.GSTRate.IsPositive()
	if gst && item.HSNCode == "" {
		return nil, fmt.Errorf("%w: %q", ErrMissingHSN, item.Name)
	}

	line, err := pricing.ComputeLine(input)
	if err != nil {
		return nil, err
	}

	billType := entity.BillTypeNonGST
	if gst {
		billType = entity.BillTypeGST
	}

	return &PricedLine{
		Line:      line,
		HSNCode:   item.HSNCode,
		Available: item.TotalQuantity,
		BillType:  billType,
	}, nil
}

func lineInput(item entity.StockItem, req LineRequest) pricing.LineInput {
	in := pricing.LineInput{
		ItemName:             item.Name,
		Quantity:             req.Quantity,
		GSTRate:              item.GSTPercentage,
		Discount:             req.Discount,
		DiscountIsPercentage: req.DiscountIsPercentage,
	}
	if req.GSTRate != nil {
		in.GSTRate = *req.GSTRate
	}

	switch {
	case req.ExclusiveRate != nil:
		in.ExclusiveRate = *req.ExclusiveRate
	case req.MRP != nil:
		in.MRP = *req.MRP
	case item.MRP.IsPositive():
		in.MRP = item.MRP
	default:
		in.ExclusiveRate = item.ExclusiveRate
	}
	return in
}

// Totals rounds the bill once and announces it
func (s *billingServiceImpl) Totals(ctx context.Context, company string, lines []pricing.Line) (pricing.Totals, error) {
	if len(lines) == 0 {
		return pricing.Totals{}, &pricing.ValidationError{Field: "lines", Reason: "a bill needs at least one line"}
	}

	totals := pricing.BillTotals(lines)

	s.events.DispatchAsync(ctx, event.NewEvent(event.TypeBillTotaled, company, map[string]interface{}{
		event.KeyLineCount:    totals.LineCount,
		event.KeyRoundedTotal: totals.RoundedTotal.String(),
	}))
	s.logger.Info("Bill totaled", "company", company, "lines", totals.LineCount, "total", totals.RoundedTotal.String())

	return totals, nil
}
