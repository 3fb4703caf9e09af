// Package reconcile rebuilds per-item stock records from the flat lists of
// a ledger report and joins godown and price-list records by item name.
package reconcile

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Harshit2783/tally-integrated-pos-system/internal/domain/entity"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/domain/ledger"
)

// Result is the best-effort reconciliation of one report.
// Items always has one record per name of the report, in report order.
type Result struct {
	Items    []entity.StockItem
	Warnings []Warning
}

// HasWarnings reports whether any irregularity was found
func (r Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Reconcile walks the info blocks with an info cursor and the godown labels
// with an independent godown cursor. Each name takes one header block and
// every continuation block after it; each continuation takes the next
// godown label. Irregular input is recorded as warnings.
func Reconcile(tree ledger.RawReportTree, company string) Result {
	s := &scanner{
		tree:    tree,
		machine: scannerBuilder().Build(StateAwaitingItemHeader),
	}

	items := make([]entity.StockItem, 0, len(tree.Names))
	for _, name := range tree.Names {
		items = append(items, s.scanItem(name, company))
	}
	s.finish()

	return Result{
		Items:    items,
		Warnings: s.warnings,
	}
}

type scanner struct {
	tree     ledger.RawReportTree
	machine  StateMachine
	info     int
	godown   int
	warnings []Warning
}

func (s *scanner) scanItem(name, company string) entity.StockItem {
	item := newItem(name, company)

	if s.machine.State().IsTerminal() {
		s.warn(WarningInfoExhausted, name, "no info block left for item")
		return item
	}

	block, ok := s.peek()
	switch {
	case !ok:
		if !s.fire(TriggerExhausted, name) {
			return item
		}
		s.warn(WarningInfoExhausted, name, "no info block left for item")
		return item
	case block.IsHeader:
		if !s.fire(TriggerHeader, name) {
			return item
		}
		s.info++
		applyHeader(&item, block)
	default:
		// continuation rows are attributed to this item without totals
		if !s.fire(TriggerContinuation, name) {
			return item
		}
		s.warn(WarningMissingHeader, name, fmt.Sprintf("info block %d is not an item header", s.info))
	}

	for s.machine.State() == StateConsumingGodownRows {
		block, ok := s.peek()
		switch {
		case !ok:
			if !s.fire(TriggerExhausted, name) {
				return item
			}
		case block.IsHeader:
			if !s.fire(TriggerHeader, name) {
				return item
			}
		default:
			if !s.fire(TriggerContinuation, name) {
				return item
			}
			s.info++
			item.Godowns = append(item.Godowns, entity.GodownAllocation{
				GodownName: s.nextGodownLabel(name),
				Quantity:   block.Quantity,
			})
		}
	}

	if len(item.Godowns) > 0 {
		allocated := item.AllocatedQuantity()
		if !allocated.Equal(item.TotalQuantity) {
			s.warn(WarningAllocationMismatch, name,
				fmt.Sprintf("godown allocations sum to %s but total is %s", allocated, item.TotalQuantity))
		}
	}

	return item
}

func (s *scanner) finish() {
	if rest := len(s.tree.InfoBlocks) - s.info; rest > 0 {
		s.warn(WarningTrailingBlocks, "", fmt.Sprintf("%d info block(s) left after the last item", rest))
	}
	if rest := len(s.tree.GodownLabels) - s.godown; rest > 0 {
		s.warn(WarningUnusedGodownLabels, "", fmt.Sprintf("%d godown label(s) not paired with any row", rest))
	}
}

func (s *scanner) peek() (ledger.InfoBlock, bool) {
	if s.info >= len(s.tree.InfoBlocks) {
		return ledger.InfoBlock{}, false
	}
	return s.tree.InfoBlocks[s.info], true
}

func (s *scanner) nextGodownLabel(item string) string {
	if s.godown >= len(s.tree.GodownLabels) {
		s.warn(WarningGodownLabelsExhausted, item, "godown row has no label")
		return entity.UnknownGodown
	}
	label := s.tree.GodownLabels[s.godown]
	s.godown++
	return label
}

// fire records a rejected transition as a warning instead of failing
func (s *scanner) fire(trigger Trigger, item string) bool {
	if err := s.machine.Fire(trigger); err != nil {
		s.warn(WarningScannerState, item, err.Error())
		return false
	}
	return true
}

func (s *scanner) warn(code WarningCode, item, msg string) {
	s.warnings = append(s.warnings, Warning{Code: code, ItemName: item, Message: msg})
}

func newItem(name, company string) entity.StockItem {
	return entity.StockItem{
		Name:          name,
		CompanyName:   company,
		GSTPercentage: decimal.Zero,
		MRP:           decimal.Zero,
		ExclusiveRate: decimal.Zero,
		RateAfterGST:  decimal.Zero,
		TotalQuantity: decimal.Zero,
		Godowns:       []entity.GodownAllocation{},
	}
}

func applyHeader(item *entity.StockItem, block ledger.InfoBlock) {
	item.TotalQuantity = block.Quantity
	item.Unit = block.Unit
	item.ExclusiveRate = block.Rate
	item.HSNCode = block.HSN
	item.GSTPercentage = block.GSTPercent
	item.MRP = block.MRP
	item.RateAfterGST = block.RateAfterGST
	item.Priced = block.MRP.IsPositive() || block.RateAfterGST.IsPositive() || block.Rate.IsPositive()
}
