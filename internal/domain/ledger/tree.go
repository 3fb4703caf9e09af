package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Node is a decoded markup value: map[string]any for elements with children,
// []any for repeated siblings, string for text-only elements.
type Node = any

// textKey holds the character data of an element that also has children
const textKey = "_"

const (
	envelopeKey = "ENVELOPE"

	fieldClosing       = "DSPSTKCL"
	fieldQuantity      = "DSPCLQTY"
	fieldRate          = "DSPCLRATE"
	fieldAmount        = "DSPCLAMTA"
	fieldHSN           = "DSPHSNVAL"
	fieldGST           = "DSPGSTVAL"
	fieldGSTPercent    = "DSPGSTPERCVAL"
	fieldMRP           = "DSPMRPVAL"
	fieldRateAfterGST  = "DSPRATEAFTERGSTVAL"
	fieldValueAfterGST = "DSPVALAFTERGST"
	altGodownKey       = "GODOWNNAME"
)

// headerFields only ever appear on the first info block of an item
var headerFields = []string{fieldHSN, fieldGST, fieldMRP, fieldRateAfterGST}

// InfoBlock is one DSPSTKINFO entry of a report
type InfoBlock struct {
	IsHeader      bool
	Quantity      decimal.Decimal
	Unit          string
	Rate          decimal.Decimal
	Amount        decimal.Decimal
	HSN           string
	GSTPercent    decimal.Decimal
	MRP           decimal.Decimal
	RateAfterGST  decimal.Decimal
	ValueAfterGST decimal.Decimal
}

// RawReportTree holds the three independent sequences of a stock report.
// The only link between them is relative position.
type RawReportTree struct {
	Names        []string
	InfoBlocks   []InfoBlock
	GodownLabels []string
}

// AsList normalizes a value that may be absent, single or repeated
func AsList(v any) []any {
	switch t := v.(type) {
	case nil:
		return []any{}
	case []any:
		return t
	default:
		return []any{t}
	}
}

// Field walks nested elements by name. It returns nil when any step is
// missing. A repeated element along the path resolves to its first entry.
func Field(node any, path ...string) any {
	cur := node
	for _, key := range path {
		if list, ok := cur.([]any); ok {
			if len(list) == 0 {
				return nil
			}
			cur = list[0]
		}
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = m[key]
		if !ok {
			return nil
		}
	}
	return cur
}

// Text returns the trimmed character data of a value
func Text(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]any:
		return Text(t[textKey])
	case []any:
		if len(t) == 0 {
			return ""
		}
		return Text(t[0])
	default:
		return ""
	}
}

func hasField(node any, key string) bool {
	m, ok := node.(map[string]any)
	if !ok {
		return false
	}
	_, ok = m[key]
	return ok
}

// IsHeaderBlock reports whether an info block carries header-only fields
func IsHeaderBlock(node any) bool {
	for _, key := range headerFields {
		if hasField(node, key) {
			return true
		}
	}
	return false
}

// ParseInfoBlock reads the known fields of a DSPSTKINFO entry.
// Unparseable numbers read as zero.
func ParseInfoBlock(node any) InfoBlock {
	qty, unit := ParseQuantity(Text(Field(node, fieldClosing, fieldQuantity)))
	return InfoBlock{
		IsHeader:      IsHeaderBlock(node),
		Quantity:      qty,
		Unit:          unit,
		Rate:          ParseAmount(Text(Field(node, fieldClosing, fieldRate))),
		Amount:        ParseAmount(Text(Field(node, fieldClosing, fieldAmount))),
		HSN:           Text(Field(node, fieldHSN)),
		GSTPercent:    ParseAmount(Text(Field(node, fieldGST, fieldGSTPercent))),
		MRP:           ParseAmount(Text(Field(node, fieldMRP))),
		RateAfterGST:  ParseAmount(Text(Field(node, fieldRateAfterGST))),
		ValueAfterGST: ParseAmount(Text(Field(node, fieldValueAfterGST))),
	}
}

// ExtractStockReport splits a decoded stock report into its sequences
func ExtractStockReport(root any) RawReportTree {
	return ExtractReport(root, stockLayout)
}

// ExtractReport splits a decoded report using the given layout
func ExtractReport(root any, layout Layout) RawReportTree {
	env := Field(root, envelopeKey)

	names := AsList(Field(env, layout.NamesKey))
	infos := AsList(Field(env, layout.InfoKey))
	godowns := AsList(Field(env, layout.GodownKey))
	if len(godowns) == 0 {
		godowns = AsList(Field(env, altGodownKey))
	}

	tree := RawReportTree{
		Names:        make([]string, 0, len(names)),
		InfoBlocks:   make([]InfoBlock, 0, len(infos)),
		GodownLabels: make([]string, 0, len(godowns)),
	}
	for _, n := range names {
		tree.Names = append(tree.Names, labelText(n, layout.NameField))
	}
	for _, info := range infos {
		tree.InfoBlocks = append(tree.InfoBlocks, ParseInfoBlock(info))
	}
	for _, g := range godowns {
		tree.GodownLabels = append(tree.GodownLabels, labelText(g, layout.NameField))
	}
	return tree
}

// labelText accepts both <X>label</X> and <X><DSPDISPNAME>label</DSPDISPNAME></X>
func labelText(v any, field string) string {
	if _, ok := v.(map[string]any); ok && hasField(v, field) {
		return Text(Field(v, field))
	}
	return Text(v)
}
