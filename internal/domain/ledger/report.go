// Package ledger describes the export protocol of the ledger system:
// which reports can be requested, how a request document is built and how
// the flat report it returns is split into names, info blocks and godowns.
package ledger

import "fmt"

// ReportKind identifies an export report of the ledger system
type ReportKind string

const (
	ReportStockSummary ReportKind = "stock-summary"
	ReportPriceList    ReportKind = "price-list"
	ReportGodownList   ReportKind = "godown-list"
)

var reportNames = map[ReportKind]string{
	ReportStockSummary: "Stock Item-Wise Summary",
	ReportPriceList:    "Price List",
	ReportGodownList:   "Godown Summary",
}

// String returns the string representation of the report kind
func (k ReportKind) String() string {
	return string(k)
}

// IsValid returns true if the kind is a known report
func (k ReportKind) IsValid() bool {
	_, ok := reportNames[k]
	return ok
}

// ReportName returns the report name the ledger system expects
func (k ReportKind) ReportName() string {
	return reportNames[k]
}

// ParseReportKind converts a string into a known report kind
func ParseReportKind(s string) (ReportKind, error) {
	k := ReportKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownReportKind, s)
	}
	return k, nil
}

// Layout names the envelope fields a report's rows are spread over.
// The static variables sent with a request decide which rows come back, so
// a layout is only valid together with the Options it was built for.
type Layout struct {
	Version   string
	NamesKey  string
	NameField string
	InfoKey   string
	GodownKey string
}

// stockLayout is shared by every report requested with item-wise,
// quantity-detailed rows.
var stockLayout = Layout{
	Version:   "dsp-v2",
	NamesKey:  "DSPACCNAME",
	NameField: "DSPDISPNAME",
	InfoKey:   "DSPSTKINFO",
	GodownKey: "DSPGODOWNNAME",
}

// Layout returns the row layout the decoder must use for this report
func (k ReportKind) Layout() Layout {
	return stockLayout
}

// LayoutVersion returns the tag of the row layout a request of this kind
// produces. Requests and decoders must agree on it.
func LayoutVersion(kind ReportKind) string {
	return kind.Layout().Version
}

// Options are the recognized static-variable toggles of an export request
type Options struct {
	ExplodeFlag          bool
	IsDetailedByQuantity bool
	ShowProfitFlag       bool
	IsItemWise           bool
	DSPPrimaryGroup      bool
}

// DefaultOptions returns the toggles each report kind is parsed with
func DefaultOptions(kind ReportKind) Options {
	switch kind {
	case ReportGodownList:
		return Options{
			ExplodeFlag:          true,
			IsDetailedByQuantity: true,
			ShowProfitFlag:       true,
			IsItemWise:           true,
		}
	case ReportPriceList:
		return Options{
			IsItemWise: true,
		}
	default:
		return Options{
			ExplodeFlag:          true,
			IsDetailedByQuantity: true,
			ShowProfitFlag:       true,
		}
	}
}

// staticVariables renders the toggles in the fixed order they are sent
func (o Options) staticVariables() [][2]string {
	return [][2]string{
		{"EXPLODEFLAG", yesNo(o.ExplodeFlag)},
		{"ISDETAILEDBYQUANTITY", yesNo(o.IsDetailedByQuantity)},
		{"SHOWPROFITFLAG", yesNo(o.ShowProfitFlag)},
		{"ISITEMWISE", yesNo(o.IsItemWise)},
		{"DSPPRIMARYGROUP", yesNo(o.DSPPrimaryGroup)},
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
