package reconcile

// WarningCode classifies a non-fatal irregularity in a report
type WarningCode string

const (
	WarningMissingHeader         WarningCode = "MISSING_HEADER"
	WarningInfoExhausted         WarningCode = "INFO_EXHAUSTED"
	WarningGodownLabelsExhausted WarningCode = "GODOWN_LABELS_EXHAUSTED"
	WarningTrailingBlocks        WarningCode = "TRAILING_BLOCKS"
	WarningUnusedGodownLabels    WarningCode = "UNUSED_GODOWN_LABELS"
	WarningAllocationMismatch    WarningCode = "ALLOCATION_MISMATCH"
	WarningDuplicateName         WarningCode = "DUPLICATE_NAME"
	WarningScannerState          WarningCode = "SCANNER_STATE"
)

// Warning describes input that was reconciled on a best-effort basis.
// ItemName is empty for report-level warnings.
type Warning struct {
	Code     WarningCode `json:"code"`
	ItemName string      `json:"item,omitempty"`
	Message  string      `json:"message"`
}
