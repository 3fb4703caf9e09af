package port

import (
	"context"

	"github.com/Harshit2783/tally-integrated-pos-system/internal/domain/ledger"
)

// LedgerGateway fetches and decodes one report from the ledger system.
// Failures are *ledger.NetworkError or *ledger.ParseError.
type LedgerGateway interface {
	FetchReport(ctx context.Context, kind ledger.ReportKind, company string) (ledger.RawReportTree, error)
}
