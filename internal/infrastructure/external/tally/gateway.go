package tally

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Harshit2783/tally-integrated-pos-system/internal/application/port"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/domain/ledger"
)

// Poster sends one request document and returns the raw response
type Poster interface {
	Post(ctx context.Context, body string) ([]byte, error)
}

// Gateway implements port.LedgerGateway on top of a Poster
type Gateway struct {
	client Poster
	logger *zap.Logger
}

// NewGateway creates a new ledger gateway
func NewGateway(client Poster, logger *zap.Logger) *Gateway {
	return &Gateway{
		client: client,
		logger: logger,
	}
}

// FetchReport builds the request for kind, posts it and decodes the reply
// into the report's flat lists
func (g *Gateway) FetchReport(ctx context.Context, kind ledger.ReportKind, company string) (ledger.RawReportTree, error) {
	body, err := ledger.BuildExportRequest(kind, company, ledger.DefaultOptions(kind))
	if err != nil {
		return ledger.RawReportTree{}, fmt.Errorf("failed to build %s request: %w", kind, err)
	}

	raw, err := g.client.Post(ctx, body)
	if err != nil {
		return ledger.RawReportTree{}, err
	}

	root, err := DecodeTree(raw)
	if err != nil {
		g.logger.Error("Failed to decode ledger report",
			zap.String("report", kind.String()),
			zap.String("company", company),
			zap.Int("bytes", len(raw)),
			zap.Error(err))
		return ledger.RawReportTree{}, err
	}

	tree := ledger.ExtractReport(root, kind.Layout())
	g.logger.Info("Fetched ledger report",
		zap.String("report", kind.String()),
		zap.String("company", company),
		zap.String("layout", ledger.LayoutVersion(kind)),
		zap.Int("names", len(tree.Names)),
		zap.Int("info_blocks", len(tree.InfoBlocks)),
		zap.Int("godown_labels", len(tree.GodownLabels)))

	return tree, nil
}

// Verify interface compliance
var _ port.LedgerGateway = (*Gateway)(nil)
