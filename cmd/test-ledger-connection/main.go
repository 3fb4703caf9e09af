package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Harshit2783/tally-integrated-pos-system/internal/domain/entity"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/domain/ledger"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/domain/reconcile"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/infrastructure/external/tally"
	"github.com/Harshit2783/tally-integrated-pos-system/pkg/utils"
)

func main() {
	endpoint := flag.String("endpoint", "", "Ledger endpoint URL (or set TALLY_URL env var)")
	company := flag.String("company", "", "Company name (or set TALLY_COMPANY env var)")
	report := flag.String("report", string(ledger.ReportGodownList), "Report kind: stock-summary, price-list or godown-list")
	timeout := flag.Duration("timeout", 30*time.Second, "Request timeout")
	asJSON := flag.Bool("json", false, "Print records as JSON")
	dumpRequest := flag.Bool("dump-request", false, "Print the request document and exit")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	var logger *zap.Logger
	var err error
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger = zap.NewNop()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *endpoint == "" {
		*endpoint = os.Getenv("TALLY_URL")
	}
	if *company == "" {
		*company = os.Getenv("TALLY_COMPANY")
	}

	kind, err := ledger.ParseReportKind(*report)
	if err != nil {
		fail(err)
	}
	if err := utils.ValidateCompanyName(*company); err != nil {
		fmt.Fprintf(os.Stderr, "Usage: test-ledger-connection --endpoint http://host:9000 --company <name> [--report godown-list]\n")
		fail(err)
	}

	if *dumpRequest {
		body, err := ledger.BuildExportRequest(kind, *company, ledger.DefaultOptions(kind))
		if err != nil {
			fail(err)
		}
		fmt.Println(body)
		return
	}

	if err := utils.ValidateEndpoint(*endpoint); err != nil {
		fail(err)
	}

	fmt.Println("=== Ledger Connection Test ===")
	fmt.Printf("  Endpoint: %s\n", *endpoint)
	fmt.Printf("  Company:  %s\n", *company)
	fmt.Printf("  Report:   %s (%s, layout %s)\n\n", kind, kind.ReportName(), ledger.LayoutVersion(kind))

	client := tally.NewClient(tally.ClientConfig{Endpoint: *endpoint, Timeout: *timeout}, logger)
	gateway := tally.NewGateway(client, logger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	start := time.Now()
	tree, err := gateway.FetchReport(ctx, kind, *company)
	if err != nil {
		fail(err)
	}
	fmt.Printf("✓ Report fetched in %s: %d names, %d info blocks, %d godown labels\n\n",
		time.Since(start).Round(time.Millisecond), len(tree.Names), len(tree.InfoBlocks), len(tree.GodownLabels))

	result := reconcile.Reconcile(tree, *company)

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			fail(err)
		}
		return
	}

	for _, item := range result.Items {
		printItem(item)
	}

	fmt.Printf("\n%d records, %d warnings\n", len(result.Items), len(result.Warnings))
	for _, w := range result.Warnings {
		fmt.Printf("  ! %s %s: %s\n", w.Code, w.ItemName, w.Message)
	}
}

func printItem(item entity.StockItem) {
	fmt.Printf("%-40s qty %s %s", item.Name, item.TotalQuantity, item.Unit)
	if item.Priced {
		fmt.Printf("  MRP %s", item.MRP)
		if item.HasGST() {
			fmt.Printf("  GST %s%%  HSN %s", item.GSTPercentage, item.HSNCode)
			if item.HSNCode != "" && !utils.IsValidHSN(item.HSNCode) {
				fmt.Print(" (malformed)")
			}
		}
	}
	fmt.Println()
	for _, g := range item.Godowns {
		fmt.Printf("    %-36s %s\n", g.GodownName, g.Quantity)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
	os.Exit(1)
}
