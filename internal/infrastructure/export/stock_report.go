// Package export renders stock snapshots as spreadsheets.
package export

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Harshit2783/tally-integrated-pos-system/internal/application/port"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/domain/entity"
)

const (
	SheetStock    = "Stock"
	SheetWarnings = "Warnings"
)

var stockHeader = []interface{}{
	"Item", "Godown", "HSN", "GST %", "MRP", "Rate", "Rate After GST", "Quantity", "Unit",
}

var warningHeader = []interface{}{"Source", "Code", "Item", "Message"}

// StockReportWriter writes one row per item followed by one row per godown
// allocation of that item
type StockReportWriter struct {
	logger *zap.Logger
}

// NewStockReportWriter creates a new stock report writer
func NewStockReportWriter(logger *zap.Logger) *StockReportWriter {
	return &StockReportWriter{logger: logger}
}

// Render returns the workbook as xlsx bytes
func (w *StockReportWriter) Render(snapshot *entity.StockSnapshot) ([]byte, error) {
	f, err := w.build(snapshot)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Write saves the workbook to path
func (w *StockReportWriter) Write(path string, snapshot *entity.StockSnapshot) error {
	f, err := w.build(snapshot)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	w.logger.Info("Stock report written",
		zap.String("path", path),
		zap.String("company", snapshot.Run.CompanyName),
		zap.Int("items", len(snapshot.Items)))
	return nil
}

func (w *StockReportWriter) build(snapshot *entity.StockSnapshot) (*excelize.File, error) {
	if snapshot == nil {
		return nil, fmt.Errorf("no snapshot to export")
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetStock); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetWarnings); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to add sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	if err := w.fillStock(f, snapshot.Items, bold); err != nil {
		f.Close()
		return nil, err
	}
	if err := w.fillWarnings(f, snapshot.Warnings, bold); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func (w *StockReportWriter) fillStock(f *excelize.File, items []entity.StockItem, headerStyle int) error {
	if err := writeRow(f, SheetStock, 1, stockHeader); err != nil {
		return err
	}
	if err := f.SetRowStyle(SheetStock, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	_ = f.SetColWidth(SheetStock, "A", "B", 32)

	row := 2
	for _, item := range items {
		values := []interface{}{
			item.Name, "", item.HSNCode,
			number(item.GSTPercentage), number(item.MRP), number(item.ExclusiveRate),
			number(item.RateAfterGST), number(item.TotalQuantity), item.Unit,
		}
		if err := writeRow(f, SheetStock, row, values); err != nil {
			return err
		}
		if err := f.SetRowStyle(SheetStock, row, row, headerStyle); err != nil {
			return fmt.Errorf("failed to style item row: %w", err)
		}
		row++

		for _, g := range item.Godowns {
			values := []interface{}{item.Name, g.GodownName, "", "", "", "", "", number(g.Quantity), item.Unit}
			if err := writeRow(f, SheetStock, row, values); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func (w *StockReportWriter) fillWarnings(f *excelize.File, warnings []entity.SyncWarning, headerStyle int) error {
	if err := writeRow(f, SheetWarnings, 1, warningHeader); err != nil {
		return err
	}
	if err := f.SetRowStyle(SheetWarnings, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, warning := range warnings {
		values := []interface{}{warning.Source, warning.Code, warning.ItemName, warning.Message}
		if err := writeRow(f, SheetWarnings, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}

// number keeps spreadsheet cells numeric; values are display-only
func number(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// Verify interface compliance
var _ port.ReportExporter = (*StockReportWriter)(nil)
