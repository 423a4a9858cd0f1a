// Package export writes quote workbooks for admins and reads the authoring
// workbook (billboards + base price table) the sales team maintains.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"alfares-pricing/internal/pricing"
	"alfares-pricing/internal/storage"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type Exporter struct {
	resolver   *pricing.Resolver
	reportsDir string
	logger     *zap.Logger
}

func NewExporter(resolver *pricing.Resolver, reportsDir string, logger *zap.Logger) *Exporter {
	return &Exporter{resolver: resolver, reportsDir: reportsDir, logger: logger}
}

// QuoteWorkbook builds one quote sheet: a row per billboard with its
// resolved unit price, then a totals row. Unknown prices leave the cell
// empty, mirroring the "—" the UI shows.
func (e *Exporter) QuoteWorkbook(items []storage.Billboard, customer pricing.CustomerTier, months int) (*excelize.File, error) {
	bucket, ok := pricing.BucketForMonths(months)
	if !ok {
		return nil, fmt.Errorf("no rental period for %d months", months)
	}

	f := excelize.NewFile()

	const sheet = "Quote"
	index, err := f.NewSheet(sheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")

	headers := []string{
		"Billboard", "City", "District", "Landmark",
		"Size", "Level", "Faces", "Unit Price",
	}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	var quoteItems []pricing.Item
	for row, b := range items {
		data := []interface{}{
			b.Name, b.City, b.District, b.Landmark,
			b.Size, b.Level, b.Faces,
		}
		if unit, known := e.resolver.Resolve(b.Level, b.Size, customer, bucket); known {
			data = append(data, unit)
		} else {
			data = append(data, "")
		}
		for col, value := range data {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
		quoteItems = append(quoteItems, pricing.Item{Level: b.Level, Size: b.Size})
	}

	totalRow := len(items) + 2
	f.SetCellValue(sheet, fmt.Sprintf("A%d", totalRow), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("H%d", totalRow),
		e.resolver.Total(quoteItems, customer, bucket))
	f.SetCellValue(sheet, fmt.Sprintf("B%d", totalRow+1), "Customer")
	f.SetCellValue(sheet, fmt.Sprintf("C%d", totalRow+1), string(customer))
	f.SetCellValue(sheet, fmt.Sprintf("B%d", totalRow+2), "Months")
	f.SetCellValue(sheet, fmt.Sprintf("C%d", totalRow+2), months)

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	f.SetCellStyle(sheet, "A1", "H1", style)
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("H%d", totalRow), style)

	f.SetActiveSheet(index)
	return f, nil
}

// SaveQuote writes the quote workbook into the reports directory and
// returns its path, for attaching to admin notifications.
func (e *Exporter) SaveQuote(items []storage.Billboard, customer pricing.CustomerTier, months int) (string, error) {
	f, err := e.QuoteWorkbook(items, customer, months)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := os.MkdirAll(e.reportsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	filename := fmt.Sprintf("quote_%s.xlsx", time.Now().Format("20060102_150405"))
	path := filepath.Join(e.reportsDir, filename)

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save Excel file: %w", err)
	}
	return path, nil
}

// ImportResult carries everything read from an authoring workbook.
type ImportResult struct {
	Billboards []storage.Billboard
	PriceRows  []storage.PriceRowRecord
}

// ReadWorkbook parses the authoring workbook. The "Billboards" sheet lists
// the inventory, "Prices" carries the base price table with one column per
// period; price cells are taken verbatim (the engine normalizes later).
func ReadWorkbook(path string) (*ImportResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	result := &ImportResult{}

	boardRows, err := f.GetRows("Billboards")
	if err != nil {
		return nil, fmt.Errorf("failed to read Billboards sheet: %w", err)
	}
	for i, row := range boardRows {
		if i == 0 {
			continue // header
		}
		name := cell(row, 0)
		if name == "" {
			continue
		}
		faces := 2
		if n, err := strconv.Atoi(cell(row, 7)); err == nil && n > 0 {
			faces = n
		}
		status := cell(row, 11)
		if status == "" {
			status = "available"
		}
		result.Billboards = append(result.Billboards, storage.Billboard{
			Name:         name,
			City:         cell(row, 1),
			Municipality: cell(row, 2),
			District:     cell(row, 3),
			Landmark:     cell(row, 4),
			Size:         cell(row, 5),
			Level:        cell(row, 6),
			Faces:        faces,
			Coordinates:  cell(row, 8),
			GPSLink:      cell(row, 9),
			ImageURL:     cell(row, 10),
			Status:       status,
		})
	}

	priceRows, err := f.GetRows("Prices")
	if err != nil {
		return nil, fmt.Errorf("failed to read Prices sheet: %w", err)
	}
	for i, row := range priceRows {
		if i == 0 {
			continue // header
		}
		level := cell(row, 0)
		size := cell(row, 1)
		customer := cell(row, 2)
		if level == "" || size == "" || customer == "" {
			continue
		}
		result.PriceRows = append(result.PriceRows, storage.PriceRowRecord{
			Level:       level,
			Size:        size,
			Customer:    customer,
			PriceMonth1: cell(row, 3),
			PriceMonth2: cell(row, 4),
			PriceMonth3: cell(row, 5),
			PriceMonth6: cell(row, 6),
			PriceYear:   cell(row, 7),
			PriceDay:    cell(row, 8),
		})
	}

	return result, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
