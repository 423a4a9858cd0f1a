package export

import (
	"os"
	"testing"

	"alfares-pricing/internal/pricing"
	"alfares-pricing/internal/storage"

	"go.uber.org/zap"
)

func testResolver() *pricing.Resolver {
	table := pricing.NewTable([]pricing.PriceRow{
		{
			Level:    "A",
			Size:     "13x5",
			Customer: pricing.TierStandard,
			Cells: map[pricing.PeriodBucket]string{
				pricing.BucketMonth1: "3500",
			},
		},
	})
	return pricing.NewResolver(table, nil)
}

func TestQuoteWorkbook(t *testing.T) {
	e := NewExporter(testResolver(), t.TempDir(), zap.NewNop())

	items := []storage.Billboard{
		{Name: "TR-0001", City: "طرابلس", Size: "13x5", Level: "A", Faces: 2},
		{Name: "TR-0002", City: "بنغازي", Size: "10x4", Level: "C", Faces: 1},
	}

	f, err := e.QuoteWorkbook(items, pricing.TierStandard, 1)
	if err != nil {
		t.Fatalf("QuoteWorkbook failed: %v", err)
	}
	defer f.Close()

	if got, _ := f.GetCellValue("Quote", "A2"); got != "TR-0001" {
		t.Errorf("A2 = %q, want TR-0001", got)
	}
	if got, _ := f.GetCellValue("Quote", "H2"); got != "3500" {
		t.Errorf("H2 = %q, want 3500", got)
	}
	// Unpriced billboard leaves the cell empty.
	if got, _ := f.GetCellValue("Quote", "H3"); got != "" {
		t.Errorf("H3 = %q, want empty", got)
	}
	if got, _ := f.GetCellValue("Quote", "A4"); got != "Total" {
		t.Errorf("A4 = %q, want Total", got)
	}
	if got, _ := f.GetCellValue("Quote", "H4"); got != "3500" {
		t.Errorf("H4 = %q, want 3500", got)
	}
}

func TestQuoteWorkbookRejectsUnknownPeriod(t *testing.T) {
	e := NewExporter(testResolver(), t.TempDir(), zap.NewNop())
	if _, err := e.QuoteWorkbook(nil, pricing.TierStandard, 7); err == nil {
		t.Error("Expected error for a seven month period, got nil")
	}
}

func TestSaveQuote(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(testResolver(), dir, zap.NewNop())

	path, err := e.SaveQuote([]storage.Billboard{
		{Name: "TR-0001", Size: "13x5", Level: "A"},
	}, pricing.TierStandard, 1)
	if err != nil {
		t.Fatalf("SaveQuote failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Saved workbook missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Saved workbook is empty")
	}
}
