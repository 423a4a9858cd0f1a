package documents

import (
	"strings"
	"testing"
	"time"

	"alfares-pricing/internal/pricing"
	"alfares-pricing/internal/storage"
)

func testBuilder() *Builder {
	table := pricing.NewTable([]pricing.PriceRow{
		{
			Level:    "A",
			Size:     "13x5",
			Customer: pricing.TierStandard,
			Cells: map[pricing.PeriodBucket]string{
				pricing.BucketMonth1: "3500",
				pricing.BucketMonth3: "9000",
			},
		},
	})
	return NewBuilder(pricing.NewResolver(table, nil), CompanyInfo{
		Name:           "شركة الفارس الذهبي للدعاية والإعلان",
		Address:        "طرابلس",
		Representative: "المدير العام",
		IBAN:           "LY15014051021405100053401",
	})
}

func testBillboards() []storage.Billboard {
	return []storage.Billboard{
		{
			ID:           1,
			Name:         "TR-0042",
			City:         "طرابلس",
			Municipality: "حي الأندلس",
			Landmark:     "بجوار جزيرة الفرناج",
			Size:         "13x5",
			Level:        "A",
			Faces:        2,
			Coordinates:  "32.8752,13.1875",
			Status:       "available",
		},
	}
}

func TestOffer(t *testing.T) {
	b := testBuilder()

	html, err := b.Offer(testBillboards(), OfferMeta{
		Months:         3,
		ContractNumber: "2026-0042",
		Date:           time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Offer failed: %v", err)
	}

	for _, want := range []string{
		"TR-0042",
		"2026-0042",
		"شركة الفارس الذهبي",
		"LY15014051021405100053401",
		"2026/09/01", // start date
		"2026/12/01", // end after three months
	} {
		if !strings.Contains(html, want) {
			t.Errorf("Offer output missing %q", want)
		}
	}
}

func TestOfferRejectsUnknownPeriod(t *testing.T) {
	b := testBuilder()
	if _, err := b.Offer(testBillboards(), OfferMeta{Months: 5}); err == nil {
		t.Error("Expected error for a five month period, got nil")
	}
}

func TestInvoice(t *testing.T) {
	b := testBuilder()

	html, err := b.Invoice(testBillboards(), InvoiceMeta{
		MonthsByID: map[int64]int{1: 1},
		Date:       time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Invoice failed: %v", err)
	}

	for _, want := range []string{
		"TR-0042",
		"13x5 / A",
		"متاح", // available status in Arabic
		"2026/09/01",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("Invoice output missing %q", want)
		}
	}
}

func TestMapURL(t *testing.T) {
	b := storage.Billboard{Coordinates: "32.8752,13.1875"}
	if got := MapURL(b); !strings.Contains(got, "maps?q=32.8752") {
		t.Errorf("MapURL = %q", got)
	}

	b = storage.Billboard{GPSLink: "https://maps.app.goo.gl/abc"}
	if got := MapURL(b); got != "https://maps.app.goo.gl/abc" {
		t.Errorf("MapURL fallback = %q", got)
	}
}

func TestFormatCurrency(t *testing.T) {
	got := FormatCurrency(3500)
	if !strings.Contains(got, "د.ل") {
		t.Errorf("FormatCurrency(3500) = %q, missing currency marker", got)
	}
}
