package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"alfares-pricing/internal/documents"
	"alfares-pricing/internal/export"
	"alfares-pricing/internal/notify"
	"alfares-pricing/internal/overrides"
	"alfares-pricing/internal/pricing"
	"alfares-pricing/internal/storage"
	"alfares-pricing/pkg/api"

	"go.uber.org/zap"
)

// fakeCatalog keeps the billboard inventory in memory so the handlers can
// be exercised without PostgreSQL.
type fakeCatalog struct {
	billboards []storage.Billboard
	bookings   []storage.BookingRequest
	nextID     int64
}

func (f *fakeCatalog) GetBillboardByID(ctx context.Context, id int64) (*storage.Billboard, error) {
	for _, b := range f.billboards {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, fmt.Errorf("billboard %d not found", id)
}

func (f *fakeCatalog) ListBillboards(ctx context.Context, filter storage.BillboardFilter) ([]storage.Billboard, error) {
	var out []storage.Billboard
	for _, b := range f.billboards {
		if filter.Level != "" && b.Level != filter.Level {
			continue
		}
		if filter.Size != "" && b.Size != filter.Size {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeCatalog) GetBillboardsByIDs(ctx context.Context, ids []int64) ([]storage.Billboard, error) {
	var out []storage.Billboard
	for _, id := range ids {
		if b, err := f.GetBillboardByID(ctx, id); err == nil {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeCatalog) SaveBookingRequest(ctx context.Context, req storage.BookingRequest) (int64, error) {
	f.nextID++
	req.ID = f.nextID
	f.bookings = append(f.bookings, req)
	return req.ID, nil
}

func (f *fakeCatalog) ListBookingRequests(ctx context.Context, limit int) ([]storage.BookingRequest, error) {
	if limit > len(f.bookings) {
		limit = len(f.bookings)
	}
	return f.bookings[:limit], nil
}

func (f *fakeCatalog) CheckRateLimit(ctx context.Context, caller string, limit int64, window time.Duration) (bool, error) {
	return false, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *fakeCatalog) {
	t.Helper()

	table := pricing.NewTable([]pricing.PriceRow{
		{
			Level:    "A",
			Size:     "13x5",
			Customer: pricing.TierStandard,
			Cells: map[pricing.PeriodBucket]string{
				pricing.BucketMonth1: "3500",
				pricing.BucketMonth3: "9,000 د.ل",
			},
		},
		{
			Level:    "B",
			Size:     "12x4",
			Customer: pricing.TierStandard,
			Cells: map[pricing.PeriodBucket]string{
				pricing.BucketMonth1: "2000",
			},
		},
	})

	dir := t.TempDir()
	store := overrides.Load(filepath.Join(dir, "overrides.json"), zap.NewNop())
	extra := overrides.LoadCustomerList(filepath.Join(dir, "customers.json"), zap.NewNop())
	sizes := overrides.LoadSizeCatalog(filepath.Join(dir, "sizes.json"), zap.NewNop())
	resolver := pricing.NewResolver(table, store)

	catalog := &fakeCatalog{
		billboards: []storage.Billboard{
			{ID: 1, Name: "TR-0001", Level: "A", Size: "13x5", Status: "available"},
			{ID: 2, Name: "TR-0002", Level: "B", Size: "12x4", Status: "rented"},
		},
	}

	notifier, err := notify.New("", nil, zap.NewNop())
	if err != nil {
		t.Fatalf("notify.New: %v", err)
	}

	srv := New(Deps{
		Table:          table,
		Resolver:       resolver,
		Overrides:      store,
		ExtraCustomers: extra,
		CustomSizes:    sizes,
		Catalog:        catalog,
		Documents:      documents.NewBuilder(resolver, documents.CompanyInfo{Name: "شركة الفارس الذهبي"}),
		Exporter:       export.NewExporter(resolver, dir, zap.NewNop()),
		Notifier:       notifier,
		Logger:         zap.NewNop(),
	})

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, catalog
}

func TestResolveEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)
	client := api.NewClient(ts.URL, zap.NewNop())

	res, err := client.ResolvePrice(context.Background(), "A", "13x5", "standard", 1)
	if err != nil {
		t.Fatalf("ResolvePrice failed: %v", err)
	}
	if !res.Known || res.Price == nil || *res.Price != 3500 {
		t.Errorf("ResolvePrice = %+v, want known 3500", res)
	}

	// Formatted base cell.
	res, err = client.ResolvePrice(context.Background(), "A", "13x5", "standard", 3)
	if err != nil {
		t.Fatalf("ResolvePrice failed: %v", err)
	}
	if !res.Known || *res.Price != 9000 {
		t.Errorf("ResolvePrice(3m) = %+v, want known 9000", res)
	}

	// Unpriced cell resolves to unknown, still HTTP 200.
	res, err = client.ResolvePrice(context.Background(), "A", "13x5", "marketer", 1)
	if err != nil {
		t.Fatalf("ResolvePrice failed: %v", err)
	}
	if res.Known || res.Price != nil {
		t.Errorf("ResolvePrice for missing row = %+v, want unknown", res)
	}
}

func TestResolveEndpointRejectsBadPeriod(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/pricing/resolve?level=A&size=13x5&months=5")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Status = %d, want 400", resp.StatusCode)
	}
}

func TestOverrideLifecycle(t *testing.T) {
	ts, _ := newTestServer(t)
	client := api.NewClient(ts.URL, zap.NewNop())
	ctx := context.Background()

	v := 4200.0
	res, err := client.SetOverride(ctx, api.OverrideRequest{
		Level: "A", Size: "13x5", Customer: "standard", Months: 1, Value: &v,
	})
	if err != nil {
		t.Fatalf("SetOverride failed: %v", err)
	}
	if !res.Known || *res.Price != 4200 {
		t.Errorf("SetOverride resolved to %+v, want 4200", res)
	}

	// Later lookups see the override immediately.
	res, err = client.ResolvePrice(ctx, "A", "13x5", "standard", 1)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Known || *res.Price != 4200 {
		t.Errorf("ResolvePrice after override = %+v, want 4200", res)
	}

	// Clearing restores the base value.
	res, err = client.SetOverride(ctx, api.OverrideRequest{
		Level: "A", Size: "13x5", Customer: "standard", Months: 1, Value: nil,
	})
	if err != nil {
		t.Fatalf("SetOverride(clear) failed: %v", err)
	}
	if !res.Known || *res.Price != 3500 {
		t.Errorf("Cleared override resolved to %+v, want base 3500", res)
	}
}

func TestTotalEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)
	client := api.NewClient(ts.URL, zap.NewNop())

	total, err := client.Total(context.Background(), api.TotalRequest{
		Items: []api.QuoteItem{
			{Level: "A", Size: "13x5"},
			{Level: "B", Size: "12x4"},
			{Level: "C", Size: "10x4"}, // unpriced, contributes nothing
		},
		Customer: "standard",
		Months:   1,
	})
	if err != nil {
		t.Fatalf("Total failed: %v", err)
	}
	if total != 5500 {
		t.Errorf("Total = %.2f, want 5500", total)
	}
}

func TestLevelsAndSizes(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/pricing/sizes?level=A")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body struct {
		Sizes []string `json:"sizes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Sizes) != 1 || body.Sizes[0] != "13x5" {
		t.Errorf("Sizes = %v, want [13x5]", body.Sizes)
	}

	// Custom sizes merge in after a PUT.
	put, err := http.NewRequest(http.MethodPut, ts.URL+"/api/pricing/sizes/custom",
		strings.NewReader(`{"level":"A","sizes":["14x5"]}`))
	if err != nil {
		t.Fatal(err)
	}
	put.Header.Set("Content-Type", "application/json")
	putResp, err := http.DefaultClient.Do(put)
	if err != nil {
		t.Fatal(err)
	}
	putResp.Body.Close()
	if putResp.StatusCode != http.StatusOK {
		t.Fatalf("PUT custom sizes status = %d", putResp.StatusCode)
	}

	resp2, err := http.Get(ts.URL + "/api/pricing/sizes?level=A")
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	if err := json.NewDecoder(resp2.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Sizes) != 2 || body.Sizes[1] != "14x5" {
		t.Errorf("Merged sizes = %v, want [13x5 14x5]", body.Sizes)
	}
}

func TestCustomersEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/pricing/customers")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body struct {
		Customers []string `json:"customers"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	want := []string{"standard", "marketer", "corporate"}
	if len(body.Customers) != 3 {
		t.Fatalf("Customers = %v, want %v", body.Customers, want)
	}
	for i, tier := range want {
		if body.Customers[i] != tier {
			t.Errorf("Customers[%d] = %q, want %q", i, body.Customers[i], tier)
		}
	}
}

func TestBillboardFilters(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/billboards?status=available")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var boards []storage.Billboard
	if err := json.NewDecoder(resp.Body).Decode(&boards); err != nil {
		t.Fatal(err)
	}
	if len(boards) != 1 || boards[0].Name != "TR-0001" {
		t.Errorf("Filtered billboards = %+v", boards)
	}
}

func TestCreateBooking(t *testing.T) {
	ts, catalog := newTestServer(t)

	body := `{"client_name":"أحمد","phone":"0912345670","months":1,"billboard_ids":[1,2]}`
	resp, err := http.Post(ts.URL+"/api/bookings", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Status = %d, want 201", resp.StatusCode)
	}

	var created struct {
		ID    int64   `json:"id"`
		Total float64 `json:"total"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if created.Total != 5500 {
		t.Errorf("Booking total = %.2f, want 5500", created.Total)
	}

	if len(catalog.bookings) != 1 {
		t.Fatalf("Saved bookings = %d, want 1", len(catalog.bookings))
	}
	if got := catalog.bookings[0].Phone; got != "+218912345670" {
		t.Errorf("Stored phone = %q, want normalized +218912345670", got)
	}
}

func TestCreateBookingRejectsBadPhone(t *testing.T) {
	ts, _ := newTestServer(t)

	body := `{"client_name":"أحمد","phone":"123","months":1,"billboard_ids":[1]}`
	resp, err := http.Post(ts.URL+"/api/bookings", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Status = %d, want 400", resp.StatusCode)
	}
}

func TestOfferDocumentEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/documents/offer?ids=1&months=1")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
}

func TestExportQuoteEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/quotes/export?ids=1,2&months=1")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Status = %d, want 200", resp.StatusCode)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "quote.xlsx") {
		t.Errorf("Content-Disposition = %q", cd)
	}
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Status = %d, want 200", resp.StatusCode)
	}
}
