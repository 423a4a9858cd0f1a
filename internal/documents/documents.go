// Package documents renders the printable Arabic offer (rental contract)
// and invoice HTML the sales UI opens in a print window. Prices come from
// the pricing resolver; an item whose price is unknown prints as zero while
// its on-screen row shows "—".
package documents

import (
	"bytes"
	"fmt"
	"time"

	"alfares-pricing/internal/pricing"
	"alfares-pricing/internal/storage"
)

type CompanyInfo struct {
	Name           string
	Address        string
	Representative string
	IBAN           string
}

// OfferMeta carries the contract parameters. Zero values fall back to the
// builder's company defaults, today's date and a time-derived contract
// number.
type OfferMeta struct {
	Months         int
	Customer       pricing.CustomerTier
	AdType         string
	ContractNumber string
	Date           time.Time
	ClientName     string
	ClientRep      string
	ClientPhone    string
}

// InvoiceMeta prices each billboard with its own period and customer tier;
// missing entries default to one month and the standard tier.
type InvoiceMeta struct {
	MonthsByID   map[int64]int
	CustomerByID map[int64]pricing.CustomerTier
	Date         time.Time
}

type Builder struct {
	resolver *pricing.Resolver
	company  CompanyInfo
}

func NewBuilder(resolver *pricing.Resolver, company CompanyInfo) *Builder {
	return &Builder{resolver: resolver, company: company}
}

type offerRow struct {
	Code     string
	ImageURL string
	City     string
	Municipality string
	Landmark string
	Size     string
	Faces    int
	Price    string
	EndDate  string
	MapURL   string
}

type offerData struct {
	Company        CompanyInfo
	Date           string
	ContractNumber string
	AdType         string
	Period         string
	StartDate      string
	EndDate        string
	Total          string
	ClientName     string
	ClientRep      string
	ClientPhone    string
	Rows           []offerRow
}

// Offer renders the rental contract for the selected billboards.
func (b *Builder) Offer(items []storage.Billboard, meta OfferMeta) (string, error) {
	date := meta.Date
	if date.IsZero() {
		date = time.Now()
	}
	contractNumber := meta.ContractNumber
	if contractNumber == "" {
		contractNumber = fmt.Sprintf("%d-%04d", date.Year(), time.Now().UnixMilli()%10000)
	}
	adType := meta.AdType
	if adType == "" {
		adType = "—"
	}
	customer := meta.Customer
	if customer == "" {
		customer = pricing.TierStandard
	}

	bucket, ok := pricing.BucketForMonths(meta.Months)
	if !ok {
		return "", fmt.Errorf("no rental period for %d months", meta.Months)
	}

	end := date.AddDate(0, meta.Months, 0)

	rows := make([]offerRow, 0, len(items))
	var quoteItems []pricing.Item
	for _, item := range items {
		unit, _ := b.resolver.Resolve(item.Level, item.Size, customer, bucket)
		rows = append(rows, offerRow{
			Code:         item.Name,
			ImageURL:     item.ImageURL,
			City:         item.City,
			Municipality: item.Municipality,
			Landmark:     item.Landmark,
			Size:         item.Size,
			Faces:        item.Faces,
			Price:        FormatCurrency(unit),
			EndDate:      end.Format("2006-01-02"),
			MapURL:       MapURL(item),
		})
		quoteItems = append(quoteItems, pricing.Item{Level: item.Level, Size: item.Size})
	}

	total := b.resolver.Total(quoteItems, customer, bucket)

	data := offerData{
		Company:        b.company,
		Date:           date.Format("2006/01/02"),
		ContractNumber: contractNumber,
		AdType:         adType,
		Period:         periodText(meta.Months),
		StartDate:      date.Format("2006/01/02"),
		EndDate:        end.Format("2006/01/02"),
		Total:          FormatCurrency(total),
		ClientName:     meta.ClientName,
		ClientRep:      meta.ClientRep,
		ClientPhone:    meta.ClientPhone,
		Rows:           rows,
	}

	var buf bytes.Buffer
	if err := offerTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render offer: %w", err)
	}
	return buf.String(), nil
}

type invoiceRow struct {
	Code      string
	ImageURL  string
	Municipality string
	District  string
	Landmark  string
	SizeLevel string
	Faces     int
	Price     string
	Expiry    string
	Status    string
}

type invoiceData struct {
	Date  string
	Total string
	Rows  []invoiceRow
}

// Invoice renders the itemized invoice for the selected billboards.
func (b *Builder) Invoice(items []storage.Billboard, meta InvoiceMeta) (string, error) {
	date := meta.Date
	if date.IsZero() {
		date = time.Now()
	}

	var grand float64
	rows := make([]invoiceRow, 0, len(items))
	for _, item := range items {
		months := meta.MonthsByID[item.ID]
		if months == 0 {
			months = 1
		}
		customer := meta.CustomerByID[item.ID]
		if customer == "" {
			customer = pricing.TierStandard
		}

		bucket, ok := pricing.BucketForMonths(months)
		if !ok {
			return "", fmt.Errorf("no rental period for %d months", months)
		}

		unit, _ := b.resolver.Resolve(item.Level, item.Size, customer, bucket)
		grand += unit

		sizeLevel := item.Size
		if item.Level != "" {
			sizeLevel += " / " + item.Level
		}
		expiry := "—"
		if item.ExpiresAt != nil {
			expiry = item.ExpiresAt.Format("2006-01-02")
		}

		rows = append(rows, invoiceRow{
			Code:         item.Name,
			ImageURL:     item.ImageURL,
			Municipality: item.Municipality,
			District:     item.District,
			Landmark:     item.Landmark,
			SizeLevel:    sizeLevel,
			Faces:        item.Faces,
			Price:        FormatCurrency(unit),
			Expiry:       expiry,
			Status:       statusText(item.Status),
		})
	}

	data := invoiceData{
		Date:  date.Format("2006/01/02"),
		Total: FormatCurrency(grand),
		Rows:  rows,
	}

	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render invoice: %w", err)
	}
	return buf.String(), nil
}

func periodText(months int) string {
	switch months {
	case 12:
		return "سنة كاملة"
	case 6:
		return "180 يومًا"
	}
	return fmt.Sprintf("%d شهر", months)
}

func statusText(status string) string {
	switch status {
	case "rented":
		return "محجوز"
	case "maintenance":
		return "صيانة"
	}
	return "متاح"
}
