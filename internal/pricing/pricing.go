package pricing

// PeriodBucket is one of the fixed rental-duration buckets of the price
// table. The label doubles as the key inside the persisted override blob.
type PeriodBucket string

const (
	BucketMonth1  PeriodBucket = "1m"
	BucketMonth2  PeriodBucket = "2m"
	BucketMonth3  PeriodBucket = "3m"
	BucketMonth6  PeriodBucket = "6m"
	BucketMonth12 PeriodBucket = "12m"
	BucketDay1    PeriodBucket = "1d"
)

// Buckets lists every recognized bucket in display order.
var Buckets = []PeriodBucket{
	BucketMonth1,
	BucketMonth2,
	BucketMonth3,
	BucketMonth6,
	BucketMonth12,
	BucketDay1,
}

func (b PeriodBucket) Valid() bool {
	switch b {
	case BucketMonth1, BucketMonth2, BucketMonth3, BucketMonth6, BucketMonth12, BucketDay1:
		return true
	}
	return false
}

// Months returns the month count the bucket covers, 0 for the daily bucket.
func (b PeriodBucket) Months() int {
	switch b {
	case BucketMonth1:
		return 1
	case BucketMonth2:
		return 2
	case BucketMonth3:
		return 3
	case BucketMonth6:
		return 6
	case BucketMonth12:
		return 12
	}
	return 0
}

// BucketForMonths maps the month count the UI sends (1, 2, 3, 6 or 12) to
// its bucket. Any other count has no bucket.
func BucketForMonths(months int) (PeriodBucket, bool) {
	switch months {
	case 1:
		return BucketMonth1, true
	case 2:
		return BucketMonth2, true
	case 3:
		return BucketMonth3, true
	case 6:
		return BucketMonth6, true
	case 12:
		return BucketMonth12, true
	}
	return "", false
}

// CustomerTier classifies the buyer. The three primary tiers ship with the
// base table; operators may quote extra tiers, which travel as plain codes.
type CustomerTier string

const (
	TierStandard  CustomerTier = "standard"
	TierMarketer  CustomerTier = "marketer"
	TierCorporate CustomerTier = "corporate"
)

// PrimaryTiers returns the shipped tiers in display order.
func PrimaryTiers() []CustomerTier {
	return []CustomerTier{TierStandard, TierMarketer, TierCorporate}
}

// Key builds the composite lookup key for one price-table cell group.
// Equality is case- and representation-sensitive on all three parts.
func Key(level, size string, tier CustomerTier) string {
	return level + "__" + size + "__" + string(tier)
}

// PriceRow is one shipped row of the base price table. Cells hold the raw
// authored values (often currency-formatted strings); normalization happens
// at resolve time, not here. Rows are immutable after load.
type PriceRow struct {
	Level    string
	Size     string
	Customer CustomerTier
	Cells    map[PeriodBucket]string
}

func (r PriceRow) Key() string {
	return Key(r.Level, r.Size, r.Customer)
}

// Table is the in-memory base price table, loaded once at startup. Row
// order is preserved: duplicate keys are a data-authoring error, and lookups
// deterministically return the first row in table order.
type Table struct {
	rows []PriceRow
}

func NewTable(rows []PriceRow) *Table {
	return &Table{rows: rows}
}

// Find returns the first row matching the composite key, in table order.
func (t *Table) Find(key string) (PriceRow, bool) {
	for _, row := range t.rows {
		if row.Key() == key {
			return row, true
		}
	}
	return PriceRow{}, false
}

func (t *Table) Len() int {
	return len(t.rows)
}

// Levels returns the distinct levels in order of first appearance.
func (t *Table) Levels() []string {
	seen := make(map[string]bool)
	var levels []string
	for _, row := range t.rows {
		if !seen[row.Level] {
			seen[row.Level] = true
			levels = append(levels, row.Level)
		}
	}
	return levels
}

// SizesForLevel returns the distinct sizes priced for a level, in order of
// first appearance.
func (t *Table) SizesForLevel(level string) []string {
	seen := make(map[string]bool)
	var sizes []string
	for _, row := range t.rows {
		if row.Level != level || seen[row.Size] {
			continue
		}
		seen[row.Size] = true
		sizes = append(sizes, row.Size)
	}
	return sizes
}
