package pricing

import "testing"

type mapOverrides map[string]map[string]float64

func (m mapOverrides) Get(key, bucket string) (float64, bool) {
	v, ok := m[key][bucket]
	return v, ok
}

func testTable() *Table {
	return NewTable([]PriceRow{
		{
			Level:    "A",
			Size:     "13x5",
			Customer: TierStandard,
			Cells: map[PeriodBucket]string{
				BucketMonth1: "3500",
				BucketMonth3: "9,000 د.ل",
				BucketDay1:   "250",
			},
		},
		{
			Level:    "A",
			Size:     "13x5",
			Customer: TierMarketer,
			Cells: map[PeriodBucket]string{
				BucketMonth1: "3000",
			},
		},
		{
			Level:    "B",
			Size:     "12x4",
			Customer: TierStandard,
			Cells: map[PeriodBucket]string{
				BucketMonth1: "غير متوفر",
			},
		},
		// Duplicate of the first key; lookups must keep returning the
		// first row.
		{
			Level:    "A",
			Size:     "13x5",
			Customer: TierStandard,
			Cells: map[PeriodBucket]string{
				BucketMonth1: "9999",
			},
		},
	})
}

func TestResolveBaseTable(t *testing.T) {
	r := NewResolver(testTable(), nil)

	price, known := r.Resolve("A", "13x5", TierStandard, BucketMonth1)
	if !known || price != 3500 {
		t.Errorf("Base lookup got %.2f known=%v, want 3500", price, known)
	}

	// Raw cell with separators and a currency suffix.
	price, known = r.Resolve("A", "13x5", TierStandard, BucketMonth3)
	if !known || price != 9000 {
		t.Errorf("Formatted cell got %.2f known=%v, want 9000", price, known)
	}
}

func TestResolveUnknown(t *testing.T) {
	r := NewResolver(testTable(), nil)

	if _, known := r.Resolve("C", "10x4", TierStandard, BucketMonth1); known {
		t.Error("Missing row should resolve to unknown")
	}
	if _, known := r.Resolve("A", "13x5", TierStandard, BucketMonth6); known {
		t.Error("Missing cell should resolve to unknown")
	}
	if _, known := r.Resolve("B", "12x4", TierStandard, BucketMonth1); known {
		t.Error("Unparsable cell should resolve to unknown")
	}
	if _, known := r.Resolve("a", "13x5", TierStandard, BucketMonth1); known {
		t.Error("Key matching must be case sensitive")
	}
}

func TestResolveDuplicateRowsFirstWins(t *testing.T) {
	r := NewResolver(testTable(), nil)

	price, known := r.Resolve("A", "13x5", TierStandard, BucketMonth1)
	if !known || price != 3500 {
		t.Errorf("Duplicate key resolved to %.2f, want first row value 3500", price)
	}
}

func TestResolveOverrideWins(t *testing.T) {
	ov := mapOverrides{
		Key("A", "13x5", TierStandard): {"1m": 4200},
		Key("C", "10x4", TierStandard): {"1m": 800},
	}
	r := NewResolver(testTable(), ov)

	price, known := r.Resolve("A", "13x5", TierStandard, BucketMonth1)
	if !known || price != 4200 {
		t.Errorf("Override should win over base, got %.2f known=%v", price, known)
	}

	// Overrides price cells the base table never had.
	price, known = r.Resolve("C", "10x4", TierStandard, BucketMonth1)
	if !known || price != 800 {
		t.Errorf("Override for missing base row got %.2f known=%v, want 800", price, known)
	}

	// Other buckets of the same key keep the base value.
	price, known = r.Resolve("A", "13x5", TierStandard, BucketDay1)
	if !known || price != 250 {
		t.Errorf("Unoverridden bucket got %.2f known=%v, want 250", price, known)
	}
}

func TestTotal(t *testing.T) {
	r := NewResolver(testTable(), nil)

	items := []Item{
		{Level: "A", Size: "13x5"},
		{Level: "A", Size: "13x5"},
		{Level: "C", Size: "10x4"}, // unpriced, contributes nothing
	}
	total := r.Total(items, TierStandard, BucketMonth1)
	if total != 7000 {
		t.Errorf("Total = %.2f, want 7000", total)
	}

	if total := r.Total(nil, TierStandard, BucketMonth1); total != 0 {
		t.Errorf("Empty quote total = %.2f, want 0", total)
	}
}

func TestTableLevelsAndSizes(t *testing.T) {
	table := testTable()

	levels := table.Levels()
	if len(levels) != 2 || levels[0] != "A" || levels[1] != "B" {
		t.Errorf("Levels = %v, want [A B]", levels)
	}

	sizes := table.SizesForLevel("A")
	if len(sizes) != 1 || sizes[0] != "13x5" {
		t.Errorf("SizesForLevel(A) = %v, want [13x5]", sizes)
	}
}

func TestBucketForMonths(t *testing.T) {
	for months, want := range map[int]PeriodBucket{
		1: BucketMonth1, 2: BucketMonth2, 3: BucketMonth3,
		6: BucketMonth6, 12: BucketMonth12,
	} {
		got, ok := BucketForMonths(months)
		if !ok || got != want {
			t.Errorf("BucketForMonths(%d) = %q ok=%v, want %q", months, got, ok, want)
		}
	}
	if _, ok := BucketForMonths(5); ok {
		t.Error("BucketForMonths(5) should fail")
	}
}
