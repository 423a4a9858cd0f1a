package pricing

// OverrideSource is the user-entered correction layer consulted before the
// base table. Values returned from it are already normalized numbers.
type OverrideSource interface {
	Get(key, bucket string) (float64, bool)
}

// Item identifies one priced billboard in a quote.
type Item struct {
	Level string `json:"level"`
	Size  string `json:"size"`
}

// Resolver answers price lookups by layering the override store over the
// base table. It never returns an error: a cell that cannot be priced
// resolves to unknown and the UI renders it as "—".
type Resolver struct {
	table     *Table
	overrides OverrideSource
}

func NewResolver(table *Table, overrides OverrideSource) *Resolver {
	return &Resolver{table: table, overrides: overrides}
}

// Resolve returns the price for one (level, size, tier, bucket) cell.
// Overrides win over the base table; base cells go through Normalize, so a
// malformed shipped cell resolves to unknown. Duplicate base rows for a key
// fall to the first row in table order.
func (r *Resolver) Resolve(level, size string, tier CustomerTier, bucket PeriodBucket) (float64, bool) {
	key := Key(level, size, tier)

	if r.overrides != nil {
		if v, ok := r.overrides.Get(key, string(bucket)); ok {
			return v, true
		}
	}

	row, ok := r.table.Find(key)
	if !ok {
		return 0, false
	}
	return Normalize(row.Cells[bucket])
}

// Total sums resolved prices over the selected items. Items that resolve to
// unknown contribute nothing; their rows still show "—" in the UI, so the
// shortfall is visible to the operator.
func (r *Resolver) Total(items []Item, tier CustomerTier, bucket PeriodBucket) float64 {
	var sum float64
	for _, it := range items {
		if v, ok := r.Resolve(it.Level, it.Size, tier, bucket); ok {
			sum += v
		}
	}
	return sum
}
