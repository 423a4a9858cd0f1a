package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"alfares-pricing/internal/config"
	"alfares-pricing/internal/pricing"
	"alfares-pricing/pkg/redis"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Storage struct {
	db     *sqlx.DB
	cache  *redis.Client
	logger *zap.Logger
}

// Billboard is one inventory record. Coordinates hold a "lat,lng" pair as
// authored in the sales sheet; GPSLink is the fallback map URL.
type Billboard struct {
	ID           int64      `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	City         string     `db:"city" json:"city"`
	Municipality string     `db:"municipality" json:"municipality"`
	District     string     `db:"district" json:"district"`
	Landmark     string     `db:"landmark" json:"landmark"`
	Size         string     `db:"size" json:"size"`
	Level        string     `db:"level" json:"level"`
	Faces        int        `db:"faces" json:"faces"`
	Coordinates  string     `db:"coordinates" json:"coordinates"`
	GPSLink      string     `db:"gps_link" json:"gps_link"`
	ImageURL     string     `db:"image_url" json:"image_url"`
	Status       string     `db:"status" json:"status"`
	ExpiresAt    *time.Time `db:"expires_at" json:"expires_at,omitempty"`
}

// PriceRowRecord is the authored base price table as stored. Price cells
// are TEXT on purpose: the sheet data carries currency-formatted strings
// and the engine normalizes them at resolve time.
type PriceRowRecord struct {
	ID          int64  `db:"id"`
	Level       string `db:"level"`
	Size        string `db:"size"`
	Customer    string `db:"customer"`
	PriceMonth1 string `db:"price_1m"`
	PriceMonth2 string `db:"price_2m"`
	PriceMonth3 string `db:"price_3m"`
	PriceMonth6 string `db:"price_6m"`
	PriceYear   string `db:"price_12m"`
	PriceDay    string `db:"price_1d"`
}

// ToPriceRow converts the record into the engine's canonical row shape.
// Empty cells are dropped so they resolve to unknown.
func (r PriceRowRecord) ToPriceRow() pricing.PriceRow {
	cells := make(map[pricing.PeriodBucket]string)
	for bucket, raw := range map[pricing.PeriodBucket]string{
		pricing.BucketMonth1:  r.PriceMonth1,
		pricing.BucketMonth2:  r.PriceMonth2,
		pricing.BucketMonth3:  r.PriceMonth3,
		pricing.BucketMonth6:  r.PriceMonth6,
		pricing.BucketMonth12: r.PriceYear,
		pricing.BucketDay1:    r.PriceDay,
	} {
		if raw != "" {
			cells[bucket] = raw
		}
	}
	return pricing.PriceRow{
		Level:    r.Level,
		Size:     r.Size,
		Customer: pricing.CustomerTier(r.Customer),
		Cells:    cells,
	}
}

type BookingRequest struct {
	ID           int64         `db:"id" json:"id"`
	ClientName   string        `db:"client_name" json:"client_name"`
	Phone        string        `db:"phone" json:"phone"`
	Customer     string        `db:"customer" json:"customer"`
	Months       int           `db:"months" json:"months"`
	BillboardIDs pq.Int64Array `db:"billboard_ids" json:"billboard_ids"`
	Total        float64       `db:"total" json:"total"`
	Status       string        `db:"status" json:"status"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
}

func New(ctx context.Context, cfg config.DatabaseConfig, cache *redis.Client, logger *zap.Logger) (*Storage, error) {
	const operation = "storage.New"

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
	)

	var db *sqlx.DB
	var err error

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = 2 * time.Minute
	retryPolicy.MaxInterval = 15 * time.Second

	logger.Info("Connecting to PostgreSQL...")

	err = backoff.RetryNotify(
		func() error {
			db, err = sqlx.ConnectContext(ctx, "postgres", connStr)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}

			if err = db.PingContext(ctx); err != nil {
				return fmt.Errorf("ping: %w", err)
			}
			return nil
		},
		retryPolicy,
		func(err error, duration time.Duration) {
			logger.Warn("PostgreSQL connection failed, retrying...",
				zap.Error(err),
				zap.Duration("next_attempt_in", duration))
		},
	)

	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect after retries: %w", operation, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	logger.Info("Successfully connected to PostgreSQL")
	return &Storage{
		db:     db,
		cache:  cache,
		logger: logger,
	}, nil
}

// DB exposes the underlying handle for migrations.
func (s *Storage) DB() *sql.DB {
	return s.db.DB
}

func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Storage) GetBillboardByID(ctx context.Context, id int64) (*Billboard, error) {
	cacheKey := fmt.Sprintf("billboard:%d", id)

	// Try Redis first
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			var b Billboard
			if err := json.Unmarshal(cached, &b); err == nil {
				return &b, nil
			}
		}
	}

	const query = `
        SELECT id, name, city, municipality, district, landmark, size, level,
               faces, coordinates, gps_link, image_url, status, expires_at
        FROM billboards
        WHERE id = $1
    `

	var b Billboard
	err := s.db.GetContext(ctx, &b, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("billboard not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get billboard: %w", err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(b); err == nil {
			s.cache.Set(ctx, cacheKey, data, 0)
		}
	}

	return &b, nil
}

type BillboardFilter struct {
	Level  string
	Size   string
	Status string
}

func (s *Storage) ListBillboards(ctx context.Context, filter BillboardFilter) ([]Billboard, error) {
	const query = `
        SELECT id, name, city, municipality, district, landmark, size, level,
               faces, coordinates, gps_link, image_url, status, expires_at
        FROM billboards
        WHERE ($1 = '' OR level = $1)
          AND ($2 = '' OR size = $2)
          AND ($3 = '' OR status = $3)
        ORDER BY id
    `

	var billboards []Billboard
	err := s.db.SelectContext(ctx, &billboards, query, filter.Level, filter.Size, filter.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to list billboards: %w", err)
	}
	return billboards, nil
}

// GetBillboardsByIDs returns the requested billboards preserving the order
// of ids; unknown ids are skipped.
func (s *Storage) GetBillboardsByIDs(ctx context.Context, ids []int64) ([]Billboard, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	const query = `
        SELECT id, name, city, municipality, district, landmark, size, level,
               faces, coordinates, gps_link, image_url, status, expires_at
        FROM billboards
        WHERE id = ANY($1)
    `

	var fetched []Billboard
	err := s.db.SelectContext(ctx, &fetched, query, pq.Int64Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get billboards: %w", err)
	}

	byID := make(map[int64]Billboard, len(fetched))
	for _, b := range fetched {
		byID[b.ID] = b
	}

	ordered := make([]Billboard, 0, len(ids))
	for _, id := range ids {
		if b, ok := byID[id]; ok {
			ordered = append(ordered, b)
		}
	}
	return ordered, nil
}

// LoadPriceRows reads the whole base price table in authored order. The id
// ordering is what keeps duplicate-key resolution deterministic.
func (s *Storage) LoadPriceRows(ctx context.Context) ([]pricing.PriceRow, error) {
	const query = `
        SELECT id, level, size, customer,
               price_1m, price_2m, price_3m, price_6m, price_12m, price_1d
        FROM price_rows
        ORDER BY id
    `

	var records []PriceRowRecord
	if err := s.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("failed to load price rows: %w", err)
	}

	rows := make([]pricing.PriceRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, rec.ToPriceRow())
	}
	return rows, nil
}

// ReplacePriceRows swaps the whole base price table in one transaction.
// Used by the xlsx import; a running resolver keeps its loaded table until
// the next restart.
func (s *Storage) ReplacePriceRows(ctx context.Context, records []PriceRowRecord) error {
	const operation = "storage.ReplacePriceRows"

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", operation, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM price_rows`); err != nil {
		return fmt.Errorf("%s: clear: %w", operation, err)
	}

	const insert = `
        INSERT INTO price_rows (level, size, customer,
            price_1m, price_2m, price_3m, price_6m, price_12m, price_1d)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `
	for _, rec := range records {
		if _, err := tx.ExecContext(ctx, insert,
			rec.Level, rec.Size, rec.Customer,
			rec.PriceMonth1, rec.PriceMonth2, rec.PriceMonth3,
			rec.PriceMonth6, rec.PriceYear, rec.PriceDay,
		); err != nil {
			return fmt.Errorf("%s: insert: %w", operation, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", operation, err)
	}
	return nil
}

// UpsertBillboards inserts imported billboards, updating existing ones by
// name (the billboard code is the stable identifier in the sheets).
func (s *Storage) UpsertBillboards(ctx context.Context, billboards []Billboard) error {
	const operation = "storage.UpsertBillboards"

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", operation, err)
	}
	defer tx.Rollback()

	const query = `
        INSERT INTO billboards (name, city, municipality, district, landmark,
            size, level, faces, coordinates, gps_link, image_url, status, expires_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        ON CONFLICT (name) DO UPDATE SET
            city = EXCLUDED.city,
            municipality = EXCLUDED.municipality,
            district = EXCLUDED.district,
            landmark = EXCLUDED.landmark,
            size = EXCLUDED.size,
            level = EXCLUDED.level,
            faces = EXCLUDED.faces,
            coordinates = EXCLUDED.coordinates,
            gps_link = EXCLUDED.gps_link,
            image_url = EXCLUDED.image_url,
            status = EXCLUDED.status,
            expires_at = EXCLUDED.expires_at
    `
	for _, b := range billboards {
		if _, err := tx.ExecContext(ctx, query,
			b.Name, b.City, b.Municipality, b.District, b.Landmark,
			b.Size, b.Level, b.Faces, b.Coordinates, b.GPSLink,
			b.ImageURL, b.Status, b.ExpiresAt,
		); err != nil {
			return fmt.Errorf("%s: upsert %q: %w", operation, b.Name, err)
		}

		if s.cache != nil {
			s.cache.Del(ctx, fmt.Sprintf("billboard:%d", b.ID))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", operation, err)
	}
	return nil
}

func (s *Storage) SaveBookingRequest(ctx context.Context, req BookingRequest) (int64, error) {
	const query = `
        INSERT INTO booking_requests (
            client_name, phone, customer, months, billboard_ids,
            total, status, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id
    `

	var id int64
	err := s.db.QueryRowContext(ctx, query,
		req.ClientName,
		req.Phone,
		req.Customer,
		req.Months,
		req.BillboardIDs,
		req.Total,
		req.Status,
		req.CreatedAt,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to save booking request: %w", err)
	}
	return id, nil
}

func (s *Storage) ListBookingRequests(ctx context.Context, limit int) ([]BookingRequest, error) {
	const query = `
        SELECT id, client_name, phone, customer, months, billboard_ids,
               total, status, created_at
        FROM booking_requests
        ORDER BY created_at DESC
        LIMIT $1
    `

	var requests []BookingRequest
	if err := s.db.SelectContext(ctx, &requests, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list booking requests: %w", err)
	}
	return requests, nil
}

// CheckRateLimit counts booking submissions per caller inside a sliding
// window. Without Redis there is no limiting.
func (s *Storage) CheckRateLimit(ctx context.Context, caller string, limit int64, window time.Duration) (bool, error) {
	if s.cache == nil {
		return false, nil
	}

	key := fmt.Sprintf("ratelimit:booking:%s", caller)

	count, err := s.cache.Incr(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	// Set expiry if this is the first increment
	if count == 1 {
		if _, err := s.cache.Expire(ctx, key, window); err != nil {
			return false, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	return count > limit, nil
}
