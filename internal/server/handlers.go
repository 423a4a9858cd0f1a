package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"alfares-pricing/internal/documents"
	"alfares-pricing/internal/pricing"
	"alfares-pricing/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// bucketFromQuery picks the period bucket: an explicit bucket label wins,
// otherwise the month count the UI sends.
func bucketFromQuery(c *gin.Context) (pricing.PeriodBucket, bool) {
	if label := c.Query("bucket"); label != "" {
		b := pricing.PeriodBucket(label)
		return b, b.Valid()
	}
	months, err := strconv.Atoi(c.DefaultQuery("months", "1"))
	if err != nil {
		return "", false
	}
	return pricing.BucketForMonths(months)
}

func tierFromQuery(c *gin.Context) pricing.CustomerTier {
	if customer := c.Query("customer"); customer != "" {
		return pricing.CustomerTier(customer)
	}
	return pricing.TierStandard
}

func (s *Server) handleResolve(c *gin.Context) {
	level := c.Query("level")
	size := c.Query("size")
	if level == "" || size == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "level and size are required"})
		return
	}

	bucket, ok := bucketFromQuery(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unrecognized rental period"})
		return
	}

	price, known := s.resolver.Resolve(level, size, tierFromQuery(c), bucket)

	resp := gin.H{"known": known}
	if known {
		resp["price"] = price
	} else {
		resp["price"] = nil
	}
	c.JSON(http.StatusOK, resp)
}

type totalRequest struct {
	Items    []pricing.Item `json:"items"`
	Customer string         `json:"customer"`
	Months   int            `json:"months"`
	Bucket   string         `json:"bucket"`
}

func (r totalRequest) bucket() (pricing.PeriodBucket, bool) {
	if r.Bucket != "" {
		b := pricing.PeriodBucket(r.Bucket)
		return b, b.Valid()
	}
	return pricing.BucketForMonths(r.Months)
}

func (r totalRequest) tier() pricing.CustomerTier {
	if r.Customer == "" {
		return pricing.TierStandard
	}
	return pricing.CustomerTier(r.Customer)
}

func (s *Server) handleTotal(c *gin.Context) {
	var req totalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data provided"})
		return
	}

	bucket, ok := req.bucket()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unrecognized rental period"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total": s.resolver.Total(req.Items, req.tier(), bucket),
	})
}

type overrideRequest struct {
	Level    string   `json:"level"`
	Size     string   `json:"size"`
	Customer string   `json:"customer"`
	Months   int      `json:"months"`
	Bucket   string   `json:"bucket"`
	Value    *float64 `json:"value"`
}

func (s *Server) handleSetOverride(c *gin.Context) {
	var req overrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data provided"})
		return
	}
	if req.Level == "" || req.Size == "" || req.Customer == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "level, size and customer are required"})
		return
	}

	var bucket pricing.PeriodBucket
	if req.Bucket != "" {
		bucket = pricing.PeriodBucket(req.Bucket)
	} else if b, ok := pricing.BucketForMonths(req.Months); ok {
		bucket = b
	}
	if !bucket.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unrecognized rental period"})
		return
	}

	tier := pricing.CustomerTier(req.Customer)
	key := pricing.Key(req.Level, req.Size, tier)

	if err := s.overrides.Set(key, string(bucket), req.Value); err != nil {
		s.logger.Error("Failed to persist override",
			zap.String("key", key),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist override"})
		return
	}

	price, known := s.resolver.Resolve(req.Level, req.Size, tier, bucket)
	resp := gin.H{"known": known}
	if known {
		resp["price"] = price
	} else {
		resp["price"] = nil
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleLevels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"levels": s.table.Levels()})
}

func (s *Server) handleSizes(c *gin.Context) {
	level := c.Query("level")
	if level == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "level is required"})
		return
	}

	sizes := s.table.SizesForLevel(level)
	seen := make(map[string]bool, len(sizes))
	for _, size := range sizes {
		seen[size] = true
	}
	for _, size := range s.customSizes.ForLevel(level) {
		if !seen[size] {
			seen[size] = true
			sizes = append(sizes, size)
		}
	}

	c.JSON(http.StatusOK, gin.H{"sizes": sizes})
}

type customSizesRequest struct {
	Level string   `json:"level"`
	Sizes []string `json:"sizes"`
}

func (s *Server) handleSetCustomSizes(c *gin.Context) {
	var req customSizesRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Level == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data provided"})
		return
	}

	if err := s.customSizes.Replace(req.Level, req.Sizes); err != nil {
		s.logger.Error("Failed to persist custom sizes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist custom sizes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Custom sizes updated"})
}

func (s *Server) handleCustomers(c *gin.Context) {
	customers := make([]string, 0, 3)
	for _, tier := range pricing.PrimaryTiers() {
		customers = append(customers, string(tier))
	}
	customers = append(customers, s.extraCustomers.All()...)
	c.JSON(http.StatusOK, gin.H{"customers": customers})
}

type extraCustomersRequest struct {
	Customers []string `json:"customers"`
}

func (s *Server) handleSetExtraCustomers(c *gin.Context) {
	var req extraCustomersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data provided"})
		return
	}

	if err := s.extraCustomers.Replace(req.Customers); err != nil {
		s.logger.Error("Failed to persist extra customers", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist extra customers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Extra customers updated"})
}

func (s *Server) handleListBillboards(c *gin.Context) {
	billboards, err := s.catalog.ListBillboards(c.Request.Context(), storage.BillboardFilter{
		Level:  c.Query("level"),
		Size:   c.Query("size"),
		Status: c.Query("status"),
	})
	if err != nil {
		s.logger.Error("Failed to list billboards", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch billboards"})
		return
	}
	c.JSON(http.StatusOK, billboards)
}

func (s *Server) handleGetBillboard(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid billboard id"})
		return
	}

	billboard, err := s.catalog.GetBillboardByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "billboard not found"})
		return
	}
	c.JSON(http.StatusOK, billboard)
}

type bookingRequest struct {
	ClientName   string  `json:"client_name"`
	Phone        string  `json:"phone"`
	Customer     string  `json:"customer"`
	Months       int     `json:"months"`
	BillboardIDs []int64 `json:"billboard_ids"`
}

func (s *Server) handleCreateBooking(c *gin.Context) {
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data provided"})
		return
	}
	if req.ClientName == "" || len(req.BillboardIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client_name and billboard_ids are required"})
		return
	}
	if !IsValidPhoneNumber(req.Phone) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid phone number"})
		return
	}
	bucket, ok := pricing.BucketForMonths(req.Months)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unrecognized rental period"})
		return
	}

	ctx := c.Request.Context()

	limited, err := s.catalog.CheckRateLimit(ctx, c.ClientIP(), 10, time.Hour)
	if err != nil {
		s.logger.Warn("Rate limit check failed", zap.Error(err))
	}
	if limited {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many booking requests"})
		return
	}

	items, err := s.catalog.GetBillboardsByIDs(ctx, req.BillboardIDs)
	if err != nil {
		s.logger.Error("Failed to fetch billboards for booking", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch billboards"})
		return
	}
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no known billboards in request"})
		return
	}

	tier := pricing.CustomerTier(req.Customer)
	if tier == "" {
		tier = pricing.TierStandard
	}

	quoteItems := make([]pricing.Item, 0, len(items))
	for _, b := range items {
		quoteItems = append(quoteItems, pricing.Item{Level: b.Level, Size: b.Size})
	}
	total := s.resolver.Total(quoteItems, tier, bucket)

	booking := storage.BookingRequest{
		ClientName:   req.ClientName,
		Phone:        NormalizePhoneNumber(req.Phone),
		Customer:     string(tier),
		Months:       req.Months,
		BillboardIDs: pq.Int64Array(req.BillboardIDs),
		Total:        total,
		Status:       "new",
		CreatedAt:    time.Now(),
	}

	id, err := s.catalog.SaveBookingRequest(ctx, booking)
	if err != nil {
		s.logger.Error("Failed to save booking request", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save booking request"})
		return
	}
	booking.ID = id

	quotePath := ""
	if s.exporter != nil {
		if path, err := s.exporter.SaveQuote(items, tier, req.Months); err != nil {
			s.logger.Error("Failed to export quote workbook",
				zap.Int64("booking_id", id),
				zap.Error(err))
		} else {
			quotePath = path
		}
	}

	if s.notifier != nil {
		s.notifier.BookingCreated(ctx, booking, items, quotePath)
	}

	c.JSON(http.StatusCreated, gin.H{"id": id, "total": total})
}

func (s *Server) handleListBookings(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}

	bookings, err := s.catalog.ListBookingRequests(c.Request.Context(), limit)
	if err != nil {
		s.logger.Error("Failed to list booking requests", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch booking requests"})
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func parseIDList(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *Server) handleOfferDocument(c *gin.Context) {
	ids, err := parseIDList(c.Query("ids"))
	if err != nil || len(ids) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ids is required"})
		return
	}
	months, err := strconv.Atoi(c.DefaultQuery("months", "1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid months"})
		return
	}

	items, err := s.catalog.GetBillboardsByIDs(c.Request.Context(), ids)
	if err != nil {
		s.logger.Error("Failed to fetch billboards for offer", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch billboards"})
		return
	}

	html, err := s.docs.Offer(items, documents.OfferMeta{
		Months:         months,
		Customer:       tierFromQuery(c),
		AdType:         c.Query("ad_type"),
		ContractNumber: c.Query("contract_number"),
		ClientName:     c.Query("client_name"),
		ClientRep:      c.Query("client_rep"),
		ClientPhone:    c.Query("client_phone"),
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func (s *Server) handleInvoiceDocument(c *gin.Context) {
	ids, err := parseIDList(c.Query("ids"))
	if err != nil || len(ids) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ids is required"})
		return
	}

	// Per-item periods and tiers travel as parallel comma lists; a single
	// value broadcasts to all items.
	monthsParts := strings.Split(c.DefaultQuery("months", "1"), ",")
	customerParts := strings.Split(c.DefaultQuery("customers", string(pricing.TierStandard)), ",")

	monthsByID := make(map[int64]int, len(ids))
	customerByID := make(map[int64]pricing.CustomerTier, len(ids))
	for i, id := range ids {
		part := monthsParts[0]
		if len(monthsParts) > i {
			part = monthsParts[i]
		}
		months, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid months"})
			return
		}
		monthsByID[id] = months

		tier := customerParts[0]
		if len(customerParts) > i {
			tier = customerParts[i]
		}
		customerByID[id] = pricing.CustomerTier(strings.TrimSpace(tier))
	}

	items, err := s.catalog.GetBillboardsByIDs(c.Request.Context(), ids)
	if err != nil {
		s.logger.Error("Failed to fetch billboards for invoice", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch billboards"})
		return
	}

	html, err := s.docs.Invoice(items, documents.InvoiceMeta{
		MonthsByID:   monthsByID,
		CustomerByID: customerByID,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func (s *Server) handleExportQuote(c *gin.Context) {
	ids, err := parseIDList(c.Query("ids"))
	if err != nil || len(ids) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ids is required"})
		return
	}
	months, err := strconv.Atoi(c.DefaultQuery("months", "1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid months"})
		return
	}

	items, err := s.catalog.GetBillboardsByIDs(c.Request.Context(), ids)
	if err != nil {
		s.logger.Error("Failed to fetch billboards for export", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch billboards"})
		return
	}

	f, err := s.exporter.QuoteWorkbook(items, tierFromQuery(c), months)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	c.Header("Content-Disposition", `attachment; filename="quote.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		s.logger.Error("Failed to stream quote workbook", zap.Error(err))
	}
}
