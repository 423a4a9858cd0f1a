package api

// API CLIENT

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Client talks to the quoting API. It is what the admin tooling and the
// integration tests use instead of hand-rolled requests.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

type ResolveResult struct {
	Price *float64 `json:"price"`
	Known bool     `json:"known"`
}

type QuoteItem struct {
	Level string `json:"level"`
	Size  string `json:"size"`
}

type TotalRequest struct {
	Items    []QuoteItem `json:"items"`
	Customer string      `json:"customer"`
	Months   int         `json:"months"`
}

type OverrideRequest struct {
	Level    string   `json:"level"`
	Size     string   `json:"size"`
	Customer string   `json:"customer"`
	Months   int      `json:"months"`
	Value    *float64 `json:"value"`
}

func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

func (c *Client) ResolvePrice(ctx context.Context, level, size, customer string, months int) (ResolveResult, error) {
	q := url.Values{}
	q.Set("level", level)
	q.Set("size", size)
	q.Set("customer", customer)
	q.Set("months", strconv.Itoa(months))

	req, err := http.NewRequestWithContext(
		ctx,
		"GET",
		fmt.Sprintf("%s/api/pricing/resolve?%s", c.baseURL, q.Encode()),
		nil,
	)
	if err != nil {
		return ResolveResult{}, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ResolveResult{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ResolveResult{}, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result ResolveResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return ResolveResult{}, fmt.Errorf("decode response: %w", err)
	}

	return result, nil
}

func (c *Client) Total(ctx context.Context, req TotalRequest) (float64, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return 0, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		"POST",
		fmt.Sprintf("%s/api/pricing/total", c.baseURL),
		bytes.NewReader(body),
	)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result struct {
		Total float64 `json:"total"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}

	return result.Total, nil
}

// SetOverride writes or clears a price override (nil value clears) and
// returns the price the server resolves afterwards.
func (c *Client) SetOverride(ctx context.Context, req OverrideRequest) (ResolveResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return ResolveResult{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		"PUT",
		fmt.Sprintf("%s/api/pricing/overrides", c.baseURL),
		bytes.NewReader(body),
	)
	if err != nil {
		return ResolveResult{}, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return ResolveResult{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ResolveResult{}, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result ResolveResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return ResolveResult{}, fmt.Errorf("decode response: %w", err)
	}

	return result, nil
}
