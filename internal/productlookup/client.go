// Package productlookup resolves grocery barcodes against the Open Food
// Facts catalogue.
package productlookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

var (
	// ErrProductNotFound means the catalogue has no entry for the barcode.
	ErrProductNotFound = errors.New("product not found")
	// ErrInvalidBarcode rejects anything but 8 to 14 digits.
	ErrInvalidBarcode = errors.New("barcode must be 8 to 14 digits")
)

const unnamed = "Unnamed"

// Product is the subset of the catalogue entry the app shows.
type Product struct {
	Barcode  string
	Name     string
	Brands   string
	ImageURL string
}

// Config holds client settings.
type Config struct {
	BaseURL  string
	Timeout  time.Duration
	RetryMax int
	Logger   *slog.Logger
}

// Client queries the product catalogue.
type Client struct {
	baseURL string
	http    *retryablehttp.Client
}

// New builds a client. Transient failures (connection errors, 5xx, 429) are
// retried up to cfg.RetryMax times.
func New(cfg Config) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.RetryMax
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	if cfg.Timeout > 0 {
		rc.HTTPClient.Timeout = cfg.Timeout
	}
	rc.Logger = nil
	if cfg.Logger != nil {
		rc.Logger = cfg.Logger
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    rc,
	}
}

type response struct {
	Status  int `json:"status"`
	Product struct {
		ProductName   string `json:"product_name"`
		ProductNameIT string `json:"product_name_it"`
		Brands        string `json:"brands"`
		ImageURL      string `json:"image_url"`
	} `json:"product"`
}

// Lookup fetches the product for barcode.
func (c *Client) Lookup(ctx context.Context, barcode string) (*Product, error) {
	barcode = strings.TrimSpace(barcode)
	if !ValidBarcode(barcode) {
		return nil, ErrInvalidBarcode
	}

	endpoint := c.baseURL + "/api/v0/product/" + url.PathEscape(barcode) + ".json"
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build lookup request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "splitticket/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", barcode, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrProductNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lookup %s: unexpected status %d", barcode, resp.StatusCode)
	}

	var body response
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4<<20)).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode lookup response: %w", err)
	}
	if body.Status != 1 {
		return nil, ErrProductNotFound
	}

	name := firstNonEmpty(body.Product.ProductNameIT, body.Product.ProductName, unnamed)
	return &Product{
		Barcode:  barcode,
		Name:     name,
		Brands:   strings.TrimSpace(body.Product.Brands),
		ImageURL: body.Product.ImageURL,
	}, nil
}

// ValidBarcode reports whether s is 8 to 14 ASCII digits.
func ValidBarcode(s string) bool {
	if len(s) < 8 || len(s) > 14 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
