// Package currency fetches USD exchange rates and turns them into unit
// definitions for the expression engine.
package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/vk/calcnote/internal/ctxlog"
	"github.com/vk/calcnote/internal/units"
	"resty.dev/v3"
)

// DefaultURL serves {"rates": {"EUR": 0.92, ...}} relative to one USD.
const DefaultURL = "https://open.er-api.com/v6/latest/USD"

const defaultTimeout = 10 * time.Second

// Definition is one unit the rates produce, e.g. {"EUR", "1.0869565217391 USD"}.
type Definition struct {
	Name  string
	Value string
}

// Definer registers units; mathengine.Engine implements it.
type Definer interface {
	DefineUnit(name, definition string) error
}

// Options configures the rate client.
type Options struct {
	URL     string
	Timeout time.Duration
}

// Client fetches rates over HTTP.
type Client struct {
	url  string
	http *resty.Client
}

// New creates a client. Close it when done.
func New(opts Options) *Client {
	if opts.URL == "" {
		opts.URL = DefaultURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	return &Client{
		url:  opts.URL,
		http: resty.New().SetTimeout(opts.Timeout),
	}
}

// Close releases the underlying HTTP client.
func (c *Client) Close() error {
	return c.http.Close()
}

// Fetch downloads the rate table.
func (c *Client) Fetch(ctx context.Context) (map[string]float64, error) {
	logger := ctxlog.FromContext(ctx).With("url", c.url)
	logger.Debug("Fetching currency rates.")

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(c.url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch currency rates: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to fetch currency rates: unexpected status %d", resp.StatusCode())
	}

	rates, err := ParseRates(resp.Bytes())
	if err != nil {
		return nil, err
	}
	logger.Debug("Currency rates received.", "count", len(rates))
	return rates, nil
}

// ParseRates accepts either a flat {"EUR": 0.92} object or one nested under
// "rates". Entries that are not numbers are ignored.
func ParseRates(body []byte) (map[string]float64, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode currency rates: %w", err)
	}
	if nested, ok := raw["rates"]; ok {
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(nested, &inner); err != nil {
			return nil, fmt.Errorf("failed to decode currency rates: %w", err)
		}
		raw = inner
	}

	rates := make(map[string]float64, len(raw))
	for code, value := range raw {
		var rate float64
		if err := json.Unmarshal(value, &rate); err != nil {
			continue
		}
		rates[code] = rate
	}
	return rates, nil
}

// Definitions converts rates into unit definitions: every valid code is
// defined in upper and lower case as a multiple of USD. Codes that are not
// three letters, the USD entry itself and non-finite or non-positive rates
// are skipped.
func Definitions(rates map[string]float64) []Definition {
	codes := make([]string, 0, len(rates))
	for code := range rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var defs []Definition
	for _, code := range codes {
		rate := rates[code]
		upper := strings.ToUpper(code)
		if !isCode(upper) || upper == "USD" {
			continue
		}
		if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
			continue
		}
		value := strconv.FormatFloat(1/rate, 'g', -1, 64) + " USD"
		defs = append(defs,
			Definition{Name: upper, Value: value},
			Definition{Name: strings.ToLower(code), Value: value},
		)
	}
	return defs
}

// Register defines every rate as a unit. Names that clash with built-in
// units are skipped; any other failure is returned after all definitions
// were attempted.
func Register(ctx context.Context, d Definer, rates map[string]float64) (int, error) {
	logger := ctxlog.FromContext(ctx)
	var (
		registered int
		errs       []error
	)
	for _, def := range Definitions(rates) {
		err := d.DefineUnit(def.Name, def.Value)
		switch {
		case err == nil:
			registered++
		case errors.Is(err, units.ErrUnitExists):
			logger.Debug("Skipping currency that collides with a built-in unit.", "name", def.Name)
		default:
			errs = append(errs, fmt.Errorf("currency %s: %w", def.Name, err))
		}
	}
	logger.Info("💱 Currency units registered", "count", registered)
	return registered, errors.Join(errs...)
}

func isCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, c := range s {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}
