package marketprices

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"farmlink-backend/internal/domain"
)

const feedSource = "RapidAPI-AgriBase"
const defaultUnit = "USD/ton"

// FeedClient abstracts the upstream commodity-price feed.
type FeedClient interface {
	FetchLatest(ctx context.Context) ([]FeedRecord, error)
}

// FlexFloat decodes a JSON number or a quoted numeric string; the feed is
// not consistent about which it sends.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

// FeedRecord is one raw observation as the upstream sends it.
type FeedRecord struct {
	Commodity string    `json:"commodity"`
	Market    string    `json:"market"`
	Region    string    `json:"region"`
	Price     FlexFloat `json:"price"`
	Unit      string    `json:"unit"`
	Date      string    `json:"date"`
}

// Normalize trims names, coerces the price, defaults the unit, stamps the
// source tag and parses the date. Records without a commodity or market
// are dropped rather than stored half-empty.
func Normalize(records []FeedRecord) []domain.MarketPrice {
	out := make([]domain.MarketPrice, 0, len(records))
	for _, r := range records {
		commodity := strings.TrimSpace(r.Commodity)
		market := strings.TrimSpace(r.Market)
		if commodity == "" || market == "" {
			continue
		}
		unit := strings.TrimSpace(r.Unit)
		if unit == "" {
			unit = defaultUnit
		}
		date, err := parseFeedDate(r.Date)
		if err != nil {
			date = time.Now().UTC()
		}
		out = append(out, domain.MarketPrice{
			Commodity: commodity,
			Market:    market,
			Region:    strings.TrimSpace(r.Region),
			Price:     float64(r.Price),
			Unit:      unit,
			Date:      date,
			Source:    feedSource,
		})
	}
	return out
}

func parseFeedDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// HTTPFeedClient calls the RapidAPI-hosted feed.
type HTTPFeedClient struct {
	BaseURL string
	APIKey  string
	APIHost string
	Timeout time.Duration
	Client  *http.Client
}

// FetchLatest GETs /latest from the feed. No retry: a request past the
// timeout fails outright.
func (c *HTTPFeedClient) FetchLatest(ctx context.Context) ([]FeedRecord, error) {
	if c.Client == nil {
		timeout := c.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		c.Client = &http.Client{Timeout: timeout}
	}
	url := strings.TrimRight(c.BaseURL, "/") + "/latest"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-RapidAPI-Key", c.APIKey)
	req.Header.Set("X-RapidAPI-Host", c.APIHost)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("feed error: status %d body: %s", resp.StatusCode, body)
	}
	var records []FeedRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("feed response decode: %w", err)
	}
	return records, nil
}

// Endpoint returns the URL logged on fetch failures.
func (c *HTTPFeedClient) Endpoint() string {
	return strings.TrimRight(c.BaseURL, "/") + "/latest"
}
