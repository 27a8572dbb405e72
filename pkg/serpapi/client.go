// Package serpapi is a client for the SerpAPI Google travel and local
// search engines.
package serpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://serpapi.com"
	defaultRate    = 5
)

// Client searches SerpAPI engines.
type Client interface {
	Flights(ctx context.Context, req FlightsRequest) (*FlightsResponse, error)
	Hotels(ctx context.Context, req HotelsRequest) (*HotelsResponse, error)
	Local(ctx context.Context, req LocalRequest) (*LocalResponse, error)
	Events(ctx context.Context, req EventsRequest) (*EventsResponse, error)
}

// Error is a non-200 response from SerpAPI.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("serpapi: status %d: %s", e.StatusCode, e.Message)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit caps requests per second. Zero or less disables the limit.
func WithRateLimit(perSec float64) Option {
	return func(c *httpClient) {
		if perSec <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSec), 1)
	}
}

// WithCurrency sets the currency used for prices.
func WithCurrency(cur string) Option {
	return func(c *httpClient) {
		if cur != "" {
			c.currency = cur
		}
	}
}

type httpClient struct {
	apiKey   string
	baseURL  string
	currency string
	http     *http.Client
	limiter  *rate.Limiter
}

// NewClient creates a SerpAPI client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:   apiKey,
		baseURL:  defaultBaseURL,
		currency: "USD",
		http: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(defaultRate), 1),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Flights(ctx context.Context, req FlightsRequest) (*FlightsResponse, error) {
	q := url.Values{}
	q.Set("engine", "google_flights")
	q.Set("departure_id", req.DepartureID)
	q.Set("arrival_id", req.ArrivalID)
	q.Set("outbound_date", req.OutboundDate)
	if req.ReturnDate != "" {
		q.Set("return_date", req.ReturnDate)
		q.Set("type", "1")
	} else {
		q.Set("type", "2")
	}
	q.Set("adults", strconv.Itoa(max(req.Adults, 1)))

	var out FlightsResponse
	if err := c.search(ctx, q, &out); err != nil {
		return nil, eris.Wrapf(err, "serpapi: flights %s-%s", req.DepartureID, req.ArrivalID)
	}
	return &out, nil
}

func (c *httpClient) Hotels(ctx context.Context, req HotelsRequest) (*HotelsResponse, error) {
	q := url.Values{}
	q.Set("engine", "google_hotels")
	q.Set("q", req.Query)
	q.Set("check_in_date", req.CheckIn)
	q.Set("check_out_date", req.CheckOut)
	q.Set("adults", strconv.Itoa(max(req.Adults, 1)))
	if req.MaxPrice > 0 {
		q.Set("max_price", strconv.Itoa(req.MaxPrice))
	}
	if req.SortBy != "" {
		q.Set("sort_by", req.SortBy)
	}

	var out HotelsResponse
	if err := c.search(ctx, q, &out); err != nil {
		return nil, eris.Wrapf(err, "serpapi: hotels %q", req.Query)
	}
	return &out, nil
}

func (c *httpClient) Local(ctx context.Context, req LocalRequest) (*LocalResponse, error) {
	q := url.Values{}
	q.Set("engine", "google_local")
	q.Set("q", req.Query)
	q.Set("location", req.Location)
	q.Set("google_domain", "google.com")

	var out LocalResponse
	if err := c.search(ctx, q, &out); err != nil {
		return nil, eris.Wrapf(err, "serpapi: local %q in %s", req.Query, req.Location)
	}
	return &out, nil
}

func (c *httpClient) Events(ctx context.Context, req EventsRequest) (*EventsResponse, error) {
	q := url.Values{}
	q.Set("engine", "google_events")
	q.Set("q", req.Query)
	if req.DateFilter != "" {
		q.Set("htichips", "date:"+req.DateFilter)
	}

	var out EventsResponse
	if err := c.search(ctx, q, &out); err != nil {
		return nil, eris.Wrapf(err, "serpapi: events %q", req.Query)
	}
	return &out, nil
}

// search performs GET /search.json and decodes the body into out.
func (c *httpClient) search(ctx context.Context, q url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "rate limit wait")
	}

	q.Set("api_key", c.apiKey)
	q.Set("hl", "en")
	q.Set("gl", "us")
	q.Set("currency", c.currency)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search.json?"+q.Encode(), nil)
	if err != nil {
		return eris.Wrap(err, "create request")
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return eris.Wrap(err, "send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response")
	}

	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		msg := string(body)
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return &Error{StatusCode: resp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "unmarshal response")
	}
	return nil
}
