// Package feed retrieves and parses the JSON market-data feed.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/text/encoding/htmlindex"
)

const (
	// DefaultURL is the CME FedWatch Tool data feed.
	DefaultURL = "https://www.cmegroup.com/CmeWS/mvc/InterestRates/FedWatchToolData"

	// DefaultUserAgent is sent with every feed request.
	DefaultUserAgent = "SecLists FedWatch Notifier"

	// maxBodySize bounds how much of a response is read.
	maxBodySize = 16 << 20
)

// ErrInvalidJSON is returned when the response body is not a JSON document.
var ErrInvalidJSON = errors.New("invalid json")

// Client is an HTTP client for the feed.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new feed client. The http.Client's Timeout bounds each fetch.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		userAgent:  DefaultUserAgent,
	}
}

// WithUserAgent sets a custom User-Agent header.
func (c *Client) WithUserAgent(userAgent string) *Client {
	if userAgent != "" {
		c.userAgent = userAgent
	}
	return c
}

// Fetch retrieves url and parses the body as JSON.
func (c *Client) Fetch(ctx context.Context, url string) (gjson.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return gjson.Result{}, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := decodeBody(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return gjson.Result{}, err
	}

	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("decoding response: %w (data: %s)", ErrInvalidJSON, truncate(body, 100))
	}

	return gjson.ParseBytes(body), nil
}

// decodeBody reads r and transcodes it to UTF-8 using the charset declared
// in contentType. A missing or unparseable header means UTF-8.
func decodeBody(r io.Reader, contentType string) ([]byte, error) {
	r = io.LimitReader(r, maxBodySize)

	label := charsetOf(contentType)
	if label != "" && label != "utf-8" && label != "utf8" {
		enc, err := htmlindex.Get(label)
		if err != nil {
			return nil, fmt.Errorf("unsupported charset %q: %w", label, err)
		}
		r = enc.NewDecoder().Reader(r)
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return body, nil
}

func charsetOf(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(params["charset"]))
}

// truncate truncates a byte slice to a maximum length for error messages.
func truncate(data []byte, maxLen int) string {
	if len(data) <= maxLen {
		return string(data)
	}
	return string(data[:maxLen]) + "..."
}
