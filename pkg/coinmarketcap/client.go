// Package coinmarketcap provides a client for the CoinMarketCap metadata API.
package coinmarketcap

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const defaultBaseURL = "https://pro-api.coinmarketcap.com"

// ErrNotFound is returned when the response carries no record for the symbol.
var ErrNotFound = errors.New("coinmarketcap: no metadata for symbol")

// Client retrieves static coin metadata.
type Client interface {
	Info(ctx context.Context, symbol string) (*CoinInfo, error)
}

// CoinInfo is the metadata record for one coin. Raw keeps the full record as
// returned by the API.
type CoinInfo struct {
	ID          int                 `json:"id"`
	Name        string              `json:"name"`
	Symbol      string              `json:"symbol"`
	Slug        string              `json:"slug"`
	Category    string              `json:"category"`
	Description string              `json:"description"`
	Logo        string              `json:"logo"`
	DateAdded   string              `json:"date_added"`
	DateLaunch  string              `json:"date_launched"`
	Tags        []string            `json:"tags"`
	Platform    *Platform           `json:"platform"`
	URLs        map[string][]string `json:"urls"`
	Raw         json.RawMessage     `json:"-"`
}

// Platform is the chain a token is issued on.
type Platform struct {
	Name         string `json:"name"`
	Symbol       string `json:"symbol"`
	TokenAddress string `json:"token_address"`
}

type infoResponse struct {
	Data   map[string][]json.RawMessage `json:"data"`
	Status struct {
		ErrorCode    int    `json:"error_code"`
		ErrorMessage string `json:"error_message"`
	} `json:"status"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a CoinMarketCap client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Info returns the first metadata record for symbol. Symbols are not unique,
// so the API answers with a list; the first entry is taken.
func (c *httpClient) Info(ctx context.Context, symbol string) (*CoinInfo, error) {
	symbol = cases.Upper(language.Und).String(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, eris.New("coinmarketcap: empty symbol")
	}

	reqURL := c.baseURL + "/v2/cryptocurrency/info?symbol=" + url.QueryEscape(symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "coinmarketcap: create request")
	}
	req.Header.Set("X-CMC_PRO_API_KEY", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "coinmarketcap: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "coinmarketcap: read response")
	}

	var parsed infoResponse
	parseErr := json.Unmarshal(body, &parsed)

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusBadRequest && parseErr == nil && invalidSymbol(parsed.Status.ErrorMessage) {
			return nil, eris.Wrapf(ErrNotFound, "coinmarketcap: symbol %s: %s", symbol, parsed.Status.ErrorMessage)
		}
		return nil, eris.Errorf("coinmarketcap: unexpected status %d: %s", resp.StatusCode, string(body))
	}
	if parseErr != nil {
		return nil, eris.Wrap(parseErr, "coinmarketcap: unmarshal response")
	}

	records := parsed.Data[symbol]
	if len(records) == 0 {
		return nil, eris.Wrapf(ErrNotFound, "coinmarketcap: symbol %s", symbol)
	}

	var info CoinInfo
	if err := json.Unmarshal(records[0], &info); err != nil {
		return nil, eris.Wrap(err, "coinmarketcap: unmarshal record")
	}
	info.Raw = records[0]

	return &info, nil
}

// invalidSymbol reports whether a 400 message rejects the symbol parameter,
// e.g. `Invalid value for "symbol": "NOPE"`.
func invalidSymbol(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "invalid value") && strings.Contains(msg, `"symbol"`)
}
