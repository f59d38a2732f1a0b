// Package edinet is the client for the EDINET v2 disclosure API: the daily
// document listing and XBRL archive download endpoints.
package edinet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/aomi-research/edinet-cli/internal/model"
	"github.com/aomi-research/edinet-cli/internal/resilience"
)

// DefaultBaseURL is the public EDINET v2 API endpoint.
const DefaultBaseURL = "https://api.edinet-fsa.go.jp/api/v2"

// Document archive types on the download endpoint.
const (
	archiveTypeMain = "1"
	archiveTypeXBRL = "5"
	listTypeFull    = "2"
)

// Options configures the EDINET client.
type Options struct {
	BaseURL    string
	APIKey     string
	UserAgent  string
	Timeout    time.Duration
	RatePerSec float64
	Retry      resilience.RetryConfig
}

// Client calls the EDINET API with rate limiting and transient-error retry.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	userAgent  string
	limiter    *rate.Limiter
	retry      resilience.RetryConfig
}

// listResponse is the wire shape of documents.json.
type listResponse struct {
	Results []model.Document `json:"results"`
}

// New creates an EDINET client. The API key is required by the service for
// every request.
func New(opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, eris.New("edinet: missing API key")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "edinet-cli/1.0"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = 2
	}
	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		baseURL:    opts.BaseURL,
		apiKey:     opts.APIKey,
		userAgent:  opts.UserAgent,
		limiter:    rate.NewLimiter(rate.Limit(opts.RatePerSec), 1),
		retry:      opts.Retry,
	}, nil
}

// ListDocuments returns the filings disclosed on the given date. A date
// with no filings is a normal empty response, not an error.
func (c *Client) ListDocuments(ctx context.Context, date time.Time) ([]model.Document, error) {
	q := url.Values{}
	q.Set("date", date.Format("2006-01-02"))
	q.Set("type", listTypeFull)
	q.Set("Subscription-Key", c.apiKey)
	endpoint := fmt.Sprintf("%s/documents.json?%s", c.baseURL, q.Encode())

	body, err := resilience.DoVal(ctx, c.retry, "edinet.list_documents", func(ctx context.Context) ([]byte, error) {
		return c.get(ctx, endpoint)
	})
	if err != nil {
		return nil, eris.Wrapf(err, "edinet: list documents for %s", date.Format("2006-01-02"))
	}

	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, eris.Wrap(err, "edinet: decode document list")
	}

	zap.L().Debug("edinet: listed documents",
		zap.String("date", date.Format("2006-01-02")),
		zap.Int("count", len(resp.Results)),
	)
	return resp.Results, nil
}

// DownloadXBRL fetches the XBRL archive for a filing and writes it to
// destPath, returning the byte count.
func (c *Client) DownloadXBRL(ctx context.Context, docID, destPath string) (int64, error) {
	return c.download(ctx, docID, archiveTypeXBRL, destPath)
}

// DownloadMain fetches the main submitted document archive for a filing.
func (c *Client) DownloadMain(ctx context.Context, docID, destPath string) (int64, error) {
	return c.download(ctx, docID, archiveTypeMain, destPath)
}

func (c *Client) download(ctx context.Context, docID, archiveType, destPath string) (int64, error) {
	q := url.Values{}
	q.Set("type", archiveType)
	q.Set("Subscription-Key", c.apiKey)
	endpoint := fmt.Sprintf("%s/documents/%s?%s", c.baseURL, docID, q.Encode())

	body, err := resilience.DoVal(ctx, c.retry, "edinet.download", func(ctx context.Context) ([]byte, error) {
		return c.get(ctx, endpoint)
	})
	if err != nil {
		return 0, eris.Wrapf(err, "edinet: download %s type %s", docID, archiveType)
	}

	if err := os.WriteFile(destPath, body, 0o644); err != nil {
		return 0, eris.Wrapf(err, "edinet: write %s", destPath)
	}
	return int64(len(body)), nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "rate limiter wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "read response body")
	}

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("http %d from %s", resp.StatusCode, req.URL.Path)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}

	return body, nil
}
