package tabular

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/storeform/storesync"
)

// Request headers carrying the static credentials. Provisioning of the
// access key is out of scope; it is read once from configuration.
const (
	HeaderAppID     = "X-App-Id"
	HeaderAccessKey = "X-Access-Key"
)

// envelope is the uniform request body of the tabular store API. Find uses
// Selector and empty Rows; Add and Edit carry the rows to write plus a
// locale property; Delete carries rows holding only primary-key values.
type envelope struct {
	Action     string          `json:"Action"`
	Properties map[string]any  `json:"Properties,omitempty"`
	Rows       []storesync.Row `json:"Rows"`
	Selector   string          `json:"Selector,omitempty"`
}

// HTTPClient implements storesync.TableClient against the remote tabular
// store. Calls are single synchronous round-trips: any non-success status is
// surfaced as REMOTE_CALL_FAILED and nothing is retried, because Add is not
// idempotent at this layer.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	appID      string
	accessKey  string
	locale     string
	logger     zerolog.Logger
}

// HTTPOption configures an HTTPClient
type HTTPOption func(*HTTPClient)

// WithHTTPClient overrides the underlying http.Client
func WithHTTPClient(h *http.Client) HTTPOption {
	return func(c *HTTPClient) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithLogger sets the logger used for remote-call diagnostics
func WithLogger(logger zerolog.Logger) HTTPOption {
	return func(c *HTTPClient) {
		c.logger = logger
	}
}

// NewHTTPClient creates a client from the given configuration. Missing
// credentials or base URL are fatal construction errors.
func NewHTTPClient(cfg storesync.Config, opts ...HTTPOption) (*HTTPClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, storesync.NewConfigurationError("base URL (STORESYNC_BASE_URL) is not set")
	}

	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("tabular: invalid base URL: %w", err)
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = storesync.DefaultConfig.RequestTimeout
	}

	c := &HTTPClient{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: timeout},
		appID:      cfg.AppID,
		accessKey:  cfg.AccessKey,
		locale:     cfg.Locale,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Find returns the rows of table matching the selector expression.
func (c *HTTPClient) Find(ctx context.Context, table, selector string) ([]storesync.Row, error) {
	body, err := c.do(ctx, table, envelope{
		Action:   storesync.ActionFind.String(),
		Rows:     []storesync.Row{},
		Selector: selector,
	})
	if err != nil {
		return nil, err
	}
	return decodeRows(table, body)
}

// Add inserts rows, letting the remote store assign primary keys.
func (c *HTTPClient) Add(ctx context.Context, table string, rows []storesync.Row) ([]storesync.Row, error) {
	body, err := c.do(ctx, table, envelope{
		Action:     storesync.ActionAdd.String(),
		Properties: c.localeProperties(),
		Rows:       rows,
	})
	if err != nil {
		return nil, err
	}
	return decodeRows(table, body)
}

// Edit updates rows in place. Every row must carry the primary key.
func (c *HTTPClient) Edit(ctx context.Context, table string, rows []storesync.Row) (storesync.Row, error) {
	key := storesync.KeyColumn(table)
	for _, row := range rows {
		if valueString(row[key]) == "" {
			return nil, fmt.Errorf("tabular: edit on %s requires the %s column", table, key)
		}
	}

	body, err := c.do(ctx, table, envelope{
		Action:     storesync.ActionEdit.String(),
		Properties: c.localeProperties(),
		Rows:       rows,
	})
	if err != nil {
		return nil, err
	}
	return decodeRow(table, body)
}

// Delete removes the rows identified by the key rows.
func (c *HTTPClient) Delete(ctx context.Context, table string, keys []storesync.Row) (storesync.Row, error) {
	body, err := c.do(ctx, table, envelope{
		Action: storesync.ActionDelete.String(),
		Rows:   keys,
	})
	if err != nil {
		return nil, err
	}
	return decodeRow(table, body)
}

// DispatchBatch executes the requests in parallel and waits for all.
func (c *HTTPClient) DispatchBatch(ctx context.Context, reqs []storesync.BatchRequest) []storesync.BatchResult {
	return dispatchBatch(ctx, c, reqs)
}

func (c *HTTPClient) localeProperties() map[string]any {
	if c.locale == "" {
		return nil
	}
	return map[string]any{"locale": c.locale}
}

func (c *HTTPClient) do(ctx context.Context, table string, env envelope) ([]byte, error) {
	payload, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("tabular: encode %s request: %w", table, err)
	}

	endpoint := c.baseURL.JoinPath("tables", table)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderAppID, c.appID)
	req.Header.Set(HeaderAccessKey, c.accessKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, storesync.NewRemoteCallError(table, storesync.Action(env.Action), 0, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tabular: read %s response: %w", table, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := strings.TrimSpace(string(body))
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		rerr := storesync.NewRemoteCallError(table, storesync.Action(env.Action), resp.StatusCode, message)
		c.logger.Error().
			Str("table", table).
			Str("action", env.Action).
			Int("status", resp.StatusCode).
			Msg("Remote call failed")
		return nil, rerr
	}

	return body, nil
}

// decodeRows parses a response body as the table's record sequence. The API
// answers with a JSON array; a single object is tolerated.
func decodeRows(table string, body []byte) ([]storesync.Row, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []storesync.Row{}, nil
	}

	var rows []storesync.Row
	if err := json.Unmarshal(trimmed, &rows); err == nil {
		return rows, nil
	}

	var row storesync.Row
	if err := json.Unmarshal(trimmed, &row); err != nil {
		return nil, fmt.Errorf("tabular: decode %s response: %w", table, err)
	}
	return []storesync.Row{row}, nil
}

func decodeRow(table string, body []byte) (storesync.Row, error) {
	rows, err := decodeRows(table, body)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return storesync.Row{}, nil
	}
	return rows[0], nil
}
