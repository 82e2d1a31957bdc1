package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/de-tools/cloudview-alerts/pkg/models/api"
	"github.com/de-tools/cloudview-alerts/pkg/models/domain"
	"github.com/rs/zerolog"
)

const (
	DefaultPageSize = 50
	// DefaultWindow is the trailing eight hour lookback sent with every request.
	DefaultWindow  = "evaluatedOn:now-8h...now-1s"
	DefaultTimeout = 60 * time.Second

	EndpointEvaluations = "evaluations"
	EndpointResources   = "resources"

	apiPrefix        = "/cloudview-api/rest/v1"
	maxErrorBodySize = 512
)

type Config struct {
	BaseURL     string
	Credentials domain.Credentials
	PageSize    int
	Timeout     time.Duration
	// HTTPClient overrides the default client; its transport is wrapped with request logging.
	HTTPClient *http.Client
}

type Client struct {
	baseURL     string
	credentials domain.Credentials
	pageSize    int
	httpClient  *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: api base url is empty", domain.ErrConfig)
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("%w: invalid api base url: %v", domain.ErrConfig, err)
	}
	if !cfg.Credentials.Complete() {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrAuth)
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	if cfg.HTTPClient != nil {
		c := *cfg.HTTPClient
		httpClient = &c
		if httpClient.Timeout == 0 {
			httpClient.Timeout = cfg.Timeout
		}
	}
	httpClient.Transport = NewLoggingTransport(httpClient.Transport)

	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		credentials: cfg.Credentials,
		pageSize:    cfg.PageSize,
		httpClient:  httpClient,
	}, nil
}

// ListEvaluations returns one page of control evaluations for an account.
func (c *Client) ListEvaluations(ctx context.Context, cloud, accountID string, pageNo int) (*api.EvaluationPage, error) {
	path := fmt.Sprintf("%s/%s/evaluations/%s", apiPrefix, url.PathEscape(cloud), url.PathEscape(accountID))

	var page api.EvaluationPage
	if err := c.get(ctx, path, pageNo, &page); err != nil {
		return nil, upstreamError(err, EndpointEvaluations, accountID, "", pageNo)
	}
	return &page, nil
}

// ListControlResources returns one page of resources evaluated against a control.
func (c *Client) ListControlResources(
	ctx context.Context,
	cloud, accountID, controlID string,
	pageNo int,
) (*api.ResourcePage, error) {
	path := fmt.Sprintf("%s/%s/evaluations/%s/resources/%s",
		apiPrefix, url.PathEscape(cloud), url.PathEscape(accountID), url.PathEscape(controlID))

	var page api.ResourcePage
	if err := c.get(ctx, path, pageNo, &page); err != nil {
		return nil, upstreamError(err, EndpointResources, accountID, controlID, pageNo)
	}
	return &page, nil
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.code, e.body)
}

func (c *Client) get(ctx context.Context, path string, pageNo int, out interface{}) error {
	logger := zerolog.Ctx(ctx)

	query := url.Values{}
	query.Set("filter", DefaultWindow)
	query.Set("pageNo", strconv.Itoa(pageNo))
	query.Set("pageSize", strconv.Itoa(c.pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.credentials.Username, c.credentials.Password)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Requested-With", "cloudview-alerts")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			logger.Warn().Err(err).Msg("failed to close response body")
		}
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &statusError{code: resp.StatusCode, body: excerpt(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func upstreamError(err error, endpoint, accountID, controlID string, pageNo int) error {
	upstream := &domain.UpstreamRequestError{
		Endpoint:  endpoint,
		AccountID: accountID,
		ControlID: controlID,
		Page:      pageNo,
		Err:       err,
	}
	if se, ok := err.(*statusError); ok {
		upstream.StatusCode = se.code
		upstream.Body = se.body
		upstream.Err = nil
	}
	return upstream
}

func excerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBodySize {
		cut := maxErrorBodySize
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + "..."
	}
	return s
}
