// Package echo fetches public water system and violation records from the EPA
// ECHO SDWIS REST services.
package echo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/pws-advisor-service/internal/domain"
	"github.com/couchcryptid/pws-advisor-service/internal/observability"
)

const (
	systemsService    = "sdw_rest_services.get_systems"
	violationsService = "sdw_rest_services.get_violations"

	// maxErrorBody bounds how much of an upstream error body is kept.
	maxErrorBody = 4000
)

// ErrUpstreamStatus is returned when ECHO answers with a non-2xx status.
var ErrUpstreamStatus = errors.New("echo upstream status")

// Envelope paths tried in order; ECHO nests its arrays differently across
// endpoints and API versions.
var (
	systemsPaths    = []string{"Results.Systems", "Results", "systems"}
	violationsPaths = []string{"Results.Violations", "Violations", "violations"}
)

// Filter narrows a fetch to a state, county or single system.
type Filter struct {
	State  string
	County string
	PWSID  string
}

// Result is one fetch cycle: systems and violations fetched together.
type Result struct {
	Systems    []domain.SystemRecord
	Violations []domain.Violation
}

// Client queries ECHO for systems and violations.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *retryablehttp.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an ECHO client. retryMax is the number of retries on
// connection errors and 5xx responses; zero disables retrying.
func NewClient(baseURL, apiKey string, timeout time.Duration, retryMax int, metrics *observability.Metrics, logger *slog.Logger) *Client {
	rc := retryablehttp.NewClient()
	rc.HTTPClient.Timeout = timeout
	rc.RetryMax = retryMax
	rc.Logger = nil
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: rc,
		metrics:    metrics,
		logger:     logger,
	}
}

// Fetch retrieves systems and violations concurrently. Either request failing
// fails the whole cycle; no partial result is returned.
func (c *Client) Fetch(ctx context.Context, f Filter) (Result, error) {
	start := time.Now()

	var sysBody, vioBody string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		body, err := c.get(gctx, systemsService, f)
		sysBody = body
		return err
	})
	g.Go(func() error {
		body, err := c.get(gctx, violationsService, f)
		vioBody = body
		return err
	})

	err := g.Wait()
	c.metrics.EchoFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.EchoFetches.WithLabelValues("error").Inc()
		return Result{}, err
	}
	c.metrics.EchoFetches.WithLabelValues("success").Inc()

	res := Result{
		Systems:    domain.NormalizeSystems(extractRecords(sysBody, systemsPaths)),
		Violations: domain.NormalizeViolations(extractRecords(vioBody, violationsPaths)),
	}
	c.logger.Debug("echo fetch complete",
		"systems", len(res.Systems),
		"violations", len(res.Violations),
		"duration", time.Since(start),
	)
	return res, nil
}

func (c *Client) get(ctx context.Context, service string, f Filter) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.serviceURL(service, f), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s request: %w", service, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", fmt.Errorf("%s: %w %d: %s", service, ErrUpstreamStatus, resp.StatusCode, body)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%s read body: %w", service, err)
	}
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("%s: non-JSON response from upstream", service)
	}
	return string(body), nil
}

func (c *Client) serviceURL(service string, f Filter) string {
	params := url.Values{"output": {"JSON"}}
	if f.State != "" {
		params.Set("state", f.State)
	}
	if f.County != "" {
		params.Set("county", f.County)
	}
	if f.PWSID != "" {
		// Endpoints disagree on the parameter name.
		params.Set("pwsid", f.PWSID)
		params.Set("p_pwsid", f.PWSID)
	}
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}
	return c.baseURL + "/" + service + "?" + params.Encode()
}

// extractRecords returns the objects of the first path that holds an array.
// Non-object elements are skipped; no array at any path yields nil.
func extractRecords(body string, paths []string) []domain.RawRecord {
	for _, p := range paths {
		arr := gjson.Get(body, p)
		if !arr.IsArray() {
			continue
		}
		var out []domain.RawRecord
		for _, el := range arr.Array() {
			if !el.IsObject() {
				continue
			}
			if m, ok := el.Value().(map[string]any); ok {
				out = append(out, domain.RawRecord(m))
			}
		}
		return out
	}
	return nil
}
