package azuredevops

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"

	"github.com/ogmaresca/simple-ado/pkg/auth"
	"github.com/ogmaresca/simple-ado/pkg/logging"
	"github.com/ogmaresca/simple-ado/pkg/metrics"
)

const (
	contentTypeJSON      = "application/json"
	contentTypeJSONPatch = "application/json-patch+json"

	maxRetryAfterWait    = 15 * time.Second
	rateLimitSlowdown    = time.Second
	rateLimitRemainingLo = 10

	downloadChunkSize = 16 * 1024
)

// RetryPolicy controls how failed requests are retried
type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryPolicy retries up to 5 times with random exponential backoff capped at 10 seconds
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts:     5,
	InitialInterval: 500 * time.Millisecond,
	MaxInterval:     10 * time.Second,
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	exponential := backoff.NewExponentialBackOff()
	exponential.InitialInterval = p.InitialInterval
	exponential.MaxInterval = p.MaxInterval
	exponential.RandomizationFactor = 1
	exponential.MaxElapsedTime = 0
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return backoff.WithContext(backoff.WithMaxRetries(exponential, uint64(attempts-1)), ctx)
}

// Endpoint selects the base URL for an API call
type Endpoint struct {
	// ProjectID is added to the path when set
	ProjectID string
	// Subdomain is inserted before visualstudio.com when set
	Subdomain string
	// NoDefaultCollection omits the /DefaultCollection path prefix
	NoDefaultCollection bool
	// Internal uses the internal /_api path instead of /_apis
	Internal bool
}

// HTTPClient makes the actual calls to Azure Devops. It is safe for concurrent use.
type HTTPClient struct {
	tenant       string
	auth         auth.Authenticator
	userAgent    string
	extraHeaders map[string]string
	client       *http.Client
	retry        RetryPolicy
	log          *log.Entry

	mutex     sync.Mutex
	notBefore time.Time
	now       func() time.Time
	sleep     func(ctx context.Context, d time.Duration) error
}

func newHTTPClient(tenant string, authenticator auth.Authenticator, o *options) *HTTPClient {
	return &HTTPClient{
		tenant:       tenant,
		auth:         authenticator,
		userAgent:    "simple_ado/" + o.userAgent,
		extraHeaders: o.extraHeaders,
		client:       o.httpClient,
		retry:        o.retry,
		log:          logging.Child(o.log, "http"),
		now:          time.Now,
		sleep:        sleepContext,
	}
}

// Tenant returns the Azure Devops organization this client calls
func (c *HTTPClient) Tenant() string {
	return c.tenant
}

// APIEndpoint returns the base URL for most API calls
func (c *HTTPClient) APIEndpoint(endpoint Endpoint) string {
	url := "https://" + c.tenant + "."
	if endpoint.Subdomain != "" {
		url += endpoint.Subdomain + "."
	}
	url += "visualstudio.com"
	if !endpoint.NoDefaultCollection {
		url += "/DefaultCollection"
	}
	if endpoint.ProjectID != "" {
		url += "/" + endpoint.ProjectID
	}
	if endpoint.Internal {
		url += "/_api"
	} else {
		url += "/_apis"
	}
	return url
}

// GraphEndpoint returns the base URL for graph API calls
func (c *HTTPClient) GraphEndpoint() string {
	return "https://vssps.dev.azure.com/" + c.tenant + "/_apis"
}

// AuditEndpoint returns the base URL for audit API calls
func (c *HTTPClient) AuditEndpoint() string {
	return "https://auditservice.dev.azure.com/" + c.tenant + "/_apis"
}

type requestOptions struct {
	headers     map[string]string
	noAccept    bool
	noRedirects bool
}

// RequestOption customizes a single request
type RequestOption func(*requestOptions)

// WithHeader adds a header to a single request
func WithHeader(name string, value string) RequestOption {
	return func(o *requestOptions) {
		if o.headers == nil {
			o.headers = map[string]string{}
		}
		o.headers[name] = value
	}
}

// WithoutAcceptJSON stops the Accept: application/json header from being sent
func WithoutAcceptJSON() RequestOption {
	return func(o *requestOptions) {
		o.noAccept = true
	}
}

// WithoutRedirects returns redirect responses instead of following them
func WithoutRedirects() RequestOption {
	return func(o *requestOptions) {
		o.noRedirects = true
	}
}

type request struct {
	method      string
	url         string
	body        []byte
	contentType string
	// retryStatus also retries 429 and 5xx responses
	retryStatus bool
	options     requestOptions
}

// Get issues a GET request. GET requests are retried on connection failures, 429 and 5xx responses.
func (c *HTTPClient) Get(ctx context.Context, url string, opts ...RequestOption) (*http.Response, error) {
	// The Accept header is left to the caller for GET requests
	opts = append([]RequestOption{WithoutAcceptJSON()}, opts...)
	return c.do(ctx, c.newRequest(http.MethodGet, url, nil, "", opts), true)
}

// Post issues a POST request with body encoded as JSON. A nil body sends no content.
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}, opts ...RequestOption) (*http.Response, error) {
	return c.doJSON(ctx, http.MethodPost, url, body, contentTypeJSON, opts)
}

// Patch issues a PATCH request with body encoded as JSON
func (c *HTTPClient) Patch(ctx context.Context, url string, body interface{}, opts ...RequestOption) (*http.Response, error) {
	return c.doJSON(ctx, http.MethodPatch, url, body, contentTypeJSON, opts)
}

// Put issues a PUT request with body encoded as JSON
func (c *HTTPClient) Put(ctx context.Context, url string, body interface{}, opts ...RequestOption) (*http.Response, error) {
	return c.doJSON(ctx, http.MethodPut, url, body, contentTypeJSON, opts)
}

// Delete issues a DELETE request
func (c *HTTPClient) Delete(ctx context.Context, url string, opts ...RequestOption) (*http.Response, error) {
	return c.do(ctx, c.newRequest(http.MethodDelete, url, nil, "", opts), false)
}

// PostOperations issues a POST request with a JSON patch document
func (c *HTTPClient) PostOperations(ctx context.Context, url string, operations []PatchOperation, opts ...RequestOption) (*http.Response, error) {
	return c.doJSON(ctx, http.MethodPost, url, operations, contentTypeJSONPatch, opts)
}

// PatchOperations issues a PATCH request with a JSON patch document
func (c *HTTPClient) PatchOperations(ctx context.Context, url string, operations []PatchOperation, opts ...RequestOption) (*http.Response, error) {
	return c.doJSON(ctx, http.MethodPatch, url, operations, contentTypeJSONPatch, opts)
}

// PostFile POSTs the raw contents of the file at path
func (c *HTTPClient) PostFile(ctx context.Context, url string, path string, opts ...RequestOption) (*http.Response, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return c.do(ctx, c.newRequest(http.MethodPost, url, content, contentTypeJSON, opts), false)
}

func (c *HTTPClient) doJSON(ctx context.Context, method string, url string, body interface{}, contentType string, opts []RequestOption) (*http.Response, error) {
	var content []byte
	if body != nil {
		var err error
		content, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding %s request body for %s: %w", method, url, err)
		}
	}
	return c.do(ctx, c.newRequest(method, url, content, contentType, opts), false)
}

func (c *HTTPClient) newRequest(method string, url string, body []byte, contentType string, opts []RequestOption) *request {
	r := &request{method: method, url: url, body: body, contentType: contentType}
	for _, opt := range opts {
		opt(&r.options)
	}
	return r
}

func (c *HTTPClient) do(ctx context.Context, r *request, retryStatus bool) (*http.Response, error) {
	r.retryStatus = retryStatus

	var response *http.Response
	operation := func() error {
		var err error
		response, err = c.attempt(ctx, r)
		if err != nil {
			if isConnectionFailure(ctx, err) {
				return err
			}
			return backoff.Permanent(err)
		}
		if r.retryStatus && isRetryableStatus(response.StatusCode) {
			httpErr := NewHTTPError(response)
			response.Body.Close()
			return httpErr
		}
		return nil
	}
	notify := func(err error, wait time.Duration) {
		metrics.ObserveRetry(r.method)
		c.log.Debugf("Retrying %s %s in %s: %s", r.method, r.url, wait, err.Error())
	}

	if err := backoff.RetryNotify(operation, c.retry.backOff(ctx), notify); err != nil {
		return nil, err
	}
	return response, nil
}

func (c *HTTPClient) attempt(ctx context.Context, r *request) (*http.Response, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	httpRequest, err := http.NewRequestWithContext(ctx, r.method, r.url, body)
	if err != nil {
		return nil, fmt.Errorf("creating %s request for %s: %w", r.method, r.url, err)
	}

	if err := c.setHeaders(ctx, httpRequest, r); err != nil {
		return nil, err
	}

	client := c.client
	if r.options.noRedirects {
		noRedirectClient := *c.client
		noRedirectClient.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
		client = &noRedirectClient
	}

	c.log.Debugf("%s %s", r.method, r.url)
	start := time.Now()
	response, err := client.Do(httpRequest)
	if err != nil {
		metrics.ObserveRequest(r.method, 0, time.Since(start))
		return nil, err
	}
	metrics.ObserveRequest(r.method, response.StatusCode, time.Since(start))
	if response.Request == nil {
		response.Request = httpRequest
	}

	c.trackRateLimit(response)

	return response, nil
}

func (c *HTTPClient) setHeaders(ctx context.Context, httpRequest *http.Request, r *request) error {
	httpRequest.Header.Set("User-Agent", c.userAgent)
	if !r.options.noAccept {
		httpRequest.Header.Set("Accept", contentTypeJSON)
	}
	if r.contentType != "" && r.body != nil {
		httpRequest.Header.Set("Content-Type", r.contentType)
	}

	authorization, err := c.auth.AuthorizationHeader(ctx)
	if err != nil {
		return fmt.Errorf("getting authorization header: %w", err)
	}
	httpRequest.Header.Set("Authorization", authorization)

	for name, value := range c.extraHeaders {
		httpRequest.Header.Set(name, value)
	}
	for name, value := range r.options.headers {
		httpRequest.Header.Set(name, value)
	}
	return nil
}

// wait blocks until the rate limit window has passed
func (c *HTTPClient) wait(ctx context.Context) error {
	c.mutex.Lock()
	remaining := c.notBefore.Sub(c.now())
	if c.notBefore.IsZero() || remaining <= 0 {
		c.notBefore = time.Time{}
		c.mutex.Unlock()
		return nil
	}
	c.mutex.Unlock()

	metrics.ObserveRateLimitWait()
	c.log.Debugf("Sleeping for %s before issuing next request", remaining)
	return c.sleep(ctx, remaining)
}

func (c *HTTPClient) trackRateLimit(response *http.Response) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if retryAfter := parseRetryAfter(response.Header); retryAfter != nil {
		c.notBefore = c.now().Add(minDuration(*retryAfter, maxRetryAfterWait))
		return
	}

	if remaining, err := strconv.Atoi(response.Header.Get("X-RateLimit-Remaining")); err == nil && remaining < rateLimitRemainingLo {
		c.notBefore = c.now().Add(rateLimitSlowdown)
		return
	}

	c.notBefore = time.Time{}
}

// ValidateResponse returns an HTTPError if the response does not have a 2xx status code.
// The body is closed on error and left open otherwise.
func (c *HTTPClient) ValidateResponse(response *http.Response) error {
	c.log.Debug("Validating response from Azure Devops")
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		defer response.Body.Close()
		return NewHTTPError(response)
	}
	return nil
}

// CheckResponse validates the response and discards its body
func (c *HTTPClient) CheckResponse(response *http.Response) error {
	if err := c.ValidateResponse(response); err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, response.Body)
	return response.Body.Close()
}

// DecodeResponse validates the response and decodes its JSON body into out
func (c *HTTPClient) DecodeResponse(response *http.Response, out interface{}) error {
	if err := c.ValidateResponse(response); err != nil {
		return err
	}
	defer response.Body.Close()

	c.log.Debug("Decoding response from Azure Devops")
	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("%w from %s: %s", ErrInvalidResponse, response.Request.URL.Path, err.Error())
	}
	return nil
}

// DownloadToFile streams a successful response body to outputPath.
// progress, if set, is called after every chunk with the bytes downloaded and the total size (0 if unknown).
func (c *HTTPClient) DownloadToFile(response *http.Response, outputPath string, progress func(downloaded int64, total int64)) error {
	if err := c.ValidateResponse(response); err != nil {
		return fmt.Errorf("failed to fetch file: %w", err)
	}
	defer response.Body.Close()

	output, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outputPath, err)
	}
	defer output.Close()

	total := response.ContentLength
	if total < 0 {
		total = 0
	}

	var downloaded int64
	buffer := make([]byte, downloadChunkSize)
	for {
		n, readErr := response.Body.Read(buffer)
		if n > 0 {
			if _, err := output.Write(buffer[:n]); err != nil {
				return fmt.Errorf("writing %s: %w", outputPath, err)
			}
			downloaded += int64(n)
			if progress != nil {
				progress(downloaded, total)
			}
			if total != 0 {
				c.log.Infof("Download progress: %d%%", downloaded*100/total)
			}
		}
		if readErr == io.EOF {
			break
		} else if readErr != nil {
			return fmt.Errorf("downloading to %s: %w", outputPath, readErr)
		}
	}

	return output.Close()
}

// extractValue decodes a {"count": n, "value": ...} envelope and decodes the value into out
func (c *HTTPClient) extractValue(response *http.Response, out interface{}) error {
	raw := map[string]json.RawMessage{}
	if err := c.DecodeResponse(response, &raw); err != nil {
		return err
	}
	c.log.Debug("Extracting value")
	value, exists := raw["value"]
	if !exists {
		return fmt.Errorf("%w: %s", ErrMissingValue, response.Request.URL.Path)
	}
	if err := json.Unmarshal(value, out); err != nil {
		return fmt.Errorf("%w from %s: %s", ErrInvalidResponse, response.Request.URL.Path, err.Error())
	}
	return nil
}

// decodeValue decodes a list envelope and returns its items
func decodeValue[T any](c *HTTPClient, response *http.Response) ([]T, error) {
	var values []T
	if err := c.extractValue(response, &values); err != nil {
		return nil, err
	}
	return values, nil
}

// getJSON issues a GET request and decodes the response into out
func (c *HTTPClient) getJSON(ctx context.Context, url string, out interface{}, opts ...RequestOption) error {
	response, err := c.Get(ctx, url, opts...)
	if err != nil {
		return err
	}
	return c.DecodeResponse(response, out)
}

// getValue issues a GET request and extracts the value of the list envelope
func getValue[T any](ctx context.Context, c *HTTPClient, url string, opts ...RequestOption) ([]T, error) {
	response, err := c.Get(ctx, url, opts...)
	if err != nil {
		return nil, err
	}
	return decodeValue[T](c, response)
}

// visitPages issues GET requests following the X-MS-ContinuationToken header, passing each page to visit.
// Iteration stops when visit returns false or no token is returned.
func visitPages[T any](ctx context.Context, c *HTTPClient, baseURL string, visit func(page []T) bool) error {
	requestURL := baseURL
	for {
		response, err := c.Get(ctx, requestURL)
		if err != nil {
			return err
		}
		continuationToken := continuationTokenHeader(response)
		page, err := decodeValue[T](c, response)
		if err != nil {
			return err
		}
		if !visit(page) || continuationToken == "" {
			return nil
		}
		requestURL = baseURL + "&continuationToken=" + url.QueryEscape(continuationToken)
	}
}

// getAllPages collects every page of a header-paginated list
func getAllPages[T any](ctx context.Context, c *HTTPClient, baseURL string) ([]T, error) {
	var all []T
	err := visitPages(ctx, c, baseURL, func(page []T) bool {
		all = append(all, page...)
		return true
	})
	return all, err
}

func continuationTokenHeader(response *http.Response) string {
	// Header.Get canonicalizes, so this covers both casings Azure Devops uses
	return response.Header.Get("X-MS-ContinuationToken")
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= 500
}

// isConnectionFailure reports whether err is a transient network failure worth retrying
func isConnectionFailure(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var recordErr tls.RecordHeaderError
	if errors.As(err, &recordErr) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNABORTED) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func minDuration(a time.Duration, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
