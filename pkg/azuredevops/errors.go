package azuredevops

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

var (
	// ErrInvalidResponse is returned when a response body could not be decoded as JSON
	ErrInvalidResponse = errors.New("the response did not contain JSON")

	// ErrMissingValue is returned when a list response has no "value" key
	ErrMissingValue = errors.New("the response was invalid (did not contain a value)")

	// ErrInvalidArgument is returned when a call is made with arguments Azure Devops would reject
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrIdentityNotFound is returned when an identity search has no results
	ErrIdentityNotFound = errors.New("could not find identity")

	// ErrAmbiguousIdentity is returned when an identity search has more than one result
	ErrAmbiguousIdentity = errors.New("found multiple identities")

	// ErrOutputExists is returned when a download would overwrite an existing file
	ErrOutputExists = errors.New("the output path already exists")
)

// maxErrorText limits how much of a response body is kept on an HTTPError
const maxErrorText = 64 * 1024

// HTTPError is returned when an HTTP response does not return a 2xx status code
type HTTPError struct {
	StatusCode int

	Method string

	Endpoint string

	// Text is the raw response body
	Text string

	// APIError is the parsed body, when Azure Devops returned one
	APIError *APIError

	RetryAfter *time.Duration
}

// NewHTTPError returns an HTTPError. The response body is consumed.
func NewHTTPError(response *http.Response) *HTTPError {
	httpError := &HTTPError{
		StatusCode: response.StatusCode,
		RetryAfter: parseRetryAfter(response.Header),
	}

	if response.Request != nil {
		httpError.Method = response.Request.Method
		httpError.Endpoint = response.Request.URL.String()
	}

	if response.Body != nil {
		body, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorText))
		httpError.Text = string(body)

		apiError := new(APIError)
		if err := json.Unmarshal(body, apiError); err == nil && apiError.Message != "" {
			httpError.APIError = apiError
		}
	}

	return httpError
}

func parseRetryAfter(header http.Header) *time.Duration {
	retryAfterStr := header.Get("Retry-After")
	if retryAfterStr == "" {
		return nil
	}
	seconds, err := strconv.Atoi(retryAfterStr)
	if err != nil || seconds < 0 {
		return nil
	}
	retryAfter := time.Duration(seconds) * time.Second
	return &retryAfter
}

func (err HTTPError) Error() string {
	message := fmt.Sprintf("Azure Devops returned HTTP status code %d for %s %s", err.StatusCode, err.Method, err.Endpoint)
	if err.APIError != nil {
		return message + ": " + err.APIError.Message
	} else if err.Text != "" {
		return message + ": " + err.Text
	}
	return message
}

// IsHTTPStatus returns true if err is an HTTPError with the given status code
func IsHTTPStatus(err error, statusCode int) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == statusCode
}
