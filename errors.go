package vkauth

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingClientID is returned when the OAuth client ID is not provided.
	ErrMissingClientID = errors.New("vkauth: missing client ID")

	// ErrMissingClientSecret is returned when the OAuth client secret is not provided.
	ErrMissingClientSecret = errors.New("vkauth: missing client secret")

	// ErrMissingProvider is returned when a strategy is constructed without a provider.
	ErrMissingProvider = errors.New("vkauth: missing provider")

	// ErrMissingVerify is returned when a strategy is constructed without a verify callback.
	ErrMissingVerify = errors.New("vkauth: missing verify callback")

	// ErrMissingAccessToken is returned when the request carries no access token
	// in the configured body or query fields.
	ErrMissingAccessToken = errors.New("vkauth: missing access token")

	// ErrFetchFailed is returned when the HTTP request to the provider fails.
	ErrFetchFailed = errors.New("vkauth: failed to fetch from provider")

	// ErrNilResponse is returned when the provider returns a nil response.
	ErrNilResponse = errors.New("vkauth: nil response from provider")

	// ErrRequestFailed is returned when the provider returns a non-OK status.
	ErrRequestFailed = errors.New("vkauth: request returned non-OK status")

	// ErrDecodeFailed is returned when decoding the provider response fails.
	ErrDecodeFailed = errors.New("vkauth: failed to decode response")

	// ErrProviderError is returned when the provider reports an application-level
	// error object in an otherwise successful HTTP response. Use errors.As with
	// *APIError to read the provider's message and code.
	ErrProviderError = errors.New("vkauth: provider returned an error")

	// ErrEmptyResponse is returned when the provider's response array is empty.
	ErrEmptyResponse = errors.New("vkauth: empty response from provider")
)

// APIError carries the error object reported by the VK API inside a 200
// response body. It is always joined with ErrProviderError.
type APIError struct {
	Message string
	Code    int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vkauth: provider error %d: %s", e.Code, e.Message)
}
