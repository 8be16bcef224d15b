package vkauth

import (
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"
)

// Option configures a provider.
type Option func(*options)

type options struct {
	httpClient *http.Client
	endpoint   *oauth2.Endpoint
}

// WithHTTPClient sets a custom HTTP client for provider requests.
// This is useful for testing with httptest servers or injecting
// custom transports (e.g., logging, retries).
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithEndpoint overrides the provider's OAuth2 authorization and token
// endpoints. Defaults to the provider's standard endpoints.
func WithEndpoint(endpoint oauth2.Endpoint) Option {
	return func(o *options) {
		o.endpoint = &endpoint
	}
}

// StrategyOption configures a Strategy.
type StrategyOption func(*Strategy)

// WithAccessTokenField sets the body/query field name the access token is
// read from. Defaults to "access_token".
func WithAccessTokenField(name string) StrategyOption {
	return func(s *Strategy) {
		s.accessField = name
	}
}

// WithRefreshTokenField sets the body/query field name the refresh token is
// read from. Defaults to "refresh_token".
func WithRefreshTokenField(name string) StrategyOption {
	return func(s *Strategy) {
		s.refreshField = name
	}
}

// WithAccessTokenExtractor replaces the default access token source chain
// (form body, then query) entirely.
func WithAccessTokenExtractor(ext Extractor) StrategyOption {
	return func(s *Strategy) {
		s.accessExtractor = &ext
	}
}

// WithRefreshTokenExtractor replaces the default refresh token source chain
// (form body, then query) entirely.
func WithRefreshTokenExtractor(ext Extractor) StrategyOption {
	return func(s *Strategy) {
		s.refreshExtractor = &ext
	}
}

// WithVerifyRequest sets a verify callback that additionally receives the
// original request. When set, it takes precedence over the plain VerifyFunc.
func WithVerifyRequest(fn VerifyRequestFunc) StrategyOption {
	return func(s *Strategy) {
		s.verifyWithRequest = fn
	}
}

// WithFailureHandler sets the handler invoked when authentication is rejected:
// no access token in the request, or the verify callback returned no user.
func WithFailureHandler(fn FailureHandler) StrategyOption {
	return func(s *Strategy) {
		s.failureHandler = fn
	}
}

// WithErrorHandler sets the handler invoked on unrecoverable errors: profile
// fetch failures and verify callback errors.
func WithErrorHandler(fn ErrorHandler) StrategyOption {
	return func(s *Strategy) {
		s.errorHandler = fn
	}
}

// WithLogger sets the logger used for authentication outcomes.
// Defaults to a discard logger.
func WithLogger(log *slog.Logger) StrategyOption {
	return func(s *Strategy) {
		s.logger = log
	}
}
