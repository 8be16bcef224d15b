package vkauth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"
)

// Credentials holds the tokens extracted from the incoming request.
type Credentials struct {
	AccessToken  string
	RefreshToken string
}

// VerifyFunc decides whether a fetched profile maps to a valid local user.
// Returning a non-nil user means success; info carries auxiliary data for the
// application either way. Returning a nil user rejects the authentication
// attempt without it being an error.
type VerifyFunc func(ctx context.Context, creds Credentials, profile *Profile) (user any, info map[string]any, err error)

// VerifyRequestFunc is a VerifyFunc variant that additionally receives the
// original request, for applications that need request state (headers,
// session) to make the auth decision.
type VerifyRequestFunc func(r *http.Request, creds Credentials, profile *Profile) (user any, info map[string]any, err error)

// FailureHandler handles rejected authentication attempts: missing access
// token or a verify callback that returned no user.
type FailureHandler func(w http.ResponseWriter, r *http.Request, reason string, info map[string]any)

// ErrorHandler handles unrecoverable authentication errors: profile fetch
// failures and verify callback errors.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Strategy authenticates requests that carry a provider access token directly,
// without going through the authorization code flow. It extracts the token
// from the request, fetches the user profile from the provider, and delegates
// the auth decision to the verify callback.
//
// All state is request-scoped; a Strategy is safe for concurrent use.
type Strategy struct {
	provider          Provider
	verify            VerifyFunc
	verifyWithRequest VerifyRequestFunc
	accessField       string
	refreshField      string
	accessExtractor   *Extractor
	refreshExtractor  *Extractor
	failureHandler    FailureHandler
	errorHandler      ErrorHandler
	logger            *slog.Logger
}

// NewStrategy creates a token authentication strategy for the given provider.
// Returns an error if the provider is nil or no verify callback is configured.
func NewStrategy(provider Provider, verify VerifyFunc, opts ...StrategyOption) (*Strategy, error) {
	if provider == nil {
		return nil, ErrMissingProvider
	}

	s := &Strategy{
		provider:     provider,
		verify:       verify,
		accessField:  "access_token",
		refreshField: "refresh_token",
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.verify == nil && s.verifyWithRequest == nil {
		return nil, ErrMissingVerify
	}

	// Body first, then query: the first non-empty value wins.
	if s.accessExtractor == nil {
		ext := NewExtractor(FromForm(s.accessField), FromQuery(s.accessField))
		s.accessExtractor = &ext
	}
	if s.refreshExtractor == nil {
		ext := NewExtractor(FromForm(s.refreshField), FromQuery(s.refreshField))
		s.refreshExtractor = &ext
	}

	if s.failureHandler == nil {
		s.failureHandler = defaultFailureHandler
	}
	if s.errorHandler == nil {
		s.errorHandler = defaultErrorHandler
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return s, nil
}

// Credentials extracts the access and refresh tokens from the request using
// the configured source chains. Returns ErrMissingAccessToken if no access
// token is present; a missing refresh token is not an error.
func (s *Strategy) Credentials(r *http.Request) (Credentials, error) {
	access, ok := s.accessExtractor.Extract(r)
	if !ok {
		return Credentials{}, ErrMissingAccessToken
	}
	refresh, _ := s.refreshExtractor.Extract(r)
	return Credentials{AccessToken: access, RefreshToken: refresh}, nil
}

// Authenticate wraps next so it only runs for authenticated requests. On
// success the user, profile, credentials, and verify info are stored in the
// request context. A request without an access token is rejected without any
// call to the provider.
func (s *Strategy) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		creds, err := s.Credentials(r)
		if err != nil {
			s.logger.DebugContext(r.Context(), "authentication rejected",
				slog.String("provider", s.provider.Name()),
				slog.String("reason", "missing access token"))
			s.failureHandler(w, r, "missing access token", nil)
			return
		}

		profile, err := s.provider.FetchProfile(r.Context(), &oauth2.Token{
			AccessToken:  creds.AccessToken,
			RefreshToken: creds.RefreshToken,
		})
		if err != nil {
			s.logger.ErrorContext(r.Context(), "profile fetch failed",
				slog.String("provider", s.provider.Name()),
				slog.Any("error", err))
			s.errorHandler(w, r, err)
			return
		}

		user, info, err := s.runVerify(r, creds, profile)
		if err != nil {
			s.logger.ErrorContext(r.Context(), "verification failed",
				slog.String("provider", s.provider.Name()),
				slog.Any("error", err))
			s.errorHandler(w, r, err)
			return
		}
		if user == nil {
			s.logger.DebugContext(r.Context(), "authentication rejected",
				slog.String("provider", s.provider.Name()),
				slog.String("reason", "verification returned no user"))
			s.failureHandler(w, r, "verification returned no user", info)
			return
		}

		s.logger.DebugContext(r.Context(), "authentication succeeded",
			slog.String("provider", s.provider.Name()),
			slog.String("profile_id", profile.ID))

		ctx := context.WithValue(r.Context(), userContextKey{}, user)
		ctx = context.WithValue(ctx, profileContextKey{}, profile)
		ctx = context.WithValue(ctx, credentialsContextKey{}, creds)
		if info != nil {
			ctx = context.WithValue(ctx, infoContextKey{}, info)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Middleware adapts Authenticate to the func(http.Handler) http.Handler shape
// used by chi-style routers.
func (s *Strategy) Middleware() func(http.Handler) http.Handler {
	return s.Authenticate
}

func (s *Strategy) runVerify(r *http.Request, creds Credentials, profile *Profile) (any, map[string]any, error) {
	if s.verifyWithRequest != nil {
		return s.verifyWithRequest(r, creds, profile)
	}
	return s.verify(r.Context(), creds, profile)
}

func defaultFailureHandler(w http.ResponseWriter, r *http.Request, reason string, info map[string]any) {
	writeJSON(w, http.StatusUnauthorized, map[string]any{
		"error":   "unauthorized",
		"message": reason,
	})
}

// defaultErrorHandler maps provider-side failures to 502 so callers can tell
// an upstream outage apart from a broken verify callback.
func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrFetchFailed),
		errors.Is(err, ErrNilResponse),
		errors.Is(err, ErrRequestFailed),
		errors.Is(err, ErrDecodeFailed),
		errors.Is(err, ErrProviderError),
		errors.Is(err, ErrEmptyResponse):
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]any{
		"error": "authentication failed",
	})
}

func writeJSON(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
