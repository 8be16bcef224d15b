// Package vkauth provides token-based VKontakte authentication for Go HTTP services.
//
// The package has two layers: a VKontakte OAuth2 provider that fetches and
// normalizes user profiles, and a Strategy that authenticates requests carrying
// an access token directly (mobile clients, SDK logins) without going through
// the authorization code flow. The Strategy extracts the token from the request
// body or query parameters, fetches the profile, and delegates the auth
// decision to an application-supplied verify callback.
//
// # Features
//
//   - Provider interface for pluggable token-profile implementations
//   - VKontakte users.get profile fetching with normalized Profile mapping
//   - Strategy middleware with pluggable verify, failure, and error handling
//   - Configurable token field names and extraction source chains
//   - Functional options for custom HTTP clients (testing, custom transports)
//   - Configuration struct with env tags for environment-based setup
//   - Sentinel errors with "vkauth:" prefix for consistent error handling
//
// # Usage
//
// Provider setup:
//
//	provider, err := vkauth.New(vkauth.Config{
//		ClientID:     os.Getenv("VK_OAUTH_CLIENT_ID"),
//		ClientSecret: os.Getenv("VK_OAUTH_CLIENT_SECRET"),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Strategy setup and mounting:
//
//	strategy, err := vkauth.NewStrategy(provider,
//		func(ctx context.Context, creds vkauth.Credentials, profile *vkauth.Profile) (any, map[string]any, error) {
//			user, err := users.FindOrCreate(ctx, profile)
//			if err != nil {
//				return nil, nil, err
//			}
//			return user, map[string]any{"new": user.JustCreated}, nil
//		},
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	r := chi.NewRouter()
//	r.With(strategy.Middleware()).Post("/auth/vk", loginHandler)
//
// Inside loginHandler the authenticated user and profile are available from
// the request context:
//
//	user := vkauth.UserFromContext(r.Context())
//	profile := vkauth.ProfileFromContext(r.Context())
//
// # Token Extraction
//
// By default the access token is read from the "access_token" form field, then
// the "access_token" query parameter; the first non-empty value wins. The same
// applies to "refresh_token". Field names and the whole source chain are
// configurable:
//
//	strategy, err := vkauth.NewStrategy(provider, verify,
//		vkauth.WithAccessTokenField("token"),
//		vkauth.WithAccessTokenExtractor(vkauth.NewExtractor(
//			vkauth.FromBearerToken(),
//			vkauth.FromQuery("token"),
//		)),
//	)
//
// # Testing
//
// Use WithHTTPClient to inject a test server for unit testing:
//
//	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
//		// mock responses
//	}))
//	defer ts.Close()
//
//	provider, err := vkauth.New(cfg, vkauth.WithHTTPClient(ts.Client()))
//
// # Error Handling
//
// The package provides sentinel errors for specific failure modes:
//
//   - ErrMissingAccessToken: Request carries no access token (no network call is made)
//   - ErrFetchFailed: HTTP request to the provider failed
//   - ErrNilResponse: Provider returned nil HTTP response
//   - ErrRequestFailed: Provider returned non-OK HTTP status
//   - ErrDecodeFailed: Failed to decode provider JSON response
//   - ErrProviderError: Provider reported an error object; use errors.As with *APIError
//   - ErrEmptyResponse: Provider returned an empty response array
//
// Use errors.Is and errors.As for checking:
//
//	var apiErr *vkauth.APIError
//	if errors.As(err, &apiErr) {
//		log.Printf("vk error %d: %s", apiErr.Code, apiErr.Message)
//	}
//
// # Security
//
//   - Accept tokens over HTTPS only; tokens in query strings end up in access logs
//   - The strategy never persists tokens; storage is the application's concern
//   - Keep client secrets out of source control (use environment variables)
package vkauth
