package vkauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	vkOAuth "golang.org/x/oauth2/vk"
)

const (
	// ProviderName is the identifier for the VKontakte OAuth provider.
	ProviderName = "vkontakte"

	defaultProfileURL = "https://api.vk.com/method/users.get"
	defaultAPIVersion = "5.131"
)

// DefaultProfileFields returns the default fields requested from users.get.
func DefaultProfileFields() []string {
	return []string{"id", "first_name", "last_name", "screen_name", "photo"}
}

// VKProvider implements Provider for the VKontakte API.
type VKProvider struct {
	config        *oauth2.Config
	httpClient    *http.Client
	profileURL    string
	profileFields []string
	apiVersion    string
}

// New creates a new VKontakte OAuth provider.
// Returns an error if ClientID or ClientSecret is empty. Profile endpoint,
// requested fields, and API version fall back to VK defaults when unset.
func New(cfg Config, opts ...Option) (*VKProvider, error) {
	if cfg.ClientID == "" {
		return nil, ErrMissingClientID
	}
	if cfg.ClientSecret == "" {
		return nil, ErrMissingClientSecret
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	endpoint := vkOAuth.Endpoint
	if o.endpoint != nil {
		endpoint = *o.endpoint
	}

	profileURL := cfg.ProfileURL
	if profileURL == "" {
		profileURL = defaultProfileURL
	}
	fields := cfg.ProfileFields
	if len(fields) == 0 {
		fields = DefaultProfileFields()
	}
	version := cfg.APIVersion
	if version == "" {
		version = defaultAPIVersion
	}

	return &VKProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     endpoint,
		},
		httpClient:    o.httpClient,
		profileURL:    profileURL,
		profileFields: fields,
		apiVersion:    version,
	}, nil
}

// Name returns the provider identifier.
func (p *VKProvider) Name() string {
	return ProviderName
}

// AuthCodeURL generates the authorization URL.
func (p *VKProvider) AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string {
	return p.config.AuthCodeURL(state, opts...)
}

// Exchange trades an authorization code for tokens.
func (p *VKProvider) Exchange(ctx context.Context, code, redirectURI string) (*oauth2.Token, error) {
	cfg := p.config
	if redirectURI != "" {
		cfg = &oauth2.Config{
			ClientID:     p.config.ClientID,
			ClientSecret: p.config.ClientSecret,
			RedirectURL:  redirectURI,
			Scopes:       p.config.Scopes,
			Endpoint:     p.config.Endpoint,
		}
	}
	ctx = p.contextWithHTTPClient(ctx)
	return cfg.Exchange(ctx, code)
}

// FetchProfile retrieves user information from the users.get endpoint using
// the access token as bearer credential and normalizes the first record of
// the response array. A single best-effort fetch: no retries, no caching.
func (p *VKProvider) FetchProfile(ctx context.Context, token *oauth2.Token) (*Profile, error) {
	ctx = p.contextWithHTTPClient(ctx)
	client := p.config.Client(ctx, token)

	resp, err := client.Get(p.profileRequestURL())
	if err != nil {
		return nil, errors.Join(ErrFetchFailed, fmt.Errorf("fetch profile: %w", err))
	}
	if resp == nil {
		return nil, errors.Join(ErrNilResponse, errors.New("unexpected nil response from users.get endpoint"))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Join(ErrFetchFailed, fmt.Errorf("read profile body: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Join(ErrRequestFailed, fmt.Errorf("users.get request failed: status=%d body=%s", resp.StatusCode, body))
	}

	var payload vkUsersResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errors.Join(ErrDecodeFailed, fmt.Errorf("decode profile: %w", err))
	}

	if payload.Error != nil {
		return nil, errors.Join(ErrProviderError, &APIError{
			Message: payload.Error.Message,
			Code:    payload.Error.Code,
		})
	}
	if len(payload.Response) == 0 {
		return nil, ErrEmptyResponse
	}

	return p.normalize(payload.Response[0], body), nil
}

func (p *VKProvider) profileRequestURL() string {
	q := url.Values{}
	q.Set("fields", strings.Join(p.profileFields, ","))
	q.Set("v", p.apiVersion)
	return p.profileURL + "?" + q.Encode()
}

func (p *VKProvider) normalize(user vkUser, raw []byte) *Profile {
	// The emails and photos lists stay empty: users.get does not return them
	// for this field set. Raw and Data keep the payload available to callers.
	profile := &Profile{
		Provider:    ProviderName,
		ID:          user.ID.String(),
		Username:    user.ScreenName,
		DisplayName: user.FirstName + " " + user.LastName,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Emails:      []string{},
		Photos:      []string{},
		Raw:         json.RawMessage(raw),
		Data:        map[string]any{},
	}

	var generic struct {
		Response []map[string]any `json:"response"`
	}
	if err := json.Unmarshal(raw, &generic); err == nil && len(generic.Response) > 0 {
		profile.Data = generic.Response[0]
	}

	return profile
}

func (p *VKProvider) contextWithHTTPClient(ctx context.Context) context.Context {
	if p.httpClient != nil {
		return context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	}
	return ctx
}

// vkUsersResponse represents the envelope returned by the VK API: either a
// response array or an error object, never both.
type vkUsersResponse struct {
	Response []vkUser `json:"response"`
	Error    *vkError `json:"error"`
}

type vkUser struct {
	ID         json.Number `json:"id"`
	FirstName  string      `json:"first_name"`
	LastName   string      `json:"last_name"`
	ScreenName string      `json:"screen_name"`
}

type vkError struct {
	Message string `json:"error_msg"`
	Code    int    `json:"error_code"`
}
