package vkauth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/dmitrymomot/vkauth"
)

var _ vkauth.Provider = (*vkauth.VKProvider)(nil)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()
		p, err := vkauth.New(vkauth.Config{
			ClientID:     "test-id",
			ClientSecret: "test-secret",
		})
		require.NoError(t, err)
		require.NotNil(t, p)
	})

	t.Run("missing client ID", func(t *testing.T) {
		t.Parallel()
		p, err := vkauth.New(vkauth.Config{
			ClientSecret: "test-secret",
		})
		require.ErrorIs(t, err, vkauth.ErrMissingClientID)
		require.Nil(t, p)
	})

	t.Run("missing client secret", func(t *testing.T) {
		t.Parallel()
		p, err := vkauth.New(vkauth.Config{
			ClientID: "test-id",
		})
		require.ErrorIs(t, err, vkauth.ErrMissingClientSecret)
		require.Nil(t, p)
	})
}

func TestVKProvider_Name(t *testing.T) {
	t.Parallel()
	p, err := vkauth.New(vkauth.Config{
		ClientID:     "test-id",
		ClientSecret: "test-secret",
	})
	require.NoError(t, err)
	require.Equal(t, "vkontakte", p.Name())
}

func TestVKProvider_AuthCodeURL(t *testing.T) {
	t.Parallel()

	p, err := vkauth.New(vkauth.Config{
		ClientID:     "test-id",
		ClientSecret: "test-secret",
		RedirectURL:  "https://example.com/callback",
	})
	require.NoError(t, err)

	t.Run("uses VK endpoint", func(t *testing.T) {
		t.Parallel()
		u := p.AuthCodeURL("state")
		require.Contains(t, u, "oauth.vk.com/authorize")
	})

	t.Run("includes state", func(t *testing.T) {
		t.Parallel()
		u := p.AuthCodeURL("test-state")
		require.Contains(t, u, "state=test-state")
	})

	t.Run("includes redirect URI", func(t *testing.T) {
		t.Parallel()
		u := p.AuthCodeURL("state")
		require.Contains(t, u, "redirect_uri=")
		require.Contains(t, u, "example.com")
	})
}

func TestDefaultProfileFields(t *testing.T) {
	t.Parallel()
	fields := vkauth.DefaultProfileFields()
	require.Contains(t, fields, "first_name")
	require.Contains(t, fields, "last_name")
	require.Contains(t, fields, "screen_name")
}

func TestVKProvider_Exchange(t *testing.T) {
	t.Parallel()

	t.Run("successful exchange", func(t *testing.T) {
		t.Parallel()

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token": "test-access-token",
				"token_type":   "Bearer",
				"expires_in":   3600,
			})
		})

		p, err := vkauth.New(
			vkauth.Config{
				ClientID:     "test-id",
				ClientSecret: "test-secret",
			},
			vkauth.WithHTTPClient(newVKTestClient(handler)),
		)
		require.NoError(t, err)

		token, err := p.Exchange(context.Background(), "test-code", "")
		require.NoError(t, err)
		require.Equal(t, "test-access-token", token.AccessToken)
	})

	t.Run("custom redirect URI", func(t *testing.T) {
		t.Parallel()

		var receivedRedirectURI string
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			receivedRedirectURI = r.FormValue("redirect_uri")
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token": "test-token",
				"token_type":   "Bearer",
				"expires_in":   3600,
			})
		})

		p, err := vkauth.New(
			vkauth.Config{
				ClientID:     "test-id",
				ClientSecret: "test-secret",
				RedirectURL:  "https://example.com/original",
			},
			vkauth.WithHTTPClient(newVKTestClient(handler)),
		)
		require.NoError(t, err)

		_, err = p.Exchange(context.Background(), "test-code", "https://example.com/override")
		require.NoError(t, err)
		require.Equal(t, "https://example.com/override", receivedRedirectURI)
	})

	t.Run("invalid code", func(t *testing.T) {
		t.Parallel()

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":             "invalid_grant",
				"error_description": "Bad Request",
			})
		})

		p, err := vkauth.New(
			vkauth.Config{
				ClientID:     "test-id",
				ClientSecret: "test-secret",
			},
			vkauth.WithHTTPClient(newVKTestClient(handler)),
		)
		require.NoError(t, err)

		_, err = p.Exchange(context.Background(), "bad-code", "")
		require.Error(t, err)
	})
}

func TestVKProvider_FetchProfile(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		var gotPath, gotFields, gotVersion string
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotFields = r.URL.Query().Get("fields")
			gotVersion = r.URL.Query().Get("v")
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"response": []map[string]any{{
					"id":          210700286,
					"first_name":  "Lindsey",
					"last_name":   "Stirling",
					"screen_name": "lindseystirling",
				}},
			})
		})

		p, err := vkauth.New(
			vkauth.Config{
				ClientID:     "test-id",
				ClientSecret: "test-secret",
			},
			vkauth.WithHTTPClient(newVKTestClient(handler)),
		)
		require.NoError(t, err)

		token := &oauth2.Token{AccessToken: "test-token"}
		profile, err := p.FetchProfile(context.Background(), token)
		require.NoError(t, err)

		require.Equal(t, "/method/users.get", gotPath)
		require.Equal(t, "id,first_name,last_name,screen_name,photo", gotFields)
		require.Equal(t, "5.131", gotVersion)

		require.Equal(t, "vkontakte", profile.Provider)
		require.Equal(t, "210700286", profile.ID)
		require.Equal(t, "lindseystirling", profile.Username)
		require.Equal(t, "Lindsey Stirling", profile.DisplayName)
		require.Equal(t, "Lindsey", profile.FirstName)
		require.Equal(t, "Stirling", profile.LastName)
		require.NotNil(t, profile.Emails)
		require.Empty(t, profile.Emails)
		require.NotNil(t, profile.Photos)
		require.Empty(t, profile.Photos)
		require.NotEmpty(t, profile.Raw)
		require.Equal(t, "lindseystirling", profile.Data["screen_name"])
	})

	t.Run("custom fields and version", func(t *testing.T) {
		t.Parallel()

		var gotFields, gotVersion string
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotFields = r.URL.Query().Get("fields")
			gotVersion = r.URL.Query().Get("v")
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"response": []map[string]any{{"id": 1}},
			})
		})

		p, err := vkauth.New(
			vkauth.Config{
				ClientID:      "test-id",
				ClientSecret:  "test-secret",
				ProfileFields: []string{"id", "bdate"},
				APIVersion:    "5.199",
			},
			vkauth.WithHTTPClient(newVKTestClient(handler)),
		)
		require.NoError(t, err)

		_, err = p.FetchProfile(context.Background(), &oauth2.Token{AccessToken: "test-token"})
		require.NoError(t, err)
		require.Equal(t, "id,bdate", gotFields)
		require.Equal(t, "5.199", gotVersion)
	})

	t.Run("missing name parts", func(t *testing.T) {
		t.Parallel()

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"response": []map[string]any{{
					"id":         42,
					"first_name": "Plink",
				}},
			})
		})

		p, err := vkauth.New(
			vkauth.Config{
				ClientID:     "test-id",
				ClientSecret: "test-secret",
			},
			vkauth.WithHTTPClient(newVKTestClient(handler)),
		)
		require.NoError(t, err)

		profile, err := p.FetchProfile(context.Background(), &oauth2.Token{AccessToken: "test-token"})
		require.NoError(t, err)
		require.Equal(t, "Plink", profile.FirstName)
		require.Equal(t, "", profile.LastName)
		require.Equal(t, "Plink ", profile.DisplayName)
	})

	t.Run("provider error object", func(t *testing.T) {
		t.Parallel()

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{
					"error_code": 5,
					"error_msg":  "User authorization failed: invalid access_token.",
				},
			})
		})

		p, err := vkauth.New(
			vkauth.Config{
				ClientID:     "test-id",
				ClientSecret: "test-secret",
			},
			vkauth.WithHTTPClient(newVKTestClient(handler)),
		)
		require.NoError(t, err)

		profile, err := p.FetchProfile(context.Background(), &oauth2.Token{AccessToken: "bad-token"})
		require.ErrorIs(t, err, vkauth.ErrProviderError)
		require.NotErrorIs(t, err, vkauth.ErrDecodeFailed)
		require.Nil(t, profile)

		var apiErr *vkauth.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, 5, apiErr.Code)
		require.Equal(t, "User authorization failed: invalid access_token.", apiErr.Message)
	})

	t.Run("empty response array", func(t *testing.T) {
		t.Parallel()

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"response": []map[string]any{},
			})
		})

		p, err := vkauth.New(
			vkauth.Config{
				ClientID:     "test-id",
				ClientSecret: "test-secret",
			},
			vkauth.WithHTTPClient(newVKTestClient(handler)),
		)
		require.NoError(t, err)

		profile, err := p.FetchProfile(context.Background(), &oauth2.Token{AccessToken: "test-token"})
		require.ErrorIs(t, err, vkauth.ErrEmptyResponse)
		require.Nil(t, profile)
	})

	t.Run("non-OK status", func(t *testing.T) {
		t.Parallel()

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte("forbidden"))
		})

		p, err := vkauth.New(
			vkauth.Config{
				ClientID:     "test-id",
				ClientSecret: "test-secret",
			},
			vkauth.WithHTTPClient(newVKTestClient(handler)),
		)
		require.NoError(t, err)

		profile, err := p.FetchProfile(context.Background(), &oauth2.Token{AccessToken: "test-token"})
		require.ErrorIs(t, err, vkauth.ErrRequestFailed)
		require.Nil(t, profile)
	})

	t.Run("bad JSON", func(t *testing.T) {
		t.Parallel()

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("not-json"))
		})

		p, err := vkauth.New(
			vkauth.Config{
				ClientID:     "test-id",
				ClientSecret: "test-secret",
			},
			vkauth.WithHTTPClient(newVKTestClient(handler)),
		)
		require.NoError(t, err)

		profile, err := p.FetchProfile(context.Background(), &oauth2.Token{AccessToken: "test-token"})
		require.ErrorIs(t, err, vkauth.ErrDecodeFailed)
		require.Nil(t, profile)
	})
}

// newVKTestClient returns a client that intercepts requests to VK endpoints
// and routes them to a local handler instead.
func newVKTestClient(handler http.Handler) *http.Client {
	return &http.Client{Transport: &vkRewriteTransport{base: http.DefaultTransport, handler: handler}}
}

type vkRewriteTransport struct {
	base    http.RoundTripper
	handler http.Handler
}

func (t *vkRewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if strings.HasSuffix(req.URL.Host, "vk.com") {
		recorder := httptest.NewRecorder()
		t.handler.ServeHTTP(recorder, req)
		return recorder.Result(), nil
	}
	return t.base.RoundTrip(req)
}
