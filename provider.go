package vkauth

import (
	"context"
	"encoding/json"

	"golang.org/x/oauth2"
)

// Profile represents provider-agnostic user information retrieved from an
// identity provider's profile endpoint. Emails and Photos are always non-nil;
// they stay empty when the provider does not return them for the requested
// field set. Raw and Data retain the provider's payload for caller inspection.
type Profile struct {
	Provider    string          // Provider identifier (e.g., "vkontakte")
	ID          string          // Provider's unique user identifier, stringified
	Username    string          // Provider-specific handle (screen name)
	DisplayName string          // Concatenation of given and family name
	FirstName   string
	LastName    string
	Emails      []string
	Photos      []string
	Raw         json.RawMessage // Verbatim response body
	Data        map[string]any  // Parsed profile record
}

// Provider abstracts provider-specific OAuth operations.
// Implementations handle all provider-specific details internally, including
// mapping the provider's response shape into a Profile.
type Provider interface {
	// Name returns the provider identifier (e.g., "vkontakte").
	Name() string

	// AuthCodeURL generates the authorization URL for the OAuth flow.
	AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string

	// Exchange trades an authorization code for tokens.
	Exchange(ctx context.Context, code, redirectURI string) (*oauth2.Token, error)

	// FetchProfile retrieves user information using the access token and
	// normalizes it into a Profile.
	FetchProfile(ctx context.Context, token *oauth2.Token) (*Profile, error)
}
