package vkauth

import "context"

type (
	userContextKey        struct{}
	profileContextKey     struct{}
	credentialsContextKey struct{}
	infoContextKey        struct{}
)

// UserFromContext returns the user stored by a successful authentication,
// or nil if the strategy is not applied.
func UserFromContext(ctx context.Context) any {
	return ctx.Value(userContextKey{})
}

// ProfileFromContext returns the normalized profile stored by a successful
// authentication, or nil if the strategy is not applied.
func ProfileFromContext(ctx context.Context) *Profile {
	p, ok := ctx.Value(profileContextKey{}).(*Profile)
	if !ok {
		return nil
	}
	return p
}

// CredentialsFromContext returns the credentials extracted from the request.
// The second return value reports whether the strategy is applied.
func CredentialsFromContext(ctx context.Context) (Credentials, bool) {
	creds, ok := ctx.Value(credentialsContextKey{}).(Credentials)
	return creds, ok
}

// InfoFromContext returns the auxiliary info returned by the verify callback,
// or nil if none was provided.
func InfoFromContext(ctx context.Context) map[string]any {
	info, ok := ctx.Value(infoContextKey{}).(map[string]any)
	if !ok {
		return nil
	}
	return info
}
