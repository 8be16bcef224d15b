package vkauth

// Config holds VKontakte OAuth configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	ClientID      string   `env:"VK_OAUTH_CLIENT_ID,required"`
	ClientSecret  string   `env:"VK_OAUTH_CLIENT_SECRET,required"`
	RedirectURL   string   `env:"VK_OAUTH_REDIRECT_URL" envDefault:""`
	Scopes        []string `env:"VK_OAUTH_SCOPES" envSeparator:","`
	ProfileURL    string   `env:"VK_OAUTH_PROFILE_URL" envDefault:""`
	ProfileFields []string `env:"VK_OAUTH_PROFILE_FIELDS" envSeparator:","`
	APIVersion    string   `env:"VK_OAUTH_API_VERSION" envDefault:""`
}
