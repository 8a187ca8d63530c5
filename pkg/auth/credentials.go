package auth

import (
	"context"
	"net/http"

	"github.com/dghubble/oauth1"
)

const (
	RequestTokenURL = "https://api.zaim.net/v2/auth/request"
	AuthorizeURL    = "https://auth.zaim.net/users/auth"
	AccessTokenURL  = "https://api.zaim.net/v2/auth/access"
	CallbackURL     = "https://www.zaim.net/"
)

// Endpoint is the provider's OAuth1 handshake endpoint set.
var Endpoint = oauth1.Endpoint{
	RequestTokenURL: RequestTokenURL,
	AuthorizeURL:    AuthorizeURL,
	AccessTokenURL:  AccessTokenURL,
}

// Credentials bundles the application keys with the user's access token.
// The verifier is kept only so it can be cached alongside the token; signed
// requests do not use it.
type Credentials struct {
	ConsumerKey       string `yaml:"consumer_id"`
	ConsumerSecret    string `yaml:"consumer_secret"`
	AccessToken       string `yaml:"access_token"`
	AccessTokenSecret string `yaml:"access_token_secret"`
	Verifier          string `yaml:"oauth_verifier"`
}

// Merge returns c with every empty field taken from fallback.
func (c Credentials) Merge(fallback Credentials) Credentials {
	pick := func(v, alt string) string {
		if v != "" {
			return v
		}
		return alt
	}
	return Credentials{
		ConsumerKey:       pick(c.ConsumerKey, fallback.ConsumerKey),
		ConsumerSecret:    pick(c.ConsumerSecret, fallback.ConsumerSecret),
		AccessToken:       pick(c.AccessToken, fallback.AccessToken),
		AccessTokenSecret: pick(c.AccessTokenSecret, fallback.AccessTokenSecret),
		Verifier:          pick(c.Verifier, fallback.Verifier),
	}
}

// HasAccessToken reports whether the user-level token pair is present.
func (c Credentials) HasAccessToken() bool {
	return c.AccessToken != "" && c.AccessTokenSecret != ""
}

// Config returns the OAuth1 consumer configuration for these credentials.
func (c Credentials) Config(endpoint oauth1.Endpoint) *oauth1.Config {
	return &oauth1.Config{
		ConsumerKey:    c.ConsumerKey,
		ConsumerSecret: c.ConsumerSecret,
		CallbackURL:    CallbackURL,
		Endpoint:       endpoint,
	}
}

// HTTPClient returns a client that signs every request with the access token.
func (c Credentials) HTTPClient(ctx context.Context) *http.Client {
	token := oauth1.NewToken(c.AccessToken, c.AccessTokenSecret)
	return c.Config(Endpoint).Client(ctx, token)
}
