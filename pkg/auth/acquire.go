package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dghubble/oauth1"
)

var ErrEmptyInput = errors.New("auth: empty input")

// Acquirer runs the three-legged OAuth1 handshake with an operator in the
// loop and caches every value it obtains in Store.
type Acquirer struct {
	store    Store
	prompter Prompter
	logger   *log.Logger

	// Endpoint defaults to the provider's handshake URLs.
	Endpoint oauth1.Endpoint
}

func NewAcquirer(store Store, prompter Prompter, logger *log.Logger) *Acquirer {
	return &Acquirer{
		store:    store,
		prompter: prompter,
		logger:   logger,
		Endpoint: Endpoint,
	}
}

// Acquire returns a full credential bundle. Consumer keys already in the
// store are reused; missing ones are prompted for. Handshake failures are
// returned as-is.
func (a *Acquirer) Acquire() (Credentials, error) {
	cached, err := a.store.Load()
	if err != nil {
		return Credentials{}, err
	}

	consumerKey, err := a.consumerValue(cached.ConsumerKey, "Please input consumer ID: ")
	if err != nil {
		return Credentials{}, err
	}
	if err := a.store.Save(Credentials{ConsumerKey: consumerKey}); err != nil {
		return Credentials{}, err
	}

	consumerSecret, err := a.consumerValue(cached.ConsumerSecret, "Please input consumer secret: ")
	if err != nil {
		return Credentials{}, err
	}
	if err := a.store.Save(Credentials{ConsumerSecret: consumerSecret}); err != nil {
		return Credentials{}, err
	}

	creds := Credentials{ConsumerKey: consumerKey, ConsumerSecret: consumerSecret}
	cfg := creds.Config(a.Endpoint)

	a.logger.Debug("fetching request token", "url", a.Endpoint.RequestTokenURL)
	requestToken, requestSecret, err := cfg.RequestToken()
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to fetch request token: %w", err)
	}

	authorizationURL, err := cfg.AuthorizationURL(requestToken)
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to build authorization url: %w", err)
	}
	a.prompter.Notify("Please go here and authorize: " + authorizationURL.String())

	verifier, err := a.prompter.Line("Please input oauth verifier: ")
	if err != nil {
		return Credentials{}, err
	}
	verifier = strings.TrimSpace(verifier)
	if verifier == "" {
		return Credentials{}, fmt.Errorf("%w: oauth verifier", ErrEmptyInput)
	}

	a.logger.Debug("exchanging verifier for access token", "url", a.Endpoint.AccessTokenURL)
	accessToken, accessSecret, err := cfg.AccessToken(requestToken, requestSecret, verifier)
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to fetch access token: %w", err)
	}

	creds.AccessToken = accessToken
	creds.AccessTokenSecret = accessSecret
	creds.Verifier = verifier
	if err := a.store.Save(creds); err != nil {
		return Credentials{}, err
	}
	a.logger.Info("access token acquired")
	return creds, nil
}

func (a *Acquirer) consumerValue(cached, prompt string) (string, error) {
	if cached != "" {
		return cached, nil
	}
	value, err := a.prompter.Secret(prompt)
	if err != nil {
		return "", err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyInput, strings.TrimSuffix(prompt, ": "))
	}
	return value, nil
}
