package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var scopes = []string{
	"https://www.googleapis.com/auth/youtube.upload",
	"https://www.googleapis.com/auth/youtube",
}

var errNoCachedToken = errors.New("no cached token")

type Options struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// TokenPath stores the full token as JSON; LegacyTokenPath stores
	// only the access token as plain text. Both are written on a fresh
	// authorization so either can be reloaded later.
	TokenPath       string
	LegacyTokenPath string
}

// CodePrompter drives the interactive authorization exchange: it
// presents the authorization URL and returns the operator-supplied
// response code. Swappable for non-interactive flows.
type CodePrompter interface {
	Prompt(authURL string) (string, error)
}

// Manager owns the credential token for the run. The token is acquired
// once and shared read-only by concurrent pipelines.
type Manager struct {
	config          *oauth2.Config
	token           *oauth2.Token
	tokenPath       string
	legacyTokenPath string
}

func NewManager(opts Options) (*Manager, error) {
	if opts.ClientID == "" || opts.ClientSecret == "" {
		return nil, errors.New("YOUTUBE_CLIENT_ID and YOUTUBE_CLIENT_SECRET must be set")
	}

	return &Manager{
		config: &oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       scopes,
			RedirectURL:  opts.RedirectURL,
		},
		tokenPath:       opts.TokenPath,
		legacyTokenPath: opts.LegacyTokenPath,
	}, nil
}

// Authorize returns the cached token if any store holds one, adopting
// it without an expiry check; otherwise it drives the interactive
// exchange through prompter and persists the result to both stores.
func (m *Manager) Authorize(ctx context.Context, prompter CodePrompter) (*oauth2.Token, error) {
	if err := m.loadToken(); err == nil {
		slog.Debug("Reusing cached token", "path", m.tokenPath)
		return m.token, nil
	} else if !errors.Is(err, errNoCachedToken) {
		slog.Warn("Ignoring unreadable cached token", "error", err)
	}

	code, err := prompter.Prompt(m.AuthURL())
	if err != nil {
		return nil, fmt.Errorf("authorization prompt: %w", err)
	}

	if err := m.Exchange(ctx, code); err != nil {
		return nil, err
	}

	return m.token, nil
}

func (m *Manager) AuthURL() string {
	return m.config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
}

func (m *Manager) Exchange(ctx context.Context, code string) error {
	token, err := m.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange authorization code: %w", err)
	}

	m.token = token
	return m.saveToken()
}

// Client returns an HTTP client that attaches the token to every
// request. base, when non-nil, sits beneath the oauth2 transport.
func (m *Manager) Client(ctx context.Context, base http.RoundTripper) (*http.Client, error) {
	if m.token == nil {
		if err := m.loadToken(); err != nil {
			return nil, err
		}
	}

	if base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Transport: base})
	}

	return m.config.Client(ctx, m.token), nil
}

func (m *Manager) HasCachedToken() bool {
	if m.token != nil {
		return true
	}
	return m.loadToken() == nil
}

func (m *Manager) loadToken() error {
	if data, err := os.ReadFile(m.tokenPath); err == nil {
		var token oauth2.Token
		if err := json.Unmarshal(data, &token); err != nil {
			return fmt.Errorf("parse token file %s: %w", m.tokenPath, err)
		}
		m.token = &token
		return nil
	}

	if data, err := os.ReadFile(m.legacyTokenPath); err == nil {
		access := strings.TrimSpace(string(data))
		if access == "" {
			return fmt.Errorf("empty legacy token file %s", m.legacyTokenPath)
		}
		m.token = &oauth2.Token{AccessToken: access}
		return nil
	}

	return errNoCachedToken
}

func (m *Manager) saveToken() error {
	data, err := json.MarshalIndent(m.token, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}

	if err := os.WriteFile(m.tokenPath, data, 0600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}

	if err := os.WriteFile(m.legacyTokenPath, []byte(m.token.AccessToken+"\n"), 0600); err != nil {
		return fmt.Errorf("write legacy token file: %w", err)
	}

	return nil
}
