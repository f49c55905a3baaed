package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var ErrMissingCredentials = errors.New("missing OAuth2 credentials file")
var ErrNotAuthorised = errors.New("not authorised")

// oauth2Config loads the OAuth2 client configuration from a Google Cloud 'credentials.json'
// file ('web' or 'installed' client).
func oauth2Config(credentials string, scopes ...string) (*oauth2.Config, error) {
	b, err := os.ReadFile(credentials)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w (%s)", ErrMissingCredentials, credentials)
	} else if err != nil {
		return nil, err
	}

	config, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials file %s (%w)", credentials, err)
	}

	return config, nil
}

// tokenSource returns a token source initialised from the tokens saved by 'authorise'.
// Refreshed tokens are written back to the tokens file.
func tokenSource(ctx context.Context, credentials, tokens string, scopes ...string) (oauth2.TokenSource, error) {
	config, err := oauth2Config(credentials, scopes...)
	if err != nil {
		return nil, err
	}

	token, err := tokenFromFile(tokens)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w - no tokens file %s (run '%s authorise' first)", ErrNotAuthorised, tokens, APP)
	} else if err != nil {
		return nil, fmt.Errorf("invalid tokens file %s (%w)", tokens, err)
	}

	return &persistent{
		path:  tokens,
		base:  config.TokenSource(ctx, token),
		token: token.AccessToken,
	}, nil
}

func authorize(ctx context.Context, credentials, tokens string, scopes ...string) (*http.Client, error) {
	ts, err := tokenSource(ctx, credentials, tokens, scopes...)
	if err != nil {
		return nil, err
	}

	return oauth2.NewClient(ctx, ts), nil
}

type persistent struct {
	sync.Mutex
	path  string
	base  oauth2.TokenSource
	token string
}

func (p *persistent) Token() (*oauth2.Token, error) {
	p.Lock()
	defer p.Unlock()

	token, err := p.base.Token()
	if err != nil {
		return nil, err
	}

	if token.AccessToken != p.token {
		p.token = token.AccessToken
		if err := saveToken(p.path, token); err != nil {
			warnf("Unable to save refreshed token to %s (%v)", p.path, err)
		} else {
			debugf("Saved refreshed token to %s", p.path)
		}
	}

	return token, nil
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	token := oauth2.Token{}
	if err := json.NewDecoder(f).Decode(&token); err != nil {
		return nil, err
	}

	return &token, nil
}

func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}

	defer f.Close()

	return json.NewEncoder(f).Encode(token)
}
