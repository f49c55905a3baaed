package commands

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/oauth2"
)

func TestFileID(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"1Xh-h1ttDS7WDhO621sJYB8VhlP4XRzEU", "1Xh-h1ttDS7WDhO621sJYB8VhlP4XRzEU"},
		{"  1Xh-h1ttDS7WDhO621sJYB8VhlP4XRzEU  ", "1Xh-h1ttDS7WDhO621sJYB8VhlP4XRzEU"},
		{"https://drive.google.com/file/d/1Xh-h1ttDS7WDhO621sJYB8VhlP4XRzEU/view?usp=sharing", "1Xh-h1ttDS7WDhO621sJYB8VhlP4XRzEU"},
		{"https://drive.google.com/open?id=1Xh-h1ttDS7WDhO621sJYB8VhlP4XRzEU", "1Xh-h1ttDS7WDhO621sJYB8VhlP4XRzEU"},
		{"https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms/edit#gid=0", "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms"},
	}

	for _, test := range tests {
		id, err := fileID(test.url)
		if err != nil {
			t.Errorf("Unexpected error extracting file ID from %q (%v)", test.url, err)
		} else if id != test.expected {
			t.Errorf("Incorrect file ID for %q\n   expected:%v\n   got:     %v", test.url, test.expected, id)
		}
	}
}

func TestFileIDWithInvalidURL(t *testing.T) {
	tests := []string{
		"",
		"not an ID",
		"https://example.com/file/d/1Xh-h1ttDS7WDhO621sJYB8VhlP4XRzEU",
		"https://drive.google.com/drive/folders",
	}

	for _, v := range tests {
		if id, err := fileID(v); err == nil {
			t.Errorf("Expected error extracting file ID from %q, got %q", v, id)
		}
	}
}

func TestTokensFile(t *testing.T) {
	cmd := command{
		workdir:     "/var/briefing-sync",
		credentials: "/etc/briefing-sync/OAuth2_Client_ID.json",
	}

	expected := filepath.Join("/var/briefing-sync", ".google", "OAuth2_Client_ID.tokens")

	if file := cmd.tokensFile(); file != expected {
		t.Errorf("Incorrect tokens file\n   expected:%v\n   got:     %v", expected, file)
	}

	cmd.tokens = "/tmp/qwerty.tokens"
	if file := cmd.tokensFile(); file != "/tmp/qwerty.tokens" {
		t.Errorf("Incorrect tokens file\n   expected:%v\n   got:     %v", "/tmp/qwerty.tokens", file)
	}
}

func TestValidate(t *testing.T) {
	cmd := command{
		workdir:     "",
		credentials: "credentials.json",
	}

	if err := cmd.validate(); err == nil {
		t.Errorf("Expected error for missing --workdir and --tokens")
	}

	cmd.tokens = "credentials.tokens"
	if err := cmd.validate(); err != nil {
		t.Errorf("Unexpected error validating options (%v)", err)
	}

	cmd.credentials = " "
	if err := cmd.validate(); err == nil {
		t.Errorf("Expected error for missing --credentials")
	}
}

func TestSaveToken(t *testing.T) {
	file := filepath.Join(t.TempDir(), ".google", "credentials.tokens")
	token := oauth2.Token{
		AccessToken:  "qwerty",
		TokenType:    "Bearer",
		RefreshToken: "uiop",
	}

	if err := saveToken(file, &token); err != nil {
		t.Fatalf("Error saving token (%v)", err)
	}

	if info, err := os.Stat(file); err != nil {
		t.Fatalf("Error checking tokens file (%v)", err)
	} else if info.Mode().Perm() != 0600 {
		t.Errorf("Incorrect tokens file permissions - expected:%v, got:%v", os.FileMode(0600), info.Mode().Perm())
	}

	saved, err := tokenFromFile(file)
	if err != nil {
		t.Fatalf("Error reading saved token (%v)", err)
	}

	if saved.AccessToken != "qwerty" || saved.RefreshToken != "uiop" || saved.TokenType != "Bearer" {
		t.Errorf("Incorrect saved token - expected:%+v, got:%+v", token, *saved)
	}
}

func TestPersistentTokenSource(t *testing.T) {
	file := filepath.Join(t.TempDir(), "credentials.tokens")
	p := persistent{
		path:  file,
		base:  oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "refreshed", RefreshToken: "uiop"}),
		token: "qwerty",
	}

	token, err := p.Token()
	if err != nil {
		t.Fatalf("Unexpected error retrieving token (%v)", err)
	}

	if token.AccessToken != "refreshed" {
		t.Errorf("Incorrect access token - expected:%v, got:%v", "refreshed", token.AccessToken)
	}

	saved, err := tokenFromFile(file)
	if err != nil {
		t.Fatalf("Refreshed token not saved (%v)", err)
	}

	if saved.AccessToken != "refreshed" {
		t.Errorf("Incorrect saved token - expected:%v, got:%v", "refreshed", saved.AccessToken)
	}
}

func TestPersistentTokenSourceWithUnchangedToken(t *testing.T) {
	file := filepath.Join(t.TempDir(), "credentials.tokens")
	p := persistent{
		path:  file,
		base:  oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "qwerty"}),
		token: "qwerty",
	}

	if _, err := p.Token(); err != nil {
		t.Fatalf("Unexpected error retrieving token (%v)", err)
	}

	if _, err := os.Stat(file); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected unchanged token to not be saved (%v)", err)
	}
}

func TestTokenSourceWithMissingCredentials(t *testing.T) {
	dir := t.TempDir()
	credentials := filepath.Join(dir, "credentials.json")
	tokens := filepath.Join(dir, "credentials.tokens")

	if _, err := tokenSource(context.Background(), credentials, tokens, SCOPES...); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("Expected %v, got %v", ErrMissingCredentials, err)
	}
}

func TestTokenSourceWithoutAuthorisation(t *testing.T) {
	dir := t.TempDir()
	credentials := filepath.Join(dir, "credentials.json")
	tokens := filepath.Join(dir, "credentials.tokens")

	if err := os.WriteFile(credentials, []byte(CREDENTIALS), 0600); err != nil {
		t.Fatalf("Error creating credentials file (%v)", err)
	}

	if _, err := tokenSource(context.Background(), credentials, tokens, SCOPES...); !errors.Is(err, ErrNotAuthorised) {
		t.Errorf("Expected %v, got %v", ErrNotAuthorised, err)
	}
}

func TestTokenSource(t *testing.T) {
	dir := t.TempDir()
	credentials := filepath.Join(dir, "credentials.json")
	tokens := filepath.Join(dir, "credentials.tokens")

	if err := os.WriteFile(credentials, []byte(CREDENTIALS), 0600); err != nil {
		t.Fatalf("Error creating credentials file (%v)", err)
	}

	if err := saveToken(tokens, &oauth2.Token{AccessToken: "qwerty", TokenType: "Bearer"}); err != nil {
		t.Fatalf("Error creating tokens file (%v)", err)
	}

	ts, err := tokenSource(context.Background(), credentials, tokens, SCOPES...)
	if err != nil {
		t.Fatalf("Unexpected error creating token source (%v)", err)
	}

	if token, err := ts.Token(); err != nil {
		t.Fatalf("Unexpected error retrieving token (%v)", err)
	} else if token.AccessToken != "qwerty" {
		t.Errorf("Incorrect access token - expected:%v, got:%v", "qwerty", token.AccessToken)
	}
}

const CREDENTIALS = `{
  "installed": {
    "client_id": "12345.apps.googleusercontent.com",
    "project_id": "q-and-a-generator",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "client_secret": "qwerty",
    "redirect_uris": ["http://localhost:8080/callback"]
  }
}`
