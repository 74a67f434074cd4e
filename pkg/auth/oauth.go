// Package auth handles the Google OAuth flow shared by all collectors. It
// keeps credentials.json and the obtained token under ~/.config/opq/ and
// captures the authorization redirect on a local listener.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/chat/v1"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/tasks/v1"
)

const (
	// ClientSecretsFile is the downloaded Google API credentials file,
	// expected under the opq config directory.
	ClientSecretsFile = "credentials.json"

	// TokenFile stores the obtained OAuth token next to the credentials.
	TokenFile = "token.json"

	// LocalhostAuthPort is where the local server listens for the OAuth
	// redirect. Must match the redirect URI registered in the Google
	// Cloud console.
	LocalhostAuthPort = "6789"

	xdgAppName = "opq"
)

// Scopes are the read-only scopes the collectors need. Collection never
// mutates remote state.
var Scopes = []string{
	calendar.CalendarReadonlyScope,
	gmail.GmailReadonlyScope,
	chat.ChatSpacesReadonlyScope,
	chat.ChatMessagesReadonlyScope,
	tasks.TasksReadonlyScope,
}

// GetXdgHome returns the opq config directory.
func GetXdgHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName), nil
}

// GetConfig builds an oauth2.Config from the client secrets file. The
// redirect URL is forced onto the local listener port so the captured
// redirect always lands on our server.
func GetConfig(scopes []string) (*oauth2.Config, error) {
	configDir, err := GetXdgHome()
	if err != nil {
		return nil, err
	}

	secretsPath := filepath.Join(configDir, ClientSecretsFile)
	b, err := os.ReadFile(secretsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file %s: %w", secretsPath, err)
	}

	cfg, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}

	parsed, err := url.Parse(cfg.RedirectURL)
	if err != nil || parsed.Hostname() == "" {
		cfg.RedirectURL = fmt.Sprintf("http://localhost:%s/oauth2callback", LocalhostAuthPort)
	} else {
		parsed.Host = fmt.Sprintf("%s:%s", parsed.Hostname(), LocalhostAuthPort)
		cfg.RedirectURL = parsed.String()
	}

	return cfg, nil
}

// GetClient returns an authenticated HTTP client, reusing a saved token when
// one exists and running the browser authorization flow otherwise. Token
// refreshes are persisted back to the token file.
func GetClient(ctx context.Context, scopes []string) (*http.Client, error) {
	cfg, err := GetConfig(scopes)
	if err != nil {
		return nil, err
	}

	configDir, err := GetXdgHome()
	if err != nil {
		return nil, err
	}

	tokenPath := filepath.Join(configDir, TokenFile)
	tok, err := tokenFromFile(tokenPath)
	if err != nil {
		log.Printf("No existing token found at %s. Starting web authorization flow...", tokenPath)
		tok, err = getTokenFromWeb(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to get token from web: %w", err)
		}
		if err := saveToken(tokenPath, tok); err != nil {
			log.Printf("Warning: could not save token: %v", err)
		}
	}

	source := cfg.TokenSource(ctx, tok)
	go func() {
		current, err := source.Token()
		if err != nil {
			return
		}
		if current.AccessToken != tok.AccessToken || current.RefreshToken != tok.RefreshToken {
			if err := saveToken(tokenPath, current); err != nil {
				log.Printf("Warning: could not persist refreshed token: %v", err)
			}
		}
	}()

	return oauth2.NewClient(ctx, source), nil
}

// getTokenFromWeb runs the authorization code flow, capturing the redirect
// on a local HTTP server.
func getTokenFromWeb(cfg *oauth2.Config) (*oauth2.Token, error) {
	codeCh := make(chan string)
	errCh := make(chan error)

	listener, err := net.Listen("tcp", fmt.Sprintf(":%s", LocalhostAuthPort))
	if err != nil {
		return nil, fmt.Errorf("failed to start listener on port %s: %w", LocalhostAuthPort, err)
	}
	defer listener.Close()

	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := r.URL.Query().Get("code")
			if code == "" {
				http.Error(w, "Authorization code not found", http.StatusBadRequest)
				errCh <- fmt.Errorf("authorization code not found in redirect URL")
				return
			}
			fmt.Fprintf(w, "Authentication successful! You can close this window.")
			codeCh <- code
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// AccessTypeOffline so we get a refresh token back.
	authURL := cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	fmt.Printf("Open the following URL in your browser to authorize opq:\n%s\n", authURL)
	log.Println("Waiting for authorization code...")

	select {
	case authCode := <-codeCh:
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		tok, err := cfg.Exchange(ctx, authCode)
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve token from Google: %w", err)
		}
		server.Shutdown(ctx)
		return tok, nil
	case err := <-errCh:
		return nil, err
	case <-time.After(5 * time.Minute):
		server.Shutdown(context.Background())
		return nil, fmt.Errorf("authorization timed out. Please try again")
	}
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("failed to decode token from file %s: %w", path, err)
	}
	return tok, nil
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
