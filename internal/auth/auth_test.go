package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestNewOAuthConfig(t *testing.T) {
	cfg := NewOAuthConfig(Config{ClientID: "id", ClientSecret: "secret"})

	if cfg.Endpoint.AuthURL != AuthURL || cfg.Endpoint.TokenURL != TokenURL {
		t.Errorf("Endpoint = %+v, want Strava endpoints", cfg.Endpoint)
	}
	if cfg.RedirectURL != "http://localhost:8089/callback" {
		t.Errorf("RedirectURL = %q", cfg.RedirectURL)
	}
	if cfg.Endpoint.AuthStyle != oauth2.AuthStyleInParams {
		t.Errorf("AuthStyle = %v, want AuthStyleInParams", cfg.Endpoint.AuthStyle)
	}

	url := cfg.AuthCodeURL("xyz")
	if !strings.Contains(url, "client_id=id") || !strings.Contains(url, "state=xyz") {
		t.Errorf("AuthCodeURL() = %q", url)
	}
}

func TestExtractAthlete(t *testing.T) {
	token := (&oauth2.Token{AccessToken: "a"}).WithExtra(map[string]interface{}{
		"athlete": map[string]interface{}{"id": float64(4242), "firstname": "Jana"},
	})

	id, name := ExtractAthlete(token)
	if id != 4242 || name != "Jana" {
		t.Errorf("ExtractAthlete() = (%d, %q), want (4242, Jana)", id, name)
	}

	id, name = ExtractAthlete(&oauth2.Token{AccessToken: "a"})
	if id != 0 || name != "" {
		t.Errorf("ExtractAthlete(no extra) = (%d, %q), want zero", id, name)
	}
}

func TestCallbackHandler(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCode   string
		wantErr    string
	}{
		{"success", "state=s1&code=abc", http.StatusOK, "abc", ""},
		{"state mismatch", "state=other&code=abc", http.StatusBadRequest, "", "state mismatch"},
		{"denied", "state=s1&error=access_denied", http.StatusBadRequest, "", "access_denied"},
		{"missing code", "state=s1", http.StatusBadRequest, "", "no code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codeChan := make(chan string, 1)
			errChan := make(chan error, 1)
			h := callbackHandler("s1", codeChan, errChan)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?"+tt.query, nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			select {
			case code := <-codeChan:
				if code != tt.wantCode {
					t.Errorf("code = %q, want %q", code, tt.wantCode)
				}
			case err := <-errChan:
				if tt.wantErr == "" || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error = %v, want %q", err, tt.wantErr)
				}
			default:
				t.Error("handler sent neither code nor error")
			}
		})
	}
}

func TestWaitForCode(t *testing.T) {
	t.Run("timeout", func(t *testing.T) {
		_, err := waitForCode(context.Background(), make(chan string), make(chan error), 10*time.Millisecond)
		if err == nil || !strings.Contains(err.Error(), "timeout") {
			t.Errorf("error = %v, want timeout", err)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := waitForCode(ctx, make(chan string), make(chan error), time.Minute)
		if err != context.Canceled {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})
}

func TestTokenSource(t *testing.T) {
	var refreshes int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "refresh_token" {
			t.Errorf("grant_type = %q, want refresh_token", got)
		}
		refreshes++
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token":"fresh-%d","token_type":"Bearer","refresh_token":"r2","expires_in":21600}`, refreshes)
	}))
	defer server.Close()

	cfg := NewOAuthConfig(Config{
		ClientID:     "id",
		ClientSecret: "secret",
		Endpoint:     oauth2.Endpoint{TokenURL: server.URL},
	})

	t.Run("valid token is reused", func(t *testing.T) {
		tok := &oauth2.Token{AccessToken: "current", RefreshToken: "r1", Expiry: time.Now().Add(time.Hour)}
		ts := NewTokenSource(cfg, tok, func(*oauth2.Token) error {
			t.Error("onRefresh should not be called")
			return nil
		})

		got, err := ts.Token()
		if err != nil {
			t.Fatalf("Token() error = %v", err)
		}
		if got.AccessToken != "current" {
			t.Errorf("AccessToken = %q, want current", got.AccessToken)
		}
		if ts.IsExpired() {
			t.Error("IsExpired() = true for a token valid for an hour")
		}
	})

	t.Run("token near expiry is refreshed and persisted", func(t *testing.T) {
		tok := &oauth2.Token{AccessToken: "old", RefreshToken: "r1", Expiry: time.Now().Add(30 * time.Second)}
		var persisted *oauth2.Token
		ts := NewTokenSource(cfg, tok, func(nt *oauth2.Token) error {
			persisted = nt
			return nil
		})

		if !ts.IsExpired() {
			t.Error("IsExpired() = false inside the refresh buffer")
		}

		got, err := ts.Token()
		if err != nil {
			t.Fatalf("Token() error = %v", err)
		}
		if !strings.HasPrefix(got.AccessToken, "fresh-") {
			t.Errorf("AccessToken = %q, want refreshed token", got.AccessToken)
		}
		if persisted == nil || persisted.RefreshToken != "r2" {
			t.Errorf("persisted = %+v, want refreshed token", persisted)
		}
	})

	t.Run("persist failure is returned", func(t *testing.T) {
		tok := &oauth2.Token{AccessToken: "old", RefreshToken: "r1", Expiry: time.Now().Add(-time.Hour)}
		ts := NewTokenSource(cfg, tok, func(*oauth2.Token) error {
			return fmt.Errorf("disk full")
		})

		if _, err := ts.Token(); err == nil || !strings.Contains(err.Error(), "disk full") {
			t.Errorf("Token() error = %v, want disk full", err)
		}
	})
}
