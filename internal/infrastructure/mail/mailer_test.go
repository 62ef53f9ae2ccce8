package mail

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/encore-live/backstage-api/internal/core/domain"
)

func TestMailer_SendRegistrationNotice(t *testing.T) {
	var got sendRequest
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/emails" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := NewMailer(srv.URL, "mail-key", "noreply@example.com")

	if err := m.SendRegistrationNotice(context.Background(), "alice", "alice@example.com"); err != nil {
		t.Fatalf("send: %v", err)
	}

	if gotAuth != "Bearer mail-key" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if got.From != "noreply@example.com" {
		t.Fatalf("unexpected from: %q", got.From)
	}
	if len(got.To) != 1 || got.To[0] != "alice@example.com" {
		t.Fatalf("unexpected recipients: %v", got.To)
	}
	if !strings.Contains(got.HTML, "alice") {
		t.Fatalf("body missing username: %q", got.HTML)
	}
}

func TestMailer_SendStartupNotice_GoesToFromAddress(t *testing.T) {
	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := NewMailer(srv.URL, "mail-key", "ops@example.com")

	if err := m.SendStartupNotice(context.Background()); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(got.To) != 1 || got.To[0] != "ops@example.com" {
		t.Fatalf("startup notice must go to the from address, got %v", got.To)
	}
}

func TestMailer_APIErrorWrapsNotifyFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	m := NewMailer(srv.URL, "mail-key", "noreply@example.com")

	err := m.SendPasswordResetNotice(context.Background(), "alice@example.com")
	if !errors.Is(err, domain.ErrNotifyFailed) {
		t.Fatalf("expected ErrNotifyFailed, got %v", err)
	}
}

func TestMailer_UnreachableAPIWrapsNotifyFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	m := NewMailer(srv.URL, "mail-key", "noreply@example.com")

	err := m.SendPasswordResetNotice(context.Background(), "alice@example.com")
	if !errors.Is(err, domain.ErrNotifyFailed) {
		t.Fatalf("expected ErrNotifyFailed, got %v", err)
	}
}
