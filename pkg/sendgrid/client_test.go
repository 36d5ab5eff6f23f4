package sendgrid

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/salonora/salonora-backend/pkg/config"
	"github.com/salonora/salonora-backend/pkg/logger"
)

func TestSendPostsMailPayload(t *testing.T) {
	var got mailPayload
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != mailSendPath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	err := client.Send(context.Background(), Message{
		To:        "dani@example.com",
		ToName:    "Dani",
		Subject:   "You have a new message",
		PlainText: "hello",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if auth != "Bearer sg-key" {
		t.Fatalf("unexpected auth header %q", auth)
	}
	if len(got.Personalizations) != 1 || got.Personalizations[0].To[0].Email != "dani@example.com" {
		t.Fatalf("unexpected personalizations %+v", got.Personalizations)
	}
	if got.From.Email != "noreply@salonora.com" {
		t.Fatalf("unexpected from %q", got.From.Email)
	}
	if len(got.Content) != 1 || got.Content[0].Type != "text/plain" {
		t.Fatalf("unexpected content %+v", got.Content)
	}
}

func TestSendReturnsErrorOnRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	err := client.Send(context.Background(), Message{To: "dani@example.com", Subject: "hi"})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestSendValidatesRecipient(t *testing.T) {
	client := newTestClient(t, "http://unused")
	if err := client.Send(context.Background(), Message{Subject: "hi"}); err == nil {
		t.Fatal("expected error for missing recipient")
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(config.SendgridConfig{DefaultFrom: "noreply@salonora.com"}, logger.New(logger.Options{ServiceName: "test"}))
	if err == nil {
		t.Fatal("expected error")
	}
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(config.SendgridConfig{
		APIKey:      "sg-key",
		DefaultFrom: "noreply@salonora.com",
		BaseURL:     baseURL,
	}, logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}
