package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func captureWebhook(t *testing.T) (*httptest.Server, *discordPayload) {
	t.Helper()
	var got discordPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding webhook payload: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func TestNotifySuccessEmbed(t *testing.T) {
	srv, got := captureWebhook(t)
	d := NewDiscordWebhook(srv.URL, "12345")

	err := d.Notify(context.Background(), SeveritySuccess, "episode delivered", map[string]string{"duration": "312s"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Embeds) != 1 || got.Embeds[0].Title != "episode delivered" {
		t.Errorf("unexpected embeds: %+v", got.Embeds)
	}
	if got.Content != "" {
		t.Errorf("success must not mention anyone, got %q", got.Content)
	}
	if len(got.Embeds[0].Fields) != 1 || got.Embeds[0].Fields[0].Name != "duration" {
		t.Errorf("unexpected fields: %+v", got.Embeds[0].Fields)
	}
}

func TestNotifyFieldsSortedByName(t *testing.T) {
	srv, got := captureWebhook(t)
	d := NewDiscordWebhook(srv.URL, "")

	fields := map[string]string{"stories": "8", "duration": "312s", "error": "none"}
	if err := d.Notify(context.Background(), SeverityInfo, "status", fields); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"duration", "error", "stories"}
	if len(got.Embeds) != 1 || len(got.Embeds[0].Fields) != len(want) {
		t.Fatalf("unexpected embeds: %+v", got.Embeds)
	}
	for i, name := range want {
		if got.Embeds[0].Fields[i].Name != name {
			t.Errorf("field %d = %q, want %q", i, got.Embeds[0].Fields[i].Name, name)
		}
	}
}

func TestNotifyErrorMentionsUser(t *testing.T) {
	srv, got := captureWebhook(t)
	d := NewDiscordWebhook(srv.URL, "12345")

	if err := d.Notify(context.Background(), SeverityError, "run failed", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Content != "<@12345>" {
		t.Errorf("error severity must mention the user, got %q", got.Content)
	}
}

func TestNotifyErrorWithoutMentionUser(t *testing.T) {
	srv, got := captureWebhook(t)
	d := NewDiscordWebhook(srv.URL, "")

	if err := d.Notify(context.Background(), SeverityError, "run failed", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Content != "" {
		t.Errorf("no mention configured, got %q", got.Content)
	}
}

func TestNotifyServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	d := NewDiscordWebhook(srv.URL, "")
	if err := d.Notify(context.Background(), SeverityInfo, "hello", nil); err == nil {
		t.Error("expected error on non-2xx webhook response")
	}
}

func TestNopNotifier(t *testing.T) {
	if err := (Nop{}).Notify(context.Background(), SeverityError, "ignored", nil); err != nil {
		t.Errorf("Nop must never fail, got %v", err)
	}
}
