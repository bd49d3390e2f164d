// Package notify is the chat-ops collaborator. Purely observational:
// the pipeline works the same with the Nop implementation, and nothing
// here is a package-level singleton — the client is constructed and
// injected.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"
)

// Severity tags a notification.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notifier delivers a severity-tagged notification with optional
// free-form detail fields.
type Notifier interface {
	Notify(ctx context.Context, severity Severity, message string, fields map[string]string) error
}

// Nop discards all notifications.
type Nop struct{}

func (Nop) Notify(context.Context, Severity, string, map[string]string) error { return nil }

// DiscordWebhook posts notifications as Discord embeds. Error-severity
// notifications mention the configured user when one is set.
type DiscordWebhook struct {
	webhookURL    string
	mentionUserID string
	client        *http.Client
}

func NewDiscordWebhook(webhookURL, mentionUserID string) *DiscordWebhook {
	return &DiscordWebhook{
		webhookURL:    webhookURL,
		mentionUserID: mentionUserID,
		client:        &http.Client{Timeout: 10 * time.Second},
	}
}

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordEmbed struct {
	Title  string         `json:"title"`
	Color  int            `json:"color"`
	Fields []discordField `json:"fields,omitempty"`
}

type discordPayload struct {
	Content string         `json:"content,omitempty"`
	Embeds  []discordEmbed `json:"embeds"`
}

func severityColor(s Severity) int {
	switch s {
	case SeveritySuccess:
		return 0x2ecc71
	case SeverityError:
		return 0xe74c3c
	default:
		return 0x3498db
	}
}

func (d *DiscordWebhook) Notify(ctx context.Context, severity Severity, message string, fields map[string]string) error {
	embed := discordEmbed{Title: message, Color: severityColor(severity)}
	// Map iteration order varies; sort so embeds render the same every run.
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		embed.Fields = append(embed.Fields, discordField{Name: name, Value: fields[name], Inline: true})
	}

	payload := discordPayload{Embeds: []discordEmbed{embed}}
	if severity == SeverityError && d.mentionUserID != "" {
		payload.Content = fmt.Sprintf("<@%s>", d.mentionUserID)
	}

	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, "POST", d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("discord webhook %d: %s", resp.StatusCode, string(b))
	}
	return nil
}
