package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"CryptoFollow/internal/model"
)

const (
	colorAbove = 0x00ff00
	colorBelow = 0xff0000
)

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordEmbed struct {
	Title     string         `json:"title"`
	Color     int            `json:"color"`
	Fields    []discordField `json:"fields"`
	Timestamp string         `json:"timestamp"`
	Footer    struct {
		Text string `json:"text"`
	} `json:"footer"`
}

type discordPayload struct {
	Content string         `json:"content,omitempty"`
	Embeds  []discordEmbed `json:"embeds,omitempty"`
}

// DiscordNotifier posts alerts to a Discord webhook.
type DiscordNotifier struct {
	WebhookURL string
	Client     *http.Client
}

func NewDiscordNotifier(webhookURL string) *DiscordNotifier {
	return &DiscordNotifier{
		WebhookURL: webhookURL,
		Client:     &http.Client{Timeout: 15 * time.Second},
	}
}

func (d *DiscordNotifier) Name() string { return "discord" }

func (d *DiscordNotifier) Configured() bool { return d.WebhookURL != "" }

// Send posts a plain text message.
func (d *DiscordNotifier) Send(ctx context.Context, text string) error {
	return d.post(ctx, discordPayload{Content: text})
}

// SendAlert posts a triggered alert as an embed, green for ABOVE and red for BELOW.
func (d *DiscordNotifier) SendAlert(ctx context.Context, n model.AlertNotification) error {
	color := colorBelow
	if n.Condition == model.ConditionAbove {
		color = colorAbove
	}
	embed := discordEmbed{
		Title: fmt.Sprintf("🚨 %s alert triggered!", n.Symbol),
		Color: color,
		Fields: []discordField{
			{Name: "Condition", Value: "Price " + conditionText(n.Condition), Inline: true},
			{Name: "Target price", Value: FormatCurrency(n.TargetPrice), Inline: true},
			{Name: "Current price", Value: FormatCurrency(n.CurrentPrice), Inline: true},
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	embed.Footer.Text = "CryptoFollow Alert System"
	return d.post(ctx, discordPayload{Embeds: []discordEmbed{embed}})
}

func (d *DiscordNotifier) post(ctx context.Context, payload discordPayload) error {
	if !d.Configured() {
		return ErrNotConfigured
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := d.Client.Do(req)
	if err != nil {
		return fmt.Errorf("discord webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("discord webhook: status %d", resp.StatusCode)
	}
	return nil
}
