package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"CryptoFollow/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAlert = model.AlertNotification{
	Symbol:       "BTC",
	TargetPrice:  50000,
	CurrentPrice: 51234,
	Condition:    model.ConditionAbove,
}

func TestDiscordNotifier_SendAlert(t *testing.T) {
	var got discordPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	d := NewDiscordNotifier(srv.URL)
	require.NoError(t, d.SendAlert(context.Background(), testAlert))
	require.Len(t, got.Embeds, 1)
	assert.Contains(t, got.Embeds[0].Title, "BTC")
	assert.Equal(t, colorAbove, got.Embeds[0].Color)
	assert.Len(t, got.Embeds[0].Fields, 3)

	below := testAlert
	below.Condition = model.ConditionBelow
	require.NoError(t, d.SendAlert(context.Background(), below))
	assert.Equal(t, colorBelow, got.Embeds[0].Color)
}

func TestDiscordNotifier_SendText(t *testing.T) {
	var got discordPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	require.NoError(t, NewDiscordNotifier(srv.URL).Send(context.Background(), "daily report"))
	assert.Equal(t, "daily report", got.Content)
	assert.Empty(t, got.Embeds)
}

func TestDiscordNotifier_Failures(t *testing.T) {
	err := NewDiscordNotifier("").SendAlert(context.Background(), testAlert)
	assert.ErrorIs(t, err, ErrNotConfigured)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	err = NewDiscordNotifier(srv.URL).SendAlert(context.Background(), testAlert)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestTelegramNotifier_Send(t *testing.T) {
	var payload map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottoken/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("token", "42", "", zerolog.Nop())
	tn.APIBase = srv.URL
	require.NoError(t, tn.SendAlert(context.Background(), testAlert))
	assert.Equal(t, "42", payload["chat_id"])
	assert.Equal(t, "HTML", payload["parse_mode"])
	assert.Contains(t, payload["text"], "BTC")
}

func TestTelegramNotifier_NotConfigured(t *testing.T) {
	tn := NewTelegramNotifier("", "", "", zerolog.Nop())
	assert.False(t, tn.Configured())
	assert.ErrorIs(t, tn.SendWithRetry(context.Background(), "hi", 3), ErrNotConfigured)
}

func TestTelegramNotifier_RetryHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("token", "42", "", zerolog.Nop())
	tn.APIBase = srv.URL
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := tn.SendWithRetry(ctx, "hi", 3)
	assert.Error(t, err)
}

type fakeNotifier struct {
	name       string
	configured bool
	err        error
	calls      int
}

func (f *fakeNotifier) Name() string     { return f.name }
func (f *fakeNotifier) Configured() bool { return f.configured }
func (f *fakeNotifier) SendAlert(_ context.Context, _ model.AlertNotification) error {
	f.calls++
	return f.err
}

func TestDispatcher(t *testing.T) {
	ok := &fakeNotifier{name: "ok", configured: true}
	failing := &fakeNotifier{name: "failing", configured: true, err: errors.New("boom")}
	off := &fakeNotifier{name: "off"}

	results := NewDispatcher(zerolog.Nop(), ok, failing, off).Dispatch(context.Background(), testAlert)
	assert.Equal(t, map[string]bool{"ok": true, "failing": false}, results)
	assert.Equal(t, 1, ok.calls)
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 0, off.calls)
}
