package telegram

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryDelayFromError(t *testing.T) {
	assert.Equal(t, 7*time.Second, retryDelayFromError(errors.New("Too Many Requests: retry after 7")))
	assert.Equal(t, 3*time.Second, retryDelayFromError(errors.New("too many requests")))
	assert.Equal(t, time.Second, retryDelayFromError(errors.New("bad gateway")))
	assert.Zero(t, retryDelayFromError(nil))
}

type stubPoller struct {
	calls   int
	cancel  context.CancelFunc
	offsets []int
}

func (p *stubPoller) GetUpdates(cfg tgbotapi.UpdateConfig) ([]tgbotapi.Update, error) {
	p.calls++
	p.offsets = append(p.offsets, cfg.Offset)
	if p.calls == 1 {
		return []tgbotapi.Update{{UpdateID: 10}, {UpdateID: 11}}, nil
	}
	p.cancel()
	return nil, nil
}

func TestRunPollingAdvancesOffsetAndStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p := &stubPoller{cancel: cancel}

	var got []int
	RunPolling(ctx, p, nil, func(u tgbotapi.Update) { got = append(got, u.UpdateID) })

	assert.Equal(t, []int{10, 11}, got)
	assert.Equal(t, []int{0, 12}, p.offsets)
}

func TestWebhookHandler(t *testing.T) {
	var got []tgbotapi.Update
	h := WebhookHandler(nil, func(u tgbotapi.Update) { got = append(got, u) })

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"update_id":5,"message":{"message_id":1,"chat":{"id":7},"text":"hi"}}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, got, 1)
	assert.Equal(t, int64(7), got[0].Message.Chat.ID)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("nope")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookPathIsStable(t *testing.T) {
	p := WebhookPath("123:abc")
	assert.Equal(t, p, WebhookPath("123:abc"))
	assert.NotEqual(t, p, WebhookPath("123:abd"))
	assert.Len(t, strings.TrimPrefix(p, "/webhook/"), 16)
}

func TestShortHashIsFNV1a(t *testing.T) {
	// known FNV-1a 64 value of the empty string
	assert.Equal(t, "cbf29ce484222325", shortHash(""))
}
