package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"aidvision/api/internal/guide/types"
	"aidvision/api/internal/util"
)

// acceptPhoto attaches the largest size of the photo to the chat's form.
// A caption is taken as the description and submitted right away.
func (r *Router) acceptPhoto(ctx context.Context, msg *tgbotapi.Message) {
	cid := msg.Chat.ID
	ph := msg.Photo[len(msg.Photo)-1]
	if r.MaxImageBytes > 0 && ph.FileSize > r.MaxImageBytes {
		r.send(cid, fmt.Sprintf("The photo is too large, the limit is %d bytes.", r.MaxImageBytes))
		return
	}

	url, err := r.Bot.GetFileDirectURL(ph.FileID)
	if err != nil {
		r.logger().Warn("telegram get file", "chat_id", cid, "error", err)
		r.send(cid, "Could not read the photo, please send it again.")
		return
	}
	data, err := r.download(ctx, url)
	if err != nil {
		r.logger().Warn("telegram download", "chat_id", cid, "error", err)
		r.send(cid, "Could not read the photo, please send it again.")
		return
	}

	if err := r.formFor(cid).SelectImage(util.EncodeDataURL("", data)); err != nil {
		var ve *types.ValidationError
		if errors.As(err, &ve) {
			r.send(cid, ve.Message)
			return
		}
		r.send(cid, "Could not read the photo, please send it again.")
		return
	}

	if caption := strings.TrimSpace(msg.Caption); caption != "" {
		r.startSubmit(ctx, cid, caption)
		return
	}
	r.sendPhotoAttached(cid)
}

func (r *Router) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}
	body := io.Reader(resp.Body)
	if r.MaxImageBytes > 0 {
		body = io.LimitReader(resp.Body, int64(r.MaxImageBytes)+1)
	}
	return io.ReadAll(body)
}

func (r *Router) httpClient() *http.Client {
	if r.HTTPClient != nil {
		return r.HTTPClient
	}
	return &http.Client{Timeout: 60 * time.Second}
}
