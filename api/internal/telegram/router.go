package telegram

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"aidvision/api/internal/checker"
	"aidvision/api/internal/guide/types"
	"aidvision/api/internal/logger"
)

// Bot is the subset of *tgbotapi.BotAPI the router uses.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

const (
	helpText = "AidVision, your first-aid assistant.\n\n" +
		"Describe the symptom or injury in a message and I will reply with a severity assessment and first-aid steps. " +
		"You can attach a photo: send it with the description as the caption, or send the photo first and the description after.\n\n" +
		"Commands: /removephoto, /help\n\n" +
		"This is not a substitute for professional medical advice."
	busyText          = "Still analyzing your previous description, please wait."
	photoAttachedText = "Photo attached. Now describe the symptom or injury, the photo goes with your next description only."
	photoRemovedText  = "Photo removed."
)

// Router turns chat updates into symptom-checker submissions, one form per chat.
type Router struct {
	Bot           Bot
	Gen           checker.Generator
	Log           *logger.Logger
	MaxImageBytes int
	HTTPClient    *http.Client

	forms sync.Map // chatID -> *checker.Form
	wg    sync.WaitGroup
}

func (r *Router) logger() *logger.Logger {
	if r.Log == nil {
		return logger.Nop()
	}
	return r.Log
}

// HandleUpdate dispatches one update. Submissions run in the background; Wait blocks until they finish.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.CallbackQuery != nil {
		r.handleCallback(*upd.CallbackQuery)
		return
	}
	if upd.Message == nil {
		return
	}
	msg := upd.Message
	if msg.IsCommand() {
		r.HandleCommand(msg)
		return
	}
	if len(msg.Photo) > 0 {
		r.acceptPhoto(ctx, msg)
		return
	}
	if text := strings.TrimSpace(msg.Text); text != "" {
		r.startSubmit(ctx, msg.Chat.ID, text)
	}
}

// Wait blocks until every running submission has replied.
func (r *Router) Wait() { r.wg.Wait() }

func (r *Router) HandleCommand(msg *tgbotapi.Message) {
	cid := msg.Chat.ID
	switch msg.Command() {
	case "start", "help":
		r.send(cid, helpText)
	case "removephoto":
		r.removePhoto(cid)
	default:
		r.send(cid, "Unknown command. Try /help")
	}
}

func (r *Router) removePhoto(cid int64) {
	r.formFor(cid).RemoveImage()
	r.send(cid, photoRemovedText)
}

func (r *Router) startSubmit(ctx context.Context, cid int64, description string) {
	form := r.formFor(cid)
	if form.State().Phase == checker.PhaseLoading {
		r.send(cid, busyText)
		return
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.submit(ctx, cid, form, description)
	}()
}

func (r *Router) submit(ctx context.Context, cid int64, form *checker.Form, description string) {
	_, _ = r.Bot.Request(tgbotapi.NewChatAction(cid, tgbotapi.ChatTyping))

	started := time.Now()
	st, err := form.Submit(ctx, description)
	var ve *types.ValidationError
	switch {
	case errors.Is(err, checker.ErrBusy):
		r.send(cid, busyText)
		return
	case errors.As(err, &ve):
		r.send(cid, ve.Message)
		return
	case err != nil:
		// уведомление уже отправлено через Notifier
		return
	}
	r.logger().Debug("guide sent", "chat_id", cid, "submission_id", st.SubmissionID, "elapsed", time.Since(started))
	r.sendGuide(cid, checker.Render(st, form.Photo()))
}

func (r *Router) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := r.Bot.Send(msg); err != nil {
		r.logger().Warn("telegram send", "chat_id", chatID, "error", err)
	}
}

func (r *Router) sendPhotoAttached(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, photoAttachedText)
	msg.ReplyMarkup = makeRemovePhotoKeyboard()
	if _, err := r.Bot.Send(msg); err != nil {
		r.logger().Warn("telegram send", "chat_id", chatID, "error", err)
	}
}

func (r *Router) sendNotice(chatID int64, n checker.Notice) {
	r.send(chatID, "❌ "+n.Title+"\n"+n.Description)
}

func (r *Router) sendGuide(chatID int64, v checker.View) {
	msg := tgbotapi.NewMessage(chatID, formatGuide(v))
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := r.Bot.Send(msg); err != nil {
		r.logger().Warn("telegram send", "chat_id", chatID, "error", err)
	}
}
