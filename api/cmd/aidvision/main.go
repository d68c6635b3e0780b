package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"

	"aidvision/api/internal/config"
	"aidvision/api/internal/guide"
	"aidvision/api/internal/guide/prompt"
	"aidvision/api/internal/handle"
	"aidvision/api/internal/httpserver"
	"aidvision/api/internal/llm"
	"aidvision/api/internal/llm/gemini"
	"aidvision/api/internal/llm/gpt"
	"aidvision/api/internal/logger"
	"aidvision/api/internal/telegram"
	"aidvision/api/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer log.Sync()

	templates, err := prompt.Load(cfg.PromptFile)
	if err != nil {
		return err
	}

	// Провайдер без ключа не регистрируем: llm_name на него даст ValidationError
	engines := &llm.Engines{Default: cfg.LLMName}
	if cfg.GeminiAPIKey != "" {
		engines.Gemini = gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel)
	}
	if cfg.OpenAIAPIKey != "" {
		engines.OpenAI = gpt.New(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	}

	svc, err := guide.NewService(engines, templates, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()
	mux.Handle("/healthz", httpserver.Healthz("ok"))
	handle.New(svc, log, cfg.MaxImageBytes).Register(mux)
	mux.Handle("/", web.New(svc, log, cfg.MaxImageBytes))

	g, gctx := errgroup.WithContext(ctx)

	if cfg.TelegramEnabled() {
		bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
		if err != nil {
			return fmt.Errorf("telegram: %w", err)
		}
		router := &telegram.Router{
			Bot:           bot,
			Gen:           svc,
			Log:           log.With("component", "telegram"),
			MaxImageBytes: cfg.MaxImageBytes,
		}
		handleUpdate := func(upd tgbotapi.Update) { router.HandleUpdate(gctx, upd) }

		if webhookURL := strings.TrimSpace(cfg.WebhookURL); webhookURL != "" {
			path := telegram.WebhookPath(bot.Token)
			wh, err := tgbotapi.NewWebhook(strings.TrimRight(webhookURL, "/") + path)
			if err != nil {
				return fmt.Errorf("telegram webhook: %w", err)
			}
			wh.DropPendingUpdates = true
			if _, err := bot.Request(wh); err != nil {
				return fmt.Errorf("telegram webhook: %w", err)
			}
			mux.Handle(path, telegram.WebhookHandler(log, handleUpdate))
			log.Info("telegram webhook mode", "path", path)
		} else {
			if _, err := bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
				log.Warn("telegram delete webhook", "error", err)
			}
			g.Go(func() error {
				telegram.RunPolling(gctx, bot, log, handleUpdate)
				return nil
			})
			log.Info("telegram polling mode", "bot", bot.Self.UserName)
		}
		defer router.Wait()
	}

	g.Go(func() error {
		return httpserver.Run(gctx, "0.0.0.0:"+cfg.Port, mux, log)
	})

	log.Info("aidvision started",
		"llm", cfg.LLMName,
		"gemini_model", cfg.GeminiModel,
		"openai_model", cfg.OpenAIModel,
		"telegram", cfg.TelegramEnabled(),
	)
	return g.Wait()
}
