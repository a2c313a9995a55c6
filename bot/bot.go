// Package bot implements the Telegram surface: user registration, launching
// the Mini App, receiving its submitted payload, and an inline-keyboard
// fallback that drives the same preference session from inside the chat.
package bot

import (
	"context"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/palatebot/palate/internal/profile"
	"github.com/palatebot/palate/store"
)

// Bot wraps the Telegram API client with the stores it serves.
type Bot struct {
	api     *tgbotapi.BotAPI
	store   *store.Store
	profile *profile.Profile

	sessions *sessionManager

	limiterMu sync.Mutex
	limiters  map[int64]*rate.Limiter
}

// New creates a bot authorized against the Telegram API.
func New(profile *profile.Profile, st *store.Store) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(profile.BotToken)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create telegram bot")
	}

	slog.Info("telegram bot authorized", slog.String("username", api.Self.UserName))

	b := &Bot{
		api:      api,
		store:    st,
		profile:  profile,
		limiters: map[int64]*rate.Limiter{},
	}
	b.sessions = newSessionManager(b)
	return b, nil
}

// Start consumes updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.profile.UpdateTimeout

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			b.sessions.Close()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if !b.allow(&update) {
				continue
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

// allow applies a per-chat rate limit so a button-mashing user cannot flood
// the API with keyboard edits.
func (b *Bot) allow(update *tgbotapi.Update) bool {
	chatID := chatIDOf(update)
	if chatID == 0 {
		return true
	}

	b.limiterMu.Lock()
	limiter, ok := b.limiters[chatID]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(2), 5)
		b.limiters[chatID] = limiter
	}
	b.limiterMu.Unlock()

	if !limiter.Allow() {
		slog.Debug("dropping update over rate limit", slog.Int64("chat_id", chatID))
		return false
	}
	return true
}

func chatIDOf(update *tgbotapi.Update) int64 {
	if update.Message != nil {
		return update.Message.Chat.ID
	}
	if update.CallbackQuery != nil && update.CallbackQuery.Message != nil {
		return update.CallbackQuery.Message.Chat.ID
	}
	return 0
}
