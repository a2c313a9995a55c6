package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"github.com/palatebot/palate/prefs"
	"github.com/palatebot/palate/store"
)

// Activity sources.
const (
	sourceWebApp = "webapp"
	sourceChat   = "chat"
)

const ratingPrompt = "Rate how much you like each food category, from 1 to 10:"

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallback(ctx, update.CallbackQuery)
		return
	}
	if update.Message != nil {
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.WebAppData != nil {
		b.handleWebAppData(ctx, msg)
		return
	}

	if !msg.IsCommand() {
		return
	}

	switch msg.Command() {
	case "start":
		b.handleStart(ctx, msg)
	case "rate":
		b.handleRate(ctx, msg)
	case "help":
		b.reply(msg.Chat.ID, helpText())
	default:
		b.reply(msg.Chat.ID, "Unknown command. Try /start, /rate or /help.")
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	user, created, err := b.registerUser(ctx, msg.From)
	if err != nil {
		slog.Error("failed to register user", slog.String("error", err.Error()))
		b.reply(msg.Chat.ID, "Something went wrong, please try again.")
		return
	}

	info := userInfoOf(msg.From)
	greeting := fmt.Sprintf("Welcome back, %s!", info.DisplayName())
	if created {
		greeting = fmt.Sprintf("Welcome, %s! You're registered.", info.DisplayName())
	}

	b.recordActivity(ctx, user, store.ActivitySessionStarted, sourceChat)

	if b.profile.WebAppURL == "" {
		b.reply(msg.Chat.ID, greeting+"\nUse /rate to rate your food preferences right here in the chat.")
		return
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, greeting+"\nTap the button below to rate your food preferences.")
	reply.ReplyMarkup = tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.KeyboardButton{
			Text:   "🍽 Rate food",
			WebApp: &tgbotapi.WebAppInfo{URL: b.profile.WebAppURL},
		}),
	)
	b.send(reply)
}

// handleRate opens the inline fallback surface: the same preference session
// the Mini App runs, rendered as an editable keyboard.
func (b *Bot) handleRate(ctx context.Context, msg *tgbotapi.Message) {
	user, _, err := b.registerUser(ctx, msg.From)
	if err != nil {
		slog.Error("failed to register user", slog.String("error", err.Error()))
		b.reply(msg.Chat.ID, "Something went wrong, please try again.")
		return
	}

	session := b.newChatSession(msg.Chat.ID, user.ID, userInfoOf(msg.From))

	reply := tgbotapi.NewMessage(msg.Chat.ID, ratingPrompt)
	reply.ReplyMarkup = ratingKeyboard(session.prefs.List.Snapshot())
	sent, err := b.api.Send(reply)
	if err != nil {
		slog.Error("failed to send rating keyboard", slog.String("error", err.Error()))
		return
	}

	session.mu.Lock()
	session.messageID = sent.MessageID
	session.mu.Unlock()
	b.sessions.put(session)

	b.recordActivity(ctx, user, store.ActivitySessionStarted, sourceChat)
}

func (b *Bot) handleWebAppData(ctx context.Context, msg *tgbotapi.Message) {
	if err := b.acceptPayload(ctx, msg.Chat.ID, userInfoOf(msg.From), []byte(msg.WebAppData.Data), sourceWebApp); err != nil {
		slog.Warn("rejected web app payload", slog.Int64("chat_id", msg.Chat.ID), slog.String("error", err.Error()))
	}
}

func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil {
		return
	}
	chatID := callback.Message.Chat.ID
	data := callback.Data

	if data == callbackNoop {
		b.answer(callback.ID, "")
		return
	}

	session, ok := b.sessions.get(chatID)
	if !ok {
		b.answer(callback.ID, "This session has expired. Send /rate to start over.")
		return
	}
	// Any interaction restarts the idle clock.
	b.sessions.put(session)

	switch {
	case strings.HasPrefix(data, callbackIncPrefix):
		b.adjustRating(callback, session, strings.TrimPrefix(data, callbackIncPrefix), +1)
	case strings.HasPrefix(data, callbackDecPrefix):
		b.adjustRating(callback, session, strings.TrimPrefix(data, callbackDecPrefix), -1)
	case data == callbackReset:
		b.requestReset(ctx, callback, session)
	case data == callbackConfirm, data == callbackCancel:
		session.setCallback(callback.ID)
		if !session.resolveConfirm(data == callbackConfirm) {
			b.answer(callback.ID, "Nothing to confirm.")
		}
	case data == callbackSubmit:
		if err := session.prefs.Submit(); err != nil {
			slog.Error("failed to submit ratings", slog.Int64("chat_id", chatID), slog.String("error", err.Error()))
			b.answer(callback.ID, "Could not submit, please try again.")
			return
		}
		b.answer(callback.ID, "Submitted!")
	default:
		b.answer(callback.ID, "")
	}
}

// adjustRating steps one category by delta, clamping at the scale bounds the
// way a slider control would.
func (b *Bot) adjustRating(callback *tgbotapi.CallbackQuery, session *chatSession, rawIndex string, delta int) {
	index, err := strconv.Atoi(rawIndex)
	if err != nil {
		b.answer(callback.ID, "")
		return
	}
	entry, err := session.prefs.List.Get(index)
	if err != nil {
		b.answer(callback.ID, "")
		return
	}

	target := entry.Value + delta
	if target < prefs.MinValue {
		b.answer(callback.ID, "Already at the minimum.")
		return
	}
	if target > prefs.MaxValue {
		b.answer(callback.ID, "Already at the maximum.")
		return
	}

	if err := session.prefs.List.SetValue(index, target); err != nil {
		slog.Error("failed to set rating", slog.String("error", err.Error()))
		b.answer(callback.ID, "")
		return
	}
	b.answer(callback.ID, "")
}

// requestReset runs the confirmation flow off the update goroutine: Request
// blocks until the confirm/cancel callback resolves it.
func (b *Bot) requestReset(ctx context.Context, callback *tgbotapi.CallbackQuery, session *chatSession) {
	if session.prefs.Reset.AwaitingConfirmation() {
		b.answer(callback.ID, "Please answer the pending confirmation first.")
		return
	}
	b.answer(callback.ID, "")

	go func() {
		applied, err := session.prefs.Reset.Request(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			slog.Warn("reset flow ended abnormally", slog.Int64("chat_id", session.chatID), slog.String("error", err.Error()))
		}
		session.restore()
		if applied {
			if user, findErr := b.findUser(ctx, session.creatorID); findErr == nil && user != nil {
				b.recordActivity(ctx, user, store.ActivityPreferencesReset, sourceChat)
			}
		}
	}()
}

// acceptPayload is the single ingest point for submitted ratings, shared by
// the Mini App and the inline surface. The payload is validated against the
// wire contract, acknowledged with a summary, and logged as an activity
// event; the rated values themselves are not stored.
func (b *Bot) acceptPayload(ctx context.Context, chatID int64, info *prefs.UserInfo, data []byte, source string) error {
	payload, err := prefs.DecodePayload(data)
	if err != nil {
		b.reply(chatID, "Sorry, I couldn't read those ratings. Please try again.")
		return errors.Wrap(err, "invalid payload")
	}

	var user *store.User
	if info != nil {
		user, _, err = b.registerUser(ctx, &tgbotapi.User{
			ID:        info.ID,
			UserName:  info.Username,
			FirstName: info.FirstName,
			LastName:  info.LastName,
		})
		if err != nil {
			slog.Error("failed to register submitting user", slog.String("error", err.Error()))
		}
	}
	if user != nil {
		b.recordActivity(ctx, user, store.ActivityPreferencesSubmitted, source)
	}

	b.reply(chatID, summaryText(info, payload))
	return nil
}

func summaryText(info *prefs.UserInfo, payload *prefs.Payload) string {
	var sb strings.Builder
	if name := info.DisplayName(); name != "" {
		fmt.Fprintf(&sb, "Thanks, %s! Your food ratings:\n", name)
	} else {
		sb.WriteString("Thanks! Your food ratings:\n")
	}
	for _, preference := range payload.Preferences {
		fmt.Fprintf(&sb, "%s\n", categoryLabel(preference))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func helpText() string {
	return strings.Join([]string{
		"I collect your food preferences.",
		"",
		"/start — open the rating Mini App",
		"/rate — rate right here in the chat",
		"/help — this message",
	}, "\n")
}

func (b *Bot) registerUser(ctx context.Context, from *tgbotapi.User) (*store.User, bool, error) {
	if from == nil {
		return nil, false, errors.New("update has no sender")
	}
	return b.store.GetOrCreateUserByTelegramID(ctx, &store.User{
		TelegramID: from.ID,
		Username:   from.UserName,
		FirstName:  from.FirstName,
		LastName:   from.LastName,
	})
}

func (b *Bot) findUser(ctx context.Context, id int32) (*store.User, error) {
	return b.store.GetUser(ctx, &store.FindUser{ID: &id})
}

func (b *Bot) recordActivity(ctx context.Context, user *store.User, activityType, source string) {
	if _, err := b.store.CreateActivity(ctx, &store.Activity{
		CreatorID: user.ID,
		Type:      activityType,
		Source:    source,
	}); err != nil {
		slog.Warn("failed to record activity", slog.String("type", activityType), slog.String("error", err.Error()))
	}
}

func userInfoOf(from *tgbotapi.User) *prefs.UserInfo {
	if from == nil {
		return nil
	}
	return &prefs.UserInfo{
		ID:        from.ID,
		Username:  from.UserName,
		FirstName: from.FirstName,
		LastName:  from.LastName,
	}
}

func (b *Bot) reply(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		slog.Warn("failed to send message", slog.String("error", err.Error()))
	}
}

func (b *Bot) answer(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		slog.Debug("failed to answer callback", slog.String("error", err.Error()))
	}
}
