package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/palatebot/palate/prefs"
	"github.com/palatebot/palate/store/cache"
)

// sessionTTL bounds how long an untouched in-chat rating session stays
// alive. The Mini App owns its own session lifetime; this only covers the
// inline fallback.
const sessionTTL = 30 * time.Minute

// chatSession binds one chat's preference session to its rendered inline
// keyboard. It also implements prefs.Bridge: the confirmation modal is a
// confirm/cancel keyboard, haptic feedback is a callback-query answer, and
// the send primitive hands the payload back to the bot's submission path.
type chatSession struct {
	bot       *Bot
	chatID    int64
	creatorID int32

	prefs *prefs.Session

	mu sync.Mutex
	// messageID is the chat message carrying the rating keyboard.
	messageID int
	// lastCallback is the id of the callback query being handled, answered
	// by the next haptic.
	lastCallback string
	// confirm is non-nil while a reset confirmation is awaiting the user.
	confirm chan bool
}

func (b *Bot) newChatSession(chatID int64, creatorID int32, user *prefs.UserInfo) *chatSession {
	s := &chatSession{
		bot:       b,
		chatID:    chatID,
		creatorID: creatorID,
	}
	s.prefs = prefs.NewSession(user, s)

	// Explicit view binding: every store mutation redraws the keyboard.
	s.prefs.List.Subscribe(func() { s.render() })
	return s
}

// render redraws the rating keyboard on the session's message.
func (s *chatSession) render() {
	s.mu.Lock()
	messageID := s.messageID
	s.mu.Unlock()
	if messageID == 0 {
		return
	}

	edit := tgbotapi.NewEditMessageReplyMarkup(s.chatID, messageID, ratingKeyboard(s.prefs.List.Snapshot()))
	if _, err := s.bot.api.Request(edit); err != nil {
		slog.Warn("failed to redraw rating keyboard", slog.Int64("chat_id", s.chatID), slog.String("error", err.Error()))
	}
}

// restore puts the prompt text and rating keyboard back after the
// confirmation modal replaced them, whatever the outcome was.
func (s *chatSession) restore() {
	s.mu.Lock()
	messageID := s.messageID
	s.mu.Unlock()
	if messageID == 0 {
		return
	}

	edit := tgbotapi.NewEditMessageText(s.chatID, messageID, ratingPrompt)
	markup := ratingKeyboard(s.prefs.List.Snapshot())
	edit.ReplyMarkup = &markup
	if _, err := s.bot.api.Request(edit); err != nil {
		slog.Warn("failed to restore rating keyboard", slog.Int64("chat_id", s.chatID), slog.String("error", err.Error()))
	}
}

// setCallback records the callback query the next haptic should answer.
func (s *chatSession) setCallback(id string) {
	s.mu.Lock()
	s.lastCallback = id
	s.mu.Unlock()
}

// Confirm presents the confirm/cancel keyboard and blocks until the user
// chooses or ctx ends. Implements prefs.Bridge.
func (s *chatSession) Confirm(ctx context.Context, title, message string) (bool, error) {
	s.mu.Lock()
	s.confirm = make(chan bool, 1)
	messageID := s.messageID
	ch := s.confirm
	s.mu.Unlock()

	text := fmt.Sprintf("%s\n%s", title, message)
	edit := tgbotapi.NewEditMessageText(s.chatID, messageID, text)
	markup := confirmKeyboard()
	edit.ReplyMarkup = &markup
	if _, err := s.bot.api.Request(edit); err != nil {
		s.mu.Lock()
		s.confirm = nil
		s.mu.Unlock()
		return false, err
	}

	select {
	case choice := <-ch:
		return choice, nil
	case <-ctx.Done():
		s.mu.Lock()
		if s.confirm == ch {
			s.confirm = nil
		}
		s.mu.Unlock()
		return false, ctx.Err()
	}
}

// resolveConfirm delivers the user's choice to a pending Confirm. Returns
// false when no confirmation is pending, which makes resolution exactly-once:
// a second tap on a stale keyboard is ignored.
func (s *chatSession) resolveConfirm(choice bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.confirm == nil {
		return false
	}
	s.confirm <- choice
	s.confirm = nil
	return true
}

// Haptic answers the callback query in flight. Implements prefs.Bridge.
func (s *chatSession) Haptic(kind prefs.HapticKind) {
	s.mu.Lock()
	callbackID := s.lastCallback
	s.lastCallback = ""
	s.mu.Unlock()
	if callbackID == "" {
		return
	}

	text := "All ratings reset to 5"
	if kind == prefs.HapticError {
		text = "Reset cancelled"
	}
	if _, err := s.bot.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		slog.Debug("failed to answer callback", slog.String("error", err.Error()))
	}
}

// SendPayload routes the serialized ratings through the same submission path
// the Mini App uses. Implements prefs.Bridge.
func (s *chatSession) SendPayload(data []byte) error {
	return s.bot.acceptPayload(context.Background(), s.chatID, s.prefs.User, data, sourceChat)
}

// sessionManager keeps live chat sessions with idle expiry.
type sessionManager struct {
	bot   *Bot
	cache *cache.Cache
}

func newSessionManager(b *Bot) *sessionManager {
	return &sessionManager{
		bot: b,
		cache: cache.New(cache.Config{
			DefaultTTL:      sessionTTL,
			CleanupInterval: 10 * time.Minute,
			MaxItems:        10000,
		}),
	}
}

func (m *sessionManager) get(chatID int64) (*chatSession, bool) {
	value, ok := m.cache.Get(context.Background(), sessionKey(chatID))
	if !ok {
		return nil, false
	}
	session, ok := value.(*chatSession)
	return session, ok
}

// put stores the session and restarts its idle clock.
func (m *sessionManager) put(session *chatSession) {
	m.cache.Set(context.Background(), sessionKey(session.chatID), session)
}

func (m *sessionManager) delete(chatID int64) {
	m.cache.Delete(context.Background(), sessionKey(chatID))
}

func (m *sessionManager) Close() {
	m.cache.Close()
}

func sessionKey(chatID int64) string {
	return fmt.Sprintf("session-%d", chatID)
}
