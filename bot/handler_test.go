package bot

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palatebot/palate/prefs"
)

func TestSummaryText(t *testing.T) {
	list := prefs.NewList()
	require.NoError(t, list.SetValue(0, 8))
	userID := int64(42)
	payload := list.Payload(&userID)

	got := summaryText(&prefs.UserInfo{Username: "alice"}, payload)
	want := "Thanks, alice! Your food ratings:\n" +
		"🍎 fruits: 8\n" +
		"🥦 vegetables: 5\n" +
		"🥩 meat: 5\n" +
		"🥛 dairy: 5"
	assert.Equal(t, want, got)
}

func TestSummaryTextAnonymous(t *testing.T) {
	payload := prefs.NewList().Payload(nil)

	got := summaryText(nil, payload)
	assert.Contains(t, got, "Thanks! Your food ratings:")
	assert.Contains(t, got, "🥛 dairy: 5")
}

func TestUserInfoOf(t *testing.T) {
	assert.Nil(t, userInfoOf(nil))

	info := userInfoOf(&tgbotapi.User{ID: 42, UserName: "alice", FirstName: "Alice", LastName: "Smith"})
	require.NotNil(t, info)
	assert.Equal(t, int64(42), info.ID)
	assert.Equal(t, "alice", info.Username)
	assert.Equal(t, "Alice", info.FirstName)
	assert.Equal(t, "Smith", info.LastName)
}

func TestChatIDOf(t *testing.T) {
	msg := &tgbotapi.Update{Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 10}}}
	assert.Equal(t, int64(10), chatIDOf(msg))

	cb := &tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 20}},
	}}
	assert.Equal(t, int64(20), chatIDOf(cb))

	assert.Equal(t, int64(0), chatIDOf(&tgbotapi.Update{}))
}
