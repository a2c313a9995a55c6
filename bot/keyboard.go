package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/palatebot/palate/prefs"
)

// Callback data identifiers for the inline rating surface.
const (
	callbackIncPrefix = "pref:inc:"
	callbackDecPrefix = "pref:dec:"
	callbackNoop      = "pref:noop"
	callbackReset     = "reset:request"
	callbackConfirm   = "reset:confirm"
	callbackCancel    = "reset:cancel"
	callbackSubmit    = "submit"
)

var categoryEmoji = map[prefs.Category]string{
	prefs.CategoryFruits:     "🍎",
	prefs.CategoryVegetables: "🥦",
	prefs.CategoryMeat:       "🥩",
	prefs.CategoryDairy:      "🥛",
}

func categoryLabel(p prefs.Preference) string {
	return fmt.Sprintf("%s %s: %d", categoryEmoji[p.Name], p.Name, p.Value)
}

// ratingKeyboard renders one −/label/+ row per category plus the reset and
// submit actions. The −/+ buttons are the "control" of this surface: they
// keep every value inside [MinValue, MaxValue] before the store is touched.
func ratingKeyboard(snapshot []prefs.Preference) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(snapshot)+1)
	for i, preference := range snapshot {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("−", fmt.Sprintf("%s%d", callbackDecPrefix, i)),
			tgbotapi.NewInlineKeyboardButtonData(categoryLabel(preference), callbackNoop),
			tgbotapi.NewInlineKeyboardButtonData("+", fmt.Sprintf("%s%d", callbackIncPrefix, i)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("↩️ Reset", callbackReset),
		tgbotapi.NewInlineKeyboardButtonData("✅ Submit", callbackSubmit),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// confirmKeyboard is the confirmation modal of the inline surface.
func confirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Reset", callbackConfirm),
			tgbotapi.NewInlineKeyboardButtonData("Cancel", callbackCancel),
		),
	)
}
