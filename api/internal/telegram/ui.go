package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"aidvision/api/internal/checker"
)

const cbRemovePhoto = "remove_photo"

func makeRemovePhotoKeyboard() tgbotapi.InlineKeyboardMarkup {
	btn := tgbotapi.NewInlineKeyboardButtonData("Remove photo", cbRemovePhoto)
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(btn))
}

var badgeMark = map[string]string{
	checker.VariantDestructive: "🔴",
	checker.VariantWarning:     "🟠",
	checker.VariantAccent:      "🟢",
	checker.VariantOutline:     "⚪",
}

// formatGuide renders the result view as legacy Markdown.
func formatGuide(v checker.View) string {
	var b strings.Builder
	if v.HelpAlert != nil {
		fmt.Fprintf(&b, "⚠️ *%s*\n%s\n\n", esc(v.HelpAlert.Title), esc(v.HelpAlert.Description))
	}
	if v.Badge != nil {
		fmt.Fprintf(&b, "*Severity:* %s %s\n\n", badgeMark[v.Badge.Variant], esc(capitalize(v.Badge.Text)))
	}
	if v.PhotoIncluded {
		b.WriteString("📎 Based on your description and the attached photo.\n\n")
	}
	b.WriteString("*First-Aid Steps:*\n")
	for i, s := range v.Steps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, esc(s))
	}
	return strings.TrimRight(b.String(), "\n")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// лёгкое экранирование для Markdown
func esc(s string) string {
	s = strings.ReplaceAll(s, "`", "'")
	s = strings.ReplaceAll(s, "_", "\\_")
	s = strings.ReplaceAll(s, "*", "\\*")
	s = strings.ReplaceAll(s, "[", "\\[")
	return s
}
