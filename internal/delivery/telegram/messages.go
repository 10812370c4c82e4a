// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mapclick/map-quiz-bot/internal/domain/entities"
	"github.com/mapclick/map-quiz-bot/internal/service"
)

// Error messages.
const (
	msgRegionUnavailable = "Could not load that region. Try again later."
	msgNoScoresYet       = "Nobody has finished a quiz yet. Be the first — hit the start button!"
	msgInternalError     = "Something went wrong. Please try again later."
	msgUnknownCommand    = "Unknown command. Available commands:\n\n/map — show the quiz map\n/quiz — start a quiz\n/regions — list all regions\n/scores — high scores"
)

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newPlainMessage creates a plain message without MarkdownV2 parse mode.
func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	return msg
}

// welcomeMessage builds the welcome text safely for MarkdownV2.
func welcomeMessage() string {
	var sb strings.Builder

	sb.WriteString(bold("Map Quiz Bot"))
	sb.WriteString(md(" — learn the map by finding its regions."))
	sb.WriteString("\n\n")

	sb.WriteString(md("🗺 Tap a region on the map to hear its name."))
	sb.WriteString("\n")
	sb.WriteString(md("🎯 Start a quiz and find the region each voice prompt asks for."))
	sb.WriteString("\n")
	sb.WriteString(md("🏆 A first-try answer counts towards your score."))
	sb.WriteString("\n\n")

	sb.WriteString(md("To begin:"))
	sb.WriteString("\n\n")
	sb.WriteString(md("1. Send /map to open the quiz map."))
	sb.WriteString("\n")
	sb.WriteString(md("2. Send /quiz to start playing."))
	sb.WriteString("\n")
	sb.WriteString(md("3. Send /scores to see the best results."))

	return sb.String()
}

// formatRegionCard formats a single region card (MarkdownV2 safe).
func formatRegionCard(region *entities.Region) string {
	return fmt.Sprintf(
		"%s %s",
		md("📍"),
		bold(region.Name()),
	)
}

// formatRegionList formats the ordered region list (MarkdownV2 safe).
func formatRegionList(regions []*entities.Region) string {
	var sb strings.Builder
	sb.WriteString(bold("Map regions"))
	sb.WriteString("\n\n")
	for i, r := range regions {
		sb.WriteString(md(fmt.Sprintf("%d. %s", i+1, r.Name())))
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatScoreboard formats the high score table (MarkdownV2 safe).
func formatScoreboard(entries []service.ScoreEntry) string {
	var sb strings.Builder
	sb.WriteString(md("🏆 "))
	sb.WriteString(bold("High scores"))
	sb.WriteString("\n\n")

	medals := []string{"🥇", "🥈", "🥉"}
	for i, e := range entries {
		marker := fmt.Sprintf("%d.", i+1)
		if i < len(medals) {
			marker = medals[i]
		}
		sb.WriteString(md(fmt.Sprintf("%s %s — %d%% (%d/%d)",
			marker, e.Name, e.Percentage, e.Correct, e.Total)))
		sb.WriteString("\n")
	}

	return sb.String()
}

// buildProgressBar creates an ASCII progress bar.
func buildProgressBar(current, total, length int) string {
	if total == 0 {
		return strings.Repeat("░", length)
	}

	filled := int(float64(current) / float64(total) * float64(length))
	if filled > length {
		filled = length
	}

	empty := length - filled
	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	return fmt.Sprintf("[%s]", bar)
}

// formatResults formats the results screen body (MarkdownV2 safe).
// found/total feed the progress bar of resolved regions.
func formatResults(title, scoreText string, found, total int) string {
	progressBar := buildProgressBar(found, total, 10)

	return fmt.Sprintf(
		"%s %s\n\n%s\n%s",
		md("🏁"),
		bold(title),
		md(scoreText),
		md(progressBar),
	)
}
