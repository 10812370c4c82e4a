package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mapclick/map-quiz-bot/internal/domain/entities"
)

const regionsPerRow = 3

// buildBoardKeyboard builds the region grid with the per-region markers and
// the control row underneath.
func buildBoardKeyboard(regions []*entities.Region, markers map[string]string, quizActive bool) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	var row []tgbotapi.InlineKeyboardButton
	for _, r := range regions {
		label := r.Name()
		if marker, ok := markers[r.ID]; ok {
			label = marker + " " + label
		}

		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, buildRegionCallback(r.ID)))
		if len(row) == regionsPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows, buildControlRow(quizActive))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildControlRow builds the start/exit affordance row.
func buildControlRow(quizActive bool) []tgbotapi.InlineKeyboardButton {
	if quizActive {
		return tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔊 Repeat prompt", buildQuizCallback(quizRepeat)),
			tgbotapi.NewInlineKeyboardButtonData("🚪 Exit quiz", buildQuizCallback(quizExit)),
		)
	}

	return tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🎯 Start quiz", buildQuizCallback(quizStart)),
		tgbotapi.NewInlineKeyboardButtonData("🏆 High scores", buildScoresCallback()),
	)
}

// buildResultsKeyboard builds the keyboard under the results screen.
func buildResultsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Try again", buildQuizCallback(quizAgain)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✖️ Close", buildQuizCallback(quizClose)),
		),
	)
}

// buildScoresKeyboard builds the keyboard under the scoreboard.
func buildScoresKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎯 Start quiz", buildQuizCallback(quizStart)),
		),
	)
}
