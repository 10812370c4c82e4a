package telegram

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/mapclick/map-quiz-bot/internal/domain/entities"
	"github.com/mapclick/map-quiz-bot/internal/quiz"
	"github.com/mapclick/map-quiz-bot/internal/repository"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID

	data := decodeCallback(cb.Data)
	switch data.Action {
	case actionRegion:
		if len(data.Params) == 1 {
			_ = h.withErrorHandling(h.regionTapHandler(data.Params[0]))(ctx, chatID)
		}

	case actionQuiz:
		if len(data.Params) == 1 {
			h.handleQuizAction(chatID, cb.From, data.Params[0])
		}

	case actionScores:
		_ = h.withErrorHandling(h.scoresHandler())(ctx, chatID)

	default:
		h.logger.Debug("unknown callback action", zap.String("data", cb.Data))
	}

	// Remove the user's "clock".
	answer := tgbotapi.NewCallback(cb.ID, "")
	if _, err := h.bot.Request(answer); err != nil {
		h.logger.Debug("callback answer error", zap.Error(err))
	}
}

// regionTapHandler processes a tap on a map region. During an active quiz
// the tap is a guess; otherwise it shows the region card and plays its
// identifying clip.
func (h *Handler) regionTapHandler(regionID string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		ctrl := h.controllerFor(chatID)
		if ctrl.Active() {
			ctrl.SubmitGuess(regionID)
			return nil
		}

		region, err := h.regions.GetByID(regionID)
		if err != nil {
			if errors.Is(err, repository.ErrRegionNotFound) {
				h.logger.Debug("tap on unknown region", zap.String("region", regionID))
				return nil
			}
			return fmt.Errorf("get region %s: %w", regionID, err)
		}

		h.send(newMessage(chatID, formatRegionCard(region)))
		h.presenterFor(chatID).PlayCue(region.Cue())
		return nil
	}
}

// handleQuizAction processes quiz control buttons.
func (h *Handler) handleQuizAction(chatID int64, from *tgbotapi.User, sub string) {
	ctrl := h.controllerFor(chatID)

	switch sub {
	case quizStart:
		ctrl.Start()

	case quizRepeat:
		ctrl.RepeatPrompt()

	case quizExit:
		ctrl.Exit()

	case quizAgain:
		h.recordResult(ctrl, from)
		ctrl.Reset()

	case quizClose:
		h.recordResult(ctrl, from)
		ctrl.Exit()

	default:
		h.logger.Debug("unknown quiz action", zap.String("action", sub))
	}
}

// recordResult saves a completed quiz into the scoreboard. Results of
// abandoned sessions are not recorded.
func (h *Handler) recordResult(ctrl *quiz.Controller, from *tgbotapi.User) {
	if from == nil || ctrl.State() != entities.StateComplete {
		return
	}

	best := h.scoreboard.Record(from.ID, displayName(from), ctrl.CorrectAnswers(), h.regions.Count())
	if best {
		h.logger.Info("new personal best",
			zap.Int64("user_id", from.ID),
			zap.Int("correct", ctrl.CorrectAnswers()),
		)
	}
}

func displayName(from *tgbotapi.User) string {
	if from.UserName != "" {
		return "@" + from.UserName
	}
	if from.FirstName != "" {
		return from.FirstName
	}
	return fmt.Sprintf("player %d", from.ID)
}
