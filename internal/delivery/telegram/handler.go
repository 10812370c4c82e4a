package telegram

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/mapclick/map-quiz-bot/internal/quiz"
	"github.com/mapclick/map-quiz-bot/internal/service"
	"github.com/mapclick/map-quiz-bot/internal/storage"
)

// ScoreService records finished quiz results and serves the scoreboard.
type ScoreService interface {
	Record(userID int64, name string, correct, total int) bool
	Top(limit int) []service.ScoreEntry
}

const scoreboardLimit = 10

// Handler routes Telegram updates into quiz controllers, one per chat.
type Handler struct {
	bot        *tgbotapi.BotAPI
	logger     *zap.Logger
	regions    quiz.RegionSource
	scoreboard ScoreService
	sessions   *storage.SessionStore
	quizCfg    quiz.Config

	mapImagePath string
	audioDir     string

	mu         sync.Mutex
	presenters map[int64]*chatPresenter
}

func NewHandler(
	bot *tgbotapi.BotAPI,
	logger *zap.Logger,
	regions quiz.RegionSource,
	scoreboard ScoreService,
	sessions *storage.SessionStore,
	quizCfg quiz.Config,
	mapImagePath, audioDir string,
) *Handler {
	return &Handler{
		bot:          bot,
		logger:       logger,
		regions:      regions,
		scoreboard:   scoreboard,
		sessions:     sessions,
		quizCfg:      quizCfg,
		mapImagePath: mapImagePath,
		audioDir:     audioDir,
		presenters:   make(map[int64]*chatPresenter),
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	chatID := update.Message.Chat.ID

	if update.Message.IsCommand() {
		switch update.Message.Command() {
		case "start", "help":
			h.send(newMessage(chatID, welcomeMessage()))

		case "map":
			h.presenterFor(chatID).ShowBoard()

		case "quiz":
			h.controllerFor(chatID).Start()

		case "regions":
			h.send(newMessage(chatID, formatRegionList(h.regions.GetAll())))

		case "scores":
			_ = h.withErrorHandling(h.scoresHandler())(ctx, chatID)

		default:
			h.send(newPlainMessage(chatID, msgUnknownCommand))
		}

		return
	}
}

// presenterFor returns the chat's presenter, creating it on first use.
func (h *Handler) presenterFor(chatID int64) *chatPresenter {
	h.mu.Lock()
	defer h.mu.Unlock()

	if p, ok := h.presenters[chatID]; ok {
		return p
	}

	p := newChatPresenter(h.bot, h.logger, chatID, h.regions.GetAll(), h.mapImagePath, h.audioDir)
	h.presenters[chatID] = p
	return p
}

// controllerFor returns the chat's quiz controller, creating it on first use.
func (h *Handler) controllerFor(chatID int64) *quiz.Controller {
	p := h.presenterFor(chatID)
	return h.sessions.GetOrCreate(chatID, func() *quiz.Controller {
		return quiz.NewController(h.regions, p, h.logger, h.quizCfg)
	})
}

// scoresHandler shows the high score table.
func (h *Handler) scoresHandler() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		top := h.scoreboard.Top(scoreboardLimit)
		if len(top) == 0 {
			h.send(newPlainMessage(chatID, msgNoScoresYet))
			return nil
		}

		msg := newMessage(chatID, formatScoreboard(top))
		msg.ReplyMarkup = buildScoresKeyboard()
		h.send(msg)
		return nil
	}
}

func (h *Handler) sendError(chatID int64, errText string) {
	h.send(newPlainMessage(chatID, errText))
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}
