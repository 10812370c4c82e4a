package telegram

import (
	"os"
	"path/filepath"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/mapclick/map-quiz-bot/internal/domain/entities"
)

// markerForColor maps the controller's ramp colors onto keyboard emoji.
// Unknown colors get a generic marker rather than failing.
var markerForColor = map[string]string{
	"#fff3b0": "🟡",
	"#ffd166": "🟡",
	"#f4a261": "🟠",
	"#e76f51": "🔴",
	"#d62828": "⛔",
	"#66bb6a": "✅",
}

const fallbackMarker = "🟣"

// chatPresenter renders quiz state into one chat: the map photo with the
// region grid keyboard, a question message, voice cues and a results
// message. Every operation is best-effort; send failures are logged and
// swallowed so a Telegram hiccup never disturbs the quiz state machine.
type chatPresenter struct {
	bot      *tgbotapi.BotAPI
	logger   *zap.Logger
	chatID   int64
	regions  []*entities.Region
	imageRef string
	audioDir string

	mu            sync.Mutex
	boardMsgID    int
	questionMsgID int
	resultsMsgID  int
	lastCueMsgID  int
	markers       map[string]string
	questionText  string
	quizActive    bool
}

func newChatPresenter(
	bot *tgbotapi.BotAPI,
	logger *zap.Logger,
	chatID int64,
	regions []*entities.Region,
	imageRef, audioDir string,
) *chatPresenter {
	return &chatPresenter{
		bot:      bot,
		logger:   logger,
		chatID:   chatID,
		regions:  regions,
		imageRef: imageRef,
		audioDir: audioDir,
		markers:  make(map[string]string),
	}
}

// ShowBoard sends the map board into the chat, or refreshes its keyboard
// when it is already there.
func (p *chatPresenter) ShowBoard() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.redrawBoardLocked()
}

func (p *chatPresenter) ShowQuestionPanel(visible bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if visible {
		p.redrawBoardLocked()
		return
	}

	if p.questionMsgID != 0 {
		p.deleteMessage(p.questionMsgID)
		p.questionMsgID = 0
	}
	p.questionText = ""
}

func (p *chatPresenter) SetQuestionText(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.questionText = text
	if text == "" {
		if p.questionMsgID != 0 {
			p.deleteMessage(p.questionMsgID)
			p.questionMsgID = 0
		}
		return
	}

	body := md("🎯 ") + bold(text)
	if p.questionMsgID == 0 {
		msg := newMessage(p.chatID, body)
		p.questionMsgID = p.sendForID(msg)
		return
	}

	edit := tgbotapi.NewEditMessageText(p.chatID, p.questionMsgID, body)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	p.send(edit)
}

func (p *chatPresenter) ColorRegion(id, color string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	marker, ok := markerForColor[color]
	if !ok {
		marker = fallbackMarker
	}
	p.markers[id] = marker
	p.redrawBoardLocked()
}

func (p *chatPresenter) ClearRegionColor(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.markers[id]; !ok {
		return
	}
	delete(p.markers, id)
	p.redrawBoardLocked()
}

func (p *chatPresenter) MarkRegionAnswered(id string) {
	// Answered regions are rendered through their color marker; the
	// controller ignores taps on them, so no extra keyboard state is needed.
}

func (p *chatPresenter) PlayCue(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	path := filepath.Join(p.audioDir, name+".mp3")
	if _, err := os.Stat(path); err != nil {
		// Missing clip degrades to silence.
		p.logger.Debug("audio cue unavailable", zap.String("cue", name))
		return
	}

	audio := tgbotapi.NewAudio(p.chatID, tgbotapi.FilePath(path))
	p.lastCueMsgID = p.sendForID(audio)
}

func (p *chatPresenter) StopCue() {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Telegram cannot halt playback of delivered audio; withdrawing the
	// message is the closest available effect.
	if p.lastCueMsgID != 0 {
		p.deleteMessage(p.lastCueMsgID)
		p.lastCueMsgID = 0
	}
}

func (p *chatPresenter) ShowResults(title, scoreText string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	body := formatResults(title, scoreText, countAnswered(p.markers), len(p.regions))

	msg := newMessage(p.chatID, body)
	msg.ReplyMarkup = buildResultsKeyboard()

	if p.resultsMsgID != 0 {
		p.deleteMessage(p.resultsMsgID)
	}
	p.resultsMsgID = p.sendForID(msg)
}

func (p *chatPresenter) HideResults() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.resultsMsgID != 0 {
		p.deleteMessage(p.resultsMsgID)
		p.resultsMsgID = 0
	}
}

func (p *chatPresenter) SetControlLabel(quizActive bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.quizActive == quizActive && p.boardMsgID != 0 {
		return
	}
	p.quizActive = quizActive
	p.redrawBoardLocked()
}

// redrawBoardLocked sends the board on first use and edits its keyboard
// afterwards.
func (p *chatPresenter) redrawBoardLocked() {
	kb := buildBoardKeyboard(p.regions, p.markers, p.quizActive)

	if p.boardMsgID != 0 {
		edit := tgbotapi.NewEditMessageReplyMarkup(p.chatID, p.boardMsgID, kb)
		p.send(edit)
		return
	}

	if _, err := os.Stat(p.imageRef); err == nil {
		photo := tgbotapi.NewPhoto(p.chatID, tgbotapi.FilePath(p.imageRef))
		photo.Caption = "Tap a region"
		photo.ReplyMarkup = kb
		p.boardMsgID = p.sendForID(photo)
		return
	}

	// No map image on disk: fall back to a text board.
	msg := newPlainMessage(p.chatID, "🗺 Tap a region")
	msg.ReplyMarkup = kb
	p.boardMsgID = p.sendForID(msg)
}

func (p *chatPresenter) send(c tgbotapi.Chattable) {
	if _, err := p.bot.Send(c); err != nil {
		p.logger.Error("failed to send telegram message",
			zap.Int64("chat_id", p.chatID),
			zap.Error(err),
		)
	}
}

// sendForID sends a message and returns its ID, or 0 on failure.
func (p *chatPresenter) sendForID(c tgbotapi.Chattable) int {
	sent, err := p.bot.Send(c)
	if err != nil {
		p.logger.Error("failed to send telegram message",
			zap.Int64("chat_id", p.chatID),
			zap.Error(err),
		)
		return 0
	}
	return sent.MessageID
}

func (p *chatPresenter) deleteMessage(messageID int) {
	del := tgbotapi.NewDeleteMessage(p.chatID, messageID)
	if _, err := p.bot.Request(del); err != nil {
		p.logger.Debug("failed to delete telegram message",
			zap.Int64("chat_id", p.chatID),
			zap.Error(err),
		)
	}
}

// countAnswered tallies answered regions for the results progress bar.
func countAnswered(markers map[string]string) int {
	answered := 0
	for _, m := range markers {
		if m == "✅" {
			answered++
		}
	}
	return answered
}
