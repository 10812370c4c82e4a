// Package quiz implements the quiz session state machine: question
// selection, guess counting, scoring and the audio/timer lifecycle.
package quiz

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mapclick/map-quiz-bot/internal/domain/entities"
)

const (
	defaultMaxGuesses   = 5
	defaultAdvanceDelay = 800 * time.Millisecond
	defaultCorrectColor = "#66bb6a"
)

// defaultWrongColors is the severity ramp applied per consecutive wrong
// guess, from mild to severe.
var defaultWrongColors = []string{"#fff3b0", "#ffd166", "#f4a261", "#e76f51", "#d62828"}

// Config tunes the controller. Zero values fall back to the defaults above.
type Config struct {
	MaxGuesses   int
	AdvanceDelay time.Duration
	WrongColors  []string
	CorrectColor string
}

func (c Config) withDefaults() Config {
	if c.MaxGuesses <= 0 {
		c.MaxGuesses = defaultMaxGuesses
	}
	if c.AdvanceDelay <= 0 {
		c.AdvanceDelay = defaultAdvanceDelay
	}
	if len(c.WrongColors) == 0 {
		c.WrongColors = defaultWrongColors
	}
	if c.CorrectColor == "" {
		c.CorrectColor = defaultCorrectColor
	}
	return c
}

// Controller owns the state of one quiz session and drives all transitions.
// Events arrive from the delivery layer and from the advance timer; the
// mutex serializes them so each transition runs to completion on its own.
type Controller struct {
	mu        sync.Mutex
	regions   RegionSource
	presenter Presenter
	logger    *zap.Logger
	cfg       Config
	rng       *rand.Rand

	session      *entities.QuizSession
	miscolored   map[string]bool
	activePrompt string
	advance      *time.Timer
	advanceSeq   uint64
}

// NewController creates an idle controller over the given region set.
func NewController(regions RegionSource, presenter Presenter, logger *zap.Logger, cfg Config) *Controller {
	return &Controller{
		regions:    regions,
		presenter:  presenter,
		logger:     logger,
		cfg:        cfg.withDefaults(),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		session:    entities.NewQuizSession(),
		miscolored: make(map[string]bool),
	}
}

// Start begins a fresh quiz: all counters and answered flags are cleared,
// the first target is selected and its prompt is played. Calling Start
// during an active quiz restarts it.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.teardownLocked()
	c.session.Begin()

	c.presenter.HideResults()
	c.presenter.ShowQuestionPanel(true)
	c.presenter.SetControlLabel(true)

	c.logger.Info("quiz started", zap.Int("regions", c.regions.Count()))
	c.nextQuestionLocked()
}

// SubmitGuess processes a region tap during an active quiz. It is ignored
// when no quiz is running, when the question is already resolving, when the
// region is unknown or already answered.
func (c *Controller) SubmitGuess(regionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.State != entities.StateAwaitingAnswer || c.session.CurrentTarget == "" {
		return
	}
	if !c.regions.Exists(regionID) || c.session.IsAnswered(regionID) {
		return
	}

	if regionID == c.session.CurrentTarget {
		c.resolveLocked(true)
		return
	}

	c.session.GuessCount++

	idx := c.session.GuessCount
	if idx > len(c.cfg.WrongColors)-1 {
		idx = len(c.cfg.WrongColors) - 1
	}
	c.presenter.ColorRegion(regionID, c.cfg.WrongColors[idx])
	c.miscolored[regionID] = true
	c.presenter.PlayCue(CueIncorrect)

	c.logger.Debug("wrong guess",
		zap.String("region", regionID),
		zap.String("target", c.session.CurrentTarget),
		zap.Int("guess_count", c.session.GuessCount),
	)

	// After the last allowed guess the question resolves on its own,
	// answered but not credited.
	if c.session.GuessCount >= c.cfg.MaxGuesses {
		c.resolveLocked(false)
	}
}

// RepeatPrompt replays the current prompt audio from the beginning. It is a
// no-op when no question is awaiting an answer.
func (c *Controller) RepeatPrompt() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.State != entities.StateAwaitingAnswer || c.activePrompt == "" {
		return
	}
	c.presenter.PlayCue(c.activePrompt)
}

// Exit abandons the quiz from any state: the pending advance timer is
// cancelled, prompt audio stops, all region state is cleared and the
// session returns to idle.
func (c *Controller) Exit() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.teardownLocked()
	c.session.End()

	c.presenter.ShowQuestionPanel(false)
	c.presenter.SetQuestionText("")
	c.presenter.HideResults()
	c.presenter.SetControlLabel(false)

	c.logger.Info("quiz exited")
}

// Reset is Exit immediately followed by Start.
func (c *Controller) Reset() {
	c.Exit()
	c.Start()
}

// Active reports whether a quiz is in progress.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Active()
}

// State returns the current session state.
func (c *Controller) State() entities.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.State
}

// CurrentTarget returns the region the player must currently find, or the
// empty string when there is none.
func (c *Controller) CurrentTarget() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.CurrentTarget
}

// CorrectAnswers returns the number of first-guess correct answers.
func (c *Controller) CorrectAnswers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.CorrectAnswers
}

// TotalQuestions returns the number of resolved questions.
func (c *Controller) TotalQuestions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.TotalQuestions
}

// Score returns the percentage score over the full region set.
func (c *Controller) Score() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Score(c.regions.Count())
}

// resolveLocked settles the current question, either because the target was
// hit or because the guess limit was exhausted, and schedules the advance
// to the next question.
func (c *Controller) resolveLocked(credited bool) {
	target := c.session.CurrentTarget

	c.session.MarkAnswered(target)
	c.presenter.MarkRegionAnswered(target)
	c.presenter.ColorRegion(target, c.cfg.CorrectColor)

	if credited {
		c.presenter.PlayCue(CueCorrect)
		if c.session.GuessCount == 0 {
			c.session.CorrectAnswers++
		}
	}
	c.session.TotalQuestions++
	c.session.State = entities.StateResolving
	c.activePrompt = ""

	c.logger.Debug("question resolved",
		zap.String("target", target),
		zap.Bool("credited", credited),
		zap.Int("correct", c.session.CorrectAnswers),
		zap.Int("total", c.session.TotalQuestions),
	)

	c.scheduleAdvanceLocked()
}

// scheduleAdvanceLocked arms the advance timer, replacing any pending one.
// The sequence number keeps a cancelled timer that already fired from
// mutating state once it acquires the lock.
func (c *Controller) scheduleAdvanceLocked() {
	c.cancelAdvanceLocked()

	c.advanceSeq++
	seq := c.advanceSeq
	c.advance = time.AfterFunc(c.cfg.AdvanceDelay, func() {
		c.advanceQuestion(seq)
	})
}

func (c *Controller) advanceQuestion(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.advanceSeq || c.session.State != entities.StateResolving {
		return
	}
	c.advance = nil
	c.nextQuestionLocked()
}

// nextQuestionLocked selects the next target uniformly at random among the
// unanswered regions, or completes the quiz when none remain.
func (c *Controller) nextQuestionLocked() {
	c.clearMiscoloredLocked()

	candidates := make([]*entities.Region, 0, c.regions.Count())
	for _, r := range c.regions.GetAll() {
		if !c.session.IsAnswered(r.ID) {
			candidates = append(candidates, r)
		}
	}

	if len(candidates) == 0 {
		c.completeLocked()
		return
	}

	target := candidates[c.rng.Intn(len(candidates))]
	c.session.State = entities.StateAwaitingAnswer
	c.session.CurrentTarget = target.ID
	c.session.GuessCount = 0

	c.presenter.SetQuestionText(fmt.Sprintf("Find %s", target.Name()))
	c.activePrompt = target.PromptCue()
	c.presenter.PlayCue(c.activePrompt)

	c.logger.Debug("next question",
		zap.String("target", target.ID),
		zap.Int("remaining", len(candidates)),
	)
}

func (c *Controller) completeLocked() {
	c.session.State = entities.StateComplete
	c.session.CurrentTarget = ""

	score := c.session.Score(c.regions.Count())
	title := "Quiz complete"
	if score == 100 {
		title = "Perfect score!"
		c.presenter.PlayCue(CueCelebration)
	}

	scoreText := fmt.Sprintf("You scored %d%% (%d of %d first-try)",
		score, c.session.CorrectAnswers, c.regions.Count())

	c.presenter.ShowQuestionPanel(false)
	c.presenter.SetQuestionText("")
	c.presenter.ShowResults(title, scoreText)

	c.logger.Info("quiz complete",
		zap.Int("score", score),
		zap.Int("correct", c.session.CorrectAnswers),
		zap.Int("total", c.session.TotalQuestions),
	)
}

// teardownLocked cancels the pending timer, stops prompt audio and clears
// every region's visual state.
func (c *Controller) teardownLocked() {
	c.cancelAdvanceLocked()

	if c.activePrompt != "" {
		c.presenter.StopCue()
		c.activePrompt = ""
	}

	for _, r := range c.regions.GetAll() {
		if c.session.IsAnswered(r.ID) || c.miscolored[r.ID] {
			c.presenter.ClearRegionColor(r.ID)
		}
	}
	c.miscolored = make(map[string]bool)
}

func (c *Controller) cancelAdvanceLocked() {
	// Bumping the sequence invalidates a timer that fired but has not
	// taken the lock yet.
	c.advanceSeq++
	if c.advance != nil {
		c.advance.Stop()
		c.advance = nil
	}
}

// clearMiscoloredLocked removes severity-ramp paint left over from the
// previous question. Answered regions keep their color.
func (c *Controller) clearMiscoloredLocked() {
	for id := range c.miscolored {
		if !c.session.IsAnswered(id) {
			c.presenter.ClearRegionColor(id)
		}
	}
	c.miscolored = make(map[string]bool)
}
