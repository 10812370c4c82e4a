package quiz

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mapclick/map-quiz-bot/internal/domain/entities"
)

type stubRegions struct {
	regions []*entities.Region
}

func newStubRegions(ids ...string) *stubRegions {
	s := &stubRegions{}
	for _, id := range ids {
		s.regions = append(s.regions, &entities.Region{ID: id})
	}
	return s
}

func (s *stubRegions) GetByID(id string) (*entities.Region, error) {
	for _, r := range s.regions {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, fmt.Errorf("no region %s", id)
}

func (s *stubRegions) GetAll() []*entities.Region { return s.regions }

func (s *stubRegions) Exists(id string) bool {
	for _, r := range s.regions {
		if r.ID == id {
			return true
		}
	}
	return false
}

func (s *stubRegions) Count() int { return len(s.regions) }

// fakePresenter records every side effect the controller emits.
type fakePresenter struct {
	mu            sync.Mutex
	cues          []string
	colors        map[string]string
	answered      map[string]bool
	questionText  string
	panelVisible  bool
	controlActive bool
	resultsTitle  string
	resultsScore  string
	resultsShown  bool
	stops         int
}

func newFakePresenter() *fakePresenter {
	return &fakePresenter{
		colors:   make(map[string]string),
		answered: make(map[string]bool),
	}
}

func (f *fakePresenter) ShowQuestionPanel(visible bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.panelVisible = visible
}

func (f *fakePresenter) SetQuestionText(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.questionText = text
}

func (f *fakePresenter) ColorRegion(id, color string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.colors[id] = color
}

func (f *fakePresenter) ClearRegionColor(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.colors, id)
}

func (f *fakePresenter) MarkRegionAnswered(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answered[id] = true
}

func (f *fakePresenter) PlayCue(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cues = append(f.cues, name)
}

func (f *fakePresenter) StopCue() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
}

func (f *fakePresenter) ShowResults(title, scoreText string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resultsShown = true
	f.resultsTitle = title
	f.resultsScore = scoreText
}

func (f *fakePresenter) HideResults() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resultsShown = false
}

func (f *fakePresenter) SetControlLabel(quizActive bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.controlActive = quizActive
}

func (f *fakePresenter) cueCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.cues {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakePresenter) colorOf(id string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.colors[id]
}

// presenterState is a lock-free copy of the observable presenter state.
type presenterState struct {
	questionText  string
	panelVisible  bool
	controlActive bool
	resultsTitle  string
	resultsScore  string
	resultsShown  bool
	stops         int
}

func (f *fakePresenter) snapshot() presenterState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return presenterState{
		questionText:  f.questionText,
		panelVisible:  f.panelVisible,
		controlActive: f.controlActive,
		resultsTitle:  f.resultsTitle,
		resultsScore:  f.resultsScore,
		resultsShown:  f.resultsShown,
		stops:         f.stops,
	}
}

var testRamp = []string{"ramp0", "ramp1", "ramp2", "ramp3", "ramp4"}

// newTestController uses an advance delay long enough that assertions made
// right after a guess observe the resolving state, and short enough to keep
// the suite fast.
func newTestController(regions *stubRegions, p *fakePresenter) *Controller {
	return NewController(regions, p, zap.NewNop(), Config{
		MaxGuesses:   5,
		AdvanceDelay: 60 * time.Millisecond,
		WrongColors:  testRamp,
		CorrectColor: "green",
	})
}

// waitForNextQuestion blocks until the pending advance fires and the
// controller leaves the resolving state.
func waitForNextQuestion(t *testing.T, c *Controller) {
	t.Helper()
	require.Eventually(t, func() bool {
		return c.State() != entities.StateResolving
	}, time.Second, time.Millisecond)
}

func TestStartSelectsTargetAndPlaysPrompt(t *testing.T) {
	regions := newStubRegions("alpha", "beta", "gamma")
	p := newFakePresenter()
	c := newTestController(regions, p)

	c.Start()

	require.Equal(t, entities.StateAwaitingAnswer, c.State())
	target := c.CurrentTarget()
	require.True(t, regions.Exists(target))
	require.Zero(t, c.CorrectAnswers())
	require.Zero(t, c.TotalQuestions())

	require.Equal(t, 1, p.cueCount("find_"+target))
	snap := p.snapshot()
	require.True(t, snap.panelVisible)
	require.True(t, snap.controlActive)
	require.Contains(t, snap.questionText, "Find ")
}

func TestFirstGuessCorrectIsCredited(t *testing.T) {
	regions := newStubRegions("alpha", "beta")
	p := newFakePresenter()
	c := newTestController(regions, p)

	c.Start()
	target := c.CurrentTarget()

	c.SubmitGuess(target)

	require.Equal(t, entities.StateResolving, c.State())
	require.Equal(t, 1, c.CorrectAnswers())
	require.Equal(t, 1, c.TotalQuestions())
	require.Equal(t, 1, p.cueCount(CueCorrect))
	require.Equal(t, "green", p.colorOf(target))

	waitForNextQuestion(t, c)
	require.Equal(t, entities.StateAwaitingAnswer, c.State())
	require.NotEqual(t, target, c.CurrentTarget())
}

func TestLateCorrectGuessIsNotCredited(t *testing.T) {
	regions := newStubRegions("alpha", "beta", "gamma")
	p := newFakePresenter()
	c := newTestController(regions, p)

	c.Start()
	target := c.CurrentTarget()
	wrong := otherRegion(regions, target)

	c.SubmitGuess(wrong)
	require.Equal(t, 1, p.cueCount(CueIncorrect))
	require.Equal(t, "ramp1", p.colorOf(wrong))

	c.SubmitGuess(target)
	require.Equal(t, 0, c.CorrectAnswers())
	require.Equal(t, 1, c.TotalQuestions())
	require.Equal(t, entities.StateResolving, c.State())
}

func TestSeverityRampClampsAtLastColor(t *testing.T) {
	regions := newStubRegions("alpha", "beta")
	p := newFakePresenter()
	c := NewController(regions, p, zap.NewNop(), Config{
		MaxGuesses:   8,
		AdvanceDelay: 60 * time.Millisecond,
		WrongColors:  testRamp,
		CorrectColor: "green",
	})

	c.Start()
	wrong := otherRegion(regions, c.CurrentTarget())

	for i := 0; i < 6; i++ {
		c.SubmitGuess(wrong)
	}

	require.Equal(t, "ramp4", p.colorOf(wrong))
	require.Equal(t, entities.StateAwaitingAnswer, c.State())
}

func TestGuessExhaustionForceResolves(t *testing.T) {
	regions := newStubRegions("alpha", "beta")
	p := newFakePresenter()
	c := newTestController(regions, p)

	c.Start()
	target := c.CurrentTarget()
	wrong := otherRegion(regions, target)

	for i := 0; i < 5; i++ {
		c.SubmitGuess(wrong)
	}

	require.Equal(t, entities.StateResolving, c.State())
	require.Equal(t, 0, c.CorrectAnswers())
	require.Equal(t, 1, c.TotalQuestions())
	require.Equal(t, "green", p.colorOf(target))
	require.Equal(t, 5, p.cueCount(CueIncorrect))
}

func TestGuessIgnoredOutsideActiveQuestion(t *testing.T) {
	regions := newStubRegions("alpha", "beta")
	p := newFakePresenter()
	c := newTestController(regions, p)

	// Idle: nothing happens.
	c.SubmitGuess("alpha")
	require.Equal(t, entities.StateIdle, c.State())
	require.Zero(t, c.TotalQuestions())

	c.Start()
	target := c.CurrentTarget()
	c.SubmitGuess(target)

	// Resolving: further guesses are dropped.
	c.SubmitGuess(otherRegion(regions, target))
	require.Equal(t, 1, c.TotalQuestions())
	require.Equal(t, 0, p.cueCount(CueIncorrect))

	// Unknown regions never count.
	waitForNextQuestion(t, c)
	c.SubmitGuess("atlantis")
	require.Equal(t, 1, c.TotalQuestions())
	require.Equal(t, 0, p.cueCount(CueIncorrect))
}

func TestGuessOnAnsweredRegionIsNoop(t *testing.T) {
	regions := newStubRegions("alpha", "beta")
	p := newFakePresenter()
	c := newTestController(regions, p)

	c.Start()
	first := c.CurrentTarget()
	c.SubmitGuess(first)
	waitForNextQuestion(t, c)

	// The resolved region neither counts as a guess nor fires a cue.
	before := c.TotalQuestions()
	c.SubmitGuess(first)
	require.Equal(t, before, c.TotalQuestions())
	require.Equal(t, 0, p.cueCount(CueIncorrect))
	require.Equal(t, entities.StateAwaitingAnswer, c.State())
}

func TestRepeatPromptReplaysActivePrompt(t *testing.T) {
	regions := newStubRegions("alpha", "beta")
	p := newFakePresenter()
	c := newTestController(regions, p)

	// No-op while idle.
	c.RepeatPrompt()
	require.Empty(t, p.cues)

	c.Start()
	target := c.CurrentTarget()
	c.RepeatPrompt()
	require.Equal(t, 2, p.cueCount("find_"+target))

	// No-op while resolving.
	c.SubmitGuess(target)
	c.RepeatPrompt()
	require.Equal(t, 2, p.cueCount("find_"+target))
}

func TestExitCancelsTimerAndStopsPrompt(t *testing.T) {
	regions := newStubRegions("alpha", "beta")
	p := newFakePresenter()
	c := NewController(regions, p, zap.NewNop(), Config{
		MaxGuesses:   5,
		AdvanceDelay: 50 * time.Millisecond,
		WrongColors:  testRamp,
		CorrectColor: "green",
	})

	c.Start()
	target := c.CurrentTarget()
	c.SubmitGuess(target)
	require.Equal(t, entities.StateResolving, c.State())

	c.Exit()
	require.Equal(t, entities.StateIdle, c.State())
	require.Empty(t, c.CurrentTarget())

	// The pending advance must not fire after exit.
	time.Sleep(120 * time.Millisecond)
	require.Equal(t, entities.StateIdle, c.State())
	require.Zero(t, c.TotalQuestions())

	snap := p.snapshot()
	require.False(t, snap.panelVisible)
	require.False(t, snap.controlActive)
	require.False(t, snap.resultsShown)
}

func TestExitDuringQuestionStopsAudioAndClearsColors(t *testing.T) {
	regions := newStubRegions("alpha", "beta", "gamma")
	p := newFakePresenter()
	c := newTestController(regions, p)

	c.Start()
	wrong := otherRegion(regions, c.CurrentTarget())
	c.SubmitGuess(wrong)
	require.NotEmpty(t, p.colorOf(wrong))

	c.Exit()
	require.Equal(t, 1, p.snapshot().stops)
	require.Empty(t, p.colorOf(wrong))
}

func TestResetStartsFreshSession(t *testing.T) {
	regions := newStubRegions("alpha", "beta")
	p := newFakePresenter()
	c := newTestController(regions, p)

	c.Start()
	c.SubmitGuess(c.CurrentTarget())
	waitForNextQuestion(t, c)

	c.Reset()
	require.Equal(t, entities.StateAwaitingAnswer, c.State())
	require.Zero(t, c.CorrectAnswers())
	require.Zero(t, c.TotalQuestions())

	// All regions are askable again after a reset.
	playThrough(t, c, regions, 0)
	require.Equal(t, regions.Count(), c.TotalQuestions())
}

func TestPerfectRunScoresHundred(t *testing.T) {
	regions := newStubRegions(twelveIDs()...)
	p := newFakePresenter()
	c := newTestController(regions, p)

	c.Start()
	playThrough(t, c, regions, 0)

	require.Equal(t, entities.StateComplete, c.State())
	require.Equal(t, 12, c.CorrectAnswers())
	require.Equal(t, 12, c.TotalQuestions())
	require.Equal(t, 100, c.Score())
	require.Equal(t, 1, p.cueCount(CueCelebration))

	snap := p.snapshot()
	require.True(t, snap.resultsShown)
	require.Equal(t, "Perfect score!", snap.resultsTitle)
	require.Contains(t, snap.resultsScore, "100%")
}

func TestMixedRunScoresFifty(t *testing.T) {
	regions := newStubRegions(twelveIDs()...)
	p := newFakePresenter()
	c := newTestController(regions, p)

	c.Start()
	playThrough(t, c, regions, 6)

	require.Equal(t, entities.StateComplete, c.State())
	require.Equal(t, 6, c.CorrectAnswers())
	require.Equal(t, 12, c.TotalQuestions())
	require.Equal(t, 50, c.Score())
	require.Equal(t, 0, p.cueCount(CueCelebration))
	require.Equal(t, "Quiz complete", p.snapshot().resultsTitle)
}

func twelveIDs() []string {
	ids := make([]string, 12)
	for i := range ids {
		ids[i] = fmt.Sprintf("region_%02d", i+1)
	}
	return ids
}

// otherRegion returns any region that is not the given one.
func otherRegion(regions *stubRegions, not string) string {
	for _, r := range regions.GetAll() {
		if r.ID != not {
			return r.ID
		}
	}
	return ""
}

// playThrough drives a started quiz to completion. The first `exhaust`
// questions are resolved by running out of guesses, the rest by a correct
// first guess.
func playThrough(t *testing.T, c *Controller, regions *stubRegions, exhaust int) {
	t.Helper()

	answered := make(map[string]bool)
	for q := 0; c.State() == entities.StateAwaitingAnswer; q++ {
		target := c.CurrentTarget()
		require.NotEmpty(t, target)

		if q < exhaust {
			wrong := ""
			for _, r := range regions.GetAll() {
				if r.ID != target && !answered[r.ID] {
					wrong = r.ID
					break
				}
			}
			require.NotEmpty(t, wrong, "exhaustion needs a second unanswered region")
			for i := 0; i < 5; i++ {
				c.SubmitGuess(wrong)
			}
		} else {
			c.SubmitGuess(target)
		}

		answered[target] = true
		waitForNextQuestion(t, c)
	}
}
