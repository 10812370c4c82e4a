package quiz

import "github.com/mapclick/map-quiz-bot/internal/domain/entities"

// Cue names for short feedback sounds. Prompt cues are named per region,
// see entities.Region.PromptCue.
const (
	CueCorrect     = "correct"
	CueIncorrect   = "incorrect"
	CueCelebration = "celebration"
)

// RegionSource provides the ordered region set the quiz is played on.
type RegionSource interface {
	GetByID(id string) (*entities.Region, error)
	GetAll() []*entities.Region
	Exists(id string) bool
	Count() int
}

// Presenter receives presentation side effects from the controller. Every
// operation is best-effort: implementations must tolerate absent targets and
// must never block, and the controller never depends on their outcome.
type Presenter interface {
	// ShowQuestionPanel shows or hides the question panel.
	ShowQuestionPanel(visible bool)
	// SetQuestionText replaces the question text.
	SetQuestionText(text string)
	// ColorRegion paints a region with the given color.
	ColorRegion(id, color string)
	// ClearRegionColor removes any paint from a region.
	ClearRegionColor(id string)
	// MarkRegionAnswered renders a region as resolved for this session.
	MarkRegionAnswered(id string)
	// PlayCue plays a named audio cue from the beginning.
	PlayCue(name string)
	// StopCue stops any playing cue.
	StopCue()
	// ShowResults displays the results screen.
	ShowResults(title, scoreText string)
	// HideResults removes the results screen.
	HideResults()
	// SetControlLabel toggles the start/exit control affordance.
	SetControlLabel(quizActive bool)
}
