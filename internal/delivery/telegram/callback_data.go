package telegram

import "strings"

// Callback action constants.
const (
	actionRegion = "region"
	actionQuiz   = "quiz"
	actionScores = "scores"
)

// Quiz sub-actions.
const (
	quizStart  = "start"
	quizExit   = "exit"
	quizRepeat = "repeat"
	quizAgain  = "again"
	quizClose  = "close"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	if len(parts) == 0 {
		return callbackData{Raw: data}
	}

	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// buildRegionCallback builds callback data for tapping a map region.
func buildRegionCallback(regionID string) string {
	return callbackData{
		Action: actionRegion,
		Params: []string{regionID},
	}.encode()
}

// buildQuizCallback builds callback data for a quiz control action.
func buildQuizCallback(subAction string) string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{subAction},
	}.encode()
}

// buildScoresCallback builds callback data for opening the scoreboard.
func buildScoresCallback() string {
	return actionScores
}
