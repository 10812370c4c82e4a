// Package entities contains domain entities used across the application.
package entities

import "strings"

// Region represents one clickable area of the quiz map.
// Regions are defined once at startup from the regions JSON file and are
// never added or removed while the bot is running.
type Region struct {
	ID          string `json:"id"`           // stable identifier, e.g. "north_ridge"
	DisplayName string `json:"display_name"` // optional override; derived from ID when empty
	Audio       string `json:"audio"`        // identifying cue name override; defaults to the ID
}

// Name returns the display name of the region, deriving it from the
// identifier when no explicit override is set: separators become spaces
// and word-initial letters are capitalized.
func (r Region) Name() string {
	if r.DisplayName != "" {
		return r.DisplayName
	}
	return deriveDisplayName(r.ID)
}

// PromptCue returns the name of the audio cue asking the player to find
// this region.
func (r Region) PromptCue() string {
	return "find_" + r.ID
}

// Cue returns the name of the region's own identifying audio cue, played
// on a tap outside an active quiz.
func (r Region) Cue() string {
	if r.Audio != "" {
		return r.Audio
	}
	return r.ID
}

func deriveDisplayName(id string) string {
	replacer := strings.NewReplacer("_", " ", "-", " ")
	words := strings.Fields(replacer.Replace(id))

	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}

	return strings.Join(words, " ")
}
