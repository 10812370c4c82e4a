package service

import (
	"sort"
	"sync"
	"time"
)

// ScoreEntry is one player's best quiz result.
type ScoreEntry struct {
	UserID     int64
	Name       string
	Correct    int
	Total      int
	Percentage int
	PlayedAt   time.Time
}

// Scoreboard keeps the best result per player for the lifetime of the
// process. Results are intentionally volatile: the bot has no durable
// storage surface.
type Scoreboard struct {
	mu      sync.RWMutex
	entries map[int64]ScoreEntry
}

// NewScoreboard creates an empty scoreboard.
func NewScoreboard() *Scoreboard {
	return &Scoreboard{
		entries: make(map[int64]ScoreEntry),
	}
}

// Record stores the result if it beats the player's previous best.
// It returns true when the entry became the player's new best.
func (s *Scoreboard) Record(userID int64, name string, correct, total int) bool {
	if total <= 0 {
		return false
	}

	entry := ScoreEntry{
		UserID:     userID,
		Name:       name,
		Correct:    correct,
		Total:      total,
		Percentage: correct * 100 / total,
		PlayedAt:   time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.entries[userID]
	if ok && !betterThan(entry, prev) {
		return false
	}

	s.entries[userID] = entry
	return true
}

// Top returns up to limit entries ordered best-first.
func (s *Scoreboard) Top(limit int) []ScoreEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sorted := make([]ScoreEntry, 0, len(s.entries))
	for _, e := range s.entries {
		sorted = append(sorted, e)
	}

	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Percentage == sorted[j].Percentage {
			return sorted[i].PlayedAt.Before(sorted[j].PlayedAt)
		}
		return sorted[i].Percentage > sorted[j].Percentage
	})

	if limit < len(sorted) {
		sorted = sorted[:limit]
	}
	return sorted
}

// Position returns the player's 1-based rank and entry, or -1 and a zero
// entry when the player has no recorded result.
func (s *Scoreboard) Position(userID int64) (int, ScoreEntry) {
	top := s.Top(s.size())
	for i, e := range top {
		if e.UserID == userID {
			return i + 1, e
		}
	}
	return -1, ScoreEntry{}
}

func (s *Scoreboard) size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func betterThan(a, b ScoreEntry) bool {
	if a.Percentage == b.Percentage {
		return a.Correct > b.Correct
	}
	return a.Percentage > b.Percentage
}
