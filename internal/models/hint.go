package models

import (
	"time"
)

// MaxHintLevel is the number of sequential hint tiers per phrase.
const MaxHintLevel = 3

// HintUse records one revealed hint level for a (player, phrase) pair.
// Levels for a pair always form a prefix of 1..3: level N can only be
// recorded once level N-1 exists.
type HintUse struct {
	ID        int       `json:"id" db:"id"`
	PlayerID  int       `json:"player_id" db:"player_id"`
	PhraseID  int       `json:"phrase_id" db:"phrase_id"`
	HintLevel int       `json:"hint_level" db:"hint_level"`
	UsedAt    time.Time `json:"used_at" db:"used_at"`
}

// HintStatus summarizes hint progress for a (player, phrase) pair.
// NextLevel is 0 when all levels are spent.
type HintStatus struct {
	LevelsUsed int `json:"levels_used"`
	NextLevel  int `json:"next_level"`
	Remaining  int `json:"remaining"`
}
