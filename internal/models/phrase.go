package models

import (
	"time"
)

// Phrase is a single puzzle in the catalog. Player-authored global
// phrases start unapproved and only enter the shared pool once the
// is_approved flag is set.
type Phrase struct {
	ID             int       `json:"id" db:"id"`
	Content        string    `json:"content" db:"content"`
	Hint           string    `json:"hint" db:"hint"`
	Difficulty     int       `json:"difficulty" db:"difficulty"`
	IsGlobal       bool      `json:"is_global" db:"is_global"`
	IsApproved     bool      `json:"is_approved" db:"is_approved"`
	AuthorPlayerID *int      `json:"author_player_id" db:"author_player_id"`
	Language       string    `json:"language" db:"language"`
	UsageCount     int       `json:"usage_count" db:"usage_count"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// CreatePhraseRequest represents the request to create a new phrase
type CreatePhraseRequest struct {
	Content         string `json:"content" validate:"required"`
	Hint            string `json:"hint" validate:"required"`
	Difficulty      int    `json:"difficulty" validate:"required,min=1,max=100"`
	IsGlobal        bool   `json:"is_global"`
	IsApproved      bool   `json:"is_approved"` // only honored for system seeds
	AuthorPlayerID  *int   `json:"author_player_id"`
	Language        string `json:"language"`
	TargetPlayerIDs []int  `json:"target_player_ids"`
}

// Assignment links a phrase to the player it was sent to. is_delivered
// flips when that player completes the phrase, not when it is shown;
// an abandoned phrase stays undelivered and re-eligible.
type Assignment struct {
	ID             int        `json:"id" db:"id"`
	PhraseID       int        `json:"phrase_id" db:"phrase_id"`
	TargetPlayerID int        `json:"target_player_id" db:"target_player_id"`
	AssignedAt     time.Time  `json:"assigned_at" db:"assigned_at"`
	IsDelivered    bool       `json:"is_delivered" db:"is_delivered"`
	DeliveredAt    *time.Time `json:"delivered_at" db:"delivered_at"`
}

// Completion records a finished phrase, at most once per (player, phrase)
type Completion struct {
	ID               int       `json:"id" db:"id"`
	PlayerID         int       `json:"player_id" db:"player_id"`
	PhraseID         int       `json:"phrase_id" db:"phrase_id"`
	Score            int       `json:"score" db:"score"`
	CompletionTimeMs int       `json:"completion_time_ms" db:"completion_time_ms"`
	CompletedAt      time.Time `json:"completed_at" db:"completed_at"`
}

// Skip records that a player passed on a phrase
type Skip struct {
	ID        int       `json:"id" db:"id"`
	PlayerID  int       `json:"player_id" db:"player_id"`
	PhraseID  int       `json:"phrase_id" db:"phrase_id"`
	SkippedAt time.Time `json:"skipped_at" db:"skipped_at"`
}

// CompletionResult is returned to the caller after a completion attempt
type CompletionResult struct {
	Success          bool `json:"success"`
	FinalScore       int  `json:"final_score"`
	HintsUsed        int  `json:"hints_used"`
	AlreadyCompleted bool `json:"already_completed"`
}
