package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/phrasehunt/phrasehunt-server/internal/database"
	"github.com/phrasehunt/phrasehunt-server/internal/models"
)

type AssignmentService struct {
	db *database.DB
}

func NewAssignmentService(db *database.DB) *AssignmentService {
	return &AssignmentService{db: db}
}

// NextPhrase selects the next phrase for a player. Targeted phrases
// always win over the global pool so content another player sent is
// never starved by random selection; within the targeted tier the
// oldest assignment goes first. Both tiers exclude phrases the player
// already completed or skipped. Returns nil when nothing is eligible —
// the caller decides what to show then.
//
// Selection does not mark anything delivered: a player may abandon a
// phrase, and the assignment stays live until they actually finish it.
func (s *AssignmentService) NextPhrase(playerID int) (*models.Phrase, error) {
	var phrase models.Phrase

	err := s.db.Get(&phrase, `
		SELECT p.id, p.content, p.hint, p.difficulty, p.is_global, p.is_approved,
		       p.author_player_id, p.language, p.usage_count, p.created_at
		FROM phrases p
		JOIN player_phrases pp ON pp.phrase_id = p.id
		WHERE pp.target_player_id = ?
		  AND pp.is_delivered = FALSE
		  AND p.id NOT IN (SELECT phrase_id FROM completed_phrases WHERE player_id = ?)
		  AND p.id NOT IN (SELECT phrase_id FROM skipped_phrases WHERE player_id = ?)
		ORDER BY pp.assigned_at ASC, pp.id ASC
		LIMIT 1
	`, playerID, playerID, playerID)
	if err == nil {
		return &phrase, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to select targeted phrase: %w", err)
	}

	// Global fallback: uniform random over the eligible pool.
	err = s.db.Get(&phrase, `
		SELECT id, content, hint, difficulty, is_global, is_approved,
		       author_player_id, language, usage_count, created_at
		FROM phrases
		WHERE is_global = TRUE AND is_approved = TRUE
		  AND (author_player_id IS NULL OR author_player_id != ?)
		  AND id NOT IN (SELECT phrase_id FROM completed_phrases WHERE player_id = ?)
		  AND id NOT IN (SELECT phrase_id FROM skipped_phrases WHERE player_id = ?)
		ORDER BY RANDOM()
		LIMIT 1
	`, playerID, playerID, playerID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select global phrase: %w", err)
	}

	return &phrase, nil
}

// TargetPhrase queues a phrase for a specific player. A second in-flight
// assignment for the same pair is a no-op so double-sends from a laggy
// client do not pile up duplicates.
func (s *AssignmentService) TargetPhrase(phraseID, targetPlayerID int) (bool, error) {
	var phraseCount, playerCount int
	if err := s.db.Get(&phraseCount, `SELECT COUNT(*) FROM phrases WHERE id = ?`, phraseID); err != nil {
		return false, fmt.Errorf("failed to check phrase: %w", err)
	}
	if err := s.db.Get(&playerCount, `SELECT COUNT(*) FROM players WHERE id = ?`, targetPlayerID); err != nil {
		return false, fmt.Errorf("failed to check player: %w", err)
	}
	if phraseCount == 0 || playerCount == 0 {
		return false, nil
	}

	_, err := s.db.Exec(`
		INSERT INTO player_phrases (phrase_id, target_player_id, assigned_at)
		SELECT ?, ?, ?
		WHERE NOT EXISTS (
			SELECT 1 FROM player_phrases
			WHERE phrase_id = ? AND target_player_id = ? AND is_delivered = FALSE
		)
	`, phraseID, targetPlayerID, time.Now().UTC(), phraseID, targetPlayerID)
	if err != nil {
		return false, fmt.Errorf("failed to create assignment: %w", err)
	}
	return true, nil
}

// SkipPhrase records that the player passed on a phrase, excluding it
// from all future selections for them. Duplicate skips succeed without
// duplicating state; unknown player or phrase returns false.
func (s *AssignmentService) SkipPhrase(playerID, phraseID int) (bool, error) {
	var phraseCount, playerCount int
	if err := s.db.Get(&phraseCount, `SELECT COUNT(*) FROM phrases WHERE id = ?`, phraseID); err != nil {
		return false, fmt.Errorf("failed to check phrase: %w", err)
	}
	if err := s.db.Get(&playerCount, `SELECT COUNT(*) FROM players WHERE id = ?`, playerID); err != nil {
		return false, fmt.Errorf("failed to check player: %w", err)
	}
	if phraseCount == 0 || playerCount == 0 {
		return false, nil
	}

	_, err := s.db.Exec(`
		INSERT INTO skipped_phrases (player_id, phrase_id, skipped_at)
		VALUES (?, ?, ?)
		ON CONFLICT (player_id, phrase_id) DO NOTHING
	`, playerID, phraseID, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("failed to record skip: %w", err)
	}

	return true, nil
}

// PendingAssignments lists a player's undelivered targeted phrases in
// delivery order.
func (s *AssignmentService) PendingAssignments(playerID int) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := s.db.Select(&assignments, `
		SELECT id, phrase_id, target_player_id, assigned_at, is_delivered, delivered_at
		FROM player_phrases
		WHERE target_player_id = ? AND is_delivered = FALSE
		ORDER BY assigned_at ASC, id ASC
	`, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, nil
}
