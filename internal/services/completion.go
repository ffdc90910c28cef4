package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/phrasehunt/phrasehunt-server/internal/database"
	"github.com/phrasehunt/phrasehunt-server/internal/game"
	"github.com/phrasehunt/phrasehunt-server/internal/logger"
	"github.com/phrasehunt/phrasehunt-server/internal/models"
)

// LeaderboardRefresher lets a completion trigger a synchronous
// leaderboard rebuild without the two services importing each other.
type LeaderboardRefresher interface {
	RefreshAll() error
}

type CompletionService struct {
	db        *database.DB
	refresher LeaderboardRefresher
	log       *logger.Log
}

func NewCompletionService(db *database.DB) *CompletionService {
	return &CompletionService{db: db, log: logger.New()}
}

// SetRefresher enables synchronous leaderboard refresh after each
// successful completion. Without it, rankings refresh on the periodic
// batch cadence.
func (s *CompletionService) SetRefresher(r LeaderboardRefresher) {
	s.refresher = r
}

// Complete records a finished phrase exactly once per (player, phrase)
// pair. Concurrent duplicate attempts race on the unique constraint:
// one insert wins, the rest observe the conflict and get the originally
// recorded score back as a success. Counters and the assignment flip
// run only on the winning branch, inside the same transaction, so they
// are never applied twice.
func (s *CompletionService) Complete(playerID, phraseID, completionTimeMs int) (*models.CompletionResult, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var playerCount int
	if err := tx.Get(&playerCount, `SELECT COUNT(*) FROM players WHERE id = ?`, playerID); err != nil {
		return nil, fmt.Errorf("failed to check player: %w", err)
	}

	var phrase models.Phrase
	var phraseFound bool
	err = tx.Get(&phrase, `SELECT id, difficulty FROM phrases WHERE id = ?`, phraseID)
	if err == nil {
		phraseFound = true
	} else if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to check phrase: %w", err)
	}

	if playerCount == 0 || !phraseFound {
		return &models.CompletionResult{Success: false}, nil
	}

	var hintsUsed int
	if err := tx.Get(&hintsUsed, `
		SELECT COUNT(*) FROM hint_usage WHERE player_id = ? AND phrase_id = ?
	`, playerID, phraseID); err != nil {
		return nil, fmt.Errorf("failed to count hints: %w", err)
	}

	finalScore := game.Score(phrase.Difficulty, hintsUsed)

	result, err := tx.Exec(`
		INSERT INTO completed_phrases (player_id, phrase_id, score, completion_time_ms, completed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (player_id, phrase_id) DO NOTHING
	`, playerID, phraseID, finalScore, completionTimeMs, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to record completion: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to record completion: %w", err)
	}

	if rows == 0 {
		// Lost the race (or a straight duplicate): report the score
		// that was stored by the winner.
		var storedScore int
		if err := tx.Get(&storedScore, `
			SELECT score FROM completed_phrases WHERE player_id = ? AND phrase_id = ?
		`, playerID, phraseID); err != nil {
			return nil, fmt.Errorf("failed to read existing completion: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit completion: %w", err)
		}
		return &models.CompletionResult{
			Success:          true,
			FinalScore:       storedScore,
			HintsUsed:        hintsUsed,
			AlreadyCompleted: true,
		}, nil
	}

	// Denormalized counters, winner only.
	if _, err := tx.Exec(`UPDATE phrases SET usage_count = usage_count + 1 WHERE id = ?`, phraseID); err != nil {
		return nil, fmt.Errorf("failed to update usage count: %w", err)
	}
	if _, err := tx.Exec(`UPDATE players SET phrases_completed = phrases_completed + 1 WHERE id = ?`, playerID); err != nil {
		return nil, fmt.Errorf("failed to update player counter: %w", err)
	}

	// Completing a targeted phrase ends that assignment's lifecycle.
	if _, err := tx.Exec(`
		UPDATE player_phrases SET is_delivered = TRUE, delivered_at = ?
		WHERE phrase_id = ? AND target_player_id = ? AND is_delivered = FALSE
	`, time.Now().UTC(), phraseID, playerID); err != nil {
		return nil, fmt.Errorf("failed to mark assignment delivered: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit completion: %w", err)
	}

	if s.refresher != nil {
		if err := s.refresher.RefreshAll(); err != nil {
			// The completion itself is durable; rankings catch up on
			// the next refresh.
			s.log.WithError(err).Warn("leaderboard refresh after completion failed")
		}
	}

	return &models.CompletionResult{
		Success:    true,
		FinalScore: finalScore,
		HintsUsed:  hintsUsed,
	}, nil
}

// GetCompletion returns the stored completion for a pair, or nil
func (s *CompletionService) GetCompletion(playerID, phraseID int) (*models.Completion, error) {
	var completion models.Completion
	err := s.db.Get(&completion, `
		SELECT id, player_id, phrase_id, score, completion_time_ms, completed_at
		FROM completed_phrases WHERE player_id = ? AND phrase_id = ?
	`, playerID, phraseID)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get completion: %w", err)
	}
	return &completion, nil
}
