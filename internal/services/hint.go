package services

import (
	"fmt"

	"github.com/phrasehunt/phrasehunt-server/internal/database"
	"github.com/phrasehunt/phrasehunt-server/internal/models"
)

type HintService struct {
	db *database.DB
}

func NewHintService(db *database.DB) *HintService {
	return &HintService{db: db}
}

// UseHint records a hint reveal for a (player, phrase) pair. Levels are
// strictly sequential: level N is rejected until level N-1 is recorded.
// Re-requesting an already used level succeeds without writing anything.
// Unknown player or phrase returns false.
func (s *HintService) UseHint(playerID, phraseID, level int) (bool, error) {
	if level < 1 || level > models.MaxHintLevel {
		return false, ErrInvalidHintLevel
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var phraseCount, playerCount int
	if err := tx.Get(&playerCount, `SELECT COUNT(*) FROM players WHERE id = ?`, playerID); err != nil {
		return false, fmt.Errorf("failed to check player: %w", err)
	}
	if err := tx.Get(&phraseCount, `SELECT COUNT(*) FROM phrases WHERE id = ?`, phraseID); err != nil {
		return false, fmt.Errorf("failed to check phrase: %w", err)
	}
	if playerCount == 0 || phraseCount == 0 {
		return false, nil
	}

	if level > 1 {
		var prior int
		err := tx.Get(&prior, `
			SELECT COUNT(*) FROM hint_usage
			WHERE player_id = ? AND phrase_id = ? AND hint_level = ?
		`, playerID, phraseID, level-1)
		if err != nil {
			return false, fmt.Errorf("failed to check prior hint level: %w", err)
		}
		if prior == 0 {
			return false, ErrHintOrder
		}
	}

	if _, err := tx.Exec(`
		INSERT INTO hint_usage (player_id, phrase_id, hint_level)
		VALUES (?, ?, ?)
		ON CONFLICT (player_id, phrase_id, hint_level) DO NOTHING
	`, playerID, phraseID, level); err != nil {
		return false, fmt.Errorf("failed to record hint: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit hint: %w", err)
	}

	return true, nil
}

// HintsUsed returns how many hint levels the player has revealed for
// the phrase (0-3). The ordering invariant makes this equal to the
// highest level recorded.
func (s *HintService) HintsUsed(playerID, phraseID int) (int, error) {
	var count int
	err := s.db.Get(&count, `
		SELECT COUNT(*) FROM hint_usage WHERE player_id = ? AND phrase_id = ?
	`, playerID, phraseID)
	if err != nil {
		return 0, fmt.Errorf("failed to count hints: %w", err)
	}
	return count, nil
}

// HintStatus reports hint progress for a (player, phrase) pair
func (s *HintService) HintStatus(playerID, phraseID int) (*models.HintStatus, error) {
	used, err := s.HintsUsed(playerID, phraseID)
	if err != nil {
		return nil, err
	}

	status := &models.HintStatus{
		LevelsUsed: used,
		Remaining:  models.MaxHintLevel - used,
	}
	if used < models.MaxHintLevel {
		status.NextLevel = used + 1
	}
	return status, nil
}
