package services

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/phrasehunt/phrasehunt-server/internal/database"
	"github.com/phrasehunt/phrasehunt-server/internal/models"
)

type PhraseService struct {
	db *database.DB
}

func NewPhraseService(db *database.DB) *PhraseService {
	return &PhraseService{db: db}
}

// CreatePhrase validates and inserts a new phrase. Targeted assignments
// for the listed players are created in the same transaction so a
// phrase never exists half-delivered. Player-authored global phrases
// start unapproved; the IsApproved flag is only honored for system
// seeds (nil author).
func (s *PhraseService) CreatePhrase(req *models.CreatePhraseRequest) (*models.Phrase, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, ErrEmptyContent
	}
	if strings.TrimSpace(req.Hint) == "" {
		return nil, ErrEmptyHint
	}
	if req.Difficulty < 1 || req.Difficulty > 100 {
		return nil, ErrInvalidDifficulty
	}

	language := req.Language
	if language == "" {
		language = "en"
	}

	approved := req.IsApproved && req.AuthorPlayerID == nil

	phrase := &models.Phrase{
		Content:        strings.TrimSpace(req.Content),
		Hint:           strings.TrimSpace(req.Hint),
		Difficulty:     req.Difficulty,
		IsGlobal:       req.IsGlobal,
		IsApproved:     approved,
		AuthorPlayerID: req.AuthorPlayerID,
		Language:       language,
		CreatedAt:      time.Now().UTC(),
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		INSERT INTO phrases (content, hint, difficulty, is_global, is_approved, author_player_id, language, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, phrase.Content, phrase.Hint, phrase.Difficulty, phrase.IsGlobal, phrase.IsApproved,
		phrase.AuthorPlayerID, phrase.Language, phrase.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create phrase: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get phrase ID: %w", err)
	}
	phrase.ID = int(id)

	for _, targetID := range req.TargetPlayerIDs {
		if _, err := tx.Exec(`
			INSERT INTO player_phrases (phrase_id, target_player_id, assigned_at)
			VALUES (?, ?, ?)
		`, phrase.ID, targetID, time.Now().UTC()); err != nil {
			return nil, fmt.Errorf("failed to create assignment for player %d: %w", targetID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit phrase: %w", err)
	}

	return phrase, nil
}

// GetPhrase retrieves a phrase by ID, or nil when it does not exist
func (s *PhraseService) GetPhrase(id int) (*models.Phrase, error) {
	var phrase models.Phrase
	err := s.db.Get(&phrase, `
		SELECT id, content, hint, difficulty, is_global, is_approved, author_player_id, language, usage_count, created_at
		FROM phrases WHERE id = ?
	`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get phrase: %w", err)
	}
	return &phrase, nil
}

// RecordUsage bumps a phrase's usage counter. Best-effort: callers
// never fail because of it.
func (s *PhraseService) RecordUsage(phraseID int) error {
	_, err := s.db.Exec(`UPDATE phrases SET usage_count = usage_count + 1 WHERE id = ?`, phraseID)
	return err
}

// ApprovePhrase flips the moderation flag so a global phrase enters the
// shared pool. Returns false when the phrase does not exist.
func (s *PhraseService) ApprovePhrase(phraseID int) (bool, error) {
	result, err := s.db.Exec(`UPDATE phrases SET is_approved = TRUE WHERE id = ?`, phraseID)
	if err != nil {
		return false, fmt.Errorf("failed to approve phrase: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to approve phrase: %w", err)
	}
	return rows > 0, nil
}

// GlobalCatalog lists approved global phrases eligible for the given
// player, excluding their own authored phrases.
func (s *PhraseService) GlobalCatalog(playerID int) ([]models.Phrase, error) {
	var phrases []models.Phrase
	err := s.db.Select(&phrases, `
		SELECT id, content, hint, difficulty, is_global, is_approved, author_player_id, language, usage_count, created_at
		FROM phrases
		WHERE is_global = TRUE AND is_approved = TRUE
		  AND (author_player_id IS NULL OR author_player_id != ?)
		ORDER BY id
	`, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list global phrases: %w", err)
	}
	return phrases, nil
}

// SeedDefaultPhrases inserts the system phrase pool idempotently. Seeds
// are global, pre-approved and unauthored; language comes from config.
func (s *PhraseService) SeedDefaultPhrases(language string) error {
	if language == "" {
		language = "en"
	}

	seeds := []struct {
		Content    string
		Hint       string
		Difficulty int
	}{
		{"break the ice", "What you do at an awkward party", 20},
		{"piece of cake", "Something very easy", 15},
		{"hit the hay", "Time for bed", 20},
		{"under the weather", "Feeling a bit sick", 30},
		{"spill the beans", "Reveal the secret", 30},
		{"once in a blue moon", "Something very rare", 40},
		{"bite the bullet", "Face the unpleasant thing", 45},
		{"burn the midnight oil", "Working very late", 50},
		{"the ball is in your court", "Your move now", 55},
		{"a blessing in disguise", "Bad luck that turns good", 60},
		{"barking up the wrong tree", "Accusing the wrong person", 65},
		{"the elephant in the room", "The obvious thing nobody mentions", 70},
	}

	for _, seed := range seeds {
		query := `
			INSERT INTO phrases (content, hint, difficulty, is_global, is_approved, language, created_at)
			SELECT ?, ?, ?, TRUE, TRUE, ?, ?
			WHERE NOT EXISTS (SELECT 1 FROM phrases WHERE content = ? AND author_player_id IS NULL)
		`
		now := time.Now().UTC()
		if _, err := s.db.Exec(query, seed.Content, seed.Hint, seed.Difficulty, language, now, seed.Content); err != nil {
			return fmt.Errorf("failed to seed phrase %q: %w", seed.Content, err)
		}
	}

	return nil
}
