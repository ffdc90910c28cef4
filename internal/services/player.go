package services

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrasehunt/phrasehunt-server/internal/database"
	"github.com/phrasehunt/phrasehunt-server/internal/models"
)

type PlayerService struct {
	db *database.DB
}

func NewPlayerService(db *database.DB) *PlayerService {
	return &PlayerService{db: db}
}

// RegisterPlayer creates a new player account with a unique display
// name. Mobile clients address players by the generated public UUID,
// never by the row id.
func (s *PlayerService) RegisterPlayer(req *models.RegisterPlayerRequest) (*models.Player, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("player name must not be empty")
	}

	if exists, err := s.NameExists(name); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrNameTaken
	}

	player := &models.Player{
		PublicID:  uuid.NewString(),
		Name:      name,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}

	if err := player.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	result, err := s.db.Exec(`
		INSERT INTO players (public_id, name, password_hash, is_active, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, player.PublicID, player.Name, player.Password, player.IsActive, player.CreatedAt)
	if err != nil {
		// Another device may have raced the same name past the
		// pre-check; the unique constraint is authoritative.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrNameTaken
		}
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get player ID: %w", err)
	}
	player.ID = int(id)

	return player, nil
}

// AuthenticatePlayer validates login credentials and returns the player
func (s *PlayerService) AuthenticatePlayer(name, password string) (*models.Player, error) {
	player, err := s.GetPlayerByName(name)
	if err != nil {
		return nil, err
	}
	if player == nil || !player.CheckPassword(password) {
		return nil, fmt.Errorf("invalid credentials")
	}
	if !player.IsActive {
		return nil, fmt.Errorf("account is disabled")
	}

	if err := s.TouchLastSeen(player.ID); err != nil {
		// Non-fatal, the login itself succeeded
		return player, nil
	}

	return player, nil
}

// GetPlayer retrieves a player by ID, or nil when it does not exist
func (s *PlayerService) GetPlayer(id int) (*models.Player, error) {
	var player models.Player
	err := s.db.Get(&player, `
		SELECT id, public_id, name, password_hash, is_active, phrases_completed, last_seen, created_at
		FROM players WHERE id = ?
	`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return &player, nil
}

// GetPlayerByName retrieves a player by display name, or nil when absent
func (s *PlayerService) GetPlayerByName(name string) (*models.Player, error) {
	var player models.Player
	err := s.db.Get(&player, `
		SELECT id, public_id, name, password_hash, is_active, phrases_completed, last_seen, created_at
		FROM players WHERE name = ?
	`, name)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return &player, nil
}

// NameExists checks if a display name is already taken
func (s *PlayerService) NameExists(name string) (bool, error) {
	var count int
	err := s.db.Get(&count, `SELECT COUNT(*) FROM players WHERE name = ?`, name)
	return count > 0, err
}

// TouchLastSeen updates the player's last seen timestamp
func (s *PlayerService) TouchLastSeen(playerID int) error {
	_, err := s.db.Exec(`UPDATE players SET last_seen = ? WHERE id = ?`, time.Now().UTC(), playerID)
	return err
}
