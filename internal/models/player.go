package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Player represents a player account
type Player struct {
	ID               int        `json:"id" db:"id"`
	PublicID         string     `json:"public_id" db:"public_id"`
	Name             string     `json:"name" db:"name"`
	Password         string     `json:"-" db:"password_hash"` // Never expose in JSON
	IsActive         bool       `json:"is_active" db:"is_active"`
	PhrasesCompleted int        `json:"phrases_completed" db:"phrases_completed"`
	LastSeen         *time.Time `json:"last_seen" db:"last_seen"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
}

// RegisterPlayerRequest represents the request to create a new player
type RegisterPlayerRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=20"`
	Password string `json:"password" validate:"required,min=6"`
}

// SetPassword hashes and sets the player's password
func (p *Player) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies a password against the player's hash
func (p *Player) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(p.Password), []byte(password))
	return err == nil
}
