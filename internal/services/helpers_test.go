package services

import (
	"testing"

	"github.com/phrasehunt/phrasehunt-server/internal/database"
	"github.com/phrasehunt/phrasehunt-server/internal/models"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.NewDB(":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestPlayer(t *testing.T, db *database.DB, name string) *models.Player {
	t.Helper()
	svc := NewPlayerService(db)
	player, err := svc.RegisterPlayer(&models.RegisterPlayerRequest{
		Name:     name,
		Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("failed to register player %s: %v", name, err)
	}
	return player
}

func newGlobalPhrase(t *testing.T, db *database.DB, content string, difficulty int) *models.Phrase {
	t.Helper()
	svc := NewPhraseService(db)
	phrase, err := svc.CreatePhrase(&models.CreatePhraseRequest{
		Content:    content,
		Hint:       "hint for " + content,
		Difficulty: difficulty,
		IsGlobal:   true,
		IsApproved: true,
	})
	if err != nil {
		t.Fatalf("failed to create phrase %q: %v", content, err)
	}
	return phrase
}

func newTargetedPhrase(t *testing.T, db *database.DB, content string, difficulty int, authorID, targetID int) *models.Phrase {
	t.Helper()
	svc := NewPhraseService(db)
	phrase, err := svc.CreatePhrase(&models.CreatePhraseRequest{
		Content:         content,
		Hint:            "hint for " + content,
		Difficulty:      difficulty,
		AuthorPlayerID:  &authorID,
		TargetPlayerIDs: []int{targetID},
	})
	if err != nil {
		t.Fatalf("failed to create targeted phrase %q: %v", content, err)
	}
	return phrase
}
