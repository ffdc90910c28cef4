package services

import (
	"testing"

	"github.com/phrasehunt/phrasehunt-server/internal/models"
)

func TestRegisterPlayer(t *testing.T) {
	db := newTestDB(t)
	svc := NewPlayerService(db)

	player, err := svc.RegisterPlayer(&models.RegisterPlayerRequest{
		Name:     "wordsmith",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("RegisterPlayer failed: %v", err)
	}

	if player.ID == 0 {
		t.Error("registered player should have an ID")
	}
	if player.PublicID == "" {
		t.Error("registered player should have a public UUID")
	}
	if !player.IsActive {
		t.Error("new players should be active")
	}
	if player.Password == "correct horse" {
		t.Error("password must be stored hashed")
	}
	if !player.CheckPassword("correct horse") {
		t.Error("CheckPassword should accept the original password")
	}
	if player.CheckPassword("wrong") {
		t.Error("CheckPassword should reject a wrong password")
	}
}

func TestRegisterPlayer_DuplicateName(t *testing.T) {
	db := newTestDB(t)
	svc := NewPlayerService(db)

	newTestPlayer(t, db, "taken")

	_, err := svc.RegisterPlayer(&models.RegisterPlayerRequest{Name: "taken", Password: "pw123456"})
	if err != ErrNameTaken {
		t.Errorf("duplicate name: got err %v, want ErrNameTaken", err)
	}
}

func TestAuthenticatePlayer(t *testing.T) {
	db := newTestDB(t)
	svc := NewPlayerService(db)
	newTestPlayer(t, db, "login")

	player, err := svc.AuthenticatePlayer("login", "hunter22")
	if err != nil {
		t.Fatalf("AuthenticatePlayer failed: %v", err)
	}
	if player.Name != "login" {
		t.Errorf("authenticated wrong player: %s", player.Name)
	}

	if _, err := svc.AuthenticatePlayer("login", "nope"); err == nil {
		t.Error("wrong password should not authenticate")
	}
	if _, err := svc.AuthenticatePlayer("ghost", "hunter22"); err == nil {
		t.Error("unknown player should not authenticate")
	}
}

func TestGetPlayer_UnknownReturnsNil(t *testing.T) {
	db := newTestDB(t)
	svc := NewPlayerService(db)

	player, err := svc.GetPlayer(404)
	if err != nil {
		t.Fatalf("GetPlayer failed: %v", err)
	}
	if player != nil {
		t.Error("unknown player should return nil, not an error")
	}
}

func TestTouchLastSeen(t *testing.T) {
	db := newTestDB(t)
	svc := NewPlayerService(db)
	created := newTestPlayer(t, db, "seen")

	if created.LastSeen != nil {
		t.Error("fresh player should have no last seen timestamp")
	}

	if err := svc.TouchLastSeen(created.ID); err != nil {
		t.Fatalf("TouchLastSeen failed: %v", err)
	}

	stored, err := svc.GetPlayer(created.ID)
	if err != nil {
		t.Fatalf("GetPlayer failed: %v", err)
	}
	if stored.LastSeen == nil {
		t.Error("last seen should be set after touch")
	}
}
