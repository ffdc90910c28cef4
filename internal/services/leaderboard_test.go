package services

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/phrasehunt/phrasehunt-server/internal/database"
	"github.com/phrasehunt/phrasehunt-server/internal/models"
)

func completeAll(t *testing.T, svc *CompletionService, playerID int, phraseIDs ...int) {
	t.Helper()
	for _, phraseID := range phraseIDs {
		res, err := svc.Complete(playerID, phraseID, 3000)
		if err != nil || !res.Success {
			t.Fatalf("Complete(%d, %d) = (%+v, %v)", playerID, phraseID, res, err)
		}
	}
}

func TestRefresh_TieBreakByCompletions(t *testing.T) {
	db := newTestDB(t)
	completions := NewCompletionService(db)
	leaderboards := NewLeaderboardService(db)

	alpha := newTestPlayer(t, db, "alpha")
	bravo := newTestPlayer(t, db, "bravo")
	charlie := newTestPlayer(t, db, "charlie")

	d100 := newGlobalPhrase(t, db, "hundred", 100)
	d40a := newGlobalPhrase(t, db, "forty a", 40)
	d40b := newGlobalPhrase(t, db, "forty b", 40)
	d30a := newGlobalPhrase(t, db, "thirty a", 30)
	d30b := newGlobalPhrase(t, db, "thirty b", 30)

	// alpha: 100 points from 1 completion; bravo: 100 from 3;
	// charlie: 80 from 2. Tied totals rank by completion count.
	completeAll(t, completions, alpha.ID, d100.ID)
	completeAll(t, completions, bravo.ID, d40a.ID, d30a.ID, d30b.ID)
	completeAll(t, completions, charlie.ID, d40a.ID, d40b.ID)

	if err := leaderboards.Refresh(models.PeriodTotal); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	entries, err := leaderboards.GetLeaderboard(models.PeriodTotal, 10)
	if err != nil {
		t.Fatalf("GetLeaderboard failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("leaderboard entries = %d, want 3", len(entries))
	}

	if entries[0].PlayerID != bravo.ID || entries[0].Rank != 1 {
		t.Errorf("rank 1 = player %d, want bravo (%d) with more completions", entries[0].PlayerID, bravo.ID)
	}
	if entries[1].PlayerID != alpha.ID || entries[1].Rank != 2 {
		t.Errorf("rank 2 = player %d, want alpha (%d)", entries[1].PlayerID, alpha.ID)
	}
	if entries[2].PlayerID != charlie.ID || entries[2].Rank != 3 {
		t.Errorf("rank 3 = player %d, want charlie (%d)", entries[2].PlayerID, charlie.ID)
	}

	if entries[0].TotalScore != 100 || entries[0].PhrasesCompleted != 3 {
		t.Errorf("rank 1 totals = (%d, %d), want (100, 3)", entries[0].TotalScore, entries[0].PhrasesCompleted)
	}
	if entries[1].PlayerName != "alpha" {
		t.Errorf("rank 2 name = %q, want denormalized player name", entries[1].PlayerName)
	}
	if math.Abs(entries[1].AvgScore-100.0) > 1e-9 {
		t.Errorf("alpha avg score = %f, want 100", entries[1].AvgScore)
	}
}

func TestRefresh_EarliestAchieverWinsTie(t *testing.T) {
	db := newTestDB(t)
	completions := NewCompletionService(db)
	leaderboards := NewLeaderboardService(db)

	early := newTestPlayer(t, db, "early")
	late := newTestPlayer(t, db, "late")

	first := newGlobalPhrase(t, db, "first hundred", 100)
	second := newGlobalPhrase(t, db, "second hundred", 100)

	// early reaches 100 in one refresh cycle, late ties in the next;
	// the earlier achiever keeps the better rank.
	completeAll(t, completions, early.ID, first.ID)
	if err := leaderboards.Refresh(models.PeriodTotal); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	completeAll(t, completions, late.ID, second.ID)
	if err := leaderboards.Refresh(models.PeriodTotal); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	entries, err := leaderboards.GetLeaderboard(models.PeriodTotal, 10)
	if err != nil {
		t.Fatalf("GetLeaderboard failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("leaderboard entries = %d, want 2", len(entries))
	}
	if entries[0].PlayerID != early.ID {
		t.Errorf("rank 1 = player %d, want the earlier achiever (%d)", entries[0].PlayerID, early.ID)
	}
}

func TestRefresh_SnapshotStableAcrossRuns(t *testing.T) {
	db := newTestDB(t)
	completions := NewCompletionService(db)
	leaderboards := NewLeaderboardService(db)

	player := newTestPlayer(t, db, "steady")
	phrase := newGlobalPhrase(t, db, "steady phrase", 50)
	completeAll(t, completions, player.ID, phrase.ID)

	for i := 0; i < 3; i++ {
		if err := leaderboards.RefreshAll(); err != nil {
			t.Fatalf("RefreshAll run %d failed: %v", i, err)
		}
	}

	for _, period := range models.Periods {
		entries, err := leaderboards.GetLeaderboard(period, 10)
		if err != nil {
			t.Fatalf("GetLeaderboard(%s) failed: %v", period, err)
		}
		if len(entries) != 1 {
			t.Errorf("%s entries = %d after repeated refreshes, want 1", period, len(entries))
		}
		if len(entries) == 1 && entries[0].Rank != 1 {
			t.Errorf("%s rank = %d, want 1", period, entries[0].Rank)
		}
	}
}

func TestGetLeaderboard_DefaultLimit(t *testing.T) {
	db := newTestDB(t)
	completions := NewCompletionService(db)
	leaderboards := NewLeaderboardService(db)

	one := newTestPlayer(t, db, "one")
	two := newTestPlayer(t, db, "two")
	big := newGlobalPhrase(t, db, "big phrase", 80)
	small := newGlobalPhrase(t, db, "small phrase", 40)
	completeAll(t, completions, one.ID, big.ID)
	completeAll(t, completions, two.ID, small.ID)

	if err := leaderboards.Refresh(models.PeriodTotal); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	leaderboards.SetDefaultLimit(1)
	entries, err := leaderboards.GetLeaderboard(models.PeriodTotal, 0)
	if err != nil {
		t.Fatalf("GetLeaderboard failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("entries = %d with default limit 1, want 1", len(entries))
	}

	entries, err = leaderboards.GetLeaderboard(models.PeriodTotal, 5)
	if err != nil {
		t.Fatalf("GetLeaderboard failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("entries = %d with explicit limit, want 2", len(entries))
	}
}

// A reader polling during refreshes must always see a populated
// snapshot: the delete and re-insert happen in one transaction. Uses a
// file-backed database so reads are not serialized onto the in-memory
// connection.
func TestRefresh_ConcurrentReaderNeverSeesEmpty(t *testing.T) {
	db, err := database.NewDB(filepath.Join(t.TempDir(), "leaderboard.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	completions := NewCompletionService(db)
	leaderboards := NewLeaderboardService(db)

	player := newTestPlayer(t, db, "visible")
	phrase := newGlobalPhrase(t, db, "visible phrase", 60)
	completeAll(t, completions, player.ID, phrase.ID)

	if err := leaderboards.Refresh(models.PeriodTotal); err != nil {
		t.Fatalf("initial Refresh failed: %v", err)
	}

	stop := make(chan struct{})
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			select {
			case <-stop:
				return
			default:
			}
			entries, err := leaderboards.GetLeaderboard(models.PeriodTotal, 10)
			if err != nil {
				t.Errorf("reader failed mid-refresh: %v", err)
				return
			}
			if len(entries) == 0 {
				t.Error("reader observed an empty leaderboard during refresh")
				return
			}
		}
	}()

	for i := 0; i < 25; i++ {
		if err := leaderboards.Refresh(models.PeriodTotal); err != nil {
			t.Fatalf("Refresh run %d failed: %v", i, err)
		}
	}

	close(stop)
	<-readerDone
}

func TestGetLeaderboard_InvalidPeriod(t *testing.T) {
	db := newTestDB(t)
	leaderboards := NewLeaderboardService(db)

	if _, err := leaderboards.GetLeaderboard(models.Period("monthly"), 10); err != ErrInvalidPeriod {
		t.Errorf("got err %v, want ErrInvalidPeriod", err)
	}
	if err := leaderboards.Refresh(models.Period("monthly")); err != ErrInvalidPeriod {
		t.Errorf("got err %v, want ErrInvalidPeriod", err)
	}
}

func TestGetPlayerRank(t *testing.T) {
	db := newTestDB(t)
	completions := NewCompletionService(db)
	leaderboards := NewLeaderboardService(db)

	leader := newTestPlayer(t, db, "leader")
	chaser := newTestPlayer(t, db, "chaser")

	big := newGlobalPhrase(t, db, "big phrase", 90)
	small := newGlobalPhrase(t, db, "small phrase", 30)

	completeAll(t, completions, leader.ID, big.ID)
	completeAll(t, completions, chaser.ID, small.ID)

	if err := leaderboards.RefreshAll(); err != nil {
		t.Fatalf("RefreshAll failed: %v", err)
	}

	rank, err := leaderboards.GetPlayerRank(chaser.ID)
	if err != nil {
		t.Fatalf("GetPlayerRank failed: %v", err)
	}

	if rank.TotalScore != 30 || rank.TotalRank != 2 || rank.TotalPhrases != 1 {
		t.Errorf("total standing = %+v, want score 30 / rank 2 / 1 phrase", rank)
	}
	if rank.DailyScore != 30 || rank.DailyRank != 2 {
		t.Errorf("daily standing = (%d, %d), want (30, 2)", rank.DailyScore, rank.DailyRank)
	}
	if rank.WeeklyScore != 30 || rank.WeeklyRank != 2 {
		t.Errorf("weekly standing = (%d, %d), want (30, 2)", rank.WeeklyScore, rank.WeeklyRank)
	}
}

func TestGetPlayerRank_NoCompletions(t *testing.T) {
	db := newTestDB(t)
	leaderboards := NewLeaderboardService(db)
	idle := newTestPlayer(t, db, "idle")

	rank, err := leaderboards.GetPlayerRank(idle.ID)
	if err != nil {
		t.Fatalf("GetPlayerRank failed: %v", err)
	}
	if rank.TotalRank != 0 || rank.DailyRank != 0 || rank.WeeklyRank != 0 {
		t.Errorf("idle player rank = %+v, want all zeros", rank)
	}
}

// Full player journey: request a phrase, reveal one hint, complete it,
// land on the all-time leaderboard with the decayed score.
func TestEndToEnd_FirstPhraseJourney(t *testing.T) {
	db := newTestDB(t)
	phrases := NewPhraseService(db)
	assignments := NewAssignmentService(db)
	hints := NewHintService(db)
	completions := NewCompletionService(db)
	leaderboards := NewLeaderboardService(db)

	if err := phrases.SeedDefaultPhrases("en"); err != nil {
		t.Fatalf("seeding failed: %v", err)
	}

	player := newTestPlayer(t, db, "newcomer")

	phrase, err := assignments.NextPhrase(player.ID)
	if err != nil {
		t.Fatalf("NextPhrase failed: %v", err)
	}
	if phrase == nil {
		t.Fatal("player with no history should receive a global phrase")
	}
	if !phrase.IsGlobal || !phrase.IsApproved {
		t.Fatalf("selected phrase %+v is not an approved global phrase", phrase)
	}

	if ok, err := hints.UseHint(player.ID, phrase.ID, 1); err != nil || !ok {
		t.Fatalf("UseHint = (%v, %v)", ok, err)
	}

	res, err := completions.Complete(player.ID, phrase.ID, 4000)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if !res.Success {
		t.Fatal("completion should succeed")
	}

	want := int(math.Round(float64(phrase.Difficulty) * 0.9))
	if res.FinalScore != want {
		t.Errorf("final score = %d, want %d (one hint)", res.FinalScore, want)
	}

	if err := leaderboards.Refresh(models.PeriodTotal); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	rank, err := leaderboards.GetPlayerRank(player.ID)
	if err != nil {
		t.Fatalf("GetPlayerRank failed: %v", err)
	}
	if rank.TotalScore != want || rank.TotalPhrases != 1 {
		t.Errorf("total period = %+v, want score %d and 1 phrase", rank, want)
	}
	if rank.TotalRank != 1 {
		t.Errorf("total rank = %d, want 1", rank.TotalRank)
	}
}
