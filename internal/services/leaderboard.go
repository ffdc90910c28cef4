package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/phrasehunt/phrasehunt-server/internal/database"
	"github.com/phrasehunt/phrasehunt-server/internal/logger"
	"github.com/phrasehunt/phrasehunt-server/internal/models"
)

const defaultLeaderboardSize = 10

type LeaderboardService struct {
	db           *database.DB
	log          *logger.Log
	defaultLimit int
}

func NewLeaderboardService(db *database.DB) *LeaderboardService {
	return &LeaderboardService{db: db, log: logger.New(), defaultLimit: defaultLeaderboardSize}
}

// SetDefaultLimit sets how many rows GetLeaderboard returns when the
// caller does not ask for a specific count (leaderboard.size in config).
func (s *LeaderboardService) SetDefaultLimit(limit int) {
	if limit > 0 {
		s.defaultLimit = limit
	}
}

// Refresh rebuilds one period's scores and snapshot from the
// completions table. Completions are the source of truth; player_scores
// and leaderboards are projections and can always be recomputed.
//
// The whole rebuild runs in a single transaction, including the
// delete-then-insert snapshot swap, so a concurrent reader sees either
// the previous snapshot or the new one, never an empty leaderboard.
func (s *LeaderboardService) Refresh(period models.Period) error {
	if !period.Valid() {
		return ErrInvalidPeriod
	}

	now := time.Now().UTC()
	periodStart := period.Start(now)
	periodEnd := period.End(periodStart)

	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Recompute per-player totals for the window. last_updated only
	// moves when a player's totals actually changed, so the earliest
	// achiever of a tied score keeps the better rank.
	if _, err := tx.Exec(`
		INSERT INTO player_scores (player_id, period, period_start, total_score, phrases_completed, avg_score, last_updated)
		SELECT player_id, ?, ?, SUM(score), COUNT(*), AVG(score), ?
		FROM completed_phrases
		WHERE completed_at >= ? AND completed_at < ?
		GROUP BY player_id
		ON CONFLICT (player_id, period, period_start) DO UPDATE SET
			total_score = excluded.total_score,
			phrases_completed = excluded.phrases_completed,
			avg_score = excluded.avg_score,
			last_updated = CASE
				WHEN player_scores.total_score != excluded.total_score
				  OR player_scores.phrases_completed != excluded.phrases_completed
				THEN excluded.last_updated
				ELSE player_scores.last_updated
			END
	`, period, periodStart, now, periodStart, periodEnd); err != nil {
		return fmt.Errorf("failed to upsert period scores: %w", err)
	}

	// Deterministic total order: score, then completions, then who got
	// there first; player id breaks exact same-batch ties.
	var scores []models.PeriodScore
	if err := tx.Select(&scores, `
		SELECT id, player_id, period, period_start, total_score, phrases_completed, avg_score, rank_position, last_updated
		FROM player_scores
		WHERE period = ? AND period_start = ?
		ORDER BY total_score DESC, phrases_completed DESC, last_updated ASC, player_id ASC
	`, period, periodStart); err != nil {
		return fmt.Errorf("failed to rank period scores: %w", err)
	}

	for i := range scores {
		scores[i].RankPosition = i + 1
		if _, err := tx.Exec(`
			UPDATE player_scores SET rank_position = ? WHERE id = ?
		`, scores[i].RankPosition, scores[i].ID); err != nil {
			return fmt.Errorf("failed to update rank position: %w", err)
		}
	}

	// Atomic snapshot swap.
	if _, err := tx.Exec(`
		DELETE FROM leaderboards WHERE period = ? AND period_start = ?
	`, period, periodStart); err != nil {
		return fmt.Errorf("failed to clear leaderboard snapshot: %w", err)
	}

	for _, score := range scores {
		if _, err := tx.Exec(`
			INSERT INTO leaderboards (period, period_start, rank_position, player_id, player_name, total_score, phrases_completed, avg_score)
			SELECT ?, ?, ?, id, name, ?, ?, ?
			FROM players WHERE id = ?
		`, period, periodStart, score.RankPosition, score.TotalScore,
			score.PhrasesCompleted, score.AvgScore, score.PlayerID); err != nil {
			return fmt.Errorf("failed to write leaderboard snapshot: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit leaderboard refresh: %w", err)
	}

	return nil
}

// RefreshAll rebuilds all three period windows
func (s *LeaderboardService) RefreshAll() error {
	for _, period := range models.Periods {
		if err := s.Refresh(period); err != nil {
			return fmt.Errorf("failed to refresh %s leaderboard: %w", period, err)
		}
	}
	return nil
}

// GetLeaderboard returns the top snapshot rows for the current window
// of the given period, rank ascending
func (s *LeaderboardService) GetLeaderboard(period models.Period, limit int) ([]models.LeaderboardEntry, error) {
	if !period.Valid() {
		return nil, ErrInvalidPeriod
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}

	periodStart := period.Start(time.Now().UTC())

	var entries []models.LeaderboardEntry
	err := s.db.Select(&entries, `
		SELECT rank_position, player_id, player_name, total_score, phrases_completed, avg_score
		FROM leaderboards
		WHERE period = ? AND period_start = ?
		ORDER BY rank_position ASC
		LIMIT ?
	`, period, periodStart, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}
	return entries, nil
}

// GetPlayerRank reports one player's standing across all three periods.
// Windows with no completions come back as zeros.
func (s *LeaderboardService) GetPlayerRank(playerID int) (*models.PlayerRank, error) {
	now := time.Now().UTC()
	rank := &models.PlayerRank{}

	for _, period := range models.Periods {
		var score models.PeriodScore
		err := s.db.Get(&score, `
			SELECT id, player_id, period, period_start, total_score, phrases_completed, avg_score, rank_position, last_updated
			FROM player_scores
			WHERE player_id = ? AND period = ? AND period_start = ?
		`, playerID, period, period.Start(now))
		if err == sql.ErrNoRows {
			continue
		} else if err != nil {
			return nil, fmt.Errorf("failed to read player rank: %w", err)
		}

		switch period {
		case models.PeriodDaily:
			rank.DailyScore = score.TotalScore
			rank.DailyRank = score.RankPosition
		case models.PeriodWeekly:
			rank.WeeklyScore = score.TotalScore
			rank.WeeklyRank = score.RankPosition
		case models.PeriodTotal:
			rank.TotalScore = score.TotalScore
			rank.TotalRank = score.RankPosition
			rank.TotalPhrases = score.PhrasesCompleted
		}
	}

	return rank, nil
}

// Refresher rebuilds all leaderboards on a fixed cadence. Completions
// landing between ticks are visible in rankings after at most one
// interval.
type Refresher struct {
	service  *LeaderboardService
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
	log      *logger.Log
}

func NewRefresher(service *LeaderboardService, interval time.Duration) *Refresher {
	return &Refresher{
		service:  service,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		log:      logger.New(),
	}
}

// Start launches the refresh loop. An immediate rebuild runs first so
// restarts do not serve stale snapshots for a full interval.
func (r *Refresher) Start() {
	go func() {
		defer close(r.done)

		if err := r.service.RefreshAll(); err != nil {
			r.log.WithError(err).Warn("initial leaderboard refresh failed")
		}

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := r.service.RefreshAll(); err != nil {
					r.log.WithError(err).Warn("leaderboard refresh failed")
				}
			case <-r.stop:
				return
			}
		}
	}()
}

// Stop halts the refresh loop and waits for it to exit
func (r *Refresher) Stop() {
	close(r.stop)
	<-r.done
}
