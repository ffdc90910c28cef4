package models

import (
	"time"
)

// Period is a leaderboard time window
type Period string

const (
	PeriodDaily  Period = "daily"
	PeriodWeekly Period = "weekly"
	PeriodTotal  Period = "total"
)

// Periods lists all leaderboard windows in refresh order.
var Periods = []Period{PeriodDaily, PeriodWeekly, PeriodTotal}

// Valid reports whether p is a known period.
func (p Period) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodTotal:
		return true
	}
	return false
}

// Start returns the period window start for the given instant: UTC
// midnight for daily, the ISO week's Monday for weekly, and the fixed
// epoch sentinel for total.
func (p Period) Start(now time.Time) time.Time {
	now = now.UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch p {
	case PeriodDaily:
		return day
	case PeriodWeekly:
		// Monday = day 0
		offset := (int(now.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	default:
		return time.Unix(0, 0).UTC()
	}
}

// End returns the exclusive end of the window starting at start.
func (p Period) End(start time.Time) time.Time {
	switch p {
	case PeriodDaily:
		return start.AddDate(0, 0, 1)
	case PeriodWeekly:
		return start.AddDate(0, 0, 7)
	default:
		// All-time window never closes.
		return time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)
	}
}

// PeriodScore is a player's recomputed total for one period window.
// Derived from completed_phrases; never authoritative.
type PeriodScore struct {
	ID               int       `json:"id" db:"id"`
	PlayerID         int       `json:"player_id" db:"player_id"`
	Period           Period    `json:"period" db:"period"`
	PeriodStart      time.Time `json:"period_start" db:"period_start"`
	TotalScore       int       `json:"total_score" db:"total_score"`
	PhrasesCompleted int       `json:"phrases_completed" db:"phrases_completed"`
	AvgScore         float64   `json:"avg_score" db:"avg_score"`
	RankPosition     int       `json:"rank_position" db:"rank_position"`
	LastUpdated      time.Time `json:"last_updated" db:"last_updated"`
}

// LeaderboardEntry is one row of a materialized leaderboard snapshot,
// denormalized with the player name for display without a join
type LeaderboardEntry struct {
	Rank             int     `json:"rank" db:"rank_position"`
	PlayerID         int     `json:"player_id" db:"player_id"`
	PlayerName       string  `json:"player_name" db:"player_name"`
	TotalScore       int     `json:"total_score" db:"total_score"`
	PhrasesCompleted int     `json:"phrases_completed" db:"phrases_completed"`
	AvgScore         float64 `json:"avg_score" db:"avg_score"`
}

// PlayerRank is a player's standing across all three periods.
// Rank 0 means the player has no completions in that window.
type PlayerRank struct {
	DailyScore   int `json:"daily_score"`
	DailyRank    int `json:"daily_rank"`
	WeeklyScore  int `json:"weekly_score"`
	WeeklyRank   int `json:"weekly_rank"`
	TotalScore   int `json:"total_score"`
	TotalRank    int `json:"total_rank"`
	TotalPhrases int `json:"total_phrases"`
}
