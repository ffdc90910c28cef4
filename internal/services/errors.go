package services

import (
	"errors"
)

// Input validation errors. Unknown players or phrases are not errors:
// those calls return an empty result instead. Duplicate writes are
// absorbed as idempotent successes and never surface at all.
var (
	ErrEmptyContent      = errors.New("phrase content must not be empty")
	ErrEmptyHint         = errors.New("phrase hint must not be empty")
	ErrInvalidDifficulty = errors.New("difficulty must be between 1 and 100")
	ErrInvalidHintLevel  = errors.New("hint level must be between 1 and 3")
	ErrHintOrder         = errors.New("previous hint level has not been used")
	ErrNameTaken         = errors.New("player name already taken")
	ErrInvalidPeriod     = errors.New("unknown leaderboard period")
)
