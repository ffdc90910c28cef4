package database

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

type DB struct {
	*sqlx.DB
}

// NewDB creates a new database connection
func NewDB(databaseURL string) (*DB, error) {
	if databaseURL == "" {
		databaseURL = "phrasehunt.db" // Default SQLite file
	}

	dsn := databaseURL
	if strings.Contains(dsn, "?") {
		dsn += "&_foreign_keys=on"
	} else {
		dsn += "?_foreign_keys=on"
	}

	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// In-memory databases exist per connection; a second pooled
	// connection would see an empty schema.
	if strings.Contains(databaseURL, ":memory:") || strings.Contains(databaseURL, "mode=memory") {
		db.SetMaxOpenConns(1)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	dbWrapper := &DB{DB: db}

	// Initialize database schema
	if err := dbWrapper.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return dbWrapper, nil
}

// createTables creates the necessary database tables
func (db *DB) createTables() error {
	playersTable := `
	CREATE TABLE IF NOT EXISTS players (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		public_id TEXT UNIQUE NOT NULL,
		name TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		is_active BOOLEAN DEFAULT TRUE,
		phrases_completed INTEGER DEFAULT 0,
		last_seen DATETIME,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`

	phrasesTable := `
	CREATE TABLE IF NOT EXISTS phrases (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		content TEXT NOT NULL,
		hint TEXT NOT NULL,
		difficulty INTEGER NOT NULL CHECK (difficulty BETWEEN 1 AND 100),
		is_global BOOLEAN DEFAULT FALSE,
		is_approved BOOLEAN DEFAULT FALSE,
		author_player_id INTEGER,
		language TEXT NOT NULL DEFAULT 'en',
		usage_count INTEGER DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (author_player_id) REFERENCES players(id) ON DELETE SET NULL
	);`

	assignmentsTable := `
	CREATE TABLE IF NOT EXISTS player_phrases (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		phrase_id INTEGER NOT NULL,
		target_player_id INTEGER NOT NULL,
		assigned_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		is_delivered BOOLEAN DEFAULT FALSE,
		delivered_at DATETIME,
		FOREIGN KEY (phrase_id) REFERENCES phrases(id) ON DELETE CASCADE,
		FOREIGN KEY (target_player_id) REFERENCES players(id) ON DELETE CASCADE
	);`

	completionsTable := `
	CREATE TABLE IF NOT EXISTS completed_phrases (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		player_id INTEGER NOT NULL,
		phrase_id INTEGER NOT NULL,
		score INTEGER NOT NULL,
		completion_time_ms INTEGER NOT NULL,
		completed_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (player_id, phrase_id),
		FOREIGN KEY (player_id) REFERENCES players(id) ON DELETE CASCADE,
		FOREIGN KEY (phrase_id) REFERENCES phrases(id) ON DELETE CASCADE
	);`

	skipsTable := `
	CREATE TABLE IF NOT EXISTS skipped_phrases (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		player_id INTEGER NOT NULL,
		phrase_id INTEGER NOT NULL,
		skipped_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (player_id, phrase_id),
		FOREIGN KEY (player_id) REFERENCES players(id) ON DELETE CASCADE,
		FOREIGN KEY (phrase_id) REFERENCES phrases(id) ON DELETE CASCADE
	);`

	hintsTable := `
	CREATE TABLE IF NOT EXISTS hint_usage (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		player_id INTEGER NOT NULL,
		phrase_id INTEGER NOT NULL,
		hint_level INTEGER NOT NULL CHECK (hint_level BETWEEN 1 AND 3),
		used_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (player_id, phrase_id, hint_level),
		FOREIGN KEY (player_id) REFERENCES players(id) ON DELETE CASCADE,
		FOREIGN KEY (phrase_id) REFERENCES phrases(id) ON DELETE CASCADE
	);`

	scoresTable := `
	CREATE TABLE IF NOT EXISTS player_scores (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		player_id INTEGER NOT NULL,
		period TEXT NOT NULL,
		period_start DATETIME NOT NULL,
		total_score INTEGER NOT NULL DEFAULT 0,
		phrases_completed INTEGER NOT NULL DEFAULT 0,
		avg_score REAL NOT NULL DEFAULT 0,
		rank_position INTEGER NOT NULL DEFAULT 0,
		last_updated DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (player_id, period, period_start),
		FOREIGN KEY (player_id) REFERENCES players(id) ON DELETE CASCADE
	);`

	leaderboardsTable := `
	CREATE TABLE IF NOT EXISTS leaderboards (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		period TEXT NOT NULL,
		period_start DATETIME NOT NULL,
		rank_position INTEGER NOT NULL,
		player_id INTEGER NOT NULL,
		player_name TEXT NOT NULL,
		total_score INTEGER NOT NULL,
		phrases_completed INTEGER NOT NULL,
		avg_score REAL NOT NULL,
		UNIQUE (period, period_start, rank_position),
		FOREIGN KEY (player_id) REFERENCES players(id) ON DELETE CASCADE
	);`

	// Create indexes for better performance
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_players_name ON players(name);`,
		`CREATE INDEX IF NOT EXISTS idx_phrases_global ON phrases(is_global, is_approved);`,
		`CREATE INDEX IF NOT EXISTS idx_assignments_target ON player_phrases(target_player_id, is_delivered, assigned_at);`,
		`CREATE INDEX IF NOT EXISTS idx_completions_player ON completed_phrases(player_id);`,
		`CREATE INDEX IF NOT EXISTS idx_completions_time ON completed_phrases(completed_at);`,
		`CREATE INDEX IF NOT EXISTS idx_skips_player ON skipped_phrases(player_id);`,
		`CREATE INDEX IF NOT EXISTS idx_hints_pair ON hint_usage(player_id, phrase_id);`,
		`CREATE INDEX IF NOT EXISTS idx_scores_period ON player_scores(period, period_start);`,
		`CREATE INDEX IF NOT EXISTS idx_leaderboards_period ON leaderboards(period, period_start, rank_position);`,
	}

	tables := []string{
		playersTable, phrasesTable, assignmentsTable, completionsTable,
		skipsTable, hintsTable, scoresTable, leaderboardsTable,
	}

	// Execute table creation
	for _, query := range tables {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	// Create indexes
	for _, index := range indexes {
		if _, err := db.Exec(index); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
