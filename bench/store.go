package bench

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS campaigns (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS trials (
	campaign_id TEXT NOT NULL REFERENCES campaigns(id),
	seed        INTEGER NOT NULL,
	duration_ns INTEGER NOT NULL,
	length      REAL NOT NULL,
	optimized   REAL NOT NULL,
	success     INTEGER NOT NULL,
	error       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS trials_campaign ON trials(campaign_id);
`

// Store persists campaigns in a SQLite database
type Store struct {
	db *sql.DB
}

// OpenStore opens (and if needed initializes) a campaign database
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes a campaign and its trials
func (s *Store) Save(c *Campaign) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO campaigns (id, name, created_at) VALUES (?, ?, ?)`,
		c.ID, c.Name, c.Created.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("saving campaign %s: %w", c.ID, err)
	}

	for _, trial := range c.Trials {
		_, err = tx.Exec(
			`INSERT INTO trials (campaign_id, seed, duration_ns, length, optimized, success, error)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.ID, trial.Seed, trial.Duration.Nanoseconds(),
			trial.Length, trial.Optimized, trial.Success, trial.Error,
		)
		if err != nil {
			return fmt.Errorf("saving trial seed %d: %w", trial.Seed, err)
		}
	}
	return tx.Commit()
}

// Load reads a campaign by ID
func (s *Store) Load(id string) (*Campaign, error) {
	c := &Campaign{ID: id}

	var created string
	err := s.db.QueryRow(
		`SELECT name, created_at FROM campaigns WHERE id = ?`, id,
	).Scan(&c.Name, &created)
	if err != nil {
		return nil, fmt.Errorf("loading campaign %s: %w", id, err)
	}
	if c.Created, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, fmt.Errorf("campaign %s timestamp: %w", id, err)
	}

	rows, err := s.db.Query(
		`SELECT seed, duration_ns, length, optimized, success, error
		 FROM trials WHERE campaign_id = ? ORDER BY rowid`, id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var trial Trial
		var durationNs int64
		if err := rows.Scan(&trial.Seed, &durationNs, &trial.Length,
			&trial.Optimized, &trial.Success, &trial.Error); err != nil {
			return nil, err
		}
		trial.Duration = time.Duration(durationNs)
		c.Trials = append(c.Trials, trial)
	}
	return c, rows.Err()
}

// List returns the stored campaigns, most recent first, without trials
func (s *Store) List() ([]*Campaign, error) {
	rows, err := s.db.Query(
		`SELECT id, name, created_at FROM campaigns ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []*Campaign
	for rows.Next() {
		c := &Campaign{}
		var created string
		if err := rows.Scan(&c.ID, &c.Name, &created); err != nil {
			return nil, err
		}
		if c.Created, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}
