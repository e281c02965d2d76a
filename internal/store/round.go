package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Outcome values stored for a round.
const (
	OutcomeWin  = "win"
	OutcomeLose = "lose"
)

// Round is a finished round.
type Round struct {
	ID                 string    `json:"id"`
	StartedAt          time.Time `json:"started_at"`
	EndedAt            time.Time `json:"ended_at"`
	Outcome            string    `json:"outcome"`
	Spawned            int       `json:"spawned"`
	Hits               int       `json:"hits"`
	RemainingBlossom   int       `json:"remaining_blossom"`
	RemainingSnowflake int       `json:"remaining_snowflake"`
}

// Stats summarizes all stored rounds.
type Stats struct {
	Rounds    int `json:"rounds"`
	Wins      int `json:"wins"`
	Losses    int `json:"losses"`
	TotalHits int `json:"total_hits"`
	BestHits  int `json:"best_hits"`
}

// RoundRepository provides CRUD operations for rounds.
type RoundRepository struct {
	db *sql.DB
}

// Rounds returns the round repository for this store.
func (s *Store) Rounds() *RoundRepository {
	return &RoundRepository{db: s.db}
}

// Create inserts a round. An empty ID is replaced with a new UUID.
func (r *RoundRepository) Create(round *Round) error {
	if round.Outcome != OutcomeWin && round.Outcome != OutcomeLose {
		return fmt.Errorf("invalid outcome %q", round.Outcome)
	}
	if round.ID == "" {
		round.ID = uuid.NewString()
	}

	_, err := r.db.Exec(
		`INSERT INTO rounds (id, started_at, ended_at, outcome, spawned, hits, remaining_blossom, remaining_snowflake)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		round.ID, round.StartedAt.UTC(), round.EndedAt.UTC(), round.Outcome, round.Spawned, round.Hits,
		round.RemainingBlossom, round.RemainingSnowflake,
	)
	return err
}

// GetByID retrieves a round by its ID.
func (r *RoundRepository) GetByID(id string) (*Round, error) {
	round := &Round{}

	err := r.db.QueryRow(
		`SELECT id, started_at, ended_at, outcome, spawned, hits, remaining_blossom, remaining_snowflake
		 FROM rounds WHERE id = ?`,
		id,
	).Scan(&round.ID, &round.StartedAt, &round.EndedAt, &round.Outcome, &round.Spawned, &round.Hits,
		&round.RemainingBlossom, &round.RemainingSnowflake)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return round, nil
}

// List retrieves the most recent rounds, newest first. A limit <= 0 returns all rounds.
func (r *RoundRepository) List(limit int) ([]*Round, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Query(
		`SELECT id, started_at, ended_at, outcome, spawned, hits, remaining_blossom, remaining_snowflake
		 FROM rounds ORDER BY ended_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rounds []*Round
	for rows.Next() {
		round := &Round{}
		err := rows.Scan(&round.ID, &round.StartedAt, &round.EndedAt, &round.Outcome, &round.Spawned,
			&round.Hits, &round.RemainingBlossom, &round.RemainingSnowflake)
		if err != nil {
			return nil, err
		}
		rounds = append(rounds, round)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rounds, nil
}

// Stats aggregates every stored round.
func (r *RoundRepository) Stats() (*Stats, error) {
	st := &Stats{}
	err := r.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN outcome = 'win' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN outcome = 'lose' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(hits), 0),
		        COALESCE(MAX(hits), 0)
		 FROM rounds`,
	).Scan(&st.Rounds, &st.Wins, &st.Losses, &st.TotalHits, &st.BestHits)
	if err != nil {
		return nil, err
	}
	return st, nil
}

// Delete removes a round by its ID.
func (r *RoundRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM rounds WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
