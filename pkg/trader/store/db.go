// Package store persists bets in SQLite and the bankroll in a JSON
// file next to it.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/courtside/courtside-agents/pkg/trader/bets"
)

// Store handles bet persistence.
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if needed) the bet database.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS active_bets (
		id TEXT PRIMARY KEY,
		game_id TEXT NOT NULL,
		matchup TEXT NOT NULL,
		bet_type TEXT NOT NULL,
		pick TEXT NOT NULL,
		line REAL NOT NULL,
		confidence TEXT NOT NULL,
		units REAL NOT NULL,
		reasoning TEXT,
		primary_edge TEXT,
		bet_date TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		amount TEXT NOT NULL,
		odds_price INTEGER NOT NULL,
		poly_price REAL
	);

	CREATE TABLE IF NOT EXISTS completed_bets (
		id TEXT PRIMARY KEY,
		game_id TEXT NOT NULL,
		matchup TEXT NOT NULL,
		bet_type TEXT NOT NULL,
		pick TEXT NOT NULL,
		line REAL NOT NULL,
		confidence TEXT NOT NULL,
		units REAL NOT NULL,
		reasoning TEXT,
		primary_edge TEXT,
		bet_date TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		amount TEXT NOT NULL,
		odds_price INTEGER NOT NULL,
		poly_price REAL,
		result TEXT NOT NULL,
		winner TEXT,
		final_score TEXT,
		actual_total INTEGER,
		actual_margin INTEGER,
		profit_loss TEXT NOT NULL,
		settled_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_active_date ON active_bets(bet_date);
	CREATE INDEX IF NOT EXISTS idx_active_game ON active_bets(game_id);
	CREATE INDEX IF NOT EXISTS idx_completed_date ON completed_bets(bet_date);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// InsertActive records a newly placed bet.
func (s *Store) InsertActive(b bets.ActiveBet) error {
	_, err := s.db.Exec(`
		INSERT INTO active_bets (id, game_id, matchup, bet_type, pick, line, confidence, units,
			reasoning, primary_edge, bet_date, created_at, amount, odds_price, poly_price)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.GameID, b.Matchup, b.Type.String(), b.Pick, b.Line, string(b.Confidence), b.Units,
		b.Reasoning, b.PrimaryEdge, b.Date, b.CreatedAt, b.Amount.String(), b.OddsPrice, b.PolyPrice)
	if err != nil {
		return fmt.Errorf("inserting active bet: %w", err)
	}
	return nil
}

const activeColumns = `id, game_id, matchup, bet_type, pick, line, confidence, units,
	reasoning, primary_edge, bet_date, created_at, amount, odds_price, poly_price`

func scanActive(row interface{ Scan(...any) error }) (bets.ActiveBet, error) {
	var b bets.ActiveBet
	var betType, confidence, amount string
	err := row.Scan(&b.ID, &b.GameID, &b.Matchup, &betType, &b.Pick, &b.Line, &confidence, &b.Units,
		&b.Reasoning, &b.PrimaryEdge, &b.Date, &b.CreatedAt, &amount, &b.OddsPrice, &b.PolyPrice)
	if err != nil {
		return b, err
	}
	if b.Type, err = bets.ParseBetType(betType); err != nil {
		return b, err
	}
	b.Confidence = bets.Confidence(confidence)
	if b.Amount, err = decimal.NewFromString(amount); err != nil {
		return b, fmt.Errorf("parsing amount %q: %w", amount, err)
	}
	return b, nil
}

// ActiveBets returns all open bets, newest first.
func (s *Store) ActiveBets() ([]bets.ActiveBet, error) {
	return s.queryActive(`SELECT ` + activeColumns + ` FROM active_bets ORDER BY created_at DESC`)
}

// ActiveBetsByDate returns open bets for a game date.
func (s *Store) ActiveBetsByDate(date string) ([]bets.ActiveBet, error) {
	return s.queryActive(`SELECT `+activeColumns+` FROM active_bets WHERE bet_date = ? ORDER BY created_at DESC`, date)
}

func (s *Store) queryActive(query string, args ...any) ([]bets.ActiveBet, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying active bets: %w", err)
	}
	defer rows.Close()

	var out []bets.ActiveBet
	for rows.Next() {
		b, err := scanActive(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning active bet: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// DeleteActive removes an open bet without settling it. Used for early
// exits and reverted slates.
func (s *Store) DeleteActive(id string) error {
	res, err := s.db.Exec(`DELETE FROM active_bets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting active bet: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("active bet %s not found", id)
	}
	return nil
}

// Settle moves a bet from the active table to the completed table in
// one transaction.
func (s *Store) Settle(c bets.CompletedBet) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning settle: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`DELETE FROM active_bets WHERE id = ?`, c.ID)
	if err != nil {
		return fmt.Errorf("removing active bet: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("active bet %s not found", c.ID)
	}

	_, err = tx.Exec(`
		INSERT INTO completed_bets (id, game_id, matchup, bet_type, pick, line, confidence, units,
			reasoning, primary_edge, bet_date, created_at, amount, odds_price, poly_price,
			result, winner, final_score, actual_total, actual_margin, profit_loss, settled_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.GameID, c.Matchup, c.Type.String(), c.Pick, c.Line, string(c.Confidence), c.Units,
		c.Reasoning, c.PrimaryEdge, c.Date, c.CreatedAt, c.Amount.String(), c.OddsPrice, c.PolyPrice,
		string(c.Result), c.Winner, c.FinalScore, c.ActualTotal, c.ActualMargin, c.ProfitLoss.String(),
		time.Now().UTC())
	if err != nil {
		return fmt.Errorf("inserting completed bet: %w", err)
	}
	return tx.Commit()
}

// CompletedBets returns settled bets, newest first. A limit of 0 means
// no limit.
func (s *Store) CompletedBets(limit int) ([]bets.CompletedBet, error) {
	query := `SELECT id, game_id, matchup, bet_type, pick, line, confidence, units,
		reasoning, primary_edge, bet_date, created_at, amount, odds_price, poly_price,
		result, winner, final_score, actual_total, actual_margin, profit_loss
		FROM completed_bets ORDER BY created_at DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying completed bets: %w", err)
	}
	defer rows.Close()

	var out []bets.CompletedBet
	for rows.Next() {
		var c bets.CompletedBet
		var betType, confidence, amount, result, pnl string
		err := rows.Scan(&c.ID, &c.GameID, &c.Matchup, &betType, &c.Pick, &c.Line, &confidence, &c.Units,
			&c.Reasoning, &c.PrimaryEdge, &c.Date, &c.CreatedAt, &amount, &c.OddsPrice, &c.PolyPrice,
			&result, &c.Winner, &c.FinalScore, &c.ActualTotal, &c.ActualMargin, &pnl)
		if err != nil {
			return nil, fmt.Errorf("scanning completed bet: %w", err)
		}
		if c.Type, err = bets.ParseBetType(betType); err != nil {
			return nil, err
		}
		c.Confidence = bets.Confidence(confidence)
		c.Result = bets.Result(result)
		if c.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parsing amount %q: %w", amount, err)
		}
		if c.ProfitLoss, err = decimal.NewFromString(pnl); err != nil {
			return nil, fmt.Errorf("parsing profit_loss %q: %w", pnl, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// OpenExposure returns the total staked across open bets.
func (s *Store) OpenExposure() (decimal.Decimal, error) {
	return s.sumColumn(`SELECT COALESCE(amount, '0') FROM active_bets`)
}

// DollarPnL returns the realized profit and loss across settled bets.
func (s *Store) DollarPnL() (decimal.Decimal, error) {
	return s.sumColumn(`SELECT COALESCE(profit_loss, '0') FROM completed_bets`)
}

// Amounts are stored as decimal strings, so sums happen in Go rather
// than SQL floats.
func (s *Store) sumColumn(query string) (decimal.Decimal, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return decimal.Zero, fmt.Errorf("querying sum: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return decimal.Zero, fmt.Errorf("scanning amount: %w", err)
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, fmt.Errorf("parsing amount %q: %w", raw, err)
		}
		total = total.Add(d)
	}
	return total, rows.Err()
}
