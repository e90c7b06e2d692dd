package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GetLatestLoadPoint retrieves the most recent LoadPoint (the anchor).
// Returns ErrNoLoadPoints if the series is empty.
func (db *DB) GetLatestLoadPoint() (*LoadPoint, error) {
	row := db.QueryRow(selectLoadPoint + ` ORDER BY date DESC LIMIT 1`)
	return scanLoadPointRow(row)
}

// GetEarliestLoadPoint retrieves the first LoadPoint ever computed,
// used for growth-since-start reporting.
func (db *DB) GetEarliestLoadPoint() (*LoadPoint, error) {
	row := db.QueryRow(selectLoadPoint + ` ORDER BY date ASC LIMIT 1`)
	return scanLoadPointRow(row)
}

// GetRecentLoadPoints retrieves the last n LoadPoints in ascending date order
func (db *DB) GetRecentLoadPoints(n int) ([]LoadPoint, error) {
	rows, err := db.Query(selectLoadPoint+` ORDER BY date DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points, err := scanLoadPoints(rows)
	if err != nil {
		return nil, err
	}

	// Reverse into chronological order
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
	return points, nil
}

// GetLoadPointsBetween retrieves LoadPoints with from <= date <= to, ascending
func (db *DB) GetLoadPointsBetween(from, to time.Time) ([]LoadPoint, error) {
	rows, err := db.Query(
		selectLoadPoint+` WHERE date >= ? AND date <= ? ORDER BY date`,
		from.Format(DateFormat), to.Format(DateFormat),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLoadPoints(rows)
}

// UpsertLoadPoints writes a batch of LoadPoints in a single transaction.
// One recompute is one transaction: a partial write would leave a gap in
// the series, so all days land or none do.
func (db *DB) UpsertLoadPoints(points []LoadPoint) error {
	if len(points) == 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO training_load (date, daily_tss, ctl, atl, tsb, computed_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(date) DO UPDATE SET
			daily_tss = excluded.daily_tss,
			ctl = excluded.ctl,
			atl = excluded.atl,
			tsb = excluded.tsb,
			computed_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.Exec(p.Date.Format(DateFormat), p.DailyTSS, p.CTL, p.ATL, p.TSB); err != nil {
			return fmt.Errorf("upserting load point %s: %w", p.Date.Format(DateFormat), err)
		}
	}

	return tx.Commit()
}

const selectLoadPoint = `SELECT date, daily_tss, ctl, atl, tsb FROM training_load`

func scanLoadPointRow(row *sql.Row) (*LoadPoint, error) {
	var p LoadPoint
	var dateStr string

	err := row.Scan(&dateStr, &p.DailyTSS, &p.CTL, &p.ATL, &p.TSB)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoLoadPoints
	}
	if err != nil {
		return nil, err
	}

	p.Date, err = time.Parse(DateFormat, dateStr)
	if err != nil {
		return nil, fmt.Errorf("parsing load point date %q: %w", dateStr, err)
	}
	return &p, nil
}

func scanLoadPoints(rows *sql.Rows) ([]LoadPoint, error) {
	var points []LoadPoint
	for rows.Next() {
		var p LoadPoint
		var dateStr string
		if err := rows.Scan(&dateStr, &p.DailyTSS, &p.CTL, &p.ATL, &p.TSB); err != nil {
			return nil, err
		}
		var err error
		p.Date, err = time.Parse(DateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parsing load point date %q: %w", dateStr, err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
