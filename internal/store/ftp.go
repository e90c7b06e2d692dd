package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// InsertFTPRecord appends an FTP test result. History is append-only;
// duplicates on the same date are allowed (retests happen).
func (db *DB) InsertFTPRecord(r *FTPRecord) error {
	result, err := db.Exec(`
		INSERT INTO ftp_history (test_date, ftp_watts, protocol, confidence)
		VALUES (?, ?, ?, ?)
	`, r.TestDate.Format(DateFormat), r.Watts, r.Protocol, r.Confidence)
	if err != nil {
		return err
	}
	r.ID, err = result.LastInsertId()
	return err
}

// GetFTPHistory retrieves all FTP records ordered by test date
func (db *DB) GetFTPHistory() ([]FTPRecord, error) {
	rows, err := db.Query(`
		SELECT id, test_date, ftp_watts, protocol, confidence
		FROM ftp_history ORDER BY test_date, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []FTPRecord
	for rows.Next() {
		var r FTPRecord
		var dateStr string
		var protocol, confidence sql.NullString
		if err := rows.Scan(&r.ID, &dateStr, &r.Watts, &protocol, &confidence); err != nil {
			return nil, err
		}
		r.TestDate, err = time.Parse(DateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parsing test date %q: %w", dateStr, err)
		}
		r.Protocol = protocol.String
		r.Confidence = confidence.String
		records = append(records, r)
	}
	return records, rows.Err()
}

// GetCurrentFTP retrieves the most recent FTP record.
// Returns ErrNoFTPHistory if no tests are stored.
func (db *DB) GetCurrentFTP() (*FTPRecord, error) {
	row := db.QueryRow(`
		SELECT id, test_date, ftp_watts, protocol, confidence
		FROM ftp_history ORDER BY test_date DESC, id DESC LIMIT 1
	`)

	var r FTPRecord
	var dateStr string
	var protocol, confidence sql.NullString
	err := row.Scan(&r.ID, &dateStr, &r.Watts, &protocol, &confidence)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoFTPHistory
	}
	if err != nil {
		return nil, err
	}

	r.TestDate, err = time.Parse(DateFormat, dateStr)
	if err != nil {
		return nil, fmt.Errorf("parsing test date %q: %w", dateStr, err)
	}
	r.Protocol = protocol.String
	r.Confidence = confidence.String
	return &r, nil
}
