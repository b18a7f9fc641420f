package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/izzyreal/owltest/internal/protocol"
)

// timestampLayout has fixed-width fractions so stored timestamps sort as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// CreateResult stores a new pending record for a submission and returns it.
func (s *Store) CreateResult(submitter string, rs protocol.ResultSet) (protocol.ResultRecord, error) {
	now := time.Now().UTC()
	rec := protocol.ResultRecord{
		ID:         fmt.Sprintf("result-%d", now.UnixNano()),
		Status:     protocol.ResultStatusPending,
		Submitter:  strings.TrimSpace(submitter),
		CreatedUTC: now,
		UpdatedUTC: now,
		Result:     rs,
	}
	payload, err := json.Marshal(rec.Result)
	if err != nil {
		return protocol.ResultRecord{}, fmt.Errorf("marshal result: %w", err)
	}
	ts := now.Format(timestampLayout)
	err = retrySQLiteBusy(func() error {
		_, err := s.db.Exec(`
			INSERT INTO results (id, status, submitter, result_json, created_utc, updated_utc)
			VALUES (?, ?, ?, ?, ?, ?)
		`, rec.ID, rec.Status, rec.Submitter, string(payload), ts, ts)
		return err
	})
	if err != nil {
		return protocol.ResultRecord{}, fmt.Errorf("insert result: %w", err)
	}
	return rec, nil
}

// PutResult creates or replaces the result stored under id. The status is
// derived from the result; an existing submitter and creation time are kept.
func (s *Store) PutResult(id string, rs protocol.ResultSet) (protocol.ResultRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return protocol.ResultRecord{}, fmt.Errorf("result id is required")
	}
	payload, err := json.Marshal(rs)
	if err != nil {
		return protocol.ResultRecord{}, fmt.Errorf("marshal result: %w", err)
	}
	status := protocol.StatusForResult(rs)
	ts := time.Now().UTC().Format(timestampLayout)
	err = retrySQLiteBusy(func() error {
		_, err := s.db.Exec(`
			INSERT INTO results (id, status, submitter, result_json, created_utc, updated_utc)
			VALUES (?, ?, '', ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				status=excluded.status,
				result_json=excluded.result_json,
				updated_utc=excluded.updated_utc
		`, id, status, string(payload), ts, ts)
		return err
	})
	if err != nil {
		return protocol.ResultRecord{}, fmt.Errorf("put result: %w", err)
	}
	return s.GetResult(id)
}

func (s *Store) GetResult(id string) (protocol.ResultRecord, error) {
	row := s.db.QueryRow(`
		SELECT id, status, submitter, result_json, created_utc, updated_utc
		FROM results WHERE id = ?
	`, id)
	rec, err := scanResult(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return protocol.ResultRecord{}, fmt.Errorf("result %q: %w", id, ErrNotFound)
		}
		return protocol.ResultRecord{}, fmt.Errorf("get result: %w", err)
	}
	return rec, nil
}

// ListResults returns records newest first. limit <= 0 means no limit.
func (s *Store) ListResults(limit int) ([]protocol.ResultRecord, error) {
	query := `
		SELECT id, status, submitter, result_json, created_utc, updated_utc
		FROM results ORDER BY created_utc DESC, id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	out := []protocol.ResultRecord{}
	for rows.Next() {
		rec, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return out, nil
}

func (s *Store) DeleteResult(id string) error {
	var affected int64
	err := retrySQLiteBusy(func() error {
		res, err := s.db.Exec(`DELETE FROM results WHERE id = ?`, id)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("result %q: %w", id, ErrNotFound)
	}
	return nil
}

func scanResult(scanner interface{ Scan(dest ...any) error }) (protocol.ResultRecord, error) {
	var (
		rec                    protocol.ResultRecord
		payload                string
		createdUTC, updatedUTC string
	)
	if err := scanner.Scan(&rec.ID, &rec.Status, &rec.Submitter, &payload, &createdUTC, &updatedUTC); err != nil {
		return protocol.ResultRecord{}, err
	}
	if err := json.Unmarshal([]byte(payload), &rec.Result); err != nil {
		return protocol.ResultRecord{}, fmt.Errorf("decode result %q: %w", rec.ID, err)
	}
	rec.Status = protocol.NormalizeResultStatus(rec.Status)
	rec.CreatedUTC, _ = time.Parse(timestampLayout, createdUTC)
	rec.UpdatedUTC, _ = time.Parse(timestampLayout, updatedUTC)
	return rec, nil
}
