package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/custodia-labs/paperink/internal/core/domain"
	"github.com/custodia-labs/paperink/internal/core/ports/driven"
)

// historyStore implements driven.HistoryStore.
type historyStore struct {
	store *Store
}

var _ driven.HistoryStore = (*historyStore)(nil)

const historyColumns = `id, input, input_digest, out_ink, out_template, out_csv, out_json,
	status, error, stroke_count, point_count, started_at, finished_at`

// Save stores or replaces a conversion record.
func (s *historyStore) Save(ctx context.Context, rec *domain.ConversionRecord) error {
	if rec == nil || rec.ID == "" {
		return fmt.Errorf("record without id: %w", domain.ErrInvalidInput)
	}

	var errMsg sql.NullString
	if rec.Error != "" {
		errMsg = sql.NullString{String: rec.Error, Valid: true}
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO conversions (`+historyColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			input = excluded.input,
			input_digest = excluded.input_digest,
			out_ink = excluded.out_ink,
			out_template = excluded.out_template,
			out_csv = excluded.out_csv,
			out_json = excluded.out_json,
			status = excluded.status,
			error = excluded.error,
			stroke_count = excluded.stroke_count,
			point_count = excluded.point_count,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at
	`, rec.ID, rec.Input, rec.InputDigest,
		rec.Outputs.Ink, rec.Outputs.Template, rec.Outputs.CSV, rec.Outputs.JSON,
		string(rec.Status), errMsg, rec.StrokeCount, rec.PointCount,
		formatTime(rec.StartedAt), formatTime(rec.FinishedAt))
	if err != nil {
		return fmt.Errorf("saving conversion record: %w", err)
	}
	return nil
}

// Get retrieves a record by ID.
func (s *historyStore) Get(ctx context.Context, id string) (*domain.ConversionRecord, error) {
	row := s.store.db.QueryRowContext(ctx,
		`SELECT `+historyColumns+` FROM conversions WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns the newest records first. A limit <= 0 returns all.
func (s *historyStore) List(ctx context.Context, limit int) ([]domain.ConversionRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.store.db.QueryContext(ctx,
		`SELECT `+historyColumns+` FROM conversions ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying conversions: %w", err)
	}
	defer rows.Close()

	var records []domain.ConversionRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating conversions: %w", err)
	}
	return records, nil
}

// Clear deletes all records and returns how many were removed.
func (s *historyStore) Clear(ctx context.Context) (int, error) {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM conversions")
	if err != nil {
		return 0, fmt.Errorf("clearing conversions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting cleared conversions: %w", err)
	}
	return int(n), nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*domain.ConversionRecord, error) {
	var (
		rec                 domain.ConversionRecord
		status              string
		errMsg              sql.NullString
		startedAt, finished string
	)
	err := row.Scan(&rec.ID, &rec.Input, &rec.InputDigest,
		&rec.Outputs.Ink, &rec.Outputs.Template, &rec.Outputs.CSV, &rec.Outputs.JSON,
		&status, &errMsg, &rec.StrokeCount, &rec.PointCount, &startedAt, &finished)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning conversion record: %w", err)
	}

	rec.Status = domain.ConversionStatus(status)
	rec.Error = errMsg.String
	rec.StartedAt = parseTime(startedAt)
	rec.FinishedAt = parseTime(finished)
	return &rec, nil
}
