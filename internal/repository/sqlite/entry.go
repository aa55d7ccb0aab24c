package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/daybook/internal/domain"
)

// EntryRepository implements domain.EntryRepository using SQLite.
//
// Ownership is enforced in SQL: every read, update, and delete filters by
// (id, user_id), so a row owned by another user produces the same
// ErrNotFound as a missing row.
type EntryRepository struct {
	db *sql.DB
}

const entryColumns = `id, user_id, title, content, entry_date, tags, created_at, updated_at`

func (r *EntryRepository) Create(ctx context.Context, entry *domain.Entry) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO diary_entries (user_id, title, content, entry_date, tags, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.UserID, entry.Title, entry.Content, entry.EntryDate, nullableTags(entry.Tags), now, now,
	)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	entry.ID = id
	entry.CreatedAt = now
	entry.UpdatedAt = now
	return nil
}

func (r *EntryRepository) GetByID(ctx context.Context, id, userID int64) (*domain.Entry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM diary_entries WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query entry by id: %w", err)
	}
	return entry, nil
}

func (r *EntryRepository) ListByDate(ctx context.Context, userID int64, date string) ([]domain.Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM diary_entries
		 WHERE user_id = ? AND entry_date = ?
		 ORDER BY created_at ASC`,
		userID, date,
	)
	if err != nil {
		return nil, fmt.Errorf("query entries by date: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (r *EntryRepository) ListByDateRange(ctx context.Context, userID int64, start, end string) ([]domain.Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM diary_entries
		 WHERE user_id = ? AND entry_date BETWEEN ? AND ?
		 ORDER BY entry_date ASC, created_at ASC`,
		userID, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("query entries by date range: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (r *EntryRepository) ListByTag(ctx context.Context, userID int64, tag string) ([]domain.Entry, error) {
	// Comma-boundary match against the stored comma-joined tag list, so
	// "work" does not match "workshop".
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM diary_entries
		 WHERE user_id = ? AND (',' || tags || ',') LIKE ?
		 ORDER BY entry_date DESC, created_at DESC`,
		userID, "%,"+tag+",%",
	)
	if err != nil {
		return nil, fmt.Errorf("query entries by tag: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (r *EntryRepository) Search(ctx context.Context, userID int64, term string, limit, offset int) ([]domain.Entry, error) {
	pattern := "%" + term + "%"
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM diary_entries
		 WHERE user_id = ? AND (title LIKE ? OR content LIKE ?)
		 ORDER BY entry_date DESC, created_at DESC
		 LIMIT ? OFFSET ?`,
		userID, pattern, pattern, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("search entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (r *EntryRepository) CountByDateRange(ctx context.Context, userID int64, start, end string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT entry_date, COUNT(*) FROM diary_entries
		 WHERE user_id = ? AND entry_date BETWEEN ? AND ?
		 GROUP BY entry_date`,
		userID, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("count entries by date: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var date string
		var count int
		if err := rows.Scan(&date, &count); err != nil {
			return nil, fmt.Errorf("scan entry count: %w", err)
		}
		counts[date] = count
	}
	return counts, rows.Err()
}

func (r *EntryRepository) Update(ctx context.Context, entry *domain.Entry) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE diary_entries SET title = ?, content = ?, tags = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		entry.Title, entry.Content, nullableTags(entry.Tags), now, entry.ID, entry.UserID,
	)
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	entry.UpdatedAt = now
	return nil
}

func (r *EntryRepository) Delete(ctx context.Context, id, userID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM diary_entries WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// nullableTags maps the no-tags case to NULL so absence is stored as
// absence, never as an empty string.
func nullableTags(tags string) sql.NullString {
	if tags == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: tags, Valid: true}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*domain.Entry, error) {
	entry := &domain.Entry{}
	var tags sql.NullString
	err := row.Scan(&entry.ID, &entry.UserID, &entry.Title, &entry.Content,
		&entry.EntryDate, &tags, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return nil, err
	}
	entry.Tags = tags.String
	return entry, nil
}

func scanEntries(rows *sql.Rows) ([]domain.Entry, error) {
	var entries []domain.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}
