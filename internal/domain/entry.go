package domain

import (
	"context"
	"strings"
	"time"
)

// Entry is a dated diary entry owned by exactly one user. EntryDate is a
// calendar date in YYYY-MM-DD form with no time component. Tags is a
// comma-joined list; the empty string means the entry has no tags and is
// stored as NULL, never as "".
type Entry struct {
	ID        int64
	UserID    int64
	Title     string
	Content   string
	EntryDate string
	Tags      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TagList splits the stored tag string into individual tags. Returns nil
// for an untagged entry. Value receiver so templates can call it on both
// Entry values and pointers.
func (e Entry) TagList() []string {
	if strings.TrimSpace(e.Tags) == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(e.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// NormalizeTags canonicalizes raw tag input: split on commas, trim each
// segment, drop empties, rejoin. All-blank input normalizes to "" (no
// tags).
func NormalizeTags(raw string) string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return strings.Join(tags, ",")
}

// EntryRepository defines persistence operations for diary entries.
//
// Every read, update, and delete is scoped by the owning user id: an entry
// that exists but belongs to someone else resolves to ErrNotFound, exactly
// like a nonexistent id, so existence is never revealed across users.
type EntryRepository interface {
	Create(ctx context.Context, entry *Entry) error
	GetByID(ctx context.Context, id, userID int64) (*Entry, error)
	ListByDate(ctx context.Context, userID int64, date string) ([]Entry, error)
	ListByDateRange(ctx context.Context, userID int64, start, end string) ([]Entry, error)
	ListByTag(ctx context.Context, userID int64, tag string) ([]Entry, error)
	Search(ctx context.Context, userID int64, term string, limit, offset int) ([]Entry, error)
	CountByDateRange(ctx context.Context, userID int64, start, end string) (map[string]int, error)
	Update(ctx context.Context, entry *Entry) error
	Delete(ctx context.Context, id, userID int64) error
}
