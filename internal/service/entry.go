package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/msomdec/daybook/internal/domain"
)

var entryDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// EntryService handles diary entry CRUD, search, and tag filtering. Every
// operation takes the requesting user's id and the repository scopes each
// query by it, so an entry owned by someone else is indistinguishable from
// one that does not exist.
type EntryService struct {
	entries domain.EntryRepository
}

// NewEntryService creates a new EntryService.
func NewEntryService(entries domain.EntryRepository) *EntryService {
	return &EntryService{entries: entries}
}

// ValidEntryDate reports whether date is a well-formed YYYY-MM-DD string.
func ValidEntryDate(date string) bool {
	return entryDatePattern.MatchString(date)
}

// Create validates input, normalizes tags, and stores a new entry for the
// given user.
func (s *EntryService) Create(ctx context.Context, userID int64, title, content, entryDate, tags string) (*domain.Entry, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is required", domain.ErrInvalidInput)
	}
	if !ValidEntryDate(entryDate) {
		return nil, fmt.Errorf("%w: invalid date format", domain.ErrInvalidInput)
	}

	entry := &domain.Entry{
		UserID:    userID,
		Title:     strings.TrimSpace(title),
		Content:   content,
		EntryDate: entryDate,
		Tags:      domain.NormalizeTags(tags),
	}

	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}
	return entry, nil
}

// Get returns the entry if it exists and belongs to the user.
func (s *EntryService) Get(ctx context.Context, userID, id int64) (*domain.Entry, error) {
	return s.entries.GetByID(ctx, id, userID)
}

// Update validates input and rewrites the entry's title, content, and
// tags. The entry date is immutable after creation.
func (s *EntryService) Update(ctx context.Context, userID, id int64, title, content, tags string) (*domain.Entry, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is required", domain.ErrInvalidInput)
	}

	entry, err := s.entries.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	entry.Title = strings.TrimSpace(title)
	entry.Content = content
	entry.Tags = domain.NormalizeTags(tags)

	if err := s.entries.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Delete removes the entry if it belongs to the user.
func (s *EntryService) Delete(ctx context.Context, userID, id int64) error {
	return s.entries.Delete(ctx, id, userID)
}

// ListByDate returns the user's entries for one calendar date, oldest
// first.
func (s *EntryService) ListByDate(ctx context.Context, userID int64, date string) ([]domain.Entry, error) {
	if !ValidEntryDate(date) {
		return nil, fmt.Errorf("%w: invalid date format", domain.ErrInvalidInput)
	}
	return s.entries.ListByDate(ctx, userID, date)
}

// ListByTag returns the user's entries carrying the given tag, newest
// first.
func (s *EntryService) ListByTag(ctx context.Context, userID int64, tag string) ([]domain.Entry, error) {
	return s.entries.ListByTag(ctx, userID, tag)
}

// Search returns entries whose title or content matches the term,
// paginated. An extra row beyond limit signals more results; callers
// request limit+1 and drop the sentinel.
func (s *EntryService) Search(ctx context.Context, userID int64, term string, limit, offset int) ([]domain.Entry, error) {
	return s.entries.Search(ctx, userID, term, limit, offset)
}

// CountsForRange returns per-date entry counts between start and end
// inclusive, keyed by YYYY-MM-DD, for the calendar overlay.
func (s *EntryService) CountsForRange(ctx context.Context, userID int64, start, end string) (map[string]int, error) {
	return s.entries.CountByDateRange(ctx, userID, start, end)
}
