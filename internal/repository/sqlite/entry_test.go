package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/msomdec/daybook/internal/domain"
)

func createTestEntry(t *testing.T, db *DB, userID int64, title, date, tags string) *domain.Entry {
	t.Helper()
	entry := &domain.Entry{
		UserID:    userID,
		Title:     title,
		Content:   "content of " + title,
		EntryDate: date,
		Tags:      tags,
	}
	if err := db.Entries().Create(context.Background(), entry); err != nil {
		t.Fatalf("create entry %s: %v", title, err)
	}
	return entry
}

func TestEntryRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "owner@example.com")

	entry := createTestEntry(t, db, user.ID, "Morning pages", "2025-06-01", "writing,habit")
	if entry.ID == 0 {
		t.Fatal("expected ID to be set after create")
	}

	got, err := db.Entries().GetByID(ctx, entry.ID, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "Morning pages" {
		t.Fatalf("expected title Morning pages, got %s", got.Title)
	}
	if got.Tags != "writing,habit" {
		t.Fatalf("expected tags writing,habit, got %q", got.Tags)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be set")
	}
}

func TestEntryRepository_EmptyTagsStoredAsNull(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "owner@example.com")

	entry := createTestEntry(t, db, user.ID, "Untagged", "2025-06-01", "")

	var tags sql.NullString
	err := db.sqlDB.QueryRowContext(ctx,
		`SELECT tags FROM diary_entries WHERE id = ?`, entry.ID,
	).Scan(&tags)
	if err != nil {
		t.Fatalf("query raw tags: %v", err)
	}
	if tags.Valid {
		t.Fatalf("expected NULL tags column, got %q", tags.String)
	}

	got, err := db.Entries().GetByID(ctx, entry.ID, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Tags != "" {
		t.Fatalf("expected empty tags on read, got %q", got.Tags)
	}
}

func TestEntryRepository_OwnershipScoping(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	entry := createTestEntry(t, db, alice.ID, "Private", "2025-06-01", "")

	// Another user's entry behaves exactly like a missing one.
	if _, err := db.Entries().GetByID(ctx, entry.ID, bob.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetByID as other user: expected ErrNotFound, got %v", err)
	}
	if _, err := db.Entries().GetByID(ctx, 9999, alice.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetByID missing id: expected ErrNotFound, got %v", err)
	}

	entry.Title = "Hijacked"
	entry.UserID = bob.ID
	if err := db.Entries().Update(ctx, entry); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Update as other user: expected ErrNotFound, got %v", err)
	}

	if err := db.Entries().Delete(ctx, entry.ID, bob.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Delete as other user: expected ErrNotFound, got %v", err)
	}

	// The owner still sees the untouched entry.
	got, err := db.Entries().GetByID(ctx, entry.ID, alice.ID)
	if err != nil {
		t.Fatalf("GetByID as owner: %v", err)
	}
	if got.Title != "Private" {
		t.Fatalf("expected title Private, got %s", got.Title)
	}
}

func TestEntryRepository_ListByDate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")

	createTestEntry(t, db, user.ID, "First", "2025-06-01", "")
	createTestEntry(t, db, user.ID, "Second", "2025-06-01", "")
	createTestEntry(t, db, user.ID, "Elsewhere", "2025-06-02", "")
	createTestEntry(t, db, other.ID, "Not mine", "2025-06-01", "")

	entries, err := db.Entries().ListByDate(ctx, user.ID, "2025-06-01")
	if err != nil {
		t.Fatalf("ListByDate: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Title != "First" || entries[1].Title != "Second" {
		t.Fatalf("expected oldest-first order, got %s then %s", entries[0].Title, entries[1].Title)
	}
}

func TestEntryRepository_ListByTag_BoundaryMatch(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "owner@example.com")

	createTestEntry(t, db, user.ID, "Tagged work", "2025-06-01", "work,personal")
	createTestEntry(t, db, user.ID, "Workshop notes", "2025-06-02", "workshop")
	createTestEntry(t, db, user.ID, "Untagged", "2025-06-03", "")

	entries, err := db.Entries().ListByTag(ctx, user.ID, "work")
	if err != nil {
		t.Fatalf("ListByTag: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly 1 entry for tag work, got %d", len(entries))
	}
	if entries[0].Title != "Tagged work" {
		t.Fatalf("expected Tagged work, got %s", entries[0].Title)
	}
}

func TestEntryRepository_Search(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")

	createTestEntry(t, db, user.ID, "Garden progress", "2025-06-01", "")
	e := &domain.Entry{
		UserID:    user.ID,
		Title:     "Random thoughts",
		Content:   "planted tomatoes in the garden",
		EntryDate: "2025-06-02",
	}
	if err := db.Entries().Create(ctx, e); err != nil {
		t.Fatalf("create entry: %v", err)
	}
	createTestEntry(t, db, user.ID, "Unrelated", "2025-06-03", "")
	createTestEntry(t, db, other.ID, "Garden envy", "2025-06-01", "")

	entries, err := db.Entries().Search(ctx, user.ID, "garden", 10, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(entries))
	}
	// Newest entry date first.
	if entries[0].Title != "Random thoughts" {
		t.Fatalf("expected Random thoughts first, got %s", entries[0].Title)
	}
}

func TestEntryRepository_SearchPagination(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "owner@example.com")

	for i := 1; i <= 5; i++ {
		createTestEntry(t, db, user.ID, fmt.Sprintf("Note %d", i), fmt.Sprintf("2025-06-%02d", i), "")
	}

	page1, err := db.Entries().Search(ctx, user.ID, "Note", 2, 0)
	if err != nil {
		t.Fatalf("Search page 1: %v", err)
	}
	if len(page1) != 2 {
		t.Fatalf("expected 2 results, got %d", len(page1))
	}
	if page1[0].Title != "Note 5" || page1[1].Title != "Note 4" {
		t.Fatalf("unexpected page 1 order: %s, %s", page1[0].Title, page1[1].Title)
	}

	page2, err := db.Entries().Search(ctx, user.ID, "Note", 2, 2)
	if err != nil {
		t.Fatalf("Search page 2: %v", err)
	}
	if len(page2) != 2 {
		t.Fatalf("expected 2 results, got %d", len(page2))
	}
	if page2[0].Title != "Note 3" || page2[1].Title != "Note 2" {
		t.Fatalf("unexpected page 2 order: %s, %s", page2[0].Title, page2[1].Title)
	}

	tail, err := db.Entries().Search(ctx, user.ID, "Note", 2, 4)
	if err != nil {
		t.Fatalf("Search tail: %v", err)
	}
	if len(tail) != 1 {
		t.Fatalf("expected 1 result on last page, got %d", len(tail))
	}
}

func TestEntryRepository_CountByDateRange(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")

	createTestEntry(t, db, user.ID, "A", "2025-06-01", "")
	createTestEntry(t, db, user.ID, "B", "2025-06-01", "")
	createTestEntry(t, db, user.ID, "C", "2025-06-15", "")
	createTestEntry(t, db, user.ID, "Out of range", "2025-07-01", "")
	createTestEntry(t, db, other.ID, "Not mine", "2025-06-01", "")

	counts, err := db.Entries().CountByDateRange(ctx, user.ID, "2025-06-01", "2025-06-30")
	if err != nil {
		t.Fatalf("CountByDateRange: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("expected counts for 2 dates, got %d", len(counts))
	}
	if counts["2025-06-01"] != 2 {
		t.Fatalf("expected 2 on 2025-06-01, got %d", counts["2025-06-01"])
	}
	if counts["2025-06-15"] != 1 {
		t.Fatalf("expected 1 on 2025-06-15, got %d", counts["2025-06-15"])
	}
}

func TestEntryRepository_Update(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "owner@example.com")

	entry := createTestEntry(t, db, user.ID, "Draft", "2025-06-01", "draft")

	entry.Title = "Final"
	entry.Content = "revised"
	entry.Tags = ""
	if err := db.Entries().Update(ctx, entry); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := db.Entries().GetByID(ctx, entry.ID, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "Final" || got.Content != "revised" {
		t.Fatalf("update not persisted: %+v", got)
	}
	if got.Tags != "" {
		t.Fatalf("expected tags cleared, got %q", got.Tags)
	}
}

func TestEntryRepository_DeleteCascadesFromUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "doomed@example.com")
	createTestEntry(t, db, user.ID, "Going away", "2025-06-01", "")

	if _, err := db.sqlDB.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, user.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	var count int
	if err := db.sqlDB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM diary_entries WHERE user_id = ?`, user.ID,
	).Scan(&count); err != nil {
		t.Fatalf("count entries: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected entries removed with the user, found %d", count)
	}
}
