package diary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/redmonkez12/bookdiary-api/internal/book"
	"github.com/redmonkez12/bookdiary-api/internal/database"
)

var (
	ErrNotFound      = errors.New("diary entry not found")
	ErrAlreadyExists = errors.New("diary entry already exists for this book")
	ErrBookNotFound  = errors.New("book not found")
)

type Repository struct {
	db bun.IDB
}

func NewRepository(db bun.IDB) *Repository {
	return &Repository{db: db}
}

// Create adds the user's entry for a book. A user has at most one entry per
// book.
func (r *Repository) Create(ctx context.Context, userID, bookID int64, text string) (*Entry, error) {
	row := &database.DiaryEntry{UserID: userID, BookID: bookID, EntryText: text}

	_, err := r.db.NewInsert().
		Model(row).
		Returning("*").
		Exec(ctx)
	if err != nil {
		switch {
		case database.IsUniqueViolation(err):
			return nil, ErrAlreadyExists
		case database.IsForeignKeyViolation(err):
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to create diary entry: %w", err)
	}

	return mapDBEntryToModel(row), nil
}

// ListByUser returns the user's entries, newest first, with their books.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]Entry, error) {
	var rows []database.DiaryEntry
	err := r.db.NewSelect().
		Model(&rows).
		Relation("Book").
		Where("d.user_id = ?", userID).
		OrderExpr("d.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list diary entries: %w", err)
	}

	entries := make([]Entry, 0, len(rows))
	for i := range rows {
		entries = append(entries, *mapDBEntryToModel(&rows[i]))
	}
	return entries, nil
}

// GetForBook returns the user's entry for bookID.
func (r *Repository) GetForBook(ctx context.Context, userID, bookID int64) (*Entry, error) {
	row := new(database.DiaryEntry)
	err := r.db.NewSelect().
		Model(row).
		Relation("Book").
		Where("d.user_id = ?", userID).
		Where("d.book_id = ?", bookID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get diary entry: %w", err)
	}

	return mapDBEntryToModel(row), nil
}

// Update replaces the text of an entry owned by userID.
func (r *Repository) Update(ctx context.Context, userID, entryID int64, text string) (*Entry, error) {
	row := new(database.DiaryEntry)
	result, err := r.db.NewUpdate().
		Model(row).
		Set("entry_text = ?", text).
		Set("updated_at = NOW()").
		Where("d.id = ?", entryID).
		Where("d.user_id = ?", userID).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update diary entry: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}

	return mapDBEntryToModel(row), nil
}

// Delete removes an entry owned by userID.
func (r *Repository) Delete(ctx context.Context, userID, entryID int64) error {
	result, err := r.db.NewDelete().
		Model((*database.DiaryEntry)(nil)).
		Where("id = ?", entryID).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete diary entry: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func mapDBEntryToModel(row *database.DiaryEntry) *Entry {
	e := &Entry{
		ID:        row.ID,
		UserID:    row.UserID,
		BookID:    row.BookID,
		EntryText: row.EntryText,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.Book != nil {
		e.Book = &book.Summary{
			ID:            row.Book.ID,
			Title:         row.Book.Title,
			Author:        row.Book.Author,
			CoverImageURL: row.Book.CoverImageURL,
		}
	}
	return e
}
