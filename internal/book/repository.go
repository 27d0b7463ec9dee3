package book

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/redmonkez12/bookdiary-api/internal/database"
)

var ErrNotFound = errors.New("book not found")

type Repository struct {
	db bun.IDB
}

func NewRepository(db bun.IDB) *Repository {
	return &Repository{db: db}
}

// Add stores b keyed by its Open Library id. An existing record with the
// same id is returned unchanged and created is false.
func (r *Repository) Add(ctx context.Context, b *Book) (stored *Book, created bool, err error) {
	row := &database.Book{
		OpenLibraryID: b.OpenLibraryID,
		Title:         b.Title,
		Author:        b.Author,
		ISBN:          b.ISBN,
		CoverImageURL: b.CoverImageURL,
		Description:   b.Description,
		PublishedYear: b.PublishedYear,
	}

	result, err := r.db.NewInsert().
		Model(row).
		On("CONFLICT (open_library_id) DO NOTHING").
		Returning("NULL").
		Exec(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to add book: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	stored, err = r.GetByOpenLibraryID(ctx, b.OpenLibraryID)
	if err != nil {
		return nil, false, err
	}
	return stored, n > 0, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Book, error) {
	return r.getWhere(ctx, "b.id = ?", id)
}

func (r *Repository) GetByOpenLibraryID(ctx context.Context, openLibraryID string) (*Book, error) {
	return r.getWhere(ctx, "b.open_library_id = ?", openLibraryID)
}

func (r *Repository) getWhere(ctx context.Context, query string, arg any) (*Book, error) {
	row := new(database.Book)
	err := r.db.NewSelect().
		Model(row).
		Where(query, arg).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	return mapDBBookToModel(row), nil
}

// MarkRead records that userID has read bookID. It returns false when the
// book was already marked.
func (r *Repository) MarkRead(ctx context.Context, userID, bookID int64) (bool, error) {
	result, err := r.db.NewInsert().
		Model(&database.ReadBook{UserID: userID, BookID: bookID}).
		On("CONFLICT (user_id, book_id) DO NOTHING").
		Returning("NULL").
		Exec(ctx)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("failed to mark book as read: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}

// ListRead returns the books userID has marked as read, most recent first.
func (r *Repository) ListRead(ctx context.Context, userID int64) ([]Book, error) {
	var rows []database.Book
	err := r.db.NewSelect().
		Model(&rows).
		Join("JOIN read_books AS rb ON rb.book_id = b.id").
		Where("rb.user_id = ?", userID).
		OrderExpr("rb.read_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list read books: %w", err)
	}

	books := make([]Book, 0, len(rows))
	for i := range rows {
		books = append(books, *mapDBBookToModel(&rows[i]))
	}
	return books, nil
}

func mapDBBookToModel(row *database.Book) *Book {
	return &Book{
		ID:            row.ID,
		OpenLibraryID: row.OpenLibraryID,
		Title:         row.Title,
		Author:        row.Author,
		ISBN:          row.ISBN,
		CoverImageURL: row.CoverImageURL,
		Description:   row.Description,
		PublishedYear: row.PublishedYear,
	}
}
