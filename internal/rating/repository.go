package rating

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/redmonkez12/bookdiary-api/internal/database"
)

var (
	ErrNotFound     = errors.New("rating not found")
	ErrBookNotFound = errors.New("book not found")
)

type Repository struct {
	db bun.IDB
}

func NewRepository(db bun.IDB) *Repository {
	return &Repository{db: db}
}

// Upsert creates the user's rating for a book or replaces its stars.
func (r *Repository) Upsert(ctx context.Context, userID, bookID int64, stars int) (*Rating, error) {
	row := &database.Rating{UserID: userID, BookID: bookID, Rating: stars}

	_, err := r.db.NewInsert().
		Model(row).
		On("CONFLICT (user_id, book_id) DO UPDATE").
		Set("rating = EXCLUDED.rating").
		Set("updated_at = NOW()").
		Returning("*").
		Exec(ctx)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to upsert rating: %w", err)
	}

	return r.Get(ctx, userID, bookID)
}

// Get returns the user's rating of a book with the book attached.
func (r *Repository) Get(ctx context.Context, userID, bookID int64) (*Rating, error) {
	row := new(database.Rating)
	err := r.db.NewSelect().
		Model(row).
		Relation("Book").
		Where("r.user_id = ?", userID).
		Where("r.book_id = ?", bookID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}

	return mapDBRatingToModel(row), nil
}

// ListByUser returns the user's ratings, best first. limit <= 0 means all.
func (r *Repository) ListByUser(ctx context.Context, userID int64, limit int) ([]Rating, error) {
	var rows []database.Rating
	q := r.db.NewSelect().
		Model(&rows).
		Relation("Book").
		Where("r.user_id = ?", userID).
		OrderExpr("r.rating DESC, r.created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}

	ratings := make([]Rating, 0, len(rows))
	for i := range rows {
		ratings = append(ratings, *mapDBRatingToModel(&rows[i]))
	}
	return ratings, nil
}

// TopRated returns the user's highest rated books together with the text of
// their first diary entry for each book.
func (r *Repository) TopRated(ctx context.Context, userID int64, limit int) ([]TopRatedBook, error) {
	books := make([]TopRatedBook, 0, limit)
	err := r.db.NewSelect().
		TableExpr("ratings AS r").
		ColumnExpr("r.book_id, b.open_library_id, b.title, b.author, b.cover_image_url, r.rating").
		ColumnExpr("(SELECT d.entry_text FROM diary_entries AS d WHERE d.user_id = r.user_id AND d.book_id = r.book_id ORDER BY d.created_at ASC LIMIT 1) AS review").
		Join("JOIN books AS b ON b.id = r.book_id").
		Where("r.user_id = ?", userID).
		OrderExpr("r.rating DESC, r.created_at DESC").
		Limit(limit).
		Scan(ctx, &books)
	if err != nil {
		return nil, fmt.Errorf("failed to load top rated books: %w", err)
	}

	return books, nil
}

// Delete removes one of the user's ratings by id.
func (r *Repository) Delete(ctx context.Context, userID, ratingID int64) error {
	result, err := r.db.NewDelete().
		Model((*database.Rating)(nil)).
		Where("id = ?", ratingID).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete rating: %w", err)
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

func mapDBRatingToModel(row *database.Rating) *Rating {
	rt := &Rating{
		ID:        row.ID,
		UserID:    row.UserID,
		BookID:    row.BookID,
		Rating:    row.Rating,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.Book != nil {
		rt.Book = &BookSummary{
			ID:            row.Book.ID,
			OpenLibraryID: row.Book.OpenLibraryID,
			Title:         row.Book.Title,
			Author:        row.Book.Author,
			CoverImageURL: row.Book.CoverImageURL,
		}
	}
	return rt
}
