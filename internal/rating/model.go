package rating

import "time"

// Allowed star range.
const (
	MinRating = 1
	MaxRating = 5
)

type BookSummary struct {
	ID            int64   `json:"id"`
	OpenLibraryID string  `json:"open_library_id"`
	Title         string  `json:"title"`
	Author        *string `json:"author"`
	CoverImageURL *string `json:"cover_image_url"`
}

type Rating struct {
	ID        int64        `json:"id"`
	UserID    int64        `json:"user_id"`
	BookID    int64        `json:"book_id"`
	Rating    int          `json:"rating"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Book      *BookSummary `json:"book"`
}

// TopRatedBook is a rating joined with its book and the owner's diary review.
type TopRatedBook struct {
	BookID        int64   `json:"book_id" bun:"book_id"`
	OpenLibraryID string  `json:"open_library_id" bun:"open_library_id"`
	Title         string  `json:"title" bun:"title"`
	Author        *string `json:"author" bun:"author"`
	CoverImageURL *string `json:"cover_image_url" bun:"cover_image_url"`
	Rating        int     `json:"rating" bun:"rating"`
	Review        *string `json:"review" bun:"review"`
}

// Valid reports whether stars is inside the allowed range.
func Valid(stars int) bool {
	return stars >= MinRating && stars <= MaxRating
}
