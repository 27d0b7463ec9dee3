// Package book stores the catalogue records that ratings and diary entries
// point at, and tracks which books each user has read.
package book

type Book struct {
	ID            int64   `json:"id"`
	OpenLibraryID string  `json:"open_library_id"`
	Title         string  `json:"title"`
	Author        *string `json:"author"`
	ISBN          *string `json:"isbn"`
	CoverImageURL *string `json:"cover_image_url"`
	Description   *string `json:"description"`
	PublishedYear *int    `json:"published_year"`
}

// Summary is the short form embedded in other resources.
type Summary struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Author        *string `json:"author"`
	CoverImageURL *string `json:"cover_image_url"`
}
