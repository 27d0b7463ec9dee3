// Package diary holds each user's free-text notes on the books they read.
package diary

import (
	"time"

	"github.com/redmonkez12/bookdiary-api/internal/book"
)

type Entry struct {
	ID        int64         `json:"id"`
	UserID    int64         `json:"user_id"`
	BookID    int64         `json:"book_id"`
	EntryText string        `json:"entry_text"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Book      *book.Summary `json:"book,omitempty"`
}
