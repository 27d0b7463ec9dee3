package database

import (
	"time"

	"github.com/uptrace/bun"
)

// Row models shared by the repositories. Domain packages map these to their
// own types and never expose bun tags.

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Username     string    `bun:"username,notnull,unique"`
	PasswordHash string    `bun:"password_hash,notnull"`
	IsPrivate    bool      `bun:"is_private,notnull,default:false"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type Follow struct {
	bun.BaseModel `bun:"table:follows,alias:f"`

	ID         int64     `bun:"id,pk,autoincrement"`
	FollowerID int64     `bun:"follower_id,notnull"`
	FollowedID int64     `bun:"followed_id,notnull"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID            int64     `bun:"id,pk,autoincrement"`
	OpenLibraryID string    `bun:"open_library_id,notnull,unique"`
	Title         string    `bun:"title,notnull"`
	Author        *string   `bun:"author"`
	ISBN          *string   `bun:"isbn"`
	CoverImageURL *string   `bun:"cover_image_url"`
	Description   *string   `bun:"description"`
	PublishedYear *int      `bun:"published_year"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

type Rating struct {
	bun.BaseModel `bun:"table:ratings,alias:r"`

	ID        int64     `bun:"id,pk,autoincrement"`
	UserID    int64     `bun:"user_id,notnull"`
	BookID    int64     `bun:"book_id,notnull"`
	Rating    int       `bun:"rating,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`

	Book *Book `bun:"rel:belongs-to,join:book_id=id"`
}

type DiaryEntry struct {
	bun.BaseModel `bun:"table:diary_entries,alias:d"`

	ID        int64     `bun:"id,pk,autoincrement"`
	UserID    int64     `bun:"user_id,notnull"`
	BookID    int64     `bun:"book_id,notnull"`
	EntryText string    `bun:"entry_text,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`

	Book *Book `bun:"rel:belongs-to,join:book_id=id"`
}

type ReadBook struct {
	bun.BaseModel `bun:"table:read_books,alias:rb"`

	ID     int64     `bun:"id,pk,autoincrement"`
	UserID int64     `bun:"user_id,notnull"`
	BookID int64     `bun:"book_id,notnull"`
	ReadAt time.Time `bun:"read_at,nullzero,notnull,default:current_timestamp"`
}
