// Package follow persists the directed follower -> followed graph.
package follow

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/redmonkez12/bookdiary-api/internal/database"
)

var ErrNotFollowing = errors.New("not following this user")

type Repository struct {
	db bun.IDB
}

func NewRepository(db bun.IDB) *Repository {
	return &Repository{db: db}
}

// Exists reports whether followerID follows followedID.
func (r *Repository) Exists(ctx context.Context, followerID, followedID int64) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*database.Follow)(nil)).
		Where("f.follower_id = ?", followerID).
		Where("f.followed_id = ?", followedID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check follow edge: %w", err)
	}
	return exists, nil
}

// Create adds the edge. It returns false when the edge was already present.
func (r *Repository) Create(ctx context.Context, followerID, followedID int64) (bool, error) {
	result, err := r.db.NewInsert().
		Model(&database.Follow{FollowerID: followerID, FollowedID: followedID}).
		On("CONFLICT (follower_id, followed_id) DO NOTHING").
		Returning("NULL").
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to create follow edge: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}

// Delete removes the edge, or returns ErrNotFollowing.
func (r *Repository) Delete(ctx context.Context, followerID, followedID int64) error {
	result, err := r.db.NewDelete().
		Model((*database.Follow)(nil)).
		Where("follower_id = ?", followerID).
		Where("followed_id = ?", followedID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete follow edge: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFollowing
	}
	return nil
}

// Counts returns how many users follow userID and how many userID follows.
func (r *Repository) Counts(ctx context.Context, userID int64) (followers, following int, err error) {
	followers, err = r.db.NewSelect().
		Model((*database.Follow)(nil)).
		Where("f.followed_id = ?", userID).
		Count(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count followers: %w", err)
	}

	following, err = r.db.NewSelect().
		Model((*database.Follow)(nil)).
		Where("f.follower_id = ?", userID).
		Count(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count following: %w", err)
	}

	return followers, following, nil
}
