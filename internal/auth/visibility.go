package auth

import (
	"context"
	"fmt"

	"github.com/redmonkez12/bookdiary-api/internal/user"
)

// FollowLookup reports whether a directed follow edge exists.
type FollowLookup interface {
	Exists(ctx context.Context, followerID, followedID int64) (bool, error)
}

// Summary is what a viewer may know about their relation to a profile.
type Summary struct {
	IsFollowing bool `json:"is_following"`
	IsFriend    bool `json:"is_friend"`
	CanView     bool `json:"can_view"`
}

// Decide applies the visibility rule. A profile is visible when it is
// public, when the viewer follows it, or when the viewer owns it.
// Friends follow each other.
func Decide(targetPrivate, viewerFollowsTarget, targetFollowsViewer, self bool) Summary {
	return Summary{
		IsFollowing: viewerFollowsTarget,
		IsFriend:    viewerFollowsTarget && targetFollowsViewer,
		CanView:     !targetPrivate || viewerFollowsTarget || self,
	}
}

// VisibilityPolicy evaluates Decide against the current follow graph.
// Nothing is cached, so a follow made just before is always seen.
type VisibilityPolicy struct {
	follows FollowLookup
}

func NewVisibilityPolicy(follows FollowLookup) *VisibilityPolicy {
	return &VisibilityPolicy{follows: follows}
}

func (p *VisibilityPolicy) Evaluate(ctx context.Context, viewerID int64, target *user.User) (Summary, error) {
	if viewerID == target.ID {
		return Decide(target.IsPrivate, false, false, true), nil
	}

	following, err := p.follows.Exists(ctx, viewerID, target.ID)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to check follow edge: %w", err)
	}

	followedBack, err := p.follows.Exists(ctx, target.ID, viewerID)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to check follow edge: %w", err)
	}

	return Decide(target.IsPrivate, following, followedBack, false), nil
}
