// Package social serves user search, profiles and the follow graph.
package social

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/redmonkez12/bookdiary-api/internal/auth"
	"github.com/redmonkez12/bookdiary-api/internal/follow"
	"github.com/redmonkez12/bookdiary-api/internal/httputil"
	"github.com/redmonkez12/bookdiary-api/internal/logging"
	"github.com/redmonkez12/bookdiary-api/internal/rating"
	"github.com/redmonkez12/bookdiary-api/internal/user"
)

const (
	searchLimit   = 20
	topBooksLimit = 10
)

// UserStore is satisfied by *user.Repository.
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
	Search(ctx context.Context, query string, excludeID int64, limit int) ([]user.User, error)
	UpdatePrivacy(ctx context.Context, id int64, isPrivate bool) error
}

// FollowStore is satisfied by *follow.Repository.
type FollowStore interface {
	Exists(ctx context.Context, followerID, followedID int64) (bool, error)
	Create(ctx context.Context, followerID, followedID int64) (bool, error)
	Delete(ctx context.Context, followerID, followedID int64) error
	Counts(ctx context.Context, userID int64) (followers, following int, err error)
}

// TopRatedSource is satisfied by *rating.Repository.
type TopRatedSource interface {
	TopRated(ctx context.Context, userID int64, limit int) ([]rating.TopRatedBook, error)
}

// Visibility is satisfied by *auth.VisibilityPolicy.
type Visibility interface {
	Evaluate(ctx context.Context, viewerID int64, target *user.User) (auth.Summary, error)
}

type Handler struct {
	users   UserStore
	follows FollowStore
	ratings TopRatedSource
	policy  Visibility
}

func NewHandler(users UserStore, follows FollowStore, ratings TopRatedSource, policy Visibility) *Handler {
	return &Handler{
		users:   users,
		follows: follows,
		ratings: ratings,
		policy:  policy,
	}
}

type SearchResult struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	IsPrivate bool   `json:"is_private"`
}

type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

type ProfileResponse struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	IsPrivate      bool   `json:"is_private"`
	FollowersCount int    `json:"followers_count"`
	FollowingCount int    `json:"following_count"`
	auth.Summary
}

type ProfileWithBooksResponse struct {
	ProfileResponse
	TopRatedBooks []rating.TopRatedBook `json:"top_rated_books"`
}

type PrivacyRequest struct {
	IsPrivate *bool `json:"is_private"`
}

type PrivacyResponse struct {
	Message   string `json:"message"`
	IsPrivate bool   `json:"is_private"`
}

// Search finds users by username substring
// @Summary      Search users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        q query string true "Username fragment"
// @Success      200 {object} SearchResponse
// @Failure      400 {object} httputil.ErrorResponse "Empty query"
// @Router       /users/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.GetUserFromContext(r.Context())

	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		httputil.RespondErrorWithCode(w, "search query is required", httputil.CodeQueryRequired, http.StatusBadRequest)
		return
	}

	users, err := h.users.Search(r.Context(), q, current.ID, searchLimit)
	if err != nil {
		internalError(w, r, "failed to search users", err)
		return
	}

	results := make([]SearchResult, 0, len(users))
	for _, u := range users {
		results = append(results, SearchResult{ID: u.ID, Username: u.Username, IsPrivate: u.IsPrivate})
	}

	httputil.RespondJSON(w, SearchResponse{Results: results}, http.StatusOK)
}

// OwnProfile returns the caller's profile
// @Summary      My profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} ProfileResponse
// @Router       /users/me/profile [get]
func (h *Handler) OwnProfile(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.GetUserFromContext(r.Context())

	followers, following, err := h.follows.Counts(r.Context(), current.ID)
	if err != nil {
		internalError(w, r, "failed to load profile", err)
		return
	}

	httputil.RespondJSON(w, ProfileResponse{
		ID:             current.ID,
		Username:       current.Username,
		IsPrivate:      current.IsPrivate,
		FollowersCount: followers,
		FollowingCount: following,
		Summary:        auth.Decide(current.IsPrivate, false, false, true),
	}, http.StatusOK)
}

// UpdatePrivacy sets whether the caller's profile is private
// @Summary      Update privacy
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body PrivacyRequest true "New setting"
// @Success      200 {object} PrivacyResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid request body"
// @Router       /users/me/privacy [put]
func (h *Handler) UpdatePrivacy(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.GetUserFromContext(r.Context())

	var req PrivacyRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil || req.IsPrivate == nil {
		httputil.RespondErrorWithCode(w, "is_private is required", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if err := h.users.UpdatePrivacy(r.Context(), current.ID, *req.IsPrivate); err != nil {
		internalError(w, r, "failed to update privacy", err)
		return
	}

	logging.GetLoggerFromContext(r.Context()).Info("privacy setting updated", "is_private", *req.IsPrivate)

	httputil.RespondJSON(w, PrivacyResponse{
		Message:   "privacy setting updated",
		IsPrivate: *req.IsPrivate,
	}, http.StatusOK)
}

// Profile returns another user's profile. Top rated books are only
// included when the caller may view the profile.
// @Summary      User profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Success      200 {object} ProfileWithBooksResponse
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Router       /users/{id}/profile [get]
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.GetUserFromContext(r.Context())

	target, ok := h.loadTarget(w, r)
	if !ok {
		return
	}

	summary, err := h.policy.Evaluate(r.Context(), current.ID, target)
	if err != nil {
		internalError(w, r, "failed to evaluate visibility", err)
		return
	}

	followers, following, err := h.follows.Counts(r.Context(), target.ID)
	if err != nil {
		internalError(w, r, "failed to load profile", err)
		return
	}

	books := []rating.TopRatedBook{}
	if summary.CanView {
		books, err = h.ratings.TopRated(r.Context(), target.ID, topBooksLimit)
		if err != nil {
			internalError(w, r, "failed to load top rated books", err)
			return
		}
	}

	httputil.RespondJSON(w, ProfileWithBooksResponse{
		ProfileResponse: ProfileResponse{
			ID:             target.ID,
			Username:       target.Username,
			IsPrivate:      target.IsPrivate,
			FollowersCount: followers,
			FollowingCount: following,
			Summary:        summary,
		},
		TopRatedBooks: books,
	}, http.StatusOK)
}

// Follow makes the caller follow a user
// @Summary      Follow user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Success      200 {object} httputil.MessageResponse
// @Failure      400 {object} httputil.ErrorResponse "Cannot follow yourself"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Router       /users/{id}/follow [post]
func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.GetUserFromContext(r.Context())

	targetID, ok := parseUserID(w, r)
	if !ok {
		return
	}
	if targetID == current.ID {
		httputil.RespondErrorWithCode(w, "cannot follow yourself", httputil.CodeCannotFollowSelf, http.StatusBadRequest)
		return
	}

	target, ok := h.loadTarget(w, r)
	if !ok {
		return
	}

	created, err := h.follows.Create(r.Context(), current.ID, target.ID)
	if err != nil {
		internalError(w, r, "failed to follow user", err)
		return
	}
	if !created {
		httputil.RespondMessage(w, "already following this user", http.StatusOK)
		return
	}

	logging.GetLoggerFromContext(r.Context()).Info("user followed", "followed_id", target.ID)

	httputil.RespondMessage(w, "successfully followed user", http.StatusOK)
}

// Unfollow removes the caller's follow edge
// @Summary      Unfollow user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Success      200 {object} httputil.MessageResponse
// @Failure      404 {object} httputil.ErrorResponse "Not following this user"
// @Router       /users/{id}/follow [delete]
func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.GetUserFromContext(r.Context())

	targetID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	if err := h.follows.Delete(r.Context(), current.ID, targetID); err != nil {
		if errors.Is(err, follow.ErrNotFollowing) {
			httputil.RespondErrorWithCode(w, "not following this user", httputil.CodeNotFollowing, http.StatusNotFound)
			return
		}
		internalError(w, r, "failed to unfollow user", err)
		return
	}

	logging.GetLoggerFromContext(r.Context()).Info("user unfollowed", "followed_id", targetID)

	httputil.RespondMessage(w, "successfully unfollowed user", http.StatusOK)
}

func (h *Handler) loadTarget(w http.ResponseWriter, r *http.Request) (*user.User, bool) {
	id, ok := parseUserID(w, r)
	if !ok {
		return nil, false
	}

	target, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			httputil.RespondErrorWithCode(w, "user not found", httputil.CodeUserNotFound, http.StatusNotFound)
			return nil, false
		}
		internalError(w, r, "failed to load user", err)
		return nil, false
	}

	return target, true
}

func parseUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httputil.RespondErrorWithCode(w, "invalid user id", httputil.CodeInvalidUserID, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func internalError(w http.ResponseWriter, r *http.Request, message string, err error) {
	logging.GetLoggerFromContext(r.Context()).Error(message, "error", err.Error())
	httputil.RespondErrorWithCode(w, message, httputil.CodeInternalError, http.StatusInternalServerError)
}
