package rating

import (
	"context"
	"errors"
	"net/http"

	"github.com/redmonkez12/bookdiary-api/internal/auth"
	"github.com/redmonkez12/bookdiary-api/internal/httputil"
	"github.com/redmonkez12/bookdiary-api/internal/logging"
)

const topRatedLimit = 10

// Store is satisfied by *Repository.
type Store interface {
	Upsert(ctx context.Context, userID, bookID int64, stars int) (*Rating, error)
	Get(ctx context.Context, userID, bookID int64) (*Rating, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]Rating, error)
	Delete(ctx context.Context, userID, ratingID int64) error
}

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

type UpsertRequest struct {
	BookID int64 `json:"book_id"`
	Rating int   `json:"rating"`
}

// Upsert rates a book, replacing any earlier rating by the same user
// @Summary      Rate a book
// @Tags         ratings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpsertRequest true "Book and stars"
// @Success      200 {object} Rating
// @Failure      400 {object} httputil.ErrorResponse "Rating outside 1..5"
// @Failure      404 {object} httputil.ErrorResponse "Book not found"
// @Router       /ratings [post]
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	current, _ := auth.GetUserFromContext(r.Context())

	var req UpsertRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if !Valid(req.Rating) {
		httputil.RespondErrorWithCode(w, "rating must be between 1 and 5", httputil.CodeInvalidRating, http.StatusBadRequest)
		return
	}

	rt, err := h.store.Upsert(r.Context(), current.ID, req.BookID, req.Rating)
	if err != nil {
		if errors.Is(err, ErrBookNotFound) {
			httputil.RespondErrorWithCode(w, "book not found", httputil.CodeBookNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to save rating", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to save rating", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, rt, http.StatusOK)
}

// List returns all of the caller's ratings, best first
// @Summary      List my ratings
// @Tags         ratings
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Rating
// @Router       /ratings [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, 0)
}

// Top10 returns the caller's ten best rated books
// @Summary      My top 10
// @Tags         ratings
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Rating
// @Router       /ratings/top10 [get]
func (h *Handler) Top10(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, topRatedLimit)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, limit int) {
	current, _ := auth.GetUserFromContext(r.Context())

	ratings, err := h.store.ListByUser(r.Context(), current.ID, limit)
	if err != nil {
		logging.GetLoggerFromContext(r.Context()).Error("failed to list ratings", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to list ratings", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, ratings, http.StatusOK)
}

// GetForBook returns the caller's rating of one book
// @Summary      My rating of a book
// @Tags         ratings
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Book ID"
// @Success      200 {object} Rating
// @Failure      404 {object} httputil.ErrorResponse "Rating not found"
// @Router       /ratings/{id} [get]
func (h *Handler) GetForBook(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.GetUserFromContext(r.Context())

	bookID, ok := httputil.PathID(w, r, "id")
	if !ok {
		return
	}

	rt, err := h.store.Get(r.Context(), current.ID, bookID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "rating not found", httputil.CodeRatingNotFound, http.StatusNotFound)
			return
		}
		logging.GetLoggerFromContext(r.Context()).Error("failed to get rating", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to get rating", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, rt, http.StatusOK)
}

// Delete removes one of the caller's ratings
// @Summary      Delete a rating
// @Tags         ratings
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Rating ID"
// @Success      200 {object} httputil.MessageResponse
// @Failure      404 {object} httputil.ErrorResponse "Rating not found"
// @Router       /ratings/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.GetUserFromContext(r.Context())

	ratingID, ok := httputil.PathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), current.ID, ratingID); err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "rating not found", httputil.CodeRatingNotFound, http.StatusNotFound)
			return
		}
		logging.GetLoggerFromContext(r.Context()).Error("failed to delete rating", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to delete rating", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondMessage(w, "rating deleted", http.StatusOK)
}
