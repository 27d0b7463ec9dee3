package book

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/redmonkez12/bookdiary-api/internal/auth"
	"github.com/redmonkez12/bookdiary-api/internal/httputil"
	"github.com/redmonkez12/bookdiary-api/internal/logging"
)

// Store is satisfied by *Repository.
type Store interface {
	Add(ctx context.Context, b *Book) (*Book, bool, error)
	GetByID(ctx context.Context, id int64) (*Book, error)
	MarkRead(ctx context.Context, userID, bookID int64) (bool, error)
	ListRead(ctx context.Context, userID int64) ([]Book, error)
}

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// AddRequest carries the catalogue data of a book picked by the client.
type AddRequest struct {
	OpenLibraryID string  `json:"open_library_id"`
	Title         string  `json:"title"`
	Author        *string `json:"author"`
	ISBN          *string `json:"isbn"`
	CoverImageURL *string `json:"cover_image_url"`
	Description   *string `json:"description"`
	PublishedYear *int    `json:"published_year"`
}

type AddResponse struct {
	BookID  int64  `json:"book_id"`
	Message string `json:"message"`
}

// Add saves a book to the catalogue, or returns the existing record
// @Summary      Add a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body AddRequest true "Book data"
// @Success      201 {object} AddResponse
// @Success      200 {object} AddResponse "Book already exists"
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Router       /books/add [post]
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req AddRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	req.OpenLibraryID = strings.TrimSpace(req.OpenLibraryID)
	req.Title = strings.TrimSpace(req.Title)
	if req.OpenLibraryID == "" {
		httputil.RespondErrorWithCode(w, "open_library_id is required", httputil.CodeOpenLibraryIDRequired, http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		httputil.RespondErrorWithCode(w, "title is required", httputil.CodeTitleRequired, http.StatusBadRequest)
		return
	}

	b, created, err := h.store.Add(r.Context(), &Book{
		OpenLibraryID: req.OpenLibraryID,
		Title:         req.Title,
		Author:        req.Author,
		ISBN:          req.ISBN,
		CoverImageURL: req.CoverImageURL,
		Description:   req.Description,
		PublishedYear: req.PublishedYear,
	})
	if err != nil {
		logger.Error("failed to add book", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to add book", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	if !created {
		httputil.RespondJSON(w, AddResponse{BookID: b.ID, Message: "book already exists"}, http.StatusOK)
		return
	}

	logger.Info("book added", "book_id", b.ID, "open_library_id", b.OpenLibraryID)
	httputil.RespondJSON(w, AddResponse{BookID: b.ID, Message: "book added successfully"}, http.StatusCreated)
}

// Get returns one book
// @Summary      Get a book
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Book ID"
// @Success      200 {object} Book
// @Failure      404 {object} httputil.ErrorResponse "Book not found"
// @Router       /books/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	bookID, ok := httputil.PathID(w, r, "id")
	if !ok {
		return
	}

	b, err := h.store.GetByID(r.Context(), bookID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "book not found", httputil.CodeBookNotFound, http.StatusNotFound)
			return
		}
		logging.GetLoggerFromContext(r.Context()).Error("failed to get book", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to get book", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, b, http.StatusOK)
}

// MarkRead adds a book to the caller's read list
// @Summary      Mark a book as read
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Book ID"
// @Success      200 {object} httputil.MessageResponse
// @Failure      404 {object} httputil.ErrorResponse "Book not found"
// @Router       /books/{id}/read [post]
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.GetUserFromContext(r.Context())

	bookID, ok := httputil.PathID(w, r, "id")
	if !ok {
		return
	}

	created, err := h.store.MarkRead(r.Context(), current.ID, bookID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "book not found", httputil.CodeBookNotFound, http.StatusNotFound)
			return
		}
		logging.GetLoggerFromContext(r.Context()).Error("failed to mark book as read", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to mark book as read", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	if !created {
		httputil.RespondMessage(w, "book already marked as read", http.StatusOK)
		return
	}
	httputil.RespondMessage(w, "book marked as read", http.StatusOK)
}

// ListRead returns the caller's read books
// @Summary      My read books
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Book
// @Router       /books/user/read [get]
func (h *Handler) ListRead(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.GetUserFromContext(r.Context())

	books, err := h.store.ListRead(r.Context(), current.ID)
	if err != nil {
		logging.GetLoggerFromContext(r.Context()).Error("failed to list read books", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to list read books", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, books, http.StatusOK)
}
