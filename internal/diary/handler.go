package diary

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
	Create(ctx context.Context, userID, bookID int64, text string) (*Entry, error)
	ListByUser(ctx context.Context, userID int64) ([]Entry, error)
	GetForBook(ctx context.Context, userID, bookID int64) (*Entry, error)
	Update(ctx context.Context, userID, entryID int64, text string) (*Entry, error)
	Delete(ctx context.Context, userID, entryID int64) error
}

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

type CreateRequest struct {
	BookID    int64  `json:"book_id"`
	EntryText string `json:"entry_text"`
}

type UpdateRequest struct {
	EntryText string `json:"entry_text"`
}

// Create writes the caller's diary entry for a book
// @Summary      Create a diary entry
// @Tags         diary
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateRequest true "Book and text"
// @Success      201 {object} Entry
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Failure      404 {object} httputil.ErrorResponse "Book not found"
// @Failure      409 {object} httputil.ErrorResponse "Entry already exists"
// @Router       /diary [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	current, _ := auth.GetUserFromContext(r.Context())

	var req CreateRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.EntryText) == "" {
		httputil.RespondErrorWithCode(w, "entry_text is required", httputil.CodeEntryTextRequired, http.StatusBadRequest)
		return
	}

	entry, err := h.store.Create(r.Context(), current.ID, req.BookID, req.EntryText)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookNotFound):
			httputil.RespondErrorWithCode(w, "book not found", httputil.CodeBookNotFound, http.StatusNotFound)
		case errors.Is(err, ErrAlreadyExists):
			httputil.RespondErrorWithCode(w, "diary entry already exists for this book", httputil.CodeDiaryEntryExists, http.StatusConflict)
		default:
			logger.Error("failed to create diary entry", "error", err.Error())
			httputil.RespondErrorWithCode(w, "failed to create diary entry", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	httputil.RespondJSON(w, entry, http.StatusCreated)
}

// List returns the caller's entries, newest first
// @Summary      List my diary entries
// @Tags         diary
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Entry
// @Router       /diary [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.GetUserFromContext(r.Context())

	entries, err := h.store.ListByUser(r.Context(), current.ID)
	if err != nil {
		logging.GetLoggerFromContext(r.Context()).Error("failed to list diary entries", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to list diary entries", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, entries, http.StatusOK)
}

// GetForBook returns the caller's entry for one book
// @Summary      My diary entry for a book
// @Tags         diary
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Book ID"
// @Success      200 {object} Entry
// @Failure      404 {object} httputil.ErrorResponse "Entry not found"
// @Router       /diary/{id} [get]
func (h *Handler) GetForBook(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.GetUserFromContext(r.Context())

	bookID, ok := httputil.PathID(w, r, "id")
	if !ok {
		return
	}

	entry, err := h.store.GetForBook(r.Context(), current.ID, bookID)
	if err != nil {
		h.respondStoreError(w, r, "failed to get diary entry", err)
		return
	}

	httputil.RespondJSON(w, entry, http.StatusOK)
}

// Update replaces the text of one of the caller's entries
// @Summary      Update a diary entry
// @Tags         diary
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Entry ID"
// @Param        request body UpdateRequest true "New text"
// @Success      200 {object} Entry
// @Failure      404 {object} httputil.ErrorResponse "Entry not found"
// @Router       /diary/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.GetUserFromContext(r.Context())

	entryID, ok := httputil.PathID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.EntryText) == "" {
		httputil.RespondErrorWithCode(w, "entry_text is required", httputil.CodeEntryTextRequired, http.StatusBadRequest)
		return
	}

	entry, err := h.store.Update(r.Context(), current.ID, entryID, req.EntryText)
	if err != nil {
		h.respondStoreError(w, r, "failed to update diary entry", err)
		return
	}

	httputil.RespondJSON(w, entry, http.StatusOK)
}

// Delete removes one of the caller's entries
// @Summary      Delete a diary entry
// @Tags         diary
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Entry ID"
// @Success      200 {object} httputil.MessageResponse
// @Failure      404 {object} httputil.ErrorResponse "Entry not found"
// @Router       /diary/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.GetUserFromContext(r.Context())

	entryID, ok := httputil.PathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), current.ID, entryID); err != nil {
		h.respondStoreError(w, r, "failed to delete diary entry", err)
		return
	}

	httputil.RespondMessage(w, "diary entry deleted successfully", http.StatusOK)
}

// respondStoreError maps ErrNotFound to 404 and anything else to 500.
// Entries of other users are reported as not found.
func (h *Handler) respondStoreError(w http.ResponseWriter, r *http.Request, message string, err error) {
	if errors.Is(err, ErrNotFound) {
		httputil.RespondErrorWithCode(w, "diary entry not found", httputil.CodeDiaryEntryNotFound, http.StatusNotFound)
		return
	}
	logging.GetLoggerFromContext(r.Context()).Error(message, "error", err.Error())
	httputil.RespondErrorWithCode(w, message, httputil.CodeInternalError, http.StatusInternalServerError)
}
