package httputil

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// PathID parses a positive int64 URL parameter. On failure it writes a 400
// INVALID_ID response and returns false.
func PathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		RespondErrorWithCode(w, "invalid id", CodeInvalidID, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
