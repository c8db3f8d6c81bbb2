package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/logging"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps service errors to HTTP statuses. Anything unrecognized is
// logged and reported as 500.
func writeError(w http.ResponseWriter, r *http.Request, l logging.Logger, err error) {
	var ve *common.ValidationError
	switch {
	case errors.Is(err, common.ErrorUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Unauthorized"})
	case errors.Is(err, common.ErrorNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Not found"})
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: ve.Error()})
	case errors.Is(err, common.ErrorBadRequest):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Bad request"})
	default:
		if !errors.Is(err, common.ErrorInternal) {
			l.Error(r.Context(), "unhandled error", "path", r.URL.Path, "error", err)
		}
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Internal error"})
	}
}
