package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"sitekhata/internal/core"
	"sitekhata/internal/log"
)

type errorResponse struct {
	Error string `json:"error"`
}

type idResponse struct {
	ID int64 `json:"id"`
}

// moneyJSON carries an amount both as raw paise and in the display form
// clients render directly.
type moneyJSON struct {
	Paise   int64  `json:"paise"`
	Display string `json:"display"`
}

func moneyOut(m core.Money) moneyJSON {
	return moneyJSON{Paise: m.Paise, Display: m.FormatIndian()}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the core error kinds onto HTTP statuses. Unrecognized
// errors are reported as 500 without leaking internals.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, core.ErrInvalidArgument):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	default:
		log.FromContext(r.Context()).ErrorContext(r.Context(), "request failed",
			log.FieldError, err,
			log.FieldPath, r.URL.Path,
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// pathID parses the named path segment as a positive int64 ID.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id in path")
	}
	return id, nil
}

// queryID parses an optional numeric query parameter; absent means 0.
func queryID(r *http.Request, name string) (int64, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id < 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// invalidArg tags a validation error so writeError maps it to 422.
func invalidArg(err error) error {
	if errors.Is(err, core.ErrInvalidArgument) {
		return err
	}
	return fmt.Errorf("%w: %v", core.ErrInvalidArgument, err)
}

// parseAmount accepts decimal rupee strings like "350" or "12.34".
func parseAmount(s string) (core.Money, error) {
	paise, err := core.ParseDecimalToPaise(s)
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Paise: paise}, nil
}

// sanitizeInput trims whitespace and strips control characters from
// free-text fields before they reach the store.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
