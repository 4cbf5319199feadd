package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/indatwa/events-api/internal/http/respond"
	"github.com/indatwa/events-api/internal/metrics"
)

const (
	maxBodyBytes   = 1 << 20
	msgInvalidJSON = "Invalid JSON payload."
)

// Deps are the observability collaborators shared by every handler.
type Deps struct {
	Logger  zerolog.Logger
	Metrics *metrics.Metrics
}

// storeFailure logs the real cause and answers with the generic message.
func (d Deps) storeFailure(w http.ResponseWriter, r *http.Request, op string, err error, message string) {
	d.Logger.Error().
		Err(err).
		Str("op", op).
		Str("request_id", chimw.GetReqID(r.Context())).
		Msg("store failure")
	d.Metrics.StoreErrorsTotal.WithLabelValues(op).Inc()
	respond.Error(w, http.StatusInternalServerError, message)
}

// decodeJSON reads at most maxBodyBytes into dst. An empty body decodes as {}.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// idParam parses {id}. Ids are SERIAL columns, so values that are not
// positive int32s cannot match a row and callers answer them with their
// not-found response.
func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 32)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
