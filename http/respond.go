package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"solar-valuation/logger"
)

const maxBodyBytes = 1 << 20

var errUnsupportedMediaType = errors.New("content type must be application/json")

// decodeJSON reads a JSON request body into dst, limited to maxBodyBytes.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return errUnsupportedMediaType
	}
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
}

// writeDecodeError maps decodeJSON failures to a status code.
func writeDecodeError(w http.ResponseWriter, log *logger.Logger, err error) {
	if errors.Is(err, errUnsupportedMediaType) {
		http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
		return
	}
	log.WithError(err).Debug("invalid request body")
	http.Error(w, "invalid request body", http.StatusBadRequest)
}

// writeJSON encodes into a buffer first so a failed encode never leaves a
// half-written 200 behind.
func writeJSON(w http.ResponseWriter, log *logger.Logger, status int, v interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log.WithError(err).Error("error encoding response")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.WithError(err).Warn("error writing response")
	}
}
