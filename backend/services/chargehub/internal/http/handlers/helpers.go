package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"chargehub/backend/services/chargehub/internal/filter"
	"chargehub/backend/services/chargehub/internal/http/middleware"
	"chargehub/backend/services/chargehub/internal/store"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeRaw(w http.ResponseWriter, status int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if body != nil {
		_, _ = w.Write(body)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// decodeJSON reads a bounded JSON body. An empty body decodes to the zero value.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	writeError(w, http.StatusBadRequest, "invalid JSON body")
	return false
}

func criteriaFromQuery(r *http.Request) filter.Criteria {
	q := r.URL.Query()
	return filter.Criteria{
		Query:     q.Get("q"),
		Status:    q.Get("status"),
		Connector: q.Get("connector"),
	}
}

func sessionOrAbort(w http.ResponseWriter, r *http.Request) (*store.Session, bool) {
	sess, ok := middleware.SessionFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
	}
	return sess, ok
}
