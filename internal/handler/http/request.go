package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/workforce-guard/internal/handler/http/response"
	"github.com/cmlabs-hris/workforce-guard/internal/pkg/identity"
	"github.com/cmlabs-hris/workforce-guard/internal/pkg/validator"
)

// decodeJSON writes a 400 and returns false when the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.Debug("Failed to decode request body", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

// actor writes a 401 and returns false when the request carries no user.
func actor(w http.ResponseWriter, r *http.Request) (string, bool) {
	actorID, err := identity.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return "", false
	}
	return actorID, true
}

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(w http.ResponseWriter, r *http.Request, key string) (*time.Time, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, true
	}
	date, ok := validator.IsValidDate(raw)
	if !ok {
		response.BadRequest(w, "Invalid query parameter", map[string]string{
			key: key + " must be in YYYY-MM-DD format",
		})
		return nil, false
	}
	return &date, true
}

// queryInt parses an optional integer query parameter, returning def when
// it is absent.
func queryInt(w http.ResponseWriter, r *http.Request, key string, def int) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		response.BadRequest(w, "Invalid query parameter", map[string]string{
			key: key + " must be an integer",
		})
		return 0, false
	}
	return v, true
}

func queryString(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}
