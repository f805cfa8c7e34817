package endpoints

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/certmint/certmint/pkg/config"
	"github.com/certmint/certmint/pkg/events"
	"github.com/certmint/certmint/pkg/server"
	"github.com/certmint/certmint/pkg/server/store"
)

// EventResponse is the JSON shape of one event log row
type EventResponse struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Seq       int64           `json:"seq"`
	Payload   json.RawMessage `json:"payload"`
	EmittedAt string          `json:"emitted_at"`
}

// RegisterEventsEndpoints registers the event log inspection endpoint
func RegisterEventsEndpoints(s *server.Server) {
	// GET /events - read the domain event log (admin token auth)
	s.Router.HandleFunc("/events", handleListEvents(s.AdminStore, s.EventsStore, s.Config)).Methods("GET")
}

func handleListEvents(adminStore store.AdminStore, eventsStore store.EventsStore, cfg *config.CertmintConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorized, err := checkAdmin(adminStore, r)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to check admin token")
			return
		}
		if !authorized {
			respondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		kind := r.URL.Query().Get("kind")
		if kind != "" {
			if _, err := events.KindString(kind); err != nil {
				respondWithError(w, http.StatusUnprocessableEntity, "unknown event kind")
				return
			}
		}

		limit := cfg.APIEventListLimitMax
		if param := r.URL.Query().Get("limit"); param != "" {
			parsed, err := strconv.Atoi(param)
			if err != nil || parsed <= 0 {
				respondWithError(w, http.StatusUnprocessableEntity, "limit must be a positive integer")
				return
			}
			if parsed < limit {
				limit = parsed
			}
		}

		rows, err := eventsStore.List(kind, limit)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list events")
			return
		}

		responses := make([]EventResponse, 0, len(rows))
		for _, row := range rows {
			responses = append(responses, EventResponse{
				ID:        row.ID,
				Kind:      row.Kind,
				Seq:       row.Seq,
				Payload:   json.RawMessage(row.Payload),
				EmittedAt: row.EmittedAt.UTC().Format(time.RFC3339),
			})
		}
		respondWithJSON(w, http.StatusOK, responses)
	}
}
