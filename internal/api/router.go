package api

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// NewRouter builds the HTTP router for the results API
func NewRouter(h *Handler) http.Handler {
	r := mux.NewRouter()

	r.Path("/events").Methods("GET").HandlerFunc(h.listEvents)
	r.Path("/events").Methods("POST").HandlerFunc(h.ingestEvent)
	r.Path("/events/live").Methods("GET").HandlerFunc(h.listLiveEvents)
	r.Path("/events/subscribe").HandlerFunc(h.subscribeUpdates)
	r.Path("/events/{id}").Methods("GET").HandlerFunc(h.getEvent)
	r.Path("/events/{id}").Methods("DELETE").HandlerFunc(h.deleteEvent)
	r.Path("/events/{id}/refresh").Methods("POST").HandlerFunc(h.refreshEvent)
	r.Path("/events/{id}/chart-data").Methods("GET").HandlerFunc(h.getChartData)
	r.Path("/events/{id}/fastest-splits").Methods("GET").HandlerFunc(h.getFastestSplits)
	r.Path("/events/{id}/fastest-times").Methods("GET").HandlerFunc(h.getFastestTimes)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		h.returnJSON(w, http.StatusNotFound, nil)
	})

	return handlers.CompressHandler(handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Accept", "Authorization", "Content-Type", "Origin"}),
	)(http.StripPrefix("/api/v1", r)))
}
