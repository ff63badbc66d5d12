package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/splitsight/internal/models"
	"github.com/yourusername/splitsight/internal/repository"
	"github.com/yourusername/splitsight/internal/results"
	"github.com/yourusername/splitsight/internal/service"
)

// Handler holds the dependencies shared by all API endpoints
type Handler struct {
	results   *service.ResultsService
	ingestion *service.IngestionService
	events    repository.EventRepository
	subscribe *SubscribeService
	logger    *logrus.Logger
}

// NewHandler creates the API handler
func NewHandler(
	resultsSvc *service.ResultsService,
	ingestion *service.IngestionService,
	events repository.EventRepository,
	subscribe *SubscribeService,
	logger *logrus.Logger,
) *Handler {
	return &Handler{
		results:   resultsSvc,
		ingestion: ingestion,
		events:    events,
		subscribe: subscribe,
		logger:    logger,
	}
}

type jsonError struct {
	Code        int    `json:"code"`
	Description string `json:"description"`
	Detail      string `json:"detail,omitempty"`
}

// returnJSON writes the response headers and JSON-encodes body. A nil body
// becomes a JSON representation of the status code.
func (h *Handler) returnJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if body == nil {
		body = &jsonError{Code: code, Description: http.StatusText(code)}
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.WithError(err).Error("Failed to encode response body")
	}
}

// returnError maps a domain error onto an HTTP status
func (h *Handler) returnError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrInvalidID):
		code = http.StatusNotFound
	case results.IsInvalidData(err), errors.Is(err, results.ErrMissingArgument):
		code = http.StatusBadRequest
	}

	if code == http.StatusInternalServerError {
		h.logger.WithError(err).Error("Request failed")
	}
	h.returnJSON(w, code, &jsonError{
		Code:        code,
		Description: http.StatusText(code),
		Detail:      err.Error(),
	})
}

func eventIDVar(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return uuid.Nil, models.ErrInvalidID
	}
	return id, nil
}

// classNamesParam parses the comma-separated "classes" query parameter.
// Absent means all compatible classes.
func classNamesParam(r *http.Request) []string {
	raw := r.URL.Query().Get("classes")
	if raw == "" {
		return nil
	}
	names := strings.Split(raw, ",")
	out := names[:0]
	for _, name := range names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -30)

	query := r.URL.Query()
	if raw := query.Get("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.returnJSON(w, http.StatusBadRequest, nil)
			return
		}
		start = parsed
	}
	if raw := query.Get("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.returnJSON(w, http.StatusBadRequest, nil)
			return
		}
		end = parsed
	}

	events, err := h.events.GetByDateRange(r.Context(), start, end)
	if err != nil {
		h.returnError(w, err)
		return
	}
	h.returnJSON(w, http.StatusOK, map[string]interface{}{"events": events})
}

func (h *Handler) listLiveEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.GetLive(r.Context())
	if err != nil {
		h.returnError(w, err)
		return
	}
	h.returnJSON(w, http.StatusOK, map[string]interface{}{"events": events})
}

func (h *Handler) getEvent(w http.ResponseWriter, r *http.Request) {
	id, err := eventIDVar(r)
	if err != nil {
		h.returnError(w, err)
		return
	}

	event, err := h.results.GetEvent(r.Context(), id)
	if err != nil {
		h.returnError(w, err)
		return
	}
	h.returnJSON(w, http.StatusOK, event)
}

func (h *Handler) deleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := eventIDVar(r)
	if err != nil {
		h.returnError(w, err)
		return
	}

	if err := h.events.Delete(r.Context(), id); err != nil {
		h.returnError(w, err)
		return
	}
	h.results.InvalidateEvent(id)
	h.returnJSON(w, http.StatusOK, nil)
}

func (h *Handler) getChartData(w http.ResponseWriter, r *http.Request) {
	id, err := eventIDVar(r)
	if err != nil {
		h.returnError(w, err)
		return
	}

	query := r.URL.Query()
	chartType := query.Get("type")

	var selected []int
	if raw := query.Get("selected"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			idx, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				h.returnJSON(w, http.StatusBadRequest, nil)
				return
			}
			selected = append(selected, idx)
		}
	}

	data, err := h.results.ChartData(r.Context(), id, classNamesParam(r), chartType, selected)
	if err != nil {
		h.returnError(w, err)
		return
	}
	h.returnJSON(w, http.StatusOK, data)
}

func (h *Handler) getFastestSplits(w http.ResponseWriter, r *http.Request) {
	id, err := eventIDVar(r)
	if err != nil {
		h.returnError(w, err)
		return
	}

	query := r.URL.Query()
	control, err := strconv.Atoi(query.Get("control"))
	if err != nil {
		h.returnJSON(w, http.StatusBadRequest, nil)
		return
	}
	count := 3
	if raw := query.Get("count"); raw != "" {
		if count, err = strconv.Atoi(raw); err != nil {
			h.returnJSON(w, http.StatusBadRequest, nil)
			return
		}
	}

	splits, err := h.results.FastestSplits(r.Context(), id, classNamesParam(r), count, control)
	if err != nil {
		h.returnError(w, err)
		return
	}
	h.returnJSON(w, http.StatusOK, map[string]interface{}{"splits": splits})
}

func (h *Handler) getFastestTimes(w http.ResponseWriter, r *http.Request) {
	id, err := eventIDVar(r)
	if err != nil {
		h.returnError(w, err)
		return
	}

	times, err := h.results.FastestCumTimesPlusPercentage(r.Context(), id, classNamesParam(r))
	if err != nil {
		h.returnError(w, err)
		return
	}
	h.returnJSON(w, http.StatusOK, map[string]interface{}{"cumulative_times": times})
}

type ingestRequest struct {
	Source   string `json:"source"`
	EventRef string `json:"event_ref"`
}

func (h *Handler) ingestEvent(w http.ResponseWriter, r *http.Request) {
	req := new(ingestRequest)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		h.returnJSON(w, http.StatusBadRequest, nil)
		return
	}
	if req.Source == "" || req.EventRef == "" {
		h.returnJSON(w, http.StatusBadRequest, nil)
		return
	}

	event, err := h.ingestion.IngestEvent(r.Context(), req.Source, req.EventRef)
	if err != nil {
		h.returnError(w, err)
		return
	}
	h.returnJSON(w, http.StatusCreated, event)
}

func (h *Handler) refreshEvent(w http.ResponseWriter, r *http.Request) {
	id, err := eventIDVar(r)
	if err != nil {
		h.returnError(w, err)
		return
	}

	event, err := h.events.GetByID(r.Context(), id)
	if err != nil {
		h.returnError(w, err)
		return
	}
	if err := h.ingestion.RefreshEvent(r.Context(), event); err != nil {
		h.returnError(w, err)
		return
	}
	h.returnJSON(w, http.StatusOK, nil)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type subscribeMessage struct {
	Type    string `json:"type"`
	EventID string `json:"event_id,omitempty"`
}

// subscribeUpdates upgrades the connection and streams event-updated
// notifications until the client goes away.
func (h *Handler) subscribeUpdates(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to upgrade websocket connection")
		return
	}
	defer conn.Close()

	id, sub := h.subscribe.Subscribe()
	defer h.subscribe.Unsubscribe(id)

	if err := conn.WriteJSON(subscribeMessage{Type: "connect"}); err != nil {
		return
	}

	for eventID := range sub {
		msg := subscribeMessage{Type: "update", EventID: eventID.String()}
		if err := conn.WriteJSON(msg); err != nil {
			h.logger.WithError(err).Debug("Websocket client disconnected")
			return
		}
	}
}
