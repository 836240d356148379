package store

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/SADD1990/Taskmanager/internal/model"
)

type Handler struct {
	store *Store

	// defaultCountryCode applies when a client is created without one.
	defaultCountryCode string
}

func NewHandler(st *Store, defaultCountryCode string) *Handler {
	return &Handler{store: st, defaultCountryCode: defaultCountryCode}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

func writeStoreErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeErr(w, http.StatusNotFound, "not found")
	case errors.Is(err, ErrDuplicatePhone):
		writeErr(w, http.StatusConflict, "phone already belongs to another client")
	case errors.Is(err, ErrClientInUse):
		writeErr(w, http.StatusConflict, "client is referenced by existing tasks")
	case errors.Is(err, ErrUnknownClient):
		writeErr(w, http.StatusBadRequest, "unknown client")
	default:
		writeErr(w, http.StatusInternalServerError, err.Error())
	}
}

// /api/clients  (collection)
func (h *Handler) ClientsRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.store.Clients())

	case http.MethodPost:
		var in struct {
			Name        string `json:"name"`
			Phone       string `json:"phone"`
			CountryCode string `json:"countryCode"`
		}
		if err := decodeJSON(r, &in); err != nil {
			writeErr(w, http.StatusBadRequest, "bad json")
			return
		}
		if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Phone) == "" {
			writeErr(w, http.StatusBadRequest, "name and phone are required")
			return
		}
		code := in.CountryCode
		if code == "" {
			code = h.defaultCountryCode
		}
		c, err := h.store.AddClient(in.Name, in.Phone, code)
		if err != nil {
			writeStoreErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, c)

	default:
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// /api/clients/{id}
func (h *Handler) ClientsSub(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromPath(r.URL.Path, "/api/clients/")
	if !ok {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		c, err := h.store.GetClient(id)
		if err != nil {
			writeStoreErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c)

	case http.MethodPatch:
		var p ClientPatch
		if err := decodeJSON(r, &p); err != nil {
			writeErr(w, http.StatusBadRequest, "bad json")
			return
		}
		if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
			writeErr(w, http.StatusBadRequest, "name must not be empty")
			return
		}
		c, err := h.store.EditClient(id, p)
		if err != nil {
			writeStoreErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c)

	case http.MethodDelete:
		if err := h.store.DeleteClient(id); err != nil {
			writeStoreErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})

	default:
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// /api/tasks  (collection)
func (h *Handler) TasksRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.store.Tasks())

	case http.MethodPost:
		var in struct {
			Title    string         `json:"title"`
			ClientID int            `json:"clientId"`
			Type     model.TaskType `json:"type"`
			Price    float64        `json:"price"`
			Prepaid  float64        `json:"prepaid"`
			Deadline time.Time      `json:"deadline"`
		}
		if err := decodeJSON(r, &in); err != nil {
			writeErr(w, http.StatusBadRequest, "bad json")
			return
		}
		if strings.TrimSpace(in.Title) == "" {
			writeErr(w, http.StatusBadRequest, "title is required")
			return
		}
		if !in.Type.Valid() {
			writeErr(w, http.StatusBadRequest, "unknown task type")
			return
		}
		if in.Price < 0 || in.Prepaid < 0 {
			writeErr(w, http.StatusBadRequest, "amounts must not be negative")
			return
		}
		t, err := h.store.AddTask(in.Title, in.ClientID, in.Type, in.Price, in.Prepaid, in.Deadline)
		if err != nil {
			writeStoreErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, t)

	default:
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// /api/tasks/{id}
func (h *Handler) TasksSub(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromPath(r.URL.Path, "/api/tasks/")
	if !ok {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		t, err := h.store.GetTask(id)
		if err != nil {
			writeStoreErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)

	case http.MethodPatch:
		var p TaskPatch
		if err := decodeJSON(r, &p); err != nil {
			writeErr(w, http.StatusBadRequest, "bad json")
			return
		}
		if p.Type != nil && !p.Type.Valid() {
			writeErr(w, http.StatusBadRequest, "unknown task type")
			return
		}
		if p.Status != nil && !p.Status.Valid() {
			writeErr(w, http.StatusBadRequest, "unknown status")
			return
		}
		if (p.Price != nil && *p.Price < 0) || (p.Prepaid != nil && *p.Prepaid < 0) {
			writeErr(w, http.StatusBadRequest, "amounts must not be negative")
			return
		}
		t, err := h.store.EditTask(id, p)
		if err != nil {
			writeStoreErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)

	case http.MethodDelete:
		if err := h.store.DeleteTask(id); err != nil {
			writeStoreErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})

	default:
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func idFromPath(path, prefix string) (int, bool) {
	tail := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if tail == "" || strings.Contains(tail, "/") {
		return 0, false
	}
	id, err := strconv.Atoi(tail)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
