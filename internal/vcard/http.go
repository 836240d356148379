package vcard

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/SADD1990/Taskmanager/internal/store"
)

type Handler struct {
	store *store.Store
}

func NewHandler(st *store.Store) *Handler {
	return &Handler{store: st}
}

// ImportClients reads a vCard payload from the request body and creates
// one client per usable candidate. Duplicates are skipped, not errors.
func (h *Handler) ImportClients(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "cannot read body")
		return
	}
	res, err := Import(h.store, string(body))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) ExportClients(w http.ResponseWriter, r *http.Request) {
	text := Serialize(h.store.Clients())
	w.Header().Set("Content-Type", "text/vcard; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="clients.vcf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, text)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}
