package query

import (
	"encoding/json"
	"net/http"

	"github.com/SADD1990/Taskmanager/internal/store"
)

type Handler struct {
	store *store.Store

	currencySuffix string
}

func NewHandler(st *store.Store, currencySuffix string) *Handler {
	return &Handler{store: st, currencySuffix: currencySuffix}
}

func sortFromRequest(r *http.Request) SortSpec {
	return SortSpec{
		Field: r.URL.Query().Get("sort"),
		Desc:  r.URL.Query().Get("dir") == "desc",
	}
}

// TaskView serves the filtered and sorted task list backing the
// management table. Unrecognized sort fields leave the stored order.
func (h *Handler) TaskView(w http.ResponseWriter, r *http.Request) {
	q := TaskQuery{
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("q"),
		Sort:   sortFromRequest(r),
	}
	if q.Status == "" {
		q.Status = StatusAll
	}
	writeJSON(w, http.StatusOK, Tasks(h.store.Snapshot(), q))
}

type debtorEntry struct {
	DebtorRow
	Reminder string `json:"reminder"`
}

func (h *Handler) DebtorView(w http.ResponseWriter, r *http.Request) {
	q := DebtorQuery{
		Search: r.URL.Query().Get("q"),
		Sort:   sortFromRequest(r),
	}
	rows := Debtors(h.store.Snapshot(), q)
	out := make([]debtorEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, debtorEntry{
			DebtorRow: row,
			Reminder:  row.ReminderMessage(h.currencySuffix),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
