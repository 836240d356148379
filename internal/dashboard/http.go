package dashboard

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/SADD1990/Taskmanager/internal/model"
	"github.com/SADD1990/Taskmanager/internal/store"
)

const recentTaskCount = 5

type Handler struct {
	store *store.Store

	currencySuffix string
	now            func() time.Time
}

func NewHandler(st *store.Store, currencySuffix string) *Handler {
	return &Handler{store: st, currencySuffix: currencySuffix, now: time.Now}
}

type overview struct {
	Summary Summary           `json:"summary"`
	Display map[string]string `json:"display"`
	Recent  []model.Task      `json:"recentTasks"`
}

// Overview serves the aggregate counters plus the newest tasks, the
// monetary values additionally pre-formatted for display.
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	tasks := h.store.Tasks()
	s := Compute(tasks, h.now())
	writeJSON(w, http.StatusOK, overview{
		Summary: s,
		Display: map[string]string{
			"totalRevenue": FormatAmount(s.TotalRevenue, h.currencySuffix),
			"totalDebt":    FormatAmount(s.TotalDebt, h.currencySuffix),
			"dailyIncome":  FormatAmount(s.DailyIncome, h.currencySuffix),
		},
		Recent: RecentTasks(tasks, recentTaskCount),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
