// Package dashboard computes the headline metrics shown on the main board.
// Everything here is a pure function over the current task collection.
package dashboard

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/SADD1990/Taskmanager/internal/model"
)

type Summary struct {
	TotalRevenue         float64 `json:"totalRevenue"`
	TasksInProgress      int     `json:"tasksInProgress"`
	TasksCompletedOrPaid int     `json:"tasksCompletedOrPaid"`
	PendingPaymentsCount int     `json:"pendingPaymentsCount"`
	TotalDebt            float64 `json:"totalDebt"`
	DailyIncome          float64 `json:"dailyIncome"`
}

// Compute sums over full-precision amounts; rounding happens only when
// formatting for display. Daily income matches the local calendar day of
// now, not a rolling 24h window.
func Compute(tasks []model.Task, now time.Time) Summary {
	var s Summary
	for _, t := range tasks {
		switch t.Status {
		case model.StatusPaid:
			s.TotalRevenue += t.Price
			s.TasksCompletedOrPaid++
			if t.LastStatusUpdate != nil && sameLocalDay(*t.LastStatusUpdate, now) {
				s.DailyIncome += t.Price
			}
		case model.StatusCompleted:
			s.TasksCompletedOrPaid++
			s.PendingPaymentsCount++
			if rem := t.Remaining(); rem > 0 {
				s.TotalDebt += rem
			}
		case model.StatusInProgress:
			s.TasksInProgress++
		}
	}
	return s
}

func sameLocalDay(a, b time.Time) bool {
	a, b = a.Local(), b.Local()
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// RecentTasks returns up to n tasks with the highest ids (most recently
// created first). The input slice is left untouched.
func RecentTasks(tasks []model.Task, n int) []model.Task {
	out := make([]model.Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// FormatAmount renders a monetary amount as "<2 decimals> <suffix>",
// rounding half up. Sums are accumulated at full precision elsewhere; this
// is a display-time convention only.
func FormatAmount(v float64, suffix string) string {
	rounded := math.Floor(v*100+0.5) / 100
	if suffix == "" {
		return fmt.Sprintf("%.2f", rounded)
	}
	return fmt.Sprintf("%.2f %s", rounded, suffix)
}
