// Package query filters and sorts read-side views over the store snapshot:
// the task table and the derived debtor projection. All functions are pure;
// callers pass the snapshot they want the view computed from.
package query

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/SADD1990/Taskmanager/internal/dashboard"
	"github.com/SADD1990/Taskmanager/internal/model"
)

// StatusAll disables status filtering in a TaskQuery.
const StatusAll = "all"

type SortSpec struct {
	Field string `json:"field"`
	Desc  bool   `json:"desc"`
}

type TaskQuery struct {
	Status string
	Search string
	Sort   SortSpec
}

// Tasks applies the status filter, the case-insensitive substring search
// over title and client name (live name when the client resolves, snapshot
// otherwise), then a stable sort. Equal keys keep their prior order.
func Tasks(snap model.Snapshot, q TaskQuery) []model.Task {
	out := make([]model.Task, 0, len(snap.Tasks))
	term := strings.ToLower(strings.TrimSpace(q.Search))

	for _, t := range snap.Tasks {
		if q.Status != "" && q.Status != StatusAll && string(t.Status) != q.Status {
			continue
		}
		if term != "" {
			name := t.ClientName
			if c, ok := snap.FindClient(t.ClientID); ok {
				name = c.Name
			}
			if !strings.Contains(strings.ToLower(t.Title), term) &&
				!strings.Contains(strings.ToLower(name), term) {
				continue
			}
		}
		out = append(out, t)
	}

	if q.Sort.Field != "" {
		sort.SliceStable(out, func(i, j int) bool {
			a := taskSortKey(snap, out[i], q.Sort.Field)
			b := taskSortKey(snap, out[j], q.Sort.Field)
			if q.Sort.Desc {
				return keyLess(b, a)
			}
			return keyLess(a, b)
		})
	}
	return out
}

// DebtorRow is one row of the derived debtor projection: a completed,
// not-fully-paid task joined to a client that still exists. Tasks whose
// client was removed do not appear here; the task view still shows them via
// the name snapshot.
type DebtorRow struct {
	ClientName     string     `json:"clientName"`
	ClientPhone    string     `json:"clientPhone"`
	Remaining      float64    `json:"remaining"`
	TaskTitle      string     `json:"taskTitle"`
	CompletionDate *time.Time `json:"completionDate,omitempty"`
}

type DebtorQuery struct {
	Search string
	Sort   SortSpec
}

func Debtors(snap model.Snapshot, q DebtorQuery) []DebtorRow {
	rows := make([]DebtorRow, 0)
	for _, t := range snap.Tasks {
		if t.Status != model.StatusCompleted {
			continue
		}
		c, ok := snap.FindClient(t.ClientID)
		if !ok {
			continue
		}
		rem := t.Remaining()
		if rem <= 0 {
			continue
		}
		rows = append(rows, DebtorRow{
			ClientName:     c.Name,
			ClientPhone:    c.Phone,
			Remaining:      rem,
			TaskTitle:      t.Title,
			CompletionDate: t.LastStatusUpdate,
		})
	}

	if term := strings.ToLower(strings.TrimSpace(q.Search)); term != "" {
		kept := rows[:0]
		for _, d := range rows {
			if strings.Contains(strings.ToLower(d.ClientName), term) ||
				strings.Contains(d.ClientPhone, strings.TrimSpace(q.Search)) ||
				strings.Contains(strings.ToLower(d.TaskTitle), term) {
				kept = append(kept, d)
			}
		}
		rows = kept
	}

	if q.Sort.Field != "" {
		sort.SliceStable(rows, func(i, j int) bool {
			a := debtorSortKey(rows[i], q.Sort.Field)
			b := debtorSortKey(rows[j], q.Sort.Field)
			if q.Sort.Desc {
				return keyLess(b, a)
			}
			return keyLess(a, b)
		})
	}
	return rows
}

// ReminderMessage composes the plain-text payment reminder for a debtor row.
func (d DebtorRow) ReminderMessage(currencySuffix string) string {
	return fmt.Sprintf(
		"Hello,\nRegarding the task: %q\nOutstanding balance: %s\n\nPlease confirm the payment.\nThank you.",
		d.TaskTitle, dashboard.FormatAmount(d.Remaining, currencySuffix),
	)
}

// sortKey is either numeric or textual depending on the field; a missing or
// unknown value sorts as its type's minimum rather than failing.
type sortKey struct {
	num   float64
	str   string
	isNum bool
}

func keyLess(a, b sortKey) bool {
	if a.isNum && b.isNum {
		return a.num < b.num
	}
	return a.str < b.str
}

func taskSortKey(snap model.Snapshot, t model.Task, field string) sortKey {
	switch field {
	case "clientId":
		// Live client name, not the snapshot: a dangling reference sorts
		// as the empty string.
		if c, ok := snap.FindClient(t.ClientID); ok {
			return sortKey{str: strings.ToLower(c.Name)}
		}
		return sortKey{str: ""}
	case "remaining":
		return sortKey{num: t.Remaining(), isNum: true}
	case "deadline":
		return sortKey{num: float64(t.Deadline.UnixMilli()), isNum: true}
	case "id":
		return sortKey{num: float64(t.ID), isNum: true}
	case "price":
		return sortKey{num: t.Price, isNum: true}
	case "prepaid":
		return sortKey{num: t.Prepaid, isNum: true}
	case "title":
		return sortKey{str: strings.ToLower(t.Title)}
	case "type":
		return sortKey{str: strings.ToLower(string(t.Type))}
	case "status":
		return sortKey{str: strings.ToLower(string(t.Status))}
	default:
		return sortKey{str: ""}
	}
}

func debtorSortKey(d DebtorRow, field string) sortKey {
	switch field {
	case "clientName":
		return sortKey{str: strings.ToLower(d.ClientName)}
	case "clientPhone":
		return sortKey{str: d.ClientPhone}
	case "remaining":
		return sortKey{num: d.Remaining, isNum: true}
	case "taskTitle":
		return sortKey{str: strings.ToLower(d.TaskTitle)}
	case "completionDate":
		if d.CompletionDate == nil {
			return sortKey{num: float64(minInstant), isNum: true}
		}
		return sortKey{num: float64(d.CompletionDate.UnixMilli()), isNum: true}
	default:
		return sortKey{str: ""}
	}
}

const minInstant = int64(-1) << 62
