package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/SADD1990/Taskmanager/internal/model"
)

func ptr(t time.Time) *time.Time { return &t }

func TestCompute(t *testing.T) {
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)

	tasks := []model.Task{
		{ID: 1, Status: model.StatusPaid, Price: 100, Prepaid: 100, LastStatusUpdate: ptr(yesterday)},
		{ID: 2, Status: model.StatusCompleted, Price: 50, Prepaid: 20},
		{ID: 3, Status: model.StatusInProgress, Price: 80},
		{ID: 4, Status: model.StatusNew, Price: 40},
	}

	s := Compute(tasks, now)
	assert.Equal(t, 100.0, s.TotalRevenue)
	assert.Equal(t, 1, s.TasksInProgress)
	assert.Equal(t, 2, s.TasksCompletedOrPaid)
	assert.Equal(t, 1, s.PendingPaymentsCount)
	assert.Equal(t, 30.0, s.TotalDebt)
	assert.Equal(t, 0.0, s.DailyIncome, "payment from another day is not daily income")
}

func TestCompute_DailyIncomeMatchesLocalCalendarDay(t *testing.T) {
	now := time.Date(2026, 3, 10, 23, 0, 0, 0, time.Local)
	earlier := time.Date(2026, 3, 10, 1, 0, 0, 0, time.Local)

	tasks := []model.Task{
		{ID: 1, Status: model.StatusPaid, Price: 75, LastStatusUpdate: ptr(earlier)},
	}

	s := Compute(tasks, now)
	assert.Equal(t, 75.0, s.DailyIncome, "same calendar day counts even 22h apart")
}

func TestCompute_OverpaidTaskAddsNoDebt(t *testing.T) {
	tasks := []model.Task{
		{ID: 1, Status: model.StatusCompleted, Price: 50, Prepaid: 70},
		{ID: 2, Status: model.StatusCompleted, Price: 50, Prepaid: 10},
	}

	s := Compute(tasks, time.Now())
	assert.Equal(t, 40.0, s.TotalDebt, "overpayment clamps to zero instead of offsetting others")
	assert.Equal(t, 2, s.PendingPaymentsCount)
}

func TestCompute_SumsAtFullPrecision(t *testing.T) {
	tasks := []model.Task{
		{ID: 1, Status: model.StatusCompleted, Price: 10.004, Prepaid: 0},
		{ID: 2, Status: model.StatusCompleted, Price: 10.004, Prepaid: 0},
	}

	s := Compute(tasks, time.Now())
	// Rounding each addend first would give 20.00; full precision keeps 20.008.
	assert.InDelta(t, 20.008, s.TotalDebt, 1e-9)
	assert.Equal(t, "20.01", FormatAmount(s.TotalDebt, ""))
}

func TestRecentTasks(t *testing.T) {
	tasks := []model.Task{
		{ID: 2, Title: "b"}, {ID: 5, Title: "e"}, {ID: 1, Title: "a"}, {ID: 4, Title: "d"},
	}

	got := RecentTasks(tasks, 3)
	ids := []int{got[0].ID, got[1].ID, got[2].ID}
	assert.Equal(t, []int{5, 4, 2}, ids)
	assert.Equal(t, 2, tasks[0].ID, "input order untouched")

	assert.Len(t, RecentTasks(tasks, 10), 4)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "100.00 SAR", FormatAmount(100, "SAR"))
	assert.Equal(t, "0.13", FormatAmount(0.125, ""), "half rounds up")
	assert.Equal(t, "2.50 SAR", FormatAmount(2.5, "SAR"))
}
