package services

import (
	"context"
	"sort"

	"github.com/jmhodges/clock"

	"github.com/remindly/remindly-server/internal/model"
	"github.com/remindly/remindly-server/internal/store"
)

// DashboardStats feeds the dashboard widgets.
type DashboardStats struct {
	Total      int             `json:"total"`
	Completed  int             `json:"completed"`
	Overdue    int             `json:"overdue"`
	Upcoming   int             `json:"upcoming"`
	Categories []CategoryCount `json:"categories"`
}

// CategoryCount is one slice of the per-category chart.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// LifeLog is the completion history view: completed items newest first plus
// a Jan-Dec completion series.
type LifeLog struct {
	Items            []model.ReminderItem `json:"items"`
	MonthlyCounts    [12]int              `json:"monthlyCounts"`
	CurrentYearCount int                  `json:"currentYearCount"`
}

// InsightService computes the dashboard and lifelog aggregates.
type InsightService struct {
	store store.Store
	clk   clock.Clock
}

func NewInsightService(s store.Store, clk clock.Clock) *InsightService {
	return &InsightService{store: s, clk: clk}
}

// Dashboard counts totals, completions, overdue and upcoming (due within the
// next 7 days including today) items, plus per-category counts over the
// whole collection.
func (s *InsightService) Dashboard(ctx context.Context, username string) (*DashboardStats, error) {
	items, err := s.store.Items().List(ctx, username)
	if err != nil {
		return nil, err
	}
	today := model.DateOf(s.clk.Now())
	weekEnd := today.AddDays(7)

	stats := DashboardStats{Total: len(items)}
	byCategory := make(map[string]int)
	order := make([]string, 0)
	for _, item := range items {
		if _, seen := byCategory[item.Category]; !seen {
			order = append(order, item.Category)
		}
		byCategory[item.Category]++

		if item.IsCompleted {
			stats.Completed++
			continue
		}
		if item.DueDate == nil {
			continue
		}
		switch {
		case item.DueDate.Before(today):
			stats.Overdue++
		case !item.DueDate.After(weekEnd):
			stats.Upcoming++
		}
	}
	for _, name := range order {
		stats.Categories = append(stats.Categories, CategoryCount{Name: name, Count: byCategory[name]})
	}
	return &stats, nil
}

// Lifelog returns completed items newest first (by updatedAt) with per-month
// completion counts and the current-year total.
func (s *InsightService) Lifelog(ctx context.Context, username string) (*LifeLog, error) {
	items, err := s.store.Items().List(ctx, username)
	if err != nil {
		return nil, err
	}

	out := LifeLog{Items: []model.ReminderItem{}}
	for _, item := range items {
		if item.IsCompleted {
			out.Items = append(out.Items, item)
		}
	}
	sort.SliceStable(out.Items, func(i, j int) bool {
		return out.Items[i].UpdatedAt.After(out.Items[j].UpdatedAt)
	})

	year := s.clk.Now().Year()
	for _, item := range out.Items {
		out.MonthlyCounts[int(item.UpdatedAt.Month())-1]++
		if item.UpdatedAt.Year() == year {
			out.CurrentYearCount++
		}
	}
	return &out, nil
}
