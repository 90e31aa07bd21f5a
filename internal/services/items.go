package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmhodges/clock"

	"github.com/remindly/remindly-server/internal/model"
	"github.com/remindly/remindly-server/internal/schedule"
	"github.com/remindly/remindly-server/internal/store"
)

// Mirror receives full-collection snapshots after every mutation. The syncer
// implements it; a nil mirror means the service runs purely local.
type Mirror interface {
	Push(username string, items []model.ReminderItem)
}

// ItemService orchestrates item use cases: CRUD, completion with recurrence
// roll-forward, duplication, snoozing, bucketing, loan projection.
type ItemService struct {
	store  store.Store
	mirror Mirror
	clk    clock.Clock
}

func NewItemService(s store.Store, mirror Mirror, clk clock.Clock) *ItemService {
	return &ItemService{store: s, mirror: mirror, clk: clk}
}

func (s *ItemService) List(ctx context.Context, owner string) ([]model.ReminderItem, error) {
	return s.store.Items().List(ctx, owner)
}

// Replace swaps the user's whole collection, preserving the given order.
func (s *ItemService) Replace(ctx context.Context, owner string, items []model.ReminderItem) error {
	now := s.clk.Now()
	for i := range items {
		items[i].Owner = owner
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
		items[i].Recurrence = model.NormalizeRecurrence(items[i].Recurrence)
		items[i].DueDate = model.NormalizeDueDate(items[i].DueDate)
		if items[i].Priority == "" {
			items[i].Priority = model.PriorityLow
		}
		if items[i].CreatedAt.IsZero() {
			items[i].CreatedAt = now
		}
		items[i].UpdatedAt = now
	}
	if err := s.store.Items().ReplaceAll(ctx, owner, items); err != nil {
		return err
	}
	s.pushSnapshot(ctx, owner)
	return nil
}

// Create inserts a new item at the head of the list.
func (s *ItemService) Create(ctx context.Context, owner string, item model.ReminderItem) (*model.ReminderItem, error) {
	if item.Title == "" {
		return nil, fmt.Errorf("%w: title is required", model.ErrValidation)
	}
	now := s.clk.Now()
	item.ID = uuid.NewString()
	item.Owner = owner
	item.Recurrence = model.NormalizeRecurrence(item.Recurrence)
	item.DueDate = model.NormalizeDueDate(item.DueDate)
	if item.Priority == "" {
		item.Priority = model.PriorityLow
	}
	for i := range item.Fields {
		if item.Fields[i].ID == "" {
			item.Fields[i].ID = uuid.NewString()
		}
	}
	item.IsCompleted = false
	item.CreatedAt = now
	item.UpdatedAt = now

	if err := s.store.Items().Insert(ctx, &item); err != nil {
		return nil, err
	}
	s.pushSnapshot(ctx, owner)
	return &item, nil
}

// Update overwrites an existing item. The id and creation time are immutable.
func (s *ItemService) Update(ctx context.Context, owner, id string, item model.ReminderItem) (*model.ReminderItem, error) {
	if item.Title == "" {
		return nil, fmt.Errorf("%w: title is required", model.ErrValidation)
	}
	existing, err := s.store.Items().Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	item.ID = existing.ID
	item.Owner = owner
	item.CreatedAt = existing.CreatedAt
	item.Recurrence = model.NormalizeRecurrence(item.Recurrence)
	item.DueDate = model.NormalizeDueDate(item.DueDate)
	if item.Priority == "" {
		item.Priority = model.PriorityLow
	}
	for i := range item.Fields {
		if item.Fields[i].ID == "" {
			item.Fields[i].ID = uuid.NewString()
		}
	}
	item.UpdatedAt = s.clk.Now()

	if err := s.store.Items().Update(ctx, &item); err != nil {
		return nil, err
	}
	s.pushSnapshot(ctx, owner)
	return &item, nil
}

func (s *ItemService) Get(ctx context.Context, owner, id string) (*model.ReminderItem, error) {
	return s.store.Items().Get(ctx, owner, id)
}

func (s *ItemService) Delete(ctx context.Context, owner, id string) error {
	if err := s.store.Items().Delete(ctx, owner, id); err != nil {
		return err
	}
	s.pushSnapshot(ctx, owner)
	return nil
}

// ToggleComplete flips completion. Completing a pending recurring item also
// births its successor, which is prepended to the list.
func (s *ItemService) ToggleComplete(ctx context.Context, owner, id string) (*model.ReminderItem, *model.ReminderItem, error) {
	existing, err := s.store.Items().Get(ctx, owner, id)
	if err != nil {
		return nil, nil, err
	}
	now := s.clk.Now()

	if existing.IsCompleted {
		existing.IsCompleted = false
		existing.UpdatedAt = now
		if err := s.store.Items().Update(ctx, existing); err != nil {
			return nil, nil, err
		}
		s.pushSnapshot(ctx, owner)
		return existing, nil, nil
	}

	completed, successor := schedule.RollCompleted(*existing, now)
	if err := s.store.Items().Update(ctx, &completed); err != nil {
		return nil, nil, err
	}
	if successor != nil {
		if err := s.store.Items().Insert(ctx, successor); err != nil {
			return nil, nil, err
		}
	}
	s.pushSnapshot(ctx, owner)
	return &completed, successor, nil
}

// Duplicate copies an item with fresh identifiers.
func (s *ItemService) Duplicate(ctx context.Context, owner, id string) (*model.ReminderItem, error) {
	existing, err := s.store.Items().Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	dup := schedule.Duplicate(*existing, s.clk.Now())
	if err := s.store.Items().Insert(ctx, &dup); err != nil {
		return nil, err
	}
	s.pushSnapshot(ctx, owner)
	return &dup, nil
}

// Snooze pushes an item's due date to tomorrow or next week.
func (s *ItemService) Snooze(ctx context.Context, owner, id string, mode schedule.SnoozeMode) (*model.ReminderItem, error) {
	existing, err := s.store.Items().Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	now := s.clk.Now()
	snoozed, ok := schedule.Snooze(*existing, mode, model.DateOf(now), now)
	if !ok {
		return nil, fmt.Errorf("%w: unknown snooze mode %q", model.ErrValidation, mode)
	}
	if err := s.store.Items().Update(ctx, &snoozed); err != nil {
		return nil, err
	}
	s.pushSnapshot(ctx, owner)
	return &snoozed, nil
}

// Buckets computes the display grouping for the list view.
func (s *ItemService) Buckets(ctx context.Context, owner string) (*schedule.Buckets, error) {
	items, err := s.store.Items().List(ctx, owner)
	if err != nil {
		return nil, err
	}
	buckets := schedule.Bucketize(items, model.DateOf(s.clk.Now()))
	return &buckets, nil
}

// Loan computes the loan projection for an item, or ErrNotFound when the
// item carries no loan data.
func (s *ItemService) Loan(ctx context.Context, owner, id string) (*schedule.LoanInsight, error) {
	existing, err := s.store.Items().Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	insight := schedule.LoanProjection(*existing, model.DateOf(s.clk.Now()))
	if insight == nil {
		return nil, fmt.Errorf("%w: item has no loan data", model.ErrNotFound)
	}
	return insight, nil
}

// pushSnapshot mirrors the post-mutation collection. Fire and forget.
func (s *ItemService) pushSnapshot(ctx context.Context, owner string) {
	if s.mirror == nil {
		return
	}
	items, err := s.store.Items().List(ctx, owner)
	if err != nil {
		return
	}
	s.mirror.Push(owner, items)
}
