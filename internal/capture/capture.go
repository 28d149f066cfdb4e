// Package capture implements the quick-capture notes/task widget.
package capture

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"mission-control/internal/errors"
	"mission-control/internal/logging"
	"mission-control/internal/models"
	"mission-control/internal/store"
)

// Filter narrows List results.
type Filter struct {
	// Type restricts to one capture type. Empty means all.
	Type models.CaptureType
	// ShowCompleted includes completed items.
	ShowCompleted bool
}

// Store holds quick-capture items, newest first.
type Store struct {
	mu    sync.Mutex
	items []models.CaptureItem

	adapter store.Adapter
	logger  zerolog.Logger
	now     func() time.Time
}

// NewStore loads persisted items, seeding demo entries on first run.
func NewStore(ctx context.Context, adapter store.Adapter, logger zerolog.Logger) *Store {
	s := &Store{
		adapter: adapter,
		logger:  logging.WithWidget(logger, "capture"),
		now:     time.Now,
	}
	s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) {
	blob, err := s.adapter.Get(ctx, store.KeyCaptures)
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(blob, &s.items); jsonErr == nil {
			return
		}
		s.logger.Warn().Msg("Corrupt capture data, reseeding")
	case errors.Is(err, errors.ErrDataNotFound):
		// First run.
	default:
		s.logger.Warn().Err(err).Msg("Storage unreachable, starting from seed items")
	}
	s.items = seedItems()
}

// Add creates a new item at the head of the list.
func (s *Store) Add(ctx context.Context, itemType models.CaptureType, content, project, dueDate string) (*models.CaptureItem, error) {
	if !models.ValidCaptureType(itemType) {
		return nil, errors.NewValidationError("type", itemType, "unknown capture type")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.NewValidationError("content", content, "must not be empty")
	}

	s.mu.Lock()
	item := models.CaptureItem{
		ID:        fmt.Sprintf("%d", s.now().UnixMilli()),
		Type:      itemType,
		Content:   content,
		Project:   project,
		CreatedAt: s.now(),
		DueDate:   dueDate,
	}
	s.items = append([]models.CaptureItem{item}, s.items...)
	snapshot := s.cloneLocked()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	return &item, nil
}

// Toggle flips an item's completed flag.
func (s *Store) Toggle(ctx context.Context, id string) (*models.CaptureItem, error) {
	s.mu.Lock()
	var toggled *models.CaptureItem
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Completed = !s.items[i].Completed
			copied := s.items[i]
			toggled = &copied
			break
		}
	}
	snapshot := s.cloneLocked()
	s.mu.Unlock()

	if toggled == nil {
		return nil, errors.Wrapf(errors.ErrItemNotFound, "item %s", id)
	}

	s.persist(ctx, snapshot)
	return toggled, nil
}

// Delete removes an item.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	kept := s.items[:0]
	found := false
	for _, item := range s.items {
		if item.ID == id {
			found = true
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept
	snapshot := s.cloneLocked()
	s.mu.Unlock()

	if !found {
		return errors.Wrapf(errors.ErrItemNotFound, "item %s", id)
	}

	s.persist(ctx, snapshot)
	return nil
}

// List returns items matching the filter, newest first.
func (s *Store) List(filter Filter) []models.CaptureItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.CaptureItem
	for _, item := range s.items {
		if filter.Type != "" && item.Type != filter.Type {
			continue
		}
		if !filter.ShowCompleted && item.Completed {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Counts returns the pending task count and idea count.
func (s *Store) Counts() (pendingTasks, ideas int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items {
		if item.Type == models.CaptureTask && !item.Completed {
			pendingTasks++
		}
		if item.Type == models.CaptureIdea {
			ideas++
		}
	}
	return pendingTasks, ideas
}

// ExportMarkdown renders all items as a markdown list. Tasks become
// checkboxes; everything else a plain bullet.
func (s *Store) ExportMarkdown() string {
	s.mu.Lock()
	items := s.cloneLocked()
	s.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "# Quick Capture Export - %s\n\n", s.now().Format(models.HistoryDateFormat))

	for _, item := range items {
		bullet := "-"
		if item.Type == models.CaptureTask {
			if item.Completed {
				bullet = "- [x]"
			} else {
				bullet = "- [ ]"
			}
		}
		fmt.Fprintf(&b, "%s %s %s", bullet, typeIcon(item.Type), item.Content)
		if item.Project != "" {
			fmt.Fprintf(&b, " (%s)", item.Project)
		}
		if item.DueDate != "" {
			fmt.Fprintf(&b, " — due %s", item.DueDate)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func typeIcon(t models.CaptureType) string {
	switch t {
	case models.CaptureTask:
		return "☐"
	case models.CaptureIdea:
		return "💡"
	case models.CaptureReminder:
		return "⏰"
	default:
		return "📝"
	}
}

func (s *Store) cloneLocked() []models.CaptureItem {
	out := make([]models.CaptureItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) persist(ctx context.Context, items []models.CaptureItem) {
	blob, err := json.Marshal(items)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode capture items")
		return
	}
	if err := s.adapter.Set(ctx, store.KeyCaptures, blob); err != nil {
		logging.LogStorageFailure(s.logger, "set", store.KeyCaptures, err)
	}
}

// seedItems returns the demo entries shown before anything is captured.
func seedItems() []models.CaptureItem {
	return []models.CaptureItem{
		{
			ID:        "1",
			Type:      models.CaptureTask,
			Content:   "Submit WooCommerce plugin to WordPress.org",
			Project:   "Sails",
			CreatedAt: time.Date(2026, 2, 22, 9, 0, 0, 0, time.UTC),
		},
		{
			ID:        "2",
			Type:      models.CaptureIdea,
			Content:   "Create a \"Sales Tax Calculator\" standalone tool for SEO traffic",
			Project:   "Sails",
			CreatedAt: time.Date(2026, 2, 22, 8, 30, 0, 0, time.UTC),
		},
		{
			ID:        "3",
			Type:      models.CaptureReminder,
			Content:   "Check Hawaii flight prices on Tuesday (best deals)",
			CreatedAt: time.Date(2026, 2, 22, 8, 0, 0, 0, time.UTC),
			DueDate:   "2026-02-25",
		},
		{
			ID:        "4",
			Type:      models.CaptureNote,
			Content:   "IKEA case SOL: October 23, 2026",
			CreatedAt: time.Date(2026, 2, 21, 10, 0, 0, 0, time.UTC),
		},
	}
}
