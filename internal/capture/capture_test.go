package capture

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"mission-control/internal/errors"
	"mission-control/internal/models"
	"mission-control/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(context.Background(), store.NewMemoryAdapter(), zerolog.Nop())
}

func TestAdd_PrependsNewItems(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	item, err := s.Add(ctx, models.CaptureTask, "Renew domain", "Sails", "")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if item.ID == "" || item.Completed {
		t.Errorf("new item = %+v", item)
	}

	list := s.List(Filter{})
	if len(list) == 0 || list[0].Content != "Renew domain" {
		t.Errorf("newest item not first: %+v", list)
	}
}

func TestAdd_Validation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Add(ctx, "bogus", "content", "", ""); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("unknown type err = %v, want ErrInvalidInput", err)
	}
	if _, err := s.Add(ctx, models.CaptureNote, "   ", "", ""); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("blank content err = %v, want ErrInvalidInput", err)
	}
}

func TestToggle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	item, _ := s.Add(ctx, models.CaptureTask, "Ship it", "", "")

	toggled, err := s.Toggle(ctx, item.ID)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !toggled.Completed {
		t.Errorf("item not completed after toggle")
	}

	toggled, err = s.Toggle(ctx, item.ID)
	if err != nil {
		t.Fatalf("second Toggle: %v", err)
	}
	if toggled.Completed {
		t.Errorf("item still completed after second toggle")
	}

	if _, err := s.Toggle(ctx, "missing"); !errors.Is(err, errors.ErrItemNotFound) {
		t.Errorf("err = %v, want ErrItemNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	item, _ := s.Add(ctx, models.CaptureIdea, "Prune this", "", "")
	if err := s.Delete(ctx, item.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	for _, got := range s.List(Filter{ShowCompleted: true}) {
		if got.ID == item.ID {
			t.Errorf("item still present after delete")
		}
	}

	if err := s.Delete(ctx, item.ID); !errors.Is(err, errors.ErrItemNotFound) {
		t.Errorf("err = %v, want ErrItemNotFound", err)
	}
}

func TestList_Filters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	task, _ := s.Add(ctx, models.CaptureTask, "A done task", "", "")
	s.Toggle(ctx, task.ID)

	for _, item := range s.List(Filter{}) {
		if item.Completed {
			t.Errorf("completed item %s shown without ShowCompleted", item.ID)
		}
	}

	ideas := s.List(Filter{Type: models.CaptureIdea, ShowCompleted: true})
	for _, item := range ideas {
		if item.Type != models.CaptureIdea {
			t.Errorf("type filter leaked %s item %s", item.Type, item.ID)
		}
	}
	if len(ideas) == 0 {
		t.Errorf("seed idea missing from filtered list")
	}
}

func TestCounts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	beforeTasks, beforeIdeas := s.Counts()

	s.Add(ctx, models.CaptureTask, "One more task", "", "")
	s.Add(ctx, models.CaptureIdea, "One more idea", "", "")
	done, _ := s.Add(ctx, models.CaptureTask, "Instantly done", "", "")
	s.Toggle(ctx, done.ID)

	tasks, ideas := s.Counts()
	if tasks != beforeTasks+1 {
		t.Errorf("pending tasks = %d, want %d", tasks, beforeTasks+1)
	}
	if ideas != beforeIdeas+1 {
		t.Errorf("ideas = %d, want %d", ideas, beforeIdeas+1)
	}
}

func TestExportMarkdown(t *testing.T) {
	s := newTestStore(t)
	s.now = func() time.Time { return time.Date(2026, 2, 22, 12, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	done, _ := s.Add(ctx, models.CaptureTask, "Finished task", "Sails", "")
	s.Toggle(ctx, done.ID)

	md := s.ExportMarkdown()
	if !strings.HasPrefix(md, "# Quick Capture Export - 2026-02-22") {
		t.Errorf("header = %q", strings.SplitN(md, "\n", 2)[0])
	}
	if !strings.Contains(md, "- [x] ☐ Finished task (Sails)") {
		t.Errorf("completed task line missing:\n%s", md)
	}
	if !strings.Contains(md, "- [ ] ☐ Submit WooCommerce plugin") {
		t.Errorf("pending seed task line missing:\n%s", md)
	}
	if !strings.Contains(md, "due 2026-02-25") {
		t.Errorf("due date missing from reminder line:\n%s", md)
	}
}

func TestStore_ReloadsPersistedItems(t *testing.T) {
	adapter := store.NewMemoryAdapter()
	ctx := context.Background()

	first := NewStore(ctx, adapter, zerolog.Nop())
	item, _ := first.Add(ctx, models.CaptureNote, "Persisted note", "", "")

	second := NewStore(ctx, adapter, zerolog.Nop())
	found := false
	for _, got := range second.List(Filter{ShowCompleted: true}) {
		if got.ID == item.ID && got.Content == "Persisted note" {
			found = true
		}
	}
	if !found {
		t.Errorf("added item missing after reload")
	}
}
