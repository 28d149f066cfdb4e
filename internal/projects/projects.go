// Package projects implements the project tracker widget.
package projects

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"mission-control/internal/errors"
	"mission-control/internal/logging"
	"mission-control/internal/models"
	"mission-control/internal/store"
)

// Store holds the tracked project list.
type Store struct {
	mu       sync.Mutex
	projects []models.Project

	adapter store.Adapter
	logger  zerolog.Logger
	now     func() time.Time
}

// NewStore loads persisted projects, seeding the default list on first run.
func NewStore(ctx context.Context, adapter store.Adapter, logger zerolog.Logger) *Store {
	s := &Store{
		adapter: adapter,
		logger:  logging.WithWidget(logger, "projects"),
		now:     time.Now,
	}
	s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) {
	blob, err := s.adapter.Get(ctx, store.KeyProjects)
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(blob, &s.projects); jsonErr == nil {
			return
		}
		s.logger.Warn().Msg("Corrupt project data, reseeding")
	case errors.Is(err, errors.ErrDataNotFound):
		// First run.
	default:
		s.logger.Warn().Err(err).Msg("Storage unreachable, starting from seed projects")
	}
	s.projects = seedProjects()
}

// List returns all projects in stored order.
func (s *Store) List() []models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cloneLocked()
}

// ReplaceAll overwrites the whole project list.
func (s *Store) ReplaceAll(ctx context.Context, projects []models.Project) int {
	s.mu.Lock()
	s.projects = make([]models.Project, len(projects))
	copy(s.projects, projects)
	snapshot := s.cloneLocked()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	return len(projects)
}

// Patch applies a partial update to one project. Nil fields are left
// untouched; lastUpdated is stamped with today's date.
func (s *Store) Patch(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error) {
	s.mu.Lock()
	var updated *models.Project
	for i := range s.projects {
		if s.projects[i].ID != id {
			continue
		}
		applyPatch(&s.projects[i], patch)
		s.projects[i].LastUpdated = s.now().Format(models.HistoryDateFormat)
		copied := s.projects[i]
		updated = &copied
		break
	}
	snapshot := s.cloneLocked()
	s.mu.Unlock()

	if updated == nil {
		return nil, errors.Wrapf(errors.ErrProjectNotFound, "project %s", id)
	}

	s.persist(ctx, snapshot)
	return updated, nil
}

func applyPatch(p *models.Project, patch models.ProjectPatch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Type != nil {
		p.Type = *patch.Type
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Priority != nil {
		p.Priority = *patch.Priority
	}
	if patch.Revenue != nil {
		p.Revenue = *patch.Revenue
	}
	if patch.URL != nil {
		p.URL = *patch.URL
	}
	if patch.Repo != nil {
		p.Repo = *patch.Repo
	}
	if patch.LocalPath != nil {
		p.LocalPath = *patch.LocalPath
	}
	if patch.NextAction != nil {
		p.NextAction = *patch.NextAction
	}
}

func (s *Store) cloneLocked() []models.Project {
	out := make([]models.Project, len(s.projects))
	copy(out, s.projects)
	return out
}

func (s *Store) persist(ctx context.Context, projects []models.Project) {
	blob, err := json.Marshal(projects)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode projects")
		return
	}
	if err := s.adapter.Set(ctx, store.KeyProjects, blob); err != nil {
		logging.LogStorageFailure(s.logger, "set", store.KeyProjects, err)
	}
}

// seedProjects returns the initial tracker contents.
func seedProjects() []models.Project {
	return []models.Project{
		{ID: "1", Name: "Sails", Status: models.ProjectLive, Priority: models.PriorityHigh, Revenue: "$0/mo", URL: "https://sails.tax", Repo: "salestaxjar", NextAction: "WordPress plugin submission", LastUpdated: "2026-02-22"},
		{ID: "2", Name: "Threetris", Status: models.ProjectBuilding, Priority: models.PriorityMedium, Revenue: "-", Repo: "threetris", NextAction: "App Store submission", LastUpdated: "2026-02-21"},
		{ID: "3", Name: "Lydix", Status: models.ProjectLive, Priority: models.PriorityLow, Revenue: "$0/mo", URL: "https://lydix.app", LastUpdated: "2026-01-15"},
		{ID: "4", Name: "MagicLamp", Status: models.ProjectLive, Priority: models.PriorityLow, Revenue: "$0/mo", LastUpdated: "2025-12-01"},
		{ID: "5", Name: "Forever Snow", Status: models.ProjectLive, Priority: models.PriorityLow, Revenue: "$0/mo", LastUpdated: "2025-11-15"},
		{ID: "6", Name: "Jumpy Friend", Status: models.ProjectLive, Priority: models.PriorityLow, Revenue: "$0/mo", LastUpdated: "2025-10-01"},
		{ID: "7", Name: "3D Retopology", Status: models.ProjectBuilding, Priority: models.PriorityMedium, Revenue: "-", NextAction: "Core algorithm", LastUpdated: "2026-02-10"},
		{ID: "8", Name: "Anywhere2Splat", Status: models.ProjectIdea, Priority: models.PriorityMedium, Revenue: "-", NextAction: "Research Gaussian splatting"},
		{ID: "9", Name: "BikeVR", Status: models.ProjectIdea, Priority: models.PriorityLow, Revenue: "-"},
	}
}
