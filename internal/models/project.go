package models

// ProjectStatus is the lifecycle state of a tracked project.
type ProjectStatus string

const (
	ProjectLive     ProjectStatus = "live"
	ProjectBuilding ProjectStatus = "building"
	ProjectIdea     ProjectStatus = "idea"
	ProjectPaused   ProjectStatus = "paused"
)

// ProjectPriority ranks a project's urgency.
type ProjectPriority string

const (
	PriorityHigh   ProjectPriority = "high"
	PriorityMedium ProjectPriority = "medium"
	PriorityLow    ProjectPriority = "low"
)

// Project is one entry in the project tracker widget.
type Project struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Type        string          `json:"type,omitempty"` // app, game, website
	Description string          `json:"description,omitempty"`
	Status      ProjectStatus   `json:"status"`
	Priority    ProjectPriority `json:"priority"`
	Revenue     string          `json:"revenue"`
	URL         string          `json:"url,omitempty"`
	Repo        string          `json:"repo,omitempty"`
	LocalPath   string          `json:"localPath,omitempty"`
	NextAction  string          `json:"nextAction,omitempty"`
	LastUpdated string          `json:"lastUpdated,omitempty"`
}

// ProjectPatch holds partial updates for a project. Nil means unchanged.
type ProjectPatch struct {
	Name        *string          `json:"name,omitempty"`
	Type        *string          `json:"type,omitempty"`
	Description *string          `json:"description,omitempty"`
	Status      *ProjectStatus   `json:"status,omitempty"`
	Priority    *ProjectPriority `json:"priority,omitempty"`
	Revenue     *string          `json:"revenue,omitempty"`
	URL         *string          `json:"url,omitempty"`
	Repo        *string          `json:"repo,omitempty"`
	LocalPath   *string          `json:"localPath,omitempty"`
	NextAction  *string          `json:"nextAction,omitempty"`
}
