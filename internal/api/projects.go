package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"mission-control/internal/models"
)

// initProjectRoutes registers the project tracker endpoints.
func (c *Controller) initProjectRoutes(g *echo.Group) {
	projects := g.Group("/projects")
	projects.GET("", c.ListProjects)
	projects.POST("", c.SaveProjects)
	projects.PATCH("", c.PatchProject)
}

// ListProjects returns all tracked projects.
func (c *Controller) ListProjects(ctx echo.Context) error {
	list := c.Projects.List()
	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"projects":    list,
		"initialized": len(list) > 0,
	})
}

type saveProjectsRequest struct {
	Projects []models.Project `json:"projects"`
}

// SaveProjects replaces the whole project list.
func (c *Controller) SaveProjects(ctx echo.Context) error {
	var req saveProjectsRequest
	if err := ctx.Bind(&req); err != nil || req.Projects == nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid data"})
	}

	count := c.Projects.ReplaceAll(ctx.Request().Context(), req.Projects)
	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   count,
	})
}

type patchProjectRequest struct {
	ID      string               `json:"id"`
	Updates *models.ProjectPatch `json:"updates"`
}

// PatchProject applies a partial update to a single project.
func (c *Controller) PatchProject(ctx echo.Context) error {
	var req patchProjectRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.ID == "" || req.Updates == nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "Missing id or updates"})
	}

	project, err := c.Projects.Patch(ctx.Request().Context(), req.ID, *req.Updates)
	if err != nil {
		return c.handleError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"project": project,
	})
}
