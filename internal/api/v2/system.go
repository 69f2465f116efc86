// internal/api/v2/system.go - system branding configuration endpoints
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetSystemConfig returns the branding configuration, creating the
// default row on first read.
func (c *Controller) GetSystemConfig(ctx echo.Context) error {
	config, err := c.DS.GetSystemConfig(c.Settings.Main.Name)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to load system configuration", statusForError(err))
	}
	return ctx.JSON(http.StatusOK, config)
}

// UpdateSystemConfig changes the system name and/or logo.
func (c *Controller) UpdateSystemConfig(ctx echo.Context) error {
	var req struct {
		SystemName *string `json:"systemName"`
		LogoURL    *string `json:"logoUrl"`
	}
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}
	if req.SystemName == nil && req.LogoURL == nil {
		return c.HandleError(ctx, nil, "No fields to update", http.StatusBadRequest)
	}
	if req.SystemName != nil && *req.SystemName == "" {
		return c.HandleError(ctx, nil, "System name cannot be empty", http.StatusBadRequest)
	}

	config, err := c.DS.UpdateSystemConfig(req.SystemName, req.LogoURL, c.Settings.Main.Name)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to update system configuration", statusForError(err))
	}
	return ctx.JSON(http.StatusOK, config)
}
