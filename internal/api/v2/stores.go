// internal/api/v2/stores.go - store management endpoints
package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/lavosystem/lavo-go/internal/datastore"
)

// StoreRequest is the payload for creating or updating a store
type StoreRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	OwnerID uint   `json:"ownerId"`
}

// GetStores lists stores, optionally filtered by owner.
func (c *Controller) GetStores(ctx echo.Context) error {
	var ownerID *uint
	if param := ctx.QueryParam("ownerId"); param != "" {
		id, err := strconv.ParseUint(param, 10, 32)
		if err != nil {
			return c.HandleError(ctx, err, "Invalid ownerId parameter", http.StatusBadRequest)
		}
		parsed := uint(id)
		ownerID = &parsed
	}

	stores, err := c.DS.GetStores(ownerID)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to list stores", statusForError(err))
	}
	return ctx.JSON(http.StatusOK, stores)
}

// CreateStore registers a new store.
func (c *Controller) CreateStore(ctx echo.Context) error {
	var req StoreRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}
	if req.Name == "" {
		return c.HandleError(ctx, nil, "Store name is required", http.StatusBadRequest)
	}

	// default the owner to the first registered store owner account
	if req.OwnerID == 0 {
		owner, err := c.DS.FirstUserByRole(datastore.RoleLojista)
		if err != nil {
			return c.HandleError(ctx, err, "No store owner account available", http.StatusBadRequest)
		}
		req.OwnerID = owner.ID
	}

	store := datastore.Store{
		Name:    req.Name,
		Address: req.Address,
		OwnerID: req.OwnerID,
	}
	if err := c.DS.CreateStore(&store); err != nil {
		return c.HandleError(ctx, err, "Failed to create store", statusForError(err))
	}

	c.InvalidateKPICache()
	return ctx.JSON(http.StatusCreated, store)
}

// UpdateStore changes the fields present in the request body.
func (c *Controller) UpdateStore(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid store id", http.StatusBadRequest)
	}

	var req struct {
		Name    *string `json:"name"`
		Address *string `json:"address"`
	}
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if len(fields) == 0 {
		return c.HandleError(ctx, nil, "No fields to update", http.StatusBadRequest)
	}

	store, err := c.DS.UpdateStore(id, fields)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to update store", statusForError(err))
	}

	c.InvalidateKPICache()
	return ctx.JSON(http.StatusOK, store)
}

// DeleteStore removes a store together with its customers, devices and
// access history.
func (c *Controller) DeleteStore(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid store id", http.StatusBadRequest)
	}

	if err := c.DS.DeleteStore(id); err != nil {
		return c.HandleError(ctx, err, "Failed to delete store", statusForError(err))
	}

	c.InvalidateKPICache()
	return ctx.NoContent(http.StatusNoContent)
}

// parseIDParam reads the :id path parameter as an unsigned integer.
func parseIDParam(ctx echo.Context) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
