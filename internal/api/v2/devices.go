// internal/api/v2/devices.go - device management endpoints
package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/lavosystem/lavo-go/internal/datastore"
)

// DeviceRequest is the payload for creating a device
type DeviceRequest struct {
	Label        string `json:"label"`
	DoorName     string `json:"doorName"`
	SerialNumber string `json:"serialNumber"`
	StoreID      *uint  `json:"storeId"`
}

// GetDevices lists devices. Supports filtering by store (storeId=N) and
// listing only unlinked devices (free=true).
func (c *Controller) GetDevices(ctx echo.Context) error {
	var filter datastore.DeviceFilter

	if param := ctx.QueryParam("storeId"); param != "" {
		id, err := strconv.ParseUint(param, 10, 32)
		if err != nil {
			return c.HandleError(ctx, err, "Invalid storeId parameter", http.StatusBadRequest)
		}
		parsed := uint(id)
		filter.StoreID = &parsed
	}
	if ctx.QueryParam("free") == "true" {
		filter.OnlyFree = true
	}

	devices, err := c.DS.GetDevices(filter)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to list devices", statusForError(err))
	}
	return ctx.JSON(http.StatusOK, devices)
}

// CreateDevice registers a new device, unlinked unless a store is given.
func (c *Controller) CreateDevice(ctx echo.Context) error {
	var req DeviceRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}
	if req.SerialNumber == "" {
		return c.HandleError(ctx, nil, "Serial number is required", http.StatusBadRequest)
	}

	device := datastore.Device{
		Label:        req.Label,
		DoorName:     req.DoorName,
		SerialNumber: req.SerialNumber,
		Status:       datastore.DeviceStatusActive,
		StoreID:      req.StoreID,
	}
	if err := c.DS.CreateDevice(&device); err != nil {
		return c.HandleError(ctx, err, "Failed to create device", statusForError(err))
	}

	c.InvalidateKPICache()
	return ctx.JSON(http.StatusCreated, device)
}

// UpdateDevice changes the fields present in the request body.
func (c *Controller) UpdateDevice(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid device id", http.StatusBadRequest)
	}

	var req struct {
		Label    *string `json:"label"`
		DoorName *string `json:"doorName"`
		StoreID  *uint   `json:"storeId"`
	}
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	fields := map[string]any{}
	if req.Label != nil {
		fields["label"] = *req.Label
	}
	if req.DoorName != nil {
		fields["door_name"] = *req.DoorName
	}
	if req.StoreID != nil {
		fields["store_id"] = *req.StoreID
	}
	if len(fields) == 0 {
		return c.HandleError(ctx, nil, "No fields to update", http.StatusBadRequest)
	}

	device, err := c.DS.UpdateDevice(id, fields)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to update device", statusForError(err))
	}

	c.InvalidateKPICache()
	return ctx.JSON(http.StatusOK, device)
}

// UpdateDeviceStatus toggles a device between ACTIVE and INACTIVE.
func (c *Controller) UpdateDeviceStatus(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid device id", http.StatusBadRequest)
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}
	if !datastore.ValidDeviceStatus(req.Status) {
		return c.HandleError(ctx, nil, "Invalid device status", http.StatusBadRequest)
	}

	device, err := c.DS.UpdateDevice(id, map[string]any{"status": req.Status})
	if err != nil {
		return c.HandleError(ctx, err, "Failed to update device status", statusForError(err))
	}
	return ctx.JSON(http.StatusOK, device)
}

// DeleteDevice removes a device and its access history.
func (c *Controller) DeleteDevice(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid device id", http.StatusBadRequest)
	}

	if err := c.DS.DeleteDevice(id); err != nil {
		return c.HandleError(ctx, err, "Failed to delete device", statusForError(err))
	}

	c.InvalidateKPICache()
	return ctx.NoContent(http.StatusNoContent)
}
