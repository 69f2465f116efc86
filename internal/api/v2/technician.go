// internal/api/v2/technician.go - field technician actions
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// LinkRequest binds a device to a store by serial number
type LinkRequest struct {
	SerialNumber string `json:"serialNumber"`
	StoreID      uint   `json:"storeId"`
}

// LinkDevice binds an installed device to a store and activates it.
func (c *Controller) LinkDevice(ctx echo.Context) error {
	var req LinkRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}
	if req.SerialNumber == "" || req.StoreID == 0 {
		return c.HandleError(ctx, nil, "Serial number and store are required", http.StatusBadRequest)
	}

	if _, err := c.DS.GetStore(req.StoreID); err != nil {
		return c.HandleError(ctx, err, "Store not found", statusForError(err))
	}

	device, err := c.DS.GetDeviceBySerial(req.SerialNumber)
	if err != nil {
		return c.HandleError(ctx, err, "Device not found", statusForError(err))
	}
	if device.StoreID != nil {
		return c.HandleError(ctx, nil, "Device is already linked to a store", http.StatusBadRequest)
	}

	linked, err := c.DS.LinkDevice(device.ID, req.StoreID)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to link device", statusForError(err))
	}

	c.InvalidateKPICache()
	return ctx.JSON(http.StatusOK, linked)
}
