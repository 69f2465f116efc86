// internal/api/v2/access.go - access event endpoints
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lavosystem/lavo-go/internal/datastore"
)

// AccessRequest is the payload devices send when reporting a recognition event
type AccessRequest struct {
	SerialNumber     string  `json:"serialNumber"`
	CustomerID       *uint   `json:"customerId"`
	CapturedImageURL string  `json:"capturedImageUrl"`
	Confidence       float64 `json:"confidence"`
}

// GetAccesses lists access events inside a lookback window, newest first.
// Defaults to the last 24 hours; the hours parameter widens or narrows it.
func (c *Controller) GetAccesses(ctx echo.Context) error {
	var storeID *uint
	if param := ctx.QueryParam("storeId"); param != "" {
		id, err := strconv.ParseUint(param, 10, 32)
		if err != nil {
			return c.HandleError(ctx, err, "Invalid storeId parameter", http.StatusBadRequest)
		}
		parsed := uint(id)
		storeID = &parsed
	}

	hours := 24
	if param := ctx.QueryParam("hours"); param != "" {
		parsed, err := strconv.Atoi(param)
		if err != nil || parsed <= 0 {
			return c.HandleError(ctx, err, "Invalid hours parameter", http.StatusBadRequest)
		}
		hours = parsed
	}

	since := c.now().Add(-time.Duration(hours) * time.Hour)
	accesses, err := c.DS.GetRecentAccesses(storeID, since)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to list access events", statusForError(err))
	}
	return ctx.JSON(http.StatusOK, accesses)
}

// RecordAccess stores a recognition event reported by a device. The device
// is identified by serial number and must be linked to a store.
func (c *Controller) RecordAccess(ctx echo.Context) error {
	var req AccessRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}
	if req.SerialNumber == "" {
		return c.HandleError(ctx, nil, "Serial number is required", http.StatusBadRequest)
	}
	// confidence is clamped, not rejected; devices report raw scores
	if req.Confidence < 0 {
		req.Confidence = 0
	}
	if req.Confidence > 1 {
		req.Confidence = 1
	}

	device, err := c.DS.GetDeviceBySerial(req.SerialNumber)
	if err != nil {
		return c.HandleError(ctx, err, "Unknown device", statusForError(err))
	}
	if device.StoreID == nil {
		return c.HandleError(ctx, nil, "Device is not linked to a store", http.StatusConflict)
	}

	event := datastore.AccessEvent{
		StoreID:          *device.StoreID,
		DeviceID:         device.ID,
		CustomerID:       req.CustomerID,
		CapturedImageURL: req.CapturedImageURL,
		Confidence:       req.Confidence,
		CreatedAt:        c.now(),
	}
	if err := c.DS.SaveAccessEvent(&event); err != nil {
		return c.HandleError(ctx, err, "Failed to record access event", statusForError(err))
	}

	c.InvalidateKPICache()
	return ctx.JSON(http.StatusCreated, event)
}
