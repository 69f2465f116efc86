// internal/api/v2/customers.go - customer management endpoints
package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/lavosystem/lavo-go/internal/datastore"
)

// CustomerRequest is the payload for creating a customer
type CustomerRequest struct {
	StoreID  uint    `json:"storeId"`
	Name     string  `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	ImageURL string  `json:"imageUrl"`
}

// GetCustomers lists the customers of one store. Customers are always
// viewed in a store's context, so without a storeId the list is empty.
func (c *Controller) GetCustomers(ctx echo.Context) error {
	param := ctx.QueryParam("storeId")
	if param == "" {
		return ctx.JSON(http.StatusOK, []datastore.Customer{})
	}
	id, err := strconv.ParseUint(param, 10, 32)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid storeId parameter", http.StatusBadRequest)
	}

	customers, err := c.DS.GetCustomersByStore(uint(id))
	if err != nil {
		return c.HandleError(ctx, err, "Failed to list customers", statusForError(err))
	}
	return ctx.JSON(http.StatusOK, customers)
}

// CreateCustomer enrolls a new customer with their reference face image.
func (c *Controller) CreateCustomer(ctx echo.Context) error {
	var req CustomerRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}
	if req.Name == "" || req.ImageURL == "" || req.StoreID == 0 {
		return c.HandleError(ctx, nil, "Name, image and store are required", http.StatusBadRequest)
	}

	customer := datastore.Customer{
		StoreID:  req.StoreID,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		ImageURL: req.ImageURL,
		Status:   datastore.CustomerStatusNew,
	}
	if err := c.DS.CreateCustomer(&customer); err != nil {
		return c.HandleError(ctx, err, "Failed to create customer", statusForError(err))
	}

	c.InvalidateKPICache()
	return ctx.JSON(http.StatusCreated, customer)
}

// UpdateCustomer changes the fields present in the request body.
func (c *Controller) UpdateCustomer(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid customer id", http.StatusBadRequest)
	}

	var req struct {
		Name     *string `json:"name"`
		Email    *string `json:"email"`
		Phone    *string `json:"phone"`
		ImageURL *string `json:"imageUrl"`
		Status   *string `json:"status"`
	}
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.ImageURL != nil {
		fields["image_url"] = *req.ImageURL
	}
	if req.Status != nil {
		if !datastore.ValidCustomerStatus(*req.Status) {
			return c.HandleError(ctx, nil, "Invalid customer status", http.StatusBadRequest)
		}
		fields["status"] = *req.Status
	}
	if len(fields) == 0 {
		return c.HandleError(ctx, nil, "No fields to update", http.StatusBadRequest)
	}

	customer, err := c.DS.UpdateCustomer(id, fields)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to update customer", statusForError(err))
	}
	return ctx.JSON(http.StatusOK, customer)
}

// DeleteCustomer removes a customer together with their access events.
func (c *Controller) DeleteCustomer(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid customer id", http.StatusBadRequest)
	}

	if err := c.DS.DeleteCustomer(id); err != nil {
		return c.HandleError(ctx, err, "Failed to delete customer", statusForError(err))
	}

	c.InvalidateKPICache()
	return ctx.NoContent(http.StatusNoContent)
}
