package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lavosystem/lavo-go/internal/datastore"
)

func TestGetCustomersWithoutStoreIsEmpty(t *testing.T) {
	ds := new(MockDataStore)
	c := newTestController(t, ds)

	rec := doRequest(c, http.MethodGet, "/api/customers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
	ds.AssertNotCalled(t, "GetCustomersByStore")
}

func TestGetCustomers(t *testing.T) {
	ds := new(MockDataStore)
	c := newTestController(t, ds)

	ds.On("GetCustomersByStore", uint(1)).Return([]datastore.Customer{
		{ID: 1, StoreID: 1, Name: "Ana", Status: datastore.CustomerStatusVIP},
	}, nil)

	rec := doRequest(c, http.MethodGet, "/api/customers?storeId=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ds.AssertExpectations(t)
}

func TestCreateCustomer(t *testing.T) {
	ds := new(MockDataStore)
	c := newTestController(t, ds)

	ds.On("CreateCustomer", &datastore.Customer{
		StoreID:  1,
		Name:     "Bruno",
		ImageURL: "/img/bruno.jpg",
		Status:   datastore.CustomerStatusNew,
	}).Return(nil)

	rec := jsonRequest(c, http.MethodPost, "/api/customers",
		`{"storeId":1,"name":"Bruno","imageUrl":"/img/bruno.jpg"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	ds.AssertExpectations(t)
}

func TestCreateCustomerRequiresImage(t *testing.T) {
	ds := new(MockDataStore)
	c := newTestController(t, ds)

	rec := jsonRequest(c, http.MethodPost, "/api/customers",
		`{"storeId":1,"name":"Bruno"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	ds.AssertNotCalled(t, "CreateCustomer")
}

func TestUpdateCustomerStatus(t *testing.T) {
	ds := new(MockDataStore)
	c := newTestController(t, ds)

	ds.On("UpdateCustomer", uint(3), map[string]any{"status": datastore.CustomerStatusBlocked}).
		Return(&datastore.Customer{ID: 3, Status: datastore.CustomerStatusBlocked}, nil)

	rec := jsonRequest(c, http.MethodPut, "/api/customers/3", `{"status":"BLOCKED"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	ds.AssertExpectations(t)
}

func TestUpdateCustomerRejectsUnknownStatus(t *testing.T) {
	ds := new(MockDataStore)
	c := newTestController(t, ds)

	rec := jsonRequest(c, http.MethodPut, "/api/customers/3", `{"status":"BANIDO"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	ds.AssertNotCalled(t, "UpdateCustomer")
}

func TestDeleteCustomer(t *testing.T) {
	ds := new(MockDataStore)
	c := newTestController(t, ds)

	ds.On("DeleteCustomer", uint(3)).Return(nil)

	rec := doRequest(c, http.MethodDelete, "/api/customers/3", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	ds.AssertExpectations(t)
}
