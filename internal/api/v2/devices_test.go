package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lavosystem/lavo-go/internal/datastore"
)

func TestGetDevicesFilters(t *testing.T) {
	ds := new(MockDataStore)
	c := newTestController(t, ds)

	storeID := uint(2)
	ds.On("GetDevices", datastore.DeviceFilter{StoreID: &storeID}).
		Return([]datastore.Device{{ID: 1, SerialNumber: "SN-001", StoreID: &storeID}}, nil)
	ds.On("GetDevices", datastore.DeviceFilter{OnlyFree: true}).
		Return([]datastore.Device{{ID: 2, SerialNumber: "SN-002"}}, nil)

	rec := doRequest(c, http.MethodGet, "/api/devices?storeId=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(c, http.MethodGet, "/api/devices?free=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var free []datastore.Device
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &free))
	require.Len(t, free, 1)
	assert.Nil(t, free[0].StoreID)
	ds.AssertExpectations(t)
}

func TestCreateDevice(t *testing.T) {
	ds := new(MockDataStore)
	c := newTestController(t, ds)

	ds.On("CreateDevice", &datastore.Device{
		Label:        "Entrada",
		DoorName:     "Porta Principal",
		SerialNumber: "SN-010",
		Status:       datastore.DeviceStatusActive,
	}).Return(nil)

	rec := jsonRequest(c, http.MethodPost, "/api/devices",
		`{"label":"Entrada","doorName":"Porta Principal","serialNumber":"SN-010"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	ds.AssertExpectations(t)
}

func TestCreateDeviceRequiresSerial(t *testing.T) {
	ds := new(MockDataStore)
	c := newTestController(t, ds)

	rec := jsonRequest(c, http.MethodPost, "/api/devices", `{"label":"Entrada"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	ds.AssertNotCalled(t, "CreateDevice")
}

func TestUpdateDeviceStatus(t *testing.T) {
	ds := new(MockDataStore)
	c := newTestController(t, ds)

	ds.On("UpdateDevice", uint(4), map[string]any{"status": datastore.DeviceStatusInactive}).
		Return(&datastore.Device{ID: 4, Status: datastore.DeviceStatusInactive}, nil)

	rec := jsonRequest(c, http.MethodPut, "/api/devices/4/status", `{"status":"INACTIVE"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	ds.AssertExpectations(t)
}

func TestUpdateDeviceStatusRejectsUnknownValue(t *testing.T) {
	ds := new(MockDataStore)
	c := newTestController(t, ds)

	rec := jsonRequest(c, http.MethodPut, "/api/devices/4/status", `{"status":"BROKEN"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	ds.AssertNotCalled(t, "UpdateDevice")
}

func TestDeleteDevice(t *testing.T) {
	ds := new(MockDataStore)
	c := newTestController(t, ds)

	ds.On("DeleteDevice", uint(9)).Return(nil)

	rec := doRequest(c, http.MethodDelete, "/api/devices/9", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	ds.AssertExpectations(t)
}

func TestLinkDevice(t *testing.T) {
	ds := new(MockDataStore)
	c := newTestController(t, ds)

	storeID := uint(2)
	ds.On("GetStore", storeID).Return(&datastore.Store{ID: 2, Name: "Norte"}, nil)
	ds.On("GetDeviceBySerial", "SN-003").Return(&datastore.Device{ID: 3, SerialNumber: "SN-003"}, nil)
	ds.On("LinkDevice", uint(3), storeID).Return(&datastore.Device{
		ID: 3, SerialNumber: "SN-003", StoreID: &storeID, Status: datastore.DeviceStatusActive,
	}, nil)

	rec := jsonRequest(c, http.MethodPost, "/api/technician/link",
		`{"serialNumber":"SN-003","storeId":2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var device datastore.Device
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &device))
	require.NotNil(t, device.StoreID)
	assert.Equal(t, storeID, *device.StoreID)
	assert.Equal(t, datastore.DeviceStatusActive, device.Status)
}

func TestLinkDeviceAlreadyLinked(t *testing.T) {
	ds := new(MockDataStore)
	c := newTestController(t, ds)

	linkedStore := uint(1)
	ds.On("GetStore", uint(2)).Return(&datastore.Store{ID: 2}, nil)
	ds.On("GetDeviceBySerial", "SN-003").
		Return(&datastore.Device{ID: 3, SerialNumber: "SN-003", StoreID: &linkedStore}, nil)

	rec := jsonRequest(c, http.MethodPost, "/api/technician/link",
		`{"serialNumber":"SN-003","storeId":2}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	ds.AssertNotCalled(t, "LinkDevice")
}

func TestLinkDeviceUnknownStore(t *testing.T) {
	ds := new(MockDataStore)
	c := newTestController(t, ds)

	ds.On("GetStore", uint(99)).Return(nil, notFoundErr())

	rec := jsonRequest(c, http.MethodPost, "/api/technician/link",
		`{"serialNumber":"SN-003","storeId":99}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
