package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lavosystem/lavo-go/internal/datastore"
)

func TestGetSystemConfig(t *testing.T) {
	ds := new(MockDataStore)
	c := newTestController(t, ds)

	ds.On("GetSystemConfig", "Lavo System").
		Return(&datastore.SystemConfig{ID: 1, SystemName: "Lavo System"}, nil)

	rec := doRequest(c, http.MethodGet, "/api/system/config", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var config datastore.SystemConfig
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &config))
	assert.Equal(t, "Lavo System", config.SystemName)
}

func TestUpdateSystemConfig(t *testing.T) {
	ds := new(MockDataStore)
	c := newTestController(t, ds)

	name := "Lavanderia Azul"
	logo := "/img/logo.png"
	ds.On("UpdateSystemConfig", &name, &logo, "Lavo System").
		Return(&datastore.SystemConfig{ID: 1, SystemName: name, LogoURL: &logo}, nil)

	rec := jsonRequest(c, http.MethodPut, "/api/system/config",
		`{"systemName":"Lavanderia Azul","logoUrl":"/img/logo.png"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	ds.AssertExpectations(t)
}

func TestUpdateSystemConfigRejectsEmptyName(t *testing.T) {
	ds := new(MockDataStore)
	c := newTestController(t, ds)

	rec := jsonRequest(c, http.MethodPut, "/api/system/config", `{"systemName":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	ds.AssertNotCalled(t, "UpdateSystemConfig")
}

func TestUpdateSystemConfigRequiresFields(t *testing.T) {
	ds := new(MockDataStore)
	c := newTestController(t, ds)

	rec := jsonRequest(c, http.MethodPut, "/api/system/config", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	ds.AssertNotCalled(t, "UpdateSystemConfig")
}
