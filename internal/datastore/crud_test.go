package datastore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lavosystem/lavo-go/internal/errors"
)

func TestDeleteStoreCascades(t *testing.T) {
	ds := setupTestDB(t)
	now := time.Now()
	seedAccessData(t, ds, now)

	require.NoError(t, ds.DeleteStore(1))

	var storeCount, customerCount, deviceCount, accessCount int64
	require.NoError(t, ds.DB.Model(&Store{}).Count(&storeCount).Error)
	require.NoError(t, ds.DB.Model(&Customer{}).Where("store_id = ?", 1).Count(&customerCount).Error)
	require.NoError(t, ds.DB.Model(&Device{}).Where("store_id = ?", 1).Count(&deviceCount).Error)
	require.NoError(t, ds.DB.Model(&AccessEvent{}).Where("store_id = ?", 1).Count(&accessCount).Error)

	assert.Equal(t, int64(1), storeCount)
	assert.Zero(t, customerCount)
	assert.Zero(t, deviceCount)
	assert.Zero(t, accessCount)

	// the unlinked device survives a store deletion
	var free int64
	require.NoError(t, ds.DB.Model(&Device{}).Where("store_id IS NULL").Count(&free).Error)
	assert.Equal(t, int64(1), free)
}

func TestDeleteUnknownIDIsNotFound(t *testing.T) {
	ds := setupTestDB(t)
	now := time.Now()
	seedAccessData(t, ds, now)

	// a miss must not report success
	err := ds.DeleteStore(99)
	require.Error(t, err)
	assert.Equal(t, errors.CategoryNotFound, errors.Category(err))

	err = ds.DeleteDevice(99)
	require.Error(t, err)
	assert.Equal(t, errors.CategoryNotFound, errors.Category(err))

	err = ds.DeleteCustomer(99)
	require.Error(t, err)
	assert.Equal(t, errors.CategoryNotFound, errors.Category(err))

	// nothing else was touched
	var storeCount, deviceCount, customerCount int64
	require.NoError(t, ds.DB.Model(&Store{}).Count(&storeCount).Error)
	require.NoError(t, ds.DB.Model(&Device{}).Count(&deviceCount).Error)
	require.NoError(t, ds.DB.Model(&Customer{}).Count(&customerCount).Error)
	assert.Equal(t, int64(2), storeCount)
	assert.Equal(t, int64(3), deviceCount)
	assert.Equal(t, int64(3), customerCount)
}

func TestDeleteCustomerCascadesAccesses(t *testing.T) {
	ds := setupTestDB(t)
	now := time.Now()
	seedAccessData(t, ds, now)

	require.NoError(t, ds.DeleteCustomer(1))

	var accessCount int64
	require.NoError(t, ds.DB.Model(&AccessEvent{}).Where("customer_id = ?", 1).Count(&accessCount).Error)
	assert.Zero(t, accessCount)
}

func TestGetDevicesFilters(t *testing.T) {
	ds := setupTestDB(t)
	now := time.Now()
	seedAccessData(t, ds, now)

	all, err := ds.GetDevices(DeviceFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	free, err := ds.GetDevices(DeviceFilter{OnlyFree: true})
	require.NoError(t, err)
	require.Len(t, free, 1)
	assert.Equal(t, "SN-003", free[0].SerialNumber)

	store1, err := ds.GetDevices(DeviceFilter{StoreID: uintPtr(1)})
	require.NoError(t, err)
	require.Len(t, store1, 1)
	assert.Equal(t, "SN-001", store1[0].SerialNumber)
}

func TestLinkDeviceActivates(t *testing.T) {
	ds := setupTestDB(t)
	now := time.Now()
	seedAccessData(t, ds, now)

	device, err := ds.LinkDevice(3, 2)
	require.NoError(t, err)
	require.NotNil(t, device.StoreID)
	assert.Equal(t, uint(2), *device.StoreID)
	assert.Equal(t, DeviceStatusActive, device.Status)
}

func TestGetSystemConfigCreatesDefault(t *testing.T) {
	ds := setupTestDB(t)

	cfg, err := ds.GetSystemConfig("Lavo System")
	require.NoError(t, err)
	assert.Equal(t, uint(1), cfg.ID)
	assert.Equal(t, "Lavo System", cfg.SystemName)
	assert.Nil(t, cfg.LogoURL)

	// second read returns the same row
	again, err := ds.GetSystemConfig("Other Name")
	require.NoError(t, err)
	assert.Equal(t, "Lavo System", again.SystemName)
}

func TestUpdateSystemConfigPartial(t *testing.T) {
	ds := setupTestDB(t)

	name := "Lavanderia Azul"
	cfg, err := ds.UpdateSystemConfig(&name, nil, "Lavo System")
	require.NoError(t, err)
	assert.Equal(t, "Lavanderia Azul", cfg.SystemName)
	assert.Nil(t, cfg.LogoURL)

	logo := "/img/logo.png"
	cfg, err = ds.UpdateSystemConfig(nil, &logo, "Lavo System")
	require.NoError(t, err)
	assert.Equal(t, "Lavanderia Azul", cfg.SystemName)
	require.NotNil(t, cfg.LogoURL)
	assert.Equal(t, "/img/logo.png", *cfg.LogoURL)
}

func TestUpdateCustomerFields(t *testing.T) {
	ds := setupTestDB(t)
	now := time.Now()
	seedAccessData(t, ds, now)

	updated, err := ds.UpdateCustomer(2, map[string]any{"status": CustomerStatusVIP})
	require.NoError(t, err)
	assert.Equal(t, CustomerStatusVIP, updated.Status)
	assert.Equal(t, "Bruno", updated.Name)
}

func TestUserRoundtrip(t *testing.T) {
	ds := setupTestDB(t)

	user := &User{Name: "Admin", Email: "admin@lavo.test", Password: "hash", Role: RoleAdmin}
	require.NoError(t, ds.CreateUser(user))
	require.NotZero(t, user.ID)

	byEmail, err := ds.GetUserByEmail("admin@lavo.test")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	require.NoError(t, ds.UpdateUserPassword(user.ID, "newhash"))
	fresh, err := ds.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "newhash", fresh.Password)

	lojista, err := ds.FirstUserByRole(RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, user.ID, lojista.ID)
}
