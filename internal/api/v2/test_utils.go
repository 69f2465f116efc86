// internal/api/v2/test_utils.go - shared helpers for API handler tests
package api

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/mock"

	"github.com/lavosystem/lavo-go/internal/conf"
	"github.com/lavosystem/lavo-go/internal/datastore"
	"github.com/lavosystem/lavo-go/internal/errors"
	"github.com/lavosystem/lavo-go/internal/security"
)

// notFoundErr builds the error shape the datastore produces for missing rows.
func notFoundErr() error {
	return errors.Newf("record not found").
		Component("datastore").
		Category(errors.CategoryNotFound).
		Build()
}

// testNow is the fixed clock used by handler tests.
var testNow = time.Date(2025, 6, 15, 12, 30, 0, 0, time.UTC)

// MockDataStore is a testify mock implementing datastore.Interface
type MockDataStore struct {
	mock.Mock
}

func (m *MockDataStore) Open() error  { return m.Called().Error(0) }
func (m *MockDataStore) Close() error { return m.Called().Error(0) }

func (m *MockDataStore) CreateUser(user *datastore.User) error {
	return m.Called(user).Error(0)
}

func (m *MockDataStore) GetUser(id uint) (*datastore.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*datastore.User), args.Error(1)
}

func (m *MockDataStore) GetUserByEmail(email string) (*datastore.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*datastore.User), args.Error(1)
}

func (m *MockDataStore) GetAllUsers() ([]datastore.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]datastore.User), args.Error(1)
}

func (m *MockDataStore) UpdateUserPassword(id uint, passwordHash string) error {
	return m.Called(id, passwordHash).Error(0)
}

func (m *MockDataStore) FirstUserByRole(role string) (*datastore.User, error) {
	args := m.Called(role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*datastore.User), args.Error(1)
}

func (m *MockDataStore) CreateStore(store *datastore.Store) error {
	return m.Called(store).Error(0)
}

func (m *MockDataStore) GetStore(id uint) (*datastore.Store, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*datastore.Store), args.Error(1)
}

func (m *MockDataStore) GetStores(ownerID *uint) ([]datastore.Store, error) {
	args := m.Called(ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]datastore.Store), args.Error(1)
}

func (m *MockDataStore) UpdateStore(id uint, fields map[string]any) (*datastore.Store, error) {
	args := m.Called(id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*datastore.Store), args.Error(1)
}

func (m *MockDataStore) DeleteStore(id uint) error {
	return m.Called(id).Error(0)
}

func (m *MockDataStore) CreateDevice(device *datastore.Device) error {
	return m.Called(device).Error(0)
}

func (m *MockDataStore) GetDevices(filter datastore.DeviceFilter) ([]datastore.Device, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]datastore.Device), args.Error(1)
}

func (m *MockDataStore) GetDeviceBySerial(serialNumber string) (*datastore.Device, error) {
	args := m.Called(serialNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*datastore.Device), args.Error(1)
}

func (m *MockDataStore) UpdateDevice(id uint, fields map[string]any) (*datastore.Device, error) {
	args := m.Called(id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*datastore.Device), args.Error(1)
}

func (m *MockDataStore) DeleteDevice(id uint) error {
	return m.Called(id).Error(0)
}

func (m *MockDataStore) LinkDevice(id, storeID uint) (*datastore.Device, error) {
	args := m.Called(id, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*datastore.Device), args.Error(1)
}

func (m *MockDataStore) CreateCustomer(customer *datastore.Customer) error {
	return m.Called(customer).Error(0)
}

func (m *MockDataStore) GetCustomer(id uint) (*datastore.Customer, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*datastore.Customer), args.Error(1)
}

func (m *MockDataStore) GetCustomersByStore(storeID uint) ([]datastore.Customer, error) {
	args := m.Called(storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]datastore.Customer), args.Error(1)
}

func (m *MockDataStore) UpdateCustomer(id uint, fields map[string]any) (*datastore.Customer, error) {
	args := m.Called(id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*datastore.Customer), args.Error(1)
}

func (m *MockDataStore) DeleteCustomer(id uint) error {
	return m.Called(id).Error(0)
}

func (m *MockDataStore) SaveAccessEvent(event *datastore.AccessEvent) error {
	return m.Called(event).Error(0)
}

func (m *MockDataStore) GetRecentAccesses(storeID *uint, since time.Time) ([]datastore.RecentAccess, error) {
	args := m.Called(storeID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]datastore.RecentAccess), args.Error(1)
}

func (m *MockDataStore) GetSystemConfig(defaultName string) (*datastore.SystemConfig, error) {
	args := m.Called(defaultName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*datastore.SystemConfig), args.Error(1)
}

func (m *MockDataStore) UpdateSystemConfig(systemName, logoURL *string, defaultName string) (*datastore.SystemConfig, error) {
	args := m.Called(systemName, logoURL, defaultName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*datastore.SystemConfig), args.Error(1)
}

func (m *MockDataStore) CountStores() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDataStore) CountCustomers(storeID *uint) (int64, error) {
	args := m.Called(storeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDataStore) CountDevices(storeID *uint) (int64, error) {
	args := m.Called(storeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDataStore) CountAccessesSince(storeID *uint, since time.Time) (int64, error) {
	args := m.Called(storeID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDataStore) AvgConfidenceSince(storeID *uint, since time.Time) (float64, error) {
	args := m.Called(storeID, since)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockDataStore) TopCustomersSince(storeID *uint, since time.Time, limit int) ([]datastore.CustomerAccessCount, error) {
	args := m.Called(storeID, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]datastore.CustomerAccessCount), args.Error(1)
}

func (m *MockDataStore) AccessTimesSince(storeID *uint, since time.Time) ([]time.Time, error) {
	args := m.Called(storeID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1)
}

func (m *MockDataStore) StoreOptions() ([]datastore.StoreOption, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]datastore.StoreOption), args.Error(1)
}

// newTestController wires a controller around the given datastore with a
// fixed clock and a discard logger.
func newTestController(t *testing.T, ds datastore.Interface) *Controller {
	t.Helper()

	settings := &conf.Settings{}
	settings.Main.Name = "Lavo System"
	settings.Security.BcryptCost = 4
	settings.Dashboard.KPICacheTTL = 10 * time.Second

	e := echo.New()
	c := &Controller{
		Echo:           e,
		Group:          e.Group("/api"),
		DS:             ds,
		Settings:       settings,
		Tokens:         security.NewTokenService("test-secret", time.Hour, 15*time.Minute),
		kpiCache:       cache.New(settings.Dashboard.KPICacheTTL, time.Minute),
		apiLogger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		apiLoggerClose: func() error { return nil },
		now:            func() time.Time { return testNow },
	}
	c.initRoutes()
	return c
}

// doRequest runs a request through the echo router and returns the recorder.
func doRequest(c *Controller, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c.Echo.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(c *Controller, method, target, body string) *httptest.ResponseRecorder {
	return doRequest(c, method, target, strings.NewReader(body))
}
