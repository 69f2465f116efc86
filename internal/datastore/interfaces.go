// interfaces.go: this code defines the interface for the database operations
package datastore

import (
	"time"

	"gorm.io/gorm"

	"github.com/lavosystem/lavo-go/internal/conf"
)

// Interface abstracts the underlying database implementation and defines
// the operations the rest of the application may perform.
type Interface interface {
	Open() error
	Close() error

	// users
	CreateUser(user *User) error
	GetUser(id uint) (*User, error)
	GetUserByEmail(email string) (*User, error)
	GetAllUsers() ([]User, error)
	UpdateUserPassword(id uint, passwordHash string) error
	FirstUserByRole(role string) (*User, error)

	// stores
	CreateStore(store *Store) error
	GetStore(id uint) (*Store, error)
	GetStores(ownerID *uint) ([]Store, error)
	UpdateStore(id uint, fields map[string]any) (*Store, error)
	DeleteStore(id uint) error

	// devices
	CreateDevice(device *Device) error
	GetDevices(filter DeviceFilter) ([]Device, error)
	GetDeviceBySerial(serialNumber string) (*Device, error)
	UpdateDevice(id uint, fields map[string]any) (*Device, error)
	DeleteDevice(id uint) error
	LinkDevice(id, storeID uint) (*Device, error)

	// customers
	CreateCustomer(customer *Customer) error
	GetCustomer(id uint) (*Customer, error)
	GetCustomersByStore(storeID uint) ([]Customer, error)
	UpdateCustomer(id uint, fields map[string]any) (*Customer, error)
	DeleteCustomer(id uint) error

	// access events
	SaveAccessEvent(event *AccessEvent) error
	GetRecentAccesses(storeID *uint, since time.Time) ([]RecentAccess, error)

	// system configuration
	GetSystemConfig(defaultName string) (*SystemConfig, error)
	UpdateSystemConfig(systemName, logoURL *string, defaultName string) (*SystemConfig, error)

	// dashboard analytics
	CountStores() (int64, error)
	CountCustomers(storeID *uint) (int64, error)
	CountDevices(storeID *uint) (int64, error)
	CountAccessesSince(storeID *uint, since time.Time) (int64, error)
	AvgConfidenceSince(storeID *uint, since time.Time) (float64, error)
	TopCustomersSince(storeID *uint, since time.Time, limit int) ([]CustomerAccessCount, error)
	AccessTimesSince(storeID *uint, since time.Time) ([]time.Time, error)
	StoreOptions() ([]StoreOption, error)
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB *gorm.DB // GORM database instance
}

// New creates a datastore instance based on the configured output.
func New(settings *conf.Settings) Interface {
	switch {
	case settings.Output.SQLite.Enabled:
		return &SQLiteStore{
			Settings: settings,
		}
	case settings.Output.MySQL.Enabled:
		return &MySQLStore{
			Settings: settings,
		}
	default:
		// conf.ValidateSettings rejects this before we get here
		return nil
	}
}
