// model.go this code defines the data model for the application
package datastore

import "time"

// User roles
const (
	RoleAdmin      = "ADMIN"
	RoleLojista    = "LOJISTA"
	RoleTechnician = "TECNICO"
)

// Device status values
const (
	DeviceStatusActive   = "ACTIVE"
	DeviceStatusInactive = "INACTIVE"
)

// Customer status values
const (
	CustomerStatusNew     = "NEW"
	CustomerStatusActive  = "ACTIVE"
	CustomerStatusVIP     = "VIP"
	CustomerStatusWarning = "WARNING"
	CustomerStatusBlocked = "BLOCKED"
)

// ValidCustomerStatus reports whether status is one of the known customer states.
func ValidCustomerStatus(status string) bool {
	switch status {
	case CustomerStatusNew, CustomerStatusActive, CustomerStatusVIP,
		CustomerStatusWarning, CustomerStatusBlocked:
		return true
	}
	return false
}

// ValidDeviceStatus reports whether status is one of the known device states.
func ValidDeviceStatus(status string) bool {
	return status == DeviceStatusActive || status == DeviceStatusInactive
}

// ValidRole reports whether role is one of the known user roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleLojista || role == RoleTechnician
}

// User represents a back office account: administrators, store owners and technicians
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"` // bcrypt hash, never serialized
	Role      string    `gorm:"type:varchar(20);default:'LOJISTA'" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store represents a laundry store owned by a user
type Store struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Address   string    `json:"address"`
	OwnerID   uint      `gorm:"index" json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Device represents a face-recognition access device. A device may be
// unlinked (StoreID nil) until a technician binds it to a store.
type Device struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Label        string    `json:"label"`
	DoorName     string    `json:"doorName"`
	SerialNumber string    `gorm:"uniqueIndex;not null" json:"serialNumber"`
	Status       string    `gorm:"type:varchar(20);default:'ACTIVE'" json:"status"`
	StoreID      *uint     `gorm:"index" json:"storeId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Customer represents a registered customer of a store
type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StoreID   uint      `gorm:"index;not null" json:"storeId"`
	Name      string    `gorm:"not null" json:"name"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	ImageURL  string    `gorm:"not null" json:"imageUrl"`
	Status    string    `gorm:"type:varchar(20);default:'NEW'" json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// AccessEvent represents a face-recognition match (or near-match) at a
// device. CustomerID is nil when the face was not recognized.
type AccessEvent struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	StoreID          uint      `gorm:"index:idx_access_store_created" json:"storeId"`
	DeviceID         uint      `gorm:"index" json:"deviceId"`
	CustomerID       *uint     `gorm:"index" json:"customerId"`
	CapturedImageURL string    `json:"capturedImageUrl"`
	Confidence       float64   `json:"confidence"` // match certainty in [0,1]
	CreatedAt        time.Time `gorm:"index:idx_access_store_created;index:idx_access_created" json:"createdAt"`
}

// SystemConfig is a singleton row (id 1) holding branding configuration
type SystemConfig struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SystemName string    `gorm:"not null" json:"systemName"`
	LogoURL    *string   `json:"logoUrl"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
