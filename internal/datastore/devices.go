package datastore

import "gorm.io/gorm"

// DeviceFilter narrows device listings. StoreID filters by owning store;
// OnlyFree limits the result to unlinked devices. The two are mutually
// exclusive; OnlyFree wins when both are set.
type DeviceFilter struct {
	StoreID  *uint
	OnlyFree bool
}

// CreateDevice inserts a new device record.
func (ds *DataStore) CreateDevice(device *Device) error {
	return ds.withRetry("create_device", func() error {
		return ds.DB.Create(device).Error
	})
}

// GetDevices returns devices matching the filter, newest first.
func (ds *DataStore) GetDevices(filter DeviceFilter) ([]Device, error) {
	var devices []Device
	err := ds.withRetry("get_devices", func() error {
		query := ds.DB.Order("created_at DESC")
		switch {
		case filter.OnlyFree:
			query = query.Where("store_id IS NULL")
		case filter.StoreID != nil:
			query = query.Where("store_id = ?", *filter.StoreID)
		}
		return query.Find(&devices).Error
	})
	if err != nil {
		return nil, err
	}
	return devices, nil
}

// GetDeviceBySerial retrieves a device by its unique serial number.
func (ds *DataStore) GetDeviceBySerial(serialNumber string) (*Device, error) {
	var device Device
	err := ds.withRetry("get_device_by_serial", func() error {
		return ds.DB.Where("serial_number = ?", serialNumber).First(&device).Error
	})
	if err != nil {
		return nil, err
	}
	return &device, nil
}

// UpdateDevice applies the given field updates and returns the updated row.
func (ds *DataStore) UpdateDevice(id uint, fields map[string]any) (*Device, error) {
	var device Device
	err := ds.withRetry("update_device", func() error {
		if err := ds.DB.Model(&Device{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return err
		}
		return ds.DB.First(&device, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &device, nil
}

// DeleteDevice removes a device and its access events in one transaction.
func (ds *DataStore) DeleteDevice(id uint) error {
	return ds.withRetry("delete_device", func() error {
		return ds.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("device_id = ?", id).Delete(&AccessEvent{}).Error; err != nil {
				return err
			}
			res := tx.Delete(&Device{}, id)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
			return nil
		})
	})
}

// LinkDevice binds a device to a store and activates it.
func (ds *DataStore) LinkDevice(id, storeID uint) (*Device, error) {
	return ds.UpdateDevice(id, map[string]any{
		"store_id": storeID,
		"status":   DeviceStatusActive,
	})
}
