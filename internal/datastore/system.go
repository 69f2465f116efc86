package datastore

import (
	"gorm.io/gorm"

	"github.com/lavosystem/lavo-go/internal/errors"
)

// systemConfigID is the fixed primary key of the singleton configuration row.
const systemConfigID = 1

// GetSystemConfig returns the singleton configuration row, creating it
// with the given default system name when missing.
func (ds *DataStore) GetSystemConfig(defaultName string) (*SystemConfig, error) {
	var cfg SystemConfig
	err := ds.withRetry("get_system_config", func() error {
		err := ds.DB.First(&cfg, systemConfigID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cfg = SystemConfig{ID: systemConfigID, SystemName: defaultName}
			return ds.DB.Create(&cfg).Error
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// UpdateSystemConfig upserts the singleton configuration row. Nil fields
// keep their current value.
func (ds *DataStore) UpdateSystemConfig(systemName, logoURL *string, defaultName string) (*SystemConfig, error) {
	cfg, err := ds.GetSystemConfig(defaultName)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if systemName != nil {
		fields["system_name"] = *systemName
	}
	if logoURL != nil {
		fields["logo_url"] = *logoURL
	}
	if len(fields) == 0 {
		return cfg, nil
	}

	err = ds.withRetry("update_system_config", func() error {
		if err := ds.DB.Model(&SystemConfig{}).Where("id = ?", systemConfigID).Updates(fields).Error; err != nil {
			return err
		}
		return ds.DB.First(cfg, systemConfigID).Error
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
