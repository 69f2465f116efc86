package datastore

import "gorm.io/gorm"

// CreateStore inserts a new store record.
func (ds *DataStore) CreateStore(store *Store) error {
	return ds.withRetry("create_store", func() error {
		return ds.DB.Create(store).Error
	})
}

// GetStore retrieves a store by id.
func (ds *DataStore) GetStore(id uint) (*Store, error) {
	var store Store
	err := ds.withRetry("get_store", func() error {
		return ds.DB.First(&store, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &store, nil
}

// GetStores returns all stores, newest first, optionally restricted to an owner.
func (ds *DataStore) GetStores(ownerID *uint) ([]Store, error) {
	var stores []Store
	err := ds.withRetry("get_stores", func() error {
		query := ds.DB.Order("created_at DESC")
		if ownerID != nil {
			query = query.Where("owner_id = ?", *ownerID)
		}
		return query.Find(&stores).Error
	})
	if err != nil {
		return nil, err
	}
	return stores, nil
}

// UpdateStore applies the given field updates and returns the updated row.
func (ds *DataStore) UpdateStore(id uint, fields map[string]any) (*Store, error) {
	var store Store
	err := ds.withRetry("update_store", func() error {
		if err := ds.DB.Model(&Store{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return err
		}
		return ds.DB.First(&store, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &store, nil
}

// DeleteStore removes a store together with its access events, customers
// and devices in a single transaction.
func (ds *DataStore) DeleteStore(id uint) error {
	return ds.withRetry("delete_store", func() error {
		return ds.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("store_id = ?", id).Delete(&AccessEvent{}).Error; err != nil {
				return err
			}
			if err := tx.Where("store_id = ?", id).Delete(&Customer{}).Error; err != nil {
				return err
			}
			if err := tx.Where("store_id = ?", id).Delete(&Device{}).Error; err != nil {
				return err
			}
			res := tx.Delete(&Store{}, id)
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
