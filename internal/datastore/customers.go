package datastore

import "gorm.io/gorm"

// CreateCustomer inserts a new customer record.
func (ds *DataStore) CreateCustomer(customer *Customer) error {
	return ds.withRetry("create_customer", func() error {
		return ds.DB.Create(customer).Error
	})
}

// GetCustomer retrieves a customer by id.
func (ds *DataStore) GetCustomer(id uint) (*Customer, error) {
	var customer Customer
	err := ds.withRetry("get_customer", func() error {
		return ds.DB.First(&customer, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetCustomersByStore returns a store's customers, newest first.
func (ds *DataStore) GetCustomersByStore(storeID uint) ([]Customer, error) {
	var customers []Customer
	err := ds.withRetry("get_customers_by_store", func() error {
		return ds.DB.Where("store_id = ?", storeID).
			Order("created_at DESC").Find(&customers).Error
	})
	if err != nil {
		return nil, err
	}
	return customers, nil
}

// UpdateCustomer applies the given field updates and returns the updated row.
func (ds *DataStore) UpdateCustomer(id uint, fields map[string]any) (*Customer, error) {
	var customer Customer
	err := ds.withRetry("update_customer", func() error {
		if err := ds.DB.Model(&Customer{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return err
		}
		return ds.DB.First(&customer, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// DeleteCustomer removes a customer and their access events in one transaction.
func (ds *DataStore) DeleteCustomer(id uint) error {
	return ds.withRetry("delete_customer", func() error {
		return ds.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("customer_id = ?", id).Delete(&AccessEvent{}).Error; err != nil {
				return err
			}
			res := tx.Delete(&Customer{}, id)
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
