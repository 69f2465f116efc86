// internal/datastore/analytics.go - aggregate queries backing the dashboard KPIs
package datastore

import "time"

// CustomerAccessCount is one entry of the top-customer ranking: a customer
// with the number of access events they produced inside the query window.
type CustomerAccessCount struct {
	CustomerID  uint   `json:"customerId"`
	Name        string `json:"name"`
	ImageURL    string `json:"imageUrl"`
	AccessCount int    `json:"accessCount"`
}

// StoreOption is the minimal store shape used by the dashboard selector
type StoreOption struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// CountStores returns the total number of stores. Never store-filtered:
// the dashboard shows the system-wide store count even in a filtered view.
func (ds *DataStore) CountStores() (int64, error) {
	var count int64
	err := ds.withRetry("count_stores", func() error {
		return ds.DB.Model(&Store{}).Count(&count).Error
	})
	return count, err
}

// CountCustomers returns the number of customers, optionally per store.
func (ds *DataStore) CountCustomers(storeID *uint) (int64, error) {
	var count int64
	err := ds.withRetry("count_customers", func() error {
		query := ds.DB.Model(&Customer{})
		if storeID != nil {
			query = query.Where("store_id = ?", *storeID)
		}
		return query.Count(&count).Error
	})
	return count, err
}

// CountDevices returns the number of devices, optionally per store.
// Unlinked devices (store_id NULL) only appear in the unfiltered count.
func (ds *DataStore) CountDevices(storeID *uint) (int64, error) {
	var count int64
	err := ds.withRetry("count_devices", func() error {
		query := ds.DB.Model(&Device{})
		if storeID != nil {
			query = query.Where("store_id = ?", *storeID)
		}
		return query.Count(&count).Error
	})
	return count, err
}

// CountAccessesSince returns the number of access events inside the window.
func (ds *DataStore) CountAccessesSince(storeID *uint, since time.Time) (int64, error) {
	var count int64
	err := ds.withRetry("count_accesses", func() error {
		query := ds.DB.Model(&AccessEvent{}).Where("created_at >= ?", since)
		if storeID != nil {
			query = query.Where("store_id = ?", *storeID)
		}
		return query.Count(&count).Error
	})
	return count, err
}

// AvgConfidenceSince returns the mean confidence of access events inside
// the window, or 0 when the window holds no events.
func (ds *DataStore) AvgConfidenceSince(storeID *uint, since time.Time) (float64, error) {
	var avg float64
	err := ds.withRetry("avg_confidence", func() error {
		query := ds.DB.Model(&AccessEvent{}).
			Select("COALESCE(AVG(confidence), 0)").
			Where("created_at >= ?", since)
		if storeID != nil {
			query = query.Where("store_id = ?", *storeID)
		}
		return query.Scan(&avg).Error
	})
	return avg, err
}

// TopCustomersSince ranks customers by access count inside the window,
// descending, resolving each customer's display name and image. Events
// without a matched customer are excluded. Ties break on ascending
// customer id so the ranking is deterministic.
func (ds *DataStore) TopCustomersSince(storeID *uint, since time.Time, limit int) ([]CustomerAccessCount, error) {
	var ranking []CustomerAccessCount
	err := ds.withRetry("top_customers", func() error {
		query := ds.DB.Table("access_events").
			Select(`access_events.customer_id as customer_id,
				customers.name as name,
				customers.image_url as image_url,
				COUNT(*) as access_count`).
			Joins("JOIN customers ON customers.id = access_events.customer_id").
			Where("access_events.customer_id IS NOT NULL").
			Where("access_events.created_at >= ?", since).
			Group("access_events.customer_id, customers.name, customers.image_url").
			Order("access_count DESC, customer_id ASC").
			Limit(limit)
		if storeID != nil {
			query = query.Where("access_events.store_id = ?", *storeID)
		}
		return query.Scan(&ranking).Error
	})
	if err != nil {
		return nil, err
	}
	return ranking, nil
}

// AccessTimesSince returns the timestamps of all access events inside the
// window, oldest first. Peak-hour and time-series bucketing happen in the
// aggregator on top of this single result set.
func (ds *DataStore) AccessTimesSince(storeID *uint, since time.Time) ([]time.Time, error) {
	var times []time.Time
	err := ds.withRetry("access_times", func() error {
		query := ds.DB.Model(&AccessEvent{}).
			Where("created_at >= ?", since).
			Order("created_at ASC")
		if storeID != nil {
			query = query.Where("store_id = ?", *storeID)
		}
		return query.Pluck("created_at", &times).Error
	})
	if err != nil {
		return nil, err
	}
	return times, nil
}

// StoreOptions returns id/name pairs for every store, for the dashboard
// store selector.
func (ds *DataStore) StoreOptions() ([]StoreOption, error) {
	var options []StoreOption
	err := ds.withRetry("store_options", func() error {
		return ds.DB.Model(&Store{}).
			Select("id, name").
			Order("id ASC").
			Scan(&options).Error
	})
	if err != nil {
		return nil, err
	}
	return options, nil
}
