package datastore

import "time"

// CustomerRef is the customer summary embedded in access listings
type CustomerRef struct {
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

// RecentAccess is one row of the access listing, with the matched
// customer's display data resolved. Customer is nil for unrecognized faces.
type RecentAccess struct {
	ID               uint         `json:"id"`
	StoreID          uint         `json:"storeId"`
	DeviceID         uint         `json:"deviceId"`
	CapturedImageURL string       `json:"capturedImageUrl"`
	CreatedAt        time.Time    `json:"createdAt"`
	Customer         *CustomerRef `json:"customer"`
}

// SaveAccessEvent inserts a new access event record.
func (ds *DataStore) SaveAccessEvent(event *AccessEvent) error {
	return ds.withRetry("save_access_event", func() error {
		return ds.DB.Create(event).Error
	})
}

// GetRecentAccesses returns access events since the given time, newest
// first, optionally restricted to one store.
func (ds *DataStore) GetRecentAccesses(storeID *uint, since time.Time) ([]RecentAccess, error) {
	type accessRow struct {
		ID               uint
		StoreID          uint
		DeviceID         uint
		CapturedImageURL string
		CreatedAt        time.Time
		CustomerName     *string
		CustomerImageURL *string
	}

	var rows []accessRow
	err := ds.withRetry("get_recent_accesses", func() error {
		query := ds.DB.Table("access_events").
			Select(`access_events.id, access_events.store_id, access_events.device_id,
				access_events.captured_image_url, access_events.created_at,
				customers.name as customer_name, customers.image_url as customer_image_url`).
			Joins("LEFT JOIN customers ON customers.id = access_events.customer_id").
			Where("access_events.created_at >= ?", since).
			Order("access_events.created_at DESC")
		if storeID != nil {
			query = query.Where("access_events.store_id = ?", *storeID)
		}
		return query.Scan(&rows).Error
	})
	if err != nil {
		return nil, err
	}

	accesses := make([]RecentAccess, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		access := RecentAccess{
			ID:               row.ID,
			StoreID:          row.StoreID,
			DeviceID:         row.DeviceID,
			CapturedImageURL: row.CapturedImageURL,
			CreatedAt:        row.CreatedAt,
		}
		if row.CustomerName != nil {
			ref := CustomerRef{Name: *row.CustomerName}
			if row.CustomerImageURL != nil {
				ref.ImageURL = *row.CustomerImageURL
			}
			access.Customer = &ref
		}
		accesses = append(accesses, access)
	}
	return accesses, nil
}
