package datastore

// CreateUser inserts a new user record.
func (ds *DataStore) CreateUser(user *User) error {
	return ds.withRetry("create_user", func() error {
		return ds.DB.Create(user).Error
	})
}

// GetUser retrieves a user by id.
func (ds *DataStore) GetUser(id uint) (*User, error) {
	var user User
	err := ds.withRetry("get_user", func() error {
		return ds.DB.First(&user, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email.
func (ds *DataStore) GetUserByEmail(email string) (*User, error) {
	var user User
	err := ds.withRetry("get_user_by_email", func() error {
		return ds.DB.Where("email = ?", email).First(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetAllUsers returns all users, newest first.
func (ds *DataStore) GetAllUsers() ([]User, error) {
	var users []User
	err := ds.withRetry("get_all_users", func() error {
		return ds.DB.Order("created_at DESC").Find(&users).Error
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUserPassword replaces the stored password hash of a user.
func (ds *DataStore) UpdateUserPassword(id uint, passwordHash string) error {
	return ds.withRetry("update_user_password", func() error {
		return ds.DB.Model(&User{}).Where("id = ?", id).
			Update("password", passwordHash).Error
	})
}

// FirstUserByRole returns the first user carrying the given role.
func (ds *DataStore) FirstUserByRole(role string) (*User, error) {
	var user User
	err := ds.withRetry("first_user_by_role", func() error {
		return ds.DB.Where("role = ?", role).Order("id ASC").First(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
