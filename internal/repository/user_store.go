package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrUserNotFound is returned when a lookup matches no user.
var ErrUserNotFound = errors.New("user not found")

// User is a registered user of the platform.
type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserStore stores and retrieves users.
type UserStore struct {
	db *gorm.DB
}

// NewUserStore creates a UserStore and migrates its schema.
func NewUserStore(db *gorm.DB) *UserStore {
	db.AutoMigrate(&User{})
	return &UserStore{db: db}
}

// Create inserts a new user.
func (s *UserStore) Create(ctx context.Context, user *User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

// List returns all users, newest first.
func (s *UserStore) List(ctx context.Context) ([]User, error) {
	var users []User
	err := s.db.WithContext(ctx).Order("created_at desc").Find(&users).Error
	return users, err
}

// FindByEmail retrieves a user by email.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
