package user

import (
	"context"
	"errors"
	"fmt"

	"nexoecos/internal/common"
	"nexoecos/internal/dbmysql"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) UserByID(ctx context.Context, id int64) (*dbmysql.User, error) {
	var u dbmysql.User
	if err := r.db.WithContext(ctx).Preload("Profile").First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user: %w", common.ErrNotFound)
		}
		return nil, err
	}
	return &u, nil
}

// ByEmail matches case-insensitively; emails from the identity
// provider may differ in case from what the user typed at sign-up.
func (r *UserRepository) ByEmail(ctx context.Context, email string) (*dbmysql.User, error) {
	var u dbmysql.User
	err := r.db.WithContext(ctx).Preload("Profile").
		Where("LOWER(email) = LOWER(?)", email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user: %w", common.ErrNotFound)
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&dbmysql.User{}).
		Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// CreateUser inserts the user and an empty profile in one transaction
func (r *UserRepository) CreateUser(ctx context.Context, u *dbmysql.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Profile").Create(u).Error; err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		u.Profile.UserID = u.ID
		if err := tx.Create(&u.Profile).Error; err != nil {
			return fmt.Errorf("create profile: %w", err)
		}
		return nil
	})
}

func (r *UserRepository) UpdateProfile(ctx context.Context, p *dbmysql.Profile) error {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}
