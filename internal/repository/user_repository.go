package repository

import (
	"gorm.io/gorm"

	"teamdash/internal/models"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List retrieves all users
func (r *GormUserRepository) List() ([]models.User, error) {
	var users []models.User
	if err := r.db.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update updates a user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// Delete deletes a user and cascades to their memberships and owned tasks.
// Everything happens in one transaction so no dangling reference is ever
// visible to a concurrent reader.
func (r *GormUserRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}

		if err := tx.Where("owner_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, id).Error
	})
}
