package repositories

import (
	"errors"

	"shiftscore_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	Create(db *gorm.DB, user *models.User) error
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	FindByStripeCustomerID(db *gorm.DB, customerID string) (*models.User, error)
	Update(db *gorm.DB, user *models.User) error
	SetStripeCustomerID(db *gorm.DB, userID, customerID string) error
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) Create(db *gorm.DB, user *models.User) error {
	return db.Create(user).Error
}

func (r *UserRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	err := db.First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByStripeCustomerID(db *gorm.DB, customerID string) (*models.User, error) {
	var user models.User
	err := db.Where("stripe_customer_id = ?", customerID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Update(db *gorm.DB, user *models.User) error {
	return db.Save(user).Error
}

func (r *UserRepositoryImpl) SetStripeCustomerID(db *gorm.DB, userID, customerID string) error {
	return db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("stripe_customer_id", customerID).Error
}
