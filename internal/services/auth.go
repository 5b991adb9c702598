package services

import (
	"errors"
	"strings"

	"funddesk/internal/logger"
	"funddesk/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// Authenticate verifies a username/password pair against the store.
func (s *AuthService) Authenticate(username, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (s *AuthService) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("username asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *AuthService) CreateUser(username, password string, role models.UserRole) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, validation(CodeEmptyField, "username and password must not be empty")
	}
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return nil, validation(CodeInvalidRole, "role must be admin or user")
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, validation(CodeDuplicateName, "username already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) SetRole(userID uint, role models.UserRole) error {
	if !role.Valid() {
		return validation(CodeInvalidRole, "role must be admin or user")
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	user.Role = role
	return s.db.Save(&user).Error
}

// EnsureAdmin seeds the default admin account on first start.
func (s *AuthService) EnsureAdmin(username, password string) error {
	var count int64
	if err := s.db.Model(&models.User{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := s.db.Create(&admin).Error; err != nil {
		return err
	}

	logger.Infof("created default admin user: %s", username)
	return nil
}
