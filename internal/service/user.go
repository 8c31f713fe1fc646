package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pageza/recipe-api/backend/internal/models"
	"github.com/pageza/recipe-api/backend/internal/types"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MinPasswordLength is the shortest password accepted on signup and profile update
const MinPasswordLength = 8

const (
	msgEmailRequired  = "This field may not be blank."
	msgEmailTaken     = "user with this email already exists."
	msgPasswordLength = "Ensure this field has at least 8 characters."
)

// UserService manages accounts
type UserService struct {
	db *gorm.DB
}

// Ensure UserService implements IUserService
var _ IUserService = (*UserService)(nil)

// NewUserService creates a new UserService instance
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// NormalizeEmail lowercases the domain part of an email address.
// The local part is kept as given. Values without an @ are returned trimmed.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

// CheckPassword reports a validation error when password is too short
func CheckPassword(password string) error {
	if len(password) < MinPasswordLength {
		return NewValidationError("password", msgPasswordLength)
	}
	return nil
}

// CreateAccount registers a regular user
func (s *UserService) CreateAccount(ctx context.Context, email, password, name string) (*models.User, error) {
	return s.create(ctx, email, password, name, false)
}

// CreatePrivilegedAccount registers a user with staff and superuser flags set
func (s *UserService) CreatePrivilegedAccount(ctx context.Context, email, password string) (*models.User, error) {
	return s.create(ctx, email, password, "", true)
}

func (s *UserService) create(ctx context.Context, email, password, name string, privileged bool) (*models.User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, NewValidationError("email", msgEmailRequired)
	}
	if err := CheckPassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
		IsActive:     true,
		IsStaff:      privileged,
		IsSuperuser:  privileged,
		DateJoined:   time.Now().UTC(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureEmailFree(tx, email, 0); err != nil {
			return err
		}
		return tx.Create(user).Error
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetByEmail looks a user up by normalized email
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// GetByID looks a user up by id
func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// UpdateProfile applies the non-nil fields of req to user and saves it
func (s *UserService) UpdateProfile(ctx context.Context, user *models.User, req *types.UpdateUserRequest) (*models.User, error) {
	updated := *user

	if req.Name != nil {
		updated.Name = strings.TrimSpace(*req.Name)
	}
	if req.Password != nil {
		if err := CheckPassword(*req.Password); err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		updated.PasswordHash = string(hash)
	}
	if req.Email != nil {
		updated.Email = NormalizeEmail(*req.Email)
		if updated.Email == "" {
			return nil, NewValidationError("email", msgEmailRequired)
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if updated.Email != user.Email {
			if err := ensureEmailFree(tx, updated.Email, user.ID); err != nil {
				return err
			}
		}
		return tx.Model(&models.User{ID: user.ID}).
			Select("email", "name", "password_hash").
			Updates(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// ListUsers returns every account ordered by id
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func ensureEmailFree(tx *gorm.DB, email string, exceptID uint) error {
	var count int64
	q := tx.Model(&models.User{}).Where("email = ?", email)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return NewValidationError("email", msgEmailTaken)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
