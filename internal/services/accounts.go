package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"buslink/internal/models"
	"buslink/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,32}$`)

// AccountService manages the local accounts backing UserDirectory.
type AccountService struct {
	db *gorm.DB
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

func (s *AccountService) Register(ctx context.Context, username, email, password, imageURL string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if !usernamePattern.MatchString(username) {
		return nil, Validation("username", "Username must be 3-32 letters, digits or underscores")
	}
	if parts := strings.Split(email, "@"); len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, Validation("email", "Invalid email address")
	}
	if len(password) < 6 {
		return nil, Validation("password", "Password must be at least 6 characters")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, Internal("failed to hash password", err)
	}
	if imageURL == "" {
		imageURL = utils.DefaultAvatarURL(username)
	}

	user := models.User{
		ID:       uuid.NewString(),
		Username: username,
		Email:    email,
		Password: hash,
		ImageURL: imageURL,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, Conflict("username or email already registered")
		}
		return nil, Internal("failed to create user", err)
	}
	return &user, nil
}

// Authenticate checks email and password and returns the matching user.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, Unauthorized("invalid email or password")
	}
	if err != nil {
		return nil, Internal("failed to load user", err)
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, Unauthorized("invalid email or password")
	}
	return &user, nil
}
