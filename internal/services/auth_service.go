package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/demandhub/backend/internal/config"
	"github.com/demandhub/backend/internal/logger"
	"github.com/demandhub/backend/internal/models"
)

const (
	tokenTTL         = 24 * time.Hour
	maxLoginAttempts = 5
	lockoutDuration  = 15 * time.Minute
)

// Claims are the JWT claims issued at login.
type Claims struct {
	UserID   uint   `json:"uid"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	db      *gorm.DB
	secret  []byte
	pinHash []byte
	now     func() time.Time
}

// NewAuthService hashes the configured access PIN once. Without a JWT
// secret a random one is generated, so tokens die with the process.
func NewAuthService(db *gorm.DB, cfg config.Config) *AuthService {
	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			panic(fmt.Sprintf("generate jwt secret: %v", err))
		}
		secret = []byte(hex.EncodeToString(buf))
		logger.Component("auth").Warn("DEMAND_JWT_SECRET not set, using an ephemeral signing key")
	}
	pinHash, err := bcrypt.GenerateFromPassword([]byte(cfg.AccessPIN), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("hash access pin: %v", err))
	}
	return &AuthService{db: db, secret: secret, pinHash: pinHash, now: time.Now}
}

// Register creates an account. The first account becomes admin.
func (s *AuthService) Register(username, password, name string) (*models.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required")
	}

	var existing int64
	if err := s.db.Model(&models.User{}).Where("username = ?", username).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrUserExists
	}

	var count int64
	if err := s.db.Model(&models.User{}).Count(&count).Error; err != nil {
		return nil, err
	}
	user := &models.User{
		UUID:     uuid.NewString(),
		Username: username,
		Name:     strings.TrimSpace(name),
		Role:     models.RoleManager,
	}
	if count == 0 {
		user.Role = models.RoleAdmin
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks the password and returns a signed token. Five failures in a
// row lock the account for fifteen minutes.
func (s *AuthService) Login(username, password string) (string, *models.User, error) {
	var user models.User
	err := s.db.Where("username = ?", strings.ToLower(strings.TrimSpace(username))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	now := s.now()
	if user.LockedUntil != nil && user.LockedUntil.After(now) {
		return "", nil, ErrAccountLocked
	}

	if !user.CheckPassword(password) {
		user.FailedLoginAttempts++
		if user.FailedLoginAttempts >= maxLoginAttempts {
			until := now.Add(lockoutDuration)
			user.LockedUntil = &until
		}
		if err := s.db.Save(&user).Error; err != nil {
			logger.Component("auth").WithError(err).WithField("username", user.Username).Error("Failed to record failed login")
			return "", nil, fmt.Errorf("record failed login: %w", err)
		}
		return "", nil, ErrInvalidCredentials
	}

	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLogin = &now
	if err := s.db.Save(&user).Error; err != nil {
		return "", nil, err
	}

	token, err := s.GenerateToken(&user)
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}

// GenerateToken signs an HS256 token for user.
func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Name:     user.DisplayName(),
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UUID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ValidateToken parses and verifies a token.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GetUserByID loads an account.
func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// VerifyPIN checks the comarca access PIN.
func (s *AuthService) VerifyPIN(pin string) error {
	if bcrypt.CompareHashAndPassword(s.pinHash, []byte(pin)) != nil {
		return ErrInvalidPIN
	}
	return nil
}
