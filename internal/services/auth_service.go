package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/necroledger/necroledger-api/internal/config"
	"github.com/necroledger/necroledger-api/internal/models"
	"github.com/necroledger/necroledger-api/internal/repository"
	"github.com/necroledger/necroledger-api/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MinPasswordLength is the shortest password accepted by ChangePassword
const MinPasswordLength = 6

// MaxPasswordLength is the bcrypt input limit in bytes
const MaxPasswordLength = 72

// AuthService handles authentication operations
type AuthService struct {
	repos *repository.Repositories
	cfg   *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(repos *repository.Repositories, cfg *config.Config) *AuthService {
	return &AuthService{
		repos: repos,
		cfg:   cfg,
	}
}

// LoginResult represents the result of a login attempt
type LoginResult struct {
	Token string              `json:"token"`
	User  models.UserResponse `json:"user"`
}

// Login verifies the credentials of an active user. Both outcomes are audited;
// unknown users, wrong passwords and unreadable hashes all yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.repos.User.FindActiveByUsername(ctx, username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("buscar usuario: %w", err)
	}

	if user == nil || !VerifyPassword(password, user.PasswordHash) {
		var userID *uint
		if user != nil {
			userID = &user.ID
		}
		s.audit(ctx, &models.AuditLog{
			UserID:        userID,
			Action:        models.AuditLoginFailed,
			AffectedTable: models.AuditTableUsers,
			RecordID:      userID,
			Details:       fmt.Sprintf("Intento de login fallido para usuario: %s", username),
		})
		return nil, ErrInvalidCredentials
	}

	s.audit(ctx, &models.AuditLog{
		UserID:        &user.ID,
		Action:        models.AuditLoginSucceeded,
		AffectedTable: models.AuditTableUsers,
		RecordID:      &user.ID,
		Details:       fmt.Sprintf("Usuario %s inició sesión", user.Username),
	})

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, errors.New("error al generar token")
	}

	return &LoginResult{
		Token: token,
		User:  user.ToResponse(),
	}, nil
}

// ChangePassword replaces the password hash and appends CAMBIO_PASSWORD in one transaction
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return fmt.Errorf("%w: debe tener al menos %d caracteres", ErrInvalidPassword, MinPasswordLength)
	}
	if len(newPassword) > MaxPasswordLength {
		return fmt.Errorf("%w: no puede exceder %d bytes", ErrInvalidPassword, MaxPasswordLength)
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		user, err := tx.User.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: usuario %d", ErrNotFound, userID)
			}
			return err
		}
		if err := tx.User.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
			return err
		}
		return tx.Audit.Create(ctx, &models.AuditLog{
			UserID:        &user.ID,
			Action:        models.AuditPasswordChange,
			AffectedTable: models.AuditTableUsers,
			RecordID:      &user.ID,
			Details:       fmt.Sprintf("Usuario %s cambió su contraseña", user.Username),
		})
	})
}

// audit records a login outcome. A failed write is logged and does not change the login result.
func (s *AuthService) audit(ctx context.Context, entry *models.AuditLog) {
	if err := s.repos.Audit.Create(ctx, entry); err != nil {
		logger.Error("[AuthService] Error writing audit log", "action", entry.Action, "error", err)
	}
}

// generateJWT creates a new JWT token for a user
func (s *AuthService) generateJWT(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// VerifyPassword compares a password with a hash. A malformed hash is a mismatch.
func VerifyPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
