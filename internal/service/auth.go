package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/argon2"

	"aletheia/internal/models"
	"aletheia/internal/repository"
)

var (
	ErrProgenitorExists   = errors.New("progenitor already exists")
	ErrInvalidKey         = errors.New("invalid progenitor key")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

var jwtSecret = func() []byte {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("aletheia-dev-secret")
}()

// GetJWTSecret returns the JWT secret key.
func GetJWTSecret() []byte {
	return jwtSecret
}

type AuthService interface {
	RegisterProgenitor(email, password, name, progenitorKey string) (*models.User, error)
	Login(email, password string) (string, time.Time, error)
}

type authService struct {
	repo   repository.AuthRepository
	logger *zap.Logger
}

func NewAuthService(repo repository.AuthRepository, logger *zap.Logger) AuthService {
	return &authService{repo: repo, logger: logger}
}

// RegisterProgenitor creates the single administrative user. The progenitor
// key comes from the environment; registration is rejected once a
// progenitor exists.
func (s *authService) RegisterProgenitor(email, password, name, progenitorKey string) (*models.User, error) {
	expected := os.Getenv("PROGENITOR_KEY")
	if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(progenitorKey)) != 1 {
		return nil, ErrInvalidKey
	}

	count, err := s.repo.CountProgenitors()
	if err != nil {
		s.logger.Error("Failed to count progenitors", zap.Error(err))
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}
	if count > 0 {
		return nil, ErrProgenitorExists
	}

	passwordHash, err := s.hashPassword(password)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		IsProgenitor: true,
	}
	if err := s.repo.CreateUser(user); err != nil {
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *authService) Login(email, password string) (string, time.Time, error) {
	user, err := s.repo.GetUserByEmail(email)
	if err != nil {
		s.logger.Error("Failed to get user by email", zap.Error(err))
		return "", time.Time{}, ErrUserNotFound
	}

	if !s.verifyPassword(user.PasswordHash, password) {
		return "", time.Time{}, ErrInvalidCredentials
	}

	expirationTime := time.Now().Add(24 * time.Hour)
	claims := &models.Claims{
		Email:        user.Email,
		IsProgenitor: user.IsProgenitor,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		s.logger.Error("Failed to generate JWT token", zap.Error(err))
		return "", time.Time{}, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("User logged in", zap.String("email", user.Email))
	return tokenString, expirationTime, nil
}

// hashPassword uses Argon2id and encodes salt and hash together.
func (s *authService) hashPassword(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)

	encodedSalt := base64.RawStdEncoding.EncodeToString(salt)
	encodedHash := base64.RawStdEncoding.EncodeToString(hash)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, 64*1024, 1, 4, encodedSalt, encodedHash), nil
}

// verifyPassword re-hashes the candidate with the stored parameters and
// compares in constant time.
func (s *authService) verifyPassword(hashedPassword, password string) bool {
	sections := strings.Split(strings.TrimPrefix(hashedPassword, "$"), "$")
	if len(sections) != 5 {
		s.logger.Error("Invalid password hash format", zap.Int("sections", len(sections)))
		return false
	}

	var version int
	fmt.Sscanf(sections[1], "v=%d", &version)
	var m, t, p uint32
	fmt.Sscanf(sections[2], "m=%d,t=%d,p=%d", &m, &t, &p)

	salt, err := base64.RawStdEncoding.DecodeString(sections[3])
	if err != nil {
		return false
	}
	hash, err := base64.RawStdEncoding.DecodeString(sections[4])
	if err != nil {
		return false
	}

	candidate := argon2.IDKey([]byte(password), salt, t, m, uint8(p), uint32(len(hash)))
	return subtle.ConstantTimeCompare(candidate, hash) == 1
}
