package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/raidroad/roadwatch/internal/models"
	"github.com/raidroad/roadwatch/internal/repository"
	"github.com/raidroad/roadwatch/internal/utils"
	"github.com/raidroad/roadwatch/pkg/logger"
	"go.uber.org/zap"
)

var (
	ErrInvalidUsername = errors.New("username must be 2-30 characters")
	ErrTelegramAuth    = errors.New("telegram login verification failed")
)

// telegramAuthMaxAge bounds how old a Telegram login payload may be.
const telegramAuthMaxAge = 24 * time.Hour

type AuthService struct {
	userRepo      *repository.UserRepository
	jwtSecret     string
	jwtExpiration time.Duration
	botToken      string
	environment   string
}

func NewAuthService(userRepo *repository.UserRepository, jwtSecret string, jwtExpiration time.Duration, botToken, environment string) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		botToken:      botToken,
		environment:   environment,
	}
}

// IsProduction returns true if running in production environment
func (s *AuthService) IsProduction() bool {
	return s.environment == "production"
}

// Login creates the user on first sight and issues a session token.
// Identity is just the username; verification happens upstream (Telegram)
// or not at all (dev login).
func (s *AuthService) Login(username string) (*models.User, string, error) {
	username = strings.TrimSpace(username)

	logger.Log.Debug("Processing login",
		zap.String("username", username),
	)

	// 1. Validate username length
	if len(username) < 2 || len(username) > 30 {
		logger.Log.Warn("Login validation failed",
			zap.String("username", username),
		)
		return nil, "", ErrInvalidUsername
	}

	// 2. Idempotently create the user
	if err := s.userRepo.EnsureUser(username); err != nil {
		logger.Log.Error("Failed to ensure user",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, "", err
	}

	// 3. Load the user row (trust level may be above the default)
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		logger.Log.Error("Failed to load user after ensure",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, "", err
	}

	// 4. Generate JWT token
	token, err := utils.GenerateToken(user, s.jwtSecret, s.jwtExpiration)
	if err != nil {
		logger.Log.Error("Failed to generate JWT token",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, "", err
	}

	logger.Log.Info("User logged in",
		zap.String("username", username),
		zap.Int("trust_level", user.TrustLevel),
	)

	return user, token, nil
}

// VerifyTelegramLogin checks a Telegram Login Widget payload and, when valid,
// logs the user in under their Telegram username. The signature is
// HMAC-SHA256 over the sorted data-check-string, keyed with SHA256(bot token).
func (s *AuthService) VerifyTelegramLogin(fields map[string]string) (*models.User, string, error) {
	hash := fields["hash"]
	if hash == "" || s.botToken == "" {
		return nil, "", ErrTelegramAuth
	}

	// 1. Build the data-check-string: every field except hash, sorted,
	// joined as key=value lines.
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == "hash" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+fields[k])
	}
	checkString := strings.Join(pairs, "\n")

	// 2. Verify the signature
	secret := sha256.Sum256([]byte(s.botToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(checkString))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(hash)) {
		logger.Log.Warn("Telegram login hash mismatch",
			zap.String("username", fields["username"]),
		)
		return nil, "", ErrTelegramAuth
	}

	// 3. Reject stale payloads
	authDate, err := strconv.ParseInt(fields["auth_date"], 10, 64)
	if err != nil || time.Since(time.Unix(authDate, 0)) > telegramAuthMaxAge {
		logger.Log.Warn("Telegram login payload stale or malformed",
			zap.String("username", fields["username"]),
		)
		return nil, "", ErrTelegramAuth
	}

	username := fields["username"]
	if username == "" {
		return nil, "", ErrTelegramAuth
	}

	return s.Login(username)
}
