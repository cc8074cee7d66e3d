package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/paimonworks/harem-service/internal/config"
	"github.com/paimonworks/harem-service/internal/domain"
	"github.com/paimonworks/harem-service/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrBotNameExists      = errors.New("bot name already exists")
)

// AuthService authenticates host-bot service accounts. Each Discord
// bot process registers once, then logs in with its API key to obtain
// bearer tokens for the rest of the API.
type AuthService struct {
	botRepo     repository.BotAccountRepository
	sessionRepo repository.BotSessionRepository
	cfg         *config.Config
}

func NewAuthService(botRepo repository.BotAccountRepository, sessionRepo repository.BotSessionRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		botRepo:     botRepo,
		sessionRepo: sessionRepo,
		cfg:         cfg,
	}
}

type RegisterInput struct {
	Name   string
	APIKey string
}

type LoginInput struct {
	Name   string
	APIKey string
}

type AuthResult struct {
	Bot          *domain.BotAccount
	AccessToken  string
	RefreshToken string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	existing, err := s.botRepo.GetByName(ctx, input.Name)
	if err == nil && existing != nil {
		return nil, ErrBotNameExists
	}

	hashedKey, err := bcrypt.GenerateFromPassword([]byte(input.APIKey), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	bot := &domain.BotAccount{
		ID:         uuid.New(),
		Name:       input.Name,
		APIKeyHash: string(hashedKey),
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := s.botRepo.Create(ctx, bot); err != nil {
		return nil, err
	}

	return s.generateTokens(ctx, bot)
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	bot, err := s.botRepo.GetByName(ctx, input.Name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(bot.APIKeyHash), []byte(input.APIKey)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokens(ctx, bot)
}

func (s *AuthService) generateTokens(ctx context.Context, bot *domain.BotAccount) (*AuthResult, error) {
	accessToken, err := s.generateAccessToken(bot)
	if err != nil {
		return nil, err
	}

	refreshToken := uuid.New().String()
	hashedRefresh, err := bcrypt.GenerateFromPassword([]byte(refreshToken), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// Drop old sessions
	_ = s.sessionRepo.DeleteByBotID(ctx, bot.ID)

	session := &domain.BotSession{
		ID:               uuid.New(),
		BotID:            bot.ID,
		RefreshTokenHash: string(hashedRefresh),
		ExpiresAt:        time.Now().Add(7 * 24 * time.Hour),
		CreatedAt:        time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return &AuthResult{
		Bot:          bot,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *AuthService) generateAccessToken(bot *domain.BotAccount) (string, error) {
	claims := jwt.MapClaims{
		"sub":  bot.ID.String(),
		"name": bot.Name,
		"exp":  time.Now().Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) ValidateToken(tokenString string) (*jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return &claims, nil
	}

	return nil, errors.New("invalid token")
}

func (s *AuthService) GetBotByID(ctx context.Context, id uuid.UUID) (*domain.BotAccount, error) {
	return s.botRepo.GetByID(ctx, id)
}

func (s *AuthService) Logout(ctx context.Context, botID uuid.UUID) error {
	return s.sessionRepo.DeleteByBotID(ctx, botID)
}
