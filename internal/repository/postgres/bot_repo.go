package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/paimonworks/harem-service/internal/domain"
	"gorm.io/gorm"
)

type botAccountRepository struct {
	db *gorm.DB
}

func NewBotAccountRepository(db *gorm.DB) *botAccountRepository {
	return &botAccountRepository{db: db}
}

func (r *botAccountRepository) Create(ctx context.Context, bot *domain.BotAccount) error {
	return r.db.WithContext(ctx).Create(bot).Error
}

func (r *botAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.BotAccount, error) {
	var bot domain.BotAccount
	err := r.db.WithContext(ctx).First(&bot, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &bot, nil
}

func (r *botAccountRepository) GetByName(ctx context.Context, name string) (*domain.BotAccount, error) {
	var bot domain.BotAccount
	err := r.db.WithContext(ctx).First(&bot, "name = ?", name).Error
	if err != nil {
		return nil, err
	}
	return &bot, nil
}

type botSessionRepository struct {
	db *gorm.DB
}

func NewBotSessionRepository(db *gorm.DB) *botSessionRepository {
	return &botSessionRepository{db: db}
}

func (r *botSessionRepository) Create(ctx context.Context, session *domain.BotSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *botSessionRepository) GetByBotID(ctx context.Context, botID uuid.UUID) (*domain.BotSession, error) {
	var session domain.BotSession
	err := r.db.WithContext(ctx).First(&session, "bot_id = ?", botID).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *botSessionRepository) DeleteByBotID(ctx context.Context, botID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.BotSession{}, "bot_id = ?", botID).Error
}
