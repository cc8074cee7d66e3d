package postgres

import (
	"context"

	"github.com/paimonworks/harem-service/internal/domain"
	"gorm.io/gorm"
)

type marriageRepository struct {
	db *gorm.DB
}

func NewMarriageRepository(db *gorm.DB) *marriageRepository {
	return &marriageRepository{db: db}
}

func (r *marriageRepository) Create(ctx context.Context, marriage *domain.Marriage) error {
	return r.db.WithContext(ctx).Create(marriage).Error
}

func (r *marriageRepository) CreatePair(ctx context.Context, a, b *domain.Marriage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(a).Error; err != nil {
			return err
		}
		return tx.Create(b).Error
	})
}

func (r *marriageRepository) Delete(ctx context.Context, userID string, targetType domain.MarriageTargetType, targetID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		Delete(&domain.Marriage{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *marriageRepository) DeleteByTarget(ctx context.Context, targetType domain.MarriageTargetType, targetID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Delete(&domain.Marriage{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *marriageRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Marriage, error) {
	var marriages []*domain.Marriage
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&marriages).Error
	if err != nil {
		return nil, err
	}
	return marriages, nil
}

func (r *marriageRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Marriage{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *marriageRepository) Exists(ctx context.Context, userID string, targetType domain.MarriageTargetType, targetID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Marriage{}).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		Count(&count).Error
	return count > 0, err
}
