package postgres

import (
	"context"
	"time"

	"github.com/paimonworks/harem-service/internal/domain"
	"gorm.io/gorm"
)

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *profileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetOrCreate(ctx context.Context, userID string) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	err := r.db.WithContext(ctx).
		Where(domain.UserProfile{UserID: userID}).
		Attrs(domain.UserProfile{HaremTitle: "Harem"}).
		FirstOrCreate(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *domain.UserProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *profileRepository) RecordRoll(ctx context.Context, userID string, at time.Time) error {
	if _, err := r.GetOrCreate(ctx, userID); err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&domain.UserProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"last_roll":   at,
			"total_rolls": gorm.Expr("total_rolls + 1"),
		}).Error
}

func (r *profileRepository) RecordClaim(ctx context.Context, userID string) error {
	if _, err := r.GetOrCreate(ctx, userID); err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&domain.UserProfile{}).
		Where("user_id = ?", userID).
		Update("successful_claims", gorm.Expr("successful_claims + 1")).Error
}

func (r *profileRepository) ResetCooldown(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Model(&domain.UserProfile{}).
		Where("user_id = ?", userID).
		Update("last_roll", nil).Error
}

func (r *profileRepository) ResetAllCooldowns(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.UserProfile{}).
		Where("last_roll IS NOT NULL").
		Update("last_roll", nil)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
