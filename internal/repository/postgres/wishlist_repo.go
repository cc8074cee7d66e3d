package postgres

import (
	"context"
	"strings"

	"github.com/paimonworks/harem-service/internal/domain"
	"gorm.io/gorm"
)

type wishlistRepository struct {
	db *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) *wishlistRepository {
	return &wishlistRepository{db: db}
}

func (r *wishlistRepository) Add(ctx context.Context, entry *domain.WishlistEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *wishlistRepository) Remove(ctx context.Context, userID, characterName string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND LOWER(character_name) = ?", userID, strings.ToLower(characterName)).
		Delete(&domain.WishlistEntry{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *wishlistRepository) Clear(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&domain.WishlistEntry{}).Error
}

func (r *wishlistRepository) ListByUser(ctx context.Context, userID string) ([]*domain.WishlistEntry, error) {
	var entries []*domain.WishlistEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *wishlistRepository) Exists(ctx context.Context, userID, characterName string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.WishlistEntry{}).
		Where("user_id = ? AND LOWER(character_name) = ?", userID, strings.ToLower(characterName)).
		Count(&count).Error
	return count > 0, err
}

func (r *wishlistRepository) FindUsersWanting(ctx context.Context, characterName string) ([]string, error) {
	var userIDs []string
	err := r.db.WithContext(ctx).
		Model(&domain.WishlistEntry{}).
		Where("LOWER(character_name) = ?", strings.ToLower(characterName)).
		Distinct().
		Pluck("user_id", &userIDs).Error
	if err != nil {
		return nil, err
	}
	return userIDs, nil
}
