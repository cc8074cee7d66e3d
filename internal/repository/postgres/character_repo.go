package postgres

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/paimonworks/harem-service/internal/domain"
	"gorm.io/gorm"
)

type characterRepository struct {
	db *gorm.DB
}

func NewCharacterRepository(db *gorm.DB) *characterRepository {
	return &characterRepository{db: db}
}

func (r *characterRepository) Create(ctx context.Context, character *domain.Character) error {
	if err := character.Validate(); err != nil {
		return err
	}
	// Assign max existing id + 1 inside the insert transaction so two
	// concurrent inserts cannot pick the same id. Freed ids are never
	// reused.
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxID int64
		err := tx.Model(&domain.Character{}).
			Select("COALESCE(MAX(id::bigint), 0)").
			Scan(&maxID).Error
		if err != nil {
			return err
		}
		character.ID = strconv.FormatInt(maxID+1, 10)
		return tx.Create(character).Error
	})
}

func (r *characterRepository) GetByID(ctx context.Context, id string) (*domain.Character, error) {
	var character domain.Character
	err := r.db.WithContext(ctx).First(&character, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCharacterNotFound
		}
		return nil, err
	}
	return &character, nil
}

func (r *characterRepository) ListAvailable(ctx context.Context, gender *domain.Gender) ([]*domain.Character, error) {
	q := r.db.WithContext(ctx).Where("claimed_by IS NULL")
	if gender != nil {
		q = q.Where("gender = ?", *gender)
	}
	var characters []*domain.Character
	if err := q.Order("id::bigint ASC").Find(&characters).Error; err != nil {
		return nil, err
	}
	return characters, nil
}

func (r *characterRepository) ListAll(ctx context.Context, gender *domain.Gender) ([]*domain.Character, error) {
	q := r.db.WithContext(ctx)
	if gender != nil {
		q = q.Where("gender = ?", *gender)
	}
	var characters []*domain.Character
	if err := q.Order("id::bigint ASC").Find(&characters).Error; err != nil {
		return nil, err
	}
	return characters, nil
}

func (r *characterRepository) ListByOwner(ctx context.Context, userID string) ([]*domain.Character, error) {
	var characters []*domain.Character
	err := r.db.WithContext(ctx).
		Where("claimed_by = ?", userID).
		Order("id::bigint ASC").
		Find(&characters).Error
	if err != nil {
		return nil, err
	}
	return characters, nil
}

func (r *characterRepository) ListByAnime(ctx context.Context, anime string) ([]*domain.Character, error) {
	var characters []*domain.Character
	err := r.db.WithContext(ctx).
		Where("LOWER(anime) = ?", strings.ToLower(anime)).
		Order("id::bigint ASC").
		Find(&characters).Error
	if err != nil {
		return nil, err
	}
	return characters, nil
}

func (r *characterRepository) ListByRarity(ctx context.Context, rarity domain.Rarity) ([]*domain.Character, error) {
	var characters []*domain.Character
	err := r.db.WithContext(ctx).
		Where("rarity = ?", rarity).
		Order("id::bigint ASC").
		Find(&characters).Error
	if err != nil {
		return nil, err
	}
	return characters, nil
}

func (r *characterRepository) Search(ctx context.Context, query string) ([]*domain.Character, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	var characters []*domain.Character
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(anime) LIKE ?", pattern, pattern).
		Order("id::bigint ASC").
		Find(&characters).Error
	if err != nil {
		return nil, err
	}
	return characters, nil
}

// Claim is a single conditional UPDATE; the database row is the
// serialization point, so two racing claims on one character resolve to
// exactly one winner.
func (r *characterRepository) Claim(ctx context.Context, id, userID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Character{}).
		Where("id = ? AND claimed_by IS NULL", id).
		Update("claimed_by", userID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *characterRepository) Release(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Character{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"claimed_by": nil, "married_to": nil})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *characterRepository) Marry(ctx context.Context, id, userID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Character{}).
		Where("id = ? AND claimed_by = ?", id, userID).
		Update("married_to", userID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *characterRepository) Divorce(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Character{}).
		Where("id = ?", id).
		Update("married_to", nil)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *characterRepository) Update(ctx context.Context, character *domain.Character) error {
	if err := character.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(character).Error
}

func (r *characterRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&domain.Character{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *characterRepository) Stats(ctx context.Context) (*domain.CatalogStats, error) {
	stats := &domain.CatalogStats{
		ByRarity: make(map[domain.Rarity]int64),
		ByGender: make(map[domain.Gender]int64),
		ByAnime:  make(map[string]int64),
	}

	db := r.db.WithContext(ctx).Model(&domain.Character{})
	if err := db.Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&domain.Character{}).
		Where("claimed_by IS NOT NULL").Count(&stats.Claimed).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&domain.Character{}).
		Where("married_to IS NOT NULL").Count(&stats.Married).Error; err != nil {
		return nil, err
	}
	stats.Available = stats.Total - stats.Claimed

	type bucket struct {
		Key   string
		Count int64
	}

	var rarities []bucket
	err := r.db.WithContext(ctx).Model(&domain.Character{}).
		Select("rarity AS key, COUNT(*) AS count").
		Group("rarity").
		Scan(&rarities).Error
	if err != nil {
		return nil, err
	}
	for _, b := range rarities {
		stats.ByRarity[domain.Rarity(b.Key)] = b.Count
	}

	var genders []bucket
	err = r.db.WithContext(ctx).Model(&domain.Character{}).
		Select("gender AS key, COUNT(*) AS count").
		Group("gender").
		Scan(&genders).Error
	if err != nil {
		return nil, err
	}
	for _, b := range genders {
		stats.ByGender[domain.Gender(b.Key)] = b.Count
	}

	var animes []bucket
	err = r.db.WithContext(ctx).Model(&domain.Character{}).
		Select("anime AS key, COUNT(*) AS count").
		Group("anime").
		Scan(&animes).Error
	if err != nil {
		return nil, err
	}
	for _, b := range animes {
		stats.ByAnime[b.Key] = b.Count
	}

	return stats, nil
}

func (r *characterRepository) ExportAll(ctx context.Context) (domain.SnapshotMap, error) {
	var characters []*domain.Character
	if err := r.db.WithContext(ctx).Find(&characters).Error; err != nil {
		return nil, err
	}
	snapshot := make(domain.SnapshotMap, len(characters))
	for _, c := range characters {
		snapshot[c.ID] = c.Snapshot()
	}
	return snapshot, nil
}

func (r *characterRepository) ImportAll(ctx context.Context, snapshot domain.SnapshotMap) error {
	characters := make([]*domain.Character, 0, len(snapshot))
	for id, record := range snapshot {
		c := record.Character(id)
		if err := c.Validate(); err != nil {
			return err
		}
		characters = append(characters, c)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&domain.Character{}).Error; err != nil {
			return err
		}
		if len(characters) == 0 {
			return nil
		}
		return tx.Create(characters).Error
	})
}
