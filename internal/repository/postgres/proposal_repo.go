package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/paimonworks/harem-service/internal/domain"
	"gorm.io/gorm"
)

type proposalRepository struct {
	db *gorm.DB
}

func NewProposalRepository(db *gorm.DB) *proposalRepository {
	return &proposalRepository{db: db}
}

func (r *proposalRepository) Create(ctx context.Context, proposal *domain.MarriageProposal) error {
	return r.db.WithContext(ctx).Create(proposal).Error
}

func (r *proposalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.MarriageProposal, error) {
	var proposal domain.MarriageProposal
	err := r.db.WithContext(ctx).First(&proposal, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProposalNotFound
		}
		return nil, err
	}
	return &proposal, nil
}

func (r *proposalRepository) Update(ctx context.Context, proposal *domain.MarriageProposal) error {
	return r.db.WithContext(ctx).Save(proposal).Error
}

func (r *proposalRepository) GetPending(ctx context.Context, proposerID, targetUserID string) (*domain.MarriageProposal, error) {
	var proposal domain.MarriageProposal
	err := r.db.WithContext(ctx).
		Where("proposer_id = ? AND target_user_id = ? AND status = ?",
			proposerID, targetUserID, domain.ProposalStatusPending).
		Order("created_at DESC").
		First(&proposal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProposalNotFound
		}
		return nil, err
	}
	return &proposal, nil
}
