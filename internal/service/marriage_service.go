package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/paimonworks/harem-service/internal/domain"
	"github.com/paimonworks/harem-service/internal/economy"
	"github.com/paimonworks/harem-service/internal/notify"
	"github.com/paimonworks/harem-service/internal/repository"
)

// MarriageService handles marriages to owned characters and mutual
// marriages between users, including the proposal/consent flow. Every
// paid path debits the bank before any marriage state is written, so a
// failed debit leaves nothing to roll back.
type MarriageService struct {
	characterRepo repository.CharacterRepository
	marriageRepo  repository.MarriageRepository
	proposalRepo  repository.ProposalRepository
	guildRepo     repository.GuildPolicyRepository
	bank          economy.Gate
	notifier      notify.Notifier
	publisher     EventPublisher
}

func NewMarriageService(
	characterRepo repository.CharacterRepository,
	marriageRepo repository.MarriageRepository,
	proposalRepo repository.ProposalRepository,
	guildRepo repository.GuildPolicyRepository,
	bank economy.Gate,
	notifier notify.Notifier,
	publisher EventPublisher,
) *MarriageService {
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &MarriageService{
		characterRepo: characterRepo,
		marriageRepo:  marriageRepo,
		proposalRepo:  proposalRepo,
		guildRepo:     guildRepo,
		bank:          bank,
		notifier:      notifier,
		publisher:     publisher,
	}
}

type MarryCharacterInput struct {
	GuildID     string
	UserID      string
	CharacterID string
}

// MarryCharacter marries the caller to a character they have claimed.
func (s *MarriageService) MarryCharacter(ctx context.Context, input MarryCharacterInput) (*domain.Marriage, error) {
	policy, err := s.guildRepo.GetOrCreate(ctx, input.GuildID)
	if err != nil {
		return nil, err
	}
	if !policy.Enabled {
		return nil, domain.ErrFeatureDisabled
	}

	character, err := s.characterRepo.GetByID(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}
	if character.ClaimedBy == nil || *character.ClaimedBy != input.UserID {
		return nil, domain.ErrCharacterNotOwned
	}

	if err := s.checkMarriageRoom(ctx, input.UserID, policy, domain.MarriageTargetCharacter, input.CharacterID); err != nil {
		return nil, err
	}

	if err := s.bank.Debit(ctx, input.GuildID, input.UserID, policy.MarriageCost); err != nil {
		return nil, err
	}

	married, err := s.characterRepo.Marry(ctx, input.CharacterID, input.UserID)
	if err != nil {
		return nil, err
	}
	if !married {
		// Ownership changed between the precondition check and the
		// compare-and-set.
		return nil, domain.ErrCharacterNotOwned
	}

	marriage := &domain.Marriage{
		ID:         uuid.New(),
		UserID:     input.UserID,
		TargetType: domain.MarriageTargetCharacter,
		TargetID:   input.CharacterID,
	}
	if err := s.marriageRepo.Create(ctx, marriage); err != nil {
		return nil, err
	}

	s.publisher.Publish(input.GuildID, EventMarriageCompleted, marriage)
	return marriage, nil
}

type ProposeInput struct {
	GuildID      string
	ProposerID   string
	TargetUserID string
}

// Propose opens a consent window for a mutual marriage. The marriage
// itself only happens if the target accepts before the window closes;
// no answer counts as a decline.
func (s *MarriageService) Propose(ctx context.Context, input ProposeInput) (*domain.MarriageProposal, error) {
	policy, err := s.guildRepo.GetOrCreate(ctx, input.GuildID)
	if err != nil {
		return nil, err
	}
	if !policy.Enabled {
		return nil, domain.ErrFeatureDisabled
	}

	if err := s.checkMarriageRoom(ctx, input.ProposerID, policy, domain.MarriageTargetUser, input.TargetUserID); err != nil {
		return nil, err
	}

	balance, err := s.bank.Balance(ctx, input.GuildID, input.ProposerID)
	if err != nil {
		return nil, err
	}
	if balance < policy.MarriageCost {
		return nil, domain.ErrInsufficientFunds
	}

	// An unanswered earlier proposal to the same target is reused
	// rather than stacked.
	if existing, err := s.proposalRepo.GetPending(ctx, input.ProposerID, input.TargetUserID); err == nil && !existing.IsExpired() {
		return existing, nil
	}

	now := time.Now()
	proposal := &domain.MarriageProposal{
		ID:           uuid.New(),
		GuildID:      input.GuildID,
		ProposerID:   input.ProposerID,
		TargetUserID: input.TargetUserID,
		Cost:         policy.MarriageCost,
		Status:       domain.ProposalStatusPending,
		CreatedAt:    now,
		ExpiresAt:    now.Add(domain.ProposalExpiryDuration),
	}
	if err := s.proposalRepo.Create(ctx, proposal); err != nil {
		return nil, err
	}

	s.publisher.Publish(input.GuildID, EventProposalCreated, proposal)
	s.notifier.Notify(ctx, input.TargetUserID,
		fmt.Sprintf("You have a marriage proposal. It expires in %s.", domain.ProposalExpiryDuration))

	return proposal, nil
}

// Respond records the target's answer. Accepting after the window has
// passed is treated as the timeout decline, not an error in the bank
// or the marriage books.
func (s *MarriageService) Respond(ctx context.Context, proposalID uuid.UUID, responderID string, accept bool) (*domain.MarriageProposal, error) {
	proposal, err := s.proposalRepo.GetByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if proposal.TargetUserID != responderID {
		return nil, domain.ErrNotProposalTarget
	}
	if proposal.Status != domain.ProposalStatusPending {
		return nil, domain.ErrProposalResolved
	}
	if proposal.IsExpired() {
		proposal.Status = domain.ProposalStatusExpired
		if err := s.proposalRepo.Update(ctx, proposal); err != nil {
			return nil, err
		}
		s.publisher.Publish(proposal.GuildID, EventProposalResolved, proposal)
		return proposal, nil
	}

	if !accept {
		proposal.Status = domain.ProposalStatusDeclined
		if err := s.proposalRepo.Update(ctx, proposal); err != nil {
			return nil, err
		}
		s.publisher.Publish(proposal.GuildID, EventProposalResolved, proposal)
		return proposal, nil
	}

	policy, err := s.guildRepo.GetOrCreate(ctx, proposal.GuildID)
	if err != nil {
		return nil, err
	}
	// Re-check the proposer's room: their books may have changed while
	// the proposal waited.
	if err := s.checkMarriageRoom(ctx, proposal.ProposerID, policy, domain.MarriageTargetUser, proposal.TargetUserID); err != nil {
		return nil, err
	}

	if err := s.bank.Debit(ctx, proposal.GuildID, proposal.ProposerID, proposal.Cost); err != nil {
		return nil, err
	}

	err = s.marriageRepo.CreatePair(ctx,
		&domain.Marriage{
			ID:         uuid.New(),
			UserID:     proposal.ProposerID,
			TargetType: domain.MarriageTargetUser,
			TargetID:   proposal.TargetUserID,
		},
		&domain.Marriage{
			ID:         uuid.New(),
			UserID:     proposal.TargetUserID,
			TargetType: domain.MarriageTargetUser,
			TargetID:   proposal.ProposerID,
		},
	)
	if err != nil {
		return nil, err
	}

	proposal.Status = domain.ProposalStatusAccepted
	if err := s.proposalRepo.Update(ctx, proposal); err != nil {
		return nil, err
	}

	s.publisher.Publish(proposal.GuildID, EventProposalResolved, proposal)
	s.publisher.Publish(proposal.GuildID, EventMarriageCompleted, map[string]string{
		"userId":   proposal.ProposerID,
		"targetId": proposal.TargetUserID,
	})
	s.notifier.Notify(ctx, proposal.ProposerID, "Your marriage proposal was accepted.")

	return proposal, nil
}

func (s *MarriageService) GetProposal(ctx context.Context, id uuid.UUID) (*domain.MarriageProposal, error) {
	return s.proposalRepo.GetByID(ctx, id)
}

type DivorceInput struct {
	GuildID    string
	UserID     string
	TargetType domain.MarriageTargetType
	TargetID   string
}

// Divorce dissolves one marriage entry, cost-gated but needing no
// consent. User divorces remove both directions.
func (s *MarriageService) Divorce(ctx context.Context, input DivorceInput) error {
	policy, err := s.guildRepo.GetOrCreate(ctx, input.GuildID)
	if err != nil {
		return err
	}
	if !policy.Enabled {
		return domain.ErrFeatureDisabled
	}

	married, err := s.marriageRepo.Exists(ctx, input.UserID, input.TargetType, input.TargetID)
	if err != nil {
		return err
	}
	if !married {
		return domain.ErrNotMarried
	}

	if err := s.bank.Debit(ctx, input.GuildID, input.UserID, policy.DivorceCost); err != nil {
		return err
	}

	if _, err := s.marriageRepo.Delete(ctx, input.UserID, input.TargetType, input.TargetID); err != nil {
		return err
	}

	switch input.TargetType {
	case domain.MarriageTargetCharacter:
		if _, err := s.characterRepo.Divorce(ctx, input.TargetID); err != nil {
			return err
		}
	case domain.MarriageTargetUser:
		if _, err := s.marriageRepo.Delete(ctx, input.TargetID, domain.MarriageTargetUser, input.UserID); err != nil {
			return err
		}
	}

	s.publisher.Publish(input.GuildID, EventMarriageDissolved, map[string]string{
		"userId":     input.UserID,
		"targetType": string(input.TargetType),
		"targetId":   input.TargetID,
	})
	return nil
}

// checkMarriageRoom rejects duplicates and enforces the guild's
// marriage cap before anything is paid for.
func (s *MarriageService) checkMarriageRoom(ctx context.Context, userID string, policy *domain.GuildPolicy, targetType domain.MarriageTargetType, targetID string) error {
	exists, err := s.marriageRepo.Exists(ctx, userID, targetType, targetID)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrAlreadyMarried
	}

	count, err := s.marriageRepo.CountByUser(ctx, userID)
	if err != nil {
		return err
	}
	if count >= int64(policy.MaxMarriages) {
		return domain.ErrMarriageLimit
	}
	return nil
}
