package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/paimonworks/harem-service/internal/domain"
	"github.com/paimonworks/harem-service/internal/gacha"
	"github.com/paimonworks/harem-service/internal/repository"
	"github.com/paimonworks/harem-service/internal/session"
)

// RollService opens roll sessions: it gates on guild policy and
// cooldown, samples the offer, and stamps the requester's ledger.
type RollService struct {
	characterRepo repository.CharacterRepository
	profileRepo   repository.ProfileRepository
	guildRepo     repository.GuildPolicyRepository
	sessions      *session.Manager
	rng           gacha.RandomSource
	publisher     EventPublisher
}

func NewRollService(
	characterRepo repository.CharacterRepository,
	profileRepo repository.ProfileRepository,
	guildRepo repository.GuildPolicyRepository,
	sessions *session.Manager,
	rng gacha.RandomSource,
	publisher EventPublisher,
) *RollService {
	if rng == nil {
		rng = gacha.DefaultRNG()
	}
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &RollService{
		characterRepo: characterRepo,
		profileRepo:   profileRepo,
		guildRepo:     guildRepo,
		sessions:      sessions,
		rng:           rng,
		publisher:     publisher,
	}
}

type RollInput struct {
	GuildID string
	UserID  string
	Gender  *domain.Gender
	// RoleIDs are the requester's platform roles, used to look up
	// bonus rolls in the guild policy.
	RoleIDs []string
}

type RollResult struct {
	Session    *domain.RollSession
	Characters []*domain.Character
}

// Roll samples an offer and opens a claim session for it. An empty
// catalog yields a result with no session and no characters, which is
// "nothing to roll", not an error; the cooldown is only stamped when
// something was actually offered.
func (s *RollService) Roll(ctx context.Context, input RollInput) (*RollResult, error) {
	policy, err := s.guildRepo.GetOrCreate(ctx, input.GuildID)
	if err != nil {
		return nil, err
	}
	if !policy.Enabled {
		return nil, domain.ErrFeatureDisabled
	}

	profile, err := s.profileRepo.GetOrCreate(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if profile.OnCooldown(policy.Cooldown(), time.Now()) {
		return nil, domain.ErrOnCooldown
	}

	count := 1 + policy.BonusRolls(input.RoleIDs)
	if count > domain.MaxRollSlots {
		count = domain.MaxRollSlots
	}

	pool, err := s.characterRepo.ListAvailable(ctx, input.Gender)
	if err != nil {
		return nil, err
	}
	if len(pool) < count {
		// Thin unclaimed pool: widen to the whole catalog so rolls do
		// not come back empty. Claimed characters shown this way still
		// fail any claim attempt.
		pool, err = s.characterRepo.ListAll(ctx, input.Gender)
		if err != nil {
			return nil, err
		}
	}
	if len(pool) == 0 {
		return &RollResult{}, nil
	}

	picked := gacha.WeightedSample(pool, count, s.rng)

	if err := s.profileRepo.RecordRoll(ctx, input.UserID, time.Now()); err != nil {
		return nil, err
	}

	sess := s.sessions.Open(input.GuildID, input.UserID, picked)
	s.publisher.Publish(input.GuildID, EventRollOpened, sess)

	return &RollResult{Session: sess, Characters: picked}, nil
}

func (s *RollService) GetSession(id uuid.UUID) (*domain.RollSession, error) {
	return s.sessions.Get(id)
}

// CooldownRemaining reports how long until the user may roll in this
// guild.
func (s *RollService) CooldownRemaining(ctx context.Context, guildID, userID string) (time.Duration, error) {
	policy, err := s.guildRepo.GetOrCreate(ctx, guildID)
	if err != nil {
		return 0, err
	}
	profile, err := s.profileRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return 0, err
	}
	return profile.CooldownRemaining(policy.Cooldown(), time.Now()), nil
}
