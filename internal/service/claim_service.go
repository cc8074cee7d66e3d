package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/paimonworks/harem-service/internal/domain"
	"github.com/paimonworks/harem-service/internal/notify"
	"github.com/paimonworks/harem-service/internal/repository"
	"github.com/paimonworks/harem-service/internal/session"
)

// ClaimService resolves claim attempts against open roll sessions and
// runs the post-claim side effects: ledger bump and wishlist fan-out.
type ClaimService struct {
	characterRepo repository.CharacterRepository
	profileRepo   repository.ProfileRepository
	wishlistRepo  repository.WishlistRepository
	guildRepo     repository.GuildPolicyRepository
	sessions      *session.Manager
	notifier      notify.Notifier
	publisher     EventPublisher
}

func NewClaimService(
	characterRepo repository.CharacterRepository,
	profileRepo repository.ProfileRepository,
	wishlistRepo repository.WishlistRepository,
	guildRepo repository.GuildPolicyRepository,
	sessions *session.Manager,
	notifier notify.Notifier,
	publisher EventPublisher,
) *ClaimService {
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &ClaimService{
		characterRepo: characterRepo,
		profileRepo:   profileRepo,
		wishlistRepo:  wishlistRepo,
		guildRepo:     guildRepo,
		sessions:      sessions,
		notifier:      notifier,
		publisher:     publisher,
	}
}

type ClaimInput struct {
	SessionID uuid.UUID
	UserID    string
	Symbol    string
}

type ClaimResult struct {
	Session   *domain.RollSession
	Character *domain.Character
}

// Claim attempts to win one slot of an open session. The character's
// row-level compare-and-set decides races: a lost race surfaces as
// domain.ErrCharacterClaimed and leaves the session open for its other
// slots.
func (s *ClaimService) Claim(ctx context.Context, input ClaimInput) (*ClaimResult, error) {
	sess, err := s.sessions.Attempt(input.SessionID, input.UserID, input.Symbol, func(characterID string) (bool, error) {
		return s.characterRepo.Claim(ctx, characterID, input.UserID)
	})
	if err != nil {
		return nil, err
	}

	if err := s.profileRepo.RecordClaim(ctx, input.UserID); err != nil {
		// The claim itself is already durable; a failed counter bump is
		// logged rather than unwinding it.
		log.Printf("ERROR [ClaimService.Claim] recording claim for %s: %v", input.UserID, err)
	}

	character, err := s.characterRepo.GetByID(ctx, *sess.ClaimedID)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(sess.GuildID, EventRollClaimed, map[string]interface{}{
		"session":   sess,
		"character": character,
	})

	go s.fanOutWishlist(sess.GuildID, character, input.UserID)

	return &ClaimResult{Session: sess, Character: character}, nil
}

// fanOutWishlist tells everyone who wishlisted the character's name
// that it is gone. Runs detached from the claim request.
func (s *ClaimService) fanOutWishlist(guildID string, character *domain.Character, claimerID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	policy, err := s.guildRepo.GetOrCreate(ctx, guildID)
	if err != nil {
		log.Printf("ERROR [ClaimService.fanOutWishlist] loading policy for %s: %v", guildID, err)
		return
	}
	if !policy.PingWishlist {
		return
	}

	userIDs, err := s.wishlistRepo.FindUsersWanting(ctx, character.Name)
	if err != nil {
		log.Printf("ERROR [ClaimService.fanOutWishlist] lookup for %q: %v", character.Name, err)
		return
	}

	text := fmt.Sprintf("%s from your wishlist was just claimed by another user.", character.Name)
	for _, userID := range userIDs {
		if userID == claimerID {
			continue
		}
		s.notifier.Notify(ctx, userID, text)
		s.publisher.Publish(guildID, EventWishlistHit, map[string]string{
			"userId":      userID,
			"characterId": character.ID,
		})
	}
}
