package service

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/paimonworks/harem-service/internal/domain"
	"github.com/paimonworks/harem-service/internal/repository"
)

// ProfileService serves per-user collection views and wishlist
// management.
type ProfileService struct {
	profileRepo   repository.ProfileRepository
	characterRepo repository.CharacterRepository
	marriageRepo  repository.MarriageRepository
	wishlistRepo  repository.WishlistRepository
}

func NewProfileService(
	profileRepo repository.ProfileRepository,
	characterRepo repository.CharacterRepository,
	marriageRepo repository.MarriageRepository,
	wishlistRepo repository.WishlistRepository,
) *ProfileService {
	return &ProfileService{
		profileRepo:   profileRepo,
		characterRepo: characterRepo,
		marriageRepo:  marriageRepo,
		wishlistRepo:  wishlistRepo,
	}
}

// ProfileView is the assembled profile the presentation layer renders.
type ProfileView struct {
	Profile           *domain.UserProfile `json:"profile"`
	ClaimedCharacters []*domain.Character `json:"claimedCharacters"`
	Marriages         []*domain.Marriage  `json:"marriages"`
}

func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*ProfileView, error) {
	profile, err := s.profileRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	claimed, err := s.characterRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	marriages, err := s.marriageRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ProfileView{
		Profile:           profile,
		ClaimedCharacters: claimed,
		Marriages:         marriages,
	}, nil
}

// GetCollection lists a user's claimed characters sorted by rarity
// (legendary first) then name.
func (s *ProfileService) GetCollection(ctx context.Context, userID string) ([]*domain.Character, error) {
	characters, err := s.characterRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.Slice(characters, func(i, j int) bool {
		a, b := characters[i], characters[j]
		if a.Rarity.SortOrder() != b.Rarity.SortOrder() {
			return a.Rarity.SortOrder() < b.Rarity.SortOrder()
		}
		return a.Name < b.Name
	})
	return characters, nil
}

func (s *ProfileService) SetTitle(ctx context.Context, userID, title string) (*domain.UserProfile, error) {
	profile, err := s.profileRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile.HaremTitle = strings.TrimSpace(title)
	if profile.HaremTitle == "" {
		profile.HaremTitle = "Harem"
	}
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// SetFavorite marks one of the user's claimed characters as their
// favorite; nil clears it.
func (s *ProfileService) SetFavorite(ctx context.Context, userID string, characterID *string) (*domain.UserProfile, error) {
	profile, err := s.profileRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if characterID != nil {
		character, err := s.characterRepo.GetByID(ctx, *characterID)
		if err != nil {
			return nil, err
		}
		if character.ClaimedBy == nil || *character.ClaimedBy != userID {
			return nil, domain.ErrCharacterNotOwned
		}
	}
	profile.FavoriteCharacterID = characterID
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) GetWishlist(ctx context.Context, userID string) ([]*domain.WishlistEntry, error) {
	return s.wishlistRepo.ListByUser(ctx, userID)
}

func (s *ProfileService) AddToWishlist(ctx context.Context, userID, characterName string) (*domain.WishlistEntry, error) {
	characterName = strings.TrimSpace(characterName)
	if characterName == "" {
		return nil, domain.ErrCharacterNotFound
	}
	exists, err := s.wishlistRepo.Exists(ctx, userID, characterName)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrWishlistDuplicate
	}
	entry := &domain.WishlistEntry{
		ID:            uuid.New(),
		UserID:        userID,
		CharacterName: characterName,
	}
	if err := s.wishlistRepo.Add(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *ProfileService) RemoveFromWishlist(ctx context.Context, userID, characterName string) error {
	removed, err := s.wishlistRepo.Remove(ctx, userID, characterName)
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrCharacterNotFound
	}
	return nil
}

func (s *ProfileService) ClearWishlist(ctx context.Context, userID string) error {
	return s.wishlistRepo.Clear(ctx, userID)
}

func (s *ProfileService) ResetCooldown(ctx context.Context, userID string) error {
	return s.profileRepo.ResetCooldown(ctx, userID)
}

func (s *ProfileService) ResetAllCooldowns(ctx context.Context) (int64, error) {
	return s.profileRepo.ResetAllCooldowns(ctx)
}
