package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/paimonworks/harem-service/internal/domain"
	"github.com/paimonworks/harem-service/internal/repository"
)

// CatalogService owns reads and administrative mutations of the
// character catalog.
type CatalogService struct {
	characterRepo repository.CharacterRepository
	marriageRepo  repository.MarriageRepository
}

func NewCatalogService(characterRepo repository.CharacterRepository, marriageRepo repository.MarriageRepository) *CatalogService {
	return &CatalogService{
		characterRepo: characterRepo,
		marriageRepo:  marriageRepo,
	}
}

func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Character, error) {
	return s.characterRepo.GetByID(ctx, id)
}

func (s *CatalogService) ListAvailable(ctx context.Context, gender *domain.Gender) ([]*domain.Character, error) {
	return s.characterRepo.ListAvailable(ctx, gender)
}

func (s *CatalogService) ListAll(ctx context.Context, gender *domain.Gender) ([]*domain.Character, error) {
	return s.characterRepo.ListAll(ctx, gender)
}

func (s *CatalogService) ListByOwner(ctx context.Context, userID string) ([]*domain.Character, error) {
	return s.characterRepo.ListByOwner(ctx, userID)
}

func (s *CatalogService) ListByAnime(ctx context.Context, anime string) ([]*domain.Character, error) {
	return s.characterRepo.ListByAnime(ctx, anime)
}

func (s *CatalogService) ListByRarity(ctx context.Context, rarity domain.Rarity) ([]*domain.Character, error) {
	if !rarity.Valid() {
		return nil, fmt.Errorf("invalid rarity %q", rarity)
	}
	return s.characterRepo.ListByRarity(ctx, rarity)
}

func (s *CatalogService) Search(ctx context.Context, query string) ([]*domain.Character, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	return s.characterRepo.Search(ctx, query)
}

func (s *CatalogService) Stats(ctx context.Context) (*domain.CatalogStats, error) {
	return s.characterRepo.Stats(ctx)
}

type AddCharacterInput struct {
	Name     string
	Anime    string
	Gender   domain.Gender
	Rarity   domain.Rarity
	ImageURL string
}

func (s *CatalogService) AddCharacter(ctx context.Context, input AddCharacterInput) (*domain.Character, error) {
	character := &domain.Character{
		Name:     strings.TrimSpace(input.Name),
		Anime:    strings.TrimSpace(input.Anime),
		Gender:   input.Gender,
		Rarity:   input.Rarity,
		ImageURL: input.ImageURL,
	}
	if character.ImageURL == "" {
		character.ImageURL = placeholderImageURL(character.Name)
	}
	if err := s.characterRepo.Create(ctx, character); err != nil {
		return nil, err
	}
	return character, nil
}

// RemoveCharacter deletes a character permanently and cleans up any
// marriage rows that still name it. The catalog itself does not
// cascade, so the cleanup happens here.
func (s *CatalogService) RemoveCharacter(ctx context.Context, id string) error {
	deleted, err := s.characterRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrCharacterNotFound
	}
	if _, err := s.marriageRepo.DeleteByTarget(ctx, domain.MarriageTargetCharacter, id); err != nil {
		return err
	}
	return nil
}

// ReleaseCharacter puts a character back in the unclaimed pool,
// dropping any marriage to it.
func (s *CatalogService) ReleaseCharacter(ctx context.Context, id string) error {
	released, err := s.characterRepo.Release(ctx, id)
	if err != nil {
		return err
	}
	if !released {
		return domain.ErrCharacterNotFound
	}
	if _, err := s.marriageRepo.DeleteByTarget(ctx, domain.MarriageTargetCharacter, id); err != nil {
		return err
	}
	return nil
}

// Backup exports the whole catalog in the flat snapshot encoding.
func (s *CatalogService) Backup(ctx context.Context) (domain.SnapshotMap, error) {
	return s.characterRepo.ExportAll(ctx)
}

// Restore replaces the whole catalog from a snapshot.
func (s *CatalogService) Restore(ctx context.Context, snapshot domain.SnapshotMap) error {
	if len(snapshot) == 0 {
		return errors.New("snapshot is empty")
	}
	return s.characterRepo.ImportAll(ctx, snapshot)
}

// SeedIfEmpty loads the starter catalog the first time the service
// runs against an empty database.
func (s *CatalogService) SeedIfEmpty(ctx context.Context) (int, error) {
	stats, err := s.characterRepo.Stats(ctx)
	if err != nil {
		return 0, err
	}
	if stats.Total > 0 {
		return 0, nil
	}
	for _, seed := range seedCharacters {
		character := &domain.Character{
			Name:     seed.name,
			Anime:    seed.anime,
			Gender:   seed.gender,
			Rarity:   seed.rarity,
			ImageURL: placeholderImageURL(seed.name),
		}
		if err := s.characterRepo.Create(ctx, character); err != nil {
			return 0, err
		}
	}
	return len(seedCharacters), nil
}

func placeholderImageURL(name string) string {
	return "https://via.placeholder.com/300x400?text=" + strings.ReplaceAll(name, " ", "+")
}
