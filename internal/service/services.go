package service

import (
	"github.com/paimonworks/harem-service/internal/config"
	"github.com/paimonworks/harem-service/internal/economy"
	"github.com/paimonworks/harem-service/internal/gacha"
	"github.com/paimonworks/harem-service/internal/notify"
	"github.com/paimonworks/harem-service/internal/repository"
	"github.com/paimonworks/harem-service/internal/session"
)

type Services struct {
	Auth     *AuthService
	Catalog  *CatalogService
	Roll     *RollService
	Claim    *ClaimService
	Marriage *MarriageService
	Profile  *ProfileService
	Guild    *GuildService
}

func NewServices(
	repos *repository.Repositories,
	sessions *session.Manager,
	bank economy.Gate,
	notifier notify.Notifier,
	publisher EventPublisher,
	cfg *config.Config,
) *Services {
	return &Services{
		Auth:     NewAuthService(repos.BotAccount, repos.BotSession, cfg),
		Catalog:  NewCatalogService(repos.Character, repos.Marriage),
		Roll:     NewRollService(repos.Character, repos.Profile, repos.Guild, sessions, gacha.DefaultRNG(), publisher),
		Claim:    NewClaimService(repos.Character, repos.Profile, repos.Wishlist, repos.Guild, sessions, notifier, publisher),
		Marriage: NewMarriageService(repos.Character, repos.Marriage, repos.Proposal, repos.Guild, bank, notifier, publisher),
		Profile:  NewProfileService(repos.Profile, repos.Character, repos.Marriage, repos.Wishlist),
		Guild:    NewGuildService(repos.Guild),
	}
}
