package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/paimonworks/harem-service/internal/domain"
)

type CharacterRepository interface {
	// Create assigns the next numeric id (max existing + 1) and
	// persists the character.
	Create(ctx context.Context, character *domain.Character) error
	GetByID(ctx context.Context, id string) (*domain.Character, error)
	ListAvailable(ctx context.Context, gender *domain.Gender) ([]*domain.Character, error)
	ListAll(ctx context.Context, gender *domain.Gender) ([]*domain.Character, error)
	ListByOwner(ctx context.Context, userID string) ([]*domain.Character, error)
	ListByAnime(ctx context.Context, anime string) ([]*domain.Character, error)
	ListByRarity(ctx context.Context, rarity domain.Rarity) ([]*domain.Character, error)
	Search(ctx context.Context, query string) ([]*domain.Character, error)

	// Claim atomically sets claimed_by if and only if the character is
	// unclaimed; false means the character was missing or taken.
	Claim(ctx context.Context, id, userID string) (bool, error)
	// Release clears claimed_by and married_to.
	Release(ctx context.Context, id string) (bool, error)
	// Marry sets married_to if and only if claimed_by == userID.
	Marry(ctx context.Context, id, userID string) (bool, error)
	// Divorce clears married_to only.
	Divorce(ctx context.Context, id string) (bool, error)

	Update(ctx context.Context, character *domain.Character) error
	Delete(ctx context.Context, id string) (bool, error)
	Stats(ctx context.Context) (*domain.CatalogStats, error)

	// ExportAll / ImportAll move the whole catalog through the flat
	// snapshot encoding used for backups.
	ExportAll(ctx context.Context) (domain.SnapshotMap, error)
	ImportAll(ctx context.Context, snapshot domain.SnapshotMap) error
}

type ProfileRepository interface {
	GetOrCreate(ctx context.Context, userID string) (*domain.UserProfile, error)
	Update(ctx context.Context, profile *domain.UserProfile) error
	// RecordRoll stamps last_roll and bumps total_rolls.
	RecordRoll(ctx context.Context, userID string, at time.Time) error
	// RecordClaim bumps successful_claims.
	RecordClaim(ctx context.Context, userID string) error
	ResetCooldown(ctx context.Context, userID string) error
	ResetAllCooldowns(ctx context.Context) (int64, error)
}

type MarriageRepository interface {
	Create(ctx context.Context, marriage *domain.Marriage) error
	// CreatePair inserts both sides of a mutual marriage in one
	// transaction so the bookkeeping can never end up one-sided.
	CreatePair(ctx context.Context, a, b *domain.Marriage) error
	Delete(ctx context.Context, userID string, targetType domain.MarriageTargetType, targetID string) (bool, error)
	// DeleteByTarget removes every marriage row naming the target, used
	// when a character is deleted or released.
	DeleteByTarget(ctx context.Context, targetType domain.MarriageTargetType, targetID string) (int64, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Marriage, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	Exists(ctx context.Context, userID string, targetType domain.MarriageTargetType, targetID string) (bool, error)
}

type WishlistRepository interface {
	Add(ctx context.Context, entry *domain.WishlistEntry) error
	Remove(ctx context.Context, userID, characterName string) (bool, error)
	Clear(ctx context.Context, userID string) error
	ListByUser(ctx context.Context, userID string) ([]*domain.WishlistEntry, error)
	Exists(ctx context.Context, userID, characterName string) (bool, error)
	// FindUsersWanting returns the user ids whose wishlist contains the
	// name, matched case-insensitively.
	FindUsersWanting(ctx context.Context, characterName string) ([]string, error)
}

type ProposalRepository interface {
	Create(ctx context.Context, proposal *domain.MarriageProposal) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.MarriageProposal, error)
	Update(ctx context.Context, proposal *domain.MarriageProposal) error
	GetPending(ctx context.Context, proposerID, targetUserID string) (*domain.MarriageProposal, error)
}

type GuildPolicyRepository interface {
	GetOrCreate(ctx context.Context, guildID string) (*domain.GuildPolicy, error)
	Update(ctx context.Context, policy *domain.GuildPolicy) error
}

type BotAccountRepository interface {
	Create(ctx context.Context, bot *domain.BotAccount) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BotAccount, error)
	GetByName(ctx context.Context, name string) (*domain.BotAccount, error)
}

type BotSessionRepository interface {
	Create(ctx context.Context, session *domain.BotSession) error
	GetByBotID(ctx context.Context, botID uuid.UUID) (*domain.BotSession, error)
	DeleteByBotID(ctx context.Context, botID uuid.UUID) error
}

type Repositories struct {
	Character  CharacterRepository
	Profile    ProfileRepository
	Marriage   MarriageRepository
	Wishlist   WishlistRepository
	Proposal   ProposalRepository
	Guild      GuildPolicyRepository
	BotAccount BotAccountRepository
	BotSession BotSessionRepository
}
