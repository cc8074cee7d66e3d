package postgres

import (
	"github.com/paimonworks/harem-service/internal/domain"
	"github.com/paimonworks/harem-service/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// Auto-migrate tables
	err = db.AutoMigrate(
		&domain.Character{},
		&domain.UserProfile{},
		&domain.Marriage{},
		&domain.MarriageProposal{},
		&domain.WishlistEntry{},
		&domain.GuildPolicy{},
		&domain.BotAccount{},
		&domain.BotSession{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		Character:  NewCharacterRepository(db),
		Profile:    NewProfileRepository(db),
		Marriage:   NewMarriageRepository(db),
		Wishlist:   NewWishlistRepository(db),
		Proposal:   NewProposalRepository(db),
		Guild:      NewGuildPolicyRepository(db),
		BotAccount: NewBotAccountRepository(db),
		BotSession: NewBotSessionRepository(db),
	}
}
