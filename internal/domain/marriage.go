package domain

import (
	"time"

	"github.com/google/uuid"
)

// MarriageTargetType distinguishes marriages to owned characters from
// mutual marriages between two users.
type MarriageTargetType string

const (
	MarriageTargetCharacter MarriageTargetType = "character"
	MarriageTargetUser      MarriageTargetType = "user"
)

// Marriage is one entry in a user's marriage list. A user-to-user
// marriage is recorded as two rows, one per side.
type Marriage struct {
	ID         uuid.UUID          `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID     string             `json:"userId" gorm:"type:varchar(32);not null;index;uniqueIndex:idx_marriage_pair"`
	TargetType MarriageTargetType `json:"targetType" gorm:"type:varchar(12);not null;uniqueIndex:idx_marriage_pair"`
	TargetID   string             `json:"targetId" gorm:"type:varchar(32);not null;uniqueIndex:idx_marriage_pair"`
	CreatedAt  time.Time          `json:"createdAt"`
}

func (Marriage) TableName() string {
	return "marriages"
}

type ProposalStatus string

const (
	ProposalStatusPending  ProposalStatus = "pending"
	ProposalStatusAccepted ProposalStatus = "accepted"
	ProposalStatusDeclined ProposalStatus = "declined"
	ProposalStatusExpired  ProposalStatus = "expired"
)

// ProposalExpiryDuration is how long a marriage proposal waits for the
// target's answer; an unanswered proposal counts as declined.
const ProposalExpiryDuration = 60 * time.Second

// MarriageProposal asks another user for consent before a mutual
// marriage is committed. The cost is snapshotted at proposal time so a
// policy change mid-window cannot change what the proposer pays.
type MarriageProposal struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	GuildID      string         `json:"guildId" gorm:"type:varchar(32);not null;index"`
	ProposerID   string         `json:"proposerId" gorm:"type:varchar(32);not null;index"`
	TargetUserID string         `json:"targetUserId" gorm:"type:varchar(32);not null;index"`
	Cost         int64          `json:"cost" gorm:"not null"`
	Status       ProposalStatus `json:"status" gorm:"type:varchar(12);not null;default:'pending'"`
	CreatedAt    time.Time      `json:"createdAt"`
	ExpiresAt    time.Time      `json:"expiresAt"`
}

func (MarriageProposal) TableName() string {
	return "marriage_proposals"
}

// IsExpired returns true once the consent window has passed.
func (p *MarriageProposal) IsExpired() bool {
	return time.Now().After(p.ExpiresAt)
}
