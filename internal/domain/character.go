package domain

import (
	"fmt"
	"time"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

func (r Rarity) Valid() bool {
	switch r {
	case RarityCommon, RarityRare, RarityEpic, RarityLegendary:
		return true
	}
	return false
}

// RollWeight is the relative selection weight when rolling: rarer
// characters appear less often.
func (r Rarity) RollWeight() int {
	switch r {
	case RarityLegendary:
		return 1
	case RarityEpic:
		return 2
	case RarityRare:
		return 3
	default:
		return 4
	}
}

// SortOrder sorts legendary first, common last.
func (r Rarity) SortOrder() int {
	switch r {
	case RarityLegendary:
		return 0
	case RarityEpic:
		return 1
	case RarityRare:
		return 2
	default:
		return 3
	}
}

type Character struct {
	ID        string    `json:"id" gorm:"primaryKey"` // numeric string, assigned sequentially
	Name      string    `json:"name" gorm:"not null;index"`
	Anime     string    `json:"anime" gorm:"not null;index"`
	Gender    Gender    `json:"gender" gorm:"type:varchar(10);not null"`
	Rarity    Rarity    `json:"rarity" gorm:"type:varchar(12);not null;index"`
	ImageURL  string    `json:"imageUrl"`
	ClaimedBy *string   `json:"claimedBy" gorm:"type:varchar(32);index"`
	MarriedTo *string   `json:"marriedTo" gorm:"type:varchar(32)"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Character) TableName() string {
	return "characters"
}

// Available reports whether the character can still be claimed.
func (c *Character) Available() bool {
	return c.ClaimedBy == nil
}

// Validate checks field values and the claim/marriage invariant: a
// character may only be married to the user who claimed it.
func (c *Character) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("character name is required")
	}
	if !c.Gender.Valid() {
		return fmt.Errorf("invalid gender %q", c.Gender)
	}
	if !c.Rarity.Valid() {
		return fmt.Errorf("invalid rarity %q", c.Rarity)
	}
	if c.MarriedTo != nil && (c.ClaimedBy == nil || *c.ClaimedBy != *c.MarriedTo) {
		return fmt.Errorf("character %s married to %s but not claimed by them", c.ID, *c.MarriedTo)
	}
	return nil
}

// CatalogStats are aggregate counts over the whole catalog, recomputed
// on demand.
type CatalogStats struct {
	Total     int64            `json:"total"`
	Claimed   int64            `json:"claimed"`
	Available int64            `json:"available"`
	Married   int64            `json:"married"`
	ByRarity  map[Rarity]int64 `json:"byRarity"`
	ByGender  map[Gender]int64 `json:"byGender"`
	ByAnime   map[string]int64 `json:"byAnime"`
}

// SnapshotRecord is the flat JSON encoding used for catalog backups,
// keyed by character id in a SnapshotMap.
type SnapshotRecord struct {
	Name      string  `json:"name"`
	Anime     string  `json:"anime"`
	Gender    Gender  `json:"gender"`
	Rarity    Rarity  `json:"rarity"`
	ImageURL  string  `json:"image_url"`
	ClaimedBy *string `json:"claimed_by"`
	MarriedTo *string `json:"married_to"`
}

type SnapshotMap map[string]SnapshotRecord

func (c *Character) Snapshot() SnapshotRecord {
	return SnapshotRecord{
		Name:      c.Name,
		Anime:     c.Anime,
		Gender:    c.Gender,
		Rarity:    c.Rarity,
		ImageURL:  c.ImageURL,
		ClaimedBy: c.ClaimedBy,
		MarriedTo: c.MarriedTo,
	}
}

func (r SnapshotRecord) Character(id string) *Character {
	return &Character{
		ID:        id,
		Name:      r.Name,
		Anime:     r.Anime,
		Gender:    r.Gender,
		Rarity:    r.Rarity,
		ImageURL:  r.ImageURL,
		ClaimedBy: r.ClaimedBy,
		MarriedTo: r.MarriedTo,
	}
}
