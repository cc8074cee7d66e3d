package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/paimonworks/harem-service/internal/domain"
	"github.com/paimonworks/harem-service/internal/repository"
	"gorm.io/gorm"
)

// CharacterBuilder creates test characters with a builder pattern
type CharacterBuilder struct {
	name      string
	anime     string
	gender    domain.Gender
	rarity    domain.Rarity
	claimedBy *string
	marriedTo *string
}

// NewCharacterBuilder creates a new CharacterBuilder with default values
func NewCharacterBuilder() *CharacterBuilder {
	return &CharacterBuilder{
		name:   fmt.Sprintf("Character %s", uuid.New().String()[:8]),
		anime:  "Test Anime",
		gender: domain.GenderFemale,
		rarity: domain.RarityCommon,
	}
}

func (b *CharacterBuilder) WithName(name string) *CharacterBuilder {
	b.name = name
	return b
}

func (b *CharacterBuilder) WithAnime(anime string) *CharacterBuilder {
	b.anime = anime
	return b
}

func (b *CharacterBuilder) WithGender(gender domain.Gender) *CharacterBuilder {
	b.gender = gender
	return b
}

func (b *CharacterBuilder) WithRarity(rarity domain.Rarity) *CharacterBuilder {
	b.rarity = rarity
	return b
}

func (b *CharacterBuilder) ClaimedBy(userID string) *CharacterBuilder {
	b.claimedBy = &userID
	return b
}

func (b *CharacterBuilder) MarriedTo(userID string) *CharacterBuilder {
	b.claimedBy = &userID
	b.marriedTo = &userID
	return b
}

// Build creates the character through the repository so it gets the
// next catalog ID.
func (b *CharacterBuilder) Build(t *testing.T, repo repository.CharacterRepository) *domain.Character {
	t.Helper()

	character := &domain.Character{
		Name:      b.name,
		Anime:     b.anime,
		Gender:    b.gender,
		Rarity:    b.rarity,
		ImageURL:  "https://example.com/test.png",
		ClaimedBy: b.claimedBy,
		MarriedTo: b.marriedTo,
	}

	if err := repo.Create(context.Background(), character); err != nil {
		t.Fatalf("failed to create character: %v", err)
	}

	return character
}

// BuildMany creates count characters sharing the builder's settings.
func (b *CharacterBuilder) BuildMany(t *testing.T, repo repository.CharacterRepository, count int) []*domain.Character {
	t.Helper()

	characters := make([]*domain.Character, 0, count)
	for i := 0; i < count; i++ {
		c := &domain.Character{
			Name:      fmt.Sprintf("%s %d", b.name, i),
			Anime:     b.anime,
			Gender:    b.gender,
			Rarity:    b.rarity,
			ImageURL:  "https://example.com/test.png",
			ClaimedBy: b.claimedBy,
			MarriedTo: b.marriedTo,
		}
		if err := repo.Create(context.Background(), c); err != nil {
			t.Fatalf("failed to create character %d: %v", i, err)
		}
		characters = append(characters, c)
	}
	return characters
}

// PolicyBuilder creates guild policies for tests
type PolicyBuilder struct {
	guildID         string
	enabled         bool
	cooldownMinutes int
	maxMarriages    int
	pingWishlist    bool
}

func NewPolicyBuilder(guildID string) *PolicyBuilder {
	return &PolicyBuilder{
		guildID:         guildID,
		enabled:         true,
		cooldownMinutes: 120,
		maxMarriages:    50,
		pingWishlist:    true,
	}
}

func (b *PolicyBuilder) Disabled() *PolicyBuilder {
	b.enabled = false
	return b
}

func (b *PolicyBuilder) WithCooldownMinutes(minutes int) *PolicyBuilder {
	b.cooldownMinutes = minutes
	return b
}

func (b *PolicyBuilder) WithMaxMarriages(max int) *PolicyBuilder {
	b.maxMarriages = max
	return b
}

func (b *PolicyBuilder) WithoutWishlistPings() *PolicyBuilder {
	b.pingWishlist = false
	return b
}

func (b *PolicyBuilder) Build(t *testing.T, db *gorm.DB) *domain.GuildPolicy {
	t.Helper()

	policy := domain.DefaultGuildPolicy(b.guildID)
	policy.Enabled = b.enabled
	policy.CooldownMinutes = b.cooldownMinutes
	policy.MaxMarriages = b.maxMarriages
	policy.PingWishlist = b.pingWishlist

	if err := db.Create(policy).Error; err != nil {
		t.Fatalf("failed to create guild policy: %v", err)
	}

	return policy
}

// BotAuthResponse matches the API auth response
type BotAuthResponse struct {
	Bot struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"bot"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RegisterBot creates a bot account via the API and returns its access
// token for authenticated requests.
func RegisterBot(t *testing.T, ts *TestServer) (string, string) {
	t.Helper()

	name := fmt.Sprintf("testbot_%s", uuid.New().String()[:8])
	reqBody := map[string]string{
		"name":   name,
		"apiKey": "test-api-key-123",
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(ts.APIURL("/auth/register"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to register bot: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var authResp BotAuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	return authResp.Bot.ID, authResp.AccessToken
}

// AuthenticatedRequest performs an HTTP request with a bearer token.
func AuthenticatedRequest(t *testing.T, method, url, token string, body interface{}) *http.Response {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	return resp
}

// FakeBank implements economy.Gate with in-memory balances.
type FakeBank struct {
	mu       sync.Mutex
	balances map[string]int64
	debits   []Debit
}

type Debit struct {
	GuildID string
	UserID  string
	Amount  int64
}

func NewFakeBank() *FakeBank {
	return &FakeBank{balances: make(map[string]int64)}
}

// SetBalance sets a user's balance across all guilds.
func (b *FakeBank) SetBalance(userID string, amount int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances[userID] = amount
}

func (b *FakeBank) Balance(ctx context.Context, guildID, userID string) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balances[userID], nil
}

func (b *FakeBank) Debit(ctx context.Context, guildID, userID string, amount int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.balances[userID] < amount {
		return domain.ErrInsufficientFunds
	}
	b.balances[userID] -= amount
	b.debits = append(b.debits, Debit{GuildID: guildID, UserID: userID, Amount: amount})
	return nil
}

// Debits returns a copy of all successful debits so far.
func (b *FakeBank) Debits() []Debit {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Debit, len(b.debits))
	copy(out, b.debits)
	return out
}

// FakeNotifier records direct notifications.
type FakeNotifier struct {
	mu       sync.Mutex
	messages []Notification
}

type Notification struct {
	UserID string
	Text   string
}

func NewFakeNotifier() *FakeNotifier {
	return &FakeNotifier{}
}

func (n *FakeNotifier) Notify(ctx context.Context, userID, text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, Notification{UserID: userID, Text: text})
}

func (n *FakeNotifier) Messages() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notification, len(n.messages))
	copy(out, n.messages)
	return out
}

// CapturePublisher records published events for assertions.
type CapturePublisher struct {
	mu     sync.Mutex
	events []PublishedEvent
}

type PublishedEvent struct {
	GuildID string
	Event   string
	Payload interface{}
}

func NewCapturePublisher() *CapturePublisher {
	return &CapturePublisher{}
}

func (p *CapturePublisher) Publish(guildID, event string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, PublishedEvent{GuildID: guildID, Event: event, Payload: payload})
}

func (p *CapturePublisher) Events() []PublishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]PublishedEvent, len(p.events))
	copy(out, p.events)
	return out
}

// EventsNamed filters captured events by name.
func (p *CapturePublisher) EventsNamed(name string) []PublishedEvent {
	var out []PublishedEvent
	for _, e := range p.Events() {
		if e.Event == name {
			out = append(out, e)
		}
	}
	return out
}
