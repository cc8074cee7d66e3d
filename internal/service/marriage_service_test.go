package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/paimonworks/harem-service/internal/domain"
	"github.com/paimonworks/harem-service/internal/repository/postgres"
	"github.com/paimonworks/harem-service/internal/service"
	"github.com/paimonworks/harem-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMarriageFixture(t *testing.T, testDB *testutil.TestDB) (*service.MarriageService, *testutil.FakeBank, *testutil.CapturePublisher, *testutil.FakeNotifier) {
	t.Helper()
	repos := postgres.NewRepositories(testDB.DB)
	bank := testutil.NewFakeBank()
	notifier := testutil.NewFakeNotifier()
	publisher := testutil.NewCapturePublisher()
	svc := service.NewMarriageService(repos.Character, repos.Marriage, repos.Proposal, repos.Guild, bank, notifier, publisher)
	return svc, bank, publisher, notifier
}

func TestMarriageService_MarryCharacter(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	svc, bank, publisher, _ := newMarriageFixture(t, testDB)
	ctx := context.Background()

	character := testutil.NewCharacterBuilder().Build(t, repos.Character)
	_, err := repos.Character.Claim(ctx, character.ID, "alice")
	require.NoError(t, err)
	bank.SetBalance("alice", 20000)

	marriage, err := svc.MarryCharacter(ctx, service.MarryCharacterInput{
		GuildID:     "guild1",
		UserID:      "alice",
		CharacterID: character.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.MarriageTargetCharacter, marriage.TargetType)
	assert.Equal(t, character.ID, marriage.TargetID)

	got, err := repos.Character.GetByID(ctx, character.ID)
	require.NoError(t, err)
	require.NotNil(t, got.MarriedTo)
	assert.Equal(t, "alice", *got.MarriedTo)
	require.NoError(t, got.Validate())

	// Default marriage cost was debited once.
	debits := bank.Debits()
	require.Len(t, debits, 1)
	assert.Equal(t, int64(10000), debits[0].Amount)

	assert.Len(t, publisher.EventsNamed(service.EventMarriageCompleted), 1)
}

func TestMarriageService_MarryCharacterNotOwned(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	svc, bank, _, _ := newMarriageFixture(t, testDB)
	ctx := context.Background()

	character := testutil.NewCharacterBuilder().Build(t, repos.Character)
	bank.SetBalance("alice", 20000)

	_, err := svc.MarryCharacter(ctx, service.MarryCharacterInput{
		GuildID:     "guild1",
		UserID:      "alice",
		CharacterID: character.ID,
	})
	assert.ErrorIs(t, err, domain.ErrCharacterNotOwned)

	// Nothing was charged and nothing changed.
	assert.Empty(t, bank.Debits())
	got, err := repos.Character.GetByID(ctx, character.ID)
	require.NoError(t, err)
	assert.Nil(t, got.MarriedTo)
}

func TestMarriageService_DebitFailureLeavesNoState(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	svc, bank, _, _ := newMarriageFixture(t, testDB)
	ctx := context.Background()

	character := testutil.NewCharacterBuilder().Build(t, repos.Character)
	_, err := repos.Character.Claim(ctx, character.ID, "alice")
	require.NoError(t, err)
	bank.SetBalance("alice", 5) // cannot afford the default cost

	_, err = svc.MarryCharacter(ctx, service.MarryCharacterInput{
		GuildID:     "guild1",
		UserID:      "alice",
		CharacterID: character.ID,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	got, err := repos.Character.GetByID(ctx, character.ID)
	require.NoError(t, err)
	assert.Nil(t, got.MarriedTo, "failed debit must not leave marriage state behind")

	marriages, err := repos.Marriage.ListByUser(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, marriages)
}

func TestMarriageService_AlreadyMarried(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	svc, bank, _, _ := newMarriageFixture(t, testDB)
	ctx := context.Background()

	character := testutil.NewCharacterBuilder().Build(t, repos.Character)
	_, err := repos.Character.Claim(ctx, character.ID, "alice")
	require.NoError(t, err)
	bank.SetBalance("alice", 50000)

	_, err = svc.MarryCharacter(ctx, service.MarryCharacterInput{GuildID: "guild1", UserID: "alice", CharacterID: character.ID})
	require.NoError(t, err)

	_, err = svc.MarryCharacter(ctx, service.MarryCharacterInput{GuildID: "guild1", UserID: "alice", CharacterID: character.ID})
	assert.ErrorIs(t, err, domain.ErrAlreadyMarried)

	assert.Len(t, bank.Debits(), 1, "the duplicate attempt must not charge again")
}

func TestMarriageService_MarriageLimit(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	svc, bank, _, _ := newMarriageFixture(t, testDB)
	ctx := context.Background()

	testutil.NewPolicyBuilder("guild1").WithMaxMarriages(1).Build(t, testDB.DB)
	bank.SetBalance("alice", 100000)

	first := testutil.NewCharacterBuilder().Build(t, repos.Character)
	second := testutil.NewCharacterBuilder().Build(t, repos.Character)
	for _, c := range []*domain.Character{first, second} {
		_, err := repos.Character.Claim(ctx, c.ID, "alice")
		require.NoError(t, err)
	}

	_, err := svc.MarryCharacter(ctx, service.MarryCharacterInput{GuildID: "guild1", UserID: "alice", CharacterID: first.ID})
	require.NoError(t, err)

	_, err = svc.MarryCharacter(ctx, service.MarryCharacterInput{GuildID: "guild1", UserID: "alice", CharacterID: second.ID})
	assert.ErrorIs(t, err, domain.ErrMarriageLimit)
}

func TestMarriageService_ProposalAcceptFlow(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	svc, bank, publisher, notifier := newMarriageFixture(t, testDB)
	ctx := context.Background()

	bank.SetBalance("alice", 50000)
	bank.SetBalance("bob", 50000)

	proposal, err := svc.Propose(ctx, service.ProposeInput{
		GuildID:      "guild1",
		ProposerID:   "alice",
		TargetUserID: "bob",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalStatusPending, proposal.Status)
	assert.Empty(t, bank.Debits(), "proposing must not charge before consent")
	require.NotEmpty(t, notifier.Messages(), "target is told about the proposal")

	// Only the target may answer.
	_, err = svc.Respond(ctx, proposal.ID, "alice", true)
	assert.ErrorIs(t, err, domain.ErrNotProposalTarget)

	resolved, err := svc.Respond(ctx, proposal.ID, "bob", true)
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalStatusAccepted, resolved.Status)

	// Mutual marriage is recorded in both directions.
	aliceRows, err := repos.Marriage.ListByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, aliceRows, 1)
	assert.Equal(t, domain.MarriageTargetUser, aliceRows[0].TargetType)
	assert.Equal(t, "bob", aliceRows[0].TargetID)

	bobRows, err := repos.Marriage.ListByUser(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, bobRows, 1)
	assert.Equal(t, "alice", bobRows[0].TargetID)

	// Answering again is rejected.
	_, err = svc.Respond(ctx, proposal.ID, "bob", true)
	assert.ErrorIs(t, err, domain.ErrProposalResolved)

	assert.Len(t, publisher.EventsNamed(service.EventMarriageCompleted), 1)
}

func TestMarriageService_ProposalDecline(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	svc, bank, _, _ := newMarriageFixture(t, testDB)
	ctx := context.Background()

	bank.SetBalance("alice", 50000)

	proposal, err := svc.Propose(ctx, service.ProposeInput{
		GuildID:      "guild1",
		ProposerID:   "alice",
		TargetUserID: "bob",
	})
	require.NoError(t, err)

	resolved, err := svc.Respond(ctx, proposal.ID, "bob", false)
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalStatusDeclined, resolved.Status)

	assert.Empty(t, bank.Debits())
	rows, err := repos.Marriage.ListByUser(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestMarriageService_ProposalExpiryIsDecline(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	svc, bank, _, _ := newMarriageFixture(t, testDB)
	ctx := context.Background()

	bank.SetBalance("alice", 50000)

	proposal, err := svc.Propose(ctx, service.ProposeInput{
		GuildID:      "guild1",
		ProposerID:   "alice",
		TargetUserID: "bob",
	})
	require.NoError(t, err)

	// Force the window shut.
	proposal.ExpiresAt = time.Now().Add(-time.Second)
	require.NoError(t, repos.Proposal.Update(ctx, proposal))

	resolved, err := svc.Respond(ctx, proposal.ID, "bob", true)
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalStatusExpired, resolved.Status, "a late accept counts as no answer")

	rows, err := repos.Marriage.ListByUser(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Empty(t, bank.Debits())
}

func TestMarriageService_Divorce(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	svc, bank, _, _ := newMarriageFixture(t, testDB)
	ctx := context.Background()

	character := testutil.NewCharacterBuilder().Build(t, repos.Character)
	_, err := repos.Character.Claim(ctx, character.ID, "alice")
	require.NoError(t, err)
	bank.SetBalance("alice", 50000)

	_, err = svc.MarryCharacter(ctx, service.MarryCharacterInput{GuildID: "guild1", UserID: "alice", CharacterID: character.ID})
	require.NoError(t, err)

	err = svc.Divorce(ctx, service.DivorceInput{
		GuildID:    "guild1",
		UserID:     "alice",
		TargetType: domain.MarriageTargetCharacter,
		TargetID:   character.ID,
	})
	require.NoError(t, err)

	// Divorce clears the marriage but the claim survives.
	got, err := repos.Character.GetByID(ctx, character.ID)
	require.NoError(t, err)
	assert.Nil(t, got.MarriedTo)
	testutil.AssertClaimedBy(t, got, "alice")

	rows, err := repos.Marriage.ListByUser(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, rows)

	// Marriage cost plus divorce cost.
	debits := bank.Debits()
	require.Len(t, debits, 2)
	assert.Equal(t, int64(5000), debits[1].Amount)
}

func TestMarriageService_DivorceNotMarried(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	svc, bank, _, _ := newMarriageFixture(t, testDB)
	ctx := context.Background()

	bank.SetBalance("alice", 50000)

	err := svc.Divorce(ctx, service.DivorceInput{
		GuildID:    "guild1",
		UserID:     "alice",
		TargetType: domain.MarriageTargetUser,
		TargetID:   "bob",
	})
	assert.ErrorIs(t, err, domain.ErrNotMarried)
	assert.Empty(t, bank.Debits())
}

func TestMarriageService_MutualDivorceRemovesBothRows(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	svc, bank, _, _ := newMarriageFixture(t, testDB)
	ctx := context.Background()

	bank.SetBalance("alice", 50000)
	bank.SetBalance("bob", 50000)

	proposal, err := svc.Propose(ctx, service.ProposeInput{GuildID: "guild1", ProposerID: "alice", TargetUserID: "bob"})
	require.NoError(t, err)
	_, err = svc.Respond(ctx, proposal.ID, "bob", true)
	require.NoError(t, err)

	err = svc.Divorce(ctx, service.DivorceInput{
		GuildID:    "guild1",
		UserID:     "alice",
		TargetType: domain.MarriageTargetUser,
		TargetID:   "bob",
	})
	require.NoError(t, err)

	aliceRows, err := repos.Marriage.ListByUser(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, aliceRows)

	bobRows, err := repos.Marriage.ListByUser(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, bobRows, "one side divorcing dissolves both directions")
}
