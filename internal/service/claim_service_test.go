package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/paimonworks/harem-service/internal/domain"
	"github.com/paimonworks/harem-service/internal/repository/postgres"
	"github.com/paimonworks/harem-service/internal/service"
	"github.com/paimonworks/harem-service/internal/session"
	"github.com/paimonworks/harem-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimService_Claim(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	sessions := session.NewManager(time.Minute, nil)
	defer sessions.Stop()
	publisher := testutil.NewCapturePublisher()
	notifier := testutil.NewFakeNotifier()
	svc := service.NewClaimService(repos.Character, repos.Profile, repos.Wishlist, repos.Guild, sessions, notifier, publisher)
	ctx := context.Background()

	chars := testutil.NewCharacterBuilder().BuildMany(t, repos.Character, 3)
	sess := sessions.Open("guild1", "alice", chars)

	result, err := svc.Claim(ctx, service.ClaimInput{SessionID: sess.ID, UserID: "bob", Symbol: "2"})
	require.NoError(t, err)
	assert.Equal(t, domain.RollSessionClosed, result.Session.Status)
	testutil.AssertClaimedBy(t, result.Character, "bob")

	// Claim is durable in the catalog.
	got, err := repos.Character.GetByID(ctx, result.Character.ID)
	require.NoError(t, err)
	testutil.AssertClaimedBy(t, got, "bob")

	// And counted on the profile.
	profile, err := repos.Profile.GetOrCreate(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, profile.SuccessfulClaims)

	events := publisher.EventsNamed(service.EventRollClaimed)
	require.Len(t, events, 1)
}

func TestClaimService_ClaimAlreadyClaimedCharacter(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	sessions := session.NewManager(time.Minute, nil)
	defer sessions.Stop()
	svc := service.NewClaimService(repos.Character, repos.Profile, repos.Wishlist, repos.Guild, sessions, testutil.NewFakeNotifier(), testutil.NewCapturePublisher())
	ctx := context.Background()

	chars := testutil.NewCharacterBuilder().BuildMany(t, repos.Character, 2)
	sess := sessions.Open("guild1", "alice", chars)

	// Someone outside the session wins the catalog race first.
	won, err := repos.Character.Claim(ctx, chars[0].ID, "carol")
	require.NoError(t, err)
	require.True(t, won)

	_, err = svc.Claim(ctx, service.ClaimInput{SessionID: sess.ID, UserID: "bob", Symbol: "1"})
	assert.ErrorIs(t, err, domain.ErrCharacterClaimed)

	// The session survives the lost race; the other slot still wins.
	result, err := svc.Claim(ctx, service.ClaimInput{SessionID: sess.ID, UserID: "bob", Symbol: "2"})
	require.NoError(t, err)
	assert.Equal(t, chars[1].ID, result.Character.ID)
}

func TestClaimService_WishlistFanOut(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	sessions := session.NewManager(time.Minute, nil)
	defer sessions.Stop()
	publisher := testutil.NewCapturePublisher()
	notifier := testutil.NewFakeNotifier()
	svc := service.NewClaimService(repos.Character, repos.Profile, repos.Wishlist, repos.Guild, sessions, notifier, publisher)
	ctx := context.Background()

	character := testutil.NewCharacterBuilder().WithName("Zero Two").Build(t, repos.Character)

	// carol wants her, bob (the claimer) does too and must not be
	// pinged about his own claim.
	require.NoError(t, repos.Wishlist.Add(ctx, &domain.WishlistEntry{UserID: "carol", CharacterName: "Zero Two"}))
	require.NoError(t, repos.Wishlist.Add(ctx, &domain.WishlistEntry{UserID: "bob", CharacterName: "Zero Two"}))

	sess := sessions.Open("guild1", "alice", []*domain.Character{character})
	_, err := svc.Claim(ctx, service.ClaimInput{SessionID: sess.ID, UserID: "bob", Symbol: "1"})
	require.NoError(t, err)

	// Fan-out runs detached; poll briefly.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(notifier.Messages()) > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	messages := notifier.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, "carol", messages[0].UserID)
	assert.Contains(t, messages[0].Text, "Zero Two")
}
