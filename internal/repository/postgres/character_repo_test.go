package postgres_test

import (
	"context"
	"sync"
	"testing"

	"github.com/paimonworks/harem-service/internal/domain"
	"github.com/paimonworks/harem-service/internal/repository/postgres"
	"github.com/paimonworks/harem-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCharacterRepository_CreateAssignsSequentialIDs(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewCharacterRepository(testDB.DB)
	ctx := context.Background()

	first := &domain.Character{Name: "Rem", Anime: "Re:Zero", Gender: domain.GenderFemale, Rarity: domain.RarityEpic}
	require.NoError(t, repo.Create(ctx, first))
	assert.Equal(t, "1", first.ID)

	second := &domain.Character{Name: "Ram", Anime: "Re:Zero", Gender: domain.GenderFemale, Rarity: domain.RarityRare}
	require.NoError(t, repo.Create(ctx, second))
	assert.Equal(t, "2", second.ID)

	// IDs come from max+1, so only a freed tail ID gets handed out
	// again.
	deleted, err := repo.Delete(ctx, "2")
	require.NoError(t, err)
	assert.True(t, deleted)

	third := &domain.Character{Name: "Emilia", Anime: "Re:Zero", Gender: domain.GenderFemale, Rarity: domain.RarityLegendary}
	require.NoError(t, repo.Create(ctx, third))
	assert.Equal(t, "2", third.ID, "max+1 assignment reuses the freed tail ID")
}

func TestCharacterRepository_ClaimIsFirstWriterWins(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewCharacterRepository(testDB.DB)
	ctx := context.Background()

	character := testutil.NewCharacterBuilder().WithName("Goku").Build(t, repo)

	won, err := repo.Claim(ctx, character.ID, "alice")
	require.NoError(t, err)
	assert.True(t, won)

	// Second claimant loses without touching the row.
	won, err = repo.Claim(ctx, character.ID, "bob")
	require.NoError(t, err)
	assert.False(t, won)

	got, err := repo.GetByID(ctx, character.ID)
	require.NoError(t, err)
	testutil.AssertClaimedBy(t, got, "alice")
}

func TestCharacterRepository_ClaimConcurrent(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewCharacterRepository(testDB.DB)
	ctx := context.Background()

	character := testutil.NewCharacterBuilder().Build(t, repo)

	const claimants = 20
	results := make([]bool, claimants)
	var wg sync.WaitGroup
	for i := 0; i < claimants; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			won, err := repo.Claim(ctx, character.ID, string(rune('a'+n)))
			if err == nil {
				results[n] = won
			}
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, won := range results {
		if won {
			winners++
		}
	}
	assert.Equal(t, 1, winners, "exactly one concurrent claim may succeed")
}

func TestCharacterRepository_ReleaseAndMarry(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewCharacterRepository(testDB.DB)
	ctx := context.Background()

	character := testutil.NewCharacterBuilder().Build(t, repo)

	// Marrying an unclaimed character fails the compare-and-set.
	married, err := repo.Marry(ctx, character.ID, "alice")
	require.NoError(t, err)
	assert.False(t, married)

	_, err = repo.Claim(ctx, character.ID, "alice")
	require.NoError(t, err)

	// Only the owner can marry.
	married, err = repo.Marry(ctx, character.ID, "bob")
	require.NoError(t, err)
	assert.False(t, married)

	married, err = repo.Marry(ctx, character.ID, "alice")
	require.NoError(t, err)
	assert.True(t, married)

	got, err := repo.GetByID(ctx, character.ID)
	require.NoError(t, err)
	require.NotNil(t, got.MarriedTo)
	assert.Equal(t, "alice", *got.MarriedTo)
	require.NoError(t, got.Validate())

	// Release clears both claim and marriage.
	released, err := repo.Release(ctx, character.ID)
	require.NoError(t, err)
	assert.True(t, released)

	got, err = repo.GetByID(ctx, character.ID)
	require.NoError(t, err)
	testutil.AssertAvailable(t, got)
}

func TestCharacterRepository_ListAvailableExcludesClaimed(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewCharacterRepository(testDB.DB)
	ctx := context.Background()

	testutil.NewCharacterBuilder().WithGender(domain.GenderFemale).BuildMany(t, repo, 3)
	claimed := testutil.NewCharacterBuilder().WithGender(domain.GenderFemale).Build(t, repo)
	male := testutil.NewCharacterBuilder().WithGender(domain.GenderMale).Build(t, repo)

	_, err := repo.Claim(ctx, claimed.ID, "alice")
	require.NoError(t, err)

	available, err := repo.ListAvailable(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, available, 4)
	for _, c := range available {
		assert.Nil(t, c.ClaimedBy)
	}

	female := domain.GenderFemale
	availableFemale, err := repo.ListAvailable(ctx, &female)
	require.NoError(t, err)
	assert.Len(t, availableFemale, 3)
	for _, c := range availableFemale {
		assert.NotEqual(t, male.ID, c.ID)
	}
}

func TestCharacterRepository_GetByIDNotFound(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewCharacterRepository(testDB.DB)

	_, err := repo.GetByID(context.Background(), "999")
	assert.ErrorIs(t, err, domain.ErrCharacterNotFound)
}

func TestCharacterRepository_ExportImportRoundTrip(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewCharacterRepository(testDB.DB)
	ctx := context.Background()

	a := testutil.NewCharacterBuilder().WithName("Mikasa").WithRarity(domain.RarityEpic).Build(t, repo)
	b := testutil.NewCharacterBuilder().WithName("Levi").WithGender(domain.GenderMale).Build(t, repo)
	_, err := repo.Claim(ctx, a.ID, "alice")
	require.NoError(t, err)

	snapshot, err := repo.ExportAll(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot, 2)

	// Wipe and restore.
	_, err = repo.Delete(ctx, a.ID)
	require.NoError(t, err)
	_, err = repo.Delete(ctx, b.ID)
	require.NoError(t, err)

	require.NoError(t, repo.ImportAll(ctx, snapshot))

	restored, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mikasa", restored.Name)
	assert.Equal(t, domain.RarityEpic, restored.Rarity)
	testutil.AssertClaimedBy(t, restored, "alice")
}

func TestCharacterRepository_Stats(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewCharacterRepository(testDB.DB)
	ctx := context.Background()

	testutil.NewCharacterBuilder().WithRarity(domain.RarityCommon).BuildMany(t, repo, 3)
	testutil.NewCharacterBuilder().WithRarity(domain.RarityLegendary).Build(t, repo)
	claimed := testutil.NewCharacterBuilder().WithRarity(domain.RarityRare).Build(t, repo)
	_, err := repo.Claim(ctx, claimed.ID, "alice")
	require.NoError(t, err)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), stats.Total)
	assert.Equal(t, int64(1), stats.Claimed)
	assert.Equal(t, int64(4), stats.Available)
	assert.Equal(t, int64(3), stats.ByRarity[domain.RarityCommon])
	assert.Equal(t, int64(1), stats.ByRarity[domain.RarityLegendary])
}
